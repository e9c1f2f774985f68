package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/goombaio/namegenerator"

	"github.com/rizsotto/citrace/internal/collector"
	"github.com/rizsotto/citrace/internal/eventstore"
	"github.com/rizsotto/citrace/internal/execution"
	"github.com/rizsotto/citrace/internal/session"
	"github.com/rizsotto/citrace/internal/tracing"
)

// newSessionID names one intercept run: a UUID for log/trace correlation
// and a short human-readable tag for the wrapper directory, so a user
// scanning a process list or a temp directory can tell sessions apart.
func newSessionID(seed int64) (id string, tag string) {
	return uuid.New().String(), namegenerator.NewNameGenerator(seed).Generate()
}

// RunContext carries nothing today but gives every subcommand's Run method
// a stable binding target, the way the teacher's Context struct does.
type RunContext struct{}

// InterceptCmd implements the `intercept` entry point (§6, C8): build a
// Session, start the Collector, spawn the user's command, and append
// events to the Event Store.
type InterceptCmd struct {
	Output       string `required:"" help:"path to the event store to create." placeholder:"<events-db>"`
	ForcePreload bool   `help:"force the preload strategy even if not auto-selected."`
	ForceWrapper bool   `help:"force the PATH-wrapper strategy."`
	Library      string `help:"path to the preload shared library." placeholder:"<path>"`
	Supervisor   string `help:"path to the citrace-supervisor binary." placeholder:"<path>"`
	Wrapper      string `help:"path to the citrace-wrapper binary." placeholder:"<path>"`
	WrapperDir   string `help:"directory to populate with wrapper executables." placeholder:"<dir>"`
	Verbose      bool   `help:"enable verbose per-execution logging."`

	Command []string `arg:"" optional:"" passthrough:"" help:"the build command to run, after --."`
}

func (c *InterceptCmd) Run(rctx *RunContext) error {
	ctx := context.Background()
	if err := tracing.Setup(ctx, "citrace-intercept"); err != nil {
		return fmt.Errorf("intercept: %w", err)
	}
	defer tracing.Shutdown(ctx)

	if len(c.Command) == 0 {
		return fmt.Errorf("intercept: no command given after --")
	}

	sessionID, sessionTag := newSessionID(time.Now().UnixNano())
	slog.InfoContext(ctx, "intercept: starting session", "session_id", sessionID, "session_tag", sessionTag, "command", c.Command)

	store, err := eventstore.Open(c.Output)
	if err != nil {
		return fmt.Errorf("intercept: %w", err)
	}
	defer store.Close()

	supervisorPath, err := resolveSiblingBinary(c.Supervisor, "citrace-supervisor")
	if err != nil {
		return fmt.Errorf("intercept: %w", err)
	}

	strategy, err := c.buildStrategy(supervisorPath, sessionTag)
	if err != nil {
		return fmt.Errorf("intercept: %w", err)
	}

	srv := collector.New(store, strategy)
	uri, err := srv.Listen()
	if err != nil {
		return fmt.Errorf("intercept: %w", err)
	}
	strategy.setDestination(uri)

	serveCtx, cancelServe := context.WithCancel(ctx)
	defer cancelServe()
	serveDone := make(chan error, 1)
	go func() { serveDone <- srv.Run(serveCtx) }()

	env := strategy.ChildEnv(environToMap(os.Environ()))
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("intercept: %w", err)
	}

	sess := &session.Session{
		Command: c.Command,
		Environ: env,
		Dir:     cwd,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
	code, runErr := sess.Run(ctx)
	cancelServe()
	<-serveDone

	if runErr != nil {
		return fmt.Errorf("intercept: %w", runErr)
	}
	os.Exit(code)
	return nil
}

// buildStrategy selects preload or wrapper per the force flags and
// platform support, per §4.8's selection rule.
func (c *InterceptCmd) buildStrategy(supervisorPath, sessionTag string) (*dynamicStrategy, error) {
	usePreload := session.PreloadSupported() && !c.ForceWrapper
	if c.ForcePreload {
		usePreload = true
	}

	if usePreload {
		libPath, err := resolveSiblingBinary(c.Library, "citrace-preload.so")
		if err != nil {
			return nil, err
		}
		return &dynamicStrategy{preload: &session.PreloadStrategy{
			LibraryPath:    libPath,
			SupervisorPath: supervisorPath,
			Verbose:        c.Verbose,
		}}, nil
	}

	wrapperDir := c.WrapperDir
	if wrapperDir == "" {
		wrapperDir = filepath.Join(os.TempDir(), "citrace-"+sessionTag)
	}
	wrapperBin, err := resolveSiblingBinary(c.Wrapper, "citrace-wrapper")
	if err != nil {
		return nil, err
	}
	if err := populateWrapperDir(wrapperDir, wrapperBin); err != nil {
		return nil, err
	}
	return &dynamicStrategy{wrapper: &session.WrapperStrategy{
		WrapperDir:     wrapperDir,
		SupervisorPath: supervisorPath,
		Verbose:        c.Verbose,
	}}, nil
}

// wrapperToolNames are the recognized tool basenames the wrapper directory
// shims, per the name patterns in §4.3.
var wrapperToolNames = []string{
	"cc", "c++", "cxx", "CC", "gcc", "g++", "clang", "clang++",
	"flang", "nvcc", "ld", "lld", "ar", "ccache", "distcc",
}

func populateWrapperDir(dir, wrapperBin string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create wrapper directory: %w", err)
	}
	for _, name := range wrapperToolNames {
		link := filepath.Join(dir, name)
		os.Remove(link)
		if err := os.Symlink(wrapperBin, link); err != nil {
			return fmt.Errorf("link wrapper %s: %w", name, err)
		}
	}
	return nil
}

// dynamicStrategy adapts whichever concrete strategy was selected to
// session.Strategy, and lets the collector URI be filled in after Listen.
type dynamicStrategy struct {
	preload *session.PreloadStrategy
	wrapper *session.WrapperStrategy
}

func (d *dynamicStrategy) setDestination(uri string) {
	if d.preload != nil {
		d.preload.CollectorURI = uri
	} else {
		d.wrapper.CollectorURI = uri
	}
}

func (d *dynamicStrategy) Resolve(ctx context.Context, exec execution.Execution) (execution.Execution, error) {
	if d.preload != nil {
		return d.preload.Resolve(ctx, exec)
	}
	return d.wrapper.Resolve(ctx, exec)
}

func (d *dynamicStrategy) ChildEnv(base map[string]string) map[string]string {
	if d.preload != nil {
		return d.preload.ChildEnv(base)
	}
	return d.wrapper.ChildEnv(base)
}

func resolveSiblingBinary(override, name string) (string, error) {
	if override != "" {
		abs, err := filepath.Abs(override)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", name, err)
		}
		return abs, nil
	}
	self, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate own executable: %w", err)
	}
	candidate := filepath.Join(filepath.Dir(self), name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	if found, err := exec.LookPath(name); err == nil {
		return found, nil
	}
	return "", fmt.Errorf("cannot locate %s: pass --library/--supervisor/--wrapper explicitly", name)
}

func environToMap(environ []string) map[string]string {
	out := make(map[string]string, len(environ))
	for _, kv := range environ {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				out[kv[:i]] = kv[i+1:]
				break
			}
		}
	}
	return out
}
