// Command citrace-supervisor is exec'd in place of every intercepted tool,
// by both the preload library and the PATH wrappers (§4.8, §4.9). It calls
// the collector's Resolve RPC to get the real executable and an observed
// environment, reports Started, execs the real program, and reports its
// termination once it would have returned control to the caller.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/rizsotto/citrace/internal/buildlog"
	"github.com/rizsotto/citrace/internal/collector"
	"github.com/rizsotto/citrace/internal/execution"
)

func main() {
	os.Exit(run())
}

func run() int {
	args, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "citrace-supervisor:", err)
		return 1
	}

	level := "info"
	if args.verbose {
		level = "debug"
	}
	if _, err := buildlog.Init(buildlog.Options{LogLevel: level}); err != nil {
		fmt.Fprintln(os.Stderr, "citrace-supervisor: init logging:", err)
	}

	ctx := context.Background()
	client := collector.NewClient(args.destination)

	cwd, err := os.Getwd()
	if err != nil {
		slog.ErrorContext(ctx, "supervisor: getwd failed", "err", err)
		return 1
	}

	observed := execution.Execution{
		Executable:  args.execute,
		Arguments:   args.command,
		WorkingDir:  cwd,
		Environment: environToMap(os.Environ()),
	}

	resolved, err := client.Resolve(ctx, observed)
	if err != nil {
		slog.ErrorContext(ctx, "supervisor: resolve failed", "err", err)
		return 1
	}

	pid := os.Getpid()
	started := time.Now()
	if err := client.Report(ctx, execution.StartedEvent(pid, os.Getppid(), started, resolved)); err != nil {
		slog.WarnContext(ctx, "supervisor: report started failed", "err", err)
	}

	cmd := buildCommand(resolved)
	if err := cmd.Start(); err != nil {
		slog.ErrorContext(ctx, "supervisor: start real program failed", "executable", resolved.Executable, "err", err)
		reportTerminated(ctx, client, pid, 127)
		return 127
	}

	sigs := make(chan os.Signal, 4)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	for {
		select {
		case sig := <-sigs:
			if cmd.Process != nil {
				_ = cmd.Process.Signal(sig)
			}
		case waitErr := <-done:
			signal.Stop(sigs)
			return reportAndTranslate(ctx, client, pid, waitErr)
		}
	}
}

func reportAndTranslate(ctx context.Context, client *collector.Client, pid int, waitErr error) int {
	status, signaled, sig := exitInfo(waitErr)
	if signaled {
		if err := client.Report(ctx, execution.SignalledEvent(pid, time.Now(), sig)); err != nil {
			slog.WarnContext(ctx, "supervisor: report signalled failed", "err", err)
		}
		return 128 + sig
	}
	reportTerminated(ctx, client, pid, status)
	return status
}

func reportTerminated(ctx context.Context, client *collector.Client, pid, status int) {
	if err := client.Report(ctx, execution.TerminatedEvent(pid, time.Now(), status)); err != nil {
		slog.WarnContext(ctx, "supervisor: report terminated failed", "err", err)
	}
}

// supervisorArgs is the parsed form of:
//
//	--destination <uri> [--verbose] --execute <real> --command <argv…>
type supervisorArgs struct {
	destination string
	verbose     bool
	execute     string
	command     []string
}

func parseArgs(argv []string) (supervisorArgs, error) {
	var a supervisorArgs
	i := 0
	for i < len(argv) {
		switch argv[i] {
		case "--destination":
			if i+1 >= len(argv) {
				return a, fmt.Errorf("--destination requires a value")
			}
			a.destination = argv[i+1]
			i += 2
		case "--verbose":
			a.verbose = true
			i++
		case "--execute":
			if i+1 >= len(argv) {
				return a, fmt.Errorf("--execute requires a value")
			}
			a.execute = argv[i+1]
			i += 2
		case "--command":
			a.command = argv[i+1:]
			i = len(argv)
		default:
			return a, fmt.Errorf("unexpected argument %q", argv[i])
		}
	}
	if a.destination == "" || a.execute == "" || len(a.command) == 0 {
		return a, fmt.Errorf("usage: --destination <uri> [--verbose] --execute <real> --command <argv...>")
	}
	return a, nil
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

func exitInfo(err error) (status int, signaled bool, sig int) {
	if err == nil {
		return 0, false, 0
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return 1, false, 0
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 0, true, int(ws.Signal())
	}
	return exitErr.ExitCode(), false, 0
}

// buildCommand constructs the exec.Cmd for the resolved real program,
// inheriting the supervisor's own stdio so the build sees it unchanged.
func buildCommand(resolved execution.Execution) *exec.Cmd {
	args := resolved.Arguments
	if len(args) == 0 {
		args = []string{resolved.Executable}
	}
	cmd := exec.Command(resolved.Executable, args[1:]...)
	cmd.Dir = resolved.WorkingDir
	cmd.Env = envSlice(resolved.Environment)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

func envSlice(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	return out
}
