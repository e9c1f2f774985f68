package recognize

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rizsotto/citrace/internal/config"
	"github.com/rizsotto/citrace/internal/execution"
	"github.com/rizsotto/citrace/internal/semantic"
)

var wrapperBasenames = map[string]bool{"ccache": true, "distcc": true}

var wrapperOnlyParams = map[string]bool{
	"--help": true, "--version": true, "--show-hosts": true, "--scan-includes": true,
	"-j": true, "--show-principal": true, "--cleanup": true,
}

// Dispatch is the signature of the function a wrapperRecognizer re-enters
// once it has stripped its own name off the argument vector; Any supplies
// its own Recognize at construction time, so the wrapper re-enters the
// chain that contains it.
type Dispatch func(ctx context.Context, exec execution.Execution, cfg config.Configuration) (semantic.Semantic, error)

type wrapperRecognizer struct {
	next Dispatch
}

// NewWrapper returns the ccache/distcc recognizer. next is the dispatcher
// re-entered with the underlying compiler execution once the wrapper's own
// name has been stripped.
func NewWrapper(next Dispatch) Recognizer {
	return wrapperRecognizer{next: next}
}

func (w wrapperRecognizer) Recognize(ctx context.Context, exec execution.Execution, cfg config.Configuration) (semantic.Semantic, error) {
	if !wrapperBasenames[filepath.Base(exec.Executable)] {
		return nil, ErrNotRecognized
	}
	if len(exec.Arguments) < 2 || isWrapperOnlyParam(exec.Arguments[1]) {
		return semantic.QueryCompiler{}, nil
	}

	underlying := execution.Execution{
		Executable:  resolveUnderlying(exec.Arguments[1], exec.Environment),
		Arguments:   exec.Arguments[1:],
		WorkingDir:  exec.WorkingDir,
		Environment: exec.Environment,
	}
	return w.next(ctx, underlying, cfg)
}

func isWrapperOnlyParam(first string) bool {
	if first == "" || strings.HasPrefix(first, "-") {
		return true
	}
	return wrapperOnlyParams[first]
}

// resolveUnderlying resolves the logical program name the wrapper was told
// to invoke against PATH, falling back to the name itself when it cannot
// be found (the recognizer only needs the basename to match a grammar).
func resolveUnderlying(name string, env map[string]string) string {
	if filepath.IsAbs(name) || strings.Contains(name, string(filepath.Separator)) {
		return name
	}
	pathVar := env["PATH"]
	for _, dir := range strings.Split(pathVar, string(filepath.ListSeparator)) {
		candidate := filepath.Join(dir, name)
		if fileExists(candidate) {
			return candidate
		}
	}
	return name
}
