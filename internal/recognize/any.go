package recognize

import (
	"context"
	"log/slog"

	"github.com/rizsotto/citrace/internal/config"
	"github.com/rizsotto/citrace/internal/execution"
	"github.com/rizsotto/citrace/internal/semantic"
)

// Any is the top-level dispatcher over an ordered list of recognizers.
// Recognize iterates the list; the first recognizer that either succeeds
// or fails-with-reason wins, otherwise the execution is not-recognized.
// The exclusion set (cfg.CompilersToExclude) short-circuits by executable
// path.
type Any struct {
	Recognizers []Recognizer
}

// NewAny builds the standard recognizer chain: GCC, Clang, NVCC, Intel
// Fortran, Cray, Linker, Ar and, last, the ccache/distcc wrapper (which
// re-enters the same chain once its own name is stripped).
func NewAny() *Any {
	a := &Any{}
	a.Recognizers = []Recognizer{
		NewGCC(),
		NewClang(),
		NewNVCC(),
		NewIntelFortran(),
		NewCray(),
		NewLinker(),
		NewAr(),
		NewWrapper(a.Recognize),
	}
	return a
}

// Recognize implements Dispatch so Any itself can be passed as the
// wrapper's re-dispatch target.
func (a *Any) Recognize(ctx context.Context, exec execution.Execution, cfg config.Configuration) (semantic.Semantic, error) {
	for _, excluded := range cfg.CompilersToExclude {
		if excluded == exec.Executable {
			slog.DebugContext(ctx, "recognize.excluded", "executable", exec.Executable)
			return nil, ErrNotRecognized
		}
	}

	for _, r := range a.Recognizers {
		sem, err := r.Recognize(ctx, exec, cfg)
		switch {
		case err == nil:
			return sem, nil
		case IsNotRecognized(err):
			continue
		default:
			return nil, err
		}
	}
	return nil, ErrNotRecognized
}
