package session

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/rizsotto/citrace/internal/execution"
)

// PreloadStrategy injects the interception shared library via the
// platform's dynamic loader. It is preferred whenever PreloadSupported
// reports true.
type PreloadStrategy struct {
	LibraryPath    string // absolute path to the preload shared library
	SupervisorPath string // absolute path to citrace-supervisor
	CollectorURI   string
	Verbose        bool
}

func (p PreloadStrategy) env() InterceptEnv {
	return InterceptEnv{
		SessionLibrary:    p.LibraryPath,
		ReportCommand:     p.SupervisorPath,
		ReportDestination: p.CollectorURI,
		Verbose:           p.Verbose,
	}
}

// Resolve injects the shared interception environment. The preload library
// already resolved the real executable locally before spawning the
// supervisor (§4.9 step 1), so Resolve here only needs to keep the child's
// environment wired for observation, not translate its name.
func (p PreloadStrategy) Resolve(ctx context.Context, exec execution.Execution) (execution.Execution, error) {
	return injectCommon(ctx, exec, p.env()), nil
}

// ChildEnv appends (never overwrites) the preload variable so any
// preexisting LD_PRELOAD/DYLD_INSERT_LIBRARIES entries survive, and injects
// the intercept variables the library and supervisor consult.
func (p PreloadStrategy) ChildEnv(base map[string]string) map[string]string {
	out := p.env().apply(base)
	appendPreloadVar(out, p.LibraryPath)
	return out
}

func appendPreloadVar(env map[string]string, library string) {
	switch runtime.GOOS {
	case "darwin":
		env["DYLD_INSERT_LIBRARIES"] = appendColonSeparated(env["DYLD_INSERT_LIBRARIES"], library)
		env["DYLD_FORCE_FLAT_NAMESPACE"] = "1"
	default:
		env["LD_PRELOAD"] = appendColonSeparated(env["LD_PRELOAD"], library)
	}
}

func appendColonSeparated(existing, addition string) string {
	if existing == "" {
		return addition
	}
	parts := strings.Split(existing, ":")
	for _, p := range parts {
		if p == addition {
			return existing
		}
	}
	return fmt.Sprintf("%s:%s", existing, addition)
}
