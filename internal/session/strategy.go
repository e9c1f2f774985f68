// Package session implements the two interception strategies of §4.8 behind
// a common interface, and the top-level supervision loop that spawns the
// build, forwards signals, and waits for it to exit.
package session

import (
	"context"
	"runtime"

	"github.com/rizsotto/citrace/internal/collector"
	"github.com/rizsotto/citrace/internal/execution"
)

// Strategy is the common interface both interception mechanisms implement:
// Resolve answers the supervisor's RPC call for a spawned child (§4.7),
// ChildEnv builds the environment the top-level build process itself is
// launched with.
type Strategy interface {
	collector.Resolver
	ChildEnv(base map[string]string) map[string]string
}

// InterceptEnv are the variables every strategy injects so the supervisor
// and preload library can find the collector and, when forced, turn on
// verbose per-execution logging.
type InterceptEnv struct {
	SessionLibrary    string // absolute path to the preload library, empty for the wrapper strategy
	ReportCommand     string // absolute path to the supervisor binary
	ReportDestination string // collector URI
	Verbose           bool
}

func (e InterceptEnv) apply(env map[string]string) map[string]string {
	out := make(map[string]string, len(env)+4)
	for k, v := range env {
		out[k] = v
	}
	if e.SessionLibrary != "" {
		out["INTERCEPT_SESSION_LIBRARY"] = e.SessionLibrary
	}
	out["INTERCEPT_REPORT_COMMAND"] = e.ReportCommand
	out["INTERCEPT_REPORT_DESTINATION"] = e.ReportDestination
	if e.Verbose {
		out["INTERCEPT_VERBOSE"] = "1"
	} else {
		delete(out, "INTERCEPT_VERBOSE")
	}
	return out
}

// PreloadSupported reports whether the current platform's dynamic loader
// supports library preloading (Linux's LD_PRELOAD, Darwin's
// DYLD_INSERT_LIBRARIES). On any other platform the wrapper strategy is
// the only option.
func PreloadSupported() bool {
	return runtime.GOOS == "linux" || runtime.GOOS == "darwin"
}

// injectCommon merges the intercept environment variables the supervisor
// and preload library need into an execution's own environment, matching
// Resolve's env-injection duty in §4.7.
func injectCommon(ctx context.Context, exec execution.Execution, env InterceptEnv) execution.Execution {
	exec.Environment = env.apply(exec.Environment)
	return exec
}
