package session

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rizsotto/citrace/internal/execution"
)

// buildToolEnvVars are the standard build-tool environment variables the
// wrapper strategy knows to rebind, per §4.8.
var buildToolEnvVars = []string{
	"AR", "AS", "CC", "CXX", "CPP", "FC", "M2C", "PC", "LEX", "YACC",
	"LINT", "MAKEINFO", "TEX", "TEXI2DVI", "WEAVE", "CWEAVE", "TANGLE", "CTANGLE",
}

// WrapperStrategy prepends a directory of thin wrapper executables to PATH
// and rewrites known build-tool environment variables to point at them. It
// is the only option on platforms without dynamic-loader preloading, and
// can be forced anywhere with --force-wrapper.
type WrapperStrategy struct {
	WrapperDir     string
	SupervisorPath string
	CollectorURI   string
	Verbose        bool

	// Mapping is basename (the wrapper's own name, e.g. "cc") to the real,
	// resolved absolute path it shadows. It is populated by ChildEnv and
	// consulted by Resolve.
	Mapping map[string]string
}

func (w *WrapperStrategy) env() InterceptEnv {
	return InterceptEnv{
		ReportCommand:     w.SupervisorPath,
		ReportDestination: w.CollectorURI,
		Verbose:           w.Verbose,
	}
}

// Resolve looks up the real tool by the wrapper's own basename in Mapping;
// a bare name not in Mapping is looked up on PATH with WrapperDir left out.
// It then injects the shared intercept environment, per §4.7(a) and (b).
func (w *WrapperStrategy) Resolve(ctx context.Context, exec execution.Execution) (execution.Execution, error) {
	base := filepath.Base(exec.Executable)
	if real, ok := w.Mapping[base]; ok {
		exec.Executable = real
	} else if !strings.ContainsRune(exec.Executable, filepath.Separator) {
		var dirs []string
		for _, dir := range filepath.SplitList(exec.Environment["PATH"]) {
			if dir != w.WrapperDir {
				dirs = append(dirs, dir)
			}
		}
		exec.Executable = resolveAgainstPath(base, strings.Join(dirs, string(filepath.ListSeparator)))
	}
	return injectCommon(ctx, exec, w.env()), nil
}

// ChildEnv prepends WrapperDir to PATH and rewrites every build-tool
// variable the user set to the corresponding wrapper name, recording the
// original resolved path in Mapping for Resolve to consult later.
func (w *WrapperStrategy) ChildEnv(base map[string]string) map[string]string {
	if w.Mapping == nil {
		w.Mapping = make(map[string]string)
	}
	out := w.env().apply(base)

	for _, name := range buildToolEnvVars {
		val, ok := base[name]
		if !ok || val == "" {
			continue
		}
		wrapperName := strings.ToLower(name)
		resolved := resolveAgainstPath(val, base["PATH"])
		w.Mapping[wrapperName] = resolved
		out[name] = filepath.Join(w.WrapperDir, wrapperName)
	}

	out["PATH"] = fmt.Sprintf("%s%c%s", w.WrapperDir, filepath.ListSeparator, base["PATH"])
	return out
}

// resolveAgainstPath resolves name to an absolute path the same way the OS
// would, either because it already contains a separator or by walking the
// given PATH.
func resolveAgainstPath(name, path string) string {
	if filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	for _, dir := range strings.Split(path, string(filepath.ListSeparator)) {
		candidate := filepath.Join(dir, name)
		if _, err := exec.LookPath(candidate); err == nil {
			return candidate
		}
	}
	return name
}
