// Package semantic holds the tagged variants a recognized execution is
// classified into, and their projection into output entries.
package semantic

import (
	"path/filepath"

	"github.com/rizsotto/citrace/internal/output"
)

// Semantic is implemented by every recognized-execution variant. Entries
// projects the variant into zero or more output.Entry values.
type Semantic interface {
	Entries() []output.Entry
}

// QueryCompiler is a version/help invocation; it carries no entries.
type QueryCompiler struct{}

func (QueryCompiler) Entries() []output.Entry { return nil }

// Preprocess is a preprocessor-only invocation (-E/-M family); no entries.
type Preprocess struct{}

func (Preprocess) Entries() []output.Entry { return nil }

// Compile is a recognized compilation: one or more sources compiled with a
// shared set of flags, optionally to a single named output.
type Compile struct {
	WorkingDir string
	Compiler   string
	Flags      []string
	Sources    []string
	Output     string // empty means absent
}

// Entries returns one entry per source. The output field is only carried
// when there is exactly one source, matching a single `-o` applying to a
// single compilation unit.
func (c Compile) Entries() []output.Entry {
	entries := make([]output.Entry, 0, len(c.Sources))
	for _, src := range c.Sources {
		e := output.Entry{
			File:      resolvePath(c.WorkingDir, src),
			Directory: c.WorkingDir,
			Arguments: append(append([]string{c.Compiler}, c.Flags...), src),
		}
		if len(c.Sources) == 1 {
			e.Output = c.Output
		}
		entries = append(entries, e)
	}
	return entries
}

// Link is a recognized link step.
type Link struct {
	WorkingDir string
	Linker     string
	Flags      []string
	InputFiles []string
	Output     string
}

// Entries returns the single link entry.
func (l Link) Entries() []output.Entry {
	return []output.Entry{{
		Directory:  l.WorkingDir,
		Output:     l.Output,
		Arguments:  append(append([]string{l.Linker}, l.Flags...), l.InputFiles...),
		InputFiles: l.InputFiles,
	}}
}

// ArOperation is one of the archive operations recognized by `ar`.
type ArOperation string

const (
	ArInsert      ArOperation = "r"
	ArQuickAppend ArOperation = "q"
	ArTable       ArOperation = "t"
	ArExtract     ArOperation = "x"
	ArDelete      ArOperation = "d"
	ArMove        ArOperation = "m"
	ArPrint       ArOperation = "p"
)

// RequiresInputs reports whether the operation letter requires at least
// one input file (r, q and m do; t, x, d and p act on the archive itself).
func (op ArOperation) RequiresInputs() bool {
	switch op {
	case ArInsert, ArQuickAppend, ArMove:
		return true
	default:
		return false
	}
}

// Ar is a recognized archive-tool invocation.
type Ar struct {
	WorkingDir string
	ArTool     string
	Operation  ArOperation
	Flags      []string
	InputFiles []string
	Output     string
}

// Entries returns the single archive entry; arguments begin with the tool
// and the operation letter, as `ar` invocations are always called that way.
func (a Ar) Entries() []output.Entry {
	args := append([]string{a.ArTool, string(a.Operation)}, a.Flags...)
	args = append(args, a.InputFiles...)
	return []output.Entry{{
		Directory:  a.WorkingDir,
		Output:     a.Output,
		Arguments:  args,
		InputFiles: a.InputFiles,
		Operation:  string(a.Operation),
	}}
}

func resolvePath(workingDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(workingDir, p)
}
