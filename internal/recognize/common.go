// Package recognize holds the per-tool-family recognizers (GCC, Clang,
// NVCC, Intel Fortran, Cray, Linker, Ar, Wrapper, Extending-Wrapper) and
// the Any dispatcher that tries them in order.
package recognize

import (
	"context"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rizsotto/citrace/internal/argparse"
	"github.com/rizsotto/citrace/internal/config"
	"github.com/rizsotto/citrace/internal/execution"
	"github.com/rizsotto/citrace/internal/grammar"
	"github.com/rizsotto/citrace/internal/semantic"
)

// Recognizer decides whether an execution belongs to its tool family and,
// if so, translates it into a semantic record. It returns ErrNotRecognized
// when the execution is not claimed, or a *RecognizedWithError when it is
// claimed but fails one of the family's invariants.
type Recognizer interface {
	Recognize(ctx context.Context, exec execution.Execution, cfg config.Configuration) (semantic.Semantic, error)
}

// compilerFamily implements the shared steps of §4.3 for every GCC-like
// front end: name match, environment augmentation, parse, classify.
type compilerFamily struct {
	label       string
	namePattern *regexp.Regexp
	grammar     grammar.Table
}

func (f compilerFamily) matchesName(exec execution.Execution) bool {
	base := filepath.Base(exec.Executable)
	if f.namePattern.MatchString(base) {
		return true
	}
	// a user-registered compiler alias matches by exact basename too.
	return false
}

func (f compilerFamily) Recognize(ctx context.Context, exec execution.Execution, cfg config.Configuration) (semantic.Semantic, error) {
	if !f.matchesName(exec) && !registeredAs(cfg, exec.Executable) {
		return nil, ErrNotRecognized
	}
	args := augmentWithIncludePaths(exec.Arguments[1:], exec.Environment)
	flags, err := argparse.Repeat(argparse.OneOf(
		argparse.FlagParser(f.grammar),
		argparse.SourceMatcher(),
		argparse.ObjectFileMatcher(),
		argparse.LibraryMatcher(),
		argparse.EverythingElseMatcher(),
	))(argparse.NewView(args))
	if err != nil {
		slog.DebugContext(ctx, "recognize.residue", "family", f.label, "executable", exec.Executable, "err", err)
		return nil, ErrNotRecognized
	}
	flags = applyExtension(cfg, exec.Executable, flags)
	return classifyCompile(exec, flags)
}

// registeredAs reports whether executable matches one of the user-supplied
// compilers_to_recognize entries by exact path or basename.
func registeredAs(cfg config.Configuration, executable string) bool {
	base := filepath.Base(executable)
	for _, c := range cfg.CompilersToRecognize {
		if c.Executable == executable || filepath.Base(c.Executable) == base {
			return true
		}
	}
	return false
}

// applyExtension implements step 6: remove any flags_to_remove exactly and
// append flags_to_add, for a compiler registered with overrides.
func applyExtension(cfg config.Configuration, executable string, flags []argparse.Flag) []argparse.Flag {
	base := filepath.Base(executable)
	for _, c := range cfg.CompilersToRecognize {
		if c.Executable != executable && filepath.Base(c.Executable) != base {
			continue
		}
		if len(c.FlagsToRemove) == 0 && len(c.FlagsToAdd) == 0 {
			continue
		}
		out := make([]argparse.Flag, 0, len(flags))
		for _, fl := range flags {
			if matchesRemoveSet(c.FlagsToRemove, fl.Arguments) {
				continue
			}
			out = append(out, fl)
		}
		if len(c.FlagsToAdd) > 0 {
			out = append(out, argparse.Flag{Arguments: c.FlagsToAdd, Type: grammar.Other})
		}
		return out
	}
	return flags
}

// matchesRemoveSet reports whether a flag's full token sequence exactly
// equals one of the configured flags_to_remove entries.
func matchesRemoveSet(removeSet []string, args []string) bool {
	joined := strings.Join(args, " ")
	for _, r := range removeSet {
		if r == joined {
			return true
		}
	}
	return false
}

// includeVars lists the environment variables consulted for argument
// augmentation, in the order their -I flags are prepended.
var includeVars = []string{"CPATH", "C_INCLUDE_PATH", "CPLUS_INCLUDE_PATH", "OBJC_INCLUDE_PATH"}

// augmentWithIncludePaths implements step 2: prepend -I <dir> for every
// directory named in the include-path environment variables, with empty
// segments (leading/trailing/doubled colons) becoming ".".
func augmentWithIncludePaths(args []string, env map[string]string) []string {
	var prefix []string
	for _, name := range includeVars {
		val, ok := env[name]
		if !ok || val == "" {
			continue
		}
		for _, dir := range strings.Split(val, ":") {
			if dir == "" {
				dir = "."
			}
			prefix = append(prefix, "-I", dir)
		}
	}
	if len(prefix) == 0 {
		return args
	}
	return append(prefix, args...)
}

// noLinkingTypes are the categories that suppress the -c insertion (§4.3
// step 4 and the standardized reading of the Open Question in §9): the
// tool already does not intend to link.
var noLinkingTypes = map[grammar.Category]bool{
	grammar.KindOfOutputNoLinking: true,
	grammar.Preprocessor:          true,
	grammar.PreprocessorMake:      true,
}

func isQuery(flags []argparse.Flag) bool {
	if len(flags) == 0 {
		return true
	}
	for _, f := range flags {
		if f.Type == grammar.KindOfOutputInfo {
			return true
		}
	}
	return false
}

func isPreprocessOnly(flags []argparse.Flag) bool {
	for _, f := range flags {
		if f.Type == grammar.Preprocessor || f.Type == grammar.PreprocessorMake {
			return true
		}
	}
	return false
}

// classifyCompile implements §4.3 step 4 for every compiler-family
// recognizer, ending in the Open Question's standardized resolution:
// insert -c only when sources is non-empty AND no NoLinking marker is
// already present.
func classifyCompile(exec execution.Execution, flags []argparse.Flag) (semantic.Semantic, error) {
	if isQuery(flags) {
		return semantic.QueryCompiler{}, nil
	}
	if isPreprocessOnly(flags) {
		return semantic.Preprocess{}, nil
	}

	var sources []string
	var output string
	var hasNoLinking bool
	var rest []string
	for _, f := range flags {
		switch f.Type {
		case grammar.Source:
			sources = append(sources, f.Arguments[0])
		case grammar.KindOfOutputOutput:
			output = f.Arguments[len(f.Arguments)-1]
		default:
			rest = append(rest, f.Arguments...)
		}
		if noLinkingTypes[f.Type] {
			hasNoLinking = true
		}
	}

	if len(sources) == 0 {
		return nil, recognizedWithErrorf("source files not found")
	}
	if !hasNoLinking {
		rest = append([]string{"-c"}, rest...)
	}

	return semantic.Compile{
		WorkingDir: exec.WorkingDir,
		Compiler:   exec.Executable,
		Flags:      rest,
		Sources:    sources,
		Output:     output,
	}, nil
}
