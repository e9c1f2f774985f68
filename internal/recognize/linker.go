package recognize

import (
	"context"
	"path/filepath"
	"regexp"

	"github.com/rizsotto/citrace/internal/argparse"
	"github.com/rizsotto/citrace/internal/config"
	"github.com/rizsotto/citrace/internal/execution"
	"github.com/rizsotto/citrace/internal/grammar"
	"github.com/rizsotto/citrace/internal/semantic"
)

var linkerNamePattern = regexp.MustCompile(`^(ld|lld|ld\.gold|gold|ld\.lld|ld64)\S*$`)

type linkerRecognizer struct{}

// NewLinker returns the ld/lld/gold recognizer.
func NewLinker() Recognizer { return linkerRecognizer{} }

func (linkerRecognizer) Recognize(ctx context.Context, exec execution.Execution, cfg config.Configuration) (semantic.Semantic, error) {
	if !linkerNamePattern.MatchString(filepath.Base(exec.Executable)) {
		return nil, ErrNotRecognized
	}
	flags, err := argparse.Repeat(argparse.OneOf(
		argparse.FlagParser(LinkerGrammar),
		argparse.ObjectFileMatcher(),
		argparse.LibraryMatcher(),
		argparse.EverythingElseMatcher(),
	))(argparse.NewView(exec.Arguments[1:]))
	if err != nil {
		return nil, ErrNotRecognized
	}
	if isQuery(flags) {
		return semantic.QueryCompiler{}, nil
	}

	var inputs []string
	var output string
	var rest []string
	var searchDirs []string
	preferStatic := false
	for _, f := range flags {
		switch f.Type {
		case grammar.ObjectFile:
			inputs = append(inputs, f.Arguments[0])
			rest = append(rest, f.Arguments...)
		case grammar.Library:
			inputs = append(inputs, f.Arguments[0])
			rest = append(rest, f.Arguments...)
		case grammar.KindOfOutputOutput:
			output = f.Arguments[len(f.Arguments)-1]
		case grammar.DirectorySearchLinker:
			searchDirs = append(searchDirs, f.Arguments[len(f.Arguments)-1])
			rest = append(rest, f.Arguments...)
		case grammar.LinkerLibraryStatic:
			preferStatic = true
			rest = append(rest, f.Arguments...)
		case grammar.Linker:
			if len(f.Arguments) == 1 && f.Arguments[0] == "-Bdynamic" {
				preferStatic = false
			}
			rest = append(rest, f.Arguments...)
		case grammar.LinkerLibrary:
			resolved, ok := resolveLibrary(f.Arguments, exec.WorkingDir, searchDirs, exec.Environment, preferStatic)
			if ok {
				inputs = append(inputs, resolved)
			}
			rest = append(rest, f.Arguments...)
		default:
			rest = append(rest, f.Arguments...)
		}
	}

	if len(inputs) == 0 {
		return nil, recognizedWithErrorf("input files not found")
	}

	return semantic.Link{
		WorkingDir: exec.WorkingDir,
		Linker:     exec.Executable,
		Flags:      rest,
		InputFiles: inputs,
		Output:     output,
	}, nil
}
