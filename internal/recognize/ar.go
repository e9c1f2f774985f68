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

var arNamePattern = regexp.MustCompile(`^(ar)\S*$`)

type arRecognizer struct{}

// NewAr returns the `ar` archive-tool recognizer, grounded on ToolAr.cc.
func NewAr() Recognizer { return arRecognizer{} }

func (arRecognizer) Recognize(ctx context.Context, exec execution.Execution, cfg config.Configuration) (semantic.Semantic, error) {
	if !arNamePattern.MatchString(filepath.Base(exec.Executable)) {
		return nil, ErrNotRecognized
	}
	flags, err := argparse.Repeat(argparse.OneOf(
		argparse.FlagParser(ArGrammar),
		argparse.SourceMatcher(),
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

	op, opFound := findOperation(flags)
	if !opFound {
		return nil, recognizedWithErrorf("no valid ar operation")
	}

	var rest []string
	var inputs []string
	var output string
	for _, f := range flags {
		switch f.Type {
		case grammar.Library:
			if output == "" {
				output = f.Arguments[0]
			} else {
				inputs = append(inputs, f.Arguments[0])
			}
		case grammar.Source, grammar.ObjectFile:
			inputs = append(inputs, f.Arguments[0])
		default:
			rest = append(rest, f.Arguments...)
		}
	}

	if op.RequiresInputs() && len(inputs) == 0 {
		return nil, recognizedWithErrorf("input files not found")
	}
	if output == "" {
		return nil, recognizedWithErrorf("archive output not found")
	}

	return semantic.Ar{
		WorkingDir: exec.WorkingDir,
		ArTool:     exec.Executable,
		Operation:  op,
		Flags:      rest,
		InputFiles: inputs,
		Output:     output,
	}, nil
}

// findOperation scans the everything-else flags for the first token whose
// leading character set identifies the ar operation letter (the
// "everything else" bucket is where bare operation strings like "qc" or
// "rcs" land, since they match no grammar entry and are not a file).
func findOperation(flags []argparse.Flag) (semantic.ArOperation, bool) {
	letters := "rqtxdmp"
	for _, f := range flags {
		if f.Type != grammar.Other || len(f.Arguments) != 1 {
			continue
		}
		token := f.Arguments[0]
		if len(token) == 0 || token[0] == '-' {
			continue
		}
		for _, c := range token {
			for _, l := range letters {
				if c == l {
					return semantic.ArOperation(string(c)), true
				}
			}
		}
	}
	return "", false
}
