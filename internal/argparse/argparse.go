// Package argparse implements the parser-combinator engine that consumes
// an argument vector against a grammar table, yielding a classified flag
// sequence. It enforces the partition invariant: concatenating the slices
// of a successful parse reproduces the original argument vector exactly.
package argparse

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rizsotto/citrace/internal/grammar"
)

// Flag is one classified slice of the argument vector.
type Flag struct {
	Arguments []string
	Type      grammar.Category
}

// View is an immutable window over the remaining, unconsumed arguments.
type View struct {
	args []string
}

// NewView builds a view over the full argument vector.
func NewView(args []string) View { return View{args: args} }

// Empty reports whether the view has nothing left to consume.
func (v View) Empty() bool { return len(v.args) == 0 }

// Remaining returns the unconsumed tail, for diagnostics on failure.
func (v View) Remaining() []string { return v.args }

func (v View) advance(n int) View { return View{args: v.args[n:]} }

// Parser consumes a prefix of a view, returning the flag it recognized and
// the view advanced past it. ok is false when the parser does not apply
// to the current head of the view.
type Parser func(View) (Flag, View, bool)

// OneOf tries each parser in order and returns the first success.
func OneOf(parsers ...Parser) Parser {
	return func(v View) (Flag, View, bool) {
		for _, p := range parsers {
			if flag, rest, ok := p(v); ok {
				return flag, rest, ok
			}
		}
		return Flag{}, v, false
	}
}

// UnparsedResidue is returned by Repeat when the view is non-empty but no
// parser in the set could consume anything further.
type UnparsedResidue struct {
	Tail []string
}

func (e *UnparsedResidue) Error() string {
	return fmt.Sprintf("unparsed residue: %v", e.Tail)
}

// Repeat applies p until the view is empty, accumulating flags. Any
// non-empty residue once p can no longer advance is reported as an
// UnparsedResidue error rather than silently dropped.
func Repeat(p Parser) func(View) ([]Flag, error) {
	return func(v View) ([]Flag, error) {
		var flags []Flag
		for !v.Empty() {
			flag, rest, ok := p(v)
			if !ok {
				return flags, &UnparsedResidue{Tail: v.Remaining()}
			}
			flags = append(flags, flag)
			v = rest
		}
		return flags, nil
	}
}

// Partition reassembles the original argument vector from a successful
// parse, for verifying the partition invariant in tests.
func Partition(flags []Flag) []string {
	var out []string
	for _, f := range flags {
		out = append(out, f.Arguments...)
	}
	return out
}

// FlagParser matches the grammar table against the head of the view.
func FlagParser(table grammar.Table) Parser {
	return func(v View) (Flag, View, bool) {
		n, def, ok := grammar.Match(table, v.args)
		if !ok {
			return Flag{}, v, false
		}
		return Flag{Arguments: append([]string(nil), v.args[:n]...), Type: def.Type}, v.advance(n), true
	}
}

var sourceExtensions = map[string]bool{
	".c": true, ".cc": true, ".cxx": true, ".cpp": true, ".c++": true, ".C": true,
	".m": true, ".mm": true,
	".cu": true,
	".f":  true, ".for": true, ".f90": true, ".f95": true, ".f03": true, ".f08": true, ".F": true, ".F90": true,
	".d":   true,
	".go":  true,
	".adb": true, ".ads": true,
	".s": true, ".S": true, ".asm": true,
	".i": true, ".ii": true,
}

// SourceMatcher classifies a token as a compilable source file by its
// extension, covering C, C++, Objective-C, CUDA, Fortran, D, Go, Ada,
// assembly and already-preprocessed sources.
func SourceMatcher() Parser {
	return func(v View) (Flag, View, bool) {
		if v.Empty() {
			return Flag{}, v, false
		}
		head := v.args[0]
		if strings.HasPrefix(head, "-") {
			return Flag{}, v, false
		}
		if !sourceExtensions[filepath.Ext(head)] {
			return Flag{}, v, false
		}
		return Flag{Arguments: v.args[:1], Type: grammar.Source}, v.advance(1), true
	}
}

var objectExtensions = map[string]bool{".o": true, ".obj": true}

// ObjectFileMatcher classifies a token as a pre-built object file.
func ObjectFileMatcher() Parser {
	return func(v View) (Flag, View, bool) {
		if v.Empty() {
			return Flag{}, v, false
		}
		head := v.args[0]
		if strings.HasPrefix(head, "-") || !objectExtensions[filepath.Ext(head)] {
			return Flag{}, v, false
		}
		return Flag{Arguments: v.args[:1], Type: grammar.ObjectFile}, v.advance(1), true
	}
}

// LibraryMatcher classifies a token as a library file: .so (optionally
// versioned), .a, .dylib, .dll, .lib, .library.
func LibraryMatcher() Parser {
	return func(v View) (Flag, View, bool) {
		if v.Empty() {
			return Flag{}, v, false
		}
		head := v.args[0]
		if strings.HasPrefix(head, "-") || !isLibraryFile(head) {
			return Flag{}, v, false
		}
		return Flag{Arguments: v.args[:1], Type: grammar.Library}, v.advance(1), true
	}
}

func isLibraryFile(path string) bool {
	base := filepath.Base(path)
	for _, suf := range []string{".a", ".dylib", ".dll", ".lib", ".library"} {
		if strings.HasSuffix(base, suf) {
			return true
		}
	}
	if idx := strings.Index(base, ".so"); idx != -1 {
		rest := base[idx+len(".so"):]
		if rest == "" {
			return true
		}
		if strings.HasPrefix(rest, ".") {
			return true
		}
	}
	return false
}

// EverythingElseMatcher is the catch-all, classifying a single remaining
// token as Other. It must be tried last in a OneOf chain.
func EverythingElseMatcher() Parser {
	return func(v View) (Flag, View, bool) {
		if v.Empty() {
			return Flag{}, v, false
		}
		return Flag{Arguments: v.args[:1], Type: grammar.Other}, v.advance(1), true
	}
}
