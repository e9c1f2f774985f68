package argparse

import (
	"reflect"
	"testing"

	"github.com/rizsotto/citrace/internal/grammar"
)

func TestPartitionInvariant(t *testing.T) {
	table := grammar.Table{
		"-o": {Spelling: "-o", Match: grammar.ExactWithSeparateOpts, Type: grammar.KindOfOutputOutput, Count: 1},
		"-c": {Spelling: "-c", Match: grammar.Exact, Type: grammar.KindOfOutputNoLinking},
		"-L": {Spelling: "-L", Match: grammar.ExactWithGluedOrSeparateOpt, Type: grammar.DirectorySearchLibrary},
	}
	parser := OneOf(
		FlagParser(table),
		SourceMatcher(),
		ObjectFileMatcher(),
		LibraryMatcher(),
		EverythingElseMatcher(),
	)

	args := []string{"-c", "-o", "out.o", "main.c", "helper.o", "-Lfoo", "libthing.a", "--weird"}
	flags, err := Repeat(parser)(NewView(args))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	got := Partition(flags)
	if !reflect.DeepEqual(got, args) {
		t.Fatalf("partition invariant violated: got %v, want %v", got, args)
	}
}

func TestSourceMatcherRejectsFlagLikeToken(t *testing.T) {
	p := SourceMatcher()
	if _, _, ok := p(NewView([]string{"-include"})); ok {
		t.Fatal("expected a token starting with '-' never to be classified as a source")
	}
}

func TestObjectFileMatcher(t *testing.T) {
	p := ObjectFileMatcher()
	flag, rest, ok := p(NewView([]string{"main.o", "tail"}))
	if !ok || flag.Type != grammar.ObjectFile || !rest.Empty() && len(rest.Remaining()) != 1 {
		t.Fatalf("expected main.o to be classified as an object file, got ok=%v type=%v", ok, flag.Type)
	}
	if _, _, ok := p(NewView([]string{"main.c"})); ok {
		t.Fatal("expected a .c source not to be classified as an object file")
	}
}

func TestLibraryMatcherVariants(t *testing.T) {
	p := LibraryMatcher()
	for _, name := range []string{"libfoo.a", "libfoo.so", "libfoo.so.1.2", "libfoo.dylib", "foo.dll", "foo.lib"} {
		if _, _, ok := p(NewView([]string{name})); !ok {
			t.Errorf("expected %q to be classified as a library", name)
		}
	}
	if _, _, ok := p(NewView([]string{"main.c"})); ok {
		t.Fatal("expected a source file not to be classified as a library")
	}
}

func TestEverythingElseMatcherIsCatchAll(t *testing.T) {
	p := EverythingElseMatcher()
	flag, rest, ok := p(NewView([]string{"--some-unknown-flag", "tail"}))
	if !ok || flag.Type != grammar.Other {
		t.Fatalf("expected catch-all to classify unknown token as Other, got ok=%v type=%v", ok, flag.Type)
	}
	if len(rest.Remaining()) != 1 || rest.Remaining()[0] != "tail" {
		t.Fatalf("expected catch-all to consume exactly one token, rest=%v", rest.Remaining())
	}
}

func TestRepeatReportsUnparsedResidue(t *testing.T) {
	// A parser set with no catch-all can get stuck on a flag-like token
	// it doesn't recognize; Repeat must surface that as an error rather
	// than silently stopping.
	p := OneOf(SourceMatcher(), ObjectFileMatcher())
	_, err := Repeat(p)(NewView([]string{"main.c", "-unknown"}))
	if err == nil {
		t.Fatal("expected an UnparsedResidue error")
	}
	residue, ok := err.(*UnparsedResidue)
	if !ok {
		t.Fatalf("expected *UnparsedResidue, got %T", err)
	}
	if !reflect.DeepEqual(residue.Tail, []string{"-unknown"}) {
		t.Fatalf("expected residue tail [-unknown], got %v", residue.Tail)
	}
}
