package grammar

import (
	"reflect"
	"testing"
)

func TestMatchExactWithNOpts(t *testing.T) {
	table := Table{
		"-a": {Spelling: "-a", Match: Exact, Type: Other},
		"-b": {Spelling: "-b", Match: ExactWithSeparateOpts, Type: Other, Count: 1},
		"-c": {Spelling: "-c", Match: ExactWithSeparateOpts, Type: Other, Count: 2},
		"-d": {Spelling: "-d", Match: ExactWithSeparateOpts, Type: Other, Count: 3},
	}
	args := []string{"-a", "-b", "op1", "-c", "op1", "op2", "-d", "op1", "op2", "op3"}

	var got [][]string
	for len(args) > 0 {
		n, _, ok := Match(table, args)
		if !ok {
			t.Fatalf("no match at %v", args)
		}
		got = append(got, args[:n])
		args = args[n:]
	}

	want := [][]string{{"-a"}, {"-b", "op1"}, {"-c", "op1", "op2"}, {"-d", "op1", "op2", "op3"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMatchGluedEqRejectsSeparate(t *testing.T) {
	table := Table{"-b": {Spelling: "-b", Match: ExactWithGluedEqOpt, Type: Other}}

	if _, _, ok := Match(table, []string{"-b=op1"}); !ok {
		t.Fatal("expected -b=op1 to match")
	}
	if _, _, ok := Match(table, []string{"-b", "op1"}); ok {
		t.Fatal("expected -b op1 (separate) to be rejected by a glued-=-only rule")
	}
}

func TestMatchPrefixAcceptsLongerToken(t *testing.T) {
	table := Table{"-a": {Spelling: "-a", Match: Prefix, Type: Other}}

	n, def, ok := Match(table, []string{"-alice"})
	if !ok || n != 1 || def.Spelling != "-a" {
		t.Fatalf("expected -alice to match prefix -a, got n=%d ok=%v", n, ok)
	}
}

func TestMatchGluedOrSeparate(t *testing.T) {
	table := Table{"-l": {Spelling: "-l", Match: ExactWithGluedOrSeparateOpt, Type: Library}}

	if n, _, ok := Match(table, []string{"-lfoo"}); !ok || n != 1 {
		t.Fatalf("expected -lfoo to match as one token, got n=%d ok=%v", n, ok)
	}
	if n, _, ok := Match(table, []string{"-l", "foo"}); !ok || n != 2 {
		t.Fatalf("expected '-l foo' to match as two tokens, got n=%d ok=%v", n, ok)
	}
}

func TestComposeLaterTableWins(t *testing.T) {
	base := Table{"-x": {Spelling: "-x", Match: Exact, Type: Other}}
	override := Table{"-x": {Spelling: "-x", Match: Exact, Type: Source}}

	composed := Compose(base, override)
	if composed["-x"].Type != Source {
		t.Fatalf("expected the later table's definition to win, got %v", composed["-x"].Type)
	}
}

func TestMatchResponseFileMarker(t *testing.T) {
	n, def, ok := Match(Table{}, []string{"@args.txt"})
	if !ok || n != 1 || def.Type != Other {
		t.Fatalf("expected @file marker to match unconditionally, got n=%d ok=%v", n, ok)
	}
}
