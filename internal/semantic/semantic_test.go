package semantic

import (
	"reflect"
	"testing"
)

func TestQueryCompilerAndPreprocessHaveNoEntries(t *testing.T) {
	if entries := (QueryCompiler{}).Entries(); entries != nil {
		t.Fatalf("expected QueryCompiler to have no entries, got %v", entries)
	}
	if entries := (Preprocess{}).Entries(); entries != nil {
		t.Fatalf("expected Preprocess to have no entries, got %v", entries)
	}
}

func TestCompileEntriesOneEntryPerSource(t *testing.T) {
	c := Compile{
		WorkingDir: "/proj",
		Compiler:   "/usr/bin/cc",
		Flags:      []string{"-c", "-Wall"},
		Sources:    []string{"a.c", "b.c"},
		Output:     "a.o",
	}
	entries := c.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected one entry per source, got %d", len(entries))
	}
	for i, src := range c.Sources {
		if entries[i].File != "/proj/"+src {
			t.Fatalf("entry %d: expected file %q, got %q", i, "/proj/"+src, entries[i].File)
		}
		if entries[i].Output != "" {
			t.Fatalf("entry %d: expected output to be suppressed for a multi-source batch, got %q", i, entries[i].Output)
		}
		wantArgs := []string{"/usr/bin/cc", "-c", "-Wall", src}
		if !reflect.DeepEqual(entries[i].Arguments, wantArgs) {
			t.Fatalf("entry %d: got arguments %v, want %v", i, entries[i].Arguments, wantArgs)
		}
	}
}

func TestCompileEntriesCarriesOutputForSingleSource(t *testing.T) {
	c := Compile{WorkingDir: "/proj", Compiler: "/usr/bin/cc", Flags: []string{"-c"}, Sources: []string{"a.c"}, Output: "a.o"}
	entries := c.Entries()
	if len(entries) != 1 || entries[0].Output != "a.o" {
		t.Fatalf("expected the single entry to carry output a.o, got %+v", entries)
	}
}

func TestCompileEntriesResolvesRelativeSourcePath(t *testing.T) {
	c := Compile{WorkingDir: "/proj", Compiler: "cc", Sources: []string{"a.c"}}
	entries := c.Entries()
	if entries[0].File != "/proj/a.c" {
		t.Fatalf("expected relative source to resolve against the working directory, got %q", entries[0].File)
	}

	c.Sources = []string{"/abs/a.c"}
	entries = c.Entries()
	if entries[0].File != "/abs/a.c" {
		t.Fatalf("expected an absolute source path to be left untouched, got %q", entries[0].File)
	}
}

func TestLinkEntries(t *testing.T) {
	l := Link{
		WorkingDir: "/proj",
		Linker:     "/usr/bin/ld",
		Flags:      []string{"-shared"},
		InputFiles: []string{"a.o", "b.o"},
		Output:     "libx.so",
	}
	entries := l.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected exactly one link entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Output != "libx.so" || !reflect.DeepEqual(e.InputFiles, l.InputFiles) {
		t.Fatalf("unexpected link entry: %+v", e)
	}
	want := []string{"/usr/bin/ld", "-shared", "a.o", "b.o"}
	if !reflect.DeepEqual(e.Arguments, want) {
		t.Fatalf("got arguments %v, want %v", e.Arguments, want)
	}
}

func TestArOperationRequiresInputs(t *testing.T) {
	cases := map[ArOperation]bool{
		ArInsert:      true,
		ArQuickAppend: true,
		ArMove:        true,
		ArTable:       false,
		ArExtract:     false,
		ArDelete:      false,
		ArPrint:       false,
	}
	for op, want := range cases {
		if got := op.RequiresInputs(); got != want {
			t.Errorf("%v.RequiresInputs() = %v, want %v", op, got, want)
		}
	}
}

func TestArEntries(t *testing.T) {
	a := Ar{
		WorkingDir: "/proj",
		ArTool:     "/usr/bin/ar",
		Operation:  ArQuickAppend,
		InputFiles: []string{"x.o"},
		Output:     "libmy.a",
	}
	entries := a.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected exactly one archive entry, got %d", len(entries))
	}
	e := entries[0]
	want := []string{"/usr/bin/ar", "q", "x.o"}
	if !reflect.DeepEqual(e.Arguments, want) {
		t.Fatalf("got arguments %v, want %v", e.Arguments, want)
	}
	if e.Operation != "q" || e.Output != "libmy.a" {
		t.Fatalf("unexpected entry fields: %+v", e)
	}
}
