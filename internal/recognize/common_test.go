package recognize

import (
	"context"
	"errors"
	"testing"

	"github.com/rizsotto/citrace/internal/config"
	"github.com/rizsotto/citrace/internal/execution"
	"github.com/rizsotto/citrace/internal/semantic"
)

func TestClassifyCompileRejectsNoSourceNoDashC(t *testing.T) {
	// A no-source, no-'-c' invocation (e.g. "cc --version" slipping past
	// isQuery, or a flags-only invocation of a registered alias) must fail
	// recognition rather than silently produce an empty Compile.
	exec := execution.Execution{
		Executable: "/usr/bin/cc",
		Arguments:  []string{"cc", "-Wall", "-DFOO=1"},
		WorkingDir: "/src",
	}
	gcc := NewGCC()
	_, err := gcc.Recognize(context.Background(), exec, config.Default())
	if err == nil {
		t.Fatal("expected an error for a no-source invocation")
	}
	var recErr *RecognizedWithError
	if !errors.As(err, &recErr) {
		t.Fatalf("expected *RecognizedWithError, got %T: %v", err, err)
	}
}

func TestClassifyCompileInsertsDashCWhenMissing(t *testing.T) {
	exec := execution.Execution{
		Executable: "/usr/bin/cc",
		Arguments:  []string{"cc", "main.c", "-o", "main.o"},
		WorkingDir: "/src",
	}
	sem, err := NewGCC().Recognize(context.Background(), exec, config.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	compile, ok := sem.(semantic.Compile)
	if !ok {
		t.Fatalf("expected semantic.Compile, got %T", sem)
	}
	if len(compile.Flags) == 0 || compile.Flags[0] != "-c" {
		t.Fatalf("expected -c to be inserted, got flags %v", compile.Flags)
	}
}

func TestClassifyCompileDoesNotDuplicateDashC(t *testing.T) {
	exec := execution.Execution{
		Executable: "/usr/bin/cc",
		Arguments:  []string{"cc", "-c", "-o", "main.o", "main.c"},
		WorkingDir: "/src",
	}
	sem, err := NewGCC().Recognize(context.Background(), exec, config.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	compile := sem.(semantic.Compile)
	count := 0
	for _, f := range compile.Flags {
		if f == "-c" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one -c flag, got %d in %v", count, compile.Flags)
	}
}

func TestAugmentWithIncludePaths(t *testing.T) {
	args := augmentWithIncludePaths([]string{"main.c"}, map[string]string{
		"CPATH": "/opt/include::/usr/local/include",
	})
	want := []string{"-I", "/opt/include", "-I", ".", "-I", "/usr/local/include", "main.c"}
	if len(args) != len(want) {
		t.Fatalf("got %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("got %v, want %v", args, want)
		}
	}
}

func TestGCCDoesNotMatchUnrelatedExecutable(t *testing.T) {
	exec := execution.Execution{
		Executable: "/usr/bin/python3",
		Arguments:  []string{"python3", "build.py"},
		WorkingDir: "/src",
	}
	_, err := NewGCC().Recognize(context.Background(), exec, config.Default())
	if !IsNotRecognized(err) {
		t.Fatalf("expected ErrNotRecognized, got %v", err)
	}
}
