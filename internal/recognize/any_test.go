package recognize

import (
	"context"
	"reflect"
	"testing"

	"github.com/rizsotto/citrace/internal/config"
	"github.com/rizsotto/citrace/internal/execution"
	"github.com/rizsotto/citrace/internal/semantic"
)

func recognizeOrFatal(t *testing.T, exec execution.Execution, cfg config.Configuration) semantic.Semantic {
	t.Helper()
	sem, err := NewAny().Recognize(context.Background(), exec, cfg)
	if err != nil {
		t.Fatalf("unexpected recognition error: %v", err)
	}
	return sem
}

func TestScenario1SimpleCompile(t *testing.T) {
	exec := execution.Execution{
		Executable: "/usr/bin/cc",
		Arguments:  []string{"cc", "-c", "-o", "source.o", "source.c"},
		WorkingDir: "/home/user/project",
	}
	compile := recognizeOrFatal(t, exec, config.Default()).(semantic.Compile)
	if compile.WorkingDir != "/home/user/project" || compile.Compiler != "/usr/bin/cc" {
		t.Fatalf("unexpected dir/compiler: %+v", compile)
	}
	if !reflect.DeepEqual(compile.Flags, []string{"-c"}) {
		t.Fatalf("expected flags [-c], got %v", compile.Flags)
	}
	if !reflect.DeepEqual(compile.Sources, []string{"source.c"}) || compile.Output != "source.o" {
		t.Fatalf("unexpected sources/output: %+v", compile)
	}

	entries := compile.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	e := entries[0]
	if e.File != "/home/user/project/source.c" || e.Directory != "/home/user/project" || e.Output != "source.o" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	want := []string{"/usr/bin/cc", "-c", "source.c"}
	if !reflect.DeepEqual(e.Arguments, want) {
		t.Fatalf("got arguments %v, want %v", e.Arguments, want)
	}
}

func TestScenario2DashCPrependedWithLinkFlags(t *testing.T) {
	exec := execution.Execution{
		Executable: "/usr/bin/cc",
		Arguments:  []string{"cc", "source.c", "-L.", "-lthing", "-o", "exe"},
		WorkingDir: "/home/user/project",
	}
	compile := recognizeOrFatal(t, exec, config.Default()).(semantic.Compile)
	want := []string{"-c", "-L.", "-lthing"}
	if !reflect.DeepEqual(compile.Flags, want) {
		t.Fatalf("got flags %v, want %v", compile.Flags, want)
	}
	if !reflect.DeepEqual(compile.Sources, []string{"source.c"}) || compile.Output != "exe" {
		t.Fatalf("unexpected sources/output: %+v", compile)
	}
}

func TestScenario3IncludePathAugmentation(t *testing.T) {
	exec := execution.Execution{
		Executable: "/usr/bin/cc",
		Arguments:  []string{"cc", "-c", "source.c"},
		WorkingDir: "/home/user/project",
		Environment: map[string]string{
			"CPATH":          "/i1:/i2",
			"C_INCLUDE_PATH": ":/i3",
		},
	}
	compile := recognizeOrFatal(t, exec, config.Default()).(semantic.Compile)
	want := []string{"-c", "-I", "/i1", "-I", "/i2", "-I", ".", "-I", "/i3"}
	if !reflect.DeepEqual(compile.Flags, want) {
		t.Fatalf("got flags %v, want %v", compile.Flags, want)
	}
}

func TestScenario4QueryCompiler(t *testing.T) {
	exec := execution.Execution{
		Executable: "/usr/bin/gcc",
		Arguments:  []string{"gcc", "--version"},
		WorkingDir: "/home/user/project",
	}
	sem := recognizeOrFatal(t, exec, config.Default())
	if _, ok := sem.(semantic.QueryCompiler); !ok {
		t.Fatalf("expected QueryCompiler, got %T", sem)
	}
	if entries := sem.Entries(); len(entries) != 0 {
		t.Fatalf("expected no entries, got %v", entries)
	}
}

func TestScenario5ArQuickAppend(t *testing.T) {
	exec := execution.Execution{
		Executable: "/usr/bin/ar",
		Arguments:  []string{"ar", "qc", "libmy.a", "x.o", "lmy.a", "x.cpp"},
		WorkingDir: "/home/user/project",
	}
	ar := recognizeOrFatal(t, exec, config.Default()).(semantic.Ar)
	if ar.Operation != semantic.ArQuickAppend {
		t.Fatalf("expected quick-append operation, got %v", ar.Operation)
	}
	if ar.Output != "libmy.a" {
		t.Fatalf("expected output libmy.a, got %q", ar.Output)
	}
	want := []string{"x.o", "lmy.a", "x.cpp"}
	if !reflect.DeepEqual(ar.InputFiles, want) {
		t.Fatalf("got input files %v, want %v", ar.InputFiles, want)
	}
}

func TestScenario6CcacheWrapperStrip(t *testing.T) {
	exec := execution.Execution{
		Executable: "/usr/bin/ccache",
		Arguments:  []string{"ccache", "cc", "-c", "src.c"},
		WorkingDir: "/home/user/project",
		Environment: map[string]string{
			"PATH": "/usr/bin:/bin",
		},
	}
	compile := recognizeOrFatal(t, exec, config.Default()).(semantic.Compile)
	if !reflect.DeepEqual(compile.Flags, []string{"-c"}) {
		t.Fatalf("expected flags [-c], got %v", compile.Flags)
	}
	if !reflect.DeepEqual(compile.Sources, []string{"src.c"}) {
		t.Fatalf("expected sources [src.c], got %v", compile.Sources)
	}
}

func TestCompilersToExcludeShortCircuits(t *testing.T) {
	cfg := config.Default()
	cfg.CompilersToExclude = []string{"/usr/bin/cc"}
	exec := execution.Execution{
		Executable: "/usr/bin/cc",
		Arguments:  []string{"cc", "-c", "source.c"},
		WorkingDir: "/home/user/project",
	}
	_, err := NewAny().Recognize(context.Background(), exec, cfg)
	if !IsNotRecognized(err) {
		t.Fatalf("expected excluded compiler to be not-recognized, got %v", err)
	}
}
