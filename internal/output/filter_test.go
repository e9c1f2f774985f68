package output

import "testing"

func TestContentFilterIncludeExclude(t *testing.T) {
	cfg := ContentFilterConfig{PathsToInclude: []string{"/proj/src"}}
	filter := ContentFilter(cfg)

	if !filter(Entry{File: "/proj/src/a.c"}) {
		t.Fatal("expected a file within the include list to be accepted")
	}
	if filter(Entry{File: "/proj/other/a.c"}) {
		t.Fatal("expected a file outside the include list to be rejected")
	}

	cfgTrailingSlash := ContentFilterConfig{PathsToInclude: []string{"/proj/src/"}}
	if !ContentFilter(cfgTrailingSlash)(Entry{File: "/proj/src/a.c"}) {
		t.Fatal("expected a trailing-slash include entry to still match")
	}
}

func TestContentFilterExcludeWins(t *testing.T) {
	cfg := ContentFilterConfig{
		PathsToInclude: []string{"/proj/src"},
		PathsToExclude: []string{"/proj/src"},
	}
	if ContentFilter(cfg)(Entry{File: "/proj/src/a.c"}) {
		t.Fatal("expected exclude to reject a file also matched by include")
	}
}

func TestContentFilterSkipsExistenceCheckByDefault(t *testing.T) {
	cfg := ContentFilterConfig{}
	if !ContentFilter(cfg)(Entry{File: "/no/such/file.c"}) {
		t.Fatal("expected existence check to be skipped when CheckExistence is false")
	}
}

func TestContentFilterChecksExistenceWhenEnabled(t *testing.T) {
	cfg := ContentFilterConfig{CheckExistence: true}
	if ContentFilter(cfg)(Entry{File: "/no/such/file.c"}) {
		t.Fatal("expected a nonexistent file to be rejected when CheckExistence is true")
	}
}

func TestDuplicateFilterFileOutputPolicyCollapses(t *testing.T) {
	a := Entry{File: "main.c", Output: "main.o", Arguments: []string{"cc", "-c", "main.c"}}
	b := Entry{File: "main.c", Output: "main.o", Arguments: []string{"cc", "-Wall", "-c", "main.c"}}

	dup := DuplicateFilter(DuplicateByFileOutput)
	if !dup(a) {
		t.Fatal("expected the first occurrence to survive")
	}
	if dup(b) {
		t.Fatal("expected a second entry differing only in flags to be collapsed under file_output")
	}
}

func TestDuplicateFilterAllPolicyKeepsBoth(t *testing.T) {
	a := Entry{File: "main.c", Output: "main.o", Arguments: []string{"cc", "-c", "main.c"}}
	b := Entry{File: "main.c", Output: "main.o", Arguments: []string{"cc", "-Wall", "-c", "main.c"}}

	dup := DuplicateFilter(DuplicateByAll)
	if !dup(a) || !dup(b) {
		t.Fatal("expected both entries to survive under the all policy since arguments differ")
	}
}

func TestFilterIdempotence(t *testing.T) {
	entries := []Entry{
		{File: "main.c", Output: "main.o", Arguments: []string{"cc", "-c", "main.c"}},
		{File: "main.c", Output: "main.o", Arguments: []string{"cc", "-Wall", "-c", "main.c"}},
		{File: "helper.c", Output: "helper.o", Arguments: []string{"cc", "-c", "helper.c"}},
	}

	once := Apply(entries, ContentFilter(ContentFilterConfig{}), DuplicateFilter(DuplicateByFileOutput))
	twice := Apply(once, ContentFilter(ContentFilterConfig{}), DuplicateFilter(DuplicateByFileOutput))

	if len(once) != 2 {
		t.Fatalf("expected two surviving entries after one pass, got %d", len(once))
	}
	if len(twice) != len(once) {
		t.Fatalf("expected filtering an already-filtered set to be a fixed point, got %d vs %d", len(twice), len(once))
	}
}
