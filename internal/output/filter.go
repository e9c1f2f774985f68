package output

import (
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ContentFilterConfig mirrors Configuration.output.content (§3).
type ContentFilterConfig struct {
	// CheckExistence enables the "file must exist" test. The original
	// Bear sources only run it when --run-checks is given; when false the
	// check is skipped entirely rather than defaulting to "must exist".
	CheckExistence bool
	PathsToInclude []string
	PathsToExclude []string
}

// ContentFilter accepts or rejects an entry per §4.5's content filter.
func ContentFilter(cfg ContentFilterConfig) func(Entry) bool {
	return func(e Entry) bool {
		if cfg.CheckExistence && e.File != "" {
			if _, err := os.Stat(e.File); err != nil {
				return false
			}
		}
		if len(cfg.PathsToInclude) > 0 && !withinAny(e.File, cfg.PathsToInclude) {
			return false
		}
		if withinAny(e.File, cfg.PathsToExclude) {
			return false
		}
		return true
	}
}

// withinAny reports whether file lies within any of dirs, matching by
// path-element prefix with an optional trailing separator, per §8's
// include-filter test case.
func withinAny(file string, dirs []string) bool {
	for _, dir := range dirs {
		dir = strings.TrimSuffix(dir, "/")
		if file == dir || strings.HasPrefix(file, dir+"/") {
			return true
		}
	}
	return false
}

// DuplicateFields selects which fields of an entry feed the duplicate hash.
type DuplicateFields string

const (
	DuplicateByFile       DuplicateFields = "file"
	DuplicateByFileOutput DuplicateFields = "file_output"
	DuplicateByAll        DuplicateFields = "all"
)

// hashCombine is the standard boost-style combiner used throughout the
// duplicate filter, matching the formula in §4.5 bit for bit.
func hashCombine(h, toCombine uint64) uint64 {
	return h ^ (toCombine + 0x9e3779b9 + (h << 6) + (h >> 2))
}

func h(s string) uint64 { return xxhash.Sum64String(s) }

// hashOf computes the duplicate-filter hash of an entry under the given
// field policy.
func hashOf(e Entry, fields DuplicateFields) uint64 {
	var acc uint64
	acc = hashCombine(acc, h(e.File))
	if fields == DuplicateByFile {
		return acc
	}
	acc = hashCombine(acc, h(e.Output))
	if fields == DuplicateByFileOutput {
		return acc
	}
	for _, arg := range e.Arguments {
		acc = hashCombine(acc, h(arg))
	}
	return acc
}

// DuplicateFilter returns a stateful predicate: the first occurrence of a
// given hash is kept, every subsequent entry with the same hash is dropped.
// Applying the returned predicate to the same sequence twice (after
// resetting) yields the same surviving set, satisfying the idempotence
// property in §8.
func DuplicateFilter(fields DuplicateFields) func(Entry) bool {
	seen := make(map[uint64]struct{})
	return func(e Entry) bool {
		key := hashOf(e, fields)
		if _, ok := seen[key]; ok {
			return false
		}
		seen[key] = struct{}{}
		return true
	}
}

// Apply runs the content filter then the duplicate filter over entries, in
// that order, returning the surviving subsequence.
func Apply(entries []Entry, content func(Entry) bool, duplicate func(Entry) bool) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !content(e) {
			continue
		}
		if !duplicate(e) {
			continue
		}
		out = append(out, e)
	}
	return out
}
