// Package grammar holds the declarative per-tool flag tables: a mapping
// from flag spelling to a match rule and a semantic category, looked up by
// longest-prefix-with-exact-priority over a tool's argument vector.
package grammar

import "strings"

// Category is the semantic classification attached to a recognized flag.
type Category string

const (
	KindOfOutput           Category = "KindOfOutput"
	KindOfOutputNoLinking  Category = "KindOfOutput-NoLinking"
	KindOfOutputInfo       Category = "KindOfOutput-Info"
	KindOfOutputOutput     Category = "KindOfOutput-Output"
	Preprocessor           Category = "Preprocessor"
	PreprocessorMake       Category = "Preprocessor-Make"
	Linker                 Category = "Linker"
	LinkerObjectFile       Category = "Linker-ObjectFile"
	LinkerLibrary          Category = "Linker-Library"
	LinkerOptionsFlag      Category = "Linker-OptionsFlag"
	LinkerLibraryStatic    Category = "Linker-LibraryStatic"
	DirectorySearch        Category = "DirectorySearch"
	DirectorySearchLibrary Category = "DirectorySearch-Library"
	DirectorySearchLinker  Category = "DirectorySearch-Linker"
	Source                 Category = "Source"
	ObjectFile             Category = "Object-File"
	Library                Category = "Library"
	StaticAnalyzer         Category = "StaticAnalyzer"
	Other                  Category = "Other"
)

// MatchRule enumerates how many, and in what shape, the arguments that
// follow a spelling belong to the same flag.
type MatchRule int

const (
	// Exact requires the token to equal Spelling exactly, no operands.
	Exact MatchRule = iota
	// ExactWithSeparateOpts requires Count further, separate tokens.
	ExactWithSeparateOpts
	// ExactWithGluedOpt requires the operand glued onto Spelling with no separator.
	ExactWithGluedOpt
	// ExactWithGluedEqOpt requires the operand glued on with '='.
	ExactWithGluedEqOpt
	// ExactWithGluedOptEitherOr accepts either glued-with-'=' or a separate token.
	ExactWithGluedOptEitherOr
	// ExactWithGluedOrSeparateOpt accepts either glued-with-no-separator
	// ("-lfoo") or a separate token ("-l foo").
	ExactWithGluedOrSeparateOpt
	// Prefix matches any token that has Spelling as a prefix, no further operands.
	Prefix
	// PrefixWithOpts matches a prefix and additionally consumes Count separate tokens.
	PrefixWithOpts
)

// Definition is one grammar entry: a spelling, how its operands are shaped,
// and the semantic category it carries. Count is only meaningful for the
// *WithSeparateOpts / *WithOpts rules; every rule consumes at least one
// argument.
type Definition struct {
	Spelling string
	Match    MatchRule
	Type     Category
	Count    int
}

// Table is a grammar: spelling to definition. Tables compose by union;
// Compose lets a tool-family grammar be built as GCC ∪ Clang-only ∪ ….
type Table map[string]Definition

// Compose merges any number of tables into one. Later tables win on
// spelling collisions, mirroring how a more specific family's grammar
// overrides a shared base.
func Compose(tables ...Table) Table {
	out := make(Table)
	for _, t := range tables {
		for k, v := range t {
			out[k] = v
		}
	}
	return out
}

// Common holds the terminal '--' marker every grammar must recognize
// regardless of tool family. The '@file' response-file marker is not a
// table entry: Match accepts it for every table.
var Common = Table{
	"--": {Spelling: "--", Match: Exact, Type: Other},
}

// Match looks up the flag at the front of args against the table, applying
// longest-prefix preference with exact match taking priority over a
// shorter or prefix match of equal length. It returns the number of
// tokens the match consumes and the matched definition. ok is false when
// no entry in the table (nor the '@file' convention) matches.
func Match(table Table, args []string) (consumed int, def Definition, ok bool) {
	if len(args) == 0 {
		return 0, Definition{}, false
	}
	head := args[0]

	if strings.HasPrefix(head, "@") && len(head) > 1 {
		return 1, Definition{Spelling: "@", Match: Prefix, Type: Other}, true
	}

	if d, exact := table[head]; exact && matchable(d, head) {
		if n, ok := consume(d, args); ok {
			return n, d, true
		}
	}

	// Longest-prefix search for glued-equals and prefix-family rules.
	bestLen := -1
	var bestConsumed int
	var bestDef Definition
	found := false
	for spelling, d := range table {
		if d.Match != Prefix && d.Match != PrefixWithOpts &&
			d.Match != ExactWithGluedOpt && d.Match != ExactWithGluedEqOpt &&
			d.Match != ExactWithGluedOptEitherOr && d.Match != ExactWithGluedOrSeparateOpt {
			continue
		}
		if !strings.HasPrefix(head, spelling) {
			continue
		}
		if len(spelling) <= bestLen {
			continue
		}
		n, ok := consume(d, args)
		if !ok {
			continue
		}
		bestLen, bestConsumed, bestDef, found = len(spelling), n, d, true
	}
	if found {
		return bestConsumed, bestDef, true
	}
	return 0, Definition{}, false
}

func matchable(d Definition, head string) bool {
	switch d.Match {
	case Exact, ExactWithSeparateOpts:
		return d.Spelling == head
	case ExactWithGluedOpt, ExactWithGluedEqOpt, ExactWithGluedOptEitherOr, ExactWithGluedOrSeparateOpt:
		return strings.HasPrefix(head, d.Spelling)
	default:
		return false
	}
}

// consume decides, given args[0] already matched against d.Spelling,
// whether the full operand shape is present and how many tokens it spans.
func consume(d Definition, args []string) (int, bool) {
	head := args[0]
	switch d.Match {
	case Exact:
		if head != d.Spelling {
			return 0, false
		}
		return 1, true
	case ExactWithSeparateOpts:
		if head != d.Spelling {
			return 0, false
		}
		if len(args) < 1+d.Count {
			return 0, false
		}
		return 1 + d.Count, true
	case ExactWithGluedOpt:
		if !strings.HasPrefix(head, d.Spelling) || len(head) == len(d.Spelling) {
			return 0, false
		}
		return 1, true
	case ExactWithGluedEqOpt:
		rest := strings.TrimPrefix(head, d.Spelling)
		if !strings.HasPrefix(head, d.Spelling) || !strings.HasPrefix(rest, "=") {
			return 0, false
		}
		return 1, true
	case ExactWithGluedOptEitherOr:
		if strings.HasPrefix(head, d.Spelling+"=") {
			return 1, true
		}
		if head == d.Spelling {
			if len(args) < 2 {
				return 0, false
			}
			return 2, true
		}
		return 0, false
	case ExactWithGluedOrSeparateOpt:
		if strings.HasPrefix(head, d.Spelling) && len(head) > len(d.Spelling) {
			return 1, true
		}
		if head == d.Spelling {
			if len(args) < 2 {
				return 0, false
			}
			return 2, true
		}
		return 0, false
	case Prefix:
		if !strings.HasPrefix(head, d.Spelling) {
			return 0, false
		}
		return 1, true
	case PrefixWithOpts:
		if !strings.HasPrefix(head, d.Spelling) {
			return 0, false
		}
		if len(args) < 1+d.Count {
			return 0, false
		}
		return 1 + d.Count, true
	default:
		return 0, false
	}
}
