package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-shellwords"
)

// Format mirrors Configuration.output.format (§3).
type Format struct {
	CommandAsArray  bool
	DropOutputField bool
}

// jsonEntry is the wire shape of one entry. Arguments and Command are
// mutually exclusive on output and accepted interchangeably on input.
type jsonEntry struct {
	File       string   `json:"file,omitempty"`
	Directory  string   `json:"directory"`
	Output     string   `json:"output,omitempty"`
	Arguments  []string `json:"arguments,omitempty"`
	Command    string   `json:"command,omitempty"`
	InputFiles []string `json:"input_files,omitempty"`
	Operation  string   `json:"operation,omitempty"`
}

// Serialize renders entries as the JSON compilation-database array
// described in §6, honoring Format.
func Serialize(entries []Entry, format Format) ([]byte, error) {
	wire := make([]jsonEntry, 0, len(entries))
	for _, e := range entries {
		je := jsonEntry{
			File:       e.File,
			Directory:  e.Directory,
			InputFiles: e.InputFiles,
			Operation:  e.Operation,
		}
		if !format.DropOutputField {
			je.Output = e.Output
		}
		if format.CommandAsArray {
			je.Arguments = e.Arguments
		} else {
			je.Command = joinShell(e.Arguments)
		}
		wire = append(wire, je)
	}
	return json.MarshalIndent(wire, "", "  ")
}

// Deserialize parses a compilation-database JSON array, accepting either
// an "arguments" array or a shell-joined "command" string per entry, and
// rejecting entries with any empty required field.
func Deserialize(data []byte) ([]Entry, error) {
	var wire []jsonEntry
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("output: decode compilation database: %w", err)
	}
	entries := make([]Entry, 0, len(wire))
	for i, je := range wire {
		args := je.Arguments
		if len(args) == 0 && je.Command != "" {
			split, err := shellwords.Parse(je.Command)
			if err != nil {
				return nil, fmt.Errorf("output: entry %d: split command: %w", i, err)
			}
			args = split
		}
		if je.Directory == "" || len(args) == 0 {
			return nil, fmt.Errorf("output: entry %d: missing required field", i)
		}
		entries = append(entries, Entry{
			File:       je.File,
			Directory:  je.Directory,
			Output:     je.Output,
			Arguments:  args,
			InputFiles: je.InputFiles,
			Operation:  je.Operation,
		})
	}
	return entries, nil
}

// WriteAtomic writes data to path via a temp file in the same directory,
// syncing before rename so the final file is either the old content or the
// new content in full, never a partial write.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("output: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("output: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("output: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("output: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("output: rename temp file into place: %w", err)
	}
	return nil
}

func joinShell(args []string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = quoteIfNeeded(a)
	}
	return strings.Join(parts, " ")
}

func quoteIfNeeded(s string) string {
	if s == "" {
		return "''"
	}
	needsQuote := strings.ContainsAny(s, " \t\n\"'\\$`")
	if !needsQuote {
		return s
	}
	var b strings.Builder
	b.WriteByte('\'')
	b.WriteString(strings.ReplaceAll(s, "'", `'\''`))
	b.WriteByte('\'')
	return b.String()
}
