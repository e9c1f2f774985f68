// Package config builds the Configuration consumed by the recognizers: a
// read-only snapshot assembled once per run from built-in defaults, an
// optional JSON file, CLI overrides and the recognized environment
// (CC, CXX, FC), matching the lifecycle in spec §3.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rizsotto/citrace/internal/output"
)

// CompilerEntry lets the user register an extra compiler name or rewrite
// the flags an Extending-Wrapper recognizer applies for it.
type CompilerEntry struct {
	Executable    string   `json:"executable"`
	FlagsToAdd    []string `json:"flags_to_add,omitempty"`
	FlagsToRemove []string `json:"flags_to_remove,omitempty"`
}

// OutputFormat mirrors output.format in §3.
type OutputFormat struct {
	CommandAsArray  bool `json:"command_as_array"`
	DropOutputField bool `json:"drop_output_field"`
}

// OutputContent mirrors output.content in §3, plus the run-checks opt-in
// recovered from the original sources (SPEC_FULL §Supplemented Features):
// the existence check only runs when Checks is true.
type OutputContent struct {
	Checks          bool     `json:"include_only_existing_source"`
	DuplicateFilter string   `json:"duplicate_filter_fields"`
	PathsToInclude  []string `json:"paths_to_include,omitempty"`
	PathsToExclude  []string `json:"paths_to_exclude,omitempty"`
}

// Configuration is the full recognizer configuration, built once and
// shared read-only by every recognizer for the duration of a citnames run.
type Configuration struct {
	CompilersToRecognize []CompilerEntry `json:"compilers_to_recognize,omitempty"`
	CompilersToExclude   []string        `json:"compilers_to_exclude,omitempty"`
	Output               struct {
		Format  OutputFormat  `json:"format"`
		Content OutputContent `json:"content"`
	} `json:"output"`
}

// Default returns the built-in configuration: file_output duplicate
// filtering, arguments as an array, no content restrictions.
func Default() Configuration {
	var cfg Configuration
	cfg.Output.Format = OutputFormat{CommandAsArray: true}
	cfg.Output.Content = OutputContent{DuplicateFilter: string(output.DuplicateByFileOutput)}
	return cfg
}

// Load reads a JSON configuration file and merges it over Default().
func Load(path string) (Configuration, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Configuration{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Configuration{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// WithEnvironment folds CC, CXX and FC from env into
// CompilersToRecognize, as the original sources do beyond just CC
// (SPEC_FULL §Supplemented Features).
func (c Configuration) WithEnvironment(env map[string]string) Configuration {
	for _, name := range []string{"CC", "CXX", "FC"} {
		if exe, ok := env[name]; ok && exe != "" {
			c.CompilersToRecognize = append(c.CompilersToRecognize, CompilerEntry{Executable: exe})
		}
	}
	return c
}

// DuplicateFields resolves the configured policy, defaulting to file_output.
func (c Configuration) DuplicateFields() output.DuplicateFields {
	switch output.DuplicateFields(c.Output.Content.DuplicateFilter) {
	case output.DuplicateByFile:
		return output.DuplicateByFile
	case output.DuplicateByAll:
		return output.DuplicateByAll
	default:
		return output.DuplicateByFileOutput
	}
}

// ContentFilter builds the content-filter config for output.ContentFilter.
func (c Configuration) ContentFilter() output.ContentFilterConfig {
	return output.ContentFilterConfig{
		CheckExistence: c.Output.Content.Checks,
		PathsToInclude: c.Output.Content.PathsToInclude,
		PathsToExclude: c.Output.Content.PathsToExclude,
	}
}
