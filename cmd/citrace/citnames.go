package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/rizsotto/citrace/internal/config"
	"github.com/rizsotto/citrace/internal/eventstore"
	"github.com/rizsotto/citrace/internal/execution"
	"github.com/rizsotto/citrace/internal/output"
	"github.com/rizsotto/citrace/internal/recognize"
	"github.com/rizsotto/citrace/internal/tracing"
)

// CitnamesCmd implements the `citnames` entry point (§6, C3-C5): read the
// Event Store, recognize each Started execution, project to entries, filter,
// and serialize.
type CitnamesCmd struct {
	Input     string `required:"" help:"path to the event store to read." placeholder:"<events-db>"`
	Output    string `required:"" help:"path to the compile_commands.json to write." placeholder:"<path>"`
	Config    string `help:"path to a JSON recognizer configuration." placeholder:"<json>"`
	Append    bool   `help:"merge with any existing output entries."`
	RunChecks bool   `help:"enable the existence-check content filter."`
	Verbose   bool   `help:"log per-execution recognition decisions."`
}

func (c *CitnamesCmd) Run(rctx *RunContext) error {
	ctx := context.Background()
	if err := tracing.Setup(ctx, "citrace-citnames"); err != nil {
		return fmt.Errorf("citnames: %w", err)
	}
	defer tracing.Shutdown(ctx)

	cfg, err := config.Load(c.Config)
	if err != nil {
		return fmt.Errorf("citnames: %w", err)
	}
	if c.RunChecks {
		cfg.Output.Content.Checks = true
	}

	store, err := eventstore.Open(c.Input)
	if err != nil {
		return fmt.Errorf("citnames: %w", err)
	}
	defer store.Close()

	events, err := store.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("citnames: read event store: %w", err)
	}

	any := recognize.NewAny()
	entries := recognizeEntries(ctx, any, events, cfg)

	if c.Append {
		existing, err := loadExisting(c.Output)
		if err != nil {
			return fmt.Errorf("citnames: %w", err)
		}
		entries = append(existing, entries...)
	}

	filtered := output.Apply(entries,
		output.ContentFilter(cfg.ContentFilter()),
		output.DuplicateFilter(cfg.DuplicateFields()))

	data, err := output.Serialize(filtered, output.Format{
		CommandAsArray:  cfg.Output.Format.CommandAsArray,
		DropOutputField: cfg.Output.Format.DropOutputField,
	})
	if err != nil {
		return fmt.Errorf("citnames: %w", err)
	}
	if err := output.WriteAtomic(c.Output, data); err != nil {
		return fmt.Errorf("citnames: %w", err)
	}
	return nil
}

// recognizeEntries walks every Started event's execution through the
// recognizer chain, logging and dropping recognition failures rather than
// aborting the batch (§7).
func recognizeEntries(ctx context.Context, any *recognize.Any, events []execution.Event, cfg config.Configuration) []output.Entry {
	var entries []output.Entry
	for _, ev := range events {
		if ev.Kind != execution.Started || ev.Execution == nil {
			continue
		}
		runCfg := cfg.WithEnvironment(ev.Execution.Environment)
		sem, err := any.Recognize(ctx, *ev.Execution, runCfg)
		if err != nil {
			slog.DebugContext(ctx, "citnames.dropped", "pid", ev.Pid, "executable", ev.Execution.Executable, "err", err)
			continue
		}
		slog.DebugContext(ctx, "citnames.recognized", "pid", ev.Pid, "executable", ev.Execution.Executable, "kind", fmt.Sprintf("%T", sem))
		entries = append(entries, sem.Entries()...)
	}
	return entries
}

func loadExisting(path string) ([]output.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read existing output: %w", err)
	}
	return output.Deserialize(data)
}
