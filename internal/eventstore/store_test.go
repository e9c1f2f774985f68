package eventstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rizsotto/citrace/internal/execution"
)

func TestAppendAndReadAllPreservesOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	events := []execution.Event{
		execution.StartedEvent(100, 1, now, execution.Execution{
			Executable: "/usr/bin/cc",
			Arguments:  []string{"cc", "-c", "main.c"},
			WorkingDir: "/proj",
		}),
		execution.TerminatedEvent(100, now.Add(time.Second), 0),
	}
	for _, e := range events {
		if err := store.Append(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := store.ReadAll(ctx)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(got) != len(events) {
		t.Fatalf("expected %d events, got %d", len(events), len(got))
	}
	for i := range events {
		if got[i].Pid != events[i].Pid || got[i].Kind != events[i].Kind {
			t.Fatalf("event %d mismatch: got %+v, want %+v", i, got[i], events[i])
		}
	}
	if got[0].Execution == nil || got[0].Execution.Executable != "/usr/bin/cc" {
		t.Fatalf("expected the started event's execution payload to round-trip, got %+v", got[0].Execution)
	}
}

func TestReopenAppliesMigrationsIdempotently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := store.Append(context.Background(), execution.StartedEvent(1, 0, time.Now(), execution.Execution{Executable: "cc"})); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	events, err := reopened.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("read all after reopen: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected the event appended before close to survive reopening, got %d events", len(events))
	}
}
