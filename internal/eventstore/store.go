// Package eventstore implements the durable, append-only, monotonically
// ordered log of Events described in §4.6: one writer (the collector), fed
// by many concurrent client producers over RPC while open, and read back
// once the collector has shut down.
package eventstore

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"

	"github.com/rizsotto/citrace/internal/eventstore/migratedriver"
	"github.com/rizsotto/citrace/internal/execution"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Store is an append-only event log backed by a pure-Go sqlite file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the event store at path and applies any
// pending schema migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("eventstore: open %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("eventstore: enable WAL: %w", err)
	}
	if err := migrateSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrateSchema(db *sql.DB) error {
	source, err := iofs.New(schemaFS, "schema")
	if err != nil {
		return fmt.Errorf("eventstore: load migration source: %w", err)
	}
	driver, err := migratedriver.New(db)
	if err != nil {
		return fmt.Errorf("eventstore: wrap connection for migration: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("eventstore: build migrator: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("eventstore: apply migrations: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

// Append durably persists event. It is used exclusively by the collector
// (§4.6); the event is readable by a later Iterate as soon as Append
// returns.
func (s *Store) Append(ctx context.Context, event execution.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("eventstore: encode event: %w", err)
	}
	sum := blake2b.Sum256(payload)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO events (pid, parent_pid, timestamp, kind, payload, checksum) VALUES (?, ?, ?, ?, ?, ?)`,
		event.Pid, event.ParentPid, event.Timestamp, string(event.Kind), payload, sum[:])
	if err != nil {
		return fmt.Errorf("eventstore: append event for pid %d: %w", event.Pid, err)
	}
	return nil
}

// Cursor iterates events in insertion order.
type Cursor struct {
	rows *sql.Rows
}

// Iterate opens a read-only cursor over the store in insertion order.
// Readers are expected to open the store only after the collector that
// owns it has shut down (§3).
func (s *Store) Iterate(ctx context.Context) (*Cursor, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload, checksum FROM events ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("eventstore: iterate: %w", err)
	}
	return &Cursor{rows: rows}, nil
}

// Next advances the cursor, returning false once the log is exhausted. A
// checksum mismatch is reported as an error rather than silently skipped.
func (c *Cursor) Next() (execution.Event, bool, error) {
	if !c.rows.Next() {
		return execution.Event{}, false, c.rows.Err()
	}
	var payload, checksum []byte
	if err := c.rows.Scan(&payload, &checksum); err != nil {
		return execution.Event{}, false, fmt.Errorf("eventstore: scan row: %w", err)
	}
	sum := blake2b.Sum256(payload)
	if string(sum[:]) != string(checksum) {
		return execution.Event{}, false, fmt.Errorf("eventstore: checksum mismatch reading event log")
	}
	var event execution.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return execution.Event{}, false, fmt.Errorf("eventstore: decode event: %w", err)
	}
	return event, true, nil
}

// Close releases the cursor's underlying rows.
func (c *Cursor) Close() error { return c.rows.Close() }

// ReadAll drains the store into a slice, for batch consumers like citnames.
func (s *Store) ReadAll(ctx context.Context) ([]execution.Event, error) {
	cursor, err := s.Iterate(ctx)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var events []execution.Event
	for {
		event, ok, err := cursor.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		events = append(events, event)
	}
	return events, nil
}
