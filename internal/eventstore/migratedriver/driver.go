// Package migratedriver adapts an already-open modernc.org/sqlite
// connection to golang-migrate's database.Driver interface. No published
// migrate driver targets the pure-Go modernc sqlite package, so this is a
// small hand-written shim over the same *sql.DB the event store already
// holds, modeled on migrate's own sqlite3 driver's version-table bookkeeping.
package migratedriver

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/golang-migrate/migrate/v4/database"
)

const versionTable = "schema_migrations"

// Driver wraps an open *sql.DB for golang-migrate.
type Driver struct {
	db *sql.DB
}

// New wraps db, ensuring the migration version table exists.
func New(db *sql.DB) (*Driver, error) {
	d := &Driver{db: db}
	if err := d.ensureVersionTable(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Driver) ensureVersionTable() error {
	_, err := d.db.Exec(fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (version INTEGER NOT NULL, dirty BOOLEAN NOT NULL)`, versionTable))
	if err != nil {
		return fmt.Errorf("migratedriver: create version table: %w", err)
	}
	return nil
}

// Open is unused: the caller always constructs the driver with New over an
// already-open connection, matching how the event store owns its *sql.DB.
func (d *Driver) Open(url string) (database.Driver, error) {
	return nil, fmt.Errorf("migratedriver: Open not supported, construct with New")
}

func (d *Driver) Close() error { return nil }

// Lock is a no-op: the event store is single-writer by construction (§4.6),
// so there is no concurrent migration to guard against.
func (d *Driver) Lock() error   { return nil }
func (d *Driver) Unlock() error { return nil }

func (d *Driver) Run(migration io.Reader) error {
	data, err := io.ReadAll(migration)
	if err != nil {
		return fmt.Errorf("migratedriver: read migration: %w", err)
	}
	if _, err := d.db.Exec(string(data)); err != nil {
		return fmt.Errorf("migratedriver: apply migration: %w", err)
	}
	return nil
}

func (d *Driver) SetVersion(version int, dirty bool) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("migratedriver: begin: %w", err)
	}
	if _, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s`, versionTable)); err != nil {
		tx.Rollback()
		return fmt.Errorf("migratedriver: clear version: %w", err)
	}
	if version >= 0 {
		if _, err := tx.Exec(fmt.Sprintf(`INSERT INTO %s (version, dirty) VALUES (?, ?)`, versionTable), version, dirty); err != nil {
			tx.Rollback()
			return fmt.Errorf("migratedriver: set version: %w", err)
		}
	}
	return tx.Commit()
}

func (d *Driver) Version() (int, bool, error) {
	var version int
	var dirty bool
	row := d.db.QueryRow(fmt.Sprintf(`SELECT version, dirty FROM %s LIMIT 1`, versionTable))
	if err := row.Scan(&version, &dirty); err != nil {
		if err == sql.ErrNoRows {
			return database.NilVersion, false, nil
		}
		return 0, false, fmt.Errorf("migratedriver: read version: %w", err)
	}
	return version, dirty, nil
}

func (d *Driver) Drop() error {
	_, err := d.db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %s`, versionTable))
	if err != nil {
		return fmt.Errorf("migratedriver: drop: %w", err)
	}
	return nil
}
