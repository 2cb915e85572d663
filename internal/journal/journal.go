// Package journal records every payload sent to (or, in a dry run, withheld
// from) the APIC in a local SQLite database.
//
// A revert pushes twice. If it is interrupted between the pushes the journal
// still holds the exact checkpoint payload that was applied.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/yaroslav/dpmigrate/pkg/apic"
	"github.com/yaroslav/dpmigrate/pkg/migrate"
)

// ErrNotFound indicates no journal entry has the requested ID.
var ErrNotFound = errors.New("journal entry not found")

const schema = `
CREATE TABLE IF NOT EXISTS pushes (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT    NOT NULL,
	recorded_at INTEGER NOT NULL,
	tenant      TEXT    NOT NULL,
	app_profile TEXT    NOT NULL,
	actions     TEXT    NOT NULL,
	stage       TEXT    NOT NULL,
	dry_run     INTEGER NOT NULL,
	status      TEXT    NOT NULL,
	error       TEXT    NOT NULL,
	payload     TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_pushes_tenant ON pushes (tenant, recorded_at);
`

// Entry is one journal row.
type Entry struct {
	ID         int64
	RunID      string
	RecordedAt time.Time
	Tenant     string
	App        string
	Actions    string
	Stage      string
	DryRun     bool
	Status     string
	Error      string

	// Payload is the JSON object as it was (or would have been) pushed.
	Payload string
}

// Filter narrows List.
type Filter struct {
	// Tenant restricts entries to one tenant when set.
	Tenant string

	// Limit caps the number of entries; 0 means no limit.
	Limit int
}

// Store is a journal backed by SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ migrate.Journal = (*Store)(nil)

// Open opens or creates the journal database at path.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping journal: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create journal schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores one push record.
func (s *Store) Record(ctx context.Context, rec migrate.PushRecord) error {
	payload, err := json.Marshal(rec.Payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO pushes (run_id, recorded_at, tenant, app_profile, actions, stage, dry_run, status, error, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, s.now().UnixMilli(), rec.Tenant, rec.App, rec.Actions,
		rec.Stage, rec.DryRun, rec.Status, rec.Error, string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to record push: %w", err)
	}
	return nil
}

const selectColumns = `SELECT id, run_id, recorded_at, tenant, app_profile, actions, stage, dry_run, status, error, payload FROM pushes`

// List returns entries newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]Entry, error) {
	query := selectColumns
	var args []interface{}
	if f.Tenant != "" {
		query += ` WHERE tenant = ?`
		args = append(args, f.Tenant)
	}
	query += ` ORDER BY id DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list journal: %w", err)
	}
	return entries, nil
}

// Get returns one entry by ID.
func (s *Store) Get(ctx context.Context, id int64) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// PayloadObject decodes the stored payload.
func (e *Entry) PayloadObject() (apic.Object, error) {
	var o apic.Object
	if err := json.Unmarshal([]byte(e.Payload), &o); err != nil {
		return nil, fmt.Errorf("failed to decode payload of entry %d: %w", e.ID, err)
	}
	return o, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(s scanner) (*Entry, error) {
	var (
		e        Entry
		recorded int64
	)
	err := s.Scan(&e.ID, &e.RunID, &recorded, &e.Tenant, &e.App, &e.Actions,
		&e.Stage, &e.DryRun, &e.Status, &e.Error, &e.Payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan journal entry: %w", err)
	}
	e.RecordedAt = time.UnixMilli(recorded)
	return &e, nil
}
