package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MetaCell/sckan-explorer/source"
)

// timeLayout has a fixed width so created_at orders lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// dialect captures the differences between the SQL backends.
type dialect struct {
	name        string
	numbered    bool // $1 placeholders instead of ?
	payloadType string
}

var (
	sqliteDialect   = dialect{name: "sqlite", payloadType: "TEXT"}
	postgresDialect = dialect{name: "postgres", numbered: true, payloadType: "JSONB"}
)

// bind rewrites ? placeholders for dialects that number them.
func (d dialect) bind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d dialect) schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			created_at TEXT NOT NULL,
			status TEXT NOT NULL,
			statement_count INTEGER NOT NULL DEFAULT 0
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS statements (
			reference_uri TEXT NOT NULL,
			snapshot_id TEXT NOT NULL REFERENCES snapshots(id),
			source TEXT NOT NULL,
			payload %s NOT NULL,
			UNIQUE (reference_uri, snapshot_id)
		)`, d.payloadType),
		`CREATE INDEX IF NOT EXISTS statements_source_idx ON statements (source)`,
	}
}

// sqlStore implements Store over database/sql.
type sqlStore struct {
	db      *sql.DB
	dialect dialect
}

func (s *sqlStore) migrate(ctx context.Context) error {
	for _, stmt := range s.dialect.schema() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply %s schema: %w", s.dialect.name, err)
		}
	}
	return nil
}

// ReplaceSnapshot implements Store. The delete of the previous statements,
// the snapshot row and the new statements commit together. When the
// transaction rolls back, a failed snapshot row is recorded in its place.
func (s *sqlStore) ReplaceSnapshot(ctx context.Context, kind source.Kind, records []Record) (_ *Snapshot, err error) {
	if err := validateRecords(records); err != nil {
		return nil, err
	}

	snap := newSnapshot(kind, SnapshotStatusCompleted, len(records))
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		_ = tx.Rollback()
		failed := *snap
		failed.Status = SnapshotStatusFailed
		if ferr := s.insertSnapshot(context.WithoutCancel(ctx), s.db, &failed); ferr != nil {
			err = errors.Join(err, ferr)
		}
	}()

	if _, err = tx.ExecContext(ctx, s.dialect.bind(`DELETE FROM statements WHERE source = ?`), string(kind)); err != nil {
		return nil, fmt.Errorf("delete %s statements: %w", kind, err)
	}

	if err = s.insertSnapshot(ctx, tx, snap); err != nil {
		return nil, err
	}

	insert, err := tx.PrepareContext(ctx, s.dialect.bind(
		`INSERT INTO statements (reference_uri, snapshot_id, source, payload) VALUES (?, ?, ?, ?)`))
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer insert.Close()

	for _, r := range records {
		if _, err = insert.ExecContext(ctx, r.ReferenceURI, snap.ID, string(kind), string(r.Data)); err != nil {
			return nil, fmt.Errorf("insert statement %s: %w", r.ReferenceURI, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return snap, nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *sqlStore) insertSnapshot(ctx context.Context, db execer, snap *Snapshot) error {
	if _, err := db.ExecContext(ctx,
		s.dialect.bind(`INSERT INTO snapshots (id, source, created_at, status, statement_count) VALUES (?, ?, ?, ?, ?)`),
		snap.ID, string(snap.Source), snap.CreatedAt.Format(timeLayout), string(snap.Status), snap.StatementCount,
	); err != nil {
		return fmt.Errorf("insert %s snapshot: %w", snap.Status, err)
	}
	return nil
}

// Snapshots implements Store.
func (s *sqlStore) Snapshots(ctx context.Context, kind source.Kind) ([]*Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.bind(
		`SELECT id, source, created_at, status, statement_count FROM snapshots WHERE source = ? ORDER BY created_at DESC`),
		string(kind))
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []*Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Snapshot implements Store.
func (s *sqlStore) Snapshot(ctx context.Context, id string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx, s.dialect.bind(
		`SELECT id, source, created_at, status, statement_count FROM snapshots WHERE id = ?`), id)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
	}
	return snap, err
}

// Statements implements Store.
func (s *sqlStore) Statements(ctx context.Context, snapshotID string) ([]Record, error) {
	if _, err := s.Snapshot(ctx, snapshotID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, s.dialect.bind(
		`SELECT reference_uri, payload FROM statements WHERE snapshot_id = ? ORDER BY reference_uri`), snapshotID)
	if err != nil {
		return nil, fmt.Errorf("query statements: %w", err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var (
			ref     string
			payload []byte
		)
		if err := rows.Scan(&ref, &payload); err != nil {
			return nil, fmt.Errorf("scan statement: %w", err)
		}
		out = append(out, Record{ReferenceURI: ref, SnapshotID: snapshotID, Data: payload})
	}
	return out, rows.Err()
}

// Statement implements Store.
func (s *sqlStore) Statement(ctx context.Context, snapshotID, referenceURI string) (*Record, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, s.dialect.bind(
		`SELECT payload FROM statements WHERE snapshot_id = ? AND reference_uri = ?`),
		snapshotID, referenceURI).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("statement %s in snapshot %s: %w", referenceURI, snapshotID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query statement: %w", err)
	}
	return &Record{ReferenceURI: referenceURI, SnapshotID: snapshotID, Data: payload}, nil
}

// Close implements Store.
func (s *sqlStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*Snapshot, error) {
	var (
		snap      Snapshot
		kind      string
		status    string
		createdAt string
	)
	if err := row.Scan(&snap.ID, &kind, &createdAt, &status, &snap.StatementCount); err != nil {
		return nil, err
	}
	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at of snapshot %s: %w", snap.ID, err)
	}
	snap.Source = source.Kind(kind)
	snap.Status = SnapshotStatus(status)
	snap.CreatedAt = t
	return &snap, nil
}
