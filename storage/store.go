// Package storage persists connectivity statements by snapshot.
//
// Every ingestion run replaces the statements of its source: the previous
// statements are removed, a new snapshot is recorded and the batch is
// stored under it. Snapshots themselves are kept as an audit trail.
package storage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/MetaCell/sckan-explorer/source"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// SnapshotStatus tracks the persistence state of a snapshot.
type SnapshotStatus string

const (
	SnapshotStatusInProgress SnapshotStatus = "in_progress"
	SnapshotStatusCompleted  SnapshotStatus = "completed"
	SnapshotStatusFailed     SnapshotStatus = "failed"
)

// Snapshot identifies one ingestion of a source.
type Snapshot struct {
	ID             string         `json:"id"`
	Source         source.Kind    `json:"source"`
	CreatedAt      time.Time      `json:"created_at"`
	Status         SnapshotStatus `json:"status"`
	StatementCount int            `json:"statement_count"`
}

// Record is one stored statement. Data is the statement JSON.
type Record struct {
	ReferenceURI string          `json:"reference_uri"`
	SnapshotID   string          `json:"snapshot_id,omitempty"`
	Data         json.RawMessage `json:"data"`
}

// Store persists statements by snapshot.
type Store interface {
	// ReplaceSnapshot deletes the statements previously stored for kind,
	// records a new snapshot and stores records under it.
	ReplaceSnapshot(ctx context.Context, kind source.Kind, records []Record) (*Snapshot, error)

	// Snapshots lists the snapshots of kind, newest first.
	Snapshots(ctx context.Context, kind source.Kind) ([]*Snapshot, error)

	// Snapshot returns a snapshot by ID.
	Snapshot(ctx context.Context, id string) (*Snapshot, error)

	// Statements returns the records of a snapshot ordered by reference URI.
	Statements(ctx context.Context, snapshotID string) ([]Record, error)

	// Statement returns one record of a snapshot.
	Statement(ctx context.Context, snapshotID, referenceURI string) (*Record, error)

	// Close releases the underlying resources.
	Close() error
}

// LatestSnapshot returns the newest completed snapshot of kind.
func LatestSnapshot(ctx context.Context, s Store, kind source.Kind) (*Snapshot, error) {
	snapshots, err := s.Snapshots(ctx, kind)
	if err != nil {
		return nil, err
	}
	for _, snap := range snapshots {
		if snap.Status == SnapshotStatusCompleted {
			return snap, nil
		}
	}
	return nil, fmt.Errorf("latest %s snapshot: %w", kind, ErrNotFound)
}

// newSnapshot creates a snapshot for kind with a fresh ID.
func newSnapshot(kind source.Kind, status SnapshotStatus, count int) *Snapshot {
	return &Snapshot{
		ID:             uuid.New().String(),
		Source:         kind,
		CreatedAt:      time.Now().UTC(),
		Status:         status,
		StatementCount: count,
	}
}

// validateRecords rejects records without a reference URI and duplicate
// reference URIs.
func validateRecords(records []Record) error {
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		if r.ReferenceURI == "" {
			return fmt.Errorf("record %d: %w", i, ErrEmptyReference)
		}
		if _, ok := seen[r.ReferenceURI]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateReference, r.ReferenceURI)
		}
		seen[r.ReferenceURI] = struct{}{}
	}
	return nil
}

func sortSnapshots(snapshots []*Snapshot) {
	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].CreatedAt.After(snapshots[j].CreatedAt)
	})
}

func sortRecords(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].ReferenceURI < records[j].ReferenceURI
	})
}
