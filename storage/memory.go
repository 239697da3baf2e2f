package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/MetaCell/sckan-explorer/source"
)

// MemoryStore keeps snapshots in process memory. It backs dry runs and tests.
type MemoryStore struct {
	mu         sync.RWMutex
	snapshots  map[string]*Snapshot
	statements map[string][]Record // keyed by snapshot ID
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots:  make(map[string]*Snapshot),
		statements: make(map[string][]Record),
	}
}

// ReplaceSnapshot implements Store.
func (m *MemoryStore) ReplaceSnapshot(_ context.Context, kind source.Kind, records []Record) (*Snapshot, error) {
	if err := validateRecords(records); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for id, snap := range m.snapshots {
		if snap.Source == kind {
			delete(m.statements, id)
		}
	}

	snap := newSnapshot(kind, SnapshotStatusCompleted, len(records))
	stored := make([]Record, len(records))
	for i, r := range records {
		stored[i] = Record{ReferenceURI: r.ReferenceURI, SnapshotID: snap.ID, Data: append([]byte(nil), r.Data...)}
	}
	sortRecords(stored)

	m.snapshots[snap.ID] = snap
	m.statements[snap.ID] = stored
	out := *snap
	return &out, nil
}

// Snapshots implements Store.
func (m *MemoryStore) Snapshots(_ context.Context, kind source.Kind) ([]*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Snapshot
	for _, snap := range m.snapshots {
		if snap.Source == kind {
			cp := *snap
			out = append(out, &cp)
		}
	}
	sortSnapshots(out)
	return out, nil
}

// Snapshot implements Store.
func (m *MemoryStore) Snapshot(_ context.Context, id string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.snapshots[id]
	if !ok {
		return nil, fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
	}
	cp := *snap
	return &cp, nil
}

// Statements implements Store.
func (m *MemoryStore) Statements(_ context.Context, snapshotID string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.snapshots[snapshotID]; !ok {
		return nil, fmt.Errorf("snapshot %s: %w", snapshotID, ErrNotFound)
	}
	records := m.statements[snapshotID]
	out := make([]Record, len(records))
	copy(out, records)
	return out, nil
}

// Statement implements Store.
func (m *MemoryStore) Statement(_ context.Context, snapshotID, referenceURI string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.statements[snapshotID] {
		if r.ReferenceURI == referenceURI {
			out := r
			return &out, nil
		}
	}
	return nil, fmt.Errorf("statement %s in snapshot %s: %w", referenceURI, snapshotID, ErrNotFound)
}

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }
