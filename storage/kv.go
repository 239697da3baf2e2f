package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MetaCell/sckan-explorer/source"
	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go/jetstream"
)

// Bucket names used by the KV store.
const (
	BucketSnapshots  = "SCKANNER_SNAPSHOTS"
	BucketStatements = "SCKANNER_STATEMENTS"
)

// KVStore persists snapshots in NATS KV buckets. Statements are keyed by
// "<snapshot id>.<reference hash>" since reference URIs are not valid keys.
type KVStore struct {
	snapshots  jetstream.KeyValue
	statements jetstream.KeyValue
}

// NewKVStore creates a KVStore with the given JetStream context.
// It creates the necessary KV buckets if they don't exist.
func NewKVStore(ctx context.Context, js jetstream.JetStream) (*KVStore, error) {
	snapshots, err := getOrCreateBucket(ctx, js, BucketSnapshots)
	if err != nil {
		return nil, fmt.Errorf("create snapshots bucket: %w", err)
	}

	statements, err := getOrCreateBucket(ctx, js, BucketStatements)
	if err != nil {
		return nil, fmt.Errorf("create statements bucket: %w", err)
	}

	return &KVStore{snapshots: snapshots, statements: statements}, nil
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}

	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: fmt.Sprintf("Sckanner %s storage", strings.ToLower(strings.TrimPrefix(name, "SCKANNER_"))),
		History:     5,
	})
}

func statementKey(snapshotID, referenceURI string) string {
	return snapshotID + "." + source.ContentHash([]byte(referenceURI))
}

// ReplaceSnapshot implements Store. The snapshot is written in_progress
// first and flipped to completed once every statement is stored, or to
// failed when any step errors.
func (s *KVStore) ReplaceSnapshot(ctx context.Context, kind source.Kind, records []Record) (*Snapshot, error) {
	if err := validateRecords(records); err != nil {
		return nil, err
	}

	previous, err := s.Snapshots(ctx, kind)
	if err != nil {
		return nil, err
	}

	snap := newSnapshot(kind, SnapshotStatusInProgress, len(records))
	if err := s.putSnapshot(ctx, snap, true); err != nil {
		return nil, err
	}

	if err := s.fill(ctx, snap, previous, records); err != nil {
		snap.Status = SnapshotStatusFailed
		if perr := s.putSnapshot(ctx, snap, false); perr != nil {
			err = errors.Join(err, perr)
		}
		return nil, err
	}

	snap.Status = SnapshotStatusCompleted
	if err := s.putSnapshot(ctx, snap, false); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *KVStore) fill(ctx context.Context, snap *Snapshot, previous []*Snapshot, records []Record) error {
	for _, old := range previous {
		if err := s.deleteStatements(ctx, old.ID); err != nil {
			return err
		}
	}

	for _, r := range records {
		data, err := json.Marshal(Record{ReferenceURI: r.ReferenceURI, SnapshotID: snap.ID, Data: r.Data})
		if err != nil {
			return fmt.Errorf("marshal statement %s: %w", r.ReferenceURI, err)
		}
		if _, err := s.statements.Put(ctx, statementKey(snap.ID, r.ReferenceURI), data); err != nil {
			return fmt.Errorf("store statement %s: %w", r.ReferenceURI, err)
		}
	}
	return nil
}

func (s *KVStore) putSnapshot(ctx context.Context, snap *Snapshot, create bool) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if create {
		_, err = s.snapshots.Create(ctx, snap.ID, data)
	} else {
		_, err = s.snapshots.Put(ctx, snap.ID, data)
	}
	if err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

func (s *KVStore) deleteStatements(ctx context.Context, snapshotID string) error {
	keys, err := s.statementKeys(ctx, snapshotID)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := s.statements.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete statement %s: %w", key, err)
		}
	}
	return nil
}

func (s *KVStore) statementKeys(ctx context.Context, snapshotID string) ([]string, error) {
	keys, err := s.statements.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("list statement keys: %w", err)
	}
	prefix := snapshotID + "."
	out := keys[:0]
	for _, key := range keys {
		if strings.HasPrefix(key, prefix) {
			out = append(out, key)
		}
	}
	return out, nil
}

// Snapshots implements Store.
func (s *KVStore) Snapshots(ctx context.Context, kind source.Kind) ([]*Snapshot, error) {
	keys, err := s.snapshots.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("list snapshot keys: %w", err)
	}

	var out []*Snapshot
	for _, key := range keys {
		snap, err := s.Snapshot(ctx, key)
		if err != nil {
			continue // Skip entries that fail to load
		}
		if snap.Source == kind {
			out = append(out, snap)
		}
	}
	sortSnapshots(out)
	return out, nil
}

// Snapshot implements Store.
func (s *KVStore) Snapshot(ctx context.Context, id string) (*Snapshot, error) {
	entry, err := s.snapshots.Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(entry.Value(), &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Statements implements Store.
func (s *KVStore) Statements(ctx context.Context, snapshotID string) ([]Record, error) {
	if _, err := s.Snapshot(ctx, snapshotID); err != nil {
		return nil, err
	}
	keys, err := s.statementKeys(ctx, snapshotID)
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(keys))
	for _, key := range keys {
		r, err := s.getStatement(ctx, key)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	sortRecords(out)
	return out, nil
}

// Statement implements Store.
func (s *KVStore) Statement(ctx context.Context, snapshotID, referenceURI string) (*Record, error) {
	r, err := s.getStatement(ctx, statementKey(snapshotID, referenceURI))
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("statement %s in snapshot %s: %w", referenceURI, snapshotID, ErrNotFound)
	}
	return r, err
}

func (s *KVStore) getStatement(ctx context.Context, key string) (*Record, error) {
	entry, err := s.statements.Get(ctx, key)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get statement: %w", err)
	}
	var r Record
	if err := json.Unmarshal(entry.Value(), &r); err != nil {
		return nil, fmt.Errorf("unmarshal statement: %w", err)
	}
	return &r, nil
}

// Close implements Store. The JetStream connection is owned by the caller.
func (s *KVStore) Close() error { return nil }

// isNotFound checks if an error indicates a key was not found.
func isNotFound(err error) bool {
	return errors.Is(err, jetstream.ErrKeyNotFound) || (err != nil && strings.Contains(err.Error(), "key not found"))
}
