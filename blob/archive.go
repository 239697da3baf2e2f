package blob

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"sort"
)

// SnapshotPrefix returns the key prefix of a snapshot's artifacts.
func SnapshotPrefix(snapshotID string) string {
	return path.Join("snapshots", snapshotID) + "/"
}

// ArchiveSnapshot stores files under snapshots/<snapshotID>/ and returns
// their keys in name order.
func ArchiveSnapshot(ctx context.Context, s Store, snapshotID string, files map[string][]byte) ([]string, error) {
	if snapshotID == "" {
		return nil, fmt.Errorf("archive: empty snapshot id")
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	keys := make([]string, 0, len(names))
	for _, name := range names {
		key := SnapshotPrefix(snapshotID) + name
		if _, err := s.Put(ctx, key, bytes.NewReader(files[name]), "text/csv"); err != nil {
			return keys, fmt.Errorf("archive %s: %w", name, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}
