package blob

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewFS(filepath.Join(t.TempDir(), "blobs"))
	require.NoError(t, err)
	assert.Equal(t, DriverFilesystem, s.Driver())

	info, err := s.Put(ctx, "a/b.csv", strings.NewReader("x,y\n"), "text/csv")
	require.NoError(t, err)
	assert.Equal(t, int64(4), info.Size)
	assert.Equal(t, "text/csv", info.ContentType)

	// Put overwrites.
	_, err = s.Put(ctx, "a/b.csv", strings.NewReader("z\n"), "text/csv")
	require.NoError(t, err)

	rc, err := s.Get(ctx, "a/b.csv")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "z\n", string(data))

	_, err = s.Put(ctx, "c.csv", bytes.NewReader(nil), "")
	require.NoError(t, err)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a/b.csv", all[0].Key)

	scoped, err := s.List(ctx, "a/")
	require.NoError(t, err)
	assert.Len(t, scoped, 1)

	_, err = s.Get(ctx, "missing.csv")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{key: "snapshots/1/anomalies.csv", want: "snapshots/1/anomalies.csv"},
		{key: "a//b", want: "a/b"},
		{key: "", wantErr: true},
		{key: "/etc/passwd", wantErr: true},
		{key: "../x", wantErr: true},
		{key: "a/../../x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := sanitizeKey(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArchiveSnapshot(t *testing.T) {
	ctx := context.Background()
	s, err := NewFS(t.TempDir())
	require.NoError(t, err)

	keys, err := ArchiveSnapshot(ctx, s, "snap-1", map[string][]byte{
		"ingested.csv":  []byte("id,label,state,reason\n"),
		"anomalies.csv": []byte("severity,statement_id,entity_id,message\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"snapshots/snap-1/anomalies.csv", "snapshots/snap-1/ingested.csv"}, keys)

	listed, err := s.List(ctx, SnapshotPrefix("snap-1"))
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	_, err = ArchiveSnapshot(ctx, s, "", nil)
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = Open(ctx, Options{Driver: "fs", FSRoot: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, DriverFilesystem, s.Driver())

	_, err = Open(ctx, Options{Driver: "gcs"})
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Open(ctx, Options{Driver: "s3"})
	assert.Error(t, err, "bucket is required")
}
