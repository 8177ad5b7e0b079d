package refresh

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMetadataStore(t *testing.T) (*MetadataStore, string) {
	t.Helper()
	dir := t.TempDir()
	return NewMetadataStore(dir, zap.NewNop().Sugar()), dir
}

func TestMetadataLoad(t *testing.T) {
	t.Run("missing file yields empty record", func(t *testing.T) {
		store, _ := newMetadataStore(t)
		record := store.Load()
		require.NotNil(t, record)
		assert.Empty(t, record.Entries)
	})

	t.Run("malformed file yields empty record", func(t *testing.T) {
		store, dir := newMetadataStore(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataFile), []byte("{not json"), 0644))

		record := store.Load()
		require.NotNil(t, record)
		assert.Empty(t, record.Entries)
	})

	t.Run("undecodable entry is dropped, rest survives", func(t *testing.T) {
		store, dir := newMetadataStore(t)
		raw := `{
			"DateTimeUpdated": "2026-08-20T10:00:00Z",
			"gf_results": {"DateTimeUpdated": "2026-08-20T10:00:00Z", "hash": "abc"},
			"broken": "not an object"
		}`
		require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataFile), []byte(raw), 0644))

		record := store.Load()
		digest, ok := record.Digest("gf_results")
		assert.True(t, ok)
		assert.Equal(t, "abc", digest)
		_, ok = record.Digest("broken")
		assert.False(t, ok)
	})
}

func TestMetadataSaveLoadRoundTrip(t *testing.T) {
	store, _ := newMetadataStore(t)

	record := NewRecord()
	touched := time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC)
	record.Touch("gf_results", "deadbeef", touched)

	require.NoError(t, store.Save(record))

	loaded := store.Load()
	digest, ok := loaded.Digest("gf_results")
	require.True(t, ok)
	assert.Equal(t, "deadbeef", digest)
	assert.True(t, loaded.Entries["gf_results"].UpdatedAt.Equal(touched))
	assert.False(t, loaded.UpdatedAt.IsZero(), "run timestamp stamped on save")
}

func TestMetadataSaveStampsRunTimestamp(t *testing.T) {
	store, _ := newMetadataStore(t)
	fixed := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	record := NewRecord()
	require.NoError(t, store.Save(record))
	assert.True(t, record.UpdatedAt.Equal(fixed))
}

func TestMetadataWireFormat(t *testing.T) {
	// The on-disk shape is the flat object the original service produced:
	// a top-level DateTimeUpdated beside per-dataset objects
	store, dir := newMetadataStore(t)

	record := NewRecord()
	record.Touch("gf_results", "cafe", time.Now().UTC())
	require.NoError(t, store.Save(record))

	data, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	require.NoError(t, err)

	var flat map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &flat))
	assert.Contains(t, flat, "DateTimeUpdated")
	assert.Contains(t, flat, "gf_results")

	var entry struct {
		DateTimeUpdated string `json:"DateTimeUpdated"`
		Hash            string `json:"hash"`
	}
	require.NoError(t, json.Unmarshal(flat["gf_results"], &entry))
	assert.Equal(t, "cafe", entry.Hash)
	_, err = time.Parse(time.RFC3339, entry.DateTimeUpdated)
	assert.NoError(t, err, "timestamps serialize as RFC 3339 strings")
}

func TestMetadataSaveOverwrites(t *testing.T) {
	store, dir := newMetadataStore(t)

	first := NewRecord()
	first.Touch("gf_results", "aaaa", time.Now())
	first.Touch("gf_eligibility", "bbbb", time.Now())
	require.NoError(t, store.Save(first))

	second := NewRecord()
	second.Touch("gf_results", "cccc", time.Now())
	require.NoError(t, store.Save(second))

	loaded := store.Load()
	digest, ok := loaded.Digest("gf_results")
	require.True(t, ok)
	assert.Equal(t, "cccc", digest)
	_, ok = loaded.Digest("gf_eligibility")
	assert.False(t, ok, "save replaces the full record")

	// No temp file left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, MetadataFile, entries[0].Name())
}
