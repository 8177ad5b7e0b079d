package refresh

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/zimmerman-dev/gfdata/config"
	"github.com/zimmerman-dev/gfdata/errors"
)

// MetadataFile is the name of the change-detection record inside the
// staging directory. It is the only file there that survives a run.
const MetadataFile = "metadata.json"

const timestampKey = "DateTimeUpdated"

// Entry records the last successful refresh of one dataset.
type Entry struct {
	UpdatedAt time.Time
	Digest    string
}

// Record is the in-memory change-detection state for all datasets, plus
// the timestamp of the last completed run. It is exclusively owned by the
// refresh run in flight; it is never mutated concurrently.
type Record struct {
	UpdatedAt time.Time
	Entries   map[string]Entry
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{Entries: map[string]Entry{}}
}

// Digest returns the stored content digest for a dataset key.
// ok is false when the dataset has never been refreshed.
func (r *Record) Digest(key string) (digest string, ok bool) {
	entry, ok := r.Entries[key]
	return entry.Digest, ok
}

// Touch records a successful refresh of key at now with the given digest.
func (r *Record) Touch(key, digest string, now time.Time) {
	r.Entries[key] = Entry{UpdatedAt: now, Digest: digest}
}

// wireEntry is the on-disk shape of one dataset's metadata, matching the
// record format the original service wrote.
type wireEntry struct {
	DateTimeUpdated string `json:"DateTimeUpdated"`
	Hash            string `json:"hash"`
}

// MarshalJSON writes the record as a flat object: a top-level
// DateTimeUpdated string next to one {DateTimeUpdated, hash} object per
// dataset key. All values are JSON-safe strings.
func (r *Record) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(r.Entries)+1)
	flat[timestampKey] = r.UpdatedAt.Format(time.RFC3339)
	for key, entry := range r.Entries {
		flat[key] = wireEntry{
			DateTimeUpdated: entry.UpdatedAt.Format(time.RFC3339),
			Hash:            entry.Digest,
		}
	}
	return json.Marshal(flat)
}

// UnmarshalJSON reads the flat record format. Entries that do not decode
// are dropped rather than failing the whole record.
func (r *Record) UnmarshalJSON(data []byte) error {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}

	r.Entries = map[string]Entry{}
	for key, raw := range flat {
		if key == timestampKey {
			var stamp string
			if err := json.Unmarshal(raw, &stamp); err == nil {
				if ts, err := time.Parse(time.RFC3339, stamp); err == nil {
					r.UpdatedAt = ts
				}
			}
			continue
		}

		var entry wireEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			continue
		}
		ts, _ := time.Parse(time.RFC3339, entry.DateTimeUpdated)
		r.Entries[key] = Entry{UpdatedAt: ts, Digest: entry.Hash}
	}
	return nil
}

// MetadataStore loads and saves the metadata record in the staging
// directory.
type MetadataStore struct {
	path   string
	logger *zap.SugaredLogger
	now    func() time.Time // injectable for tests
}

// NewMetadataStore creates a store for <stagingDir>/metadata.json.
func NewMetadataStore(stagingDir string, logger *zap.SugaredLogger) *MetadataStore {
	return &MetadataStore{
		path:   filepath.Join(stagingDir, MetadataFile),
		logger: logger,
		now:    time.Now,
	}
}

// Load reads the persisted record. A missing, unreadable, or malformed
// file is not an error: first-run and corrupted metadata both mean
// "nothing known yet" and yield an empty record.
func (s *MetadataStore) Load() *Record {
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Infow("No existing metadata, starting fresh",
			"path", s.path, "reason", err)
		return NewRecord()
	}

	record := NewRecord()
	if err := json.Unmarshal(data, record); err != nil {
		s.logger.Warnw("Metadata unreadable, starting fresh",
			"path", s.path, "error", err)
		return NewRecord()
	}
	return record
}

// Save stamps the record's run timestamp with the current time and writes
// the full record, replacing any prior content. The write goes through a
// temp file and rename so a failed save never corrupts the previous record.
func (s *MetadataStore) Save(record *Record) error {
	record.UpdatedAt = s.now()

	data, err := json.MarshalIndent(record, "", "    ")
	if err != nil {
		return errors.Wrap(err, "marshal metadata")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), config.DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "create metadata directory %s", filepath.Dir(s.path))
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, config.DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "write metadata temp file %s", tmp)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "replace metadata file %s", s.path)
	}

	s.logger.Infow("Saved metadata", "path", s.path, "datasets", len(record.Entries))
	return nil
}
