// Package refresh implements change detection and refresh orchestration
// for the configured datasets: fetch, digest comparison, staging,
// preprocessing, and metadata persistence.
package refresh

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zimmerman-dev/gfdata/config"
	"github.com/zimmerman-dev/gfdata/errors"
	"github.com/zimmerman-dev/gfdata/preprocess"
)

// Fetcher retrieves a dataset payload from a remote URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Orchestrator drives refresh runs over the configured dataset table.
//
// The staging directory and metadata record are exclusively owned by the
// run in flight; an internal mutex serializes runs so concurrent API
// calls cannot race on them.
type Orchestrator struct {
	datasets   map[string]string // dataset key -> source URL, immutable
	keys       []string          // sorted for deterministic run order
	stagingDir string
	fetcher    Fetcher
	meta       *MetadataStore
	pre        preprocess.Preprocessor
	logger     *zap.SugaredLogger

	mu sync.Mutex
}

// NewOrchestrator creates an orchestrator over an immutable dataset table.
func NewOrchestrator(
	datasets map[string]string,
	stagingDir string,
	fetcher Fetcher,
	meta *MetadataStore,
	pre preprocess.Preprocessor,
	logger *zap.SugaredLogger,
) *Orchestrator {
	keys := make([]string, 0, len(datasets))
	table := make(map[string]string, len(datasets))
	for key, url := range datasets {
		keys = append(keys, key)
		table[key] = url
	}
	sort.Strings(keys)

	return &Orchestrator{
		datasets:   table,
		keys:       keys,
		stagingDir: stagingDir,
		fetcher:    fetcher,
		meta:       meta,
		pre:        pre,
		logger:     logger,
	}
}

// RefreshAll refreshes every configured dataset in deterministic order.
// The run aborts on the first failing entry: later entries are not
// touched and no metadata is written. Metadata is persisted exactly once,
// after every entry has succeeded.
func (o *Orchestrator) RefreshAll(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	runLog := o.logger.With("run_id", shortID(uuid.NewString()))
	runLog.Infow("Refreshing all datasets", "datasets", len(o.keys))

	record := o.meta.Load()
	for _, key := range o.keys {
		if err := o.refreshEntry(ctx, runLog, record, key, false); err != nil {
			runLog.Warnw("Refresh run aborted", "dataset", key, "error", err)
			return err
		}
	}

	if err := o.meta.Save(record); err != nil {
		return errors.Wrap(err, "save metadata")
	}
	runLog.Infow("Refresh run complete")
	return nil
}

// RefreshOne refreshes a single dataset. An unknown key fails without
// fetching anything or mutating any state. force bypasses the digest
// comparison so an unchanged dataset is still re-preprocessed.
func (o *Orchestrator) RefreshOne(ctx context.Context, key string, force bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.datasets[key]; !ok {
		return errors.Wrapf(errors.ErrDatasetNotFound,
			"dataset %q is not in the configured dataset table", key)
	}

	runLog := o.logger.With("run_id", shortID(uuid.NewString()))
	runLog.Infow("Refreshing dataset", "dataset", key, "force", force)

	record := o.meta.Load()
	if err := o.refreshEntry(ctx, runLog, record, key, force); err != nil {
		return err
	}

	if err := o.meta.Save(record); err != nil {
		return errors.Wrap(err, "save metadata")
	}
	return nil
}

// Datasets returns the configured dataset keys in run order.
func (o *Orchestrator) Datasets() []string {
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// refreshEntry runs the single-entry refresh step: fetch, digest
// comparison, and on change (or force) staging + preprocessing + cleanup.
// The in-memory record mutation is deliberately not rolled back on
// preprocessing failure; the run-level save gate keeps persisted metadata
// consistent.
func (o *Orchestrator) refreshEntry(ctx context.Context, runLog *zap.SugaredLogger, record *Record, key string, force bool) error {
	body, err := o.fetcher.Fetch(ctx, o.datasets[key])
	if err != nil {
		return errors.Wrapf(err, "fetch dataset %s", key)
	}

	digest := contentDigest(body)
	if prev, ok := record.Digest(key); ok && prev == digest && !force {
		runLog.Infow("Dataset unchanged, skipping", "dataset", key)
		return nil
	}

	staged := filepath.Join(o.stagingDir, key+".csv")
	if err := o.stage(staged, body); err != nil {
		return err
	}

	record.Touch(key, digest, time.Now())

	runLog.Infow("Preprocessing dataset", "dataset", key, "bytes", len(body))
	status := o.pre.Preprocess(ctx, key, true)

	// Cleanup is unconditional: the staged file never outlives the step,
	// whether preprocessing succeeded or not
	o.removeStaged(runLog, staged)

	if status != preprocess.StatusSuccess {
		// The hook's message travels to the API boundary verbatim
		return errors.Mark(errors.New(status), errors.ErrPreprocessFailed)
	}
	return nil
}

func (o *Orchestrator) stage(path string, body []byte) error {
	if err := os.MkdirAll(o.stagingDir, config.DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "create staging directory %s", o.stagingDir)
	}
	if err := os.WriteFile(path, body, config.DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "stage raw file %s", path)
	}
	return nil
}

// removeStaged deletes a staged raw file. Removal failures are logged and
// never escalated; they do not affect the run's outcome.
func (o *Orchestrator) removeStaged(runLog *zap.SugaredLogger, path string) {
	if err := os.Remove(path); err != nil {
		if !os.IsNotExist(err) {
			runLog.Errorw("Could not remove staged file", "path", path, "error", err)
		}
		return
	}
	runLog.Debugw("Removed staged file", "path", path)
}

// shortID truncates an ID to 8 characters for logging
func shortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
