package refresh

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zimmerman-dev/gfdata/errors"
	"github.com/zimmerman-dev/gfdata/preprocess"
)

// fakeFetcher serves scripted payloads per URL and records call order.
type fakeFetcher struct {
	mu        sync.Mutex
	responses map[string][]byte
	failures  map[string]error
	calls     []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	if err, ok := f.failures[url]; ok {
		return nil, err
	}
	if body, ok := f.responses[url]; ok {
		return body, nil
	}
	return nil, errors.Newf("no scripted response for %s", url)
}

type preprocessCall struct {
	name   string
	create bool
}

// fakePreprocessor returns a scripted status and records invocations.
// It also snapshots whether the staged file existed at call time.
type fakePreprocessor struct {
	status     string
	stagingDir string
	calls      []preprocessCall
	sawStaged  []bool
}

func (p *fakePreprocessor) Preprocess(ctx context.Context, name string, createDataset bool) string {
	p.calls = append(p.calls, preprocessCall{name: name, create: createDataset})
	_, err := os.Stat(filepath.Join(p.stagingDir, name+".csv"))
	p.sawStaged = append(p.sawStaged, err == nil)
	return p.status
}

type fixture struct {
	orch       *Orchestrator
	fetcher    *fakeFetcher
	pre        *fakePreprocessor
	meta       *MetadataStore
	stagingDir string
}

func newFixture(t *testing.T, datasets map[string]string) *fixture {
	t.Helper()
	stagingDir := t.TempDir()
	log := zap.NewNop().Sugar()

	fetcher := &fakeFetcher{
		responses: map[string][]byte{},
		failures:  map[string]error{},
	}
	pre := &fakePreprocessor{status: preprocess.StatusSuccess, stagingDir: stagingDir}
	meta := NewMetadataStore(stagingDir, log)

	return &fixture{
		orch:       NewOrchestrator(datasets, stagingDir, fetcher, meta, pre, log),
		fetcher:    fetcher,
		pre:        pre,
		meta:       meta,
		stagingDir: stagingDir,
	}
}

func (f *fixture) stagedFiles(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(f.stagingDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if e.Name() != MetadataFile {
			names = append(names, e.Name())
		}
	}
	return names
}

func TestRefreshOneIdempotence(t *testing.T) {
	f := newFixture(t, map[string]string{"gf_results": "https://example.org/results"})
	f.fetcher.responses["https://example.org/results"] = []byte("country\nKenya\n")
	ctx := context.Background()

	require.NoError(t, f.orch.RefreshOne(ctx, "gf_results", false))
	require.NoError(t, f.orch.RefreshOne(ctx, "gf_results", false))

	// Unchanged content: the second call is a no-op success
	assert.Len(t, f.pre.calls, 1)

	digest, ok := f.meta.Load().Digest("gf_results")
	require.True(t, ok)
	assert.Equal(t, contentDigest([]byte("country\nKenya\n")), digest)
}

func TestRefreshOneChangeDetection(t *testing.T) {
	url := "https://example.org/results"
	f := newFixture(t, map[string]string{"gf_results": url})
	ctx := context.Background()

	f.fetcher.responses[url] = []byte("v1")
	require.NoError(t, f.orch.RefreshOne(ctx, "gf_results", false))
	firstDigest, _ := f.meta.Load().Digest("gf_results")

	f.fetcher.responses[url] = []byte("v2")
	require.NoError(t, f.orch.RefreshOne(ctx, "gf_results", false))
	secondDigest, _ := f.meta.Load().Digest("gf_results")

	assert.NotEqual(t, firstDigest, secondDigest)
	assert.Len(t, f.pre.calls, 2, "preprocessing runs once per content change")
}

func TestRefreshOneForce(t *testing.T) {
	url := "https://example.org/results"
	f := newFixture(t, map[string]string{"gf_results": url})
	f.fetcher.responses[url] = []byte("stable")
	ctx := context.Background()

	require.NoError(t, f.orch.RefreshOne(ctx, "gf_results", false))
	require.NoError(t, f.orch.RefreshOne(ctx, "gf_results", true))

	// force bypasses the digest comparison
	require.Len(t, f.pre.calls, 2)
	assert.True(t, f.pre.calls[1].create)
}

func TestRefreshOneUnknownKey(t *testing.T) {
	f := newFixture(t, map[string]string{"gf_results": "https://example.org/results"})

	err := f.orch.RefreshOne(context.Background(), "not-a-real-dataset", false)
	require.Error(t, err)
	assert.True(t, errors.IsDatasetNotFound(err))
	assert.Contains(t, err.Error(), "not-a-real-dataset")

	// Nothing fetched, nothing preprocessed, no metadata written
	assert.Empty(t, f.fetcher.calls)
	assert.Empty(t, f.pre.calls)
	_, statErr := os.Stat(filepath.Join(f.stagingDir, MetadataFile))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRefreshAllBatchShortCircuit(t *testing.T) {
	urls := map[string]string{
		"a_first":  "https://example.org/a",
		"b_second": "https://example.org/b",
		"c_third":  "https://example.org/c",
	}
	f := newFixture(t, urls)
	f.fetcher.responses["https://example.org/a"] = []byte("a")
	f.fetcher.failures["https://example.org/b"] = errors.New("connection reset")
	f.fetcher.responses["https://example.org/c"] = []byte("c")
	ctx := context.Background()

	// Pre-existing metadata on disk must survive the failed run untouched
	seed := NewRecord()
	require.NoError(t, f.meta.Save(seed))
	before, err := os.ReadFile(filepath.Join(f.stagingDir, MetadataFile))
	require.NoError(t, err)

	err = f.orch.RefreshAll(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")

	// Entry order is deterministic; the run stops at the failing entry
	assert.Equal(t, []string{"https://example.org/a", "https://example.org/b"}, f.fetcher.calls)

	after, err := os.ReadFile(filepath.Join(f.stagingDir, MetadataFile))
	require.NoError(t, err)
	assert.Equal(t, before, after, "failed run never rewrites persisted metadata")
}

func TestRefreshAllSuccess(t *testing.T) {
	urls := map[string]string{
		"a_first":  "https://example.org/a",
		"b_second": "https://example.org/b",
	}
	f := newFixture(t, urls)
	f.fetcher.responses["https://example.org/a"] = []byte("a")
	f.fetcher.responses["https://example.org/b"] = []byte("b")

	require.NoError(t, f.orch.RefreshAll(context.Background()))

	record := f.meta.Load()
	for key := range urls {
		_, ok := record.Digest(key)
		assert.True(t, ok, "metadata entry for %s", key)
	}
	assert.False(t, record.UpdatedAt.IsZero())
}

func TestCleanupGuarantee(t *testing.T) {
	url := "https://example.org/results"
	ctx := context.Background()

	t.Run("staged file removed after success", func(t *testing.T) {
		f := newFixture(t, map[string]string{"gf_results": url})
		f.fetcher.responses[url] = []byte("data")

		require.NoError(t, f.orch.RefreshOne(ctx, "gf_results", false))

		require.Len(t, f.pre.sawStaged, 1)
		assert.True(t, f.pre.sawStaged[0], "staged file present during preprocessing")
		assert.Empty(t, f.stagedFiles(t), "staged file removed afterwards")
	})

	t.Run("staged file removed after preprocessing failure", func(t *testing.T) {
		f := newFixture(t, map[string]string{"gf_results": url})
		f.fetcher.responses[url] = []byte("data")
		f.pre.status = "schema drift in column 7"

		err := f.orch.RefreshOne(ctx, "gf_results", false)
		require.Error(t, err)
		assert.Empty(t, f.stagedFiles(t))
	})
}

func TestPreprocessFailurePropagatesVerbatim(t *testing.T) {
	url := "https://example.org/results"
	f := newFixture(t, map[string]string{"gf_results": url})
	f.fetcher.responses[url] = []byte("data")
	f.pre.status = "schema drift in column 7"

	err := f.orch.RefreshOne(context.Background(), "gf_results", false)
	require.Error(t, err)
	assert.Equal(t, "schema drift in column 7", err.Error())
	assert.True(t, errors.IsPreprocessFailed(err))

	// The run-level gate: failed run leaves no metadata on disk
	_, statErr := os.Stat(filepath.Join(f.stagingDir, MetadataFile))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDatasets(t *testing.T) {
	f := newFixture(t, map[string]string{
		"zebra": "https://example.org/z",
		"alpha": "https://example.org/a",
	})
	assert.Equal(t, []string{"alpha", "zebra"}, f.orch.Datasets())
}
