package preprocess

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/zimmerman-dev/gfdata/datastore"
)

// CSVLoader is the default Preprocessor: it parses the staged CSV for a
// dataset and loads it into the SQLite dataset store.
type CSVLoader struct {
	stagingDir string
	store      *datastore.Store
	logger     *zap.SugaredLogger
}

// NewCSVLoader creates a CSVLoader reading staged files from stagingDir.
func NewCSVLoader(stagingDir string, store *datastore.Store, logger *zap.SugaredLogger) *CSVLoader {
	return &CSVLoader{
		stagingDir: stagingDir,
		store:      store,
		logger:     logger,
	}
}

// Preprocess loads <stagingDir>/<name>.csv into the dataset store.
// The status string contract is defined on the Preprocessor interface.
func (l *CSVLoader) Preprocess(ctx context.Context, name string, createDataset bool) string {
	path := filepath.Join(l.stagingDir, name+".csv")

	f, err := os.Open(path)
	if err != nil {
		return fmt.Sprintf("could not open staged file for %s: %v", name, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// Exports occasionally carry ragged trailing columns; tolerate them
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Sprintf("could not parse CSV for %s: %v", name, err)
	}
	if len(records) == 0 {
		return fmt.Sprintf("dataset %s is empty: no header row", name)
	}

	header, rows := records[0], records[1:]

	if !createDataset {
		known, err := l.datasetExists(ctx, name)
		if err != nil {
			return fmt.Sprintf("could not inspect dataset store for %s: %v", name, err)
		}
		if !known {
			return fmt.Sprintf("dataset %s does not exist and creation was not requested", name)
		}
	}

	if err := l.store.Replace(ctx, name, header, rows); err != nil {
		return fmt.Sprintf("could not load %s into dataset store: %v", name, err)
	}

	l.logger.Infow("Preprocessed dataset",
		"dataset", name,
		"columns", len(header),
		"rows", len(rows),
	)
	return StatusSuccess
}

func (l *CSVLoader) datasetExists(ctx context.Context, name string) (bool, error) {
	infos, err := l.store.List(ctx)
	if err != nil {
		return false, err
	}
	for _, info := range infos {
		if info.Name == name {
			return true, nil
		}
	}
	return false, nil
}
