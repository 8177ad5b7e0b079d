// Package preprocess turns staged raw dataset files into queryable
// derived datasets.
package preprocess

import "context"

// StatusSuccess is the exact status string a Preprocessor returns on
// success. Callers compare against it literally; any other value is a
// failure message and is propagated verbatim.
const StatusSuccess = "Success"

// Preprocessor transforms the staged raw file for a dataset into its
// derived, queryable form. createDataset requests creation of the derived
// dataset when it does not exist yet.
//
// Implementations return StatusSuccess or a human-readable failure message.
type Preprocessor interface {
	Preprocess(ctx context.Context, name string, createDataset bool) string
}
