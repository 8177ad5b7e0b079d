// Package datastore persists derived datasets in SQLite and serves
// paginated reads over them.
package datastore

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/zimmerman-dev/gfdata/errors"
)

// SampleSize is the number of rows returned by Sample.
const SampleSize = 10

// Store handles persistence of derived datasets
type Store struct {
	db *sql.DB
}

// NewStore creates a new dataset store
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Page is one page of a dataset
type Page struct {
	Name     string              `json:"name"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
	Total    int                 `json:"total"`
	Columns  []string            `json:"columns"`
	Rows     []map[string]string `json:"rows"`
}

// Info describes a stored dataset
type Info struct {
	Name      string `json:"name"`
	RowCount  int    `json:"row_count"`
	UpdatedAt string `json:"updated_at"`
}

// Replace atomically replaces the contents of a dataset with the given
// header and rows, creating the dataset if it does not exist.
func (s *Store) Replace(ctx context.Context, name string, header []string, rows [][]string) error {
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return errors.Wrapf(err, "marshal header for %s", name)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrapf(err, "begin tx for %s", name)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO datasets (name, header, row_count, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			header = excluded.header,
			row_count = excluded.row_count,
			updated_at = excluded.updated_at
	`, name, string(headerJSON), len(rows), now)
	if err != nil {
		return errors.Wrapf(err, "upsert dataset %s", name)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM dataset_rows WHERE dataset_name = ?", name); err != nil {
		return errors.Wrapf(err, "clear rows for %s", name)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO dataset_rows (dataset_name, row_index, data) VALUES (?, ?, ?)")
	if err != nil {
		return errors.Wrapf(err, "prepare row insert for %s", name)
	}
	defer stmt.Close()

	for i, row := range rows {
		record := make(map[string]string, len(header))
		for j, col := range header {
			if j < len(row) {
				record[col] = row[j]
			}
		}
		data, err := json.Marshal(record)
		if err != nil {
			return errors.Wrapf(err, "marshal row %d of %s", i, name)
		}
		if _, err := stmt.ExecContext(ctx, name, i, string(data)); err != nil {
			return errors.Wrapf(err, "insert row %d of %s", i, name)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrapf(err, "commit %s", name)
	}
	return nil
}

// PageOf returns one page of a dataset, ordered by original row position.
// page is 1-based. Requesting past the end yields an empty row list.
func (s *Store) PageOf(ctx context.Context, name string, page, pageSize int) (*Page, error) {
	if page < 1 {
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "page %d", page)
	}
	if pageSize < 1 {
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "page_size %d", pageSize)
	}

	columns, total, err := s.describe(ctx, name)
	if err != nil {
		return nil, err
	}

	result := &Page{
		Name:     name,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		Columns:  columns,
		Rows:     []map[string]string{},
	}

	offset := (page - 1) * pageSize
	rows, err := s.db.QueryContext(ctx, `
		SELECT data FROM dataset_rows
		WHERE dataset_name = ?
		ORDER BY row_index
		LIMIT ? OFFSET ?
	`, name, pageSize, offset)
	if err != nil {
		return nil, errors.Wrapf(err, "query rows of %s", name)
	}
	defer rows.Close()

	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, errors.Wrapf(err, "scan row of %s", name)
		}
		record := map[string]string{}
		if err := json.Unmarshal([]byte(data), &record); err != nil {
			return nil, errors.Wrapf(err, "decode row of %s", name)
		}
		result.Rows = append(result.Rows, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "iterate rows of %s", name)
	}

	return result, nil
}

// Sample returns the first SampleSize rows of a dataset.
func (s *Store) Sample(ctx context.Context, name string) (*Page, error) {
	return s.PageOf(ctx, name, 1, SampleSize)
}

// List returns summary information for every stored dataset.
func (s *Store) List(ctx context.Context) ([]Info, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, row_count, updated_at FROM datasets ORDER BY name")
	if err != nil {
		return nil, errors.Wrap(err, "list datasets")
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		var info Info
		if err := rows.Scan(&info.Name, &info.RowCount, &info.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "scan dataset info")
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// describe returns the column header and total row count for a dataset,
// or ErrDatasetNotFound if it has never been preprocessed.
func (s *Store) describe(ctx context.Context, name string) ([]string, int, error) {
	var headerJSON string
	var total int
	err := s.db.QueryRowContext(ctx,
		"SELECT header, row_count FROM datasets WHERE name = ?", name,
	).Scan(&headerJSON, &total)
	if err == sql.ErrNoRows {
		return nil, 0, errors.Wrapf(errors.ErrDatasetNotFound, "dataset %q", name)
	}
	if err != nil {
		return nil, 0, errors.Wrapf(err, "describe %s", name)
	}

	var columns []string
	if err := json.Unmarshal([]byte(headerJSON), &columns); err != nil {
		return nil, 0, errors.Wrapf(err, "decode header of %s", name)
	}
	return columns, total, nil
}
