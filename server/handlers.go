package server

import (
	"net/http"
	"strconv"

	"github.com/zimmerman-dev/gfdata/errors"
)

const (
	defaultPageSize = 10
	maxPageSize     = 1000
)

// HandleHealthCheck reports service liveness
func (s *Server) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "OK")
}

// HandleUpdateDatasets triggers a full refresh run over every configured
// dataset. Returns (message, 200) on success or (message, 500) on the
// first failing entry.
func (s *Server) HandleUpdateDatasets(w http.ResponseWriter, r *http.Request) {
	s.logger.Infow("Refresh all datasets requested", "remote", r.RemoteAddr)

	if err := s.refresher.RefreshAll(r.Context()); err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeMessage(w, http.StatusOK, "Success")
}

// HandleForceUpdateDataset triggers a forced refresh of one dataset,
// re-preprocessing it even when its content is unchanged.
func (s *Server) HandleForceUpdateDataset(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	s.logger.Infow("Force refresh requested", "dataset", name, "remote", r.RemoteAddr)

	if err := s.refresher.RefreshOne(r.Context(), name, true); err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeMessage(w, http.StatusOK, "Success")
}

// HandleDataset serves one page of a stored dataset.
// Query parameters: page (default 1), page_size (default 10, capped).
func (s *Server) HandleDataset(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pageSize, err := queryInt(r, "page_size", defaultPageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	s.logger.Debugw("Dataset page requested",
		"dataset", name, "page", page, "page_size", pageSize)

	result, err := s.datasets.PageOf(r.Context(), name, page, pageSize)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleSampleData serves the first rows of a stored dataset.
func (s *Server) HandleSampleData(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	s.logger.Debugw("Sample data requested", "dataset", name)

	result, err := s.datasets.Sample(r.Context(), name)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// statusForError maps domain errors to HTTP status codes. Everything the
// caller can't address with a different request is a 500.
func statusForError(err error) int {
	switch {
	case errors.IsDatasetNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Newf("query parameter %s must be an integer, got %q", key, raw)
	}
	return value, nil
}
