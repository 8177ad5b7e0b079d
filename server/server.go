// Package server exposes the dataset refresh and read API over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/zimmerman-dev/gfdata/datastore"
)

// Refresher triggers dataset refresh runs. *refresh.Orchestrator is the
// production implementation.
type Refresher interface {
	RefreshAll(ctx context.Context) error
	RefreshOne(ctx context.Context, key string, force bool) error
}

// DatasetReader serves paginated reads over stored datasets.
// *datastore.Store is the production implementation.
type DatasetReader interface {
	PageOf(ctx context.Context, name string, page, pageSize int) (*datastore.Page, error)
	Sample(ctx context.Context, name string) (*datastore.Page, error)
}

// Server hosts the HTTP API. Every route sits behind the API key
// middleware; refresh routes additionally serialize through the
// orchestrator's own run mutex.
type Server struct {
	refresher      Refresher
	datasets       DatasetReader
	apiKeys        map[string]struct{}
	allowedOrigins []string
	logger         *zap.SugaredLogger
	httpServer     *http.Server
}

// New creates a server. apiKeys is the set of accepted Authorization
// header values.
func New(refresher Refresher, datasets DatasetReader, apiKeys []string, logger *zap.SugaredLogger) *Server {
	keys := make(map[string]struct{}, len(apiKeys))
	for _, key := range apiKeys {
		keys[key] = struct{}{}
	}
	return &Server{
		refresher:      refresher,
		datasets:       datasets,
		apiKeys:        keys,
		allowedOrigins: []string{"*"},
		logger:         logger,
	}
}

// WithAllowedOrigins replaces the CORS origin allowlist. "*" allows any
// origin; an empty list disables CORS headers entirely.
func (s *Server) WithAllowedOrigins(origins []string) *Server {
	s.allowedOrigins = origins
	return s
}

// Handler returns the fully routed HTTP handler, exported for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	route := func(pattern string, handler http.HandlerFunc) {
		mux.HandleFunc(pattern, s.corsHeaders(s.requireAPIKey(handler)))
	}

	route("GET /health-check", s.HandleHealthCheck)
	route("GET /update-tgf-datasets", s.HandleUpdateDatasets)
	route("GET /force-update-tgf-dataset/{name}", s.HandleForceUpdateDataset)
	route("GET /dataset/{name}", s.HandleDataset)
	route("GET /sample-data/{name}", s.HandleSampleData)

	// Preflight requests carry no API key
	mux.HandleFunc("OPTIONS /", s.handlePreflight)

	return mux
}

// Start runs the HTTP server on the given port, blocking until shutdown.
func (s *Server) Start(port int) error {
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.Handler(),
		// Refresh runs hold the request open while every dataset downloads,
		// so the write timeout has to be generous
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Infow("HTTP server listening", "port", port)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Infow("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}
