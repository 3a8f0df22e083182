// Package server provides the optional HTTP status API for watch mode.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/wssync/wssync/internal/coordinator"
	"github.com/wssync/wssync/internal/resolver"
	"github.com/wssync/wssync/internal/workspace"
)

// Config holds server configuration.
type Config struct {
	Addr         string
	EnableCORS   bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:         "127.0.0.1:7391",
		EnableCORS:   true,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// Server exposes read-only sync status over HTTP.
type Server struct {
	config  *Config
	router  *chi.Mux
	httpSrv *http.Server
	coord   *coordinator.Coordinator
	load    func() (*workspace.Document, error)
}

// New creates a status server. load provides a fresh document per request so
// responses reflect the file on disk, not a stale snapshot.
func New(cfg *Config, coord *coordinator.Coordinator, load func() (*workspace.Document, error)) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET"},
		}))
	}

	s := &Server{
		config: cfg,
		router: r,
		coord:  coord,
		load:   load,
	}

	r.Get("/status", s.handleStatus)
	r.Get("/folders", s.handleFolders)
	r.Get("/resolved", s.handleResolved)

	s.httpSrv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler returns the HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving HTTP until Shutdown.
func (s *Server) Start() error {
	return s.httpSrv.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// FolderStatus is one entry of the /folders response.
type FolderStatus struct {
	Name               string `json:"name,omitempty"`
	Path               string `json:"path"`
	DocumentRoot       bool   `json:"documentRoot"`
	ReverseSyncEnabled bool   `json:"reverseSyncEnabled"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.coord.Snapshot())
}

func (s *Server) handleFolders(w http.ResponseWriter, r *http.Request) {
	doc, err := s.load()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeConfigUnavailable, err.Error())
		return
	}

	folders := make([]FolderStatus, 0, len(doc.Folders))
	for i := range doc.Folders {
		f := &doc.Folders[i]
		folders = append(folders, FolderStatus{
			Name:               f.Name,
			Path:               f.Path,
			DocumentRoot:       doc.IsDocumentRoot(f),
			ReverseSyncEnabled: doc.ReverseSyncEnabled(f),
		})
	}
	writeJSON(w, http.StatusOK, folders)
}

func (s *Server) handleResolved(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "missing path query parameter")
		return
	}

	doc, err := s.load()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeConfigUnavailable, err.Error())
		return
	}

	folder, err := doc.FolderByPath(path)
	if err != nil {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, fmt.Sprintf("no folder for path %q", path))
		return
	}
	writeJSON(w, http.StatusOK, resolver.Resolve(doc, folder))
}
