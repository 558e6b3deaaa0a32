// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/c2FmZQ/storage"
	"github.com/my-matchgame/gamecheck/backend/search"
)

// Maximum accepted size of a posted report.
const maxReportSize = 10 << 20

func generateETag(data []byte) string {
	return fmt.Sprintf("\"%x\"", sha256.Sum256(data))
}

func parsePagination(r *http.Request) (int, string, string) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = val
		}
	}
	if limit < 1 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	return limit, r.URL.Query().Get("cursor"), r.URL.Query().Get("q")
}

// Options represent server options.
type Options struct {
	Addr     string
	Root     string // Directory holding the game's static files
	DataDir  string
	Cert     *tls.Certificate
	Debug    bool
	Storage  *storage.Storage
	Reports  *ReportStore
	Listener net.Listener
}

// Server represents the running server instance.
type Server struct {
	httpServer *http.Server
	hub        *Hub
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Shutdown gracefully shuts down the HTTP server and disconnects live feed
// listeners.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []string
	if s.hub != nil {
		s.hub.Stop()
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Sprintf("http: %v", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %s", strings.Join(errs, ", "))
	}
	return nil
}

// StartServer starts serving the game files and the runs API.
func StartServer(opts Options) (*Server, error) {
	if opts.Root == "" {
		opts.Root = "."
	}
	if fi, err := os.Stat(opts.Root); err != nil {
		return nil, fmt.Errorf("game root: %w", err)
	} else if !fi.IsDir() {
		return nil, fmt.Errorf("game root %s is not a directory", opts.Root)
	}

	hub, handler := NewServerHandler(opts)

	httpServer := &http.Server{
		Addr:    opts.Addr,
		Handler: handler,
	}
	if opts.Cert != nil {
		httpServer.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{*opts.Cert},
		}
	}

	listener := opts.Listener
	if listener == nil {
		l, err := net.Listen("tcp", opts.Addr)
		if err != nil {
			hub.Stop()
			return nil, fmt.Errorf("listen: %w", err)
		}
		listener = l
	}

	go func() {
		var err error
		if httpServer.TLSConfig != nil {
			log.Printf("Starting HTTPS server on %s...", listener.Addr())
			err = httpServer.ServeTLS(listener, "", "")
		} else {
			log.Printf("Starting HTTP server on %s...", listener.Addr())
			err = httpServer.Serve(listener)
		}
		if err != nil && !errors.Is(err, net.ErrClosed) && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	return &Server{
		httpServer: httpServer,
		hub:        hub,
	}, nil
}

// NewServerHandler creates and configures the HTTP handler for the server.
// The returned Hub is already running.
func NewServerHandler(opts Options) (*Hub, http.Handler) {
	reports := opts.Reports
	if reports == nil && opts.Storage != nil {
		reports = NewReportStore(opts.DataDir, opts.Storage)
	}
	hub := NewHub()
	go hub.Run()

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	if reports != nil {
		api := &runsAPI{reports: reports, hub: hub}
		mux.HandleFunc("GET /api/runs", api.list)
		mux.HandleFunc("POST /api/runs", api.create)
		mux.HandleFunc("GET /api/runs/stats", api.stats)
		mux.HandleFunc("GET /api/runs/ws", hub.ServeWS)
		mux.HandleFunc("GET /api/runs/{id}", api.get)
		mux.HandleFunc("DELETE /api/runs/{id}", api.delete)
	} else {
		log.Println("Warning: no data dir configured, runs API disabled.")
	}

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		root = opts.Root
	}
	mux.Handle("/", contentTypeMiddleware(http.FileServerFS(os.DirFS(root))))

	handler := http.Handler(mux)
	if opts.Debug {
		handler = loggingMiddleware(handler)
	}
	handler = securityMiddleware(handler)
	handler = cacheControlMiddleware(opts.Debug, handler)
	return hub, handler
}

type runsAPI struct {
	reports *ReportStore
	hub     *Hub
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON: %v", err)
	}
}

func (a *runsAPI) list(w http.ResponseWriter, r *http.Request) {
	limit, cursor, q := parsePagination(r)
	items, next, err := a.reports.ListReports(search.Parse(q), limit, cursor)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if items == nil {
		items = []ReportMetadata{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":  items,
		"cursor": next,
	})
}

func (a *runsAPI) get(w http.ResponseWriter, r *http.Request) {
	report, err := a.reports.LoadReport(r.PathValue("id"))
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		log.Printf("LoadReport(%s): %v", r.PathValue("id"), err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	etag := generateETag(data)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (a *runsAPI) create(w http.ResponseWriter, r *http.Request) {
	var report Report
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxReportSize))
	if err := dec.Decode(&report); err != nil {
		http.Error(w, fmt.Sprintf("Bad Request: %v", err), http.StatusBadRequest)
		return
	}
	if err := ValidateReport(&report); err != nil {
		http.Error(w, fmt.Sprintf("Bad Request: %v", err), http.StatusBadRequest)
		return
	}
	if err := a.reports.SaveReport(&report); err != nil {
		log.Printf("SaveReport: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	a.hub.Publish(&report)
	writeJSON(w, http.StatusCreated, map[string]string{"id": report.ID})
}

func (a *runsAPI) delete(w http.ResponseWriter, r *http.Request) {
	if err := a.reports.DeleteReport(r.PathValue("id")); err != nil {
		log.Printf("DeleteReport: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *runsAPI) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.reports.LatencyStats()
	if err != nil {
		log.Printf("LatencyStats: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// cacheControlMiddleware disables caching for the API. Game files are cached
// briefly unless debug is on, so edits show up on reload.
func cacheControlMiddleware(debug bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if debug || strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Cache-Control", "private, no-cache, no-transform")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=300, no-transform")
		}
		next.ServeHTTP(w, r)
	})
}

// securityMiddleware adds HTTP security headers to responses. The game uses
// inline handlers and styles, so the strict CSP only covers the API.
func securityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Content-Security-Policy", "default-src 'none'")
		}
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// contentTypeMiddleware ensures that files are served with the correct MIME type.
func contentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch filepath.Ext(r.URL.Path) {
		case ".js", ".mjs":
			w.Header().Set("Content-Type", "application/javascript")
		case ".css":
			w.Header().Set("Content-Type", "text/css; charset=utf-8")
		case ".html":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
		case ".png":
			w.Header().Set("Content-Type", "image/png")
		case ".svg":
			w.Header().Set("Content-Type", "image/svg+xml")
		case ".json":
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
		case ".mp3":
			w.Header().Set("Content-Type", "audio/mpeg")
		case ".wav":
			w.Header().Set("Content-Type", "audio/wav")
		}
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs the method and URL path of every incoming HTTP request.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("Received request: %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
