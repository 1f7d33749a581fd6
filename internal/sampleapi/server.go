// Package sampleapi serves a fixed set of runs over the same JSON endpoints
// as a Guild View backend. It backs the sample-server command and the
// end-to-end tests of the client and dashboard.
package sampleapi

import (
	"context"
	"encoding/json"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/justinpbarnett/guildview/internal/run"
)

//go:embed data/runs.json
var runsJSON []byte

//go:embed data/output.json
var outputJSON []byte

//go:embed data/files
var runFiles embed.FS

const (
	DefaultCwd        = "~/SCM/guild-packages/slim/resnet"
	DefaultTitleLabel = "slim/resnet"
	DefaultVersion    = "0.9.0"
)

type Server struct {
	runs    []run.Run
	output  map[string][]run.OutputLine
	files   fs.FS
	cwd     string
	title   string
	version string
	logger  zerolog.Logger
}

type Option func(*Server)

func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithRuns replaces the embedded sample runs.
func WithRuns(runs []run.Run) Option {
	return func(s *Server) { s.runs = runs }
}

// WithFiles replaces the embedded run directories. The root of fsys holds
// one directory per run ID.
func WithFiles(fsys fs.FS) Option {
	return func(s *Server) { s.files = fsys }
}

// New loads the embedded sample data.
func New(opts ...Option) (*Server, error) {
	s := &Server{
		cwd:     DefaultCwd,
		title:   DefaultTitleLabel,
		version: DefaultVersion,
		logger:  zerolog.Nop(),
	}
	if err := json.Unmarshal(runsJSON, &s.runs); err != nil {
		return nil, fmt.Errorf("decoding sample runs: %w", err)
	}
	if err := json.Unmarshal(outputJSON, &s.output); err != nil {
		return nil, fmt.Errorf("decoding sample output: %w", err)
	}
	files, err := fs.Sub(runFiles, "data/files")
	if err != nil {
		return nil, fmt.Errorf("opening sample files: %w", err)
	}
	s.files = files
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handler is the backend's route table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/runs", s.listRuns)
	r.Get("/runs/{id}/output", s.runOutput)
	r.Get("/config", s.config)
	r.Get("/compare", s.compare)
	r.Get("/files/*", s.runFile)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Str("version", s.version).Msg("sample backend listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down sample backend")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("url", r.URL.RequestURI()).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.filter(r))
}

// filter applies the query filters a Guild View route may carry: run (ID
// prefix), op (operation substring), status and label.
func (s *Server) filter(r *http.Request) []run.Run {
	q := r.URL.Query()
	prefix := q.Get("run")
	op := q.Get("op")
	status := q.Get("status")
	label := q.Get("label")

	out := make([]run.Run, 0, len(s.runs))
	for _, rn := range s.runs {
		if prefix != "" && !strings.HasPrefix(rn.ID, prefix) && !strings.HasPrefix(rn.ShortID, prefix) {
			continue
		}
		if op != "" && !strings.Contains(rn.Operation, op) {
			continue
		}
		if status != "" && string(rn.Status) != status {
			continue
		}
		if label != "" && !strings.Contains(rn.Label, label) {
			continue
		}
		out = append(out, rn)
	}
	return out
}

func (s *Server) lookup(prefix string) (run.Run, bool) {
	for _, rn := range s.runs {
		if strings.HasPrefix(rn.ID, prefix) || strings.HasPrefix(rn.ShortID, prefix) {
			return rn, true
		}
	}
	return run.Run{}, false
}

func (s *Server) runOutput(w http.ResponseWriter, r *http.Request) {
	rn, ok := s.lookup(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	lines := s.output[rn.ID]

	start, end := 0, len(lines)-1
	if v := r.URL.Query().Get("s"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid s", http.StatusBadRequest)
			return
		}
		start = n
	}
	if v := r.URL.Query().Get("e"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid e", http.StatusBadRequest)
			return
		}
		end = min(n, len(lines)-1)
	}

	if start > end {
		writeJSON(w, []run.OutputLine{})
		return
	}
	writeJSON(w, lines[start:end+1])
}

// runFile serves a file from a run directory. Directories are not listed.
func (s *Server) runFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	if !fs.ValidPath(name) {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	info, err := fs.Stat(s.files, name)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeFileFS(w, r, s.files, name)
}

func (s *Server) config(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"cwd":        s.cwd,
		"titleLabel": s.title,
		"version":    s.version,
	})
}

// compare builds the comparison table: fixed run columns followed by the
// last value of every scalar tag seen across the filtered runs.
func (s *Server) compare(w http.ResponseWriter, r *http.Request) {
	runs := s.filter(r)

	seen := map[string]bool{}
	var tags []string
	for _, rn := range runs {
		for _, sc := range rn.Scalars {
			key := scalarKey(sc)
			if !seen[key] {
				seen[key] = true
				tags = append(tags, key)
			}
		}
	}
	sort.Strings(tags)

	header := []any{"run", "operation", "started", "status", "label"}
	for _, t := range tags {
		header = append(header, t)
	}
	table := [][]any{header}

	for _, rn := range runs {
		row := []any{rn.DisplayID(), rn.Operation, rn.Started, string(rn.Status), rn.Label}
		last := make(map[string]run.Scalar, len(rn.Scalars))
		for _, sc := range rn.Scalars {
			last[scalarKey(sc)] = sc.LastVal
		}
		for _, t := range tags {
			row = append(row, last[t])
		}
		table = append(table, row)
	}
	writeJSON(w, table)
}

func scalarKey(sc run.ScalarSummary) string {
	if sc.Prefix == "" {
		return sc.Tag
	}
	return sc.Prefix + "#" + sc.Tag
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
