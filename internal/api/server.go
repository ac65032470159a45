package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"aytoleon_scraper/internal/domain"
)

// Pipeline is the set of operations exposed over HTTP.
type Pipeline interface {
	ScrapeAndSave(ctx context.Context, ct domain.ContentType) (*domain.Report, error)
	ScrapeAllAndSave(ctx context.Context) *domain.SyncReport
	GetAll(ctx context.Context, ct domain.ContentType) ([]domain.Record, error)
}

type Config struct {
	Addr              string
	ReadHeaderTimeout time.Duration
}

type Server struct {
	pipeline Pipeline
	logger   *slog.Logger
	server   *http.Server
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewServer wires the routes. metrics may be nil.
func NewServer(cfg Config, pipeline Pipeline, metrics http.Handler, logger *slog.Logger) *Server {
	s := &Server{
		pipeline: pipeline,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/scrape", s.handleScrapeAll)
	mux.HandleFunc("GET /api/{type}", s.handleList)
	mux.HandleFunc("GET /api/{type}/scrape", s.handleScrape)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}

	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	return s
}

func (s *Server) Handler() http.Handler              { return s.server.Handler }
func (s *Server) Serve() error                       { return s.server.ListenAndServe() }
func (s *Server) Shutdown(ctx context.Context) error { return s.server.Shutdown(ctx) }

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ct, ok := s.contentType(w, r)
	if !ok {
		return
	}

	records, err := s.pipeline.GetAll(r.Context(), ct)
	if err != nil {
		s.fail(w, "list failed", "Error al obtener los datos", ct, err)
		return
	}
	if records == nil {
		records = []domain.Record{}
	}

	s.writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	ct, ok := s.contentType(w, r)
	if !ok {
		return
	}

	report, err := s.pipeline.ScrapeAndSave(r.Context(), ct)
	if err != nil {
		s.fail(w, "scrape failed", "Error al realizar el scraping", ct, err)
		return
	}

	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleScrapeAll(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.pipeline.ScrapeAllAndSave(r.Context()))
}

func (s *Server) contentType(w http.ResponseWriter, r *http.Request) (domain.ContentType, bool) {
	ct, err := domain.ParseContentType(r.PathValue("type"))
	if err != nil {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "tipo de contenido desconocido"})
		return "", false
	}
	return ct, true
}

// fail logs err and answers with an opaque 500.
func (s *Server) fail(w http.ResponseWriter, msg, public string, ct domain.ContentType, err error) {
	s.logger.Error(msg, "content_type", ct, "error", err)
	s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: public})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", "error", err)
	}
}
