// Package server exposes the forecast dashboard API over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/cedricly-git/BADS-Capstone-repo/internal/model"
	"github.com/cedricly-git/BADS-Capstone-repo/internal/report"
	"github.com/cedricly-git/BADS-Capstone-repo/internal/store"
)

// PipelineRunner abstracts forecast.Pipeline for handler tests.
type PipelineRunner interface {
	Run(ctx context.Context) (*model.ForecastRun, error)
}

// Server wires the pipeline and store behind the dashboard API.
type Server struct {
	store    store.Store
	pipeline PipelineRunner
}

// New creates a Server.
func New(st store.Store, pipeline PipelineRunner) *Server {
	return &Server{store: st, pipeline: pipeline}
}

// Router builds the chi handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/forecast", s.handleForecast)
		r.Post("/forecast/refresh", s.handleRefresh)
		r.Get("/forecast/export", s.handleExport)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleForecast returns the most recent stored run, generating one if the
// store is empty.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.LatestRun(r.Context())
	if err != nil {
		run, err = s.refresh(r)
		if err != nil {
			zap.L().Error("forecast generation failed", zap.Error(err))
			writeError(w, http.StatusBadGateway, "forecast generation failed")
			return
		}
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	run, err := s.refresh(r)
	if err != nil {
		zap.L().Error("forecast refresh failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "forecast generation failed")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) refresh(r *http.Request) (*model.ForecastRun, error) {
	run, err := s.pipeline.Run(r.Context())
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveRun(r.Context(), run); err != nil {
		// The forecast itself succeeded; log and serve it anyway.
		zap.L().Warn("persist run failed", zap.String("run_id", run.ID), zap.Error(err))
	}
	return run, nil
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.LatestRun(r.Context())
	if err != nil {
		writeError(w, http.StatusNotFound, "no forecast available")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename="+report.ExportFilename(run.GeneratedAt, "csv"))
		if err := report.WriteCSV(w, run); err != nil {
			zap.L().Error("csv export failed", zap.Error(err))
		}
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+report.ExportFilename(run.GeneratedAt, "xlsx"))
		if err := report.WriteXLSX(w, run); err != nil {
			zap.L().Error("xlsx export failed", zap.Error(err))
		}
	default:
		writeError(w, http.StatusBadRequest, "unknown format: "+format)
	}
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	filter := store.RunFilter{}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := r.URL.Query().Get("since"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid since date: "+v)
			return
		}
		filter.Since = t
	}

	runs, err := s.store.ListRuns(r.Context(), filter)
	if err != nil {
		zap.L().Error("list runs failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list runs failed")
		return
	}
	if runs == nil {
		runs = []store.RunSummary{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
