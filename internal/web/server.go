// Package web serves the attrition-risk form and its JSON counterpart.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"retention-service/internal/attrition"
	"retention-service/internal/common/config"
	"retention-service/internal/common/logger"
	"retention-service/internal/common/observability"
	"retention-service/internal/common/validation"
	"retention-service/internal/models"
)

// Predictor is the loaded pipeline.
type Predictor interface {
	Predict(ctx context.Context, input models.CandidateInput) (*attrition.Prediction, error)
	ModelKind() string
}

type ctxKey int

const requestIDKey ctxKey = iota

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	predictor  Predictor
	logger     logger.Logger
	obs        *observability.Observability
	page       *template.Template
	apiSchema  *validation.Schema
	metrics    bool
}

// Options carries the collaborators of a Server.
type Options struct {
	Predictor      Predictor
	Logger         logger.Logger
	Observability  *observability.Observability
	MetricsEnabled bool
}

// New builds a server for cfg. A nil predictor leaves the server unready.
func New(cfg config.ServerConfig, opts Options) (*Server, error) {
	page, err := parsePage()
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	apiSchema, err := validation.Compile(predictRequestSchema())
	if err != nil {
		return nil, fmt.Errorf("compile request schema: %w", err)
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	s := &Server{
		predictor: opts.Predictor,
		logger:    log,
		obs:       opts.Observability,
		page:      page,
		apiSchema: apiSchema,
		metrics:   opts.MetricsEnabled,
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Millisecond,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Handler returns the routed handler with request ID and logging middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /predict", s.handleFormPredict)
	mux.HandleFunc("POST /api/v1/predict", s.handleAPIPredict)
	mux.HandleFunc("GET /api/v1/options", s.handleOptions)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	if s.metrics {
		mux.Handle("GET /metrics", promhttp.Handler())
	}
	return s.withRequestID(s.withLogging(mux))
}

// ListenAndServe blocks until the server stops. A graceful Shutdown is not
// reported as an error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server listening", map[string]interface{}{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request completed", map[string]interface{}{
			"requestId":  requestID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"durationMs": time.Since(start).Milliseconds(),
		})
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if s.predictor == nil {
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "artifacts not loaded"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":    "ready",
		"modelKind": s.predictor.ModelKind(),
	})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Error encoding JSON response", map[string]interface{}{"error": err})
	}
}
