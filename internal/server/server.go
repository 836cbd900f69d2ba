// Package server wires the prediction and forecast services into the HTTP
// API the form frontends talk to.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"lankacast/internal/calendar"
	"lankacast/internal/forecast"
	"lankacast/internal/geo"
	"lankacast/internal/history"
	"lankacast/internal/model"
	"lankacast/internal/predict"
	"lankacast/pkg/api"
	casterr "lankacast/pkg/errors"
)

const maxRequestBytes = 1 << 20 // form submissions are tiny

// Server is the HTTP API server.
type Server struct {
	predictSvc  *predict.Service
	forecastSvc *forecast.Service
	artifact    *model.Artifact
	store       *history.Store // nil disables history
	version     string
	startTime   time.Time
}

// New builds a server around a loaded model. store may be nil.
func New(artifact *model.Artifact, store *history.Store, version string) *Server {
	return &Server{
		predictSvc:  predict.NewService(model.NewScorer(artifact)),
		forecastSvc: forecast.NewService(),
		artifact:    artifact,
		store:       store,
		version:     version,
		startTime:   time.Now(),
	}
}

// Router assembles the route table with the standard middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/health/live", s.handleLiveness)
	r.Get("/health/ready", s.handleReadiness)
	r.Get("/version", s.handleVersion)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/metadata", s.handleMetadata)
		r.Post("/predict", s.handlePredict)
		r.Post("/forecast", s.handleForecast)
		r.Get("/history", s.handleHistory)
	})

	return r
}

// The form UIs are served from a different origin during development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// HEALTH & METADATA
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"model":    s.artifact.Name,
		"features": len(s.artifact.Features),
		"uptime":   time.Since(s.startTime).String(),
	})
}

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			s.jsonDetail(w, http.StatusServiceUnavailable, "history store not ready")
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"version":       s.version,
		"model":         s.artifact.Name,
		"model_version": s.artifact.Version,
	})
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, api.Metadata{
		Model:          s.artifact.Name,
		ModelVersion:   s.artifact.Version,
		FeatureCount:   len(s.artifact.Features),
		ClassNames:     s.artifact.Classes,
		Routes:         predict.Routes(),
		BusTypes:       s.artifact.Options("bus_type"),
		WeatherOptions: s.artifact.Options("weather"),
		CrowdingLevels: s.artifact.Options("crowding_level"),
		TimeSlots:      calendar.TimeSlots(),
		Districts:      geo.Districts(),
		PropertyTypes:  forecast.PropertyTypes(),
		ForecastYears:  forecast.ForecastYears(),
	})
}

// =============================================================================
// PREDICTION ENDPOINTS
// =============================================================================

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	var req api.PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonDetail(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := s.predictSvc.Predict(req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.record(r.Context(), req, resp)
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	var req api.ForecastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonDetail(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := s.forecastSvc.Forecast(req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.recordForecast(r.Context(), req, resp)
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.jsonDetail(w, http.StatusNotFound, "history is not enabled")
		return
	}

	entries, err := s.store.Recent(r.Context(), 20)
	if err != nil {
		log.Error().Err(err).Msg("history query failed")
		s.jsonDetail(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if entries == nil {
		entries = []api.HistoryEntry{}
	}
	s.jsonResponse(w, http.StatusOK, entries)
}

// record persists a served prediction. History failures never fail the
// request.
func (s *Server) record(ctx context.Context, req api.PredictRequest, resp *api.PredictResponse) {
	if s.store == nil {
		return
	}
	raw, _ := json.Marshal(req)
	rec := &history.Record{
		Kind:       history.KindPredict,
		Subject:    req.RouteNo,
		Request:    string(raw),
		Predicted:  resp.Prediction,
		Confidence: resp.Confidence,
	}
	if err := s.store.Record(ctx, rec); err != nil {
		log.Warn().Err(err).Msg("failed to record prediction")
	}
}

func (s *Server) recordForecast(ctx context.Context, req api.ForecastRequest, resp *api.ForecastResponse) {
	if s.store == nil {
		return
	}
	raw, _ := json.Marshal(req)
	rec := &history.Record{
		Kind:       history.KindForecast,
		Subject:    resp.District,
		Request:    string(raw),
		Predicted:  resp.PriceLKR,
		Confidence: resp.Confidence,
	}
	if err := s.store.Record(ctx, rec); err != nil {
		log.Warn().Err(err).Msg("failed to record forecast")
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// writeError maps service errors onto HTTP statuses. Recoverable validation
// errors are the caller's fault; everything else is ours.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var castErr *casterr.CastError
	if errors.As(err, &castErr) {
		status := http.StatusInternalServerError
		if castErr.Recoverable {
			status = http.StatusBadRequest
		}
		s.jsonDetail(w, status, castErr.Detail)
		return
	}
	s.jsonDetail(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) jsonDetail(w http.ResponseWriter, status int, detail string) {
	s.jsonResponse(w, status, api.ErrorResponse{Detail: detail})
}
