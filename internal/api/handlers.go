package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/drivora/drivora-compliance/internal/models"
	"github.com/drivora/drivora-compliance/internal/policy"
	"github.com/drivora/drivora-compliance/internal/services"
	"github.com/drivora/drivora-compliance/internal/utils"
)

// Handler exposes the compliance service over HTTP/JSON.
type Handler struct {
	logger   *slog.Logger
	service  *services.IntelligenceService
	policies *policy.Table
}

// NewHandler constructs the HTTP handler set.
func NewHandler(logger *slog.Logger, service *services.IntelligenceService, policies *policy.Table) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if policies == nil {
		policies = policy.Defaults()
	}
	return &Handler{logger: logger, service: service, policies: policies}
}

// Routes builds the request mux with logging middleware applied.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.HandleFunc("POST /api/v1/compliance/analyze", h.handleAnalyze)
	mux.HandleFunc("GET /api/v1/compliance/vehicles/{id}/intelligence", h.handleVehicleIntelligence)
	mux.HandleFunc("GET /api/v1/compliance/vehicles/{id}/history", h.handleHistory)
	mux.HandleFunc("GET /api/v1/compliance/policies", h.handlePolicies)
	return h.logRequests(mux)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.Analyze(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleVehicleIntelligence(w http.ResponseWriter, r *http.Request) {
	vehicleID := r.PathValue("id")
	if vehicleID == "" {
		h.writeError(w, http.StatusBadRequest, "vehicle id is required")
		return
	}

	resp, err := h.service.VehicleIntelligence(r.Context(), vehicleID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	vehicleID := r.PathValue("id")
	if vehicleID == "" {
		h.writeError(w, http.StatusBadRequest, "vehicle id is required")
		return
	}

	resp, err := h.service.History(r.Context(), vehicleID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if raw := r.URL.Query().Get("since"); raw != "" {
		since, err := utils.ParseRFC3339(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid since parameter: "+err.Error())
			return
		}
		kept := resp.Snapshots[:0]
		for _, snapshot := range resp.Snapshots {
			if !snapshot.Intelligence.LastUpdated.Before(since) {
				kept = append(kept, snapshot)
			}
		}
		resp.Snapshots = kept
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePolicies(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"policies": h.policies.Policies(),
	})
}

// writeServiceError distinguishes configuration bugs (bad usage category)
// from internal failures. Data-quality problems never reach this path; the
// engine folds them into the result.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var cfgErr *policy.ConfigurationError
	if errors.As(err, &cfgErr) {
		h.writeError(w, http.StatusBadRequest, cfgErr.Error())
		return
	}
	h.logger.Error("request failed", slog.Any("error", err))
	h.writeError(w, http.StatusInternalServerError, "internal error")
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("encode response", slog.Any("error", err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		h.logger.Debug("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rw.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
