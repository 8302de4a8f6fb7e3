/*
handlers.go - HTTP API handlers for the recognition service

PURPOSE:
  Exposes the recognition engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Schedules:
    POST   /api/payments/normal                 Baseline on-time schedule
    POST   /api/payments/recalc                 Recalculate from actuals
    POST   /api/payments/calculate-recognition  Full recognition simulation

  Accounts:
    POST   /api/signup   Register
    POST   /api/login    Exchange credentials for a JWT

  Stored summary (authenticated, one per owner):
    GET    /api/me/subscription-detail    Fetch stored summary
    POST   /api/me/subscription-detail    Save (replace-on-write)
    DELETE /api/me/subscription-detail    Remove

  Admin:
    POST   /api/admin/refresh   Re-evaluate all stored summaries now

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, impossible dates, prepayment cap
  - 401: Missing/invalid token
  - 404: No stored summary
  - 409: Duplicate email
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - auth.go: Signup, login and the JWT middleware
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/warp/recognition-engine/recognition"
	"github.com/warp/recognition-engine/store"
	rediscache "github.com/warp/recognition-engine/store/redis"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  store.Store
	Cache  *rediscache.Cache
	Logger *logrus.Logger

	JWTSecret string
	JWTTTL    time.Duration

	// Now supplies the as-of date for recognition checks. Tests override it
	// to pin "today".
	Now func() recognition.Date

	Refresher *Refresher
}

// NewHandler creates a handler with the given store and logger.
func NewHandler(st store.Store, logger *logrus.Logger) *Handler {
	return &Handler{
		Store:  st,
		Logger: logger,
		JWTTTL: 24 * time.Hour,
		Now:    recognition.Today,
	}
}

// =============================================================================
// SCHEDULE HANDLERS
// =============================================================================

// NormalSchedule generates the baseline on-time schedule.
func (h *Handler) NormalSchedule(w http.ResponseWriter, r *http.Request) {
	var req NormalScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	openDate, err := parseDateField(req.OpenDate, "open_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	endDate, err := parseDateField(req.EndDate, "end_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	rounds, err := recognition.GenerateNormalPayments(openDate, req.DueDay, endDate)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recognition.SummarizeRounds(rounds, endDate))
}

// RecalcSchedule recomputes recognition over caller-observed payments.
func (h *Handler) RecalcSchedule(w http.ResponseWriter, r *http.Request) {
	var req RecalcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	endDate, err := parseDateField(req.EndDate, "end_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	payments, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payment input", err)
		return
	}

	rounds := recognition.RecalcPayments(payments, h.Now())
	writeJSON(w, http.StatusOK, recognition.SummarizeRounds(rounds, endDate))
}

// CalculateRecognition runs a full recognition simulation.
func (h *Handler) CalculateRecognition(w http.ResponseWriter, r *http.Request) {
	var req CalculateRecognitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	domainReq, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid simulation request", err)
		return
	}

	summary, err := recognition.CalculateRecognitionDetails(domainReq, h.Now())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// =============================================================================
// STORED SUMMARY HANDLERS (authenticated)
// =============================================================================

// GetMySummary returns the caller's stored summary.
func (h *Handler) GetMySummary(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}

	if payload, hit := h.Cache.Get(r.Context(), ownerID); hit {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(payload)
		return
	}

	rec, err := h.Store.GetSummary(r.Context(), ownerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load summary", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "No stored summary", nil)
		return
	}

	if err := h.Cache.Set(r.Context(), ownerID, rec.Payload); err != nil {
		h.Logger.WithError(err).Warn("summary cache write failed")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(rec.Payload)
}

// SaveMySummary stores the caller's summary, replacing any previous one.
func (h *Handler) SaveMySummary(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}

	var summary recognition.Summary
	if err := json.NewDecoder(r.Body).Decode(&summary); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid summary body", err)
		return
	}

	// Re-marshal to store the canonical form rather than raw client bytes.
	payload, err := json.Marshal(summary)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode summary", err)
		return
	}

	if err := h.Store.SaveSummary(r.Context(), ownerID, payload); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save summary", err)
		return
	}
	if err := h.Cache.Invalidate(r.Context(), ownerID); err != nil {
		h.Logger.WithError(err).Warn("summary cache invalidation failed")
	}

	h.Logger.WithField("owner_id", ownerID).Info("summary saved")
	writeJSON(w, http.StatusOK, summary)
}

// DeleteMySummary removes the caller's stored summary.
func (h *Handler) DeleteMySummary(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}

	if err := h.Store.DeleteSummary(r.Context(), ownerID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete summary", err)
		return
	}
	if err := h.Cache.Invalidate(r.Context(), ownerID); err != nil {
		h.Logger.WithError(err).Warn("summary cache invalidation failed")
	}

	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// TriggerRefresh re-evaluates every stored summary against today.
func (h *Handler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	if h.Refresher == nil {
		writeError(w, http.StatusServiceUnavailable, "Refresher not configured", nil)
		return
	}

	refreshed, err := h.Refresher.RefreshAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Refresh failed", err)
		return
	}
	writeJSON(w, http.StatusOK, RefreshResponse{Refreshed: refreshed})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps core errors to statuses: caller mistakes are 400,
// everything else 500.
func writeDomainError(w http.ResponseWriter, err error) {
	if recognition.IsClientError(err) {
		writeError(w, http.StatusBadRequest, "Calculation rejected", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "Calculation failed", err)
}
