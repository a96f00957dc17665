package server

import (
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/jrsteele09/go-booking-sync/bookingsource"
	"github.com/jrsteele09/go-booking-sync/internal/logging"
	"github.com/jrsteele09/go-booking-sync/internal/metrics"
)

// BookingWebhookHandler accepts a booking-source delivery and syncs it to the
// CRM and the ledger. Partial failures answer 207 with the per item report.
func (s *Server) BookingWebhookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		status := s.handleBookingWebhook(w, r)
		metrics.RecordWebhook(status, time.Since(start))
	}
}

func (s *Server) handleBookingWebhook(w http.ResponseWriter, r *http.Request) int {
	logger := logging.Ctx(r.Context())

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeJSONError(w, "invalid_payload", "failed to read body", http.StatusBadRequest)
		return http.StatusBadRequest
	}

	var hook bookingsource.Webhook
	if err := json.Unmarshal(body, &hook); err != nil {
		logger.Warn().Err(err).Msg("Webhook payload could not be decoded")
		writeJSONError(w, "invalid_payload", err.Error(), http.StatusBadRequest)
		return http.StatusBadRequest
	}
	if err := hook.Validate(); err != nil {
		logger.Warn().Err(err).Msg("Webhook payload rejected")
		writeJSONError(w, "invalid_payload", err.Error(), http.StatusBadRequest)
		return http.StatusBadRequest
	}

	report, err := s.bookings.Process(r.Context(), hook.Booking)
	if err != nil {
		logger.Error().Err(err).Str("booking_code", hook.Booking.Code).Msg("Booking could not be processed")
		writeJSONError(w, "upstream_failure", err.Error(), http.StatusBadGateway)
		return http.StatusBadGateway
	}

	status := http.StatusOK
	if report.Failed() {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, report)
	return status
}

type healthResponse struct {
	Status     string `json:"status"`
	App        string `json:"app"`
	Credential string `json:"credential"`
}

// HealthHandler reports liveness along with the CRM credential state.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{
			Status:     "ok",
			App:        s.config.GetAppName(),
			Credential: s.tokens.State().String(),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes an error body in the OAuth2 error shape
func writeJSONError(w http.ResponseWriter, errorCode, description string, statusCode int) {
	writeJSON(w, statusCode, map[string]string{
		"error":             errorCode,
		"error_description": description,
	})
}
