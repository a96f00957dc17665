package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jrsteele09/go-booking-sync/internal/errors"
	"github.com/jrsteele09/go-booking-sync/internal/logging"
)

type authorizeResponse struct {
	AuthorizationURL string `json:"authorization_url"`
}

type callbackResponse struct {
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CrmAuthorizeHandler returns the CRM hosted consent URL. The operator opens
// it once to connect the service to the CRM account.
func (s *Server) CrmAuthorizeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := s.stateSign.Issue()
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to issue authorization state")
			writeJSONError(w, "server_error", "failed to issue state", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, authorizeResponse{AuthorizationURL: s.tokens.AuthCodeURL(state)})
	}
}

// CrmCallbackHandler completes the authorization-code grant.
func (s *Server) CrmCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.Ctx(r.Context())
		query := r.URL.Query()

		// Check for authorization errors
		if errorParam := query.Get("error"); errorParam != "" {
			writeJSONError(w, errorParam, fmt.Sprintf("Authorization failed: %s", query.Get("error_description")), http.StatusBadRequest)
			return
		}

		if err := s.stateSign.Verify(query.Get("state")); err != nil {
			logger.Warn().Err(err).Msg("Authorization callback rejected")
			writeJSONError(w, "invalid_state", err.Error(), http.StatusBadRequest)
			return
		}

		credential, err := s.tokens.Exchange(r.Context(), query.Get("code"))
		if err != nil {
			logger.Error().Err(err).Msg("Authorization code exchange failed")
			switch {
			case errors.Is(err, errors.ErrMissingCode):
				writeJSONError(w, "invalid_request", "missing code parameter", http.StatusBadRequest)
			default:
				writeJSONError(w, "exchange_failed", err.Error(), http.StatusBadGateway)
			}
			return
		}

		logger.Info().Time("expires_at", credential.ExpiresAt).Msg("CRM connected")
		writeJSON(w, http.StatusOK, callbackResponse{Status: "authorized", ExpiresAt: credential.ExpiresAt})
	}
}
