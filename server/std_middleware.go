package server

import (
	"crypto/subtle"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/jrsteele09/go-booking-sync/internal/logging"
)

// RequestIDMiddleware tags the request context logger with a request id and
// echoes it back in the response headers.
func (s *Server) RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = logging.NewID()
		}
		w.Header().Set(headerRequestID, id)
		ctx := logging.WithField(r.Context(), "request_id", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		event := logging.Ctx(r.Context()).Info()
		if s.env == "DEV" {
			event = logging.Ctx(r.Context()).Debug()
			logRoute(r.Method, r.URL.Path)
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}

// RecoverMiddleware logs a panic and answers 500, unless the handler had
// already started its response.
func (s *Server) RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww, ok := w.(middleware.WrapResponseWriter)
		if !ok {
			ww = middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		}
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logging.Ctx(r.Context()).Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Msg("Recovered from panic")
				if ww.Status() == 0 {
					writeJSONError(ww, "internal_error", "internal server error", http.StatusInternalServerError)
				}
			}
		}()
		next.ServeHTTP(ww, r)
	})
}

// WebhookAuthMiddleware rejects deliveries whose shared token does not match
// the configured secret. An empty secret disables the check.
func (s *Server) WebhookAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secret := s.config.GetWebhookSecret()
		if secret != "" {
			got := r.Header.Get(headerWebhookToken)
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				logging.Ctx(r.Context()).Warn().Msg("Webhook rejected: bad token")
				writeJSONError(w, "unauthorized", "invalid webhook token", http.StatusUnauthorized)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
