package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	s.router.Use(s.RequestIDMiddleware, s.LoggingMiddleware, s.RecoverMiddleware)

	// Booking source deliveries
	s.router.Group(func(r chi.Router) {
		if requests, window := s.config.GetWebhookRateLimit(); requests > 0 {
			r.Use(httprate.LimitByIP(requests, window))
		}
		r.Use(s.WebhookAuthMiddleware)
		r.Method("POST", RouteWebhookBooking, s.BookingWebhookHandler())
		s.routes = append(s.routes, "POST "+RouteWebhookBooking)
	})

	// CRM authorization
	s.RegisterRouteFunc("GET "+RouteCrmAuthorize, s.CrmAuthorizeHandler())
	s.RegisterRouteFunc("GET "+RouteCrmCallback, s.CrmCallbackHandler())

	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.Handler())
}
