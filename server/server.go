package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-booking-sync/bookingsource"
	"github.com/jrsteele09/go-booking-sync/ingest"
	"github.com/jrsteele09/go-booking-sync/internal/config"
	"github.com/jrsteele09/go-booking-sync/token"
	"github.com/rs/zerolog/log"
)

// BookingProcessor runs one booking delivery end to end.
type BookingProcessor interface {
	Process(ctx context.Context, booking bookingsource.Booking) (*ingest.Report, error)
}

// CredentialStore is the part of the CRM token store the HTTP layer drives.
type CredentialStore interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*token.Credential, error)
	State() token.State
}

type Server struct {
	env       string // Environment (e.g., "DEV", "PROD")
	router    chi.Router
	routes    []string
	config    config.Config
	bookings  BookingProcessor
	tokens    CredentialStore
	stateSign *token.StateSigner
}

func New(config config.Config, bookings BookingProcessor, tokens CredentialStore, stateSigner *token.StateSigner) *Server {
	s := &Server{
		env:       config.GetEnv(),
		router:    chi.NewRouter(),
		config:    config,
		bookings:  bookings,
		tokens:    tokens,
		stateSign: stateSigner,
	}

	s.initRoutes()
	s.logRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// RegisterRouteHandler mounts handler on a "METHOD /path" pattern.
func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	method, path, found := strings.Cut(pattern, " ")
	if !found {
		s.router.Handle(pattern, handler)
		return
	}
	s.router.Method(method, path, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.RegisterRouteHandler(pattern, http.HandlerFunc(handler))
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		method, path, found := strings.Cut(route, " ")
		if !found {
			path, method = method, ""
		}
		logRoute(method, path)
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}
