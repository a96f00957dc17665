package token

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/go-booking-sync/internal/config"
	"github.com/jrsteele09/go-booking-sync/internal/errors"
	"github.com/jrsteele09/go-booking-sync/internal/metrics"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Store owns the CRM credential. Every CRM call gets its bearer token from
// AccessToken, which refreshes an expired credential before returning it.
type Store struct {
	mu      sync.Mutex // serialises check-then-refresh so a rotated refresh token is never used twice
	repo    Repo
	oauth   *oauth2.Config
	client  *http.Client
	nowFunc func() time.Time
}

type StoreOption func(*Store)

func WithNowFunc(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowFunc = now
	}
}

// WithHTTPClient sets the client used to call the token endpoint.
func WithHTTPClient(client *http.Client) StoreOption {
	return func(s *Store) {
		s.client = client
	}
}

func NewStore(repo Repo, cfg config.CrmConfig, opts ...StoreOption) *Store {
	s := &Store{
		repo: repo,
		oauth: &oauth2.Config{
			ClientID:     cfg.GetCrmClientID(),
			ClientSecret: cfg.GetCrmClientSecret(),
			RedirectURL:  cfg.GetCrmRedirectURI(),
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.GetCrmAuthorizeURL(),
				TokenURL:  cfg.GetCrmTokenURL(),
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AuthCodeURL returns the CRM hosted consent page the operator visits to
// grant access.
func (s *Store) AuthCodeURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

// Exchange swaps an authorization code for a credential and persists it.
func (s *Store) Exchange(ctx context.Context, code string) (*Credential, error) {
	if strings.TrimSpace(code) == "" {
		return nil, &errors.AuthError{Msg: "exchange code", Err: errors.ErrMissingCode}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.oauth.Exchange(s.httpContext(ctx), code)
	if err != nil {
		return nil, tokenEndpointError("exchange code", err)
	}

	credential := s.credentialFrom(tok, "")
	if err := s.repo.Upsert(credential); err != nil {
		return nil, errors.Wrapf(err, "failed to store credential")
	}
	log.Info().Time("expires_at", credential.ExpiresAt).Msg("CRM credential stored from authorization code")
	return credential, nil
}

// Refresh renews the credential using the stored refresh token.
func (s *Store) Refresh(ctx context.Context) (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh(ctx)
}

// AccessToken returns the cached access token while it is still valid and
// refreshes it exactly once otherwise.
func (s *Store) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	credential, err := s.load()
	if err != nil {
		return "", err
	}
	if credential == nil {
		return "", &errors.AuthError{Msg: "access token", Err: errors.ErrNoCredential}
	}
	if s.nowFunc().Before(credential.ExpiresAt) {
		return credential.AccessToken, nil
	}

	credential, err = s.refresh(ctx)
	if err != nil {
		return "", err
	}
	return credential.AccessToken, nil
}

// State reports where the stored credential is in its lifecycle.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	credential, err := s.load()
	switch {
	case err != nil || credential == nil:
		return StateNoCredential
	case s.nowFunc().Before(credential.ExpiresAt):
		return StateValid
	default:
		return StateExpired
	}
}

// refresh must be called with mu held.
func (s *Store) refresh(ctx context.Context) (*Credential, error) {
	current, err := s.load()
	if err != nil {
		return nil, err
	}
	if current == nil || current.RefreshToken == "" {
		return nil, &errors.AuthError{Msg: "refresh", Err: errors.ErrMissingRefreshToken}
	}

	// An empty access token forces the token source to hit the endpoint.
	tok, err := s.oauth.TokenSource(s.httpContext(ctx), &oauth2.Token{RefreshToken: current.RefreshToken}).Token()
	metrics.RecordTokenRefresh(err)
	if err != nil {
		log.Error().Err(err).Msg("CRM token refresh failed")
		return nil, tokenEndpointError("refresh", err)
	}

	credential := s.credentialFrom(tok, current.RefreshToken)
	if err := s.repo.Upsert(credential); err != nil {
		return nil, errors.Wrapf(err, "failed to store refreshed credential")
	}
	log.Info().Time("expires_at", credential.ExpiresAt).Msg("CRM credential refreshed")
	return credential, nil
}

func (s *Store) load() (*Credential, error) {
	credential, err := s.repo.Get()
	if errors.Is(err, errors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load credential")
	}
	return credential, nil
}

func (s *Store) httpContext(ctx context.Context) context.Context {
	if s.client == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, s.client)
}

// credentialFrom computes ExpiresAt from expires_in against the store clock,
// falling back to the expiry x/oauth2 derived.
func (s *Store) credentialFrom(tok *oauth2.Token, previousRefreshToken string) *Credential {
	credential := &Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry,
	}
	if credential.RefreshToken == "" {
		credential.RefreshToken = previousRefreshToken
	}
	if seconds, ok := expiresIn(tok); ok {
		credential.ExpiresAt = s.nowFunc().Add(time.Duration(seconds) * time.Second)
	}
	return credential
}

func expiresIn(tok *oauth2.Token) (int64, bool) {
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	}
	return 0, false
}

func tokenEndpointError(op string, err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		authErr := &errors.AuthError{Msg: op, Body: strings.TrimSpace(string(retrieveErr.Body)), Err: err}
		if retrieveErr.Response != nil {
			authErr.Status = retrieveErr.Response.StatusCode
		}
		return authErr
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return errors.NewTransportError("crm token "+op, err)
	}
	return &errors.AuthError{Msg: op, Err: err}
}
