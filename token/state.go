package token

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-booking-sync/internal/errors"
)

const stateSubject = "crm-authorize"

// StateSigner issues and checks the OAuth state parameter as a short lived
// HS256 token. With no secret configured it issues an empty state and accepts
// any callback.
type StateSigner struct {
	secret  []byte
	ttl     time.Duration
	nowFunc func() time.Time
}

func NewStateSigner(secret string, ttl time.Duration) *StateSigner {
	return &StateSigner{secret: []byte(secret), ttl: ttl, nowFunc: time.Now}
}

// WithNowFunc replaces the clock, returning the signer for chaining.
func (s *StateSigner) WithNowFunc(now func() time.Time) *StateSigner {
	s.nowFunc = now
	return s
}

func (s *StateSigner) Enabled() bool {
	return len(s.secret) > 0
}

func (s *StateSigner) Issue() (string, error) {
	if !s.Enabled() {
		return "", nil
	}
	now := s.nowFunc()
	claims := jwtlib.RegisteredClaims{
		ID:        uuid.New().String(),
		Subject:   stateSubject,
		IssuedAt:  jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(now.Add(s.ttl)),
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign state: %w", err)
	}
	return signed, nil
}

func (s *StateSigner) Verify(state string) error {
	if !s.Enabled() {
		return nil
	}
	if state == "" {
		return errors.ErrInvalidState
	}
	_, err := jwtlib.ParseWithClaims(state, &jwtlib.RegisteredClaims{}, func(*jwtlib.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithSubject(stateSubject),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(s.nowFunc),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidState, err)
	}
	return nil
}
