package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSource yields the bearer token sent to the contact backend.
// An empty token means no Authorization header.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed API key.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// Signer issues short-lived HS256 service tokens and reuses each one
// until it is close to expiry.
type Signer struct {
	mu      sync.Mutex
	secret  []byte
	issuer  string
	ttl     time.Duration
	now     func() time.Time
	current string
	expires time.Time
}

// DefaultTokenTTL is the lifetime of a signed service token
const DefaultTokenTTL = 5 * time.Minute

func NewSigner(secret, issuer string, ttl time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, errors.New("auth: signing secret is empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Signer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (s *Signer) Token(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	// Refresh with a margin so a token never expires in flight
	if s.current != "" && now.Add(s.ttl/5).Before(s.expires) {
		return s.current, nil
	}

	expires := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   "contact-site",
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}

	s.current = signed
	s.expires = expires
	return signed, nil
}

// NewTokenSource picks a Signer when a secret is set, otherwise the static key.
func NewTokenSource(apiKey, jwtSecret, issuer string) (TokenSource, error) {
	if jwtSecret != "" {
		return NewSigner(jwtSecret, issuer, DefaultTokenTTL)
	}
	return StaticToken(apiKey), nil
}
