package middlewares

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultJWTLifetime = 5 * time.Minute

// JWTSigner mints short-lived tokens for service-to-service calls.
type JWTSigner struct {
	Method   jwt.SigningMethod
	Key      any
	Issuer   string
	Subject  string
	Audience []string
	// Lifetime defaults to five minutes.
	Lifetime time.Duration
}

// Sign returns a freshly signed token.
func (s *JWTSigner) Sign() (string, error) {
	method := s.Method
	if method == nil {
		method = jwt.SigningMethodHS256
	}

	lifetime := s.Lifetime
	if lifetime <= 0 {
		lifetime = defaultJWTLifetime
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    s.Issuer,
		Subject:   s.Subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
	}
	if len(s.Audience) > 0 {
		claims.Audience = jwt.ClaimStrings(s.Audience)
	}

	return jwt.NewWithClaims(method, claims).SignedString(s.Key)
}

// JWTAuth signs a token per request and sends it as a Bearer credential.
// A signing failure is returned without calling next.
func JWTAuth(signer *JWTSigner) Middleware {
	return func(ctx context.Context, next Executor, url string, opts *Options) (*Response, error) {
		token, err := signer.Sign()
		if err != nil {
			return nil, fmt.Errorf("sign jwt: %w", err)
		}
		return BearerAuth(token)(ctx, next, url, opts)
	}
}
