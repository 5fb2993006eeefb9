package middlewares

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

const tokenKey = "access_token"

var (
	lifeSpanSafetyMargin = 1 * time.Second
)

// AuthorizeFunc fetches a new access token and reports how long it stays valid.
// A non-positive lifeSpan means the token never expires.
type AuthorizeFunc func(ctx context.Context) (token string, lifeSpan time.Duration, err error)

// TokenRefresher keeps an access token until shortly before it expires and fetches a
// new one on demand. Concurrent callers share a single fetch.
type TokenRefresher struct {
	tokens    *cache.Cache
	group     singleflight.Group
	logger    *slog.Logger
	authorize AuthorizeFunc

	Schema string
}

func NewTokenRefresher(schema string, fn AuthorizeFunc, logger *slog.Logger) *TokenRefresher {
	if logger == nil {
		logger = slog.Default()
	}

	return &TokenRefresher{
		tokens:    cache.New(cache.NoExpiration, time.Minute),
		logger:    logger,
		authorize: fn,

		Schema: schema,
	}
}

// Get returns the current token, fetching a new one if none is held.
func (tr *TokenRefresher) Get(ctx context.Context) (string, error) {
	if token, ok := tr.tokens.Get(tokenKey); ok {
		return token.(string), nil
	}

	v, err, _ := tr.group.Do(tokenKey, func() (any, error) {
		if token, ok := tr.tokens.Get(tokenKey); ok {
			return token, nil
		}

		token, lifeSpan, err := tr.authorize(ctx)
		if err != nil {
			tr.logger.ErrorContext(ctx, "Could not retrieve access token", "Error", err)
			return "", err
		}

		switch ttl := lifeSpan - lifeSpanSafetyMargin; {
		case lifeSpan <= 0:
			tr.tokens.Set(tokenKey, token, cache.NoExpiration)
		case ttl > 0:
			tr.tokens.Set(tokenKey, token, ttl)
		}

		return token, nil
	})
	if err != nil {
		return "", err
	}

	return v.(string), nil
}

// Invalidate drops the held token so the next Get fetches a fresh one.
func (tr *TokenRefresher) Invalidate() {
	tr.tokens.Delete(tokenKey)
}

func (tr *TokenRefresher) credential(token string) string {
	if tr.Schema == "" {
		return token
	}
	return tr.Schema + " " + token
}

// AuthorizeMiddleware sets the Authorization header from tr. When no token can be
// obtained the request is sent without one. A 401 response invalidates the held token.
func AuthorizeMiddleware(tr *TokenRefresher) Middleware {
	return func(ctx context.Context, next Executor, url string, opts *Options) (*Response, error) {
		token, err := tr.Get(ctx)
		if err != nil {
			tr.logger.WarnContext(ctx, "No token will be added to the request", "URL", url, "Method", opts.EffectiveMethod(), "Error", err)
			return next(ctx, url, opts)
		}

		resp, err := Auth(tr.credential(token))(ctx, next, url, opts)
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			tr.Invalidate()
		}

		return resp, err
	}
}
