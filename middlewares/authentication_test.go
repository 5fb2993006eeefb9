package middlewares_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nelix/http-client/middlewares"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func Test_TokenRefresher(t *testing.T) {
	ctx := context.Background()

	t.Run("ReusesTokenWithinLifeSpan", func(t *testing.T) {
		// arrange
		var fetches atomic.Int32
		tr := middlewares.NewTokenRefresher("Token", func(ctx context.Context) (string, time.Duration, error) {
			fetches.Add(1)
			return "abc", time.Hour, nil
		}, silentLogger())

		// act
		first, err1 := tr.Get(ctx)
		second, err2 := tr.Get(ctx)

		// assert
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, "abc", first)
		assert.Equal(t, "abc", second)
		assert.Equal(t, int32(1), fetches.Load())
	})

	t.Run("ShortLifeSpanIsNotKept", func(t *testing.T) {
		// arrange
		var fetches atomic.Int32
		tr := middlewares.NewTokenRefresher("Token", func(ctx context.Context) (string, time.Duration, error) {
			fetches.Add(1)
			return "abc", 500 * time.Millisecond, nil
		}, silentLogger())

		// act
		_, _ = tr.Get(ctx)
		_, _ = tr.Get(ctx)

		// assert
		assert.Equal(t, int32(2), fetches.Load())
	})

	t.Run("ConcurrentCallersShareOneFetch", func(t *testing.T) {
		// arrange
		var fetches atomic.Int32
		release := make(chan struct{})
		tr := middlewares.NewTokenRefresher("Token", func(ctx context.Context) (string, time.Duration, error) {
			fetches.Add(1)
			<-release
			return "abc", 0, nil
		}, silentLogger())

		// act
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				token, err := tr.Get(ctx)
				assert.NoError(t, err)
				assert.Equal(t, "abc", token)
			}()
		}
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		// assert
		assert.Equal(t, int32(1), fetches.Load())
	})

	t.Run("Invalidate", func(t *testing.T) {
		// arrange
		var fetches atomic.Int32
		tr := middlewares.NewTokenRefresher("Token", func(ctx context.Context) (string, time.Duration, error) {
			fetches.Add(1)
			return "abc", time.Hour, nil
		}, silentLogger())
		_, _ = tr.Get(ctx)

		// act
		tr.Invalidate()
		_, _ = tr.Get(ctx)

		// assert
		assert.Equal(t, int32(2), fetches.Load())
	})
}

func Test_AuthorizeMiddleware(t *testing.T) {
	ctx := context.Background()

	t.Run("SetsSchemaAndToken", func(t *testing.T) {
		// arrange
		spy := newSpy()
		tr := middlewares.NewTokenRefresher("Token", func(ctx context.Context) (string, time.Duration, error) {
			return "abc", time.Hour, nil
		}, silentLogger())

		// act
		_, err := middlewares.Compose(spy.Execute, middlewares.AuthorizeMiddleware(tr))(ctx, "http://x", &middlewares.Options{})

		// assert
		require.NoError(t, err)
		assert.Equal(t, "Token abc", spy.opts.GetHeader("Authorization"))
	})

	t.Run("EmptySchema", func(t *testing.T) {
		// arrange
		spy := newSpy()
		tr := middlewares.NewTokenRefresher("", func(ctx context.Context) (string, time.Duration, error) {
			return "abc", time.Hour, nil
		}, silentLogger())

		// act
		_, err := middlewares.Compose(spy.Execute, middlewares.AuthorizeMiddleware(tr))(ctx, "http://x", &middlewares.Options{})

		// assert
		require.NoError(t, err)
		assert.Equal(t, "abc", spy.opts.GetHeader("Authorization"))
	})

	t.Run("FetchFailureSendsWithoutToken", func(t *testing.T) {
		// arrange
		spy := newSpy()
		tr := middlewares.NewTokenRefresher("Token", func(ctx context.Context) (string, time.Duration, error) {
			return "", 0, errors.New("auth server down")
		}, silentLogger())

		// act
		resp, err := middlewares.Compose(spy.Execute, middlewares.AuthorizeMiddleware(tr))(ctx, "http://x", &middlewares.Options{})

		// assert
		require.NoError(t, err)
		assert.Same(t, spy.resp, resp)
		assert.Empty(t, spy.opts.GetHeader("Authorization"))
	})

	t.Run("UnauthorizedInvalidatesToken", func(t *testing.T) {
		// arrange
		var fetches atomic.Int32
		spy := newSpy()
		spy.resp = &middlewares.Response{StatusCode: http.StatusUnauthorized}
		tr := middlewares.NewTokenRefresher("Token", func(ctx context.Context) (string, time.Duration, error) {
			fetches.Add(1)
			return "abc", time.Hour, nil
		}, silentLogger())
		pipeline := middlewares.Compose(spy.Execute, middlewares.AuthorizeMiddleware(tr))

		// act
		_, _ = pipeline(ctx, "http://x", &middlewares.Options{})
		_, _ = pipeline(ctx, "http://x", &middlewares.Options{})

		// assert
		assert.Equal(t, int32(2), fetches.Load())
	})
}
