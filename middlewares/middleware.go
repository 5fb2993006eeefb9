package middlewares

import (
	"context"
	"errors"
	"net/http"
)

// ErrNilMiddleware is returned when a pipeline stage holding a nil Middleware is invoked.
var ErrNilMiddleware = errors.New("middlewares: nil middleware invoked")

// Executor sends a request for url described by opts and returns the response.
// The base transport and every composed pipeline share this signature.
type Executor func(ctx context.Context, url string, opts *Options) (*Response, error)

// Middleware observes or transforms a request before handing it to next, and the
// response or error after next returns. A middleware may also answer without calling next.
type Middleware func(ctx context.Context, next Executor, url string, opts *Options) (*Response, error)

// Compose builds a single Executor from base and mws.
// The first middleware is the outermost one: it sees the request first and the
// response last. An empty list returns base unchanged. A nil opts reaches the
// middleware as an empty Options.
func Compose(base Executor, mws ...Middleware) Executor {
	if len(mws) == 0 {
		return base
	}

	pipeline := base
	for i := len(mws) - 1; i >= 0; i-- {
		pipeline = wrap(mws[i], pipeline)
	}

	return func(ctx context.Context, url string, opts *Options) (*Response, error) {
		if opts == nil {
			opts = &Options{}
		}
		return pipeline(ctx, url, opts)
	}
}

func wrap(m Middleware, next Executor) Executor {
	return func(ctx context.Context, url string, opts *Options) (*Response, error) {
		if m == nil {
			return nil, ErrNilMiddleware
		}
		return m(ctx, next, url, opts)
	}
}

// Chain merges mws into one Middleware with the same ordering as Compose.
func Chain(mws ...Middleware) Middleware {
	return func(ctx context.Context, next Executor, url string, opts *Options) (*Response, error) {
		return Compose(next, mws...)(ctx, url, opts)
	}
}

// PassThrough returns a middleware that only delegates.
func PassThrough() Middleware {
	return func(ctx context.Context, next Executor, url string, opts *Options) (*Response, error) {
		return next(ctx, url, opts)
	}
}

// Stub answers requests accepted by match without calling next.
// Requests it does not match are delegated.
func Stub(match func(url string, opts *Options) (*Response, bool)) Middleware {
	return func(ctx context.Context, next Executor, url string, opts *Options) (*Response, error) {
		if resp, ok := match(url, opts); ok {
			return resp, nil
		}
		return next(ctx, url, opts)
	}
}

// StubStatus is a Stub helper answering every request with an empty body and the given status.
func StubStatus(code int) Middleware {
	return Stub(func(string, *Options) (*Response, bool) {
		return &Response{StatusCode: code, Status: http.StatusText(code), Header: http.Header{}}, true
	})
}
