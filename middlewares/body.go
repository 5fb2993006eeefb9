package middlewares

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// JSON encodes v as the request body and sets Content-Type to application/json.
// An encoding failure is returned without calling next.
func JSON(v any) Middleware {
	return func(ctx context.Context, next Executor, url string, opts *Options) (*Response, error) {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode json body: %w", err)
		}

		opts.Body = data
		opts.SetHeader("Content-Type", "application/json")

		return next(ctx, url, opts)
	}
}

// Text sends s as a plain text body.
func Text(s string) Middleware {
	return func(ctx context.Context, next Executor, url string, opts *Options) (*Response, error) {
		opts.Body = s
		opts.SetHeader("Content-Type", "text/plain; charset=utf-8")

		return next(ctx, url, opts)
	}
}

// Params sends params in the query string for GET and HEAD requests and as a JSON
// body for every other method. The method is read when the request passes through,
// so a Method middleware placed before Params takes effect.
func Params(params map[string]any) Middleware {
	query := Query(params)
	body := JSON(params)

	return func(ctx context.Context, next Executor, url string, opts *Options) (*Response, error) {
		switch opts.EffectiveMethod() {
		case http.MethodGet, http.MethodHead:
			return query(ctx, next, url, opts)
		default:
			return body(ctx, next, url, opts)
		}
	}
}
