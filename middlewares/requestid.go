package middlewares

import (
	"context"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags each request with an X-Request-ID header, keeping one that an
// earlier stage already set. The id is attached to the response under "request_id".
func RequestID() Middleware {
	return func(ctx context.Context, next Executor, url string, opts *Options) (*Response, error) {
		id := opts.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			opts.SetHeader(RequestIDHeader, id)
		}

		resp, err := next(ctx, url, opts)
		if resp != nil {
			resp.SetMeta("request_id", id)
		}

		return resp, err
	}
}
