package middlewares

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// RequestError annotates a pipeline failure with the request that produced it.
type RequestError struct {
	URL    string
	Method string
	Header http.Header
	Err    error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// EnhanceError wraps failures from the rest of the pipeline in a *RequestError carrying
// the url and options as they were after every later stage ran. On success the url is
// recorded in the response Meta under "url".
func EnhanceError() Middleware {
	return func(ctx context.Context, next Executor, url string, opts *Options) (*Response, error) {
		resp, err := next(ctx, url, opts)
		if err != nil {
			var header http.Header
			if opts.Header != nil {
				header = opts.Header.Clone()
			}
			return resp, &RequestError{
				URL:    url,
				Method: opts.EffectiveMethod(),
				Header: header,
				Err:    err,
			}
		}

		if resp != nil {
			resp.SetMeta("url", url)
		}

		return resp, nil
	}
}

// StatusError reports a response whose status code is 400 or above.
type StatusError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *StatusError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("unexpected HTTP status %s", e.Status)
	}
	return fmt.Sprintf("unexpected HTTP status %d", e.StatusCode)
}

// RejectStatus turns responses with a status code of 400 or above into a *StatusError.
// The response is still returned alongside the error.
func RejectStatus() Middleware {
	return func(ctx context.Context, next Executor, url string, opts *Options) (*Response, error) {
		resp, err := next(ctx, url, opts)
		if err != nil || resp == nil {
			return resp, err
		}

		if resp.StatusCode >= http.StatusBadRequest {
			return resp, &StatusError{
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				Body:       resp.Body,
			}
		}

		return resp, nil
	}
}

// IsStatus reports whether err carries a *StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
