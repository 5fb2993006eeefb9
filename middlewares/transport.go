package middlewares

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrUnsupportedBody is returned by the transport when Options.Body has a type it cannot send.
var ErrUnsupportedBody = errors.New("middlewares: unsupported body type")

// Transport returns the base Executor backed by client.
// Any completed exchange resolves with a Response, whatever its status code.
// Errors from client.Do are returned as they are.
func Transport(client *http.Client) Executor {
	if client == nil {
		client = http.DefaultClient
	}

	return func(ctx context.Context, url string, opts *Options) (*Response, error) {
		if opts == nil {
			opts = &Options{}
		}

		body, err := bodyReader(opts.Body)
		if err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, opts.EffectiveMethod(), url, body)
		if err != nil {
			return nil, err
		}

		for k, v := range opts.Header {
			req.Header[k] = append([]string(nil), v...)
		}

		res, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer res.Body.Close()

		data, err := io.ReadAll(res.Body)
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}

		return &Response{
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Header:     res.Header,
			Body:       data,
		}, nil
	}
}

func bodyReader(body any) (io.Reader, error) {
	switch v := body.(type) {
	case nil:
		return nil, nil
	case string:
		return strings.NewReader(v), nil
	case []byte:
		return bytes.NewReader(v), nil
	case io.Reader:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedBody, body)
	}
}
