package middlewares

import (
	"context"
	"encoding/base64"
)

// Header sets name to value on the outgoing request.
// When several Header middleware set the same name, the one closest to the transport wins.
func Header(name, value string) Middleware {
	return func(ctx context.Context, next Executor, url string, opts *Options) (*Response, error) {
		opts.SetHeader(name, value)
		return next(ctx, url, opts)
	}
}

// Headers sets every entry of headers on the outgoing request.
func Headers(headers map[string]string) Middleware {
	return func(ctx context.Context, next Executor, url string, opts *Options) (*Response, error) {
		for k, v := range headers {
			opts.SetHeader(k, v)
		}
		return next(ctx, url, opts)
	}
}

// Auth sets the Authorization header to value.
func Auth(value string) Middleware {
	return Header("Authorization", value)
}

// BearerAuth sets a Bearer credential.
func BearerAuth(token string) Middleware {
	return Auth("Bearer " + token)
}

// BasicAuth sets HTTP Basic credentials.
func BasicAuth(username, password string) Middleware {
	return Auth("Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password)))
}

// APIKey sends key in the named header, X-API-Key when name is empty.
func APIKey(name, key string) Middleware {
	if name == "" {
		name = "X-API-Key"
	}
	return Header(name, key)
}

// UserAgent sets the User-Agent header.
func UserAgent(ua string) Middleware {
	return Header("User-Agent", ua)
}

// ContentType sets the Content-Type header.
func ContentType(ct string) Middleware {
	return Header("Content-Type", ct)
}

// Method sets the HTTP method for the request.
func Method(method string) Middleware {
	return func(ctx context.Context, next Executor, url string, opts *Options) (*Response, error) {
		opts.Method = method
		return next(ctx, url, opts)
	}
}

// Accept sets the Accept header.
func Accept(mediaType string) Middleware {
	return Header("Accept", mediaType)
}
