package middlewares

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Query appends params to the request URL. The url received by this middleware is left
// as it is; only the stages after it see the extended one.
// Slice values produce one pair per element and nil values are skipped.
func Query(params map[string]any) Middleware {
	values := url.Values{}
	for k, v := range params {
		addQueryValue(values, k, v)
	}
	return QueryValues(values)
}

// QueryValues is Query for pre-built url.Values.
func QueryValues(values url.Values) Middleware {
	encoded := values.Encode()

	return func(ctx context.Context, next Executor, rawURL string, opts *Options) (*Response, error) {
		if encoded == "" {
			return next(ctx, rawURL, opts)
		}
		return next(ctx, appendQuery(rawURL, encoded), opts)
	}
}

func addQueryValue(values url.Values, key string, v any) {
	switch val := v.(type) {
	case nil:
	case string:
		values.Add(key, val)
	case []string:
		for _, s := range val {
			values.Add(key, s)
		}
	case []any:
		for _, item := range val {
			addQueryValue(values, key, item)
		}
	case fmt.Stringer:
		values.Add(key, val.String())
	default:
		values.Add(key, fmt.Sprint(val))
	}
}

func appendQuery(rawURL, encoded string) string {
	fragment := ""
	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		rawURL, fragment = rawURL[:i], rawURL[i:]
	}

	switch {
	case !strings.Contains(rawURL, "?"):
		rawURL += "?" + encoded
	case strings.HasSuffix(rawURL, "?"), strings.HasSuffix(rawURL, "&"):
		rawURL += encoded
	default:
		rawURL += "&" + encoded
	}

	return rawURL + fragment
}
