package middlewares

import (
	"net/http"
	"strings"
)

// Options is the per-call request description threaded through a pipeline by reference.
// Changes made by one middleware are seen by every stage after it.
type Options struct {
	// Method is the HTTP method. Empty means GET.
	Method string
	// Header is nil until a middleware first sets a value.
	Header http.Header
	// Body is nil, a string, a []byte or an io.Reader when it reaches the transport.
	Body any
}

// SetHeader sets a header value, allocating the header map on first use.
func (o *Options) SetHeader(name, value string) {
	if o.Header == nil {
		o.Header = http.Header{}
	}
	o.Header.Set(name, value)
}

// GetHeader returns the first value of the named header, or "".
func (o *Options) GetHeader(name string) string {
	if o.Header == nil {
		return ""
	}
	return o.Header.Get(name)
}

// EffectiveMethod returns the upper-cased method, defaulting to GET.
func (o *Options) EffectiveMethod() string {
	if o.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(o.Method)
}

// Clone returns a copy whose header map is not shared with o.
func (o *Options) Clone() *Options {
	c := *o
	if o.Header != nil {
		c.Header = o.Header.Clone()
	}
	return &c
}

// Response is a fully buffered HTTP response.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte

	// Meta carries values attached by middleware on the way back.
	Meta map[string]any
}

// SetMeta attaches a value to the response, allocating Meta on first use.
func (r *Response) SetMeta(key string, value any) {
	if r.Meta == nil {
		r.Meta = map[string]any{}
	}
	r.Meta[key] = value
}

// GetMeta returns a value attached with SetMeta.
func (r *Response) GetMeta(key string) (any, bool) {
	v, ok := r.Meta[key]
	return v, ok
}

// IsSuccess reports whether the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
