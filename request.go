package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/nelix/http-client/middlewares"
)

type Request[T any] struct {
	re              *RequestExecutor
	headers         map[string]string
	httpMethod      string
	url             string
	payload         interface{}
	queryParameters url.Values
	middlewares     []middlewares.Middleware
}

func Get[T any](url string) *Request[T] {
	return newDefaultRequest[T]().
		WithMethod(http.MethodGet).
		WithURL(url)
}

func Post[T any](url string, payload interface{}) *Request[T] {
	return newDefaultRequest[T]().
		WithMethod(http.MethodPost).
		WithURL(url).
		WithPayload(payload)
}

func Put[T any](url string, payload interface{}) *Request[T] {
	return newDefaultRequest[T]().
		WithMethod(http.MethodPut).
		WithURL(url).
		WithPayload(payload)
}

func Patch[T any](url string, payload interface{}) *Request[T] {
	return newDefaultRequest[T]().
		WithMethod(http.MethodPatch).
		WithURL(url).
		WithPayload(payload)
}

func Delete[T any](url string) *Request[T] {
	return newDefaultRequest[T]().
		WithMethod(http.MethodDelete).
		WithURL(url)
}

func newDefaultRequest[T any]() *Request[T] {
	return NewRequest[T](Default())
}

func NewRequest[T any](re *RequestExecutor) *Request[T] {
	return &Request[T]{
		re: re,
		headers: map[string]string{
			"Accept": "application/json",
		},
	}
}

func (r *Request[T]) WithMethod(httpMethod string) *Request[T] {
	r.httpMethod = httpMethod
	return r
}

func (r *Request[T]) WithURL(url string) *Request[T] {
	r.url = url
	return r
}

func (r *Request[T]) WithPayload(payload interface{}) *Request[T] {
	r.payload = payload
	return r
}

func (r *Request[T]) WithRequestExecutor(re *RequestExecutor) *Request[T] {
	r.re = re
	return r
}

// WithHeaders replaces the request headers. They are applied after the executor's
// middleware, so they override headers the executor sets.
func (r *Request[T]) WithHeaders(headers map[string]string) *Request[T] {
	r.headers = headers
	return r
}

func (r *Request[T]) WithQueryParameters(params map[string]string) *Request[T] {
	if len(params) == 0 {
		return r
	}

	queryParams := url.Values{}
	for k, v := range params {
		queryParams.Add(k, v)
	}

	r.queryParameters = queryParams

	return r
}

// WithMiddleware adds middleware that only this request passes through.
// They run after the executor's own middleware, closest to the transport.
func (r *Request[T]) WithMiddleware(mws ...middlewares.Middleware) *Request[T] {
	r.middlewares = append(r.middlewares, mws...)
	return r
}

func (r *Request[T]) Do(ctx context.Context) (*T, error) {
	ok, u, err := isValidURL(r.url)
	if !ok {
		return nil, err
	}

	stages := []middlewares.Middleware{middlewares.Headers(r.headers)}
	if len(r.queryParameters) > 0 {
		stages = append(stages, middlewares.QueryValues(r.queryParameters))
	}
	if r.payload != nil {
		stages = append(stages, middlewares.JSON(r.payload))
	}
	stages = append(stages, r.middlewares...)

	exec := r.re.extend(stages...)
	opts := &middlewares.Options{Method: r.httpMethod}

	res, err := exec(ctx, u.String(), opts)
	if err != nil {
		return nil, &Error{
			Message: "failed to make request " + r.url,
			Cause:   err,
		}
	}

	if res == nil {
		return nil, &Error{
			Message: fmt.Sprintf("calling %s returned empty response", u.String()),
		}
	}

	if res.StatusCode >= http.StatusBadRequest {
		return nil, &Error{
			Message:    fmt.Sprintf("error calling %s", u.String()),
			Cause:      fmt.Errorf("%s", res.Body),
			StatusCode: res.StatusCode,
		}
	}

	responseObject, err := decode[T](res)
	if err != nil {
		return nil, &Error{
			Message:    "error converting response for request " + r.url,
			Cause:      err,
			StatusCode: res.StatusCode,
		}
	}

	return responseObject, nil
}

// decode reads a JSON body, or a text body into string and numeric targets.
// An empty body yields the zero value.
func decode[T any](res *middlewares.Response) (*T, error) {
	var responseObject T
	if len(res.Body) == 0 {
		return &responseObject, nil
	}

	contentType := res.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") || contentType == "" {
		if err := json.Unmarshal(res.Body, &responseObject); err != nil {
			return nil, err
		}
		return &responseObject, nil
	}

	dataAsString := strings.TrimSpace(string(res.Body))
	var parseErr error
	switch any(responseObject).(type) {
	case string:
		responseObject = any(string(res.Body)).(T)
	case []byte:
		responseObject = any(res.Body).(T)
	case int:
		data, err := strconv.Atoi(dataAsString)
		responseObject = any(data).(T)
		parseErr = err
	case float64:
		data, err := strconv.ParseFloat(dataAsString, 64)
		responseObject = any(data).(T)
		parseErr = err
	case float32:
		data, err := strconv.ParseFloat(dataAsString, 32)
		responseObject = any(float32(data)).(T)
		parseErr = err
	default:
		parseErr = fmt.Errorf("unsupported conversion type: %T", responseObject)
	}

	if parseErr != nil {
		return nil, parseErr
	}

	return &responseObject, nil
}

func isValidURL(u string) (bool, *url.URL, error) {
	parsedURL, err := url.Parse(u)

	if err != nil {
		return false, parsedURL, &Error{
			Message: "could not parse url " + u,
			Cause:   err,
		}
	}

	if parsedURL.Host == "" {
		return false, parsedURL, &Error{
			Message: "invalid url host " + u,
			Cause:   err,
		}
	}

	return true, parsedURL, nil
}
