package httpclient

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nelix/http-client/middlewares"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var (
	defaultTimeout = 30 * time.Second

	defaultRequestExecutor atomic.Value
)

func init() {
	defaultRequestExecutor.Store(newDefaultRequestExecutor())
}

// Default returns the default RequestExecutor.
func Default() *RequestExecutor { return defaultRequestExecutor.Load().(*RequestExecutor) }

// SetDefault makes re the default RequestExecutor.
func SetDefault(re *RequestExecutor) {
	defaultRequestExecutor.Store(re)
}

// RequestExecutor owns an http.Client and an ordered middleware list, and keeps the
// pipeline composed from them. Middleware added first runs first on the way out.
// The With/Add methods are meant for setup; the composed pipeline is safe for
// concurrent use and a rebuild never affects requests already in flight.
type RequestExecutor struct {
	mu          sync.Mutex
	client      *http.Client
	middlewares []middlewares.Middleware
	pipeline    atomic.Value
	authEnabled bool

	Logger *slog.Logger
}

func newDefaultRequestExecutor() *RequestExecutor {
	client := http.Client{Timeout: defaultTimeout}
	return NewRequestExecutor(client)
}

// NewDefaultRequestExecutor returns an executor with a 30s timeout and no middleware.
func NewDefaultRequestExecutor() *RequestExecutor {
	return newDefaultRequestExecutor()
}

func NewRequestExecutor(client http.Client) *RequestExecutor {
	re := &RequestExecutor{
		client: &client,
		Logger: slog.Default(),
	}

	re.rebuild()

	return re
}

// Executor returns the composed pipeline. It has the same shape as the base transport,
// so it can be handed to middlewares.Compose as the base of another pipeline.
func (re *RequestExecutor) Executor() middlewares.Executor {
	return re.pipeline.Load().(middlewares.Executor)
}

// Do runs one request through the pipeline. A nil opts is treated as an empty GET.
func (re *RequestExecutor) Do(ctx context.Context, url string, opts *middlewares.Options) (*middlewares.Response, error) {
	if opts == nil {
		opts = &middlewares.Options{}
	}
	return re.Executor()(ctx, url, opts)
}

// Middlewares returns a copy of the configured middleware list.
func (re *RequestExecutor) Middlewares() []middlewares.Middleware {
	re.mu.Lock()
	defer re.mu.Unlock()

	return append([]middlewares.Middleware(nil), re.middlewares...)
}

func (re *RequestExecutor) WithTimeout(timeout time.Duration) *RequestExecutor {
	re.mu.Lock()
	defer re.mu.Unlock()

	client := *re.client
	client.Timeout = timeout
	re.client = &client
	re.rebuildLocked()

	return re
}

func (re *RequestExecutor) WithMiddleware(handler middlewares.Middleware) *RequestExecutor {
	return re.WithMiddlewares(handler)
}

func (re *RequestExecutor) WithMiddlewares(handlers ...middlewares.Middleware) *RequestExecutor {
	re.mu.Lock()
	defer re.mu.Unlock()

	re.middlewares = append(re.middlewares, handlers...)
	re.rebuildLocked()

	return re
}

func (re *RequestExecutor) WithHeaders(headers map[string]string) *RequestExecutor {
	return re.WithMiddleware(middlewares.Headers(headers))
}

func (re *RequestExecutor) WithUserAgent(ua string) *RequestExecutor {
	return re.WithMiddleware(middlewares.UserAgent(ua))
}

func (re *RequestExecutor) WithBearerToken(token string) *RequestExecutor {
	return re.WithMiddleware(middlewares.BearerAuth(token))
}

func (re *RequestExecutor) AddLogging(logger *slog.Logger) *RequestExecutor {
	re.mu.Lock()
	re.Logger = logger
	re.mu.Unlock()

	return re.WithMiddleware(middlewares.LoggerMiddleware(logger))
}

func (re *RequestExecutor) AddPerformanceMonitor(threshold time.Duration, logger *slog.Logger) *RequestExecutor {
	re.mu.Lock()
	re.Logger = logger
	re.mu.Unlock()

	return re.WithMiddleware(middlewares.PerformanceMiddleware(threshold, logger))
}

func (re *RequestExecutor) AddErrorDiagnostics() *RequestExecutor {
	return re.WithMiddleware(middlewares.EnhanceError())
}

// WithAuthorization installs token authorization once; later calls are ignored.
func (re *RequestExecutor) WithAuthorization(schema string, authorize middlewares.AuthorizeFunc) *RequestExecutor {
	re.mu.Lock()
	defer re.mu.Unlock()

	if re.authEnabled {
		return re
	}

	tr := middlewares.NewTokenRefresher(schema, authorize, re.Logger)

	re.middlewares = append(re.middlewares, middlewares.AuthorizeMiddleware(tr))
	re.authEnabled = true
	re.rebuildLocked()

	return re
}

func (re *RequestExecutor) WithJWT(signer *middlewares.JWTSigner) *RequestExecutor {
	return re.WithMiddleware(middlewares.JWTAuth(signer))
}

func (re *RequestExecutor) WithRequestID() *RequestExecutor {
	return re.WithMiddleware(middlewares.RequestID())
}

// WithMetrics registers request metrics with reg, the default registry when nil.
func (re *RequestExecutor) WithMetrics(reg prometheus.Registerer) *RequestExecutor {
	return re.WithMiddleware(middlewares.NewMetrics(reg).Middleware())
}

func (re *RequestExecutor) WithTracing(tracer trace.Tracer, propagator propagation.TextMapPropagator) *RequestExecutor {
	return re.WithMiddleware(middlewares.Tracing(tracer, propagator))
}

// extend composes a one-off pipeline: the executor's middleware followed by extra,
// so extra runs closest to the transport.
func (re *RequestExecutor) extend(extra ...middlewares.Middleware) middlewares.Executor {
	if len(extra) == 0 {
		return re.Executor()
	}

	re.mu.Lock()
	defer re.mu.Unlock()

	mws := make([]middlewares.Middleware, 0, len(re.middlewares)+len(extra))
	mws = append(mws, re.middlewares...)
	mws = append(mws, extra...)

	return middlewares.Compose(middlewares.Transport(re.client), mws...)
}

func (re *RequestExecutor) rebuild() {
	re.mu.Lock()
	defer re.mu.Unlock()

	re.rebuildLocked()
}

func (re *RequestExecutor) rebuildLocked() {
	re.pipeline.Store(middlewares.Compose(middlewares.Transport(re.client), re.middlewares...))
}
