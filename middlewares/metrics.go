package middlewares

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records Prometheus request counts and latencies for outgoing requests.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the client collectors with reg.
// A nil reg registers them with the default registry. Collectors already
// registered by an earlier call are reused, so several executors can share reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	return &Metrics{
		// requests counts finished requests by method, host and status ("error" on transport failure).
		requests: register(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_client_requests_total",
				Help: "Total number of outgoing HTTP requests",
			},
			[]string{"method", "host", "status"},
		)),
		duration: register(reg, prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_client_request_duration_seconds",
				Help:    "Outgoing HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "host"},
		)),
	}
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// Middleware returns the middleware feeding m.
func (m *Metrics) Middleware() Middleware {
	return func(ctx context.Context, next Executor, rawURL string, opts *Options) (*Response, error) {
		start := time.Now()

		resp, err := next(ctx, rawURL, opts)

		method := opts.EffectiveMethod()
		host := hostOf(rawURL)

		status := "error"
		if err == nil && resp != nil {
			status = strconv.Itoa(resp.StatusCode)
		}

		m.requests.WithLabelValues(method, host, status).Inc()
		m.duration.WithLabelValues(method, host).Observe(time.Since(start).Seconds())

		return resp, err
	}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}
