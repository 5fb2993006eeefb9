package middlewares

import (
	"context"
	"log/slog"
	"time"
)

// PerformanceMiddleware warns when the rest of the pipeline takes longer than threshold.
// The measured duration is attached to successful responses under "elapsed".
func PerformanceMiddleware(threshold time.Duration, logger *slog.Logger) Middleware {
	return func(ctx context.Context, next Executor, url string, opts *Options) (*Response, error) {
		start := time.Now()

		resp, err := next(ctx, url, opts)

		elapsed := time.Since(start)

		if elapsed > threshold {
			logger.WarnContext(ctx, "Slow request", "URL", url, "Method", opts.EffectiveMethod(), "Elapsed", elapsed)
		}

		if resp != nil {
			resp.SetMeta("elapsed", elapsed)
		}

		return resp, err
	}
}
