package middlewares

import (
	"context"
	"log/slog"
)

// LoggerMiddleware logs every request and its outcome.
func LoggerMiddleware(logger *slog.Logger) Middleware {
	return func(ctx context.Context, next Executor, url string, opts *Options) (*Response, error) {
		method := opts.EffectiveMethod()
		logger.InfoContext(ctx, "Executing request", "URL", url, "Method", method)

		resp, err := next(ctx, url, opts)

		if err != nil {
			logger.ErrorContext(ctx, "Error on request", "URL", url, "Method", method, "Error", err.Error())
			return resp, err
		}

		logger.DebugContext(ctx, "Request completed", "URL", url, "Method", method, "Status", resp.StatusCode)

		return resp, nil
	}
}
