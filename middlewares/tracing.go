package middlewares

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/nelix/http-client/middlewares"

// Tracing wraps the rest of the pipeline in a client span and injects its context
// into the request headers. Nil arguments fall back to the global otel providers.
func Tracing(tracer trace.Tracer, propagator propagation.TextMapPropagator) Middleware {
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	if propagator == nil {
		propagator = otel.GetTextMapPropagator()
	}

	return func(ctx context.Context, next Executor, url string, opts *Options) (*Response, error) {
		method := opts.EffectiveMethod()

		ctx, span := tracer.Start(ctx, "HTTP "+method,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("http.request.method", method),
				attribute.String("url.full", url),
			),
		)
		defer span.End()

		if opts.Header == nil {
			opts.Header = http.Header{}
		}
		propagator.Inject(ctx, propagation.HeaderCarrier(opts.Header))

		resp, err := next(ctx, url, opts)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return resp, err
		}

		if resp != nil {
			span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
			if resp.StatusCode >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, resp.Status)
			}
		}

		return resp, nil
	}
}
