package pipeline

import (
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error

type options struct {
	transport Transport
	userAgent string
	rateRPS   int
	rateBurst int
	logger    *slog.Logger
	tracer    trace.Tracer
	callback  CallbackExecutor
}

// CallbackExecutor runs a completion delivery. The default executor
// invokes the handler inline on whatever worker finished the task; an
// explicit executor lets callers route deliveries onto a chosen
// goroutine or queue.
type CallbackExecutor func(fn func())

// WithTransport replaces the default net/http-backed Transport.
func WithTransport(t Transport) Option {
	return func(o *options) error {
		if t == nil {
			return errors.New("transport must not be nil")
		}
		o.transport = t
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing
// requests.
func WithUserAgent(value string) Option {
	return func(o *options) error {
		o.userAgent = value
		return nil
	}
}

// WithRateLimit enables token-bucket rate limiting with the given
// requests per second and burst capacity.
func WithRateLimit(rps, burst int) Option {
	return func(o *options) error {
		if rps <= 0 || burst <= 0 {
			return errors.New("rps and burst must be greater than zero")
		}
		o.rateRPS = rps
		o.rateBurst = burst
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		o.logger = logger
		return nil
	}
}

// WithTracer sets the tracer used to span each execution. A no-op
// tracer is used unless one is provided.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		o.tracer = tracer
		return nil
	}
}

// WithCallbackExecutor routes completion deliveries through exec.
func WithCallbackExecutor(exec CallbackExecutor) Option {
	return func(o *options) error {
		if exec == nil {
			return errors.New("callback executor must not be nil")
		}
		o.callback = exec
		return nil
	}
}
