package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Client executes descriptors. It wires the transport, logger,
// tracer, and callback executor shared by the tasks it spawns. There
// is no implicit default client; construct one with [Build] and pass
// it where needed.
type Client struct {
	transport Transport
	logger    *slog.Logger
	tracer    trace.Tracer
	callback  CallbackExecutor
}

// Build constructs a Client. Without options it uses the net/http
// default transport, the default slog logger, a no-op tracer, and
// inline callback delivery.
func Build(optFns ...Option) (*Client, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	c := &Client{
		transport: opts.transport,
		logger:    opts.logger,
		tracer:    opts.tracer,
		callback:  opts.callback,
	}

	if c.transport == nil {
		c.transport = NewHTTPTransport(nil)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.tracer == nil {
		c.tracer = noop.NewTracerProvider().Tracer("no-op tracer")
	}
	if c.callback == nil {
		c.callback = func(fn func()) { fn() }
	}

	if opts.userAgent != "" {
		c.transport = userAgent{value: opts.userAgent, next: c.transport}
	}
	if opts.rateRPS > 0 {
		t, err := RateLimit(c.transport, opts.rateRPS, opts.rateBurst)
		if err != nil {
			return nil, fmt.Errorf("configuring rate limit: %w", err)
		}
		c.transport = t
	}

	return c, nil
}

// Handler receives a task's single completion delivery.
type Handler[T any] func(task *Task, result Result[T])

// Execute snapshots the descriptor, spawns a worker for the exchange,
// and returns the task handle immediately. The handler is invoked
// exactly once with the terminal result, on the finishing worker
// unless the client carries a callback executor.
//
// Execute is a function rather than a method so the parsed payload
// type can flow through as a type parameter.
func Execute[T any](ctx context.Context, c *Client, d *Descriptor, stage Stage[T], handler Handler[T]) (*Task, error) {
	if handler == nil {
		return nil, errors.New("handler must not be nil")
	}

	req, err := d.finalize()
	if err != nil {
		return nil, fmt.Errorf("finalizing descriptor: %w", err)
	}

	ctx, stop := context.WithCancel(ctx)
	task := newTask(stop)

	deliver := func(to State, result Result[T]) {
		if !task.transition(to) {
			return
		}
		c.callback(func() { handler(task, result) })
	}

	go func() {
		defer stop()

		ctx, span := c.tracer.Start(ctx, "pipeline.execute", trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.full", req.URL),
			attribute.String("task.id", task.ID().String()),
		))
		defer span.End()

		resp, err := c.transport.RoundTrip(ctx, req)
		if err != nil {
			// Task.Cancel and a canceled caller context both count as
			// cancellation; a timeout the transport imposed itself does not.
			if task.Canceled() || ctx.Err() != nil {
				deliver(StateCanceled, Canceled[T]())
				return
			}

			c.logger.Error("transport failure", "task", task.ID(), "method", req.Method, "error", err)
			deliver(StateFailed, Failure[T](nil, err))
			return
		}

		span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

		cls, err := classify(resp, d.expect, !stage.optional)
		if err != nil {
			c.logger.Debug("response classified as failure", "task", task.ID(), "status", resp.StatusCode, "error", err)
			deliver(StateFailed, Failure[T](resp, err))
			return
		}

		if cls == classNoContent {
			var zero T
			deliver(StateSucceeded, Success(resp, zero))
			return
		}

		value, err := stage.execute(task.Canceled, resp, resp.Body)
		switch {
		case errors.Is(err, errStageCanceled):
			deliver(StateCanceled, Canceled[T]())
		case err != nil:
			deliver(StateFailed, Failure[T](resp, err))
		default:
			deliver(StateSucceeded, Success(resp, value))
		}
	}()

	return task, nil
}

// Await is the blocking convenience form of [Execute]: it waits for
// the single completion delivery and returns the result. Canceling
// ctx cancels the task.
func Await[T any](ctx context.Context, c *Client, d *Descriptor, stage Stage[T]) (Result[T], error) {
	ch := make(chan Result[T], 1)

	task, err := Execute(ctx, c, d, stage, func(_ *Task, r Result[T]) {
		ch <- r
	})
	if err != nil {
		return Result[T]{}, err
	}

	select {
	case r := <-ch:
		return r, nil
	case <-ctx.Done():
		task.Cancel()
		return <-ch, nil
	}
}
