// Package reqpipe exposes the pipeline client builder.
package reqpipe

import (
	"github.com/reqpipe/reqpipe/pipeline"
)

// NewClient instantiates a new *pipeline.Client with the provided
// options. If not specified, the default net/http transport, slog
// logger, and a no-op tracer are used.
func NewClient(opts ...pipeline.Option) (*pipeline.Client, error) {
	return pipeline.Build(opts...)
}
