package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

// errStageCanceled short-circuits a parse chain when the owning task
// was canceled. The task translates it into the canceled result; it
// is never surfaced to callers.
var errStageCanceled = errors.New("stage canceled")

// probe reports whether the owning task has been canceled. Checked
// before every stage invocation.
type probe func() bool

// Stage transforms a classified response body into a value of type T.
// Stages compose with [Then]: each link runs at most once, in
// definition order, and the first failure short-circuits the rest.
// A stage built by the source constructors requires an entity;
// [Optional] lifts that requirement so a 204 yields the zero value.
type Stage[T any] struct {
	optional bool
	run      func(p probe, resp *Response, body []byte) (T, error)
}

// execute runs the chain under the task's cancellation probe.
func (s Stage[T]) execute(p probe, resp *Response, body []byte) (T, error) {
	if p() {
		var zero T
		return zero, errStageCanceled
	}

	return s.run(p, resp, body)
}

// Bytes is the raw-bytes source stage.
func Bytes() Stage[[]byte] {
	return Stage[[]byte]{
		run: func(_ probe, _ *Response, body []byte) ([]byte, error) {
			return body, nil
		},
	}
}

// Text decodes the body as a UTF-8 string.
func Text() Stage[string] {
	return Stage[string]{
		run: func(_ probe, _ *Response, body []byte) (string, error) {
			return string(body), nil
		},
	}
}

// Then composes a stage with a transform, producing a stage of the
// transform's output type. The cancellation probe is re-checked
// between the predecessor and fn, so a cancel that lands mid-chain
// skips every remaining transform. Returning a zero value with a nil
// error is a successful nil-valued result, not a failure.
func Then[A, B any](prev Stage[A], fn func(resp *Response, value A) (B, error)) Stage[B] {
	return Stage[B]{
		optional: prev.optional,
		run: func(p probe, resp *Response, body []byte) (B, error) {
			var zero B

			a, err := prev.run(p, resp, body)
			if err != nil {
				return zero, err
			}

			if p() {
				return zero, errStageCanceled
			}

			return fn(resp, a)
		},
	}
}

// Optional marks the chain as tolerating the absence of an entity. A
// 204 response then completes successfully with the zero value
// instead of ErrUnexpectedNoContent, and the chain never runs.
func Optional[T any](s Stage[T]) Stage[T] {
	s.optional = true
	return s
}

// Extract is a source stage that pulls a single value out of a JSON
// body by gjson path, e.g. "users.0.name".
func Extract(path string) Stage[string] {
	return Stage[string]{
		run: func(_ probe, _ *Response, body []byte) (string, error) {
			if path == "" {
				return "", errors.New("empty extraction path")
			}

			res := gjson.GetBytes(body, path)
			if !res.Exists() {
				return "", fmt.Errorf("path not found: %s", path)
			}
			if res.Type == gjson.Null {
				return "null", nil
			}

			return res.String(), nil
		},
	}
}

// CompileSchema compiles a JSON schema document for use with
// [ValidateSchema].
func CompileSchema(src string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", strings.NewReader(src)); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	return schema, nil
}

// ValidateSchema is a source stage that decodes the body as JSON and
// validates it against schema, yielding the decoded value on success.
func ValidateSchema(schema *jsonschema.Schema) Stage[any] {
	return Then(JSON(), func(_ *Response, v any) (any, error) {
		if err := schema.Validate(v); err != nil {
			return nil, fmt.Errorf("schema validation: %w", err)
		}

		return v, nil
	})
}
