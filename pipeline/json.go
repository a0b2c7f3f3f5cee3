package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JSONOption configures the JSON source stages.
type JSONOption func(*jsonOpts)

type jsonOpts struct {
	omitNulls bool
	useNumber bool
}

// OmitNulls removes null members recursively from decoded objects. A
// top-level null is always preserved as the decoded value itself and
// is never silently dropped; null elements inside arrays are likewise
// kept, since removal would shift indices.
func OmitNulls() JSONOption {
	return func(o *jsonOpts) {
		o.omitNulls = true
	}
}

// UseNumber preserves number precision as [json.Number] instead of
// float64.
func UseNumber() JSONOption {
	return func(o *jsonOpts) {
		o.useNumber = true
	}
}

// JSON is the untyped JSON source stage: it decodes the body into
// maps, slices, and scalars.
func JSON(opts ...JSONOption) Stage[any] {
	var o jsonOpts
	for _, opt := range opts {
		opt(&o)
	}

	return Stage[any]{
		run: func(_ probe, _ *Response, body []byte) (any, error) {
			d := json.NewDecoder(bytes.NewReader(body))
			if o.useNumber {
				d.UseNumber()
			}

			var v any
			if err := d.Decode(&v); err != nil {
				return nil, fmt.Errorf("decoding body: %w", err)
			}

			if o.omitNulls {
				v = stripNulls(v)
			}

			return v, nil
		},
	}
}

// JSONAs is the typed JSON source stage, decoding the body directly
// into T.
func JSONAs[T any](opts ...JSONOption) Stage[T] {
	var o jsonOpts
	for _, opt := range opts {
		opt(&o)
	}

	return Stage[T]{
		run: func(_ probe, _ *Response, body []byte) (T, error) {
			var v T

			d := json.NewDecoder(bytes.NewReader(body))
			if o.useNumber {
				d.UseNumber()
			}

			if err := d.Decode(&v); err != nil {
				var zero T
				return zero, fmt.Errorf("decoding body: %w", err)
			}

			return v, nil
		},
	}
}

// stripNulls removes null-valued members from objects, recursively.
// It only ever descends; the value passed in is returned as-is when
// it is not a container, so a top-level null survives.
func stripNulls(v any) any {
	switch vv := v.(type) {
	case map[string]any:
		for k, e := range vv {
			if e == nil {
				delete(vv, k)
				continue
			}
			vv[k] = stripNulls(e)
		}
		return vv

	case []any:
		for i, e := range vv {
			vv[i] = stripNulls(e)
		}
		return vv

	default:
		return v
	}
}
