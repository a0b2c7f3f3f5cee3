package pipeline

// outcome tags the populated branch of a Result.
type outcome uint8

const (
	outcomeSuccess outcome = iota
	outcomeFailure
	outcomeCanceled
)

// Result is the three-way terminal outcome of a task. Exactly one of
// the success, failure, and canceled branches is populated; a
// canceled result carries neither value nor error.
type Result[T any] struct {
	outcome  outcome
	value    T
	response *Response
	err      error
}

// Success builds a result holding a parsed value and the response it
// came from.
func Success[T any](resp *Response, value T) Result[T] {
	return Result[T]{outcome: outcomeSuccess, value: value, response: resp}
}

// Failure builds a result holding an error. The response is nil for
// transport-level failures and populated for classification and
// parse failures.
func Failure[T any](resp *Response, err error) Result[T] {
	return Result[T]{outcome: outcomeFailure, response: resp, err: err}
}

// Canceled builds the canceled result.
func Canceled[T any]() Result[T] {
	return Result[T]{outcome: outcomeCanceled}
}

// Succeeded returns the parsed value and response when the success
// branch holds.
func (r Result[T]) Succeeded() (T, *Response, bool) {
	if r.outcome != outcomeSuccess {
		var zero T
		return zero, nil, false
	}

	return r.value, r.response, true
}

// Failed returns the error and, when available, the response when
// the failure branch holds.
func (r Result[T]) Failed() (error, *Response, bool) {
	if r.outcome != outcomeFailure {
		return nil, nil, false
	}

	return r.err, r.response, true
}

// IsCanceled reports whether the canceled branch holds.
func (r Result[T]) IsCanceled() bool {
	return r.outcome == outcomeCanceled
}
