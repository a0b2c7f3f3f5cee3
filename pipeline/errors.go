package pipeline

import (
	"errors"
	"fmt"
)

// maxErrBodySize caps the amount of response body carried inside a
// classification error. This prevents unbounded memory usage when a
// large response arrives with a wrong status or content type.
const maxErrBodySize = 4 << 10 // 4KB

var (
	// ErrFailedResponse is the sentinel wrapped by [FailedResponseError].
	ErrFailedResponse = errors.New("failed response")
	// ErrUnexpectedContentType is the sentinel wrapped by [ContentTypeError].
	ErrUnexpectedContentType = errors.New("unexpected content type")
	// ErrUnexpectedNoContent is the sentinel wrapped by [NoContentError].
	ErrUnexpectedNoContent = errors.New("unexpected no content")
	// ErrUnexpectedRedirect is the sentinel wrapped by [RedirectError].
	ErrUnexpectedRedirect = errors.New("unexpected redirect")
)

// FailedResponseError is produced when the server answers with a
// non-success status code.
type FailedResponseError struct {
	StatusCode int
	Body       []byte
}

func (e *FailedResponseError) Error() string {
	return fmt.Sprintf("%v: %d, body: %s", ErrFailedResponse, e.StatusCode, e.Body)
}

func (e *FailedResponseError) Unwrap() error {
	return ErrFailedResponse
}

// ContentTypeError is produced when a successful response carries a
// Content-Type outside the expected list.
type ContentTypeError struct {
	ContentType string
	Body        []byte
}

func (e *ContentTypeError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnexpectedContentType, e.ContentType)
}

func (e *ContentTypeError) Unwrap() error {
	return ErrUnexpectedContentType
}

// NoContentError is produced when a 204 response reaches a parse
// chain that requires an entity.
type NoContentError struct{}

func (e *NoContentError) Error() string {
	return ErrUnexpectedNoContent.Error()
}

func (e *NoContentError) Unwrap() error {
	return ErrUnexpectedNoContent
}

// RedirectError is produced when redirects are not auto-followed, an
// entity was expected, and the server answered with a 3xx.
type RedirectError struct {
	StatusCode int
	Location   string
	Body       []byte
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("%v: %d, location: %q", ErrUnexpectedRedirect, e.StatusCode, e.Location)
}

func (e *RedirectError) Unwrap() error {
	return ErrUnexpectedRedirect
}

// capBody bounds a body slice for inclusion in an error value.
func capBody(body []byte) []byte {
	if len(body) > maxErrBodySize {
		return body[:maxErrBodySize]
	}

	return body
}
