package pipeline

import "github.com/reqpipe/reqpipe/header"

// Response is the transport's view of a completed HTTP exchange:
// status, headers, and the fully-read body. It is read-only once
// handed to the classifier and parse chain.
type Response struct {
	StatusCode int
	Header     *header.FieldSet
	Body       []byte
}

// ContentType returns the response's Content-Type header, or "" when
// absent.
func (r *Response) ContentType() string {
	if r.Header == nil {
		return ""
	}

	v, _ := r.Header.Get("Content-Type")

	return v
}

// Location returns the response's Location header, or "" when absent.
func (r *Response) Location() string {
	if r.Header == nil {
		return ""
	}

	v, _ := r.Header.Get("Location")

	return v
}

// IsSuccess reports whether the status code is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsRedirect reports whether the status code is in the 3xx range.
func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}
