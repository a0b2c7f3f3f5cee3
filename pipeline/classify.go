package pipeline

import (
	"net/http"

	"github.com/reqpipe/reqpipe/media"
)

// classification is the classifier's verdict on a response.
type classification int

const (
	// classBody: success, run the parse chain over the body.
	classBody classification = iota
	// classNoContent: success with no entity; the chain is skipped and
	// the result carries the zero value.
	classNoContent
)

// classify maps a response's status, headers, and body presence to a
// success classification or a taxonomy error. It is a pure function
// of its inputs; transport-level failures never reach it.
//
// A 204 skips content-type validation entirely: it either satisfies a
// chain that tolerates absence or yields ErrUnexpectedNoContent. A
// 3xx reaches the classifier only when the transport did not follow
// it; with an entity expected that is ErrUnexpectedRedirect, without
// one it counts as a no-content success. Everything else non-2xx is
// ErrFailedResponse.
func classify(resp *Response, expected []media.Type, requiresEntity bool) (classification, error) {
	switch {
	case resp.StatusCode == http.StatusNoContent:
		if requiresEntity {
			return 0, &NoContentError{}
		}
		return classNoContent, nil

	case resp.IsSuccess():
		if !media.Negotiate(resp.ContentType(), expected) {
			return 0, &ContentTypeError{
				ContentType: resp.ContentType(),
				Body:        capBody(resp.Body),
			}
		}
		return classBody, nil

	case resp.IsRedirect():
		if requiresEntity {
			return 0, &RedirectError{
				StatusCode: resp.StatusCode,
				Location:   resp.Location(),
				Body:       capBody(resp.Body),
			}
		}
		return classNoContent, nil

	default:
		return 0, &FailedResponseError{
			StatusCode: resp.StatusCode,
			Body:       capBody(resp.Body),
		}
	}
}
