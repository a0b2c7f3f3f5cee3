package pipeline

import (
	"errors"
	"testing"

	"github.com/reqpipe/reqpipe/header"
	"github.com/reqpipe/reqpipe/media"
)

func respWith(status int, contentType string, body string) *Response {
	h := header.New()
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}

	return &Response{StatusCode: status, Header: h, Body: []byte(body)}
}

func TestClassify_SuccessWithBody(t *testing.T) {
	resp := respWith(200, "application/json; charset=utf-8", `{}`)

	cls, err := classify(resp, media.Types("application/json"), true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cls != classBody {
		t.Errorf("expected body classification, got %v", cls)
	}
}

func TestClassify_ContentTypeMismatch(t *testing.T) {
	resp := respWith(200, "text/plain", "nope")

	_, err := classify(resp, media.Types("application/json"), true)
	if !errors.Is(err, ErrUnexpectedContentType) {
		t.Fatalf("expected ErrUnexpectedContentType, got %v", err)
	}

	var ctErr *ContentTypeError
	if !errors.As(err, &ctErr) {
		t.Fatal("expected *ContentTypeError")
	}
	if ctErr.ContentType != "text/plain" {
		t.Errorf("expected content type text/plain, got %q", ctErr.ContentType)
	}
	if string(ctErr.Body) != "nope" {
		t.Errorf("expected body to be carried, got %q", ctErr.Body)
	}
}

func TestClassify_NoContent(t *testing.T) {
	// 204 skips content-type validation even with a non-matching type.
	resp := respWith(204, "text/html", "")

	t.Run("entity required", func(t *testing.T) {
		_, err := classify(resp, media.Types("application/json"), true)
		if !errors.Is(err, ErrUnexpectedNoContent) {
			t.Fatalf("expected ErrUnexpectedNoContent, got %v", err)
		}
	})

	t.Run("absence tolerated", func(t *testing.T) {
		cls, err := classify(resp, media.Types("application/json"), false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cls != classNoContent {
			t.Errorf("expected no-content classification, got %v", cls)
		}
	})
}

func TestClassify_Redirect(t *testing.T) {
	resp := respWith(302, "", "moved")
	resp.Header.Set("Location", "/next")

	t.Run("entity expected", func(t *testing.T) {
		_, err := classify(resp, nil, true)

		var redirErr *RedirectError
		if !errors.As(err, &redirErr) {
			t.Fatalf("expected *RedirectError, got %v", err)
		}
		if redirErr.StatusCode != 302 {
			t.Errorf("expected status 302, got %d", redirErr.StatusCode)
		}
		if redirErr.Location != "/next" {
			t.Errorf("expected location /next, got %q", redirErr.Location)
		}
		if string(redirErr.Body) != "moved" {
			t.Errorf("expected body to be carried, got %q", redirErr.Body)
		}
	})

	t.Run("no entity expected", func(t *testing.T) {
		cls, err := classify(resp, nil, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cls != classNoContent {
			t.Errorf("expected no-content classification, got %v", cls)
		}
	})
}

func TestClassify_FailedResponse(t *testing.T) {
	resp := respWith(500, "text/html", "oops")

	_, err := classify(resp, nil, true)
	if !errors.Is(err, ErrFailedResponse) {
		t.Fatalf("expected ErrFailedResponse, got %v", err)
	}

	var failErr *FailedResponseError
	if !errors.As(err, &failErr) {
		t.Fatal("expected *FailedResponseError")
	}
	if failErr.StatusCode != 500 {
		t.Errorf("expected status 500, got %d", failErr.StatusCode)
	}
}

func TestClassify_ErrorBodyCapped(t *testing.T) {
	big := make([]byte, maxErrBodySize*2)
	resp := &Response{StatusCode: 500, Header: header.New(), Body: big}

	_, err := classify(resp, nil, true)

	var failErr *FailedResponseError
	if !errors.As(err, &failErr) {
		t.Fatal("expected *FailedResponseError")
	}
	if len(failErr.Body) != maxErrBodySize {
		t.Errorf("expected body capped at %d, got %d", maxErrBodySize, len(failErr.Body))
	}
}
