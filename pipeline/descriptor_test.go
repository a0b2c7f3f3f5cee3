package pipeline_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/reqpipe/reqpipe/pipeline"
)

func TestNewDescriptor_Validation(t *testing.T) {
	tests := []struct {
		name   string
		method string
		url    string
	}{
		{name: "unknown method", method: "FETCH", url: "https://api.example.com"},
		{name: "empty method", method: "", url: "https://api.example.com"},
		{name: "empty url", method: http.MethodGet, url: ""},
		{name: "not a url", method: http.MethodGet, url: "::nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pipeline.NewDescriptor(tt.method, tt.url)
			if err == nil {
				t.Fatal("expected a validation error")
			}

			var fields pipeline.FieldErrors
			if !errors.As(err, &fields) {
				t.Fatalf("expected FieldErrors, got %T: %v", err, err)
			}
		})
	}
}

func TestNewDescriptor_OptionErrors(t *testing.T) {
	_, err := pipeline.NewDescriptor(http.MethodGet, "https://api.example.com",
		pipeline.WithTimeout(-time.Second),
	)
	if err == nil {
		t.Error("expected an error for a negative timeout")
	}

	_, err = pipeline.NewDescriptor(http.MethodPost, "https://api.example.com",
		pipeline.WithBody("", []byte("x")),
	)
	if err == nil {
		t.Error("expected an error for an empty content type")
	}

	_, err = pipeline.NewDescriptor(http.MethodGet, "https://api.example.com",
		pipeline.WithHeader("", "v"),
	)
	if err == nil {
		t.Error("expected an error for an empty header name")
	}
}

func TestDescriptor_WithLeavesOriginalUntouched(t *testing.T) {
	base, err := pipeline.NewDescriptor(http.MethodGet, "https://api.example.com/things",
		pipeline.WithHeader("X-Token", "abc"),
	)
	if err != nil {
		t.Fatalf("building descriptor: %v", err)
	}

	derived, err := base.With(
		pipeline.WithHeader("X-Token", "changed"),
		pipeline.WithQuery("page", "2"),
	)
	if err != nil {
		t.Fatalf("deriving descriptor: %v", err)
	}

	if v, _ := base.Headers().Get("X-Token"); v != "abc" {
		t.Errorf("base descriptor mutated: X-Token = %q", v)
	}
	if v, _ := derived.Headers().Get("X-Token"); v != "changed" {
		t.Errorf("derived descriptor missing override: X-Token = %q", v)
	}
}

func TestDescriptor_HeadersReturnsCopy(t *testing.T) {
	d, err := pipeline.NewDescriptor(http.MethodGet, "https://api.example.com",
		pipeline.WithHeader("X-Token", "abc"),
	)
	if err != nil {
		t.Fatalf("building descriptor: %v", err)
	}

	h := d.Headers()
	h.Set("X-Token", "mutated")

	if v, _ := d.Headers().Get("X-Token"); v != "abc" {
		t.Errorf("descriptor headers mutated through accessor copy: %q", v)
	}
}

func TestDescriptor_AddHeaderFolds(t *testing.T) {
	d, err := pipeline.NewDescriptor(http.MethodGet, "https://api.example.com",
		pipeline.AddHeader("X-Tag", "a"),
		pipeline.AddHeader("X-Tag", "b"),
	)
	if err != nil {
		t.Fatalf("building descriptor: %v", err)
	}

	if v, _ := d.Headers().Get("X-Tag"); v != "a, b" {
		t.Errorf("expected folded value \"a, b\", got %q", v)
	}
}

func TestDescriptor_Accessors(t *testing.T) {
	d, err := pipeline.NewDescriptor(http.MethodPut, "https://api.example.com/things/1")
	if err != nil {
		t.Fatalf("building descriptor: %v", err)
	}

	if d.Method() != http.MethodPut {
		t.Errorf("expected method PUT, got %q", d.Method())
	}
	if d.URL() != "https://api.example.com/things/1" {
		t.Errorf("unexpected url %q", d.URL())
	}
}
