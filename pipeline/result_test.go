package pipeline_test

import (
	"errors"
	"testing"

	"github.com/reqpipe/reqpipe/pipeline"
)

func TestResult_ExactlyOneBranch(t *testing.T) {
	resp := &pipeline.Response{StatusCode: 200}

	t.Run("success", func(t *testing.T) {
		r := pipeline.Success(resp, 42)

		v, got, ok := r.Succeeded()
		if !ok {
			t.Fatal("expected success branch to hold")
		}
		if v != 42 {
			t.Errorf("expected value 42, got %d", v)
		}
		if got != resp {
			t.Error("expected the originating response")
		}

		if err, _, ok := r.Failed(); ok || err != nil {
			t.Error("failure branch must not hold on success")
		}
		if r.IsCanceled() {
			t.Error("canceled branch must not hold on success")
		}
	})

	t.Run("failure", func(t *testing.T) {
		wantErr := errors.New("boom")
		r := pipeline.Failure[int](resp, wantErr)

		err, got, ok := r.Failed()
		if !ok {
			t.Fatal("expected failure branch to hold")
		}
		if !errors.Is(err, wantErr) {
			t.Errorf("expected %v, got %v", wantErr, err)
		}
		if got != resp {
			t.Error("expected the originating response")
		}

		if _, _, ok := r.Succeeded(); ok {
			t.Error("success branch must not hold on failure")
		}
		if r.IsCanceled() {
			t.Error("canceled branch must not hold on failure")
		}
	})

	t.Run("transport failure carries no response", func(t *testing.T) {
		r := pipeline.Failure[int](nil, errors.New("dial tcp: refused"))

		_, got, ok := r.Failed()
		if !ok {
			t.Fatal("expected failure branch to hold")
		}
		if got != nil {
			t.Error("transport failures must carry no response")
		}
	})

	t.Run("canceled", func(t *testing.T) {
		r := pipeline.Canceled[int]()

		if !r.IsCanceled() {
			t.Fatal("expected canceled branch to hold")
		}
		if _, _, ok := r.Succeeded(); ok {
			t.Error("success branch must not hold when canceled")
		}
		if err, resp, ok := r.Failed(); ok || err != nil || resp != nil {
			t.Error("canceled results carry neither value nor error")
		}
	})
}
