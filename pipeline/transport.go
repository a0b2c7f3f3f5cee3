package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/reqpipe/reqpipe/header"
)

// Transport performs the network half of a task: given a finalized
// Request it returns the response metadata and fully-read body, or a
// transport-level error. Transport errors bypass the classifier and
// surface as the task's error with no response attached.
//
// Implementations must honor the request's timeout, cache policy,
// and redirect-follow flag. The cellular and user-initiated flags are
// advisory for transports that can distinguish network paths or
// prioritize traffic.
type Transport interface {
	RoundTrip(ctx context.Context, req *Request) (*Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *Request) (*Response, error)

func (f TransportFunc) RoundTrip(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// HTTPTransport is the default Transport over net/http.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport wraps hc as a Transport. A nil hc uses
// http.DefaultClient.
func NewHTTPTransport(hc *http.Client) *HTTPTransport {
	if hc == nil {
		hc = http.DefaultClient
	}

	return &HTTPTransport{client: hc}
}

// RoundTrip executes the request and reads the body in full.
func (t *HTTPTransport) RoundTrip(ctx context.Context, req *Request) (*Response, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	for _, f := range req.Header.Fields() {
		httpReq.Header.Set(f.Name, f.Value)
	}

	if len(req.Body) > 0 {
		httpReq.Header.Set("Content-Type", req.ContentType)
		httpReq.Header.Set("Content-Length", strconv.Itoa(len(req.Body)))
		httpReq.ContentLength = int64(len(req.Body))
	}

	switch req.CachePolicy {
	case CacheReload:
		httpReq.Header.Set("Cache-Control", "no-cache")
		httpReq.Header.Set("Pragma", "no-cache")
	case CacheNoStore:
		httpReq.Header.Set("Cache-Control", "no-store")
	case CacheOnlyIfCached:
		httpReq.Header.Set("Cache-Control", "only-if-cached")
	}

	// The redirect flag is per-request, so the client value is copied
	// before overriding its redirect policy.
	hc := *t.client
	if !req.FollowRedirects {
		hc.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	httpResp, err := hc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("transport do: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     header.FromHTTP(httpResp.Header),
		Body:       respBody,
	}, nil
}

// rateLimited restricts outbound calls with a token bucket.
type rateLimited struct {
	limiter *rate.Limiter
	next    Transport
}

// RateLimit wraps next so that requests wait for a token from a
// bucket refilled at rps tokens per second with the given burst
// capacity. Waiting respects the request context.
func RateLimit(next Transport, rps, burst int) (Transport, error) {
	if rps <= 0 || burst <= 0 {
		return nil, fmt.Errorf("rps[%d] and burst[%d] must be greater than zero", rps, burst)
	}

	return &rateLimited{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		next:    next,
	}, nil
}

func (r *rateLimited) RoundTrip(ctx context.Context, req *Request) (*Response, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	return r.next.RoundTrip(ctx, req)
}

// userAgent injects a persistent User-Agent header on every request.
type userAgent struct {
	value string
	next  Transport
}

func (ua userAgent) RoundTrip(ctx context.Context, req *Request) (*Response, error) {
	cpy := *req
	cpy.Header = req.Header.Clone()
	cpy.Header.Set("User-Agent", ua.value)

	return ua.next.RoundTrip(ctx, &cpy)
}
