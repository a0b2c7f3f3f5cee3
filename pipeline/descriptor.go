package pipeline

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/reqpipe/reqpipe/header"
	"github.com/reqpipe/reqpipe/media"
)

// CachePolicy selects how intermediate and local caches may serve
// the request. The zero value defers to protocol defaults.
type CachePolicy int

const (
	// CacheDefault applies no cache directives; protocol defaults rule.
	CacheDefault CachePolicy = iota
	// CacheReload forces revalidation, bypassing cached entries.
	CacheReload
	// CacheNoStore forbids storing the exchange in any cache.
	CacheNoStore
	// CacheOnlyIfCached only accepts an already-cached entry.
	CacheOnlyIfCached
)

// Credential carries basic-auth material. When set on a descriptor it
// supersedes any caller-supplied Authorization header.
type Credential struct {
	Username string
	Password string
}

func (c Credential) authorization() string {
	raw := c.Username + ":" + c.Password
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
}

// QueryParam is one name/value pair. Query parameters keep the order
// the caller supplied them in.
type QueryParam struct {
	Name  string
	Value string
}

// Descriptor describes one HTTP call: method, URL, query, headers,
// body, timeouts, and transport policy flags. A Descriptor is
// immutable once built; derive variants with [Descriptor.With]. The
// snapshot consumed at execution start shares no mutable state with
// the Descriptor, so nothing the caller does afterwards can affect an
// in-flight task.
type Descriptor struct {
	method          string
	rawURL          string
	query           []QueryParam
	headers         *header.FieldSet
	body            []byte
	bodyType        string
	timeout         time.Duration // 0 = protocol default
	cachePolicy     CachePolicy
	followRedirects bool
	allowsCellular  bool
	userInitiated   bool
	credential      *Credential
	expect          []media.Type
}

// DescriptorOption configures a Descriptor under construction.
type DescriptorOption func(*Descriptor) error

// NewDescriptor builds a Descriptor for the given method and URL.
// Redirect following and cellular access default to on.
func NewDescriptor(method, rawURL string, opts ...DescriptorOption) (*Descriptor, error) {
	d := &Descriptor{
		method:          method,
		rawURL:          rawURL,
		headers:         header.New(),
		followRedirects: true,
		allowsCellular:  true,
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, fmt.Errorf("applying descriptor option: %w", err)
		}
	}

	if err := checkDescriptor(d); err != nil {
		return nil, err
	}

	return d, nil
}

// With returns a copy of the descriptor with the given options
// applied. The receiver is never modified.
func (d *Descriptor) With(opts ...DescriptorOption) (*Descriptor, error) {
	c := d.clone()
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("applying descriptor option: %w", err)
		}
	}

	if err := checkDescriptor(c); err != nil {
		return nil, err
	}

	return c, nil
}

// Method returns the descriptor's HTTP method.
func (d *Descriptor) Method() string {
	return d.method
}

// URL returns the descriptor's URL before query encoding.
func (d *Descriptor) URL() string {
	return d.rawURL
}

// Headers returns a copy of the descriptor's header fields.
func (d *Descriptor) Headers() *header.FieldSet {
	return d.headers.Clone()
}

func (d *Descriptor) clone() *Descriptor {
	c := *d
	c.query = slices.Clone(d.query)
	c.headers = d.headers.Clone()
	c.body = slices.Clone(d.body)
	c.expect = slices.Clone(d.expect)
	if d.credential != nil {
		cred := *d.credential
		c.credential = &cred
	}

	return &c
}

// WithTimeout overrides the protocol-default timeout.
func WithTimeout(timeout time.Duration) DescriptorOption {
	return func(d *Descriptor) error {
		if timeout < 0 {
			return fmt.Errorf("timeout must not be negative, got %v", timeout)
		}
		d.timeout = timeout
		return nil
	}
}

// WithCachePolicy overrides the protocol-default cache behavior.
func WithCachePolicy(policy CachePolicy) DescriptorOption {
	return func(d *Descriptor) error {
		d.cachePolicy = policy
		return nil
	}
}

// WithoutRedirects stops the transport from auto-following 3xx
// responses; they surface to the classifier instead.
func WithoutRedirects() DescriptorOption {
	return func(d *Descriptor) error {
		d.followRedirects = false
		return nil
	}
}

// WithCellularAccess sets whether the request may use a cellular
// interface, for transports that distinguish network paths.
func WithCellularAccess(allowed bool) DescriptorOption {
	return func(d *Descriptor) error {
		d.allowsCellular = allowed
		return nil
	}
}

// WithUserInitiated marks the request as user-initiated so transports
// that prioritize traffic can schedule it ahead of background work.
func WithUserInitiated() DescriptorOption {
	return func(d *Descriptor) error {
		d.userInitiated = true
		return nil
	}
}

// WithCredential attaches a credential. It supersedes any
// Authorization header present in the descriptor's field set.
func WithCredential(cred Credential) DescriptorOption {
	return func(d *Descriptor) error {
		d.credential = &cred
		return nil
	}
}

// WithExpect declares the content types the caller accepts, in
// priority order. The Accept header is built from this list; the
// response's Content-Type is validated against it.
func WithExpect(types ...string) DescriptorOption {
	return func(d *Descriptor) error {
		d.expect = append(d.expect, media.Types(types...)...)
		return nil
	}
}

// WithHeader sets a header field, replacing any existing value.
func WithHeader(name, value string) DescriptorOption {
	return func(d *Descriptor) error {
		if name == "" {
			return fmt.Errorf("header name must not be empty")
		}
		d.headers.Set(name, value)
		return nil
	}
}

// AddHeader appends a header value, folding with the standard comma
// delimiter when the field already exists.
func AddHeader(name, value string) DescriptorOption {
	return func(d *Descriptor) error {
		if name == "" {
			return fmt.Errorf("header name must not be empty")
		}
		d.headers.Add(name, value)
		return nil
	}
}

// WithQuery appends one query parameter. Parameters serialize in the
// order they were added.
func WithQuery(name, value string) DescriptorOption {
	return func(d *Descriptor) error {
		d.query = append(d.query, QueryParam{Name: name, Value: value})
		return nil
	}
}

// WithJSONBody JSON-encodes payload as the request body.
func WithJSONBody(payload any) DescriptorOption {
	return func(d *Descriptor) error {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(payload); err != nil {
			return fmt.Errorf("encoding request payload: %w", err)
		}
		d.body = buf.Bytes()
		d.bodyType = "application/json"
		return nil
	}
}

// WithBody sets a raw request body and the content type the transport
// should declare for it.
func WithBody(contentType string, body []byte) DescriptorOption {
	return func(d *Descriptor) error {
		if contentType == "" {
			return fmt.Errorf("content type must not be empty")
		}
		d.body = slices.Clone(body)
		d.bodyType = contentType
		return nil
	}
}

// Request is the finalized, immutable snapshot of a Descriptor that a
// Task hands to its Transport. Content-Type and Content-Length are
// derived from the body; values a caller placed in the header set are
// discarded during finalization.
type Request struct {
	Method          string
	URL             string
	Header          *header.FieldSet
	Body            []byte
	ContentType     string
	Timeout         time.Duration
	CachePolicy     CachePolicy
	FollowRedirects bool
	AllowsCellular  bool
	UserInitiated   bool
}

// finalize produces the snapshot a task executes. It encodes the
// query string, computes the Accept header, applies the credential,
// and strips headers the transport owns.
func (d *Descriptor) finalize() (*Request, error) {
	u, err := url.Parse(d.rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing url: %w", err)
	}

	if len(d.query) > 0 {
		var sb strings.Builder
		if u.RawQuery != "" {
			sb.WriteString(u.RawQuery)
		}
		for _, p := range d.query {
			if sb.Len() > 0 {
				sb.WriteByte('&')
			}
			sb.WriteString(url.QueryEscape(p.Name))
			sb.WriteByte('=')
			sb.WriteString(url.QueryEscape(p.Value))
		}
		u.RawQuery = sb.String()
	}

	h := d.headers.Clone()

	// The transport computes these from the body.
	h.Del("Content-Type")
	h.Del("Content-Length")

	if accept := media.BuildAccept(d.expect); accept != "" {
		h.Set("Accept", accept)
	}

	if d.credential != nil {
		h.Del("Authorization")
		h.Set("Authorization", d.credential.authorization())
	}

	return &Request{
		Method:          d.method,
		URL:             u.String(),
		Header:          h,
		Body:            slices.Clone(d.body),
		ContentType:     d.bodyType,
		Timeout:         d.timeout,
		CachePolicy:     d.cachePolicy,
		FollowRedirects: d.followRedirects,
		AllowsCellular:  d.allowsCellular,
		UserInitiated:   d.userInitiated,
	}, nil
}
