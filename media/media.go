// Package media handles the media-type side of content negotiation:
// building an Accept header from the types a caller expects, and
// checking a server's Content-Type against that list.
//
// Parameters are never interpreted here. They ride along verbatim
// when an Accept header is built, and they are ignored on both sides
// when a response type is compared against the expected list. Callers
// ordering expected types by priority must place any q parameter
// themselves; the list order is preserved as given.
package media

import "strings"

// Type is a single media type, optionally carrying parameters.
type Type struct {
	raw  string
	base string
}

// New parses s into a Type. The base media type is everything before
// the first ';', compared case-insensitively; anything after it is
// kept verbatim for serialization.
func New(s string) Type {
	base := s
	if i := strings.IndexByte(s, ';'); i >= 0 {
		base = s[:i]
	}

	return Type{
		raw:  strings.TrimSpace(s),
		base: strings.ToLower(strings.TrimSpace(base)),
	}
}

// Types is a convenience constructor for an expected-type list.
func Types(ss ...string) []Type {
	ts := make([]Type, len(ss))
	for i, s := range ss {
		ts[i] = New(s)
	}

	return ts
}

// Base returns the lowercased base media type, without parameters.
func (t Type) Base() string {
	return t.base
}

// String returns the type as given, parameters included.
func (t Type) String() string {
	return t.raw
}

// BuildAccept joins the expected types, in list order and with their
// parameters verbatim, into an Accept header value. An empty list
// yields an empty string, meaning no Accept header should be sent.
func BuildAccept(expected []Type) string {
	if len(expected) == 0 {
		return ""
	}

	parts := make([]string, len(expected))
	for i, t := range expected {
		parts[i] = t.raw
	}

	return strings.Join(parts, ", ")
}

// Negotiate reports whether a response Content-Type satisfies the
// expected list. An empty expected list or an absent/empty response
// type always matches. Otherwise the response's base media type must
// equal one of the expected base types, case-insensitively and with
// parameters ignored on both sides.
func Negotiate(responseContentType string, expected []Type) bool {
	if len(expected) == 0 {
		return true
	}
	if strings.TrimSpace(responseContentType) == "" {
		return true
	}

	got := New(responseContentType).base
	for _, t := range expected {
		if t.base == got {
			return true
		}
	}

	return false
}
