// Package header implements a case-insensitive, order-preserving
// HTTP header field set.
//
// Field names compare case-insensitively; the casing stored is the
// first one seen for a field. Add folds repeated values into a single
// field using the standard comma delimiter, Set replaces
// unconditionally. Iteration order is insertion order, which keeps
// serialization deterministic.
package header

import (
	"net/http"
	"slices"
	"strings"
)

// Field is a single named header field with its combined value.
type Field struct {
	Name  string
	Value string
}

// FieldSet is an ordered set of header fields. The zero value is
// ready to use. A FieldSet is not safe for concurrent mutation.
type FieldSet struct {
	fields []Field
	index  map[string]int // lowercase name -> position in fields
}

// New returns an empty FieldSet.
func New() *FieldSet {
	return &FieldSet{index: make(map[string]int)}
}

// FromHTTP converts an http.Header into a FieldSet, folding repeated
// values with the comma delimiter. Field order follows the sorted
// order of http.Header keys so conversion is deterministic.
func FromHTTP(h http.Header) *FieldSet {
	s := New()

	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		for _, v := range h[k] {
			s.Add(k, v)
		}
	}

	return s
}

// Add appends value to the named field using the standard ", "
// delimiter, or inserts the field if absent.
func (s *FieldSet) Add(name, value string) {
	s.init()

	key := strings.ToLower(name)
	if i, ok := s.index[key]; ok {
		if s.fields[i].Value == "" {
			s.fields[i].Value = value
		} else {
			s.fields[i].Value += ", " + value
		}
		return
	}

	s.index[key] = len(s.fields)
	s.fields = append(s.fields, Field{Name: name, Value: value})
}

// Set replaces the named field's value unconditionally, inserting it
// if absent. The stored casing remains the first-seen one.
func (s *FieldSet) Set(name, value string) {
	s.init()

	key := strings.ToLower(name)
	if i, ok := s.index[key]; ok {
		s.fields[i].Value = value
		return
	}

	s.index[key] = len(s.fields)
	s.fields = append(s.fields, Field{Name: name, Value: value})
}

// Get returns the combined value for the named field.
func (s *FieldSet) Get(name string) (string, bool) {
	if s.index == nil {
		return "", false
	}

	i, ok := s.index[strings.ToLower(name)]
	if !ok {
		return "", false
	}

	return s.fields[i].Value, true
}

// Del removes the named field if present.
func (s *FieldSet) Del(name string) {
	if s.index == nil {
		return
	}

	key := strings.ToLower(name)
	i, ok := s.index[key]
	if !ok {
		return
	}

	s.fields = slices.Delete(s.fields, i, i+1)
	delete(s.index, key)
	for k, j := range s.index {
		if j > i {
			s.index[k] = j - 1
		}
	}
}

// Len reports the number of distinct fields.
func (s *FieldSet) Len() int {
	return len(s.fields)
}

// Fields returns the fields in insertion order. The returned slice is
// a copy.
func (s *FieldSet) Fields() []Field {
	return slices.Clone(s.fields)
}

// ToHTTP converts the set into an http.Header. Folded values stay
// folded; each field becomes a single header line.
func (s *FieldSet) ToHTTP() http.Header {
	h := make(http.Header, len(s.fields))
	for _, f := range s.fields {
		h.Set(f.Name, f.Value)
	}

	return h
}

// Clone returns a deep copy sharing no state with the receiver.
func (s *FieldSet) Clone() *FieldSet {
	c := &FieldSet{
		fields: slices.Clone(s.fields),
		index:  make(map[string]int, len(s.index)),
	}
	for k, v := range s.index {
		c.index[k] = v
	}

	return c
}

func (s *FieldSet) init() {
	if s.index == nil {
		s.index = make(map[string]int)
	}
}
