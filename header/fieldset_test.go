package header_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqpipe/reqpipe/header"
)

func TestFieldSet_AddMergesValues(t *testing.T) {
	s := header.New()
	s.Add("X", "a")
	s.Add("X", "b")

	v, ok := s.Get("X")
	require.True(t, ok)
	assert.Equal(t, "a, b", v)
	assert.Equal(t, 1, s.Len())
}

func TestFieldSet_SetReplaces(t *testing.T) {
	s := header.New()
	s.Add("X", "a")
	s.Set("X", "b")

	v, ok := s.Get("X")
	require.True(t, ok)
	assert.Equal(t, "b", v)
}

func TestFieldSet_CaseInsensitiveLookup(t *testing.T) {
	s := header.New()
	s.Set("Content-Type", "application/json")

	v, ok := s.Get("content-type")
	require.True(t, ok)
	assert.Equal(t, "application/json", v)

	v, ok = s.Get("CONTENT-TYPE")
	require.True(t, ok)
	assert.Equal(t, "application/json", v)
}

func TestFieldSet_FirstSeenCasingWins(t *testing.T) {
	s := header.New()
	s.Add("x-token", "a")
	s.Add("X-Token", "b")

	fields := s.Fields()
	require.Len(t, fields, 1)
	assert.Equal(t, "x-token", fields[0].Name)
	assert.Equal(t, "a, b", fields[0].Value)
}

func TestFieldSet_InsertionOrderPreserved(t *testing.T) {
	s := header.New()
	s.Set("B", "2")
	s.Set("A", "1")
	s.Set("C", "3")

	var names []string
	for _, f := range s.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"B", "A", "C"}, names)
}

func TestFieldSet_Del(t *testing.T) {
	s := header.New()
	s.Set("A", "1")
	s.Set("B", "2")
	s.Set("C", "3")

	s.Del("b")

	_, ok := s.Get("B")
	assert.False(t, ok)

	// Remaining fields must stay addressable after reindexing.
	v, ok := s.Get("C")
	require.True(t, ok)
	assert.Equal(t, "3", v)
	assert.Equal(t, 2, s.Len())
}

func TestFieldSet_CloneIsIndependent(t *testing.T) {
	s := header.New()
	s.Set("A", "1")

	c := s.Clone()
	c.Set("A", "changed")
	c.Set("B", "2")

	v, _ := s.Get("A")
	assert.Equal(t, "1", v)
	_, ok := s.Get("B")
	assert.False(t, ok)
}

func TestFieldSet_ToHTTP(t *testing.T) {
	s := header.New()
	s.Add("Accept", "application/json")
	s.Add("Accept", "text/plain")

	h := s.ToHTTP()
	assert.Equal(t, "application/json, text/plain", h.Get("Accept"))
}

func TestFromHTTP(t *testing.T) {
	h := http.Header{}
	h.Add("Accept", "application/json")
	h.Add("Accept", "text/plain")
	h.Set("X-Token", "abc")

	s := header.FromHTTP(h)

	v, ok := s.Get("accept")
	require.True(t, ok)
	assert.Equal(t, "application/json, text/plain", v)

	v, ok = s.Get("x-token")
	require.True(t, ok)
	assert.Equal(t, "abc", v)
}

func TestFieldSet_ZeroValueUsable(t *testing.T) {
	var s header.FieldSet
	s.Add("X", "a")

	v, ok := s.Get("x")
	require.True(t, ok)
	assert.Equal(t, "a", v)
}
