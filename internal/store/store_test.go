package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/cppuml/internal/model"
	"github.com/phobologic/cppuml/internal/parse"
)

type failingExtractor struct{}

func (failingExtractor) Extract(string) ([]model.TypeRecord, error) {
	return nil, parse.ErrParseFailed
}

func TestParseAndGet(t *testing.T) {
	t.Parallel()

	s := New(parse.Heuristic{})
	require.NoError(t, s.Parse("struct Base {};\nstruct Derived : public Base { int x; };", "a.hpp"))

	assert.Equal(t, []string{"Base", "Derived"}, s.Names())
	assert.Equal(t, 2, s.Len())

	d, ok := s.Get("Derived")
	require.True(t, ok)
	assert.Equal(t, "a.hpp", d.File)
	assert.Equal(t, []string{"Base"}, d.Bases)

	_, ok = s.Get("Missing")
	assert.False(t, ok)
}

func TestParseIdempotent(t *testing.T) {
	t.Parallel()

	s := New(parse.Heuristic{})
	require.NoError(t, s.Parse("class A {};", "a.hpp"))
	before := s.Names()

	// Same path again, even with different text, changes nothing.
	require.NoError(t, s.Parse("class A {};\nclass B {};", "a.hpp"))
	assert.Equal(t, before, s.Names())
	assert.Equal(t, []string{"a.hpp"}, s.Files())
}

func TestLaterFileOverwrites(t *testing.T) {
	t.Parallel()

	s := New(parse.Heuristic{})
	require.NoError(t, s.Parse("class A { int x; };", "a.hpp"))
	require.NoError(t, s.Parse("class A { double y; };", "b.hpp"))

	a, ok := s.Get("A")
	require.True(t, ok)
	assert.Equal(t, "b.hpp", a.File)
	require.Len(t, a.Members, 1)
	assert.Equal(t, "y", a.Members[0].Name)
	assert.Equal(t, []string{"a.hpp", "b.hpp"}, s.Files())
}

func TestClear(t *testing.T) {
	t.Parallel()

	s := New(parse.Heuristic{})
	require.NoError(t, s.Parse("class A {};", "a.hpp"))
	s.Clear()

	assert.Empty(t, s.Names())
	assert.Empty(t, s.Files())
	assert.False(t, s.Parsed("a.hpp"))

	// A cleared path can be parsed again.
	require.NoError(t, s.Parse("class A {};", "a.hpp"))
	assert.Equal(t, []string{"A"}, s.Names())
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	err := New(nil).Parse("class A {};", "a.hpp")
	assert.True(t, errors.Is(err, ErrNoExtractor))

	s := New(failingExtractor{})
	err = s.Parse("class A {};", "a.hpp")
	require.Error(t, err)
	assert.ErrorIs(t, err, parse.ErrParseFailed)
	assert.Contains(t, err.Error(), "a.hpp")
	assert.False(t, s.Parsed("a.hpp"), "failed files are not marked parsed")
}

func TestAddSkipsUnnamed(t *testing.T) {
	t.Parallel()

	s := New(nil)
	s.Add("x.hpp", []model.TypeRecord{{Name: ""}, {Name: "X"}})
	assert.Equal(t, []string{"X"}, s.Names())
}
