package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultVisibility(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Public, DefaultVisibility(true))
	assert.Equal(t, Private, DefaultVisibility(false))
}

func TestKindSetZeroMeansAll(t *testing.T) {
	t.Parallel()

	var s KindSet
	for _, k := range Kinds {
		assert.True(t, s.Has(k), "zero set should contain %s", k)
	}
	assert.Equal(t, "all", s.String())
	assert.Equal(t, AllKinds, s.Normalize())
}

func TestKindSetSubset(t *testing.T) {
	t.Parallel()

	s := NewKindSet(Inheritance, Dependency)
	assert.True(t, s.Has(Inheritance))
	assert.True(t, s.Has(Dependency))
	assert.False(t, s.Has(Composition))
	assert.False(t, s.Has(Aggregation))
	assert.True(t, s.HasAny(Composition, Dependency))
	assert.False(t, s.HasAny(Composition, Aggregation))
	assert.Equal(t, []RelationKind{Inheritance, Dependency}, s.List())
	assert.Equal(t, "inheritance,dependency", s.String())
}

func TestParseKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want KindSet
	}{
		{"empty", nil, AllKinds},
		{"all keyword", []string{"all"}, AllKinds},
		{"single", []string{"composition"}, NewKindSet(Composition)},
		{"mixed case and spaces", []string{" Inheritance ", "AGGREGATION"}, NewKindSet(Inheritance, Aggregation)},
		{"blank entries ignored", []string{"", "dependency"}, NewKindSet(Dependency)},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseKinds(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKindsUnknown(t *testing.T) {
	t.Parallel()
	_, err := ParseKinds([]string{"friendship"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "friendship")
}

func TestDedupePreservesFirstSeen(t *testing.T) {
	t.Parallel()

	rels := []Relationship{
		{From: "A", To: "B", Kind: Composition},
		{From: "Base", To: "A", Kind: Inheritance},
		{From: "A", To: "B", Kind: Composition, Label: "dup"},
		{From: "A", To: "B", Kind: Dependency},
	}
	got := Dedupe(rels)
	require.Len(t, got, 3)
	assert.Equal(t, "", got[0].Label)
	assert.Equal(t, Inheritance, got[1].Kind)
	assert.Equal(t, Dependency, got[2].Kind)
}

func TestMethodIsConstructor(t *testing.T) {
	t.Parallel()
	assert.True(t, MethodRecord{Name: "Dog"}.IsConstructor())
	assert.False(t, MethodRecord{Name: "bark", ReturnType: "void"}.IsConstructor())
}

func TestMethodSignature(t *testing.T) {
	t.Parallel()

	m := MethodRecord{
		Name:       "setName",
		ReturnType: "void",
		Params:     []Param{{Name: "name", Type: "const std::string&"}, {Type: "int"}},
	}
	assert.Equal(t, "const std::string& name, int", m.ParamList())
	assert.Equal(t, "setName(const std::string& name, int): void", m.Signature())
	assert.Equal(t, "~Dog()", MethodRecord{Name: "~Dog"}.Signature())
}
