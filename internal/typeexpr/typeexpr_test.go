package typeexpr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"plain", "Widget", "Widget", true},
		{"pointer", "Gadget*", "Gadget", true},
		{"reference", "Gadget&", "Gadget", true},
		{"rvalue reference", "Gadget&&", "Gadget", true},
		{"double pointer with spaces", "Gadget * *", "Gadget", true},
		{"const ref vector", "const std::vector<Widget>&", "Widget", true},
		{"const pointer", "Widget* const", "Widget", true},
		{"volatile", "volatile int", "int", true},
		{"namespaced", "ui::Button", "Button", true},
		{"global scope", "::Button", "Button", true},
		{"map takes value type", "std::map<std::string, Widget*>", "Widget", true},
		{"nested template", "std::map<int, std::vector<std::shared_ptr<Node>>>", "Node", true},
		{"template of pointer", "std::vector<Animal*>", "Animal", true},
		{"unqualified template", "vector<Animal>", "Animal", true},
		{"member of template", "std::vector<Foo>::iterator", "iterator", true},
		{"identifier containing const", "constant_t", "constant_t", true},
		{"identifier ending in const", "Myconst", "Myconst", true},
		{"empty", "", "", false},
		{"only qualifiers", "const volatile", "", false},
		{"only sigils", "*&", "", false},
		{"empty template", "Foo<>", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Resolve(tt.in)
			assert.Equal(t, tt.ok, ok, "Resolve(%q) ok", tt.in)
			assert.Equal(t, tt.want, got, "Resolve(%q)", tt.in)
		})
	}
}

func TestResolveDepthCeiling(t *testing.T) {
	t.Parallel()

	nest := func(n int) string {
		return strings.Repeat("W<", n) + "Leaf" + strings.Repeat(">", n)
	}

	got, ok := Resolve(nest(5))
	assert.True(t, ok)
	assert.Equal(t, "Leaf", got)

	got, ok = Resolve(nest(MaxDepth))
	assert.True(t, ok)
	assert.Equal(t, "Leaf", got)

	_, ok = Resolve(nest(MaxDepth + 8))
	assert.False(t, ok, "nesting past the ceiling should not resolve")
}

func TestIsPointerOrReference(t *testing.T) {
	t.Parallel()

	assert.True(t, IsPointerOrReference("Gadget*"))
	assert.True(t, IsPointerOrReference("const Gadget& "))
	assert.True(t, IsPointerOrReference("Gadget &&"))
	assert.False(t, IsPointerOrReference("Gadget"))
	assert.False(t, IsPointerOrReference("std::vector<Gadget*>"))
	assert.False(t, IsPointerOrReference(""))
}

func TestSplitTopLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"int a", []string{"int a"}},
		{"int a, float b", []string{"int a", "float b"}},
		{"std::map<int, float> m, int n", []string{"std::map<int, float> m", "int n"}},
		{"void (*cb)(int, int), int x", []string{"void (*cb)(int, int)", "int x"}},
		{" a , , b ", []string{"a", "b"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitTopLevel(tt.in, ','), "SplitTopLevel(%q)", tt.in)
	}
}
