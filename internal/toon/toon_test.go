package toon

import (
	"strings"
	"testing"

	"github.com/phobologic/cppuml/internal/model"
)

func TestEncodeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", `""`},
		{"simple", "hello", "hello"},
		{"leading space", " hello", `" hello"`},
		{"trailing space", "hello ", `"hello "`},
		{"newline", "a\nb", `"a\nb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"carriage return", "a\rb", `"a\rb"`},
		{"true keyword", "true", `"true"`},
		{"True keyword", "True", `"True"`},
		{"false keyword", "false", `"false"`},
		{"null keyword", "null", `"null"`},
		{"integer", "42", "42"},
		{"negative integer", "-1", "-1"},
		{"float", "3.14", "3.14"},
		{"zero", "0", "0"},
		{"leading zero invalid", "01", "01"},
		{"comma", "a,b", `"a,b"`},
		{"colon", "a:b", `"a:b"`},
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"bracket", "a[b", `"a[b"`},
		{"brace", "a{b", `"a{b"`},
		{"dash prefix", "-foo", `"-foo"`},
		{"path", "src/widget.hpp", "src/widget.hpp"},
		{"scoped name", "std::string", `"std::string"`},
		{"template", "vector<Widget*>", "vector<Widget*>"},
		{"reference", "const Gadget&", "const Gadget&"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := encodeValue(tt.in)
			if got != tt.want {
				t.Errorf("encodeValue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	doc := Document{
		Title: "Class Diagram: Dog (depth=1)",
		Root:  "zoo",
		Types: []*model.TypeRecord{
			{
				Name: "Animal",
				File: "src/animal.hpp",
				Members: []model.MemberRecord{
					{Name: "name", Type: "std::string", Visibility: model.Protected},
				},
				Methods: []model.MethodRecord{
					{Name: "Animal", Visibility: model.Public},
				},
			},
			{
				Name:     "Dog",
				File:     "src/animal.hpp",
				Bases:    []string{"Animal"},
				IsStruct: true,
				Methods: []model.MethodRecord{
					{Name: "fetch", ReturnType: "void", Params: []model.Param{{Name: "a", Type: "Ball*"}, {Name: "n", Type: "int"}}, Visibility: model.Public},
				},
			},
		},
		Relationships: []model.Relationship{
			{From: "Animal", To: "Dog", Kind: model.Inheritance},
		},
	}

	got := Encode(doc)

	want := []string{
		`title: "Class Diagram: Dog (depth=1)"`,
		"root: zoo",
		"types[2]{name,kind,file,bases}:",
		`  Animal,class,src/animal.hpp,""`,
		"  Dog,struct,src/animal.hpp,Animal",
		"members[1]{owner,name,type,visibility}:",
		`  Animal,name,"std::string",protected`,
		"methods[2]{owner,name,params,returns,visibility}:",
		`  Animal,Animal,"","",public`,
		`  Dog,fetch,"Ball* a, int n",void,public`,
		"relationships[1]{from,to,kind,label}:",
		`  Animal,Dog,inheritance,""`,
	}
	lines := strings.Split(got, "\n")
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), got)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestEncodeRanksAndToggles(t *testing.T) {
	t.Parallel()

	doc := Document{
		Root:        "r",
		Types:       []*model.TypeRecord{{Name: "A", Members: []model.MemberRecord{{Name: "x", Type: "int"}}}},
		Ranks:       map[string]float64{"A": 1},
		HideMembers: true,
		HideMethods: true,
	}
	got := Encode(doc)
	if !strings.Contains(got, "types[1]{name,kind,file,bases,rank}:\n  A,class,\"\",\"\",1.0000") {
		t.Errorf("expected rank column, got:\n%s", got)
	}
	if strings.Contains(got, "members[") || strings.Contains(got, "methods[") {
		t.Errorf("hidden sections rendered:\n%s", got)
	}
	if strings.HasPrefix(got, "title:") {
		t.Errorf("empty title rendered:\n%s", got)
	}
}

func TestEncodeEmpty(t *testing.T) {
	t.Parallel()

	got := Encode(Document{Root: "empty"})
	if !strings.Contains(got, "types[0]{name,kind,file,bases}:") {
		t.Errorf("expected empty types section, got:\n%s", got)
	}
	if !strings.Contains(got, "relationships[0]{from,to,kind,label}:") {
		t.Errorf("expected empty relationships section, got:\n%s", got)
	}
}
