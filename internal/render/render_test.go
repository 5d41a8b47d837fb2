package render

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/cppuml/internal/graph"
	"github.com/phobologic/cppuml/internal/model"
	"github.com/phobologic/cppuml/internal/store"
)

func fixture() (*store.Store, graph.Result) {
	s := store.New(nil)
	s.Add("shapes.hpp", []model.TypeRecord{
		{
			Name:     "Base",
			IsStruct: true,
			Members: []model.MemberRecord{
				{Name: "name", Type: "std::string", Visibility: model.Protected},
			},
		},
		{
			Name:  "Derived",
			Bases: []string{"Base"},
			Members: []model.MemberRecord{
				{Name: "engine", Type: "Engine", Visibility: model.Private},
				{Name: "items", Type: "std::vector<Item>", Visibility: model.Public},
			},
			Methods: []model.MethodRecord{
				{Name: "run", ReturnType: "void", Visibility: model.Public, Params: []model.Param{
					{Name: "speed", Type: "int"},
					{Type: "Widget*"},
				}},
				{Name: "Derived", Visibility: model.Public},
			},
		},
	})
	res := graph.Result{
		Types: []string{"Derived", "Base", "Ghost"},
		Relationships: []model.Relationship{
			{From: "Base", To: "Derived", Kind: model.Inheritance},
			{From: "Derived", To: "Ghost", Kind: model.Dependency, Label: "uses"},
		},
	}
	return s, res
}

func TestPlantUML(t *testing.T) {
	t.Parallel()

	s, res := fixture()
	got := PlantUML(res, s, Options{Title: "Demo"})

	want := `@startuml
title Demo

skinparam classAttributeIconSize 0
skinparam classFontStyle bold

class Base {
  #name: std::string
}

class Derived {
  +items: std::vector~Item~
  -engine: Engine
  --
  +run(speed: int, Widget*): void
  +Derived()
}

' Relationships
Base <|-- Derived
Derived ..> Ghost : uses
@enduml
`
	assert.Equal(t, want, got)
}

func TestPlantUMLHideAndNoTitle(t *testing.T) {
	t.Parallel()

	s, res := fixture()
	res.Relationships = nil
	got := PlantUML(res, s, Options{HideMembers: true, HideMethods: true})

	assert.True(t, strings.HasPrefix(got, "@startuml\nskinparam classAttributeIconSize 0\n"))
	assert.Contains(t, got, "class Derived {\n}\n")
	assert.NotContains(t, got, "title")
	assert.NotContains(t, got, "' Relationships")
	assert.NotContains(t, got, "--")
	assert.True(t, strings.HasSuffix(got, "@enduml\n"))
}

func TestPlantUMLArrows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind model.RelationKind
		want string
	}{
		{model.Inheritance, "A <|-- B"},
		{model.Composition, "A *-- B"},
		{model.Aggregation, "A o-- B"},
		{model.Dependency, "A ..> B"},
	}
	for _, tt := range tests {
		got := plantUMLRelationship(model.Relationship{From: "A", To: "B", Kind: tt.kind})
		assert.Equal(t, tt.want, got)
	}
}

func TestDOT(t *testing.T) {
	t.Parallel()

	s, res := fixture()
	var buf bytes.Buffer
	require.NoError(t, DOT(&buf, res, s, Options{Title: "Demo"}))
	out := buf.String()

	assert.Contains(t, out, "digraph")
	assert.Regexp(t, regexp.MustCompile(`"Base"\s*->\s*"Derived"`), out)
	assert.Regexp(t, regexp.MustCompile(`"Derived"\s*->\s*"Ghost"`), out)
	assert.Contains(t, out, `arrowtail="empty"`)
	assert.Contains(t, out, `style="dashed"`)
	assert.Contains(t, out, `shape="record"`)
	assert.Contains(t, out, `shape="box"`)
	assert.Contains(t, out, `rankdir="BT"`)
	assert.Contains(t, out, `label="Demo"`)
	assert.Contains(t, out, `std::vector\<Item\>`)
}

func TestDOTMergesKindsOnOnePair(t *testing.T) {
	t.Parallel()

	s, _ := fixture()
	res := graph.Result{
		Types: []string{"Derived", "Base"},
		Relationships: []model.Relationship{
			{From: "Derived", To: "Base", Kind: model.Composition},
			{From: "Derived", To: "Base", Kind: model.Dependency},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, DOT(&buf, res, s, Options{}))
	assert.Contains(t, buf.String(), `label="composition, dependency"`)
	assert.Contains(t, buf.String(), `arrowtail="diamond"`)
}

func TestRecordLabelEscapes(t *testing.T) {
	t.Parallel()

	rec := &model.TypeRecord{
		Name: "Box",
		Members: []model.MemberRecord{
			{Name: "m", Type: "std::map<int, Item>", Visibility: model.Public},
		},
		Methods: []model.MethodRecord{
			{Name: "get", ReturnType: "Item&", Visibility: model.Private},
		},
	}
	got := recordLabel(rec, Options{})
	assert.Equal(t, `{Box|+ m: std::map\<int, Item\>\l|- get(): Item&\l}`, got)
	assert.Equal(t, `{Box}`, recordLabel(rec, Options{HideMembers: true, HideMethods: true}))
}

func TestRenderDispatch(t *testing.T) {
	t.Parallel()

	s, res := fixture()
	for _, f := range Formats {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, f, res, s, Options{Title: "Demo", Root: "src"}), "format %s", f)
		assert.NotEmpty(t, buf.String())
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatTOON, res, s, Options{Root: "src"}))
	assert.Contains(t, buf.String(), "types[2]{name,kind,file,bases}:")
	assert.Contains(t, buf.String(), "relationships[2]{from,to,kind,label}:")

	err := Render(&buf, Format("svg"), res, s, Options{})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := ParseFormat(" DOT ")
	require.NoError(t, err)
	assert.Equal(t, FormatDOT, f)
	assert.Equal(t, ".dot", f.Extension())
	assert.Equal(t, ".puml", FormatPlantUML.Extension())
	assert.Equal(t, ".toon", FormatTOON.Extension())

	_, err = ParseFormat("png")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestTitles(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Class Diagram: Car (depth=2)", FocusTitle("Car", 2))
}

func TestEncodePlantUMLRoundTrip(t *testing.T) {
	t.Parallel()

	s, res := fixture()
	text := PlantUML(res, s, Options{})
	enc, err := EncodePlantUML(text)
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9A-Za-z_-]+$`, enc)

	dec, err := decodePlantUML(enc)
	require.NoError(t, err)
	assert.Equal(t, text, dec)
}

func decodePlantUML(encoded string) (string, error) {
	raw, err := plantUMLEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	r := flate.NewReader(bytes.NewReader(raw))
	defer r.Close()
	var out bytes.Buffer
	if _, err := out.ReadFrom(r); err != nil {
		return "", err
	}
	return out.String(), nil
}

func TestPreviewURL(t *testing.T) {
	t.Parallel()

	url, err := PreviewURL("https://www.plantuml.com/plantuml/", "@startuml\n@enduml\n")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://www.plantuml.com/plantuml/png/"), url)
}
