// Package render turns a graph.Result into diagram text.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/phobologic/cppuml/internal/graph"
	"github.com/phobologic/cppuml/internal/model"
	"github.com/phobologic/cppuml/internal/toon"
)

// ErrUnknownFormat is returned for an output format Render does not know.
var ErrUnknownFormat = errors.New("unknown output format")

// Format names an output notation.
type Format string

const (
	FormatPlantUML Format = "plantuml"
	FormatDOT      Format = "dot"
	FormatTOON     Format = "toon"
)

// Formats lists every supported format.
var Formats = []Format{FormatPlantUML, FormatDOT, FormatTOON}

// ParseFormat validates name.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Extension returns the conventional file extension for f.
func (f Format) Extension() string {
	switch f {
	case FormatDOT:
		return ".dot"
	case FormatTOON:
		return ".toon"
	}
	return ".puml"
}

// Default diagram titles.
const (
	TitleAll      = "Full Class Diagram"
	TitleSelected = "Selected Classes Diagram"
)

// FocusTitle is the default title of a diagram grown from one type.
func FocusTitle(start string, depth int) string {
	return fmt.Sprintf("Class Diagram: %s (depth=%d)", start, depth)
}

// Options controls what a diagram shows.
type Options struct {
	Title       string
	Root        string // analysed directory, shown by TOON
	HideMembers bool
	HideMethods bool
	Ranks       map[string]float64 // optional, TOON only
}

// Render writes res in format f to w. Types missing from lookup are drawn
// only as relationship endpoints.
func Render(w io.Writer, f Format, res graph.Result, lookup graph.Lookup, opts Options) error {
	switch f {
	case FormatPlantUML:
		_, err := io.WriteString(w, PlantUML(res, lookup, opts))
		return err
	case FormatDOT:
		return DOT(w, res, lookup, opts)
	case FormatTOON:
		doc := toon.Document{
			Title:         opts.Title,
			Root:          opts.Root,
			Types:         records(res.Types, lookup),
			Relationships: res.Relationships,
			Ranks:         opts.Ranks,
			HideMembers:   opts.HideMembers,
			HideMethods:   opts.HideMethods,
		}
		_, err := io.WriteString(w, toon.Encode(doc)+"\n")
		return err
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// records returns the stored records for names in the order given.
func records(names []string, lookup graph.Lookup) []*model.TypeRecord {
	out := make([]*model.TypeRecord, 0, len(names))
	for _, n := range names {
		if rec, ok := lookup.Get(n); ok {
			out = append(out, rec)
		}
	}
	return out
}

// visibilityOrder is the order members and methods are listed in.
var visibilityOrder = []model.Visibility{model.Public, model.Protected, model.Private}
