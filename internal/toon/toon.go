// Package toon implements TOON (Token-Oriented Object Notation) encoding
// of class diagrams.
package toon

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/phobologic/cppuml/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Document is the input to Encode.
type Document struct {
	Title         string
	Root          string
	Types         []*model.TypeRecord
	Relationships []model.Relationship
	Ranks         map[string]float64 // optional; adds a rank column
	HideMembers   bool
	HideMethods   bool
}

// Encode converts a diagram document into TOON format.
func Encode(doc Document) string {
	var parts []string

	if doc.Title != "" {
		parts = append(parts, fmt.Sprintf("title: %s", encodeValue(doc.Title)))
	}
	parts = append(parts, fmt.Sprintf("root: %s", encodeValue(doc.Root)))

	typeCols := []string{"name", "kind", "file", "bases"}
	if doc.Ranks != nil {
		typeCols = append(typeCols, "rank")
	}
	var typeRows [][]string
	for _, t := range doc.Types {
		row := []string{t.Name, t.Keyword(), t.File, strings.Join(t.Bases, " ")}
		if doc.Ranks != nil {
			row = append(row, fmt.Sprintf("%.4f", doc.Ranks[t.Name]))
		}
		typeRows = append(typeRows, row)
	}
	parts = append(parts, formatTabular("types", typeCols, typeRows))

	if !doc.HideMembers {
		var memberRows [][]string
		for _, t := range doc.Types {
			for _, m := range t.Members {
				memberRows = append(memberRows, []string{t.Name, m.Name, m.Type, string(m.Visibility)})
			}
		}
		parts = append(parts, formatTabular("members", []string{"owner", "name", "type", "visibility"}, memberRows))
	}

	if !doc.HideMethods {
		var methodRows [][]string
		for _, t := range doc.Types {
			for _, m := range t.Methods {
				methodRows = append(methodRows, []string{t.Name, m.Name, m.ParamList(), m.ReturnType, string(m.Visibility)})
			}
		}
		parts = append(parts, formatTabular("methods", []string{"owner", "name", "params", "returns", "visibility"}, methodRows))
	}

	var relRows [][]string
	for _, r := range doc.Relationships {
		relRows = append(relRows, []string{r.From, r.To, string(r.Kind), r.Label})
	}
	parts = append(parts, formatTabular("relationships", []string{"from", "to", "kind", "label"}, relRows))

	return strings.Join(parts, "\n")
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
