package render

import (
	"sort"
	"strings"

	"github.com/phobologic/cppuml/internal/graph"
	"github.com/phobologic/cppuml/internal/model"
)

var accessSymbols = map[model.Visibility]string{
	model.Public:    "+",
	model.Protected: "#",
	model.Private:   "-",
}

var arrows = map[model.RelationKind]string{
	model.Inheritance: "<|--",
	model.Composition: "*--",
	model.Aggregation: "o--",
	model.Dependency:  "..>",
}

// PlantUML renders res as a PlantUML class diagram. Classes are declared
// in name order; relationships keep the order of res.
func PlantUML(res graph.Result, lookup graph.Lookup, opts Options) string {
	lines := []string{"@startuml"}
	if opts.Title != "" {
		lines = append(lines, "title "+opts.Title, "")
	}
	lines = append(lines,
		"skinparam classAttributeIconSize 0",
		"skinparam classFontStyle bold",
		"",
	)

	names := append([]string(nil), res.Types...)
	sort.Strings(names)
	for _, name := range names {
		rec, ok := lookup.Get(name)
		if !ok {
			continue
		}
		lines = append(lines, plantUMLClass(rec, opts)...)
		lines = append(lines, "")
	}

	if len(res.Relationships) > 0 {
		lines = append(lines, "' Relationships")
		for _, r := range res.Relationships {
			lines = append(lines, plantUMLRelationship(r))
		}
	}
	lines = append(lines, "@enduml")
	return strings.Join(lines, "\n") + "\n"
}

func plantUMLClass(rec *model.TypeRecord, opts Options) []string {
	members := make(map[model.Visibility][]string)
	methods := make(map[model.Visibility][]string)

	if !opts.HideMembers {
		for _, m := range rec.Members {
			members[m.Visibility] = append(members[m.Visibility],
				"  "+symbol(m.Visibility)+m.Name+": "+formatType(m.Type))
		}
	}
	if !opts.HideMethods {
		for _, m := range rec.Methods {
			line := "  " + symbol(m.Visibility) + m.Name + "(" + plantUMLParams(m.Params) + ")"
			if m.ReturnType != "" {
				line += ": " + formatType(m.ReturnType)
			}
			methods[m.Visibility] = append(methods[m.Visibility], line)
		}
	}

	lines := []string{"class " + rec.Name + " {"}
	for _, v := range visibilityOrder {
		lines = append(lines, members[v]...)
	}
	if len(members) > 0 && len(methods) > 0 {
		lines = append(lines, "  --")
	}
	for _, v := range visibilityOrder {
		lines = append(lines, methods[v]...)
	}
	return append(lines, "}")
}

func plantUMLParams(params []model.Param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		if p.Name == "" {
			parts = append(parts, formatType(p.Type))
			continue
		}
		parts = append(parts, p.Name+": "+formatType(p.Type))
	}
	return strings.Join(parts, ", ")
}

func plantUMLRelationship(r model.Relationship) string {
	arrow, ok := arrows[r.Kind]
	if !ok {
		arrow = "-->"
	}
	line := r.From + " " + arrow + " " + r.To
	if r.Label != "" {
		line += " : " + r.Label
	}
	return line
}

func symbol(v model.Visibility) string {
	if s, ok := accessSymbols[v]; ok {
		return s
	}
	return "-"
}

// formatType replaces angle brackets, which PlantUML reserves, with '~'.
func formatType(t string) string {
	return strings.NewReplacer("<", "~", ">", "~").Replace(t)
}
