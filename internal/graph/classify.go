package graph

import (
	"github.com/phobologic/cppuml/internal/model"
	"github.com/phobologic/cppuml/internal/typeexpr"
)

// Classify returns the relationships rec takes part in: inheritance from
// each resolvable base, then one composition or aggregation edge per known
// member type, then one dependency edge per known type seen only in method
// signatures. Each group keeps first-seen order.
func Classify(rec *model.TypeRecord, lookup Lookup) []model.Relationship {
	var rels []model.Relationship

	for _, raw := range rec.Bases {
		base, ok := typeexpr.Resolve(raw)
		if !ok {
			continue
		}
		rels = append(rels, model.Relationship{From: base, To: rec.Name, Kind: model.Inheritance})
	}

	claimed := make(map[string]bool)
	for _, m := range rec.Members {
		target, ok := relatedType(rec, m.Type, lookup)
		if !ok || claimed[target] {
			continue
		}
		claimed[target] = true
		rels = append(rels, model.Relationship{From: rec.Name, To: target, Kind: memberKind(m.Type)})
	}

	for _, m := range rec.Methods {
		for _, raw := range signatureTypes(m) {
			target, ok := relatedType(rec, raw, lookup)
			if !ok || claimed[target] {
				continue
			}
			claimed[target] = true
			rels = append(rels, model.Relationship{From: rec.Name, To: target, Kind: model.Dependency})
		}
	}

	return model.Dedupe(rels)
}

// memberKind is aggregation for pointer and reference members and
// composition otherwise.
func memberKind(raw string) model.RelationKind {
	if typeexpr.IsPointerOrReference(raw) {
		return model.Aggregation
	}
	return model.Composition
}

// relatedType resolves raw and accepts it only when it names a stored type
// other than rec.
func relatedType(rec *model.TypeRecord, raw string, lookup Lookup) (string, bool) {
	name, ok := typeexpr.Resolve(raw)
	if !ok || name == rec.Name || !known(lookup, name) {
		return "", false
	}
	return name, true
}

// signatureTypes lists the return type and parameter types of m.
func signatureTypes(m model.MethodRecord) []string {
	out := make([]string, 0, len(m.Params)+1)
	if m.ReturnType != "" {
		out = append(out, m.ReturnType)
	}
	for _, p := range m.Params {
		out = append(out, p.Type)
	}
	return out
}
