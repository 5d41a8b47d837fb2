package graph

import (
	"github.com/phobologic/cppuml/internal/model"
	"github.com/phobologic/cppuml/internal/typeexpr"
)

type frontierItem struct {
	name  string
	depth int
}

// Traverse walks the relationship graph breadth-first from start, up to
// maxDepth hops, following only relationships whose kind is in kinds (the
// zero set allows all). Besides the edges Classify reports, it also steps
// to subclasses of a type and to types that use it. A start type missing
// from lookup yields an empty Result.
func Traverse(lookup Lookup, start string, maxDepth int, kinds model.KindSet) Result {
	if !known(lookup, start) {
		return Result{}
	}
	if maxDepth < 0 {
		maxDepth = 0
	}
	kinds = kinds.Normalize()

	var res Result
	visited := make(map[string]bool)
	queue := []frontierItem{{name: start}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur.name] {
			continue
		}
		visited[cur.name] = true
		res.Types = append(res.Types, cur.name)

		rec, ok := lookup.Get(cur.name)
		if !ok {
			// Unknown endpoints, such as a library base class, are
			// reached but never expanded.
			continue
		}

		expand := cur.depth < maxDepth
		enqueue := func(name string) {
			if expand && !visited[name] {
				queue = append(queue, frontierItem{name: name, depth: cur.depth + 1})
			}
		}

		for _, rel := range Classify(rec, lookup) {
			if !kinds.Has(rel.Kind) {
				continue
			}
			res.Relationships = append(res.Relationships, rel)
			enqueue(rel.To)
			enqueue(rel.From)
		}
		if !expand {
			continue
		}
		if kinds.Has(model.Inheritance) {
			for _, sub := range Subclasses(lookup, cur.name) {
				enqueue(sub)
			}
		}
		if kinds.HasAny(model.Composition, model.Aggregation, model.Dependency) {
			for _, user := range Users(lookup, cur.name, kinds) {
				enqueue(user)
			}
		}
	}

	res.Relationships = model.Dedupe(res.Relationships)
	return res
}

// TraverseAll classifies every stored type once. Types lists every stored
// name, sorted.
func TraverseAll(lookup Lookup, kinds model.KindSet) Result {
	res := Result{Types: lookup.Names()}
	for _, name := range res.Types {
		rec, ok := lookup.Get(name)
		if !ok {
			continue
		}
		res.Relationships = append(res.Relationships, filter(Classify(rec, lookup), kinds)...)
	}
	res.Relationships = model.Dedupe(res.Relationships)
	return res
}

// Select returns the relationships among names: edges classified from the
// selected types whose both endpoints are selected. Names missing from
// lookup are dropped from Types.
func Select(lookup Lookup, names []string, kinds model.KindSet) Result {
	selected := make(map[string]bool, len(names))
	var res Result
	for _, name := range names {
		if selected[name] || !known(lookup, name) {
			continue
		}
		selected[name] = true
		res.Types = append(res.Types, name)
	}
	for _, name := range res.Types {
		rec, _ := lookup.Get(name)
		for _, rel := range filter(Classify(rec, lookup), kinds) {
			if selected[rel.From] && selected[rel.To] {
				res.Relationships = append(res.Relationships, rel)
			}
		}
	}
	res.Relationships = model.Dedupe(res.Relationships)
	return res
}

// Subclasses returns the stored types with a base that resolves to name,
// in sorted order.
func Subclasses(lookup Lookup, name string) []string {
	var out []string
	for _, candidate := range lookup.Names() {
		if candidate == name {
			continue
		}
		rec, ok := lookup.Get(candidate)
		if !ok {
			continue
		}
		for _, raw := range rec.Bases {
			if base, ok := typeexpr.Resolve(raw); ok && base == name {
				out = append(out, candidate)
				break
			}
		}
	}
	return out
}

// Users returns the stored types that refer to name through a member
// (when composition or aggregation is allowed, matching the member's own
// kind) or through a method signature (when dependency is allowed), in
// sorted order.
func Users(lookup Lookup, name string, kinds model.KindSet) []string {
	kinds = kinds.Normalize()
	var out []string
	for _, candidate := range lookup.Names() {
		if candidate == name {
			continue
		}
		rec, ok := lookup.Get(candidate)
		if !ok {
			continue
		}
		if usesViaMember(rec, name, kinds) || kinds.Has(model.Dependency) && usesViaSignature(rec, name) {
			out = append(out, candidate)
		}
	}
	return out
}

func usesViaMember(rec *model.TypeRecord, name string, kinds model.KindSet) bool {
	for _, m := range rec.Members {
		if t, ok := typeexpr.Resolve(m.Type); ok && t == name && kinds.Has(memberKind(m.Type)) {
			return true
		}
	}
	return false
}

func usesViaSignature(rec *model.TypeRecord, name string) bool {
	for _, m := range rec.Methods {
		for _, raw := range signatureTypes(m) {
			if t, ok := typeexpr.Resolve(raw); ok && t == name {
				return true
			}
		}
	}
	return false
}

func filter(rels []model.Relationship, kinds model.KindSet) []model.Relationship {
	var out []model.Relationship
	for _, r := range rels {
		if kinds.Has(r.Kind) {
			out = append(out, r)
		}
	}
	return out
}
