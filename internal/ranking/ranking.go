// Package ranking narrows type listings: name search, top-N selection by
// rank, and focusing a subgraph on matching types.
package ranking

import (
	"sort"
	"strings"

	"github.com/phobologic/cppuml/internal/graph"
	"github.com/phobologic/cppuml/internal/model"
)

// Match returns the names containing substr, case-insensitively, sorted.
// An empty substr matches every name.
func Match(names []string, substr string) []string {
	lower := strings.ToLower(substr)
	var out []string
	for _, n := range names {
		if strings.Contains(strings.ToLower(n), lower) {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// Lookup finds name among names. An exact match wins; otherwise a single
// case-insensitive match is accepted. When neither exists, ok is false and
// suggestions holds up to five names containing name.
func Lookup(names []string, name string) (found string, suggestions []string, ok bool) {
	var folded []string
	for _, n := range names {
		if n == name {
			return n, nil, true
		}
		if strings.EqualFold(n, name) {
			folded = append(folded, n)
		}
	}
	if len(folded) == 1 {
		return folded[0], nil, true
	}
	if len(folded) > 1 {
		sort.Strings(folded)
		return "", folded, false
	}
	suggestions = Match(names, name)
	if len(suggestions) > 5 {
		suggestions = suggestions[:5]
	}
	return "", suggestions, false
}

// SelectTop returns the first maxTypes entries of ranked.
// If maxTypes is <= 0 or >= len(ranked), ranked is returned as is.
func SelectTop(ranked []graph.Ranked, maxTypes int) []graph.Ranked {
	if maxTypes <= 0 || maxTypes >= len(ranked) {
		return ranked
	}
	return ranked[:maxTypes]
}

// FilterByName returns the part of res around types whose name contains
// substr (case-insensitive): the matched types, their direct neighbours,
// and the relationships that touch a matched type. Types keep their order
// in res.
func FilterByName(res graph.Result, substr string) graph.Result {
	matched := make(map[string]struct{})
	for _, name := range Match(res.Types, substr) {
		matched[name] = struct{}{}
	}

	keep := make(map[string]struct{}, len(matched))
	for name := range matched {
		keep[name] = struct{}{}
	}

	var rels []model.Relationship
	for _, r := range res.Relationships {
		_, fromOK := matched[r.From]
		_, toOK := matched[r.To]
		if !fromOK && !toOK {
			continue
		}
		rels = append(rels, r)
		keep[r.From] = struct{}{}
		keep[r.To] = struct{}{}
	}

	var types []string
	for _, name := range res.Types {
		if _, ok := keep[name]; ok {
			types = append(types, name)
		}
	}
	return graph.Result{Types: types, Relationships: rels}
}
