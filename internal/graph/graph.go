// Package graph derives relationships between stored types and walks them.
//
// Classify reads one record and reports the edges it takes part in.
// Traverse, TraverseAll and Select build the subgraphs the renderers draw,
// and Rank orders types by PageRank centrality.
package graph

import "github.com/phobologic/cppuml/internal/model"

// Lookup is the read side of a type store.
type Lookup interface {
	Get(name string) (*model.TypeRecord, bool)
	Names() []string
}

// Result is a subgraph: the types it reached, in visit order, and the
// deduplicated relationships between them.
type Result struct {
	Types         []string             `json:"types" yaml:"types"`
	Relationships []model.Relationship `json:"relationships" yaml:"relationships"`
}

// Empty reports whether the result reached no types.
func (r Result) Empty() bool {
	return len(r.Types) == 0
}

func known(lookup Lookup, name string) bool {
	_, ok := lookup.Get(name)
	return ok
}
