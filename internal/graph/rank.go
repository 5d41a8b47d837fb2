package graph

import (
	"math"
	"slices"
	"sort"

	"github.com/phobologic/cppuml/internal/model"
)

// Ranked is a type with its PageRank score.
type Ranked struct {
	Name string  `json:"name" yaml:"name"`
	Rank float64 `json:"rank" yaml:"rank"`
}

// Rank scores every type in names by PageRank over rels and returns them
// by descending rank, ties broken by name. Edges point from a type to what
// it relies on: derived to base, owner to member type, user to dependency.
func Rank(names []string, rels []model.Relationship) []Ranked {
	if len(names) == 0 {
		return nil
	}

	types := append([]string(nil), names...)
	sort.Strings(types)
	types = slices.Compact(types)
	index := make(map[string]int, len(types))
	for i, n := range types {
		index[n] = i
	}

	// uses[i] lists the types that type i relies on.
	uses := make([][]int, len(types))
	linked := false
	for _, r := range rels {
		src, tgt := r.From, r.To
		if r.Kind == model.Inheritance {
			src, tgt = tgt, src
		}
		i, ok := index[src]
		if !ok {
			continue
		}
		j, ok := index[tgt]
		if !ok {
			continue
		}
		uses[i] = append(uses[i], j)
		linked = true
	}

	scores := uniformScores(len(types))
	if linked {
		scores = powerIterate(uses, scores)
	}

	out := make([]Ranked, len(types))
	for i, n := range types {
		out[i] = Ranked{Name: n, Rank: scores[i]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rank > out[j].Rank
	})
	return out
}

const (
	// rankDamping is the chance a walk follows a use instead of jumping to
	// a random type.
	rankDamping = 0.85
	// rankMaxRounds bounds the power iteration.
	rankMaxRounds = 100
	// rankTolerance is the total score change under which ranks are stable.
	rankTolerance = 1e-6
)

func uniformScores(n int) []float64 {
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1.0 / float64(n)
	}
	return scores
}

// powerIterate spreads each type's score over the types it uses until the
// scores settle. A type that uses nothing spreads its score over every type.
func powerIterate(uses [][]int, scores []float64) []float64 {
	n := float64(len(scores))
	next := make([]float64, len(scores))

	for round := 0; round < rankMaxRounds; round++ {
		var unspent float64
		for i, targets := range uses {
			if len(targets) == 0 {
				unspent += scores[i]
			}
		}
		base := (1-rankDamping)/n + rankDamping*unspent/n
		for i := range next {
			next[i] = base
		}
		for i, targets := range uses {
			share := rankDamping * scores[i] / float64(len(targets))
			for _, j := range targets {
				next[j] += share
			}
		}

		var moved float64
		for i := range scores {
			moved += math.Abs(next[i] - scores[i])
		}
		scores, next = next, scores
		if moved < rankTolerance {
			break
		}
	}
	return scores
}
