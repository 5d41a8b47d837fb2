package render

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	dgraph "github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"github.com/phobologic/cppuml/internal/graph"
	"github.com/phobologic/cppuml/internal/model"
)

type edgeStyle struct {
	dir, arrowhead, arrowtail, style string
}

var edgeStyles = map[model.RelationKind]edgeStyle{
	model.Inheritance: {dir: "back", arrowtail: "empty", style: "solid"},
	model.Composition: {dir: "back", arrowtail: "diamond", style: "solid"},
	model.Aggregation: {dir: "back", arrowtail: "odiamond", style: "solid"},
	model.Dependency:  {dir: "forward", arrowhead: "vee", style: "dashed"},
}

type pairKey struct{ from, to string }

// DOT writes res as a Graphviz digraph. Relationships of different kinds
// between the same ordered pair share one edge whose label lists them.
func DOT(w io.Writer, res graph.Result, lookup graph.Lookup, opts Options) error {
	g := dgraph.New(dgraph.StringHash, dgraph.Directed())

	added := make(map[string]bool)
	addVertex := func(name string) error {
		if added[name] {
			return nil
		}
		added[name] = true
		var err error
		if rec, ok := lookup.Get(name); ok {
			err = g.AddVertex(name,
				dgraph.VertexAttribute("shape", "record"),
				dgraph.VertexAttribute("label", recordLabel(rec, opts)),
			)
		} else {
			err = g.AddVertex(name,
				dgraph.VertexAttribute("shape", "box"),
				dgraph.VertexAttribute("style", "dashed"),
			)
		}
		if err != nil && !errors.Is(err, dgraph.ErrVertexAlreadyExists) {
			return fmt.Errorf("adding vertex %s: %w", name, err)
		}
		return nil
	}

	names := append([]string(nil), res.Types...)
	sort.Strings(names)
	for _, n := range names {
		if err := addVertex(n); err != nil {
			return err
		}
	}

	var order []pairKey
	kinds := make(map[pairKey][]model.RelationKind)
	for _, r := range res.Relationships {
		k := pairKey{r.From, r.To}
		if _, seen := kinds[k]; !seen {
			order = append(order, k)
		}
		kinds[k] = append(kinds[k], r.Kind)
	}

	for _, k := range order {
		if err := addVertex(k.from); err != nil {
			return err
		}
		if err := addVertex(k.to); err != nil {
			return err
		}
		ks := kinds[k]
		st := edgeStyles[ks[0]]
		labels := make([]string, len(ks))
		for i, kind := range ks {
			labels[i] = string(kind)
		}
		err := g.AddEdge(k.from, k.to,
			dgraph.EdgeAttribute("label", strings.Join(labels, ", ")),
			dgraph.EdgeAttribute("dir", st.dir),
			dgraph.EdgeAttribute("arrowhead", orDefault(st.arrowhead, "none")),
			dgraph.EdgeAttribute("arrowtail", orDefault(st.arrowtail, "none")),
			dgraph.EdgeAttribute("style", st.style),
		)
		if err != nil {
			return fmt.Errorf("adding edge %s -> %s: %w", k.from, k.to, err)
		}
	}

	if opts.Title == "" {
		return draw.DOT(g, w, draw.GraphAttribute("rankdir", "BT"))
	}
	return draw.DOT(g, w,
		draw.GraphAttribute("rankdir", "BT"),
		draw.GraphAttribute("label", escapeDOT(opts.Title)),
		draw.GraphAttribute("labelloc", "t"),
	)
}

// recordLabel builds a record-shaped node label: name, members, methods.
func recordLabel(rec *model.TypeRecord, opts Options) string {
	fields := []string{escapeRecord(rec.Name)}
	if !opts.HideMembers {
		var b strings.Builder
		for _, v := range visibilityOrder {
			for _, m := range rec.Members {
				if m.Visibility == v {
					b.WriteString(escapeRecord(symbol(v)+" "+m.Name+": "+m.Type) + `\l`)
				}
			}
		}
		fields = append(fields, b.String())
	}
	if !opts.HideMethods {
		var b strings.Builder
		for _, v := range visibilityOrder {
			for _, m := range rec.Methods {
				if m.Visibility == v {
					b.WriteString(escapeRecord(symbol(v)+" "+m.Signature()) + `\l`)
				}
			}
		}
		fields = append(fields, b.String())
	}
	return "{" + strings.Join(fields, "|") + "}"
}

var recordEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"{", `\{`,
	"}", `\}`,
	"|", `\|`,
	"<", `\<`,
	">", `\>`,
)

func escapeRecord(s string) string {
	return recordEscaper.Replace(s)
}

func escapeDOT(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
