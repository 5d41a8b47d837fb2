package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/cppuml/internal/graph"
	"github.com/phobologic/cppuml/internal/model"
	"github.com/phobologic/cppuml/internal/ranking"
)

func (a *app) newListCmd() *cobra.Command {
	var (
		match string
		rank  bool
		top   int
	)
	cmd := &cobra.Command{
		Use:   "list [root]",
		Short: "List the extracted types",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := resolveRoot(args, 0)
			if err != nil {
				return err
			}
			cfg, err := a.loadConfig(cmd, root)
			if err != nil {
				return err
			}
			st, err := a.loadSession(cmd.Context(), root, cfg)
			if err != nil {
				return err
			}

			names := ranking.Match(st.Names(), match)
			if !rank {
				if top > 0 && top < len(names) {
					names = names[:top]
				}
				for _, n := range names {
					_, _ = fmt.Fprintln(a.stdout, n)
				}
				return nil
			}

			all := graph.TraverseAll(st, model.AllKinds)
			ranked := graph.Rank(names, all.Relationships)
			for _, r := range ranking.SelectTop(ranked, top) {
				_, _ = fmt.Fprintf(a.stdout, "%s\t%.4f\n", r.Name, r.Rank)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&match, "match", "m", "", "only names containing this (case-insensitive)")
	cmd.Flags().BoolVar(&rank, "rank", false, "order by PageRank centrality and print scores")
	cmd.Flags().IntVarP(&top, "top", "n", 0, "print at most this many types")
	cmd.Flags().String("parser", "heuristic", "extractor: heuristic or treesitter")
	return cmd
}

// typeReport is the show command's document.
type typeReport struct {
	Type          *model.TypeRecord    `json:"type" yaml:"type"`
	Relationships []model.Relationship `json:"relationships,omitempty" yaml:"relationships,omitempty"`
	Subclasses    []string             `json:"subclasses,omitempty" yaml:"subclasses,omitempty"`
	Users         []string             `json:"users,omitempty" yaml:"users,omitempty"`
}

func (a *app) newShowCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show TYPE [root]",
		Short: "Print one extracted type and its relationships",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := resolveRoot(args, 1)
			if err != nil {
				return err
			}
			cfg, err := a.loadConfig(nil, root)
			if err != nil {
				return err
			}
			st, err := a.loadSession(cmd.Context(), root, cfg)
			if err != nil {
				return err
			}
			name, err := findType(st, args[0])
			if err != nil {
				return err
			}

			rec, _ := st.Get(name)
			report := typeReport{
				Type:          rec,
				Relationships: graph.Classify(rec, st),
				Subclasses:    graph.Subclasses(st, name),
				Users:         graph.Users(st, name, model.AllKinds),
			}

			switch strings.ToLower(format) {
			case "text", "":
				writeReport(a.stdout, report)
				return nil
			case "yaml":
				enc := yaml.NewEncoder(a.stdout)
				enc.SetIndent(2)
				if err := enc.Encode(report); err != nil {
					return fmt.Errorf("encoding yaml: %w", err)
				}
				return enc.Close()
			case "json":
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return fmt.Errorf("unknown show format %q (want text, yaml or json)", format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "text, yaml or json")
	return cmd
}

func writeReport(w io.Writer, r typeReport) {
	t := r.Type
	_, _ = fmt.Fprintf(w, "%s %s", t.Keyword(), t.Name)
	if len(t.Bases) > 0 {
		_, _ = fmt.Fprintf(w, " : %s", strings.Join(t.Bases, ", "))
	}
	_, _ = fmt.Fprintf(w, "  (%s)\n", t.File)

	if len(t.Members) > 0 {
		_, _ = fmt.Fprintln(w, "members:")
		for _, m := range t.Members {
			_, _ = fmt.Fprintf(w, "  %-9s %s: %s\n", m.Visibility, m.Name, m.Type)
		}
	}
	if len(t.Methods) > 0 {
		_, _ = fmt.Fprintln(w, "methods:")
		for _, m := range t.Methods {
			_, _ = fmt.Fprintf(w, "  %-9s %s\n", m.Visibility, m.Signature())
		}
	}
	if len(r.Relationships) > 0 {
		_, _ = fmt.Fprintln(w, "relationships:")
		for _, rel := range r.Relationships {
			_, _ = fmt.Fprintf(w, "  %s -> %s (%s)\n", rel.From, rel.To, rel.Kind)
		}
	}
	if len(r.Subclasses) > 0 {
		_, _ = fmt.Fprintf(w, "subclasses: %s\n", strings.Join(r.Subclasses, ", "))
	}
	if len(r.Users) > 0 {
		_, _ = fmt.Fprintf(w, "used by: %s\n", strings.Join(r.Users, ", "))
	}
}
