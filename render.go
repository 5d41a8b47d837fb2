package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/phobologic/cppuml/internal/config"
	"github.com/phobologic/cppuml/internal/graph"
	"github.com/phobologic/cppuml/internal/ranking"
	"github.com/phobologic/cppuml/internal/render"
	"github.com/phobologic/cppuml/internal/store"
	"github.com/phobologic/cppuml/internal/watch"
)

// renderFlags are the flags render and watch share that have no config key.
type renderFlags struct {
	class     string
	all       bool
	selected  []string
	match     string
	output    string
	url       bool
	noMembers bool
	noMethods bool
}

func addRenderFlags(cmd *cobra.Command, rf *renderFlags) {
	f := cmd.Flags()
	f.StringVarP(&rf.class, "class", "c", "", "focus type; the diagram grows from it up to --depth")
	f.BoolVar(&rf.all, "all", false, "draw every type (default when no --class or --select)")
	f.StringSliceVar(&rf.selected, "select", nil, "draw only these types and the relationships among them")
	f.StringVarP(&rf.match, "match", "m", "", "keep only types whose name contains this, plus their neighbours")
	f.BoolVar(&rf.noMembers, "no-members", false, "hide data members")
	f.BoolVar(&rf.noMethods, "no-methods", false, "hide methods")

	// Flags named after config keys; the loader binds them.
	f.IntP("depth", "d", 1, "traversal depth from --class")
	f.StringSliceP("relations", "r", nil, "relation kinds: inheritance,composition,aggregation,dependency or all")
	f.StringP("format", "f", string(render.FormatPlantUML), "output format: plantuml, dot or toon")
	f.String("title", "", "diagram title (default depends on the selection)")
	f.String("parser", "heuristic", "extractor: heuristic or treesitter")
	f.StringSlice("exclude", nil, "glob patterns of paths to skip")
	f.Int("workers", 0, "parallel parsers (default GOMAXPROCS)")

	cmd.MarkFlagsMutuallyExclusive("class", "all", "select")
}

func (a *app) newRenderCmd() *cobra.Command {
	var rf renderFlags
	cmd := &cobra.Command{
		Use:   "render [root]",
		Short: "Render a class diagram",
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
			return a.renderOnce(st, root, cfg, rf)
		},
	}
	addRenderFlags(cmd, &rf)
	cmd.Flags().StringVarP(&rf.output, "output", "o", "", "write the diagram to this file instead of stdout")
	cmd.Flags().BoolVar(&rf.url, "url", false, "print a PlantUML server link for the diagram")
	return cmd
}

func (a *app) newWatchCmd() *cobra.Command {
	var rf renderFlags
	cmd := &cobra.Command{
		Use:   "watch [root]",
		Short: "Re-render a diagram whenever the sources change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rf.output == "" {
				return errors.New("watch requires --output")
			}
			root, err := resolveRoot(args, 0)
			if err != nil {
				return err
			}
			cfg, err := a.loadConfig(cmd, root)
			if err != nil {
				return err
			}
			return a.watch(cmd.Context(), root, cfg, rf, watch.DefaultDebounce)
		},
	}
	addRenderFlags(cmd, &rf)
	cmd.Flags().StringVarP(&rf.output, "output", "o", "", "diagram file to keep up to date")
	return cmd
}

// diagram selects the subgraph rf asks for and its default title.
func diagram(st *store.Store, cfg *config.Config, rf renderFlags) (graph.Result, string, error) {
	kinds, err := cfg.Kinds()
	if err != nil {
		return graph.Result{}, "", err
	}

	var (
		res   graph.Result
		title string
	)
	switch {
	case len(rf.selected) > 0:
		names := make([]string, 0, len(rf.selected))
		for _, s := range rf.selected {
			name, err := findType(st, s)
			if err != nil {
				return graph.Result{}, "", err
			}
			names = append(names, name)
		}
		res, title = graph.Select(st, names, kinds), render.TitleSelected
	case rf.class != "":
		name, err := findType(st, rf.class)
		if err != nil {
			return graph.Result{}, "", err
		}
		res, title = graph.Traverse(st, name, cfg.Depth, kinds), render.FocusTitle(name, cfg.Depth)
	default:
		res, title = graph.TraverseAll(st, kinds), render.TitleAll
	}

	if rf.match != "" {
		res = ranking.FilterByName(res, rf.match)
	}
	if cfg.Title != "" {
		title = cfg.Title
	}
	return res, title, nil
}

// renderOnce renders st per cfg and rf to rf.output or stdout.
func (a *app) renderOnce(st *store.Store, root string, cfg *config.Config, rf renderFlags) error {
	format, err := render.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	if rf.url && format != render.FormatPlantUML {
		return fmt.Errorf("--url needs the plantuml format, not %s", format)
	}

	res, title, err := diagram(st, cfg, rf)
	if err != nil {
		return err
	}

	opts := render.Options{
		Title:       title,
		Root:        filepath.Base(root),
		HideMembers: rf.noMembers || !cfg.Members,
		HideMethods: rf.noMethods || !cfg.Methods,
	}
	if format == render.FormatTOON {
		opts.Ranks = make(map[string]float64)
		for _, r := range graph.Rank(res.Types, res.Relationships) {
			opts.Ranks[r.Name] = r.Rank
		}
	}

	var buf bytes.Buffer
	if err := render.Render(&buf, format, res, st, opts); err != nil {
		return err
	}

	if rf.output == "" {
		if _, err := a.stdout.Write(buf.Bytes()); err != nil {
			return err
		}
	} else {
		path := outputPath(rf.output, format)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		a.log().Info("wrote diagram", "path", path, "types", len(res.Types), "relationships", len(res.Relationships))
	}

	if rf.url {
		url, err := render.PreviewURL(cfg.PlantUMLServer, buf.String())
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(a.stdout, url)
	}
	return nil
}

// outputPath adds the format's extension to a path that has none.
func outputPath(path string, f render.Format) string {
	if filepath.Ext(path) == "" {
		return path + f.Extension()
	}
	return path
}

// watch renders once, then again after every batch of source changes,
// each time from a fresh session, until ctx is done.
func (a *app) watch(ctx context.Context, root string, cfg *config.Config, rf renderFlags, debounce time.Duration) error {
	rebuild := func() {
		st, err := a.loadSession(ctx, root, cfg)
		if err == nil {
			err = a.renderOnce(st, root, cfg, rf)
		}
		if err != nil && ctx.Err() == nil {
			a.log().Error("rebuilding diagram", "error", err)
		}
	}
	rebuild()

	w, err := watch.New(root, cfg.Extensions, debounce, a.log())
	if err != nil {
		return err
	}
	defer w.Close()

	a.log().Info("watching for changes", "root", root, "output", outputPath(rf.output, render.Format(cfg.Format)))
	err = w.Run(ctx, func(paths []string) {
		a.log().Info("sources changed", "files", len(paths))
		rebuild()
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
