// cppuml extracts classes and structs from C++ sources and renders their
// relationships as PlantUML, Graphviz DOT or TOON class diagrams.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phobologic/cppuml/internal/config"
	"github.com/phobologic/cppuml/internal/parse"
	"github.com/phobologic/cppuml/internal/ranking"
	"github.com/phobologic/cppuml/internal/source"
	"github.com/phobologic/cppuml/internal/store"
)

var version = "dev"

var errTypeNotFound = errors.New("not found")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := runContext(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	return runContext(context.Background(), args, stdout, stderr)
}

func runContext(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// app carries the streams and global flags shared by every command.
type app struct {
	stdout, stderr io.Writer
	configFile     string
	verbose        bool
	logger         *slog.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "cppuml",
		Short: "Render class diagrams from C++ sources",
		Long: `cppuml scans a tree of C++ headers and sources, extracts classes and
structs with their members, methods and bases, classifies the relationships
between them (inheritance, composition, aggregation, dependency) and renders
a class diagram around one type, a selection, or the whole tree.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if a.verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate("cppuml {{.Version}}\n")

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default is <root>/"+config.FileName+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		a.newRenderCmd(),
		a.newWatchCmd(),
		a.newListCmd(),
		a.newShowCmd(),
		a.newInitCmd(),
	)
	return root
}

// resolveRoot returns the absolute analysis root named by args[i], or the
// working directory when args is shorter. The root may be a single file.
func resolveRoot(args []string, i int) (string, error) {
	root := "."
	if len(args) > i {
		root = args[i]
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving root: %w", err)
	}
	if _, err := os.Stat(root); err != nil {
		return "", fmt.Errorf("root path: %w", err)
	}
	return root, nil
}

// loadConfig resolves the configuration for root. Flags that share a name
// with a config key override it when set.
func (a *app) loadConfig(cmd *cobra.Command, root string) (*config.Config, error) {
	dir := root
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		dir = filepath.Dir(root)
	}
	l := config.Loader{Root: dir, File: a.configFile}
	if cmd != nil {
		l.Flags = cmd.Flags()
	}
	return l.Load()
}

// loadSession parses every source under root into a fresh store.
func (a *app) loadSession(ctx context.Context, root string, cfg *config.Config) (*store.Store, error) {
	e, err := parse.New(cfg.Parser)
	if err != nil {
		return nil, err
	}
	st, stats, err := source.Load(ctx, root, cfg.SourceOptions(), e, a.log())
	if err != nil {
		return nil, err
	}
	if stats.Files == 0 {
		return nil, fmt.Errorf("no C++ source files found in %s", root)
	}
	return st, nil
}

func (a *app) log() *slog.Logger {
	if a.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return a.logger
}

// findType resolves a user-supplied type name against st.
func findType(st *store.Store, name string) (string, error) {
	found, suggestions, ok := ranking.Lookup(st.Names(), name)
	if ok {
		return found, nil
	}
	if len(suggestions) == 0 {
		return "", fmt.Errorf("type %q %w", name, errTypeNotFound)
	}
	return "", fmt.Errorf("type %q %w (did you mean %s?)", name, errTypeNotFound, strings.Join(suggestions, ", "))
}
