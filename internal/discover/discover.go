// Package discover finds C++ source files in a directory tree.
package discover

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gobwas/glob"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/phobologic/cppuml/internal/lang"
)

// FileEntry represents a discovered source file.
type FileEntry struct {
	Path string // Relative to root, slash-separated
	Abs  string // Path to open
	Size int64
}

// Options narrows discovery. The zero value accepts every extension the
// lang registry knows.
type Options struct {
	Extensions []string // e.g. ".hpp"; empty means the registry's
	Exclude    []string // glob patterns matched against Path
}

var skipDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	".hg":          {},
	".svn":         {},
	"build":        {},
	"out":          {},
	"CMakeFiles":   {},
	"_deps":        {},
	".cache":       {},
}

// SkipDir reports whether a directory with this base name is never
// searched: VCS and build output directories and hidden directories.
func SkipDir(name string) bool {
	if _, ok := skipDirs[name]; ok {
		return true
	}
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "cmake-build-")
}

type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Files discovers source files under root. A root that names a single file
// yields that file alone, whatever its extension.
func Files(root string, opts Options) ([]FileEntry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return []FileEntry{{Path: filepath.Base(root), Abs: root, Size: info.Size()}}, nil
	}

	excludes, err := compilePatterns(opts.Exclude)
	if err != nil {
		return nil, err
	}
	accept := extensionFilter(opts.Extensions)

	gitFiles := gitLsFiles(root)
	var gi *ignore.GitIgnore
	if gitFiles == nil {
		gi = loadGitignore(root)
	}

	var results []FileEntry

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors
		}

		name := d.Name()

		if d.IsDir() {
			if path == root {
				return nil
			}
			if SkipDir(name) {
				return filepath.SkipDir
			}
			if rel, err := filepath.Rel(root, path); err == nil && matchesAny(filepath.ToSlash(rel)+"/", excludes) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		// Skip symlinks
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		if !accept(filepath.Ext(name)) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		if gitFiles != nil {
			if _, ok := gitFiles[filepath.ToSlash(rel)]; !ok {
				return nil
			}
		} else if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		rel = filepath.ToSlash(rel)
		if matchesAny(rel, excludes) {
			return nil
		}

		var size int64
		if fi, err := d.Info(); err == nil {
			size = fi.Size()
		}
		results = append(results, FileEntry{Path: rel, Abs: path, Size: size})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	return results, nil
}

func extensionFilter(exts []string) func(string) bool {
	if len(exts) == 0 {
		return func(ext string) bool { return lang.ForExtension(ext) != "" }
	}
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" && !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = struct{}{}
	}
	return func(ext string) bool {
		_, ok := set[strings.ToLower(ext)]
		return ok
	}
}

func compilePatterns(patterns []string) ([]compiledPattern, error) {
	out := make([]compiledPattern, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", p, err)
		}
		out = append(out, compiledPattern{pattern: p, glob: g})
	}
	return out, nil
}

// matchesAny reports whether path matches a pattern. A pattern starting
// with "**/" also matches at the root, so "**/gen/**" excludes "gen/a.h".
func matchesAny(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
		if rest, ok := strings.CutPrefix(cp.pattern, "**/"); ok {
			if g, err := glob.Compile(rest, '/'); err == nil && g.Match(path) {
				return true
			}
		}
	}
	return false
}

func gitLsFiles(root string) map[string]struct{} {
	gitDir := filepath.Join(root, ".git")
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil
	}

	files := make(map[string]struct{})
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line != "" {
			files[line] = struct{}{}
		}
	}
	return files
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
