// Package source loads a directory of C++ files into a store.Store.
package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/phobologic/cppuml/internal/discover"
	"github.com/phobologic/cppuml/internal/model"
	"github.com/phobologic/cppuml/internal/parse"
	"github.com/phobologic/cppuml/internal/store"
)

// DefaultMaxFileSize is the size above which files are skipped.
const DefaultMaxFileSize = 1_000_000 // 1 MB

// Options controls discovery and loading.
type Options struct {
	discover.Options
	MaxFileSize int64 // 0 means DefaultMaxFileSize, negative disables the limit
	Workers     int   // 0 means GOMAXPROCS
}

// Stats summarizes one Load.
type Stats struct {
	Files    int // files discovered
	Parsed   int
	Skipped  int // over the size limit
	Failed   int // unreadable or rejected by the extractor
	Types    int
	Duration time.Duration
}

type contextExtractor interface {
	ExtractContext(ctx context.Context, source string) ([]model.TypeRecord, error)
}

type result struct {
	recs []model.TypeRecord
	ok   bool
}

// Load discovers the files under root, extracts them concurrently with e and
// merges the records into a fresh store in path order. Files that cannot be
// read or extracted are logged and skipped. Only discovery failures and
// context cancellation are returned as errors.
func Load(ctx context.Context, root string, opts Options, e parse.Extractor, logger *slog.Logger) (*store.Store, Stats, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	start := time.Now()

	files, err := discover.Files(root, opts.Options)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("discovering files: %w", err)
	}
	stats := Stats{Files: len(files)}

	maxSize := opts.MaxFileSize
	if maxSize == 0 {
		maxSize = DefaultMaxFileSize
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, f := range files {
		i, f := i, f
		if maxSize > 0 && f.Size > maxSize {
			logger.Warn("skipping file over size limit", "path", f.Path, "size", f.Size, "limit", maxSize)
			stats.Skipped++
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			recs, err := extractFile(gctx, e, f)
			if err != nil {
				logger.Warn("skipping file", "path", f.Path, "error", err)
				return nil
			}
			logger.Debug("parsed file", "path", f.Path, "types", len(recs))
			results[i] = result{recs: recs, ok: true}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, stats, err
	}

	st := store.New(e)
	for i, f := range files {
		r := results[i]
		if !r.ok {
			if maxSize <= 0 || f.Size <= maxSize {
				stats.Failed++
			}
			continue
		}
		st.Add(f.Path, r.recs)
		stats.Parsed++
	}
	stats.Types = st.Len()
	stats.Duration = time.Since(start)

	logger.Info("loaded sources",
		"root", root,
		"files", stats.Parsed,
		"skipped", stats.Skipped+stats.Failed,
		"types", stats.Types,
		"duration", stats.Duration.Round(time.Millisecond),
	)
	return st, stats, nil
}

// extractFile reads f and runs e over its text. Invalid UTF-8 is dropped.
func extractFile(ctx context.Context, e parse.Extractor, f discover.FileEntry) ([]model.TypeRecord, error) {
	data, err := os.ReadFile(f.Abs)
	if err != nil {
		return nil, fmt.Errorf("reading: %w", err)
	}
	text := strings.ToValidUTF8(string(data), "")
	if ce, ok := e.(contextExtractor); ok {
		return ce.ExtractContext(ctx, text)
	}
	return e.Extract(text)
}
