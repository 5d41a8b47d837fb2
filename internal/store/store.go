// Package store holds the parsed type records of one session.
//
// A Store is filled one file at a time and then queried by the graph
// package. It is not safe for concurrent mutation; callers that extract in
// parallel merge results through Add from a single goroutine.
package store

import (
	"errors"
	"fmt"
	"sort"

	"github.com/phobologic/cppuml/internal/model"
	"github.com/phobologic/cppuml/internal/parse"
)

// ErrNoExtractor is returned by Parse on a Store built without an extractor.
var ErrNoExtractor = errors.New("store has no extractor")

// Store maps type names to records and remembers which files were parsed.
type Store struct {
	extractor parse.Extractor
	types     map[string]*model.TypeRecord
	files     map[string]struct{}
}

// New returns an empty Store that parses with e. e may be nil when records
// are only added through Add.
func New(e parse.Extractor) *Store {
	return &Store{
		extractor: e,
		types:     make(map[string]*model.TypeRecord),
		files:     make(map[string]struct{}),
	}
}

// Parse extracts the records in text and stores them under path. Parsing
// a path a second time is a no-op.
func (s *Store) Parse(text, path string) error {
	if s.Parsed(path) {
		return nil
	}
	if s.extractor == nil {
		return ErrNoExtractor
	}
	recs, err := s.extractor.Extract(text)
	if err != nil {
		return fmt.Errorf("extracting %s: %w", path, err)
	}
	s.Add(path, recs)
	return nil
}

// Add stores records extracted from path and marks path as parsed. A
// record replaces any earlier record with the same name. Add ignores a
// path that was already parsed.
func (s *Store) Add(path string, recs []model.TypeRecord) {
	if s.Parsed(path) {
		return
	}
	s.files[path] = struct{}{}
	for i := range recs {
		rec := recs[i]
		if rec.Name == "" {
			continue
		}
		rec.File = path
		s.types[rec.Name] = &rec
	}
}

// Parsed reports whether path has been parsed in this session.
func (s *Store) Parsed(path string) bool {
	_, ok := s.files[path]
	return ok
}

// Clear drops every record and parsed path.
func (s *Store) Clear() {
	s.types = make(map[string]*model.TypeRecord)
	s.files = make(map[string]struct{})
}

// Get returns the record for name.
func (s *Store) Get(name string) (*model.TypeRecord, bool) {
	rec, ok := s.types[name]
	return rec, ok
}

// Names returns every stored type name, sorted.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.types))
	for name := range s.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of stored types.
func (s *Store) Len() int {
	return len(s.types)
}

// Files returns the parsed paths, sorted.
func (s *Store) Files() []string {
	files := make([]string, 0, len(s.files))
	for f := range s.files {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}
