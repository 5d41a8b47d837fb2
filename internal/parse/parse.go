// Package parse extracts class and struct records from C++ source text.
//
// Two backends implement Extractor: Heuristic, a line-oriented pattern
// matcher that needs nothing but the text, and TreeSitter, which walks a
// tree-sitter C++ syntax tree. Both follow the same conventions: members
// default to public in struct bodies and private in class bodies, and
// constructors and destructors carry an empty return type.
package parse

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/phobologic/cppuml/internal/model"
	"github.com/phobologic/cppuml/internal/typeexpr"
)

// ErrParseFailed is returned when a backend cannot produce a syntax tree.
var ErrParseFailed = errors.New("parse failed")

// Extractor turns the text of one source file into type records.
type Extractor interface {
	Extract(source string) ([]model.TypeRecord, error)
}

// Backend names accepted by New.
const (
	BackendHeuristic  = "heuristic"
	BackendTreeSitter = "treesitter"
)

// Backends lists the accepted backend names.
var Backends = []string{BackendHeuristic, BackendTreeSitter}

// New returns the extractor registered under name. The empty name selects
// the heuristic backend.
func New(name string) (Extractor, error) {
	switch strings.ToLower(name) {
	case "", BackendHeuristic:
		return Heuristic{}, nil
	case BackendTreeSitter:
		return NewTreeSitter(), nil
	}
	return nil, fmt.Errorf("unknown parser %q (want one of %s)", name, strings.Join(Backends, ", "))
}

// Heuristic is the regex-driven extractor. The zero value is ready to use
// and safe for concurrent calls.
type Heuristic struct{}

var (
	declRe     = regexp.MustCompile(`\b(class|struct)\s+(\w+)(?:\s+final)?\s*(?::\s*([^{;]+))?\{`)
	baseKindRe = regexp.MustCompile(`\b(?:public|private|protected|virtual)\b`)
)

// Extract implements Extractor. It never returns an error: unbalanced
// declarations and unrecognized lines are skipped.
func (Heuristic) Extract(source string) ([]model.TypeRecord, error) {
	text := Preprocess(source)

	var set recordSet
	pos := 0
	for pos < len(text) {
		loc := declRe.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		start := pos + loc[0]
		open := pos + loc[1] - 1
		keyword := text[pos+loc[2] : pos+loc[3]]
		name := text[pos+loc[4] : pos+loc[5]]
		var baseList string
		if loc[6] >= 0 {
			baseList = text[pos+loc[6] : pos+loc[7]]
		}

		if isEnumClass(text[:start]) {
			pos = start + len(keyword)
			continue
		}

		closeIdx := matchBrace(text, open)
		if closeIdx < 0 {
			pos = start + len(keyword)
			continue
		}

		isStruct := keyword == "struct"
		rec := model.TypeRecord{
			Name:     name,
			Bases:    splitBases(baseList),
			IsStruct: isStruct,
		}
		rec.Members, rec.Methods = decomposeBody(text[open+1:closeIdx], name, isStruct)
		set.put(rec)

		// Nested declarations are scanned too; resume just inside the body.
		pos = open + 1
	}

	return set.records, nil
}

// recordSet collects records in declaration order. A later record with the
// same name replaces the earlier one in place.
type recordSet struct {
	records []model.TypeRecord
	index   map[string]int
}

func (s *recordSet) put(rec model.TypeRecord) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[rec.Name]; ok {
		s.records[i] = rec
		return
	}
	s.index[rec.Name] = len(s.records)
	s.records = append(s.records, rec)
}

// isEnumClass reports whether the declaration keyword that follows prefix
// belongs to an "enum class" or "enum struct".
func isEnumClass(prefix string) bool {
	p := strings.TrimRight(prefix, " \t\r\n")
	if !strings.HasSuffix(p, "enum") {
		return false
	}
	p = p[:len(p)-len("enum")]
	if p == "" {
		return true
	}
	c := p[len(p)-1]
	return !(c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z')
}

// matchBrace returns the index of the '}' that closes the '{' at open, or
// -1 if the text ends first.
func matchBrace(text string, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func splitBases(list string) []string {
	var bases []string
	for _, seg := range typeexpr.SplitTopLevel(list, ',') {
		seg = strings.Join(strings.Fields(baseKindRe.ReplaceAllString(seg, "")), " ")
		if seg != "" {
			bases = append(bases, seg)
		}
	}
	return bases
}
