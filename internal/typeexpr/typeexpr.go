// Package typeexpr reduces C++ type expressions to bare type names.
//
// Resolution is syntactic: qualifiers, sigils, template wrappers and
// namespaces are stripped, so two types with the same unqualified name in
// different namespaces resolve to the same key.
package typeexpr

import (
	"regexp"
	"strings"
)

// MaxDepth bounds template-argument recursion in Resolve.
const MaxDepth = 32

var (
	cvRe       = regexp.MustCompile(`\b(?:const|volatile)\b`)
	templateRe = regexp.MustCompile(`^([\w:]+)\s*<(.*)>$`)
)

// Resolve returns the bare type name of raw, or false when nothing usable
// remains. Keyed containers resolve to their last template argument:
// "std::map<Key, Widget*>" resolves to "Widget".
func Resolve(raw string) (string, bool) {
	return resolve(raw, 0)
}

func resolve(raw string, depth int) (string, bool) {
	if depth > MaxDepth {
		return "", false
	}

	s := cvRe.ReplaceAllString(raw, "")
	s = strings.TrimRight(strings.TrimSpace(s), "*& \t")
	s = strings.TrimSpace(s)

	if m := templateRe.FindStringSubmatch(s); m != nil {
		args := SplitTopLevel(m[2], ',')
		if len(args) == 0 {
			return "", false
		}
		return resolve(args[len(args)-1], depth+1)
	}

	if segs := splitScope(s); len(segs) > 1 {
		s = segs[len(segs)-1]
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// IsPointerOrReference reports whether raw ends in '*' or '&'.
func IsPointerOrReference(raw string) bool {
	s := strings.TrimSpace(raw)
	return strings.HasSuffix(s, "*") || strings.HasSuffix(s, "&")
}

// SplitTopLevel splits s on sep where '<' and '(' nesting is zero. '<' and
// '(' share one depth counter, as do '>' and ')'. Segments are trimmed and
// empty segments are dropped.
func SplitTopLevel(s string, sep rune) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '<', '(':
			depth++
		case '>', ')':
			depth--
		case sep:
			if depth == 0 {
				parts = appendTrimmed(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return appendTrimmed(parts, s[start:])
}

func appendTrimmed(parts []string, seg string) []string {
	if seg = strings.TrimSpace(seg); seg != "" {
		parts = append(parts, seg)
	}
	return parts
}

// splitScope splits on "::" outside template brackets.
func splitScope(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ':':
			if depth == 0 && i+1 < len(s) && s[i+1] == ':' {
				parts = append(parts, s[start:i])
				start = i + 2
				i++
			}
		}
	}
	return append(parts, s[start:])
}
