package parse

import (
	"regexp"
	"strings"

	"github.com/phobologic/cppuml/internal/model"
	"github.com/phobologic/cppuml/internal/typeexpr"
)

var (
	paramRe  = regexp.MustCompile(`^(.+?)(\s+|\s*[&*]+\s*)(\w+)$`)
	cvOnlyRe = regexp.MustCompile(`\b(?:const|volatile)\b`)
)

// builtinWords can end a parameter type but never name a parameter.
var builtinWords = map[string]bool{
	"int": true, "char": true, "long": true, "short": true, "double": true,
	"float": true, "bool": true, "unsigned": true, "signed": true, "void": true,
	"auto": true, "wchar_t": true, "char16_t": true, "char32_t": true,
}

// ParseParams splits a parameter list into (name, type) pairs. Default
// values are dropped. A parameter without a trailing identifier is kept
// with an empty name.
func ParseParams(text string) []model.Param {
	text = strings.TrimSpace(text)
	if text == "" || text == "void" {
		return nil
	}

	var params []model.Param
	for _, seg := range typeexpr.SplitTopLevel(text, ',') {
		if before, _, found := strings.Cut(seg, "="); found {
			seg = strings.TrimSpace(before)
		}
		if seg == "" {
			continue
		}
		params = append(params, parseParam(seg))
	}
	return params
}

func parseParam(seg string) model.Param {
	m := paramRe.FindStringSubmatch(seg)
	if m == nil {
		return model.Param{Type: seg}
	}
	typ := joinSigils(m[1], m[2])
	name := m[3]
	if builtinWords[name] || strings.TrimSpace(cvOnlyRe.ReplaceAllString(typ, "")) == "" {
		return model.Param{Type: seg}
	}
	return model.Param{Name: name, Type: typ}
}
