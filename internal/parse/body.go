package parse

import (
	"regexp"
	"strings"

	"github.com/phobologic/cppuml/internal/model"
)

var (
	accessRe = regexp.MustCompile(`^(public|private|protected)\s*:`)

	methodRe = regexp.MustCompile(`^(?:(?:virtual|static|inline|explicit|constexpr)\s+)*` +
		`([\w:&*<>,\s]+?)(\s+|\s*[&*]+\s*)(~?\w+)\s*\(([^)]*)\)\s*` +
		`(?:const\s*)?(?:noexcept\s*)?(?:override\s*)?(?:final\s*)?` +
		`(?:=\s*(?:0|default|delete)\s*)?(?:;|\{)`)

	ctorRe = regexp.MustCompile(`^(?:(?:explicit|virtual|inline|constexpr)\s+)*` +
		`(~?\w+)\s*\(([^)]*)\)\s*(?:noexcept\s*)?` +
		`(?::\s*[^{;]+)?(?:;|\{|=\s*(?:default|delete)\s*;)`)

	memberRe = regexp.MustCompile(`^(?:(?:static|const|mutable|constexpr|inline|volatile)\s+)*` +
		`([\w:&*<>,\s]+?)(\s+|\s*[&*]+\s*)(\w+)\s*(?:\[[^\]]*\])?\s*` +
		`(?:=\s*[^;]+|\{[^}]*\})?;`)
)

// specifiers can precede a return type but are never one.
var specifiers = map[string]bool{
	"virtual": true, "static": true, "inline": true, "explicit": true, "constexpr": true,
}

// statementWords start lines that are not declarations.
var statementWords = map[string]bool{
	"return": true, "if": true, "else": true, "for": true, "while": true, "do": true,
	"switch": true, "case": true, "delete": true, "throw": true, "goto": true,
	"using": true, "typedef": true, "friend": true, "template": true, "enum": true,
	"new": true, "operator": true,
}

// tagWords are elaborated-type keywords that cannot be a type on their own.
var tagWords = map[string]bool{"struct": true, "class": true, "union": true}

type bodyState struct {
	owner   string
	access  model.Visibility
	members []model.MemberRecord
	methods []model.MethodRecord
}

// A bodyRule recognizes one kind of body line and turns its submatches
// into records. The first rule whose recognize returns non-nil wins.
type bodyRule struct {
	name      string
	recognize func(line string, st *bodyState) []string
	emit      func(m []string, st *bodyState)
}

var bodyRules = []bodyRule{
	{
		name: "access",
		recognize: func(line string, _ *bodyState) []string {
			return accessRe.FindStringSubmatch(line)
		},
		emit: func(m []string, st *bodyState) {
			st.access = model.Visibility(m[1])
		},
	},
	{
		name: "method",
		recognize: func(line string, _ *bodyState) []string {
			m := methodRe.FindStringSubmatch(line)
			if m == nil {
				return nil
			}
			ret := joinSigils(m[1], m[2])
			if ret == "" || strings.Contains(ret, "(") || specifiers[ret] || strings.HasPrefix(m[3], "~") {
				return nil
			}
			if rejectType(ret) {
				return nil
			}
			return []string{ret, m[3], m[4]}
		},
		emit: func(m []string, st *bodyState) {
			st.methods = append(st.methods, model.MethodRecord{
				Name:       m[1],
				ReturnType: m[0],
				Params:     ParseParams(m[2]),
				Visibility: st.access,
			})
		},
	},
	{
		name: "constructor",
		recognize: func(line string, st *bodyState) []string {
			m := ctorRe.FindStringSubmatch(line)
			if m == nil {
				return nil
			}
			if st.owner != "" && strings.TrimPrefix(m[1], "~") != st.owner {
				return nil
			}
			return m[1:]
		},
		emit: func(m []string, st *bodyState) {
			st.methods = append(st.methods, model.MethodRecord{
				Name:       m[0],
				Params:     ParseParams(m[1]),
				Visibility: st.access,
			})
		},
	},
	{
		name: "member",
		recognize: func(line string, _ *bodyState) []string {
			m := memberRe.FindStringSubmatch(line)
			if m == nil {
				return nil
			}
			typ := joinSigils(m[1], m[2])
			if typ == "" || rejectType(typ) || hasTopLevelComma(typ) {
				return nil
			}
			return []string{typ, m[3]}
		},
		emit: func(m []string, st *bodyState) {
			st.members = append(st.members, model.MemberRecord{
				Name:       m[1],
				Type:       m[0],
				Visibility: st.access,
			})
		},
	},
}

// decomposeBody splits a type body into members and methods. Only lines at
// the top level of the body are recognized; the insides of inline function
// bodies and nested types are skipped.
func decomposeBody(body, owner string, isStruct bool) ([]model.MemberRecord, []model.MethodRecord) {
	st := &bodyState{owner: owner, access: model.DefaultVisibility(isStruct)}

	depth := 0
	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if depth == 0 {
			applyRules(line, st)
		}
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth < 0 {
			depth = 0
		}
	}
	return st.members, st.methods
}

func applyRules(line string, st *bodyState) {
	for _, r := range bodyRules {
		if m := r.recognize(line, st); m != nil {
			r.emit(m, st)
			return
		}
	}
}

// joinSigils appends the separator between a type and a name to the type,
// keeping any '*' or '&' it holds and dropping whitespace.
func joinSigils(typ, sep string) string {
	return strings.TrimSpace(typ) + strings.Join(strings.Fields(sep), "")
}

func rejectType(typ string) bool {
	fields := strings.Fields(typ)
	if len(fields) == 0 {
		return true
	}
	first := strings.TrimRight(fields[0], "&*")
	return statementWords[first] || len(fields) == 1 && tagWords[first]
}

// hasTopLevelComma reports a comma outside template brackets, which marks a
// multi-declarator line such as "int x, y;".
func hasTopLevelComma(s string) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case '<', '(':
			depth++
		case '>', ')':
			depth--
		case ',':
			if depth == 0 {
				return true
			}
		}
	}
	return false
}
