package parse

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/cppuml/internal/lang"
	"github.com/phobologic/cppuml/internal/model"
)

// TreeSitter extracts records from a tree-sitter C++ syntax tree. It is
// safe for concurrent use; every call creates its own parser.
type TreeSitter struct {
	lang *lang.Language
}

// NewTreeSitter returns a TreeSitter bound to the registered C++ grammar.
func NewTreeSitter() *TreeSitter {
	return &TreeSitter{lang: lang.Languages[lang.CPP]}
}

// Extract implements Extractor.
func (t *TreeSitter) Extract(source string) ([]model.TypeRecord, error) {
	return t.ExtractContext(context.Background(), source)
}

// ExtractContext is Extract with cancellation.
func (t *TreeSitter) ExtractContext(ctx context.Context, source string) ([]model.TypeRecord, error) {
	if strings.TrimSpace(source) == "" {
		return nil, nil
	}

	src := []byte(source)
	tree, err := t.lang.NewParser().ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	if tree == nil {
		return nil, ErrParseFailed
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, ErrParseFailed
	}

	w := &tsWalker{src: src}
	var set recordSet
	walk(root, func(n *sitter.Node) {
		switch n.Type() {
		case "class_specifier", "struct_specifier":
			if rec, ok := w.typeRecord(n); ok {
				set.put(rec)
			}
		}
	})
	return set.records, nil
}

// walk visits n and its descendants depth-first, parents before children.
func walk(n *sitter.Node, fn func(*sitter.Node)) {
	if n == nil {
		return
	}
	fn(n)
	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), fn)
	}
}

type tsWalker struct {
	src []byte
}

func (w *tsWalker) text(n *sitter.Node) string {
	return lang.CollapseWhitespace(lang.NodeText(n, w.src))
}

func (w *tsWalker) typeRecord(n *sitter.Node) (model.TypeRecord, bool) {
	body := n.ChildByFieldName("body")
	name := n.ChildByFieldName("name")
	if body == nil || name == nil {
		return model.TypeRecord{}, false
	}

	isStruct := n.Type() == "struct_specifier"
	rec := model.TypeRecord{
		Name:     w.text(name),
		IsStruct: isStruct,
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() == "base_class_clause" {
			rec.Bases = append(rec.Bases, w.bases(c)...)
		}
	}

	access := model.DefaultVisibility(isStruct)
	for i := 0; i < int(body.ChildCount()); i++ {
		c := body.Child(i)
		switch c.Type() {
		case "access_specifier":
			access = accessOf(w.text(c), access)
		case "field_declaration", "declaration", "function_definition":
			members, methods := w.declaration(c, access)
			rec.Members = append(rec.Members, members...)
			rec.Methods = append(rec.Methods, methods...)
		case "template_declaration", "friend_declaration", "using_declaration", "alias_declaration":
			// Not modelled.
		}
	}
	return rec, rec.Name != ""
}

func accessOf(spec string, current model.Visibility) model.Visibility {
	switch {
	case strings.Contains(spec, "public"):
		return model.Public
	case strings.Contains(spec, "protected"):
		return model.Protected
	case strings.Contains(spec, "private"):
		return model.Private
	}
	return current
}

func (w *tsWalker) bases(clause *sitter.Node) []string {
	var out []string
	for i := 0; i < int(clause.ChildCount()); i++ {
		c := clause.Child(i)
		switch c.Type() {
		case "type_identifier", "qualified_identifier", "template_type":
			out = append(out, w.text(c))
		}
	}
	return out
}

// declaration turns one body entry into members or a method. A declarator
// that wraps a function_declarator is a method; anything else is a member.
func (w *tsWalker) declaration(n *sitter.Node, access model.Visibility) ([]model.MemberRecord, []model.MethodRecord) {
	base := w.baseType(n)

	var members []model.MemberRecord
	var methods []model.MethodRecord
	for _, d := range w.declarators(n) {
		fn, sigils := unwrapDeclarator(d)
		if fn != nil && fn.Type() == "function_declarator" {
			m := model.MethodRecord{
				Name:       w.text(fn.ChildByFieldName("declarator")),
				Params:     w.params(fn.ChildByFieldName("parameters")),
				Visibility: access,
			}
			if base != "" {
				m.ReturnType = base + sigils
			}
			methods = append(methods, m)
			continue
		}
		if fn == nil || base == "" {
			continue
		}
		members = append(members, model.MemberRecord{
			Name:       w.text(fn),
			Type:       base + sigils,
			Visibility: access,
		})
	}
	return members, methods
}

// baseType is the declaration's type specifier with any leading
// qualifiers, or "" for constructors and destructors.
func (w *tsWalker) baseType(n *sitter.Node) string {
	typ := n.ChildByFieldName("type")
	if typ == nil {
		return ""
	}
	var quals []string
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.StartByte() >= typ.StartByte() {
			break
		}
		if c.Type() == "type_qualifier" {
			quals = append(quals, w.text(c))
		}
	}
	return strings.Join(append(quals, w.text(typ)), " ")
}

// declarators returns the declarator children of a declaration. A field
// declaration like "int x, y;" has several.
func (w *tsWalker) declarators(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "field_identifier", "identifier", "pointer_declarator", "reference_declarator",
			"array_declarator", "function_declarator", "init_declarator":
			out = append(out, c)
		}
	}
	return out
}

// unwrapDeclarator strips pointer, reference, array and initializer
// wrappers and returns the innermost declarator with the sigils that were
// removed, outermost first.
func unwrapDeclarator(d *sitter.Node) (*sitter.Node, string) {
	var sigils strings.Builder
	for d != nil {
		switch d.Type() {
		case "pointer_declarator":
			sigils.WriteString("*")
		case "reference_declarator":
			sigils.WriteString("&")
		case "array_declarator", "init_declarator":
		default:
			return d, sigils.String()
		}
		d = innerDeclarator(d)
	}
	return nil, sigils.String()
}

func innerDeclarator(d *sitter.Node) *sitter.Node {
	if inner := d.ChildByFieldName("declarator"); inner != nil {
		return inner
	}
	// reference_declarator has no declarator field; its target is the
	// last named child.
	if n := int(d.NamedChildCount()); n > 0 {
		return d.NamedChild(n - 1)
	}
	return nil
}

func (w *tsWalker) params(list *sitter.Node) []model.Param {
	if list == nil {
		return nil
	}
	var out []model.Param
	for i := 0; i < int(list.ChildCount()); i++ {
		c := list.Child(i)
		switch c.Type() {
		case "parameter_declaration", "optional_parameter_declaration":
			out = append(out, w.param(c))
		case "variadic_parameter_declaration":
			out = append(out, model.Param{Type: "..."})
		}
	}
	if len(out) == 1 && out[0] == (model.Param{Type: "void"}) {
		return nil
	}
	return out
}

func (w *tsWalker) param(n *sitter.Node) model.Param {
	p := model.Param{Type: w.baseType(n)}
	d := n.ChildByFieldName("declarator")
	for d != nil {
		switch d.Type() {
		case "pointer_declarator", "abstract_pointer_declarator":
			p.Type += "*"
		case "reference_declarator", "abstract_reference_declarator":
			p.Type += "&"
		case "identifier":
			p.Name = w.text(d)
			return p
		case "array_declarator", "abstract_array_declarator":
			p.Type += "[]"
		default:
			return p
		}
		d = innerDeclarator(d)
	}
	return p
}
