// Package model defines core data structures for cppuml.
package model

import (
	"fmt"
	"strings"
)

// Visibility is a C++ access level.
type Visibility string

const (
	Public    Visibility = "public"
	Protected Visibility = "protected"
	Private   Visibility = "private"
)

// DefaultVisibility returns the access level members get before any
// explicit specifier: public for struct bodies, private for class bodies.
func DefaultVisibility(isStruct bool) Visibility {
	if isStruct {
		return Public
	}
	return Private
}

// Param is one method parameter. Name is empty for anonymous parameters.
type Param struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Type string `json:"type" yaml:"type"`
}

// MemberRecord is a data member of a class or struct.
type MemberRecord struct {
	Name       string     `json:"name" yaml:"name"`
	Type       string     `json:"type" yaml:"type"`
	Visibility Visibility `json:"visibility" yaml:"visibility"`
}

// MethodRecord is a member function. ReturnType is empty for constructors
// and destructors.
type MethodRecord struct {
	Name       string     `json:"name" yaml:"name"`
	ReturnType string     `json:"return_type,omitempty" yaml:"return_type,omitempty"`
	Params     []Param    `json:"params,omitempty" yaml:"params,omitempty"`
	Visibility Visibility `json:"visibility" yaml:"visibility"`
}

// IsConstructor reports whether the method has no return type, which is how
// both constructors and destructors are recorded.
func (m MethodRecord) IsConstructor() bool {
	return m.ReturnType == ""
}

// ParamList renders the parameters as "type name, type".
func (m MethodRecord) ParamList() string {
	parts := make([]string, 0, len(m.Params))
	for _, p := range m.Params {
		if p.Name == "" {
			parts = append(parts, p.Type)
			continue
		}
		parts = append(parts, p.Type+" "+p.Name)
	}
	return strings.Join(parts, ", ")
}

// Signature renders the method as "name(params)" followed by ": ret" when
// it has a return type.
func (m MethodRecord) Signature() string {
	sig := m.Name + "(" + m.ParamList() + ")"
	if m.ReturnType != "" {
		sig += ": " + m.ReturnType
	}
	return sig
}

// TypeRecord is the structural model of one class or struct.
type TypeRecord struct {
	Name     string         `json:"name" yaml:"name"`
	Members  []MemberRecord `json:"members,omitempty" yaml:"members,omitempty"`
	Methods  []MethodRecord `json:"methods,omitempty" yaml:"methods,omitempty"`
	Bases    []string       `json:"bases,omitempty" yaml:"bases,omitempty"`
	File     string         `json:"file,omitempty" yaml:"file,omitempty"`
	IsStruct bool           `json:"is_struct" yaml:"is_struct"`
}

// Keyword returns "struct" or "class".
func (t *TypeRecord) Keyword() string {
	if t.IsStruct {
		return "struct"
	}
	return "class"
}

// RelationKind is the kind of a directed relationship between two types.
type RelationKind string

const (
	Inheritance RelationKind = "inheritance"
	Composition RelationKind = "composition"
	Aggregation RelationKind = "aggregation"
	Dependency  RelationKind = "dependency"
)

// Kinds lists every relation kind in classification order.
var Kinds = []RelationKind{Inheritance, Composition, Aggregation, Dependency}

// Relationship is a directed edge between two types. For inheritance From is
// the base and To is the derived type.
type Relationship struct {
	From  string       `json:"from" yaml:"from"`
	To    string       `json:"to" yaml:"to"`
	Kind  RelationKind `json:"kind" yaml:"kind"`
	Label string       `json:"label,omitempty" yaml:"label,omitempty"`
}

// RelationKey identifies a relationship for deduplication.
type RelationKey struct {
	From, To string
	Kind     RelationKind
}

// Key returns the (From, To, Kind) triple of r.
func (r Relationship) Key() RelationKey {
	return RelationKey{From: r.From, To: r.To, Kind: r.Kind}
}

// Dedupe removes relationships with a repeated (From, To, Kind) triple,
// keeping the first occurrence and preserving order.
func Dedupe(rels []Relationship) []Relationship {
	seen := make(map[RelationKey]struct{}, len(rels))
	out := make([]Relationship, 0, len(rels))
	for _, r := range rels {
		k := r.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

// KindSet is a set of relation kinds. The zero value means every kind.
type KindSet uint8

// AllKinds contains every relation kind.
const AllKinds KindSet = 1<<4 - 1

func kindBit(k RelationKind) KindSet {
	switch k {
	case Inheritance:
		return 1 << 0
	case Composition:
		return 1 << 1
	case Aggregation:
		return 1 << 2
	case Dependency:
		return 1 << 3
	}
	return 0
}

// NewKindSet builds a set from kinds.
func NewKindSet(kinds ...RelationKind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s |= kindBit(k)
	}
	return s
}

// Normalize maps the zero set to AllKinds.
func (s KindSet) Normalize() KindSet {
	if s == 0 {
		return AllKinds
	}
	return s
}

// Has reports whether k is in the set. The zero set contains every kind.
func (s KindSet) Has(k RelationKind) bool {
	return s.Normalize()&kindBit(k) != 0
}

// HasAny reports whether any of kinds is in the set.
func (s KindSet) HasAny(kinds ...RelationKind) bool {
	for _, k := range kinds {
		if s.Has(k) {
			return true
		}
	}
	return false
}

// List returns the kinds in the set in classification order.
func (s KindSet) List() []RelationKind {
	var out []RelationKind
	for _, k := range Kinds {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

func (s KindSet) String() string {
	if s.Normalize() == AllKinds {
		return "all"
	}
	parts := make([]string, 0, len(Kinds))
	for _, k := range s.List() {
		parts = append(parts, string(k))
	}
	return strings.Join(parts, ",")
}

// ParseKinds parses relation kind names. An empty list, or one containing
// "all", yields AllKinds.
func ParseKinds(names []string) (KindSet, error) {
	var s KindSet
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if name == "all" {
			return AllKinds, nil
		}
		bit := kindBit(RelationKind(name))
		if bit == 0 {
			return 0, fmt.Errorf("unknown relation kind %q", raw)
		}
		s |= bit
	}
	return s.Normalize(), nil
}
