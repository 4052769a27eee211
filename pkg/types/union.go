package types

import (
	"strings"
)

// --- Union Types ---

// UnionType represents a union of multiple types (e.g., string | number).
type UnionType struct {
	Types []Type
}

// NewUnionType flattens nested unions and drops duplicate members. A union
// of one type is that type.
func NewUnionType(ts ...Type) Type {
	var flat []Type
	var add func(t Type)
	add = func(t Type) {
		if u, ok := t.(*UnionType); ok {
			for _, inner := range u.Types {
				add(inner)
			}
			return
		}
		for _, existing := range flat {
			if existing.Equals(t) {
				return
			}
		}
		flat = append(flat, t)
	}
	for _, t := range ts {
		add(t)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &UnionType{Types: flat}
}

func (ut *UnionType) String() string {
	parts := make([]string, len(ut.Types))
	for i, t := range ut.Types {
		parts[i] = t.String()
	}
	return strings.Join(parts, " | ")
}
func (ut *UnionType) typeNode() {}
func (ut *UnionType) Equals(other Type) bool {
	o, ok := other.(*UnionType)
	if !ok || len(ut.Types) != len(o.Types) {
		return false
	}
	for _, t := range ut.Types {
		found := false
		for _, u := range o.Types {
			if t.Equals(u) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
