package types

import (
	"strings"
)

// Property is one named member of an ObjectType.
type Property struct {
	Name     string
	Type     Type
	Optional bool
}

// ObjectType is a structural shape: an interface, a class instance, an
// inline object type or the type of an object literal. Name is empty for
// anonymous shapes.
type ObjectType struct {
	Name       string
	Properties []Property
	Methods    map[string]*Signature
}

// NewObjectType creates an empty shape called name.
func NewObjectType(name string) *ObjectType {
	return &ObjectType{Name: name, Methods: make(map[string]*Signature)}
}

// AddProperty appends a property, replacing an earlier one of the same name.
func (ot *ObjectType) AddProperty(name string, t Type, optional bool) {
	for i := range ot.Properties {
		if ot.Properties[i].Name == name {
			ot.Properties[i] = Property{Name: name, Type: t, Optional: optional}
			return
		}
	}
	ot.Properties = append(ot.Properties, Property{Name: name, Type: t, Optional: optional})
}

// Property looks up a property by name.
func (ot *ObjectType) Property(name string) (Property, bool) {
	for _, p := range ot.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// HasMember reports whether name is a property or a method.
func (ot *ObjectType) HasMember(name string) bool {
	if _, ok := ot.Property(name); ok {
		return true
	}
	_, ok := ot.Methods[name]
	return ok
}

func (ot *ObjectType) typeNode() {}

// String returns the declared name, or the literal form for anonymous
// shapes, e.g. { firstName: string; }.
func (ot *ObjectType) String() string {
	if ot.Name != "" {
		return ot.Name
	}
	if len(ot.Properties) == 0 {
		return "{}"
	}
	var b strings.Builder
	b.WriteString("{ ")
	for _, p := range ot.Properties {
		b.WriteString(p.Name)
		if p.Optional {
			b.WriteString("?")
		}
		b.WriteString(": ")
		if p.Type != nil {
			b.WriteString(p.Type.String())
		} else {
			b.WriteString("any")
		}
		b.WriteString("; ")
	}
	b.WriteString("}")
	return b.String()
}

func (ot *ObjectType) Equals(other Type) bool {
	o, ok := other.(*ObjectType)
	if !ok {
		return false
	}
	if ot == o {
		return true
	}
	if ot.Name != "" || o.Name != "" {
		return ot.Name == o.Name
	}
	if len(ot.Properties) != len(o.Properties) {
		return false
	}
	for _, p := range ot.Properties {
		q, ok := o.Property(p.Name)
		if !ok || q.Optional != p.Optional || !typesEqual(p.Type, q.Type) {
			return false
		}
	}
	return true
}

func typesEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equals(b)
}
