package types

import (
	"strconv"
)

// --- Primitive Types ---

// Primitive represents a fundamental, non-composite type.
type Primitive struct {
	Name string
}

func (p *Primitive) String() string {
	return p.Name
}
func (p *Primitive) typeNode() {}
func (p *Primitive) Equals(other Type) bool {
	// Primitives are singletons, so pointer equality is sufficient.
	return p == other
}

// Pre-defined instances for common primitive types
var (
	Number    = &Primitive{Name: "number"}
	String    = &Primitive{Name: "string"}
	Boolean   = &Primitive{Name: "boolean"}
	Null      = &Primitive{Name: "null"}
	Undefined = &Primitive{Name: "undefined"}
	Any       = &Primitive{Name: "any"}
	Unknown   = &Primitive{Name: "unknown"}
	Never     = &Primitive{Name: "never"}
	Void      = &Primitive{Name: "void"}
	Object    = &Primitive{Name: "object"}
	// Date is opaque to the checker; only its name is compared.
	Date = &Primitive{Name: "Date"}
)

var primitivesByName = map[string]*Primitive{
	"number":    Number,
	"string":    String,
	"boolean":   Boolean,
	"null":      Null,
	"undefined": Undefined,
	"any":       Any,
	"unknown":   Unknown,
	"never":     Never,
	"void":      Void,
	"object":    Object,
	"Date":      Date,
}

// LookupPrimitive returns the predefined type called name.
func LookupPrimitive(name string) (*Primitive, bool) {
	p, ok := primitivesByName[name]
	return p, ok
}

// --- Literal Types ---

// LiteralType is a string, number or boolean literal used as a type.
type LiteralType struct {
	Base  *Primitive // String, Number or Boolean
	Value string     // cooked value; quoted by String() for strings
}

func (lt *LiteralType) typeNode() {}
func (lt *LiteralType) String() string {
	if lt.Base == String {
		return strconv.Quote(lt.Value)
	}
	return lt.Value
}
func (lt *LiteralType) Equals(other Type) bool {
	o, ok := other.(*LiteralType)
	return ok && o.Base == lt.Base && o.Value == lt.Value
}

// Widen returns the primitive a literal type belongs to, or t itself.
func Widen(t Type) Type {
	if lt, ok := t.(*LiteralType); ok {
		return lt.Base
	}
	return t
}
