// Package types is the small structural type model used by the static
// check: primitives, object shapes, arrays, literal types and unions.
package types

import (
	"strings"
)

// Type is the interface implemented by all type representations.
type Type interface {
	// String returns the type as it would be written in source.
	String() string
	// Equals checks if this type is structurally equivalent to another type.
	Equals(other Type) bool

	// typeNode() keeps the set of types closed to this package.
	typeNode()
}

// --- Function Signatures ---

// Parameter is one declared parameter of a Signature.
type Parameter struct {
	Name     string
	Type     Type // nil when unannotated
	Optional bool
}

// Signature represents a function or constructor signature.
type Signature struct {
	Name       string
	Parameters []Parameter
	ReturnType Type // nil when unannotated
}

// MinArgs is the number of arguments a call must supply.
func (sig *Signature) MinArgs() int {
	n := 0
	for i, p := range sig.Parameters {
		if !p.Optional {
			n = i + 1
		}
	}
	return n
}

// MaxArgs is the number of parameters the signature declares.
func (sig *Signature) MaxArgs() int {
	return len(sig.Parameters)
}

func (sig *Signature) String() string {
	var params strings.Builder
	params.WriteString("(")
	for i, p := range sig.Parameters {
		if i > 0 {
			params.WriteString(", ")
		}
		params.WriteString(p.Name)
		if p.Optional {
			params.WriteString("?")
		}
		params.WriteString(": ")
		if p.Type != nil {
			params.WriteString(p.Type.String())
		} else {
			params.WriteString("any")
		}
	}
	params.WriteString(") => ")
	if sig.ReturnType != nil {
		params.WriteString(sig.ReturnType.String())
	} else {
		params.WriteString("any")
	}
	return params.String()
}
