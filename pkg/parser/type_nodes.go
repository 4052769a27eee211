package parser

import (
	"strings"

	"tslower/pkg/lexer"
)

// TypeReference names a type: a primitive such as `string`, `Date`, or a
// declared interface, class or alias.
type TypeReference struct {
	Token lexer.Token
	Name  string
}

func (tr *TypeReference) typeNode()            {}
func (tr *TypeReference) TokenLiteral() string { return tr.Token.Literal }
func (tr *TypeReference) String() string       { return tr.Name }

// ArrayType represents `<Element>[]`.
type ArrayType struct {
	Token   lexer.Token // The '[' token
	Element TypeNode
}

func (at *ArrayType) typeNode()            {}
func (at *ArrayType) TokenLiteral() string { return at.Token.Literal }
func (at *ArrayType) String() string       { return at.Element.String() + "[]" }

// UnionType represents `A | B | ...`.
type UnionType struct {
	Token lexer.Token // The first '|' token
	Types []TypeNode
}

func (ut *UnionType) typeNode()            {}
func (ut *UnionType) TokenLiteral() string { return ut.Token.Literal }
func (ut *UnionType) String() string {
	parts := make([]string, 0, len(ut.Types))
	for _, t := range ut.Types {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, " | ")
}

// ObjectType represents an inline shape `{ a: string; b?: number }`.
type ObjectType struct {
	Token      lexer.Token // The '{' token
	Properties []*InterfaceProperty
}

func (ot *ObjectType) typeNode()            {}
func (ot *ObjectType) TokenLiteral() string { return ot.Token.Literal }
func (ot *ObjectType) String() string {
	parts := make([]string, 0, len(ot.Properties))
	for _, p := range ot.Properties {
		parts = append(parts, p.String())
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

// LiteralType is a string, number or boolean literal used as a type.
type LiteralType struct {
	Token lexer.Token
	Value Expression
}

func (lt *LiteralType) typeNode()            {}
func (lt *LiteralType) TokenLiteral() string { return lt.Token.Literal }
func (lt *LiteralType) String() string       { return lt.Value.String() }

// TypeNames returns every name referenced by t, in order of appearance.
func TypeNames(t TypeNode) []*TypeReference {
	var refs []*TypeReference
	var walk func(TypeNode)
	walk = func(t TypeNode) {
		switch node := t.(type) {
		case *TypeReference:
			refs = append(refs, node)
		case *ArrayType:
			walk(node.Element)
		case *UnionType:
			for _, member := range node.Types {
				walk(member)
			}
		case *ObjectType:
			for _, prop := range node.Properties {
				if prop.Type != nil {
					walk(prop.Type)
				}
			}
		}
	}
	if t != nil {
		walk(t)
	}
	return refs
}
