package vm

import (
	"fmt"

	"tslower/pkg/errors"
	"tslower/pkg/lexer"
	"tslower/pkg/parser"
)

// tokenOf returns the token a runtime error at node should point at.
func tokenOf(node parser.Node) (lexer.Token, bool) {
	switch n := node.(type) {
	case *parser.Identifier:
		return n.Token, true
	case *parser.CallExpression:
		return tokenOf(n.Function)
	case *parser.MemberExpression:
		return n.Property.Token, true
	case *parser.IndexExpression:
		return n.Token, true
	case *parser.NewExpression:
		return n.Token, true
	case *parser.AssignmentExpression:
		return tokenOf(n.Left)
	case *parser.InfixExpression:
		return tokenOf(n.Left)
	case *parser.PrefixExpression:
		return n.Token, true
	case *parser.GroupedExpression:
		return n.Token, true
	case *parser.ThisExpression:
		return n.Token, true
	case *parser.FunctionLiteral:
		return n.Token, true
	case *parser.ClassDeclaration:
		return n.Token, true
	case *parser.ExpressionStatement:
		return n.Token, true
	}
	return lexer.Token{}, false
}

func (in *Interpreter) positionOf(node parser.Node) errors.Position {
	tok, ok := tokenOf(node)
	if !ok {
		return errors.Position{}
	}
	return errors.Position{
		Line:     tok.Line,
		Column:   tok.Column,
		StartPos: tok.StartPos,
		EndPos:   tok.EndPos,
		Source:   in.source,
	}
}

func (in *Interpreter) raise(node parser.Node, kind, format string, args ...interface{}) error {
	return &errors.RuntimeError{
		Position: in.positionOf(node),
		Msg:      kind + ": " + fmt.Sprintf(format, args...),
	}
}

func (in *Interpreter) typeError(node parser.Node, format string, args ...interface{}) error {
	return in.raise(node, "TypeError", format, args...)
}

func (in *Interpreter) referenceError(node parser.Node, format string, args ...interface{}) error {
	return in.raise(node, "ReferenceError", format, args...)
}

func (in *Interpreter) rangeError(node parser.Node, format string, args ...interface{}) error {
	return in.raise(node, "RangeError", format, args...)
}

// locate gives a positionless runtime error raised inside a native
// function the position of the call that reached it.
func (in *Interpreter) locate(node parser.Node, err error) error {
	rt, ok := err.(*errors.RuntimeError)
	if !ok || !rt.IsZero() || node == nil {
		return err
	}
	rt.Position = in.positionOf(node)
	return rt
}
