// Package lower rewrites a class-and-interface source unit into the
// constructor-function dialect: interfaces and type aliases are erased,
// classes become constructor routines with a shared prototype, and type
// annotations, let/const and template literals are lowered to their plain
// script forms. The input program is never modified.
package lower

import (
	"fmt"

	"tslower/pkg/errors"
	"tslower/pkg/lexer"
	"tslower/pkg/parser"
)

// --- Debug Flag ---
const debugLower = false

func debugPrintf(format string, args ...interface{}) {
	if debugLower {
		fmt.Printf("[Lower Debug] "+format+"\n", args...)
	}
}

// Lower validates program and returns its lowered equivalent. On malformed
// input it returns a single *errors.MalformedInputError and no program.
func Lower(program *parser.Program) (*parser.Program, error) {
	if program == nil {
		return nil, &errors.MalformedInputError{Msg: "no source unit"}
	}
	if err := Validate(program); err != nil {
		return nil, err
	}

	l := &lowerer{}
	out := &parser.Program{Source: program.Source, Header: program.Header}
	out.Statements, out.EndComments = l.lowerFunctionBody(nil, "", nil, program.Statements, program.EndComments)
	debugPrintf("lowered %d statements into %d", len(program.Statements), len(out.Statements))
	return out, nil
}

type lowerer struct {
	scope *renameScope
}

// lowerFunctionBody lowers the statements of a program or function body in a
// fresh function scope holding params and, for a named function expression,
// its own name. end holds the comments closing the body.
func (l *lowerer) lowerFunctionBody(outer *renameScope, self string, params []*parser.Parameter, stmts []parser.Statement, end []lexer.Comment) ([]parser.Statement, []lexer.Comment) {
	saved := l.scope
	l.scope = newFunctionScope(outer, stmts)
	if self != "" {
		l.scope.bind(self, self)
	}
	for _, p := range params {
		l.scope.bind(p.Name.Value, p.Name.Value)
	}
	l.scope.bindTopLevel(stmts)

	lowered, end := l.lowerStatements(stmts, end)
	l.scope = saved
	return lowered, end
}

// lowerStatements lowers stmts and moves their comments along. Comments
// written before an erased declaration go with it; a comment trailing the
// code before an erased declaration stays with that code.
func (l *lowerer) lowerStatements(stmts []parser.Statement, end []lexer.Comment) ([]parser.Statement, []lexer.Comment) {
	out := make([]parser.Statement, 0, len(stmts))
	var carried []lexer.Comment
	prevErased := false
	for _, stmt := range stmts {
		trailing, leading := parser.SplitTrailing(parser.LeadingComments(stmt))
		if prevErased {
			trailing = nil // trailed the erased declaration
		}
		lowered := l.lowerStatement(stmt)
		if lowered == nil {
			carried = append(carried, trailing...)
			prevErased = true
			continue
		}
		parser.SetLeadingComments(lowered, joinComments(carried, trailing, leading))
		carried = nil
		prevErased = false
		out = append(out, lowered)
	}

	trailing, rest := parser.SplitTrailing(end)
	if prevErased {
		trailing = nil
	}
	return out, joinComments(carried, trailing, rest)
}

func joinComments(groups ...[]lexer.Comment) []lexer.Comment {
	var out []lexer.Comment
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func (l *lowerer) lowerStatement(stmt parser.Statement) parser.Statement {
	switch s := stmt.(type) {
	case *parser.InterfaceDeclaration, *parser.TypeAliasStatement:
		return nil
	case *parser.ClassDeclaration:
		return l.lowerClass(s)
	case *parser.LetStatement:
		return l.lowerDeclaration(s.Token, s.Name, s.Value)
	case *parser.ConstStatement:
		return l.lowerDeclaration(s.Token, s.Name, s.Value)
	case *parser.VarStatement:
		return l.lowerDeclaration(s.Token, s.Name, s.Value)
	case *parser.ReturnStatement:
		ret := &parser.ReturnStatement{Token: s.Token}
		if s.ReturnValue != nil {
			ret.ReturnValue = l.lowerExpression(s.ReturnValue)
		}
		return ret
	case *parser.ExpressionStatement:
		if fn, ok := s.FunctionDeclaration(); ok {
			return &parser.ExpressionStatement{Token: s.Token, Expression: l.lowerFunction(fn, true)}
		}
		return &parser.ExpressionStatement{Token: s.Token, Expression: l.lowerExpression(s.Expression)}
	case *parser.BlockStatement:
		return l.lowerBlock(s)
	case *parser.IfStatement:
		out := &parser.IfStatement{
			Token:       s.Token,
			Condition:   l.lowerExpression(s.Condition),
			Consequence: l.lowerBlock(s.Consequence),
		}
		if s.Alternative != nil {
			out.Alternative = l.lowerStatement(s.Alternative)
		}
		return out
	}
	panic(fmt.Sprintf("lower: unexpected statement %T", stmt))
}

func (l *lowerer) lowerBlock(block *parser.BlockStatement) *parser.BlockStatement {
	saved := l.scope
	l.scope = newBlockScope(saved)
	l.scope.bindBlock(block.Statements)

	out := &parser.BlockStatement{Token: block.Token}
	out.Statements, out.EndComments = l.lowerStatements(block.Statements, block.EndComments)
	l.scope = saved
	return out
}

// lowerDeclaration turns let, const and var into var, dropping the type.
func (l *lowerer) lowerDeclaration(tok lexer.Token, name *parser.Identifier, value parser.Expression) *parser.VarStatement {
	out := &parser.VarStatement{
		Token: varToken(tok),
		Name:  l.renamed(name),
	}
	if value != nil {
		out.Value = l.lowerExpression(value)
	}
	return out
}

func varToken(tok lexer.Token) lexer.Token {
	tok.Type = lexer.VAR
	tok.Literal = "var"
	return tok
}

// renamed returns id under the name its binding is emitted with.
func (l *lowerer) renamed(id *parser.Identifier) *parser.Identifier {
	name := l.scope.lookup(id.Value)
	return &parser.Identifier{Token: id.Token, Value: name}
}

func (l *lowerer) lowerExpressions(exprs []parser.Expression) []parser.Expression {
	out := make([]parser.Expression, len(exprs))
	for i, expr := range exprs {
		out[i] = l.lowerExpression(expr)
	}
	return out
}

func (l *lowerer) lowerExpression(expr parser.Expression) parser.Expression {
	switch e := expr.(type) {
	case *parser.Identifier:
		return l.renamed(e)
	case *parser.StringLiteral, *parser.NumberLiteral, *parser.BooleanLiteral,
		*parser.NullLiteral, *parser.UndefinedLiteral, *parser.ThisExpression:
		// Immutable leaves are shared with the input.
		return e
	case *parser.TemplateLiteral:
		parts := make([]parser.Node, len(e.Parts))
		for i, part := range e.Parts {
			if inner, ok := part.(parser.Expression); ok {
				parts[i] = l.lowerExpression(inner)
			} else {
				parts[i] = part
			}
		}
		return parser.TemplateToConcat(&parser.TemplateLiteral{Token: e.Token, Parts: parts})
	case *parser.FunctionLiteral:
		return l.lowerFunction(e, false)
	case *parser.CallExpression:
		return &parser.CallExpression{Token: e.Token, Function: l.lowerExpression(e.Function), Arguments: l.lowerExpressions(e.Arguments)}
	case *parser.NewExpression:
		// The callee resolves to the emitted constructor routine.
		return &parser.NewExpression{Token: e.Token, Constructor: l.lowerExpression(e.Constructor), Arguments: l.lowerExpressions(e.Arguments)}
	case *parser.MemberExpression:
		return &parser.MemberExpression{Token: e.Token, Object: l.lowerExpression(e.Object), Property: e.Property}
	case *parser.IndexExpression:
		return &parser.IndexExpression{Token: e.Token, Left: l.lowerExpression(e.Left), Index: l.lowerExpression(e.Index)}
	case *parser.AssignmentExpression:
		return &parser.AssignmentExpression{Token: e.Token, Operator: e.Operator, Left: l.lowerExpression(e.Left), Value: l.lowerExpression(e.Value)}
	case *parser.PrefixExpression:
		return &parser.PrefixExpression{Token: e.Token, Operator: e.Operator, Right: l.lowerExpression(e.Right)}
	case *parser.InfixExpression:
		return &parser.InfixExpression{Token: e.Token, Left: l.lowerExpression(e.Left), Operator: e.Operator, Right: l.lowerExpression(e.Right)}
	case *parser.GroupedExpression:
		return &parser.GroupedExpression{Token: e.Token, Expression: l.lowerExpression(e.Expression), ClassWrapper: e.ClassWrapper}
	case *parser.ArrayLiteral:
		return &parser.ArrayLiteral{Token: e.Token, Elements: l.lowerExpressions(e.Elements)}
	case *parser.ObjectLiteral:
		out := &parser.ObjectLiteral{Token: e.Token, Properties: make([]*parser.ObjectProperty, len(e.Properties))}
		for i, prop := range e.Properties {
			out.Properties[i] = &parser.ObjectProperty{Token: prop.Token, Key: prop.Key, Quoted: prop.Quoted, Value: l.lowerExpression(prop.Value)}
		}
		return out
	}
	panic(fmt.Sprintf("lower: unexpected expression %T", expr))
}

// lowerFunction strips parameter and return types and lowers the body in
// its own scope. A declaration's name follows its binding in the enclosing
// scope; a function expression's name is local to itself.
func (l *lowerer) lowerFunction(fn *parser.FunctionLiteral, declaration bool) *parser.FunctionLiteral {
	out := &parser.FunctionLiteral{Token: fn.Token, Parameters: stripParameters(fn.Parameters)}
	self := ""
	if fn.Name != nil {
		if declaration {
			out.Name = l.renamed(fn.Name)
		} else {
			out.Name = fn.Name
			self = fn.Name.Value
		}
	}
	out.Body = &parser.BlockStatement{Token: fn.Body.Token}
	out.Body.Statements, out.Body.EndComments = l.lowerFunctionBody(l.scope, self, fn.Parameters, fn.Body.Statements, fn.Body.EndComments)
	return out
}

func stripParameters(params []*parser.Parameter) []*parser.Parameter {
	out := make([]*parser.Parameter, len(params))
	for i, p := range params {
		out[i] = &parser.Parameter{Token: p.Name.Token, Name: p.Name}
	}
	return out
}

// positionOf returns the source position of the first token of node.
func positionOf(node parser.Node) errors.Position {
	var tok lexer.Token
	switch n := node.(type) {
	case *parser.Identifier:
		tok = n.Token
	case *parser.TypeReference:
		tok = n.Token
	case *parser.MemberExpression:
		tok = n.Property.Token
	case *parser.NewExpression:
		tok = n.Token
	case *parser.CallExpression:
		tok = n.Token
	case *parser.StringLiteral:
		tok = n.Token
	case *parser.NumberLiteral:
		tok = n.Token
	case *parser.BooleanLiteral:
		tok = n.Token
	case *parser.NullLiteral:
		tok = n.Token
	case *parser.UndefinedLiteral:
		tok = n.Token
	case *parser.ThisExpression:
		tok = n.Token
	case *parser.TemplateLiteral:
		tok = n.Token
	case *parser.ArrayLiteral:
		tok = n.Token
	case *parser.ObjectLiteral:
		tok = n.Token
	case *parser.PrefixExpression:
		tok = n.Token
	case *parser.InfixExpression:
		return positionOf(n.Left)
	default:
		return errors.Position{}
	}
	return errors.Position{Line: tok.Line, Column: tok.Column, StartPos: tok.StartPos, EndPos: tok.EndPos}
}
