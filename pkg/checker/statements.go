package checker

import (
	"tslower/pkg/parser"
	"tslower/pkg/types"
)

// checkBlock checks stmts in the current environment. Function and class
// declarations are bound first so they can be used before they appear.
func (c *Checker) checkBlock(stmts []parser.Statement) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *parser.ExpressionStatement:
			if fn, ok := s.FunctionDeclaration(); ok {
				c.env.Define(fn.Name.Value, SymbolInfo{
					Type:      types.Any,
					Signature: c.signatureOf(fn.Name.Value, fn),
				})
			}
		case *parser.ClassDeclaration:
			shape, _ := c.named[s.Name.Value].(*types.ObjectType)
			c.env.Define(s.Name.Value, SymbolInfo{
				Type:      types.Any,
				Signature: c.constructors[s.Name.Value],
				IsClass:   true,
				Instance:  shape,
			})
		}
	}

	for _, stmt := range stmts {
		c.checkStatement(stmt)
	}
}

func (c *Checker) checkStatement(stmt parser.Statement) {
	switch s := stmt.(type) {
	case *parser.LetStatement:
		c.checkDeclaration(s.Name, s.TypeAnnotation, s.Value, false)
	case *parser.ConstStatement:
		c.checkDeclaration(s.Name, s.TypeAnnotation, s.Value, true)
	case *parser.VarStatement:
		c.checkDeclaration(s.Name, s.TypeAnnotation, s.Value, false)
	case *parser.ReturnStatement:
		if s.ReturnValue != nil {
			c.checkExpression(s.ReturnValue)
		}
	case *parser.ExpressionStatement:
		if fn, ok := s.FunctionDeclaration(); ok {
			c.checkFunctionBody(fn)
			return
		}
		c.checkExpression(s.Expression)
	case *parser.BlockStatement:
		c.checkNestedBlock(s)
	case *parser.IfStatement:
		c.checkExpression(s.Condition)
		c.checkNestedBlock(s.Consequence)
		if s.Alternative != nil {
			c.checkStatement(s.Alternative)
		}
	case *parser.ClassDeclaration:
		c.checkClass(s)
	case *parser.InterfaceDeclaration, *parser.TypeAliasStatement:
		// Collected before checking.
	}
}

func (c *Checker) checkNestedBlock(block *parser.BlockStatement) {
	saved := c.env
	c.env = NewEnclosedEnvironment(saved)
	c.checkBlock(block.Statements)
	c.env = saved
}

// checkDeclaration checks an initialiser against the declared type and binds
// the name. Without an annotation the name takes the initialiser's type.
func (c *Checker) checkDeclaration(name *parser.Identifier, annotation parser.TypeNode, value parser.Expression, isConst bool) {
	declared := c.resolveTypeAnnotation(annotation)
	info := SymbolInfo{Type: declared, IsConst: isConst}

	if value != nil {
		valueType := c.checkExpression(value)
		if declared != nil {
			if mismatch := types.Explain(valueType, declared); mismatch != nil {
				c.addError(value, mismatch.AssignmentMessage())
			}
		} else {
			info.Type = types.Widen(valueType)
		}
		if fn, ok := value.(*parser.FunctionLiteral); ok {
			info.Signature = c.signatureOf(name.Value, fn)
		}
	}
	if info.Type == nil {
		info.Type = types.Any
	}

	if !c.env.Define(name.Value, info) {
		// var may be declared twice; the later declaration refines it.
		c.env.Update(name.Value, info)
	}
}

// checkFunctionBody checks fn's body in a new scope holding its parameters.
func (c *Checker) checkFunctionBody(fn *parser.FunctionLiteral) {
	saved := c.env
	c.env = NewEnclosedEnvironment(saved)
	defer func() { c.env = saved }()

	if fn.Name != nil {
		c.env.Define(fn.Name.Value, SymbolInfo{Type: types.Any, Signature: c.signatureOf(fn.Name.Value, fn)})
	}
	for _, param := range fn.Parameters {
		c.env.Update(param.Name.Value, SymbolInfo{Type: orAny(c.resolveTypeAnnotation(param.TypeAnnotation))})
	}

	body := NewEnclosedEnvironment(c.env)
	c.env = body
	c.checkBlock(fn.Body.Statements)
}
