package checker

import (
	"tslower/pkg/parser"
	"tslower/pkg/types"
)

// checkExpression checks expr and every call inside it, and returns its
// static type. Anything the checker cannot see through is any.
func (c *Checker) checkExpression(expr parser.Expression) types.Type {
	switch e := expr.(type) {
	case *parser.StringLiteral:
		return types.String
	case *parser.NumberLiteral:
		return types.Number
	case *parser.BooleanLiteral:
		return types.Boolean
	case *parser.NullLiteral:
		return types.Null
	case *parser.UndefinedLiteral:
		return types.Undefined
	case *parser.TemplateLiteral:
		for _, part := range e.Parts {
			if inner, ok := part.(parser.Expression); ok {
				c.checkExpression(inner)
			}
		}
		return types.String
	case *parser.Identifier:
		if info, ok := c.env.Resolve(e.Value); ok && info.Type != nil {
			return info.Type
		}
		return types.Any
	case *parser.ThisExpression:
		if c.currentThis != nil {
			return c.currentThis
		}
		return types.Any
	case *parser.MemberExpression:
		objectType := c.checkExpression(e.Object)
		if shape, ok := objectType.(*types.ObjectType); ok {
			if prop, ok := shape.Property(e.Property.Value); ok && prop.Type != nil {
				return prop.Type
			}
		}
		return types.Any
	case *parser.IndexExpression:
		c.checkExpression(e.Left)
		c.checkExpression(e.Index)
		return types.Any
	case *parser.CallExpression:
		return c.checkCall(e)
	case *parser.NewExpression:
		return c.checkNew(e)
	case *parser.AssignmentExpression:
		c.checkExpression(e.Left)
		return c.checkExpression(e.Value)
	case *parser.PrefixExpression:
		c.checkExpression(e.Right)
		if e.Operator == "!" {
			return types.Boolean
		}
		return types.Number
	case *parser.InfixExpression:
		return c.checkInfix(e)
	case *parser.GroupedExpression:
		return c.checkExpression(e.Expression)
	case *parser.ArrayLiteral:
		var elements []types.Type
		for _, el := range e.Elements {
			elements = append(elements, types.Widen(c.checkExpression(el)))
		}
		if len(elements) == 0 {
			return &types.ArrayType{ElementType: types.Any}
		}
		return &types.ArrayType{ElementType: types.NewUnionType(elements...)}
	case *parser.ObjectLiteral:
		shape := types.NewObjectType("")
		for _, prop := range e.Properties {
			shape.AddProperty(prop.Key, types.Widen(c.checkExpression(prop.Value)), false)
		}
		return shape
	case *parser.FunctionLiteral:
		savedThis := c.currentThis
		c.currentThis = nil
		c.checkFunctionBody(e)
		c.currentThis = savedThis
		return types.Any
	}
	return types.Any
}

func (c *Checker) checkInfix(e *parser.InfixExpression) types.Type {
	left := types.Widen(c.checkExpression(e.Left))
	right := types.Widen(c.checkExpression(e.Right))

	switch e.Operator {
	case "+":
		if left == types.String || right == types.String {
			return types.String
		}
		if left == types.Number && right == types.Number {
			return types.Number
		}
		return types.Any
	case "-", "*", "/":
		return types.Number
	case "==", "!=", "===", "!==", "<", ">", "<=", ">=":
		return types.Boolean
	}
	return types.Any
}
