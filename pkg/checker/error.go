package checker

import (
	"tslower/pkg/errors"
	"tslower/pkg/lexer"
	"tslower/pkg/parser"
)

// Helper to add type errors positioned at the start of node.
func (c *Checker) addError(node parser.Node, message string) {
	token := GetTokenFromNode(node)
	debugPrintf("// [Checker] %d:%d %s\n", token.Line, token.Column, message)
	err := &errors.TypeError{
		Position: errors.Position{
			Line:     token.Line,
			Column:   token.Column,
			StartPos: token.StartPos,
			EndPos:   token.EndPos,
		},
		Msg: message,
	}
	c.errors = append(c.errors, err)
}

// GetTokenFromNode returns the first source token of node, for error
// positions. It returns the zero token when none can be found.
func GetTokenFromNode(node parser.Node) lexer.Token {
	switch n := node.(type) {
	// Statements
	case *parser.LetStatement:
		return n.Token
	case *parser.ConstStatement:
		return n.Token
	case *parser.VarStatement:
		return n.Token
	case *parser.ReturnStatement:
		return n.Token
	case *parser.ExpressionStatement:
		return n.Token
	case *parser.BlockStatement:
		return n.Token
	case *parser.IfStatement:
		return n.Token
	case *parser.TypeAliasStatement:
		return n.Token
	case *parser.InterfaceDeclaration:
		return n.Token
	case *parser.ClassDeclaration:
		return n.Token

	// Expressions start at their leftmost operand.
	case *parser.Identifier:
		return n.Token
	case *parser.NumberLiteral:
		return n.Token
	case *parser.StringLiteral:
		return n.Token
	case *parser.TemplateLiteral:
		return n.Token
	case *parser.BooleanLiteral:
		return n.Token
	case *parser.NullLiteral:
		return n.Token
	case *parser.UndefinedLiteral:
		return n.Token
	case *parser.ThisExpression:
		return n.Token
	case *parser.ObjectLiteral:
		return n.Token // The '{' token
	case *parser.ArrayLiteral:
		return n.Token // The '[' token
	case *parser.FunctionLiteral:
		return n.Token // The 'function' token
	case *parser.NewExpression:
		return n.Token // The 'new' token
	case *parser.GroupedExpression:
		return n.Token // The '(' token
	case *parser.PrefixExpression:
		return n.Token // The operator token
	case *parser.CallExpression:
		return GetTokenFromNode(n.Function)
	case *parser.MemberExpression:
		return GetTokenFromNode(n.Object)
	case *parser.IndexExpression:
		return GetTokenFromNode(n.Left)
	case *parser.InfixExpression:
		return GetTokenFromNode(n.Left)
	case *parser.AssignmentExpression:
		return GetTokenFromNode(n.Left)

	// Types
	case *parser.TypeReference:
		return n.Token
	default:
		return lexer.Token{}
	}
}
