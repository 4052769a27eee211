package lower

import (
	"tslower/pkg/lexer"
	"tslower/pkg/parser"
)

// lowerClass turns a class declaration into a constructor routine wrapped in
// an immediately invoked function:
//
//	var C = /** @class */ (function () {
//	    function C(p) {
//	        this.p = p;       // parameter properties, in parameter order
//	        this.f = init;    // field initialisers, in declaration order
//	        ...               // constructor body
//	    }
//	    C.prototype.m = function () { ... };
//	    return C;
//	}());
func (l *lowerer) lowerClass(cd *parser.ClassDeclaration) parser.Statement {
	at := cd.Token
	name := l.renamed(cd.Name)
	debugPrintf("lower class '%s' as '%s'", cd.Name.Value, name.Value)

	body := []parser.Statement{l.lowerConstructor(cd, name)}
	for _, method := range cd.Body.Methods() {
		body = append(body, l.lowerMethod(name, method))
	}
	body = append(body, &parser.ReturnStatement{Token: synth(lexer.RETURN, "return", at), ReturnValue: name})

	iife := &parser.CallExpression{
		Token: synth(lexer.LPAREN, "(", at),
		Function: &parser.FunctionLiteral{
			Token: synth(lexer.FUNCTION, "function", at),
			Body:  &parser.BlockStatement{Token: synth(lexer.LBRACE, "{", at), Statements: body},
		},
	}
	return &parser.VarStatement{
		Token: synth(lexer.VAR, "var", at),
		Name:  name,
		Value: &parser.GroupedExpression{Token: synth(lexer.LPAREN, "(", at), Expression: iife, ClassWrapper: true},
	}
}

// lowerConstructor builds the constructor routine. A class without a
// constructor gets an empty one.
func (l *lowerer) lowerConstructor(cd *parser.ClassDeclaration, name *parser.Identifier) parser.Statement {
	at := cd.Token
	var params []*parser.Parameter
	var stmts []parser.Statement
	var end, comments []lexer.Comment
	if ctor := cd.Body.Constructor(); ctor != nil {
		at = ctor.Token
		params = ctor.Value.Parameters
		stmts = ctor.Value.Body.Statements
		end = ctor.Value.Body.EndComments
		comments = parser.OwnLine(ctor.Token.Comments)
	}

	saved := l.scope
	l.scope = newFunctionScope(saved, stmts)
	for _, p := range params {
		l.scope.bind(p.Name.Value, p.Name.Value)
	}
	l.scope.bindTopLevel(stmts)

	var lowered []parser.Statement
	for _, p := range params {
		if p.Promoted {
			tok := p.Name.Token
			tok.Comments = nil
			lowered = append(lowered, thisAssign(tok, p.Name.Value, &parser.Identifier{Token: tok, Value: p.Name.Value}))
		}
	}
	for _, field := range cd.Body.Fields() {
		if field.Value == nil {
			continue
		}
		assign := thisAssign(field.Token, field.Key.Value, l.lowerExpression(field.Value))
		parser.SetLeadingComments(assign, parser.OwnLine(field.Token.Comments))
		lowered = append(lowered, assign)
	}
	body, end := l.lowerStatements(stmts, end)
	lowered = append(lowered, body...)
	l.scope = saved

	fn := &parser.FunctionLiteral{
		Token:      synth(lexer.FUNCTION, "function", at),
		Name:       name,
		Parameters: stripParameters(params),
		Body:       &parser.BlockStatement{Token: synth(lexer.LBRACE, "{", at), Statements: lowered, EndComments: end},
	}
	stmt := &parser.ExpressionStatement{Token: fn.Token, Expression: fn}
	stmt.Token.Comments = comments
	return stmt
}

// lowerMethod attaches a method to the shared prototype.
func (l *lowerer) lowerMethod(class *parser.Identifier, md *parser.MethodDefinition) parser.Statement {
	fn := &parser.FunctionLiteral{
		Token:      md.Value.Token,
		Parameters: stripParameters(md.Value.Parameters),
		Body:       &parser.BlockStatement{Token: md.Value.Body.Token},
	}
	fn.Body.Statements, fn.Body.EndComments = l.lowerFunctionBody(l.scope, "", md.Value.Parameters, md.Value.Body.Statements, md.Value.Body.EndComments)
	prototype := &parser.MemberExpression{
		Token:    synth(lexer.DOT, ".", md.Token),
		Object:   class,
		Property: &parser.Identifier{Token: synth(lexer.IDENT, "prototype", md.Token), Value: "prototype"},
	}
	target := &parser.MemberExpression{Token: synth(lexer.DOT, ".", md.Token), Object: prototype, Property: md.Key}
	stmt := &parser.ExpressionStatement{
		Token: md.Token,
		Expression: &parser.AssignmentExpression{
			Token:    synth(lexer.ASSIGN, "=", md.Token),
			Operator: "=",
			Left:     target,
			Value:    fn,
		},
	}
	stmt.Token.Comments = parser.OwnLine(md.Token.Comments)
	return stmt
}

// thisAssign builds `this.<key> = value;`.
func thisAssign(at lexer.Token, key string, value parser.Expression) parser.Statement {
	target := &parser.MemberExpression{
		Token:    synth(lexer.DOT, ".", at),
		Object:   &parser.ThisExpression{Token: synth(lexer.THIS, "this", at)},
		Property: &parser.Identifier{Token: at, Value: key},
	}
	return &parser.ExpressionStatement{
		Token: at,
		Expression: &parser.AssignmentExpression{
			Token:    synth(lexer.ASSIGN, "=", at),
			Operator: "=",
			Left:     target,
			Value:    value,
		},
	}
}

// synth makes a token for generated code, positioned at the source construct
// it was generated from.
func synth(t lexer.TokenType, literal string, at lexer.Token) lexer.Token {
	return lexer.Token{Type: t, Literal: literal, Line: at.Line, Column: at.Column, StartPos: at.StartPos, EndPos: at.EndPos}
}
