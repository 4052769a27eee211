package parser

import (
	"tslower/pkg/lexer"
)

// TemplateToConcat rewrites a template literal as a chain of
// String.prototype.concat calls: `a ${x} b ${y}` becomes
// "a ".concat(x, " b ").concat(y). A template without substitutions becomes
// a plain string literal.
func TemplateToConcat(tl *TemplateLiteral) Expression {
	tok := tl.Token
	strTok := lexer.Token{Type: lexer.STRING, Line: tok.Line, Column: tok.Column, StartPos: tok.StartPos, EndPos: tok.EndPos}

	var head string
	rest := tl.Parts
	if len(rest) > 0 {
		if sp, ok := rest[0].(*TemplateStringPart); ok {
			head = sp.Value
			rest = rest[1:]
		}
	}

	var result Expression = &StringLiteral{Token: strTok, Value: head}
	for i := 0; i < len(rest); i++ {
		expr, ok := rest[i].(Expression)
		if !ok {
			continue
		}
		args := []Expression{expr}
		if i+1 < len(rest) {
			if sp, ok := rest[i+1].(*TemplateStringPart); ok {
				i++
				if sp.Value != "" {
					strTok.Literal = sp.Value
					args = append(args, &StringLiteral{Token: strTok, Value: sp.Value})
				}
			}
		}
		result = &CallExpression{
			Token: lexer.Token{Type: lexer.LPAREN, Literal: "(", Line: tok.Line, Column: tok.Column},
			Function: &MemberExpression{
				Token:    lexer.Token{Type: lexer.DOT, Literal: ".", Line: tok.Line, Column: tok.Column},
				Object:   result,
				Property: &Identifier{Token: lexer.Token{Type: lexer.IDENT, Literal: "concat", Line: tok.Line, Column: tok.Column}, Value: "concat"},
			},
			Arguments: args,
		}
	}
	return result
}
