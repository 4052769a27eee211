package parser

import (
	"fmt"

	"tslower/pkg/lexer"
)

// parseClassDeclaration parses a class declaration statement
// Syntax: class ClassName [implements I1, I2] { classBody }
func (p *Parser) parseClassDeclaration() Statement {
	classToken := p.curToken

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := &Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if p.peekTokenIs(lexer.EXTENDS) {
		p.addError(p.peekToken, "class inheritance is not supported")
		return nil
	}

	var implements []*Identifier
	if p.peekTokenIs(lexer.IMPLEMENTS) {
		p.nextToken() // consume 'implements'
		for {
			if !p.expectPeek(lexer.IDENT) {
				return nil
			}
			implements = append(implements, &Identifier{Token: p.curToken, Value: p.curToken.Literal})
			if !p.peekTokenIs(lexer.COMMA) {
				break
			}
			p.nextToken() // consume ','
		}
	}

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}

	body := p.parseClassBody()
	if body == nil {
		return nil
	}

	// parseClassBody leaves us at the '}' token.
	return &ClassDeclaration{
		Token:      classToken,
		Name:       name,
		Implements: implements,
		Body:       body,
	}
}

func (p *Parser) parseClassBody() *ClassBody {
	body := &ClassBody{Token: p.curToken} // The '{' token

	p.nextToken() // move past '{'

	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		if p.curTokenIs(lexer.SEMICOLON) {
			p.nextToken()
			continue
		}

		member := p.parseClassMember()
		if member == nil {
			return nil
		}
		body.Members = append(body.Members, member)
		p.nextToken()
	}

	if !p.curTokenIs(lexer.RBRACE) {
		p.addError(p.curToken, "expected '}' to close class body")
		return nil
	}
	return body
}

// parseClassMember parses one field, method or constructor and leaves
// curToken on its last token.
func (p *Parser) parseClassMember() ClassMember {
	startToken := p.curToken
	modifier := ""

	// A modifier keyword directly followed by '(' ':' '=' '?' or ';' is
	// itself the member name.
	for isModifier(p.curToken.Type) && p.peekStartsMemberName() {
		if p.curTokenIs(lexer.STATIC) {
			p.addError(p.curToken, "static class members are not supported")
			return nil
		}
		if modifier == "" || modifier == "readonly" {
			modifier = p.curToken.Literal
		}
		p.nextToken()
	}

	nameToken := p.curToken
	key, quoted, ok := p.propertyName()
	if !ok {
		return nil
	}
	ident := &Identifier{Token: nameToken, Value: key}

	if p.peekTokenIs(lexer.LPAREN) {
		isCtor := key == "constructor" && !quoted
		if isCtor && modifier != "" && modifier != "public" {
			p.addError(startToken, fmt.Sprintf("'%s' modifier cannot appear on a constructor", modifier))
			return nil
		}
		p.nextToken() // '('
		fn := &FunctionLiteral{Token: nameToken}
		if !p.parseSignatureAndBody(fn, isCtor) {
			return nil
		}
		if isCtor && fn.ReturnType != nil {
			p.addError(nameToken, "type annotation cannot appear on a constructor declaration")
			return nil
		}
		return &MethodDefinition{
			Token:         startToken,
			Key:           ident,
			Modifier:      modifier,
			IsConstructor: isCtor,
			Value:         fn,
		}
	}

	prop := &PropertyDefinition{Token: startToken, Key: ident, Quoted: quoted, Modifier: modifier}
	if p.peekTokenIs(lexer.QUESTION) {
		p.nextToken()
		prop.Optional = true
	}
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken() // ':'
		p.nextToken()
		if prop.TypeAnnotation = p.parseType(); prop.TypeAnnotation == nil {
			return nil
		}
	}
	if p.peekTokenIs(lexer.ASSIGN) {
		p.nextToken() // '='
		p.nextToken()
		if prop.Value = p.parseExpression(LOWEST); prop.Value == nil {
			return nil
		}
	}
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	} else if !p.peekTokenIs(lexer.RBRACE) && p.peekToken.Line == p.curToken.Line {
		p.addError(p.peekToken, fmt.Sprintf("expected ';' after field '%s', got %s", key, p.peekToken.Type))
		return nil
	}
	return prop
}

func (p *Parser) peekStartsMemberName() bool {
	switch p.peekToken.Type {
	case lexer.LPAREN, lexer.COLON, lexer.ASSIGN, lexer.QUESTION, lexer.SEMICOLON, lexer.RBRACE:
		return false
	}
	return true
}

// parseInterfaceDeclaration parses interface <Name> { <members> }.
func (p *Parser) parseInterfaceDeclaration() Statement {
	decl := &InterfaceDeclaration{Token: p.curToken}

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	decl.Name = &Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if p.peekTokenIs(lexer.EXTENDS) {
		p.addError(p.peekToken, "interface inheritance is not supported")
		return nil
	}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}

	props, ok := p.parseTypeMembers()
	if !ok {
		return nil
	}
	decl.Properties = props
	return decl
}

// parseTypeMembers expects curToken on '{' and leaves it on '}'. Members are
// separated by ';', ',' or line breaks.
func (p *Parser) parseTypeMembers() ([]*InterfaceProperty, bool) {
	props := []*InterfaceProperty{}

	p.nextToken() // move past '{'
	for !p.curTokenIs(lexer.RBRACE) {
		if p.curTokenIs(lexer.SEMICOLON) || p.curTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		if p.curTokenIs(lexer.EOF) {
			p.addError(p.curToken, "expected '}' to close type members")
			return nil, false
		}

		prop := &InterfaceProperty{Token: p.curToken}
		for p.curTokenIs(lexer.READONLY) && p.peekStartsMemberName() {
			p.nextToken()
		}
		name, _, ok := p.propertyName()
		if !ok {
			return nil, false
		}
		prop.Name = name

		if p.peekTokenIs(lexer.QUESTION) {
			p.nextToken()
			prop.Optional = true
		}
		if p.peekTokenIs(lexer.LPAREN) {
			p.addError(p.peekToken, fmt.Sprintf("method signature '%s' is not supported in a shape", name))
			return nil, false
		}
		if !p.expectPeek(lexer.COLON) {
			return nil, false
		}
		p.nextToken()
		if prop.Type = p.parseType(); prop.Type == nil {
			return nil, false
		}
		props = append(props, prop)
		p.nextToken()
	}
	return props, true
}

// parseTypeAliasStatement parses type <Name> = <Type>.
func (p *Parser) parseTypeAliasStatement() Statement {
	stmt := &TypeAliasStatement{Token: p.curToken}

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.Name = &Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(lexer.ASSIGN) {
		return nil
	}
	p.nextToken()
	if stmt.Type = p.parseType(); stmt.Type == nil {
		return nil
	}
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

// --- Type Parsing ---

// parseType parses a union of array-suffixed primary types starting at
// curToken and leaves curToken on its last token.
func (p *Parser) parseType() TypeNode {
	if p.curTokenIs(lexer.PIPE) {
		p.nextToken() // leading '|'
	}
	first := p.parseArraySuffixedType()
	if first == nil {
		return nil
	}
	if !p.peekTokenIs(lexer.PIPE) {
		return first
	}

	union := &UnionType{Token: p.peekToken, Types: []TypeNode{first}}
	for p.peekTokenIs(lexer.PIPE) {
		p.nextToken() // '|'
		p.nextToken()
		member := p.parseArraySuffixedType()
		if member == nil {
			return nil
		}
		union.Types = append(union.Types, member)
	}
	return union
}

func (p *Parser) parseArraySuffixedType() TypeNode {
	t := p.parsePrimaryType()
	if t == nil {
		return nil
	}
	for p.peekTokenIs(lexer.LBRACKET) {
		p.nextToken()
		tok := p.curToken
		if !p.expectPeek(lexer.RBRACKET) {
			return nil
		}
		t = &ArrayType{Token: tok, Element: t}
	}
	return t
}

func (p *Parser) parsePrimaryType() TypeNode {
	switch p.curToken.Type {
	case lexer.IDENT, lexer.NULL, lexer.UNDEFINED:
		ref := &TypeReference{Token: p.curToken, Name: p.curToken.Literal}
		if p.peekTokenIs(lexer.LT) {
			p.addError(p.peekToken, "generic types are not supported")
			return nil
		}
		return ref
	case lexer.STRING, lexer.NUMBER, lexer.TRUE, lexer.FALSE:
		prefix := p.prefixParseFns[p.curToken.Type]
		value := prefix()
		if value == nil {
			return nil
		}
		return &LiteralType{Token: p.curToken, Value: value}
	case lexer.LBRACE:
		obj := &ObjectType{Token: p.curToken}
		props, ok := p.parseTypeMembers()
		if !ok {
			return nil
		}
		obj.Properties = props
		return obj
	case lexer.LPAREN:
		p.nextToken()
		inner := p.parseType()
		if inner == nil || !p.expectPeek(lexer.RPAREN) {
			return nil
		}
		return inner
	}
	p.addError(p.curToken, fmt.Sprintf("expected type, got %s", p.curToken.Type))
	return nil
}
