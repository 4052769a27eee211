package parser

import (
	"fmt"
	"strconv"

	"tslower/pkg/errors"
	"tslower/pkg/lexer"
	"tslower/pkg/source"
)

// --- Debug Flag ---
const debugParser = false

func debugPrint(format string, args ...interface{}) {
	if debugParser {
		fmt.Printf("[Parser Debug] "+format+"\n", args...)
	}
}

// --- End Debug Flag ---

// Parser takes a lexer and builds an AST.
type Parser struct {
	l      *lexer.Lexer
	source *source.SourceFile // cached from lexer
	errors []errors.Diagnostic

	curToken  lexer.Token
	peekToken lexer.Token

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

// Parsing functions types for Pratt parser
type (
	prefixParseFn func() Expression
	infixParseFn  func(Expression) Expression // Arg is the left side expression
)

// Precedence levels for value operators
const (
	_ int = iota
	LOWEST
	ASSIGNMENT  // =
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	EQUALS      // ==, !=, ===, !==
	LESSGREATER // >, <, >=, <=
	SUM         // + or -
	PRODUCT     // * or /
	PREFIX      // -X or !X
	CALL        // myFunction(X)
	INDEX       // array[index]
	MEMBER      // object.property
)

var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN: ASSIGNMENT,

	lexer.LOGICAL_OR:  LOGICAL_OR,
	lexer.LOGICAL_AND: LOGICAL_AND,

	lexer.EQ:            EQUALS,
	lexer.NOT_EQ:        EQUALS,
	lexer.STRICT_EQ:     EQUALS,
	lexer.STRICT_NOT_EQ: EQUALS,

	lexer.LT: LESSGREATER,
	lexer.GT: LESSGREATER,
	lexer.LE: LESSGREATER,
	lexer.GE: LESSGREATER,

	lexer.PLUS:     SUM,
	lexer.MINUS:    SUM,
	lexer.SLASH:    PRODUCT,
	lexer.ASTERISK: PRODUCT,

	lexer.LPAREN:   CALL,
	lexer.LBRACKET: INDEX,
	lexer.DOT:      MEMBER,
}

// NewParser creates a new Parser.
func NewParser(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:      l,
		source: l.GetSource(),
		errors: []errors.Diagnostic{},
	}

	p.prefixParseFns = make(map[lexer.TokenType]prefixParseFn)
	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.TEMPLATE_START, p.parseTemplateLiteral)
	p.registerPrefix(lexer.TRUE, p.parseBooleanLiteral)
	p.registerPrefix(lexer.FALSE, p.parseBooleanLiteral)
	p.registerPrefix(lexer.NULL, p.parseNullLiteral)
	p.registerPrefix(lexer.UNDEFINED, p.parseUndefinedLiteral)
	p.registerPrefix(lexer.THIS, p.parseThisExpression)
	p.registerPrefix(lexer.NEW, p.parseNewExpression)
	p.registerPrefix(lexer.FUNCTION, p.parseFunctionLiteral)
	p.registerPrefix(lexer.BANG, p.parsePrefixExpression)
	p.registerPrefix(lexer.MINUS, p.parsePrefixExpression)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(lexer.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(lexer.LBRACE, p.parseObjectLiteral)

	p.infixParseFns = make(map[lexer.TokenType]infixParseFn)
	for _, op := range []lexer.TokenType{
		lexer.PLUS, lexer.MINUS, lexer.ASTERISK, lexer.SLASH,
		lexer.EQ, lexer.NOT_EQ, lexer.STRICT_EQ, lexer.STRICT_NOT_EQ,
		lexer.LT, lexer.GT, lexer.LE, lexer.GE,
		lexer.LOGICAL_AND, lexer.LOGICAL_OR,
	} {
		p.registerInfix(op, p.parseInfixExpression)
	}
	p.registerInfix(lexer.ASSIGN, p.parseAssignmentExpression)
	p.registerInfix(lexer.LPAREN, p.parseCallExpression)
	p.registerInfix(lexer.DOT, p.parseMemberExpression)
	p.registerInfix(lexer.LBRACKET, p.parseIndexExpression)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

// Errors returns the list of parsing errors.
func (p *Parser) Errors() []errors.Diagnostic {
	return p.errors
}

// nextToken advances the current and peek tokens.
func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
	debugPrint("nextToken(): cur='%s' (%s), peek='%s' (%s)", p.curToken.Literal, p.curToken.Type, p.peekToken.Literal, p.peekToken.Type)
}

// ParseProgram parses the entire input and returns the root Program node and any errors.
func (p *Parser) ParseProgram() (*Program, []errors.Diagnostic) {
	program := &Program{Statements: []Statement{}, Source: p.source}
	program.Header, p.curToken.Comments = splitHeader(p.curToken)

	for p.curToken.Type != lexer.EOF {
		if p.curTokenIs(lexer.ILLEGAL) {
			p.addError(p.curToken, illegalMessage(p.curToken))
			break
		}
		stmt := p.parseStatement()
		if len(p.errors) > 0 {
			// The grammar has no recovery points worth resynchronising on.
			break
		}
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}
	if len(p.errors) == 0 {
		program.EndComments = p.curToken.Comments
	}

	return program, p.errors
}

// --- Statement Parsing ---

// parseStatement leaves curToken on the last token of the statement.
func (p *Parser) parseStatement() Statement {
	debugPrint("parseStatement: cur='%s' (%s), peek='%s' (%s)", p.curToken.Literal, p.curToken.Type, p.peekToken.Literal, p.peekToken.Type)
	switch p.curToken.Type {
	case lexer.LET, lexer.CONST, lexer.VAR:
		return p.parseDeclaration()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.FUNCTION:
		if p.peekTokenIs(lexer.IDENT) {
			return p.parseFunctionDeclarationStatement()
		}
		return p.parseExpressionStatement()
	case lexer.CLASS:
		return p.parseClassDeclaration()
	case lexer.INTERFACE:
		return p.parseInterfaceDeclaration()
	case lexer.TYPE:
		return p.parseTypeAliasStatement()
	case lexer.LBRACE:
		return p.parseBlockStatement()
	case lexer.SEMICOLON:
		return nil
	default:
		return p.parseExpressionStatement()
	}
}

// parseDeclaration parses let/const/var:
// <kind> <Name> [: <Type>] [= <Value>] [;]
func (p *Parser) parseDeclaration() Statement {
	tok := p.curToken
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := &Identifier{Token: p.curToken, Value: p.curToken.Literal}

	var typ TypeNode
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken() // ':'
		p.nextToken()
		if typ = p.parseType(); typ == nil {
			return nil
		}
	}

	var value Expression
	if p.peekTokenIs(lexer.ASSIGN) {
		p.nextToken() // '='
		p.nextToken()
		if value = p.parseExpression(LOWEST); value == nil {
			return nil
		}
	} else if tok.Type == lexer.CONST {
		p.addError(p.peekToken, fmt.Sprintf("const declaration '%s' must be initialized", name.Value))
		return nil
	}

	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}

	switch tok.Type {
	case lexer.LET:
		return &LetStatement{Token: tok, Name: name, TypeAnnotation: typ, Value: value}
	case lexer.CONST:
		return &ConstStatement{Token: tok, Name: name, TypeAnnotation: typ, Value: value}
	default:
		return &VarStatement{Token: tok, Name: name, TypeAnnotation: typ, Value: value}
	}
}

func (p *Parser) parseReturnStatement() *ReturnStatement {
	stmt := &ReturnStatement{Token: p.curToken}

	// A return followed by a line break returns undefined.
	if p.peekTokenIs(lexer.SEMICOLON) || p.peekTokenIs(lexer.RBRACE) || p.peekTokenIs(lexer.EOF) ||
		p.peekToken.Line > p.curToken.Line {
		if p.peekTokenIs(lexer.SEMICOLON) {
			p.nextToken()
		}
		return stmt
	}

	p.nextToken()
	stmt.ReturnValue = p.parseExpression(LOWEST)
	if stmt.ReturnValue == nil {
		return nil
	}
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseIfStatement() *IfStatement {
	stmt := &IfStatement{Token: p.curToken}

	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if stmt.Condition == nil || !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Consequence = p.parseBlockStatement()
	if stmt.Consequence == nil {
		return nil
	}

	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken()
		switch {
		case p.peekTokenIs(lexer.IF):
			p.nextToken()
			alt := p.parseIfStatement()
			if alt == nil {
				return nil
			}
			stmt.Alternative = alt
		case p.expectPeek(lexer.LBRACE):
			alt := p.parseBlockStatement()
			if alt == nil {
				return nil
			}
			stmt.Alternative = alt
		default:
			return nil
		}
	}
	return stmt
}

func (p *Parser) parseFunctionDeclarationStatement() *ExpressionStatement {
	stmt := &ExpressionStatement{Token: p.curToken}
	fn := p.parseFunctionLiteral()
	if fn == nil {
		return nil
	}
	stmt.Expression = fn
	return stmt
}

func (p *Parser) parseExpressionStatement() *ExpressionStatement {
	stmt := &ExpressionStatement{Token: p.curToken}

	stmt.Expression = p.parseExpression(LOWEST)
	if stmt.Expression == nil {
		return nil
	}

	// Optional semicolon - consume if next
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}

	return stmt
}

func (p *Parser) parseBlockStatement() *BlockStatement {
	block := &BlockStatement{Token: p.curToken, Statements: []Statement{}} // The '{' token

	p.nextToken() // Consume '{'

	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		if p.curTokenIs(lexer.ILLEGAL) {
			p.addError(p.curToken, illegalMessage(p.curToken))
			return nil
		}
		stmt := p.parseStatement()
		if len(p.errors) > 0 {
			return nil
		}
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}

	if !p.curTokenIs(lexer.RBRACE) {
		p.addError(p.curToken, "expected '}' before end of input")
		return nil
	}
	block.EndComments = p.curToken.Comments

	// Current token is RBRACE, the caller advances past it.
	return block
}

// --- Expression Parsing (Pratt Parser) ---

func (p *Parser) parseExpression(precedence int) Expression {
	debugPrint("parseExpression(prec=%d): cur='%s' (%s)", precedence, p.curToken.Literal, p.curToken.Type)
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for !p.peekTokenIs(lexer.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}

	return leftExp
}

// -- Prefix Parse Functions --

func (p *Parser) parseIdentifier() Expression {
	return &Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseNumberLiteral() Expression {
	lit := &NumberLiteral{Token: p.curToken}
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.addError(p.curToken, fmt.Sprintf("could not parse %q as number", p.curToken.Literal))
		return nil
	}
	lit.Value = value
	return lit
}

func (p *Parser) parseStringLiteral() Expression {
	return &StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

// parseTemplateLiteral parses `chunk ${expr} chunk`. The parts always start
// and end with a string part and alternate in between.
func (p *Parser) parseTemplateLiteral() Expression {
	tl := &TemplateLiteral{Token: p.curToken}
	expectString := true

	for {
		p.nextToken()
		switch p.curToken.Type {
		case lexer.TEMPLATE_STRING:
			tl.Parts = append(tl.Parts, &TemplateStringPart{Value: p.curToken.Literal})
			expectString = false
		case lexer.TEMPLATE_INTERPOLATION:
			if expectString {
				tl.Parts = append(tl.Parts, &TemplateStringPart{})
			}
			p.nextToken()
			expr := p.parseExpression(LOWEST)
			if expr == nil || !p.expectPeek(lexer.RBRACE) {
				return nil
			}
			tl.Parts = append(tl.Parts, expr)
			expectString = true
		case lexer.TEMPLATE_END:
			if expectString {
				tl.Parts = append(tl.Parts, &TemplateStringPart{})
			}
			return tl
		default:
			p.addError(p.curToken, "unterminated template literal")
			return nil
		}
	}
}

func (p *Parser) parseBooleanLiteral() Expression {
	return &BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(lexer.TRUE)}
}

func (p *Parser) parseNullLiteral() Expression {
	return &NullLiteral{Token: p.curToken}
}

func (p *Parser) parseUndefinedLiteral() Expression {
	return &UndefinedLiteral{Token: p.curToken}
}

func (p *Parser) parseThisExpression() Expression {
	return &ThisExpression{Token: p.curToken}
}

// parseNewExpression parses new <Constructor>[(<Arguments>)].
func (p *Parser) parseNewExpression() Expression {
	ne := &NewExpression{Token: p.curToken}
	p.nextToken()

	// Member access binds tighter than the construct call.
	ne.Constructor = p.parseExpression(CALL)
	if ne.Constructor == nil {
		return nil
	}

	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		args := p.parseExpressionList(lexer.RPAREN)
		if args == nil {
			return nil
		}
		ne.Arguments = args
	} else {
		ne.Arguments = []Expression{}
	}
	return ne
}

// parseFunctionLiteral parses function [<Name>](<Parameters>)[: <Type>] { <Body> }.
func (p *Parser) parseFunctionLiteral() Expression {
	fn := &FunctionLiteral{Token: p.curToken}

	if p.peekTokenIs(lexer.IDENT) {
		p.nextToken()
		fn.Name = &Identifier{Token: p.curToken, Value: p.curToken.Literal}
	}

	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	if !p.parseSignatureAndBody(fn, false) {
		return nil
	}
	return fn
}

// parseSignatureAndBody expects curToken on '(' and fills in the parameters,
// return type and body of fn.
func (p *Parser) parseSignatureAndBody(fn *FunctionLiteral, allowParameterProperties bool) bool {
	params, ok := p.parseFunctionParameters(allowParameterProperties)
	if !ok {
		return false
	}
	fn.Parameters = params

	if p.peekTokenIs(lexer.COLON) {
		p.nextToken() // ':'
		p.nextToken()
		if fn.ReturnType = p.parseType(); fn.ReturnType == nil {
			return false
		}
	}

	if !p.expectPeek(lexer.LBRACE) {
		return false
	}
	fn.Body = p.parseBlockStatement()
	return fn.Body != nil
}

// parseFunctionParameters expects curToken on '(' and leaves it on ')'.
// Access modifiers promote a parameter to a field and are only accepted
// when allowParameterProperties is set.
func (p *Parser) parseFunctionParameters(allowParameterProperties bool) ([]*Parameter, bool) {
	params := []*Parameter{}

	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return params, true
	}

	for {
		p.nextToken()
		param := &Parameter{Token: p.curToken}

		for isModifier(p.curToken.Type) && !p.peekTokenIs(lexer.COLON) && !p.peekTokenIs(lexer.COMMA) && !p.peekTokenIs(lexer.RPAREN) {
			if !allowParameterProperties {
				p.addError(p.curToken, "a parameter property is only allowed in a constructor implementation")
				return nil, false
			}
			if p.curTokenIs(lexer.STATIC) {
				p.addError(p.curToken, "'static' modifier cannot appear on a parameter")
				return nil, false
			}
			if param.Modifier == "" || param.Modifier == "readonly" {
				param.Modifier = p.curToken.Literal
			}
			param.Promoted = true
			p.nextToken()
		}

		if !p.curTokenIs(lexer.IDENT) {
			p.addError(p.curToken, fmt.Sprintf("expected parameter name, got %s", p.curToken.Type))
			return nil, false
		}
		param.Name = &Identifier{Token: p.curToken, Value: p.curToken.Literal}

		if p.peekTokenIs(lexer.QUESTION) {
			p.nextToken()
			param.Optional = true
		}
		if p.peekTokenIs(lexer.COLON) {
			p.nextToken() // ':'
			p.nextToken()
			if param.TypeAnnotation = p.parseType(); param.TypeAnnotation == nil {
				return nil, false
			}
		}
		if p.peekTokenIs(lexer.ASSIGN) {
			p.addError(p.peekToken, "default parameter values are not supported")
			return nil, false
		}

		params = append(params, param)

		if p.peekTokenIs(lexer.RPAREN) {
			p.nextToken()
			return params, true
		}
		if !p.expectPeek(lexer.COMMA) {
			return nil, false
		}
		// Trailing comma
		if p.peekTokenIs(lexer.RPAREN) {
			p.nextToken()
			return params, true
		}
	}
}

// isIdentifierName reports whether tok can name a property: an identifier or
// a reserved word.
func isIdentifierName(tok lexer.Token) bool {
	if tok.Type == lexer.IDENT {
		return true
	}
	return lexer.IsKeyword(tok.Literal) && lexer.LookupIdent(tok.Literal) == tok.Type
}

func isModifier(t lexer.TokenType) bool {
	switch t {
	case lexer.PUBLIC, lexer.PRIVATE, lexer.PROTECTED, lexer.READONLY, lexer.STATIC:
		return true
	}
	return false
}

// parsePrefixExpression handles expressions like !expr or -expr
func (p *Parser) parsePrefixExpression() Expression {
	expr := &PrefixExpression{Token: p.curToken, Operator: p.curToken.Literal}
	p.nextToken()
	expr.Right = p.parseExpression(PREFIX)
	if expr.Right == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseGroupedExpression() Expression {
	tok := p.curToken
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if exp == nil || !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	grouped := &GroupedExpression{Token: tok, Expression: exp}
	for _, c := range tok.Comments {
		if c.Text == "/** @class */" {
			grouped.ClassWrapper = true
		}
	}
	return grouped
}

func (p *Parser) parseArrayLiteral() Expression {
	array := &ArrayLiteral{Token: p.curToken}
	elements := p.parseExpressionList(lexer.RBRACKET)
	if elements == nil {
		return nil
	}
	array.Elements = elements
	return array
}

// parseObjectLiteral parses { key: value, "quoted": value, shorthand }.
func (p *Parser) parseObjectLiteral() Expression {
	obj := &ObjectLiteral{Token: p.curToken, Properties: []*ObjectProperty{}}

	for !p.peekTokenIs(lexer.RBRACE) {
		p.nextToken()
		prop := &ObjectProperty{Token: p.curToken}
		key, quoted, ok := p.propertyName()
		if !ok {
			return nil
		}
		prop.Key, prop.Quoted = key, quoted

		if p.peekTokenIs(lexer.COLON) {
			p.nextToken() // ':'
			p.nextToken()
			if prop.Value = p.parseExpression(ASSIGNMENT); prop.Value == nil {
				return nil
			}
		} else if p.curTokenIs(lexer.IDENT) {
			prop.Value = &Identifier{Token: p.curToken, Value: key}
		} else {
			p.peekError(lexer.COLON)
			return nil
		}
		obj.Properties = append(obj.Properties, prop)

		if !p.peekTokenIs(lexer.RBRACE) && !p.expectPeek(lexer.COMMA) {
			return nil
		}
	}
	p.nextToken() // '}'
	return obj
}

// propertyName reads a member name at curToken: an identifier, a keyword
// used as a name, a string or a number.
func (p *Parser) propertyName() (name string, quoted bool, ok bool) {
	switch {
	case isIdentifierName(p.curToken):
		return p.curToken.Literal, false, true
	case p.curTokenIs(lexer.STRING):
		return p.curToken.Literal, true, true
	case p.curTokenIs(lexer.NUMBER):
		return p.curToken.Literal, false, true
	}
	p.addError(p.curToken, fmt.Sprintf("expected property name, got %s", p.curToken.Type))
	return "", false, false
}

// parseExpressionList expects curToken on the opening delimiter and leaves it
// on end.
func (p *Parser) parseExpressionList(end lexer.TokenType) []Expression {
	list := []Expression{}

	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}

	p.nextToken()
	expr := p.parseExpression(ASSIGNMENT)
	if expr == nil {
		return nil
	}
	list = append(list, expr)

	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		if p.peekTokenIs(end) {
			break
		}
		p.nextToken()
		expr := p.parseExpression(ASSIGNMENT)
		if expr == nil {
			return nil
		}
		list = append(list, expr)
	}

	if !p.expectPeek(end) {
		return nil
	}
	return list
}

// -- Infix Parse Functions --

func (p *Parser) parseInfixExpression(left Expression) Expression {
	expr := &InfixExpression{Token: p.curToken, Operator: p.curToken.Literal, Left: left}
	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	if expr.Right == nil {
		return nil
	}
	return expr
}

// parseAssignmentExpression is right-associative.
func (p *Parser) parseAssignmentExpression(left Expression) Expression {
	switch left.(type) {
	case *Identifier, *MemberExpression, *IndexExpression:
	default:
		p.addError(p.curToken, "invalid assignment target")
		return nil
	}
	expr := &AssignmentExpression{Token: p.curToken, Operator: p.curToken.Literal, Left: left}
	p.nextToken()
	expr.Value = p.parseExpression(ASSIGNMENT - 1)
	if expr.Value == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseCallExpression(function Expression) Expression {
	call := &CallExpression{Token: p.curToken, Function: function}
	args := p.parseExpressionList(lexer.RPAREN)
	if args == nil {
		return nil
	}
	call.Arguments = args
	return call
}

func (p *Parser) parseMemberExpression(object Expression) Expression {
	member := &MemberExpression{Token: p.curToken, Object: object}
	p.nextToken()
	if !isIdentifierName(p.curToken) {
		p.addError(p.curToken, fmt.Sprintf("expected property name after '.', got %s", p.curToken.Type))
		return nil
	}
	member.Property = &Identifier{Token: p.curToken, Value: p.curToken.Literal}
	return member
}

func (p *Parser) parseIndexExpression(left Expression) Expression {
	expr := &IndexExpression{Token: p.curToken, Left: left}
	p.nextToken()
	expr.Index = p.parseExpression(LOWEST)
	if expr.Index == nil || !p.expectPeek(lexer.RBRACKET) {
		return nil
	}
	return expr
}

// --- Helper Methods ---

func (p *Parser) registerPrefix(tokenType lexer.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType lexer.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

// expectPeek checks the type of the next token and advances if it matches.
// If it doesn't match, it adds an error.
func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

// --- Error Handling ---

func (p *Parser) peekError(t lexer.TokenType) {
	msg := fmt.Sprintf("expected next token to be %s, got %s instead", t, p.peekToken.Type)
	if p.peekTokenIs(lexer.ILLEGAL) {
		msg = illegalMessage(p.peekToken)
	}
	p.addError(p.peekToken, msg)
}

func (p *Parser) noPrefixParseFnError(tok lexer.Token) {
	msg := fmt.Sprintf("no prefix parse function for %s found", tok.Type)
	if tok.Type == lexer.ILLEGAL {
		msg = illegalMessage(tok)
	}
	p.addError(tok, msg)
}

// illegalMessage describes an ILLEGAL token. The lexer stores a description
// in the literal for multi-character failures.
func illegalMessage(tok lexer.Token) string {
	if len(tok.Literal) == 1 {
		return fmt.Sprintf("unexpected character '%s'", tok.Literal)
	}
	return tok.Literal
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) addError(tok lexer.Token, msg string) {
	syntaxErr := &errors.SyntaxError{
		Position: errors.Position{
			Line:     tok.Line,
			Column:   tok.Column,
			StartPos: tok.StartPos,
			EndPos:   tok.EndPos,
			Source:   p.source,
		},
		Msg: msg,
	}
	p.errors = append(p.errors, syntaxErr)
}
