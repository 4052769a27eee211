package lexer

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"tslower/pkg/source"
)

// TokenType represents the type of a token.
type TokenType string

// Token represents a lexical token.
type Token struct {
	Type     TokenType
	Literal  string // The text of the token; cooked value for strings and template chunks
	Line     int    // 1-based line number where the token starts
	Column   int    // 1-based column number where the token starts
	StartPos int    // 0-based byte offset where the token starts
	EndPos   int    // 0-based byte offset after the token ends

	// Comments found between the previous token and this one, in order.
	Comments []Comment
}

// Comment is a source comment, kept verbatim with its delimiters.
type Comment struct {
	Text     string
	Line     int // line of the opening delimiter
	Column   int
	EndLine  int // line of the last character
	StartPos int
	EndPos   int
	// Trailing is set when the comment starts on the line where the
	// previous token ended.
	Trailing bool
}

// --- Token Types ---
const (
	// Special
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers + Literals
	IDENT  TokenType = "IDENT"
	NUMBER TokenType = "NUMBER"
	STRING TokenType = "STRING"

	// Template literals: ` chunk ${ expr } chunk `
	TEMPLATE_START         TokenType = "TEMPLATE_START"
	TEMPLATE_STRING        TokenType = "TEMPLATE_STRING"
	TEMPLATE_INTERPOLATION TokenType = "${"
	TEMPLATE_END           TokenType = "TEMPLATE_END"

	// Operators
	ASSIGN        TokenType = "="
	PLUS          TokenType = "+"
	MINUS         TokenType = "-"
	BANG          TokenType = "!"
	ASTERISK      TokenType = "*"
	SLASH         TokenType = "/"
	LT            TokenType = "<"
	GT            TokenType = ">"
	LE            TokenType = "<="
	GE            TokenType = ">="
	EQ            TokenType = "=="
	NOT_EQ        TokenType = "!="
	STRICT_EQ     TokenType = "==="
	STRICT_NOT_EQ TokenType = "!=="
	LOGICAL_AND   TokenType = "&&"
	LOGICAL_OR    TokenType = "||"
	PIPE          TokenType = "|" // union types
	DOT           TokenType = "."
	QUESTION      TokenType = "?"

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	COLON     TokenType = ":"
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	LBRACKET  TokenType = "["
	RBRACKET  TokenType = "]"

	// Keywords
	FUNCTION   TokenType = "FUNCTION"
	LET        TokenType = "LET"
	CONST      TokenType = "CONST"
	VAR        TokenType = "VAR"
	TRUE       TokenType = "TRUE"
	FALSE      TokenType = "FALSE"
	NULL       TokenType = "NULL"
	UNDEFINED  TokenType = "UNDEFINED"
	IF         TokenType = "IF"
	ELSE       TokenType = "ELSE"
	RETURN     TokenType = "RETURN"
	NEW        TokenType = "NEW"
	THIS       TokenType = "THIS"
	CLASS      TokenType = "CLASS"
	EXTENDS    TokenType = "EXTENDS"
	IMPLEMENTS TokenType = "IMPLEMENTS"
	INTERFACE  TokenType = "INTERFACE"
	TYPE       TokenType = "TYPE"
	PUBLIC     TokenType = "PUBLIC"
	PRIVATE    TokenType = "PRIVATE"
	PROTECTED  TokenType = "PROTECTED"
	READONLY   TokenType = "READONLY"
	STATIC     TokenType = "STATIC"
)

var keywords = map[string]TokenType{
	"function":   FUNCTION,
	"let":        LET,
	"const":      CONST,
	"var":        VAR,
	"true":       TRUE,
	"false":      FALSE,
	"null":       NULL,
	"undefined":  UNDEFINED,
	"if":         IF,
	"else":       ELSE,
	"return":     RETURN,
	"new":        NEW,
	"this":       THIS,
	"class":      CLASS,
	"extends":    EXTENDS,
	"implements": IMPLEMENTS,
	"interface":  INTERFACE,
	"type":       TYPE,
	"public":     PUBLIC,
	"private":    PRIVATE,
	"protected":  PROTECTED,
	"readonly":   READONLY,
	"static":     STATIC,
}

// LookupIdent checks the keywords table for an identifier.
func LookupIdent(ident string) TokenType {
	if tokType, ok := keywords[ident]; ok {
		return tokType
	}
	return IDENT
}

// IsKeyword reports whether ident is reserved by the lexer.
func IsKeyword(ident string) bool {
	_, ok := keywords[ident]
	return ok
}

// Lexer holds the state of the scanner.
type Lexer struct {
	src          *source.SourceFile
	input        string
	position     int  // byte offset of ch
	readPosition int  // byte offset after ch
	ch           byte // current char under examination
	line         int
	column       int

	// Template literal state. inTemplateText is set when the next token must be
	// scanned as template text; templateDepth holds the open brace count of
	// every ${ ... } interpolation we are inside.
	inTemplateText bool
	templateDepth  []int

	comments    []Comment // collected since the last token
	prevEndLine int       // line the last token ended on; 0 before the first token
}

// NewLexer creates a new Lexer over an anonymous input.
func NewLexer(input string) *Lexer {
	return NewLexerWithSource(source.NewEvalSource(input))
}

// NewLexerWithSource creates a new Lexer reading the given source file.
func NewLexerWithSource(src *source.SourceFile) *Lexer {
	l := &Lexer{src: src, input: src.Content, line: 1}
	l.readChar()
	return l
}

// GetSource returns the source file the lexer reads.
func (l *Lexer) GetSource() *source.SourceFile {
	return l.src
}

// readChar advances to the next character, keeping line and column current.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0 // EOF
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// NextToken scans the input and returns the next token, carrying the
// comments that precede it.
func (l *Lexer) NextToken() Token {
	tok := l.scan()
	if len(l.comments) > 0 {
		tok.Comments = l.comments
		l.comments = nil
	}
	l.prevEndLine = l.line
	return tok
}

func (l *Lexer) scan() Token {
	if l.inTemplateText {
		return l.readTemplateChunk()
	}

	l.skipWhitespace()

	startLine := l.line
	startCol := l.column
	startPos := l.position

	// single emits a one-character token and advances past it.
	single := func(t TokenType) Token {
		lit := string(l.ch)
		l.readChar()
		return Token{Type: t, Literal: lit, Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
	}
	// multi consumes n characters and emits them as one token.
	multi := func(t TokenType, n int) Token {
		for i := 0; i < n; i++ {
			l.readChar()
		}
		return Token{Type: t, Literal: l.input[startPos:l.position], Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
	}

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			if l.readPosition+1 < len(l.input) && l.input[l.readPosition+1] == '=' {
				return multi(STRICT_EQ, 3)
			}
			return multi(EQ, 2)
		}
		return single(ASSIGN)
	case '!':
		if l.peekChar() == '=' {
			if l.readPosition+1 < len(l.input) && l.input[l.readPosition+1] == '=' {
				return multi(STRICT_NOT_EQ, 3)
			}
			return multi(NOT_EQ, 2)
		}
		return single(BANG)
	case '+':
		return single(PLUS)
	case '-':
		return single(MINUS)
	case '*':
		return single(ASTERISK)
	case '/':
		if l.peekChar() == '/' {
			l.skipComment()
			l.addComment(startLine, startCol, startPos)
			return l.scan()
		} else if l.peekChar() == '*' {
			if !l.skipMultilineComment() {
				return Token{Type: ILLEGAL, Literal: "unterminated multiline comment", Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
			}
			l.addComment(startLine, startCol, startPos)
			return l.scan()
		}
		return single(SLASH)
	case '<':
		if l.peekChar() == '=' {
			return multi(LE, 2)
		}
		return single(LT)
	case '>':
		if l.peekChar() == '=' {
			return multi(GE, 2)
		}
		return single(GT)
	case '&':
		if l.peekChar() == '&' {
			return multi(LOGICAL_AND, 2)
		}
		return single(ILLEGAL)
	case '|':
		if l.peekChar() == '|' {
			return multi(LOGICAL_OR, 2)
		}
		return single(PIPE)
	case '?':
		return single(QUESTION)
	case '.':
		return single(DOT)
	case ',':
		return single(COMMA)
	case ';':
		return single(SEMICOLON)
	case ':':
		return single(COLON)
	case '(':
		return single(LPAREN)
	case ')':
		return single(RPAREN)
	case '[':
		return single(LBRACKET)
	case ']':
		return single(RBRACKET)
	case '{':
		if n := len(l.templateDepth); n > 0 {
			l.templateDepth[n-1]++
		}
		return single(LBRACE)
	case '}':
		if n := len(l.templateDepth); n > 0 {
			if l.templateDepth[n-1] == 0 {
				// Closes a ${ ... } interpolation; resume template text.
				l.templateDepth = l.templateDepth[:n-1]
				tok := single(RBRACE)
				l.inTemplateText = true
				return tok
			}
			l.templateDepth[n-1]--
		}
		return single(RBRACE)
	case '`':
		tok := single(TEMPLATE_START)
		l.inTemplateText = true
		return tok
	case '"', '\'':
		quote := l.ch
		literal, ok := l.readString(quote)
		if !ok {
			return Token{Type: ILLEGAL, Literal: "invalid string literal", Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
		}
		return Token{Type: STRING, Literal: literal, Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
	case 0:
		return Token{Type: EOF, Literal: "", Line: startLine, Column: startCol, StartPos: startPos, EndPos: startPos}
	}

	if isLetter(l.ch) {
		literal := l.readIdentifier()
		return Token{Type: LookupIdent(literal), Literal: literal, Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
	}
	if isDigit(l.ch) {
		literal := l.readNumber()
		return Token{Type: NUMBER, Literal: literal, Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
	}
	return single(ILLEGAL)
}

// readTemplateChunk scans template text up to the next ${, the closing
// backtick, or EOF.
func (l *Lexer) readTemplateChunk() Token {
	startLine := l.line
	startCol := l.column
	startPos := l.position

	if l.ch == '`' {
		l.readChar()
		l.inTemplateText = false
		return Token{Type: TEMPLATE_END, Literal: "`", Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
	}
	if l.ch == '$' && l.peekChar() == '{' {
		l.readChar()
		l.readChar()
		l.inTemplateText = false
		l.templateDepth = append(l.templateDepth, 0)
		return Token{Type: TEMPLATE_INTERPOLATION, Literal: "${", Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
	}

	var builder strings.Builder
	for {
		switch {
		case l.ch == 0:
			l.inTemplateText = false
			return Token{Type: ILLEGAL, Literal: "unterminated template literal", Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
		case l.ch == '`', l.ch == '$' && l.peekChar() == '{':
			return Token{Type: TEMPLATE_STRING, Literal: builder.String(), Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
		case l.ch == '\\':
			l.readChar()
			if !l.writeEscape(&builder) {
				l.inTemplateText = false
				return Token{Type: ILLEGAL, Literal: "invalid escape in template literal", Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
			}
		case l.ch == '\r':
			// CRLF and lone CR in template text cook to LF.
			builder.WriteByte('\n')
			if l.peekChar() == '\n' {
				l.readChar()
			}
		default:
			builder.WriteByte(l.ch)
		}
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	startPos := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[startPos:l.position]
}

// readNumber reads a decimal literal with optional fraction and exponent.
func (l *Lexer) readNumber() string {
	startPos := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || next == '+' || next == '-' {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	return l.input[startPos:l.position]
}

// readString reads a string literal enclosed in quote and returns its
// unescaped content. Advances past the closing quote on success.
func (l *Lexer) readString(quote byte) (string, bool) {
	var builder strings.Builder
	l.readChar() // opening quote

	for {
		switch l.ch {
		case quote:
			l.readChar()
			return builder.String(), true
		case 0, '\n', '\r':
			return "", false
		case '\\':
			l.readChar()
			if !l.writeEscape(&builder) {
				return "", false
			}
		default:
			builder.WriteByte(l.ch)
		}
		l.readChar()
	}
}

// writeEscape writes the character named by the escape sequence at l.ch.
// Multi-character escapes leave l.ch on their last character. A backslash
// before a line terminator is a line continuation and writes nothing.
func (l *Lexer) writeEscape(b *strings.Builder) bool {
	switch l.ch {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'v':
		b.WriteByte('\v')
	case '0':
		if isDigit(l.peekChar()) {
			return false // legacy octal
		}
		b.WriteByte(0)
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return false
	case 'x':
		r, ok := l.readHexDigits(2)
		if !ok {
			return false
		}
		b.WriteRune(r)
	case 'u':
		r, ok := l.readUnicodeEscape()
		if !ok {
			return false
		}
		b.WriteRune(r)
	case '\r':
		if l.peekChar() == '\n' {
			l.readChar()
		}
	case '\n':
	case 0:
		return false
	default:
		if r, size := utf8.DecodeRuneInString(l.input[l.position:]); r == '\u2028' || r == '\u2029' {
			for i := 1; i < size; i++ {
				l.readChar()
			}
			return true
		}
		// Identity escape: the character stands for itself. Trailing bytes of
		// a multi-byte character are copied by the caller.
		b.WriteByte(l.ch)
	}
	return true
}

// readHexDigits consumes exactly n hex digits after l.ch.
func (l *Lexer) readHexDigits(n int) (rune, bool) {
	if l.readPosition+n > len(l.input) {
		return 0, false
	}
	v, err := strconv.ParseUint(l.input[l.readPosition:l.readPosition+n], 16, 32)
	if err != nil {
		return 0, false
	}
	for i := 0; i < n; i++ {
		l.readChar()
	}
	return rune(v), true
}

// readUnicodeEscape reads the rest of \uXXXX or \u{X...} with l.ch on the
// 'u'. A high surrogate followed by a \uXXXX low surrogate is combined; a
// lone surrogate becomes U+FFFD since strings are held as UTF-8.
func (l *Lexer) readUnicodeEscape() (rune, bool) {
	if l.peekChar() == '{' {
		l.readChar()
		end := strings.IndexByte(l.input[l.readPosition:], '}')
		if end <= 0 {
			return 0, false
		}
		v, err := strconv.ParseUint(l.input[l.readPosition:l.readPosition+end], 16, 32)
		if err != nil || v > utf8.MaxRune {
			return 0, false
		}
		for i := 0; i <= end; i++ {
			l.readChar()
		}
		return rune(v), true
	}

	r, ok := l.readHexDigits(4)
	if !ok {
		return 0, false
	}
	if r >= 0xD800 && r < 0xDC00 && strings.HasPrefix(l.input[l.readPosition:], "\\u") {
		rest := l.input[l.readPosition+2:]
		if len(rest) >= 4 {
			if lo, err := strconv.ParseUint(rest[:4], 16, 32); err == nil && lo >= 0xDC00 && lo < 0xE000 {
				for i := 0; i < 6; i++ {
					l.readChar()
				}
				return utf16.DecodeRune(r, rune(lo)), true
			}
		}
	}
	if utf16.IsSurrogate(r) {
		return utf8.RuneError, true
	}
	return r, true
}

func (l *Lexer) addComment(line, col, start int) {
	text := strings.TrimSuffix(l.input[start:l.position], "\r")
	l.comments = append(l.comments, Comment{
		Text:     text,
		Line:     line,
		Column:   col,
		EndLine:  line + strings.Count(text, "\n"),
		StartPos: start,
		EndPos:   start + len(text),
		Trailing: l.prevEndLine == line,
	})
}

// skipComment reads until the end of the line.
func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// skipMultilineComment consumes /* ... */. Returns false on EOF.
func (l *Lexer) skipMultilineComment() bool {
	l.readChar() // '/'
	l.readChar() // '*'

	for {
		if l.ch == 0 {
			return false
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return true
		}
		l.readChar()
	}
}

// isLetter accepts ASCII letters, '_', '$' and any non-ASCII byte so that
// UTF-8 encoded identifiers pass through whole.
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch == '$' || ch >= 0x80
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
