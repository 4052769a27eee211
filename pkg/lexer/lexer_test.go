package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type tokenSummary struct {
	Type    TokenType
	Literal string
	Line    int
}

func collect(input string) []tokenSummary {
	l := NewLexer(input)
	var out []tokenSummary
	for {
		tok := l.NextToken()
		out = append(out, tokenSummary{tok.Type, tok.Literal, tok.Line})
		if tok.Type == EOF || tok.Type == ILLEGAL {
			return out
		}
	}
}

func TestNextToken(t *testing.T) {
	input := `interface Person {
    firstName: string
}
// a comment
class Student {
    constructor(public firstName: string) {}
}
/* block
   comment */
let user = new Student("Jame");
user.firstName === 'x' !== null;`

	want := []tokenSummary{
		{INTERFACE, "interface", 1},
		{IDENT, "Person", 1},
		{LBRACE, "{", 1},
		{IDENT, "firstName", 2},
		{COLON, ":", 2},
		{IDENT, "string", 2},
		{RBRACE, "}", 3},
		{CLASS, "class", 5},
		{IDENT, "Student", 5},
		{LBRACE, "{", 5},
		{IDENT, "constructor", 6},
		{LPAREN, "(", 6},
		{PUBLIC, "public", 6},
		{IDENT, "firstName", 6},
		{COLON, ":", 6},
		{IDENT, "string", 6},
		{RPAREN, ")", 6},
		{LBRACE, "{", 6},
		{RBRACE, "}", 6},
		{RBRACE, "}", 7},
		{LET, "let", 10},
		{IDENT, "user", 10},
		{ASSIGN, "=", 10},
		{NEW, "new", 10},
		{IDENT, "Student", 10},
		{LPAREN, "(", 10},
		{STRING, "Jame", 10},
		{RPAREN, ")", 10},
		{SEMICOLON, ";", 10},
		{IDENT, "user", 11},
		{DOT, ".", 11},
		{IDENT, "firstName", 11},
		{STRICT_EQ, "===", 11},
		{STRING, "x", 11},
		{STRICT_NOT_EQ, "!==", 11},
		{NULL, "null", 11},
		{SEMICOLON, ";", 11},
		{EOF, "", 11},
	}

	if diff := cmp.Diff(want, collect(input)); diff != "" {
		t.Errorf("token stream mismatch (-want +got):\n%s", diff)
	}
}

func TestTemplateLiteral(t *testing.T) {
	input := "`${first} ${ {a: 1}.a } done` + `I'm ${this.fullName}`"

	want := []tokenSummary{
		{TEMPLATE_START, "`", 1},
		{TEMPLATE_INTERPOLATION, "${", 1},
		{IDENT, "first", 1},
		{RBRACE, "}", 1},
		{TEMPLATE_STRING, " ", 1},
		{TEMPLATE_INTERPOLATION, "${", 1},
		{LBRACE, "{", 1},
		{IDENT, "a", 1},
		{COLON, ":", 1},
		{NUMBER, "1", 1},
		{RBRACE, "}", 1},
		{DOT, ".", 1},
		{IDENT, "a", 1},
		{RBRACE, "}", 1},
		{TEMPLATE_STRING, " done", 1},
		{TEMPLATE_END, "`", 1},
		{PLUS, "+", 1},
		{TEMPLATE_START, "`", 1},
		{TEMPLATE_STRING, "I'm ", 1},
		{TEMPLATE_INTERPOLATION, "${", 1},
		{THIS, "this", 1},
		{DOT, ".", 1},
		{IDENT, "fullName", 1},
		{RBRACE, "}", 1},
		{TEMPLATE_END, "`", 1},
		{EOF, "", 1},
	}

	if diff := cmp.Diff(want, collect(input)); diff != "" {
		t.Errorf("template token stream mismatch (-want +got):\n%s", diff)
	}
}

func TestStringEscapes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"a\"b"`, `a"b`},
		{`'it\'s'`, `it's`},
		{`"tab\there"`, "tab\there"},
		{`"\b\f\v\0"`, "\b\f\v\x00"},
		{`"\x41\x7e"`, "A~"},
		{`"\u0041"`, "A"},
		{`"e\u0301"`, "e\u0301"},
		{`"\u{1F600}"`, "\U0001F600"},
		{`"\u{41}"`, "A"},
		{`"\uD83D\uDE00"`, "\U0001F600"},
		{`"\uD83D"`, "\uFFFD"},
		{`"\q"`, "q"},
		{"\"a\\\nb\"", "ab"},
		{"\"a\\\r\nb\"", "ab"},
		{"\"a\\\u2028b\"", "ab"},
		{"\"raw \x0b \u2028\"", "raw \x0b \u2028"},
	}
	for _, tt := range tests {
		tok := NewLexer(tt.input).NextToken()
		if tok.Type != STRING || tok.Literal != tt.want {
			t.Errorf("%s: got %s %q, want STRING %q", tt.input, tok.Type, tok.Literal, tt.want)
		}
	}
}

func TestTemplateEscapes(t *testing.T) {
	input := "`\\u0041\\x42\\v${x}\\u{43}\\\n\\``"
	want := []tokenSummary{
		{TEMPLATE_START, "`", 1},
		{TEMPLATE_STRING, "AB\v", 1},
		{TEMPLATE_INTERPOLATION, "${", 1},
		{IDENT, "x", 1},
		{RBRACE, "}", 1},
		{TEMPLATE_STRING, "C`", 1},
		{TEMPLATE_END, "`", 2},
		{EOF, "", 2},
	}
	if diff := cmp.Diff(want, collect(input)); diff != "" {
		t.Errorf("template token stream mismatch (-want +got):\n%s", diff)
	}
}

func TestIllegalInput(t *testing.T) {
	tests := []string{
		`"\x4"`,
		`"\xZZ"`,
		`"\u12"`,
		`"\u{}"`,
		`"\u{110000}"`,
		`"\01"`,
		`"\1"`,
		"`\\u12`",
		`"unterminated`,
		"`never closed",
		"/* open",
		"#",
	}
	for _, input := range tests {
		toks := collect(input)
		last := toks[len(toks)-1]
		if last.Type != ILLEGAL {
			t.Errorf("%q: expected ILLEGAL, got %v", input, toks)
		}
	}
}

func TestNumbers(t *testing.T) {
	for _, input := range []string{"0", "42", "3.14", "1e10", "2.5E-3"} {
		tok := NewLexer(input).NextToken()
		if tok.Type != NUMBER || tok.Literal != input {
			t.Errorf("%q lexed as %s %q", input, tok.Type, tok.Literal)
		}
	}
}
