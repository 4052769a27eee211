package parser

import (
	"strings"
	"testing"

	"tslower/pkg/lexer"
)

func parse(t *testing.T, input string) *Program {
	t.Helper()
	p := NewParser(lexer.NewLexer(input))
	program, errs := p.ParseProgram()
	if len(errs) != 0 {
		for _, err := range errs {
			t.Errorf("parser error: %s", err.Error())
		}
		t.FailNow()
	}
	return program
}

const greeterSource = `interface Person {
    firstName: string
    lastName: string
}

class Student {
    fullName: string
    constructor(
        public firstName: string,
        public middileInitial: string,
        public lastName: string
    ) {
        this.fullName = ` + "`${firstName} ${middileInitial} ${lastName}`" + `
    }

    sayHi() {
        console.log(` + "`I'm ${this.fullName}`" + `)
    }
}

function greeter(person: Person) {
    return ` + "`Hello, ${person.firstName} ${person.lastName}`" + `
}

let user = new Student("Jame", "M.", "User")

document.body.textContent = greeter(user)
`

func TestParseGreeter(t *testing.T) {
	program := parse(t, greeterSource)

	if len(program.Statements) != 5 {
		t.Fatalf("expected 5 statements, got %d", len(program.Statements))
	}

	iface, ok := program.Statements[0].(*InterfaceDeclaration)
	if !ok {
		t.Fatalf("statement 0: expected *InterfaceDeclaration, got %T", program.Statements[0])
	}
	if iface.Name.Value != "Person" || len(iface.Properties) != 2 {
		t.Errorf("interface = %s", iface.String())
	}

	class, ok := program.Statements[1].(*ClassDeclaration)
	if !ok {
		t.Fatalf("statement 1: expected *ClassDeclaration, got %T", program.Statements[1])
	}
	if fields := class.Body.Fields(); len(fields) != 1 || fields[0].Key.Value != "fullName" || fields[0].Value != nil {
		t.Errorf("fields = %v", fields)
	}
	promoted := class.PromotedParameters()
	var names []string
	for _, param := range promoted {
		names = append(names, param.Name.Value)
	}
	if got := strings.Join(names, ","); got != "firstName,middileInitial,lastName" {
		t.Errorf("promoted parameters = %s", got)
	}
	if methods := class.Body.Methods(); len(methods) != 1 || methods[0].Key.Value != "sayHi" {
		t.Errorf("methods = %v", methods)
	}

	fnStmt, ok := program.Statements[2].(*ExpressionStatement)
	if !ok {
		t.Fatalf("statement 2: expected *ExpressionStatement, got %T", program.Statements[2])
	}
	fn, ok := fnStmt.FunctionDeclaration()
	if !ok || fn.Name.Value != "greeter" {
		t.Fatalf("statement 2 is not the greeter declaration: %s", fnStmt.String())
	}
	if ref, ok := fn.Parameters[0].TypeAnnotation.(*TypeReference); !ok || ref.Name != "Person" {
		t.Errorf("greeter parameter type = %v", fn.Parameters[0].TypeAnnotation)
	}

	let, ok := program.Statements[3].(*LetStatement)
	if !ok {
		t.Fatalf("statement 3: expected *LetStatement, got %T", program.Statements[3])
	}
	if _, ok := let.Value.(*NewExpression); !ok {
		t.Errorf("let value = %T", let.Value)
	}

	assign := program.Statements[4].(*ExpressionStatement).Expression
	if got := assign.String(); got != "document.body.textContent = greeter(user)" {
		t.Errorf("assignment = %q", got)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a + b * c", "(a + (b * c))"},
		{"a - b - c", "((a - b) - c)"},
		{"!a === b", "((!a) === b)"},
		{"a || b && c", "(a || (b && c))"},
		{"x = y = 1", "x = y = 1"},
		{"a.b(c).d", "a.b(c).d"},
		{`new Student("a").sayHi()`, `new Student("a").sayHi()`},
		{"new Date", "new Date()"},
		{"o[k] + 1", "(o[k] + 1)"},
		{"-(a + b)", "(-((a + b)))"},
	}

	for _, tt := range tests {
		program := parse(t, tt.input)
		if got := program.String(); got != tt.expected {
			t.Errorf("%s: expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestTemplateLiteralParts(t *testing.T) {
	program := parse(t, "`${a} and ${b}`")
	tl, ok := program.Statements[0].(*ExpressionStatement).Expression.(*TemplateLiteral)
	if !ok {
		t.Fatalf("expected *TemplateLiteral")
	}
	if len(tl.Parts) != 5 {
		t.Fatalf("expected 5 parts, got %d", len(tl.Parts))
	}
	for i, want := range []string{"", "a", " and ", "b", ""} {
		if got := tl.Parts[i].String(); got != want {
			t.Errorf("part %d = %q, want %q", i, got, want)
		}
	}
}

func TestParseTypes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"let x: string[] | null = null", "string[] | null"},
		{"let x: { a: string; b?: number } = o", "{ a: string; b?: number }"},
		{`let x: "a" | "b" = "a"`, `"a" | "b"`},
		{"let x: (number | string)[] = []", "number | string[]"},
	}

	for _, tt := range tests {
		program := parse(t, tt.input)
		let := program.Statements[0].(*LetStatement)
		if got := let.TypeAnnotation.String(); got != tt.expected {
			t.Errorf("%s: expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestInterfaceMembers(t *testing.T) {
	program := parse(t, "interface P { a: string; b?: number, readonly c: { d: boolean } }")
	iface := program.Statements[0].(*InterfaceDeclaration)
	if len(iface.Properties) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(iface.Properties))
	}
	if !iface.Properties[1].Optional {
		t.Errorf("b should be optional")
	}
	if got := iface.Properties[2].Type.String(); got != "{ d: boolean }" {
		t.Errorf("c type = %q", got)
	}
}

func TestReturnLineBreak(t *testing.T) {
	program := parse(t, "function f() {\n    return\n    1\n}")
	fn, _ := program.Statements[0].(*ExpressionStatement).FunctionDeclaration()
	ret := fn.Body.Statements[0].(*ReturnStatement)
	if ret.ReturnValue != nil {
		t.Errorf("return across a line break should return undefined, got %s", ret.ReturnValue)
	}
	if len(fn.Body.Statements) != 2 {
		t.Errorf("expected 2 body statements, got %d", len(fn.Body.Statements))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"class A extends B {}", "inheritance"},
		{"function f(x = 1) {}", "default parameter"},
		{"function f(public x) {}", "parameter property"},
		{"let = 5", "expected next token to be IDENT"},
		{"class A { static x = 1 }", "static"},
		{"let x: Array<string> = []", "generic"},
		{"const x", "must be initialized"},
		{"let s = `open ${a", "expected next token to be }"},
		{"f(1 2)", "expected next token to be )"},
	}

	for _, tt := range tests {
		p := NewParser(lexer.NewLexer(tt.input))
		_, errs := p.ParseProgram()
		if len(errs) == 0 {
			t.Errorf("%s: expected an error", tt.input)
			continue
		}
		if errs[0].Kind() != "Syntax" || !strings.Contains(errs[0].Message(), tt.want) {
			t.Errorf("%s: got %q, want it to contain %q", tt.input, errs[0].Error(), tt.want)
		}
	}
}
