package checker

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"tslower/pkg/lexer"
	"tslower/pkg/parser"
)

const helloSource = `console.log("Hello world!")

function greet(person: string, date: Date) {
    console.log(` + "`Hello ${person}, today is ${date}`" + `)
}
`

const greeterDecls = `interface Person {
    firstName: string
    lastName: string
}

class Student {
    fullName: string
    constructor(public firstName: string, public middileInitial: string, public lastName: string) {
        this.fullName = firstName + " " + lastName
    }
    sayHi() { console.log(this.fullName) }
}

function greeter(person: Person) {
    return "Hello, " + person.firstName + " " + person.lastName
}
`

func messages(t *testing.T, input string) []string {
	t.Helper()
	program, errs := parser.NewParser(lexer.NewLexer(input)).ParseProgram()
	if len(errs) != 0 {
		t.Fatalf("parser error: %v", errs[0])
	}
	var out []string
	for _, diag := range Check(program) {
		if diag.Kind() != "Type" {
			t.Errorf("diagnostic kind = %q, want Type", diag.Kind())
		}
		out = append(out, diag.Message())
	}
	return out
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"hello is clean", helloSource + `greet("wintertwinkle", new Date())`, nil},
		{
			"missing argument",
			helloSource + `greet("wintertwinkle")`,
			[]string{"Expected 2 arguments, but got 1."},
		},
		{
			"calling Date returns a string",
			helloSource + `greet("wintertwinkle", Date())`,
			[]string{"Argument of type 'string' is not assignable to parameter of type 'Date'."},
		},
		{"greeter is clean", greeterDecls + `let user = new Student("Jame", "M.", "User")
document.body.textContent = greeter(user)`, nil},
		{
			"object literal missing a property",
			greeterDecls + `greeter({ firstName: "a" })`,
			[]string{"Property 'lastName' is missing in type '{ firstName: string; }' but required in type 'Person'."},
		},
		{
			"class missing a property",
			greeterDecls + `class Dog { constructor(public name: string) {} }
greeter(new Dog("rex"))`,
			[]string{"Property 'firstName' is missing in type 'Dog' but required in type 'Person'."},
		},
		{
			"constructor arity",
			greeterDecls + `let s = new Student("a")`,
			[]string{"Expected 3 arguments, but got 1."},
		},
		{
			"too many arguments",
			"function f(a: number) {}\nf(1, 2)",
			[]string{"Expected 1 arguments, but got 2."},
		},
		{
			"optional parameter range",
			"function f(a: number, b?: string) {}\nf()\nf(1)\nf(1, \"x\")",
			[]string{"Expected 1-2 arguments, but got 0."},
		},
		{
			"method argument",
			"class A { m(x: number) {} }\nlet a = new A()\na.m(\"s\")",
			[]string{"Argument of type 'string' is not assignable to parameter of type 'number'."},
		},
		{
			"method on this",
			"class A {\n    m(x: number) {}\n    n() { this.m(true) }\n}",
			[]string{"Argument of type 'boolean' is not assignable to parameter of type 'number'."},
		},
		{
			"declaration initialiser",
			"let n: number = \"s\"\nconst p: string | number = true",
			[]string{"Type 'string' is not assignable to type 'number'.", "Type 'boolean' is not assignable to type 'string | number'."},
		},
		{
			"class called without new",
			"class A {}\nA()",
			[]string{"Value of type 'typeof A' is not callable. Did you mean to include 'new'?"},
		},
		{
			"alias to shape",
			"type Named = { name: string }\nfunction hi(n: Named) {}\nhi({ name: 1 })",
			[]string{"Argument of type '{ name: number; }' is not assignable to parameter of type '{ name: string; }'. Types of property 'name' are incompatible."},
		},
		{
			"function expression variable",
			"let twice = function (n: number) { return n * 2 }\ntwice()",
			[]string{"Expected 1 arguments, but got 0."},
		},
		{
			"shadowed host name",
			"function f() {\n    let Date = function (s: string) {}\n    Date(1)\n}",
			[]string{"Argument of type 'number' is not assignable to parameter of type 'string'."},
		},
		{"untyped parameters accept anything", "function f(a, b) {}\nf(1, \"x\")", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.expected, messages(t, tt.input)); diff != "" {
				t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCheckPositions(t *testing.T) {
	input := helloSource + `greet("wintertwinkle")
greet("wintertwinkle", Date())`
	program, errs := parser.NewParser(lexer.NewLexer(input)).ParseProgram()
	if len(errs) != 0 {
		t.Fatalf("parser error: %v", errs[0])
	}
	diags := Check(program)
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d: %v", len(diags), diags)
	}
	if pos := diags[0].Pos(); pos.Line != 6 || pos.Column != 1 {
		t.Errorf("arity diagnostic at %d:%d, want 6:1", pos.Line, pos.Column)
	}
	if pos := diags[1].Pos(); pos.Line != 7 || pos.Column != 24 {
		t.Errorf("argument diagnostic at %d:%d, want 7:24", pos.Line, pos.Column)
	}
}

func TestCheckNilProgram(t *testing.T) {
	if diags := Check(nil); len(diags) != 0 {
		t.Errorf("expected no diagnostics, got %v", diags)
	}
}
