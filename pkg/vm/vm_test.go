package vm

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"tslower/pkg/errors"
	"tslower/pkg/lexer"
	"tslower/pkg/parser"
)

var fixedNow = time.Date(2024, time.January, 2, 3, 4, 5, 0, time.FixedZone("UTC", 0))

const fixedNowString = "Tue Jan 02 2024 03:04:05 GMT+0000 (UTC)"

func parse(t *testing.T, input string) *parser.Program {
	t.Helper()
	program, errs := parser.NewParser(lexer.NewLexer(input)).ParseProgram()
	if len(errs) != 0 {
		for _, err := range errs {
			t.Errorf("parser error: %s", err.Error())
		}
		t.FailNow()
	}
	return program
}

func run(t *testing.T, input string, opts ...Option) (*Recorder, error) {
	t.Helper()
	rec := &Recorder{}
	opts = append([]Option{
		WithConsole(rec),
		WithPage(rec),
		WithClock(func() time.Time { return fixedNow }),
	}, opts...)
	err := New(opts...).Run(parse(t, input))
	return rec, err
}

func mustRun(t *testing.T, input string, opts ...Option) *Recorder {
	t.Helper()
	rec, err := run(t, input, opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return rec
}

const greeterSource = `interface Person {
    firstName: string
    lastName: string
}

class Student {
    fullName: string
    constructor(public firstName: string, public middileInitial: string, public lastName: string) {
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
user.sayHi()
document.body.textContent = greeter(user)
`

const loweredGreeterSource = `var Student = /** @class */ (function () {
    function Student(firstName, middileInitial, lastName) {
        this.firstName = firstName;
        this.middileInitial = middileInitial;
        this.lastName = lastName;
        this.fullName = "".concat(firstName, " ").concat(middileInitial, " ").concat(lastName);
    }
    Student.prototype.sayHi = function () {
        console.log("I'm ".concat(this.fullName));
    };
    return Student;
}());
function greeter(person) {
    return "Hello, ".concat(person.firstName, " ").concat(person.lastName);
}
var user = new Student("Jame", "M.", "User");
user.sayHi();
document.body.textContent = greeter(user);
`

func TestRunGreeter(t *testing.T) {
	for name, input := range map[string]string{"class": greeterSource, "lowered": loweredGreeterSource} {
		t.Run(name, func(t *testing.T) {
			rec := mustRun(t, input)
			if diff := cmp.Diff([]string{"I'm Jame M. User"}, rec.Lines); diff != "" {
				t.Errorf("console mismatch (-want +got):\n%s", diff)
			}
			if !rec.TextSet || rec.Text != "Hello, Jame User" {
				t.Errorf("page text = %q (set %v), want %q", rec.Text, rec.TextSet, "Hello, Jame User")
			}
		})
	}
}

func TestConsoleLog(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`console.log(1, "a", true, null, undefined)`, "1 a true null undefined"},
		{`console.log(0.1 + 0.2)`, "0.30000000000000004"},
		{`console.log(1 / 0, -1 / 0, 2e21, 1e-7)`, "Infinity -Infinity 2e+21 1e-7"},
		{`console.log({})`, "{}"},
		{`console.log({ a: 1, "full name": "x" })`, "{ a: 1, 'full name': 'x' }"},
		{`console.log({ s: "it's" })`, `{ s: "it's" }`},
		{`console.log([1, "two", [3]])`, "[ 1, 'two', [ 3 ] ]"},
		{`console.log([])`, "[]"},
		{`console.log({ a: { b: { c: { d: 1 } } } })`, "{ a: { b: { c: [Object] } } }"},
		{`console.log(function f() {})`, "[Function: f]"},
		{`console.log(function () {})`, "[Function (anonymous)]"},
		{"class A {}\nconsole.log(A)", "[class A]"},
		{"class P { constructor(public x: number, public y: number) {} }\nconsole.log(new P(1, 2))", "P { x: 1, y: 2 }"},
		{"class E {}\nconsole.log(new E())", "E {}"},
		{`console.log(new Date())`, "2024-01-02T03:04:05.000Z"},
		{`console.log(new String("x"))`, "[String: 'x']"},
		{`console.log()`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			rec := mustRun(t, tt.input)
			if len(rec.Lines) != 1 || rec.Lines[0] != tt.expected {
				t.Errorf("got %q, want %q", rec.Lines, tt.expected)
			}
		})
	}
}

const helloSource = `function greet(person: string, date: Date) {
    console.log(` + "`Hello ${person}, today is ${date}`" + `)
}
`

func TestRunHello(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		opts     []Option
		expected string
	}{
		{"date object", helloSource + `greet("wintertwinkle", new Date())`, nil,
			"Hello wintertwinkle, today is " + fixedNowString},
		{"date string", helloSource + `greet("wintertwinkle", Date())`, nil,
			"Hello wintertwinkle, today is " + fixedNowString},
		{"missing argument", helloSource + `greet("wintertwinkle")`, nil,
			"Hello wintertwinkle, today is undefined"},
		{"placeholder", helloSource + `greet("wintertwinkle")`, []Option{WithPlaceholder("<missing>")},
			"Hello wintertwinkle, today is <missing>"},
		{"lowered", `function greet(person, date) {
    console.log("Hello ".concat(person, ", today is ").concat(date));
}
greet("wintertwinkle", new Date());`, nil, "Hello wintertwinkle, today is " + fixedNowString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := mustRun(t, tt.input, tt.opts...)
			if diff := cmp.Diff([]string{tt.expected}, rec.Lines); diff != "" {
				t.Errorf("console mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassConstructionOrder(t *testing.T) {
	input := `class C {
    x = this.a + 1
    y: number
    z = "z"
    constructor(public a: number) {
        this.y = this.x * 2
    }
}
console.log(new C(1))`
	rec := mustRun(t, input)
	if diff := cmp.Diff([]string{"C { a: 1, x: 2, z: 'z', y: 4 }"}, rec.Lines); diff != "" {
		t.Errorf("console mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldInitialiserSeesOuterScope(t *testing.T) {
	input := `let greeting = "hi"
class G {
    text = greeting
}
console.log(new G().text)`
	rec := mustRun(t, input)
	if diff := cmp.Diff([]string{"hi"}, rec.Lines); diff != "" {
		t.Errorf("console mismatch (-want +got):\n%s", diff)
	}
}

func TestMethodsAreShared(t *testing.T) {
	input := `class A {
    m() { return 1 }
}
let a = new A()
let b = new A()
console.log(a.m === b.m, a.hasOwnProperty("m"), a.m())`
	rec := mustRun(t, input)
	if diff := cmp.Diff([]string{"true false 1"}, rec.Lines); diff != "" {
		t.Errorf("console mismatch (-want +got):\n%s", diff)
	}
}

func TestConstructorFunctions(t *testing.T) {
	input := `function P(n) {
    this.n = n
}
P.prototype.get = function () { return this.n }
let p = new P(3)
console.log(p.get(), p)
function F() { return { a: 1 } }
let f = new F()
console.log(f)`
	rec := mustRun(t, input)
	if diff := cmp.Diff([]string{"3 P { n: 3 }", "{ a: 1 }"}, rec.Lines); diff != "" {
		t.Errorf("console mismatch (-want +got):\n%s", diff)
	}
}

func TestStringBuiltins(t *testing.T) {
	input := `console.log("a".concat("b", 1, true))
console.log(String(12), String(), String(null))
console.log(new String("x").concat("y"))
console.log("abc".length, "abc"[1])
console.log("Hi".toUpperCase(), " pad ".trim())`
	rec := mustRun(t, input)
	expected := []string{"ab1true", "12  null", "xy", "3 b", "HI pad"}
	if diff := cmp.Diff(expected, rec.Lines); diff != "" {
		t.Errorf("console mismatch (-want +got):\n%s", diff)
	}
}

func TestScoping(t *testing.T) {
	input := `let x = 1
{
    let x = 2
    console.log(x)
}
console.log(x)
var v = 1
if (true) {
    var v = 2
}
console.log(v)
console.log(hoisted())
function hoisted() { return "ok" }
let counter = function count() { return typeofCount(count) }
function typeofCount(fn) { return fn === counter }
console.log(counter())`
	rec := mustRun(t, input)
	expected := []string{"2", "1", "2", "ok", "true"}
	if diff := cmp.Diff(expected, rec.Lines); diff != "" {
		t.Errorf("console mismatch (-want +got):\n%s", diff)
	}
}

func TestOperators(t *testing.T) {
	input := `console.log(1 + 2 * 3, (1 + 2) * 3, 7 - 10, 1 / 4)
console.log(1 == "1", 1 === "1", null == undefined, null === undefined)
console.log(2 < 10, "2" < "10", !0, -"3")
console.log(0 || "x", 1 && "y", null || undefined)
console.log(1 + "2", [1, 2] + "", {} + "")`
	rec := mustRun(t, input)
	expected := []string{
		"7 9 -3 0.25",
		"true false true false",
		"true false true -3",
		"x y undefined",
		"12 1,2 [object Object]",
	}
	if diff := cmp.Diff(expected, rec.Lines); diff != "" {
		t.Errorf("console mismatch (-want +got):\n%s", diff)
	}
}

func TestPageText(t *testing.T) {
	rec := mustRun(t, `document.body.textContent = "a"
document.body.textContent = 42
document.body.other = "ignored"`)
	if !rec.TextSet || rec.Text != "42" {
		t.Errorf("page text = %q (set %v), want %q", rec.Text, rec.TextSet, "42")
	}

	rec = mustRun(t, `console.log("no page")`)
	if rec.TextSet {
		t.Errorf("page text unexpectedly set to %q", rec.Text)
	}
}

func TestPageTextStoresString(t *testing.T) {
	rec := mustRun(t, `document.body.textContent = {}
console.log(document.body.textContent, document.body.textContent === "[object Object]")
document.body.textContent = null
console.log(document.body.textContent === "")`)
	if diff := cmp.Diff([]string{"[object Object] true", "true"}, rec.Lines); diff != "" {
		t.Errorf("console mismatch (-want +got):\n%s", diff)
	}
	if rec.Text != "" {
		t.Errorf("page text = %q, want empty", rec.Text)
	}
}

func TestPageTextPropagatesConversionError(t *testing.T) {
	rec, err := run(t, `let o = { toString: function () { return {} } }
document.body.textContent = o
console.log("after")`)
	rt, ok := err.(*errors.RuntimeError)
	if !ok {
		t.Fatalf("expected *errors.RuntimeError, got %T: %v", err, err)
	}
	if rt.Message() != "TypeError: Cannot convert object to primitive value" {
		t.Errorf("message = %q", rt.Message())
	}
	if rec.TextSet || len(rec.Lines) != 0 {
		t.Errorf("execution continued: text %q, lines %v", rec.Text, rec.Lines)
	}
}

func TestInspectNegativeZero(t *testing.T) {
	rec := mustRun(t, `console.log(-0, [-0], { z: -0 }, 0, -0 + "")`)
	if diff := cmp.Diff([]string{"-0 [ -0 ] { z: -0 } 0 0"}, rec.Lines); diff != "" {
		t.Errorf("console mismatch (-want +got):\n%s", diff)
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		line     int
	}{
		{"read of undefined", "let o = undefined\no.x", "TypeError: Cannot read properties of undefined (reading 'x')", 2},
		{"write to null", "let o = null\no.x = 1", "TypeError: Cannot set properties of null (setting 'x')", 2},
		{"undeclared name", "console.log(y)", "ReferenceError: y is not defined", 1},
		{"temporal dead zone", "x\nlet x = 1", "ReferenceError: Cannot access 'x' before initialization", 1},
		{"const assignment", "const c = 1\nc = 2", "TypeError: Assignment to constant variable.", 2},
		{"call non-function", "let n = 1\nn()", "TypeError: n is not a function", 2},
		{"call missing method", "let o = {}\no.m()", "TypeError: o.m is not a function", 2},
		{"class without new", "class A {}\nA()", "TypeError: Class constructor A cannot be invoked without 'new'", 2},
		{"new on a string", "let s = \"a\"\nlet v = new s()", "TypeError: s is not a constructor", 2},
		{"new on a native function", "let v = new console.log()", "TypeError: console.log is not a constructor", 1},
		{"runaway recursion", "function f() { return f() }\nf()", "RangeError: Maximum call stack size exceeded", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.input)
			if err == nil {
				t.Fatalf("expected error %q, got none", tt.expected)
			}
			rt, ok := err.(*errors.RuntimeError)
			if !ok {
				t.Fatalf("expected *errors.RuntimeError, got %T: %v", err, err)
			}
			if rt.Message() != tt.expected {
				t.Errorf("message = %q, want %q", rt.Message(), tt.expected)
			}
			if rt.Line != tt.line {
				t.Errorf("line = %d, want %d", rt.Line, tt.line)
			}
		})
	}
}

func TestErrorStopsExecution(t *testing.T) {
	rec, err := run(t, "console.log(\"before\")\nmissing()\nconsole.log(\"after\")")
	if err == nil {
		t.Fatal("expected an error")
	}
	if diff := cmp.Diff([]string{"before"}, rec.Lines); diff != "" {
		t.Errorf("console mismatch (-want +got):\n%s", diff)
	}
}

func TestGlobalsPersistAcrossRuns(t *testing.T) {
	rec := &Recorder{}
	in := New(WithConsole(rec))
	if err := in.Run(parse(t, "var counter = 1")); err != nil {
		t.Fatal(err)
	}
	if err := in.Run(parse(t, "counter = counter + 1\nconsole.log(counter)")); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"2"}, rec.Lines); diff != "" {
		t.Errorf("console mismatch (-want +got):\n%s", diff)
	}
	if v, ok := in.Realm().Globals.Get("counter"); !ok || v.ToFloat() != 2 {
		t.Errorf("counter = %v, %v", v, ok)
	}
}

func TestCall(t *testing.T) {
	in := New(WithConsole(&Recorder{}))
	if err := in.Run(parse(t, "function add(a, b) { return a + b }")); err != nil {
		t.Fatal(err)
	}
	add, _ := in.Realm().Globals.Get("add")
	got, err := in.Call(add, Undefined, NumberValue(2), NumberValue(3))
	if err != nil {
		t.Fatal(err)
	}
	if got.ToFloat() != 5 {
		t.Errorf("add(2, 3) = %s", got.ToString())
	}
	if _, err := in.Call(NewString("nope"), Undefined); err == nil {
		t.Error("expected calling a string to fail")
	}
}

func TestWriterConsole(t *testing.T) {
	var buf bytes.Buffer
	in := New(WithConsole(NewWriterConsole(&buf)))
	if err := in.Run(parse(t, "console.log(\"one\")\nconsole.log(\"two\", 2)")); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "one\ntwo 2\n" {
		t.Errorf("output = %q", got)
	}
}

func TestRunNilProgram(t *testing.T) {
	if err := New().Run(nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
