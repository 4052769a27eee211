package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tslower/pkg/errors"
	"tslower/pkg/parser"
	"tslower/pkg/source"
	"tslower/pkg/vm"
)

func readTestdata(t *testing.T, name string) *source.SourceFile {
	t.Helper()
	src, err := ReadSource(filepath.Join("testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	return src
}

func golden(t *testing.T, name string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	return string(content)
}

func mustParse(t *testing.T, input string) *parser.Program {
	t.Helper()
	program, errs := Parse(source.NewEvalSource(input))
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	return program
}

func pinnedConfig() *Config {
	cfg := DefaultConfig()
	cfg.Runtime.Clock = "2024-01-02T03:04:05Z"
	return cfg
}

func TestCompileGolden(t *testing.T) {
	for _, name := range []string{"greeter", "hello"} {
		t.Run(name, func(t *testing.T) {
			result, errs := Compile(readTestdata(t, name+".ts"), nil)
			if len(errs) > 0 {
				t.Fatalf("unexpected diagnostics: %v", errs)
			}
			if diff := cmp.Diff(golden(t, name+".js"), result.JavaScript); diff != "" {
				t.Errorf("emitted JavaScript mismatch (-want +got):\n%s", diff)
			}
			if len(result.Diagnostics) != 0 {
				t.Errorf("unexpected check findings: %v", result.Diagnostics)
			}
		})
	}
}

const helloFunction = `function greet(person: string, date: Date) {
    console.log(` + "`Hello ${person}, today is ${date}`" + `)
}
`

func TestCompileCheckIsAdvisory(t *testing.T) {
	tests := []struct {
		call    string
		message string
	}{
		{`greet("wintertwinkle")`, "Expected 2 arguments, but got 1."},
		{`greet("wintertwinkle", Date())`, "Argument of type 'string' is not assignable to parameter of type 'Date'."},
	}
	for _, tt := range tests {
		t.Run(tt.call, func(t *testing.T) {
			src := source.NewEvalSource(helloFunction + tt.call)

			result, errs := Compile(src, nil)
			if len(errs) > 0 {
				t.Fatalf("advisory check should not fail compilation: %v", errs)
			}
			if len(result.Diagnostics) != 1 || result.Diagnostics[0].Message() != tt.message {
				t.Fatalf("diagnostics = %v, want %q", result.Diagnostics, tt.message)
			}
			if !strings.Contains(result.JavaScript, tt.call+";") {
				t.Errorf("call missing from output:\n%s", result.JavaScript)
			}

			strict := DefaultConfig()
			strict.Check.Strict = true
			if _, errs := Compile(src, strict); len(errs) != 1 || errs[0].Kind() != "Type" {
				t.Errorf("strict compile errors = %v, want one type diagnostic", errs)
			}

			disabled := DefaultConfig()
			disabled.Check.Enabled = false
			result, errs = Compile(src, disabled)
			if len(errs) > 0 || len(result.Diagnostics) > 0 {
				t.Errorf("disabled check still reported %v %v", errs, result.Diagnostics)
			}
		})
	}
}

func TestCompileKeepsLiteralText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"let s = \"cafe\u0301\"", "var s = \"cafe\u0301\";\n"},
		{"let s = \"caf\u00e9\"", "var s = \"caf\u00e9\";\n"},
		{"let s = \"a\u2028b\x0bc\"", "var s = \"a\\u2028b\\vc\";\n"},
		{"let s = \"\\u0041\\x41\"", "var s = \"AA\";\n"},
	}
	for _, tt := range tests {
		result, errs := Compile(source.NewEvalSource(tt.input), nil)
		if len(errs) > 0 {
			t.Fatalf("%q: %v", tt.input, errs)
		}
		if result.JavaScript != tt.want {
			t.Errorf("%q lowered to %q, want %q", tt.input, result.JavaScript, tt.want)
		}
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  string
	}{
		{"syntax", "let = 1", "Syntax"},
		{"malformed", "class A { x = missing }", "Malformed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, errs := Compile(source.NewEvalSource(tt.input), nil)
			if result != nil {
				t.Errorf("expected no result, got %+v", result)
			}
			if len(errs) == 0 || errs[0].Kind() != tt.kind {
				t.Fatalf("errors = %v, want kind %s", errs, tt.kind)
			}
		})
	}
}

func TestRunNativeAndLowered(t *testing.T) {
	src := readTestdata(t, "greeter.ts")
	program, errs := Parse(src)
	if len(errs) > 0 {
		t.Fatal(errs)
	}

	native := &vm.Recorder{}
	if err := RunNative(program, nil, Sinks{Console: native, Page: native}); err != nil {
		t.Fatal(err)
	}
	lowered := &vm.Recorder{}
	if err := RunLowered(program, nil, Sinks{Console: lowered, Page: lowered}); err != nil {
		t.Fatal(err)
	}
	for name, rec := range map[string]*vm.Recorder{"native": native, "lowered": lowered} {
		if rec.Text != "Hello, Jame User" {
			t.Errorf("%s page text = %q", name, rec.Text)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		src     *source.SourceFile
		console []string
		page    string
	}{
		{"greeter", readTestdata(t, "greeter.ts"), nil, "Hello, Jame User"},
		{"hello", readTestdata(t, "hello.ts"), []string{
			"Hello world!",
			"Hello wintertwinkle, today is Tue Jan 02 2024 03:04:05 GMT+0000 (UTC)",
		}, ""},
		{"missing argument", source.NewEvalSource(helloFunction + `greet("wintertwinkle")`),
			[]string{"Hello wintertwinkle, today is undefined"}, ""},
		{"field order", source.NewEvalSource(`class T {
    x = "X"
    y: string
    z = "Z"
    constructor() { this.y = "Y" }
}
let t = new T()
console.log(t.x, t.y, t.z)
console.log(t)`), []string{"X Y Z", "T { x: 'X', z: 'Z', y: 'Y' }"}, ""},
		{"shared method", source.NewEvalSource(`class Student {
    fullName: string
    constructor(public first: string) { this.fullName = first + " M. User" }
    sayHi() { console.log(` + "`I'm ${this.fullName}`" + `) }
}
let a = new Student("Jame")
let b = new Student("Jane")
a.sayHi()
b.sayHi()
console.log(a.sayHi === b.sayHi)`), []string{"I'm Jame M. User", "I'm Jane M. User", "true"}, ""},
		{"renamed block bindings", source.NewEvalSource(`let x = 1
{
    let x = 2
    console.log(x)
}
console.log(x)`), []string{"2", "1"}, ""},
		{"escaped literals", source.NewEvalSource("let s = \"a b\x0bc\"\n" +
			`console.log(s.length, s === "a b\vc", s === "a\u{2028}b\x0Bc")` + "\n" +
			`console.log("\u0041", "\x41", ` + "`\\u{42}\\x43`)"),
			[]string{"5 true true", "A A BC"}, ""},
		{"line continuation", source.NewEvalSource("console.log(\"one \\\ntwo\", `three \\\nfour`)"),
			[]string{"one two three four"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := RoundTrip(tt.src, pinnedConfig())
			if err != nil {
				t.Fatal(err)
			}
			if !result.Equal() {
				t.Fatalf("runs differ:\n%s", result.Report())
			}
			if diff := cmp.Diff(tt.console, result.Native.Lines); diff != "" {
				t.Errorf("console mismatch (-want +got):\n%s", diff)
			}
			if result.Native.Text != tt.page {
				t.Errorf("page text = %q, want %q", result.Native.Text, tt.page)
			}
		})
	}
}

func TestRoundTripComparesFailures(t *testing.T) {
	result, err := RoundTrip(source.NewEvalSource("console.log(\"a\")\nlet o = undefined\no.x"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Equal() {
		t.Fatalf("runs differ:\n%s", result.Report())
	}
	want := "TypeError: Cannot read properties of undefined (reading 'x')"
	if result.NativeError != want {
		t.Errorf("native error = %q, want %q", result.NativeError, want)
	}
}

func TestRoundTripReportsDifferences(t *testing.T) {
	c := &Comparison{
		Native:       &vm.Recorder{Lines: []string{"a"}},
		Lowered:      &vm.Recorder{Lines: []string{"b"}},
		ConsoleDiff:  cmp.Diff([]string{"a"}, []string{"b"}),
		NativeError:  "",
		LoweredError: "boom",
	}
	if c.Equal() {
		t.Fatal("expected the comparison to differ")
	}
	report := c.Report()
	for _, want := range []string{"console output differs", "errors differ", "boom"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestRoundTripMalformed(t *testing.T) {
	_, err := RoundTrip(source.NewEvalSource("class A { x = missing }"), nil)
	var malformed *errors.MalformedInputError
	diag, ok := err.(*DiagnosticsError)
	if !ok || len(diag.Diagnostics) != 1 {
		t.Fatalf("err = %v, want a DiagnosticsError", err)
	}
	if malformed, ok = diag.Diagnostics[0].(*errors.MalformedInputError); !ok || malformed.Identifier != "missing" {
		t.Errorf("diagnostic = %v, want malformed input naming 'missing'", diag.Diagnostics[0])
	}
}

func TestWriteJavaScriptFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "greeter.ts")
	if err := os.WriteFile(input, []byte(golden(t, "greeter.ts")), 0644); err != nil {
		t.Fatal(err)
	}

	written, err := WriteJavaScriptFile(input, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "greeter.js"); written != want {
		t.Errorf("written to %s, want %s", written, want)
	}
	content, err := os.ReadFile(written)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(golden(t, "greeter.js"), string(content)); diff != "" {
		t.Errorf("written JavaScript mismatch (-want +got):\n%s", diff)
	}

	explicit := filepath.Join(dir, "out.js")
	if written, err = WriteJavaScriptFile(input, explicit, nil); err != nil || written != explicit {
		t.Errorf("explicit output: %s, %v", written, err)
	}

	if _, err := WriteJavaScriptFile(filepath.Join(dir, "missing.ts"), "", nil); err == nil {
		t.Error("expected an error for a missing input")
	}
}
