package driver

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/go-cmp/cmp"

	"tslower/pkg/checker"
	"tslower/pkg/errors"
	"tslower/pkg/lexer"
	"tslower/pkg/lower"
	"tslower/pkg/parser"
	"tslower/pkg/source"
	"tslower/pkg/vm"
)

const debugDriver = false

func debugPrintf(format string, args ...interface{}) {
	if debugDriver {
		fmt.Printf(format, args...)
	}
}

// DiagnosticsError carries the diagnostics that stopped a driver operation.
type DiagnosticsError struct {
	Diagnostics []errors.Diagnostic
}

func (e *DiagnosticsError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = d.Error()
	}
	return strings.Join(msgs, "\n")
}

// Unwrap exposes the first diagnostic to errors.As.
func (e *DiagnosticsError) Unwrap() error {
	if len(e.Diagnostics) == 0 {
		return nil
	}
	return e.Diagnostics[0]
}

// ReadSource loads a source file from disk.
func ReadSource(path string) (*source.SourceFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return source.FromFile(path, string(content)), nil
}

// Parse parses src into a program.
func Parse(src *source.SourceFile) (*parser.Program, []errors.Diagnostic) {
	p := parser.NewParser(lexer.NewLexerWithSource(src))
	program, errs := p.ParseProgram()
	if len(errs) > 0 {
		return nil, errs
	}
	parser.DumpAST(program, src.DisplayPath())
	return program, nil
}

// Result is the output of Compile.
type Result struct {
	Program    *parser.Program
	Lowered    *parser.Program
	JavaScript string
	// Diagnostics holds advisory check findings that did not stop lowering.
	Diagnostics []errors.Diagnostic
}

// Compile parses src, runs the static check when enabled, lowers the
// program and emits JavaScript. Syntax errors, malformed input, and check
// findings under check.strict are returned as errors.
func Compile(src *source.SourceFile, cfg *Config) (*Result, []errors.Diagnostic) {
	cfg = orDefault(cfg)
	if cfg.Debug.AST {
		parser.DumpASTEnabled = true
	}

	program, errs := Parse(src)
	if len(errs) > 0 {
		return nil, errs
	}
	result := &Result{Program: program}

	if cfg.Check.Enabled {
		result.Diagnostics = checker.Check(program)
		debugPrintf("// [Driver] check reported %d diagnostics\n", len(result.Diagnostics))
		if cfg.Check.Strict && len(result.Diagnostics) > 0 {
			return nil, result.Diagnostics
		}
	}

	lowered, err := lower.Lower(program)
	if err != nil {
		return nil, []errors.Diagnostic{asDiagnostic(err)}
	}
	result.Lowered = lowered
	result.JavaScript = cfg.emitter().Emit(lowered)
	parser.DumpAST(lowered, "lowered")
	return result, nil
}

func asDiagnostic(err error) errors.Diagnostic {
	if d, ok := err.(errors.Diagnostic); ok {
		return d
	}
	return &errors.MalformedInputError{Msg: err.Error(), Cause: err}
}

// Sinks are the observable outputs of a run. Nil fields use the
// interpreter defaults.
type Sinks struct {
	Console vm.Console
	Page    vm.Page
}

// RunNative executes program as written, with class semantics.
func RunNative(program *parser.Program, cfg *Config, sinks Sinks) error {
	return orDefault(cfg).Interpreter(sinks).Run(program)
}

// RunLowered lowers program, emits it, parses the emitted JavaScript back
// and executes that.
func RunLowered(program *parser.Program, cfg *Config, sinks Sinks) error {
	cfg = orDefault(cfg)
	lowered, err := lower.Lower(program)
	if err != nil {
		return err
	}
	reparsed, err := reparse(program, cfg.emitter().Emit(lowered))
	if err != nil {
		return err
	}
	return cfg.Interpreter(sinks).Run(reparsed)
}

func reparse(program *parser.Program, js string) (*parser.Program, error) {
	name, path := "<lowered>", ""
	if src := program.Source; src != nil {
		path = src.OutputPath()
		name = path
	}
	emitted, errs := Parse(source.NewSourceFile(name, path, js))
	if len(errs) > 0 {
		return nil, &errors.RuntimeError{
			Msg:   "Internal Error: emitted JavaScript does not parse: " + errs[0].Error(),
			Cause: errs[0],
		}
	}
	return emitted, nil
}

// Comparison records what the class form and the lowered form of one
// program did.
type Comparison struct {
	Native  *vm.Recorder
	Lowered *vm.Recorder

	NativeError  string
	LoweredError string

	// ConsoleDiff and PageDiff are empty when the two runs agree.
	ConsoleDiff string
	PageDiff    string
}

// Equal reports whether both runs produced the same console lines, the same
// page text and the same failure, if any.
func (c *Comparison) Equal() bool {
	return c.ConsoleDiff == "" && c.PageDiff == "" && c.NativeError == c.LoweredError
}

// Report describes every difference between the runs.
func (c *Comparison) Report() string {
	if c.Equal() {
		return "native and lowered runs agree"
	}
	var b strings.Builder
	if c.ConsoleDiff != "" {
		fmt.Fprintf(&b, "console output differs (-native +lowered):\n%s", c.ConsoleDiff)
	}
	if c.PageDiff != "" {
		fmt.Fprintf(&b, "page text differs (-native +lowered):\n%s", c.PageDiff)
	}
	if c.NativeError != c.LoweredError {
		fmt.Fprintf(&b, "errors differ:\n  native:  %s\n  lowered: %s\n", c.NativeError, c.LoweredError)
	}
	return b.String()
}

type pageState struct {
	Text string
	Set  bool
}

// RoundTrip runs src natively and in lowered form against separate
// recorders and compares what they observed. Runtime failures are part of
// the comparison; parse and lowering failures are returned as errors.
func RoundTrip(src *source.SourceFile, cfg *Config) (*Comparison, error) {
	cfg = orDefault(cfg)
	program, errs := Parse(src)
	if len(errs) > 0 {
		return nil, &DiagnosticsError{Diagnostics: errs}
	}
	lowered, err := lower.Lower(program)
	if err != nil {
		return nil, &DiagnosticsError{Diagnostics: []errors.Diagnostic{asDiagnostic(err)}}
	}
	reparsed, err := reparse(program, cfg.emitter().Emit(lowered))
	if err != nil {
		return nil, err
	}

	cmpResult := &Comparison{Native: &vm.Recorder{}, Lowered: &vm.Recorder{}}
	if err := cfg.Interpreter(Sinks{Console: cmpResult.Native, Page: cmpResult.Native}).Run(program); err != nil {
		cmpResult.NativeError = messageOf(err)
	}
	if err := cfg.Interpreter(Sinks{Console: cmpResult.Lowered, Page: cmpResult.Lowered}).Run(reparsed); err != nil {
		cmpResult.LoweredError = messageOf(err)
	}

	cmpResult.ConsoleDiff = cmp.Diff(cmpResult.Native.Lines, cmpResult.Lowered.Lines)
	cmpResult.PageDiff = cmp.Diff(
		pageState{cmpResult.Native.Text, cmpResult.Native.TextSet},
		pageState{cmpResult.Lowered.Text, cmpResult.Lowered.TextSet},
	)
	debugPrintf("// [Driver] round trip equal=%v\n", cmpResult.Equal())
	return cmpResult, nil
}

func messageOf(err error) string {
	if d, ok := err.(errors.Diagnostic); ok {
		return d.Message()
	}
	return err.Error()
}

// WriteJavaScriptFile compiles the TypeScript file at inputPath and writes
// the JavaScript to outputPath, or next to the input with a .js extension
// when outputPath is empty. It returns the path written.
func WriteJavaScriptFile(inputPath, outputPath string, cfg *Config) (string, error) {
	src, err := ReadSource(inputPath)
	if err != nil {
		return "", err
	}
	result, errs := Compile(src, cfg)
	if len(errs) > 0 {
		return "", &DiagnosticsError{Diagnostics: errs}
	}
	if outputPath == "" {
		outputPath = src.OutputPath()
	}
	if err := os.WriteFile(outputPath, []byte(result.JavaScript), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", outputPath, err)
	}
	return outputPath, nil
}
