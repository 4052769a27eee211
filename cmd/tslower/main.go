package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"tslower/pkg/checker"
	"tslower/pkg/driver"
	"tslower/pkg/errors"
	"tslower/pkg/parser"
	"tslower/pkg/source"
	"tslower/pkg/vm"
)

const (
	exitUsage    = 64 // command line usage error
	exitInput    = 65 // malformed input or diagnostics
	exitInternal = 70 // internal software or runtime error
)

func main() {
	exprFlag := flag.String("e", "", "Lower the given source text instead of a file")
	emitJSFlag := flag.Bool("js", false, "Write the lowered JavaScript next to the input file")
	jsOutputFile := flag.String("o", "", "Output file for JavaScript emission (default: input file with .js extension)")
	runFlag := flag.Bool("run", false, "Execute the source natively")
	loweredFlag := flag.Bool("lowered", false, "Execute the lowered JavaScript")
	compareFlag := flag.Bool("compare", false, "Execute both forms and compare console output and page text")
	checkFlag := flag.Bool("check", false, "Run the static check only")
	configFlag := flag.String("config", "", "YAML configuration file")
	astDumpFlag := flag.Bool("ast", false, "Show AST dump of the source and the lowered program")
	workersFlag := flag.Int("workers", 0, "Number of files lowered concurrently with -js (default: one per CPU)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tslower [flags] <input.ts | ->\n       tslower [flags] -e \"source\"\n       tslower -js [flags] <file.ts | dir>...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := driver.DefaultConfig()
	if *configFlag != "" {
		loaded, err := driver.LoadConfig(*configFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitUsage)
		}
		cfg = loaded
	}
	if *astDumpFlag {
		cfg.Debug.AST = true
	}
	parser.DumpASTEnabled = cfg.Debug.AST

	if *emitJSFlag && *exprFlag == "" && isBatch(flag.Args()) {
		if *jsOutputFile != "" {
			fmt.Fprintln(os.Stderr, "-o cannot be used with several inputs")
			os.Exit(exitUsage)
		}
		os.Exit(lowerBatch(flag.Args(), cfg, *workersFlag))
	}

	src, err := readInput(*exprFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(exitUsage)
	}

	switch {
	case *checkFlag:
		os.Exit(check(src))
	case *compareFlag:
		os.Exit(compare(src, cfg))
	case *runFlag, *loweredFlag:
		os.Exit(run(src, cfg, *loweredFlag))
	case *emitJSFlag && src.IsFile():
		os.Exit(writeJavaScript(src, *jsOutputFile, cfg))
	default:
		os.Exit(printJavaScript(src, *jsOutputFile, cfg))
	}
}

func readInput(expr string) (*source.SourceFile, error) {
	if expr != "" {
		if flag.NArg() > 0 {
			return nil, fmt.Errorf("cannot use -e together with an input file")
		}
		return source.NewEvalSource(expr), nil
	}
	if flag.NArg() != 1 {
		return nil, fmt.Errorf("expected exactly one input file")
	}
	if flag.Arg(0) == "-" {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return source.NewStdinSource(string(content)), nil
	}
	return driver.ReadSource(flag.Arg(0))
}

func display(src *source.SourceFile, diags []errors.Diagnostic) {
	errors.DisplayErrors(os.Stderr, src.Content, diags)
}

func check(src *source.SourceFile) int {
	program, errs := driver.Parse(src)
	if len(errs) > 0 {
		display(src, errs)
		return exitInput
	}
	if diags := checker.Check(program); len(diags) > 0 {
		display(src, diags)
		return exitInput
	}
	return 0
}

func compile(src *source.SourceFile, cfg *driver.Config) (*driver.Result, bool) {
	result, errs := driver.Compile(src, cfg)
	if len(errs) > 0 {
		display(src, errs)
		return nil, false
	}
	// Advisory findings are reported but do not stop emission.
	display(src, result.Diagnostics)
	return result, true
}

func printJavaScript(src *source.SourceFile, output string, cfg *driver.Config) int {
	result, ok := compile(src, cfg)
	if !ok {
		return exitInput
	}
	if output == "" {
		fmt.Print(result.JavaScript)
		return 0
	}
	if err := os.WriteFile(output, []byte(result.JavaScript), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JavaScript file: %s\n", err)
		return exitInternal
	}
	return 0
}

func writeJavaScript(src *source.SourceFile, output string, cfg *driver.Config) int {
	result, ok := compile(src, cfg)
	if !ok {
		return exitInput
	}
	if output == "" {
		output = src.OutputPath()
	}
	if err := os.WriteFile(output, []byte(result.JavaScript), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JavaScript file: %s\n", err)
		return exitInternal
	}
	fmt.Printf("JavaScript code written to %s\n", output)
	return 0
}

func run(src *source.SourceFile, cfg *driver.Config, lowered bool) int {
	program, errs := driver.Parse(src)
	if len(errs) > 0 {
		display(src, errs)
		return exitInput
	}
	page := &vm.Recorder{}
	sinks := driver.Sinks{Console: vm.NewWriterConsole(os.Stdout), Page: page}

	var err error
	if lowered {
		err = driver.RunLowered(program, cfg, sinks)
	} else {
		err = driver.RunNative(program, cfg, sinks)
	}
	if page.TextSet {
		fmt.Printf("[document.body] %s\n", page.Text)
	}
	if err != nil {
		if d, ok := err.(errors.Diagnostic); ok {
			if d.Kind() == "Malformed" {
				display(src, []errors.Diagnostic{d})
				return exitInput
			}
			fmt.Fprintf(os.Stderr, "%s Error: %s\n", d.Kind(), d.Message())
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return exitInternal
	}
	return 0
}

func compare(src *source.SourceFile, cfg *driver.Config) int {
	result, err := driver.RoundTrip(src, cfg)
	if err != nil {
		if diags, ok := err.(*driver.DiagnosticsError); ok {
			display(src, diags.Diagnostics)
			return exitInput
		}
		fmt.Fprintln(os.Stderr, err)
		return exitInternal
	}
	fmt.Println(result.Report())
	if !result.Equal() {
		return exitInternal
	}
	return 0
}
