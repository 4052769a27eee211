package parser

import (
	"fmt"
	"io"
	"os"
)

// DumpASTEnabled turns on AST dumps from the driver.
var DumpASTEnabled = false

// DumpAST prints one line per top-level statement of program to stdout when
// DumpASTEnabled is set.
func DumpAST(program *Program, title string) {
	if !DumpASTEnabled || program == nil {
		return
	}
	FprintAST(os.Stdout, program, title)
}

// FprintAST writes the statement-level dump of program to w.
func FprintAST(w io.Writer, program *Program, title string) {
	fmt.Fprintf(w, "--- AST (%s) ---\n", title)
	for i, stmt := range program.Statements {
		fmt.Fprintf(w, "%3d %-22T %s\n", i, stmt, stmt.String())
	}
	fmt.Fprintln(w, "---")
}
