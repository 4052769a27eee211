package errors

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/width"
)

// Diagnostic is the interface implemented by all tslower errors.
type Diagnostic interface {
	error
	Pos() Position
	Kind() string // "Syntax", "Malformed", "Type", "Runtime"
	// Message returns the specific error message without position info.
	Message() string
	Unwrap() error
}

// --- Concrete Error Types ---

// SyntaxError represents an error during lexing or parsing.
type SyntaxError struct {
	Position
	Msg   string
	Cause error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Syntax Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *SyntaxError) Pos() Position   { return e.Position }
func (e *SyntaxError) Kind() string    { return "Syntax" }
func (e *SyntaxError) Message() string { return e.Msg }
func (e *SyntaxError) Unwrap() error   { return e.Cause }
func (e *SyntaxError) CausedBy(cause error) *SyntaxError {
	e.Cause = cause
	return e
}

// MalformedInputError is raised by the lowering pass for an unresolved
// identifier or a structurally invalid declaration. Lowering aborts on the
// first one and produces no output.
type MalformedInputError struct {
	Position
	Identifier string // The offending name
	Msg        string
	Cause      error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("Malformed Input at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *MalformedInputError) Pos() Position   { return e.Position }
func (e *MalformedInputError) Kind() string    { return "Malformed" }
func (e *MalformedInputError) Message() string { return e.Msg }
func (e *MalformedInputError) Unwrap() error   { return e.Cause }
func (e *MalformedInputError) CausedBy(cause error) *MalformedInputError {
	e.Cause = cause
	return e
}

// TypeError represents a diagnostic from the optional static check.
type TypeError struct {
	Position
	Msg   string
	Cause error
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("Type Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *TypeError) Pos() Position   { return e.Position }
func (e *TypeError) Kind() string    { return "Type" }
func (e *TypeError) Message() string { return e.Msg }
func (e *TypeError) Unwrap() error   { return e.Cause }
func (e *TypeError) CausedBy(cause error) *TypeError {
	e.Cause = cause
	return e
}

// RuntimeError represents an error during execution of a unit.
type RuntimeError struct {
	// Position points at the start of the operation that failed.
	Position
	Msg   string
	Cause error
}

func (e *RuntimeError) Error() string {
	if e.IsZero() {
		return fmt.Sprintf("Runtime Error: %s", e.Msg)
	}
	return fmt.Sprintf("Runtime Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *RuntimeError) Pos() Position   { return e.Position }
func (e *RuntimeError) Kind() string    { return "Runtime" }
func (e *RuntimeError) Message() string { return e.Msg }
func (e *RuntimeError) Unwrap() error   { return e.Cause }
func (e *RuntimeError) CausedBy(cause error) *RuntimeError {
	e.Cause = cause
	return e
}

// --- Error Reporting ---

// DisplayErrors writes a list of diagnostics to w in a user-friendly format,
// including the source line and a position marker.
func DisplayErrors(w io.Writer, source string, errs []Diagnostic) {
	if len(errs) == 0 {
		return
	}

	lines := strings.Split(source, "\n")
	paint := painter(w)

	for _, err := range errs {
		pos := err.Pos()
		kind := err.Kind()
		msg := err.Message()

		name := ""
		if pos.Source != nil {
			name = pos.Source.DisplayPath() + ":"
		}

		lineIdx := pos.Line - 1
		if lineIdx < 0 || lineIdx >= len(lines) {
			fmt.Fprintf(w, "%s%s: %s\n", name, paint(colorHeader, kind+" Error"), msg)
			continue
		}

		sourceLine := strings.TrimRight(lines[lineIdx], "\r\n\t ")

		// Format: <file>:<Kind> Error at <Line>:<Column>: <Message>
		fmt.Fprintf(w, "%s%s: %s\n", name, paint(colorHeader, fmt.Sprintf("%s Error at %d:%d", kind, pos.Line, pos.Column)), msg)
		fmt.Fprintf(w, "  %s\n", sourceLine)

		// Columns count bytes; the marker is laid out in terminal cells.
		col := pos.Column - 1
		if col < 0 {
			col = 0
		}
		var marker string
		if col <= len(sourceLine) {
			marker = padding(sourceLine[:col]) + "^"
		} else {
			marker = padding(sourceLine) + strings.Repeat(" ", col-len(sourceLine)) + "^"
		}
		if span := pos.EndPos - pos.StartPos; span > 1 && col+span <= len(sourceLine) {
			if cells := displayWidth(sourceLine[col : col+span]); cells > 1 {
				marker += strings.Repeat("~", cells-1)
			}
		}
		fmt.Fprintf(w, "  %s\n", paint(colorMarker, marker))
		fmt.Fprintln(w)
	}
}

// padding returns blanks covering prefix on a terminal. Tabs are kept so
// the marker lines up however the terminal expands them.
func padding(prefix string) string {
	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runeWidth(r)))
	}
	return sb.String()
}

func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		n += runeWidth(r)
	}
	return n
}

// runeWidth is the number of terminal cells r occupies: two for East Asian
// wide and fullwidth characters, none for combining marks.
func runeWidth(r rune) int {
	if unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Me, r) {
		return 0
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

const (
	colorHeader = "\x1b[1;31m"
	colorMarker = "\x1b[31m"
	colorReset  = "\x1b[0m"
)

// painter returns a function that wraps text in an ANSI colour when w is a
// terminal and NO_COLOR is unset, and returns it unchanged otherwise.
func painter(w io.Writer) func(color, text string) string {
	plain := func(_, text string) string { return text }
	f, ok := w.(*os.File)
	if !ok || os.Getenv("NO_COLOR") != "" {
		return plain
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return plain
	}
	return func(color, text string) string { return color + text + colorReset }
}
