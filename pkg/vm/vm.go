package vm

import (
	"fmt"
	"os"
	"time"

	"tslower/pkg/parser"
	"tslower/pkg/source"
)

const debugInterp = false

func debugPrintf(format string, args ...interface{}) {
	if debugInterp {
		fmt.Printf("[Interp] "+format, args...)
	}
}

// maxCallDepth bounds script recursion.
const maxCallDepth = 1000

// Interpreter evaluates parsed programs directly from the syntax tree. It
// runs both class declarations and their lowered constructor-function form,
// so the two can be compared on the same sinks.
type Interpreter struct {
	realm *Realm

	console     Console
	page        Page
	clock       func() time.Time
	placeholder string

	source *source.SourceFile
	depth  int
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithConsole sends console.log output to c.
func WithConsole(c Console) Option {
	return func(in *Interpreter) { in.console = c }
}

// WithPage sends document.body.textContent writes to p.
func WithPage(p Page) Option {
	return func(in *Interpreter) { in.page = p }
}

// WithClock sets the time source used by Date.
func WithClock(clock func() time.Time) Option {
	return func(in *Interpreter) { in.clock = clock }
}

// WithPlaceholder sets the text an undefined value renders as when it is
// converted to a string.
func WithPlaceholder(placeholder string) Option {
	return func(in *Interpreter) { in.placeholder = placeholder }
}

// New creates an interpreter with a fresh global environment. Without
// options, console output goes to stdout and page text is discarded.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		console:     NewWriterConsole(os.Stdout),
		page:        discardPage{},
		clock:       time.Now,
		placeholder: "undefined",
	}
	for _, opt := range opts {
		opt(in)
	}
	in.realm = newRealm(in)
	return in
}

// Realm returns the interpreter's globals and shared prototypes.
func (in *Interpreter) Realm() *Realm { return in.realm }

// Run executes program top to bottom in the global environment. Globals
// declared by one Run stay visible to the next.
func (in *Interpreter) Run(program *parser.Program) error {
	if program == nil {
		return nil
	}
	in.source = program.Source
	in.depth = 0
	debugPrintf("Run: %d statements\n", len(program.Statements))

	env := in.realm.Globals
	hoistVars(program.Statements, env)
	_, err := in.execBlock(program.Statements, env)
	return err
}

// Call invokes a function value with the given receiver.
func (in *Interpreter) Call(callee Value, this Value, args ...Value) (Value, error) {
	if !callee.IsCallable() {
		return Undefined, in.typeError(nil, "%s is not a function", in.inspect(callee))
	}
	return in.invoke(nil, callee.AsFunction(), this, args, false)
}
