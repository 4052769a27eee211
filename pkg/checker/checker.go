// Package checker runs the advisory static check over a parsed source unit:
// call arity, argument assignability and structural shapes of interfaces
// and classes. It never changes the program.
package checker

import (
	"fmt"

	"tslower/pkg/errors"
	"tslower/pkg/parser"
	"tslower/pkg/types"
)

const checkerDebug = false

func debugPrintf(format string, args ...interface{}) {
	if checkerDebug {
		fmt.Printf(format, args...)
	}
}

// Checker performs static type checking on the AST.
type Checker struct {
	program *parser.Program // Root AST node
	env     *Environment    // Current value environment
	errors  []errors.Diagnostic

	// Declared type names: interfaces and classes resolve to shapes, aliases
	// are resolved on first use.
	named     map[string]types.Type
	aliases   map[string]parser.TypeNode
	resolving map[string]bool

	// Constructor signatures by class name.
	constructors map[string]*types.Signature

	// Shape of `this` inside the class member being checked, if any.
	currentThis *types.ObjectType
}

// NewChecker creates a new type checker.
func NewChecker() *Checker {
	return &Checker{
		env:       NewGlobalEnvironment(),
		named:     make(map[string]types.Type),
		aliases:   make(map[string]parser.TypeNode),
		resolving: make(map[string]bool),

		constructors: make(map[string]*types.Signature),
	}
}

// Check analyzes the given program AST and returns its diagnostics, each of
// kind Type, in the order they were found.
func (c *Checker) Check(program *parser.Program) []errors.Diagnostic {
	c.program = program
	c.errors = nil
	if program == nil {
		return nil
	}

	c.collectTypeDeclarations(program.Statements)
	c.checkBlock(program.Statements)

	for _, err := range c.errors {
		if te, ok := err.(*errors.TypeError); ok && te.Source == nil {
			te.Source = program.Source
		}
	}
	return c.errors
}

// Check runs a fresh Checker over program.
func Check(program *parser.Program) []errors.Diagnostic {
	return NewChecker().Check(program)
}
