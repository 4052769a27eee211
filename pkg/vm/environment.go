package vm

type bindingKind int

const (
	bindVar bindingKind = iota
	bindLet
	bindConst
	bindClass
	bindFunction
	bindParameter
)

type binding struct {
	value       Value
	kind        bindingKind
	initialized bool // false between block entry and the declaration
}

// Environment is one lexical scope. Function scopes also hold the receiver.
type Environment struct {
	vars     map[string]*binding
	outer    *Environment
	function bool

	this    Value
	hasThis bool
}

// NewEnvironment creates a scope nested in outer. function marks a function
// or program body, where var declarations live.
func NewEnvironment(outer *Environment, function bool) *Environment {
	return &Environment{vars: make(map[string]*binding), outer: outer, function: function}
}

func (e *Environment) declare(name string, kind bindingKind, value Value, initialized bool) *binding {
	if b, exists := e.vars[name]; exists {
		switch kind {
		case bindVar:
			// A repeated var declaration reuses the binding.
		case bindFunction:
			b.value, b.initialized = value, true
		default:
			b.kind, b.value, b.initialized = kind, value, initialized
		}
		return b
	}
	b := &binding{value: value, kind: kind, initialized: initialized}
	e.vars[name] = b
	return b
}

func (e *Environment) lookup(name string) (*binding, bool) {
	for env := e; env != nil; env = env.outer {
		if b, ok := env.vars[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// varScope returns the nearest function scope.
func (e *Environment) varScope() *Environment {
	env := e
	for !env.function && env.outer != nil {
		env = env.outer
	}
	return env
}

// thisValue returns the receiver of the nearest function that has one.
func (e *Environment) thisValue() Value {
	for env := e; env != nil; env = env.outer {
		if env.hasThis {
			return env.this
		}
	}
	return Undefined
}

// Define binds name in this scope as an initialised variable.
func (e *Environment) Define(name string, value Value) {
	b := e.declare(name, bindVar, value, true)
	b.value, b.initialized = value, true
}

// Get returns the value bound to name in this scope or an outer one.
func (e *Environment) Get(name string) (Value, bool) {
	b, ok := e.lookup(name)
	if !ok || !b.initialized {
		return Undefined, false
	}
	return b.value, true
}
