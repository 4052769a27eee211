package checker

import (
	"tslower/pkg/types"
)

// SymbolInfo is what the checker knows about a value binding.
type SymbolInfo struct {
	Type    types.Type
	IsConst bool
	// Signature is set for functions and classes (the constructor), so calls
	// and constructions can be checked.
	Signature *types.Signature
	// IsClass marks class bindings; `new` on them yields Instance.
	IsClass  bool
	Instance *types.ObjectType
	// IsHost marks globals provided by the runtime.
	IsHost bool
}

// Environment manages type information within scopes.
type Environment struct {
	symbols map[string]SymbolInfo
	outer   *Environment
}

// NewEnvironment creates a new top-level type environment.
func NewEnvironment() *Environment {
	return &Environment{symbols: make(map[string]SymbolInfo)}
}

// NewEnclosedEnvironment creates a new environment nested within an outer one.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	return &Environment{symbols: make(map[string]SymbolInfo), outer: outer}
}

// NewGlobalEnvironment creates the top-level environment with the host
// globals defined.
func NewGlobalEnvironment() *Environment {
	env := NewEnvironment()
	env.Define("console", SymbolInfo{Type: types.Any, IsConst: true, IsHost: true})
	env.Define("document", SymbolInfo{Type: types.Any, IsConst: true, IsHost: true})
	// Date takes zero to seven numeric fields, or one value to parse.
	env.Define("Date", SymbolInfo{
		Type:    types.Any,
		IsConst: true,
		IsHost:  true,
		Signature: &types.Signature{
			Name:       "Date",
			Parameters: optionalParams(7),
			ReturnType: types.String,
		},
	})
	env.Define("String", SymbolInfo{
		Type:    types.Any,
		IsConst: true,
		IsHost:  true,
		Signature: &types.Signature{
			Name:       "String",
			Parameters: optionalParams(1),
			ReturnType: types.String,
		},
	})
	return env
}

func optionalParams(n int) []types.Parameter {
	params := make([]types.Parameter, n)
	for i := range params {
		params[i] = types.Parameter{Name: "arg", Type: types.Any, Optional: true}
	}
	return params
}

// Define adds a symbol to the current scope. The first definition of a name
// in a scope wins.
func (e *Environment) Define(name string, info SymbolInfo) bool {
	if _, exists := e.symbols[name]; exists {
		debugPrintf("// [Env Define] '%s' already defined in env %p\n", name, e)
		return false
	}
	e.symbols[name] = info
	return true
}

// Update replaces the information for a name defined in this scope.
func (e *Environment) Update(name string, info SymbolInfo) {
	e.symbols[name] = info
}

// Resolve looks up a name in this scope and its enclosing scopes.
func (e *Environment) Resolve(name string) (SymbolInfo, bool) {
	for env := e; env != nil; env = env.outer {
		if info, ok := env.symbols[name]; ok {
			return info, true
		}
	}
	return SymbolInfo{}, false
}
