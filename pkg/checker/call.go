package checker

import (
	"fmt"

	"tslower/pkg/parser"
	"tslower/pkg/types"
)

// checkCall checks a call's arguments against the callee's signature when
// the callee is a declared function, a method of a known shape, or a host
// function, and returns the call's result type.
func (c *Checker) checkCall(call *parser.CallExpression) types.Type {
	var sig *types.Signature
	switch callee := call.Function.(type) {
	case *parser.Identifier:
		if info, ok := c.env.Resolve(callee.Value); ok {
			if info.IsClass {
				c.addError(callee, fmt.Sprintf("Value of type 'typeof %s' is not callable. Did you mean to include 'new'?", callee.Value))
				c.checkArgumentTypes(call.Arguments)
				return types.Any
			}
			sig = info.Signature
		}
	case *parser.MemberExpression:
		objectType := c.checkExpression(callee.Object)
		if shape, ok := objectType.(*types.ObjectType); ok {
			sig = shape.Methods[callee.Property.Value]
		}
	default:
		c.checkExpression(call.Function)
	}

	argTypes := c.checkArgumentTypes(call.Arguments)
	if sig == nil {
		return types.Any
	}
	c.checkArguments(call.Function, sig, call.Arguments, argTypes)
	return orAny(sig.ReturnType)
}

// checkNew checks a construction. Classes yield their instance shape and
// Date yields Date.
func (c *Checker) checkNew(ne *parser.NewExpression) types.Type {
	argTypes := c.checkArgumentTypes(ne.Arguments)

	callee, ok := ne.Constructor.(*parser.Identifier)
	if !ok {
		c.checkExpression(ne.Constructor)
		return types.Any
	}
	info, found := c.env.Resolve(callee.Value)
	if !found {
		return types.Any
	}
	switch {
	case info.IsClass:
		if info.Signature != nil {
			c.checkArguments(callee, info.Signature, ne.Arguments, argTypes)
		}
		if info.Instance != nil {
			return info.Instance
		}
	case info.IsHost && callee.Value == "Date":
		return types.Date
	case info.Signature != nil:
		c.checkArguments(callee, info.Signature, ne.Arguments, argTypes)
	}
	return types.Any
}

func (c *Checker) checkArgumentTypes(args []parser.Expression) []types.Type {
	argTypes := make([]types.Type, len(args))
	for i, arg := range args {
		argTypes[i] = c.checkExpression(arg)
	}
	return argTypes
}

// checkArguments reports an arity mismatch, or else the first argument that
// is not assignable to its parameter.
func (c *Checker) checkArguments(callee parser.Node, sig *types.Signature, args []parser.Expression, argTypes []types.Type) {
	minArgs, maxArgs := sig.MinArgs(), sig.MaxArgs()
	if len(args) < minArgs || len(args) > maxArgs {
		expected := fmt.Sprintf("%d", minArgs)
		if minArgs != maxArgs {
			expected = fmt.Sprintf("%d-%d", minArgs, maxArgs)
		}
		c.addError(callee, fmt.Sprintf("Expected %s arguments, but got %d.", expected, len(args)))
		return
	}

	for i, param := range sig.Parameters[:len(args)] {
		if param.Type == nil {
			continue
		}
		if mismatch := types.Explain(argTypes[i], param.Type); mismatch != nil {
			c.addError(args[i], mismatch.ArgumentMessage())
			return
		}
	}
}
