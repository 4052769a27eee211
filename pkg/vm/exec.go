package vm

import (
	"tslower/pkg/parser"
)

// completion carries a return out of nested blocks.
type completion struct {
	returned bool
	value    Value
}

// hoistVars declares every var in stmts, outside nested functions, in the
// function scope of env.
func hoistVars(stmts []parser.Statement, env *Environment) {
	scope := env.varScope()
	var walk func(stmt parser.Statement)
	walk = func(stmt parser.Statement) {
		switch s := stmt.(type) {
		case *parser.VarStatement:
			scope.declare(s.Name.Value, bindVar, Undefined, true)
		case *parser.BlockStatement:
			for _, inner := range s.Statements {
				walk(inner)
			}
		case *parser.IfStatement:
			walk(s.Consequence)
			if s.Alternative != nil {
				walk(s.Alternative)
			}
		}
	}
	for _, stmt := range stmts {
		walk(stmt)
	}
}

// hoistLexical creates the block's let, const and class bindings, which stay
// uninitialised until their declaration runs, and the block's function
// declarations, which are usable from the start of the block.
func (in *Interpreter) hoistLexical(stmts []parser.Statement, env *Environment) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *parser.LetStatement:
			env.declare(s.Name.Value, bindLet, Undefined, false)
		case *parser.ConstStatement:
			env.declare(s.Name.Value, bindConst, Undefined, false)
		case *parser.ClassDeclaration:
			env.declare(s.Name.Value, bindClass, Undefined, false)
		case *parser.ExpressionStatement:
			if fn, ok := s.FunctionDeclaration(); ok {
				env.declare(fn.Name.Value, bindFunction, NewObjectValue(in.closure(fn, env)), true)
			}
		}
	}
}

func (in *Interpreter) execBlock(stmts []parser.Statement, env *Environment) (completion, error) {
	in.hoistLexical(stmts, env)
	for _, stmt := range stmts {
		c, err := in.execStatement(stmt, env)
		if err != nil || c.returned {
			return c, err
		}
	}
	return completion{}, nil
}

func (in *Interpreter) execStatement(stmt parser.Statement, env *Environment) (completion, error) {
	switch s := stmt.(type) {
	case *parser.ExpressionStatement:
		if _, ok := s.FunctionDeclaration(); ok {
			return completion{}, nil
		}
		if s.Expression == nil {
			return completion{}, nil
		}
		_, err := in.eval(s.Expression, env)
		return completion{}, err

	case *parser.LetStatement:
		return completion{}, in.execLexical(s.Name, s.Value, bindLet, env)

	case *parser.ConstStatement:
		return completion{}, in.execLexical(s.Name, s.Value, bindConst, env)

	case *parser.VarStatement:
		if s.Value == nil {
			return completion{}, nil
		}
		value, err := in.eval(s.Value, env)
		if err != nil {
			return completion{}, err
		}
		if b, ok := env.lookup(s.Name.Value); ok {
			b.value = value
		} else {
			env.varScope().declare(s.Name.Value, bindVar, value, true)
		}
		return completion{}, nil

	case *parser.ReturnStatement:
		if s.ReturnValue == nil {
			return completion{returned: true, value: Undefined}, nil
		}
		value, err := in.eval(s.ReturnValue, env)
		if err != nil {
			return completion{}, err
		}
		return completion{returned: true, value: value}, nil

	case *parser.BlockStatement:
		return in.execBlock(s.Statements, NewEnvironment(env, false))

	case *parser.IfStatement:
		cond, err := in.eval(s.Condition, env)
		if err != nil {
			return completion{}, err
		}
		if cond.IsTruthy() {
			return in.execStatement(s.Consequence, env)
		}
		if s.Alternative != nil {
			return in.execStatement(s.Alternative, env)
		}
		return completion{}, nil

	case *parser.ClassDeclaration:
		class := in.defineClass(s, env)
		b, ok := env.vars[s.Name.Value]
		if !ok {
			b = env.declare(s.Name.Value, bindClass, Undefined, false)
		}
		b.value, b.initialized = NewObjectValue(class), true
		return completion{}, nil

	case *parser.InterfaceDeclaration, *parser.TypeAliasStatement:
		// Types have no runtime effect.
		return completion{}, nil
	}

	debugPrintf("execStatement: skipping %T\n", stmt)
	return completion{}, nil
}

func (in *Interpreter) execLexical(name *parser.Identifier, init parser.Expression, kind bindingKind, env *Environment) error {
	value := Undefined
	if init != nil {
		v, err := in.eval(init, env)
		if err != nil {
			return err
		}
		value = v
	}
	b, ok := env.vars[name.Value]
	if !ok {
		b = env.declare(name.Value, kind, Undefined, false)
	}
	b.value, b.initialized = value, true
	return nil
}
