package vm

import (
	"tslower/pkg/parser"
)

// closure creates a function object for fn closing over env.
func (in *Interpreter) closure(fn *parser.FunctionLiteral, env *Environment) *PlainObject {
	name := ""
	if fn.Name != nil {
		name = fn.Name.Value
	}
	return in.realm.newClosure(&Function{Name: name, Params: fn.Parameters, Body: fn.Body, Env: env})
}

// functionExpression creates a function object for a function used as a
// value. A named function expression sees its own name.
func (in *Interpreter) functionExpression(fn *parser.FunctionLiteral, env *Environment) *PlainObject {
	if fn.Name == nil {
		return in.closure(fn, env)
	}
	scope := NewEnvironment(env, false)
	obj := in.closure(fn, scope)
	scope.declare(fn.Name.Value, bindConst, NewObjectValue(obj), true)
	return obj
}

// defineClass creates the constructor function for a class declaration.
// Methods live once on the constructor's prototype object.
func (in *Interpreter) defineClass(cd *parser.ClassDeclaration, env *Environment) *PlainObject {
	fn := &Function{Name: cd.Name.Value, Env: env, Class: &ClassDefinition{Decl: cd, Env: env}}
	if ctor := cd.Body.Constructor(); ctor != nil {
		fn.Params = ctor.Value.Parameters
		fn.Body = ctor.Value.Body
	}
	class := in.realm.newClosure(fn)
	protoValue, _ := class.GetOwn("prototype")
	proto := protoValue.AsObject()
	for _, m := range cd.Body.Methods() {
		method := in.realm.newClosure(&Function{
			Name:   m.Key.Value,
			Params: m.Value.Parameters,
			Body:   m.Value.Body,
			Env:    env,
		})
		proto.SetOwn(m.Key.Value, NewObjectValue(method))
	}
	debugPrintf("defineClass: %s with %d methods\n", cd.Name.Value, len(cd.Body.Methods()))
	return class
}

func (in *Interpreter) evalArguments(exprs []parser.Expression, env *Environment) ([]Value, error) {
	args := make([]Value, len(exprs))
	for i, expr := range exprs {
		v, err := in.eval(expr, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func (in *Interpreter) evalCall(n *parser.CallExpression, env *Environment) (Value, error) {
	var callee, this Value
	switch target := n.Function.(type) {
	case *parser.MemberExpression:
		obj, err := in.eval(target.Object, env)
		if err != nil {
			return Undefined, err
		}
		if callee, err = in.getProperty(target, obj, target.Property.Value); err != nil {
			return Undefined, err
		}
		this = obj
	case *parser.IndexExpression:
		obj, err := in.eval(target.Left, env)
		if err != nil {
			return Undefined, err
		}
		key, err := in.propertyKey(target.Index, env)
		if err != nil {
			return Undefined, err
		}
		if callee, err = in.getProperty(target, obj, key); err != nil {
			return Undefined, err
		}
		this = obj
	default:
		v, err := in.eval(n.Function, env)
		if err != nil {
			return Undefined, err
		}
		callee, this = v, Undefined
	}

	args, err := in.evalArguments(n.Arguments, env)
	if err != nil {
		return Undefined, err
	}
	if !callee.IsCallable() {
		return Undefined, in.typeError(n, "%s is not a function", n.Function.String())
	}
	return in.invoke(n, callee.AsFunction(), this, args, false)
}

// construct implements new: a fresh object inheriting from the callee's
// prototype property is passed as the receiver and returned unless the
// function returns an object of its own.
func (in *Interpreter) construct(node parser.Node, calleeExpr parser.Expression, callee Value, args []Value) (Value, error) {
	if !callee.IsCallable() || !callee.AsFunction().IsConstructor() {
		return Undefined, in.typeError(node, "%s is not a constructor", calleeExpr.String())
	}
	fn := callee.AsFunction()
	if fn.Native != nil {
		v, err := fn.NativeConstruct(in, args)
		return v, in.locate(node, err)
	}

	proto := in.realm.ObjectPrototype
	if p, ok := callee.AsObject().Get("prototype"); ok && p.IsObject() {
		proto = p.AsObject()
	}
	this := NewObjectValue(NewObject(proto))
	result, err := in.invoke(node, fn, this, args, true)
	if err != nil {
		return Undefined, err
	}
	if result.IsObject() {
		return result, nil
	}
	return this, nil
}

func (in *Interpreter) invoke(node parser.Node, fn *Function, this Value, args []Value, constructing bool) (Value, error) {
	if fn.Class != nil && !constructing {
		return Undefined, in.typeError(node, "Class constructor %s cannot be invoked without 'new'", fn.Name)
	}
	if fn.Native != nil {
		v, err := fn.Native(in, this, args)
		return v, in.locate(node, err)
	}

	in.depth++
	defer func() { in.depth-- }()
	if in.depth > maxCallDepth {
		return Undefined, in.rangeError(node, "Maximum call stack size exceeded")
	}

	env := NewEnvironment(fn.Env, true)
	env.this, env.hasThis = this, true
	for i, param := range fn.Params {
		arg := Undefined
		if i < len(args) {
			arg = args[i]
		}
		env.declare(param.Name.Value, bindParameter, arg, true)
	}

	if fn.Class != nil {
		if err := in.initializeInstance(fn, this, args); err != nil {
			return Undefined, err
		}
	}
	if fn.Body == nil {
		return Undefined, nil
	}

	hoistVars(fn.Body.Statements, env)
	c, err := in.execBlock(fn.Body.Statements, env)
	if err != nil {
		return Undefined, err
	}
	if c.returned {
		return c.value, nil
	}
	return Undefined, nil
}

// initializeInstance runs the parts of construction that precede the
// constructor body: promoted parameters, then field initialisers in
// declaration order. Initialisers see the class's scope and the new
// instance, never the constructor's parameters.
func (in *Interpreter) initializeInstance(fn *Function, this Value, args []Value) error {
	obj := this.AsObject()
	for i, param := range fn.Params {
		if !param.Promoted {
			continue
		}
		arg := Undefined
		if i < len(args) {
			arg = args[i]
		}
		obj.SetOwn(param.Name.Value, arg)
	}

	fieldEnv := NewEnvironment(fn.Class.Env, true)
	fieldEnv.this, fieldEnv.hasThis = this, true
	for _, field := range fn.Class.Decl.Body.Fields() {
		if field.Value == nil {
			continue
		}
		v, err := in.eval(field.Value, fieldEnv)
		if err != nil {
			return err
		}
		obj.SetOwn(field.Key.Value, v)
	}
	return nil
}
