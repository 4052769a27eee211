package vm

import (
	"unicode/utf16"

	"tslower/pkg/parser"
)

func (in *Interpreter) eval(node parser.Expression, env *Environment) (Value, error) {
	switch n := node.(type) {
	case *parser.NumberLiteral:
		return NumberValue(n.Value), nil
	case *parser.StringLiteral:
		return NewString(n.Value), nil
	case *parser.BooleanLiteral:
		return BooleanValue(n.Value), nil
	case *parser.NullLiteral:
		return Null, nil
	case *parser.UndefinedLiteral:
		return Undefined, nil
	case *parser.ThisExpression:
		return env.thisValue(), nil

	case *parser.Identifier:
		b, ok := env.lookup(n.Value)
		if !ok {
			return Undefined, in.referenceError(n, "%s is not defined", n.Value)
		}
		if !b.initialized {
			return Undefined, in.referenceError(n, "Cannot access '%s' before initialization", n.Value)
		}
		return b.value, nil

	case *parser.TemplateLiteral:
		var out []byte
		for _, part := range n.Parts {
			if chunk, ok := part.(*parser.TemplateStringPart); ok {
				out = append(out, chunk.Value...)
				continue
			}
			v, err := in.eval(part.(parser.Expression), env)
			if err != nil {
				return Undefined, err
			}
			s, err := in.ToString(v)
			if err != nil {
				return Undefined, err
			}
			out = append(out, s...)
		}
		return NewString(string(out)), nil

	case *parser.GroupedExpression:
		return in.eval(n.Expression, env)

	case *parser.FunctionLiteral:
		return NewObjectValue(in.functionExpression(n, env)), nil

	case *parser.ArrayLiteral:
		elements := make([]Value, len(n.Elements))
		for i, el := range n.Elements {
			v, err := in.eval(el, env)
			if err != nil {
				return Undefined, err
			}
			elements[i] = v
		}
		return NewObjectValue(NewArrayObject(in.realm.ArrayPrototype, elements)), nil

	case *parser.ObjectLiteral:
		obj := NewObject(in.realm.ObjectPrototype)
		for _, prop := range n.Properties {
			v, err := in.eval(prop.Value, env)
			if err != nil {
				return Undefined, err
			}
			obj.SetOwn(prop.Key, v)
		}
		return NewObjectValue(obj), nil

	case *parser.PrefixExpression:
		right, err := in.eval(n.Right, env)
		if err != nil {
			return Undefined, err
		}
		switch n.Operator {
		case "!":
			return BooleanValue(right.IsFalsey()), nil
		case "-":
			return NumberValue(-right.ToFloat()), nil
		}
		return Undefined, in.raise(n, "SyntaxError", "unsupported operator %s", n.Operator)

	case *parser.InfixExpression:
		return in.evalInfix(n, env)

	case *parser.AssignmentExpression:
		return in.evalAssignment(n, env)

	case *parser.MemberExpression:
		obj, err := in.eval(n.Object, env)
		if err != nil {
			return Undefined, err
		}
		return in.getProperty(n, obj, n.Property.Value)

	case *parser.IndexExpression:
		obj, err := in.eval(n.Left, env)
		if err != nil {
			return Undefined, err
		}
		key, err := in.propertyKey(n.Index, env)
		if err != nil {
			return Undefined, err
		}
		return in.getProperty(n, obj, key)

	case *parser.CallExpression:
		return in.evalCall(n, env)

	case *parser.NewExpression:
		callee, err := in.eval(n.Constructor, env)
		if err != nil {
			return Undefined, err
		}
		args, err := in.evalArguments(n.Arguments, env)
		if err != nil {
			return Undefined, err
		}
		return in.construct(n, n.Constructor, callee, args)
	}

	return Undefined, in.raise(node, "SyntaxError", "cannot evaluate %T", node)
}

func (in *Interpreter) propertyKey(index parser.Expression, env *Environment) (string, error) {
	v, err := in.eval(index, env)
	if err != nil {
		return "", err
	}
	if v.IsString() {
		return v.AsString(), nil
	}
	if v.IsUndefined() {
		return "undefined", nil
	}
	return in.ToString(v)
}

func (in *Interpreter) evalInfix(n *parser.InfixExpression, env *Environment) (Value, error) {
	left, err := in.eval(n.Left, env)
	if err != nil {
		return Undefined, err
	}
	switch n.Operator {
	case "&&":
		if left.IsFalsey() {
			return left, nil
		}
		return in.eval(n.Right, env)
	case "||":
		if left.IsTruthy() {
			return left, nil
		}
		return in.eval(n.Right, env)
	}

	right, err := in.eval(n.Right, env)
	if err != nil {
		return Undefined, err
	}

	switch n.Operator {
	case "+":
		if left.IsString() || right.IsString() || left.IsObject() || right.IsObject() {
			ls, err := in.ToString(left)
			if err != nil {
				return Undefined, err
			}
			rs, err := in.ToString(right)
			if err != nil {
				return Undefined, err
			}
			return NewString(ls + rs), nil
		}
		return NumberValue(left.ToFloat() + right.ToFloat()), nil
	case "-":
		return NumberValue(left.ToFloat() - right.ToFloat()), nil
	case "*":
		return NumberValue(left.ToFloat() * right.ToFloat()), nil
	case "/":
		return NumberValue(left.ToFloat() / right.ToFloat()), nil
	case "===":
		return BooleanValue(left.StrictlyEquals(right)), nil
	case "!==":
		return BooleanValue(!left.StrictlyEquals(right)), nil
	case "==":
		return BooleanValue(left.LooselyEquals(right)), nil
	case "!=":
		return BooleanValue(!left.LooselyEquals(right)), nil
	case "<", ">", "<=", ">=":
		return BooleanValue(compare(n.Operator, left, right)), nil
	}
	return Undefined, in.raise(n, "SyntaxError", "unsupported operator %s", n.Operator)
}

func compare(op string, left, right Value) bool {
	if left.IsString() && right.IsString() {
		l, r := left.AsString(), right.AsString()
		switch op {
		case "<":
			return l < r
		case ">":
			return l > r
		case "<=":
			return l <= r
		default:
			return l >= r
		}
	}
	l, r := left.ToFloat(), right.ToFloat()
	switch op {
	case "<":
		return l < r
	case ">":
		return l > r
	case "<=":
		return l <= r
	default:
		return l >= r
	}
}

func (in *Interpreter) evalAssignment(n *parser.AssignmentExpression, env *Environment) (Value, error) {
	switch target := n.Left.(type) {
	case *parser.Identifier:
		value, err := in.eval(n.Value, env)
		if err != nil {
			return Undefined, err
		}
		b, ok := env.lookup(target.Value)
		if !ok {
			return Undefined, in.referenceError(target, "%s is not defined", target.Value)
		}
		if !b.initialized {
			return Undefined, in.referenceError(target, "Cannot access '%s' before initialization", target.Value)
		}
		if b.kind == bindConst {
			return Undefined, in.typeError(target, "Assignment to constant variable.")
		}
		b.value = value
		return value, nil

	case *parser.MemberExpression:
		obj, err := in.eval(target.Object, env)
		if err != nil {
			return Undefined, err
		}
		value, err := in.eval(n.Value, env)
		if err != nil {
			return Undefined, err
		}
		return value, in.setProperty(target, obj, target.Property.Value, value)

	case *parser.IndexExpression:
		obj, err := in.eval(target.Left, env)
		if err != nil {
			return Undefined, err
		}
		key, err := in.propertyKey(target.Index, env)
		if err != nil {
			return Undefined, err
		}
		value, err := in.eval(n.Value, env)
		if err != nil {
			return Undefined, err
		}
		return value, in.setProperty(target, obj, key, value)
	}
	return Undefined, in.raise(n, "SyntaxError", "Invalid left-hand side in assignment")
}

// getProperty reads name from v, boxing primitives through their prototype.
func (in *Interpreter) getProperty(node parser.Node, v Value, name string) (Value, error) {
	switch v.Type() {
	case TypeUndefined, TypeNull:
		return Undefined, in.typeError(node, "Cannot read properties of %s (reading '%s')", v.ToString(), name)
	case TypeString:
		s := v.AsString()
		if name == "length" {
			return NumberValue(float64(utf16Len(s))), nil
		}
		if i, ok := arrayIndex(name); ok {
			units := utf16.Encode([]rune(s))
			if i < len(units) {
				return NewString(string(utf16.Decode(units[i : i+1]))), nil
			}
			return Undefined, nil
		}
		prop, _ := in.realm.StringPrototype.Get(name)
		return prop, nil
	case TypeFloatNumber, TypeBoolean:
		prop, _ := in.realm.ObjectPrototype.Get(name)
		return prop, nil
	}
	prop, _ := v.AsObject().Get(name)
	return prop, nil
}

func (in *Interpreter) setProperty(node parser.Node, target Value, name string, value Value) error {
	switch target.Type() {
	case TypeUndefined, TypeNull:
		return in.typeError(node, "Cannot set properties of %s (setting '%s')", target.ToString(), name)
	}
	if !target.IsObject() {
		return nil
	}
	return target.AsObject().Put(name, value)
}
