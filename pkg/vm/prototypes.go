package vm

import (
	"strings"
)

func (r *Realm) initObjectPrototype() {
	proto := r.ObjectPrototype
	r.method(proto, "toString", func(in *Interpreter, this Value, args []Value) (Value, error) {
		switch this.Type() {
		case TypeUndefined:
			return NewString("[object Undefined]"), nil
		case TypeNull:
			return NewString("[object Null]"), nil
		case TypeFloatNumber:
			return NewString("[object Number]"), nil
		case TypeBoolean:
			return NewString("[object Boolean]"), nil
		}
		return NewString("[object Object]"), nil
	})
	r.method(proto, "valueOf", func(in *Interpreter, this Value, args []Value) (Value, error) {
		return this, nil
	})
	r.method(proto, "hasOwnProperty", func(in *Interpreter, this Value, args []Value) (Value, error) {
		if !this.IsObject() {
			return False, nil
		}
		key, err := in.ToString(argument(args, 0))
		if err != nil {
			return Undefined, err
		}
		return BooleanValue(this.AsObject().HasOwn(key)), nil
	})
}

func (r *Realm) initFunctionPrototype() {
	proto := r.FunctionPrototype
	r.method(proto, "toString", func(in *Interpreter, this Value, args []Value) (Value, error) {
		if !this.IsCallable() {
			return Undefined, in.typeError(nil, "Function.prototype.toString requires that 'this' be a Function")
		}
		return NewString(this.ToString()), nil
	})
	r.method(proto, "call", func(in *Interpreter, this Value, args []Value) (Value, error) {
		if !this.IsCallable() {
			return Undefined, in.typeError(nil, "Function.prototype.call called on a non-function")
		}
		var rest []Value
		if len(args) > 1 {
			rest = args[1:]
		}
		return in.invoke(nil, this.AsFunction(), argument(args, 0), rest, false)
	})
}

func (r *Realm) initArrayPrototype() {
	proto := r.ArrayPrototype
	join := func(in *Interpreter, this Value, sep string) (Value, error) {
		if !this.IsArray() {
			return NewString(""), nil
		}
		elements := this.AsObject().Elements()
		parts := make([]string, len(elements))
		for i, el := range elements {
			if el.IsUndefined() || el.IsNull() {
				continue
			}
			s, err := in.ToString(el)
			if err != nil {
				return Undefined, err
			}
			parts[i] = s
		}
		return NewString(strings.Join(parts, sep)), nil
	}
	r.method(proto, "join", func(in *Interpreter, this Value, args []Value) (Value, error) {
		sep := ","
		if a := argument(args, 0); !a.IsUndefined() {
			s, err := in.ToString(a)
			if err != nil {
				return Undefined, err
			}
			sep = s
		}
		return join(in, this, sep)
	})
	r.method(proto, "toString", func(in *Interpreter, this Value, args []Value) (Value, error) {
		return join(in, this, ",")
	})
	r.method(proto, "push", func(in *Interpreter, this Value, args []Value) (Value, error) {
		if !this.IsArray() {
			return Undefined, in.typeError(nil, "Array.prototype.push called on a non-array")
		}
		obj := this.AsObject()
		obj.array = append(obj.array, args...)
		return NumberValue(float64(len(obj.array))), nil
	})
}

// thisString returns the string a String.prototype method operates on.
func thisString(in *Interpreter, this Value, method string) (string, error) {
	switch {
	case this.IsString():
		return this.AsString(), nil
	case this.IsObject() && this.AsObject().primitive != nil:
		return this.AsObject().primitive.ToString(), nil
	case this.IsUndefined() || this.IsNull():
		return "", in.typeError(nil, "String.prototype.%s called on null or undefined", method)
	}
	return in.ToString(this)
}

func (r *Realm) initStringPrototype() {
	proto := r.StringPrototype
	unary := func(name string, f func(string) string) {
		r.method(proto, name, func(in *Interpreter, this Value, args []Value) (Value, error) {
			s, err := thisString(in, this, name)
			if err != nil {
				return Undefined, err
			}
			return NewString(f(s)), nil
		})
	}
	unary("toString", func(s string) string { return s })
	unary("valueOf", func(s string) string { return s })
	unary("toUpperCase", strings.ToUpper)
	unary("toLowerCase", strings.ToLower)
	unary("trim", strings.TrimSpace)

	r.method(proto, "concat", func(in *Interpreter, this Value, args []Value) (Value, error) {
		s, err := thisString(in, this, "concat")
		if err != nil {
			return Undefined, err
		}
		var sb strings.Builder
		sb.WriteString(s)
		for _, arg := range args {
			part, err := in.ToString(arg)
			if err != nil {
				return Undefined, err
			}
			sb.WriteString(part)
		}
		return NewString(sb.String()), nil
	})
	r.method(proto, "indexOf", func(in *Interpreter, this Value, args []Value) (Value, error) {
		s, err := thisString(in, this, "indexOf")
		if err != nil {
			return Undefined, err
		}
		needle, err := in.ToString(argument(args, 0))
		if err != nil {
			return Undefined, err
		}
		i := strings.Index(s, needle)
		if i < 0 {
			return NumberValue(-1), nil
		}
		return NumberValue(float64(utf16Len(s[:i]))), nil
	})
}
