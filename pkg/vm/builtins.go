package vm

import (
	"strings"
)

// initGlobals defines the host environment scripts run against.
func (r *Realm) initGlobals(in *Interpreter) {
	g := r.Globals
	g.Define("undefined", Undefined)
	g.Define("NaN", NaN)

	console := NewObject(r.ObjectPrototype)
	r.method(console, "log", func(in *Interpreter, this Value, args []Value) (Value, error) {
		parts := make([]string, len(args))
		for i, arg := range args {
			if arg.IsString() {
				parts[i] = arg.AsString()
				continue
			}
			parts[i] = in.inspect(arg)
		}
		in.console.Log(strings.Join(parts, " "))
		return Undefined, nil
	})
	g.Define("console", NewObjectValue(console))

	body := NewObject(r.ObjectPrototype)
	body.onSet = func(name string, value Value) (Value, error) {
		if name != "textContent" {
			return value, nil
		}
		text := ""
		if !value.IsNull() && !value.IsUndefined() {
			s, err := in.ToString(value)
			if err != nil {
				return Undefined, err
			}
			text = s
		}
		in.page.SetText(text)
		return NewString(text), nil
	}
	document := NewObject(r.ObjectPrototype)
	document.SetOwn("body", NewObjectValue(body))
	g.Define("document", NewObjectValue(document))

	g.Define("Date", NewObjectValue(r.newDateConstructor()))
	g.Define("String", NewObjectValue(r.newStringConstructor()))
}

func (r *Realm) newStringConstructor() *PlainObject {
	call := func(in *Interpreter, this Value, args []Value) (Value, error) {
		if len(args) == 0 {
			return NewString(""), nil
		}
		s, err := in.ToString(args[0])
		if err != nil {
			return Undefined, err
		}
		return NewString(s), nil
	}
	construct := func(in *Interpreter, args []Value) (Value, error) {
		s, err := call(in, Undefined, args)
		if err != nil {
			return Undefined, err
		}
		obj := NewObject(r.StringPrototype)
		obj.primitive = &s
		return NewObjectValue(obj), nil
	}
	return r.NewNativeConstructor("String", call, construct, r.StringPrototype)
}
