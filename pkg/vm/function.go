package vm

import (
	"tslower/pkg/parser"
)

// NativeFunc implements a host function. this is Undefined for plain calls.
type NativeFunc func(in *Interpreter, this Value, args []Value) (Value, error)

// NativeConstructor implements `new` for a host constructor.
type NativeConstructor func(in *Interpreter, args []Value) (Value, error)

// Function is the callable part of a function object: a closure over a
// parsed function literal, a native host function, or a class constructor.
type Function struct {
	Name string

	Native          NativeFunc
	NativeConstruct NativeConstructor

	Params []*parser.Parameter
	Body   *parser.BlockStatement
	Env    *Environment

	Class *ClassDefinition
}

// ClassDefinition is what a class constructor runs on construction.
type ClassDefinition struct {
	Decl *parser.ClassDeclaration
	// Env is the scope the class was declared in; field initialisers and
	// member bodies close over it.
	Env *Environment
}

// IsConstructor reports whether fn can be used with new.
func (fn *Function) IsConstructor() bool {
	if fn.Native != nil {
		return fn.NativeConstruct != nil
	}
	return true
}

// newClosure creates a function object for a script function. Script
// functions get a fresh prototype object whose constructor points back.
func (r *Realm) newClosure(fn *Function) *PlainObject {
	obj := NewObject(r.FunctionPrototype)
	obj.function = fn
	proto := NewObject(r.ObjectPrototype)
	proto.SetOwn("constructor", NewObjectValue(obj))
	obj.SetOwn("prototype", NewObjectValue(proto))
	return obj
}

// NewNativeFunction creates a host function object.
func (r *Realm) NewNativeFunction(name string, native NativeFunc) *PlainObject {
	obj := NewObject(r.FunctionPrototype)
	obj.function = &Function{Name: name, Native: native}
	return obj
}

// NewNativeConstructor creates a host function object that also supports
// new, with proto as the prototype of the objects it creates.
func (r *Realm) NewNativeConstructor(name string, call NativeFunc, construct NativeConstructor, proto *PlainObject) *PlainObject {
	obj := r.NewNativeFunction(name, call)
	obj.function.NativeConstruct = construct
	obj.SetOwn("prototype", NewObjectValue(proto))
	proto.SetOwn("constructor", NewObjectValue(obj))
	return obj
}
