package vm

// Realm holds the global environment and the prototype objects shared by
// every value of a kind.
type Realm struct {
	Globals *Environment

	ObjectPrototype   *PlainObject
	FunctionPrototype *PlainObject
	ArrayPrototype    *PlainObject
	StringPrototype   *PlainObject
	DatePrototype     *PlainObject
}

func newRealm(in *Interpreter) *Realm {
	r := &Realm{Globals: NewEnvironment(nil, true)}
	r.ObjectPrototype = NewObject(nil)
	r.FunctionPrototype = NewObject(r.ObjectPrototype)
	r.ArrayPrototype = NewArrayObject(r.ObjectPrototype, nil)
	r.StringPrototype = NewObject(r.ObjectPrototype)
	r.DatePrototype = NewObject(r.ObjectPrototype)

	r.initObjectPrototype()
	r.initFunctionPrototype()
	r.initArrayPrototype()
	r.initStringPrototype()
	r.initDatePrototype()
	r.initGlobals(in)
	return r
}

func (r *Realm) method(proto *PlainObject, name string, native NativeFunc) {
	proto.SetOwn(name, NewObjectValue(r.NewNativeFunction(name, native)))
}

func argument(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}
	return Undefined
}
