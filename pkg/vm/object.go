package vm

// PlainObject is an ordered property map with a prototype link. Functions
// and arrays are PlainObjects carrying extra state, so property access and
// prototype lookup work the same for all of them.
type PlainObject struct {
	prototype *PlainObject
	keys      []string
	props     map[string]Value

	function  *Function
	array     []Value
	primitive *Value   // boxed value of a String object
	timestamp *float64 // milliseconds since the epoch, for Date objects

	// onSet intercepts property assignments on host objects such as
	// document.body and returns the value to store.
	onSet func(name string, value Value) (Value, error)
}

// NewObject creates an empty object whose prototype is proto (may be nil).
func NewObject(proto *PlainObject) *PlainObject {
	return &PlainObject{prototype: proto, props: make(map[string]Value)}
}

// NewArrayObject creates an array holding elements.
func NewArrayObject(proto *PlainObject, elements []Value) *PlainObject {
	obj := NewObject(proto)
	if elements == nil {
		elements = []Value{}
	}
	obj.array = elements
	return obj
}

func (o *PlainObject) GetPrototype() *PlainObject { return o.prototype }

func (o *PlainObject) SetPrototype(proto *PlainObject) { o.prototype = proto }

// GetOwn returns an own property.
func (o *PlainObject) GetOwn(name string) (Value, bool) {
	if o.array != nil {
		if name == "length" {
			return NumberValue(float64(len(o.array))), true
		}
		if i, ok := arrayIndex(name); ok {
			if i < len(o.array) {
				return o.array[i], true
			}
			return Undefined, false
		}
	}
	v, ok := o.props[name]
	return v, ok
}

// HasOwn reports whether name is an own property.
func (o *PlainObject) HasOwn(name string) bool {
	_, ok := o.GetOwn(name)
	return ok
}

// Get looks name up on the object and then along its prototype chain.
func (o *PlainObject) Get(name string) (Value, bool) {
	for cur := o; cur != nil; cur = cur.prototype {
		if v, ok := cur.GetOwn(name); ok {
			return v, true
		}
	}
	return Undefined, false
}

// SetOwn creates or overwrites an own property, keeping first-insertion
// order.
func (o *PlainObject) SetOwn(name string, v Value) {
	if o.array != nil {
		if i, ok := arrayIndex(name); ok {
			for len(o.array) <= i {
				o.array = append(o.array, Undefined)
			}
			o.array[i] = v
			return
		}
	}
	if _, exists := o.props[name]; !exists {
		o.keys = append(o.keys, name)
	}
	o.props[name] = v
}

// Put assigns an own property the way a script assignment does, running
// the object's host hook first.
func (o *PlainObject) Put(name string, v Value) error {
	if o.onSet != nil {
		stored, err := o.onSet(name, v)
		if err != nil {
			return err
		}
		v = stored
	}
	o.SetOwn(name, v)
	return nil
}

// OwnKeys returns the own property names in insertion order. Array
// elements come first.
func (o *PlainObject) OwnKeys() []string {
	keys := make([]string, 0, len(o.array)+len(o.keys))
	for i := range o.array {
		keys = append(keys, intToString(i))
	}
	return append(keys, o.keys...)
}

// IsFunction reports whether the object is callable.
func (o *PlainObject) IsFunction() bool { return o.function != nil }

// Function returns the callable part of the object, or nil.
func (o *PlainObject) Function() *Function { return o.function }

// Elements returns the elements of an array object.
func (o *PlainObject) Elements() []Value { return o.array }

func arrayIndex(key string) (int, bool) {
	if key == "" || len(key) > 9 || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	n := 0
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

func intToString(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
