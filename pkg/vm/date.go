package vm

import (
	"math"
	"time"
)

const dateLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"

// NewDate creates a Date object for t.
func (r *Realm) NewDate(t time.Time) *PlainObject {
	obj := NewObject(r.DatePrototype)
	ms := float64(t.UnixMilli())
	obj.timestamp = &ms
	return obj
}

func (in *Interpreter) location() *time.Location {
	return in.clock().Location()
}

// formatDate renders a timestamp the way Date.prototype.toString does, in
// the clock's time zone.
func (in *Interpreter) formatDate(ms float64) string {
	if math.IsNaN(ms) {
		return "Invalid Date"
	}
	return time.UnixMilli(int64(ms)).In(in.location()).Format(dateLayout)
}

func isoDate(ms float64) string {
	return time.UnixMilli(int64(ms)).UTC().Format("2006-01-02T15:04:05.000Z")
}

func (r *Realm) newDateConstructor() *PlainObject {
	call := func(in *Interpreter, this Value, args []Value) (Value, error) {
		return NewString(in.formatDate(float64(in.clock().UnixMilli()))), nil
	}
	construct := func(in *Interpreter, args []Value) (Value, error) {
		if len(args) == 0 {
			return NewObjectValue(r.NewDate(in.clock())), nil
		}
		obj := NewObject(r.DatePrototype)
		ms := math.NaN()
		switch arg := args[0]; {
		case arg.IsString():
			if t, err := time.Parse(time.RFC3339Nano, arg.AsString()); err == nil {
				ms = float64(t.UnixMilli())
			} else if t, err := time.ParseInLocation("2006-01-02", arg.AsString(), time.UTC); err == nil {
				ms = float64(t.UnixMilli())
			}
		default:
			if f := arg.ToFloat(); !math.IsNaN(f) && !math.IsInf(f, 0) {
				ms = math.Trunc(f)
			}
		}
		obj.timestamp = &ms
		return NewObjectValue(obj), nil
	}
	return r.NewNativeConstructor("Date", call, construct, r.DatePrototype)
}

func thisTimestamp(in *Interpreter, this Value, method string) (float64, error) {
	if this.IsObject() && this.AsObject().timestamp != nil {
		return *this.AsObject().timestamp, nil
	}
	return 0, in.typeError(nil, "Date.prototype.%s called on a non-Date", method)
}

func (r *Realm) initDatePrototype() {
	proto := r.DatePrototype
	dateMethod := func(name string, f func(in *Interpreter, ms float64) Value) {
		r.method(proto, name, func(in *Interpreter, this Value, args []Value) (Value, error) {
			ms, err := thisTimestamp(in, this, name)
			if err != nil {
				return Undefined, err
			}
			return f(in, ms), nil
		})
	}
	dateMethod("toString", func(in *Interpreter, ms float64) Value {
		return NewString(in.formatDate(ms))
	})
	dateMethod("getTime", func(in *Interpreter, ms float64) Value { return NumberValue(ms) })
	dateMethod("valueOf", func(in *Interpreter, ms float64) Value { return NumberValue(ms) })
	dateMethod("getFullYear", func(in *Interpreter, ms float64) Value {
		if math.IsNaN(ms) {
			return NaN
		}
		return NumberValue(float64(time.UnixMilli(int64(ms)).In(in.location()).Year()))
	})
	r.method(proto, "toISOString", func(in *Interpreter, this Value, args []Value) (Value, error) {
		ms, err := thisTimestamp(in, this, "toISOString")
		if err != nil {
			return Undefined, err
		}
		if math.IsNaN(ms) {
			return Undefined, in.rangeError(nil, "Invalid time value")
		}
		return NewString(isoDate(ms)), nil
	})
}
