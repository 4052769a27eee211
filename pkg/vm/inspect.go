package vm

import (
	"math"
	"strings"

	"tslower/pkg/parser"
)

const inspectDepth = 2

// inspect renders v the way console.log shows a non-string argument.
func (in *Interpreter) inspect(v Value) string {
	var sb strings.Builder
	in.inspectValue(&sb, v, 0, map[*PlainObject]bool{})
	return sb.String()
}

func (in *Interpreter) inspectValue(sb *strings.Builder, v Value, depth int, seen map[*PlainObject]bool) {
	switch v.Type() {
	case TypeString:
		sb.WriteString(quote(v.AsString()))
		return
	case TypeFunction:
		fn := v.AsFunction()
		switch {
		case fn.Class != nil:
			sb.WriteString("[class " + fn.Name + "]")
		case fn.Name == "":
			sb.WriteString("[Function (anonymous)]")
		default:
			sb.WriteString("[Function: " + fn.Name + "]")
		}
		return
	case TypeFloatNumber:
		if f := v.ToFloat(); f == 0 && math.Signbit(f) {
			sb.WriteString("-0")
			return
		}
		sb.WriteString(v.ToString())
		return
	case TypeArray, TypeObject:
	default:
		sb.WriteString(v.ToString())
		return
	}

	obj := v.AsObject()
	if obj.timestamp != nil {
		if ts := *obj.timestamp; !math.IsNaN(ts) {
			sb.WriteString(isoDate(ts))
		} else {
			sb.WriteString("Invalid Date")
		}
		return
	}
	if obj.primitive != nil {
		sb.WriteString("[String: " + quote(obj.primitive.ToString()) + "]")
		return
	}
	if seen[obj] {
		sb.WriteString("[Circular]")
		return
	}

	if v.IsArray() {
		elements := obj.Elements()
		if len(elements) == 0 {
			sb.WriteString("[]")
			return
		}
		if depth > inspectDepth {
			sb.WriteString("[Array]")
			return
		}
		seen[obj] = true
		sb.WriteString("[ ")
		for i, el := range elements {
			if i > 0 {
				sb.WriteString(", ")
			}
			in.inspectValue(sb, el, depth+1, seen)
		}
		sb.WriteString(" ]")
		delete(seen, obj)
		return
	}

	prefix := constructorName(obj)
	if prefix != "" {
		prefix += " "
	}
	if len(obj.keys) == 0 {
		sb.WriteString(prefix + "{}")
		return
	}
	if depth > inspectDepth {
		if prefix == "" {
			sb.WriteString("[Object]")
		} else {
			sb.WriteString("[" + strings.TrimSpace(prefix) + "]")
		}
		return
	}
	seen[obj] = true
	sb.WriteString(prefix + "{ ")
	for i, key := range obj.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		if parser.IsIdentifierName(key) {
			sb.WriteString(key)
		} else {
			sb.WriteString(quote(key))
		}
		sb.WriteString(": ")
		in.inspectValue(sb, obj.props[key], depth+1, seen)
	}
	sb.WriteString(" }")
	delete(seen, obj)
}

// constructorName returns the name shown before an object's braces, or ""
// for plain objects.
func constructorName(obj *PlainObject) string {
	proto := obj.GetPrototype()
	if proto == nil {
		return "[Object: null prototype]"
	}
	ctor, ok := proto.GetOwn("constructor")
	if !ok || !ctor.IsCallable() {
		return ""
	}
	name := ctor.AsFunction().Name
	if name == "Object" {
		return ""
	}
	return name
}

func quote(s string) string {
	q := "'"
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		q = `"`
	}
	var sb strings.Builder
	sb.WriteString(q)
	for _, r := range s {
		switch {
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\\':
			sb.WriteString(`\\`)
		case string(r) == q:
			sb.WriteString(`\` + q)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteString(q)
	return sb.String()
}
