package vm

import (
	"unicode/utf16"
)

// ToString converts v to a string the way string concatenation does.
// Objects run their toString method; undefined renders as the configured
// placeholder.
func (in *Interpreter) ToString(v Value) (string, error) {
	switch v.Type() {
	case TypeUndefined:
		return in.placeholder, nil
	case TypeObject, TypeArray, TypeFunction:
		method, _ := v.AsObject().Get("toString")
		if !method.IsCallable() {
			return v.ToString(), nil
		}
		result, err := in.invoke(nil, method.AsFunction(), v, nil, false)
		if err != nil {
			return "", err
		}
		if result.IsObject() {
			return "", in.typeError(nil, "Cannot convert object to primitive value")
		}
		return in.ToString(result)
	}
	return v.ToString(), nil
}

func utf16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}
