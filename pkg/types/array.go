package types

// ArrayType represents T[].
type ArrayType struct {
	ElementType Type
}

func (at *ArrayType) typeNode() {}
func (at *ArrayType) String() string {
	if _, ok := at.ElementType.(*UnionType); ok {
		return "(" + at.ElementType.String() + ")[]"
	}
	return at.ElementType.String() + "[]"
}
func (at *ArrayType) Equals(other Type) bool {
	o, ok := other.(*ArrayType)
	return ok && typesEqual(at.ElementType, o.ElementType)
}
