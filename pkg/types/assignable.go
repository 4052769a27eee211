package types

import (
	"fmt"
)

// --- Type Assignability ---

// Mismatch describes why a source type is not assignable to a target type.
type Mismatch struct {
	Source Type
	Target Type
	// Set when the source shape lacks a required member of the target.
	MissingProperty string
	// Set when a member exists on both sides with incompatible types.
	IncompatibleProperty string
}

// ArgumentMessage renders the mismatch for a call argument.
func (m *Mismatch) ArgumentMessage() string {
	if m.MissingProperty != "" {
		return m.missingMessage()
	}
	if m.IncompatibleProperty != "" {
		return fmt.Sprintf("Argument of type '%s' is not assignable to parameter of type '%s'. Types of property '%s' are incompatible.",
			m.Source, m.Target, m.IncompatibleProperty)
	}
	return fmt.Sprintf("Argument of type '%s' is not assignable to parameter of type '%s'.", m.Source, m.Target)
}

// AssignmentMessage renders the mismatch for a declaration initialiser.
func (m *Mismatch) AssignmentMessage() string {
	if m.MissingProperty != "" {
		return m.missingMessage()
	}
	return fmt.Sprintf("Type '%s' is not assignable to type '%s'.", m.Source, m.Target)
}

func (m *Mismatch) missingMessage() string {
	return fmt.Sprintf("Property '%s' is missing in type '%s' but required in type '%s'.", m.MissingProperty, m.Source, m.Target)
}

// IsAssignable checks if a value of type source can be passed where target
// is expected.
func IsAssignable(source, target Type) bool {
	return Explain(source, target) == nil
}

// Explain returns why source is not assignable to target, or nil when it is.
// Null and undefined are assignable to everything, as without strict null
// checks.
func Explain(source, target Type) *Mismatch {
	if source == nil || target == nil {
		return nil
	}
	if target == Any || target == Unknown || source == Any || source == Never {
		return nil
	}
	if source == Null || source == Undefined {
		return nil
	}
	if source.Equals(target) {
		return nil
	}

	if targetUnion, ok := target.(*UnionType); ok {
		if sourceUnion, ok := source.(*UnionType); ok {
			for _, s := range sourceUnion.Types {
				if !IsAssignable(s, target) {
					return &Mismatch{Source: source, Target: target}
				}
			}
			return nil
		}
		for _, t := range targetUnion.Types {
			if IsAssignable(source, t) {
				return nil
			}
		}
		return &Mismatch{Source: Widen(source), Target: target}
	}
	if sourceUnion, ok := source.(*UnionType); ok {
		for _, s := range sourceUnion.Types {
			if !IsAssignable(s, target) {
				return &Mismatch{Source: source, Target: target}
			}
		}
		return nil
	}

	switch t := target.(type) {
	case *Primitive:
		if t == Object {
			switch source.(type) {
			case *ObjectType, *ArrayType:
				return nil
			}
			if source == Date {
				return nil
			}
			return &Mismatch{Source: Widen(source), Target: target}
		}
		if Widen(source) == t {
			return nil
		}
		return &Mismatch{Source: Widen(source), Target: target}
	case *LiteralType:
		return &Mismatch{Source: source, Target: target}
	case *ArrayType:
		s, ok := source.(*ArrayType)
		if !ok || !IsAssignable(s.ElementType, t.ElementType) {
			return &Mismatch{Source: Widen(source), Target: target}
		}
		return nil
	case *ObjectType:
		s, ok := source.(*ObjectType)
		if !ok {
			return &Mismatch{Source: Widen(source), Target: target}
		}
		for _, p := range t.Properties {
			q, has := s.Property(p.Name)
			if !has {
				if !p.Optional && !s.HasMember(p.Name) {
					return &Mismatch{Source: source, Target: target, MissingProperty: p.Name}
				}
				continue
			}
			if !IsAssignable(q.Type, p.Type) {
				return &Mismatch{Source: source, Target: target, IncompatibleProperty: p.Name}
			}
		}
		return nil
	}
	return nil
}
