package checker

import (
	"tslower/pkg/parser"
	"tslower/pkg/types"
)

// buildClassShape fills in the instance shape of a class and records its
// constructor signature. Instance members are the parameter properties,
// the declared fields, the names assigned through this, and the methods.
func (c *Checker) buildClassShape(cd *parser.ClassDeclaration, shape *types.ObjectType) {
	ctorSig := &types.Signature{Name: cd.Name.Value, ReturnType: shape}
	if ctor := cd.Body.Constructor(); ctor != nil {
		ctorSig = c.signatureOf(cd.Name.Value, ctor.Value)
		ctorSig.ReturnType = shape
	}
	c.constructors[cd.Name.Value] = ctorSig

	for _, param := range cd.PromotedParameters() {
		shape.AddProperty(param.Name.Value, orAny(c.resolveTypeAnnotation(param.TypeAnnotation)), param.Optional)
	}
	for _, field := range cd.Body.Fields() {
		t := c.resolveTypeAnnotation(field.TypeAnnotation)
		if t == nil {
			t = literalInitType(field.Value)
		}
		shape.AddProperty(field.Key.Value, t, field.Optional)
	}
	for _, name := range cd.AssignedMembers() {
		if !shape.HasMember(name) {
			shape.AddProperty(name, types.Any, false)
		}
	}
	for _, method := range cd.Body.Methods() {
		if _, exists := shape.Methods[method.Key.Value]; !exists {
			shape.Methods[method.Key.Value] = c.signatureOf(method.Key.Value, method.Value)
		}
	}
	debugPrintf("// [Checker] class %s: %s, constructor %s\n", cd.Name.Value, shape, ctorSig)
}

// checkClass checks the field initialisers and member bodies of a class.
func (c *Checker) checkClass(cd *parser.ClassDeclaration) {
	shape, _ := c.named[cd.Name.Value].(*types.ObjectType)

	savedThis := c.currentThis
	c.currentThis = shape
	defer func() { c.currentThis = savedThis }()

	for _, member := range cd.Body.Members {
		switch m := member.(type) {
		case *parser.PropertyDefinition:
			if m.Value == nil {
				continue
			}
			valueType := c.checkExpression(m.Value)
			if declared := c.resolveTypeAnnotation(m.TypeAnnotation); declared != nil {
				if mismatch := types.Explain(valueType, declared); mismatch != nil {
					c.addError(m.Value, mismatch.AssignmentMessage())
				}
			}
		case *parser.MethodDefinition:
			c.checkFunctionBody(m.Value)
		}
	}
}

// literalInitType is the type of a field inferred from its initialiser when
// the initialiser is a literal; anything else is any.
func literalInitType(value parser.Expression) types.Type {
	switch value.(type) {
	case *parser.StringLiteral, *parser.TemplateLiteral:
		return types.String
	case *parser.NumberLiteral:
		return types.Number
	case *parser.BooleanLiteral:
		return types.Boolean
	}
	return types.Any
}

func orAny(t types.Type) types.Type {
	if t == nil {
		return types.Any
	}
	return t
}
