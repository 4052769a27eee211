package checker

import (
	"strconv"

	"tslower/pkg/parser"
	"tslower/pkg/types"
)

// collectTypeDeclarations registers every interface, class and alias name
// in stmts, at any block depth, before any body is checked. Interface and
// class shapes are created empty first so declarations may refer to each
// other in any order.
func (c *Checker) collectTypeDeclarations(stmts []parser.Statement) {
	var interfaces []*parser.InterfaceDeclaration
	var classes []*parser.ClassDeclaration

	var walk func([]parser.Statement)
	walk = func(stmts []parser.Statement) {
		for _, stmt := range stmts {
			switch s := stmt.(type) {
			case *parser.InterfaceDeclaration:
				if _, exists := c.named[s.Name.Value]; !exists {
					c.named[s.Name.Value] = types.NewObjectType(s.Name.Value)
					interfaces = append(interfaces, s)
				}
			case *parser.ClassDeclaration:
				if _, exists := c.named[s.Name.Value]; !exists {
					c.named[s.Name.Value] = types.NewObjectType(s.Name.Value)
					classes = append(classes, s)
				}
			case *parser.TypeAliasStatement:
				if _, exists := c.aliases[s.Name.Value]; !exists {
					c.aliases[s.Name.Value] = s.Type
				}
			case *parser.BlockStatement:
				walk(s.Statements)
			case *parser.IfStatement:
				walk(s.Consequence.Statements)
				if s.Alternative != nil {
					walk([]parser.Statement{s.Alternative})
				}
			}
		}
	}
	walk(stmts)

	for _, iface := range interfaces {
		shape := c.named[iface.Name.Value].(*types.ObjectType)
		for _, prop := range iface.Properties {
			shape.AddProperty(prop.Name, c.resolveTypeAnnotation(prop.Type), prop.Optional)
		}
	}
	for _, class := range classes {
		c.buildClassShape(class, c.named[class.Name.Value].(*types.ObjectType))
	}
}

// resolveTypeAnnotation converts a type annotation into a types.Type. It
// returns nil for a missing annotation and any for a name it cannot
// resolve; unresolved names are reported by the lowering pass.
func (c *Checker) resolveTypeAnnotation(node parser.TypeNode) types.Type {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *parser.TypeReference:
		return c.resolveNamedType(n.Name)
	case *parser.ArrayType:
		return &types.ArrayType{ElementType: c.resolveTypeAnnotation(n.Element)}
	case *parser.UnionType:
		members := make([]types.Type, 0, len(n.Types))
		for _, member := range n.Types {
			members = append(members, c.resolveTypeAnnotation(member))
		}
		return types.NewUnionType(members...)
	case *parser.ObjectType:
		shape := types.NewObjectType("")
		for _, prop := range n.Properties {
			shape.AddProperty(prop.Name, c.resolveTypeAnnotation(prop.Type), prop.Optional)
		}
		return shape
	case *parser.LiteralType:
		return literalType(n.Value)
	}
	debugPrintf("// [Checker resolveTypeAnnotation] unhandled type node %T\n", node)
	return types.Any
}

func (c *Checker) resolveNamedType(name string) types.Type {
	if t, ok := c.named[name]; ok {
		return t
	}
	if prim, ok := types.LookupPrimitive(name); ok {
		return prim
	}
	alias, ok := c.aliases[name]
	if !ok {
		return types.Any
	}
	if c.resolving[name] {
		// Self-referential alias.
		return types.Any
	}
	c.resolving[name] = true
	resolved := c.resolveTypeAnnotation(alias)
	delete(c.resolving, name)
	if resolved == nil {
		resolved = types.Any
	}
	c.named[name] = resolved
	return resolved
}

func literalType(expr parser.Expression) types.Type {
	switch lit := expr.(type) {
	case *parser.StringLiteral:
		return &types.LiteralType{Base: types.String, Value: lit.Value}
	case *parser.NumberLiteral:
		return &types.LiteralType{Base: types.Number, Value: lit.String()}
	case *parser.BooleanLiteral:
		return &types.LiteralType{Base: types.Boolean, Value: strconv.FormatBool(lit.Value)}
	}
	return types.Any
}

// signatureOf builds the signature of a function literal.
func (c *Checker) signatureOf(name string, fn *parser.FunctionLiteral) *types.Signature {
	sig := &types.Signature{Name: name, ReturnType: c.resolveTypeAnnotation(fn.ReturnType)}
	for _, param := range fn.Parameters {
		sig.Parameters = append(sig.Parameters, types.Parameter{
			Name:     param.Name.Value,
			Type:     c.resolveTypeAnnotation(param.TypeAnnotation),
			Optional: param.Optional,
		})
	}
	return sig
}
