package lower

import (
	"fmt"
	"sort"

	"tslower/pkg/errors"
	"tslower/pkg/parser"
)

// HostGlobals are the names the runtime provides without a declaration.
var HostGlobals = map[string]bool{
	"console":  true,
	"document": true,
	"Date":     true,
	"String":   true,
}

// hostConstructors are the host globals that may follow `new`.
var hostConstructors = map[string]bool{
	"Date":   true,
	"String": true,
}

// builtinTypes are the type names that need no declaration.
var builtinTypes = map[string]bool{
	"string":    true,
	"number":    true,
	"boolean":   true,
	"any":       true,
	"unknown":   true,
	"void":      true,
	"object":    true,
	"never":     true,
	"null":      true,
	"undefined": true,
	"Date":      true,
}

type bindingKind int

const (
	bindVariable bindingKind = iota
	bindParameter
	bindFunction
	bindClass
)

type binding struct {
	kind bindingKind
	init parser.Expression // initialiser of a variable, if known
}

type scope struct {
	parent *scope
	names  map[string]*binding
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, names: make(map[string]*binding)}
}

func (s *scope) declare(name string, b *binding) {
	if _, exists := s.names[name]; !exists {
		s.names[name] = b
	}
}

// classContext is the class whose constructor, method or field initialiser
// is being checked.
type classContext struct {
	name    string
	members map[string]bool

	// Set while checking a field initialiser: the parameters and top-level
	// declarations of the constructor.
	ctorNames  map[string]bool
	fieldScope *scope
}

// rebindThis returns the context for a function nested in class code: this
// no longer refers to the instance, but the field initialiser restriction on
// constructor parameters still applies.
func (c *classContext) rebindThis() *classContext {
	if c == nil || c.ctorNames == nil {
		return nil
	}
	return &classContext{name: c.name, ctorNames: c.ctorNames, fieldScope: c.fieldScope}
}

// resolver checks that a program is well formed before it is lowered. It
// records every violation so the earliest one in source order can be
// reported.
type resolver struct {
	types      map[string]bool
	violations []*errors.MalformedInputError
}

// Validate reports the first structural problem in program, or nil.
func Validate(program *parser.Program) *errors.MalformedInputError {
	r := &resolver{types: make(map[string]bool)}
	r.collectTypes(program.Statements)

	global := newScope(nil)
	r.declareBlock(global, program.Statements, true)
	r.checkStatements(global, program.Statements, nil)

	if len(r.violations) == 0 {
		return nil
	}
	sort.SliceStable(r.violations, func(i, j int) bool {
		a, b := r.violations[i].Position, r.violations[j].Position
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	first := r.violations[0]
	first.Source = program.Source
	debugPrintf("validate: %d violation(s), first %q", len(r.violations), first.Msg)
	return first
}

func (r *resolver) report(node parser.Node, identifier, format string, args ...interface{}) {
	r.violations = append(r.violations, &errors.MalformedInputError{
		Position:   positionOf(node),
		Identifier: identifier,
		Msg:        fmt.Sprintf(format, args...),
	})
}

// collectTypes records every interface, class and alias name in the program,
// at any depth, as a usable type name.
func (r *resolver) collectTypes(stmts []parser.Statement) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *parser.InterfaceDeclaration:
			r.types[s.Name.Value] = true
		case *parser.TypeAliasStatement:
			r.types[s.Name.Value] = true
		case *parser.ClassDeclaration:
			r.types[s.Name.Value] = true
		case *parser.BlockStatement:
			r.collectTypes(s.Statements)
		case *parser.IfStatement:
			r.collectTypes(s.Consequence.Statements)
			if s.Alternative != nil {
				r.collectTypes([]parser.Statement{s.Alternative})
			}
		}
	}
}

// declareBlock binds the declarations of one block. For a function or
// program body, var declarations from nested blocks are hoisted too.
func (r *resolver) declareBlock(s *scope, stmts []parser.Statement, functionBody bool) {
	for _, stmt := range stmts {
		switch st := stmt.(type) {
		case *parser.LetStatement:
			s.declare(st.Name.Value, &binding{kind: bindVariable, init: st.Value})
		case *parser.ConstStatement:
			s.declare(st.Name.Value, &binding{kind: bindVariable, init: st.Value})
		case *parser.VarStatement:
			s.declare(st.Name.Value, &binding{kind: bindVariable, init: st.Value})
		case *parser.ClassDeclaration:
			s.declare(st.Name.Value, &binding{kind: bindClass})
		case *parser.ExpressionStatement:
			if fn, ok := st.FunctionDeclaration(); ok {
				s.declare(fn.Name.Value, &binding{kind: bindFunction})
			}
		}
	}
	if functionBody {
		for _, name := range hoistedVars(stmts) {
			s.declare(name, &binding{kind: bindVariable})
		}
	}
}

// hoistedVars returns the var names declared in nested blocks of stmts.
func hoistedVars(stmts []parser.Statement) []string {
	var names []string
	var walk func(stmt parser.Statement, nested bool)
	walk = func(stmt parser.Statement, nested bool) {
		switch st := stmt.(type) {
		case *parser.VarStatement:
			if nested {
				names = append(names, st.Name.Value)
			}
		case *parser.BlockStatement:
			for _, inner := range st.Statements {
				walk(inner, true)
			}
		case *parser.IfStatement:
			walk(st.Consequence, true)
			if st.Alternative != nil {
				walk(st.Alternative, true)
			}
		}
	}
	for _, stmt := range stmts {
		walk(stmt, false)
	}
	return names
}

func (r *resolver) checkStatements(s *scope, stmts []parser.Statement, class *classContext) {
	for _, stmt := range stmts {
		r.checkStatement(s, stmt, class)
	}
}

func (r *resolver) checkStatement(s *scope, stmt parser.Statement, class *classContext) {
	switch st := stmt.(type) {
	case *parser.LetStatement:
		r.checkType(st.TypeAnnotation)
		r.checkOptionalExpr(s, st.Value, class)
	case *parser.ConstStatement:
		r.checkType(st.TypeAnnotation)
		r.checkOptionalExpr(s, st.Value, class)
	case *parser.VarStatement:
		r.checkType(st.TypeAnnotation)
		r.checkOptionalExpr(s, st.Value, class)
	case *parser.ReturnStatement:
		r.checkOptionalExpr(s, st.ReturnValue, class)
	case *parser.ExpressionStatement:
		r.checkExpr(s, st.Expression, class)
	case *parser.BlockStatement:
		inner := newScope(s)
		r.declareBlock(inner, st.Statements, false)
		r.checkStatements(inner, st.Statements, class)
	case *parser.IfStatement:
		r.checkExpr(s, st.Condition, class)
		r.checkStatement(s, st.Consequence, class)
		if st.Alternative != nil {
			r.checkStatement(s, st.Alternative, class)
		}
	case *parser.InterfaceDeclaration:
		for _, prop := range st.Properties {
			r.checkType(prop.Type)
		}
	case *parser.TypeAliasStatement:
		r.checkType(st.Type)
	case *parser.ClassDeclaration:
		r.checkClass(s, st)
	}
}

func (r *resolver) checkType(t parser.TypeNode) {
	for _, ref := range parser.TypeNames(t) {
		if !builtinTypes[ref.Name] && !r.types[ref.Name] {
			r.report(ref, ref.Name, "cannot find type '%s'", ref.Name)
		}
	}
}

func (r *resolver) checkOptionalExpr(s *scope, expr parser.Expression, class *classContext) {
	if expr != nil {
		r.checkExpr(s, expr, class)
	}
}

func (r *resolver) checkExpr(s *scope, expr parser.Expression, class *classContext) {
	switch e := expr.(type) {
	case *parser.Identifier:
		r.checkIdentifier(s, e, class)
	case *parser.MemberExpression:
		if _, isThis := e.Object.(*parser.ThisExpression); isThis && class != nil && class.members != nil {
			if !class.members[e.Property.Value] {
				r.report(e.Property, e.Property.Value, "property '%s' does not exist on type '%s'", e.Property.Value, class.name)
			}
			return
		}
		r.checkExpr(s, e.Object, class)
	case *parser.AssignmentExpression:
		if member, ok := e.Left.(*parser.MemberExpression); ok {
			// this.x = ... declares x rather than reading it.
			if _, isThis := member.Object.(*parser.ThisExpression); !isThis {
				r.checkExpr(s, member.Object, class)
			}
		} else {
			r.checkExpr(s, e.Left, class)
		}
		r.checkExpr(s, e.Value, class)
	case *parser.CallExpression:
		r.checkExpr(s, e.Function, class)
		for _, arg := range e.Arguments {
			r.checkExpr(s, arg, class)
		}
	case *parser.NewExpression:
		r.checkNewTarget(s, e, class)
		for _, arg := range e.Arguments {
			r.checkExpr(s, arg, class)
		}
	case *parser.FunctionLiteral:
		r.checkFunction(s, e, class.rebindThis())
	case *parser.TemplateLiteral:
		for _, part := range e.Parts {
			if inner, ok := part.(parser.Expression); ok {
				r.checkExpr(s, inner, class)
			}
		}
	case *parser.PrefixExpression:
		r.checkExpr(s, e.Right, class)
	case *parser.InfixExpression:
		r.checkExpr(s, e.Left, class)
		r.checkExpr(s, e.Right, class)
	case *parser.IndexExpression:
		r.checkExpr(s, e.Left, class)
		r.checkExpr(s, e.Index, class)
	case *parser.GroupedExpression:
		r.checkExpr(s, e.Expression, class)
	case *parser.ArrayLiteral:
		for _, el := range e.Elements {
			r.checkExpr(s, el, class)
		}
	case *parser.ObjectLiteral:
		for _, prop := range e.Properties {
			r.checkExpr(s, prop.Value, class)
		}
	}
}

func (r *resolver) lookup(s *scope, name string, class *classContext) (*binding, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if class != nil && class.fieldScope == cur && class.ctorNames[name] {
			// Reached the class scope from a field initialiser; names the
			// constructor declares are not visible here.
			return nil, true
		}
		if b, ok := cur.names[name]; ok {
			return b, false
		}
	}
	return nil, false
}

func (r *resolver) checkIdentifier(s *scope, id *parser.Identifier, class *classContext) {
	b, ctorName := r.lookup(s, id.Value, class)
	switch {
	case ctorName:
		r.report(id, id.Value, "initializer of instance member cannot reference identifier '%s' declared in the constructor", id.Value)
	case b == nil && !HostGlobals[id.Value]:
		r.report(id, id.Value, "cannot find name '%s'", id.Value)
	}
}

// checkNewTarget reports a `new` whose callee is known not to construct.
func (r *resolver) checkNewTarget(s *scope, ne *parser.NewExpression, class *classContext) {
	switch callee := ne.Constructor.(type) {
	case *parser.Identifier:
		b, ctorName := r.lookup(s, callee.Value, class)
		if ctorName || (b == nil && !HostGlobals[callee.Value]) {
			r.checkIdentifier(s, callee, class)
			return
		}
		if b == nil {
			if !hostConstructors[callee.Value] {
				r.report(callee, callee.Value, "'%s' is not a constructor", callee.Value)
			}
			return
		}
		if b.kind == bindVariable && !mayConstruct(b.init) {
			r.report(callee, callee.Value, "'%s' is not a constructor", callee.Value)
		}
	case *parser.MemberExpression, *parser.IndexExpression, *parser.GroupedExpression, *parser.CallExpression:
		r.checkExpr(s, callee, class)
	case *parser.FunctionLiteral:
		r.checkExpr(s, callee, class)
	default:
		r.report(ne.Constructor, ne.Constructor.String(), "'%s' is not a constructor", ne.Constructor.String())
	}
}

// mayConstruct reports whether a variable initialised with init could hold a
// constructor. Unknown initialisers are given the benefit of the doubt.
func mayConstruct(init parser.Expression) bool {
	switch init.(type) {
	case *parser.StringLiteral, *parser.NumberLiteral, *parser.BooleanLiteral,
		*parser.NullLiteral, *parser.UndefinedLiteral, *parser.TemplateLiteral,
		*parser.ObjectLiteral, *parser.ArrayLiteral, *parser.NewExpression:
		return false
	}
	return true
}

// checkFunction checks a function body in its own scope. class is non-nil
// for constructors and methods.
func (r *resolver) checkFunction(outer *scope, fn *parser.FunctionLiteral, class *classContext) {
	fnScope := newScope(outer)
	if fn.Name != nil {
		// A named function expression can call itself.
		fnScope.declare(fn.Name.Value, &binding{kind: bindFunction})
	}
	for _, param := range fn.Parameters {
		r.checkType(param.TypeAnnotation)
		fnScope.names[param.Name.Value] = &binding{kind: bindParameter}
	}
	r.checkType(fn.ReturnType)

	body := newScope(fnScope)
	r.declareBlock(body, fn.Body.Statements, true)
	r.checkStatements(body, fn.Body.Statements, class)
}

func (r *resolver) checkClass(s *scope, cd *parser.ClassDeclaration) {
	for _, iface := range cd.Implements {
		if !r.types[iface.Value] {
			r.report(iface, iface.Value, "cannot find type '%s'", iface.Value)
		}
	}

	class := &classContext{name: cd.Name.Value, members: make(map[string]bool)}
	seen := make(map[string]bool)
	seenCtor := false
	for _, member := range cd.Body.Members {
		if md, ok := member.(*parser.MethodDefinition); ok && md.IsConstructor {
			if seenCtor {
				r.report(md.Key, "constructor", "multiple constructor implementations in class '%s'", cd.Name.Value)
			}
			seenCtor = true
			for _, param := range md.Value.Parameters {
				if param.Promoted {
					r.declareMember(cd, class, seen, param.Name)
				}
			}
			continue
		}
		r.declareMember(cd, class, seen, member.MemberName())
	}
	for _, name := range cd.AssignedMembers() {
		class.members[name] = true
	}

	var ctorNames map[string]bool
	if ctor := cd.Body.Constructor(); ctor != nil {
		ctorNames = make(map[string]bool)
		for _, param := range ctor.Value.Parameters {
			ctorNames[param.Name.Value] = true
		}
		for _, name := range blockDeclarations(ctor.Value.Body.Statements) {
			ctorNames[name] = true
		}
		for _, name := range hoistedVars(ctor.Value.Body.Statements) {
			ctorNames[name] = true
		}
	}
	for _, member := range cd.Body.Members {
		switch m := member.(type) {
		case *parser.PropertyDefinition:
			r.checkType(m.TypeAnnotation)
			if m.Value == nil {
				continue
			}
			fieldClass := &classContext{name: class.name, members: class.members, ctorNames: ctorNames, fieldScope: s}
			// Field initialisers see the scope the class is declared in.
			r.checkExpr(newScope(s), m.Value, fieldClass)
		case *parser.MethodDefinition:
			r.checkFunction(s, m.Value, class)
		}
	}
}

func (r *resolver) declareMember(cd *parser.ClassDeclaration, class *classContext, seen map[string]bool, name *parser.Identifier) {
	if seen[name.Value] {
		r.report(name, name.Value, "duplicate member '%s' in class '%s'", name.Value, cd.Name.Value)
		return
	}
	seen[name.Value] = true
	class.members[name.Value] = true
}
