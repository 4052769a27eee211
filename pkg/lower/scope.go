package lower

import (
	"strconv"

	"tslower/pkg/parser"
)

// renameScope maps source names to the names they are emitted under. Every
// let, const and class becomes a function-scoped var, so a block-scoped
// declaration that would collide with another name in its function is given
// a fresh name.
type renameScope struct {
	parent *renameScope
	names  map[string]string
	fn     *functionNames
}

// functionNames tracks the var names a single emitted function body uses.
type functionNames struct {
	outer    *renameScope
	used     map[string]bool
	reserved map[string]bool // declared anywhere in the body
}

func newFunctionScope(outer *renameScope, stmts []parser.Statement) *renameScope {
	fn := &functionNames{
		outer:    outer,
		used:     make(map[string]bool),
		reserved: make(map[string]bool),
	}
	for _, name := range declaredNames(stmts) {
		fn.reserved[name] = true
	}
	return &renameScope{parent: outer, names: make(map[string]string), fn: fn}
}

func newBlockScope(parent *renameScope) *renameScope {
	return &renameScope{parent: parent, names: make(map[string]string), fn: parent.fn}
}

// bind maps name to emitted in this scope and marks emitted as taken in the
// enclosing function.
func (s *renameScope) bind(name, emitted string) {
	if _, exists := s.names[name]; exists {
		return
	}
	s.names[name] = emitted
	s.fn.used[emitted] = true
}

// bindTopLevel binds the declarations of a function or program body,
// including var declarations hoisted from nested blocks. They keep their
// names.
func (s *renameScope) bindTopLevel(stmts []parser.Statement) {
	for _, name := range blockDeclarations(stmts) {
		s.bind(name, name)
	}
	for _, name := range hoistedVars(stmts) {
		s.bind(name, name)
	}
}

// bindBlock binds the let, const and class declarations of a nested block.
// var declarations were already hoisted to the function scope.
func (s *renameScope) bindBlock(stmts []parser.Statement) {
	for _, stmt := range stmts {
		switch st := stmt.(type) {
		case *parser.LetStatement:
			s.bindScoped(st.Name.Value)
		case *parser.ConstStatement:
			s.bindScoped(st.Name.Value)
		case *parser.ClassDeclaration:
			s.bindScoped(st.Name.Value)
		case *parser.ExpressionStatement:
			if fn, ok := st.FunctionDeclaration(); ok {
				s.bind(fn.Name.Value, fn.Name.Value)
			}
		}
	}
}

func (s *renameScope) bindScoped(name string) {
	if !s.conflicts(name) {
		s.bind(name, name)
		return
	}
	for i := 1; ; i++ {
		candidate := name + "_" + strconv.Itoa(i)
		if !s.conflicts(candidate) && !s.fn.reserved[candidate] {
			debugPrintf("rename block-scoped '%s' to '%s'", name, candidate)
			s.bind(name, candidate)
			return
		}
	}
}

// conflicts reports whether emitting name as a var in the current function
// would clash with a binding it already holds or hide one from outside it.
func (s *renameScope) conflicts(name string) bool {
	if s.fn.used[name] || HostGlobals[name] {
		return true
	}
	_, visible := s.fn.outer.resolve(name)
	return visible
}

func (s *renameScope) resolve(name string) (string, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if emitted, ok := cur.names[name]; ok {
			return emitted, true
		}
	}
	return "", false
}

// lookup returns the emitted name for a reference to name. Names with no
// binding, such as host globals, are unchanged.
func (s *renameScope) lookup(name string) string {
	if emitted, ok := s.resolve(name); ok {
		return emitted
	}
	return name
}

// blockDeclarations returns the names declared directly in stmts.
func blockDeclarations(stmts []parser.Statement) []string {
	var names []string
	for _, stmt := range stmts {
		switch st := stmt.(type) {
		case *parser.LetStatement:
			names = append(names, st.Name.Value)
		case *parser.ConstStatement:
			names = append(names, st.Name.Value)
		case *parser.VarStatement:
			names = append(names, st.Name.Value)
		case *parser.ClassDeclaration:
			names = append(names, st.Name.Value)
		case *parser.ExpressionStatement:
			if fn, ok := st.FunctionDeclaration(); ok {
				names = append(names, fn.Name.Value)
			}
		}
	}
	return names
}

// declaredNames returns every name declared in stmts or their nested blocks,
// without descending into functions.
func declaredNames(stmts []parser.Statement) []string {
	names := blockDeclarations(stmts)
	for _, stmt := range stmts {
		switch st := stmt.(type) {
		case *parser.BlockStatement:
			names = append(names, declaredNames(st.Statements)...)
		case *parser.IfStatement:
			names = append(names, declaredNames(st.Consequence.Statements)...)
			if st.Alternative != nil {
				names = append(names, declaredNames([]parser.Statement{st.Alternative})...)
			}
		}
	}
	return names
}
