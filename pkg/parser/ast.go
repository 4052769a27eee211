package parser

import (
	"bytes"
	"strconv"
	"strings"

	"tslower/pkg/lexer"
	"tslower/pkg/source"
)

// --- Interfaces ---

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string // Returns the literal value of the token associated with the node
	String() string       // Returns a string representation of the node (for debugging)
}

// Statement represents a statement node in the AST.
type Statement interface {
	Node
	statementNode()
}

// Expression represents an expression node in the AST.
type Expression interface {
	Node
	expressionNode()
}

// TypeNode is a type annotation. Type nodes only exist at compile time and
// are erased by lowering.
type TypeNode interface {
	Node
	typeNode()
}

// --- Program Node ---

// Program is the root node of the AST: an ordered sequence of top-level
// declarations and statements.
type Program struct {
	Statements []Statement
	Source     *source.SourceFile

	// Header holds the comments that open the file and are set off from the
	// first statement by a blank line; they do not belong to that statement.
	Header []lexer.Comment
	// EndComments follow the last statement.
	EndComments []lexer.Comment
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
	}
	return out.String()
}

// --- Statement Nodes ---

// LetStatement represents a `let` variable declaration.
// let <Name> : <TypeAnnotation> = <Value>;
type LetStatement struct {
	Token          lexer.Token
	Name           *Identifier
	TypeAnnotation TypeNode
	Value          Expression
}

func (ls *LetStatement) statementNode()       {}
func (ls *LetStatement) TokenLiteral() string { return ls.Token.Literal }
func (ls *LetStatement) String() string {
	return declString("let", ls.Name, ls.TypeAnnotation, ls.Value)
}

// ConstStatement represents a `const` variable declaration.
type ConstStatement struct {
	Token          lexer.Token
	Name           *Identifier
	TypeAnnotation TypeNode
	Value          Expression
}

func (cs *ConstStatement) statementNode()       {}
func (cs *ConstStatement) TokenLiteral() string { return cs.Token.Literal }
func (cs *ConstStatement) String() string {
	return declString("const", cs.Name, cs.TypeAnnotation, cs.Value)
}

// VarStatement represents a `var` variable declaration. It is also what
// lowering turns let/const and class declarations into.
type VarStatement struct {
	Token          lexer.Token
	Name           *Identifier
	TypeAnnotation TypeNode
	Value          Expression
}

func (vs *VarStatement) statementNode()       {}
func (vs *VarStatement) TokenLiteral() string { return vs.Token.Literal }
func (vs *VarStatement) String() string {
	return declString("var", vs.Name, vs.TypeAnnotation, vs.Value)
}

func declString(keyword string, name *Identifier, typ TypeNode, value Expression) string {
	var out bytes.Buffer
	out.WriteString(keyword + " ")
	if name != nil {
		out.WriteString(name.String())
	}
	if typ != nil {
		out.WriteString(": ")
		out.WriteString(typ.String())
	}
	if value != nil {
		out.WriteString(" = ")
		out.WriteString(value.String())
	}
	out.WriteString(";")
	return out.String()
}

// ReturnStatement represents a `return` statement.
type ReturnStatement struct {
	Token       lexer.Token
	ReturnValue Expression
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) String() string {
	if rs.ReturnValue == nil {
		return "return;"
	}
	return "return " + rs.ReturnValue.String() + ";"
}

// ExpressionStatement represents a statement consisting of a single expression.
// Function declarations are expression statements holding a named FunctionLiteral.
type ExpressionStatement struct {
	Token      lexer.Token // The first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String()
	}
	return ""
}

// FunctionDeclaration returns the named function this statement declares, if any.
func (es *ExpressionStatement) FunctionDeclaration() (*FunctionLiteral, bool) {
	fn, ok := es.Expression.(*FunctionLiteral)
	if !ok || fn.Name == nil {
		return nil, false
	}
	return fn, true
}

// BlockStatement represents a sequence of statements enclosed in braces.
type BlockStatement struct {
	Token       lexer.Token // The '{' token
	Statements  []Statement
	EndComments []lexer.Comment // comments before the closing '}'
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, s := range bs.Statements {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}

// IfStatement represents if (<Condition>) <Consequence> else <Alternative>.
type IfStatement struct {
	Token       lexer.Token
	Condition   Expression
	Consequence *BlockStatement
	Alternative Statement // *BlockStatement or *IfStatement, may be nil
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) String() string {
	out := "if (" + is.Condition.String() + ") " + is.Consequence.String()
	if is.Alternative != nil {
		out += " else " + is.Alternative.String()
	}
	return out
}

// InterfaceDeclaration is a compile-time shape contract.
// interface <Name> { <Properties> }
type InterfaceDeclaration struct {
	Token      lexer.Token
	Name       *Identifier
	Properties []*InterfaceProperty
}

func (id *InterfaceDeclaration) statementNode()       {}
func (id *InterfaceDeclaration) TokenLiteral() string { return id.Token.Literal }
func (id *InterfaceDeclaration) String() string {
	parts := make([]string, 0, len(id.Properties))
	for _, p := range id.Properties {
		parts = append(parts, p.String())
	}
	return "interface " + id.Name.Value + " { " + strings.Join(parts, "; ") + " }"
}

// InterfaceProperty is one named, typed field of an interface.
type InterfaceProperty struct {
	Token    lexer.Token
	Name     string
	Type     TypeNode // nil means any
	Optional bool
}

func (ip *InterfaceProperty) TokenLiteral() string { return ip.Token.Literal }
func (ip *InterfaceProperty) String() string {
	out := ip.Name
	if ip.Optional {
		out += "?"
	}
	if ip.Type != nil {
		out += ": " + ip.Type.String()
	}
	return out
}

// TypeAliasStatement represents `type <Name> = <Type>`.
type TypeAliasStatement struct {
	Token lexer.Token
	Name  *Identifier
	Type  TypeNode
}

func (ta *TypeAliasStatement) statementNode()       {}
func (ta *TypeAliasStatement) TokenLiteral() string { return ta.Token.Literal }
func (ta *TypeAliasStatement) String() string {
	return "type " + ta.Name.Value + " = " + ta.Type.String() + ";"
}

// --- Expression Nodes ---

// Identifier represents an identifier in the source code.
type Identifier struct {
	Token lexer.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

// Parameter represents a function or constructor parameter.
// In a constructor, an access modifier promotes the parameter to an
// instance field of the same name.
type Parameter struct {
	Token          lexer.Token
	Name           *Identifier
	TypeAnnotation TypeNode
	Optional       bool
	Promoted       bool
	Modifier       string // "public", "private", "protected", "readonly" or ""
}

func (p *Parameter) TokenLiteral() string { return p.Token.Literal }
func (p *Parameter) String() string {
	out := p.Name.Value
	if p.Modifier != "" {
		out = p.Modifier + " " + out
	}
	if p.Optional {
		out += "?"
	}
	if p.TypeAnnotation != nil {
		out += ": " + p.TypeAnnotation.String()
	}
	return out
}

// BooleanLiteral represents true or false.
type BooleanLiteral struct {
	Token lexer.Token
	Value bool
}

func (b *BooleanLiteral) expressionNode()      {}
func (b *BooleanLiteral) TokenLiteral() string { return b.Token.Literal }
func (b *BooleanLiteral) String() string       { return strconv.FormatBool(b.Value) }

// NumberLiteral represents a numeric literal.
type NumberLiteral struct {
	Token lexer.Token
	Value float64
}

func (n *NumberLiteral) expressionNode()      {}
func (n *NumberLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NumberLiteral) String() string {
	if n.Token.Literal != "" {
		return n.Token.Literal
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// StringLiteral represents a string literal; Value is the unescaped content.
type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (s *StringLiteral) expressionNode()      {}
func (s *StringLiteral) TokenLiteral() string { return s.Token.Literal }
func (s *StringLiteral) String() string       { return strconv.Quote(s.Value) }

// TemplateLiteral represents `text ${expr} text`. Parts alternate between
// *TemplateStringPart and Expression, always starting and ending with a
// string part (possibly empty).
type TemplateLiteral struct {
	Token lexer.Token // TEMPLATE_START
	Parts []Node
}

func (tl *TemplateLiteral) expressionNode()      {}
func (tl *TemplateLiteral) TokenLiteral() string { return tl.Token.Literal }
func (tl *TemplateLiteral) String() string {
	var out bytes.Buffer
	out.WriteString("`")
	for _, part := range tl.Parts {
		if sp, ok := part.(*TemplateStringPart); ok {
			out.WriteString(sp.Value)
			continue
		}
		out.WriteString("${")
		out.WriteString(part.String())
		out.WriteString("}")
	}
	out.WriteString("`")
	return out.String()
}

// TemplateStringPart is a literal chunk of a template.
type TemplateStringPart struct {
	Value string
}

func (tsp *TemplateStringPart) TokenLiteral() string { return tsp.Value }
func (tsp *TemplateStringPart) String() string       { return tsp.Value }

// NullLiteral represents null.
type NullLiteral struct {
	Token lexer.Token
}

func (nl *NullLiteral) expressionNode()      {}
func (nl *NullLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NullLiteral) String() string       { return "null" }

// UndefinedLiteral represents undefined.
type UndefinedLiteral struct {
	Token lexer.Token
}

func (ul *UndefinedLiteral) expressionNode()      {}
func (ul *UndefinedLiteral) TokenLiteral() string { return ul.Token.Literal }
func (ul *UndefinedLiteral) String() string       { return "undefined" }

// ThisExpression represents the implicit receiver.
type ThisExpression struct {
	Token lexer.Token
}

func (te *ThisExpression) expressionNode()      {}
func (te *ThisExpression) TokenLiteral() string { return te.Token.Literal }
func (te *ThisExpression) String() string       { return "this" }

// FunctionLiteral represents function declarations and expressions.
// function <Name>(<Parameters>): <ReturnType> <Body>
type FunctionLiteral struct {
	Token      lexer.Token // The 'function' token
	Name       *Identifier // nil for anonymous functions
	Parameters []*Parameter
	ReturnType TypeNode
	Body       *BlockStatement
}

func (fl *FunctionLiteral) expressionNode()      {}
func (fl *FunctionLiteral) TokenLiteral() string { return fl.Token.Literal }
func (fl *FunctionLiteral) String() string {
	var out bytes.Buffer
	out.WriteString("function")
	if fl.Name != nil {
		out.WriteString(" " + fl.Name.Value)
	}
	out.WriteString("(")
	out.WriteString(paramsString(fl.Parameters))
	out.WriteString(")")
	if fl.ReturnType != nil {
		out.WriteString(": " + fl.ReturnType.String())
	}
	out.WriteString(" ")
	out.WriteString(fl.Body.String())
	return out.String()
}

func paramsString(params []*Parameter) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, ", ")
}

// PrefixExpression represents <Operator><Right>.
type PrefixExpression struct {
	Token    lexer.Token
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) String() string {
	return "(" + pe.Operator + pe.Right.String() + ")"
}

// InfixExpression represents <Left> <Operator> <Right>.
type InfixExpression struct {
	Token    lexer.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InfixExpression) String() string {
	return "(" + ie.Left.String() + " " + ie.Operator + " " + ie.Right.String() + ")"
}

// AssignmentExpression represents <Left> = <Value>. Left is an
// *Identifier, *MemberExpression or *IndexExpression.
type AssignmentExpression struct {
	Token    lexer.Token // The '=' token
	Operator string
	Left     Expression
	Value    Expression
}

func (ae *AssignmentExpression) expressionNode()      {}
func (ae *AssignmentExpression) TokenLiteral() string { return ae.Token.Literal }
func (ae *AssignmentExpression) String() string {
	return ae.Left.String() + " " + ae.Operator + " " + ae.Value.String()
}

// CallExpression represents <Function>(<Arguments>).
type CallExpression struct {
	Token     lexer.Token // The '(' token
	Function  Expression
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) String() string {
	return ce.Function.String() + "(" + exprList(ce.Arguments) + ")"
}

// NewExpression represents new <Constructor>(<Arguments>).
type NewExpression struct {
	Token       lexer.Token // The 'new' token
	Constructor Expression
	Arguments   []Expression
}

func (ne *NewExpression) expressionNode()      {}
func (ne *NewExpression) TokenLiteral() string { return ne.Token.Literal }
func (ne *NewExpression) String() string {
	return "new " + ne.Constructor.String() + "(" + exprList(ne.Arguments) + ")"
}

func exprList(exprs []Expression) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}

// MemberExpression represents <Object>.<Property>. The property name may be
// any string when the node was synthesized from a quoted field name.
type MemberExpression struct {
	Token    lexer.Token // The '.' token
	Object   Expression
	Property *Identifier
}

func (me *MemberExpression) expressionNode()      {}
func (me *MemberExpression) TokenLiteral() string { return me.Token.Literal }
func (me *MemberExpression) String() string {
	return me.Object.String() + "." + me.Property.Value
}

// IndexExpression represents <Left>[<Index>].
type IndexExpression struct {
	Token lexer.Token // The '[' token
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IndexExpression) String() string {
	return ie.Left.String() + "[" + ie.Index.String() + "]"
}

// GroupedExpression keeps source parentheses so the emitter can print them
// back. ClassWrapper marks the IIFE that lowering builds around a class.
type GroupedExpression struct {
	Token        lexer.Token // The '(' token
	Expression   Expression
	ClassWrapper bool
}

func (ge *GroupedExpression) expressionNode()      {}
func (ge *GroupedExpression) TokenLiteral() string { return ge.Token.Literal }
func (ge *GroupedExpression) String() string       { return "(" + ge.Expression.String() + ")" }

// ArrayLiteral represents [<Elements>].
type ArrayLiteral struct {
	Token    lexer.Token
	Elements []Expression
}

func (al *ArrayLiteral) expressionNode()      {}
func (al *ArrayLiteral) TokenLiteral() string { return al.Token.Literal }
func (al *ArrayLiteral) String() string       { return "[" + exprList(al.Elements) + "]" }

// ObjectLiteral represents { key: value, ... }.
type ObjectLiteral struct {
	Token      lexer.Token
	Properties []*ObjectProperty
}

func (ol *ObjectLiteral) expressionNode()      {}
func (ol *ObjectLiteral) TokenLiteral() string { return ol.Token.Literal }
func (ol *ObjectLiteral) String() string {
	parts := make([]string, 0, len(ol.Properties))
	for _, p := range ol.Properties {
		parts = append(parts, p.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// ObjectProperty is one key/value pair of an object literal. Quoted records
// whether the key was written as a string literal.
type ObjectProperty struct {
	Token  lexer.Token
	Key    string
	Quoted bool
	Value  Expression
}

func (op *ObjectProperty) TokenLiteral() string { return op.Token.Literal }
func (op *ObjectProperty) String() string {
	key := op.Key
	if op.Quoted {
		key = strconv.Quote(key)
	}
	return key + ": " + op.Value.String()
}

// --- Class Nodes ---

// ClassDeclaration represents
// class <Name> [implements <Implements>] { <Body> }
type ClassDeclaration struct {
	Token      lexer.Token // The 'class' token
	Name       *Identifier
	Implements []*Identifier
	Body       *ClassBody
}

func (cd *ClassDeclaration) statementNode()       {}
func (cd *ClassDeclaration) TokenLiteral() string { return cd.Token.Literal }
func (cd *ClassDeclaration) String() string {
	out := "class " + cd.Name.Value
	if len(cd.Implements) > 0 {
		names := make([]string, 0, len(cd.Implements))
		for _, id := range cd.Implements {
			names = append(names, id.Value)
		}
		out += " implements " + strings.Join(names, ", ")
	}
	return out + " " + cd.Body.String()
}

// ClassMember is a *PropertyDefinition or a *MethodDefinition.
type ClassMember interface {
	Node
	MemberName() *Identifier
}

// ClassBody holds the members of a class in source order.
type ClassBody struct {
	Token   lexer.Token // The '{' token
	Members []ClassMember
}

func (cb *ClassBody) TokenLiteral() string { return cb.Token.Literal }
func (cb *ClassBody) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, m := range cb.Members {
		out.WriteString(m.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}

// Constructor returns the first constructor of the class, or nil.
func (cb *ClassBody) Constructor() *MethodDefinition {
	for _, m := range cb.Members {
		if md, ok := m.(*MethodDefinition); ok && md.IsConstructor {
			return md
		}
	}
	return nil
}

// Fields returns the field declarations in source order.
func (cb *ClassBody) Fields() []*PropertyDefinition {
	var fields []*PropertyDefinition
	for _, m := range cb.Members {
		if pd, ok := m.(*PropertyDefinition); ok {
			fields = append(fields, pd)
		}
	}
	return fields
}

// Methods returns the instance methods in source order.
func (cb *ClassBody) Methods() []*MethodDefinition {
	var methods []*MethodDefinition
	for _, m := range cb.Members {
		if md, ok := m.(*MethodDefinition); ok && !md.IsConstructor {
			methods = append(methods, md)
		}
	}
	return methods
}

// PropertyDefinition is a field declaration with an optional initialiser.
type PropertyDefinition struct {
	Token          lexer.Token
	Key            *Identifier
	Quoted         bool
	Modifier       string
	Optional       bool
	TypeAnnotation TypeNode
	Value          Expression // nil when the field has no initialiser
}

func (pd *PropertyDefinition) TokenLiteral() string    { return pd.Token.Literal }
func (pd *PropertyDefinition) MemberName() *Identifier { return pd.Key }
func (pd *PropertyDefinition) String() string {
	out := pd.Key.Value
	if pd.Quoted {
		out = strconv.Quote(out)
	}
	if pd.Modifier != "" {
		out = pd.Modifier + " " + out
	}
	if pd.Optional {
		out += "?"
	}
	if pd.TypeAnnotation != nil {
		out += ": " + pd.TypeAnnotation.String()
	}
	if pd.Value != nil {
		out += " = " + pd.Value.String()
	}
	return out + ";"
}

// MethodDefinition is a method or the constructor of a class.
type MethodDefinition struct {
	Token         lexer.Token
	Key           *Identifier
	Modifier      string
	IsConstructor bool
	Value         *FunctionLiteral
}

func (md *MethodDefinition) TokenLiteral() string    { return md.Token.Literal }
func (md *MethodDefinition) MemberName() *Identifier { return md.Key }
func (md *MethodDefinition) String() string {
	out := md.Key.Value + "(" + paramsString(md.Value.Parameters) + ")"
	if md.Modifier != "" {
		out = md.Modifier + " " + out
	}
	if md.Value.ReturnType != nil {
		out += ": " + md.Value.ReturnType.String()
	}
	return out + " " + md.Value.Body.String()
}

// PromotedParameters returns the constructor parameters that also declare
// instance fields, in declaration order.
func (cd *ClassDeclaration) PromotedParameters() []*Parameter {
	ctor := cd.Body.Constructor()
	if ctor == nil {
		return nil
	}
	var promoted []*Parameter
	for _, param := range ctor.Value.Parameters {
		if param.Promoted {
			promoted = append(promoted, param)
		}
	}
	return promoted
}

// AssignedMembers returns every name assigned through `this.name = ...` in
// the class body, outside nested functions, in order of appearance.
func (cd *ClassDeclaration) AssignedMembers() []string {
	var names []string
	var visitExpr func(Expression)
	var visitStmt func(Statement)

	visitExpr = func(expr Expression) {
		switch e := expr.(type) {
		case *AssignmentExpression:
			if member, ok := e.Left.(*MemberExpression); ok {
				if _, isThis := member.Object.(*ThisExpression); isThis {
					names = append(names, member.Property.Value)
				}
			}
			visitExpr(e.Value)
		case *CallExpression:
			visitExpr(e.Function)
			for _, arg := range e.Arguments {
				visitExpr(arg)
			}
		case *GroupedExpression:
			visitExpr(e.Expression)
		case *InfixExpression:
			visitExpr(e.Left)
			visitExpr(e.Right)
		case *PrefixExpression:
			visitExpr(e.Right)
		}
	}
	visitStmt = func(stmt Statement) {
		switch st := stmt.(type) {
		case *ExpressionStatement:
			visitExpr(st.Expression)
		case *BlockStatement:
			for _, inner := range st.Statements {
				visitStmt(inner)
			}
		case *IfStatement:
			visitExpr(st.Condition)
			visitStmt(st.Consequence)
			if st.Alternative != nil {
				visitStmt(st.Alternative)
			}
		case *ReturnStatement:
			if st.ReturnValue != nil {
				visitExpr(st.ReturnValue)
			}
		case *LetStatement:
			if st.Value != nil {
				visitExpr(st.Value)
			}
		case *ConstStatement:
			visitExpr(st.Value)
		case *VarStatement:
			if st.Value != nil {
				visitExpr(st.Value)
			}
		}
	}

	for _, member := range cd.Body.Members {
		switch m := member.(type) {
		case *MethodDefinition:
			visitStmt(m.Value.Body)
		case *PropertyDefinition:
			if m.Value != nil {
				visitExpr(m.Value)
			}
		}
	}
	return names
}
