package parser

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"tslower/pkg/lexer"
)

// JSEmitter prints a lowered AST as plain script text. Type annotations are
// never printed; interfaces and type aliases produce no output.
type JSEmitter struct {
	indentLevel int
	indentWidth int
	newline     string
	buffer      bytes.Buffer
}

// EmitterOption configures a JSEmitter.
type EmitterOption func(*JSEmitter)

// WithIndent sets the number of spaces per indentation level.
func WithIndent(width int) EmitterOption {
	return func(e *JSEmitter) {
		if width >= 0 {
			e.indentWidth = width
		}
	}
}

// WithNewline sets the line terminator.
func WithNewline(newline string) EmitterOption {
	return func(e *JSEmitter) {
		if newline != "" {
			e.newline = newline
		}
	}
}

// NewJSEmitter creates a new JavaScript emitter
func NewJSEmitter(opts ...EmitterOption) *JSEmitter {
	e := &JSEmitter{indentWidth: 4, newline: "\n"}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Emit converts a program AST to JavaScript code
func (e *JSEmitter) Emit(program *Program) string {
	e.buffer.Reset()
	e.indentLevel = 0

	e.emitComments(program.Header)
	e.emitStatements(program.Statements, program.EndComments)

	return e.buffer.String()
}

// Helper methods

func (e *JSEmitter) indent() {
	e.indentLevel++
}

func (e *JSEmitter) dedent() {
	if e.indentLevel > 0 {
		e.indentLevel--
	}
}

func (e *JSEmitter) writeIndent() {
	e.buffer.WriteString(strings.Repeat(" ", e.indentLevel*e.indentWidth))
}

func (e *JSEmitter) writeLine(format string, args ...interface{}) {
	e.writeIndent()
	fmt.Fprintf(&e.buffer, format, args...)
	e.buffer.WriteString(e.newline)
}

func (e *JSEmitter) write(s string) {
	e.buffer.WriteString(s)
}

func (e *JSEmitter) endLine() {
	e.buffer.WriteString(e.newline)
}

// AST emitter methods

// emitStatements writes stmts with their leading comments, then the
// comments that close the list.
func (e *JSEmitter) emitStatements(stmts []Statement, end []lexer.Comment) {
	for _, stmt := range stmts {
		switch stmt.(type) {
		case *InterfaceDeclaration, *TypeAliasStatement:
			continue
		}
		e.emitComments(LeadingComments(stmt))
		e.emitStatement(stmt)
	}
	e.emitComments(end)
}

// emitComments writes each comment on its own line, except that a single
// line comment trailing the previous line's code is appended to that line.
func (e *JSEmitter) emitComments(comments []lexer.Comment) {
	for _, c := range comments {
		if c.Trailing && c.EndLine == c.Line && e.reopenLine() {
			e.write(" " + c.Text)
			e.endLine()
			continue
		}
		e.emitComment(c)
	}
}

// reopenLine removes the final line terminator so more text can be added to
// the last line. It reports false when there is no line to reopen.
func (e *JSEmitter) reopenLine() bool {
	if !bytes.HasSuffix(e.buffer.Bytes(), []byte(e.newline)) {
		return false
	}
	e.buffer.Truncate(e.buffer.Len() - len(e.newline))
	return true
}

// emitComment writes c at the current indentation. Continuation lines of a
// block comment keep their indentation relative to the opening delimiter.
func (e *JSEmitter) emitComment(c lexer.Comment) {
	for i, line := range strings.Split(c.Text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if i > 0 {
			line = trimIndent(line, c.Column-1)
		}
		e.writeIndent()
		e.write(line)
		e.endLine()
	}
}

// trimIndent drops up to n leading spaces or tabs.
func trimIndent(line string, n int) string {
	i := 0
	for i < n && i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[i:]
}

func (e *JSEmitter) emitStatement(stmt Statement) {
	switch s := stmt.(type) {
	case *LetStatement:
		e.emitDeclaration("let", s.Name, s.Value)
	case *VarStatement:
		e.emitDeclaration("var", s.Name, s.Value)
	case *ConstStatement:
		e.emitDeclaration("const", s.Name, s.Value)
	case *ReturnStatement:
		e.emitReturnStatement(s)
	case *ExpressionStatement:
		e.emitExpressionStatement(s)
	case *BlockStatement:
		e.writeIndent()
		e.emitBlockStatement(s)
		e.endLine()
	case *IfStatement:
		e.writeIndent()
		e.emitIfStatement(s)
		e.endLine()
	case *InterfaceDeclaration, *TypeAliasStatement:
		// Compile-time only.
	default:
		e.writeLine("/* Unsupported statement type: %T */", s)
	}
}

func (e *JSEmitter) emitDeclaration(keyword string, name *Identifier, value Expression) {
	e.writeIndent()
	e.write(keyword + " " + name.Value)
	if value != nil {
		e.write(" = ")
		e.emitExpression(value)
	}
	e.write(";")
	e.endLine()
}

func (e *JSEmitter) emitReturnStatement(stmt *ReturnStatement) {
	e.writeIndent()
	e.write("return")

	if stmt.ReturnValue != nil {
		e.write(" ")
		e.emitExpression(stmt.ReturnValue)
	}

	e.write(";")
	e.endLine()
}

func (e *JSEmitter) emitExpressionStatement(stmt *ExpressionStatement) {
	e.writeIndent()

	// A named function at statement level is a declaration and takes no ';'.
	if fn, ok := stmt.FunctionDeclaration(); ok {
		e.emitFunctionLiteral(fn)
		e.endLine()
		return
	}

	if needsStatementParens(stmt.Expression) {
		e.write("(")
		e.emitExpression(stmt.Expression)
		e.write(")")
	} else {
		e.emitExpression(stmt.Expression)
	}
	e.write(";")
	e.endLine()
}

// needsStatementParens reports whether expr would be misread as a
// declaration or block at the start of a statement.
func needsStatementParens(expr Expression) bool {
	for {
		switch node := expr.(type) {
		case *FunctionLiteral, *ObjectLiteral:
			return true
		case *CallExpression:
			expr = node.Function
		case *MemberExpression:
			expr = node.Object
		case *IndexExpression:
			expr = node.Left
		case *AssignmentExpression:
			expr = node.Left
		case *InfixExpression:
			expr = node.Left
		default:
			return false
		}
	}
}

func (e *JSEmitter) emitIfStatement(stmt *IfStatement) {
	e.write("if (")
	e.emitExpression(stmt.Condition)
	e.write(") ")
	e.emitBlockStatement(stmt.Consequence)

	switch alt := stmt.Alternative.(type) {
	case *BlockStatement:
		e.write(" else ")
		e.emitBlockStatement(alt)
	case *IfStatement:
		e.write(" else ")
		e.emitIfStatement(alt)
	}
}

// emitBlockStatement writes a braced block starting at the current column and
// leaves the cursor right after the closing brace.
func (e *JSEmitter) emitBlockStatement(stmt *BlockStatement) {
	if len(stmt.Statements) == 0 && len(stmt.EndComments) == 0 {
		e.write("{ }")
		return
	}

	e.write("{")
	e.endLine()
	e.indent()

	e.emitStatements(stmt.Statements, stmt.EndComments)

	e.dedent()
	e.writeIndent()
	e.write("}")
}

// Operator precedence for printing; higher binds tighter.
const (
	printLowest = iota
	printAssign
	printOr
	printAnd
	printEquality
	printRelational
	printAdditive
	printMultiplicative
	printPrefix
	printCall
	printPrimary
)

var infixPrintPrecedence = map[string]int{
	"||":  printOr,
	"&&":  printAnd,
	"==":  printEquality,
	"!=":  printEquality,
	"===": printEquality,
	"!==": printEquality,
	"<":   printRelational,
	">":   printRelational,
	"<=":  printRelational,
	">=":  printRelational,
	"+":   printAdditive,
	"-":   printAdditive,
	"*":   printMultiplicative,
	"/":   printMultiplicative,
}

func printPrecedence(expr Expression) int {
	switch exp := expr.(type) {
	case *AssignmentExpression:
		return printAssign
	case *InfixExpression:
		if prec, ok := infixPrintPrecedence[exp.Operator]; ok {
			return prec
		}
		return printLowest
	case *PrefixExpression:
		return printPrefix
	case *CallExpression, *NewExpression, *MemberExpression, *IndexExpression:
		return printCall
	case *FunctionLiteral:
		return printAssign
	default:
		return printPrimary
	}
}

// emitOperand writes expr, parenthesised when it binds looser than min.
func (e *JSEmitter) emitOperand(expr Expression, min int) {
	if printPrecedence(expr) < min {
		e.write("(")
		e.emitExpression(expr)
		e.write(")")
		return
	}
	e.emitExpression(expr)
}

func (e *JSEmitter) emitExpression(expr Expression) {
	switch exp := expr.(type) {
	case *Identifier:
		e.write(exp.Value)
	case *BooleanLiteral:
		e.write(strconv.FormatBool(exp.Value))
	case *NumberLiteral:
		e.write(exp.String())
	case *StringLiteral:
		e.write(QuoteString(exp.Value))
	case *TemplateLiteral:
		e.emitTemplateLiteral(exp)
	case *NullLiteral:
		e.write("null")
	case *UndefinedLiteral:
		e.write("undefined")
	case *ThisExpression:
		e.write("this")
	case *FunctionLiteral:
		e.emitFunctionLiteral(exp)
	case *CallExpression:
		e.emitCallExpression(exp)
	case *NewExpression:
		e.emitNewExpression(exp)
	case *PrefixExpression:
		e.write(exp.Operator)
		e.emitOperand(exp.Right, printPrefix)
	case *InfixExpression:
		e.emitInfixExpression(exp)
	case *AssignmentExpression:
		e.emitExpression(exp.Left)
		e.write(" " + exp.Operator + " ")
		e.emitOperand(exp.Value, printAssign)
	case *ArrayLiteral:
		e.write("[")
		e.emitList(exp.Elements)
		e.write("]")
	case *IndexExpression:
		e.emitOperand(exp.Left, printCall)
		e.write("[")
		e.emitExpression(exp.Index)
		e.write("]")
	case *MemberExpression:
		e.emitMemberExpression(exp)
	case *ObjectLiteral:
		e.emitObjectLiteral(exp)
	case *GroupedExpression:
		if exp.ClassWrapper {
			e.write("/** @class */ ")
		}
		e.write("(")
		e.emitExpression(exp.Expression)
		e.write(")")
	default:
		e.write(fmt.Sprintf("/* Unsupported expression type: %T */", exp))
	}
}

func (e *JSEmitter) emitFunctionLiteral(fn *FunctionLiteral) {
	e.write("function ")

	if fn.Name != nil {
		e.write(fn.Name.Value)
	}

	params := make([]string, 0, len(fn.Parameters))
	for _, p := range fn.Parameters {
		params = append(params, p.Name.Value)
	}
	e.write("(" + strings.Join(params, ", ") + ") ")
	e.emitBlockStatement(fn.Body)
}

func (e *JSEmitter) emitCallExpression(call *CallExpression) {
	if _, ok := call.Function.(*FunctionLiteral); ok {
		// Invoked function expression, already inside a group.
		e.emitExpression(call.Function)
	} else {
		e.emitOperand(call.Function, printCall)
	}
	e.write("(")
	e.emitList(call.Arguments)
	e.write(")")
}

func (e *JSEmitter) emitNewExpression(ne *NewExpression) {
	e.write("new ")
	if _, ok := ne.Constructor.(*CallExpression); ok {
		e.write("(")
		e.emitExpression(ne.Constructor)
		e.write(")")
	} else {
		e.emitOperand(ne.Constructor, printCall)
	}
	e.write("(")
	e.emitList(ne.Arguments)
	e.write(")")
}

func (e *JSEmitter) emitInfixExpression(expr *InfixExpression) {
	prec := printPrecedence(expr)
	e.emitOperand(expr.Left, prec)
	e.write(" " + expr.Operator + " ")
	// Left-associative: an equal-precedence right operand needs parens.
	e.emitOperand(expr.Right, prec+1)
}

func (e *JSEmitter) emitMemberExpression(expr *MemberExpression) {
	if _, ok := expr.Object.(*NumberLiteral); ok {
		e.write("(")
		e.emitExpression(expr.Object)
		e.write(")")
	} else {
		e.emitOperand(expr.Object, printCall)
	}
	name := expr.Property.Value
	if IsIdentifierName(name) {
		e.write("." + name)
		return
	}
	e.write("[" + QuoteString(name) + "]")
}

func (e *JSEmitter) emitObjectLiteral(obj *ObjectLiteral) {
	if len(obj.Properties) == 0 {
		e.write("{}")
		return
	}

	e.write("{ ")
	for i, prop := range obj.Properties {
		if i > 0 {
			e.write(", ")
		}
		if prop.Quoted || !(IsIdentifierName(prop.Key) || isNumericKey(prop.Key)) {
			e.write(QuoteString(prop.Key))
		} else {
			e.write(prop.Key)
		}
		e.write(": ")
		e.emitOperand(prop.Value, printAssign)
	}
	e.write(" }")
}

func isNumericKey(key string) bool {
	_, err := strconv.ParseFloat(key, 64)
	return err == nil
}

// emitTemplateLiteral prints a template that survived lowering using the
// concat form, so the output never contains template syntax.
func (e *JSEmitter) emitTemplateLiteral(tl *TemplateLiteral) {
	e.emitExpression(TemplateToConcat(tl))
}

func (e *JSEmitter) emitList(exprs []Expression) {
	for i, expr := range exprs {
		if i > 0 {
			e.write(", ")
		}
		e.emitOperand(expr, printAssign)
	}
}

// QuoteString returns s as a double-quoted script string literal.
func QuoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		case '\u2028', '\u2029':
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
