// Package ast defines the node set the parser produces for the constructs
// spec.md §6 recognizes, grounded on the teacher's internal/ast package:
// every node implements Node (TokenLiteral/Pos/String), split into the
// Statement and Expression marker interfaces the Builder switches on.
package ast

import (
	"bytes"
	"strings"

	"github.com/jsjit/jsjit/internal/lexer"
)

// Node is the root interface every AST node implements.
type Node interface {
	TokenLiteral() string
	Pos() lexer.Position
	String() string
}

// Statement is a node that appears in statement position.
type Statement interface {
	Node
	statementNode()
}

// Expression is a node that appears in expression position and yields a
// value.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node: an ordered list of top-level statements.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}
func (p *Program) Pos() lexer.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return lexer.Position{}
}
func (p *Program) String() string {
	var sb bytes.Buffer
	for _, s := range p.Statements {
		sb.WriteString(s.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Identifier is a single name reference, or the head of a dotted access
// chain (spec.md §4.4 "Identifiers").
type Identifier struct {
	Token lexer.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) Pos() lexer.Position  { return i.Token.Pos }
func (i *Identifier) String() string       { return i.Value }

// MemberExpression is a dotted access `object.property`; chained access
// nests MemberExpression as Object (spec.md §4.4: only the first segment is
// lowered, deeper access is a documented known limitation).
type MemberExpression struct {
	Token    lexer.Token // the '.'
	Object   Expression
	Property *Identifier
}

func (m *MemberExpression) expressionNode()      {}
func (m *MemberExpression) TokenLiteral() string { return m.Token.Literal }
func (m *MemberExpression) Pos() lexer.Position  { return m.Token.Pos }
func (m *MemberExpression) String() string {
	return m.Object.String() + "." + m.Property.String()
}

// Segments flattens a (possibly nested) MemberExpression chain into its
// dotted-name segments, head first — used by the Builder's global_get/
// global_set key construction (spec.md §4.4).
func Segments(expr Expression) []string {
	switch e := expr.(type) {
	case *Identifier:
		return []string{e.Value}
	case *MemberExpression:
		return append(Segments(e.Object), e.Property.Value)
	default:
		return nil
	}
}

// NumberLiteral is a numeric constant.
type NumberLiteral struct {
	Token lexer.Token
	Value float64
}

func (n *NumberLiteral) expressionNode()      {}
func (n *NumberLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NumberLiteral) Pos() lexer.Position  { return n.Token.Pos }
func (n *NumberLiteral) String() string       { return n.Token.Literal }

// StringLiteral is a string constant.
type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (s *StringLiteral) expressionNode()      {}
func (s *StringLiteral) TokenLiteral() string { return s.Token.Literal }
func (s *StringLiteral) Pos() lexer.Position  { return s.Token.Pos }
func (s *StringLiteral) String() string       { return "\"" + s.Value + "\"" }

// BooleanLiteral is a `true`/`false` constant.
type BooleanLiteral struct {
	Token lexer.Token
	Value bool
}

func (b *BooleanLiteral) expressionNode()      {}
func (b *BooleanLiteral) TokenLiteral() string { return b.Token.Literal }
func (b *BooleanLiteral) Pos() lexer.Position  { return b.Token.Pos }
func (b *BooleanLiteral) String() string       { return b.Token.Literal }

// NullLiteral is the `null` constant.
type NullLiteral struct {
	Token lexer.Token
}

func (n *NullLiteral) expressionNode()      {}
func (n *NullLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NullLiteral) Pos() lexer.Position  { return n.Token.Pos }
func (n *NullLiteral) String() string       { return "null" }

// ArrayLiteral is a `[a, b, c]` expression.
type ArrayLiteral struct {
	Token    lexer.Token // '['
	Elements []Expression
}

func (a *ArrayLiteral) expressionNode()      {}
func (a *ArrayLiteral) TokenLiteral() string { return a.Token.Literal }
func (a *ArrayLiteral) Pos() lexer.Position  { return a.Token.Pos }
func (a *ArrayLiteral) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ObjectProperty is a single `key: value` entry of an ObjectLiteral.
type ObjectProperty struct {
	Key   *Identifier
	Value Expression
}

// ObjectLiteral is a `{a: 1, b: 2}` expression.
type ObjectLiteral struct {
	Token      lexer.Token // '{'
	Properties []ObjectProperty
}

func (o *ObjectLiteral) expressionNode()      {}
func (o *ObjectLiteral) TokenLiteral() string { return o.Token.Literal }
func (o *ObjectLiteral) Pos() lexer.Position  { return o.Token.Pos }
func (o *ObjectLiteral) String() string {
	parts := make([]string, len(o.Properties))
	for i, p := range o.Properties {
		parts[i] = p.Key.String() + ": " + p.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// PrefixExpression is a unary prefix operator: `!x`, `-x`, `++x`, `--x`.
type PrefixExpression struct {
	Token    lexer.Token
	Operator string
	Right    Expression
}

func (p *PrefixExpression) expressionNode()      {}
func (p *PrefixExpression) TokenLiteral() string { return p.Token.Literal }
func (p *PrefixExpression) Pos() lexer.Position  { return p.Token.Pos }
func (p *PrefixExpression) String() string       { return "(" + p.Operator + p.Right.String() + ")" }

// PostfixExpression is a unary postfix operator: `x++`, `x--`.
type PostfixExpression struct {
	Token    lexer.Token
	Operator string
	Left     Expression
}

func (p *PostfixExpression) expressionNode()      {}
func (p *PostfixExpression) TokenLiteral() string { return p.Token.Literal }
func (p *PostfixExpression) Pos() lexer.Position  { return p.Token.Pos }
func (p *PostfixExpression) String() string       { return "(" + p.Left.String() + p.Operator + ")" }

// BinaryExpression covers arithmetic, comparison, and logical operators
// (spec.md §4.4: all route through the generic operator callbacks).
type BinaryExpression struct {
	Token    lexer.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (b *BinaryExpression) expressionNode()      {}
func (b *BinaryExpression) TokenLiteral() string { return b.Token.Literal }
func (b *BinaryExpression) Pos() lexer.Position  { return b.Token.Pos }
func (b *BinaryExpression) String() string {
	return "(" + b.Left.String() + " " + b.Operator + " " + b.Right.String() + ")"
}

// AssignmentExpression covers `=` and the compound `+= -= *= /= %=` forms
// (spec.md §4.4).
type AssignmentExpression struct {
	Token    lexer.Token
	Target   Expression
	Operator string // "=", "+=", "-=", "*=", "/=", "%="
	Value    Expression
}

func (a *AssignmentExpression) expressionNode()      {}
func (a *AssignmentExpression) TokenLiteral() string { return a.Token.Literal }
func (a *AssignmentExpression) Pos() lexer.Position  { return a.Token.Pos }
func (a *AssignmentExpression) String() string {
	return a.Target.String() + " " + a.Operator + " " + a.Value.String()
}

// CallExpression is `callee(args...)` (spec.md §4.4: single-identifier
// callees only are lowered, multi-segment callees are a known limitation).
type CallExpression struct {
	Token     lexer.Token // '('
	Callee    Expression
	Arguments []Expression
}

func (c *CallExpression) expressionNode()      {}
func (c *CallExpression) TokenLiteral() string { return c.Token.Literal }
func (c *CallExpression) Pos() lexer.Position  { return c.Token.Pos }
func (c *CallExpression) String() string {
	args := make([]string, len(c.Arguments))
	for i, a := range c.Arguments {
		args[i] = a.String()
	}
	return c.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}

// FunctionLiteral is a `function name(params) { body }` declaration or
// expression; Name is empty for anonymous functions.
type FunctionLiteral struct {
	Token      lexer.Token // 'function'
	Name       string
	Parameters []*Identifier
	ReturnType string // parsed and discarded (spec.md §4.4, §6)
	Body       *BlockStatement
}

func (f *FunctionLiteral) expressionNode()      {}
func (f *FunctionLiteral) statementNode()       {}
func (f *FunctionLiteral) TokenLiteral() string { return f.Token.Literal }
func (f *FunctionLiteral) Pos() lexer.Position  { return f.Token.Pos }
func (f *FunctionLiteral) String() string {
	params := make([]string, len(f.Parameters))
	for i, p := range f.Parameters {
		params[i] = p.String()
	}
	return "function " + f.Name + "(" + strings.Join(params, ", ") + ") " + f.Body.String()
}

// BlockStatement is a `{ ... }` sequence of statements.
type BlockStatement struct {
	Token      lexer.Token // '{'
	Statements []Statement
}

func (b *BlockStatement) statementNode()       {}
func (b *BlockStatement) TokenLiteral() string { return b.Token.Literal }
func (b *BlockStatement) Pos() lexer.Position  { return b.Token.Pos }
func (b *BlockStatement) String() string {
	var sb bytes.Buffer
	sb.WriteString("{ ")
	for _, s := range b.Statements {
		sb.WriteString(s.String())
		sb.WriteString(" ")
	}
	sb.WriteString("}")
	return sb.String()
}

// ExpressionStatement wraps a bare expression used as a statement.
type ExpressionStatement struct {
	Token      lexer.Token
	Expression Expression
}

func (e *ExpressionStatement) statementNode()       {}
func (e *ExpressionStatement) TokenLiteral() string { return e.Token.Literal }
func (e *ExpressionStatement) Pos() lexer.Position  { return e.Token.Pos }
func (e *ExpressionStatement) String() string {
	if e.Expression != nil {
		return e.Expression.String()
	}
	return ""
}

// VarDeclStatement is a `const`/`let`/`var` declaration (spec.md §4.4:
// lowers identically to assignment; immutability is not enforced).
type VarDeclStatement struct {
	Token lexer.Token // 'const'/'let'/'var'
	Kind  string
	Name  *Identifier
	Value Expression
}

func (v *VarDeclStatement) statementNode()       {}
func (v *VarDeclStatement) TokenLiteral() string { return v.Token.Literal }
func (v *VarDeclStatement) Pos() lexer.Position  { return v.Token.Pos }
func (v *VarDeclStatement) String() string {
	if v.Value != nil {
		return v.Kind + " " + v.Name.String() + " = " + v.Value.String()
	}
	return v.Kind + " " + v.Name.String()
}

// ReturnStatement is `return expr;` (expr may be nil).
type ReturnStatement struct {
	Token       lexer.Token
	ReturnValue Expression
}

func (r *ReturnStatement) statementNode()       {}
func (r *ReturnStatement) TokenLiteral() string { return r.Token.Literal }
func (r *ReturnStatement) Pos() lexer.Position  { return r.Token.Pos }
func (r *ReturnStatement) String() string {
	if r.ReturnValue != nil {
		return "return " + r.ReturnValue.String()
	}
	return "return"
}

// BreakStatement is `break;`, used by Switch case bodies.
type BreakStatement struct {
	Token lexer.Token
}

func (b *BreakStatement) statementNode()       {}
func (b *BreakStatement) TokenLiteral() string { return b.Token.Literal }
func (b *BreakStatement) Pos() lexer.Position  { return b.Token.Pos }
func (b *BreakStatement) String() string       { return "break" }

// ElseIfClause is one `else if (cond) { body }` arm.
type ElseIfClause struct {
	Condition Expression
	Body      *BlockStatement
}

// IfStatement is `if (cond) {...} else if (cond) {...} else {...}`
// (spec.md §4.4's branch-target semantics live in the Builder, not here).
type IfStatement struct {
	Token       lexer.Token // 'if'
	Condition   Expression
	Consequence *BlockStatement
	ElseIfs     []ElseIfClause
	Alternative *BlockStatement // nil if no trailing else
}

func (i *IfStatement) statementNode()       {}
func (i *IfStatement) TokenLiteral() string { return i.Token.Literal }
func (i *IfStatement) Pos() lexer.Position  { return i.Token.Pos }
func (i *IfStatement) String() string {
	var sb bytes.Buffer
	sb.WriteString("if (" + i.Condition.String() + ") " + i.Consequence.String())
	for _, ei := range i.ElseIfs {
		sb.WriteString(" else if (" + ei.Condition.String() + ") " + ei.Body.String())
	}
	if i.Alternative != nil {
		sb.WriteString(" else " + i.Alternative.String())
	}
	return sb.String()
}

// CaseClause is one `case expr: body` or the `default: body` arm of a
// SwitchStatement. Expr is nil for the default arm.
type CaseClause struct {
	Expr Expression
	Body []Statement
}

// SwitchStatement is `switch (value) { case ...: ...; default: ...; }`
// (spec.md §4.4: no fallthrough, each body must jump to merge on its own —
// the parser does not require a `break` to close an arm; the Builder lowers
// bodies verbatim).
type SwitchStatement struct {
	Token lexer.Token // 'switch'
	Value Expression
	Cases []CaseClause
}

func (s *SwitchStatement) statementNode()       {}
func (s *SwitchStatement) TokenLiteral() string { return s.Token.Literal }
func (s *SwitchStatement) Pos() lexer.Position  { return s.Token.Pos }
func (s *SwitchStatement) String() string {
	return "switch (" + s.Value.String() + ") { ... }"
}

// ForStatement is the C-style `for (init; cond; after) body`.
type ForStatement struct {
	Token lexer.Token // 'for'
	Init  Statement   // VarDeclStatement or ExpressionStatement, may be nil
	Cond  Expression  // may be nil
	After Statement   // ExpressionStatement, may be nil
	Body  *BlockStatement
}

func (f *ForStatement) statementNode()       {}
func (f *ForStatement) TokenLiteral() string { return f.Token.Literal }
func (f *ForStatement) Pos() lexer.Position  { return f.Token.Pos }
func (f *ForStatement) String() string       { return "for (...) " + f.Body.String() }

// ForOfStatement is `for (const x of iterable) body` (spec.md §4.4's
// iteration-protocol lowering).
type ForOfStatement struct {
	Token       lexer.Token // 'for'
	Kind        string      // "const"/"let"/"var"
	Variable    *Identifier
	Iterable    Expression
	Body        *BlockStatement
}

func (f *ForOfStatement) statementNode()       {}
func (f *ForOfStatement) TokenLiteral() string { return f.Token.Literal }
func (f *ForOfStatement) Pos() lexer.Position  { return f.Token.Pos }
func (f *ForOfStatement) String() string {
	return "for (" + f.Kind + " " + f.Variable.String() + " of " + f.Iterable.String() + ") " + f.Body.String()
}

// ForInStatement is `for (const k in obj) body`, parsed alongside ForOf but
// not lowered by the Builder (spec.md §4.4 names only for...of; for...in is
// a parser-level sibling with no emission rule — a documented limitation).
type ForInStatement struct {
	Token    lexer.Token
	Kind     string
	Variable *Identifier
	Object   Expression
	Body     *BlockStatement
}

func (f *ForInStatement) statementNode()       {}
func (f *ForInStatement) TokenLiteral() string { return f.Token.Literal }
func (f *ForInStatement) Pos() lexer.Position  { return f.Token.Pos }
func (f *ForInStatement) String() string {
	return "for (" + f.Kind + " " + f.Variable.String() + " in " + f.Object.String() + ") " + f.Body.String()
}

// WhileStatement is `while (cond) body`.
type WhileStatement struct {
	Token     lexer.Token
	Condition Expression
	Body      *BlockStatement
}

func (w *WhileStatement) statementNode()       {}
func (w *WhileStatement) TokenLiteral() string { return w.Token.Literal }
func (w *WhileStatement) Pos() lexer.Position  { return w.Token.Pos }
func (w *WhileStatement) String() string       { return "while (" + w.Condition.String() + ") " + w.Body.String() }

// TryStatement is `try { } catch (e) { } [finally {}]`, parsed but lowered
// to a no-op by the Builder (spec.md §8 scenario 6).
type TryStatement struct {
	Token        lexer.Token
	Block        *BlockStatement
	CatchParam   *Identifier // nil if no catch clause
	CatchBlock   *BlockStatement
	FinallyBlock *BlockStatement
}

func (t *TryStatement) statementNode()       {}
func (t *TryStatement) TokenLiteral() string { return t.Token.Literal }
func (t *TryStatement) Pos() lexer.Position  { return t.Token.Pos }
func (t *TryStatement) String() string       { return "try " + t.Block.String() }

// ThrowStatement is `throw expr;`, parsed but lowered to a no-op by the
// Builder (spec.md §8 scenario 6; no unwinding is implemented).
type ThrowStatement struct {
	Token lexer.Token
	Value Expression
}

func (t *ThrowStatement) statementNode()       {}
func (t *ThrowStatement) TokenLiteral() string { return t.Token.Literal }
func (t *ThrowStatement) Pos() lexer.Position  { return t.Token.Pos }
func (t *ThrowStatement) String() string       { return "throw " + t.Value.String() }

// ImportStatement is `import ... from "module";`, parsed and discarded
// (spec.md §4.4/§6).
type ImportStatement struct {
	Token lexer.Token
	Names []string
	From  string
}

func (im *ImportStatement) statementNode()       {}
func (im *ImportStatement) TokenLiteral() string { return im.Token.Literal }
func (im *ImportStatement) Pos() lexer.Position  { return im.Token.Pos }
func (im *ImportStatement) String() string {
	return "import { " + strings.Join(im.Names, ", ") + " } from \"" + im.From + "\""
}

// ClassDeclaration, InterfaceDeclaration, and TypeAliasDeclaration are
// parsed into AST nodes the Builder does not lower (spec.md §4.4 "known
// limitation"; SPEC_FULL.md §4.8).

// ClassMember is one method or field slot of a ClassDeclaration body.
type ClassMember struct {
	Name   *Identifier
	Method *FunctionLiteral // nil for a bare field declaration
}

// ClassDeclaration is `class Name { members }`, parsed-only.
type ClassDeclaration struct {
	Token   lexer.Token
	Name    *Identifier
	Members []ClassMember
}

func (c *ClassDeclaration) statementNode()       {}
func (c *ClassDeclaration) TokenLiteral() string { return c.Token.Literal }
func (c *ClassDeclaration) Pos() lexer.Position  { return c.Token.Pos }
func (c *ClassDeclaration) String() string       { return "class " + c.Name.String() + " { ... }" }

// InterfaceDeclaration is `interface Name { ... }`, parsed-only.
type InterfaceDeclaration struct {
	Token lexer.Token
	Name  *Identifier
}

func (i *InterfaceDeclaration) statementNode()       {}
func (i *InterfaceDeclaration) TokenLiteral() string { return i.Token.Literal }
func (i *InterfaceDeclaration) Pos() lexer.Position  { return i.Token.Pos }
func (i *InterfaceDeclaration) String() string       { return "interface " + i.Name.String() + " { ... }" }

// TypeAliasDeclaration is `type Name = ...;`, parsed-only.
type TypeAliasDeclaration struct {
	Token lexer.Token
	Name  *Identifier
}

func (t *TypeAliasDeclaration) statementNode()       {}
func (t *TypeAliasDeclaration) TokenLiteral() string { return t.Token.Literal }
func (t *TypeAliasDeclaration) Pos() lexer.Position  { return t.Token.Pos }
func (t *TypeAliasDeclaration) String() string       { return "type " + t.Name.String() + " = ..." }
