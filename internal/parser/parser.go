// Package parser implements a recursive-descent parser with Pratt
// expression parsing over internal/lexer's Token stream, producing
// internal/ast nodes for exactly the constructs spec.md §6 names.
// Grounded on the teacher's internal/parser: a prefixParseFns/infixParseFns
// table keyed by operator precedence, trimmed to the TS-flavored subset
// SPEC_FULL.md §4.8 describes.
package parser

import (
	"fmt"

	"github.com/jsjit/jsjit/internal/ast"
	"github.com/jsjit/jsjit/internal/lexer"
)

// Precedence levels, lowest to highest.
const (
	_ int = iota
	LOWEST
	ASSIGNMENT  // = += -= *= /= %=
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	EQUALITY    // == !=
	RELATIONAL  // < > <= >=
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // !x -x ++x --x
	POSTFIX     // x++ x--
	CALL        // fn(...)
	MEMBER      // obj.prop
)

var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN:     ASSIGNMENT,
	lexer.PLUS_EQ:    ASSIGNMENT,
	lexer.MINUS_EQ:   ASSIGNMENT,
	lexer.STAR_EQ:    ASSIGNMENT,
	lexer.SLASH_EQ:   ASSIGNMENT,
	lexer.PERCENT_EQ: ASSIGNMENT,
	lexer.OR:         LOGICAL_OR,
	lexer.AND:        LOGICAL_AND,
	lexer.EQ:         EQUALITY,
	lexer.NEQ:        EQUALITY,
	lexer.LT:         RELATIONAL,
	lexer.GT:         RELATIONAL,
	lexer.LTE:        RELATIONAL,
	lexer.GTE:        RELATIONAL,
	lexer.PLUS:       SUM,
	lexer.MINUS:      SUM,
	lexer.STAR:       PRODUCT,
	lexer.SLASH:      PRODUCT,
	lexer.PERCENT:    PRODUCT,
	lexer.INCR:       POSTFIX,
	lexer.DECR:       POSTFIX,
	lexer.LPAREN:     CALL,
	lexer.DOT:        MEMBER,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser turns a token stream into a Program. It is not reentrant; create
// one per source file.
type Parser struct {
	l      *lexer.Lexer
	errors []string

	cur  lexer.Token
	peek lexer.Token

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

// New creates a Parser over l and primes the two-token lookahead.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[lexer.TokenType]prefixParseFn{
		lexer.IDENT:    p.parseIdentifier,
		lexer.NUMBER:   p.parseNumberLiteral,
		lexer.STRING:   p.parseStringLiteral,
		lexer.TRUE:     p.parseBooleanLiteral,
		lexer.FALSE:    p.parseBooleanLiteral,
		lexer.NULL:     p.parseNullLiteral,
		lexer.NOT:      p.parsePrefixExpression,
		lexer.MINUS:    p.parsePrefixExpression,
		lexer.INCR:     p.parsePrefixExpression,
		lexer.DECR:     p.parsePrefixExpression,
		lexer.LPAREN:   p.parseGroupedExpression,
		lexer.LBRACKET: p.parseArrayLiteral,
		lexer.LBRACE:   p.parseObjectLiteral,
		lexer.FUNCTION: p.parseFunctionLiteral,
		lexer.NEW:      p.parseNewExpression,
	}

	p.infixParseFns = map[lexer.TokenType]infixParseFn{
		lexer.PLUS:       p.parseBinaryExpression,
		lexer.MINUS:      p.parseBinaryExpression,
		lexer.STAR:       p.parseBinaryExpression,
		lexer.SLASH:      p.parseBinaryExpression,
		lexer.PERCENT:    p.parseBinaryExpression,
		lexer.EQ:         p.parseBinaryExpression,
		lexer.NEQ:        p.parseBinaryExpression,
		lexer.LT:         p.parseBinaryExpression,
		lexer.GT:         p.parseBinaryExpression,
		lexer.LTE:        p.parseBinaryExpression,
		lexer.GTE:        p.parseBinaryExpression,
		lexer.AND:        p.parseBinaryExpression,
		lexer.OR:         p.parseBinaryExpression,
		lexer.ASSIGN:     p.parseAssignmentExpression,
		lexer.PLUS_EQ:    p.parseAssignmentExpression,
		lexer.MINUS_EQ:   p.parseAssignmentExpression,
		lexer.STAR_EQ:    p.parseAssignmentExpression,
		lexer.SLASH_EQ:   p.parseAssignmentExpression,
		lexer.PERCENT_EQ: p.parseAssignmentExpression,
		lexer.LPAREN:     p.parseCallExpression,
		lexer.DOT:        p.parseMemberExpression,
		lexer.INCR:       p.parsePostfixExpression,
		lexer.DECR:       p.parsePostfixExpression,
	}

	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns every parse error collected, in encounter order.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peek.Type == t }

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t lexer.TokenType) {
	p.errors = append(p.errors, fmt.Sprintf("line %d:%d: expected next token to be %v, got %v (%q)",
		p.peek.Pos.Line, p.peek.Pos.Column, t, p.peek.Type, p.peek.Literal))
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peek.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram parses the full token stream into a Program.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.curIs(lexer.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.nextToken()
	}
	return prog
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case lexer.CONST, lexer.LET, lexer.VAR:
		return p.parseVarDeclStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.BREAK:
		return p.parseBreakStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.SWITCH:
		return p.parseSwitchStatement()
	case lexer.FOR:
		return p.parseForOrForOfOrForInStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.FUNCTION:
		return p.parseFunctionLiteral().(*ast.FunctionLiteral)
	case lexer.CLASS:
		return p.parseClassDeclaration()
	case lexer.INTERFACE:
		return p.parseInterfaceDeclaration()
	case lexer.TYPE:
		return p.parseTypeAliasDeclaration()
	case lexer.TRY:
		return p.parseTryStatement()
	case lexer.THROW:
		return p.parseThrowStatement()
	case lexer.IMPORT:
		return p.parseImportStatement()
	case lexer.LBRACE:
		return p.parseBlockStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	stmt := &ast.ExpressionStatement{Token: p.cur}
	stmt.Expression = p.parseExpression(LOWEST)
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.cur.Type]
	if prefix == nil {
		p.errors = append(p.errors, fmt.Sprintf("line %d:%d: no prefix parse function for %v",
			p.cur.Pos.Line, p.cur.Pos.Column, p.cur.Type))
		return nil
	}
	left := prefix()

	for !p.peekIs(lexer.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peek.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.cur, Value: p.cur.Literal}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	var f float64
	fmt.Sscanf(p.cur.Literal, "%g", &f)
	return &ast.NumberLiteral{Token: p.cur, Value: f}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.cur, Value: p.cur.Literal}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.cur, Value: p.curIs(lexer.TRUE)}
}

func (p *Parser) parseNullLiteral() ast.Expression {
	return &ast.NullLiteral{Token: p.cur}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expr := &ast.PrefixExpression{Token: p.cur, Operator: p.cur.Literal}
	p.nextToken()
	expr.Right = p.parseExpression(PREFIX)
	return expr
}

func (p *Parser) parsePostfixExpression(left ast.Expression) ast.Expression {
	return &ast.PostfixExpression{Token: p.cur, Operator: p.cur.Literal, Left: left}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	arr := &ast.ArrayLiteral{Token: p.cur}
	arr.Elements = p.parseExpressionList(lexer.RBRACKET)
	return arr
}

func (p *Parser) parseExpressionList(end lexer.TokenType) []ast.Expression {
	var list []ast.Expression
	if p.peekIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))
	for p.peekIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(end) {
		return nil
	}
	return list
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	obj := &ast.ObjectLiteral{Token: p.cur}
	for !p.peekIs(lexer.RBRACE) {
		p.nextToken()
		if !p.curIs(lexer.IDENT) && !p.curIs(lexer.STRING) {
			p.errors = append(p.errors, fmt.Sprintf("line %d:%d: expected object key, got %v",
				p.cur.Pos.Line, p.cur.Pos.Column, p.cur.Type))
			return obj
		}
		key := &ast.Identifier{Token: p.cur, Value: p.cur.Literal}
		if !p.expectPeek(lexer.COLON) {
			return obj
		}
		p.nextToken()
		val := p.parseExpression(LOWEST)
		obj.Properties = append(obj.Properties, ast.ObjectProperty{Key: key, Value: val})
		if p.peekIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	p.nextToken() // consume '}'
	return obj
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	expr := &ast.BinaryExpression{Token: p.cur, Left: left, Operator: p.cur.Literal}
	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	return expr
}

func (p *Parser) parseAssignmentExpression(left ast.Expression) ast.Expression {
	expr := &ast.AssignmentExpression{Token: p.cur, Target: left, Operator: p.cur.Literal}
	p.nextToken()
	expr.Value = p.parseExpression(ASSIGNMENT - 1)
	return expr
}

func (p *Parser) parseMemberExpression(left ast.Expression) ast.Expression {
	expr := &ast.MemberExpression{Token: p.cur, Object: left}
	if !p.expectPeek(lexer.IDENT) {
		return expr
	}
	expr.Property = &ast.Identifier{Token: p.cur, Value: p.cur.Literal}
	return expr
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	expr := &ast.CallExpression{Token: p.cur, Callee: callee}
	expr.Arguments = p.parseExpressionList(lexer.RPAREN)
	return expr
}

// parseNewExpression treats `new Foo(args)` as an ordinary call expression
// to the class's name — class instantiation is not modeled separately
// (SPEC_FULL.md §4.8: class bodies are parsed but not lowered).
func (p *Parser) parseNewExpression() ast.Expression {
	p.nextToken()
	return p.parseExpression(CALL)
}

func (p *Parser) parseVarDeclStatement() *ast.VarDeclStatement {
	stmt := &ast.VarDeclStatement{Token: p.cur, Kind: p.cur.Literal}
	if !p.expectPeek(lexer.IDENT) {
		return stmt
	}
	stmt.Name = &ast.Identifier{Token: p.cur, Value: p.cur.Literal}

	if p.peekIs(lexer.COLON) {
		p.nextToken() // ':'
		p.nextToken() // type name, discarded
	}

	if !p.peekIs(lexer.ASSIGN) {
		if p.peekIs(lexer.SEMICOLON) {
			p.nextToken()
		}
		return stmt
	}
	p.nextToken() // '='
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{Token: p.cur}
	if p.peekIs(lexer.SEMICOLON) || p.peekIs(lexer.RBRACE) {
		if p.peekIs(lexer.SEMICOLON) {
			p.nextToken()
		}
		return stmt
	}
	p.nextToken()
	stmt.ReturnValue = p.parseExpression(LOWEST)
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseBreakStatement() *ast.BreakStatement {
	stmt := &ast.BreakStatement{Token: p.cur}
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.cur}
	p.nextToken() // past '{'
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	return block
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	stmt := &ast.IfStatement{Token: p.cur}
	if !p.expectPeek(lexer.LPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return stmt
	}
	if !p.expectPeek(lexer.LBRACE) {
		return stmt
	}
	stmt.Consequence = p.parseBlockStatement()

	for p.peekIs(lexer.ELSE) {
		p.nextToken() // 'else'
		if p.peekIs(lexer.IF) {
			p.nextToken() // 'if'
			clause := ast.ElseIfClause{}
			if !p.expectPeek(lexer.LPAREN) {
				return stmt
			}
			p.nextToken()
			clause.Condition = p.parseExpression(LOWEST)
			if !p.expectPeek(lexer.RPAREN) {
				return stmt
			}
			if !p.expectPeek(lexer.LBRACE) {
				return stmt
			}
			clause.Body = p.parseBlockStatement()
			stmt.ElseIfs = append(stmt.ElseIfs, clause)
			continue
		}
		if !p.expectPeek(lexer.LBRACE) {
			return stmt
		}
		stmt.Alternative = p.parseBlockStatement()
		break
	}
	return stmt
}

func (p *Parser) parseSwitchStatement() *ast.SwitchStatement {
	stmt := &ast.SwitchStatement{Token: p.cur}
	if !p.expectPeek(lexer.LPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return stmt
	}
	if !p.expectPeek(lexer.LBRACE) {
		return stmt
	}
	p.nextToken() // past '{'

	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		clause := ast.CaseClause{}
		switch p.cur.Type {
		case lexer.CASE:
			p.nextToken()
			clause.Expr = p.parseExpression(LOWEST)
			if !p.expectPeek(lexer.COLON) {
				return stmt
			}
		case lexer.DEFAULT:
			if !p.expectPeek(lexer.COLON) {
				return stmt
			}
		default:
			p.nextToken()
			continue
		}
		p.nextToken()
		for !p.curIs(lexer.CASE) && !p.curIs(lexer.DEFAULT) && !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
			if s := p.parseStatement(); s != nil {
				clause.Body = append(clause.Body, s)
			}
			p.nextToken()
		}
		stmt.Cases = append(stmt.Cases, clause)
	}
	return stmt
}

func (p *Parser) parseForOrForOfOrForInStatement() ast.Statement {
	forTok := p.cur
	if !p.expectPeek(lexer.LPAREN) {
		return &ast.ForStatement{Token: forTok}
	}

	if p.peekIs(lexer.CONST) || p.peekIs(lexer.LET) || p.peekIs(lexer.VAR) {
		kindTok := p.peek
		// Lookahead: declarator name, then OF/IN decides the statement shape.
		// cur/peek are plain Tokens (safe to snapshot by value); the
		// underlying lexer cursor needs its own snapshot since nextToken
		// pulls from it eagerly.
		savedCur, savedPeek := p.cur, p.peek
		savedLexState := p.l.Snapshot()
		p.nextToken() // kind
		p.nextToken() // name
		name := &ast.Identifier{Token: p.cur, Value: p.cur.Literal}
		if p.peekIs(lexer.OF) {
			p.nextToken() // 'of'
			p.nextToken()
			iterable := p.parseExpression(LOWEST)
			if !p.expectPeek(lexer.RPAREN) {
				return &ast.ForOfStatement{Token: forTok}
			}
			if !p.expectPeek(lexer.LBRACE) {
				return &ast.ForOfStatement{Token: forTok}
			}
			return &ast.ForOfStatement{
				Token: forTok, Kind: kindTok.Literal, Variable: name,
				Iterable: iterable, Body: p.parseBlockStatement(),
			}
		}
		if p.peekIs(lexer.IN) {
			p.nextToken() // 'in'
			p.nextToken()
			obj := p.parseExpression(LOWEST)
			if !p.expectPeek(lexer.RPAREN) {
				return &ast.ForInStatement{Token: forTok}
			}
			if !p.expectPeek(lexer.LBRACE) {
				return &ast.ForInStatement{Token: forTok}
			}
			return &ast.ForInStatement{
				Token: forTok, Kind: kindTok.Literal, Variable: name,
				Object: obj, Body: p.parseBlockStatement(),
			}
		}
		p.cur, p.peek = savedCur, savedPeek
		p.l.Restore(savedLexState)
	}

	// C-style for (init; cond; after) body. Each clause-parse leaves cur
	// sitting ON its closing separator (';' or ')'), so the three steps
	// below share one shape: advance past the separator, then either see
	// the next separator immediately (empty clause) or parse one.
	stmt := &ast.ForStatement{Token: forTok}

	p.nextToken() // past '('
	if p.curIs(lexer.SEMICOLON) {
		stmt.Init = nil
	} else {
		stmt.Init = p.parseStatement() // consumes its own trailing ';', leaving cur on it
	}

	p.nextToken() // past first ';'
	if p.curIs(lexer.SEMICOLON) {
		stmt.Cond = nil
	} else {
		stmt.Cond = p.parseExpression(LOWEST)
		if !p.expectPeek(lexer.SEMICOLON) {
			return stmt
		}
	}

	p.nextToken() // past second ';'
	if p.curIs(lexer.RPAREN) {
		stmt.After = nil
	} else {
		expr := p.parseExpression(LOWEST)
		stmt.After = &ast.ExpressionStatement{Token: forTok, Expression: expr}
		if !p.expectPeek(lexer.RPAREN) {
			return stmt
		}
	}

	if !p.expectPeek(lexer.LBRACE) {
		return stmt
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	stmt := &ast.WhileStatement{Token: p.cur}
	if !p.expectPeek(lexer.LPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return stmt
	}
	if !p.expectPeek(lexer.LBRACE) {
		return stmt
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseFunctionLiteral() ast.Expression {
	fn := &ast.FunctionLiteral{Token: p.cur}
	if p.peekIs(lexer.IDENT) {
		p.nextToken()
		fn.Name = p.cur.Literal
	}
	if !p.expectPeek(lexer.LPAREN) {
		return fn
	}
	fn.Parameters = p.parseFunctionParameters()
	if p.peekIs(lexer.COLON) {
		p.nextToken() // ':'
		p.nextToken() // return type name, discarded
		fn.ReturnType = p.cur.Literal
	}
	if !p.expectPeek(lexer.LBRACE) {
		return fn
	}
	fn.Body = p.parseBlockStatement()
	return fn
}

func (p *Parser) parseFunctionParameters() []*ast.Identifier {
	var params []*ast.Identifier
	if p.peekIs(lexer.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	params = append(params, p.parseOneParameter())
	for p.peekIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		params = append(params, p.parseOneParameter())
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return params
}

func (p *Parser) parseOneParameter() *ast.Identifier {
	ident := &ast.Identifier{Token: p.cur, Value: p.cur.Literal}
	if p.peekIs(lexer.COLON) {
		p.nextToken() // ':'
		p.nextToken() // type name, discarded
	}
	return ident
}

func (p *Parser) parseClassDeclaration() *ast.ClassDeclaration {
	decl := &ast.ClassDeclaration{Token: p.cur}
	if !p.expectPeek(lexer.IDENT) {
		return decl
	}
	decl.Name = &ast.Identifier{Token: p.cur, Value: p.cur.Literal}
	if !p.expectPeek(lexer.LBRACE) {
		return decl
	}
	p.nextToken()
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.IDENT) {
			name := &ast.Identifier{Token: p.cur, Value: p.cur.Literal}
			if p.peekIs(lexer.LPAREN) {
				p.nextToken()
				method := &ast.FunctionLiteral{Token: p.cur, Name: name.Value}
				method.Parameters = p.parseFunctionParameters()
				if p.peekIs(lexer.COLON) {
					p.nextToken()
					p.nextToken()
				}
				if p.expectPeek(lexer.LBRACE) {
					method.Body = p.parseBlockStatement()
				}
				decl.Members = append(decl.Members, ast.ClassMember{Name: name, Method: method})
			} else {
				decl.Members = append(decl.Members, ast.ClassMember{Name: name})
				for !p.curIs(lexer.SEMICOLON) && !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
					p.nextToken()
				}
			}
		}
		p.nextToken()
	}
	return decl
}

func (p *Parser) parseInterfaceDeclaration() *ast.InterfaceDeclaration {
	decl := &ast.InterfaceDeclaration{Token: p.cur}
	if !p.expectPeek(lexer.IDENT) {
		return decl
	}
	decl.Name = &ast.Identifier{Token: p.cur, Value: p.cur.Literal}
	if !p.expectPeek(lexer.LBRACE) {
		return decl
	}
	depth := 1
	for depth > 0 && !p.curIs(lexer.EOF) {
		p.nextToken()
		if p.curIs(lexer.LBRACE) {
			depth++
		} else if p.curIs(lexer.RBRACE) {
			depth--
		}
	}
	return decl
}

func (p *Parser) parseTypeAliasDeclaration() *ast.TypeAliasDeclaration {
	decl := &ast.TypeAliasDeclaration{Token: p.cur}
	if !p.expectPeek(lexer.IDENT) {
		return decl
	}
	decl.Name = &ast.Identifier{Token: p.cur, Value: p.cur.Literal}
	for !p.curIs(lexer.SEMICOLON) && !p.curIs(lexer.EOF) {
		p.nextToken()
	}
	return decl
}

func (p *Parser) parseTryStatement() *ast.TryStatement {
	stmt := &ast.TryStatement{Token: p.cur}
	if !p.expectPeek(lexer.LBRACE) {
		return stmt
	}
	stmt.Block = p.parseBlockStatement()

	if p.peekIs(lexer.CATCH) {
		p.nextToken()
		if p.peekIs(lexer.LPAREN) {
			p.nextToken()
			if p.expectPeek(lexer.IDENT) {
				stmt.CatchParam = &ast.Identifier{Token: p.cur, Value: p.cur.Literal}
			}
			p.expectPeek(lexer.RPAREN)
		}
		if p.expectPeek(lexer.LBRACE) {
			stmt.CatchBlock = p.parseBlockStatement()
		}
	}
	if p.peekIs(lexer.IDENT) && p.peek.Literal == "finally" {
		p.nextToken()
		if p.expectPeek(lexer.LBRACE) {
			stmt.FinallyBlock = p.parseBlockStatement()
		}
	}
	return stmt
}

func (p *Parser) parseThrowStatement() *ast.ThrowStatement {
	stmt := &ast.ThrowStatement{Token: p.cur}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseImportStatement() *ast.ImportStatement {
	stmt := &ast.ImportStatement{Token: p.cur}
	if p.expectPeek(lexer.LBRACE) {
		p.nextToken()
		for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
			if p.curIs(lexer.IDENT) {
				stmt.Names = append(stmt.Names, p.cur.Literal)
			}
			p.nextToken()
			if p.curIs(lexer.COMMA) {
				p.nextToken()
			}
		}
	}
	if p.peekIs(lexer.FROM) {
		p.nextToken()
		if p.expectPeek(lexer.STRING) {
			stmt.From = p.cur.Literal
		}
	}
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}
