package builder

import (
	"github.com/jsjit/jsjit/internal/ast"
	"github.com/jsjit/jsjit/internal/callbacks"
	"github.com/tinygo-org/go-llvm"
)

// lowerFunctionDecl implements spec.md §4.4 "Function definition": declares
// a function of arity N taking and returning Value*, lowers the body, uses
// the last emitted statement's value as an implicit return if the body
// never explicitly returns, and restores the previous insertion point.
func (b *Builder) lowerFunctionDecl(lit *ast.FunctionLiteral) {
	if lit.Name == "" {
		b.warn(lit.Pos(), "anonymous function literal is not lowered (no binding to register it under)")
		return
	}

	arity := len(lit.Parameters)
	paramTys := make([]llvm.Type, arity)
	for i := range paramTys {
		paramTys[i] = b.ptrTy()
	}
	fnTy := llvm.FunctionType(b.ptrTy(), paramTys, false)
	fn := b.mod.AddFunction(lit.Name, fnTy)

	b.userFns[lit.Name] = &userFunc{fn: fn, ty: fnTy, arity: arity}

	// Save and restore the insertion point (spec.md §4.4).
	savedFn, savedBlock, savedTerminated := b.curFn, b.irb.GetInsertBlock(), b.terminated

	entry := b.ctx.AddBasicBlock(fn, "entry")
	b.curFn = fn
	b.setBlock(entry)

	for i, param := range lit.Parameters {
		b.lowerIdentifierSet(param, fn.Param(i))
	}

	var last llvm.Value
	for _, stmt := range lit.Body.Statements {
		if b.terminated {
			break
		}
		if exprStmt, ok := stmt.(*ast.ExpressionStatement); ok && exprStmt.Expression != nil {
			last = b.lowerExpr(exprStmt.Expression)
			continue
		}
		b.lowerStmt(stmt)
	}
	if !b.terminated {
		if last.IsNil() {
			last = b.callExtern(callbacks.GlobalNull)
		}
		b.emitRet(last)
	}

	b.curFn = savedFn
	b.setBlock(savedBlock)
	b.terminated = savedTerminated
}

// ptrArgExternByName and externArity restrict spec.md §4.4's "look up
// first in extern callbacks" call-lowering path to the callbacks whose
// every argument and return value is a Value* — the only shape a guest
// call expression's evaluated-argument list can match.
var ptrArgExternByName = map[string]callbacks.Name{
	"global_null": callbacks.GlobalNull,
	"get_attr":    callbacks.GetAttr,
	"add":         callbacks.Add,
	"sub":         callbacks.Sub,
	"mul":         callbacks.Mul,
	"div":         callbacks.Div,
	"mod":         callbacks.Mod,
	"gt":          callbacks.Gt,
	"gte":         callbacks.Gte,
	"lt":          callbacks.Lt,
	"lte":         callbacks.Lte,
	"eq":          callbacks.Eq,
	"neq":         callbacks.Neq,
	"and":         callbacks.And,
	"or":          callbacks.Or,
}

var externArity = map[callbacks.Name]int{
	callbacks.GlobalNull: 0,
	callbacks.GetAttr:    2,
	callbacks.Add:        2, callbacks.Sub: 2, callbacks.Mul: 2, callbacks.Div: 2, callbacks.Mod: 2,
	callbacks.Gt: 2, callbacks.Gte: 2, callbacks.Lt: 2, callbacks.Lte: 2,
	callbacks.Eq: 2, callbacks.Neq: 2, callbacks.And: 2, callbacks.Or: 2,
}

// lowerCall implements spec.md §4.4 "Call": single-identifier callee looks
// up first in extern callbacks, then the user-function cache, else emits a
// Null placeholder. Multi-segment callees are not lowered.
func (b *Builder) lowerCall(e *ast.CallExpression) llvm.Value {
	ident, ok := e.Callee.(*ast.Identifier)
	if !ok {
		b.warn(e.Pos(), "multi-segment call callees are not lowered (known limitation)")
		return b.callExtern(callbacks.GlobalNull)
	}

	args := make([]llvm.Value, len(e.Arguments))
	for i, a := range e.Arguments {
		args[i] = b.lowerExpr(a)
	}

	// spec.md §4.4: "look up first in extern callbacks" — only the
	// fixed-arity Value*(Value*...) shaped callbacks are reachable this
	// way; number_new/boolean_new/array_new take non-Value* arguments and
	// are never guest-callable by name, only emitted by literal lowering.
	if name, ok := ptrArgExternByName[ident.Value]; ok && externArity[name] == len(args) {
		return b.callExtern(name, args...)
	}

	if uf, ok := b.userFns[ident.Value]; ok {
		if uf.arity != len(args) {
			b.warn(e.Pos(), "call to %q passes %d args, want %d; emitting null placeholder", ident.Value, len(args), uf.arity)
			return b.callExtern(callbacks.GlobalNull)
		}
		return b.irb.CreateCall(uf.ty, uf.fn, args, "")
	}

	b.warn(e.Pos(), "call to unknown identifier %q, emitting null placeholder", ident.Value)
	return b.callExtern(callbacks.GlobalNull)
}
