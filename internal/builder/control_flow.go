package builder

import (
	"github.com/jsjit/jsjit/internal/ast"
	"github.com/jsjit/jsjit/internal/callbacks"
	"github.com/tinygo-org/go-llvm"
)

// lowerIf implements spec.md §4.4's if/else-if/else block skeleton exactly,
// including the REDESIGN-flagged fix: the primary condition's false edge
// always goes to the first else-if check when any are present, never falls
// through directly to else.
func (b *Builder) lowerIf(s *ast.IfStatement) {
	merge := b.ctx.AddBasicBlock(b.curFn, "if.merge")

	then := b.ctx.AddBasicBlock(b.curFn, "if.then")
	var elseOrFirstCheck llvm.BasicBlock
	checks := make([]llvm.BasicBlock, len(s.ElseIfs))
	bodies := make([]llvm.BasicBlock, len(s.ElseIfs))
	for i := range s.ElseIfs {
		checks[i] = b.ctx.AddBasicBlock(b.curFn, "if.elseif.check")
		bodies[i] = b.ctx.AddBasicBlock(b.curFn, "if.elseif.body")
	}
	var elseBlock llvm.BasicBlock
	hasElse := s.Alternative != nil
	if hasElse {
		elseBlock = b.ctx.AddBasicBlock(b.curFn, "if.else")
	}

	if len(checks) > 0 {
		elseOrFirstCheck = checks[0]
	} else if hasElse {
		elseOrFirstCheck = elseBlock
	} else {
		elseOrFirstCheck = merge
	}

	cond := b.toI1(b.callExtern(callbacks.ToBool, b.lowerExpr(s.Condition)))
	b.emitCondBr(cond, then, elseOrFirstCheck)

	b.setBlock(then)
	b.lowerStmt(s.Consequence)
	b.emitBr(merge)

	for i, ei := range s.ElseIfs {
		b.setBlock(checks[i])
		var next llvm.BasicBlock
		if i+1 < len(checks) {
			next = checks[i+1]
		} else if hasElse {
			next = elseBlock
		} else {
			next = merge
		}
		c := b.toI1(b.callExtern(callbacks.ToBool, b.lowerExpr(ei.Condition)))
		b.emitCondBr(c, bodies[i], next)

		b.setBlock(bodies[i])
		b.lowerStmt(ei.Body)
		b.emitBr(merge)
	}

	if hasElse {
		b.setBlock(elseBlock)
		b.lowerStmt(s.Alternative)
		b.emitBr(merge)
	}

	b.setBlock(merge)
}

// lowerSwitch implements spec.md §4.4 "Switch": each case lowers as a
// sequential (check, body) pair comparing via eq/to_bool; no fallthrough —
// every body jumps to merge. An absent default flows straight to merge.
func (b *Builder) lowerSwitch(s *ast.SwitchStatement) {
	merge := b.ctx.AddBasicBlock(b.curFn, "switch.merge")
	value := b.lowerExpr(s.Value)

	checks := make([]llvm.BasicBlock, len(s.Cases))
	bodies := make([]llvm.BasicBlock, len(s.Cases))
	for i, c := range s.Cases {
		if c.Expr != nil {
			checks[i] = b.ctx.AddBasicBlock(b.curFn, "switch.check")
		}
		bodies[i] = b.ctx.AddBasicBlock(b.curFn, "switch.body")
	}

	next := func(i int) llvm.BasicBlock {
		if i+1 < len(s.Cases) {
			if s.Cases[i+1].Expr == nil {
				return bodies[i+1]
			}
			return checks[i+1]
		}
		return merge
	}

	if len(s.Cases) == 0 {
		b.emitBr(merge)
		b.setBlock(merge)
		return
	}

	start := checks[0]
	if s.Cases[0].Expr == nil {
		start = bodies[0]
	}
	b.emitBr(start)

	for i, c := range s.Cases {
		if c.Expr == nil {
			continue // default has no check block; fallen into directly
		}
		b.setBlock(checks[i])
		caseVal := b.lowerExpr(c.Expr)
		eq := b.toI1(b.callExtern(callbacks.ToBool, b.callExtern(callbacks.Eq, value, caseVal)))
		b.emitCondBr(eq, bodies[i], next(i))
	}

	for i, c := range s.Cases {
		b.setBlock(bodies[i])
		for _, stmt := range c.Body {
			b.lowerStmt(stmt)
		}
		b.emitBr(merge)
	}

	b.setBlock(merge)
}

// lowerFor implements spec.md §4.4's C-style five-block skeleton:
// init -> cond -> body -> after -> end.
func (b *Builder) lowerFor(s *ast.ForStatement) {
	condBlock := b.ctx.AddBasicBlock(b.curFn, "for.cond")
	bodyBlock := b.ctx.AddBasicBlock(b.curFn, "for.body")
	afterBlock := b.ctx.AddBasicBlock(b.curFn, "for.after")
	endBlock := b.ctx.AddBasicBlock(b.curFn, "for.end")

	if s.Init != nil {
		b.lowerStmt(s.Init)
	}
	b.emitBr(condBlock)

	b.setBlock(condBlock)
	if s.Cond != nil {
		cond := b.toI1(b.callExtern(callbacks.ToBool, b.lowerExpr(s.Cond)))
		b.emitCondBr(cond, bodyBlock, endBlock)
	} else {
		b.emitBr(bodyBlock)
	}

	b.setBlock(bodyBlock)
	b.lowerStmt(s.Body)
	b.emitBr(afterBlock)

	b.setBlock(afterBlock)
	if s.After != nil {
		b.lowerStmt(s.After)
	}
	b.emitBr(condBlock)

	b.setBlock(endBlock)
}

// lowerWhile implements spec.md §4.4 "While": identical cond/body/back-edge
// shape to For without init or after.
func (b *Builder) lowerWhile(s *ast.WhileStatement) {
	condBlock := b.ctx.AddBasicBlock(b.curFn, "while.cond")
	bodyBlock := b.ctx.AddBasicBlock(b.curFn, "while.body")
	endBlock := b.ctx.AddBasicBlock(b.curFn, "while.end")

	b.emitBr(condBlock)

	b.setBlock(condBlock)
	cond := b.toI1(b.callExtern(callbacks.ToBool, b.lowerExpr(s.Condition)))
	b.emitCondBr(cond, bodyBlock, endBlock)

	b.setBlock(bodyBlock)
	b.lowerStmt(s.Body)
	b.emitBr(condBlock)

	b.setBlock(endBlock)
}

// lowerForOf implements spec.md §4.4 "For-of": the iteration protocol.
// Bound methods (@iterator, next) are invoked indirectly — their native
// address is extracted from a Method Value and cast to a function pointer,
// since (unlike ordinary Call lowering) the callee isn't statically known.
func (b *Builder) lowerForOf(s *ast.ForOfStatement) {
	iterable := b.lowerExpr(s.Iterable)
	iterMethod := b.callExtern(callbacks.GetAttr, iterable, b.callExtern(callbacks.StringFrom, b.internString("@iterator")))
	it := b.callIndirectUnary(iterMethod, iterable)

	condBlock := b.ctx.AddBasicBlock(b.curFn, "forof.cond")
	bodyBlock := b.ctx.AddBasicBlock(b.curFn, "forof.body")
	endBlock := b.ctx.AddBasicBlock(b.curFn, "forof.end")

	b.emitBr(condBlock)

	b.setBlock(condBlock)
	nextMethod := b.callExtern(callbacks.GetAttr, it, b.callExtern(callbacks.StringFrom, b.internString("next")))
	step := b.callIndirectUnary(nextMethod, it)
	b.callExtern(callbacks.ValueDelete, nextMethod)
	done := b.callExtern(callbacks.GetAttr, step, b.callExtern(callbacks.StringFrom, b.internString("done")))
	doneBool := b.toI1(b.callExtern(callbacks.ToBool, done))
	b.emitCondBr(doneBool, endBlock, bodyBlock)

	b.setBlock(bodyBlock)
	value := b.callExtern(callbacks.GetAttr, step, b.callExtern(callbacks.StringFrom, b.internString("value")))
	b.lowerIdentifierSet(s.Variable, value)
	b.lowerStmt(s.Body)
	b.emitBr(condBlock)

	// The iterator variable goes out of scope at the end of the loop;
	// releasing it here drives value.Release's Closer path (ArrayIterator/
	// MapIterator.Close), dropping the strong reference it holds on the
	// source container.
	b.setBlock(endBlock)
	b.callExtern(callbacks.ValueDelete, it)
}

// callIndirectUnary extracts a Method Value's native address via
// get_func_addr, casts it to a Value*(Value*) function pointer, and calls
// it with arg — the native calling-convention shape spec.md §4.2/§4.4
// describe for bound methods.
func (b *Builder) callIndirectUnary(method, arg llvm.Value) llvm.Value {
	addr := b.callExtern(callbacks.GetFuncAddr, method)
	fnTy := llvm.FunctionType(b.ptrTy(), []llvm.Type{b.ptrTy()}, false)
	fnPtrTy := llvm.PointerType(fnTy, 0)
	fnPtr := b.irb.CreateIntToPtr(addr, fnPtrTy, "")
	return b.irb.CreateCall(fnTy, fnPtr, []llvm.Value{arg}, "")
}
