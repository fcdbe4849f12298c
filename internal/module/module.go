// Package module implements the Module/Execution Engine layer (spec.md
// §4.5): it takes a Builder's finished IR module, verifies it, creates an
// MCJIT execution engine, installs every extern callback and the namespace
// global as native address mappings, forces compilation of the entry
// function, and runs it.
package module

import (
	"fmt"
	"unsafe"

	"github.com/jsjit/jsjit/internal/builder"
	"github.com/jsjit/jsjit/internal/callbacks"
	"github.com/jsjit/jsjit/internal/nsctx"
	"github.com/tinygo-org/go-llvm"
)

// VerifyError wraps the LLVM verifier's diagnostic (spec.md §7
// "ModuleVerifyError — emitted IR rejected by the verifier; message carries
// the verifier diagnostic; terminates compilation").
type VerifyError struct {
	Diagnostic string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("module failed verification: %s", e.Diagnostic)
}

// Module owns one compiled program: the LLVM execution engine, the entry
// function pointer, and the namespace the compiled code mutates through
// global_get/global_set (spec.md §4.5).
type Module struct {
	ctx llvm.Context
	mod llvm.Module
	ee  llvm.ExecutionEngine
	ns  *nsctx.Context
}

// Build verifies b's module, creates an execution engine for it, installs
// every extern callback and the namespace global, and forces generation of
// the entry function, per spec.md §4.5 steps 1-5. It does not run the entry
// function — call Run for that.
func Build(b *builder.Builder, tbl *callbacks.Table, ns *nsctx.Context) (*Module, error) {
	mod := b.Module()

	// Step: verification is mandatory before execution (spec.md §4.4
	// "Failure semantics of the builder").
	if err := llvm.VerifyModule(mod, llvm.ReturnStatusAction); err != nil {
		return nil, &VerifyError{Diagnostic: err.Error()}
	}

	// Step 1: create an execution engine for the module.
	ee, err := llvm.NewMCJITCompiler(mod, llvm.NewMCJITCompilerOptions())
	if err != nil {
		return nil, fmt.Errorf("jsjit: failed to create execution engine: %w", err)
	}

	m := &Module{
		ctx: b.Context(),
		mod: mod,
		ee:  ee,
		ns:  ns,
	}

	// Step 2: install an IR-symbol -> native-address mapping for each
	// extern callback.
	for _, name := range callbacks.All {
		fn := b.ExternFunc(name)
		ee.AddGlobalMapping(fn, unsafe.Pointer(tbl.Addr(name)))
	}

	// Step 3: install the namespace-pointer global. The Module takes one
	// strong reference to the namespace by holding on to ns for its
	// lifetime; the callback table already closed over the same ns, so no
	// additional retain is needed here (the namespace is a Go pointer, not
	// a refcounted Value).
	ee.AddGlobalMapping(b.NamespaceGlobal(), unsafe.Pointer(nsctx.Addr(ns)))

	// Step 4: look up the entry function by name, forcing native code
	// generation.
	entryFn := mod.NamedFunction(builder.EntryName)
	ee.PointerToGlobal(entryFn)

	return m, nil
}

// Run invokes the compiled entry function (step 5: "run() invokes it").
func (m *Module) Run() {
	entryFn := m.mod.NamedFunction(builder.EntryName)
	m.ee.RunFunction(entryFn, nil)
}

// Namespace exposes the underlying namespace for diagnostics (--dump-ns).
func (m *Module) Namespace() *nsctx.Context { return m.ns }

// Dispose disposes the execution engine (freeing the compiled entry
// function's native code) and drops the namespace (spec.md §4.5 "On destruction"). Values still
// referenced from outside outlive the Module by virtue of shared ownership.
func (m *Module) Dispose() {
	m.ee.Dispose()
	m.ns.Release()
}
