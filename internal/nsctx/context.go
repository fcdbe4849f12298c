// Package nsctx implements the module-global namespace: a mapping from
// name to shared-owned value.Value, reachable from JIT-compiled code through
// the callback table (see package callbacks).
package nsctx

import (
	"sync"
	"unsafe"

	"github.com/jsjit/jsjit/internal/value"
)

// Context is the process-local namespace backing one compiled Module.
// Parent is reserved for future lexical scoping (spec.md §3); the core
// always uses a single flat module-global context with Parent == nil.
type Context struct {
	mu     sync.Mutex
	names  map[string]*value.Value
	Parent *Context
}

// New creates an empty, flat global context.
func New() *Context {
	return &Context{names: make(map[string]*value.Value)}
}

// Get reads name, returning a boxed Null (never a raw nil) when absent, per
// the resolution of spec.md §9's open question on global_get's convention.
// Get always returns a fresh reference (the Null case) or a Retain of the
// stored one, so callers own exactly one strong reference either way.
func (c *Context) Get(name string) *value.Value {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.names[name]; ok {
		return value.Retain(v)
	}
	if c.Parent != nil {
		return c.Parent.Get(name)
	}
	return value.Null()
}

// Set inserts or replaces name, taking ownership of val (one strong
// reference). Any previous binding is released.
func (c *Context) Set(name string, val *value.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.names[name]; ok {
		value.Release(old)
	}
	c.names[name] = val
}

// Names returns a snapshot of the bound names, for diagnostics (--dump-ns).
func (c *Context) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.names))
	for n := range c.names {
		names = append(names, n)
	}
	return names
}

// Peek reads name without transferring ownership, for diagnostics only.
func (c *Context) Peek(name string) (*value.Value, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.names[name]
	return v, ok
}

// Release drops every binding, decrementing each value's reference count.
// Called once when the owning Module is destroyed (spec.md §4.5).
func (c *Context) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range c.names {
		value.Release(v)
	}
	c.names = make(map[string]*value.Value)
}

// Addr returns c's address as the raw integer the namespace-pointer IR
// global is mapped to (spec.md §4.5 step 3). The callback table closes over
// the same *Context directly, so this value is never dereferenced by guest
// code — it exists purely for native-ABI fidelity of the global itself.
func Addr(c *Context) uintptr {
	return uintptr(unsafe.Pointer(c))
}
