// Package stdlib implements the built-in polymorphic container objects
// (Array, ArrayIterator, Map) that expose the Class get/set and iteration
// contracts of spec.md §4.3 to JIT-compiled code.
package stdlib

import (
	"sync"

	"github.com/ebitengine/purego"
	"github.com/jsjit/jsjit/internal/value"
)

// ArrayInstance is the concrete Class behind a guest `[...]` literal.
//
// self is a weak back-reference (never retained) used only to mint the
// bound "@iterator" Method without the instance owning a strong reference
// to itself, per spec.md §4.1's arc-cycle-avoidance note and §9's
// reiteration of the pattern.
type ArrayInstance struct {
	self  *value.Value
	elems []*value.Value
}

// NewArray boxes elems (already-owned references) as a guest Array value.
func NewArray(elems []*value.Value) *value.Value {
	ai := &ArrayInstance{elems: elems}
	v := value.ClassValue(ai)
	ai.self = v
	return v
}

// Len reports the element count, for use by ArrayIterator.
func (ai *ArrayInstance) Len() int { return len(ai.elems) }

// Elem returns the i-th element without transferring ownership.
func (ai *ArrayInstance) Elem(i int) *value.Value {
	if i < 0 || i >= len(ai.elems) {
		return nil
	}
	return ai.elems[i]
}

// TypeName implements value.Class.
func (ai *ArrayInstance) TypeName() string { return "Array" }

// Get implements value.Class: numeric indices, "length", and "@iterator".
func (ai *ArrayInstance) Get(key *value.Value) *value.Value {
	switch key.Kind() {
	case value.KindNumber:
		i := int(key.Num())
		if i < 0 || i >= len(ai.elems) {
			return value.Null()
		}
		return value.Retain(ai.elems[i])
	case value.KindStr:
		switch key.Text() {
		case "length":
			return value.Number(float64(len(ai.elems)))
		case "@iterator":
			return value.BoundMethod(value.Retain(ai.self), arrayIteratorFactoryAddr())
		}
	}
	return value.Null()
}

// Set implements value.Class: assigns in range, no-op otherwise. val is
// consumed either way (assigned, or released as a no-op discard).
func (ai *ArrayInstance) Set(key, val *value.Value) {
	if key.Kind() != value.KindNumber {
		value.Release(val)
		return
	}
	i := int(key.Num())
	if i < 0 || i >= len(ai.elems) {
		value.Release(val)
		return
	}
	value.Release(ai.elems[i])
	ai.elems[i] = val
}

var (
	arrayFactoryOnce sync.Once
	arrayFactoryAddr uintptr
)

// arrayIteratorFactoryAddr returns the single native-callable address shared
// by every Array instance's "@iterator" method. It is minted once (not per
// instance) with purego.NewCallback, grounded on the corpus's purego
// syscall-trampoline package: this is the Go-function-to-native-pointer half
// of the native calling convention spec.md §4.2/§9 describes.
func arrayIteratorFactoryAddr() uintptr {
	arrayFactoryOnce.Do(func() {
		fn := func(receiver uintptr) uintptr {
			recv := value.FromPtr(receiver)
			ai, ok := recv.AsClass().(*ArrayInstance)
			if !ok {
				return value.ToPtr(value.Null())
			}
			return value.ToPtr(NewArrayIterator(value.Retain(ai.self)))
		}
		arrayFactoryAddr = purego.NewCallback(fn)
	})
	return arrayFactoryAddr
}
