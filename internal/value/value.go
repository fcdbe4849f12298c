// Package value implements the boxed, reference-counted runtime value used
// by the JIT runtime callbacks and by the guest-visible Array/Map/Class
// objects in package stdlib.
package value

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// Kind tags the variant carried by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindBoolean
	KindStr
	KindArray
	KindObject
	KindFunction
	KindMethod
	KindClass
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindStr:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindFunction:
		return "function"
	case KindMethod:
		return "method"
	case KindClass:
		return "class"
	default:
		return "unknown"
	}
}

// Class is the polymorphic-object capability every container type
// (Array, ArrayIterator, Map, ...) must implement. get/set route both
// attribute access and numeric indexing; the concrete type decides which
// keys it recognises.
type Class interface {
	// Get reads a member. Returns a fresh owned Value (Null if absent).
	Get(key *Value) *Value
	// Set assigns a member. No-op if the concrete type rejects the key.
	Set(key, val *Value)
	// TypeName identifies the concrete container for diagnostics.
	TypeName() string
}

// Closer is the optional capability a Class implements when it owns strong
// references of its own (e.g. an iterator's retained source container);
// Release invokes it once a ClassValue's count reaches zero, releasing that
// owned sub-state in turn.
type Closer interface {
	Close()
}

// Method is a bound method: a strong reference to the receiving Class
// instance plus the native code address of the method body.
type Method struct {
	Receiver *Value
	Addr     uintptr
}

// Value is a heap-allocated, reference-counted tagged union. Every Value
// returned by a callback is an owned strong reference; Release must be
// called exactly once on every path that discards it.
type Value struct {
	count atomic.Int32

	kind Kind

	num     float64
	boolean bool
	str     string
	arr     []*Value
	obj     map[string]*Value
	objKeys []string // insertion order, for stable iteration/serialization
	fnAddr  uintptr
	method  *Method
	class   Class
}

func newValue(k Kind) *Value {
	v := &Value{kind: k}
	v.count.Store(1)
	return v
}

// Kind returns the variant tag.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// Null returns a fresh owned Null value.
func Null() *Value { return newValue(KindNull) }

// Number boxes a float64.
func Number(f float64) *Value {
	v := newValue(KindNumber)
	v.num = f
	return v
}

// Boolean boxes a bool.
func Boolean(b bool) *Value {
	v := newValue(KindBoolean)
	v.boolean = b
	return v
}

// Str boxes a UTF-8 string, copying the bytes.
func Str(s string) *Value {
	v := newValue(KindStr)
	v.str = s
	return v
}

// Array boxes an ordered sequence of already-owned elements. Array takes
// ownership of the slice and every element in it.
func Array(elems []*Value) *Value {
	v := newValue(KindArray)
	v.arr = elems
	return v
}

// Object returns a fresh, empty Object value; ObjectSet adds entries and
// ObjectKeys reports them in insertion order.
func Object() *Value {
	v := newValue(KindObject)
	v.obj = make(map[string]*Value)
	return v
}

// ObjectSet inserts or replaces a key in an Object value, taking ownership
// of val. Releases any previous value under key.
func ObjectSet(o *Value, key string, val *Value) {
	if o == nil || o.kind != KindObject {
		return
	}
	if old, ok := o.obj[key]; ok {
		Release(old)
	} else {
		o.objKeys = append(o.objKeys, key)
	}
	o.obj[key] = val
}

// ObjectGet reads a key from an Object value without transferring ownership
// of the stored reference; callers that keep the result must Retain it.
func ObjectGet(o *Value, key string) (*Value, bool) {
	if o == nil || o.kind != KindObject {
		return nil, false
	}
	val, ok := o.obj[key]
	return val, ok
}

// ObjectKeys returns the insertion-ordered key list.
func ObjectKeys(o *Value) []string {
	if o == nil || o.kind != KindObject {
		return nil
	}
	return o.objKeys
}

// Function boxes a native code address for a user-defined function.
func Function(addr uintptr) *Value {
	v := newValue(KindFunction)
	v.fnAddr = addr
	return v
}

// BoundMethod boxes a (receiver, native address) pair. Takes ownership of
// receiver (one strong reference).
func BoundMethod(receiver *Value, addr uintptr) *Value {
	v := newValue(KindMethod)
	v.method = &Method{Receiver: receiver, Addr: addr}
	return v
}

// ClassValue boxes a reference to a polymorphic container instance.
func ClassValue(c Class) *Value {
	v := newValue(KindClass)
	v.class = c
	return v
}

// Retain adds one strong reference and returns v for call chaining.
func Retain(v *Value) *Value {
	if v == nil {
		return nil
	}
	v.count.Add(1)
	return v
}

// Release removes one strong reference, destroying v and its owned
// sub-values once the count reaches zero.
func Release(v *Value) {
	if v == nil {
		return
	}
	if v.count.Add(-1) > 0 {
		return
	}
	switch v.kind {
	case KindArray:
		for _, e := range v.arr {
			Release(e)
		}
	case KindObject:
		for _, k := range v.objKeys {
			Release(v.obj[k])
		}
	case KindMethod:
		Release(v.method.Receiver)
	case KindClass:
		if c, ok := v.class.(Closer); ok {
			c.Close()
		}
	}
}

// Num returns the Number payload (0 for other kinds).
func (v *Value) Num() float64 {
	if v == nil || v.kind != KindNumber {
		return 0
	}
	return v.num
}

// Bool returns the Boolean payload (false for other kinds).
func (v *Value) Bool() bool {
	if v == nil || v.kind != KindBoolean {
		return false
	}
	return v.boolean
}

// Text returns the Str payload ("" for other kinds). Named Text rather than
// String so Value does not satisfy fmt.Stringer; Debug renders values for
// diagnostics.
func (v *Value) Text() string {
	if v == nil || v.kind != KindStr {
		return ""
	}
	return v.str
}

// Elems returns the Array payload's backing slice (nil for other kinds).
// Callers must not retain references into it past the owning Value's life.
func (v *Value) Elems() []*Value {
	if v == nil || v.kind != KindArray {
		return nil
	}
	return v.arr
}

// SetElem assigns index i in-place if in range. Releases the previous
// element and takes ownership of val.
func (v *Value) SetElem(i int, val *Value) bool {
	if v == nil || v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return false
	}
	Release(v.arr[i])
	v.arr[i] = val
	return true
}

// FuncAddr returns the native code address for Function/Method kinds, 0
// otherwise.
func (v *Value) FuncAddr() uintptr {
	if v == nil {
		return 0
	}
	switch v.kind {
	case KindFunction:
		return v.fnAddr
	case KindMethod:
		return v.method.Addr
	default:
		return 0
	}
}

// MethodReceiver returns the bound receiver of a Method value, nil otherwise.
func (v *Value) MethodReceiver() *Value {
	if v == nil || v.kind != KindMethod {
		return nil
	}
	return v.method.Receiver
}

// AsClass returns the Class payload, nil if v is not a Class value.
func (v *Value) AsClass() Class {
	if v == nil || v.kind != KindClass {
		return nil
	}
	return v.class
}

// ToBool implements spec.md §4.1's coercion: Number -> false iff 0.0,
// Boolean -> itself, Null -> false, everything else -> true.
func ToBool(v *Value) bool {
	if v == nil {
		return false
	}
	switch v.kind {
	case KindNull:
		return false
	case KindNumber:
		return v.num != 0
	case KindBoolean:
		return v.boolean
	default:
		return true
	}
}

// Equal implements structural equality: same-variant structural compare;
// cross-variant is always false. Class equality is reference identity, and
// the core treats two distinct Class instances as non-equal even when their
// contents are the same (documented in spec.md §4.1).
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindNumber:
		return a.num == b.num
	case KindBoolean:
		return a.boolean == b.boolean
	case KindStr:
		return a.str == b.str
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.objKeys) != len(b.objKeys) {
			return false
		}
		for _, k := range a.objKeys {
			bv, ok := b.obj[k]
			if !ok || !Equal(a.obj[k], bv) {
				return false
			}
		}
		return true
	case KindFunction:
		return a.fnAddr == b.fnAddr
	case KindMethod:
		return a.method.Addr == b.method.Addr && Equal(a.method.Receiver, b.method.Receiver)
	case KindClass:
		return a.class == b.class
	default:
		return false
	}
}

// ToPtr reduces a Value reference to the representation carried across the
// native ABI boundary (an opaque Value* modelled as an i8* in the emitted
// IR, an integer register in the native calling convention). It does not
// change ownership.
func ToPtr(v *Value) uintptr {
	return uintptr(unsafe.Pointer(v))
}

// FromPtr recovers a Value reference from its native-ABI representation. It
// does not change ownership; the caller is responsible for the reference
// discipline the original pointer represented.
func FromPtr(p uintptr) *Value {
	return (*Value)(unsafe.Pointer(p)) //nolint:govet // ABI boundary, see ToPtr.
}

// Debug renders a Value for diagnostics (trace logs, --dump-ns); it is not
// a guest-visible coercion.
func Debug(v *Value) string {
	if v == nil {
		return "<nil>"
	}
	switch v.kind {
	case KindNull:
		return "null"
	case KindNumber:
		return fmt.Sprintf("%g", v.num)
	case KindBoolean:
		return fmt.Sprintf("%t", v.boolean)
	case KindStr:
		return fmt.Sprintf("%q", v.str)
	case KindArray:
		return fmt.Sprintf("array[%d]", len(v.arr))
	case KindObject:
		return fmt.Sprintf("object{%d}", len(v.objKeys))
	case KindFunction:
		return fmt.Sprintf("function@%#x", v.fnAddr)
	case KindMethod:
		return fmt.Sprintf("method@%#x", v.method.Addr)
	case KindClass:
		if v.class != nil {
			return fmt.Sprintf("class<%s>", v.class.TypeName())
		}
		return "class<nil>"
	default:
		return "?"
	}
}
