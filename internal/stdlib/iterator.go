package stdlib

import (
	"sync"

	"github.com/ebitengine/purego"
	"github.com/jsjit/jsjit/internal/value"
)

// ArrayIterator implements the @iterator/next/{value,done} protocol spec.md
// §4.3 and §GLOSSARY describe. It holds a strong reference to its source
// array for the iterator's own lifetime, and a weak self-reference (see
// ArrayInstance) to mint its bound "next" Method.
type ArrayIterator struct {
	self   *value.Value
	source *value.Value // retained Array Value, released on destroy
	array  *ArrayInstance
	step   int
}

// NewArrayIterator takes ownership of one strong reference to source (the
// array being iterated) and returns a fresh ArrayIterator Class value.
func NewArrayIterator(source *value.Value) *value.Value {
	ai, _ := source.AsClass().(*ArrayInstance)
	it := &ArrayIterator{source: source, array: ai}
	v := value.ClassValue(it)
	it.self = v
	return v
}

// TypeName implements value.Class.
func (it *ArrayIterator) TypeName() string { return "ArrayIterator" }

// Get implements value.Class: only "next" is recognised.
func (it *ArrayIterator) Get(key *value.Value) *value.Value {
	if key.Kind() == value.KindStr && key.Text() == "next" {
		return value.BoundMethod(value.Retain(it.self), arrayIteratorNextAddr())
	}
	return value.Null()
}

// Set implements value.Class: ArrayIterator exposes no settable members.
func (it *ArrayIterator) Set(_, val *value.Value) {
	value.Release(val)
}

// Close implements value.Closer: value.Release invokes it once the
// iterator's own Value reaches a zero refcount, dropping the strong
// reference to its source array.
func (it *ArrayIterator) Close() {
	value.Release(it.source)
}

var (
	arrayIterNextOnce sync.Once
	arrayIterNextFn   uintptr
)

func arrayIteratorNextAddr() uintptr {
	arrayIterNextOnce.Do(func() {
		fn := func(receiver uintptr) uintptr {
			recv := value.FromPtr(receiver)
			it, ok := recv.AsClass().(*ArrayIterator)
			if !ok {
				return value.ToPtr(value.Null())
			}
			result := value.Object()
			if it.array != nil && it.step < it.array.Len() {
				value.ObjectSet(result, "value", value.Retain(it.array.Elem(it.step)))
				value.ObjectSet(result, "done", value.Boolean(false))
				it.step++
			} else {
				value.ObjectSet(result, "value", value.Null())
				value.ObjectSet(result, "done", value.Boolean(true))
			}
			return value.ToPtr(result)
		}
		arrayIterNextFn = purego.NewCallback(fn)
	})
	return arrayIterNextFn
}
