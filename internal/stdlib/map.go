package stdlib

import (
	"sync"

	"github.com/ebitengine/purego"
	"github.com/jsjit/jsjit/internal/value"
)

// MapInstance is a supplemental container (SPEC_FULL.md §4.4 addendum),
// grounded on internal/jsonvalue's object-entry shape from the teacher:
// an insertion-ordered string-keyed map of owned Values, exposed through
// the same Class get/set and iteration-protocol contracts as Array.
type MapInstance struct {
	self    *value.Value
	entries map[string]*value.Value
	order   []string
}

// NewMap returns an empty guest Map value.
func NewMap() *value.Value {
	m := &MapInstance{entries: make(map[string]*value.Value)}
	v := value.ClassValue(m)
	m.self = v
	return v
}

// TypeName implements value.Class.
func (m *MapInstance) TypeName() string { return "Map" }

// Get implements value.Class: string keys read entries; "size" and
// "@iterator" are the only other recognised Str keys.
func (m *MapInstance) Get(key *value.Value) *value.Value {
	if key.Kind() != value.KindStr {
		return value.Null()
	}
	switch key.Text() {
	case "size":
		return value.Number(float64(len(m.order)))
	case "@iterator":
		return value.BoundMethod(value.Retain(m.self), mapIteratorFactoryAddr())
	}
	if v, ok := m.entries[key.Text()]; ok {
		return value.Retain(v)
	}
	return value.Null()
}

// Set implements value.Class: assigns an entry under a string key,
// releasing val as a no-op for non-Str keys.
func (m *MapInstance) Set(key, val *value.Value) {
	if key.Kind() != value.KindStr {
		value.Release(val)
		return
	}
	k := key.Text()
	if old, ok := m.entries[k]; ok {
		value.Release(old)
	} else {
		m.order = append(m.order, k)
	}
	m.entries[k] = val
}

// MapIterator walks a Map's entries in insertion order, yielding
// {value: [key, value], done} per entry, matching the guest `for...of`
// convention for Map iteration.
type MapIterator struct {
	self   *value.Value
	source *value.Value
	owner  *MapInstance
	step   int
}

func newMapIterator(source *value.Value, owner *MapInstance) *value.Value {
	it := &MapIterator{source: source, owner: owner}
	v := value.ClassValue(it)
	it.self = v
	return v
}

// TypeName implements value.Class.
func (it *MapIterator) TypeName() string { return "MapIterator" }

// Get implements value.Class.
func (it *MapIterator) Get(key *value.Value) *value.Value {
	if key.Kind() == value.KindStr && key.Text() == "next" {
		return value.BoundMethod(value.Retain(it.self), mapIteratorNextAddr())
	}
	return value.Null()
}

// Set implements value.Class: MapIterator exposes no settable members.
func (it *MapIterator) Set(_, val *value.Value) {
	value.Release(val)
}

// Close implements value.Closer. See ArrayIterator.Close.
func (it *MapIterator) Close() {
	value.Release(it.source)
}

var (
	mapFactoryOnce sync.Once
	mapFactoryFn   uintptr
)

func mapIteratorFactoryAddr() uintptr {
	mapFactoryOnce.Do(func() {
		fn := func(receiver uintptr) uintptr {
			recv := value.FromPtr(receiver)
			m, ok := recv.AsClass().(*MapInstance)
			if !ok {
				return value.ToPtr(value.Null())
			}
			return value.ToPtr(newMapIterator(value.Retain(m.self), m))
		}
		mapFactoryFn = purego.NewCallback(fn)
	})
	return mapFactoryFn
}

var (
	mapIterNextOnce sync.Once
	mapIterNextFn   uintptr
)

func mapIteratorNextAddr() uintptr {
	mapIterNextOnce.Do(func() {
		fn := func(receiver uintptr) uintptr {
			recv := value.FromPtr(receiver)
			it, ok := recv.AsClass().(*MapIterator)
			if !ok {
				return value.ToPtr(value.Null())
			}
			result := value.Object()
			if it.owner != nil && it.step < len(it.owner.order) {
				k := it.owner.order[it.step]
				pair := value.Array([]*value.Value{value.Str(k), value.Retain(it.owner.entries[k])})
				value.ObjectSet(result, "value", pair)
				value.ObjectSet(result, "done", value.Boolean(false))
				it.step++
			} else {
				value.ObjectSet(result, "value", value.Null())
				value.ObjectSet(result, "done", value.Boolean(true))
			}
			return value.ToPtr(result)
		}
		mapIterNextFn = purego.NewCallback(fn)
	})
	return mapIterNextFn
}
