package stdlib

import (
	"testing"

	"github.com/jsjit/jsjit/internal/value"
)

func TestMapGetSetAndSize(t *testing.T) {
	m := NewMap()
	mi := m.AsClass().(*MapInstance)

	t.Run("missing key is null", func(t *testing.T) {
		got := mi.Get(value.Str("missing"))
		if got.Kind() != value.KindNull {
			t.Errorf("Get(missing).Kind() = %v, want Null", got.Kind())
		}
	})

	t.Run("set then get round-trips", func(t *testing.T) {
		mi.Set(value.Str("a"), value.Number(1))
		got := mi.Get(value.Str("a"))
		if got.Num() != 1 {
			t.Errorf("Get(a) = %v, want 1", got.Num())
		}
	})

	t.Run("size reflects distinct keys", func(t *testing.T) {
		mi.Set(value.Str("b"), value.Number(2))
		got := mi.Get(value.Str("size"))
		if got.Num() != 2 {
			t.Errorf("size = %v, want 2", got.Num())
		}
	})

	t.Run("re-set an existing key does not grow size", func(t *testing.T) {
		mi.Set(value.Str("a"), value.Number(99))
		if got := mi.Get(value.Str("size")); got.Num() != 2 {
			t.Errorf("size after re-set = %v, want 2", got.Num())
		}
		if got := mi.Get(value.Str("a")); got.Num() != 99 {
			t.Errorf("Get(a) after re-set = %v, want 99", got.Num())
		}
	})

	t.Run("non-string key set is a no-op", func(t *testing.T) {
		mi.Set(value.Number(0), value.Number(1))
		if got := mi.Get(value.Str("size")); got.Num() != 2 {
			t.Errorf("size after non-string set = %v, want 2", got.Num())
		}
	})

	t.Run("non-string key get is null", func(t *testing.T) {
		got := mi.Get(value.Number(0))
		if got.Kind() != value.KindNull {
			t.Errorf("Get(0).Kind() = %v, want Null", got.Kind())
		}
	})
}

func TestMapForOfProtocolYieldsKeyValuePairsInInsertionOrder(t *testing.T) {
	m := NewMap()
	mi := m.AsClass().(*MapInstance)
	mi.Set(value.Str("x"), value.Number(1))
	mi.Set(value.Str("y"), value.Number(2))

	iterMethod := mi.Get(value.Str("@iterator"))
	if iterMethod.Kind() != value.KindMethod {
		t.Fatalf("@iterator is a %v, want Method", iterMethod.Kind())
	}

	it := newMapIterator(value.Retain(mi.self), mi)
	iter := it.AsClass().(*MapIterator)

	var keys []string
	var sum float64
	for steps := 0; ; steps++ {
		if steps > 10 {
			t.Fatalf("iterator did not terminate")
		}
		stepObj := callMapIterNext(iter)
		done, _ := value.ObjectGet(stepObj, "done")
		if value.ToBool(done) {
			value.Release(stepObj)
			break
		}
		pair, _ := value.ObjectGet(stepObj, "value")
		elems := pair.Elems()
		keys = append(keys, elems[0].Text())
		sum += elems[1].Num()
		value.Release(stepObj)
	}

	if len(keys) != 2 || keys[0] != "x" || keys[1] != "y" {
		t.Errorf("keys = %v, want [x y]", keys)
	}
	if sum != 3 {
		t.Errorf("sum = %v, want 3", sum)
	}
}

// callMapIterNext replicates the body of MapIterator's native next callback
// in Go, without the purego callback the real Builder-emitted code goes through.
func callMapIterNext(it *MapIterator) *value.Value {
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
	return result
}
