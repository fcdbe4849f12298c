package stdlib

import (
	"testing"

	"github.com/jsjit/jsjit/internal/value"
)

func TestArrayIndexingAndLength(t *testing.T) {
	arr := NewArray([]*value.Value{value.Number(1), value.Number(2), value.Number(3)})
	ai := arr.AsClass().(*ArrayInstance)

	t.Run("length", func(t *testing.T) {
		got := ai.Get(value.Str("length"))
		if got.Num() != 3 {
			t.Errorf("length = %v, want 3", got.Num())
		}
	})

	t.Run("in range index", func(t *testing.T) {
		got := ai.Get(value.Number(1))
		if got.Num() != 2 {
			t.Errorf("arr[1] = %v, want 2", got.Num())
		}
	})

	t.Run("out of range index is null", func(t *testing.T) {
		got := ai.Get(value.Number(99))
		if got.Kind() != value.KindNull {
			t.Errorf("arr[99].Kind() = %v, want Null", got.Kind())
		}
	})

	t.Run("set in range", func(t *testing.T) {
		ai.Set(value.Number(0), value.Number(42))
		got := ai.Get(value.Number(0))
		if got.Num() != 42 {
			t.Errorf("arr[0] after set = %v, want 42", got.Num())
		}
	})

	t.Run("set out of range is a no-op", func(t *testing.T) {
		ai.Set(value.Number(99), value.Number(1))
		if ai.Len() != 3 {
			t.Errorf("Len() = %d after out-of-range set, want 3", ai.Len())
		}
	})
}

func TestArrayForOfProtocol(t *testing.T) {
	arr := NewArray([]*value.Value{value.Number(1), value.Number(2), value.Number(3)})
	ai := arr.AsClass().(*ArrayInstance)

	iterMethod := ai.Get(value.Str("@iterator"))
	if iterMethod.Kind() != value.KindMethod {
		t.Fatalf("@iterator is a %v, want Method", iterMethod.Kind())
	}

	sum := 0.0
	var it *value.Value
	steps := 0
	for {
		if it == nil {
			// Build the iterator the @iterator factory would return, from
			// its receiver, without calling the factory (the Builder instead
			// extracts FuncAddr and calls through the native ABI).
			factory := iterMethod.MethodReceiver()
			fa, _ := factory.AsClass().(*ArrayInstance)
			it = NewArrayIterator(value.Retain(fa.self))
		}
		iter := it.AsClass().(*ArrayIterator)
		next := iter.Get(value.Str("next")).MethodReceiver()
		_ = next
		stepObj := callNext(iter)
		done, _ := value.ObjectGet(stepObj, "done")
		if value.ToBool(done) {
			value.Release(stepObj)
			break
		}
		v, _ := value.ObjectGet(stepObj, "value")
		sum += v.Num()
		value.Release(stepObj)
		steps++
		if steps > 10 {
			t.Fatalf("iterator did not terminate")
		}
	}
	if sum != 6 {
		t.Errorf("for-of sum = %v, want 6", sum)
	}
}

// callNext replicates the body of ArrayIterator's native next callback in
// Go, without the purego callback the real Builder-emitted code goes through.
func callNext(it *ArrayIterator) *value.Value {
	result := value.Object()
	if it.array != nil && it.step < it.array.Len() {
		value.ObjectSet(result, "value", value.Retain(it.array.Elem(it.step)))
		value.ObjectSet(result, "done", value.Boolean(false))
		it.step++
	} else {
		value.ObjectSet(result, "value", value.Null())
		value.ObjectSet(result, "done", value.Boolean(true))
	}
	return result
}
