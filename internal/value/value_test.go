package value

import "testing"

func TestToBool(t *testing.T) {
	t.Run("number zero is false", func(t *testing.T) {
		if ToBool(Number(0)) {
			t.Errorf("ToBool(Number(0)) = true, want false")
		}
	})

	t.Run("number nonzero is true", func(t *testing.T) {
		if !ToBool(Number(1)) {
			t.Errorf("ToBool(Number(1)) = false, want true")
		}
	})

	t.Run("null is false", func(t *testing.T) {
		if ToBool(Null()) {
			t.Errorf("ToBool(Null()) = true, want false")
		}
	})

	t.Run("boolean is itself", func(t *testing.T) {
		if ToBool(Boolean(false)) {
			t.Errorf("ToBool(Boolean(false)) = true, want false")
		}
		if !ToBool(Boolean(true)) {
			t.Errorf("ToBool(Boolean(true)) = false, want true")
		}
	})

	t.Run("string is true regardless of content", func(t *testing.T) {
		if !ToBool(Str("")) {
			t.Errorf("ToBool(Str(\"\")) = false, want true")
		}
	})

	t.Run("involution on boolean space", func(t *testing.T) {
		for _, b := range []bool{true, false} {
			v := Boolean(b)
			if ToBool(v) != b {
				t.Errorf("ToBool(Boolean(%v)) = %v, want %v", b, ToBool(v), b)
			}
		}
	})
}

func TestEqual(t *testing.T) {
	t.Run("same variant structural", func(t *testing.T) {
		if !Equal(Number(1), Number(1)) {
			t.Errorf("Number(1) != Number(1)")
		}
		if Equal(Number(1), Number(2)) {
			t.Errorf("Number(1) == Number(2)")
		}
		if !Equal(Str("a"), Str("a")) {
			t.Errorf("Str(a) != Str(a)")
		}
	})

	t.Run("cross variant always false", func(t *testing.T) {
		if Equal(Number(0), Boolean(false)) {
			t.Errorf("Number(0) == Boolean(false)")
		}
		if Equal(Null(), Boolean(false)) {
			t.Errorf("Null() == Boolean(false)")
		}
	})

	t.Run("class equality is reference identity", func(t *testing.T) {
		c1 := &fakeClass{name: "Array"}
		c2 := &fakeClass{name: "Array"}
		if Equal(ClassValue(c1), ClassValue(c2)) {
			t.Errorf("distinct Class instances with identical payload compared equal")
		}
		if !Equal(ClassValue(c1), ClassValue(c1)) {
			t.Errorf("identical Class instance compared unequal to itself")
		}
	})

	t.Run("array structural equality", func(t *testing.T) {
		a := Array([]*Value{Number(1), Number(2)})
		b := Array([]*Value{Number(1), Number(2)})
		if !Equal(a, b) {
			t.Errorf("structurally identical arrays compared unequal")
		}
	})
}

func TestObject(t *testing.T) {
	o := Object()
	ObjectSet(o, "value", Number(1))
	ObjectSet(o, "done", Boolean(false))

	if keys := ObjectKeys(o); len(keys) != 2 || keys[0] != "value" || keys[1] != "done" {
		t.Errorf("ObjectKeys() = %v, want [value done]", keys)
	}

	got, ok := ObjectGet(o, "value")
	if !ok || got.Num() != 1 {
		t.Errorf("ObjectGet(value) = %v, %v", got, ok)
	}

	// Replacing a key keeps insertion order stable.
	ObjectSet(o, "value", Number(2))
	if keys := ObjectKeys(o); len(keys) != 2 {
		t.Errorf("replacing a key changed key count: %v", keys)
	}
}

type fakeClass struct{ name string }

func (*fakeClass) Get(*Value) *Value  { return Null() }
func (*fakeClass) Set(*Value, *Value) {}
func (f *fakeClass) TypeName() string { return f.name }
