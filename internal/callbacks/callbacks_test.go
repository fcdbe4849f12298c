package callbacks

import (
	"testing"

	"github.com/jsjit/jsjit/internal/nsctx"
	"github.com/jsjit/jsjit/internal/value"
)

func newTestTable(t *testing.T) *Table {
	t.Helper()
	return NewTable(nsctx.New())
}

func TestArithmeticTypeMismatchYieldsZero(t *testing.T) {
	got := arith(func(a, b float64) float64 { return a + b })(
		value.ToPtr(value.Str("x")), value.ToPtr(value.Number(1)))
	result := value.FromPtr(got)
	if result.Kind() != value.KindNumber || result.Num() != 0 {
		t.Errorf("add(Str, Number) = %v, want Number(0)", value.Debug(result))
	}
}

func TestComparisonTypeMismatchYieldsFalse(t *testing.T) {
	got := cmp(func(a, b float64) bool { return a > b })(
		value.ToPtr(value.Null()), value.ToPtr(value.Number(1)))
	result := value.FromPtr(got)
	if result.Kind() != value.KindBoolean || result.Bool() {
		t.Errorf("gt(Null, Number) = %v, want Boolean(false)", value.Debug(result))
	}
}

func TestArithmeticOnNumbers(t *testing.T) {
	cases := []struct {
		name string
		op   func(a, b float64) float64
		l, r float64
		want float64
	}{
		{"add", func(a, b float64) float64 { return a + b }, 1, 1, 2},
		{"sub", func(a, b float64) float64 { return a - b }, 1, 3, -2},
		{"mul", func(a, b float64) float64 { return a * b }, 1, 2, 2},
		{"div", func(a, b float64) float64 { return a / b }, 1, 2, 0.5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := arith(c.op)(value.ToPtr(value.Number(c.l)), value.ToPtr(value.Number(c.r)))
			result := value.FromPtr(got)
			if result.Num() != c.want {
				t.Errorf("%s(%v,%v) = %v, want %v", c.name, c.l, c.r, result.Num(), c.want)
			}
		})
	}
}

func TestGlobalGetMissingReturnsBoxedNull(t *testing.T) {
	tbl := newTestTable(t)
	result := tbl.ctx.Get("missing")
	if result.Kind() != value.KindNull {
		t.Errorf("Get(missing).Kind() = %v, want Null (boxed, never a raw nil pointer)", result.Kind())
	}
}

func TestTableMintsEveryExternSymbol(t *testing.T) {
	tbl := newTestTable(t)
	for _, n := range All {
		if tbl.Addr(n) == 0 {
			t.Errorf("Addr(%s) = 0, want a nonzero native-callable pointer", n)
		}
	}
}

func TestResolveKeyConventions(t *testing.T) {
	t.Run("plain string", func(t *testing.T) {
		if got := resolveKey(value.Str("x")); got != "x" {
			t.Errorf("resolveKey(Str) = %q, want x", got)
		}
	})

	t.Run("array first element", func(t *testing.T) {
		arr := value.Array([]*value.Value{value.Str("a"), value.Str("b")})
		if got := resolveKey(arr); got != "a" {
			t.Errorf("resolveKey(Array) = %q, want a", got)
		}
	})
}

func TestAndOrAreNotShortCircuit(t *testing.T) {
	// Both sides are Values already evaluated by the Builder; the callback
	// itself has no way to observe whether the right side was "skipped",
	// so this only pins the boolean-combination behavior per spec.md §4.2.
	t.Run("and", func(t *testing.T) {
		got := value.FromPtr(andImpl(value.ToPtr(value.Boolean(true)), value.ToPtr(value.Boolean(false))))
		if got.Bool() {
			t.Errorf("and(true, false) = true, want false")
		}
	})
	t.Run("or", func(t *testing.T) {
		got := value.FromPtr(orImpl(value.ToPtr(value.Boolean(false)), value.ToPtr(value.Boolean(true))))
		if !got.Bool() {
			t.Errorf("or(false, true) = false, want true")
		}
	})
}
