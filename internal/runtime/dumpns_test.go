package runtime

import (
	"testing"

	"github.com/tidwall/gjson"
)

func TestDumpNamespaceJSONRendersScalarsAndArrays(t *testing.T) {
	rt := New(nil)
	m, err := rt.LoadSource(`
let n = 42;
let s = "hi";
let b = true;
let arr = [1, 2, 3];
`, "<eval>")
	if err != nil {
		t.Fatalf("LoadSource: %v", err)
	}
	m.Run()

	doc, err := DumpNamespaceJSON(m.Namespace())
	if err != nil {
		t.Fatalf("DumpNamespaceJSON: %v", err)
	}
	if !gjson.Valid(doc) {
		t.Fatalf("DumpNamespaceJSON produced invalid JSON:\n%s", doc)
	}

	if got := gjson.Get(doc, "n").Num; got != 42 {
		t.Errorf("n = %v, want 42", got)
	}
	if got := gjson.Get(doc, "s").Str; got != "hi" {
		t.Errorf("s = %q, want %q", got, "hi")
	}
	if got := gjson.Get(doc, "b").Bool(); !got {
		t.Errorf("b = %v, want true", got)
	}
	arr := gjson.Get(doc, "arr").Array()
	if len(arr) != 3 {
		t.Fatalf("arr has %d elements, want 3", len(arr))
	}
	for i, want := range []float64{1, 2, 3} {
		if arr[i].Num != want {
			t.Errorf("arr[%d] = %v, want %v", i, arr[i].Num, want)
		}
	}
}
