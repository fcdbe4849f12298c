package runtime

import (
	"fmt"
	"sort"

	"github.com/jsjit/jsjit/internal/nsctx"
	"github.com/jsjit/jsjit/internal/value"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// DumpNamespaceJSON renders ns as a JSON object for `jsjit run --dump-ns`
// debugging output (SPEC_FULL.md §3 addendum). It builds the document
// incrementally with sjson's set-path style, the way the corpus's
// jsonvalue-shaped packages build JSON from already-boxed values instead of
// reflecting over a Go struct with encoding/json.
func DumpNamespaceJSON(ns *nsctx.Context) (string, error) {
	names := ns.Names()
	sort.Strings(names)

	doc := "{}"
	for _, name := range names {
		v, ok := ns.Peek(name)
		if !ok {
			continue
		}
		var err error
		doc, err = setPath(doc, name, v)
		if err != nil {
			return "", fmt.Errorf("jsjit: failed to render namespace entry %q: %w", name, err)
		}
	}
	return doc, nil
}

func setPath(doc, path string, v *value.Value) (string, error) {
	switch v.Kind() {
	case value.KindNull:
		return sjson.Set(doc, path, nil)
	case value.KindNumber:
		return sjson.Set(doc, path, v.Num())
	case value.KindBoolean:
		return sjson.Set(doc, path, v.Bool())
	case value.KindStr:
		return sjson.Set(doc, path, v.Text())
	case value.KindArray:
		elems := v.Elems()
		out := make([]any, len(elems))
		for i, el := range elems {
			rendered, err := setPath("{}", "v", el)
			if err != nil {
				return "", err
			}
			out[i] = jsonRawElement(rendered)
		}
		return sjson.Set(doc, path, out)
	default:
		// Function/Method/Class/Object are not scalar-representable; render
		// their kind name so --dump-ns still produces valid JSON.
		return sjson.Set(doc, path, v.Kind().String())
	}
}

// jsonRawElement extracts the value sjson stored under the synthetic "v"
// key so an array element built by setPath can be embedded as-is — reading
// it back out with gjson rather than round-tripping through encoding/json.
func jsonRawElement(rendered string) any {
	return gjson.Get(rendered, "v").Value()
}
