package runtime

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestEmittedIRMatchesSnapshot snapshots the IR text for a small program
// covering assignment, arithmetic, and a function call, the way the
// teacher's fixture suite snapshots interpreter output for cases with no
// hand-written expected file.
func TestEmittedIRMatchesSnapshot(t *testing.T) {
	rt := New(nil)
	source := `
function add(a: number, b: number): number {
	return a + b;
}
let x = add(1, 2);
`
	var ir bytes.Buffer
	if _, err := rt.LoadFileWithOptions(writeScript(t, source), Options{IRWriter: &ir}); err != nil {
		t.Fatalf("LoadFileWithOptions: %v", err)
	}

	snaps.MatchSnapshot(t, "add_and_call_ir", ir.String())
}
