package runtime

import (
	"os"
	"path/filepath"
	"testing"
)

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.ts")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadFileBuildsAndRuns(t *testing.T) {
	rt := New(nil)
	path := writeScript(t, `let x = 1; x = x + 1;`)

	m, err := rt.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	m.Run()

	v, ok := m.Namespace().Peek("x")
	if !ok {
		t.Fatalf("expected namespace binding for %q", "x")
	}
	if v.Num() != 2 {
		t.Errorf("x = %v, want 2", v.Num())
	}
}

func TestLoadSourceCachesByHash(t *testing.T) {
	rt := New(nil)
	src := `let x = 1;`

	m1, err := rt.LoadSource(src, "<eval>")
	if err != nil {
		t.Fatalf("LoadSource: %v", err)
	}
	m2, err := rt.LoadSource(src, "<eval>")
	if err != nil {
		t.Fatalf("LoadSource: %v", err)
	}
	if m1 != m2 {
		t.Errorf("expected identical source to hit the module cache and return the same *Module")
	}
}

func TestLoadFileSurfacesParseError(t *testing.T) {
	rt := New(nil)
	path := writeScript(t, `let x = ;`)

	if _, err := rt.LoadFile(path); err == nil {
		t.Fatalf("expected a ParseError for malformed source, got nil")
	}
}

func TestLoadFileSurfacesIOErrorForMissingFile(t *testing.T) {
	rt := New(nil)
	if _, err := rt.LoadFile(filepath.Join(t.TempDir(), "missing.ts")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
