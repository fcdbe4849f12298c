package cmd

import (
	"errors"
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

func TestRunScriptSucceedsOnValidSource(t *testing.T) {
	path := writeScript(t, `let x = 1; x = x + 1;`)

	if err := runCmd.RunE(runCmd, []string{path}); err != nil {
		t.Fatalf("runScript: %v", err)
	}
}

func TestRunScriptReturnsExitCodeOneOnParseError(t *testing.T) {
	path := writeScript(t, `let x = ;`)

	err := runCmd.RunE(runCmd, []string{path})
	if err == nil {
		t.Fatalf("expected a parse error for malformed source")
	}
	if code := ExitCode(err); code != 1 {
		t.Errorf("ExitCode(parse error) = %d, want 1", code)
	}
}

func TestRunScriptReturnsExitCodeThreeOnMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.ts")

	err := runCmd.RunE(runCmd, []string{missing})
	if err == nil {
		t.Fatalf("expected an IO error for a missing file")
	}
	if code := ExitCode(err); code != 3 {
		t.Errorf("ExitCode(missing file) = %d, want 3", code)
	}
}

func TestExitCodeIsZeroForNilError(t *testing.T) {
	if code := ExitCode(nil); code != 0 {
		t.Errorf("ExitCode(nil) = %d, want 0", code)
	}
}

func TestExitCodeDefaultsToOneForUnclassifiedError(t *testing.T) {
	if code := ExitCode(errors.New("boom")); code != 1 {
		t.Errorf("ExitCode(unclassified) = %d, want 1", code)
	}
}

func TestRunScriptWritesIRDumpWhenRequested(t *testing.T) {
	path := writeScript(t, `let x = 1;`)
	irOut := filepath.Join(t.TempDir(), "out.ll")

	irPath = irOut
	defer func() { irPath = "" }()

	if err := runCmd.RunE(runCmd, []string{path}); err != nil {
		t.Fatalf("runScript: %v", err)
	}

	data, err := os.ReadFile(irOut)
	if err != nil {
		t.Fatalf("expected IR dump file to exist: %v", err)
	}
	if len(data) == 0 {
		t.Errorf("IR dump file is empty")
	}
}
