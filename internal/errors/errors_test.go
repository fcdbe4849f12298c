package errors

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jsjit/jsjit/internal/lexer"
)

func TestCompilerErrorFormatIncludesSourceContext(t *testing.T) {
	source := "let x = 1;\nlet y = ;\n"
	err := NewCompilerError(lexer.Position{Line: 2, Column: 9}, "unexpected token", source, "test.ts")

	formatted := err.Format(false)
	if !strings.Contains(formatted, "Error") {
		t.Errorf("expected an Error-severity header, got:\n%s", formatted)
	}
	if !strings.Contains(formatted, "test.ts:2:9") {
		t.Errorf("expected file:line:col in header, got:\n%s", formatted)
	}
}

func TestNewWarningCarriesWarningSeverity(t *testing.T) {
	w := NewWarning(lexer.Position{Line: 1, Column: 1}, "try/catch lowers to a no-op", "", "test.ts")
	if w.Severity != SeverityWarning {
		t.Errorf("Severity = %v, want SeverityWarning", w.Severity)
	}
	if !strings.Contains(w.Format(false), "Warning") {
		t.Errorf("expected a Warning-severity header, got:\n%s", w.Format(false))
	}
}

func TestReporterWarnWritesToConfiguredOutput(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter("let x = 1;", "test.ts")
	r.Out = &buf

	r.Warn(lexer.Position{Line: 1, Column: 1}, "unrecognized statement %T", 42)

	if !strings.Contains(buf.String(), "Warning") {
		t.Errorf("expected warning output, got:\n%s", buf.String())
	}
	if err := r.Err(); err != nil {
		t.Errorf("Warn must not affect Err(), got: %v", err)
	}
}

func TestReporterErrorAccumulatesAndErrReportsThem(t *testing.T) {
	r := NewReporter("let x = ;", "test.ts")
	r.Error(lexer.Position{Line: 1, Column: 9}, "unexpected token %q", ";")

	if len(r.Errors()) != 1 {
		t.Fatalf("Errors() has %d entries, want 1", len(r.Errors()))
	}
	if err := r.Err(); err == nil {
		t.Errorf("expected Err() to report the accumulated error")
	}
}

func TestReporterErrNilWhenNoErrorsRecorded(t *testing.T) {
	r := NewReporter("", "test.ts")
	if err := r.Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
}
