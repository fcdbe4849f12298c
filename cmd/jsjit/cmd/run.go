package cmd

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/jsjit/jsjit/internal/config"
	"github.com/jsjit/jsjit/internal/module"
	"github.com/jsjit/jsjit/internal/runtime"
	"github.com/spf13/cobra"
)

var (
	logPath    string
	irPath     string
	dumpNS     bool
	configPath string
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Compile and run a jsjit program",
	Long: `Lex, parse, build and JIT-run a TypeScript-flavored source file.

Examples:
  jsjit run script.ts
  jsjit run script.ts --log trace.log --ir out.ll
  jsjit run script.ts --dump-ns`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&logPath, "log", "", "append a line-oriented warning trace to this file")
	runCmd.Flags().StringVar(&irPath, "ir", "", "dump the built, pre-verification IR text to this file")
	runCmd.Flags().BoolVar(&dumpNS, "dump-ns", false, "print the final namespace as JSON after running")
	runCmd.Flags().StringVar(&configPath, "config", "", "path to a jsjit YAML config file")
}

// exitError wraps a run failure with the distinct exit code the caller's
// main should use (SPEC_FULL.md §4.9: 0 success, 1 ParseError, 2
// ModuleVerifyError, 3 IOError).
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// ExitCode reports the process exit code main should use for err, or 0 if
// err is nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if stderrors.As(err, &ee) {
		return ee.code
	}
	return 1
}

func runScript(_ *cobra.Command, args []string) error {
	filename := args[0]

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return &exitError{code: 3, err: fmt.Errorf("failed to load config %s: %w", configPath, err)}
		}
		cfg = loaded
	}

	var opts runtime.Options

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return &exitError{code: 3, err: fmt.Errorf("failed to open log file %s: %w", logPath, err)}
		}
		defer f.Close()
		opts.LogWriter = f
		if verbose {
			fmt.Fprintf(os.Stderr, "tracing warnings to %s\n", logPath)
		}
	}

	if irPath != "" {
		f, err := os.Create(irPath)
		if err != nil {
			return &exitError{code: 3, err: fmt.Errorf("failed to open IR dump file %s: %w", irPath, err)}
		}
		defer f.Close()
		opts.IRWriter = f
	}

	rt := runtime.New(cfg)

	m, err := rt.LoadFileWithOptions(filename, opts)
	if err != nil {
		return classifyLoadError(err)
	}
	defer m.Dispose()

	m.Run()

	if dumpNS {
		doc, err := runtime.DumpNamespaceJSON(m.Namespace())
		if err != nil {
			return &exitError{code: 3, err: err}
		}
		fmt.Println(doc)
	}

	return nil
}

// classifyLoadError maps the Runtime Façade's error taxonomy onto the CLI's
// distinct exit codes (SPEC_FULL.md §4.9).
func classifyLoadError(err error) error {
	switch err.(type) {
	case *runtime.ParseError:
		return &exitError{code: 1, err: err}
	case *module.VerifyError:
		return &exitError{code: 2, err: err}
	default:
		return &exitError{code: 3, err: err}
	}
}
