// Package runtime implements the Runtime Façade (spec.md §4.6,
// SPEC_FULL.md §4.7): process-global JIT initialization done exactly once,
// a locked source-hash-keyed Module cache, and the load-parse-build-run
// pipeline a CLI or embedder drives a program through.
package runtime

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/jsjit/jsjit/internal/builder"
	"github.com/jsjit/jsjit/internal/callbacks"
	"github.com/jsjit/jsjit/internal/config"
	"github.com/jsjit/jsjit/internal/errors"
	"github.com/jsjit/jsjit/internal/lexer"
	"github.com/jsjit/jsjit/internal/module"
	"github.com/jsjit/jsjit/internal/nsctx"
	"github.com/jsjit/jsjit/internal/parser"
	"github.com/tinygo-org/go-llvm"
)

var initOnce sync.Once

// initLLVM links the in-process JIT and registers the native target and
// ASM printer exactly once per process (spec.md §4.6 "Process-global
// initialization").
func initLLVM() {
	initOnce.Do(func() {
		llvm.LinkInMCJIT()
		llvm.InitializeNativeTarget()
		llvm.InitializeNativeAsmPrinter()
	})
}

// ParseError wraps the collaborator parser's errors, formatted with source
// context the way the teacher's CLI renders them (spec.md §7).
type ParseError struct {
	Errors []*errors.CompilerError
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing failed with %d error(s)", len(e.Errors))
}

// Runtime is the embeddable façade: one process-wide LLVM initialization
// plus a cache of compiled Modules keyed by source hash.
type Runtime struct {
	cfg *config.Config

	mu    sync.RWMutex
	cache map[string]*module.Module
}

// New creates a Runtime. cfg may be nil, in which case config.Default()
// applies (SPEC_FULL.md §4.7 addendum).
func New(cfg *config.Config) *Runtime {
	initLLVM()
	if cfg == nil {
		cfg = config.Default()
	}
	return &Runtime{cfg: cfg, cache: make(map[string]*module.Module)}
}

// LoadFile reads, parses, builds and verifies the program at path. It does
// not run the module: call Run on the result, or use Runtime.Run. Source
// text is hashed to key the module cache; a cache hit returns the
// already-compiled module instead of rebuilding.
func (r *Runtime) LoadFile(path string) (*module.Module, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("jsjit: failed to read %s: %w", path, err)
	}
	return r.LoadSource(string(src), path)
}

// LoadSource is LoadFile's in-memory counterpart, used for inline eval and
// tests.
func (r *Runtime) LoadSource(source, filename string) (*module.Module, error) {
	key := hashSource(source)

	r.mu.RLock()
	if m, ok := r.cache[key]; ok {
		r.mu.RUnlock()
		return m, nil
	}
	r.mu.RUnlock()

	m, err := r.build(source, filename)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if r.cfg.ModuleCacheCapacity == 0 || len(r.cache) < r.cfg.ModuleCacheCapacity {
		r.cache[key] = m
	}
	r.mu.Unlock()

	return m, nil
}

func (r *Runtime) build(source, filename string) (*module.Module, error) {
	return r.buildWithOptions(source, filename, Options{})
}

// Options configures the parts of LoadFileWithOptions a CLI collaborator
// needs but a plain embedder normally doesn't: where warnings are traced to,
// and where the pre-verification IR text is dumped.
type Options struct {
	// LogWriter, if non-nil, receives every Builder warning instead of
	// stderr (jsjit run --log).
	LogWriter io.Writer
	// IRWriter, if non-nil, receives the built module's LLVM IR text before
	// verification (jsjit run --ir).
	IRWriter io.Writer
}

func (r *Runtime) buildWithOptions(source, filename string, opts Options) (*module.Module, error) {
	p := parser.New(lexer.New(source, filename))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, &ParseError{Errors: errors.FromStringErrors(errs, source, filename)}
	}

	ns := nsctx.New()
	tbl := callbacks.NewTable(ns)
	reporter := errors.NewReporter(source, filename)
	if opts.LogWriter != nil {
		reporter.Out = opts.LogWriter
	}

	b := builder.New(filename, tbl, reporter)
	b.BuildProgram(prog)

	if opts.IRWriter != nil {
		fmt.Fprint(opts.IRWriter, b.Module().String())
	}

	m, err := module.Build(b, tbl, ns)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// LoadFileWithOptions is LoadFile plus CLI-facing tracing/IR-dump hooks. It
// bypasses the module cache, since --log/--ir output is per-invocation.
func (r *Runtime) LoadFileWithOptions(path string, opts Options) (*module.Module, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("jsjit: failed to read %s: %w", path, err)
	}
	return r.buildWithOptions(string(src), path, opts)
}

// Run loads and immediately runs the program at path — the common case a
// CLI `run` subcommand drives.
func (r *Runtime) Run(path string) error {
	m, err := r.LoadFile(path)
	if err != nil {
		return err
	}
	m.Run()
	return nil
}

func hashSource(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}
