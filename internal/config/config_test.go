package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if *cfg != *want {
		t.Errorf("Load(missing) = %+v, want %+v", cfg, want)
	}
}

func TestLoadParsesYAMLFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jsjit.yaml")
	content := "ir_dump_dir: /tmp/ir\nlog_verbosity: verbose\nmodule_cache_capacity: 16\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.IRDumpDir != "/tmp/ir" {
		t.Errorf("IRDumpDir = %q, want %q", cfg.IRDumpDir, "/tmp/ir")
	}
	if cfg.LogVerbosity != "verbose" {
		t.Errorf("LogVerbosity = %q, want %q", cfg.LogVerbosity, "verbose")
	}
	if cfg.ModuleCacheCapacity != 16 {
		t.Errorf("ModuleCacheCapacity = %d, want 16", cfg.ModuleCacheCapacity)
	}
}
