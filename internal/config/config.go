// Package config loads the Runtime Façade's optional YAML configuration
// (SPEC_FULL.md §4.7 addendum): IR-dump directory, log verbosity, and
// module-cache capacity. Grounded on the teacher's YAML dependency
// (goccy/go-yaml, pulled in indirectly via go-snaps in the teacher's go.mod)
// promoted here to direct, load-bearing use.
package config

import (
	"os"

	"github.com/goccy/go-yaml"
)

// Config controls the ambient behavior of the Runtime Façade. A missing
// config file is not an error — Default() applies.
type Config struct {
	// IRDumpDir is loaded from the file, but the façade does not read it;
	// jsjit run --ir writes the IR to the path given on the command line.
	IRDumpDir string `yaml:"ir_dump_dir"`

	// LogVerbosity ("quiet", "normal", or "verbose") is loaded from the
	// file, but the façade does not read it; every Builder warning is written.
	LogVerbosity string `yaml:"log_verbosity"`

	// ModuleCacheCapacity bounds the façade's source-hash -> Module cache;
	// 0 means unbounded.
	ModuleCacheCapacity int `yaml:"module_cache_capacity"`
}

// Default returns the configuration the façade uses when no file is
// supplied.
func Default() *Config {
	return &Config{
		IRDumpDir:           "",
		LogVerbosity:        "normal",
		ModuleCacheCapacity: 0,
	}
}

// Load reads a YAML config file at path. A missing file returns Default()
// with no error; a present-but-malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
