package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config carries defaults for flags a build would otherwise repeat on
// every invocation. It is optional: a tree-gen invocation with no
// --config flag runs against the zero Config, which matches cobra's own
// flag defaults exactly.
type Config struct {
	// Verbose sets the default -v/--verbose level (0: warnings and errors,
	// 1: stage progress, 2: debug output, which adds the compile error)
	// when the flag isn't passed explicitly.
	Verbose int `toml:"verbose"`

	// Gofumpt controls whether the native emitter's output is passed
	// through mvdan.cc/gofumpt. Defaults to true; set false to inspect
	// the generator's raw template output, e.g. while debugging a
	// miscompile in the emitter itself.
	Gofumpt *bool `toml:"gofumpt"`

	// RootType, if set, must name the .tree file's actual root node
	// type. It exists so a build script can assert which type it
	// expects to be generating a Marshal/Unmarshal entry point for,
	// catching a stale .tree file before the generated code does.
	RootType string `toml:"root_type"`
}

// gofumptEnabled reports whether the native emitter should run gofumpt,
// honoring the config's tri-state default of "on".
func (c Config) gofumptEnabled() bool {
	return c.Gofumpt == nil || *c.Gofumpt
}

// LoadConfig reads and parses a TOML config file. A path of "" returns
// the zero Config without touching the filesystem.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
