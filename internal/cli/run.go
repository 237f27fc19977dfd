package cli

import (
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tree-gen/tree-gen/gen/golang"
	"github.com/tree-gen/tree-gen/gen/python"
	"github.com/tree-gen/tree-gen/model"
	"github.com/tree-gen/tree-gen/parser"
	"github.com/tree-gen/tree-gen/reporter"
)

// Args is the parsed form of tree-gen's CLI contract (spec §6):
// "tree-gen INPUT HEADER_OUT SOURCE_OUT [DYNAMIC_OUT]", plus the ambient
// flags cmd/tree-gen adds on top of it.
type Args struct {
	Input      string
	HeaderOut  string
	SourceOut  string
	DynamicOut string // "", unless the four-argument form was used

	ConfigPath string

	// Verbose overrides the config file's verbose level when >= 0. A
	// negative value (the flag's default) means "use the config".
	Verbose int

	// ToolVersion is the running tree-gen binary's own version, checked
	// against a .tree file's "requires" constraint if it declares one.
	// Empty skips the check, as in a development build with no version
	// stamped in.
	ToolVersion string
}

// Run executes the full parse/build/generate/write pipeline described by
// args and returns the first error encountered, already formatted to the
// "<file>:<line>:<col>: <message>" contract (spec §6) where the failure
// came from the .tree compiler. No output file is written when reading,
// parsing, model building, the version and root_type checks, or native
// generation fail. HEADER_OUT and SOURCE_OUT are written before the
// dynamic output is generated, so a later failure (Python generation or
// a write error) leaves the files already written in place.
func Run(args Args) error {
	cfg, err := LoadConfig(args.ConfigPath)
	if err != nil {
		return err
	}

	verbose := args.Verbose
	if verbose < 0 {
		verbose = cfg.Verbose
	}
	logger := newLogger(verbose)
	defer logger.Sync() //nolint:errcheck

	logger.Infow("reading input", "path", args.Input)
	src, err := os.ReadFile(args.Input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", args.Input, err)
	}

	handler := reporter.NewHandler(reporter.NewReporter(
		func(e reporter.ErrorWithPos) { logger.Debugw("compile error", "error", e.Error()) },
		func(e reporter.ErrorWithPos) { logger.Warnw("compile warning", "warning", e.Error()) },
	))

	file, err := parser.Parse(args.Input, src, handler)
	if err != nil {
		return err
	}

	m, err := model.Build(args.Input, file, handler)
	if err != nil {
		return err
	}

	if err := checkVersion(m, args.ToolVersion); err != nil {
		return err
	}
	if cfg.RootType != "" {
		if m.Root == nil || m.Root.Name != cfg.RootType {
			got := "none"
			if m.Root != nil {
				got = m.Root.Name
			}
			return fmt.Errorf("config declares root_type %q but %s's root is %s", cfg.RootType, args.Input, got)
		}
	}

	logger.Infow("generating native output", "header", args.HeaderOut, "source", args.SourceOut)
	header, goSrc, err := golang.Generate(m, golang.Options{SkipGofumpt: !cfg.gofumptEnabled()})
	if err != nil {
		return fmt.Errorf("golang: %w", err)
	}
	if err := os.WriteFile(args.HeaderOut, header, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", args.HeaderOut, err)
	}
	if err := os.WriteFile(args.SourceOut, goSrc, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", args.SourceOut, err)
	}

	if args.DynamicOut != "" {
		logger.Infow("generating dynamic output", "path", args.DynamicOut)
		pySrc, err := python.Generate(m, python.Options{})
		if err != nil {
			return fmt.Errorf("python: %w", err)
		}
		if err := os.WriteFile(args.DynamicOut, pySrc, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", args.DynamicOut, err)
		}
	}

	logger.Infow("generation complete", "input", args.Input)
	return nil
}

// checkVersion enforces a .tree file's "requires" header directive
// (SPEC_FULL.md §3 "Version gating") against the running binary's own
// version. A .tree file with no requires directive, or a tool built
// without a stamped version, skips the check entirely.
func checkVersion(m *model.Model, toolVersion string) error {
	if m.Header.RequiresVersion == "" || toolVersion == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(m.Header.RequiresVersion)
	if err != nil {
		return fmt.Errorf("invalid requires constraint %q: %w", m.Header.RequiresVersion, err)
	}
	v, err := semver.NewVersion(toolVersion)
	if err != nil {
		return fmt.Errorf("invalid tool version %q: %w", toolVersion, err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("tool version %s does not satisfy requires %q", toolVersion, m.Header.RequiresVersion)
	}
	return nil
}

// newLogger builds a SugaredLogger whose level is driven by the CLI's
// verbose count rather than a named level string, matching the 0/1/2
// tiers the ambient logging stack declares: 0 surfaces warnings and
// errors only, 1 adds stage progress, 2 adds debug output (the compile
// error reported through the Handler).
func newLogger(verbose int) *zap.SugaredLogger {
	level := zapcore.WarnLevel
	switch {
	case verbose >= 2:
		level = zapcore.DebugLevel
	case verbose == 1:
		level = zapcore.InfoLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		// zap's own development config never fails to Build; fall back
		// to a no-op logger rather than letting a logging failure abort
		// code generation.
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}
