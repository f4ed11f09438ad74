package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eps1lon/esquery-cli/internal/config"
	"github.com/eps1lon/esquery-cli/internal/enumerate"
	"github.com/eps1lon/esquery-cli/internal/ignore"
	"github.com/eps1lon/esquery-cli/internal/logging"
	"github.com/eps1lon/esquery-cli/internal/parser"
	"github.com/eps1lon/esquery-cli/internal/queryerr"
	"github.com/eps1lon/esquery-cli/internal/runner"
	"github.com/eps1lon/esquery-cli/internal/selector"
	"github.com/eps1lon/esquery-cli/internal/version"
)

var (
	// verboseFlag is the CLI --verbose flag value
	verboseFlag bool
	// includeCodeFrameFlag is the CLI --include-code-frame flag value
	includeCodeFrameFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "esquery <selector> [glob]",
	Short: "Query JavaScript and TypeScript sources with structural selectors",
	Long: `esquery finds source files matching a glob, parses each one and prints the
locations of syntax-tree nodes matching a CSS-like structural selector.

Selectors name tree node kinds (tree-sitter types or ESTree-style aliases)
joined by descendant (whitespace) and child (">") combinators, with commas
for unions.

Examples:
  esquery TSAsExpression
  esquery CallExpression "src/**/*.ts"
  esquery "function_declaration > statement_block" --include-code-frame
  esquery "if_statement, while_statement" --verbose

Exclusion patterns are read from .gitignore in the working directory when
present. The exit code is 1 when any file fails to read or parse.`,
	Args:          cobra.RangeArgs(1, 2),
	Version:       version.Version,
	SilenceErrors: true,
	RunE:          runQuery,
}

func init() {
	rootCmd.SetVersionTemplate("esquery version {{.Version}}\n")
	rootCmd.Flags().BoolVar(&verboseFlag, "verbose", false,
		"Print per-file match counts and a final file-count summary")
	rootCmd.Flags().BoolVar(&includeCodeFrameFlag, "include-code-frame", false,
		"Print a dedented source snippet after each location")
}

func runQuery(cmd *cobra.Command, args []string) error {
	// Usage output is for argument mistakes; once arguments validated,
	// runtime failures should not trigger it.
	cmd.SilenceUsage = true

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	cfg := loadConfig(workDir)
	logger := newLogger(cfg)

	// An invalid selector fails here, before any file is touched.
	sel, err := selector.Compile(args[0])
	if err != nil {
		return err
	}

	pattern := cfg.Glob
	if len(args) == 2 {
		pattern = args[1]
	}

	ignores := ignore.Load(workDir, cfg.IgnoreFile)
	logger.Debug("Loaded ignore patterns", map[string]interface{}{
		"file":     cfg.IgnoreFile,
		"patterns": ignores.Len(),
	})

	files, err := enumerate.Files(workDir, pattern, ignores)
	if err != nil {
		return err
	}

	p := parser.New(parser.Dialects{
		JSX:        cfg.Dialects.JSX,
		TypeScript: cfg.Dialects.TypeScript,
	})

	r := runner.New(p, sel, os.Stdout, logger, runner.Options{
		Verbose:          verboseFlag,
		IncludeCodeFrame: includeCodeFrameFlag,
	})

	res := r.Run(cmd.Context(), files)
	if res.Failed {
		return queryerr.ErrRunFailed
	}
	return nil
}

// loadConfig loads the working-directory configuration, falling back to
// defaults when the file is absent or broken.
func loadConfig(workDir string) *config.Config {
	cfg, err := config.LoadConfig(workDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config, using defaults: %v\n", err)
		return config.DefaultConfig()
	}
	return cfg
}

// resolveLogLevel determines the effective log level.
// Precedence: ESQUERY_LOG_LEVEL env var > config file > info.
func resolveLogLevel(cfg *config.Config) logging.LogLevel {
	if env := os.Getenv("ESQUERY_LOG_LEVEL"); env != "" {
		return logging.ParseLevel(env)
	}
	return logging.ParseLevel(cfg.Logging.Level)
}

// newLogger creates a logger for the run.
func newLogger(cfg *config.Config) *logging.Logger {
	format := logging.HumanFormat
	if cfg.Logging.Format == "json" {
		format = logging.JSONFormat
	}

	return logging.NewLogger(logging.Config{
		Format: format,
		Level:  resolveLogLevel(cfg),
	})
}
