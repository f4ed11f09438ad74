// Package runner drives a query over a sequence of files and formats the
// results.
package runner

import (
	"context"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/eps1lon/esquery-cli/internal/frame"
	"github.com/eps1lon/esquery-cli/internal/logging"
	"github.com/eps1lon/esquery-cli/internal/parser"
	"github.com/eps1lon/esquery-cli/internal/queryerr"
	"github.com/eps1lon/esquery-cli/internal/selector"
)

// Parser turns source text into a syntax tree.
type Parser interface {
	ParseFile(ctx context.Context, path string, source []byte) (*parser.Tree, error)
}

// Matcher runs a compiled selector against a tree. Matches come back in
// whatever order the engine defines.
type Matcher interface {
	Matches(tree *parser.Tree) []selector.Match
}

// Options control output formatting.
type Options struct {
	// Verbose prints per-file match counts and a final file-count summary.
	Verbose bool
	// IncludeCodeFrame prints a dedented source snippet after each location.
	IncludeCodeFrame bool
}

// Result summarizes a finished run.
type Result struct {
	FilesQueried int
	Failed       bool
}

// Runner processes files one at a time; there is no parallel fan-out, so
// the counters need no locking.
type Runner struct {
	parser  Parser
	matcher Matcher
	stdout  io.Writer
	logger  *logging.Logger
	opts    Options
}

// New creates a Runner with injected parser and matcher engines.
func New(p Parser, m Matcher, stdout io.Writer, logger *logging.Logger, opts Options) *Runner {
	return &Runner{
		parser:  p,
		matcher: m,
		stdout:  stdout,
		logger:  logger,
		opts:    opts,
	}
}

// Run consumes the file sequence to completion. Per-file failures are
// logged and flip the Failed flag; they never stop the run.
func (r *Runner) Run(ctx context.Context, files iter.Seq[string]) Result {
	var res Result
	for path := range files {
		res.FilesQueried++
		if err := r.processFile(ctx, path); err != nil {
			r.logger.Error(err.Error(), map[string]interface{}{
				"path": path,
				"code": queryerr.CodeOf(err),
			})
			res.Failed = true
		}
	}

	if r.opts.Verbose {
		_, _ = fmt.Fprintf(r.stdout, "Queried %d files.\n", res.FilesQueried)
	}
	return res
}

func (r *Runner) processFile(ctx context.Context, path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return queryerr.New(queryerr.ReadFailed, path, "reading file", err)
	}

	tree, err := r.parser.ParseFile(ctx, path, source)
	if err != nil {
		return queryerr.New(queryerr.ParseFailed, path, "parsing file", err)
	}

	matches := r.matcher.Matches(tree)
	if len(matches) == 0 {
		return nil
	}

	if r.opts.Verbose {
		_, _ = fmt.Fprintf(r.stdout, "%s: %d matches\n", path, len(matches))
	}
	for _, m := range matches {
		r.printMatch(path, string(source), m)
	}
	return nil
}

func (r *Runner) printMatch(path, source string, m selector.Match) {
	if !m.Located {
		_, _ = fmt.Fprintln(r.stdout, "Match with unknown location")
		return
	}

	_, _ = fmt.Fprintf(r.stdout, "%s#%d:%d\n", path, m.StartLine, m.StartColumn)
	if r.opts.IncludeCodeFrame {
		_, _ = fmt.Fprintln(r.stdout, frame.Render(source, m.StartLine, m.EndLine))
	}
}
