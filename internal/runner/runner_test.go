package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/eps1lon/esquery-cli/internal/enumerate"
	"github.com/eps1lon/esquery-cli/internal/ignore"
	"github.com/eps1lon/esquery-cli/internal/logging"
	"github.com/eps1lon/esquery-cli/internal/parser"
	"github.com/eps1lon/esquery-cli/internal/queryerr"
	"github.com/eps1lon/esquery-cli/internal/selector"
)

type fakeParser struct {
	failPaths map[string]bool
}

func (f *fakeParser) ParseFile(ctx context.Context, path string, source []byte) (*parser.Tree, error) {
	if f.failPaths[path] {
		return nil, errors.New("syntax error at 1:1")
	}
	return &parser.Tree{Source: source, Path: path}, nil
}

type fakeMatcher struct {
	matches map[string][]selector.Match
}

func (f *fakeMatcher) Matches(tree *parser.Tree) []selector.Match {
	return f.matches[tree.Path]
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func discardLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{Level: logging.ErrorLevel, Output: &bytes.Buffer{}})
}

func TestRunZeroMatches(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.js", "const x = 1;\n")

	var stdout bytes.Buffer
	r := New(&fakeParser{}, &fakeMatcher{}, &stdout, discardLogger(), Options{Verbose: true})

	res := r.Run(context.Background(), slices.Values([]string{a}))

	if res.Failed {
		t.Error("run should not be marked failed")
	}
	if res.FilesQueried != 1 {
		t.Errorf("FilesQueried = %d, want 1", res.FilesQueried)
	}

	out := stdout.String()
	if strings.Contains(out, "#") {
		t.Errorf("output %q should contain no location lines", out)
	}
	if strings.Contains(out, "0 matches") {
		t.Errorf("output %q should never report a zero count", out)
	}
	if !strings.Contains(out, "Queried 1 files.") {
		t.Errorf("output %q should contain the summary line", out)
	}
}

func TestRunContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.js", "const = 1;\n")
	good := writeFile(t, dir, "good.js", "const x = 1;\n")

	var stdout, stderr bytes.Buffer
	logger := logging.NewLogger(logging.Config{Level: logging.InfoLevel, Output: &stderr})

	p := &fakeParser{failPaths: map[string]bool{bad: true}}
	m := &fakeMatcher{matches: map[string][]selector.Match{
		good: {{StartLine: 1, StartColumn: 6, EndLine: 1, Located: true}},
	}}
	r := New(p, m, &stdout, logger, Options{})

	res := r.Run(context.Background(), slices.Values([]string{bad, good}))

	if !res.Failed {
		t.Error("run should be marked failed")
	}
	if res.FilesQueried != 2 {
		t.Errorf("FilesQueried = %d, want 2", res.FilesQueried)
	}
	if !strings.Contains(stdout.String(), good+"#1:6") {
		t.Errorf("stdout %q should contain the match from the good file", stdout.String())
	}
	if !strings.Contains(stderr.String(), bad) {
		t.Errorf("stderr %q should mention the failing path", stderr.String())
	}
}

func TestRunMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := logging.NewLogger(logging.Config{Level: logging.InfoLevel, Output: &stderr})
	r := New(&fakeParser{}, &fakeMatcher{}, &stdout, logger, Options{})

	res := r.Run(context.Background(), slices.Values([]string{"does-not-exist.js"}))

	if !res.Failed {
		t.Error("unreadable file should mark the run failed")
	}
	if !strings.Contains(stderr.String(), "does-not-exist.js") {
		t.Errorf("stderr %q should mention the path", stderr.String())
	}
}

func TestProcessFileErrorCarriesPath(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.js", "const = 1;\n")

	p := &fakeParser{failPaths: map[string]bool{bad: true}}
	r := New(p, &fakeMatcher{}, &bytes.Buffer{}, discardLogger(), Options{})

	tests := []struct {
		name string
		path string
		code queryerr.Code
	}{
		{name: "parse failure", path: bad, code: queryerr.ParseFailed},
		{name: "read failure", path: filepath.Join(dir, "missing.js"), code: queryerr.ReadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.processFile(context.Background(), tt.path)
			var qe *queryerr.Error
			if !errors.As(err, &qe) {
				t.Fatalf("processFile() error = %v, want *queryerr.Error", err)
			}
			if qe.Path != tt.path {
				t.Errorf("Path = %q, want %q", qe.Path, tt.path)
			}
			if qe.Code != tt.code {
				t.Errorf("Code = %q, want %q", qe.Code, tt.code)
			}
			if !strings.Contains(err.Error(), tt.path) {
				t.Errorf("Error() = %q, want to contain the path", err.Error())
			}
		})
	}
}

func TestRunUnknownLocation(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.js", "const x = 1;\n")

	var stdout bytes.Buffer
	m := &fakeMatcher{matches: map[string][]selector.Match{
		a: {{Located: false}},
	}}
	r := New(&fakeParser{}, m, &stdout, discardLogger(), Options{})

	r.Run(context.Background(), slices.Values([]string{a}))

	if !strings.Contains(stdout.String(), "Match with unknown location") {
		t.Errorf("stdout %q should report the unknown location", stdout.String())
	}
}

func TestRunVerboseCounts(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.js", "f();\ng();\n")

	var stdout bytes.Buffer
	m := &fakeMatcher{matches: map[string][]selector.Match{
		a: {
			{StartLine: 1, StartColumn: 0, EndLine: 1, Located: true},
			{StartLine: 2, StartColumn: 0, EndLine: 2, Located: true},
		},
	}}
	r := New(&fakeParser{}, m, &stdout, discardLogger(), Options{Verbose: true})

	r.Run(context.Background(), slices.Values([]string{a}))

	out := stdout.String()
	if !strings.Contains(out, a+": 2 matches") {
		t.Errorf("stdout %q should contain the per-file count", out)
	}
	if !strings.Contains(out, "Queried 1 files.") {
		t.Errorf("stdout %q should contain the summary", out)
	}
}

func TestRunIncludeCodeFrame(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.js", "function f() {\n  g();\n}\n")

	var stdout bytes.Buffer
	m := &fakeMatcher{matches: map[string][]selector.Match{
		a: {{StartLine: 2, StartColumn: 2, EndLine: 2, Located: true}},
	}}
	r := New(&fakeParser{}, m, &stdout, discardLogger(), Options{IncludeCodeFrame: true})

	r.Run(context.Background(), slices.Values([]string{a}))

	out := stdout.String()
	if !strings.Contains(out, a+"#2:2") {
		t.Errorf("stdout %q should contain the location", out)
	}
	if !strings.Contains(out, "g();") {
		t.Errorf("stdout %q should contain the frame", out)
	}
}

// End to end over the real parser and selector engine.
func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.js", "const x = 1 as any;\n")
	writeFile(t, dir, "broken.js", "const = = 1;\n")
	t.Chdir(dir)

	sel, err := selector.Compile("TSAsExpression")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	files, err := enumerate.Files(".", "**/*.{cjs,js,jsx,mjs,ts,tsx}", ignore.Parse(""))
	if err != nil {
		t.Fatalf("Files() error = %v", err)
	}

	var stdout, stderr bytes.Buffer
	logger := logging.NewLogger(logging.Config{Level: logging.InfoLevel, Output: &stderr})
	r := New(parser.New(parser.DefaultDialects()), sel, &stdout, logger, Options{Verbose: true})

	res := r.Run(context.Background(), files)

	if !res.Failed {
		t.Error("run should be failed because of broken.js")
	}
	if res.FilesQueried != 2 {
		t.Errorf("FilesQueried = %d, want 2", res.FilesQueried)
	}
	if !strings.Contains(stdout.String(), "a.js#1:10") {
		t.Errorf("stdout %q should contain a.js#1:10", stdout.String())
	}
	if !strings.Contains(stdout.String(), "Queried 2 files.") {
		t.Errorf("stdout %q should contain the summary", stdout.String())
	}
	if !strings.Contains(stderr.String(), "broken.js") {
		t.Errorf("stderr %q should mention broken.js", stderr.String())
	}
}
