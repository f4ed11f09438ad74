// Package ignore loads gitignore-style exclusion patterns and matches
// relative paths against them.
package ignore

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Set is a compiled set of exclusion patterns.
type Set struct {
	patterns []pattern
}

type pattern struct {
	matcher  glob.Glob
	raw      string
	anchored bool
	dirOnly  bool
}

// Load reads an ignore file from workDir. Any read failure, including a
// missing file, yields an empty set.
func Load(workDir, name string) *Set {
	data, err := os.ReadFile(filepath.Join(workDir, name))
	if err != nil {
		return &Set{}
	}
	return Parse(string(data))
}

// Parse builds a Set from ignore-file content. Blank lines, comment lines
// and patterns that fail to compile are skipped.
func Parse(content string) *Set {
	s := &Set{}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if p, ok := compile(line); ok {
			s.patterns = append(s.patterns, p)
		}
	}
	return s
}

func compile(line string) (pattern, bool) {
	raw := line

	dirOnly := strings.HasSuffix(line, "/")
	line = strings.TrimSuffix(line, "/")

	anchored := strings.HasPrefix(line, "/")
	line = strings.TrimPrefix(line, "/")
	if strings.Contains(line, "/") {
		anchored = true
	}

	g, err := glob.Compile(line, '/')
	if err != nil {
		return pattern{}, false
	}

	return pattern{
		matcher:  g,
		raw:      raw,
		anchored: anchored,
		dirOnly:  dirOnly,
	}, true
}

// Match reports whether the relative slash-separated path is excluded.
// Unanchored patterns match against the base name as well as the full path.
func (s *Set) Match(relPath string, isDir bool) bool {
	base := path.Base(relPath)
	for _, p := range s.patterns {
		if p.dirOnly && !isDir {
			continue
		}
		if p.matcher.Match(relPath) {
			return true
		}
		if !p.anchored && p.matcher.Match(base) {
			return true
		}
	}
	return false
}

// Len returns the number of compiled patterns.
func (s *Set) Len() int {
	return len(s.patterns)
}
