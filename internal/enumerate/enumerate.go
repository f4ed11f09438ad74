// Package enumerate streams the files under a working directory that match
// a glob pattern, minus ignored and hidden paths.
package enumerate

import (
	"io/fs"
	"iter"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/eps1lon/esquery-cli/internal/ignore"
	"github.com/eps1lon/esquery-cli/internal/queryerr"
)

// Files returns a lazy sequence of slash-separated paths relative to root
// that match pattern. The sequence walks the tree as it is consumed; the
// match set is never buffered. An invalid pattern fails here, before any
// file is visited.
func Files(root, pattern string, ignores *ignore.Set) (iter.Seq[string], error) {
	var globs []glob.Glob
	for _, variant := range zeroDirVariants(pattern) {
		g, err := glob.Compile(variant, '/')
		if err != nil {
			return nil, queryerr.New(queryerr.GlobInvalid, "", "invalid glob "+pattern, err)
		}
		globs = append(globs, g)
	}

	matches := func(rel string) bool {
		for _, g := range globs {
			if g.Match(rel) {
				return true
			}
		}
		return false
	}

	seq := func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Unreadable entries are skipped, not fatal.
				return nil
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil || rel == "." {
				return nil
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if strings.HasPrefix(d.Name(), ".") || ignores.Match(rel, true) {
					return filepath.SkipDir
				}
				return nil
			}

			if strings.HasPrefix(d.Name(), ".") {
				return nil
			}
			if ignores.Match(rel, false) || !matches(rel) {
				return nil
			}

			if !yield(rel) {
				return fs.SkipAll
			}
			return nil
		})
	}
	return seq, nil
}

// zeroDirVariants expands pattern into the set of patterns needed for "**"
// path segments to also match zero directories: "src/**/*.ts" must accept
// "src/b.ts" as well as "src/deep/c.ts". Each "**" segment is collapsed in
// every combination.
func zeroDirVariants(pattern string) []string {
	variants := []string{pattern}
	for i := 0; i < len(variants); i++ {
		for _, v := range collapseOnce(variants[i]) {
			if !slices.Contains(variants, v) {
				variants = append(variants, v)
			}
		}
	}
	return variants
}

// collapseOnce returns the patterns obtained by dropping a single "**"
// path segment.
func collapseOnce(pattern string) []string {
	var out []string
	if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
		out = append(out, rest)
	}
	if rest, ok := strings.CutSuffix(pattern, "/**"); ok && rest != "" {
		out = append(out, rest)
	}
	for idx := 0; ; {
		next := strings.Index(pattern[idx:], "/**/")
		if next == -1 {
			break
		}
		idx += next
		out = append(out, pattern[:idx]+pattern[idx+3:])
		idx++
	}
	return out
}
