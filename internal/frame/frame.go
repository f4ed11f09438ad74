// Package frame renders dedented source snippets around a match location.
package frame

import (
	"regexp"
	"strings"
)

// ContextBefore and ContextAfter are the number of extra lines a frame
// includes around the matched span.
const (
	ContextBefore = 2
	ContextAfter  = 3
)

var (
	lineBreak = regexp.MustCompile(`\r\n|\r|\n`)
	leadingWS = regexp.MustCompile(`^[ \t]*`)
)

// Dedent strips the common leading indentation from every line of text.
//
// The indent unit is a tab when any line starts with one, otherwise a single
// space. The common depth is the minimum leading whitespace run across all
// lines, counted in raw characters. Exactly depth unit characters are
// stripped from the start of each line; a line with a different prefix is
// left untouched. Blocks mixing tab and space indentation can therefore be
// stripped unevenly; callers get the block as-is rather than a normalized
// rendering.
func Dedent(text string) string {
	lines := lineBreak.Split(text, -1)

	unit := " "
	for _, line := range lines {
		if strings.HasPrefix(line, "\t") {
			unit = "\t"
			break
		}
	}

	depth := -1
	for _, line := range lines {
		n := len(leadingWS.FindString(line))
		if depth < 0 || n < depth {
			depth = n
		}
	}
	if depth <= 0 {
		return strings.Join(lines, "\n")
	}

	prefix := strings.Repeat(unit, depth)
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Join(out, "\n")
}

// Render returns the dedented block of source lines surrounding the span
// from startLine to endLine (both 1-based). The slice bounds follow
// [startLine-ContextBefore, endLine+ContextAfter) over the zero-based line
// list, clamped to the file.
func Render(source string, startLine, endLine int) string {
	lines := lineBreak.Split(source, -1)

	lo := startLine - ContextBefore
	if lo < 0 {
		lo = 0
	}
	hi := endLine + ContextAfter
	if hi > len(lines) {
		hi = len(lines)
	}
	if lo >= hi {
		return ""
	}

	return Dedent(strings.Join(lines[lo:hi], "\n"))
}
