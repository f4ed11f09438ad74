// Package selector compiles CSS-like structural selectors and matches them
// against syntax trees.
//
// A selector is a comma-separated union of chains. Each chain is a sequence
// of node kinds joined by a descendant (whitespace) or child (">")
// combinator. Kinds are tree-sitter node types; common ESTree-style names
// (CallExpression, TSAsExpression, JSXElement, ...) are accepted as aliases.
// "*" matches any named node.
package selector

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/eps1lon/esquery-cli/internal/parser"
	"github.com/eps1lon/esquery-cli/internal/queryerr"
)

// Match is one matched node with its source span. Lines are 1-based,
// the column is 0-based. Located is false when the node carries no
// resolvable position.
type Match struct {
	StartLine   int
	StartColumn int
	EndLine     int
	Located     bool
}

type combinator int

const (
	descendant combinator = iota
	child
)

type step struct {
	kind     string
	wildcard bool
}

// chain is one selector alternative: steps[i] relates to steps[i+1]
// through combs[i].
type chain struct {
	steps []step
	combs []combinator
}

// Selector is a compiled selector ready to run against trees.
type Selector struct {
	raw  string
	alts []chain
}

// Compile parses a selector string. Malformed selectors fail here, before
// any file is processed.
func Compile(src string) (*Selector, error) {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return nil, queryerr.New(queryerr.SelectorInvalid, "", "empty selector", nil)
	}

	sel := &Selector{raw: src}
	for _, part := range strings.Split(trimmed, ",") {
		c, err := compileChain(part)
		if err != nil {
			return nil, queryerr.New(queryerr.SelectorInvalid, "", err.Error(), nil)
		}
		sel.alts = append(sel.alts, c)
	}
	return sel, nil
}

func compileChain(src string) (chain, error) {
	tokens := tokenize(src)
	if len(tokens) == 0 {
		return chain{}, fmt.Errorf("empty selector alternative in %q", src)
	}

	var c chain
	pending := descendant
	havePending := false
	for _, tok := range tokens {
		if tok == ">" {
			if len(c.steps) == 0 || havePending {
				return chain{}, fmt.Errorf("dangling combinator in %q", src)
			}
			pending = child
			havePending = true
			continue
		}

		st, err := compileStep(tok)
		if err != nil {
			return chain{}, err
		}
		if len(c.steps) > 0 {
			c.combs = append(c.combs, pending)
		}
		c.steps = append(c.steps, st)
		pending = descendant
		havePending = false
	}
	if havePending {
		return chain{}, fmt.Errorf("dangling combinator in %q", src)
	}
	return c, nil
}

func tokenize(src string) []string {
	// Give ">" its own token regardless of surrounding whitespace.
	spaced := strings.ReplaceAll(src, ">", " > ")
	return strings.Fields(spaced)
}

func compileStep(tok string) (step, error) {
	if tok == "*" {
		return step{wildcard: true}, nil
	}
	for _, r := range tok {
		if !isKindRune(r) {
			return step{}, fmt.Errorf("unexpected character %q in %q", r, tok)
		}
	}
	return step{kind: resolveKind(tok)}, nil
}

func isKindRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		return true
	}
	return false
}

// String returns the original selector source.
func (s *Selector) String() string {
	return s.raw
}

// Matches runs the selector against a tree and returns matches in document
// order.
func (s *Selector) Matches(tree *parser.Tree) []Match {
	var out []Match
	walkNamed(tree.Root, func(node *sitter.Node) {
		for _, alt := range s.alts {
			if matchChain(alt, node) {
				out = append(out, matchOf(node))
				break
			}
		}
	})
	return out
}

// walkNamed visits every named node in pre-order, which is document order.
func walkNamed(node *sitter.Node, visit func(*sitter.Node)) {
	if node == nil {
		return
	}
	if node.IsNamed() {
		visit(node)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		walkNamed(node.Child(i), visit)
	}
}

// matchChain evaluates a chain right to left: the final step must match the
// node itself, earlier steps must match along its named ancestors.
func matchChain(c chain, node *sitter.Node) bool {
	last := len(c.steps) - 1
	if !stepMatch(c.steps[last], node) {
		return false
	}
	return matchAncestors(c, last, node)
}

func matchAncestors(c chain, i int, node *sitter.Node) bool {
	if i == 0 {
		return true
	}

	if c.combs[i-1] == child {
		p := namedParent(node)
		return p != nil && stepMatch(c.steps[i-1], p) && matchAncestors(c, i-1, p)
	}

	for p := namedParent(node); p != nil; p = namedParent(p) {
		if stepMatch(c.steps[i-1], p) && matchAncestors(c, i-1, p) {
			return true
		}
	}
	return false
}

func namedParent(node *sitter.Node) *sitter.Node {
	for p := node.Parent(); p != nil; p = p.Parent() {
		if p.IsNamed() {
			return p
		}
	}
	return nil
}

func stepMatch(st step, node *sitter.Node) bool {
	return st.wildcard || node.Type() == st.kind
}

func matchOf(node *sitter.Node) Match {
	start := node.StartPoint()
	end := node.EndPoint()
	return Match{
		StartLine:   int(start.Row) + 1,
		StartColumn: int(start.Column),
		EndLine:     int(end.Row) + 1,
		Located:     true,
	}
}
