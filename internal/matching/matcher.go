// Package matching selects manuals by info values and by positions
// reached anywhere in the move tree.
package matching

import (
	"fmt"
	"strings"

	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
)

// ManualMatcher decides whether a manual is selected.
type ManualMatcher interface {
	Match(m *manual.Manual) bool
	// Name describes the matcher in logs.
	Name() string
}

// funcMatcher adapts a plain predicate.
type funcMatcher struct {
	name string
	fn   func(*manual.Manual) bool
}

func (f funcMatcher) Match(m *manual.Manual) bool { return f.fn(m) }
func (f funcMatcher) Name() string                { return f.name }

// MatchFunc turns fn into a ManualMatcher called name.
func MatchFunc(name string, fn func(*manual.Manual) bool) ManualMatcher {
	return funcMatcher{name: name, fn: fn}
}

// PlyRange selects manuals whose main line has between lo and hi plies.
// A bound of 0 is open.
func PlyRange(lo, hi int) ManualMatcher {
	return MatchFunc(fmt.Sprintf("PlyRange(%d..%d)", lo, hi), func(m *manual.Manual) bool {
		n := len(m.MainLine())
		return (lo <= 0 || n >= lo) && (hi <= 0 || n <= hi)
	})
}

// MatchMode is the way a CompositeMatcher joins its parts.
type MatchMode int

const (
	// MatchAll selects when every part matches.
	MatchAll MatchMode = iota
	// MatchAny selects when some part matches.
	MatchAny
)

func (mode MatchMode) String() string {
	if mode == MatchAny {
		return "OR"
	}
	return "AND"
}

// CompositeMatcher joins several matchers. With no parts, MatchAll selects
// everything and MatchAny nothing.
type CompositeMatcher struct {
	mode  MatchMode
	parts []ManualMatcher
}

// NewCompositeMatcher creates a composite of parts joined by mode.
func NewCompositeMatcher(mode MatchMode, parts ...ManualMatcher) *CompositeMatcher {
	return &CompositeMatcher{mode: mode, parts: parts}
}

// Match evaluates the parts in order and stops at the first that decides
// the outcome.
func (c *CompositeMatcher) Match(m *manual.Manual) bool {
	want := c.mode == MatchAny
	for _, p := range c.parts {
		if p.Match(m) == want {
			return want
		}
	}
	return !want
}

func (c *CompositeMatcher) Name() string {
	if len(c.parts) == 0 {
		return "CompositeMatcher(empty)"
	}
	names := make([]string, 0, len(c.parts))
	for _, p := range c.parts {
		names = append(names, p.Name())
	}
	return fmt.Sprintf("CompositeMatcher(%s: %s)", c.mode, strings.Join(names, ", "))
}

// Add appends a part.
func (c *CompositeMatcher) Add(p ManualMatcher) {
	c.parts = append(c.parts, p)
}

// Len returns the number of parts.
func (c *CompositeMatcher) Len() int {
	return len(c.parts)
}
