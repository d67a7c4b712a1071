package matching

import (
	"bufio"
	"os"
	"strings"

	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
)

// ManualFilter combines info, position and ply-count matching.
type ManualFilter struct {
	InfoMatcher     *InfoMatcher
	PositionMatcher *PositionMatcher

	// MinPlies and MaxPlies bound the main line length; 0 disables a bound
	MinPlies int
	MaxPlies int
}

// NewManualFilter creates a new manual filter.
func NewManualFilter() *ManualFilter {
	return &ManualFilter{
		InfoMatcher:     NewInfoMatcher(),
		PositionMatcher: NewPositionMatcher(),
	}
}

// LoadCriteriaFile loads criteria from a file, one per line:
//
//	RED = "胡荣华"
//	DATE >= "1990.01.01"
//	FEN "rnbakabnr/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/1C2C4/9/RNBAKABNR"
//	FENPattern "*/*/*/*/*/*/*/*/*/*"
//
// Lines that do not parse are skipped.
func (f *ManualFilter) LoadCriteriaFile(filename string) error {
	file, err := os.Open(filename) //nolint:gosec // G304: CLI tool opens user-specified files
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "FENPattern "):
			f.PositionMatcher.AddPattern(unquote(strings.TrimPrefix(line, "FENPattern ")), "", false)
		case strings.HasPrefix(line, "FEN "):
			if err := f.PositionMatcher.AddFEN(unquote(strings.TrimPrefix(line, "FEN ")), ""); err != nil {
				continue // skip invalid FEN lines
			}
		default:
			if err := f.InfoMatcher.ParseCriterion(line); err != nil {
				continue // skip unparseable criterion lines
			}
		}
	}
	return scanner.Err()
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), "\"")
}

// AddPlayerFilter adds a filter for a player on either side.
func (f *ManualFilter) AddPlayerFilter(name string) {
	f.InfoMatcher.AddPlayerCriterion(name)
}

// AddRedFilter adds a filter for the red player.
func (f *ManualFilter) AddRedFilter(name string) {
	_ = f.InfoMatcher.AddCriterion(manual.KeyRed, name, OpContains) // OpContains cannot fail
}

// AddBlackFilter adds a filter for the black player.
func (f *ManualFilter) AddBlackFilter(name string) {
	_ = f.InfoMatcher.AddCriterion(manual.KeyBlack, name, OpContains) // OpContains cannot fail
}

// AddEventFilter adds a filter for the event name.
func (f *ManualFilter) AddEventFilter(event string) {
	_ = f.InfoMatcher.AddCriterion(manual.KeyEvent, event, OpContains) // OpContains cannot fail
}

// AddResultFilter adds a filter for the result.
func (f *ManualFilter) AddResultFilter(result string) {
	_ = f.InfoMatcher.AddCriterion(manual.KeyResult, result, OpEqual) // OpEqual cannot fail
}

// AddFENFilter adds an exact FEN position filter.
func (f *ManualFilter) AddFENFilter(fen string) error {
	return f.PositionMatcher.AddFEN(fen, "")
}

// AddPatternFilter adds a FEN pattern filter.
func (f *ManualFilter) AddPatternFilter(pattern string, includeInvert bool) {
	f.PositionMatcher.AddPattern(pattern, "", includeInvert)
}

// Match reports whether m satisfies every kind of criterion present.
func (f *ManualFilter) Match(m *manual.Manual) bool {
	return f.Matcher().Match(m)
}

// Matcher returns the active criteria as one AND composite: ply bounds
// first, then info values, then positions.
func (f *ManualFilter) Matcher() *CompositeMatcher {
	c := NewCompositeMatcher(MatchAll)
	if f.MinPlies > 0 || f.MaxPlies > 0 {
		c.Add(PlyRange(f.MinPlies, f.MaxPlies))
	}
	if f.InfoMatcher.CriteriaCount() > 0 {
		c.Add(f.InfoMatcher)
	}
	if f.PositionMatcher.PatternCount() > 0 {
		c.Add(f.PositionMatcher)
	}
	return c
}

// HasCriteria returns true if any filter criteria are set.
func (f *ManualFilter) HasCriteria() bool {
	return f.InfoMatcher.CriteriaCount() > 0 || f.PositionMatcher.PatternCount() > 0 ||
		f.MinPlies > 0 || f.MaxPlies > 0
}

// Name implements ManualMatcher.
func (f *ManualFilter) Name() string {
	return "ManualFilter"
}
