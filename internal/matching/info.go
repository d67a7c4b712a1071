package matching

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
)

// InfoOperator represents comparison operators for info matching.
type InfoOperator int

const (
	OpNone InfoOperator = iota
	OpEqual
	OpNotEqual
	OpLessThan
	OpLessOrEqual
	OpGreaterThan
	OpGreaterOrEqual
	OpContains // substring match
	OpRegex    // regex match
)

// playerKey is the pseudo key matching either side's player.
const playerKey = "_PLAYER"

// InfoCriterion represents a single info matching criterion.
type InfoCriterion struct {
	Key        string
	Value      string
	Operator   InfoOperator
	Regex      *regexp.Regexp // compiled regex for OpRegex
	LowerValue string         // pre-computed lowercase for OpContains
}

// InfoMatcher filters manuals by their info map.
type InfoMatcher struct {
	criteria []*InfoCriterion
	matchAll bool // true = AND all criteria, false = OR
}

// NewInfoMatcher creates a new info matcher.
func NewInfoMatcher() *InfoMatcher {
	return &InfoMatcher{matchAll: true}
}

// SetMatchAll sets whether all criteria must match (AND) or any (OR).
func (im *InfoMatcher) SetMatchAll(all bool) {
	im.matchAll = all
}

// AddCriterion adds an info matching criterion. Keys are case-insensitive.
func (im *InfoMatcher) AddCriterion(key, value string, op InfoOperator) error {
	c := &InfoCriterion{
		Key:      strings.ToUpper(key),
		Value:    value,
		Operator: op,
	}
	switch op {
	case OpRegex:
		re, err := regexp.Compile(value)
		if err != nil {
			return err
		}
		c.Regex = re
	case OpContains:
		c.LowerValue = strings.ToLower(value)
	}
	im.criteria = append(im.criteria, c)
	return nil
}

// AddPlayerCriterion adds a criterion matching either the red or the black
// player by substring.
func (im *InfoMatcher) AddPlayerCriterion(name string) {
	_ = im.AddCriterion(playerKey, name, OpContains) // OpContains cannot fail
}

// ParseCriterion parses a line like `RED = "胡荣华"` or `DATE >= "2020"`.
// The operators are = != <> < <= > >= and ~ for a regular expression.
func (im *InfoMatcher) ParseCriterion(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	keyEnd := strings.IndexAny(line, " \t<>=!~")
	if keyEnd <= 0 {
		return nil
	}
	key := line[:keyEnd]
	rest := strings.TrimSpace(line[keyEnd:])

	op := OpEqual
	valueStart := 0
	switch {
	case strings.HasPrefix(rest, "<="):
		op, valueStart = OpLessOrEqual, 2
	case strings.HasPrefix(rest, ">="):
		op, valueStart = OpGreaterOrEqual, 2
	case strings.HasPrefix(rest, "<>"), strings.HasPrefix(rest, "!="):
		op, valueStart = OpNotEqual, 2
	case strings.HasPrefix(rest, "<"):
		op, valueStart = OpLessThan, 1
	case strings.HasPrefix(rest, ">"):
		op, valueStart = OpGreaterThan, 1
	case strings.HasPrefix(rest, "="):
		op, valueStart = OpEqual, 1
	case strings.HasPrefix(rest, "~"):
		op, valueStart = OpRegex, 1
	}

	value := strings.TrimSpace(rest[valueStart:])
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		value = value[1 : len(value)-1]
	}
	return im.AddCriterion(key, value, op)
}

// Match implements ManualMatcher.
func (im *InfoMatcher) Match(m *manual.Manual) bool {
	if len(im.criteria) == 0 {
		return true
	}
	for _, c := range im.criteria {
		matches := im.matchCriterion(m, c)
		if im.matchAll && !matches {
			return false
		}
		if !im.matchAll && matches {
			return true
		}
	}
	return im.matchAll
}

// Name implements ManualMatcher.
func (im *InfoMatcher) Name() string {
	return "InfoMatcher"
}

func (im *InfoMatcher) matchCriterion(m *manual.Manual, c *InfoCriterion) bool {
	if c.Key == playerKey {
		return matchValue(m.Info(manual.KeyRed), c) || matchValue(m.Info(manual.KeyBlack), c)
	}
	value := m.Info(c.Key)
	if value == "" {
		// only != matches a missing value
		return c.Operator == OpNotEqual
	}
	return matchValue(value, c)
}

// matchValue compares an info value against a criterion.
func matchValue(value string, c *InfoCriterion) bool {
	switch c.Operator {
	case OpNone, OpEqual:
		return strings.EqualFold(value, c.Value)
	case OpNotEqual:
		return !strings.EqualFold(value, c.Value)
	case OpContains:
		return strings.Contains(strings.ToLower(value), c.LowerValue)
	case OpRegex:
		return c.Regex != nil && c.Regex.MatchString(value)
	case OpLessThan, OpLessOrEqual, OpGreaterThan, OpGreaterOrEqual:
		return compareValues(value, c.Value, c.Operator)
	}
	return false
}

// compareValues compares values using relational operators. Dates are
// compared as dates, numbers as numbers, anything else as text.
func compareValues(value, criterion string, op InfoOperator) bool {
	cmp := 0
	vDate, cDate := parseDate(value), parseDate(criterion)
	vNum, err1 := strconv.ParseFloat(value, 64)
	cNum, err2 := strconv.ParseFloat(criterion, 64)
	switch {
	case vDate > 0 && cDate > 0:
		cmp = compareInts(vDate, cDate)
	case err1 == nil && err2 == nil:
		switch {
		case vNum < cNum:
			cmp = -1
		case vNum > cNum:
			cmp = 1
		}
	default:
		cmp = strings.Compare(strings.ToLower(value), strings.ToLower(criterion))
	}

	switch op {
	case OpLessThan:
		return cmp < 0
	case OpLessOrEqual:
		return cmp <= 0
	case OpGreaterThan:
		return cmp > 0
	case OpGreaterOrEqual:
		return cmp >= 0
	}
	return false
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// dateSeparators splits "2024.01.31", "2024-01-31" and "2024年1月31日".
var dateSeparators = regexp.MustCompile(`[.\-/年月日]+`)

// parseDate parses a year with optional month and day and returns
// year*10000+month*100+day, or 0 if s does not start with a year.
func parseDate(s string) int {
	parts := dateSeparators.Split(strings.TrimSpace(s), -1)
	if len(parts) < 2 || len(parts[0]) != 4 {
		return 0
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 100 || year > 3000 {
		return 0
	}

	month, day := 1, 1
	if m, err := strconv.Atoi(parts[1]); err == nil && m >= 1 && m <= 12 {
		month = m
	}
	if len(parts) >= 3 {
		if d, err := strconv.Atoi(parts[2]); err == nil && d >= 1 && d <= 31 {
			day = d
		}
	}
	return year*10000 + month*100 + day
}

// CriteriaCount returns the number of criteria.
func (im *InfoMatcher) CriteriaCount() int {
	return len(im.criteria)
}
