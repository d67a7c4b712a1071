package parser

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/lgbarn/xiangqi-manual-go/internal/errors"
	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
)

// Grid glyphs of the CC text form.
const (
	CellWidth  = 5
	CellBlank  = '　'
	CellArrow  = '↓'
	CellFiller = '…'
	RootCell   = "　开始"
)

var remarkPattern = regexp.MustCompile(`(?s)\((\d+),(\d+)\): \{((?:[^\\}]|\\.)*)\}`)

// unescapeRemark removes backslash escapes.
func unescapeRemark(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	escaped := false
	for _, r := range s {
		if !escaped && r == '\\' {
			escaped = true
			continue
		}
		escaped = false
		sb.WriteRune(r)
	}
	return sb.String()
}

type gridPos struct {
	row, col int
}

// gridParser holds the split sections of a CC text.
type gridParser struct {
	opts    options
	grid    [][]rune
	first   int // line number of the first grid line
	remarks map[gridPos]string
}

// ParseCC reads the CC grid form: a tag header, a blank line, the grid,
// a blank line and the remarks section.
func ParseCC(r io.Reader, opts ...Option) (*manual.Manual, error) {
	g := &gridParser{opts: newOptions(opts), remarks: make(map[gridPos]string)}

	var header, rest strings.Builder
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	const (
		inHeader = iota
		inGrid
		inRemarks
	)
	state, lineNum := inHeader, 0
	for scanner.Scan() {
		line := scanner.Text()
		lineNum++
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		blank := strings.TrimSpace(line) == ""
		switch state {
		case inHeader:
			switch {
			case blank:
			case strings.HasPrefix(strings.TrimSpace(line), "["):
				header.WriteString(line)
				header.WriteByte('\n')
			default:
				state = inGrid
				g.first = lineNum
				g.grid = append(g.grid, []rune(line))
			}
		case inGrid:
			if blank {
				state = inRemarks
				continue
			}
			g.grid = append(g.grid, []rune(line))
		default:
			rest.WriteString(line)
			rest.WriteByte('\n')
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading CC text")
	}
	if len(g.grid) == 0 || g.cell(0, 0) != strings.TrimLeft(RootCell, string(CellBlank)) {
		return nil, &errors.ParseError{Err: errors.ErrMalformedFile, File: g.opts.file, Line: g.first, Expected: "grid root " + strconv.Quote(RootCell)}
	}

	info, err := NewParser(strings.NewReader(header.String()), NotationZh, WithFile(g.opts.file)).ParseHeader()
	if err != nil {
		return nil, err
	}
	for _, match := range remarkPattern.FindAllStringSubmatch(rest.String(), -1) {
		row, _ := strconv.Atoi(match[1])
		col, _ := strconv.Atoi(match[2])
		g.remarks[gridPos{row, col}] = unescapeRemark(match[3])
	}

	m := manual.New(manual.WithLogger(g.opts.log))
	if err := m.SetInfoMap(info); err != nil {
		return nil, &errors.ParseError{Err: err, File: g.opts.file, Expected: "FEN", Got: info[manual.KeyFEN]}
	}
	if err := g.build(m); err != nil {
		return nil, err
	}
	m.BackToRoot()
	return m, nil
}

// runeAt returns the rune at position pos of grid line n, or CellBlank.
func (g *gridParser) runeAt(n, pos int) rune {
	if n < 0 || n >= len(g.grid) || pos < 0 || pos >= len(g.grid[n]) {
		return CellBlank
	}
	return g.grid[n][pos]
}

// cell returns the text in grid cell (row, col), or "" when it holds no
// move.
func (g *gridParser) cell(row, col int) string {
	n := row * 2
	if n >= len(g.grid) {
		return ""
	}
	line := g.grid[n]
	start := col * CellWidth
	if start >= len(line) {
		return ""
	}
	end := start + CellWidth - 1
	if end > len(line) {
		end = len(line)
	}
	text := strings.TrimFunc(string(line[start:end]), func(r rune) bool {
		return r == CellBlank || r == ' '
	})
	if strings.Trim(text, string(CellFiller)) == "" {
		return ""
	}
	return text
}

// hasArrow reports whether the cell at (row, col) continues downwards.
func (g *gridParser) hasArrow(row, col int) bool {
	return g.runeAt(row*2+1, col*CellWidth+2) == CellArrow
}

// siblingCol returns the column of the next variation to the right of
// (row, col), or -1.
func (g *gridParser) siblingCol(row, col int) int {
	if g.runeAt(row*2, col*CellWidth+CellWidth-1) != CellFiller {
		return -1
	}
	width := len(g.grid[row*2])
	for c := col + 1; c*CellWidth < width; c++ {
		if g.cell(row, c) != "" {
			return c
		}
	}
	return -1
}

// build walks the grid from the root cell. Each pending entry is a cell
// still to be read, with the node it attaches to.
func (g *gridParser) build(m *manual.Manual) error {
	type pending struct {
		at       *manual.Move
		row, col int
		isOther  bool
	}

	m.SetRootRemark(g.remarks[gridPos{0, 0}])
	var stack []pending
	if g.hasArrow(0, 0) {
		stack = append(stack, pending{at: m.Root(), row: 1, col: 0})
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		text := g.cell(p.row, p.col)
		if text == "" {
			return &errors.ParseError{
				Err:      errors.ErrMalformedFile,
				File:     g.opts.file,
				Line:     g.first + p.row*2,
				Column:   p.col*CellWidth + 1,
				Expected: "move cell",
			}
		}
		mv, err := m.AppendZhAfter(p.at, text, g.remarks[gridPos{p.row, p.col}], p.isOther)
		if err != nil {
			return &errors.ParseError{
				Err:    err,
				File:   g.opts.file,
				Line:   g.first + p.row*2,
				Column: p.col*CellWidth + 1,
				Got:    text,
			}
		}
		if c := g.siblingCol(p.row, p.col); c >= 0 {
			stack = append(stack, pending{at: mv, row: p.row, col: c, isOther: true})
		}
		if g.hasArrow(p.row, p.col) {
			stack = append(stack, pending{at: mv, row: p.row + 1, col: p.col})
		}
	}
	return nil
}
