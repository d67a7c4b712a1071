package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
	"github.com/lgbarn/xiangqi-manual-go/internal/parser"
)

// WriteCC writes the CC grid form: header, blank line, grid, blank line,
// remarks keyed by grid cell.
func WriteCC(w io.Writer, m *manual.Manual) error {
	bw := bufio.NewWriter(w)
	if err := WriteHeader(bw, m); err != nil {
		return err
	}
	bw.WriteString("\n")

	for _, line := range buildGrid(m) {
		bw.WriteString(string(line))
		bw.WriteString("\n")
	}
	bw.WriteString("\n")

	if remark := m.RootRemark(); remark != "" {
		fmt.Fprintf(bw, "(0,0): {%s}\n", escapeRemark(remark))
	}
	for _, mv := range m.Moves() {
		if remark := mv.Remark(); remark != "" {
			fmt.Fprintf(bw, "(%d,%d): {%s}\n", mv.NextNo(), mv.CCColNo(), escapeRemark(remark))
		}
	}
	return bw.Flush()
}

// buildGrid lays every move out at (ply, column). Each cell is four
// runes plus a separator that is the filler glyph when a variation
// follows to the right.
func buildGrid(m *manual.Manual) [][]rune {
	moves := m.Moves()
	st := m.Stats()
	width := (st.MaxCol + 1) * parser.CellWidth

	grid := make([][]rune, st.MaxRow*2+1)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = parser.CellBlank
		}
	}

	copy(grid[0], []rune(parser.RootCell))
	if m.Root().Next() != nil {
		grid[1][2] = parser.CellArrow
	}

	for _, mv := range moves {
		row, col := mv.NextNo(), mv.CCColNo()
		line := grid[row*2]
		start := col * parser.CellWidth
		copy(line[start:start+parser.CellWidth-1], []rune(mv.Zh()))

		if mv.Next() != nil {
			grid[row*2+1][start+2] = parser.CellArrow
		}
		if other := mv.Other(); other != nil {
			line[start+parser.CellWidth-1] = parser.CellFiller
			for c := col + 1; c < other.CCColNo(); c++ {
				for j := 0; j < parser.CellWidth; j++ {
					line[c*parser.CellWidth+j] = parser.CellFiller
				}
			}
		}
	}
	return grid
}
