// Package processing provides manual analysis, validation and the
// per-file conversion pipeline.
package processing

import (
	"fmt"

	"github.com/lgbarn/xiangqi-manual-go/internal/hashing"
	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
	"github.com/lgbarn/xiangqi-manual-go/internal/xiangqi"
)

// ManualAnalysis holds the results of replaying the main line.
type ManualAnalysis struct {
	FinalFEN      string
	MainLinePlies int
	Captures      int
	Positions     []uint64 // Zobrist hashes along the main line
	HasRepetition bool     // a main line position occurs three times
	ToMove        xiangqi.Color
	InCheck       bool
	Checkmated    bool
	Stats         manual.Stats
}

// RepetitionDetected reports whether a position repeats three times.
func (a *ManualAnalysis) RepetitionDetected() bool {
	return a.HasRepetition
}

// AnalyzeManual replays the main line of m. The cursor is restored.
func AnalyzeManual(m *manual.Manual) *ManualAnalysis {
	saved := m.Current()
	defer m.JumpTo(saved)

	a := &ManualAnalysis{Stats: m.Stats(), ToMove: xiangqi.Red}
	m.BackToRoot()
	board := m.Board()
	hash := hashing.GenerateZobristHash(board)
	a.Positions = append(a.Positions, hash)
	positionCount := map[uint64]int{hash: 1}

	for _, mv := range m.MainLine() {
		mover := board.At(mv.Pair().From).Color
		if !board.IsEmpty(mv.Pair().To) {
			a.Captures++
		}
		m.Advance()
		a.MainLinePlies++
		a.ToMove = mover.Opposite()

		hash = hashing.GenerateZobristHash(board)
		a.Positions = append(a.Positions, hash)
		positionCount[hash]++
		if positionCount[hash] >= 3 {
			a.HasRepetition = true
		}
	}

	a.FinalFEN = board.FEN()
	a.InCheck = board.IsInCheck(a.ToMove)
	a.Checkmated = board.IsCheckmated(a.ToMove)
	return a
}

// ValidationResult holds the result of manual validation.
type ValidationResult struct {
	Valid    bool
	ErrorPly int
	ErrorMsg string
	Warnings []string
}

var validResults = map[string]bool{
	"1-0": true, "0-1": true, "1/2-1/2": true, "*": true,
	"未知": true, "红胜": true, "黑胜": true, "和棋": true,
}

// ValidateManual checks the info map and replays every node, checking
// legality and that each Chinese notation decodes to its move.
func ValidateManual(m *manual.Manual) *ValidationResult {
	result := &ValidationResult{Valid: true}

	for _, key := range []string{manual.KeyTitle, manual.KeyRed, manual.KeyBlack} {
		if m.Info(key) == "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("missing info: %s", key))
		}
	}
	if r := m.Info(manual.KeyResult); r != "" && !validResults[r] {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid result: %s", r))
	}

	saved := m.Current()
	m.BackToRoot()
	if misplaced := m.Board().MisplacedPieces(); len(misplaced) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("pieces outside their placement area: %v", misplaced))
	}
	m.JumpTo(saved)

	_ = m.WalkBoard(func(mv *manual.Move) error {
		board := m.Board()
		if !board.IsLegal(mv.Pair()) {
			result.Valid = false
			result.ErrorPly = mv.NextNo()
			result.ErrorMsg = fmt.Sprintf("illegal move at ply %d: %s", mv.NextNo(), mv.ICCS())
			return fmt.Errorf("%s", result.ErrorMsg)
		}
		if zh, err := board.Zh(mv.Pair()); err != nil || zh != mv.Zh() {
			result.Valid = false
			result.ErrorPly = mv.NextNo()
			result.ErrorMsg = fmt.Sprintf("notation mismatch at ply %d: %s is %q, recorded %q", mv.NextNo(), mv.ICCS(), zh, mv.Zh())
			return fmt.Errorf("%s", result.ErrorMsg)
		}
		return nil
	})
	return result
}

// CountPlies counts the plies of the main line.
func CountPlies(m *manual.Manual) int {
	return len(m.MainLine())
}

// HasRemarks reports whether any node, the root included, has a remark.
func HasRemarks(m *manual.Manual) bool {
	return m.Stats().Remarks > 0
}

// SplitVariations returns one manual per line of play: the path from the
// root to each leaf, main line first. Info and remarks are copied.
func SplitVariations(m *manual.Manual) ([]*manual.Manual, error) {
	var out []*manual.Manual
	for _, leaf := range m.Moves() {
		if leaf.Next() != nil {
			continue
		}
		line, err := copyLine(m, manual.PathTo(leaf))
		if err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	if len(out) == 0 {
		line, err := copyLine(m, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, nil
}

func copyLine(m *manual.Manual, path []*manual.Move) (*manual.Manual, error) {
	line := manual.New(manual.WithLogger(m.Logger()))
	if err := line.SetInfoMap(m.InfoMap()); err != nil {
		return nil, err
	}
	line.SetRootRemark(m.RootRemark())
	for _, mv := range path {
		if mv.IsRoot() {
			continue
		}
		if _, err := line.AppendMove(mv.Pair(), mv.Remark(), false); err != nil {
			return nil, err
		}
	}
	line.BackToRoot()
	return line, nil
}
