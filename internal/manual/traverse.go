package manual

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lgbarn/xiangqi-manual-go/internal/errors"
	"github.com/lgbarn/xiangqi-manual-go/internal/xiangqi"
)

// renumber recomputes the layout numbers of every node. Lines get grid
// columns in preorder, so a variation's column lies right of every column
// used below its sibling.
func (m *Manual) renumber() {
	if m.numbered {
		return
	}
	maxCol := 0
	m.root.nextNo, m.root.otherNo, m.root.ccColNo = 0, 0, 0
	stack := []*Move{m.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n != m.root {
			if n.isOther {
				n.nextNo = n.prev.nextNo
				n.otherNo = n.prev.otherNo + 1
				maxCol++
				n.ccColNo = maxCol
			} else {
				n.nextNo = n.prev.nextNo + 1
				n.otherNo = n.prev.otherNo
				n.ccColNo = n.prev.ccColNo
			}
		}
		if n.other != nil {
			stack = append(stack, n.other)
		}
		if n.next != nil {
			stack = append(stack, n.next)
		}
	}
	m.numbered = true
}

// Moves returns every node except the root in preorder: a node, then its
// continuation subtree, then its later siblings. Layout numbers are up to
// date on return.
func (m *Manual) Moves() []*Move {
	m.renumber()
	var out []*Move
	stack := []*Move{}
	if m.root.next != nil {
		stack = append(stack, m.root.next)
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, n)
		if n.other != nil {
			stack = append(stack, n.other)
		}
		if n.next != nil {
			stack = append(stack, n.next)
		}
	}
	return out
}

// StepKind tags one element of the linear text order.
type StepKind int

const (
	StepMove StepKind = iota
	StepOpen
	StepClose
)

// Step is one element of the linear text order. Open and Close carry the
// first move of the variation they delimit.
type Step struct {
	Kind StepKind
	Move *Move
}

// LinearSteps returns the tree in the order of the linear text forms: each
// move, then each of its variations enclosed in Open/Close, then its
// continuation.
func (m *Manual) LinearSteps() []Step {
	m.renumber()
	type frame struct {
		step     Step
		varStart bool
	}
	var out []Step
	stack := []frame{}
	if m.root.next != nil {
		stack = append(stack, frame{step: Step{Kind: StepMove, Move: m.root.next}})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, f.step)
		if f.step.Kind != StepMove {
			continue
		}
		n := f.step.Move
		if n.next != nil {
			stack = append(stack, frame{step: Step{Kind: StepMove, Move: n.next}})
		}
		if f.varStart {
			// The caller already emitted the siblings of a variation head.
			continue
		}
		var vars []*Move
		for v := n.other; v != nil; v = v.other {
			vars = append(vars, v)
		}
		for i := len(vars) - 1; i >= 0; i-- {
			stack = append(stack,
				frame{step: Step{Kind: StepClose, Move: vars[i]}},
				frame{step: Step{Kind: StepMove, Move: vars[i]}, varStart: true},
				frame{step: Step{Kind: StepOpen, Move: vars[i]}},
			)
		}
	}
	return out
}

// WalkBoard calls fn for every move in preorder with the board set to the
// position the move is played from and the cursor on the move's parent.
// fn must not move the cursor or edit the tree. The cursor is restored
// afterwards.
func (m *Manual) WalkBoard(fn func(mv *Move) error) error {
	saved := m.current
	m.BackToRoot()
	defer m.JumpTo(saved)

	type frame struct {
		mv   *Move
		exit bool
	}
	stack := []frame{}
	if m.root.next != nil {
		stack = append(stack, frame{mv: m.root.next})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.exit {
			m.undo(f.mv)
			continue
		}
		m.current = f.mv.Parent()
		if err := fn(f.mv); err != nil {
			// Unwind the moves still applied so JumpTo starts from a
			// consistent board.
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].exit {
					m.undo(stack[i].mv)
				}
			}
			m.current = m.root
			return err
		}
		if f.mv.other != nil {
			stack = append(stack, frame{mv: f.mv.other})
		}
		stack = append(stack, frame{mv: f.mv, exit: true})
		if f.mv.next != nil {
			stack = append(stack, frame{mv: f.mv.next})
		}
		m.do(f.mv)
	}
	m.current = m.root
	return nil
}

// ChangeLayout applies a layout transform to the starting position and to
// every move, then rebuilds the Chinese notation. MirrorVertical is not a
// board transform and is rejected.
func (m *Manual) ChangeLayout(ct xiangqi.ChangeType) error {
	switch ct {
	case xiangqi.NoChange:
		return nil
	case xiangqi.MirrorHorizontal, xiangqi.Rotate180, xiangqi.ColorExchange:
	default:
		return fmt.Errorf("manual %s: %w", ct, errors.ErrUnsupportedLayout)
	}

	saved := m.current
	m.BackToRoot()
	if err := m.board.ChangeLayout(ct); err != nil {
		m.JumpTo(saved)
		return err
	}
	m.info[KeyFEN] = m.board.FullFEN()
	for _, mv := range m.Moves() {
		mv.pair = mv.pair.Change(ct)
	}
	err := m.WalkBoard(func(mv *Move) error {
		zh, err := m.board.Zh(mv.pair)
		if err != nil {
			return err
		}
		mv.zh = zh
		return nil
	})
	m.JumpTo(saved)
	m.log.Debugw("layout changed", "transform", ct.String(), "fen", m.info[KeyFEN])
	return err
}

// CanonicalRowCols returns the main line as concatenated 4-digit keys,
// normalised so red plays from the bottom and the first move starts on the
// right half of the board.
func (m *Manual) CanonicalRowCols() string {
	var pairs []xiangqi.CoordPair
	for n := m.root.next; n != nil; n = n.next {
		pairs = append(pairs, n.pair)
	}
	if len(pairs) == 0 {
		return ""
	}
	if m.BottomColor() != xiangqi.Red {
		for i := range pairs {
			pairs[i] = pairs[i].Change(xiangqi.Rotate180)
		}
	}
	if pairs[0].From.Col < xiangqi.Cols/2 {
		for i := range pairs {
			pairs[i] = pairs[i].Change(xiangqi.MirrorHorizontal)
		}
	}
	var sb strings.Builder
	for _, p := range pairs {
		sb.WriteString(p.RowCols())
	}
	return sb.String()
}

// Stats summarises the shape of a manual.
type Stats struct {
	Moves        int // nodes other than the root
	Remarks      int // nodes with a remark, root included
	MaxRemarkLen int // longest remark in runes
	MaxRow       int // deepest ply
	MaxCol       int // highest grid column
}

// Stats walks the tree and returns its summary.
func (m *Manual) Stats() Stats {
	var st Stats
	count := func(remark string) {
		if remark == "" {
			return
		}
		st.Remarks++
		if n := utf8.RuneCountInString(remark); n > st.MaxRemarkLen {
			st.MaxRemarkLen = n
		}
	}
	count(m.root.remark)
	for _, mv := range m.Moves() {
		st.Moves++
		count(mv.remark)
		if mv.nextNo > st.MaxRow {
			st.MaxRow = mv.nextNo
		}
		if mv.ccColNo > st.MaxCol {
			st.MaxCol = mv.ccColNo
		}
	}
	return st
}

// MainLine returns the continuation chain from the root.
func (m *Manual) MainLine() []*Move {
	var out []*Move
	for n := m.root.next; n != nil; n = n.next {
		out = append(out, n)
	}
	return out
}
