package manual

import (
	"fmt"

	"github.com/lgbarn/xiangqi-manual-go/internal/engine"
	"github.com/lgbarn/xiangqi-manual-go/internal/errors"
	"github.com/lgbarn/xiangqi-manual-go/internal/xiangqi"
)

// AppendMove adds pair after the cursor and moves the cursor onto it.
//
// With isOther false the move becomes the continuation of the cursor; if a
// continuation already exists the new move is inserted at the head of that
// continuation's variation chain. With isOther true the move becomes a
// variation of the cursor move, inserted at the head of its chain; the
// root has no variations.
//
// An illegal move returns ErrInvalidMove and leaves tree and board as they
// were. Turn order is not checked.
func (m *Manual) AppendMove(pair xiangqi.CoordPair, remark string, isOther bool) (*Move, error) {
	return m.appendResolved(isOther, remark, func(*engine.Board) (xiangqi.CoordPair, error) {
		return pair, nil
	})
}

// AppendZh is AppendMove with the move given in Chinese notation, resolved
// on the position the move is played from.
func (m *Manual) AppendZh(zh, remark string, isOther bool) (*Move, error) {
	return m.appendResolved(isOther, remark, func(b *engine.Board) (xiangqi.CoordPair, error) {
		return b.ParseZh(zh)
	})
}

// AppendICCS is AppendMove with the move given in ICCS form.
func (m *Manual) AppendICCS(iccs, remark string, isOther bool) (*Move, error) {
	pair, err := xiangqi.ParseICCS(iccs)
	if err != nil {
		return nil, err
	}
	return m.AppendMove(pair, remark, isOther)
}

// AppendRowCols is AppendMove with the move given as a 4-digit key.
func (m *Manual) AppendRowCols(rowcols, remark string, isOther bool) (*Move, error) {
	pair, err := xiangqi.ParseRowCols(rowcols)
	if err != nil {
		return nil, err
	}
	return m.AppendMove(pair, remark, isOther)
}

// AppendAfter jumps to at and appends there. Tree readers use it to attach
// a node to an arbitrary earlier node.
func (m *Manual) AppendAfter(at *Move, pair xiangqi.CoordPair, remark string, isOther bool) (*Move, error) {
	m.JumpTo(at)
	return m.AppendMove(pair, remark, isOther)
}

// AppendZhAfter jumps to at and appends a move in Chinese notation there.
func (m *Manual) AppendZhAfter(at *Move, zh, remark string, isOther bool) (*Move, error) {
	m.JumpTo(at)
	return m.AppendZh(zh, remark, isOther)
}

func (m *Manual) appendResolved(isOther bool, remark string, resolve func(*engine.Board) (xiangqi.CoordPair, error)) (*Move, error) {
	sibling := m.current
	if isOther {
		if sibling.IsRoot() {
			return nil, fmt.Errorf("variation of the root: %w", errors.ErrInvalidMove)
		}
		m.undo(sibling)
	}

	ply := m.current.Depth() + 1
	if isOther {
		ply--
	}
	mv, err := m.newMove(resolve, remark, ply)
	if err != nil {
		if isOther {
			m.do(sibling)
		}
		m.log.Debugw("append rejected", "error", err)
		return nil, err
	}

	switch {
	case isOther:
		m.linkOther(sibling, mv)
	case sibling.next == nil:
		mv.prev = sibling
		sibling.next = mv
	default:
		m.linkOther(sibling.next, mv)
	}

	m.do(mv)
	m.current = mv
	m.numbered = false
	m.log.Debugw("append", "rowcols", mv.pair.RowCols(), "zh", mv.zh, "variation", mv.isOther)
	return mv, nil
}

// newMove validates a move on the current board and builds its node.
func (m *Manual) newMove(resolve func(*engine.Board) (xiangqi.CoordPair, error), remark string, ply int) (*Move, error) {
	pair, err := resolve(m.board)
	if err != nil {
		return nil, err
	}
	if !pair.IsValid() {
		return nil, fmt.Errorf("move %s: %w", pair, errors.ErrOutOfRange)
	}
	if !m.board.IsLegal(pair) {
		return nil, &errors.MoveError{Err: errors.ErrInvalidMove, PlyNum: ply, MoveText: pair.RowCols()}
	}
	zh, err := m.board.Zh(pair)
	if err != nil {
		return nil, err
	}
	back, err := m.board.ParseZh(zh)
	if err != nil || back != pair {
		return nil, &errors.MoveError{Err: errors.ErrNotationMismatch, PlyNum: ply, MoveText: zh}
	}
	return &Move{pair: pair, zh: zh, remark: remark, captured: engine.NoCapture}, nil
}

// linkOther inserts mv directly after sibling in its variation chain.
func (m *Manual) linkOther(sibling, mv *Move) {
	mv.other = sibling.other
	if mv.other != nil {
		mv.other.prev = mv
	}
	sibling.other = mv
	mv.prev = sibling
	mv.isOther = true
}

// ReplaceVariation discards every variation of the cursor move and appends
// pair as its only variation.
func (m *Manual) ReplaceVariation(pair xiangqi.CoordPair, remark string) (*Move, error) {
	sibling := m.current
	old := sibling.other
	sibling.other = nil

	mv, err := m.AppendMove(pair, remark, true)
	if err != nil {
		sibling.other = old
		return nil, err
	}
	if old != nil {
		old.prev = nil
		m.release(old)
	}
	return mv, nil
}

// DeleteCurrent removes the cursor move with its continuation and every
// variation hanging below it; later siblings move up one place. The cursor
// returns to the move before. It returns false at the root.
func (m *Manual) DeleteCurrent() bool {
	mv := m.current
	if mv.IsRoot() {
		return false
	}
	m.undo(mv)
	m.current = mv.Parent()

	rest := mv.other
	if mv.isOther {
		mv.prev.other = rest
	} else {
		mv.prev.next = rest
		if rest != nil {
			rest.isOther = false
		}
	}
	if rest != nil {
		rest.prev = mv.prev
	}

	mv.other = nil
	mv.prev = nil
	m.release(mv)
	m.numbered = false
	return true
}

// release unlinks a detached subtree so nothing keeps it reachable.
func (m *Manual) release(mv *Move) {
	stack := []*Move{}
	if mv != nil {
		stack = append(stack, mv)
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.next != nil {
			stack = append(stack, n.next)
		}
		if n.other != nil {
			stack = append(stack, n.other)
		}
		n.next, n.other, n.prev = nil, nil, nil
	}
}

// SetRemark sets the remark of the cursor node (the root remark at the
// root).
func (m *Manual) SetRemark(remark string) {
	m.current.remark = remark
}

// SetRootRemark sets the remark on the root node.
func (m *Manual) SetRootRemark(remark string) {
	m.root.remark = remark
}

// SetInfoMap stores every entry of info; a FEN entry resets the starting
// position.
func (m *Manual) SetInfoMap(info map[string]string) error {
	if fen, ok := info[KeyFEN]; ok && fen != "" {
		if err := m.SetFEN(fen); err != nil {
			return err
		}
	}
	for k, v := range info {
		m.SetInfo(k, v)
	}
	return nil
}
