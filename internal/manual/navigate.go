package manual

// do plays mv on the board; undo takes it back.
func (m *Manual) do(mv *Move) {
	mv.captured = m.board.Do(mv.pair)
}

func (m *Manual) undo(mv *Move) {
	m.board.Undo(mv.pair, mv.captured)
}

// Advance plays the continuation of the cursor. It returns false at the end
// of a line.
func (m *Manual) Advance() bool {
	next := m.current.next
	if next == nil {
		return false
	}
	m.do(next)
	m.current = next
	return true
}

// Retreat takes back the cursor move. It returns false at the root.
func (m *Manual) Retreat() bool {
	if m.current.IsRoot() {
		return false
	}
	m.undo(m.current)
	m.current = m.current.Parent()
	return true
}

// AdvanceVariation switches the cursor to its next sibling variation.
func (m *Manual) AdvanceVariation() bool {
	other := m.current.other
	if other == nil {
		return false
	}
	m.undo(m.current)
	m.do(other)
	m.current = other
	return true
}

// RetreatVariation switches the cursor back to its previous sibling.
func (m *Manual) RetreatVariation() bool {
	if !m.current.isOther {
		return false
	}
	prev := m.current.prev
	m.undo(m.current)
	m.do(prev)
	m.current = prev
	return true
}

// BackToRoot takes back every move.
func (m *Manual) BackToRoot() {
	for m.Retreat() {
	}
}

// GoToEnd follows continuations to the end of the current line.
func (m *Manual) GoToEnd() {
	for m.Advance() {
	}
}

// PathTo returns the moves played from the root to reach mv, mv last.
func PathTo(mv *Move) []*Move {
	var path []*Move
	for n := mv; !n.IsRoot(); n = n.Parent() {
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// JumpTo moves the cursor to mv, taking back moves down to the common
// ancestor and replaying the rest of the path.
func (m *Manual) JumpTo(mv *Move) {
	if mv == m.current {
		return
	}
	target := PathTo(mv)
	here := PathTo(m.current)

	common := 0
	for common < len(target) && common < len(here) && target[common] == here[common] {
		common++
	}
	for i := len(here) - 1; i >= common; i-- {
		m.undo(here[i])
	}
	for _, n := range target[common:] {
		m.do(n)
	}
	m.current = mv
}
