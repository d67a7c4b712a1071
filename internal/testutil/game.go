// Package testutil provides shared test utilities for the xiangqi manual
// tools. These utilities reduce code duplication across test files and
// provide consistent test setup helpers.
package testutil

import (
	"strings"
	"testing"

	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
)

// SampleLine is the linear ICCS text of the tree built by SampleManual.
const SampleLine = "h2e2 ( b2e2 b9c7 ) h9g7 ( b9c7 ) g3g4"

// MustAppend appends an ICCS move at the cursor and fails the test if the
// move is rejected.
func MustAppend(t *testing.T, m *manual.Manual, iccs, remark string, isOther bool) *manual.Move {
	t.Helper()
	mv, err := m.AppendICCS(iccs, remark, isOther)
	if err != nil {
		t.Fatalf("append %s: %v", iccs, err)
	}
	return mv
}

// MustBuild creates a manual from the initial position with the given
// ICCS moves as its main line.
func MustBuild(t *testing.T, moves ...string) *manual.Manual {
	t.Helper()
	m := manual.New()
	for _, iccs := range moves {
		MustAppend(t, m, iccs, "", false)
	}
	m.BackToRoot()
	return m
}

// SampleManual builds a small tree with nested variations, remarks in
// both scripts and a few info entries. The cursor is left at the root.
func SampleManual(t *testing.T) *manual.Manual {
	t.Helper()
	m := manual.New()
	m.SetInfo(manual.KeyTitle, "测试棋局")
	m.SetInfo(manual.KeyRed, "红方")
	m.SetInfo(manual.KeyBlack, "黑方")
	m.SetInfo(manual.KeyEvent, "Club {open}")
	m.SetRootRemark("中炮开局")

	first := MustAppend(t, m, "h2e2", "central cannon", false)
	knight := MustAppend(t, m, "h9g7", "", false)
	MustAppend(t, m, "b9c7", "the other knight, 另一马", true)
	m.JumpTo(knight)
	MustAppend(t, m, "g3g4", "", false)

	m.JumpTo(first)
	MustAppend(t, m, "b2e2", "", true)
	MustAppend(t, m, "b9c7", `a } and a \ in a remark`, false)
	m.BackToRoot()
	return m
}

// LinearICCS returns the tree as space separated ICCS moves with
// variations in parentheses.
func LinearICCS(m *manual.Manual) string {
	var parts []string
	for _, s := range m.LinearSteps() {
		switch s.Kind {
		case manual.StepOpen:
			parts = append(parts, "(")
		case manual.StepClose:
			parts = append(parts, ")")
		default:
			parts = append(parts, s.Move.ICCS())
		}
	}
	return strings.Join(parts, " ")
}

// Remarks returns the remark of every node keyed by its preorder position;
// the root remark has key 0.
func Remarks(m *manual.Manual) map[int]string {
	out := make(map[int]string)
	if r := m.RootRemark(); r != "" {
		out[0] = r
	}
	for i, mv := range m.Moves() {
		if mv.Remark() != "" {
			out[i+1] = mv.Remark()
		}
	}
	return out
}

// AssertSameTree fails if the two manuals differ in moves, variation
// shape or remarks.
func AssertSameTree(t *testing.T, got, want *manual.Manual, msgAndArgs ...interface{}) {
	t.Helper()
	msg := formatMessage(msgAndArgs...)
	if msg == "" {
		msg = "tree"
	}
	AssertEqual(t, LinearICCS(got), LinearICCS(want), msg+" moves")
	AssertEqual(t, Remarks(got), Remarks(want), msg+" remarks")
	AssertEqual(t, got.StartFEN(), want.StartFEN(), msg+" start position")
}
