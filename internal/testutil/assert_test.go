package testutil

import (
	"errors"
	"fmt"
	"testing"

	xqerrors "github.com/lgbarn/xiangqi-manual-go/internal/errors"
	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
)

// Failing assertions cannot be observed without a fake *testing.T, so
// these cover the passing paths and formatMessage.

func TestAssertPassingPaths(t *testing.T) {
	m := SampleManual(t)

	AssertEqual(t, LinearICCS(m), SampleLine)
	AssertEqual(t, []int{1, 2, 3}, []int{1, 2, 3}, "plies of %s", "main line")
	AssertNoError(t, nil)
	AssertError(t, errors.New("bad move"))
	AssertErrorIs(t, fmt.Errorf("append: %w", xqerrors.ErrInvalidMove), xqerrors.ErrInvalidMove)
	AssertErrorIs(t, nil, nil)
	AssertContains(t, SampleLine, "b9c7")
	AssertContains(t, SampleLine, "")
	AssertTrue(t, m.Root() != nil)
	AssertFalse(t, m.Root() == nil)

	var mv *manual.Move
	AssertNil(t, mv)
	AssertNil(t, nil)
	AssertNotNil(t, m)
	AssertNotNil(t, []string{"h2e2"})
}

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		name string
		args []interface{}
		want string
	}{
		{"no args", nil, ""},
		{"single string", []interface{}{"root"}, "root"},
		{"single int", []interface{}{42}, "42"},
		{"format string", []interface{}{"move %s", "h2e2"}, "move h2e2"},
		{"format several", []interface{}{"%s at ply %d", "b9c7", 2}, "b9c7 at ply 2"},
		{"non-string first", []interface{}{7, "ignored"}, "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatMessage(tt.args...); got != tt.want {
				t.Errorf("formatMessage(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}
