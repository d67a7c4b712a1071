package testutil

import (
	"strings"
	"testing"

	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
)

func TestMustBuild(t *testing.T) {
	tests := []struct {
		name  string
		moves []string
		want  string
	}{
		{name: "empty", want: ""},
		{name: "main line", moves: []string{"h2e2", "h9g7", "h0g2"}, want: "h2e2 h9g7 h0g2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MustBuild(t, tt.moves...)
			AssertTrue(t, m.Current().IsRoot(), "cursor at root")
			AssertEqual(t, LinearICCS(m), tt.want)
		})
	}
}

func TestSampleManual(t *testing.T) {
	m := SampleManual(t)
	AssertEqual(t, LinearICCS(m), SampleLine)
	AssertEqual(t, m.Info(manual.KeyTitle), "测试棋局")

	remarks := Remarks(m)
	AssertEqual(t, remarks[0], "中炮开局")
	AssertEqual(t, len(remarks), 4)
	found := false
	for _, r := range remarks {
		if strings.Contains(r, `\`) {
			found = true
		}
	}
	AssertTrue(t, found, "sample keeps a remark that needs escaping")
}

func TestAssertSameTree(t *testing.T) {
	AssertSameTree(t, SampleManual(t), SampleManual(t))
	AssertSameTree(t, MustBuild(t, "h2e2"), MustBuild(t, "h2e2"), "one move")
}
