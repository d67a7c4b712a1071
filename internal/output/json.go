package output

import (
	"encoding/json"
	"io"

	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
)

// JSONSummary describes a manual for the info report.
type JSONSummary struct {
	Info             map[string]string `json:"info"`
	Remark           string            `json:"remark,omitempty"`
	Moves            int               `json:"moves"`
	Remarks          int               `json:"remarks"`
	MaxRemarkLen     int               `json:"maxRemarkLen"`
	MaxRow           int               `json:"maxRow"`
	MaxCol           int               `json:"maxCol"`
	MainLine         []string          `json:"mainLine,omitempty"`
	CanonicalRowCols string            `json:"canonicalRowCols,omitempty"`
	FinalFEN         string            `json:"finalFEN"`
	ToMove           string            `json:"toMove"`
	InCheck          bool              `json:"inCheck"`
	Checkmated       bool              `json:"checkmated"`
}

// SummaryToJSON builds the summary. The final position is the end of the
// main line; the manual's cursor is left where it was.
func SummaryToJSON(m *manual.Manual) *JSONSummary {
	st := m.Stats()
	js := &JSONSummary{
		Info:             m.InfoMap(),
		Remark:           m.RootRemark(),
		Moves:            st.Moves,
		Remarks:          st.Remarks,
		MaxRemarkLen:     st.MaxRemarkLen,
		MaxRow:           st.MaxRow,
		MaxCol:           st.MaxCol,
		CanonicalRowCols: m.CanonicalRowCols(),
	}

	main := m.MainLine()
	for _, mv := range main {
		js.MainLine = append(js.MainLine, mv.Zh())
	}

	saved := m.Current()
	m.BackToRoot()
	m.GoToEnd()
	board := m.Board()
	toMove := board.BottomColor()
	if len(main) > 0 {
		last := main[len(main)-1]
		toMove = board.At(last.Pair().To).Color.Opposite()
	}
	js.FinalFEN = board.FEN()
	js.ToMove = toMove.String()
	js.InCheck = board.IsInCheck(toMove)
	js.Checkmated = board.IsCheckmated(toMove)
	m.JumpTo(saved)
	return js
}

// WriteSummaryJSON writes the summary as indented JSON.
func WriteSummaryJSON(w io.Writer, m *manual.Manual) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(SummaryToJSON(m))
}
