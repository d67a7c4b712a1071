package codec

import (
	"encoding/json"
	"io"

	"github.com/lgbarn/xiangqi-manual-go/internal/errors"
	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
)

type jsonManual struct {
	Info   map[string]string `json:"info"`
	Remark string            `json:"remark,omitempty"`
	Next   *jsonNode         `json:"n,omitempty"`
}

type jsonNode struct {
	Move   string    `json:"m"`
	Remark string    `json:"r,omitempty"`
	Next   *jsonNode `json:"n,omitempty"`
	Other  *jsonNode `json:"o,omitempty"`
}

func writeJSON(w io.Writer, m *manual.Manual, _ options) error {
	doc := jsonManual{Info: m.InfoMap(), Remark: m.RootRemark()}

	// Moves is preorder, so a node's prev is converted before the node.
	nodes := make(map[*manual.Move]*jsonNode)
	for _, mv := range m.Moves() {
		node := &jsonNode{Move: mv.RowCols(), Remark: mv.Remark()}
		nodes[mv] = node
		switch prev := mv.Prev(); {
		case mv.IsOther():
			nodes[prev].Other = node
		case prev.IsRoot():
			doc.Next = node
		default:
			nodes[prev].Next = node
		}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(&doc)
}

func readJSON(data []byte, o options) (*manual.Manual, error) {
	var doc jsonManual
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, formatError(o, 0, errors.ErrMalformedFile, err.Error())
	}

	m := manual.New(manual.WithLogger(o.log))
	if err := m.SetInfoMap(doc.Info); err != nil {
		return nil, formatError(o, 0, err, "FEN")
	}
	m.SetRootRemark(doc.Remark)

	type frame struct {
		node    *jsonNode
		at      *manual.Move
		isOther bool
	}
	var stack []frame
	if doc.Next != nil {
		stack = append(stack, frame{node: doc.Next, at: m.Root()})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		m.JumpTo(f.at)
		mv, err := m.AppendRowCols(f.node.Move, f.node.Remark, f.isOther)
		if err != nil {
			return nil, formatError(o, 0, err, "move "+f.node.Move)
		}
		if f.node.Other != nil {
			stack = append(stack, frame{node: f.node.Other, at: mv, isOther: true})
		}
		if f.node.Next != nil {
			stack = append(stack, frame{node: f.node.Next, at: mv})
		}
	}
	return m, nil
}
