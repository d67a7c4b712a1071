// Package store persists manuals in MongoDB and caches rendered text in
// Redis.
package store

import (
	"bytes"
	"time"

	"github.com/lgbarn/xiangqi-manual-go/internal/codec"
	"github.com/lgbarn/xiangqi-manual-go/internal/manual"
)

// Document is the stored form of a manual. The tree is kept as JSON codec
// text; a few info fields are copied out for queries.
type Document struct {
	ID        string            `bson:"_id"`
	Title     string            `bson:"title,omitempty"`
	Event     string            `bson:"event,omitempty"`
	Red       string            `bson:"red,omitempty"`
	Black     string            `bson:"black,omitempty"`
	Result    string            `bson:"result,omitempty"`
	Source    string            `bson:"source,omitempty"`
	Moves     int               `bson:"moves"`
	Info      map[string]string `bson:"info"`
	Manual    string            `bson:"manual"`
	CreatedAt time.Time         `bson:"created_at"`
}

// NewDocument encodes m. source names the file it came from.
func NewDocument(id string, m *manual.Manual, source string) (*Document, error) {
	var buf bytes.Buffer
	if err := codec.Write(&buf, m, codec.FormatJSON); err != nil {
		return nil, err
	}
	return &Document{
		ID:        id,
		Title:     m.Info(manual.KeyTitle),
		Event:     m.Info(manual.KeyEvent),
		Red:       m.Info(manual.KeyRed),
		Black:     m.Info(manual.KeyBlack),
		Result:    m.Info(manual.KeyResult),
		Source:    source,
		Moves:     len(m.Moves()),
		Info:      m.InfoMap(),
		Manual:    buf.String(),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Decode rebuilds the manual.
func (d *Document) Decode(opts ...codec.Option) (*manual.Manual, error) {
	return codec.Read(bytes.NewReader([]byte(d.Manual)), codec.FormatJSON, opts...)
}
