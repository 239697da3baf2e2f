package decoder

import (
	"bytes"
	"fmt"

	"github.com/MetaCell/sckan-explorer/source"
	"github.com/goccy/go-json"
)

// ComposerDecoder decodes statements exported by the composer. They are
// already in final shape and are passed through untouched.
type ComposerDecoder struct{}

// NewComposerDecoder creates a composer decoder.
func NewComposerDecoder() *ComposerDecoder { return &ComposerDecoder{} }

// Kind implements Decoder.
func (d *ComposerDecoder) Kind() source.Kind { return source.KindComposer }

// Decode implements Decoder.
func (d *ComposerDecoder) Decode(filename string, content []byte) (*Batch, error) {
	records, err := decodeRecords[json.RawMessage](filename, content)
	if err != nil {
		return nil, err
	}

	batch := &Batch{Statements: make([]json.RawMessage, 0, len(records))}
	for i, rec := range records {
		rec = bytes.TrimSpace(rec)
		if len(rec) == 0 || rec[0] != '{' {
			return nil, fmt.Errorf("record %d: statement must be a JSON object", i)
		}
		batch.Statements = append(batch.Statements, rec)
	}
	return batch, nil
}
