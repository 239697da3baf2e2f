// Package decoder turns upstream record files into values the ingestion
// pipeline can process.
package decoder

import (
	"fmt"
	"sync"

	"github.com/MetaCell/sckan-explorer/connectivity"
	"github.com/MetaCell/sckan-explorer/source"
	"github.com/goccy/go-json"
)

// Problem is a record-level issue found while decoding. It never fails the
// file: the record is kept without the offending part, or dropped when it
// cannot be identified.
type Problem struct {
	StatementID string
	EntityID    string
	Message     string
}

// Batch is the decoded content of one record file.
type Batch struct {
	Kind     source.Kind
	Filename string
	Hash     string

	// Neurons is set for sources that need normalization.
	Neurons []*connectivity.Neuron

	// Statements is set for sources that already provide final statements.
	Statements []json.RawMessage

	Problems []Problem
}

// Len returns the number of records in the batch.
func (b *Batch) Len() int { return len(b.Neurons) + len(b.Statements) }

// Decoder decodes the record files of one source.
type Decoder interface {
	// Decode parses content read from filename.
	Decode(filename string, content []byte) (*Batch, error)

	// Kind returns the source this decoder handles.
	Kind() source.Kind
}

// Registry manages decoders by source kind.
type Registry struct {
	mu       sync.RWMutex
	decoders map[source.Kind]Decoder
}

// DefaultRegistry holds the decoders of every supported source.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a registry with the default decoders.
func NewRegistry() *Registry {
	r := &Registry{
		decoders: make(map[source.Kind]Decoder),
	}

	r.Register(NewNeuronDMDecoder())
	r.Register(NewComposerDecoder())

	return r
}

// Register adds or replaces the decoder for its kind.
func (r *Registry) Register(d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[d.Kind()] = d
}

// Get returns the decoder for kind, or nil.
func (r *Registry) Get(kind source.Kind) Decoder {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.decoders[kind]
}

// Decode decodes content with the decoder registered for kind and stamps
// the batch with the file's content hash.
func (r *Registry) Decode(kind source.Kind, filename string, content []byte) (*Batch, error) {
	d := r.Get(kind)
	if d == nil {
		return nil, fmt.Errorf("no decoder for source %s: %w", kind, source.ErrUnknownKind)
	}
	batch, err := d.Decode(filename, content)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}
	batch.Kind = kind
	batch.Filename = filename
	batch.Hash = source.ContentHash(content)
	return batch, nil
}
