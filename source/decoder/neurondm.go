package decoder

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/MetaCell/sckan-explorer/connectivity"
	"github.com/MetaCell/sckan-explorer/source"
	"github.com/goccy/go-json"
)

// Problem messages recorded for neurons the decoder could not fully read.
const (
	MsgMissingID           = "Record has no id"
	MsgInvalidPartialOrder = "Invalid partial order"
	MsgCycle               = "Partial order contains a cycle"
	MsgTreeTooLarge        = "Partial order expands to too many nodes"
)

// neuronRecord is one neuron as exported from NeuronDM.
//
// The partial order is either a nested tree or an edge list. A tree node is
// an object {"blank": true, "children": [...]} or {"entity": e,
// "children": [...]}, or the compact array form ["blank", child...] or
// [e, child...]. An entity is an IRI string or {"region": r, "layer": l}.
type neuronRecord struct {
	ID                string                    `json:"id"`
	Label             string                    `json:"label"`
	PrefLabel         string                    `json:"pref_label"`
	OWLClass          string                    `json:"owl_class"`
	PartialOrder      json.RawMessage           `json:"partial_order"`
	PartialOrderEdges json.RawMessage           `json:"partial_order_edges"`
	Predicates        map[string][]string       `json:"predicates"`
	Annotations       []connectivity.Annotation `json:"annotations"`
}

// NeuronDMDecoder decodes NeuronDM neuron exports. Files hold a JSON array
// of records, or one record per line for .jsonl files.
//
// Only a file that cannot be read as records fails the decode. A record
// without id is dropped, and a neuron whose partial order is malformed,
// cyclic or too large is kept without one; both are reported as Problems.
type NeuronDMDecoder struct{}

// NewNeuronDMDecoder creates a NeuronDM decoder.
func NewNeuronDMDecoder() *NeuronDMDecoder { return &NeuronDMDecoder{} }

// Kind implements Decoder.
func (d *NeuronDMDecoder) Kind() source.Kind { return source.KindNeuronDM }

// Decode implements Decoder.
func (d *NeuronDMDecoder) Decode(filename string, content []byte) (*Batch, error) {
	records, err := decodeRecords[neuronRecord](filename, content)
	if err != nil {
		return nil, err
	}

	batch := &Batch{Neurons: make([]*connectivity.Neuron, 0, len(records))}
	for i, rec := range records {
		if rec.ID == "" {
			batch.Problems = append(batch.Problems, Problem{
				StatementID: fmt.Sprintf("%s[%d]", filepath.Base(filename), i),
				EntityID:    rec.Label,
				Message:     MsgMissingID,
			})
			continue
		}
		n := &connectivity.Neuron{
			ID:          rec.ID,
			Label:       rec.Label,
			PrefLabel:   rec.PrefLabel,
			OWLClass:    rec.OWLClass,
			Predicates:  rec.Predicates,
			Annotations: rec.Annotations,
		}

		root, err := rec.partialOrder()
		if err != nil {
			batch.Problems = append(batch.Problems, partialOrderProblem(rec.ID, err))
		} else {
			n.PartialOrder = root
		}
		batch.Neurons = append(batch.Neurons, n)
	}
	return batch, nil
}

// partialOrder decodes the tree form, or else the edge form. It returns nil
// when the record has neither.
func (r *neuronRecord) partialOrder() (*connectivity.Node, error) {
	if !isNull(r.PartialOrder) {
		root, err := decodeNode(r.PartialOrder)
		if err != nil {
			return nil, err
		}
		return &root, nil
	}
	if isNull(r.PartialOrderEdges) {
		return nil, nil
	}
	var edges []Edge
	if err := json.Unmarshal(r.PartialOrderEdges, &edges); err != nil {
		return nil, fmt.Errorf("partial order edges: %w", err)
	}
	return TreeFromEdges(edges)
}

func partialOrderProblem(id string, err error) Problem {
	var cycle *CycleError
	switch {
	case errors.As(err, &cycle):
		return Problem{StatementID: id, EntityID: cycle.Path(), Message: MsgCycle}
	case errors.Is(err, ErrTreeTooLarge):
		return Problem{StatementID: id, Message: MsgTreeTooLarge}
	default:
		return Problem{StatementID: id, Message: MsgInvalidPartialOrder + ": " + err.Error()}
	}
}

type nodeObject struct {
	Blank    bool                           `json:"blank"`
	Entity   *connectivity.AnatomicalEntity `json:"entity"`
	Children []json.RawMessage              `json:"children"`
}

func decodeNode(raw json.RawMessage) (connectivity.Node, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return connectivity.Node{}, errors.New("empty node")
	}

	var (
		blank    bool
		entity   connectivity.AnatomicalEntity
		children []json.RawMessage
	)

	switch raw[0] {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return connectivity.Node{}, err
		}
		if len(elems) == 0 {
			return connectivity.Branch(), nil
		}
		var marker string
		if json.Unmarshal(elems[0], &marker) == nil && marker == "blank" {
			blank = true
		} else if err := json.Unmarshal(elems[0], &entity); err != nil {
			return connectivity.Node{}, err
		}
		children = elems[1:]
	case '{':
		var obj nodeObject
		if err := json.Unmarshal(raw, &obj); err != nil {
			return connectivity.Node{}, err
		}
		switch {
		case obj.Blank && obj.Entity != nil:
			return connectivity.Node{}, errors.New("node is both blank and concrete")
		case obj.Blank:
			blank = true
		case obj.Entity != nil:
			entity = *obj.Entity
		default:
			return connectivity.Node{}, errors.New("node has neither entity nor blank marker")
		}
		children = obj.Children
	default:
		// A bare entity is a leaf.
		if err := json.Unmarshal(raw, &entity); err != nil {
			return connectivity.Node{}, err
		}
	}

	nodes := make([]connectivity.Node, 0, len(children))
	for _, c := range children {
		child, err := decodeNode(c)
		if err != nil {
			return connectivity.Node{}, err
		}
		nodes = append(nodes, child)
	}
	if blank {
		return connectivity.Branch(nodes...), nil
	}
	return connectivity.Concrete(entity, nodes...), nil
}

// decodeRecords reads a JSON array, or JSON lines for .jsonl files.
func decodeRecords[T any](filename string, content []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if !strings.EqualFold(filepath.Ext(filename), ".jsonl") {
		var records []T
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("decode records: %w", err)
		}
		return records, nil
	}

	var records []T
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var rec T
		if err := json.Unmarshal(text, &rec); err != nil {
			return nil, fmt.Errorf("decode line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
	}
	return records, nil
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
