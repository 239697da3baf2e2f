package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"sync"

	"github.com/MetaCell/sckan-explorer/connectivity"
)

// Severity grades an anomaly.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Anomaly messages recorded by the pipeline. Decoder problems and
// normalization rejections keep the message they were raised with.
const (
	MsgEntityNotInAxioms  = "Entity not found in any axiom"
	MsgNoPartialOrder     = connectivity.MsgNoPartialOrder
	MsgMissingReference   = "Missing reference uri"
	MsgDuplicateReference = "Duplicate reference uri"
	MsgUnresolvedForward  = "Forward connection not found in batch"
)

// Anomaly is one problem met while ingesting a statement.
type Anomaly struct {
	Severity    Severity `json:"severity"`
	StatementID string   `json:"statement_id"`
	EntityID    string   `json:"entity_id,omitempty"`
	Message     string   `json:"message"`
}

// AnomalyLog collects the anomalies of one ingestion run. It is safe for
// concurrent use.
type AnomalyLog struct {
	mu      sync.Mutex
	entries []Anomaly
}

// NewAnomalyLog creates an empty log.
func NewAnomalyLog() *AnomalyLog {
	return &AnomalyLog{}
}

// Add records an anomaly.
func (l *AnomalyLog) Add(a Anomaly) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, a)
}

// Anomalies returns a copy of the recorded anomalies in insertion order.
func (l *AnomalyLog) Anomalies() []Anomaly {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Anomaly, len(l.entries))
	copy(out, l.entries)
	return out
}

// Count returns the number of anomalies with the given severity.
func (l *AnomalyLog) Count(severity Severity) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, a := range l.entries {
		if a.Severity == severity {
			n++
		}
	}
	return n
}

// WriteAnomaliesCSV writes anomalies as severity,statement_id,entity_id,message.
func WriteAnomaliesCSV(w io.Writer, anomalies []Anomaly) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"severity", "statement_id", "entity_id", "message"}); err != nil {
		return fmt.Errorf("write anomalies header: %w", err)
	}
	for _, a := range anomalies {
		if err := cw.Write([]string{string(a.Severity), a.StatementID, a.EntityID, a.Message}); err != nil {
			return fmt.Errorf("write anomaly: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Ingestion states of a statement.
const (
	StateExported = "exported"
	StateInvalid  = "invalid"
)

// IngestedEntry is one line of the ingested log.
type IngestedEntry struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	State  string `json:"state"`
	Reason string `json:"reason,omitempty"`
}

// WriteIngestedCSV writes entries as id,label,state,reason.
func WriteIngestedCSV(w io.Writer, entries []IngestedEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "label", "state", "reason"}); err != nil {
		return fmt.Errorf("write ingested header: %w", err)
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.ID, e.Label, e.State, e.Reason}); err != nil {
			return fmt.Errorf("write ingested entry: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
