package export

import (
	"fmt"
	"io"
	"time"

	"github.com/MetaCell/sckan-explorer/connectivity"
	"github.com/MetaCell/sckan-explorer/storage"
	"github.com/c360studio/semstreams/message"
	ssexport "github.com/c360studio/semstreams/vocabulary/export"
	"github.com/goccy/go-json"
)

// DefaultBaseIRI is used for entities without an absolute IRI.
const DefaultBaseIRI = "https://sckan.metacell.us"

// Exporter accumulates statements and serializes them as RDF.
type Exporter struct {
	profile Profile
	baseIRI string
	now     func() time.Time
	triples []message.Triple
	count   int
}

// NewExporter creates an exporter. An empty baseIRI means DefaultBaseIRI.
func NewExporter(profile Profile, baseIRI string) *Exporter {
	if baseIRI == "" {
		baseIRI = DefaultBaseIRI
	}
	return &Exporter{profile: profile, baseIRI: baseIRI, now: time.Now}
}

// AddStatement adds one statement.
func (e *Exporter) AddStatement(s *connectivity.Statement, snapshotID string) {
	e.triples = append(e.triples, StatementTriples(s, snapshotID, e.profile, e.now())...)
	e.count++
}

// AddRecords decodes stored records as statements and adds them. Records
// that are not statements are skipped and counted.
func (e *Exporter) AddRecords(records []storage.Record) (skipped int) {
	for _, r := range records {
		var s connectivity.Statement
		if err := json.Unmarshal(r.Data, &s); err != nil || s.ID == "" {
			skipped++
			continue
		}
		e.AddStatement(&s, r.SnapshotID)
	}
	return skipped
}

// Len returns the number of statements added.
func (e *Exporter) Len() int { return e.count }

// Triples returns the accumulated triples.
func (e *Exporter) Triples() []message.Triple { return e.triples }

// Export serializes all statements in format.
func (e *Exporter) Export(format Format) (string, error) {
	if _, ok := Formats[format]; !ok {
		return "", fmt.Errorf("unsupported format: %s", format)
	}
	out, err := ssexport.SerializeToString(e.triples, format.serializer(), ssexport.WithBaseIRI(e.baseIRI))
	if err != nil {
		return "", fmt.Errorf("serialize %s: %w", format, err)
	}
	return out, nil
}

// Encode serializes all statements in format to w.
func (e *Exporter) Encode(w io.Writer, format Format) error {
	out, err := e.Export(format)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
