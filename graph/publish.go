// Package graph publishes connectivity statements to the knowledge graph
// over NATS JetStream.
package graph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MetaCell/sckan-explorer/connectivity"
	"github.com/MetaCell/sckan-explorer/export"
	"github.com/MetaCell/sckan-explorer/storage"
	"github.com/c360studio/semstreams/message"
	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go/jetstream"
)

// GraphIngestSubject is the subject for graph ingestion.
const GraphIngestSubject = "graph.ingest.entity"

// StreamName is the JetStream stream that captures graph ingestion.
const StreamName = "GRAPH"

// StreamPublisher is the part of jetstream.JetStream the publisher needs.
type StreamPublisher interface {
	Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// Publisher sends every statement of a snapshot, and each of its segments,
// as one entity message.
type Publisher struct {
	js      StreamPublisher
	subject string
	profile export.Profile
	logger  *slog.Logger
}

// NewPublisher creates a publisher. An empty subject means
// GraphIngestSubject.
func NewPublisher(js StreamPublisher, subject string, profile export.Profile, logger *slog.Logger) *Publisher {
	if subject == "" {
		subject = GraphIngestSubject
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{js: js, subject: subject, profile: profile, logger: logger}
}

// Publish implements ingest.Publisher.
func (p *Publisher) Publish(ctx context.Context, snap *storage.Snapshot, statements []*connectivity.Statement) error {
	if p.js == nil {
		return nil // Skip publishing without a NATS connection
	}

	now := time.Now()
	published := 0
	for _, s := range statements {
		triples := export.StatementTriples(s, snap.ID, p.profile, now)
		for _, payload := range groupBySubject(triples, now) {
			if err := payload.Validate(); err != nil {
				return fmt.Errorf("statement %s: %w", s.ID, err)
			}
			data, err := json.Marshal(payload)
			if err != nil {
				return fmt.Errorf("marshal entity %s: %w", payload.EntityID(), err)
			}
			if _, err := p.js.Publish(ctx, p.subject, data); err != nil {
				return fmt.Errorf("publish entity %s: %w", payload.EntityID(), err)
			}
			published++
		}
	}

	p.logger.Info("Published statements to graph",
		"snapshot_id", snap.ID,
		"statements", len(statements),
		"entities", published,
		"subject", p.subject)
	return nil
}

// groupBySubject splits triples into one payload per subject, in first-seen
// order.
func groupBySubject(triples []message.Triple, now time.Time) []*EntityPayload {
	var out []*EntityPayload
	index := make(map[string]*EntityPayload)
	for _, tr := range triples {
		payload, ok := index[tr.Subject]
		if !ok {
			payload = &EntityPayload{EntityID_: tr.Subject, UpdatedAt: now}
			index[tr.Subject] = payload
			out = append(out, payload)
		}
		payload.TripleData = append(payload.TripleData, tr)
	}
	return out
}

// EnsureStream creates or updates the stream capturing subject.
func EnsureStream(ctx context.Context, js jetstream.JetStream, subject string) error {
	if subject == "" {
		subject = GraphIngestSubject
	}
	_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Description: "Connectivity statement entities for graph ingestion",
		Subjects:    []string{subject},
	})
	if err != nil {
		return fmt.Errorf("ensure %s stream: %w", StreamName, err)
	}
	return nil
}
