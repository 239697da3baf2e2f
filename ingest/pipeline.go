// Package ingest runs decoded record batches through normalization and
// persists the resulting statements as a snapshot of their source.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/MetaCell/sckan-explorer/blob"
	"github.com/MetaCell/sckan-explorer/connectivity"
	"github.com/MetaCell/sckan-explorer/source"
	"github.com/MetaCell/sckan-explorer/source/decoder"
	"github.com/MetaCell/sckan-explorer/storage"
	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
)

// DefaultReferenceURIKey is the statement field used as reference URI.
const DefaultReferenceURIKey = "id"

// Artifact names archived per snapshot.
const (
	AnomaliesFile = "anomalies.csv"
	IngestedFile  = "ingested.csv"
)

// Config tunes a pipeline.
type Config struct {
	// Workers bounds parallel normalization. Zero means GOMAXPROCS.
	Workers int

	// ReferenceURIKey names the statement field that identifies a record.
	ReferenceURIKey string

	// StatementAlertURIs selects the annotations kept as statement alerts.
	StatementAlertURIs []string
}

// Publisher receives the statements of a committed snapshot.
type Publisher interface {
	Publish(ctx context.Context, snapshot *storage.Snapshot, statements []*connectivity.Statement) error
}

// Result summarises one ingestion.
type Result struct {
	Source   source.Kind
	Snapshot *storage.Snapshot

	// Statements holds the normalized statements; empty for sources that
	// are passed through.
	Statements []*connectivity.Statement

	Records   []storage.Record
	Anomalies []Anomaly
	Ingested  []IngestedEntry

	// Artifacts lists the archived blob keys.
	Artifacts []string
}

// Invalid returns the number of ingested statements with validation errors.
func (r *Result) Invalid() int {
	n := 0
	for _, e := range r.Ingested {
		if e.State == StateInvalid {
			n++
		}
	}
	return n
}

// Pipeline normalizes batches and persists them.
type Pipeline struct {
	cfg       Config
	alertURIs map[string]struct{}
	store     storage.Store
	blobs     blob.Store
	publisher Publisher
	metrics   *Metrics
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithBlobStore archives the ingestion logs of every snapshot.
func WithBlobStore(s blob.Store) Option {
	return func(p *Pipeline) { p.blobs = s }
}

// WithPublisher publishes the statements of every snapshot.
func WithPublisher(pub Publisher) Option {
	return func(p *Pipeline) { p.publisher = pub }
}

// WithMetrics records run metrics.
func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPipeline creates a pipeline persisting to store. A nil store makes
// Run behave like Process.
func NewPipeline(cfg Config, store storage.Store, opts ...Option) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.ReferenceURIKey == "" {
		cfg.ReferenceURIKey = DefaultReferenceURIKey
	}
	alerts := make(map[string]struct{}, len(cfg.StatementAlertURIs))
	for _, uri := range cfg.StatementAlertURIs {
		alerts[uri] = struct{}{}
	}

	p := &Pipeline{
		cfg:       cfg,
		alertURIs: alerts,
		store:     store,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes the batches of one source and replaces its snapshot.
// Archive and publish failures are returned with the result; the snapshot
// is committed by then.
func (p *Pipeline) Run(ctx context.Context, kind source.Kind, batches ...*decoder.Batch) (*Result, error) {
	start := time.Now()
	res, err := p.Process(ctx, kind, batches...)
	if err == nil && p.store != nil {
		err = p.persist(ctx, res)
	}
	p.metrics.observeRun(kind, err, time.Since(start))
	p.metrics.observeResult(kind, res)
	return res, err
}

// Process normalizes the batches of one source into records without
// persisting them.
func (p *Pipeline) Process(ctx context.Context, kind source.Kind, batches ...*decoder.Batch) (*Result, error) {
	log := NewAnomalyLog()
	for _, b := range batches {
		if b.Kind != kind {
			return nil, fmt.Errorf("batch %s is %s, expected %s", b.Filename, b.Kind, kind)
		}
		for _, prob := range b.Problems {
			log.Add(Anomaly{
				Severity:    SeverityError,
				StatementID: prob.StatementID,
				EntityID:    prob.EntityID,
				Message:     prob.Message,
			})
		}
	}

	res := &Result{Source: kind, Statements: []*connectivity.Statement{}}
	var raw []rawStatement
	switch kind {
	case source.KindNeuronDM:
		statements, err := p.normalize(ctx, kind, batches, log)
		if err != nil {
			return nil, err
		}
		resolveForwardConnections(statements, log)
		for _, s := range statements {
			data, err := json.Marshal(s)
			if err != nil {
				return nil, fmt.Errorf("marshal statement %s: %w", s.ID, err)
			}
			raw = append(raw, rawStatement{data: data, statement: s})
		}
		res.Statements = statements
	case source.KindComposer:
		for _, b := range batches {
			for _, data := range b.Statements {
				raw = append(raw, rawStatement{data: data})
			}
		}
	default:
		return nil, fmt.Errorf("%w: %q", source.ErrUnknownKind, kind)
	}

	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		ref, err := referenceURI(r.data, p.cfg.ReferenceURIKey)
		if err != nil {
			log.Add(Anomaly{Severity: SeverityError, StatementID: r.id(), Message: MsgMissingReference})
			continue
		}
		if _, ok := seen[ref]; ok {
			log.Add(Anomaly{Severity: SeverityError, StatementID: ref, Message: MsgDuplicateReference})
			continue
		}
		seen[ref] = struct{}{}
		res.Records = append(res.Records, storage.Record{ReferenceURI: ref, Data: r.data})
		res.Ingested = append(res.Ingested, r.ingested())
	}

	res.Anomalies = log.Anomalies()
	p.logger.Debug("Processed batches",
		"source", kind,
		"records", len(res.Records),
		"errors", log.Count(SeverityError),
		"warnings", log.Count(SeverityWarning))
	return res, nil
}

// normalize maps the neurons of batches to statements in parallel. Output
// and anomalies keep input order.
func (p *Pipeline) normalize(ctx context.Context, kind source.Kind, batches []*decoder.Batch, log *AnomalyLog) ([]*connectivity.Statement, error) {
	var neurons []*connectivity.Neuron
	nodes := 0
	for _, b := range batches {
		for _, n := range b.Neurons {
			if n.PartialOrder != nil {
				nodes += n.PartialOrder.Size()
			}
			neurons = append(neurons, n)
		}
	}

	opts := connectivity.Options{SourceLabel: kind.Label(), StatementAlertURIs: p.alertURIs}
	type outcome struct {
		statement *connectivity.Statement
		anomalies []Anomaly
	}
	outcomes := make([]outcome, len(neurons))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)
	for i, n := range neurons {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := connectivity.Normalize(n, opts)
			if err != nil {
				var ie *connectivity.InconsistencyError
				if !errors.As(err, &ie) {
					return fmt.Errorf("normalize %s: %w", n.ID, err)
				}
				outcomes[i].anomalies = []Anomaly{{
					Severity:    SeverityError,
					StatementID: ie.StatementID,
					EntityID:    ie.EntityID,
					Message:     ie.Message,
				}}
				return nil
			}
			outcomes[i].statement = s
			for _, entity := range s.ValidationErrors.AxiomNotFound.Sorted() {
				outcomes[i].anomalies = append(outcomes[i].anomalies, Anomaly{
					Severity:    SeverityWarning,
					StatementID: s.ID,
					EntityID:    entity,
					Message:     MsgEntityNotInAxioms,
				})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	statements := make([]*connectivity.Statement, 0, len(neurons))
	for _, o := range outcomes {
		for _, a := range o.anomalies {
			log.Add(a)
		}
		if o.statement != nil {
			statements = append(statements, o.statement)
		}
	}
	p.logger.Debug("Normalized neurons",
		"source", kind,
		"neurons", len(neurons),
		"partial_order_nodes", nodes,
		"statements", len(statements))
	return statements, nil
}

func (p *Pipeline) persist(ctx context.Context, res *Result) error {
	snap, err := p.store.ReplaceSnapshot(ctx, res.Source, res.Records)
	if err != nil {
		return fmt.Errorf("replace %s snapshot: %w", res.Source, err)
	}
	res.Snapshot = snap
	p.logger.Info("Snapshot stored",
		"source", res.Source,
		"snapshot_id", snap.ID,
		"statements", snap.StatementCount,
		"anomalies", len(res.Anomalies))

	var errs []error
	if p.blobs != nil {
		keys, err := p.archive(ctx, res)
		res.Artifacts = keys
		if err != nil {
			errs = append(errs, err)
		}
	}
	if p.publisher != nil && len(res.Statements) > 0 {
		if err := p.publisher.Publish(ctx, snap, res.Statements); err != nil {
			p.logger.Warn("Failed to publish statements", "snapshot_id", snap.ID, "error", err)
			errs = append(errs, fmt.Errorf("publish snapshot %s: %w", snap.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (p *Pipeline) archive(ctx context.Context, res *Result) ([]string, error) {
	var anomalies, ingested bytes.Buffer
	if err := WriteAnomaliesCSV(&anomalies, res.Anomalies); err != nil {
		return nil, err
	}
	if err := WriteIngestedCSV(&ingested, res.Ingested); err != nil {
		return nil, err
	}
	keys, err := blob.ArchiveSnapshot(ctx, p.blobs, res.Snapshot.ID, map[string][]byte{
		AnomaliesFile: anomalies.Bytes(),
		IngestedFile:  ingested.Bytes(),
	})
	if err != nil {
		p.logger.Warn("Failed to archive ingestion logs", "snapshot_id", res.Snapshot.ID, "error", err)
		return keys, fmt.Errorf("archive snapshot %s: %w", res.Snapshot.ID, err)
	}
	return keys, nil
}

// rawStatement is an encoded statement, with its normalized form when the
// source was normalized.
type rawStatement struct {
	data      json.RawMessage
	statement *connectivity.Statement
}

func (r rawStatement) id() string {
	if r.statement != nil {
		return r.statement.ID
	}
	var head struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(r.data, &head)
	return head.ID
}

func (r rawStatement) ingested() IngestedEntry {
	if s := r.statement; s != nil {
		e := IngestedEntry{ID: s.ID, Label: s.Label, State: StateExported}
		if s.ValidationErrors.HasErrors() {
			e.State = StateInvalid
			e.Reason = s.ValidationErrors.String()
		}
		return e
	}
	var head struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	}
	_ = json.Unmarshal(r.data, &head)
	return IngestedEntry{ID: head.ID, Label: head.Label, State: StateExported}
}

// referenceURI extracts the string field key of a JSON object.
func referenceURI(data []byte, key string) (string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return "", fmt.Errorf("decode statement: %w", err)
	}
	value, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("statement has no %q field", key)
	}
	var ref string
	if err := json.Unmarshal(value, &ref); err != nil {
		return "", fmt.Errorf("field %q is not a string: %w", key, err)
	}
	if ref == "" {
		return "", fmt.Errorf("field %q is empty", key)
	}
	return ref, nil
}
