package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/MetaCell/sckan-explorer/blob"
	"github.com/MetaCell/sckan-explorer/config"
	"github.com/MetaCell/sckan-explorer/export"
	"github.com/MetaCell/sckan-explorer/graph"
	"github.com/MetaCell/sckan-explorer/ingest"
	"github.com/MetaCell/sckan-explorer/source"
	"github.com/MetaCell/sckan-explorer/source/decoder"
	"github.com/MetaCell/sckan-explorer/storage"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App wires together all components.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	// NATS
	embeddedServer *server.Server
	natsConn       *nats.Conn
	js             jetstream.JetStream

	// Storage
	store storage.Store
	blobs blob.Store

	// Metrics
	registry      *prometheus.Registry
	metricsServer *http.Server

	decoders *decoder.Registry
	pipeline *ingest.Pipeline
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		decoders: decoder.DefaultRegistry,
	}
}

// Start initializes all components.
func (a *App) Start(ctx context.Context) error {
	if a.cfg.NeedsNATS() {
		if err := a.startNATS(ctx); err != nil {
			return fmt.Errorf("start NATS: %w", err)
		}
	}

	store, err := storage.Open(ctx, storage.Options{
		Driver:      a.cfg.Storage.Driver,
		SQLitePath:  a.cfg.Storage.SQLitePath,
		PostgresDSN: a.cfg.Storage.PostgresDSN,
		JetStream:   a.js,
	})
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	a.store = store

	blobs, err := blob.Open(ctx, blob.Options{
		Driver: a.cfg.Blob.Driver,
		FSRoot: a.cfg.Blob.FSRoot,
		S3:     a.cfg.Blob.S3,
	})
	if err != nil {
		return fmt.Errorf("initialize blob store: %w", err)
	}
	a.blobs = blobs

	a.registry.MustRegister(collectors.NewGoCollector())
	opts := []ingest.Option{
		ingest.WithLogger(a.logger),
		ingest.WithMetrics(ingest.NewMetrics(a.registry)),
	}
	if a.blobs != nil {
		opts = append(opts, ingest.WithBlobStore(a.blobs))
	}
	if a.cfg.NATS.Subject != "" {
		if err := graph.EnsureStream(ctx, a.js, a.cfg.NATS.Subject); err != nil {
			return err
		}
		profile, err := export.ParseProfile(a.cfg.Export.Profile)
		if err != nil {
			return err
		}
		opts = append(opts, ingest.WithPublisher(graph.NewPublisher(a.js, a.cfg.NATS.Subject, profile, a.logger)))
	}

	a.pipeline = ingest.NewPipeline(ingest.Config{
		Workers:            a.cfg.Ingest.Workers,
		ReferenceURIKey:    a.cfg.Ingest.ReferenceURIKey,
		StatementAlertURIs: a.cfg.Ingest.StatementAlertURIs,
	}, a.store, opts...)

	if a.cfg.Metrics.Addr != "" {
		a.startMetrics()
	}

	a.logger.Debug("Components initialized",
		"storage", a.cfg.Storage.Driver,
		"blob", a.cfg.Blob.Driver,
		"nats", a.natsConn != nil)
	return nil
}

func (a *App) startNATS(ctx context.Context) error {
	if a.cfg.NATS.URL != "" && !a.cfg.NATS.Embedded {
		// Connect to external NATS
		a.logger.Info("Connecting to NATS", "url", a.cfg.NATS.URL)
		conn, err := nats.Connect(a.cfg.NATS.URL, nats.Name(appName))
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		a.natsConn = conn
	} else {
		// Start embedded NATS server
		a.logger.Info("Starting embedded NATS server")
		opts := &server.Options{
			Port:      -1, // Random available port
			JetStream: true,
			StoreDir:  a.cfg.NATS.StoreDir,
			NoLog:     true,
			NoSigs:    true,
		}

		ns, err := server.NewServer(opts)
		if err != nil {
			return fmt.Errorf("create embedded NATS server: %w", err)
		}

		go ns.Start()

		// Wait for server to be ready
		if !ns.ReadyForConnections(5 * time.Second) {
			ns.Shutdown()
			return fmt.Errorf("embedded NATS server failed to start")
		}

		a.embeddedServer = ns

		// Connect to embedded server
		conn, err := nats.Connect(ns.ClientURL(), nats.Name(appName))
		if err != nil {
			ns.Shutdown()
			return fmt.Errorf("connect to embedded NATS: %w", err)
		}
		a.natsConn = conn
	}

	// Get JetStream context
	js, err := jetstream.New(a.natsConn)
	if err != nil {
		return fmt.Errorf("create JetStream context: %w", err)
	}
	a.js = js

	return ctx.Err()
}

func (a *App) startMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{Registry: a.registry}))
	a.metricsServer = &http.Server{
		Addr:              a.cfg.Metrics.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.logger.Info("Serving metrics", "addr", a.cfg.Metrics.Addr)
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Metrics server failed", "error", err)
		}
	}()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown(timeout time.Duration) {
	if a.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			a.logger.Warn("Failed to stop metrics server", "error", err)
		}
		cancel()
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("Failed to close storage", "error", err)
		}
	}

	// Close NATS connection
	if a.natsConn != nil {
		_ = a.natsConn.Drain()
		a.natsConn.Close()
	}

	// Shutdown embedded server
	if a.embeddedServer != nil {
		a.embeddedServer.Shutdown()
		a.embeddedServer.WaitForShutdown()
	}
}

// decodeFiles reads and decodes the record files matched by patterns.
func (a *App) decodeFiles(kind source.Kind, patterns []string) ([]*decoder.Batch, error) {
	files, err := source.ResolveFiles(patterns, a.cfg.Watch.Extensions)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no record files match %v", patterns)
	}

	batches := make([]*decoder.Batch, 0, len(files))
	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		batch, err := a.decoders.Decode(kind, f, content)
		if err != nil {
			return nil, err
		}
		a.logger.Debug("Decoded record file", "file", f, "records", batch.Len(), "problems", len(batch.Problems))
		batches = append(batches, batch)
	}
	return batches, nil
}

// Ingest decodes the files and replaces the snapshot of kind. With dryRun
// nothing is persisted.
func (a *App) Ingest(ctx context.Context, kind source.Kind, patterns []string, dryRun bool) (*ingest.Result, error) {
	batches, err := a.decodeFiles(kind, patterns)
	if err != nil {
		return nil, err
	}
	if dryRun {
		return a.pipeline.Process(ctx, kind, batches...)
	}
	return a.pipeline.Run(ctx, kind, batches...)
}

// Export writes the statements of a snapshot as RDF. An empty snapshotID
// selects the latest completed snapshot of kind.
func (a *App) Export(ctx context.Context, w io.Writer, kind source.Kind, snapshotID string, format export.Format, profile export.Profile) (*storage.Snapshot, error) {
	var (
		snap *storage.Snapshot
		err  error
	)
	if snapshotID != "" {
		snap, err = a.store.Snapshot(ctx, snapshotID)
	} else {
		snap, err = storage.LatestSnapshot(ctx, a.store, kind)
	}
	if err != nil {
		return nil, err
	}

	records, err := a.store.Statements(ctx, snap.ID)
	if err != nil {
		return nil, err
	}

	exp := export.NewExporter(profile, a.cfg.Export.BaseIRI)
	if skipped := exp.AddRecords(records); skipped > 0 {
		a.logger.Warn("Skipped records that are not statements", "snapshot_id", snap.ID, "skipped", skipped)
	}
	if err := exp.Encode(w, format); err != nil {
		return nil, err
	}
	return snap, nil
}

// Watch ingests the record files below root and re-ingests them whenever
// one of them changes, until ctx is done.
func (a *App) Watch(ctx context.Context, kind source.Kind, root string, report func(*ingest.Result)) error {
	w, err := ingest.NewRecordWatcher(ingest.WatchConfig{
		Debounce:    a.cfg.Watch.Debounce,
		Extensions:  a.cfg.Watch.Extensions,
		ExcludeDirs: a.cfg.Watch.ExcludeDirs,
	}, root, a.logger)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	run := func() {
		res, err := a.Ingest(ctx, kind, []string{root}, false)
		if err != nil {
			a.logger.Error("Ingestion failed", "source", kind, "root", root, "error", err)
		}
		if res != nil && report != nil {
			report(res)
		}
	}

	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	run()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events():
			if !ok {
				return nil
			}
			a.logger.Info("Record file changed", "path", event.Path, "op", event.Operation)
			run()
		}
	}
}
