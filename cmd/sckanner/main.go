// Package main provides the sckanner binary entry point.
// Sckanner ingests SCKAN connectivity records, normalizes them into
// connectivity statements and keeps one snapshot per source.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/MetaCell/sckan-explorer/config"
	"github.com/MetaCell/sckan-explorer/export"
	"github.com/MetaCell/sckan-explorer/ingest"
	"github.com/MetaCell/sckan-explorer/source"
	"github.com/spf13/cobra"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "sckanner"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "SCKAN connectivity statement ingestion",
		Long: `Sckanner ingests SCKAN connectivity records and normalizes them into
connectivity statements.

It provides:
- Ingestion of NeuronDM and Composer record files into snapshots
- Validation and anomaly reports for every ingestion
- RDF export of stored snapshots
- Publication of statements to a NATS JetStream knowledge graph`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		ingestCmd(flags),
		watchCmd(flags),
		exportCmd(flags),
		snapshotsCmd(flags),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}

func newLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// startApp loads configuration, applies overrides and starts the app. The
// caller must call Shutdown.
func startApp(ctx context.Context, flags *globalFlags, override func(*config.Config)) (*App, error) {
	logger := newLogger(flags.logLevel)

	loader := config.NewLoader(logger)
	loader.File = flags.configPath
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if override != nil {
		override(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}

	app := NewApp(cfg, logger)
	if err := app.Start(ctx); err != nil {
		app.Shutdown(shutdownTimeout)
		return nil, err
	}
	return app, nil
}

func ingestCmd(flags *globalFlags) *cobra.Command {
	var (
		sourceName string
		dryRun     bool
		workers    int
	)

	cmd := &cobra.Command{
		Use:   "ingest [files or globs...]",
		Short: "Ingest record files and replace the source snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := source.ParseKind(sourceName)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			app, err := startApp(ctx, flags, func(c *config.Config) {
				if workers > 0 {
					c.Ingest.Workers = workers
				}
			})
			if err != nil {
				return err
			}
			defer app.Shutdown(shutdownTimeout)

			patterns := args
			if len(patterns) == 0 {
				patterns = app.cfg.Ingest.Include
			}
			if len(patterns) == 0 {
				return fmt.Errorf("no record files given and ingest.include is empty")
			}

			res, err := app.Ingest(ctx, kind, patterns, dryRun)
			if res != nil {
				printResult(cmd.OutOrStdout(), res)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&sourceName, "source", "s", string(source.KindNeuronDM), "Source of the records (neurondm, composer)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate without storing a snapshot")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel normalization workers (0 = config)")

	return cmd
}

func watchCmd(flags *globalFlags) *cobra.Command {
	var sourceName string

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Re-ingest a directory of record files whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := source.ParseKind(sourceName)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			app, err := startApp(ctx, flags, nil)
			if err != nil {
				return err
			}
			defer app.Shutdown(shutdownTimeout)

			out := cmd.OutOrStdout()
			return app.Watch(ctx, kind, args[0], func(res *ingest.Result) {
				printResult(out, res)
			})
		},
	}

	cmd.Flags().StringVarP(&sourceName, "source", "s", string(source.KindNeuronDM), "Source of the records (neurondm, composer)")

	return cmd
}

func exportCmd(flags *globalFlags) *cobra.Command {
	var (
		sourceName  string
		snapshotID  string
		formatName  string
		profileName string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a stored snapshot as RDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := source.ParseKind(sourceName)
			if err != nil {
				return err
			}

			app, err := startApp(cmd.Context(), flags, func(c *config.Config) {
				if formatName != "" {
					c.Export.Format = formatName
				}
				if profileName != "" {
					c.Export.Profile = profileName
				}
			})
			if err != nil {
				return err
			}
			defer app.Shutdown(shutdownTimeout)

			format, err := export.ParseFormat(app.cfg.Export.Format)
			if err != nil {
				return err
			}
			profile, err := export.ParseProfile(app.cfg.Export.Profile)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			snap, err := app.Export(cmd.Context(), w, kind, snapshotID, format, profile)
			if err != nil {
				return err
			}
			app.logger.Info("Exported snapshot",
				"snapshot_id", snap.ID,
				"statements", snap.StatementCount,
				"format", format)
			return nil
		},
	}

	cmd.Flags().StringVarP(&sourceName, "source", "s", string(source.KindNeuronDM), "Source whose latest snapshot is exported")
	cmd.Flags().StringVar(&snapshotID, "snapshot", "", "Snapshot ID (default: latest completed)")
	cmd.Flags().StringVarP(&formatName, "format", "f", "", "Output format (turtle, ntriples, jsonld)")
	cmd.Flags().StringVar(&profileName, "profile", "", "Ontology profile (minimal, bfo, cco)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func snapshotsCmd(flags *globalFlags) *cobra.Command {
	var sourceName string

	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List the snapshots of a source, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := source.ParseKind(sourceName)
			if err != nil {
				return err
			}

			app, err := startApp(cmd.Context(), flags, nil)
			if err != nil {
				return err
			}
			defer app.Shutdown(shutdownTimeout)

			snapshots, err := app.store.Snapshots(cmd.Context(), kind)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tSTATUS\tSTATEMENTS")
			for _, s := range snapshots {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", s.ID, s.CreatedAt.Format(time.RFC3339), s.Status, s.StatementCount)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&sourceName, "source", "s", string(source.KindNeuronDM), "Source to list")

	return cmd
}

// printResult writes a summary of an ingestion.
func printResult(w io.Writer, res *ingest.Result) {
	errs, warns := 0, 0
	for _, a := range res.Anomalies {
		if a.Severity == ingest.SeverityError {
			errs++
		} else {
			warns++
		}
	}

	fmt.Fprintf(w, "Source:      %s\n", res.Source)
	if res.Snapshot != nil {
		fmt.Fprintf(w, "Snapshot:    %s\n", res.Snapshot.ID)
	} else {
		fmt.Fprintln(w, "Snapshot:    (not stored)")
	}
	fmt.Fprintf(w, "Statements:  %d (%d invalid)\n", len(res.Records), res.Invalid())
	fmt.Fprintf(w, "Anomalies:   %d errors, %d warnings\n", errs, warns)
	for _, key := range res.Artifacts {
		fmt.Fprintf(w, "Artifact:    %s\n", key)
	}
}
