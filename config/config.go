// Package config provides configuration loading and management for sckanner.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MetaCell/sckan-explorer/blob"
	"gopkg.in/yaml.v3"
)

// Config represents the complete sckanner configuration
type Config struct {
	Ingest  IngestConfig  `yaml:"ingest"`
	Storage StorageConfig `yaml:"storage"`
	NATS    NATSConfig    `yaml:"nats"`
	Blob    BlobConfig    `yaml:"blob"`
	Export  ExportConfig  `yaml:"export"`
	Watch   WatchConfig   `yaml:"watch"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// IngestConfig configures the ingestion pipeline
type IngestConfig struct {
	// Workers bounds parallel normalization (0 = GOMAXPROCS)
	Workers int `yaml:"workers"`
	// ReferenceURIKey is the statement field used as reference URI
	ReferenceURIKey string `yaml:"reference_uri_key"`
	// StatementAlertURIs selects the annotations kept as statement alerts
	StatementAlertURIs []string `yaml:"statement_alert_uris"`
	// Include lists default record files or globs
	Include []string `yaml:"include"`
}

// StorageConfig selects the statement store
type StorageConfig struct {
	// Driver is one of memory, sqlite, postgres, kv
	Driver      string `yaml:"driver"`
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

// NATSConfig configures the NATS connection
type NATSConfig struct {
	// URL is the NATS server URL (empty = use embedded server)
	URL string `yaml:"url"`
	// Embedded indicates whether to use embedded NATS
	Embedded bool `yaml:"embedded"`
	// Subject receives statement entities; empty disables publishing
	Subject string `yaml:"subject"`
	// StoreDir holds embedded JetStream data (empty = temp dir)
	StoreDir string `yaml:"store_dir"`
}

// BlobConfig configures the archive of ingestion logs
type BlobConfig struct {
	// Driver is "", fs or s3 (empty disables archiving)
	Driver string        `yaml:"driver"`
	FSRoot string        `yaml:"fs_root"`
	S3     blob.S3Config `yaml:"s3"`
}

// ExportConfig configures RDF export
type ExportConfig struct {
	// Format is turtle, ntriples or jsonld
	Format string `yaml:"format"`
	// Profile is minimal, bfo or cco
	Profile string `yaml:"profile"`
	BaseIRI string `yaml:"base_iri"`
}

// WatchConfig configures watch mode
type WatchConfig struct {
	Debounce    time.Duration `yaml:"debounce"`
	Extensions  []string      `yaml:"extensions"`
	ExcludeDirs []string      `yaml:"exclude_dirs"`
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	// Addr is the listen address (empty = disabled)
	Addr string `yaml:"addr"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Ingest: IngestConfig{
			Workers:         0,
			ReferenceURIKey: "id",
		},
		Storage: StorageConfig{
			Driver:     "sqlite",
			SQLitePath: "sckanner.db",
		},
		NATS: NATSConfig{
			URL:      "",
			Embedded: false,
		},
		Export: ExportConfig{
			Format:  "turtle",
			Profile: "minimal",
			BaseIRI: "https://sckan.metacell.us",
		},
		Watch: WatchConfig{
			Debounce:    500 * time.Millisecond,
			Extensions:  []string{".json", ".jsonl"},
			ExcludeDirs: []string{".git", "node_modules"},
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Ingest.Workers < 0 {
		return fmt.Errorf("ingest.workers must not be negative")
	}
	if c.Ingest.ReferenceURIKey == "" {
		return fmt.Errorf("ingest.reference_uri_key is required")
	}

	switch c.Storage.Driver {
	case "memory", "sqlite":
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage.postgres_dsn is required for the postgres driver")
		}
	case "kv":
		if c.NATS.URL == "" && !c.NATS.Embedded {
			return fmt.Errorf("storage driver kv requires nats.url or nats.embedded")
		}
	default:
		return fmt.Errorf("unsupported storage.driver: %q (valid: memory, sqlite, postgres, kv)", c.Storage.Driver)
	}

	switch c.Blob.Driver {
	case "", "fs":
	case "s3":
		if c.Blob.S3.Bucket == "" {
			return fmt.Errorf("blob.s3.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("unsupported blob.driver: %q (valid: fs, s3)", c.Blob.Driver)
	}

	switch c.Export.Format {
	case "turtle", "ntriples", "jsonld":
	default:
		return fmt.Errorf("unsupported export.format: %q (valid: turtle, ntriples, jsonld)", c.Export.Format)
	}

	if c.NATS.Subject != "" && c.NATS.URL == "" && !c.NATS.Embedded {
		return fmt.Errorf("nats.subject requires nats.url or nats.embedded")
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

// NeedsNATS reports whether a NATS connection is required.
func (c *Config) NeedsNATS() bool {
	return c.Storage.Driver == "kv" || c.NATS.Subject != ""
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Ingest
	if other.Ingest.Workers != 0 {
		c.Ingest.Workers = other.Ingest.Workers
	}
	if other.Ingest.ReferenceURIKey != "" {
		c.Ingest.ReferenceURIKey = other.Ingest.ReferenceURIKey
	}
	if len(other.Ingest.StatementAlertURIs) > 0 {
		c.Ingest.StatementAlertURIs = other.Ingest.StatementAlertURIs
	}
	if len(other.Ingest.Include) > 0 {
		c.Ingest.Include = other.Ingest.Include
	}

	// Storage
	if other.Storage.Driver != "" {
		c.Storage.Driver = other.Storage.Driver
	}
	if other.Storage.SQLitePath != "" {
		c.Storage.SQLitePath = other.Storage.SQLitePath
	}
	if other.Storage.PostgresDSN != "" {
		c.Storage.PostgresDSN = other.Storage.PostgresDSN
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
		c.NATS.Embedded = false
	} else if other.NATS.Embedded {
		c.NATS.Embedded = true
	}
	if other.NATS.Subject != "" {
		c.NATS.Subject = other.NATS.Subject
	}
	if other.NATS.StoreDir != "" {
		c.NATS.StoreDir = other.NATS.StoreDir
	}

	// Blob
	if other.Blob.Driver != "" {
		c.Blob.Driver = other.Blob.Driver
	}
	if other.Blob.FSRoot != "" {
		c.Blob.FSRoot = other.Blob.FSRoot
	}
	if other.Blob.S3.Bucket != "" {
		c.Blob.S3 = other.Blob.S3
	}

	// Export
	if other.Export.Format != "" {
		c.Export.Format = other.Export.Format
	}
	if other.Export.Profile != "" {
		c.Export.Profile = other.Export.Profile
	}
	if other.Export.BaseIRI != "" {
		c.Export.BaseIRI = other.Export.BaseIRI
	}

	// Watch
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}
	if len(other.Watch.Extensions) > 0 {
		c.Watch.Extensions = other.Watch.Extensions
	}
	if len(other.Watch.ExcludeDirs) > 0 {
		c.Watch.ExcludeDirs = other.Watch.ExcludeDirs
	}

	// Metrics
	if other.Metrics.Addr != "" {
		c.Metrics.Addr = other.Metrics.Addr
	}
}
