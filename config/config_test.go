package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Storage.Driver != "sqlite" {
		t.Errorf("expected default storage driver sqlite, got %s", cfg.Storage.Driver)
	}
	if cfg.Ingest.ReferenceURIKey != "id" {
		t.Errorf("expected default reference_uri_key id, got %s", cfg.Ingest.ReferenceURIKey)
	}
	if cfg.Export.Format != "turtle" {
		t.Errorf("expected default export format turtle, got %s", cfg.Export.Format)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("expected default debounce 500ms, got %v", cfg.Watch.Debounce)
	}
	if cfg.NeedsNATS() {
		t.Error("expected default config to run without NATS")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "negative workers",
			modify:  func(c *Config) { c.Ingest.Workers = -1 },
			wantErr: true,
		},
		{
			name:    "missing reference key",
			modify:  func(c *Config) { c.Ingest.ReferenceURIKey = "" },
			wantErr: true,
		},
		{
			name:    "unknown storage driver",
			modify:  func(c *Config) { c.Storage.Driver = "mongo" },
			wantErr: true,
		},
		{
			name:    "postgres without dsn",
			modify:  func(c *Config) { c.Storage.Driver = "postgres" },
			wantErr: true,
		},
		{
			name: "postgres with dsn",
			modify: func(c *Config) {
				c.Storage.Driver = "postgres"
				c.Storage.PostgresDSN = "postgres://localhost/sckanner"
			},
			wantErr: false,
		},
		{
			name:    "kv without nats",
			modify:  func(c *Config) { c.Storage.Driver = "kv" },
			wantErr: true,
		},
		{
			name: "kv with embedded nats",
			modify: func(c *Config) {
				c.Storage.Driver = "kv"
				c.NATS.Embedded = true
			},
			wantErr: false,
		},
		{
			name:    "s3 without bucket",
			modify:  func(c *Config) { c.Blob.Driver = "s3" },
			wantErr: true,
		},
		{
			name:    "unknown blob driver",
			modify:  func(c *Config) { c.Blob.Driver = "gcs" },
			wantErr: true,
		},
		{
			name:    "unknown export format",
			modify:  func(c *Config) { c.Export.Format = "rdfxml" },
			wantErr: true,
		},
		{
			name:    "subject without nats",
			modify:  func(c *Config) { c.NATS.Subject = "graph.ingest.entity" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temp file with config
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
ingest:
  workers: 4
  statement_alert_uris:
    - "http://uri.interlex.org/tgbugs/uris/readable/alertNote"
storage:
  driver: postgres
  postgres_dsn: "postgres://db/sckanner"
blob:
  driver: s3
  s3:
    bucket: sckan-archive
    path_style: true
watch:
  debounce: 2s
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Ingest.Workers != 4 {
		t.Errorf("expected workers 4, got %d", cfg.Ingest.Workers)
	}
	if len(cfg.Ingest.StatementAlertURIs) != 1 {
		t.Errorf("expected 1 alert uri, got %d", len(cfg.Ingest.StatementAlertURIs))
	}
	if cfg.Storage.PostgresDSN != "postgres://db/sckanner" {
		t.Errorf("expected postgres dsn, got %s", cfg.Storage.PostgresDSN)
	}
	if cfg.Blob.S3.Bucket != "sckan-archive" || !cfg.Blob.S3.PathStyle {
		t.Errorf("unexpected s3 config: %+v", cfg.Blob.S3)
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("expected debounce 2s, got %v", cfg.Watch.Debounce)
	}
}

func TestSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Storage.SQLitePath = "/var/lib/sckanner.db"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if loaded.Storage.SQLitePath != "/var/lib/sckanner.db" {
		t.Errorf("expected sqlite path to round trip, got %s", loaded.Storage.SQLitePath)
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Storage: StorageConfig{Driver: "memory"},
		NATS:    NATSConfig{URL: "nats://remote:4222"},
		Export:  ExportConfig{Format: "jsonld"},
	}

	base.Merge(override)

	if base.Storage.Driver != "memory" {
		t.Errorf("expected merged driver memory, got %s", base.Storage.Driver)
	}
	if base.Storage.SQLitePath != "sckanner.db" {
		t.Errorf("expected sqlite path preserved, got %s", base.Storage.SQLitePath)
	}
	if base.NATS.URL != "nats://remote:4222" || base.NATS.Embedded {
		t.Errorf("expected external NATS, got %+v", base.NATS)
	}
	if base.Export.Format != "jsonld" {
		t.Errorf("expected merged format jsonld, got %s", base.Export.Format)
	}
	if base.Export.BaseIRI != "https://sckan.metacell.us" {
		t.Errorf("expected base iri preserved, got %s", base.Export.BaseIRI)
	}

	base.Merge(nil)
}

func newTestLoader(t *testing.T, env map[string]string) *Loader {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	l := NewLoader(nil)
	l.dir = t.TempDir()
	l.getenv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	return l
}

func TestLoaderLayers(t *testing.T) {
	l := newTestLoader(t, map[string]string{
		"SCKANNER_STORAGE_DRIVER":       "memory",
		"SCKANNER_WORKERS":              "3",
		"SCKANNER_STATEMENT_ALERT_URIS": "a, b,,c",
	})

	nested := filepath.Join(l.dir, "exports", "2024")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	project := "export:\n  format: ntriples\nstorage:\n  driver: postgres\n  postgres_dsn: x\n"
	if err := os.WriteFile(filepath.Join(l.dir, ProjectConfigFile), []byte(project), 0644); err != nil {
		t.Fatal(err)
	}
	l.dir = nested

	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Export.Format != "ntriples" {
		t.Errorf("expected project format ntriples, got %s", cfg.Export.Format)
	}
	if cfg.Storage.Driver != "memory" {
		t.Errorf("expected env to override driver, got %s", cfg.Storage.Driver)
	}
	if cfg.Ingest.Workers != 3 {
		t.Errorf("expected env workers 3, got %d", cfg.Ingest.Workers)
	}
	if got := cfg.Ingest.StatementAlertURIs; len(got) != 3 || got[2] != "c" {
		t.Errorf("unexpected alert uris %v", got)
	}
}

func TestLoaderExplicitFile(t *testing.T) {
	l := newTestLoader(t, nil)
	l.File = filepath.Join(t.TempDir(), "missing.yaml")

	if _, err := l.Load(); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoaderInvalidEnv(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "workers", key: "SCKANNER_WORKERS", val: "many"},
		{name: "embedded", key: "SCKANNER_NATS_EMBEDDED", val: "perhaps"},
		{name: "debounce", key: "SCKANNER_WATCH_DEBOUNCE", val: "soon"},
		{name: "driver", key: "SCKANNER_STORAGE_DRIVER", val: "mongo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLoader(t, map[string]string{tt.key: tt.val})
			if _, err := l.Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}

func TestEnsureUserConfig(t *testing.T) {
	l := newTestLoader(t, nil)

	if err := l.EnsureUserConfig(); err != nil {
		t.Fatalf("EnsureUserConfig() error = %v", err)
	}
	if _, err := os.Stat(l.userConfigPath()); err != nil {
		t.Errorf("expected user config to exist: %v", err)
	}
	if err := l.EnsureUserConfig(); err != nil {
		t.Errorf("second EnsureUserConfig() error = %v", err)
	}
}
