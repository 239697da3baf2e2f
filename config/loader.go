package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "sckanner.yaml"
	// UserConfigDir is the directory for user-level config
	UserConfigDir = ".config/sckanner"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
	// EnvPrefix prefixes every environment override
	EnvPrefix = "SCKANNER_"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger

	// File, when set, replaces the project config lookup.
	File string

	dir    string
	getenv func(string) (string, bool)
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, getenv: os.LookupEnv}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. User config (~/.config/sckanner/config.yaml)
// 3. Project config (sckanner.yaml in current or parent directories, or File)
// 4. Environment variables (SCKANNER_*)
func (l *Loader) Load() (*Config, error) {
	// Start with defaults
	config := DefaultConfig()

	// Load user config
	if userConfigPath := l.userConfigPath(); userConfigPath != "" {
		if userConfig, err := LoadFromFile(userConfigPath); err == nil {
			l.logger.Debug("Loaded user config", slog.String("path", userConfigPath))
			config.Merge(userConfig)
		} else if !errors.Is(err, os.ErrNotExist) {
			l.logger.Warn("Failed to load user config", slog.String("path", userConfigPath), slog.String("error", err.Error()))
		}
	}

	// Load project config
	if l.File != "" {
		projectConfig, err := LoadFromFile(l.File)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded config file", slog.String("path", l.File))
		config.Merge(projectConfig)
	} else if projectConfigPath := l.findProjectConfig(); projectConfigPath != "" {
		if projectConfig, err := LoadFromFile(projectConfigPath); err == nil {
			l.logger.Debug("Loaded project config", slog.String("path", projectConfigPath))
			config.Merge(projectConfig)
		} else {
			l.logger.Warn("Failed to load project config", slog.String("path", projectConfigPath), slog.String("error", err.Error()))
		}
	} else {
		l.logger.Debug("No project config found")
	}

	// Apply environment overrides
	if err := l.applyEnv(config); err != nil {
		return nil, err
	}

	// Validate final config
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// EnsureUserConfig creates the user config file with defaults if it doesn't exist
func (l *Loader) EnsureUserConfig() error {
	userConfigPath := l.userConfigPath()
	if userConfigPath == "" {
		return fmt.Errorf("cannot determine home directory")
	}

	// Check if it already exists
	if _, err := os.Stat(userConfigPath); err == nil {
		return nil // Already exists
	}

	// Create default config
	config := DefaultConfig()
	if err := config.SaveToFile(userConfigPath); err != nil {
		return err
	}

	l.logger.Info("Created default user config", slog.String("path", userConfigPath))
	return nil
}

// userConfigPath returns the path to the user config file
func (l *Loader) userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// findProjectConfig searches for sckanner.yaml in current and parent directories
func (l *Loader) findProjectConfig() string {
	dir := l.dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = cwd
	}

	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	return ""
}

// applyEnv overlays SCKANNER_* variables onto config.
func (l *Loader) applyEnv(config *Config) error {
	strs := map[string]*string{
		"REFERENCE_URI_KEY": &config.Ingest.ReferenceURIKey,
		"STORAGE_DRIVER":    &config.Storage.Driver,
		"SQLITE_PATH":       &config.Storage.SQLitePath,
		"POSTGRES_DSN":      &config.Storage.PostgresDSN,
		"NATS_URL":          &config.NATS.URL,
		"NATS_SUBJECT":      &config.NATS.Subject,
		"BLOB_DRIVER":       &config.Blob.Driver,
		"BLOB_FS_ROOT":      &config.Blob.FSRoot,
		"S3_BUCKET":         &config.Blob.S3.Bucket,
		"S3_REGION":         &config.Blob.S3.Region,
		"S3_ENDPOINT":       &config.Blob.S3.Endpoint,
		"EXPORT_FORMAT":     &config.Export.Format,
		"EXPORT_PROFILE":    &config.Export.Profile,
		"EXPORT_BASE_IRI":   &config.Export.BaseIRI,
		"METRICS_ADDR":      &config.Metrics.Addr,
	}
	for name, dst := range strs {
		if v, ok := l.getenv(EnvPrefix + name); ok {
			*dst = v
		}
	}

	if v, ok := l.getenv(EnvPrefix + "WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sWORKERS: %w", EnvPrefix, err)
		}
		config.Ingest.Workers = n
	}
	if v, ok := l.getenv(EnvPrefix + "NATS_EMBEDDED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sNATS_EMBEDDED: %w", EnvPrefix, err)
		}
		config.NATS.Embedded = b
	}
	if v, ok := l.getenv(EnvPrefix + "WATCH_DEBOUNCE"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sWATCH_DEBOUNCE: %w", EnvPrefix, err)
		}
		config.Watch.Debounce = d
	}
	if v, ok := l.getenv(EnvPrefix + "STATEMENT_ALERT_URIS"); ok {
		config.Ingest.StatementAlertURIs = splitList(v)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
