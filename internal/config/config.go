// Package config provides configuration types and defaults for embedview.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/openauthor/embedview/internal/log"
	"github.com/openauthor/embedview/internal/tracing"
)

// WatchConfig holds file-watch behavior for template backing files.
type WatchConfig struct {
	// DebounceMS is the quiet period after the last template save before a
	// cascade fires, in milliseconds.
	DebounceMS int `mapstructure:"debounce_ms"`
}

// JournalConfig holds cascade journal persistence options.
type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"` // SQLite database file
}

// Config holds all configuration options for embedview.
type Config struct {
	// AppPath locates the application: either the app.yml manifest itself
	// or the directory containing it. Default: current directory.
	AppPath string `mapstructure:"app_path"`

	// AutoSave writes mutated screens back to their backing files after a
	// cascade instead of leaving them for an explicit save.
	AutoSave bool `mapstructure:"auto_save"`

	// LogPath is the engine log file. Empty disables file logging.
	LogPath string `mapstructure:"log_path"`

	Watch   WatchConfig    `mapstructure:"watch"`
	Journal JournalConfig  `mapstructure:"journal"`
	Tracing tracing.Config `mapstructure:"tracing"`
}

// DefaultJournalPath returns ~/.config/embedview/journal.db, or empty if the
// home directory is unavailable.
func DefaultJournalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "embedview", "journal.db")
}

// DefaultTracesFilePath returns ~/.config/embedview/traces/traces.jsonl, or
// empty if the home directory is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "embedview", "traces", "traces.jsonl")
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		AppPath:  ".",
		AutoSave: true,
		Watch: WatchConfig{
			DebounceMS: 1000,
		},
		Journal: JournalConfig{
			Enabled: true,
			Path:    DefaultJournalPath(),
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// Validate checks the configuration for inconsistencies.
func Validate(cfg Config) error {
	if cfg.Watch.DebounceMS < 0 {
		return fmt.Errorf("watch.debounce_ms must not be negative, got %d", cfg.Watch.DebounceMS)
	}
	if cfg.Journal.Enabled && cfg.Journal.Path == "" {
		return fmt.Errorf("journal.path is required when the journal is enabled")
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateTracing checks the tracing subsection.
func ValidateTracing(cfg tracing.Config) error {
	if cfg.SampleRate < 0.0 || cfg.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", cfg.SampleRate)
	}

	if cfg.Exporter != "" {
		switch cfg.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", cfg.Exporter)
		}
	}

	if cfg.Enabled {
		if cfg.Exporter == "file" && cfg.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if cfg.Exporter == "otlp" && cfg.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Embedview Configuration

# Path to the application: the app.yml manifest or the directory holding it
# app_path: /path/to/project

# Write mutated screens back to disk after a cascade
auto_save: true

# Template file watching
watch:
  debounce_ms: 1000   # Quiet period after the last save before a cascade fires

# Cascade journal (records which screens each template update touched)
journal:
  enabled: true
  # path: ~/.config/embedview/journal.db

# Engine log file (empty disables file logging)
# log_path: ~/.config/embedview/embedview.log

# Tracing (disabled by default)
tracing:
  enabled: false
  # exporter: file            # "none", "file", "stdout", or "otlp"
  # file_path: ~/.config/embedview/traces/traces.jsonl
  # otlp_endpoint: localhost:4317
  # sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
