// Package cmd wires the embedview CLI: template listing, instance creation,
// cascading updates, watch mode, and the cascade journal.
package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openauthor/embedview/internal/config"
	"github.com/openauthor/embedview/internal/host"
	"github.com/openauthor/embedview/internal/host/memtree"
	"github.com/openauthor/embedview/internal/infrastructure/sqlite"
	"github.com/openauthor/embedview/internal/log"
	"github.com/openauthor/embedview/internal/manifest"
	"github.com/openauthor/embedview/internal/paths"
	"github.com/openauthor/embedview/internal/tracing"
	"github.com/openauthor/embedview/internal/views"
)

var (
	version = "dev"
	cfgFile string
	appFlag string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "embedview",
	Short: "Embeddable view templates for card-based applications",
	Long: `Embedview keeps reusable UI fragments (templates) and their embedded
copies (instances) in sync across an application's screens. Edit a template
once, then cascade the change into every screen and template that embeds it.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/embedview/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&appFlag, "app", "a", "",
		"application directory or app.yml path")
	rootCmd.PersistentFlags().Bool("no-auto-save", false,
		"do not write mutated screens back to disk")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("app_path", defaults.AppPath)
	viper.SetDefault("auto_save", defaults.AutoSave)
	viper.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMS)
	viper.SetDefault("journal.enabled", defaults.Journal.Enabled)
	viper.SetDefault("journal.path", defaults.Journal.Path)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .embedview/config.yaml (current directory)
		// 2. ~/.config/embedview/config.yaml (user config)
		if _, err := os.Stat(".embedview/config.yaml"); err == nil {
			viper.SetConfigFile(".embedview/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "embedview"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".embedview/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)

	if appFlag != "" {
		cfg.AppPath = appFlag
	}
	if noSave, _ := rootCmd.PersistentFlags().GetBool("no-auto-save"); noSave {
		cfg.AutoSave = false
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Exporter == "file" && cfg.Tracing.FilePath == "" {
		cfg.Tracing.FilePath = config.DefaultTracesFilePath()
	}
}

// appContext is everything a subcommand needs to talk to one application.
type appContext struct {
	manifest *manifest.Manifest
	host     *memtree.Tree
	engine   *views.Engine
	tracer   *tracing.Provider
	db       *sql.DB
}

// newAppContext loads the manifest and assembles the engine with the
// configured collaborators.
func newAppContext() (*appContext, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.LogPath != "" {
		if _, err := log.Init(cfg.LogPath); err != nil {
			return nil, fmt.Errorf("initializing log: %w", err)
		}
	}

	manifestPath := paths.ResolveManifest(cfg.AppPath)
	m, err := manifest.LoadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("loading manifest: %w", err)
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}

	app := &appContext{
		manifest: m,
		host:     memtree.New(),
		tracer:   provider,
	}

	opts := []views.Option{views.WithTracer(provider.Tracer())}
	if cfg.Journal.Enabled {
		db, err := sqlite.NewDB(cfg.Journal.Path)
		if err != nil {
			return nil, fmt.Errorf("opening journal database: %w", err)
		}
		app.db = db
		opts = append(opts, views.WithJournal(sqlite.NewJournalRepository(db)))
	}

	app.engine = views.NewEngine(app.host, m, opts...)
	return app, nil
}

// Close releases the engine, tracing, and journal resources.
func (a *appContext) Close() {
	a.engine.Close()
	_ = a.tracer.Shutdown(context.Background())
	if a.db != nil {
		_ = a.db.Close()
	}
}

// saveScreens writes the named screens back to their backing files when
// auto-save is on. Returns the number of screens written.
func (a *appContext) saveScreens(ids []host.ScreenID) (int, error) {
	if !cfg.AutoSave {
		return 0, nil
	}
	for i, id := range ids {
		if err := a.host.SaveScreen(id); err != nil {
			return i, fmt.Errorf("saving screen: %w", err)
		}
	}
	return len(ids), nil
}

// openScreenByKey makes a declared screen resident, loading it from its
// backing file when needed.
func (a *appContext) openScreenByKey(key string) (host.ScreenID, manifest.ScreenEntry, error) {
	entry, ok := a.manifest.ScreenByKey(key)
	if !ok {
		return "", manifest.ScreenEntry{}, fmt.Errorf("screen %q is not declared in the manifest", key)
	}
	if a.host.IsResident(entry.Name) {
		id, err := a.host.ScreenByName(entry.Name)
		return id, entry, err
	}
	id, err := a.host.OpenScreen(entry.Path)
	if err != nil {
		return "", entry, fmt.Errorf("opening screen %q: %w", key, err)
	}
	return id, entry, nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
