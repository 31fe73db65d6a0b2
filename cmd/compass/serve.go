package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"complyhq/compass/pkg/catalog"
	"complyhq/compass/pkg/catalog/source"
	"complyhq/compass/pkg/config"
	"complyhq/compass/pkg/evaluation"
	"complyhq/compass/pkg/evaluation/retention"
	"complyhq/compass/pkg/evaluation/storage"
	"complyhq/compass/pkg/jsonstore"
	"complyhq/compass/pkg/rules/engine"
	"complyhq/compass/pkg/server"
	"complyhq/compass/pkg/telemetry/logging"
	"complyhq/compass/pkg/telemetry/metrics"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Compass API server",
	Long: `Start the Compass API server with the specified configuration.

The server exposes the intake, catalog administration, evaluation, and
export endpoints, and optionally watches the catalog file for changes.

Examples:
  # Start with default config
  compass serve

  # Start with custom config
  compass serve --config /etc/compass/config.yaml

  # Override listen address
  compass serve --listen 0.0.0.0:8080

  # Validate config without starting the server
  compass serve --dry-run`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Flag overrides
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = serveFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if _, err := logging.Setup(logging.Config{
		Level:  cfg.Telemetry.Logging.Level,
		Format: cfg.Telemetry.Logging.Format,
	}); err != nil {
		return err
	}

	if serveFlags.dryRun {
		fmt.Println("Configuration valid")
		return nil
	}

	// Persistence layer
	files, err := jsonstore.Open(cfg.Storage.DataDir, nil)
	if err != nil {
		return fmt.Errorf("failed to open data directory: %w", err)
	}

	catalogStore := catalog.NewStore(files, nil)
	seedCatalog(cmd.Context(), cfg, catalogStore)

	// Evaluation storage backend
	var evalStorage evaluation.Storage
	switch cfg.Storage.Backend {
	case "file":
		evalStorage = storage.NewJSONFileStorage(files)
	case "sqlite":
		evalStorage, err = storage.NewSQLiteStorage(&storage.SQLiteConfig{
			Path:         cfg.Storage.SQLite.Path,
			MaxOpenConns: cfg.Storage.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.Storage.SQLite.MaxIdleConns,
			WALMode:      cfg.Storage.SQLite.WALMode,
			BusyTimeout:  cfg.Storage.SQLite.BusyTimeout,
		})
		if err != nil {
			return fmt.Errorf("failed to create sqlite storage: %w", err)
		}
	case "memory":
		evalStorage = storage.NewMemoryStorage()
	default:
		return fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
	}
	defer evalStorage.Close()

	// Metrics
	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(nil)
		if snapshot, err := catalogStore.Snapshot(); err == nil {
			collector.Catalog().SetObligations(snapshot.Len())
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Catalog hot reload
	if cfg.Catalog.Watch {
		startWatcher(ctx, cfg, files, catalogStore, collector)
	}

	// Retention
	if cfg.Retention.Days > 0 {
		pruner := retention.NewPruner(evalStorage, &retention.Config{
			RetentionDays:       cfg.Retention.Days,
			PruneSchedule:       cfg.Retention.Schedule,
			ArchiveBeforeDelete: cfg.Retention.ArchiveBeforeDelete,
			ArchivePath:         cfg.Retention.ArchivePath,
		})
		if err := pruner.Start(ctx); err != nil {
			slog.Warn("failed to start retention scheduler", "error", err)
		} else {
			defer pruner.Stop()
			if next := pruner.NextPruning(); next != nil {
				slog.Debug("retention scheduler started", "next_pruning", next)
			}
		}
	}

	evaluator := engine.New(nil)
	srv := server.NewServer(cfg, catalogStore, evalStorage, evaluator, collector)

	return srv.Start(ctx)
}

// seedCatalog populates an empty store from the configured catalog file.
// A missing seed file is not an error; the catalog starts empty and is
// managed over the API.
func seedCatalog(ctx context.Context, cfg *config.Config, store *catalog.Store) {
	src := source.NewFileSource(cfg.Catalog.Path, nil)
	cat, err := src.Load(ctx)
	if err != nil {
		slog.Debug("no catalog seed loaded", "path", cfg.Catalog.Path, "error", err)
		return
	}

	seeded, err := store.Seed(cat.Obligations())
	if err != nil {
		slog.Warn("failed to seed catalog", "path", cfg.Catalog.Path, "error", err)
		return
	}
	if seeded {
		slog.Info("catalog seeded from file", "path", cfg.Catalog.Path, "obligations", cat.Len())
	}
}

// startWatcher re-validates the stored catalog whenever the obligations
// file changes out of band, and keeps the catalog gauge current.
func startWatcher(ctx context.Context, cfg *config.Config, files *jsonstore.Store, store *catalog.Store, collector *metrics.Collector) {
	path := files.Path(catalog.Collection)
	watcher := catalog.NewWatcher(path, cfg.Catalog.WatchDebounce, nil)

	go func() {
		err := watcher.Watch(ctx, func() error {
			snapshot, err := store.Snapshot()
			if err != nil {
				if collector != nil {
					collector.Catalog().RecordReload("error")
				}
				return err
			}

			issues := catalog.Validate(snapshot.Obligations())
			for _, issue := range issues {
				slog.Warn("catalog validation issue", "issue", issue.String())
			}

			if collector != nil {
				collector.Catalog().RecordReload("success")
				collector.Catalog().SetObligations(snapshot.Len())
			}

			slog.Info("catalog reloaded", "obligations", snapshot.Len(), "issues", len(issues))
			return nil
		})
		if err != nil {
			slog.Error("catalog watcher stopped", "error", err)
		}
	}()
}
