package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB

	// CORS defaults
	DefaultCORSEnabled = true
	DefaultCORSMaxAge  = 3600 // 1 hour

	// Storage defaults
	DefaultStorageBackend    = "file"
	DefaultStorageDataDir    = "data/"
	DefaultSQLitePath        = "data/evaluations.db"
	DefaultSQLiteMaxOpen     = 10
	DefaultSQLiteMaxIdle     = 5
	DefaultSQLiteWALMode     = true
	DefaultSQLiteBusyTimeout = 5 * time.Second

	// Catalog defaults
	DefaultCatalogPath          = "./catalog.json"
	DefaultCatalogWatch         = false
	DefaultCatalogWatchDebounce = 100 * time.Millisecond

	// Retention defaults
	DefaultRetentionDays        = 0
	DefaultRetentionSchedule    = "0 3 * * *"
	DefaultRetentionArchive     = false
	DefaultRetentionArchivePath = "data/archives/"

	// Telemetry defaults
	DefaultLoggingLevel   = "info"
	DefaultLoggingFormat  = "json"
	DefaultMetricsEnabled = true
	DefaultMetricsPath    = "/metrics"
)

// Default CORS lists. Slices cannot be constants.
var (
	DefaultCORSAllowedOrigins = []string{"*"}
	DefaultCORSAllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	DefaultCORSAllowedHeaders = []string{"Authorization", "Content-Type", "X-Request-ID"}
)

// DefaultConfig returns a configuration populated with all default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	// Default-true booleans are invisible to the zero-value checks in
	// ApplyDefaults and must be set directly.
	cfg.Server.CORS.Enabled = DefaultCORSEnabled
	cfg.Storage.SQLite.WALMode = DefaultSQLiteWALMode
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in default values for any zero-valued configuration
// fields. Explicitly set values are never overwritten.
func ApplyDefaults(cfg *Config) {
	// Server
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}

	// CORS
	if cfg.Server.CORS.AllowedOrigins == nil {
		cfg.Server.CORS.AllowedOrigins = DefaultCORSAllowedOrigins
	}
	if cfg.Server.CORS.AllowedMethods == nil {
		cfg.Server.CORS.AllowedMethods = DefaultCORSAllowedMethods
	}
	if cfg.Server.CORS.AllowedHeaders == nil {
		cfg.Server.CORS.AllowedHeaders = DefaultCORSAllowedHeaders
	}
	if cfg.Server.CORS.MaxAge == 0 {
		cfg.Server.CORS.MaxAge = DefaultCORSMaxAge
	}

	// Storage
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultStorageBackend
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = DefaultStorageDataDir
	}
	if cfg.Storage.SQLite.Path == "" {
		cfg.Storage.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Storage.SQLite.MaxOpenConns == 0 {
		cfg.Storage.SQLite.MaxOpenConns = DefaultSQLiteMaxOpen
	}
	if cfg.Storage.SQLite.MaxIdleConns == 0 {
		cfg.Storage.SQLite.MaxIdleConns = DefaultSQLiteMaxIdle
	}
	if cfg.Storage.SQLite.BusyTimeout == 0 {
		cfg.Storage.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}

	// Catalog
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = DefaultCatalogPath
	}
	if cfg.Catalog.WatchDebounce == 0 {
		cfg.Catalog.WatchDebounce = DefaultCatalogWatchDebounce
	}

	// Retention
	if cfg.Retention.Schedule == "" {
		cfg.Retention.Schedule = DefaultRetentionSchedule
	}
	if cfg.Retention.ArchivePath == "" {
		cfg.Retention.ArchivePath = DefaultRetentionArchivePath
	}

	// Telemetry
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
}
