package config

import "time"

// Config is the root configuration structure for Compass.
// It contains all configuration sections for the HTTP server, storage
// backends, the obligation catalog, retention, and telemetry settings.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, and CORS.
	Server ServerConfig `yaml:"server"`

	// Storage contains configuration for business profile and evaluation
	// persistence including backend selection.
	Storage StorageConfig `yaml:"storage"`

	// Catalog contains configuration for the obligation catalog source
	// including the file path and watch mode.
	Catalog CatalogConfig `yaml:"catalog"`

	// Retention contains configuration for evaluation history retention.
	Retention RetentionConfig `yaml:"retention"`

	// Telemetry contains configuration for observability including logging
	// and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port for the server to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080", "0.0.0.0:8080").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body. A zero or negative value means no timeout.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. A zero or negative value means no timeout.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled. If IdleTimeout is zero, ReadTimeout is used.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// If requests are still in-flight after this timeout, the server will
	// force shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing the request header's keys and values.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS (Cross-Origin Resource Sharing) configuration.
type CORSConfig struct {
	// Enabled controls whether CORS is enabled.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins for CORS requests.
	// Use ["*"] to allow all origins (not recommended for production).
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods for CORS requests.
	// Default: ["GET", "POST", "PUT", "DELETE", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed HTTP headers for CORS requests.
	// Default: ["Authorization", "Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// MaxAge is the maximum age (in seconds) for preflight request cache.
	// Default: 3600 (1 hour)
	MaxAge int `yaml:"max_age"`
}

// StorageConfig contains configuration for evaluation and profile storage.
type StorageConfig struct {
	// Backend selects the evaluation storage backend.
	// Options: "file" (JSON files under DataDir), "sqlite", "memory".
	// Default: "file"
	Backend string `yaml:"backend"`

	// DataDir is the directory for JSON file storage. If the directory is
	// not writable the store falls back to a temp-dir location.
	// Default: "data/"
	DataDir string `yaml:"data_dir"`

	// SQLite contains settings for the sqlite backend.
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// SQLiteConfig contains settings for the sqlite evaluation store.
type SQLiteConfig struct {
	// Path is the sqlite database file path.
	// Default: "data/evaluations.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open database connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle database connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables write-ahead logging.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is how long a connection waits on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// CatalogConfig contains configuration for the obligation catalog source.
type CatalogConfig struct {
	// Path is the path to the catalog JSON file.
	// Default: "./catalog.json"
	Path string `yaml:"path"`

	// Watch enables hot reload of the catalog file on change.
	// Default: false
	Watch bool `yaml:"watch"`

	// WatchDebounce is how long to wait after the last file event before
	// reloading. Editors and atomic writes produce event bursts.
	// Default: 100ms
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// RetentionConfig contains configuration for evaluation history retention.
type RetentionConfig struct {
	// Days is the number of days to retain evaluation results.
	// 0 means keep results forever.
	// Default: 0
	Days int `yaml:"days"`

	// Schedule is a cron expression for scheduled pruning.
	// Default: "0 3 * * *"
	Schedule string `yaml:"schedule"`

	// ArchiveBeforeDelete enables archiving results to JSON before deletion.
	// Default: false
	ArchiveBeforeDelete bool `yaml:"archive_before_delete"`

	// ArchivePath is the directory to store archived results.
	// Default: "data/archives/"
	ArchivePath string `yaml:"archive_path"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level.
	// Options: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format.
	// Options: "json", "text".
	// Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the /metrics endpoint is served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path of the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`
}
