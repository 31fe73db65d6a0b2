package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. The configuration is not modified by environment variables; use
// LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	// Boolean defaults that are true must be set before unmarshalling so
	// that an explicit false in the file survives.
	var cfg Config
	cfg.Server.CORS.Enabled = DefaultCORSEnabled
	cfg.Storage.SQLite.WALMode = DefaultSQLiteWALMode
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention COMPASS_SECTION_FIELD (e.g., COMPASS_SERVER_LISTEN_ADDRESS).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables use the format COMPASS_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("COMPASS_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("COMPASS_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("COMPASS_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("COMPASS_SERVER_IDLE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.IdleTimeout = d
		}
	}
	if val := os.Getenv("COMPASS_SERVER_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}
	if val := os.Getenv("COMPASS_SERVER_MAX_HEADER_BYTES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Server.MaxHeaderBytes = i
		}
	}

	// Storage overrides
	if val := os.Getenv("COMPASS_STORAGE_BACKEND"); val != "" {
		cfg.Storage.Backend = val
	}
	if val := os.Getenv("COMPASS_STORAGE_DATA_DIR"); val != "" {
		cfg.Storage.DataDir = val
	}
	if val := os.Getenv("COMPASS_STORAGE_SQLITE_PATH"); val != "" {
		cfg.Storage.SQLite.Path = val
	}

	// Catalog overrides
	if val := os.Getenv("COMPASS_CATALOG_PATH"); val != "" {
		cfg.Catalog.Path = val
	}
	if val := os.Getenv("COMPASS_CATALOG_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Catalog.Watch = b
		}
	}

	// Retention overrides
	if val := os.Getenv("COMPASS_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Retention.Days = i
		}
	}
	if val := os.Getenv("COMPASS_RETENTION_SCHEDULE"); val != "" {
		cfg.Retention.Schedule = val
	}
	if val := os.Getenv("COMPASS_RETENTION_ARCHIVE_BEFORE_DELETE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Retention.ArchiveBeforeDelete = b
		}
	}
	if val := os.Getenv("COMPASS_RETENTION_ARCHIVE_PATH"); val != "" {
		cfg.Retention.ArchivePath = val
	}

	// Telemetry overrides
	if val := os.Getenv("COMPASS_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("COMPASS_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("COMPASS_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("COMPASS_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
}
