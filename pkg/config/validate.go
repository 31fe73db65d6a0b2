package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateStorage(&cfg.Storage)...)
	errs = append(errs, validateCatalog(&cfg.Catalog)...)
	errs = append(errs, validateRetention(&cfg.Retention)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateServer validates HTTP server configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}
	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "must not be negative",
		})
	}

	return errs
}

// validateStorage validates storage configuration.
func validateStorage(cfg *StorageConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "file", "sqlite", "memory":
	default:
		errs = append(errs, FieldError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("unknown backend %q (expected file, sqlite, or memory)", cfg.Backend),
		})
	}

	if cfg.Backend == "file" && cfg.DataDir == "" {
		errs = append(errs, FieldError{
			Field:   "storage.data_dir",
			Message: "data directory is required for the file backend",
		})
	}
	if cfg.Backend == "sqlite" && cfg.SQLite.Path == "" {
		errs = append(errs, FieldError{
			Field:   "storage.sqlite.path",
			Message: "database path is required for the sqlite backend",
		})
	}
	if cfg.SQLite.MaxOpenConns < 0 {
		errs = append(errs, FieldError{
			Field:   "storage.sqlite.max_open_conns",
			Message: "must not be negative",
		})
	}
	if cfg.SQLite.MaxIdleConns < 0 {
		errs = append(errs, FieldError{
			Field:   "storage.sqlite.max_idle_conns",
			Message: "must not be negative",
		})
	}

	return errs
}

// validateCatalog validates catalog source configuration.
func validateCatalog(cfg *CatalogConfig) []FieldError {
	var errs []FieldError

	if cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   "catalog.path",
			Message: "catalog path is required",
		})
	}
	if cfg.WatchDebounce < 0 {
		errs = append(errs, FieldError{
			Field:   "catalog.watch_debounce",
			Message: "must not be negative",
		})
	}

	return errs
}

// validateRetention validates retention configuration.
func validateRetention(cfg *RetentionConfig) []FieldError {
	var errs []FieldError

	if cfg.Days < 0 {
		errs = append(errs, FieldError{
			Field:   "retention.days",
			Message: "must not be negative",
		})
	}
	if cfg.Days > 0 && cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "retention.schedule",
				Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.Schedule, err),
			})
		}
	}
	if cfg.ArchiveBeforeDelete && cfg.ArchivePath == "" {
		errs = append(errs, FieldError{
			Field:   "retention.archive_path",
			Message: "archive path is required when archive_before_delete is enabled",
		})
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown level %q (expected debug, info, warn, or error)", cfg.Logging.Level),
		})
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown format %q (expected json or text)", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with /",
		})
	}

	return errs
}
