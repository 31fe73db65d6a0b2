package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("ListenAddress = %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != DefaultReadTimeout {
		t.Errorf("ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
	if !cfg.Server.CORS.Enabled {
		t.Error("CORS should default to enabled")
	}
	if cfg.Storage.Backend != "file" {
		t.Errorf("Backend = %q", cfg.Storage.Backend)
	}
	if !cfg.Storage.SQLite.WALMode {
		t.Error("WAL mode should default to enabled")
	}
	if cfg.Retention.Days != 0 {
		t.Errorf("Retention.Days = %d, retention should be off by default", cfg.Retention.Days)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("metrics should default to enabled")
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
server:
  listen_address: "0.0.0.0:9090"
  read_timeout: 10s
storage:
  backend: sqlite
  sqlite:
    path: /tmp/test.db
catalog:
  path: /etc/compass/catalog.json
  watch: true
retention:
  days: 90
telemetry:
  logging:
    level: debug
    format: text
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("ListenAddress = %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
	// Unset fields fall back to defaults.
	if cfg.Server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("WriteTimeout = %v", cfg.Server.WriteTimeout)
	}
	if cfg.Storage.Backend != "sqlite" || cfg.Storage.SQLite.Path != "/tmp/test.db" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if !cfg.Catalog.Watch {
		t.Error("Watch should be true")
	}
	if cfg.Retention.Days != 90 || cfg.Retention.Schedule != DefaultRetentionSchedule {
		t.Errorf("retention = %+v", cfg.Retention)
	}
	if cfg.Telemetry.Logging.Level != "debug" || cfg.Telemetry.Logging.Format != "text" {
		t.Errorf("logging = %+v", cfg.Telemetry.Logging)
	}
}

func TestLoadConfigExplicitFalseSurvives(t *testing.T) {
	// An explicit false must not be clobbered by a default of true.
	path := writeConfigFile(t, `
server:
  cors:
    enabled: false
storage:
  sqlite:
    wal_mode: false
telemetry:
  metrics:
    enabled: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.CORS.Enabled {
		t.Error("cors.enabled: false was overwritten")
	}
	if cfg.Storage.SQLite.WALMode {
		t.Error("sqlite.wal_mode: false was overwritten")
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("metrics.enabled: false was overwritten")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "server: [not a map")
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
server:
  listen_address: "127.0.0.1:8080"
`)
	t.Setenv("COMPASS_SERVER_LISTEN_ADDRESS", "0.0.0.0:7070")
	t.Setenv("COMPASS_STORAGE_BACKEND", "memory")
	t.Setenv("COMPASS_RETENTION_DAYS", "30")
	t.Setenv("COMPASS_TELEMETRY_LOGGING_LEVEL", "warn")
	t.Setenv("COMPASS_CATALOG_WATCH", "true")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides: %v", err)
	}
	if cfg.Server.ListenAddress != "0.0.0.0:7070" {
		t.Errorf("ListenAddress = %q", cfg.Server.ListenAddress)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("Backend = %q", cfg.Storage.Backend)
	}
	if cfg.Retention.Days != 30 {
		t.Errorf("Retention.Days = %d", cfg.Retention.Days)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("Level = %q", cfg.Telemetry.Logging.Level)
	}
	if !cfg.Catalog.Watch {
		t.Error("Watch should be true")
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			"unknown storage backend",
			func(c *Config) { c.Storage.Backend = "postgres" },
			"storage.backend",
		},
		{
			"missing listen address",
			func(c *Config) { c.Server.ListenAddress = "" },
			"server.listen_address",
		},
		{
			"negative retention days",
			func(c *Config) { c.Retention.Days = -1 },
			"retention.days",
		},
		{
			"bad cron schedule",
			func(c *Config) { c.Retention.Days = 30; c.Retention.Schedule = "not a cron" },
			"retention.schedule",
		},
		{
			"unknown log level",
			func(c *Config) { c.Telemetry.Logging.Level = "loud" },
			"telemetry.logging.level",
		},
		{
			"unknown log format",
			func(c *Config) { c.Telemetry.Logging.Format = "xml" },
			"telemetry.logging.format",
		},
		{
			"metrics path without slash",
			func(c *Config) { c.Telemetry.Metrics.Path = "metrics" },
			"telemetry.metrics.path",
		},
		{
			"missing catalog path",
			func(c *Config) { c.Catalog.Path = "" },
			"catalog.path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error type = %T", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("no error for field %q in %v", tt.field, verr.Errors)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	single := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}}}
	if single.Error() != "configuration validation failed: a: bad" {
		t.Errorf("single = %q", single.Error())
	}

	multi := ValidationError{Errors: []FieldError{
		{Field: "a", Message: "bad"},
		{Field: "b", Message: "worse"},
	}}
	msg := multi.Error()
	if msg == "" || msg == single.Error() {
		t.Errorf("multi = %q", msg)
	}
}
