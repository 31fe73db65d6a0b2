// Package config provides configuration management for Compass.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. It provides a type-safe
// configuration system with validation and sensible defaults.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention COMPASS_SECTION_FIELD.
// For example:
//
//   - COMPASS_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - COMPASS_CATALOG_PATH overrides catalog.path
//   - COMPASS_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example Configuration
//
// Here is a minimal configuration file:
//
//	server:
//	  listen_address: "127.0.0.1:8080"
//
//	storage:
//	  backend: "file"
//	  data_dir: "data/"
//
//	catalog:
//	  path: "./catalog.json"
//	  watch: true
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
package config
