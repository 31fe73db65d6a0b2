// Package source provides catalog sources: ways of loading an obligation
// catalog from somewhere (a JSON file on disk, or memory for tests) with
// validation applied at the load boundary.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"complyhq/compass/pkg/catalog"
)

// Source loads an obligation catalog snapshot.
type Source interface {
	Load(ctx context.Context) (*catalog.Catalog, error)
}

// FileSource loads a catalog from a JSON file on disk.
type FileSource struct {
	path   string
	logger *slog.Logger
}

// NewFileSource creates a file-based catalog source.
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default().With("component", "catalog.source")
	}
	return &FileSource{path: path, logger: logger}
}

// Load reads, decodes, and validates the catalog file. Validation warnings
// are logged; hard errors fail the load.
func (s *FileSource) Load(ctx context.Context) (*catalog.Catalog, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file %q: %w", s.path, err)
	}

	var obligations []catalog.Obligation
	if err := json.Unmarshal(data, &obligations); err != nil {
		return nil, fmt.Errorf("parse catalog file %q: %w", s.path, err)
	}

	issues := catalog.Validate(obligations)
	for _, issue := range issues {
		if issue.Warning {
			s.logger.Warn("catalog validation warning", "issue", issue.String(), "path", s.path)
		}
	}
	if errs := catalog.Errors(issues); len(errs) > 0 {
		return nil, fmt.Errorf("catalog file %q invalid: %s", s.path, errs[0])
	}

	s.logger.Info("catalog loaded",
		"path", s.path,
		"obligation_count", len(obligations),
	)

	return catalog.New(obligations), nil
}

// MemorySource serves a fixed catalog from memory, for tests.
type MemorySource struct {
	obligations []catalog.Obligation
}

// NewMemorySource creates an in-memory catalog source.
func NewMemorySource(obligations ...catalog.Obligation) *MemorySource {
	return &MemorySource{obligations: obligations}
}

// Load returns a catalog built from the in-memory obligations.
func (s *MemorySource) Load(ctx context.Context) (*catalog.Catalog, error) {
	return catalog.New(s.obligations), nil
}
