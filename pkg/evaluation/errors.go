package evaluation

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an evaluation id is not in storage.
var ErrNotFound = errors.New("evaluation not found")

// StorageError represents an error from an evaluation storage backend.
type StorageError struct {
	Backend   string // "jsonfile", "sqlite", "memory"
	Operation string // "append", "get", "list", "delete"
	Cause     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("evaluation storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}

// ExportError represents an error while exporting an evaluation.
type ExportError struct {
	Format       string // "json", "csv", "pdf"
	EvaluationID string
	Cause        error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [format=%s, evaluation=%s]: %v", e.Format, e.EvaluationID, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates a new ExportError.
func NewExportError(format, evaluationID string, cause error) *ExportError {
	return &ExportError{Format: format, EvaluationID: evaluationID, Cause: cause}
}

// RetentionError represents an error during retention enforcement.
type RetentionError struct {
	RetentionDays int
	Cause         error
}

// Error implements the error interface.
func (e *RetentionError) Error() string {
	return fmt.Sprintf("retention error [retention_days=%d]: %v", e.RetentionDays, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *RetentionError) Unwrap() error {
	return e.Cause
}

// NewRetentionError creates a new RetentionError.
func NewRetentionError(retentionDays int, cause error) *RetentionError {
	return &RetentionError{RetentionDays: retentionDays, Cause: cause}
}
