package storage

import (
	"context"
	"time"

	"complyhq/compass/pkg/evaluation"
	"complyhq/compass/pkg/jsonstore"
)

// Collection is the file name of the evaluations collection.
const Collection = "evaluations.json"

// JSONFileStorage persists evaluation results as one JSON array file,
// appended via read-modify-write under the jsonstore's atomic replace.
// This is the reference backend: human-inspectable, zero setup, and
// byte-compatible with the original data files.
type JSONFileStorage struct {
	files *jsonstore.Store
}

// NewJSONFileStorage creates a JSON-file storage backend.
func NewJSONFileStorage(files *jsonstore.Store) *JSONFileStorage {
	return &JSONFileStorage{files: files}
}

// Append adds a result to the end of the evaluations collection.
func (s *JSONFileStorage) Append(ctx context.Context, result *evaluation.Result) error {
	err := jsonstore.Update(s.files, Collection, []*evaluation.Result{}, func(cur []*evaluation.Result) ([]*evaluation.Result, error) {
		return append(cur, result), nil
	})
	if err != nil {
		return evaluation.NewStorageError("jsonfile", "append", err)
	}
	return nil
}

// Get retrieves a result by id.
func (s *JSONFileStorage) Get(ctx context.Context, id string) (*evaluation.Result, error) {
	results, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, evaluation.ErrNotFound
}

// List returns all results in append order.
func (s *JSONFileStorage) List(ctx context.Context) ([]*evaluation.Result, error) {
	results := []*evaluation.Result{}
	if err := s.files.Read(Collection, &results); err != nil {
		return nil, evaluation.NewStorageError("jsonfile", "list", err)
	}
	return results, nil
}

// Count returns the number of stored results.
func (s *JSONFileStorage) Count(ctx context.Context) (int64, error) {
	results, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	return int64(len(results)), nil
}

// DeleteOlderThan removes results evaluated before the cutoff.
func (s *JSONFileStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := jsonstore.Update(s.files, Collection, []*evaluation.Result{}, func(cur []*evaluation.Result) ([]*evaluation.Result, error) {
		kept := cur[:0]
		for _, r := range cur {
			if r.EvaluatedTime().Before(cutoff) {
				deleted++
				continue
			}
			kept = append(kept, r)
		}
		return kept, nil
	})
	if err != nil {
		return 0, evaluation.NewStorageError("jsonfile", "delete", err)
	}
	return deleted, nil
}

// Close is a no-op for the file backend.
func (s *JSONFileStorage) Close() error {
	return nil
}
