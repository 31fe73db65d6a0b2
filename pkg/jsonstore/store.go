// Package jsonstore provides named-collection JSON persistence: each
// collection is one pretty-printed JSON file inside a data directory.
//
// The contract is deliberately small. Read decodes a collection into the
// caller's value and leaves the caller-supplied default untouched when the
// file does not exist yet. Write replaces the whole file atomically via a
// temp file and rename, so a crash mid-write never leaves a torn file
// behind. If the primary data directory is unwritable (read-only image,
// locked-down deploy), the store degrades to a fallback directory under the
// OS temp dir instead of failing every request.
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Store persists named JSON collections inside a single directory.
// All methods are safe for concurrent use within one process; cross-process
// writers race with last-writer-wins semantics.
type Store struct {
	dir    string
	logger *slog.Logger
	mu     sync.Mutex
}

// Open prepares a store rooted at dir, creating it if needed. When dir
// cannot be created or written, Open falls back to a directory under
// os.TempDir() and logs the switch.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default().With("component", "jsonstore")
	}

	if err := ensureWritable(dir); err != nil {
		fallback := filepath.Join(os.TempDir(), "compass-data")
		logger.Warn("data directory unwritable, using fallback",
			"dir", dir,
			"fallback", fallback,
			"error", err,
		)
		if ferr := ensureWritable(fallback); ferr != nil {
			return nil, fmt.Errorf("data directory %q unwritable and fallback failed: %w", dir, ferr)
		}
		dir = fallback
	}

	return &Store{dir: dir, logger: logger}, nil
}

// Dir returns the directory the store actually writes to (primary or fallback).
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the on-disk path of the named collection.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Read decodes the named collection into v. A missing file is not an error:
// v keeps whatever default the caller initialized it with.
func (s *Store) Read(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked(name, v)
}

func (s *Store) readLocked(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read collection %q: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode collection %q: %w", name, err)
	}
	return nil
}

// Write replaces the named collection with v, atomically.
func (s *Store) Write(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(name, v)
}

func (s *Store) writeLocked(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode collection %q: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write collection %q: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace collection %q: %w", name, err)
	}
	return nil
}

// Update runs a read-modify-write cycle on the named collection under the
// store lock. The fn receives the decoded collection (or the caller's
// default when the file is absent) and returns the value to persist.
func Update[T any](s *Store, name string, def T, fn func(T) (T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := def
	if err := s.readLocked(name, &cur); err != nil {
		return err
	}
	next, err := fn(cur)
	if err != nil {
		return err
	}
	return s.writeLocked(name, next)
}

// ensureWritable creates dir and probes it with a throwaway write.
func ensureWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	probe := filepath.Join(dir, ".probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return err
	}
	return os.Remove(probe)
}
