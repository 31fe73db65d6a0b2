package catalog

import "errors"

var (
	// ErrNotFound is returned when an obligation id is not in the catalog.
	ErrNotFound = errors.New("obligation not found")

	// ErrDuplicateID is returned when creating an obligation whose id is taken.
	ErrDuplicateID = errors.New("obligation id already exists")
)
