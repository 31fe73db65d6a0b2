package catalog

import (
	"fmt"
	"log/slog"

	"complyhq/compass/pkg/jsonstore"
)

// Collection is the file name of the obligations collection.
const Collection = "obligations.json"

// Store is the administrative CRUD surface over the persisted catalog.
// Create enforces unique ids; Update and Delete enforce existence. Writes
// go through the jsonstore's atomic replace, so readers never observe a
// half-written catalog. Concurrent cross-process editors are last-writer-wins.
type Store struct {
	files  *jsonstore.Store
	logger *slog.Logger
}

// NewStore creates a catalog store on top of the given persistence layer.
func NewStore(files *jsonstore.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default().With("component", "catalog.store")
	}
	return &Store{files: files, logger: logger}
}

// List returns all obligations in stored order.
func (s *Store) List() ([]Obligation, error) {
	obligations := []Obligation{}
	if err := s.files.Read(Collection, &obligations); err != nil {
		return nil, err
	}
	return obligations, nil
}

// Snapshot loads the current catalog as a read-only evaluation snapshot.
func (s *Store) Snapshot() (*Catalog, error) {
	obligations, err := s.List()
	if err != nil {
		return nil, err
	}
	return New(obligations), nil
}

// Get returns one obligation by id.
func (s *Store) Get(id string) (Obligation, error) {
	obligations, err := s.List()
	if err != nil {
		return Obligation{}, err
	}
	for _, o := range obligations {
		if o.ID == id {
			return o, nil
		}
	}
	return Obligation{}, ErrNotFound
}

// Seed writes the given obligations if the stored catalog is empty.
// Returns true when the seed was applied. An already populated catalog is
// left untouched.
func (s *Store) Seed(obligations []Obligation) (bool, error) {
	if issues := Errors(Validate(obligations)); len(issues) > 0 {
		return false, fmt.Errorf("invalid catalog: %s", issues[0])
	}

	seeded := false
	err := jsonstore.Update(s.files, Collection, []Obligation{}, func(cur []Obligation) ([]Obligation, error) {
		if len(cur) > 0 {
			return cur, nil
		}
		seeded = true
		return obligations, nil
	})
	if err != nil {
		return false, err
	}

	if seeded {
		s.logger.Info("catalog seeded", "obligations", len(obligations))
	}
	return seeded, nil
}

// Create appends a new obligation. The id must not already exist.
func (s *Store) Create(o Obligation) error {
	if issues := Errors(Validate([]Obligation{o})); len(issues) > 0 {
		return fmt.Errorf("invalid obligation: %s", issues[0])
	}

	err := jsonstore.Update(s.files, Collection, []Obligation{}, func(cur []Obligation) ([]Obligation, error) {
		for _, existing := range cur {
			if existing.ID == o.ID {
				return nil, ErrDuplicateID
			}
		}
		return append(cur, o), nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("obligation created", "id", o.ID, "jurisdiction", o.Jurisdiction)
	return nil
}

// Update replaces an existing obligation in place, preserving its position.
func (s *Store) Update(o Obligation) error {
	if issues := Errors(Validate([]Obligation{o})); len(issues) > 0 {
		return fmt.Errorf("invalid obligation: %s", issues[0])
	}

	err := jsonstore.Update(s.files, Collection, []Obligation{}, func(cur []Obligation) ([]Obligation, error) {
		for i, existing := range cur {
			if existing.ID == o.ID {
				cur[i] = o
				return cur, nil
			}
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return err
	}

	s.logger.Info("obligation updated", "id", o.ID)
	return nil
}

// Delete removes an obligation by id.
func (s *Store) Delete(id string) error {
	err := jsonstore.Update(s.files, Collection, []Obligation{}, func(cur []Obligation) ([]Obligation, error) {
		next := cur[:0]
		found := false
		for _, existing := range cur {
			if existing.ID == id {
				found = true
				continue
			}
			next = append(next, existing)
		}
		if !found {
			return nil, ErrNotFound
		}
		return next, nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("obligation deleted", "id", id)
	return nil
}
