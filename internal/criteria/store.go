package criteria

import (
	"fmt"
	"sort"
	"sync"
)

// Spec carries the caller-supplied fields for an Add. Omitted metadata
// receives defaults: duration 0, parallelizable true, no resources.
type Spec struct {
	Dependencies   []DependencyRef
	Description    string
	EstimatedMs    int64
	Parallelizable *bool
	Resources      []ResourceTag
}

// Store holds the mapping from criterion name to its record. It is safe
// for concurrent use; mutations take the write lock, reads a read lock.
// The store does not enforce referential integrity: dependency targets
// may name criteria that are not (yet) present. Those surface as
// missing-dependency issues from Validate, not as Add errors.
type Store struct {
	mu       sync.RWMutex
	criteria map[string]Criterion
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{criteria: make(map[string]Criterion)}
}

// Add inserts or fully replaces the record for name. It returns
// ErrInvalidArgument for an empty name and ErrInvalidDependencySpec for a
// dependency entry without a target, an unknown dependency type, a
// negative duration, or an unknown resource tag.
func (s *Store) Add(name string, spec Spec) error {
	if name == "" {
		return fmt.Errorf("%w: criterion name must be a non-empty string", ErrInvalidArgument)
	}
	for i, dep := range spec.Dependencies {
		if dep.Target == "" {
			return fmt.Errorf("%w: dependency %d of %q has no target criterion", ErrInvalidDependencySpec, i, name)
		}
		if !dep.Type.IsValid() {
			return fmt.Errorf("%w: dependency %d of %q has unknown type %q", ErrInvalidDependencySpec, i, name, dep.Type)
		}
	}
	if spec.EstimatedMs < 0 {
		return fmt.Errorf("%w: estimated duration of %q must be non-negative", ErrInvalidDependencySpec, name)
	}
	for _, tag := range spec.Resources {
		if !tag.IsValid() {
			return fmt.Errorf("%w: unknown resource tag %q on %q", ErrInvalidDependencySpec, tag, name)
		}
	}

	parallelizable := true
	if spec.Parallelizable != nil {
		parallelizable = *spec.Parallelizable
	}

	rec := Criterion{
		Name:           name,
		Dependencies:   spec.Dependencies,
		Description:    spec.Description,
		EstimatedMs:    spec.EstimatedMs,
		Parallelizable: parallelizable,
		Resources:      spec.Resources,
	}.clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria[name] = rec
	return nil
}

// Remove deletes the record for name and reports whether it existed.
// References to the removed criterion held by other records are left in
// place; they become missing-dependency issues.
func (s *Store) Remove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.criteria[name]; !ok {
		return false
	}
	delete(s.criteria, name)
	return true
}

// Get returns a copy of the record for name.
func (s *Store) Get(name string) (Criterion, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.criteria[name]
	if !ok {
		return Criterion{}, false
	}
	return rec.clone(), true
}

// All returns a deep-copied snapshot of every stored record.
func (s *Store) All() map[string]Criterion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Criterion, len(s.criteria))
	for name, rec := range s.criteria {
		out[name] = rec.clone()
	}
	return out
}

// Names returns the stored criterion names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.criteria))
	for name := range s.criteria {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of stored criteria.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.criteria)
}
