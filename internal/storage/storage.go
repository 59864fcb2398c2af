// Package storage holds the console's object set and persists it through a
// pluggable Backend.
//
// Objects are indexed by the composite key "ClassName.id" and kept in
// insertion order. The Storage value is constructed once per process and
// passed to the interpreter; it is not safe for concurrent use.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/hbnb/internal/model"
)

// Backend persists and restores the full object set.
type Backend interface {
	// Load returns every stored record in insertion order.
	Load(ctx context.Context) ([]*model.Record, error)
	// Store replaces the stored set with records.
	Store(ctx context.Context, records []*model.Record) error
	// Close releases the backend's resources.
	Close() error
}

// ErrKeyConflict is returned by Save when two objects would be stored
// under the same key.
var ErrKeyConflict = errors.New("key already in use")

// Key returns the composite key of an object.
func Key(class, id string) string {
	return class + "." + id
}

// recordKey returns the key a backend stores rec under.
func recordKey(rec *model.Record) string {
	class, _ := rec.Get(model.FieldClassName)
	id, _ := rec.Get(model.FieldID)
	return Key(fmt.Sprint(class), fmt.Sprint(id))
}

// skippedRecord is a stored record Reload could not reconstruct. It is
// written back unchanged by Save.
type skippedRecord struct {
	err    error
	record *model.Record
}

// Storage is the in-memory object set backed by a Backend.
type Storage struct {
	backend Backend
	logger  *slog.Logger
	objects map[string]*model.Model
	order   []string
	skipped []skippedRecord
}

// Open creates a Storage over backend and loads its contents.
func Open(ctx context.Context, backend Backend, logger *slog.Logger) (*Storage, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Storage{
		backend: backend,
		logger:  logger,
		objects: make(map[string]*model.Model),
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// New registers m in the object set. It is persisted by the next Save.
func (s *Storage) New(m *model.Model) {
	s.put(Key(m.ClassName(), m.ID()), m)
}

func (s *Storage) put(key string, m *model.Model) {
	if _, ok := s.objects[key]; !ok {
		s.order = append(s.order, key)
	}
	s.objects[key] = m
}

// Find returns the object stored under (class, id).
func (s *Storage) Find(class, id string) (*model.Model, bool) {
	m, ok := s.objects[Key(class, id)]
	return m, ok
}

// Delete removes (class, id) from the object set and reports whether it existed.
func (s *Storage) Delete(class, id string) bool {
	key := Key(class, id)
	if _, ok := s.objects[key]; !ok {
		return false
	}
	delete(s.objects, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// All returns every object in insertion order.
func (s *Storage) All() []*model.Model {
	out := make([]*model.Model, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.objects[k])
	}
	return out
}

// Len returns the number of stored objects.
func (s *Storage) Len() int {
	return len(s.order)
}

// Exists reports whether (class, id) is taken by an object or by a
// skipped record.
func (s *Storage) Exists(class, id string) bool {
	key := Key(class, id)
	if _, ok := s.objects[key]; ok {
		return true
	}
	for _, sk := range s.skipped {
		if recordKey(sk.record) == key {
			return true
		}
	}
	return false
}

// Save persists the current object set followed by the records skipped at
// load. Objects whose id was rewritten since they were registered are
// re-indexed under their current key. If a rewritten key is already taken,
// Save returns ErrKeyConflict and neither the index nor the backend changes.
func (s *Storage) Save(ctx context.Context) error {
	objects := s.All()
	taken := make(map[string]bool, len(objects)+len(s.skipped))
	for _, sk := range s.skipped {
		taken[recordKey(sk.record)] = true
	}
	keys := make([]string, 0, len(objects))
	for _, m := range objects {
		key := Key(m.ClassName(), m.ID())
		if taken[key] {
			return fmt.Errorf("failed to save objects: %w: %s", ErrKeyConflict, key)
		}
		taken[key] = true
		keys = append(keys, key)
	}

	records := make([]*model.Record, 0, len(objects)+len(s.skipped))
	for _, m := range objects {
		records = append(records, m.Record())
	}
	for _, sk := range s.skipped {
		records = append(records, sk.record)
	}

	if err := s.backend.Store(ctx, records); err != nil {
		return fmt.Errorf("failed to save objects: %w", err)
	}

	s.objects = make(map[string]*model.Model, len(objects))
	s.order = s.order[:0]
	for i, m := range objects {
		s.put(keys[i], m)
	}
	s.logger.Debug("saved objects", slog.Int("count", len(objects)), slog.Int("skipped", len(s.skipped)))
	return nil
}

// Reload replaces the object set with the backend's contents. Records that
// cannot be reconstructed are logged and kept aside for Save.
func (s *Storage) Reload(ctx context.Context) error {
	records, err := s.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load objects: %w", err)
	}

	s.objects = make(map[string]*model.Model, len(records))
	s.order = nil
	s.skipped = nil

	for i, rec := range records {
		m, err := model.Reconstruct(rec)
		if err != nil {
			if errors.Is(err, model.ErrMalformedRecord) {
				s.logger.Warn("skipping stored record", slog.Int("index", i), slog.String("error", err.Error()))
				s.skipped = append(s.skipped, skippedRecord{
					err:    fmt.Errorf("record %d: %w", i, err),
					record: rec,
				})
				continue
			}
			return err
		}
		s.put(Key(m.ClassName(), m.ID()), m)
	}

	s.logger.Debug("loaded objects", slog.Int("count", len(s.order)), slog.Int("skipped", len(s.skipped)))
	return nil
}

// Skipped returns the errors of records the last Reload could not
// reconstruct.
func (s *Storage) Skipped() []error {
	out := make([]error, 0, len(s.skipped))
	for _, sk := range s.skipped {
		out = append(out, sk.err)
	}
	return out
}

// Close closes the backend.
func (s *Storage) Close() error {
	return s.backend.Close()
}
