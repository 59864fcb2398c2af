package storage

import (
	"context"

	"github.com/leapstack-labs/hbnb/internal/model"
)

// MemoryBackend keeps the last stored set in memory. Nothing survives the
// process.
type MemoryBackend struct {
	records []*model.Record
	saves   int
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend(records ...*model.Record) *MemoryBackend {
	return &MemoryBackend{records: cloneRecords(records)}
}

// Load returns a copy of the last stored set.
func (b *MemoryBackend) Load(_ context.Context) ([]*model.Record, error) {
	return cloneRecords(b.records), nil
}

// Store keeps a copy of records.
func (b *MemoryBackend) Store(_ context.Context, records []*model.Record) error {
	b.records = cloneRecords(records)
	b.saves++
	return nil
}

// Records returns the last stored set.
func (b *MemoryBackend) Records() []*model.Record {
	return cloneRecords(b.records)
}

// Saves returns how many times Store was called.
func (b *MemoryBackend) Saves() int {
	return b.saves
}

// Close is a no-op.
func (b *MemoryBackend) Close() error {
	return nil
}

func cloneRecords(records []*model.Record) []*model.Record {
	if records == nil {
		return nil
	}
	out := make([]*model.Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
