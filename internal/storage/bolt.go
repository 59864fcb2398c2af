package storage

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "github.com/boltdb/bolt"

	"github.com/leapstack-labs/hbnb/internal/model"
)

const boltBucket = "objects"

// BoltBackend stores records in a BoltDB file. Keys are big-endian sequence
// numbers so that bucket iteration follows insertion order.
type BoltBackend struct {
	db *bolt.DB
}

// OpenBoltBackend opens (or creates) the database at path and ensures the
// objects bucket exists.
func OpenBoltBackend(path string) (*BoltBackend, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &BoltBackend{db: db}, nil
}

// Load returns every record in the bucket.
func (b *BoltBackend) Load(_ context.Context) ([]*model.Record, error) {
	var records []*model.Record

	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(boltBucket))
		return bucket.ForEach(func(k, v []byte) error {
			rec := model.NewRecord()
			if err := json.Unmarshal(v, rec); err != nil {
				return fmt.Errorf("failed to decode object %d: %w", binary.BigEndian.Uint64(k), err)
			}
			records = append(records, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Store replaces the bucket contents with records.
func (b *BoltBackend) Store(_ context.Context, records []*model.Record) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(boltBucket)); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		bucket, err := tx.CreateBucket([]byte(boltBucket))
		if err != nil {
			return err
		}

		for _, rec := range records {
			seq, err := bucket.NextSequence()
			if err != nil {
				return err
			}
			data, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			if err := bucket.Put(itob(seq), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close releases the database file lock.
func (b *BoltBackend) Close() error {
	return b.db.Close()
}

func itob(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}
