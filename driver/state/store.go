package state

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	errs "github.com/lixenwraith/termflow/errors"
)

const bucketState = "state"

// Store persists state values in a bolt database, JSON-encoded per key
type Store struct {
	db *bolt.DB
}

// OpenStore opens or creates the database at path
func OpenStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errs.WrapFatal(fmt.Errorf("%w: %w", errs.ErrStorageUnavailable, err), "state", "OpenStore", "open "+path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketState))
		return err
	})
	if err != nil {
		db.Close()
		return nil, errs.WrapFatal(err, "state", "OpenStore", "initialize state bucket")
	}
	return &Store{db: db}, nil
}

// Load reads every stored value
func (s *Store) Load() (map[string]any, error) {
	values := make(map[string]any)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketState))
		return b.ForEach(func(k, v []byte) error {
			var value any
			if err := json.Unmarshal(v, &value); err != nil {
				return fmt.Errorf("key %q: %w", k, err)
			}
			values[string(k)] = value
			return nil
		})
	})
	if err != nil {
		return nil, errs.WrapFatal(err, "state", "Load", "read values")
	}
	return values, nil
}

// Put stores value under key
func (s *Store) Put(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errs.WrapInvalid(err, "state", "Put", "encode "+key)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketState)).Put([]byte(key), data)
	})
	if err != nil {
		return errs.WrapFatal(err, "state", "Put", "write "+key)
	}
	return nil
}

// Delete removes key
func (s *Store) Delete(key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketState)).Delete([]byte(key))
	})
	if err != nil {
		return errs.WrapFatal(err, "state", "Delete", "delete "+key)
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}
