package restore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"
)

const (
	badgerManifestPrefix = "manifest:"
	badgerSegmentPrefix  = "segment:"
)

// BadgerStore keeps manifests and segment bytes in a local badger database:
//   - manifests: key = "manifest:<id>" (JSON)
//   - segments: key = "segment:<key>" (raw bytes)
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) a badger database in dir.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	return openBadger(badger.DefaultOptions(dir).WithLogger(nil))
}

// OpenInMemoryBadgerStore opens a badger database that lives only in memory.
func OpenInMemoryBadgerStore() (*BadgerStore, error) {
	return openBadger(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
}

func openBadger(opts badger.Options) (*BadgerStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Close implements Store.Close.
func (s *BadgerStore) Close() error { return s.db.Close() }

func manifestKey(id ManifestID) []byte {
	return []byte(badgerManifestPrefix + string(id))
}

func segmentKey(key int64) []byte {
	return []byte(badgerSegmentPrefix + strconv.FormatInt(key, 10))
}

// GetManifest implements Store.GetManifest.
func (s *BadgerStore) GetManifest(_ context.Context, id ManifestID) (*ManifestRecord, error) {
	var out ManifestRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(manifestKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &out)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrManifestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get manifest %s: %w", id, err)
	}
	return &out, nil
}

// PutManifest implements Store.PutManifest.
func (s *BadgerStore) PutManifest(_ context.Context, rec *ManifestRecord) error {
	buf, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(manifestKey(rec.ID), buf)
	})
}

// DeleteManifest implements Store.DeleteManifest.
func (s *BadgerStore) DeleteManifest(_ context.Context, id ManifestID) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(manifestKey(id))
	})
}

// ListManifestIDs implements Store.ListManifestIDs. IDs come back in key order.
func (s *BadgerStore) ListManifestIDs(_ context.Context) ([]ManifestID, error) {
	ids := make([]ManifestID, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(badgerManifestPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().Key()
			ids = append(ids, ManifestID(key[len(badgerManifestPrefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// GetSegment implements Store.GetSegment.
func (s *BadgerStore) GetSegment(_ context.Context, key int64) ([]byte, error) {
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(segmentKey(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrSegmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get segment %d: %w", key, err)
	}
	return out, nil
}

// PutSegment implements Store.PutSegment.
func (s *BadgerStore) PutSegment(_ context.Context, key int64, data []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(segmentKey(key), data)
	})
}
