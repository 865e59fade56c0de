package restore

import (
	"context"
	"encoding/json"
	"slices"
)

// Store is the persistence abstraction for offline manifests and segment bytes.
// Implementations can be in-memory, on-disk (BadgerStore), or remote (RedisStore).
// The Repository uses Store for all reads and writes; callers of Repository
// do not need to know which Store is used.
//
// GetManifest and GetSegment return ErrManifestNotFound and ErrSegmentNotFound
// for missing keys.
type Store interface {
	GetManifest(ctx context.Context, id ManifestID) (*ManifestRecord, error)
	PutManifest(ctx context.Context, rec *ManifestRecord) error
	DeleteManifest(ctx context.Context, id ManifestID) error
	ListManifestIDs(ctx context.Context) ([]ManifestID, error)

	GetSegment(ctx context.Context, key int64) ([]byte, error)
	PutSegment(ctx context.Context, key int64, data []byte) error

	Close() error
}

// InMemoryStore is an in-memory implementation of Store. Manifests are held
// in their JSON encoding, like the other stores, so callers never share
// slices or maps with it. It is not safe for concurrent use on its own; the
// Repository serializes access.
type InMemoryStore struct {
	manifests map[ManifestID][]byte
	segments  map[int64][]byte
}

// NewInMemoryStore returns a new empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		manifests: make(map[ManifestID][]byte),
		segments:  make(map[int64][]byte),
	}
}

// GetManifest implements Store.GetManifest.
func (s *InMemoryStore) GetManifest(_ context.Context, id ManifestID) (*ManifestRecord, error) {
	buf, ok := s.manifests[id]
	if !ok {
		return nil, ErrManifestNotFound
	}
	var out ManifestRecord
	if err := json.Unmarshal(buf, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PutManifest implements Store.PutManifest.
func (s *InMemoryStore) PutManifest(_ context.Context, rec *ManifestRecord) error {
	buf, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	s.manifests[rec.ID] = buf
	return nil
}

// DeleteManifest implements Store.DeleteManifest.
func (s *InMemoryStore) DeleteManifest(_ context.Context, id ManifestID) error {
	delete(s.manifests, id)
	return nil
}

// ListManifestIDs implements Store.ListManifestIDs. IDs are sorted.
func (s *InMemoryStore) ListManifestIDs(_ context.Context) ([]ManifestID, error) {
	ids := make([]ManifestID, 0, len(s.manifests))
	for id := range s.manifests {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// GetSegment implements Store.GetSegment.
func (s *InMemoryStore) GetSegment(_ context.Context, key int64) ([]byte, error) {
	data, ok := s.segments[key]
	if !ok {
		return nil, ErrSegmentNotFound
	}
	return slices.Clone(data), nil
}

// PutSegment implements Store.PutSegment.
func (s *InMemoryStore) PutSegment(_ context.Context, key int64, data []byte) error {
	s.segments[key] = slices.Clone(data)
	return nil
}

// Close implements Store.Close.
func (s *InMemoryStore) Close() error { return nil }
