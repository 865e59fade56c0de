package restore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Repository defines the concurrency-safe contract for reading and writing
// offline manifests and their segment bytes.
type Repository interface {
	// SaveManifest validates rec and stores it, replacing any manifest with
	// the same id. Invalid manifests are rejected with ErrInvalidManifest.
	SaveManifest(ctx context.Context, rec *ManifestRecord) error

	// GetManifest returns the stored manifest or ErrManifestNotFound.
	GetManifest(ctx context.Context, id ManifestID) (*ManifestRecord, error)

	// DeleteManifest removes a manifest. Deleting a missing manifest is a no-op.
	DeleteManifest(ctx context.Context, id ManifestID) error

	// ListManifestIDs returns the ids of all stored manifests.
	ListManifestIDs(ctx context.Context) ([]ManifestID, error)

	// PutSegment stores the bytes for a data key.
	PutSegment(ctx context.Context, key int64, data []byte) error

	// GetSegment returns the bytes for a data key or ErrSegmentNotFound.
	GetSegment(ctx context.Context, key int64) ([]byte, error)

	// StoredManifestCount returns the number of stored manifests.
	// Used for metrics.
	StoredManifestCount(ctx context.Context) int
}

var (
	// ErrManifestNotFound is returned when no manifest exists for an id.
	ErrManifestNotFound = errors.New("manifest not found")

	// ErrSegmentNotFound is returned when no bytes exist for a data key.
	ErrSegmentNotFound = errors.New("segment not found")

	// ErrInvalidManifest is returned when a manifest cannot be restored as stored.
	ErrInvalidManifest = errors.New("invalid manifest")
)

// StoreRepository is a concurrency-safe implementation of Repository.
// It uses a Store for persistence; by default that is an InMemoryStore.
type StoreRepository struct {
	mu    sync.RWMutex
	store Store
}

// NewInMemoryRepository constructs a new repository with a default in-memory store.
func NewInMemoryRepository() *StoreRepository {
	return NewRepositoryWithStore(NewInMemoryStore())
}

// NewRepositoryWithStore constructs a repository that uses the given Store.
func NewRepositoryWithStore(store Store) *StoreRepository {
	return &StoreRepository{store: store}
}

// SaveManifest implements Repository.SaveManifest.
func (r *StoreRepository) SaveManifest(ctx context.Context, rec *ManifestRecord) error {
	if err := validateManifest(rec); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *rec
	cp.StoredAt = time.Now().UTC()
	return r.store.PutManifest(ctx, &cp)
}

// GetManifest implements Repository.GetManifest.
func (r *StoreRepository) GetManifest(ctx context.Context, id ManifestID) (*ManifestRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.store.GetManifest(ctx, id)
}

// DeleteManifest implements Repository.DeleteManifest.
func (r *StoreRepository) DeleteManifest(ctx context.Context, id ManifestID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.store.DeleteManifest(ctx, id)
}

// ListManifestIDs implements Repository.ListManifestIDs.
func (r *StoreRepository) ListManifestIDs(ctx context.Context) ([]ManifestID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.store.ListManifestIDs(ctx)
}

// PutSegment implements Repository.PutSegment.
func (r *StoreRepository) PutSegment(ctx context.Context, key int64, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.store.PutSegment(ctx, key, data)
}

// GetSegment implements Repository.GetSegment.
func (r *StoreRepository) GetSegment(ctx context.Context, key int64) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.store.GetSegment(ctx, key)
}

// StoredManifestCount implements Repository.StoredManifestCount.
// A store error counts as zero.
func (r *StoreRepository) StoredManifestCount(ctx context.Context) int {
	ids, err := r.ListManifestIDs(ctx)
	if err != nil {
		return 0
	}
	return len(ids)
}

// validateManifest rejects records that could never be restored, so a bad
// import fails at write time instead of at playback.
func validateManifest(rec *ManifestRecord) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidManifest)
	}
	if len(rec.Periods) == 0 {
		return fmt.Errorf("%w: manifest %s has no periods", ErrInvalidManifest, rec.ID)
	}
	for i, p := range rec.Periods {
		if i > 0 && p.StartTime < rec.Periods[i-1].StartTime {
			return fmt.Errorf("%w: period %d starts before period %d", ErrInvalidManifest, i, i-1)
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%w: period %d: %w", ErrInvalidManifest, i, err)
		}
	}
	return nil
}
