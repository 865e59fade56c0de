package restore

import (
	"context"
	"errors"
	"fmt"

	"offline-restore/internal/offline"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the default number of periods reconstructed in parallel.
const DefaultConcurrency = 4

var (
	// ErrPeriodNotFound is returned for a period index outside the manifest.
	ErrPeriodNotFound = errors.New("period not found")

	// ErrStreamNotFound is returned for a stream id not present in a period.
	ErrStreamNotFound = errors.New("stream not found")
)

// Service restores stored manifests for playback and delegates storage to Repository.
type Service struct {
	repo        Repository
	concurrency int
}

// NewService returns a Service that uses repo and reconstructs at most
// concurrency periods at once. If concurrency <= 0, DefaultConcurrency is used.
func NewService(repo Repository, concurrency int) *Service {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Service{repo: repo, concurrency: concurrency}
}

// Import stores a manifest record, replacing any previous one with the same id.
func (s *Service) Import(ctx context.Context, rec *ManifestRecord) error {
	return s.repo.SaveManifest(ctx, rec)
}

// Delete removes a manifest record. Its segments are left in place.
func (s *Service) Delete(ctx context.Context, id ManifestID) error {
	return s.repo.DeleteManifest(ctx, id)
}

// List returns the ids of all stored manifests.
func (s *Service) List(ctx context.Context) ([]ManifestID, error) {
	return s.repo.ListManifestIDs(ctx)
}

// StoredManifestCount returns the number of stored manifests.
func (s *Service) StoredManifestCount(ctx context.Context) int {
	return s.repo.StoredManifestCount(ctx)
}

// PutSegment stores the bytes for a data key.
func (s *Service) PutSegment(ctx context.Context, key int64, data []byte) error {
	return s.repo.PutSegment(ctx, key, data)
}

// Segment returns the bytes stored for a data key.
func (s *Service) Segment(ctx context.Context, key int64) ([]byte, error) {
	return s.repo.GetSegment(ctx, key)
}

// Fetch returns the bytes behind an offline segment URI as produced by a
// restored manifest.
func (s *Service) Fetch(ctx context.Context, uri string) ([]byte, error) {
	key, err := offline.ParseSegmentURI(uri)
	if err != nil {
		return nil, err
	}
	return s.repo.GetSegment(ctx, key)
}

// Restore rebuilds the playable manifest for id. All periods share one
// presentation timeline; segment URIs use the offline:segment scheme.
func (s *Service) Restore(ctx context.Context, id ManifestID) (*RestoredManifest, error) {
	return s.restore(ctx, id)
}

// MasterPlaylist returns the HLS master playlist of one period.
func (s *Service) MasterPlaylist(ctx context.Context, id ManifestID, period int) (string, error) {
	p, err := s.restoredPeriod(ctx, id, period)
	if err != nil {
		return "", err
	}
	return BuildMasterPlaylist(p), nil
}

// MediaPlaylist returns the HLS media playlist of one stream in one period.
// Segment URIs point at the segment endpoint.
func (s *Service) MediaPlaylist(ctx context.Context, id ManifestID, period, streamID int) (string, error) {
	p, err := s.restoredPeriod(ctx, id, period)
	if err != nil {
		return "", err
	}
	stream := findStream(p, streamID)
	if stream == nil {
		return "", fmt.Errorf("%w: %d", ErrStreamNotFound, streamID)
	}
	return BuildMediaPlaylist(stream), nil
}

func (s *Service) restoredPeriod(ctx context.Context, id ManifestID, period int) (*offline.Period, error) {
	m, err := s.restore(ctx, id, offline.WithURIResolver(SegmentPath))
	if err != nil {
		return nil, err
	}
	if period < 0 || period >= len(m.Periods) {
		return nil, fmt.Errorf("%w: %d", ErrPeriodNotFound, period)
	}
	return m.Periods[period], nil
}

func (s *Service) restore(ctx context.Context, id ManifestID, opts ...offline.Option) (*RestoredManifest, error) {
	rec, err := s.repo.GetManifest(ctx, id)
	if err != nil {
		return nil, err
	}

	timeline := offline.NewPresentationTimeline(rec.Duration)
	periods := make([]*offline.Period, len(rec.Periods))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, pr := range rec.Periods {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := offline.ReconstructPeriod(pr, rec.DrmInfos, timeline, opts...)
			if err != nil {
				return fmt.Errorf("%w: period %d: %w", ErrInvalidManifest, i, err)
			}
			periods[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &RestoredManifest{
		ID:          rec.ID,
		SessionID:   uuid.NewString(),
		OriginalURI: rec.OriginalURI,
		Timeline:    timeline,
		Periods:     periods,
		AppMetadata: rec.AppMetadata,
	}, nil
}

func findStream(p *offline.Period, id int) *offline.Stream {
	for _, v := range p.Variants {
		if v.Audio != nil && v.Audio.ID == id {
			return v.Audio
		}
		if v.Video != nil && v.Video.ID == id {
			return v.Video
		}
	}
	for _, t := range p.TextStreams {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// VariantCount returns the number of variants across all periods.
func (m *RestoredManifest) VariantCount() int {
	n := 0
	for _, p := range m.Periods {
		n += len(p.Variants)
	}
	return n
}
