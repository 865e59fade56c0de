package offline

import (
	"math"
	"sort"

	"github.com/samber/mo"
)

// SegmentReference points at one stored segment.
type SegmentReference struct {
	Position  int
	StartTime float64
	EndTime   float64
	StartByte int64
	// EndByte is unset: the stored blob is the whole segment.
	EndByte mo.Option[int64]
	URIs    []string
}

// GetURIs returns the URIs the segment can be fetched from.
func (r *SegmentReference) GetURIs() []string {
	return r.URIs
}

// InitSegmentReference points at a stored initialization segment.
type InitSegmentReference struct {
	StartByte int64
	EndByte   mo.Option[int64]
	URIs      []string
}

// GetURIs returns the URIs the init segment can be fetched from.
func (r *InitSegmentReference) GetURIs() []string {
	return r.URIs
}

// SegmentIndex answers segment lookups for a stream from its persisted
// segment records. It never changes after construction and is safe for
// concurrent use.
type SegmentIndex struct {
	segments []SegmentRecord
	init     *InitSegmentReference
	resolve  URIResolver
}

// NewSegmentIndex builds an index over segments, which must be sorted by
// StartTime. initKey may be nil when the stream has no init segment.
// A nil resolve falls back to SegmentURI.
func NewSegmentIndex(segments []SegmentRecord, initKey *int64, resolve URIResolver) *SegmentIndex {
	if resolve == nil {
		resolve = SegmentURI
	}
	idx := &SegmentIndex{
		segments: append([]SegmentRecord(nil), segments...),
		resolve:  resolve,
	}
	if initKey != nil {
		idx.init = &InitSegmentReference{
			StartByte: 0,
			EndByte:   mo.None[int64](),
			URIs:      []string{resolve(*initKey)},
		}
	}
	return idx
}

// FindSegmentPosition returns the position of the segment whose interval
// [StartTime, EndTime) contains t. On a boundary shared by two segments the
// later one wins. ok is false when t falls outside every segment.
func (s *SegmentIndex) FindSegmentPosition(t float64) (pos int, ok bool) {
	if math.IsNaN(t) {
		return 0, false
	}
	// First segment starting after t; the candidate is the one before it.
	next := sort.Search(len(s.segments), func(i int) bool {
		return s.segments[i].StartTime > t
	})
	pos = next - 1
	if pos < 0 || t >= s.segments[pos].EndTime {
		return 0, false
	}
	return pos, true
}

// GetSegmentReference returns the reference at position, or nil when the
// position is out of range.
func (s *SegmentIndex) GetSegmentReference(position int) *SegmentReference {
	if position < 0 || position >= len(s.segments) {
		return nil
	}
	seg := s.segments[position]
	return &SegmentReference{
		Position:  position,
		StartTime: seg.StartTime,
		EndTime:   seg.EndTime,
		StartByte: 0,
		EndByte:   mo.None[int64](),
		URIs:      []string{s.resolve(seg.DataKey)},
	}
}

// InitSegmentReference returns the init segment, or nil if the stream has none.
func (s *SegmentIndex) InitSegmentReference() *InitSegmentReference {
	return s.init
}

// Len returns the number of segments.
func (s *SegmentIndex) Len() int {
	return len(s.segments)
}
