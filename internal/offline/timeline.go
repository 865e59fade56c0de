package offline

import "sync"

// PresentationTimeline is the caller-owned timeline a reconstructed period is
// bound to. Reconstruction never reads or changes it.
type PresentationTimeline struct {
	mu       sync.RWMutex
	duration float64
}

// NewPresentationTimeline returns a static timeline of the given duration in seconds.
func NewPresentationTimeline(duration float64) *PresentationTimeline {
	return &PresentationTimeline{duration: duration}
}

// Duration returns the presentation duration in seconds.
func (t *PresentationTimeline) Duration() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.duration
}

// SetDuration updates the presentation duration.
func (t *PresentationTimeline) SetDuration(d float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.duration = d
}

// SeekRange returns the seekable range [start, end] of a static presentation.
func (t *PresentationTimeline) SeekRange() (start, end float64) {
	return 0, t.Duration()
}
