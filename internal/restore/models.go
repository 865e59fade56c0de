package restore

import (
	"time"

	"offline-restore/internal/offline"
)

// ManifestID uniquely identifies a stored offline manifest.
type ManifestID string

// ManifestRecord is the persisted form of a downloaded presentation.
// This also matches the JSON payload for importing a manifest.
type ManifestRecord struct {
	ID          ManifestID             `json:"id"`
	OriginalURI string                 `json:"originalUri"`
	Duration    float64                `json:"duration"`
	Size        int64                  `json:"size"`
	Expiration  *time.Time             `json:"expiration,omitempty"`
	Periods     []offline.PeriodRecord `json:"periods"`
	DrmInfos    []offline.DrmInfo      `json:"drmInfos"`
	AppMetadata map[string]string      `json:"appMetadata,omitempty"`

	// Metadata managed by the service (not accepted from the API).
	StoredAt time.Time `json:"storedAt"`
}

// RestoredManifest is the playable form of a ManifestRecord, rebuilt for one
// playback session.
type RestoredManifest struct {
	ID          ManifestID
	SessionID   string
	OriginalURI string
	Timeline    *offline.PresentationTimeline
	Periods     []*offline.Period
	AppMetadata map[string]string
}
