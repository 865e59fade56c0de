package offline

import (
	"offline-restore/internal/mimeutil"

	"github.com/samber/mo"
)

// Stream is a playable stream rebuilt from a StreamRecord. Segment lookups
// are served by the embedded SegmentIndex.
type Stream struct {
	*SegmentIndex

	ID                     int
	Type                   ContentType
	MimeType               string
	Codecs                 string
	PresentationTimeOffset float64
	Primary                bool
	Language               string
	Label                  mo.Option[string]
	Roles                  []string
	Kind                   mo.Option[string]
	Bandwidth              mo.Option[int]
	Encrypted              bool
	KeyID                  mo.Option[string]

	Width         mo.Option[int]
	Height        mo.Option[int]
	FrameRate     mo.Option[float64]
	ChannelsCount mo.Option[int]
}

// FullMimeType returns the MIME type with its codecs parameter.
func (s *Stream) FullMimeType() string {
	return mimeutil.FullType(s.MimeType, s.Codecs)
}

// Rehydrate rebuilds a Stream from its persisted record. It only builds
// objects; DRM key material is not resolved here. A nil resolve falls back
// to SegmentURI.
func Rehydrate(rec StreamRecord, resolve URIResolver) (*Stream, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	s := &Stream{
		SegmentIndex:           NewSegmentIndex(rec.Segments, rec.InitSegmentKey, resolve),
		ID:                     rec.ID,
		Type:                   rec.ContentType,
		MimeType:               rec.MimeType,
		Codecs:                 rec.Codecs,
		PresentationTimeOffset: rec.PresentationTimeOffset,
		Primary:                rec.Primary,
		Language:               rec.Language,
		Label:                  mo.PointerToOption(rec.Label),
		Roles:                  append([]string{}, rec.Roles...),
		Bandwidth:              mo.PointerToOption(rec.Bandwidth),
		Encrypted:              rec.Encrypted,
		KeyID:                  mo.PointerToOption(rec.KeyID),
	}

	switch {
	case rec.Video != nil:
		s.Width = positive(rec.Video.Width)
		s.Height = positive(rec.Video.Height)
		s.FrameRate = mo.PointerToOption(rec.Video.FrameRate)
	case rec.Audio != nil:
		s.ChannelsCount = positive(rec.Audio.ChannelsCount)
	case rec.Text != nil:
		s.Kind = mo.PointerToOption(rec.Text.Kind)
	}

	return s, nil
}

// positive treats a stored zero the same as an absent value.
func positive(v *int) mo.Option[int] {
	if v == nil || *v <= 0 {
		return mo.None[int]()
	}
	return mo.Some(*v)
}
