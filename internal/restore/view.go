package restore

import (
	"offline-restore/internal/offline"
)

// manifestView is the JSON shape of a RestoredManifest.
type manifestView struct {
	ID          ManifestID        `json:"id"`
	SessionID   string            `json:"sessionId"`
	OriginalURI string            `json:"originalUri"`
	Duration    float64           `json:"duration"`
	SeekRange   [2]float64        `json:"seekRange"`
	Periods     []periodView      `json:"periods"`
	AppMetadata map[string]string `json:"appMetadata,omitempty"`
}

type periodView struct {
	StartTime   float64       `json:"startTime"`
	Variants    []variantView `json:"variants"`
	TextStreams []streamView  `json:"textStreams"`
}

type variantView struct {
	ID                   int               `json:"id"`
	Language             string            `json:"language"`
	Primary              bool              `json:"primary"`
	Bandwidth            int               `json:"bandwidth"`
	Audio                *streamView       `json:"audio"`
	Video                *streamView       `json:"video"`
	DrmInfos             []offline.DrmInfo `json:"drmInfos"`
	AllowedByApplication bool              `json:"allowedByApplication"`
	AllowedByKeySystem   bool              `json:"allowedByKeySystem"`
}

type streamView struct {
	ID                     int                 `json:"id"`
	Type                   offline.ContentType `json:"type"`
	MimeType               string              `json:"mimeType"`
	Codecs                 string              `json:"codecs"`
	PresentationTimeOffset float64             `json:"presentationTimeOffset"`
	Primary                bool                `json:"primary"`
	Language               string              `json:"language"`
	Label                  *string             `json:"label"`
	Roles                  []string            `json:"roles"`
	Kind                   *string             `json:"kind,omitempty"`
	Bandwidth              *int                `json:"bandwidth,omitempty"`
	Encrypted              bool                `json:"encrypted"`
	KeyID                  *string             `json:"keyId"`
	Width                  *int                `json:"width,omitempty"`
	Height                 *int                `json:"height,omitempty"`
	FrameRate              *float64            `json:"frameRate,omitempty"`
	ChannelsCount          *int                `json:"channelsCount"`
	InitSegment            *referenceView      `json:"initSegment"`
	Segments               []referenceView     `json:"segments"`
}

type referenceView struct {
	Position  *int     `json:"position,omitempty"`
	StartTime *float64 `json:"startTime,omitempty"`
	EndTime   *float64 `json:"endTime,omitempty"`
	StartByte int64    `json:"startByte"`
	EndByte   *int64   `json:"endByte"`
	URIs      []string `json:"uris"`
}

func newManifestView(m *RestoredManifest) manifestView {
	start, end := m.Timeline.SeekRange()
	out := manifestView{
		ID:          m.ID,
		SessionID:   m.SessionID,
		OriginalURI: m.OriginalURI,
		Duration:    m.Timeline.Duration(),
		SeekRange:   [2]float64{start, end},
		Periods:     make([]periodView, 0, len(m.Periods)),
		AppMetadata: m.AppMetadata,
	}
	for _, p := range m.Periods {
		out.Periods = append(out.Periods, newPeriodView(p))
	}
	return out
}

func newPeriodView(p *offline.Period) periodView {
	out := periodView{
		StartTime:   p.StartTime,
		Variants:    make([]variantView, 0, len(p.Variants)),
		TextStreams: make([]streamView, 0, len(p.TextStreams)),
	}
	for _, v := range p.Variants {
		out.Variants = append(out.Variants, variantView{
			ID:                   v.ID,
			Language:             v.Language,
			Primary:              v.Primary,
			Bandwidth:            v.Bandwidth,
			Audio:                newStreamViewPtr(v.Audio),
			Video:                newStreamViewPtr(v.Video),
			DrmInfos:             v.DrmInfos,
			AllowedByApplication: v.AllowedByApplication,
			AllowedByKeySystem:   v.AllowedByKeySystem,
		})
	}
	for _, t := range p.TextStreams {
		out.TextStreams = append(out.TextStreams, newStreamView(t))
	}
	return out
}

func newStreamViewPtr(s *offline.Stream) *streamView {
	if s == nil {
		return nil
	}
	v := newStreamView(s)
	return &v
}

func newStreamView(s *offline.Stream) streamView {
	out := streamView{
		ID:                     s.ID,
		Type:                   s.Type,
		MimeType:               s.MimeType,
		Codecs:                 s.Codecs,
		PresentationTimeOffset: s.PresentationTimeOffset,
		Primary:                s.Primary,
		Language:               s.Language,
		Label:                  s.Label.ToPointer(),
		Roles:                  s.Roles,
		Kind:                   s.Kind.ToPointer(),
		Bandwidth:              s.Bandwidth.ToPointer(),
		Encrypted:              s.Encrypted,
		KeyID:                  s.KeyID.ToPointer(),
		Width:                  s.Width.ToPointer(),
		Height:                 s.Height.ToPointer(),
		FrameRate:              s.FrameRate.ToPointer(),
		ChannelsCount:          s.ChannelsCount.ToPointer(),
		Segments:               make([]referenceView, 0, s.Len()),
	}
	if initRef := s.InitSegmentReference(); initRef != nil {
		out.InitSegment = &referenceView{
			StartByte: initRef.StartByte,
			EndByte:   initRef.EndByte.ToPointer(),
			URIs:      initRef.GetURIs(),
		}
	}
	for i := 0; i < s.Len(); i++ {
		ref := s.GetSegmentReference(i)
		out.Segments = append(out.Segments, referenceView{
			Position:  &ref.Position,
			StartTime: &ref.StartTime,
			EndTime:   &ref.EndTime,
			StartByte: ref.StartByte,
			EndByte:   ref.EndByte.ToPointer(),
			URIs:      ref.GetURIs(),
		})
	}
	return out
}
