package offline

import (
	"fmt"

	"github.com/samber/lo"
)

// Period is a reconstructed period ready for playback.
type Period struct {
	StartTime   float64
	Variants    []*Variant
	TextStreams []*Stream
	Timeline    *PresentationTimeline
}

type options struct {
	resolve URIResolver
}

// Option configures a reconstruction call.
type Option func(*options)

// WithURIResolver sets how data keys become segment URIs. The default is SegmentURI.
func WithURIResolver(r URIResolver) Option {
	return func(o *options) {
		if r != nil {
			o.resolve = r
		}
	}
}

func newOptions(opts []Option) options {
	o := options{resolve: SegmentURI}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ReconstructPeriod rebuilds a period from its persisted record. Text streams
// are rehydrated in order; audio and video streams are combined into variants
// that all carry drmInfos. The timeline is bound to the result untouched.
func ReconstructPeriod(rec PeriodRecord, drmInfos []DrmInfo, timeline *PresentationTimeline, opts ...Option) (*Period, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	o := newOptions(opts)

	var audio, video []taggedStream
	text := make([]*Stream, 0)
	for _, sr := range rec.Streams {
		s, err := Rehydrate(sr, o.resolve)
		if err != nil {
			return nil, err
		}
		switch sr.ContentType {
		case ContentTypeText:
			text = append(text, s)
		case ContentTypeAudio:
			audio = append(audio, taggedStream{stream: s, tags: sr.VariantIDs})
		case ContentTypeVideo:
			video = append(video, taggedStream{stream: s, tags: sr.VariantIDs})
		}
	}

	return &Period{
		StartTime:   rec.StartTime,
		Variants:    combine(audio, video, drmInfos, &idSequence{}),
		TextStreams: text,
		Timeline:    timeline,
	}, nil
}

// Validate checks that the period can be reconstructed: it has streams,
// stream ids are unique, every stream is well formed and every audio or
// video stream carries variant ids.
func (r PeriodRecord) Validate() error {
	if len(r.Streams) == 0 {
		return ErrMissingStreams
	}
	if err := checkDuplicateIDs(r.Streams); err != nil {
		return err
	}
	for _, sr := range r.Streams {
		if err := sr.Validate(); err != nil {
			return err
		}
		if sr.ContentType != ContentTypeText {
			if err := sr.validateTagged(); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecreateVariants combines flat lists of audio and video records without a
// surrounding period.
func RecreateVariants(audio, video []StreamRecord, drmInfos []DrmInfo, opts ...Option) ([]*Variant, error) {
	if err := checkDuplicateIDs(append(append([]StreamRecord(nil), audio...), video...)); err != nil {
		return nil, err
	}
	o := newOptions(opts)

	audios, err := rehydrateTagged(audio, ContentTypeAudio, o.resolve)
	if err != nil {
		return nil, err
	}
	videos, err := rehydrateTagged(video, ContentTypeVideo, o.resolve)
	if err != nil {
		return nil, err
	}
	return combine(audios, videos, drmInfos, &idSequence{}), nil
}

func rehydrateTagged(recs []StreamRecord, want ContentType, resolve URIResolver) ([]taggedStream, error) {
	out := make([]taggedStream, 0, len(recs))
	for _, sr := range recs {
		if sr.ContentType != want {
			return nil, fmt.Errorf("stream %d is %q, expected %q: %w", sr.ID, sr.ContentType, want, ErrContentTypeMismatch)
		}
		if err := sr.validateTagged(); err != nil {
			return nil, err
		}
		s, err := Rehydrate(sr, resolve)
		if err != nil {
			return nil, err
		}
		out = append(out, taggedStream{stream: s, tags: sr.VariantIDs})
	}
	return out, nil
}

func checkDuplicateIDs(recs []StreamRecord) error {
	dups := lo.FindDuplicatesBy(recs, func(r StreamRecord) int { return r.ID })
	if len(dups) > 0 {
		return fmt.Errorf("stream %d: %w", dups[0].ID, ErrDuplicateStreamID)
	}
	return nil
}
