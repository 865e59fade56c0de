package offline

import (
	"errors"
	"fmt"
)

// ContentType is the kind of elementary stream a record describes.
type ContentType string

const (
	ContentTypeAudio ContentType = "audio"
	ContentTypeVideo ContentType = "video"
	ContentTypeText  ContentType = "text"
)

var (
	// ErrMissingStreams is returned when a period record carries no streams.
	ErrMissingStreams = errors.New("period has no streams")

	// ErrDuplicateStreamID is returned when two streams in one period share an id.
	ErrDuplicateStreamID = errors.New("duplicate stream id")

	// ErrNoVariantTags is returned for an audio or video stream without variant ids.
	ErrNoVariantTags = errors.New("stream has no variant ids")

	// ErrUnknownContentType is returned for a content type other than audio, video or text.
	ErrUnknownContentType = errors.New("unknown content type")

	// ErrAttributeMismatch is returned when a per-type attribute block does not
	// match the stream's content type.
	ErrAttributeMismatch = errors.New("attributes do not match content type")

	// ErrSegmentOrder is returned when segments are not in non-decreasing start
	// order or a segment ends before it starts.
	ErrSegmentOrder = errors.New("segments out of order")

	// ErrMissingField is returned when a required record field is empty.
	ErrMissingField = errors.New("missing required field")

	// ErrContentTypeMismatch is returned by RecreateVariants when a record is
	// passed in the wrong list.
	ErrContentTypeMismatch = errors.New("stream in wrong content type list")
)

// SegmentRecord is one downloaded media segment covering [StartTime, EndTime).
type SegmentRecord struct {
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	DataKey   int64   `json:"dataKey"`
}

// VideoAttributes holds the fields only a video stream may carry.
type VideoAttributes struct {
	Width     *int     `json:"width,omitempty"`
	Height    *int     `json:"height,omitempty"`
	FrameRate *float64 `json:"frameRate,omitempty"`
}

// AudioAttributes holds the fields only an audio stream may carry.
type AudioAttributes struct {
	ChannelsCount *int `json:"channelsCount,omitempty"`
}

// TextAttributes holds the fields only a text stream may carry.
type TextAttributes struct {
	Kind *string `json:"kind,omitempty"`
}

// StreamRecord is the persisted form of one elementary stream.
// At most one of Video, Audio and Text is set, and it must match ContentType.
type StreamRecord struct {
	ID                     int         `json:"id"`
	ContentType            ContentType `json:"contentType"`
	MimeType               string      `json:"mimeType"`
	Codecs                 string      `json:"codecs"`
	PresentationTimeOffset float64     `json:"presentationTimeOffset"`
	Primary                bool        `json:"primary"`
	Language               string      `json:"language"`
	Label                  *string     `json:"label,omitempty"`
	Roles                  []string    `json:"roles,omitempty"`
	Bandwidth              *int        `json:"bandwidth,omitempty"`
	Encrypted              bool        `json:"encrypted"`
	KeyID                  *string     `json:"keyId,omitempty"`
	InitSegmentKey         *int64      `json:"initSegmentKey,omitempty"`

	Segments []SegmentRecord `json:"segments"`
	// VariantIDs is ignored for text streams.
	VariantIDs []int `json:"variantIds"`

	Video *VideoAttributes `json:"video,omitempty"`
	Audio *AudioAttributes `json:"audio,omitempty"`
	Text  *TextAttributes  `json:"text,omitempty"`
}

// PeriodRecord is the persisted form of one period.
type PeriodRecord struct {
	StartTime float64        `json:"startTime"`
	Streams   []StreamRecord `json:"streams"`
}

// Validate checks the record shape. It does not look at variant ids,
// which only matter once the stream is combined.
func (r StreamRecord) Validate() error {
	switch r.ContentType {
	case ContentTypeAudio:
		if r.Video != nil || r.Text != nil {
			return fmt.Errorf("stream %d: %w", r.ID, ErrAttributeMismatch)
		}
	case ContentTypeVideo:
		if r.Audio != nil || r.Text != nil {
			return fmt.Errorf("stream %d: %w", r.ID, ErrAttributeMismatch)
		}
	case ContentTypeText:
		if r.Audio != nil || r.Video != nil {
			return fmt.Errorf("stream %d: %w", r.ID, ErrAttributeMismatch)
		}
	default:
		return fmt.Errorf("stream %d: %w %q", r.ID, ErrUnknownContentType, r.ContentType)
	}
	if r.MimeType == "" {
		return fmt.Errorf("stream %d: %w: mimeType", r.ID, ErrMissingField)
	}

	for i, seg := range r.Segments {
		if seg.EndTime < seg.StartTime {
			return fmt.Errorf("stream %d segment %d ends before it starts: %w", r.ID, i, ErrSegmentOrder)
		}
		if i > 0 && seg.StartTime < r.Segments[i-1].StartTime {
			return fmt.Errorf("stream %d segment %d starts before segment %d: %w", r.ID, i, i-1, ErrSegmentOrder)
		}
	}
	return nil
}

// validateTagged checks that an audio or video record can be combined.
func (r StreamRecord) validateTagged() error {
	if len(r.VariantIDs) == 0 {
		return fmt.Errorf("stream %d: %w", r.ID, ErrNoVariantTags)
	}
	return nil
}
