package offline

import (
	"errors"
	"testing"
)

func TestRehydrate_video(t *testing.T) {
	rec := videoRecord(1, 0)
	s, err := Rehydrate(rec, nil)
	if err != nil {
		t.Fatalf("Rehydrate: %v", err)
	}

	if s.ID != 1 || s.Type != ContentTypeVideo || s.MimeType != "video/mp4" || s.Codecs != "avc1.42c01e" {
		t.Errorf("descriptive fields not copied: %+v", s)
	}
	if s.PresentationTimeOffset != 25 {
		t.Errorf("PresentationTimeOffset = %v, want 25", s.PresentationTimeOffset)
	}
	if w, ok := s.Width.Get(); !ok || w != 250 {
		t.Errorf("Width = %v, %v", w, ok)
	}
	if h, ok := s.Height.Get(); !ok || h != 100 {
		t.Errorf("Height = %v, %v", h, ok)
	}
	if fr, ok := s.FrameRate.Get(); !ok || fr != 22 {
		t.Errorf("FrameRate = %v, %v", fr, ok)
	}
	if s.ChannelsCount.IsPresent() || s.Kind.IsPresent() {
		t.Error("audio and text fields should be unset on a video stream")
	}
	if !s.Encrypted || s.KeyID.OrEmpty() != "key1" {
		t.Errorf("Encrypted = %v, KeyID = %v", s.Encrypted, s.KeyID)
	}
	if s.InitSegmentReference() != nil {
		t.Error("video record has no init segment")
	}
	if s.Roles == nil || len(s.Roles) != 0 {
		t.Errorf("Roles = %#v, want empty non-nil", s.Roles)
	}
	if s.Label.IsPresent() {
		t.Error("Label should be unset")
	}
	if got := s.FullMimeType(); got != `video/mp4; codecs="avc1.42c01e"` {
		t.Errorf("FullMimeType = %q", got)
	}
}

func TestRehydrate_audio_unset_numbers(t *testing.T) {
	rec := audioRecord(2, 0)
	s, err := Rehydrate(rec, nil)
	if err != nil {
		t.Fatalf("Rehydrate: %v", err)
	}
	if s.Width.IsPresent() || s.Height.IsPresent() || s.FrameRate.IsPresent() || s.ChannelsCount.IsPresent() {
		t.Error("absent numeric fields should be unset, not zero")
	}
	if s.InitSegmentReference() == nil {
		t.Error("expected init segment reference")
	}
	if s.Language != "en" {
		t.Errorf("Language = %q", s.Language)
	}
}

func TestRehydrate_audio_channels_and_zero_dimensions(t *testing.T) {
	rec := audioRecord(2, 0)
	rec.Audio = &AudioAttributes{ChannelsCount: intPtr(6)}
	s, err := Rehydrate(rec, nil)
	if err != nil {
		t.Fatalf("Rehydrate: %v", err)
	}
	if s.ChannelsCount.OrEmpty() != 6 {
		t.Errorf("ChannelsCount = %v", s.ChannelsCount)
	}

	v := videoRecord(3, 0)
	v.Video.Width = intPtr(0)
	vs, err := Rehydrate(v, nil)
	if err != nil {
		t.Fatalf("Rehydrate: %v", err)
	}
	if vs.Width.IsPresent() {
		t.Error("stored zero width should be unset")
	}
}

func TestRehydrate_text_kind_and_roles(t *testing.T) {
	rec := textRecord(4)
	rec.Text = &TextAttributes{Kind: stringPtr("subtitle")}
	rec.Roles = []string{"main", "caption"}
	rec.Label = stringPtr("English")

	s, err := Rehydrate(rec, nil)
	if err != nil {
		t.Fatalf("Rehydrate: %v", err)
	}
	if s.Kind.OrEmpty() != "subtitle" {
		t.Errorf("Kind = %v", s.Kind)
	}
	if s.Label.OrEmpty() != "English" {
		t.Errorf("Label = %v", s.Label)
	}
	if len(s.Roles) != 2 || s.Roles[1] != "caption" {
		t.Errorf("Roles = %v", s.Roles)
	}

	rec.Roles[0] = "changed"
	if s.Roles[0] != "main" {
		t.Error("Roles shares storage with the record")
	}
}

func TestRehydrate_empty_segments(t *testing.T) {
	rec := videoRecord(1, 0)
	rec.Segments = nil
	s, err := Rehydrate(rec, nil)
	if err != nil {
		t.Fatalf("empty segment list should be legal: %v", err)
	}
	if _, ok := s.FindSegmentPosition(0); ok {
		t.Error("expected no position")
	}
	if s.GetSegmentReference(0) != nil {
		t.Error("expected nil reference")
	}
}

func TestRehydrate_roundtrip_references(t *testing.T) {
	rec := audioRecord(2, 0)
	s, err := Rehydrate(rec, nil)
	if err != nil {
		t.Fatalf("Rehydrate: %v", err)
	}
	for i, seg := range rec.Segments {
		ref := s.GetSegmentReference(i)
		if ref == nil || ref.StartTime != seg.StartTime || ref.EndTime != seg.EndTime {
			t.Fatalf("reference %d = %+v", i, ref)
		}
		uris := ref.GetURIs()
		if len(uris) != 1 {
			t.Fatalf("reference %d has %d uris", i, len(uris))
		}
		key, err := ParseSegmentURI(uris[0])
		if err != nil || key != seg.DataKey {
			t.Errorf("reference %d uri %q -> %d, %v", i, uris[0], key, err)
		}
	}
}

func TestRehydrate_malformed(t *testing.T) {
	mismatch := audioRecord(1, 0)
	mismatch.Video = &VideoAttributes{Width: intPtr(10)}

	unknown := audioRecord(2, 0)
	unknown.ContentType = "image"

	backwards := videoRecord(3, 0)
	backwards.Segments = []SegmentRecord{{StartTime: 10, EndTime: 20}, {StartTime: 0, EndTime: 10}}

	inverted := videoRecord(4, 0)
	inverted.Segments = []SegmentRecord{{StartTime: 10, EndTime: 5}}

	noMime := textRecord(5)
	noMime.MimeType = ""

	tests := []struct {
		name string
		rec  StreamRecord
		want error
	}{
		{"attribute mismatch", mismatch, ErrAttributeMismatch},
		{"missing mime type", noMime, ErrMissingField},
		{"unknown content type", unknown, ErrUnknownContentType},
		{"decreasing start", backwards, ErrSegmentOrder},
		{"ends before start", inverted, ErrSegmentOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Rehydrate(tt.rec, nil); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
