package offline

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRecreateVariants_variant_ids(t *testing.T) {
	audios := []StreamRecord{audioRecord(0, 0), audioRecord(1, 1)}
	videos := []StreamRecord{videoRecord(2, 0), videoRecord(3, 1)}

	variants, err := RecreateVariants(audios, videos, nil)
	if err != nil {
		t.Fatalf("RecreateVariants: %v", err)
	}
	if diff := cmp.Diff([][2]int{{0, 2}, {1, 3}}, pairIDs(variants)); diff != "" {
		t.Errorf("variants (-want +got):\n%s", diff)
	}
}

func TestRecreateVariants_audio_only(t *testing.T) {
	variants, err := RecreateVariants([]StreamRecord{audioRecord(0, 0), audioRecord(1, 1)}, nil, nil)
	if err != nil {
		t.Fatalf("RecreateVariants: %v", err)
	}
	if diff := cmp.Diff([][2]int{{0, -1}, {1, -1}}, pairIDs(variants)); diff != "" {
		t.Errorf("variants (-want +got):\n%s", diff)
	}
}

func TestRecreateVariants_video_only(t *testing.T) {
	variants, err := RecreateVariants(nil, []StreamRecord{videoRecord(2, 0), videoRecord(3, 1)}, nil)
	if err != nil {
		t.Fatalf("RecreateVariants: %v", err)
	}
	if diff := cmp.Diff([][2]int{{-1, 2}, {-1, 3}}, pairIDs(variants)); diff != "" {
		t.Errorf("variants (-want +got):\n%s", diff)
	}
}

func TestRecreateVariants_empty(t *testing.T) {
	variants, err := RecreateVariants(nil, nil, nil)
	if err != nil {
		t.Fatalf("RecreateVariants: %v", err)
	}
	if variants == nil || len(variants) != 0 {
		t.Errorf("variants = %#v, want empty list", variants)
	}
}

func TestRecreateVariants_disjoint_tags(t *testing.T) {
	audios := []StreamRecord{audioRecord(0, 0), audioRecord(1, 1), audioRecord(2, 2)}
	videos := []StreamRecord{videoRecord(10, 3), videoRecord(11, 4)}

	variants, err := RecreateVariants(audios, videos, nil)
	if err != nil {
		t.Fatalf("RecreateVariants: %v", err)
	}
	if len(variants) != len(audios)+len(videos) {
		t.Fatalf("got %d variants, want %d", len(variants), len(audios)+len(videos))
	}
	for _, v := range variants {
		if v.Audio != nil && v.Video != nil {
			t.Errorf("variant %d pairs streams with no shared tag", v.ID)
		}
	}
}

func TestRecreateVariants_cross_product(t *testing.T) {
	const n, m = 3, 4
	var audios, videos []StreamRecord
	for i := 0; i < n; i++ {
		audios = append(audios, audioRecord(i, 7))
	}
	for j := 0; j < m; j++ {
		videos = append(videos, videoRecord(100+j, 7))
	}

	variants, err := RecreateVariants(audios, videos, nil)
	if err != nil {
		t.Fatalf("RecreateVariants: %v", err)
	}
	if len(variants) != n*m {
		t.Fatalf("got %d variants, want %d", len(variants), n*m)
	}
	seen := map[[2]int]bool{}
	for _, p := range pairIDs(variants) {
		if seen[p] {
			t.Errorf("pair %v emitted twice", p)
		}
		seen[p] = true
	}
}

func TestRecreateVariants_pair_under_several_tags_emitted_once(t *testing.T) {
	audios := []StreamRecord{audioRecord(0, 1, 2, 3)}
	videos := []StreamRecord{videoRecord(1, 3, 2, 1)}

	variants, err := RecreateVariants(audios, videos, nil)
	if err != nil {
		t.Fatalf("RecreateVariants: %v", err)
	}
	if diff := cmp.Diff([][2]int{{0, 1}}, pairIDs(variants)); diff != "" {
		t.Errorf("variants (-want +got):\n%s", diff)
	}
}

func TestRecreateVariants_unmatched_tag_stays_single_sided(t *testing.T) {
	audios := []StreamRecord{audioRecord(0, 1, 2)}
	videos := []StreamRecord{videoRecord(1, 1)}

	variants, err := RecreateVariants(audios, videos, nil)
	if err != nil {
		t.Fatalf("RecreateVariants: %v", err)
	}
	if diff := cmp.Diff([][2]int{{0, 1}, {0, -1}}, pairIDs(variants)); diff != "" {
		t.Errorf("variants (-want +got):\n%s", diff)
	}
}

func TestRecreateVariants_fields(t *testing.T) {
	a := audioRecord(0, 0)
	a.Bandwidth = intPtr(128000)
	a.Language = "fr"
	v := videoRecord(1, 0)
	v.Bandwidth = intPtr(2000000)
	v.Primary = true
	v.Language = "de"
	drm := []DrmInfo{{KeySystem: "com.example.drm"}}

	variants, err := RecreateVariants([]StreamRecord{a}, []StreamRecord{v}, drm)
	if err != nil {
		t.Fatalf("RecreateVariants: %v", err)
	}
	if len(variants) != 1 {
		t.Fatalf("got %d variants", len(variants))
	}
	got := variants[0]
	if got.Bandwidth != 2128000 {
		t.Errorf("Bandwidth = %d", got.Bandwidth)
	}
	if got.Language != "fr" {
		t.Errorf("Language = %q, want audio language", got.Language)
	}
	if !got.Primary {
		t.Error("Primary should follow the primary video stream")
	}
	if !got.AllowedByApplication || !got.AllowedByKeySystem {
		t.Error("restored variants are allowed")
	}
	if len(got.DrmInfos) != 1 || &got.DrmInfos[0] != &drm[0] {
		t.Error("DrmInfos should be passed through unmodified")
	}
}

func TestRecreateVariants_video_language_and_zero_bandwidth(t *testing.T) {
	v := videoRecord(1, 0)
	v.Language = "ja"

	variants, err := RecreateVariants(nil, []StreamRecord{v}, nil)
	if err != nil {
		t.Fatalf("RecreateVariants: %v", err)
	}
	if variants[0].Language != "ja" {
		t.Errorf("Language = %q, want video language", variants[0].Language)
	}
	if variants[0].Bandwidth != 0 || variants[0].Primary {
		t.Errorf("Bandwidth = %d, Primary = %v", variants[0].Bandwidth, variants[0].Primary)
	}
}

func TestRecreateVariants_ids_unique_and_increasing(t *testing.T) {
	audios := []StreamRecord{audioRecord(0, 0), audioRecord(1, 0)}
	videos := []StreamRecord{videoRecord(2, 0), videoRecord(3, 0), videoRecord(4, 1)}

	variants, err := RecreateVariants(audios, videos, nil)
	if err != nil {
		t.Fatalf("RecreateVariants: %v", err)
	}
	for i := 1; i < len(variants); i++ {
		if variants[i].ID <= variants[i-1].ID {
			t.Errorf("ids not increasing: %d then %d", variants[i-1].ID, variants[i].ID)
		}
	}

	again, err := RecreateVariants(audios, videos, nil)
	if err != nil {
		t.Fatalf("RecreateVariants: %v", err)
	}
	if again[0].ID != variants[0].ID {
		t.Error("ids should be scoped to one call")
	}
}

func TestRecreateVariants_errors(t *testing.T) {
	tests := []struct {
		name   string
		audios []StreamRecord
		videos []StreamRecord
		want   error
	}{
		{"video in audio list", []StreamRecord{videoRecord(0, 0)}, nil, ErrContentTypeMismatch},
		{"missing tags", []StreamRecord{audioRecord(0)}, nil, ErrNoVariantTags},
		{"duplicate ids", []StreamRecord{audioRecord(0, 0)}, []StreamRecord{videoRecord(0, 0)}, ErrDuplicateStreamID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RecreateVariants(tt.audios, tt.videos, nil); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
