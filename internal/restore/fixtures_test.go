package restore

import (
	"offline-restore/internal/offline"
)

func intPtr(v int) *int { return &v }

func int64Ptr(v int64) *int64 { return &v }

func testSegments(base int64) []offline.SegmentRecord {
	return []offline.SegmentRecord{
		{StartTime: 0, EndTime: 10, DataKey: base + 1},
		{StartTime: 10, EndTime: 20, DataKey: base + 2},
		{StartTime: 20, EndTime: 25, DataKey: base + 3},
	}
}

// sampleManifest has one period with a 2x2 overlapping-tag layout plus a
// text stream, and a second video-only period.
func sampleManifest(id ManifestID) *ManifestRecord {
	audio := func(sid int, tags ...int) offline.StreamRecord {
		return offline.StreamRecord{
			ID:             sid,
			ContentType:    offline.ContentTypeAudio,
			MimeType:       "audio/mp4",
			Codecs:         "mp4a.40.2",
			Language:       "en",
			Bandwidth:      intPtr(128000),
			InitSegmentKey: int64Ptr(int64(sid * 100)),
			Segments:       testSegments(int64(sid * 100)),
			VariantIDs:     tags,
			Audio:          &offline.AudioAttributes{ChannelsCount: intPtr(2)},
		}
	}
	video := func(sid int, tags ...int) offline.StreamRecord {
		return offline.StreamRecord{
			ID:             sid,
			ContentType:    offline.ContentTypeVideo,
			MimeType:       "video/mp4",
			Codecs:         "avc1.42c01e",
			Bandwidth:      intPtr(1000000),
			InitSegmentKey: int64Ptr(int64(sid * 100)),
			Segments:       testSegments(int64(sid * 100)),
			VariantIDs:     tags,
			Video:          &offline.VideoAttributes{Width: intPtr(1280), Height: intPtr(720)},
		}
	}
	text := offline.StreamRecord{
		ID:          5,
		ContentType: offline.ContentTypeText,
		MimeType:    "text/vtt",
		Language:    "en",
		Segments:    testSegments(500),
	}

	return &ManifestRecord{
		ID:          id,
		OriginalURI: "https://example.com/" + string(id) + ".mpd",
		Duration:    50,
		Periods: []offline.PeriodRecord{
			{
				StartTime: 0,
				Streams:   []offline.StreamRecord{audio(1, 1), audio(2, 0, 2), video(3, 0), video(4, 1, 2), text},
			},
			{
				StartTime: 25,
				Streams:   []offline.StreamRecord{video(6, 0), video(7, 1)},
			},
		},
		DrmInfos: []offline.DrmInfo{{
			KeySystem:        "com.example.drm",
			LicenseServerURI: "https://example.com/drm",
			KeyIDs:           []string{"key1"},
		}},
		AppMetadata: map[string]string{"title": "Sample"},
	}
}
