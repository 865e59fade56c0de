package offline

func intPtr(v int) *int { return &v }

func int64Ptr(v int64) *int64 { return &v }

func float64Ptr(v float64) *float64 { return &v }

func stringPtr(v string) *string { return &v }

func testSegments() []SegmentRecord {
	return []SegmentRecord{
		{StartTime: 0, EndTime: 10, DataKey: 1},
		{StartTime: 10, EndTime: 20, DataKey: 2},
		{StartTime: 20, EndTime: 25, DataKey: 3},
	}
}

func videoRecord(id int, variantIDs ...int) StreamRecord {
	return StreamRecord{
		ID:                     id,
		ContentType:            ContentTypeVideo,
		MimeType:               "video/mp4",
		Codecs:                 "avc1.42c01e",
		PresentationTimeOffset: 25,
		Encrypted:              true,
		KeyID:                  stringPtr("key1"),
		Segments:               testSegments(),
		VariantIDs:             variantIDs,
		Video: &VideoAttributes{
			Width:     intPtr(250),
			Height:    intPtr(100),
			FrameRate: float64Ptr(22),
		},
	}
}

func audioRecord(id int, variantIDs ...int) StreamRecord {
	return StreamRecord{
		ID:                     id,
		ContentType:            ContentTypeAudio,
		MimeType:               "audio/mp4",
		Codecs:                 "mp4a.40.2",
		PresentationTimeOffset: 10,
		Language:               "en",
		InitSegmentKey:         int64Ptr(0),
		Segments:               testSegments(),
		VariantIDs:             variantIDs,
	}
}

func textRecord(id int) StreamRecord {
	return StreamRecord{
		ID:                     id,
		ContentType:            ContentTypeText,
		MimeType:               "text/vtt",
		PresentationTimeOffset: 10,
		Language:               "en",
		InitSegmentKey:         int64Ptr(0),
		Segments:               testSegments(),
		VariantIDs:             []int{5},
	}
}

// pairIDs lists (audio id, video id) for each variant, with -1 for a missing side.
func pairIDs(variants []*Variant) [][2]int {
	out := make([][2]int, 0, len(variants))
	for _, v := range variants {
		p := [2]int{-1, -1}
		if v.Audio != nil {
			p[0] = v.Audio.ID
		}
		if v.Video != nil {
			p[1] = v.Video.ID
		}
		out = append(out, p)
	}
	return out
}
