package restore

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"offline-restore/internal/mimeutil"
	"offline-restore/internal/offline"
)

// SegmentPath resolves a data key to the HTTP path its bytes are served from.
func SegmentPath(key int64) string {
	return "/segments/" + strconv.FormatInt(key, 10)
}

// streamPlaylistURI is relative to the period's master playlist.
func streamPlaylistURI(s *offline.Stream) string {
	return "streams/" + strconv.Itoa(s.ID) + "/playlist.m3u8"
}

// BuildMediaPlaylist converts a restored stream into an HLS VOD media
// playlist by walking its segment references in position order. The init
// segment, if any, becomes #EXT-X-MAP.
func BuildMediaPlaylist(s *offline.Stream) string {
	var refs []*offline.SegmentReference
	for i := 0; ; i++ {
		ref := s.GetSegmentReference(i)
		if ref == nil {
			break
		}
		refs = append(refs, ref)
	}
	initRef := s.InitSegmentReference()

	var b strings.Builder

	b.WriteString("#EXTM3U\n")
	b.WriteString(fmt.Sprintf("#EXT-X-VERSION:%d\n", mediaPlaylistVersion(s, initRef != nil)))
	b.WriteString(fmt.Sprintf("#EXT-X-TARGETDURATION:%d\n", targetDurationFromReferences(refs)))
	b.WriteString("#EXT-X-MEDIA-SEQUENCE:0\n")
	b.WriteString("#EXT-X-PLAYLIST-TYPE:VOD\n")
	if initRef != nil {
		b.WriteString(fmt.Sprintf("#EXT-X-MAP:URI=%q\n", firstURI(initRef.GetURIs())))
	}
	b.WriteString("\n")

	for _, ref := range refs {
		b.WriteString(fmt.Sprintf("#EXTINF:%.1f,\n", ref.EndTime-ref.StartTime))
		b.WriteString(firstURI(ref.GetURIs()))
		b.WriteString("\n")
	}

	b.WriteString("#EXT-X-ENDLIST\n")
	return b.String()
}

// BuildMasterPlaylist lists every variant of a restored period. Audio that
// is paired with video and all text streams become renditions; stream
// playlist URIs are relative to the master playlist.
func BuildMasterPlaylist(p *offline.Period) string {
	var b strings.Builder

	b.WriteString("#EXTM3U\n")
	b.WriteString("#EXT-X-VERSION:7\n")
	b.WriteString("#EXT-X-INDEPENDENT-SEGMENTS\n\n")

	seenAudio := make(map[int]bool)
	for _, v := range p.Variants {
		if v.Audio == nil || v.Video == nil || seenAudio[v.Audio.ID] {
			continue
		}
		seenAudio[v.Audio.ID] = true
		b.WriteString(mediaTag("AUDIO", audioGroupID(v.Audio), v.Audio, v.Audio.Primary))
	}

	for i, t := range p.TextStreams {
		b.WriteString(mediaTag("SUBTITLES", "subs", t, i == 0 && t.Primary))
	}
	if len(seenAudio) > 0 || len(p.TextStreams) > 0 {
		b.WriteString("\n")
	}

	for _, v := range p.Variants {
		lead := v.Video
		if lead == nil {
			lead = v.Audio
		}

		attrs := []string{"BANDWIDTH=" + strconv.Itoa(v.Bandwidth)}
		if codecs := variantCodecs(v); codecs != "" {
			attrs = append(attrs, fmt.Sprintf("CODECS=%q", codecs))
		}
		if v.Video != nil {
			w, wok := v.Video.Width.Get()
			h, hok := v.Video.Height.Get()
			if wok && hok {
				attrs = append(attrs, fmt.Sprintf("RESOLUTION=%dx%d", w, h))
			}
			if fr, ok := v.Video.FrameRate.Get(); ok {
				attrs = append(attrs, fmt.Sprintf("FRAME-RATE=%.3f", fr))
			}
			if v.Audio != nil {
				attrs = append(attrs, fmt.Sprintf("AUDIO=%q", audioGroupID(v.Audio)))
			}
		}
		if len(p.TextStreams) > 0 {
			attrs = append(attrs, `SUBTITLES="subs"`)
		}

		b.WriteString("#EXT-X-STREAM-INF:" + strings.Join(attrs, ",") + "\n")
		b.WriteString(streamPlaylistURI(lead))
		b.WriteString("\n")
	}

	return b.String()
}

func mediaTag(kind, group string, s *offline.Stream, isDefault bool) string {
	attrs := []string{
		"TYPE=" + kind,
		fmt.Sprintf("GROUP-ID=%q", group),
		fmt.Sprintf("NAME=%q", streamName(s)),
	}
	if s.Language != "" {
		attrs = append(attrs, fmt.Sprintf("LANGUAGE=%q", s.Language))
	}
	if isDefault {
		attrs = append(attrs, "DEFAULT=YES")
	} else {
		attrs = append(attrs, "DEFAULT=NO")
	}
	attrs = append(attrs, "AUTOSELECT=YES", fmt.Sprintf("URI=%q", streamPlaylistURI(s)))
	return "#EXT-X-MEDIA:" + strings.Join(attrs, ",") + "\n"
}

func audioGroupID(s *offline.Stream) string {
	return "audio-" + strconv.Itoa(s.ID)
}

func streamName(s *offline.Stream) string {
	if label, ok := s.Label.Get(); ok && label != "" {
		return label
	}
	return string(s.Type) + "-" + strconv.Itoa(s.ID)
}

// mediaPlaylistVersion is 7 for fragmented MP4 with an init segment, 6 for
// any other container with an init segment and 3 without one.
func mediaPlaylistVersion(s *offline.Stream, hasInit bool) int {
	switch {
	case !hasInit:
		return 3
	case mimeutil.ContainerType(s.MimeType) == "mp4":
		return 7
	default:
		return 6
	}
}

// variantCodecs joins the codecs of both sides, video first. A stream with
// no codecs field falls back to the codecs parameter of its MIME type.
func variantCodecs(v *offline.Variant) string {
	var codecs []string
	for _, s := range []*offline.Stream{v.Video, v.Audio} {
		if s == nil {
			continue
		}
		c := s.Codecs
		if c == "" {
			c = mimeutil.Codecs(s.MimeType)
		}
		codecs = append(codecs, mimeutil.SplitCodecs(c)...)
	}
	return strings.Join(codecs, ",")
}

func firstURI(uris []string) string {
	if len(uris) == 0 {
		return ""
	}
	return uris[0]
}

// targetDurationFromReferences returns the HLS #EXT-X-TARGETDURATION value:
// the ceiling of the maximum segment duration in seconds (integer).
func targetDurationFromReferences(refs []*offline.SegmentReference) int {
	longest := 0.0
	for _, ref := range refs {
		if d := ref.EndTime - ref.StartTime; d > longest {
			longest = d
		}
	}
	if longest <= 0 {
		return 1
	}
	return int(math.Ceil(longest))
}
