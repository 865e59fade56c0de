package offline

import (
	"slices"

	"github.com/samber/lo"
)

// Variant is one playable combination of an audio and a video stream.
// At least one of Audio and Video is set.
type Variant struct {
	ID                   int
	Language             string
	Primary              bool
	Bandwidth            int
	Audio                *Stream
	Video                *Stream
	DrmInfos             []DrmInfo
	AllowedByApplication bool
	AllowedByKeySystem   bool
}

// taggedStream pairs a rehydrated stream with the variant ids it was stored under.
type taggedStream struct {
	stream *Stream
	tags   []int
}

func (t taggedStream) has(tag int) bool {
	return slices.Contains(t.tags, tag)
}

// idSequence hands out variant ids for a single reconstruction call.
type idSequence struct {
	next int
}

func (s *idSequence) take() int {
	id := s.next
	s.next++
	return id
}

// streamPair identifies an emitted (audio, video) combination.
type streamPair struct {
	audio *Stream
	video *Stream
}

// combine groups audio and video streams by shared variant ids. Tags are
// visited in ascending order and streams keep their input order within a
// tag, so the output order is stable. A pair reachable under several tags is
// emitted once.
func combine(audio, video []taggedStream, drmInfos []DrmInfo, ids *idSequence) []*Variant {
	tagsOf := func(t taggedStream, _ int) []int { return t.tags }
	tags := lo.Uniq(append(lo.FlatMap(audio, tagsOf), lo.FlatMap(video, tagsOf)...))
	slices.Sort(tags)

	variants := make([]*Variant, 0, len(tags))
	seen := make(map[streamPair]struct{})
	emit := func(a, v *Stream) {
		key := streamPair{audio: a, video: v}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		variants = append(variants, newVariant(ids.take(), a, v, drmInfos))
	}

	for _, tag := range tags {
		hasTag := func(t taggedStream, _ int) bool { return t.has(tag) }
		audios := lo.Filter(audio, hasTag)
		videos := lo.Filter(video, hasTag)

		switch {
		case len(audios) > 0 && len(videos) > 0:
			for _, a := range audios {
				for _, v := range videos {
					emit(a.stream, v.stream)
				}
			}
		case len(audios) > 0:
			for _, a := range audios {
				emit(a.stream, nil)
			}
		case len(videos) > 0:
			for _, v := range videos {
				emit(nil, v.stream)
			}
		}
	}

	return variants
}

func newVariant(id int, audio, video *Stream, drmInfos []DrmInfo) *Variant {
	v := &Variant{
		ID:                   id,
		Audio:                audio,
		Video:                video,
		DrmInfos:             drmInfos,
		AllowedByApplication: true,
		AllowedByKeySystem:   true,
	}
	if audio != nil {
		v.Language = audio.Language
		v.Primary = audio.Primary
		v.Bandwidth += audio.Bandwidth.OrEmpty()
	}
	if video != nil {
		if audio == nil {
			v.Language = video.Language
		}
		v.Primary = v.Primary || video.Primary
		v.Bandwidth += video.Bandwidth.OrEmpty()
	}
	return v
}
