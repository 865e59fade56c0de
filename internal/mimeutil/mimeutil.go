// Package mimeutil parses and formats MIME type and codec strings.
package mimeutil

import (
	"strings"
)

// FullType returns mimeType with a codecs parameter appended when codecs is
// not empty, e.g. `video/mp4; codecs="avc1.42c01e"`.
func FullType(mimeType, codecs string) string {
	if codecs == "" {
		return mimeType
	}
	return mimeType + `; codecs="` + codecs + `"`
}

// BasicType strips all parameters from a MIME type.
func BasicType(mimeType string) string {
	basic, _, _ := strings.Cut(mimeType, ";")
	return strings.TrimSpace(basic)
}

// ContainerType returns the subtype of a MIME type ("mp4", "webm", "mp2t").
func ContainerType(mimeType string) string {
	_, sub, _ := strings.Cut(BasicType(mimeType), "/")
	return sub
}

// Codecs returns the codecs parameter of a MIME type without quotes, or ""
// if there is none.
func Codecs(mimeType string) string {
	params := strings.Split(mimeType, ";")
	for _, p := range params[1:] {
		p = strings.TrimSpace(p)
		if v, ok := strings.CutPrefix(p, "codecs="); ok {
			return strings.Trim(v, `"`)
		}
	}
	return ""
}

// SplitCodecs splits a comma separated codec list.
func SplitCodecs(codecs string) []string {
	if codecs == "" {
		return nil
	}
	parts := strings.Split(codecs, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
