package offline

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const segmentURIPrefix = "offline:segment/"

// ErrInvalidURI is returned by ParseSegmentURI for anything that is not an
// offline segment URI.
var ErrInvalidURI = errors.New("invalid offline segment uri")

// URIResolver maps a stored data key to the single URI used to fetch its bytes.
type URIResolver func(key int64) string

// SegmentURI is the default URIResolver: "offline:segment/<key>".
func SegmentURI(key int64) string {
	return segmentURIPrefix + strconv.FormatInt(key, 10)
}

// ParseSegmentURI returns the data key encoded in an offline segment URI.
func ParseSegmentURI(uri string) (int64, error) {
	rest, ok := strings.CutPrefix(uri, segmentURIPrefix)
	if !ok || rest == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidURI, uri)
	}
	key, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidURI, uri)
	}
	return key, nil
}
