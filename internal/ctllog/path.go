package ctllog

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SkippedSegments is the number of leading base-location segments that name
// the host and workspace root rather than the test. Fixtures depend on this
// exact offset.
const SkippedSegments = 3

const internalSep = `\`

// Normalizer derives the correlation key of a log record from its raw base
// location.
type Normalizer struct {
	// Separator splits the decoded location into segments.
	Separator string
	// Skip is the number of leading segments discarded.
	Skip int
}

// DefaultNormalizer splits on the platform path separator and skips
// SkippedSegments segments.
func DefaultNormalizer() Normalizer {
	return Normalizer{Separator: string(filepath.Separator), Skip: SkippedSegments}
}

// Normalize decodes raw and returns its path key: the segments after the
// skipped prefix, without the final (file name) segment, joined by "/".
//
//	file:/home/te_base/s0001/d1e5_1/log.xml  ->  s0001/d1e5_1
//
// Fewer than two segments after the skipped prefix yield the empty key.
func (n Normalizer) Normalize(raw string) (string, error) {
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return "", &DecodeError{Raw: raw, Err: err}
	}
	decoded = norm.NFC.String(decoded)

	sep := n.Separator
	if sep == "" {
		sep = string(filepath.Separator)
	}
	parts := strings.Split(decoded, sep)
	if len(parts) <= n.Skip {
		return "", nil
	}
	joined := internalSep + strings.Join(parts[n.Skip:], internalSep)
	first := strings.Index(joined, internalSep)
	last := strings.LastIndex(joined, internalSep)
	if last <= first {
		return "", nil
	}
	return strings.ReplaceAll(joined[first+1:last], internalSep, "/"), nil
}
