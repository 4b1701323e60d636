package ctllog

type normalized struct {
	key string
	err error
}

// LogIndex resolves test-call paths to log records.
//
// Keys are computed with the index's Normalizer and memoized per raw base
// location, so repeated scans over the same scope decode each location once.
type LogIndex struct {
	norm  Normalizer
	cache map[string]normalized
}

// NewLogIndex creates an index using n to derive record keys.
func NewLogIndex(n Normalizer) *LogIndex {
	return &LogIndex{norm: n, cache: make(map[string]normalized)}
}

// Key returns the normalized key of a record.
func (ix *LogIndex) Key(r *LogRecord) (string, error) {
	if c, ok := ix.cache[r.Base]; ok {
		return c.key, c.err
	}
	key, err := ix.norm.Normalize(r.Base)
	ix.cache[r.Base] = normalized{key: key, err: err}
	return key, err
}

// Find scans candidates in order and returns the first record whose key
// equals callPath. The returned pointer aliases candidates. Records whose
// key is empty never match.
//
// A record that cannot be decoded stops the scan; the DecodeError is
// returned wrapped in a CorrelationError.
func (ix *LogIndex) Find(candidates []LogRecord, callPath string) (*LogRecord, error) {
	for i := range candidates {
		key, err := ix.Key(&candidates[i])
		if err != nil {
			return nil, &CorrelationError{Path: callPath, Err: err}
		}
		if key != "" && key == callPath {
			return &candidates[i], nil
		}
	}
	return nil, &CorrelationError{Path: callPath}
}

// FindMatch resolves callPath against candidates with a throwaway index.
func FindMatch(n Normalizer, candidates []LogRecord, callPath string) (*LogRecord, error) {
	return NewLogIndex(n).Find(candidates, callPath)
}
