package ctllog

// CallNode is a testcall element: a sub-test invoked by the enclosing log
// record. Its children are the calls of the record it resolves to.
type CallNode struct {
	Path string
}

// LogRecord is one log element of an execution.
type LogRecord struct {
	// Index is the record's position in the execution arena.
	Index int
	// Base is the raw, percent-encoded xml:base location.
	Base string
	// LocalName is starttest@local-name.
	LocalName string
	// Result is endtest@result as written in the log.
	Result string
	// ConformanceClass is set when the log contains a conformanceClass marker.
	ConformanceClass bool
	// Calls lists the record's own testcall elements in document order.
	Calls []CallNode
	// Line is the input line of the log start tag.
	Line int

	end int
}

// HasCalls reports whether the record invoked any sub-tests.
func (r *LogRecord) HasCalls() bool {
	return len(r.Calls) > 0
}

// Execution is the arena of log records for one execution element, stored in
// document (preorder) order. The first record is the root log.
type Execution struct {
	records []LogRecord
}

// Root returns the execution's root log record.
func (e *Execution) Root() *LogRecord {
	return &e.records[0]
}

// Len returns the number of log records in the execution.
func (e *Execution) Len() int {
	return len(e.records)
}

// Record returns the record at arena index i.
func (e *Execution) Record(i int) *LogRecord {
	return &e.records[i]
}

// Scope returns every record nested under r at any depth, in document order.
// The returned slice aliases the arena; pointers into it stay valid.
func (e *Execution) Scope(r *LogRecord) []LogRecord {
	return e.records[r.Index+1 : r.end]
}

// Document is a parsed execution log.
type Document struct {
	Executions []*Execution
}
