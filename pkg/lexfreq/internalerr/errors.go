package internalerr

import "errors"

// Sentinel errors for common cases
var (
	// ErrCompacted is returned when a mutating counter operation is
	// attempted after compaction.
	ErrCompacted = errors.New("counter already compacted")

	// ErrOpenDocument is returned when an operation that requires all
	// documents to be closed (merge, compact) finds an open document.
	ErrOpenDocument = errors.New("document still open")

	// ErrChannelMode is returned when a channel id is supplied to a counter
	// without channel tracking, or withheld from one that tracks channels.
	ErrChannelMode = errors.New("channel tracking mode mismatch")

	// ErrDumpArity is returned when dump column names and totals do not
	// match the counter's numeric field count.
	ErrDumpArity = errors.New("dump columns/totals arity mismatch")

	// ErrExtractor is returned when the external extractor process fails
	// or produces an unreadable stream.
	ErrExtractor = errors.New("extractor failure")

	ErrInvalidConfig = errors.New("invalid configuration")
)
