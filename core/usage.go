package core

import "time"

// UsageRecorder receives execution counters as the runner and flow work
// through a turn. Implementations must be safe for concurrent use; tool calls
// may execute in parallel.
type UsageRecorder interface {
	// RecordToolCall adds one tool execution with its duration and outcome.
	RecordToolCall(name string, dur time.Duration, err error)
	// RecordHandoff counts one persona transfer.
	RecordHandoff()
}
