// Package metrics aggregates per-session usage: model token consumption, tool
// execution counters and handoffs. A collector is typically registered as a
// shutdown callback so the summary lands in the logs when the session ends.
package metrics

import (
	"sync"
	"time"

	"github.com/voxmesh/voxmesh/logging"
	"github.com/voxmesh/voxmesh/model"
)

// ToolStats accumulates execution counters for a single tool.
type ToolStats struct {
	Calls         int
	Errors        int
	TotalDuration time.Duration
}

// UsageSummary is a point-in-time snapshot of everything a collector recorded.
type UsageSummary struct {
	ModelCalls       int
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Handoffs         int
	Tools            map[string]ToolStats
}

// UsageCollector aggregates usage across a session. Safe for concurrent use.
type UsageCollector struct {
	mu        sync.Mutex
	logger    logging.Logger
	sessionID string

	modelCalls       int
	promptTokens     int
	completionTokens int
	totalTokens      int
	handoffs         int
	tools            map[string]ToolStats
}

// NewUsageCollector creates a collector bound to a session and logger.
func NewUsageCollector(sessionID string, logger logging.Logger) *UsageCollector {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &UsageCollector{
		logger:    logger,
		sessionID: sessionID,
		tools:     make(map[string]ToolStats),
	}
}

// RecordModelUsage adds one model call's token usage. A nil usage still counts
// the call, since not every provider reports tokens on streamed turns.
func (c *UsageCollector) RecordModelUsage(usage *model.TokenUsage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.modelCalls++
	if usage != nil {
		c.promptTokens += usage.PromptTokens
		c.completionTokens += usage.CompletionTokens
		c.totalTokens += usage.TotalTokens
	}
}

// RecordToolCall adds one tool execution with its duration and outcome.
func (c *UsageCollector) RecordToolCall(name string, dur time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.tools[name]
	stats.Calls++
	stats.TotalDuration += dur
	if err != nil {
		stats.Errors++
	}
	c.tools[name] = stats
}

// RecordHandoff counts one persona transfer.
func (c *UsageCollector) RecordHandoff() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handoffs++
}

// Summary returns a snapshot of the collected usage.
func (c *UsageCollector) Summary() UsageSummary {
	c.mu.Lock()
	defer c.mu.Unlock()

	tools := make(map[string]ToolStats, len(c.tools))
	for name, stats := range c.tools {
		tools[name] = stats
	}

	return UsageSummary{
		ModelCalls:       c.modelCalls,
		PromptTokens:     c.promptTokens,
		CompletionTokens: c.completionTokens,
		TotalTokens:      c.totalTokens,
		Handoffs:         c.handoffs,
		Tools:            tools,
	}
}

// LogSummary writes the usage summary to the collector's logger. Call it from
// a session shutdown callback.
func (c *UsageCollector) LogSummary() {
	s := c.Summary()

	toolCalls := 0
	toolErrors := 0
	for _, stats := range s.Tools {
		toolCalls += stats.Calls
		toolErrors += stats.Errors
	}

	c.logger.Info("usage summary",
		"session_id", c.sessionID,
		"model_calls", s.ModelCalls,
		"prompt_tokens", s.PromptTokens,
		"completion_tokens", s.CompletionTokens,
		"total_tokens", s.TotalTokens,
		"tool_calls", toolCalls,
		"tool_errors", toolErrors,
		"handoffs", s.Handoffs,
	)
}
