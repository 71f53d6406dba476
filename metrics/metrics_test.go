package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/voxmesh/voxmesh/model"
)

func TestUsageCollectorAggregates(t *testing.T) {
	c := NewUsageCollector("s1", nil)

	c.RecordModelUsage(&model.TokenUsage{PromptTokens: 100, CompletionTokens: 20, TotalTokens: 120})
	c.RecordModelUsage(&model.TokenUsage{PromptTokens: 50, CompletionTokens: 10, TotalTokens: 60})
	c.RecordModelUsage(nil)

	c.RecordToolCall("search_properties", 30*time.Millisecond, nil)
	c.RecordToolCall("search_properties", 20*time.Millisecond, nil)
	c.RecordToolCall("calculate_mortgage", 5*time.Millisecond, errors.New("bad input"))

	c.RecordHandoff()

	s := c.Summary()
	assert.Equal(t, 3, s.ModelCalls)
	assert.Equal(t, 150, s.PromptTokens)
	assert.Equal(t, 30, s.CompletionTokens)
	assert.Equal(t, 180, s.TotalTokens)
	assert.Equal(t, 1, s.Handoffs)

	search := s.Tools["search_properties"]
	assert.Equal(t, 2, search.Calls)
	assert.Equal(t, 0, search.Errors)
	assert.Equal(t, 50*time.Millisecond, search.TotalDuration)

	mortgage := s.Tools["calculate_mortgage"]
	assert.Equal(t, 1, mortgage.Calls)
	assert.Equal(t, 1, mortgage.Errors)
}

func TestUsageCollectorSummaryIsSnapshot(t *testing.T) {
	c := NewUsageCollector("s1", nil)
	c.RecordToolCall("noop", time.Millisecond, nil)

	s := c.Summary()
	s.Tools["noop"] = ToolStats{Calls: 99}

	assert.Equal(t, 1, c.Summary().Tools["noop"].Calls)
}
