// Package testutil provides shared helpers for package tests: pre-wired run
// contexts, event builders and channel draining utilities.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/voxmesh/voxmesh/artifact"
	"github.com/voxmesh/voxmesh/core"
	"github.com/voxmesh/voxmesh/memory"
)

// NewRunContext builds a RunContext backed by a fresh in-memory session and a
// buffered emit channel, suitable for exercising flows and tools in isolation.
func NewRunContext(t *testing.T, agentName string) (*core.RunContext, chan core.Event) {
	t.Helper()

	emit := make(chan core.Event, 64)
	sess := core.NewSession("test-session")

	rc := core.NewRunContext(context.Background(), core.RunContextConfig{
		SessionID:     "test-session",
		RunID:         "test-run",
		Agent:         core.AgentInfo{Name: agentName, Type: "persona"},
		UserContent:   core.Content{Role: "user", Parts: []core.Part{core.TextPart{Text: "hello"}}},
		MaxModelCalls: 10,
		Emit:          emit,
		Session:       sess,
		ArtifactStore: artifact.NewInMemoryStore(),
		MemoryStore:   memory.NewInMemoryStore(),
	})

	return rc, emit
}

// NewToolContext builds a ToolContext on top of a fresh RunContext.
func NewToolContext(t *testing.T, agentName string) *core.ToolContext {
	t.Helper()

	rc, _ := NewRunContext(t, agentName)

	return core.NewToolContext(rc, "call-1")
}

// UserEvent builds a finalized user text event.
func UserEvent(text string) core.Event {
	return core.NewUserMessageEvent("test-run", text)
}

// AssistantEvent builds a finalized assistant text event authored by name.
func AssistantEvent(name, text string) core.Event {
	return core.NewMessageEvent(name, text)
}

// FunctionCallEvent builds an assistant event carrying a single function call.
func FunctionCallEvent(author, callID, name, args string) core.Event {
	e := core.NewEvent("test-run", author)
	e.Content = &core.Content{Role: "assistant", Parts: []core.Part{
		core.FunctionCallPart{FunctionCall: core.FunctionCall{ID: callID, Name: name, Arguments: args}},
	}}
	return e
}

// DrainEvents reads events from ch until it closes or the timeout elapses.
func DrainEvents(t *testing.T, ch <-chan core.Event, timeout time.Duration) []core.Event {
	t.Helper()

	var events []core.Event
	deadline := time.After(timeout)

	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-deadline:
			return events
		}
	}
}
