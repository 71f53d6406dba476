// Package flow provides execution flow management for VoxMesh personas.
//
// Flows orchestrate the execution pipeline of a persona turn, allowing for
// modular and configurable processing of requests and responses. This design
// enables clean separation of concerns and easy extensibility.
package flow

import (
	"github.com/voxmesh/voxmesh/core"
	"github.com/voxmesh/voxmesh/model"
	"github.com/voxmesh/voxmesh/tool"
)

// Flow defines the interface for persona execution flows.
//
// A flow orchestrates the complete execution pipeline of a persona turn,
// from processing the initial request to generating the final response.
// Different flow implementations provide different capabilities such as
// simple execution or handoff-aware multi-persona routing.
type Flow interface {
	// Execute runs the flow with the given context and request.
	// It returns a channel of events that represent the execution progress.
	Execute(runCtx *core.RunContext) (<-chan core.Event, error)
}

// FlowAgent defines the interface that personas must implement to work with
// flows. It exposes persona capabilities without exposing the full agent
// implementation.
type FlowAgent interface {
	// GetName returns the persona's display name.
	GetName() string

	// GetModel returns the language model instance.
	GetModel() model.Model

	// ResolveInstructions produces the system prompt for the current turn.
	ResolveInstructions(runCtx *core.RunContext) (string, error)

	// GetTools returns the registered tools for function calling.
	GetTools() map[string]tool.Tool

	// GetSubAgents returns the list of peer personas reachable by handoff.
	GetSubAgents() []FlowAgent

	// IsFunctionCallingEnabled returns whether function calling is enabled.
	IsFunctionCallingEnabled() bool

	// IsStreamingEnabled returns whether streaming responses are enabled.
	IsStreamingEnabled() bool

	// IsTransferEnabled returns whether persona handoff is enabled.
	IsTransferEnabled() bool

	// GetOutputKey returns the session state key for saving responses.
	GetOutputKey() string

	// MaxHistoryMessages returns the maximum number of conversation history
	// messages carried into a model request.
	MaxHistoryMessages() int

	// ExecuteTool executes a named tool with the given serialized arguments.
	ExecuteTool(toolCtx *core.ToolContext, toolName string, args string) (any, error)
}

// RequestProcessor processes the request before sending it to the model.
type RequestProcessor interface {
	// Name returns the processor's identifier.
	Name() string
	// ProcessRequest modifies the model request before execution.
	ProcessRequest(runCtx *core.RunContext, req *model.Request, agent FlowAgent) error
}

// ResponseProcessor processes the response after receiving it from the model.
type ResponseProcessor interface {
	// Name returns the processor's identifier.
	Name() string
	// ProcessResponse handles the model response and may generate additional events.
	ProcessResponse(runCtx *core.RunContext, resp *model.Response, agent FlowAgent) error
}
