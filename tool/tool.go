// Package tool implements the function calling subsystem that lets personas
// invoke structured capabilities (lookups, computations, side effects) with
// schema validated arguments, consistent error handling and rich metadata for
// model guidance.
package tool

import (
	"fmt"

	"github.com/voxmesh/voxmesh/core"
	"github.com/voxmesh/voxmesh/internal/util"
)

// Tool defines the interface for extending persona capabilities with external
// functions.
//
// Tools registered with a persona enable function calling, letting the model
// perform actions beyond text generation: database lookups, calculations,
// state updates, handoffs between personas.
//
// All tools receive a ToolContext giving access to session state, shared user
// data, orchestration actions (transfer, escalate, end session), memory and
// artifacts.
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions (snake_case names)
//   - Define a proper JSON schema for parameters
//   - Handle errors gracefully
//   - Be thread-safe if used concurrently
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description of what this tool does.
	// It is provided to the model to help it decide when to use the tool.
	Description() string

	// Parameters returns a JSON schema describing the expected input format,
	// used for validation and function calling declarations.
	Parameters() map[string]any

	// Call executes the tool with parsed arguments and a ToolContext.
	Call(toolCtx *core.ToolContext, args map[string]any) (any, error)
}

// ValidationError represents parameter validation errors with detailed information.
type ValidationError = util.ValidationError

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}
