package tool

import (
	"fmt"

	"github.com/voxmesh/voxmesh/core"
)

// transferToAgentTool requests orchestration transfer to a named persona.
type transferToAgentTool struct{}

// NewTransferToAgentTool constructs the generic transfer tool. The model
// chooses the target by name; prefer NewHandoffTool when the destination is
// fixed and the tool name should describe the destination.
func NewTransferToAgentTool() Tool { return &transferToAgentTool{} }

func (t *transferToAgentTool) Name() string { return "transfer_to_agent" }

func (t *transferToAgentTool) Description() string {
	return "Request transfer of control to another agent by name. Use when another agent is better suited."
}

func (t *transferToAgentTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"agent": map[string]any{"type": "string", "description": "Target agent name"},
		},
		"required": []string{"agent"},
	}
}

func (t *transferToAgentTool) Call(tc *core.ToolContext, args map[string]any) (any, error) {
	raw, ok := args["agent"]
	if !ok {
		return nil, fmt.Errorf("missing required field 'agent'")
	}
	agentName, ok := raw.(string)
	if !ok || agentName == "" {
		return nil, fmt.Errorf("field 'agent' must be non-empty string")
	}
	tc.TransferToAgent(agentName)
	return map[string]any{"transferred": true, "agent": agentName}, nil
}

// NewHandoffTool builds a no-argument tool that always transfers to target.
// Voice personas expose one per destination (e.g. transfer_to_scheduler) so
// the model picks the destination by picking the tool.
func NewHandoffTool(name, description, target string) Tool {
	return NewFunctionTool(
		name,
		description,
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(tc *core.ToolContext, _ map[string]any) (any, error) {
			tc.TransferToAgent(target)
			return map[string]any{"transferred": true, "agent": target}, nil
		},
	)
}
