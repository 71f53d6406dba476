package flow

import (
	"fmt"
	"strings"

	"github.com/voxmesh/voxmesh/core"
	"github.com/voxmesh/voxmesh/model"
)

// TransferToolInjector adds a transfer_to_agent tool definition to the model
// request when the persona allows handoffs and has reachable peers. The enum
// of valid targets is derived from the sub-agent list so the model cannot
// invent destinations.
type TransferToolInjector struct{}

// NewTransferToolInjector creates a new transfer tool injector.
func NewTransferToolInjector() *TransferToolInjector { return &TransferToolInjector{} }

// Name returns the processor's identifier.
func (p *TransferToolInjector) Name() string { return "transfer_tool_injector" }

// ProcessRequest conditionally appends the transfer tool definition.
func (p *TransferToolInjector) ProcessRequest(runCtx *core.RunContext, req *model.Request, agent FlowAgent) error {
	if !agent.IsTransferEnabled() {
		return nil
	}

	subAgents := agent.GetSubAgents()
	if len(subAgents) == 0 {
		return nil
	}

	// Personas that expose their own named handoff tools don't need the
	// generic definition on top.
	if _, exists := agent.GetTools()["transfer_to_agent"]; exists {
		return nil
	}
	for i := range req.Tools {
		if req.Tools[i].Function.Name == "transfer_to_agent" {
			return nil
		}
	}

	targets := make([]any, 0, len(subAgents))
	var names []string
	for _, sub := range subAgents {
		targets = append(targets, sub.GetName())
		names = append(names, sub.GetName())
	}

	req.Tools = append(req.Tools, model.ToolDefinition{
		Type: "function",
		Function: model.FunctionDefinition{
			Name:        "transfer_to_agent",
			Description: fmt.Sprintf("Transfer the conversation to another agent. Available agents: %s", strings.Join(names, ", ")),
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"agent": map[string]any{
						"type":        "string",
						"description": "Name of the agent to transfer to",
						"enum":        targets,
					},
				},
				"required": []string{"agent"},
			},
		},
	})

	runCtx.LogDebug("flow.transfer_tool.injected", "agent", agent.GetName(), "targets", len(targets))

	return nil
}
