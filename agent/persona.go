package agent

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/voxmesh/voxmesh/core"
	"github.com/voxmesh/voxmesh/flow"
	"github.com/voxmesh/voxmesh/model"
	"github.com/voxmesh/voxmesh/tool"
)

// PersonaAgentOptions configures a PersonaAgent instance.
//
// Use functional options with NewPersonaAgent to override defaults.
type PersonaAgentOptions struct {
	Instruction           Instruction
	Greeting              Instruction
	Voice                 string
	EnableStreaming       bool
	EnableFunctionCalling bool
	ToolTimeout           time.Duration
	OutputKey             string
	MaxHistoryMessages    int
	AllowTransfer         bool
	Tools                 map[string]tool.Tool
}

// PersonaAgent integrates with language models to drive one conversational
// persona inside a voice session.
//
// This agent implementation supports:
//   - Natural language conversation through system prompts
//   - Function calling with registered tools
//   - Streaming responses for real-time interactions
//   - Handoff to peer personas sharing the session
//   - A per-persona synthesizer voice and entry greeting
//   - Session state management with output keys
//
// PersonaAgent embeds BaseAgent to inherit standard agent lifecycle and
// hierarchy management.
type PersonaAgent struct {
	BaseAgent
	llm                   model.Model
	instruction           Instruction
	greeting              Instruction
	voice                 string
	tools                 map[string]tool.Tool
	enableFunctionCalling bool
	enableStreaming       bool
	toolTimeout           time.Duration
	outputKey             string
	maxHistoryMessages    int
	allowTransfer         bool
}

// NewPersonaAgent creates a new model-backed persona with sensible defaults:
// streaming and function calling enabled, a 15 second tool timeout, a
// 20-message conversation window and handoff capabilities enabled.
func NewPersonaAgent(name string, llm model.Model, optFns ...func(o *PersonaAgentOptions)) *PersonaAgent {
	opts := PersonaAgentOptions{
		Instruction:           NewInstructionFromText(fmt.Sprintf("You are %s, a helpful assistant.", name)),
		EnableStreaming:       true,
		EnableFunctionCalling: true,
		ToolTimeout:           15 * time.Second,
		MaxHistoryMessages:    20,
		AllowTransfer:         true,
		Tools:                 make(map[string]tool.Tool),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &PersonaAgent{
		BaseAgent:             NewBaseAgent(name),
		llm:                   llm,
		instruction:           opts.Instruction,
		greeting:              opts.Greeting,
		voice:                 opts.Voice,
		enableStreaming:       opts.EnableStreaming,
		enableFunctionCalling: opts.EnableFunctionCalling,
		toolTimeout:           opts.ToolTimeout,
		outputKey:             opts.OutputKey,
		maxHistoryMessages:    opts.MaxHistoryMessages,
		allowTransfer:         opts.AllowTransfer,
		tools:                 opts.Tools,
	}
}

// WithInstruction sets the persona's system prompt.
func WithInstruction(text string) func(o *PersonaAgentOptions) {
	return func(o *PersonaAgentOptions) { o.Instruction = NewInstructionFromText(text) }
}

// WithInstructionProvider sets a dynamic system prompt provider.
func WithInstructionProvider(p Provider) func(o *PersonaAgentOptions) {
	return func(o *PersonaAgentOptions) { o.Instruction = NewInstructionFromProvider(p) }
}

// WithGreeting sets the instruction used to generate the persona's entry
// greeting when it takes over a session.
func WithGreeting(text string) func(o *PersonaAgentOptions) {
	return func(o *PersonaAgentOptions) { o.Greeting = NewInstructionFromText(text) }
}

// WithVoice selects the synthesizer voice used for this persona's speech.
func WithVoice(voice string) func(o *PersonaAgentOptions) {
	return func(o *PersonaAgentOptions) { o.Voice = voice }
}

// WithTools registers the given tools at construction time.
func WithTools(tools ...tool.Tool) func(o *PersonaAgentOptions) {
	return func(o *PersonaAgentOptions) {
		for _, t := range tools {
			o.Tools[t.Name()] = t
		}
	}
}

// WithMaxHistoryMessages bounds the conversation window carried into requests.
func WithMaxHistoryMessages(n int) func(o *PersonaAgentOptions) {
	return func(o *PersonaAgentOptions) { o.MaxHistoryMessages = n }
}

// WithOutputKey saves each final reply under the given session state key.
func WithOutputKey(key string) func(o *PersonaAgentOptions) {
	return func(o *PersonaAgentOptions) { o.OutputKey = key }
}

// Voice returns the synthesizer voice configured for this persona ("" means
// the session default).
func (a *PersonaAgent) Voice() string { return a.voice }

// GreetingInstruction resolves the persona's entry greeting instruction.
// The second return is false when no greeting is configured.
func (a *PersonaAgent) GreetingInstruction(runCtx *core.RunContext) (string, bool, error) {
	text, err := a.greeting.Resolve(runCtx)
	if err != nil {
		return "", false, err
	}
	return text, text != "", nil
}

// RegisterTool adds a function tool to the persona's capability set.
//
// Registered tools become available for the language model to call during
// conversations when function calling is enabled.
func (a *PersonaAgent) RegisterTool(t tool.Tool) {
	a.tools[t.Name()] = t
}

// RegisterTools adds multiple tools to the persona's capability set.
func (a *PersonaAgent) RegisterTools(tools ...tool.Tool) {
	for _, t := range tools {
		a.RegisterTool(t)
	}
}

// UnregisterTool removes a tool. Returns true if it was registered.
func (a *PersonaAgent) UnregisterTool(name string) bool {
	if _, exists := a.tools[name]; exists {
		delete(a.tools, name)
		return true
	}
	return false
}

// HasTool checks if a tool is registered with the persona.
func (a *PersonaAgent) HasTool(name string) bool {
	_, exists := a.tools[name]
	return exists
}

// ListTools returns the names of all registered tools.
func (a *PersonaAgent) ListTools() []string {
	names := make([]string, 0, len(a.tools))
	for name := range a.tools {
		names = append(names, name)
	}
	return names
}

// GetTool retrieves a specific tool by name.
func (a *PersonaAgent) GetTool(name string) (tool.Tool, bool) {
	t, exists := a.tools[name]
	return t, exists
}

// FlowAgent interface implementation. These methods let the persona work with
// the flow package's modular execution pipeline.

// GetName returns the persona's display name.
func (a *PersonaAgent) GetName() string {
	return a.Name()
}

// GetModel returns the language model instance.
func (a *PersonaAgent) GetModel() model.Model {
	return a.llm
}

// GetTools returns a copy of the registered tools for function calling.
func (a *PersonaAgent) GetTools() map[string]tool.Tool {
	tools := make(map[string]tool.Tool, len(a.tools))
	for name, t := range a.tools {
		tools[name] = t
	}

	return tools
}

// GetSubAgents returns the list of peer personas as FlowAgents.
func (a *PersonaAgent) GetSubAgents() []flow.FlowAgent {
	subAgents := a.SubAgents()
	flowAgents := make([]flow.FlowAgent, 0, len(subAgents))
	for _, subAgent := range subAgents {
		if flowAgent, ok := subAgent.(flow.FlowAgent); ok {
			flowAgents = append(flowAgents, flowAgent)
		}
	}
	return flowAgents
}

// IsFunctionCallingEnabled returns whether function calling is enabled.
func (a *PersonaAgent) IsFunctionCallingEnabled() bool {
	return a.enableFunctionCalling
}

// IsStreamingEnabled returns whether streaming responses are enabled.
func (a *PersonaAgent) IsStreamingEnabled() bool {
	return a.enableStreaming
}

// IsTransferEnabled returns whether persona handoff is enabled.
func (a *PersonaAgent) IsTransferEnabled() bool {
	return a.allowTransfer
}

// GetOutputKey returns the session state key for saving responses.
func (a *PersonaAgent) GetOutputKey() string {
	return a.outputKey
}

// MaxHistoryMessages returns the maximum number of conversation history
// messages carried into a model request.
func (a *PersonaAgent) MaxHistoryMessages() int {
	return a.maxHistoryMessages
}

// ResolveInstructions produces the final system prompt by resolving static or
// dynamic instruction sources.
func (a *PersonaAgent) ResolveInstructions(runCtx *core.RunContext) (string, error) {
	return a.instruction.Resolve(runCtx)
}

// ExecuteTool deserializes JSON arguments and invokes the named tool returning
// its result or an error if the tool is unknown or validation fails.
func (a *PersonaAgent) ExecuteTool(toolCtx *core.ToolContext, toolName string, args string) (any, error) {
	t, exists := a.tools[toolName]
	if !exists {
		if toolName == "transfer_to_agent" && a.allowTransfer {
			t = tool.NewTransferToAgentTool()
		} else {
			return nil, fmt.Errorf("tool %s not found", toolName)
		}
	}

	argsMap := make(map[string]any)
	if args != "" {
		if err := json.Unmarshal([]byte(args), &argsMap); err != nil {
			return nil, fmt.Errorf("failed to unmarshal args: %w", err)
		}
	}

	return t.Call(toolCtx, argsMap)
}

// Run implements core.Agent using the flow selector to choose an execution
// strategy then streams flow events to the runner.
func (a *PersonaAgent) Run(runCtx *core.RunContext) error {
	runCtx.LogDebug(
		"agent.run.start",
		"agent", a.Name(),
		"run", runCtx.RunID,
	)

	ctx := runCtx.Context

	selector := flow.NewSelector()
	fl := selector.SelectFlow(a)

	runCtx.LogDebug(
		"agent.flow.selected",
		"agent", a.Name(),
		"flow", fmt.Sprintf("%T", fl),
	)

	eventChan, err := fl.Execute(runCtx)
	if err != nil {
		runCtx.LogError(
			"agent.flow.execute.error",
			"agent", a.Name(),
			"error", err.Error(),
		)

		return fmt.Errorf("flow execution failed: %w", err)
	}

	for event := range eventChan {
		select {
		case runCtx.Emit <- event:
			role := ""
			if event.Content != nil {
				role = event.Content.Role
			}

			runCtx.LogDebug(
				"agent.event.forward",
				"agent", a.Name(),
				"event_id", event.ID,
				"role", role,
				"fn_calls", len(event.GetFunctionCalls()),
			)
		case <-ctx.Done():
			runCtx.LogWarn("agent.run.context_done", "agent", a.Name(), "error", ctx.Err())

			return ctx.Err()
		}
	}

	runCtx.LogDebug("agent.flow.execute.complete", "agent", a.Name())

	return nil
}
