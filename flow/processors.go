package flow

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/voxmesh/voxmesh/core"
	internalutil "github.com/voxmesh/voxmesh/internal/util"
	"github.com/voxmesh/voxmesh/model"
)

// InstructionsProcessor resolves the persona's system prompt and applies
// template substitution from session state.
type InstructionsProcessor struct{}

// NewInstructionsProcessor creates a new instructions processor.
func NewInstructionsProcessor() *InstructionsProcessor { return &InstructionsProcessor{} }

// Name returns the processor's identifier.
func (p *InstructionsProcessor) Name() string { return "instructions" }

// ProcessRequest adds system instructions to the model request.
func (p *InstructionsProcessor) ProcessRequest(runCtx *core.RunContext, req *model.Request, agent FlowAgent) error {
	instructions, err := agent.ResolveInstructions(runCtx)
	if err != nil {
		return fmt.Errorf("failed to resolve instruction: %w", err)
	}

	runCtx.LogDebug("agent.instruction.resolved", "agent", agent.GetName(), "length", len(instructions))

	if runCtx.Session != nil && runCtx.Session.State != nil {
		var tplErr error
		req.Instructions, tplErr = internalutil.RenderTemplate(instructions, runCtx.Session.State)
		if tplErr != nil {
			return fmt.Errorf("failed to render template: %w", tplErr)
		}
	} else {
		req.Instructions = instructions
	}

	// Entry greeting applies to the first turn after a persona takes over.
	if runCtx.Greeting != "" {
		req.Instructions = req.Instructions + "\n\n" + runCtx.Greeting
		runCtx.Greeting = ""
	}

	return nil
}

// UserDataSummarizer lets shared user data containers control how they are
// rendered into the system prompt. Containers without the method fall back to
// YAML serialization of the whole struct.
type UserDataSummarizer interface {
	Summarize() string
}

// UserDataProcessor appends a summary of the shared per-session user data to
// the system prompt, so a persona picking up mid-conversation (after a
// handoff) knows what has already been collected.
type UserDataProcessor struct{}

// NewUserDataProcessor creates a new user data processor.
func NewUserDataProcessor() *UserDataProcessor { return &UserDataProcessor{} }

// Name returns the processor's identifier.
func (p *UserDataProcessor) Name() string { return "user_data" }

// ProcessRequest appends the user data summary after the resolved instructions.
func (p *UserDataProcessor) ProcessRequest(runCtx *core.RunContext, req *model.Request, agent FlowAgent) error {
	if runCtx.UserData == nil {
		return nil
	}

	var summary string
	if s, ok := runCtx.UserData.(UserDataSummarizer); ok {
		summary = s.Summarize()
	} else {
		data, err := yaml.Marshal(runCtx.UserData)
		if err != nil {
			return fmt.Errorf("failed to summarize user data: %w", err)
		}
		summary = string(data)
	}

	if summary == "" {
		return nil
	}

	req.Instructions = fmt.Sprintf("You are %s agent. Current user data is %s\n\n%s",
		agent.GetName(), summary, req.Instructions)

	return nil
}

// ContentsProcessor assembles the conversation window carried into the model
// request. The window is truncated to the persona's MaxHistoryMessages, or to
// the staged HandoffWindow on the first request after a persona transfer, and
// leading orphaned tool items (calls whose responses fell outside the window,
// or responses whose calls did) are dropped so providers never see a broken
// tool exchange.
type ContentsProcessor struct{}

// NewContentsProcessor creates a new contents processor.
func NewContentsProcessor() *ContentsProcessor { return &ContentsProcessor{} }

// Name returns the processor's identifier.
func (p *ContentsProcessor) Name() string { return "contents" }

// ProcessRequest adds conversation history to the model request.
func (p *ContentsProcessor) ProcessRequest(runCtx *core.RunContext, req *model.Request, agent FlowAgent) error {
	var contents []core.Content

	if runCtx.Session != nil {
		window := agent.MaxHistoryMessages()
		if runCtx.HandoffWindow > 0 {
			window = runCtx.HandoffWindow
			runCtx.HandoffWindow = 0
		}

		events := runCtx.Session.GetConversationHistory()
		events = TrimHistory(events, window)

		for _, ev := range events {
			if ev.Content != nil && len(ev.Content.Parts) > 0 {
				contents = append(contents, *ev.Content)
			}
		}
	}

	req.Contents = contents
	return nil
}

// TrimHistory truncates events to the last max entries and removes leading
// orphaned function call / response items left dangling by the cut. max <= 0
// keeps the full history.
func TrimHistory(events []core.Event, max int) []core.Event {
	if max > 0 && len(events) > max {
		events = events[len(events)-max:]
	}

	for len(events) > 0 {
		head := events[0]
		if len(head.GetFunctionResponses()) > 0 {
			// Response whose originating call was cut off
			events = events[1:]
			continue
		}
		if calls := head.GetFunctionCalls(); len(calls) > 0 {
			// Call whose response may have been cut off; verify the next
			// event answers it, otherwise drop the call too.
			if len(events) < 2 || len(events[1].GetFunctionResponses()) == 0 {
				events = events[1:]
				continue
			}
		}
		break
	}

	return events
}
