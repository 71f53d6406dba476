package flow

import (
	"fmt"

	"github.com/voxmesh/voxmesh/core"
	"github.com/voxmesh/voxmesh/model"
)

// BaseFlow is a minimal single-persona flow implementation that supports a
// request -> model -> (optional tool loop) cycle with pluggable pre/post
// processors. Tool batches run through a FunctionExecutor so a turn with
// several parallel calls still emits responses in call order.
type BaseFlow struct {
	agent              FlowAgent
	requestProcessors  []RequestProcessor
	responseProcessors []ResponseProcessor
	executor           FunctionExecutor
}

// NewBaseFlow creates a new basic single-persona flow.
func NewBaseFlow(agent FlowAgent) *BaseFlow {
	return &BaseFlow{
		agent:              agent,
		requestProcessors:  []RequestProcessor{},
		responseProcessors: []ResponseProcessor{},
		executor:           NewParallelFunctionExecutor(FunctionExecutorConfig{PreserveOrder: true}),
	}
}

// AddRequestProcessor appends a request processor; registration order defines
// execution order.
func (f *BaseFlow) AddRequestProcessor(processor RequestProcessor) {
	f.requestProcessors = append(f.requestProcessors, processor)
}

// AddResponseProcessor appends a response processor executed after each model chunk.
func (f *BaseFlow) AddResponseProcessor(processor ResponseProcessor) {
	f.responseProcessors = append(f.responseProcessors, processor)
}

// SetFunctionExecutor replaces the default tool batch executor.
func (f *BaseFlow) SetFunctionExecutor(executor FunctionExecutor) {
	if executor != nil {
		f.executor = executor
	}
}

// Execute launches the flow asynchronously and returns a channel of Events.
// The channel is closed when a final response is emitted or an unrecoverable
// error occurs. Callers should range over the returned channel.
func (f *BaseFlow) Execute(runCtx *core.RunContext) (<-chan core.Event, error) {
	eventChan := make(chan core.Event, 100)

	go func() {
		defer close(eventChan)

		for {
			if runCtx.Limiter != nil {
				if err := runCtx.Limiter.Increment(); err != nil {
					runCtx.LogWarn("flow.model_call_limit_reached", "agent", f.agent.GetName(), "calls", runCtx.Limiter.Count())
					break
				}
			}

			last := f.runOnce(runCtx, eventChan)
			if last == nil {
				break
			}
			// Control actions hand the session to another persona (or end it);
			// the current flow must not speak again.
			if hasControlAction(last) {
				break
			}
			// A function response means the model needs another turn to react
			if len(last.GetFunctionResponses()) > 0 {
				continue
			}
			if last.IsPartial() {
				runCtx.LogWarn("flow.unexpected_partial_tail", "agent", f.agent.GetName())
				break
			}
			if last.IsFinalResponse() {
				break
			}
		}
	}()

	return eventChan, nil
}

// hasControlAction reports whether the event moves control away from the
// current persona: transfer, escalation or session end.
func hasControlAction(ev *core.Event) bool {
	if ev.Actions.TransferToAgent != nil && *ev.Actions.TransferToAgent != "" {
		return true
	}
	if ev.Actions.Escalate != nil && *ev.Actions.Escalate {
		return true
	}
	if ev.Actions.EndSession != nil && *ev.Actions.EndSession {
		return true
	}
	return false
}

// emitError converts an internal error to a system Event.
func (f *BaseFlow) emitError(eventChan chan<- core.Event, runCtx *core.RunContext, err error) {
	ev := core.NewEvent(runCtx.RunID, "system")
	msg := err.Error()
	code := "FLOW_ERROR"
	ev.ErrorMessage = &msg
	ev.ErrorCode = &code
	eventChan <- ev
}

// runOnce performs one model turn (including any tool executions) and returns
// the last emitted Event (final or intermediate). A nil return signals termination.
func (f *BaseFlow) runOnce(runCtx *core.RunContext, eventChan chan<- core.Event) *core.Event {
	// Refresh the session snapshot so request processors see the latest
	// conversation, including tool responses appended by the runner.
	if runCtx.SessionStore != nil {
		if latest, err := runCtx.SessionStore.Get(runCtx.SessionID); err == nil && latest != nil {
			runCtx.Session = latest
		}
	}

	req := new(model.Request)

	for _, processor := range f.requestProcessors {
		if err := processor.ProcessRequest(runCtx, req, f.agent); err != nil {
			f.emitError(eventChan, runCtx, fmt.Errorf("request processor %s failed: %w", processor.Name(), err))
			return nil
		}
	}

	if f.agent.IsFunctionCallingEnabled() {
		tools := f.agent.GetTools()
		if len(tools) > 0 {
			toolDefinitions := make([]model.ToolDefinition, 0, len(tools))
			for _, t := range tools {
				toolDefinitions = append(toolDefinitions, model.ToolDefinition{
					Type: "function",
					Function: model.FunctionDefinition{
						Name:        t.Name(),
						Description: t.Description(),
						Parameters:  t.Parameters(),
					},
				})
			}

			req.Tools = append(req.Tools, toolDefinitions...)
		}
	}

	req.Stream = f.agent.IsStreamingEnabled()

	respCh, errCh := f.agent.GetModel().Generate(runCtx.Context, *req)

	var lastEvent *core.Event

	emit := func(ev core.Event) error {
		select {
		case <-runCtx.Context.Done():
			return runCtx.Context.Err()
		case eventChan <- ev:
		}
		// Wait for session persistence (runner signals resume after append)
		if !ev.IsPartial() && runCtx.Resume != nil {
			select {
			case <-runCtx.Context.Done():
				return runCtx.Context.Err()
			case <-runCtx.Resume:
			}
		}
		return nil
	}

loop:
	for {
		select {
		case resp, ok := <-respCh:
			if !ok {
				break loop
			}

			for _, processor := range f.responseProcessors {
				if err := processor.ProcessResponse(runCtx, &resp, f.agent); err != nil {
					f.emitError(eventChan, runCtx, fmt.Errorf("response processor %s failed: %w", processor.Name(), err))
					return nil
				}
			}

			ev := core.NewEvent(runCtx.RunID, f.agent.GetName())
			ev.Content = &resp.Content
			ev.Partial = &resp.Partial

			// Mark turn complete on a final assistant response with no pending tool calls
			if !resp.Partial && len(ev.GetFunctionCalls()) == 0 {
				complete := true
				ev.TurnComplete = &complete

				if key := f.agent.GetOutputKey(); key != "" {
					if text := resp.Content.Text(); text != "" {
						ev.Actions.StateDelta = map[string]any{key: text}
					}
				}
			}

			lastEvent = &ev

			if err := emit(ev); err != nil {
				return lastEvent
			}

			if fnCalls := ev.GetFunctionCalls(); len(fnCalls) > 0 && !ev.IsPartial() {
				f.executor.Execute(runCtx, f.agent, f.agent.GetTools(), fnCalls, func(respEv core.Event) error {
					lastEvent = &respEv
					return emit(respEv)
				})
			}
		case err, ok := <-errCh:
			if ok && err != nil {
				f.emitError(eventChan, runCtx, err)
				return nil
			}
			break loop
		}
	}

	return lastEvent
}
