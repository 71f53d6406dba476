package flow

// MultiAgentFlow orchestrates a persona that may perform tool calls and hand
// the conversation to peer personas. It extends BaseFlow by selecting
// processors suitable for handoff-aware execution.
type MultiAgentFlow struct{ *BaseFlow }

// NewMultiAgentFlow creates a new handoff-aware flow with default processors.
func NewMultiAgentFlow(agent FlowAgent) *MultiAgentFlow {
	baseFlow := NewBaseFlow(agent)

	baseFlow.AddRequestProcessor(NewInstructionsProcessor())
	baseFlow.AddRequestProcessor(NewUserDataProcessor())
	baseFlow.AddRequestProcessor(NewContentsProcessor())
	// Inject transfer_to_agent tool definition dynamically when applicable
	baseFlow.AddRequestProcessor(NewTransferToolInjector())

	return &MultiAgentFlow{BaseFlow: baseFlow}
}
