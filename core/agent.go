package core

// Agent defines the core interface implemented by every VoxMesh agent.
//
// Agents are the primary processing units of the framework. They receive
// inputs through a RunContext, process them asynchronously, and emit events
// to communicate results and state changes back to the Runner.
//
// Implementations must:
//   - Respect context cancellation for graceful shutdown
//   - Emit events through the provided RunContext
//   - Handle the async resume mechanism properly
//   - Manage their lifecycle through Start/Stop methods
type Agent interface {
	Name() string
	Start(runCtx *RunContext) error
	Stop(runCtx *RunContext) error
	Run(runCtx *RunContext) error
	SetSubAgents(children ...Agent) error
	SubAgents() []Agent
	Parent() Agent
	FindAgent(name string) Agent
	Description() string
}

// AgentInfo carries identifying details about an agent used in contexts & events.
// Name is the external identifier; Type categorizes implementation (e.g. "persona").
type AgentInfo struct{ Name, Type string }
