// Package core provides the foundational domain types, interfaces and execution
// contexts used by VoxMesh. It defines the core abstractions for:
//
//   - Agents (voice personas and other units of orchestrated work)
//   - Sessions (stateful conversational containers with event history)
//   - Events (immutable communication + orchestration records)
//   - RunContext / ToolContext (scoped execution & tool sandboxing)
//   - Pluggable stores for session state, artifacts and memory recall/search
//
// The package intentionally keeps implementation concerns (persistence, runner
// orchestration, concrete personas) out of scope, exposing small interfaces to
// enable custom backends and extensions.
package core
