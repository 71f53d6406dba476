// Package agent contains the persona agent implementation and supporting
// utilities for building voice agent graphs in VoxMesh. The package focuses
// on three concerns:
//
//  1. Base lifecycle + hierarchy plumbing (BaseAgent)
//  2. Static / dynamic instruction resolution (Instruction)
//  3. Model-centric conversational / tool-calling persona (PersonaAgent)
//
// Design principles:
//   - Minimal hidden global state: explicit wiring via Runner/RunContext
//   - Composability: personas link into handoff graphs using SetSubAgents / FindAgent
//   - Observability: clear logging hooks at run start and flow selection
//   - Extensibility: embed BaseAgent; only implement Run plus any custom API
//
// Execution model: a persona's Run receives a *core.RunContext, selects a
// flow matching its capabilities and streams flow events to the runner. The
// package intentionally keeps persistence, model specifics and tool registry
// abstractions in their respective packages to avoid cyclic deps.
package agent
