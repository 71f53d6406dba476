// Package runner implements the orchestration layer binding personas to
// sessions.
//
// The Runner owns the run lifecycle: it loads the session, appends the user
// turn, executes the active persona, streams events back to the caller and
// persists every side effect (state deltas, history, artifacts). It also
// performs handoff orchestration: when a persona emits a transfer action the
// runner resolves the target in the agent tree, rebinds the run context and
// lets the target persona speak next, entry greeting included. The active
// persona is remembered in session state so follow-up turns resume with the
// persona the conversation last reached.
package runner
