// Package support implements a customer support center for an electronics and
// home goods company as a team of voice personas: an initial agent that
// triages the caller's issue and routes it to returns, technical, billing or
// manager specialists. The personas share a per-session UserData container
// tracking contact details, the identified issue and its resolution state.
package support
