// Package memory provides core.MemoryStore implementations used for
// cross-turn recall. The in-memory variant keeps a per-session key/value
// scratchpad plus a list of stored snippets searchable by naive substring
// match, which is sufficient for the dev CLI and unit tests. Production
// deployments can swap in a vector-search backend behind the same interface.
package memory
