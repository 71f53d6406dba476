// Package artifact provides core.ArtifactStore implementations for binary
// payloads produced during a session, such as synthesized audio clips or
// uploaded documents. Artifacts are scoped by session id and addressed by an
// artifact id chosen by the caller.
package artifact
