// Package speech defines the recognition and synthesis contracts used to turn
// caller audio into text for the personas and persona replies back into audio.
// Voice activity detection and turn detection are handled by the realtime
// platform and arrive as events; this package only covers transcription and
// synthesis. Concrete providers live in sub-packages (see speech/openai).
package speech

import (
	"context"
	"io"
)

// Recognizer converts recorded audio into a transcript.
type Recognizer interface {
	// Transcribe reads one audio clip and returns its transcript. The
	// filename hint carries the container format (e.g. "turn.wav").
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// Synthesizer renders text as speech audio.
type Synthesizer interface {
	// Synthesize returns encoded audio for the text spoken in the given
	// voice. An empty voice selects the provider default.
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}
