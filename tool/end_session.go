package tool

import (
	"github.com/voxmesh/voxmesh/core"
)

// endSessionTool signals a graceful end of the conversation after the
// current turn completes. Voice sessions translate this into closing the
// realtime connection once the final utterance finishes playing.
type endSessionTool struct {
	farewell string
}

// NewEndSessionTool constructs the end session tool. The farewell text is
// returned to the model so it can be spoken before the session closes.
func NewEndSessionTool(farewell string) Tool {
	if farewell == "" {
		farewell = "Thank you for contacting us. Goodbye."
	}
	return &endSessionTool{farewell: farewell}
}

func (t *endSessionTool) Name() string { return "end_session" }

func (t *endSessionTool) Description() string {
	return "End the conversation once the customer's needs are met. Say goodbye before ending."
}

func (t *endSessionTool) Parameters() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{}}
}

func (t *endSessionTool) Call(tc *core.ToolContext, _ map[string]any) (any, error) {
	tc.EndSession()
	return t.farewell, nil
}
