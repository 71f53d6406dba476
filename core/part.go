package core

import (
	"encoding/json"
	"fmt"
)

// Part represents a polymorphic segment of role-based content. Concrete part
// types implement the unexported isPart marker enabling a closed set.
type Part interface{ isPart() }

// TextPart is a plain text content segment.
type TextPart struct {
	Text     string         // Plain UTF-8 text
	Metadata map[string]any // Optional producer-provided metadata
}

func (TextPart) isPart() {}

// DataPart is a structured data segment (e.g., JSON object map).
type DataPart struct {
	Data     map[string]any // Structured key/value payload
	Metadata map[string]any
}

func (DataPart) isPart() {}

// AudioPart references synthesized or captured audio attached to a turn. The
// payload itself travels over the realtime transport; events only carry the
// reference and timing metadata.
type AudioPart struct {
	TrackID    string  // Platform track or utterance identifier
	DurationMS int64   // Playback duration, if known
	Voice      string  // Synthesizer voice used, if any
	Transcript *string // Optional aligned transcript
}

func (AudioPart) isPart() {}

// FunctionCall describes a tool/function invocation request.
type FunctionCall struct {
	ID        string `json:"id,omitempty"`        // Optional stable id (can be supplied later)
	Name      string `json:"name"`                // Tool / function name
	Arguments string `json:"arguments,omitempty"` // Serialized argument payload (e.g. JSON)
}

// FunctionCallPart wraps a FunctionCall as a content part.
type FunctionCallPart struct {
	FunctionCall FunctionCall
	Metadata     map[string]any
}

func (FunctionCallPart) isPart() {}

// FunctionResponse describes the outcome of a function call.
type FunctionResponse struct {
	ID       string `json:"id,omitempty"`       // Matches originating FunctionCall ID
	Name     string `json:"name"`               // Function name
	Response any    `json:"response,omitempty"` // Successful result (any shape)
	Error    string `json:"error,omitempty"`    // Populated on failure
}

// FunctionResponsePart wraps a FunctionResponse as a content part.
type FunctionResponsePart struct {
	FunctionResponse FunctionResponse
	Metadata         map[string]any
}

func (FunctionResponsePart) isPart() {}

// Content holds role + ordered parts.
type Content struct {
	Role  string // Conversation role (user, assistant, tool, system,...)
	Parts []Part // Ordered heterogeneous parts
}

// wirePart is the tagged JSON envelope used to round-trip the closed Part set
// through durable stores. The shape mirrors typed content blocks used by
// realtime transports: {"type":"text","text":...}.
type wirePart struct {
	Type     string           `json:"type"`
	Text     string           `json:"text,omitempty"`
	Data     map[string]any   `json:"data,omitempty"`
	Audio    *AudioPart       `json:"audio,omitempty"`
	Call     *FunctionCall    `json:"function_call,omitempty"`
	Response *FunctionResponse `json:"function_response,omitempty"`
	Metadata map[string]any   `json:"metadata,omitempty"`
}

// MarshalJSON encodes Content with type-tagged parts.
func (c Content) MarshalJSON() ([]byte, error) {
	wire := struct {
		Role  string     `json:"role,omitempty"`
		Parts []wirePart `json:"parts"`
	}{Role: c.Role, Parts: make([]wirePart, 0, len(c.Parts))}

	for _, p := range c.Parts {
		switch pt := p.(type) {
		case TextPart:
			wire.Parts = append(wire.Parts, wirePart{Type: "text", Text: pt.Text, Metadata: pt.Metadata})
		case DataPart:
			wire.Parts = append(wire.Parts, wirePart{Type: "data", Data: pt.Data, Metadata: pt.Metadata})
		case AudioPart:
			ap := pt
			wire.Parts = append(wire.Parts, wirePart{Type: "audio", Audio: &ap})
		case FunctionCallPart:
			fc := pt.FunctionCall
			wire.Parts = append(wire.Parts, wirePart{Type: "function_call", Call: &fc, Metadata: pt.Metadata})
		case FunctionResponsePart:
			fr := pt.FunctionResponse
			wire.Parts = append(wire.Parts, wirePart{Type: "function_response", Response: &fr, Metadata: pt.Metadata})
		default:
			return nil, fmt.Errorf("unsupported part type %T", p)
		}
	}

	return json.Marshal(wire)
}

// UnmarshalJSON decodes type-tagged parts back into the closed Part set.
func (c *Content) UnmarshalJSON(data []byte) error {
	var wire struct {
		Role  string     `json:"role,omitempty"`
		Parts []wirePart `json:"parts"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	c.Role = wire.Role
	c.Parts = make([]Part, 0, len(wire.Parts))

	for _, wp := range wire.Parts {
		switch wp.Type {
		case "text":
			c.Parts = append(c.Parts, TextPart{Text: wp.Text, Metadata: wp.Metadata})
		case "data":
			c.Parts = append(c.Parts, DataPart{Data: wp.Data, Metadata: wp.Metadata})
		case "audio":
			if wp.Audio != nil {
				c.Parts = append(c.Parts, *wp.Audio)
			}
		case "function_call":
			if wp.Call != nil {
				c.Parts = append(c.Parts, FunctionCallPart{FunctionCall: *wp.Call, Metadata: wp.Metadata})
			}
		case "function_response":
			if wp.Response != nil {
				c.Parts = append(c.Parts, FunctionResponsePart{FunctionResponse: *wp.Response, Metadata: wp.Metadata})
			}
		default:
			return fmt.Errorf("unknown part type %q", wp.Type)
		}
	}

	return nil
}

// Text concatenates all text parts in order. Convenient for transcripts and
// speech synthesis input.
func (c Content) Text() string {
	var out string
	for _, p := range c.Parts {
		if tp, ok := p.(TextPart); ok {
			out += tp.Text
		}
	}
	return out
}
