package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxmesh/voxmesh/core"
)

func collect(t *testing.T, respCh <-chan Response, errCh <-chan error) []Response {
	t.Helper()

	var responses []Response
	for r := range respCh {
		responses = append(responses, r)
	}
	if err, ok := <-errCh; ok && err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return responses
}

func userRequest(text string) Request {
	return Request{Contents: []core.Content{
		{Role: "user", Parts: []core.Part{core.TextPart{Text: text}}},
	}}
}

func TestMockModelCannedResponse(t *testing.T) {
	m := NewMockModel("test", "mock")
	m.AddResponse("hello", "hi there")

	respCh, errCh := m.Generate(context.Background(), userRequest("hello"))
	responses := collect(t, respCh, errCh)

	require.Len(t, responses, 1)
	assert.Equal(t, "hi there", responses[0].Content.Text())
	assert.Equal(t, "stop", responses[0].FinishReason)
}

func TestMockModelDefaultResponse(t *testing.T) {
	m := NewMockModel("test", "mock")

	respCh, errCh := m.Generate(context.Background(), userRequest("anything"))
	responses := collect(t, respCh, errCh)

	require.Len(t, responses, 1)
	assert.Equal(t, "Mock response to: anything", responses[0].Content.Text())
}

func TestMockModelStreaming(t *testing.T) {
	m := NewMockModel("test", "mock")
	m.AddResponse("hi", "ok")

	req := userRequest("hi")
	req.Stream = true
	respCh, errCh := m.Generate(context.Background(), req)
	responses := collect(t, respCh, errCh)

	require.Len(t, responses, 3)
	assert.True(t, responses[0].Partial)
	assert.True(t, responses[1].Partial)
	assert.False(t, responses[2].Partial)
	assert.Equal(t, "ok", responses[2].Content.Text())
}

func TestMockModelScriptedTurns(t *testing.T) {
	m := NewMockModel("test", "mock")
	m.QueueToolCall("call-1", "search_properties", `{"location":"downtown"}`)
	m.QueueTurn("Here is what I found.")

	respCh, errCh := m.Generate(context.Background(), userRequest("find me a condo"))
	responses := collect(t, respCh, errCh)

	require.Len(t, responses, 1)
	assert.Equal(t, "tool_calls", responses[0].FinishReason)
	calls := core.Event{Content: &responses[0].Content}.GetFunctionCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "search_properties", calls[0].Name)

	respCh, errCh = m.Generate(context.Background(), userRequest("thanks"))
	responses = collect(t, respCh, errCh)

	require.Len(t, responses, 1)
	assert.Equal(t, "Here is what I found.", responses[0].Content.Text())
	assert.Len(t, m.Requests, 2)
}

func TestMockModelErrorOnEmptyContents(t *testing.T) {
	m := NewMockModel("test", "mock")

	respCh, errCh := m.Generate(context.Background(), Request{})
	for range respCh {
	}
	err := <-errCh
	assert.Error(t, err)
}

func TestMockModelInfo(t *testing.T) {
	m := NewMockModel("test-model", "mock")
	info := m.Info()
	assert.Equal(t, "test-model", info.Name)
	assert.Equal(t, "mock", info.Provider)
	assert.True(t, info.SupportsTools)
}
