package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxmesh/voxmesh/agent"
	"github.com/voxmesh/voxmesh/core"
	"github.com/voxmesh/voxmesh/model"
)

func userContent(text string) core.Content {
	return core.Content{
		Role:  "user",
		Parts: []core.Part{core.TextPart{Text: text}},
	}
}

func runAndCollect(t *testing.T, r *Runner, sessionID, text string) []core.Event {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	runID, events, errs, err := r.Run(ctx, sessionID, userContent(text))
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	var collected []core.Event
	for ev := range events {
		collected = append(collected, ev)
	}
	for err := range errs {
		require.NoError(t, err)
	}
	return collected
}

func TestRunnerSingleTurn(t *testing.T) {
	llm := model.NewMockModel("m", "mock")
	llm.QueueTurn("Hello! How can I help you today?")

	greeterAgent := agent.NewPersonaAgent("greeter", llm, agent.WithInstruction("Greet warmly."))
	r := New(greeterAgent)

	events := runAndCollect(t, r, "s1", "hi")
	require.Len(t, events, 1)
	assert.Equal(t, "greeter", events[0].Author)
	assert.Equal(t, "Hello! How can I help you today?", events[0].Content.Text())

	sess, err := r.SessionStore().Get("s1")
	require.NoError(t, err)
	require.Len(t, sess.GetEvents(), 2)
	assert.Equal(t, "user", sess.GetEvents()[0].Content.Role)
}

func TestRunnerFirstTurnGreeting(t *testing.T) {
	llm := model.NewMockModel("m", "mock")
	llm.QueueTurn("Welcome to Sunshine Realty!")
	llm.QueueTurn("Sure, let me help with that.")

	greeterAgent := agent.NewPersonaAgent("greeter", llm,
		agent.WithInstruction("You are the office greeter."),
		agent.WithGreeting("Introduce yourself and the office."),
	)
	r := New(greeterAgent)

	runAndCollect(t, r, "s1", "hello")
	require.NotEmpty(t, llm.Requests)
	assert.Contains(t, llm.Requests[0].Instructions, "Introduce yourself and the office.")

	// Greeting applies to session entry only
	runAndCollect(t, r, "s1", "I have a question")
	require.Len(t, llm.Requests, 2)
	assert.NotContains(t, llm.Requests[1].Instructions, "Introduce yourself and the office.")
}

func TestRunnerHandoff(t *testing.T) {
	greeterLLM := model.NewMockModel("m1", "mock")
	greeterLLM.QueueToolCall("call-1", "transfer_to_agent", `{"agent":"property_finder"}`)

	finderLLM := model.NewMockModel("m2", "mock")
	finderLLM.QueueTurn("I'm the property finder. What are you looking for?")

	greeterAgent := agent.NewPersonaAgent("greeter", greeterLLM)
	finderAgent := agent.NewPersonaAgent("property_finder", finderLLM,
		agent.WithGreeting("Introduce yourself as the property finder."),
	)
	require.NoError(t, greeterAgent.SetSubAgents(finderAgent))

	r := New(greeterAgent)

	events := runAndCollect(t, r, "s1", "I want to look at houses")
	require.Len(t, events, 3)

	require.Len(t, events[0].GetFunctionCalls(), 1)

	require.NotNil(t, events[1].Actions.TransferToAgent)
	assert.Equal(t, "property_finder", *events[1].Actions.TransferToAgent)

	assert.Equal(t, "property_finder", events[2].Author)
	assert.Equal(t, "I'm the property finder. What are you looking for?", events[2].Content.Text())

	// The target persona's first request carries its entry greeting
	require.NotEmpty(t, finderLLM.Requests)
	assert.Contains(t, finderLLM.Requests[0].Instructions, "Introduce yourself as the property finder.")

	// The handoff is remembered for follow-up turns
	sess, err := r.SessionStore().Get("s1")
	require.NoError(t, err)
	active, ok := sess.GetState("active_agent")
	require.True(t, ok)
	assert.Equal(t, "property_finder", active)

	finderLLM.QueueTurn("Happy to keep searching.")
	followUp := runAndCollect(t, r, "s1", "show me condos")
	require.Len(t, followUp, 1)
	assert.Equal(t, "property_finder", followUp[0].Author)
}

func TestRunnerUnknownTransferTarget(t *testing.T) {
	llm := model.NewMockModel("m", "mock")
	llm.QueueToolCall("call-1", "transfer_to_agent", `{"agent":"nobody"}`)

	greeterAgent := agent.NewPersonaAgent("greeter", llm)
	require.NoError(t, greeterAgent.SetSubAgents(agent.NewPersonaAgent("billing", model.NewMockModel("m2", "mock"))))

	r := New(greeterAgent)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, events, errs, err := r.Run(ctx, "s1", userContent("transfer me"))
	require.NoError(t, err)

	for range events {
	}

	var terminal error
	for err := range errs {
		terminal = err
	}
	require.Error(t, terminal)
	assert.Contains(t, terminal.Error(), "not found")
}

func TestRunnerUserDataSharedAcrossTurns(t *testing.T) {
	type profile struct{ Name string }

	llm := model.NewMockModel("m", "mock")
	llm.QueueTurn("Noted.")
	llm.QueueTurn("Noted again.")

	r := New(agent.NewPersonaAgent("greeter", llm),
		WithUserDataFactory(func(string) any { return &profile{} }),
	)

	runAndCollect(t, r, "s1", "hi")
	first := r.UserData("s1")
	runAndCollect(t, r, "s1", "hi again")
	assert.Same(t, first, r.UserData("s1"))

	assert.NotSame(t, first, r.UserData("s2"))
}

func TestRunnerCancelUnknownRun(t *testing.T) {
	r := New(agent.NewPersonaAgent("greeter", model.NewMockModel("m", "mock")))
	assert.Error(t, r.Cancel("missing"))
}
