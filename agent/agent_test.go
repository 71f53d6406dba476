package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxmesh/voxmesh/core"
	"github.com/voxmesh/voxmesh/internal/testutil"
	"github.com/voxmesh/voxmesh/model"
	"github.com/voxmesh/voxmesh/tool"
)

func TestBaseAgentLifecycle(t *testing.T) {
	rc, _ := testutil.NewRunContext(t, "greeter")

	base := NewBaseAgent("greeter")
	require.NoError(t, base.Start(rc))
	assert.Error(t, base.Start(rc))
	require.NoError(t, base.Stop(rc))
	assert.Error(t, base.Stop(rc))
}

func TestBaseAgentHierarchy(t *testing.T) {
	llm := model.NewMockModel("m", "mock")
	root := NewPersonaAgent("greeter", llm)
	finder := NewPersonaAgent("property_finder", llm)
	scheduler := NewPersonaAgent("viewing_scheduler", llm)

	require.NoError(t, root.SetSubAgents(finder, scheduler))

	subs := root.SubAgents()
	require.Len(t, subs, 2)
	assert.Equal(t, "property_finder", subs[0].Name())

	assert.Equal(t, "greeter", finder.Parent().Name())

	found := root.FindAgent("viewing_scheduler")
	require.NotNil(t, found)
	assert.Equal(t, "viewing_scheduler", found.Name())

	assert.Nil(t, root.FindAgent("nobody"))
}

func TestInstructionResolution(t *testing.T) {
	rc, _ := testutil.NewRunContext(t, "greeter")

	static := NewInstructionFromText("be friendly")
	assert.True(t, static.IsStatic())
	text, err := static.Resolve(rc)
	require.NoError(t, err)
	assert.Equal(t, "be friendly", text)

	dynamic := NewInstructionFromFunc(func(rc *core.RunContext) (string, error) {
		return "session " + rc.SessionID, nil
	})
	assert.False(t, dynamic.IsStatic())
	text, err = dynamic.Resolve(rc)
	require.NoError(t, err)
	assert.Equal(t, "session test-session", text)
}

func TestPersonaAgentOptions(t *testing.T) {
	llm := model.NewMockModel("m", "mock")
	p := NewPersonaAgent("mortgage_advisor", llm,
		WithInstruction("You are a mortgage advisor."),
		WithVoice("onyx"),
		WithGreeting("Introduce yourself briefly."),
		WithMaxHistoryMessages(6),
		WithOutputKey("last_reply"),
	)

	assert.Equal(t, "mortgage_advisor", p.GetName())
	assert.Equal(t, "onyx", p.Voice())
	assert.Equal(t, 6, p.MaxHistoryMessages())
	assert.Equal(t, "last_reply", p.GetOutputKey())

	rc, _ := testutil.NewRunContext(t, "mortgage_advisor")
	instructions, err := p.ResolveInstructions(rc)
	require.NoError(t, err)
	assert.Equal(t, "You are a mortgage advisor.", instructions)

	greeting, ok, err := p.GreetingInstruction(rc)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Introduce yourself briefly.", greeting)
}

func TestPersonaAgentNoGreeting(t *testing.T) {
	p := NewPersonaAgent("quiet", model.NewMockModel("m", "mock"))
	rc, _ := testutil.NewRunContext(t, "quiet")

	_, ok, err := p.GreetingInstruction(rc)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPersonaAgentToolRegistry(t *testing.T) {
	p := NewPersonaAgent("support", model.NewMockModel("m", "mock"))

	noop := tool.NewFunctionTool("noop", "does nothing",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(*core.ToolContext, map[string]any) (any, error) { return "ok", nil },
	)

	p.RegisterTool(noop)
	assert.True(t, p.HasTool("noop"))
	assert.Contains(t, p.ListTools(), "noop")

	got, ok := p.GetTool("noop")
	require.True(t, ok)
	assert.Equal(t, "noop", got.Name())

	assert.True(t, p.UnregisterTool("noop"))
	assert.False(t, p.UnregisterTool("noop"))
	assert.False(t, p.HasTool("noop"))
}

func TestPersonaAgentExecuteTool(t *testing.T) {
	p := NewPersonaAgent("support", model.NewMockModel("m", "mock"),
		WithTools(tool.NewFunctionTool("echo", "echoes input",
			map[string]any{
				"type": "object",
				"properties": map[string]any{
					"text": map[string]any{"type": "string"},
				},
			},
			func(_ *core.ToolContext, args map[string]any) (any, error) {
				return args["text"], nil
			},
		)),
	)

	tc := testutil.NewToolContext(t, "support")

	result, err := p.ExecuteTool(tc, "echo", `{"text":"hi"}`)
	require.NoError(t, err)
	assert.Equal(t, "hi", result)

	_, err = p.ExecuteTool(tc, "missing", `{}`)
	assert.Error(t, err)
}

func TestPersonaAgentExecuteInjectedTransfer(t *testing.T) {
	llm := model.NewMockModel("m", "mock")
	p := NewPersonaAgent("greeter", llm)
	require.NoError(t, p.SetSubAgents(NewPersonaAgent("billing", llm)))

	tc := testutil.NewToolContext(t, "greeter")
	result, err := p.ExecuteTool(tc, "transfer_to_agent", `{"agent":"billing"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"transferred": true, "agent": "billing"}, result)
	require.NotNil(t, tc.Actions().TransferToAgent)
	assert.Equal(t, "billing", *tc.Actions().TransferToAgent)
}

func TestPersonaAgentRunEmitsEvents(t *testing.T) {
	llm := model.NewMockModel("m", "mock")
	llm.QueueTurn("Hello! How can I help you today?")

	p := NewPersonaAgent("greeter", llm, WithInstruction("Greet warmly."))

	rc, emit := testutil.NewRunContext(t, "greeter")
	rc.Session.AddEvent(testutil.UserEvent("hi"))

	require.NoError(t, p.Run(rc))
	close(emit)

	events := testutil.DrainEvents(t, emit, time.Second)
	require.Len(t, events, 1)
	assert.Equal(t, "greeter", events[0].Author)
	assert.Equal(t, "Hello! How can I help you today?", events[0].Content.Text())
}
