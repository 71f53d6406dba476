package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxmesh/voxmesh/core"
	"github.com/voxmesh/voxmesh/internal/testutil"
	"github.com/voxmesh/voxmesh/model"
)

func TestTrimHistoryKeepsTail(t *testing.T) {
	var events []core.Event
	for i := 0; i < 10; i++ {
		events = append(events, testutil.UserEvent("message"))
	}

	trimmed := TrimHistory(events, 6)
	assert.Len(t, trimmed, 6)

	trimmed = TrimHistory(events, 0)
	assert.Len(t, trimmed, 10)

	trimmed = TrimHistory(nil, 6)
	assert.Empty(t, trimmed)
}

func TestTrimHistoryDropsOrphanedToolItems(t *testing.T) {
	call := testutil.FunctionCallEvent("greeter", "call-1", "update_name", `{}`)
	resp := core.NewFunctionResponseEvent("greeter", "call-1", "update_name", "ok", nil)

	// Orphaned response at the head of the window
	events := []core.Event{resp, testutil.UserEvent("hi"), testutil.AssistantEvent("greeter", "hello")}
	trimmed := TrimHistory(events, 0)
	require.Len(t, trimmed, 2)
	assert.Equal(t, "user", trimmed[0].Content.Role)

	// Orphaned call with no following response
	events = []core.Event{call, testutil.UserEvent("hi")}
	trimmed = TrimHistory(events, 0)
	require.Len(t, trimmed, 1)
	assert.Equal(t, "user", trimmed[0].Content.Role)

	// Intact call/response pair survives
	events = []core.Event{call, resp, testutil.AssistantEvent("greeter", "done")}
	trimmed = TrimHistory(events, 0)
	assert.Len(t, trimmed, 3)
}

func TestContentsProcessorBuildsWindow(t *testing.T) {
	rc, _ := testutil.NewRunContext(t, "greeter")
	rc.Session.AddEvent(testutil.UserEvent("hi"))
	rc.Session.AddEvent(testutil.AssistantEvent("greeter", "hello there"))

	req := &model.Request{}
	p := NewContentsProcessor()
	err := p.ProcessRequest(rc, req, newFakeAgent("greeter", model.NewMockModel("m", "mock")))
	require.NoError(t, err)

	require.Len(t, req.Contents, 2)
	assert.Equal(t, "user", req.Contents[0].Role)
	assert.Equal(t, "assistant", req.Contents[1].Role)
}

func TestContentsProcessorHandoffWindowIsOneShot(t *testing.T) {
	rc, _ := testutil.NewRunContext(t, "scheduler")
	for i := 0; i < 10; i++ {
		rc.Session.AddEvent(testutil.UserEvent("chatter"))
		rc.Session.AddEvent(testutil.AssistantEvent("greeter", "noted"))
	}
	rc.HandoffWindow = 6

	p := NewContentsProcessor()
	agent := newFakeAgent("scheduler", model.NewMockModel("m", "mock"))

	req := &model.Request{}
	require.NoError(t, p.ProcessRequest(rc, req, agent))
	assert.Len(t, req.Contents, 6)
	assert.Equal(t, 0, rc.HandoffWindow)

	// Follow-up requests revert to the persona's own window.
	req = &model.Request{}
	require.NoError(t, p.ProcessRequest(rc, req, agent))
	assert.Len(t, req.Contents, 20)
}

func TestInstructionsProcessorRendersState(t *testing.T) {
	rc, _ := testutil.NewRunContext(t, "greeter")
	rc.Session.SetState("customer_name", "Jesse")

	agent := newFakeAgent("greeter", model.NewMockModel("m", "mock"))
	agent.instructions = "Greet {{.customer_name}} warmly."

	req := &model.Request{}
	p := NewInstructionsProcessor()
	err := p.ProcessRequest(rc, req, agent)
	require.NoError(t, err)
	assert.Equal(t, "Greet Jesse warmly.", req.Instructions)
}

type summarizingData struct {
	Name string
}

func (d summarizingData) Summarize() string { return "name: " + d.Name }

func TestUserDataProcessorPrependsSummary(t *testing.T) {
	rc, _ := testutil.NewRunContext(t, "greeter")
	rc.UserData = summarizingData{Name: "Jesse"}

	agent := newFakeAgent("greeter", model.NewMockModel("m", "mock"))

	req := &model.Request{Instructions: "Base instructions."}
	p := NewUserDataProcessor()
	err := p.ProcessRequest(rc, req, agent)
	require.NoError(t, err)

	assert.Contains(t, req.Instructions, "You are greeter agent.")
	assert.Contains(t, req.Instructions, "name: Jesse")
	assert.Contains(t, req.Instructions, "Base instructions.")
}

func TestUserDataProcessorYAMLFallback(t *testing.T) {
	rc, _ := testutil.NewRunContext(t, "greeter")
	rc.UserData = struct {
		Phone string `yaml:"phone"`
	}{Phone: "555-0100"}

	req := &model.Request{Instructions: "Base."}
	p := NewUserDataProcessor()
	err := p.ProcessRequest(rc, req, newFakeAgent("greeter", model.NewMockModel("m", "mock")))
	require.NoError(t, err)
	assert.Contains(t, req.Instructions, "phone: 555-0100")
}

func TestUserDataProcessorNoData(t *testing.T) {
	rc, _ := testutil.NewRunContext(t, "greeter")

	req := &model.Request{Instructions: "Base."}
	p := NewUserDataProcessor()
	err := p.ProcessRequest(rc, req, newFakeAgent("greeter", model.NewMockModel("m", "mock")))
	require.NoError(t, err)
	assert.Equal(t, "Base.", req.Instructions)
}
