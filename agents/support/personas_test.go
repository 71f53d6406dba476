package support

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxmesh/voxmesh"
	"github.com/voxmesh/voxmesh/model"
)

func newMesh(t *testing.T, llm model.Model) *voxmesh.VoxMesh {
	t.Helper()

	team, err := NewTeam(llm)
	require.NoError(t, err)

	return voxmesh.New(team, func(o *voxmesh.Options) {
		o.UserDataFactory = func(string) any { return NewUserData() }
	})
}

func respond(t *testing.T, mesh *voxmesh.VoxMesh, sessionID, text string) voxmesh.TurnResult {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := mesh.Respond(ctx, sessionID, text)
	require.NoError(t, err)
	return res
}

func TestTeamRegistersAllPersonas(t *testing.T) {
	team, err := NewTeam(model.NewMockModel("m", "mock"))
	require.NoError(t, err)

	assert.Equal(t, agentInitial, team.Name())
	for _, name := range []string{agentReturns, agentTechnical, agentBilling, agentManager} {
		assert.NotNil(t, team.FindAgent(name), name)
	}

	assert.Equal(t, "nova", team.FindAgent(agentTechnical).(interface{ Voice() string }).Voice())
}

func TestInitialRoutesToTechnical(t *testing.T) {
	llm := model.NewMockModel("m", "mock")
	llm.QueueToolCall("call-1", "identify_issue", `{"issue_type": "technical", "description": "headphones will not pair over bluetooth"}`)
	llm.QueueToolCall("call-2", "to_technical", "{}")
	llm.QueueToolCall("call-3", "troubleshoot_issue", "{}")
	llm.QueueTurn("Let's get your headphones paired. First, make sure Bluetooth is enabled.")

	mesh := newMesh(t, llm)
	res := respond(t, mesh, "s1", "My headphones won't pair")

	assert.Equal(t, agentTechnical, res.Author)
	assert.Equal(t, "nova", res.Voice)
	assert.Contains(t, res.Text, "headphones paired")
}

func TestEscalationReachesManager(t *testing.T) {
	llm := model.NewMockModel("m", "mock")
	llm.QueueToolCall("call-1", "to_manager", "{}")
	llm.QueueTurn("I'm the support manager. I'm sorry for the trouble, how can I make this right?")

	mesh := newMesh(t, llm)
	res := respond(t, mesh, "s1", "I want to speak to a manager")

	assert.Equal(t, agentManager, res.Author)
	assert.Equal(t, "onyx", res.Voice)
	assert.True(t, res.Escalated)
}

func TestEndSessionAfterResolution(t *testing.T) {
	llm := model.NewMockModel("m", "mock")
	llm.QueueToolCall("call-1", "end_session", "{}")

	mesh := newMesh(t, llm)
	res := respond(t, mesh, "s1", "That's all, thanks, goodbye")

	assert.True(t, res.EndSession)
}
