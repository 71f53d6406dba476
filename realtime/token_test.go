package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := NewAccessToken("api-key", "api-secret").
		SetIdentity("agent-realestate").
		SetName("Virtual Real Estate Agent").
		SetGrant(RoomGrant{Room: "room-1", RoomJoin: true, CanPublish: true, CanSubscribe: true, AgentRole: "assistant"}).
		SetValidFor(time.Hour).
		ToJWT()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, grant, err := VerifyToken(token, "api-secret")
	require.NoError(t, err)
	assert.Equal(t, "agent-realestate", identity)
	assert.Equal(t, "room-1", grant.Room)
	assert.True(t, grant.RoomJoin)
	assert.Equal(t, "assistant", grant.AgentRole)
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewAccessToken("api-key", "api-secret").
		SetIdentity("agent").
		ToJWT()
	require.NoError(t, err)

	_, _, err = VerifyToken(token, "other-secret")
	assert.Error(t, err)
}

func TestAccessTokenRequiresIdentity(t *testing.T) {
	_, err := NewAccessToken("api-key", "api-secret").ToJWT()
	assert.Error(t, err)
}

func TestAccessTokenRequiresCredentials(t *testing.T) {
	_, err := NewAccessToken("", "").SetIdentity("x").ToJWT()
	assert.Error(t, err)
}
