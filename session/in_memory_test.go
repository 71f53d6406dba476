package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxmesh/voxmesh/core"
)

func TestInMemoryStoreLazyGet(t *testing.T) {
	store := NewInMemoryStore()

	sess, err := store.Get("s1")
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "s1", sess.ID)
	assert.Empty(t, sess.GetEvents())
}

func TestInMemoryStoreCreateOverwrites(t *testing.T) {
	store := NewInMemoryStore()

	require.NoError(t, store.AppendEvent("s1", core.NewUserMessageEvent("run", "hello")))

	sess, err := store.Create("s1")
	require.NoError(t, err)
	assert.Empty(t, sess.GetEvents())
}

func TestInMemoryStoreAppendAndDelta(t *testing.T) {
	store := NewInMemoryStore()

	require.NoError(t, store.AppendEvent("s1", core.NewUserMessageEvent("run", "hello")))
	require.NoError(t, store.ApplyDelta("s1", map[string]any{"customer_name": "Jesse"}))

	sess, err := store.Get("s1")
	require.NoError(t, err)
	require.Len(t, sess.GetEvents(), 1)

	v, ok := sess.GetState("customer_name")
	require.True(t, ok)
	assert.Equal(t, "Jesse", v)
}

func TestInMemoryStoreReturnsClones(t *testing.T) {
	store := NewInMemoryStore()

	sess, err := store.Get("s1")
	require.NoError(t, err)
	sess.SetState("mutated", true)

	fresh, err := store.Get("s1")
	require.NoError(t, err)
	_, ok := fresh.GetState("mutated")
	assert.False(t, ok)
}
