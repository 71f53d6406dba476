package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStoreSaveAndGet(t *testing.T) {
	store := NewInMemoryStore()

	payload := []byte("audio-bytes")
	require.NoError(t, store.Save("s1", "clip-1", payload))

	got, err := store.Get("s1", "clip-1")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	got[0] = 'X'
	fresh, err := store.Get("s1", "clip-1")
	require.NoError(t, err)
	assert.Equal(t, payload, fresh)
}

func TestInMemoryStoreGetMissing(t *testing.T) {
	store := NewInMemoryStore()

	_, err := store.Get("s1", "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryStoreListIsSorted(t *testing.T) {
	store := NewInMemoryStore()

	require.NoError(t, store.Save("s1", "b", []byte("2")))
	require.NoError(t, store.Save("s1", "a", []byte("1")))

	ids, err := store.List("s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	empty, err := store.List("other")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestInMemoryStoreDelete(t *testing.T) {
	store := NewInMemoryStore()

	require.NoError(t, store.Save("s1", "clip-1", []byte("x")))
	require.NoError(t, store.Delete("s1", "clip-1"))
	assert.ErrorIs(t, store.Delete("s1", "clip-1"), ErrNotFound)
}
