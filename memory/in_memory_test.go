package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStoreKeyValue(t *testing.T) {
	store := NewInMemoryStore()

	require.NoError(t, store.Put("s1", map[string]any{"preferred_genre": "RPG"}))
	require.NoError(t, store.Put("s1", map[string]any{"platform": "PC"}))

	got, err := store.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, "RPG", got["preferred_genre"])
	assert.Equal(t, "PC", got["platform"])

	got["platform"] = "mutated"
	fresh, err := store.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, "PC", fresh["platform"])
}

func TestInMemoryStoreStoreAndSearch(t *testing.T) {
	store := NewInMemoryStore()

	require.NoError(t, store.Store("s1", "Customer prefers condos downtown", map[string]any{"topic": "housing"}))
	require.NoError(t, store.Store("s1", "Budget around 350k", nil))
	require.NoError(t, store.Store("s2", "Unrelated session note", nil))

	results, err := store.Search("s1", "condos", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Customer prefers condos downtown", results[0].Content)
	assert.Equal(t, 1.0, results[0].Score)
	assert.Equal(t, "housing", results[0].Metadata["topic"])

	all, err := store.Search("s1", "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	limited, err := store.Search("s1", "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := store.Search("s1", "yacht", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInMemoryStoreSearchIsCaseInsensitive(t *testing.T) {
	store := NewInMemoryStore()
	require.NoError(t, store.Store("s1", "Escalated to Billing team", nil))

	results, err := store.Search("s1", "billing", 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestInMemoryStoreDelete(t *testing.T) {
	store := NewInMemoryStore()
	require.NoError(t, store.Store("s1", "to be removed", nil))

	results, err := store.Search("s1", "", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)

	require.NoError(t, store.Delete("s1", results[0].ID))
	assert.Error(t, store.Delete("s1", results[0].ID))

	remaining, err := store.Search("s1", "", 0)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
