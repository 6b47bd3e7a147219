package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Both backends must satisfy the same contract, so they share one suite.
// The Redis backend needs a live server and is covered by the same
// repository-level behavior in integration environments.
func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()

	bolt, err := OpenBolt(filepath.Join(t.TempDir(), "todos.db"), "todos")
	require.NoError(t, err)
	t.Cleanup(func() { bolt.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"bolt":   bolt,
	}
}

func TestStoreGetSetDelete(t *testing.T) {
	ctx := context.Background()

	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(ctx, "todo:missing")
			assert.True(t, IsNotFound(err))

			require.NoError(t, store.Set(ctx, "todo:1", []byte(`{"id":"1"}`)))

			value, err := store.Get(ctx, "todo:1")
			require.NoError(t, err)
			assert.Equal(t, []byte(`{"id":"1"}`), value)

			// overwrite
			require.NoError(t, store.Set(ctx, "todo:1", []byte(`{"id":"1","completed":true}`)))
			value, err = store.Get(ctx, "todo:1")
			require.NoError(t, err)
			assert.Equal(t, []byte(`{"id":"1","completed":true}`), value)

			require.NoError(t, store.Delete(ctx, "todo:1"))
			_, err = store.Get(ctx, "todo:1")
			assert.True(t, IsNotFound(err))

			// deleting an absent key is not an error
			assert.NoError(t, store.Delete(ctx, "todo:1"))
		})
	}
}

func TestStoreGetByPrefix(t *testing.T) {
	ctx := context.Background()

	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, "todo:a", []byte("A")))
			require.NoError(t, store.Set(ctx, "todo:b", []byte("B")))
			require.NoError(t, store.Set(ctx, "other:c", []byte("C")))

			values, err := store.GetByPrefix(ctx, "todo:")
			require.NoError(t, err)

			// order is unspecified
			got := make([]string, 0, len(values))
			for _, v := range values {
				got = append(got, string(v))
			}
			assert.ElementsMatch(t, []string{"A", "B"}, got)

			empty, err := store.GetByPrefix(ctx, "nothing:")
			require.NoError(t, err)
			assert.Empty(t, empty)
		})
	}
}

func TestBoltStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "todos.db")

	store, err := OpenBolt(path, "todos")
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "todo:1", []byte("persisted")))
	require.NoError(t, store.Close())

	reopened, err := OpenBolt(path, "todos")
	require.NoError(t, err)
	defer reopened.Close()

	value, err := reopened.Get(ctx, "todo:1")
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), value)
}
