package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_CopiesSeed(t *testing.T) {
	seed := map[string]any{"project_id": "prj1"}
	store := NewConfigStore(seed)
	require.NotNil(t, store)

	seed["project_id"] = "changed"
	assert.Equal(t, "prj1", store.GetString("project_id"))
}

func TestConfigStore_Getters(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"annofabcli.path":        "/usr/local/bin/annofabcli",
		"annofabcli.parallelism": int64(4),
		"verbose":                true,
		"float":                  float64(2),
		"int":                    3,
	})

	assert.Equal(t, "/usr/local/bin/annofabcli", store.GetString("annofabcli.path"))
	assert.Equal(t, 4, store.GetInt("annofabcli.parallelism"))
	assert.Equal(t, 2, store.GetInt("float"))
	assert.Equal(t, 3, store.GetInt("int"))
	assert.True(t, store.GetBool("verbose"))
}

func TestConfigStore_WrongTypesAndMissing(t *testing.T) {
	store := NewConfigStore(map[string]any{"verbose": "yes", "project_id": 12})

	assert.False(t, store.GetBool("verbose"))
	assert.Empty(t, store.GetString("project_id"))
	assert.Zero(t, store.GetInt("verbose"))
	assert.Zero(t, store.GetInt("missing"))

	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_Set(t *testing.T) {
	store := NewConfigStore(nil)
	store.Set("project_id", "a")
	store.Set("project_id", "b")

	val, ok := store.Get("project_id")
	assert.True(t, ok)
	assert.Equal(t, "b", val)
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore(nil)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.Set("annofabcli.parallelism", i)
		}()
		go func() {
			defer wg.Done()
			_ = store.GetInt("annofabcli.parallelism")
		}()
	}
	wg.Wait()

	_, ok := store.Get("annofabcli.parallelism")
	assert.True(t, ok)
}
