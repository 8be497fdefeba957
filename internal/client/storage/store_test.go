package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() (*Store, *MemoryBackend) {
	backend := NewMemoryBackend()
	return New(backend, nil), backend
}

func TestSetItem_StringPassthrough(t *testing.T) {
	store, backend := newTestStore()

	require.NoError(t, store.SetItem(KeyAuthToken, "token-123"))

	raw, ok, err := backend.Get(Prefix + KeyAuthToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "token-123", raw)
}

func TestSetItem_MarshalsNonStrings(t *testing.T) {
	store, backend := newTestStore()

	require.NoError(t, store.SetItem(KeyAppSettings, map[string]bool{"dark": true}))

	raw, ok, err := backend.Get(Prefix + KeyAppSettings)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"dark":true}`, raw)
}

func TestGetItem_Missing(t *testing.T) {
	store, _ := newTestStore()

	v, ok := store.GetItem("nope")
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestGetItemJSON(t *testing.T) {
	store, _ := newTestStore()

	type profile struct {
		Name string `json:"name"`
	}
	require.NoError(t, store.SetItem(KeyUserData, profile{Name: "Alice"}))

	var out profile
	require.True(t, store.GetItemJSON(KeyUserData, &out))
	assert.Equal(t, "Alice", out.Name)
}

func TestGetItemJSON_MalformedValue(t *testing.T) {
	store, backend := newTestStore()

	require.NoError(t, backend.Set(Prefix+KeyUserData, "{not json"))

	var out map[string]any
	assert.False(t, store.GetItemJSON(KeyUserData, &out))
}

func TestRemoveItem(t *testing.T) {
	store, _ := newTestStore()

	require.NoError(t, store.SetItem(KeyAuthToken, "t"))
	require.NoError(t, store.RemoveItem(KeyAuthToken))
	assert.False(t, store.HasItem(KeyAuthToken))
}

func TestClearAll_LeavesForeignKeysAlone(t *testing.T) {
	store, backend := newTestStore()

	require.NoError(t, store.SetItem(KeyAuthToken, "t"))
	require.NoError(t, store.SetItem(KeyUserData, "u"))
	require.NoError(t, backend.Set("other_app_key", "keep me"))

	require.NoError(t, store.ClearAll())

	assert.Empty(t, store.Keys())
	v, ok, err := backend.Get("other_app_key")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "keep me", v)
}

func TestGetMultiple_OmitsAbsent(t *testing.T) {
	store, _ := newTestStore()

	require.NoError(t, store.SetItem(KeyAuthToken, "t"))

	got := store.GetMultiple([]string{KeyAuthToken, KeyUserData})
	assert.Equal(t, map[string]string{KeyAuthToken: "t"}, got)
}

func TestSetMultiple(t *testing.T) {
	store, _ := newTestStore()

	require.NoError(t, store.SetMultiple(map[string]any{
		KeyAuthToken:           "t",
		KeyOnboardingCompleted: true,
	}))

	assert.True(t, store.HasItem(KeyAuthToken))
	v, ok := store.GetItem(KeyOnboardingCompleted)
	require.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestKeys_StripPrefix(t *testing.T) {
	store, backend := newTestStore()

	require.NoError(t, store.SetItem(KeyAuthToken, "t"))
	require.NoError(t, backend.Set("unrelated", "x"))

	assert.Equal(t, []string{KeyAuthToken}, store.Keys())

	info := store.Info()
	assert.Equal(t, 1, info.Size)
	assert.Equal(t, Prefix, info.Prefix)
}
