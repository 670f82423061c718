package session

import (
	"testing"

	"arch-market-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	state, err := store.Get()
	require.NoError(t, err)
	assert.True(t, state.Empty())

	want := State{
		Token:        "tok-1",
		RefreshToken: "ref-1",
		Role:         "Client",
		Email:        "a@b.c",
		FullName:     "Ada",
		User:         &model.Identity{ID: 1, FullName: "Ada", Email: "a@b.c", Role: "Client"},
	}
	require.NoError(t, store.Set(want))

	// 新实例读取同一目录，验证持久化
	reopened, err := NewFileStore(dir)
	require.NoError(t, err)
	got, err := reopened.Get()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileStoreClearIdempotent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(State{Token: "tok"}))
	require.NoError(t, store.Clear())

	state, err := store.Get()
	require.NoError(t, err)
	assert.True(t, state.Empty())

	// 重复清除不报错，状态保持为空
	require.NoError(t, store.Clear())
	state, err = store.Get()
	require.NoError(t, err)
	assert.True(t, state.Empty())
}

func TestFileStoreLastWriterWins(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(State{Token: "first"}))
	require.NoError(t, store.Set(State{Token: "second"}))

	state, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, "second", state.Token)
}
