package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreUnknownUserGetsZeroSession(t *testing.T) {
	store := NewMemoryStore()

	s, err := store.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, StateNone, s.State)
	assert.Empty(t, s.DraftCode)
	assert.Empty(t, s.DraftTitle)
}

func TestMemoryStorePutGetClear(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	want := Session{State: StateAwaitingTitle, DraftCode: "A12"}
	require.NoError(t, store.Put(ctx, 42, want))

	got, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Sessions are per user.
	other, err := store.Get(ctx, 43)
	require.NoError(t, err)
	assert.Equal(t, StateNone, other.State)

	require.NoError(t, store.Clear(ctx, 42))
	got, err = store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, StateNone, got.State)
}

func TestMemoryStorePutReplacesPrevious(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, 7, Session{State: StateAwaitingCode}))
	require.NoError(t, store.Put(ctx, 7, Session{State: StateAwaitingContent, DraftCode: "x", DraftTitle: "y"}))

	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingContent, got.State)
	assert.Equal(t, "x", got.DraftCode)
	assert.Equal(t, "y", got.DraftTitle)
}

func TestMemoryStoreClearAbsentIsNoop(t *testing.T) {
	store := NewMemoryStore()
	assert.NoError(t, store.Clear(context.Background(), 99))
}
