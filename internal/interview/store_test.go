package interview

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_VersionCheck(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	iv := &types.Interview{UserID: uuid.New(), Status: types.StatusInProgress}
	require.NoError(t, store.CreateInterview(ctx, iv))
	assert.NotEqual(t, uuid.Nil, iv.ID)
	assert.Equal(t, 1, iv.Version)

	a, err := store.GetInterview(ctx, iv.ID)
	require.NoError(t, err)
	b, err := store.GetInterview(ctx, iv.ID)
	require.NoError(t, err)

	a.Transcript.Append(types.RoleUser, "first writer")
	require.NoError(t, store.UpdateInterview(ctx, a))
	assert.Equal(t, 2, a.Version)

	b.Transcript.Append(types.RoleUser, "second writer")
	assert.ErrorIs(t, store.UpdateInterview(ctx, b), types.ErrVersionConflict)

	got, err := store.GetInterview(ctx, iv.ID)
	require.NoError(t, err)
	require.Len(t, got.Transcript, 1)
	assert.Equal(t, "first writer", got.Transcript[0].Text())
}

func TestMemoryStore_GetMissing(t *testing.T) {
	got, err := NewMemoryStore().GetInterview(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	iv := &types.Interview{UserID: uuid.New()}
	iv.Transcript.Append(types.RoleUser, "seed")
	require.NoError(t, store.CreateInterview(ctx, iv))

	got, err := store.GetInterview(ctx, iv.ID)
	require.NoError(t, err)
	got.Transcript[0].Parts[0] = "mutated"

	again, err := store.GetInterview(ctx, iv.ID)
	require.NoError(t, err)
	assert.Equal(t, "seed", again.Transcript[0].Text())
}
