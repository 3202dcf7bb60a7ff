package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelguide/internal/model"
)

func TestWishlistRepository_UniquePerUserAndPlace(t *testing.T) {
	gormDB := newTestDB(t)
	users := NewUserRepository(gormDB)
	repo := NewWishlistRepository(gormDB)
	ctx := context.Background()

	alice := seedUser(t, users, "alice@example.com")
	bob := seedUser(t, users, "bob@example.com")
	key := model.PlaceKey("c-1", "", "")

	require.NoError(t, repo.Create(ctx, &model.WishlistItem{UserID: alice.ID, PlaceKey: key}))
	err := repo.Create(ctx, &model.WishlistItem{UserID: alice.ID, PlaceKey: key})
	assert.True(t, IsDuplicate(err))

	require.NoError(t, repo.Create(ctx, &model.WishlistItem{UserID: bob.ID, PlaceKey: key}))

	items, err := repo.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Priority)

	deleted, err := repo.DeleteForUser(ctx, items[0].ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
