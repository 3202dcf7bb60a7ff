package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelguide/internal/model"
)

func seedUser(t *testing.T, repo UserRepository, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, Name: email, PasswordHash: "x", Role: model.RoleUser}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestRouteRepository_PointsOrderedByDayThenOrder(t *testing.T) {
	gormDB := newTestDB(t)
	users := NewUserRepository(gormDB)
	repo := NewRouteRepository(gormDB)
	ctx := context.Background()

	owner := seedUser(t, users, "owner@example.com")
	route := &model.Route{
		Title:  "Europe",
		UserID: owner.ID,
		Points: []model.RoutePoint{
			{Day: 2, Order: 1},
			{Day: 1, Order: 5},
			{Day: 1, Order: 2},
		},
	}
	require.NoError(t, repo.Create(ctx, route))

	got, err := repo.FindByIDForUser(ctx, route.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, got.Points, 3)
	assert.Equal(t, [2]int{1, 2}, [2]int{got.Points[0].Day, got.Points[0].Order})
	assert.Equal(t, [2]int{1, 5}, [2]int{got.Points[1].Day, got.Points[1].Order})
	assert.Equal(t, [2]int{2, 1}, [2]int{got.Points[2].Day, got.Points[2].Order})
}

func TestRouteRepository_OwnershipScoping(t *testing.T) {
	gormDB := newTestDB(t)
	users := NewUserRepository(gormDB)
	repo := NewRouteRepository(gormDB)
	ctx := context.Background()

	owner := seedUser(t, users, "owner@example.com")
	other := seedUser(t, users, "other@example.com")
	route := &model.Route{Title: "Mine", UserID: owner.ID, Points: []model.RoutePoint{{Day: 1, Order: 1}}}
	require.NoError(t, repo.Create(ctx, route))

	_, err := repo.FindByIDForUser(ctx, route.ID, other.ID)
	assert.True(t, IsNotFound(err))

	deleted, err := repo.DeleteForUser(ctx, route.ID, other.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = repo.DeleteForUser(ctx, route.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	var remaining int64
	require.NoError(t, gormDB.Model(&model.RoutePoint{}).Where("route_id = ?", route.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestRouteRepository_ReplacePointsRollsBack(t *testing.T) {
	gormDB := newTestDB(t)
	users := NewUserRepository(gormDB)
	repo := NewRouteRepository(gormDB)
	ctx := context.Background()

	owner := seedUser(t, users, "owner@example.com")
	route := &model.Route{Title: "Keep", UserID: owner.ID, Points: []model.RoutePoint{{Day: 1, Order: 1}}}
	require.NoError(t, repo.Create(ctx, route))

	err := repo.WithTransaction(ctx, func(ctx context.Context, tx RouteRepository) error {
		if err := tx.ReplacePoints(ctx, route.ID, nil); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	got, err := repo.FindByID(ctx, route.ID)
	require.NoError(t, err)
	assert.Len(t, got.Points, 1)
}
