package repository

import (
	"context"

	"gorm.io/gorm"

	"travelguide/internal/model"
)

func placeSummaryColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name")
}

func withPlaces(db *gorm.DB) *gorm.DB {
	return db.Preload("Country", placeSummaryColumns).
		Preload("City", placeSummaryColumns).
		Preload("Attraction", placeSummaryColumns)
}

// VisitedPlaceRepository defines visited place persistence operations.
type VisitedPlaceRepository interface {
	Create(ctx context.Context, place *model.VisitedPlace) error
	ListByUser(ctx context.Context, userID string) ([]model.VisitedPlace, error)
	DeleteForUser(ctx context.Context, id, userID string) (bool, error)
}

type visitedPlaceRepository struct {
	db *gorm.DB
}

// NewVisitedPlaceRepository creates a new visited place repository.
func NewVisitedPlaceRepository(db *gorm.DB) VisitedPlaceRepository {
	return &visitedPlaceRepository{db: db}
}

// Create inserts the entry. A second entry for the same user and place
// fails with a unique-constraint violation.
func (r *visitedPlaceRepository) Create(ctx context.Context, place *model.VisitedPlace) error {
	return r.db.WithContext(ctx).Omit("User", "Country", "City", "Attraction").Create(place).Error
}

func (r *visitedPlaceRepository) ListByUser(ctx context.Context, userID string) ([]model.VisitedPlace, error) {
	var places []model.VisitedPlace
	if err := withPlaces(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("visit_date DESC").Order("created_at DESC").
		Find(&places).Error; err != nil {
		return nil, err
	}
	return places, nil
}

func (r *visitedPlaceRepository) DeleteForUser(ctx context.Context, id, userID string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.VisitedPlace{})
	return res.RowsAffected > 0, res.Error
}

// WishlistRepository defines wishlist persistence operations.
type WishlistRepository interface {
	Create(ctx context.Context, item *model.WishlistItem) error
	ListByUser(ctx context.Context, userID string) ([]model.WishlistItem, error)
	DeleteForUser(ctx context.Context, id, userID string) (bool, error)
}

type wishlistRepository struct {
	db *gorm.DB
}

// NewWishlistRepository creates a new wishlist repository.
func NewWishlistRepository(db *gorm.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

// Create inserts the item. A second item for the same user and place
// fails with a unique-constraint violation.
func (r *wishlistRepository) Create(ctx context.Context, item *model.WishlistItem) error {
	return r.db.WithContext(ctx).Omit("User", "Country", "City", "Attraction").Create(item).Error
}

func (r *wishlistRepository) ListByUser(ctx context.Context, userID string) ([]model.WishlistItem, error) {
	var items []model.WishlistItem
	if err := withPlaces(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *wishlistRepository) DeleteForUser(ctx context.Context, id, userID string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.WishlistItem{})
	return res.RowsAffected > 0, res.Error
}
