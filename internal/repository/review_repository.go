package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"travelguide/internal/model"
)

// RatingSummary aggregates the scores attached to one place.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// ReviewRepository defines review persistence operations.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	FindByID(ctx context.Context, id string) (*model.Review, error)
	FindByIDForUser(ctx context.Context, id, userID string) (*model.Review, error)
	ListForPlace(ctx context.Context, kind PlaceKind, id string) ([]model.Review, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	DeleteForUser(ctx context.Context, id, userID string) (bool, error)
	SummaryForPlace(ctx context.Context, kind PlaceKind, id string) (RatingSummary, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Omit("User").Create(review).Error
}

func (r *reviewRepository) FindByID(ctx context.Context, id string) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByIDForUser(ctx context.Context, id, userID string) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ListForPlace(ctx context.Context, kind PlaceKind, id string) ([]model.Review, error) {
	column := kind.column()
	if column == "" {
		return nil, errUnknownPlaceKind
	}
	var reviews []model.Review
	if err := r.db.WithContext(ctx).Preload("User").
		Where(column+" = ?", id).Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Review{}).Where("id = ?", id).Updates(fields).Error
}

func (r *reviewRepository) DeleteForUser(ctx context.Context, id, userID string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Review{})
	return res.RowsAffected > 0, res.Error
}

func (r *reviewRepository) SummaryForPlace(ctx context.Context, kind PlaceKind, id string) (RatingSummary, error) {
	var summary RatingSummary
	column := kind.column()
	if column == "" {
		return summary, errUnknownPlaceKind
	}
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where(column+" = ?", id).
		Scan(&summary).Error
	return summary, err
}

// RatingRepository defines rating persistence operations.
type RatingRepository interface {
	Upsert(ctx context.Context, rating *model.Rating) error
	FindForUser(ctx context.Context, userID, placeKey string) (*model.Rating, error)
	SummaryForPlace(ctx context.Context, kind PlaceKind, id string) (RatingSummary, error)
}

type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository creates a new rating repository.
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Upsert inserts the rating or, when the user already rated the place, replaces its value.
func (r *ratingRepository) Upsert(ctx context.Context, rating *model.Rating) error {
	return r.db.WithContext(ctx).Omit("User").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "place_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(rating).Error
}

func (r *ratingRepository) FindForUser(ctx context.Context, userID, placeKey string) (*model.Rating, error) {
	var rating model.Rating
	if err := r.db.WithContext(ctx).Where("user_id = ? AND place_key = ?", userID, placeKey).First(&rating).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) SummaryForPlace(ctx context.Context, kind PlaceKind, id string) (RatingSummary, error) {
	var summary RatingSummary
	column := kind.column()
	if column == "" {
		return summary, errUnknownPlaceKind
	}
	err := r.db.WithContext(ctx).Model(&model.Rating{}).
		Select("COALESCE(AVG(value), 0) AS average, COUNT(*) AS count").
		Where(column+" = ?", id).
		Scan(&summary).Error
	return summary, err
}
