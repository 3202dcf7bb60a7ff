package repository

import (
	"context"

	"gorm.io/gorm"

	"travelguide/internal/model"
)

// TravelNoteRepository defines travel note persistence operations.
type TravelNoteRepository interface {
	Create(ctx context.Context, note *model.TravelNote) error
	ListByUser(ctx context.Context, userID string) ([]model.TravelNote, error)
	ListPublic(ctx context.Context) ([]model.TravelNote, error)
}

type travelNoteRepository struct {
	db *gorm.DB
}

// NewTravelNoteRepository creates a new travel note repository.
func NewTravelNoteRepository(db *gorm.DB) TravelNoteRepository {
	return &travelNoteRepository{db: db}
}

func (r *travelNoteRepository) Create(ctx context.Context, note *model.TravelNote) error {
	return r.db.WithContext(ctx).Omit("User").Create(note).Error
}

func (r *travelNoteRepository) ListByUser(ctx context.Context, userID string) ([]model.TravelNote, error) {
	var notes []model.TravelNote
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *travelNoteRepository) ListPublic(ctx context.Context) ([]model.TravelNote, error) {
	var notes []model.TravelNote
	if err := r.db.WithContext(ctx).Where("is_public = ?", true).Order("created_at DESC").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}
