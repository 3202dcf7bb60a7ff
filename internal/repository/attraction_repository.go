package repository

import (
	"context"

	"gorm.io/gorm"

	"travelguide/internal/model"
)

// AttractionRepository defines attraction persistence operations.
type AttractionRepository interface {
	Create(ctx context.Context, attraction *model.Attraction) error
	FindByID(ctx context.Context, id string) (*model.Attraction, error)
	FindByName(ctx context.Context, name string) (*model.Attraction, error)
	List(ctx context.Context) ([]model.Attraction, error)
	ListByCity(ctx context.Context, cityID string) ([]model.Attraction, error)
	ListByCountry(ctx context.Context, countryID string) ([]model.Attraction, error)
}

type attractionRepository struct {
	db *gorm.DB
}

// NewAttractionRepository creates a new attraction repository.
func NewAttractionRepository(db *gorm.DB) AttractionRepository {
	return &attractionRepository{db: db}
}

func (r *attractionRepository) Create(ctx context.Context, attraction *model.Attraction) error {
	return r.db.WithContext(ctx).Omit("City", "Country").Create(attraction).Error
}

func (r *attractionRepository) FindByID(ctx context.Context, id string) (*model.Attraction, error) {
	var a model.Attraction
	if err := r.db.WithContext(ctx).Preload("City").Preload("Country").Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attractionRepository) FindByName(ctx context.Context, name string) (*model.Attraction, error) {
	var a model.Attraction
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attractionRepository) List(ctx context.Context) ([]model.Attraction, error) {
	var attractions []model.Attraction
	if err := r.db.WithContext(ctx).Preload("City").Preload("Country").Order("name").Find(&attractions).Error; err != nil {
		return nil, err
	}
	return attractions, nil
}

func (r *attractionRepository) ListByCity(ctx context.Context, cityID string) ([]model.Attraction, error) {
	var attractions []model.Attraction
	if err := r.db.WithContext(ctx).Where("city_id = ?", cityID).Order("name").Find(&attractions).Error; err != nil {
		return nil, err
	}
	return attractions, nil
}

func (r *attractionRepository) ListByCountry(ctx context.Context, countryID string) ([]model.Attraction, error) {
	var attractions []model.Attraction
	if err := r.db.WithContext(ctx).Where("country_id = ?", countryID).Order("name").Find(&attractions).Error; err != nil {
		return nil, err
	}
	return attractions, nil
}
