package repository

import (
	"context"

	"gorm.io/gorm"

	"travelguide/internal/model"
)

// CityRepository defines city persistence operations.
type CityRepository interface {
	Create(ctx context.Context, city *model.City) error
	FindByID(ctx context.Context, id string) (*model.City, error)
	FindByNameAndCountry(ctx context.Context, name, countryID string) (*model.City, error)
	List(ctx context.Context) ([]model.City, error)
	ListByCountry(ctx context.Context, countryID string) ([]model.City, error)
}

type cityRepository struct {
	db *gorm.DB
}

// NewCityRepository creates a new city repository.
func NewCityRepository(db *gorm.DB) CityRepository {
	return &cityRepository{db: db}
}

func (r *cityRepository) Create(ctx context.Context, city *model.City) error {
	return r.db.WithContext(ctx).Omit("Country").Create(city).Error
}

func (r *cityRepository) FindByID(ctx context.Context, id string) (*model.City, error) {
	var c model.City
	if err := r.db.WithContext(ctx).Preload("Country").Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cityRepository) FindByNameAndCountry(ctx context.Context, name, countryID string) (*model.City, error) {
	var c model.City
	if err := r.db.WithContext(ctx).Preload("Country").
		Where("name = ? AND country_id = ?", name, countryID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cityRepository) List(ctx context.Context) ([]model.City, error) {
	var cities []model.City
	if err := r.db.WithContext(ctx).Preload("Country").Order("name").Find(&cities).Error; err != nil {
		return nil, err
	}
	return cities, nil
}

func (r *cityRepository) ListByCountry(ctx context.Context, countryID string) ([]model.City, error) {
	var cities []model.City
	if err := r.db.WithContext(ctx).Where("country_id = ?", countryID).Order("name").Find(&cities).Error; err != nil {
		return nil, err
	}
	return cities, nil
}
