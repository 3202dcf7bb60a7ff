package repository

import (
	"context"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"travelguide/internal/model"
)

// ContinentRepository defines continent persistence operations.
type ContinentRepository interface {
	Create(ctx context.Context, continent *model.Continent) error
	FindByCode(ctx context.Context, code string) (*model.Continent, error)
	FindByName(ctx context.Context, name string) (*model.Continent, error)
	List(ctx context.Context) ([]model.Continent, error)
}

type continentRepository struct {
	db *gorm.DB
}

// NewContinentRepository creates a new continent repository.
func NewContinentRepository(db *gorm.DB) ContinentRepository {
	return &continentRepository{db: db}
}

func (r *continentRepository) Create(ctx context.Context, continent *model.Continent) error {
	return r.db.WithContext(ctx).Create(continent).Error
}

func (r *continentRepository) FindByCode(ctx context.Context, code string) (*model.Continent, error) {
	var c model.Continent
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *continentRepository) FindByName(ctx context.Context, name string) (*model.Continent, error) {
	var c model.Continent
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *continentRepository) List(ctx context.Context) ([]model.Continent, error) {
	var continents []model.Continent
	if err := r.db.WithContext(ctx).Order("name").Find(&continents).Error; err != nil {
		return nil, err
	}
	return continents, nil
}

// CountryRepository defines country persistence operations.
type CountryRepository interface {
	Create(ctx context.Context, country *model.Country) error
	FindByID(ctx context.Context, id string) (*model.Country, error)
	FindByName(ctx context.Context, name string) (*model.Country, error)
	FindByCode(ctx context.Context, code string) (*model.Country, error)
	FindBySlug(ctx context.Context, slug string) (*model.Country, error)
	List(ctx context.Context) ([]model.Country, error)
}

type countryRepository struct {
	db *gorm.DB
}

// NewCountryRepository creates a new country repository.
func NewCountryRepository(db *gorm.DB) CountryRepository {
	return &countryRepository{db: db}
}

func (r *countryRepository) Create(ctx context.Context, country *model.Country) error {
	return r.db.WithContext(ctx).Create(country).Error
}

func (r *countryRepository) FindByID(ctx context.Context, id string) (*model.Country, error) {
	var c model.Country
	if err := r.db.WithContext(ctx).Preload("Continent").Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *countryRepository) FindByName(ctx context.Context, name string) (*model.Country, error) {
	var c model.Country
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *countryRepository) FindByCode(ctx context.Context, code string) (*model.Country, error) {
	var c model.Country
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// FindBySlug scans every country in memory; see matchCountrySlug for the order of attempts.
func (r *countryRepository) FindBySlug(ctx context.Context, slug string) (*model.Country, error) {
	countries, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if c := matchCountrySlug(countries, slug); c != nil {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *countryRepository) List(ctx context.Context) ([]model.Country, error) {
	var countries []model.Country
	if err := r.db.WithContext(ctx).Preload("Continent").Order("name").Find(&countries).Error; err != nil {
		return nil, err
	}
	return countries, nil
}

var whitespace = regexp.MustCompile(`\s+`)

// matchCountrySlug tries, in order: exact lowercase match, hyphens read as
// spaces, then hyphen insertion or removal. The first hit wins.
func matchCountrySlug(countries []model.Country, slug string) *model.Country {
	normalized := strings.ToLower(strings.TrimSpace(slug))
	if normalized == "" {
		return nil
	}
	names := make([]string, len(countries))
	for i := range countries {
		names[i] = strings.ToLower(strings.TrimSpace(countries[i].Name))
	}

	for i, name := range names {
		if name == normalized {
			return &countries[i]
		}
	}

	spaced := strings.ReplaceAll(normalized, "-", " ")
	for i, name := range names {
		if name == spaced {
			return &countries[i]
		}
	}

	compact := strings.ReplaceAll(normalized, "-", "")
	for i, name := range names {
		if whitespace.ReplaceAllString(name, "-") == normalized || whitespace.ReplaceAllString(name, "") == compact {
			return &countries[i]
		}
	}
	return nil
}
