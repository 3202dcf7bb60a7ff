package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"travelguide/internal/cache"
	"travelguide/internal/fallback"
	"travelguide/internal/model"
	"travelguide/internal/repository"
)

type reconcilerFixture struct {
	db         *gorm.DB
	cache      *cache.Client
	reconciler Reconciler
}

func newReconcilerFixture(t *testing.T) reconcilerFixture {
	t.Helper()
	return newReconcilerFixtureWith(t, func(cities repository.CityRepository) repository.CityRepository { return cities })
}

func newReconcilerFixtureWith(t *testing.T, wrap func(repository.CityRepository) repository.CityRepository) reconcilerFixture {
	t.Helper()
	gormDB := newTestDB(t)
	c := cache.NewMemory()
	r := NewReconciler(
		repository.NewContinentRepository(gormDB),
		repository.NewCountryRepository(gormDB),
		wrap(repository.NewCityRepository(gormDB)),
		fallback.MustNew(),
		c,
	)
	return reconcilerFixture{db: gormDB, cache: c, reconciler: r}
}

// racingCityRepository lets another writer insert the same city between the
// reconciler's lookup and its insert.
type racingCityRepository struct {
	repository.CityRepository
	missedLookup bool
	createErr    error
}

func (r *racingCityRepository) FindByNameAndCountry(ctx context.Context, name, countryID string) (*model.City, error) {
	if !r.missedLookup {
		r.missedLookup = true
		return nil, gorm.ErrRecordNotFound
	}
	return r.CityRepository.FindByNameAndCountry(ctx, name, countryID)
}

func (r *racingCityRepository) Create(ctx context.Context, city *model.City) error {
	if r.createErr != nil {
		return r.createErr
	}
	rival := &model.City{ID: "other-writer", Name: city.Name, CountryID: city.CountryID}
	if err := r.CityRepository.Create(ctx, rival); err != nil {
		return err
	}
	return gorm.ErrDuplicatedKey
}

func TestReconciler_CityFromFallback_Population(t *testing.T) {
	tests := []struct {
		name       string
		population string
		expected   int64
	}{
		{name: "dot decimal", population: "2.1 млн", expected: 2_100_000},
		{name: "comma decimal", population: "2,75 млн", expected: 2_750_000},
		{name: "integer", population: "14 млн", expected: 14_000_000},
		{name: "rounding", population: "3.7 млн", expected: 3_700_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReconcilerFixture(t)
			city, err := f.reconciler.CityFromFallback(context.Background(), fallback.City{
				ID:         "42",
				Name:       "Тестоград",
				Country:    "Франция",
				Population: tt.population,
			})
			require.NoError(t, err)
			require.NotNil(t, city.Population)
			assert.Equal(t, tt.expected, *city.Population)
		})
	}
}

func TestReconciler_CityFromFallback_Idempotent(t *testing.T) {
	f := newReconcilerFixture(t)
	static, ok := fallback.MustNew().City("1")
	require.True(t, ok)

	first, err := f.reconciler.CityFromFallback(context.Background(), static)
	require.NoError(t, err)
	second, err := f.reconciler.CityFromFallback(context.Background(), static)
	require.NoError(t, err)

	assert.Equal(t, "1", first.ID)
	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, first.Country)
	assert.Equal(t, "Франция", first.Country.Name)
	assert.Equal(t, "FR", first.Country.Code)

	var cities, countries int64
	require.NoError(t, f.db.Model(&model.City{}).Count(&cities).Error)
	require.NoError(t, f.db.Model(&model.Country{}).Count(&countries).Error)
	assert.Equal(t, int64(1), cities)
	assert.Equal(t, int64(1), countries)
}

func TestReconciler_CityFromFallback_ReusesLogicalDuplicate(t *testing.T) {
	f := newReconcilerFixture(t)
	static, _ := fallback.MustNew().City("1")

	stored, err := f.reconciler.CityFromFallback(context.Background(), static)
	require.NoError(t, err)

	renamed := static
	renamed.ID = "99"
	again, err := f.reconciler.CityFromFallback(context.Background(), renamed)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, again.ID)

	var count int64
	require.NoError(t, f.db.Model(&model.City{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestReconciler_CityFromFallback_LosesInsertRace(t *testing.T) {
	f := newReconcilerFixtureWith(t, func(cities repository.CityRepository) repository.CityRepository {
		return &racingCityRepository{CityRepository: cities}
	})
	static, ok := fallback.MustNew().City("1")
	require.True(t, ok)

	city, err := f.reconciler.CityFromFallback(context.Background(), static)
	require.NoError(t, err)
	assert.Equal(t, "other-writer", city.ID)
	assert.Equal(t, static.Name, city.Name)

	var count int64
	require.NoError(t, f.db.Model(&model.City{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestReconciler_CityFromFallback_InsertFails(t *testing.T) {
	f := newReconcilerFixtureWith(t, func(cities repository.CityRepository) repository.CityRepository {
		return &racingCityRepository{CityRepository: cities, createErr: errors.New("disk I/O error")}
	})
	static, _ := fallback.MustNew().City("1")

	city, err := f.reconciler.CityFromFallback(context.Background(), static)
	assert.Error(t, err)
	assert.Nil(t, city)

	var count int64
	require.NoError(t, f.db.Model(&model.City{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestReconciler_GeneratedCountryCodes(t *testing.T) {
	f := newReconcilerFixture(t)
	ctx := context.Background()

	_, err := f.reconciler.CityFromFallback(ctx, fallback.City{ID: "a1", Name: "Посейдония", Country: "Атлантида"})
	require.NoError(t, err)
	_, err = f.reconciler.CityFromFallback(ctx, fallback.City{ID: "a2", Name: "Тритония", Country: "Атлантис"})
	require.NoError(t, err)

	var first, second model.Country
	require.NoError(t, f.db.Where("name = ?", "Атлантида").First(&first).Error)
	require.NoError(t, f.db.Where("name = ?", "Атлантис").First(&second).Error)

	assert.Equal(t, "АТ", first.Code)
	assert.Equal(t, "АТ1", second.Code)
	require.NotNil(t, first.Description)
	assert.Equal(t, "Страна Атлантида", *first.Description)
}

func TestReconciler_CountryFromFallback(t *testing.T) {
	f := newReconcilerFixture(t)
	ctx := context.Background()
	require.NoError(t, f.db.Create(&model.Continent{Name: "Европа", Code: "EU"}).Error)
	require.NoError(t, f.cache.Set(ctx, countriesCacheKey, []byte("[]"), 0))

	static, ok := fallback.MustNew().Country("италия")
	require.True(t, ok)

	country, err := f.reconciler.CountryFromFallback(ctx, static)
	require.NoError(t, err)
	assert.Equal(t, "IT", country.Code)
	require.NotNil(t, country.Continent)
	assert.Equal(t, "Европа", country.Continent.Name)
	require.NotNil(t, country.Area)
	assert.Equal(t, int64(301340), *country.Area)

	cached, _ := f.cache.Get(ctx, countriesCacheKey)
	assert.Nil(t, cached)
}

func TestReconciler_MissingCountryName(t *testing.T) {
	f := newReconcilerFixture(t)
	_, err := f.reconciler.CityFromFallback(context.Background(), fallback.City{ID: "x", Name: "Нигде"})
	assert.Error(t, err)
}
