package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"travelguide/internal/cache"
	"travelguide/internal/fallback"
	"travelguide/internal/model"
	"travelguide/internal/repository"
)

const maxCodeAttempts = 10

var errCountryUnresolved = errors.New("country could not be resolved")

// Reconciler persists static fallback records so later requests are served from the database.
// A returned error means the caller should render the static record as is.
type Reconciler interface {
	CityFromFallback(ctx context.Context, city fallback.City) (*model.City, error)
	CountryFromFallback(ctx context.Context, country fallback.Country) (*model.Country, error)
}

type reconciler struct {
	continents repository.ContinentRepository
	countries  repository.CountryRepository
	cities     repository.CityRepository
	static     *fallback.Provider
	cache      *cache.Client
}

// NewReconciler builds a Reconciler.
func NewReconciler(continents repository.ContinentRepository, countries repository.CountryRepository, cities repository.CityRepository, static *fallback.Provider, cache *cache.Client) Reconciler {
	return &reconciler{
		continents: continents,
		countries:  countries,
		cities:     cities,
		static:     static,
		cache:      cache,
	}
}

func (r *reconciler) CityFromFallback(ctx context.Context, fc fallback.City) (*model.City, error) {
	if existing, err := r.cities.FindByID(ctx, fc.ID); err == nil {
		return existing, nil
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("find city %s: %w", fc.ID, err)
	}

	country, err := r.ensureCountry(ctx, fc.Country, fc.CountrySlug)
	if err != nil {
		log.Printf("reconcile: no country for city %s: %v", fc.Name, err)
		return nil, err
	}

	if existing, err := r.cities.FindByNameAndCountry(ctx, fc.Name, country.ID); err == nil {
		log.Printf("reconcile: city %s already stored as %s", fc.Name, existing.ID)
		return r.cities.FindByID(ctx, existing.ID)
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("find city %s: %w", fc.Name, err)
	}

	city := &model.City{
		ID:          fc.ID,
		Name:        fc.Name,
		CountryID:   country.ID,
		Description: optional(fc.Description),
		Image:       optional(fc.Image),
		BestTime:    optional(fc.BestTime),
		Climate:     optional(fc.Climate),
		Latitude:    fc.Latitude,
		Longitude:   fc.Longitude,
	}
	if population, ok := fallback.ParsePopulation(fc.Population); ok {
		city.Population = &population
	}

	if err := r.cities.Create(ctx, city); err != nil {
		if !repository.IsDuplicate(err) {
			log.Printf("reconcile: failed to create city %s: %v", fc.Name, err)
			return nil, fmt.Errorf("create city %s: %w", fc.Name, err)
		}
		log.Printf("reconcile: city %s was created concurrently, looking it up", fc.Name)
		return r.recoverCity(ctx, fc)
	}

	log.Printf("reconcile: city %s created with id %s", fc.Name, city.ID)
	r.invalidate(ctx)
	return r.cities.FindByID(ctx, city.ID)
}

// recoverCity re-resolves a city after losing an insert race.
func (r *reconciler) recoverCity(ctx context.Context, fc fallback.City) (*model.City, error) {
	country, err := r.ensureCountry(ctx, fc.Country, fc.CountrySlug)
	if err == nil {
		if existing, err := r.cities.FindByNameAndCountry(ctx, fc.Name, country.ID); err == nil {
			return r.cities.FindByID(ctx, existing.ID)
		}
	}
	if existing, err := r.cities.FindByID(ctx, fc.ID); err == nil {
		return existing, nil
	}
	return nil, fmt.Errorf("city %s conflicts with an existing row", fc.Name)
}

func (r *reconciler) CountryFromFallback(ctx context.Context, fc fallback.Country) (*model.Country, error) {
	country, err := r.ensureCountry(ctx, fc.Name, fc.Slug)
	if err != nil {
		return nil, err
	}
	return r.countries.FindByID(ctx, country.ID)
}

// ensureCountry finds a country by name, then by slug, and creates it otherwise.
func (r *reconciler) ensureCountry(ctx context.Context, name, slug string) (*model.Country, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errCountryUnresolved
	}

	if c, err := r.countries.FindByName(ctx, name); err == nil {
		return c, nil
	} else if !repository.IsNotFound(err) {
		return nil, err
	}
	if slug != "" {
		if c, err := r.countries.FindBySlug(ctx, slug); err == nil {
			return c, nil
		} else if !repository.IsNotFound(err) {
			return nil, err
		}
	}

	static, hasStatic := r.static.CountryByName(name)
	if !hasStatic && slug != "" {
		static, hasStatic = r.static.Country(slug)
	}

	country := &model.Country{Name: name}
	if hasStatic {
		applyStaticCountry(country, static)
		if static.Continent != "" {
			if continent, err := r.continents.FindByName(ctx, static.Continent); err == nil {
				country.ContinentID = &continent.ID
			}
		}
	} else {
		country.Description = optional("Страна " + name)
	}

	code, err := r.freeCode(ctx, name, static.Code)
	if err != nil {
		return nil, err
	}
	country.Code = code

	if err := r.countries.Create(ctx, country); err != nil {
		if repository.IsDuplicate(err) {
			if c, findErr := r.countries.FindByName(ctx, name); findErr == nil {
				return c, nil
			}
		}
		log.Printf("reconcile: failed to create country %s: %v", name, err)
		return nil, fmt.Errorf("create country %s: %w", name, err)
	}

	log.Printf("reconcile: country %s created with id %s (code %s)", name, country.ID, country.Code)
	r.invalidate(ctx)
	return country, nil
}

// freeCode picks the preferred static code when it is free, otherwise the first
// two letters of the name, probing numeric suffixes for uniqueness.
func (r *reconciler) freeCode(ctx context.Context, name, preferred string) (string, error) {
	if preferred != "" {
		free, err := r.codeFree(ctx, preferred)
		if err != nil {
			return "", err
		}
		if free {
			return preferred, nil
		}
	}

	base := countryCodeBase(name)
	candidate := base
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		free, err := r.codeFree(ctx, candidate)
		if err != nil {
			return "", err
		}
		if free {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, attempt+1)
	}
	// Left to the unique index to accept or reject.
	return candidate, nil
}

func (r *reconciler) codeFree(ctx context.Context, code string) (bool, error) {
	_, err := r.countries.FindByCode(ctx, code)
	if err == nil {
		return false, nil
	}
	if repository.IsNotFound(err) {
		return true, nil
	}
	return false, err
}

func (r *reconciler) invalidate(ctx context.Context) {
	_ = r.cache.Delete(ctx, countriesCacheKey)
}

func countryCodeBase(name string) string {
	runes := []rune(strings.TrimSpace(name))
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return strings.ToUpper(string(runes))
}

func applyStaticCountry(c *model.Country, s fallback.Country) {
	c.Capital = optional(s.Capital)
	c.Currency = optional(s.Currency)
	c.Language = optional(s.Language)
	c.VisaInfo = optional(s.VisaInfo)
	c.Description = optional(s.Description)
	c.Image = optional(s.Image)
	c.Flag = optional(s.Flag)
	if area, ok := fallback.ParseArea(s.Area); ok {
		c.Area = &area
	}
	if population, ok := fallback.ParsePopulation(s.Population); ok {
		c.Population = &population
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
