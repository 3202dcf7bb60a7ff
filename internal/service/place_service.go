package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	domainErrors "travelguide/internal/errors"
	"travelguide/internal/fallback"
	"travelguide/internal/model"
	"travelguide/internal/repository"
)

// PlaceRef names a country, city or attraction by id as supplied by a client.
type PlaceRef struct {
	CountryID    string
	CityID       string
	AttractionID string
}

// Empty reports whether no reference was given.
func (p PlaceRef) Empty() bool {
	return p.CountryID == "" && p.CityID == "" && p.AttractionID == ""
}

// Key is the stable identity of the requested place.
func (p PlaceRef) Key() string {
	return model.PlaceKey(p.CountryID, p.CityID, p.AttractionID)
}

// resolvedPlace holds the references that exist in the database.
type resolvedPlace struct {
	CountryID    *string
	CityID       *string
	AttractionID *string
	Missing      []string
}

func (r resolvedPlace) none() bool {
	return r.CountryID == nil && r.CityID == nil && r.AttractionID == nil
}

// annotate appends the unresolved ids to text when nothing could be linked,
// so the entry still records what the user meant.
func (r resolvedPlace) annotate(text string) string {
	if len(r.Missing) == 0 || !r.none() {
		return text
	}
	info := "[Не найдено в БД: " + strings.Join(r.Missing, ", ") + "]"
	if text == "" {
		return info
	}
	return text + "\n" + info
}

// PlaceResolver checks client supplied ids, reconciling static cities on the way.
type PlaceResolver struct {
	countries   repository.CountryRepository
	cities      repository.CityRepository
	attractions repository.AttractionRepository
	reconciler  Reconciler
	static      *fallback.Provider
}

// NewPlaceResolver builds the resolver shared by places, reviews and ratings.
func NewPlaceResolver(countries repository.CountryRepository, cities repository.CityRepository, attractions repository.AttractionRepository, reconciler Reconciler, static *fallback.Provider) *PlaceResolver {
	return &PlaceResolver{
		countries:   countries,
		cities:      cities,
		attractions: attractions,
		reconciler:  reconciler,
		static:      static,
	}
}

func (r *PlaceResolver) resolve(ctx context.Context, ref PlaceRef) (resolvedPlace, error) {
	var out resolvedPlace

	if ref.CountryID != "" {
		c, err := r.countries.FindByID(ctx, ref.CountryID)
		switch {
		case err == nil:
			out.CountryID = &c.ID
		case repository.IsNotFound(err):
			log.Printf("places: country %s not found, saving without it", ref.CountryID)
			out.Missing = append(out.Missing, "страна: "+ref.CountryID)
		default:
			return out, fmt.Errorf("find country: %w", err)
		}
	}

	if ref.CityID != "" {
		c, err := r.cities.FindByID(ctx, ref.CityID)
		switch {
		case err == nil:
			out.CityID = &c.ID
		case repository.IsNotFound(err):
			if id, ok := r.reconcileCity(ctx, ref.CityID); ok {
				out.CityID = &id
			} else {
				log.Printf("places: city %s not found and could not be created", ref.CityID)
				out.Missing = append(out.Missing, "город: "+ref.CityID)
			}
		default:
			return out, fmt.Errorf("find city: %w", err)
		}
	}

	if ref.AttractionID != "" {
		a, err := r.attractions.FindByID(ctx, ref.AttractionID)
		switch {
		case err == nil:
			out.AttractionID = &a.ID
		case repository.IsNotFound(err):
			log.Printf("places: attraction %s not found, saving without it", ref.AttractionID)
			out.Missing = append(out.Missing, "достопримечательность: "+ref.AttractionID)
		default:
			return out, fmt.Errorf("find attraction: %w", err)
		}
	}

	return out, nil
}

func (r *PlaceResolver) reconcileCity(ctx context.Context, id string) (string, bool) {
	static, ok := r.static.City(id)
	if !ok {
		return "", false
	}
	city, err := r.reconciler.CityFromFallback(ctx, static)
	if err != nil {
		return "", false
	}
	return city.ID, true
}

// VisitedInput is a new visited-place entry.
type VisitedInput struct {
	Place     PlaceRef
	VisitDate *time.Time
	Notes     string
}

// WishlistInput is a new wishlist entry.
type WishlistInput struct {
	Place    PlaceRef
	Notes    string
	Priority int
}

// PlaceService manages the visited places and wishlist of a user.
type PlaceService interface {
	ListVisited(ctx context.Context, userID string) ([]model.VisitedPlace, error)
	AddVisited(ctx context.Context, userID string, input VisitedInput) (*model.VisitedPlace, error)
	RemoveVisited(ctx context.Context, userID, id string) error
	ListWishlist(ctx context.Context, userID string) ([]model.WishlistItem, error)
	AddToWishlist(ctx context.Context, userID string, input WishlistInput) (*model.WishlistItem, error)
	RemoveFromWishlist(ctx context.Context, userID, id string) error
}

type placeService struct {
	visited  repository.VisitedPlaceRepository
	wishlist repository.WishlistRepository
	resolver *PlaceResolver
}

// NewPlaceService creates a new place service.
func NewPlaceService(visited repository.VisitedPlaceRepository, wishlist repository.WishlistRepository, resolver *PlaceResolver) PlaceService {
	return &placeService{
		visited:  visited,
		wishlist: wishlist,
		resolver: resolver,
	}
}

func (s *placeService) ListVisited(ctx context.Context, userID string) ([]model.VisitedPlace, error) {
	return s.visited.ListByUser(ctx, userID)
}

func (s *placeService) AddVisited(ctx context.Context, userID string, input VisitedInput) (*model.VisitedPlace, error) {
	if input.Place.Empty() {
		return nil, domainErrors.ErrPlaceRequired
	}
	resolved, err := s.resolver.resolve(ctx, input.Place)
	if err != nil {
		return nil, err
	}

	place := &model.VisitedPlace{
		UserID:       userID,
		PlaceKey:     input.Place.Key(),
		CountryID:    resolved.CountryID,
		CityID:       resolved.CityID,
		AttractionID: resolved.AttractionID,
		VisitDate:    input.VisitDate,
		Notes:        optional(resolved.annotate(strings.TrimSpace(input.Notes))),
	}
	if err := s.visited.Create(ctx, place); err != nil {
		if repository.IsDuplicate(err) {
			return nil, domainErrors.ErrAlreadyAdded
		}
		return nil, fmt.Errorf("add visited place: %w", err)
	}
	return place, nil
}

func (s *placeService) RemoveVisited(ctx context.Context, userID, id string) error {
	if id == "" {
		return domainErrors.ErrIDRequired
	}
	deleted, err := s.visited.DeleteForUser(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("remove visited place: %w", err)
	}
	if !deleted {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (s *placeService) ListWishlist(ctx context.Context, userID string) ([]model.WishlistItem, error) {
	return s.wishlist.ListByUser(ctx, userID)
}

func (s *placeService) AddToWishlist(ctx context.Context, userID string, input WishlistInput) (*model.WishlistItem, error) {
	if input.Place.Empty() {
		return nil, domainErrors.ErrPlaceRequired
	}
	resolved, err := s.resolver.resolve(ctx, input.Place)
	if err != nil {
		return nil, err
	}

	item := &model.WishlistItem{
		UserID:       userID,
		PlaceKey:     input.Place.Key(),
		CountryID:    resolved.CountryID,
		CityID:       resolved.CityID,
		AttractionID: resolved.AttractionID,
		Notes:        optional(resolved.annotate(strings.TrimSpace(input.Notes))),
		Priority:     input.Priority,
	}
	if err := s.wishlist.Create(ctx, item); err != nil {
		if repository.IsDuplicate(err) {
			return nil, domainErrors.ErrAlreadyAdded
		}
		return nil, fmt.Errorf("add wishlist item: %w", err)
	}
	return item, nil
}

func (s *placeService) RemoveFromWishlist(ctx context.Context, userID, id string) error {
	if id == "" {
		return domainErrors.ErrIDRequired
	}
	deleted, err := s.wishlist.DeleteForUser(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("remove wishlist item: %w", err)
	}
	if !deleted {
		return domainErrors.ErrNotFound
	}
	return nil
}
