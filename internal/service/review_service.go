package service

import (
	"context"
	"fmt"
	"strings"

	domainErrors "travelguide/internal/errors"
	"travelguide/internal/model"
	"travelguide/internal/repository"
)

const (
	minScore = 1
	maxScore = 5
)

// ReviewInput is a new review.
type ReviewInput struct {
	Place   PlaceRef
	Content string
	Rating  int
}

// ReviewUpdate lists the editable review fields; nil leaves a field unchanged.
type ReviewUpdate struct {
	Content *string
	Rating  *int
}

// RatingInput is a bare score for a place.
type RatingInput struct {
	Place PlaceRef
	Value int
}

// ReviewService manages reviews and ratings.
type ReviewService interface {
	ListForPlace(ctx context.Context, ref PlaceRef) ([]model.Review, error)
	Get(ctx context.Context, id string) (*model.Review, error)
	Create(ctx context.Context, userID string, input ReviewInput) (*model.Review, error)
	Update(ctx context.Context, userID, id string, update ReviewUpdate) (*model.Review, error)
	Delete(ctx context.Context, userID, id string) error
	Rate(ctx context.Context, userID string, input RatingInput) (*model.Rating, error)
}

type reviewService struct {
	reviews  repository.ReviewRepository
	ratings  repository.RatingRepository
	resolver *PlaceResolver
}

// NewReviewService creates a new review service.
func NewReviewService(reviews repository.ReviewRepository, ratings repository.RatingRepository, resolver *PlaceResolver) ReviewService {
	return &reviewService{
		reviews:  reviews,
		ratings:  ratings,
		resolver: resolver,
	}
}

// ListForPlace returns reviews for the first id given, checked in the order
// country, city, attraction. No id yields an empty list.
func (s *reviewService) ListForPlace(ctx context.Context, ref PlaceRef) ([]model.Review, error) {
	switch {
	case ref.CountryID != "":
		return s.reviews.ListForPlace(ctx, repository.PlaceCountry, ref.CountryID)
	case ref.CityID != "":
		return s.reviews.ListForPlace(ctx, repository.PlaceCity, ref.CityID)
	case ref.AttractionID != "":
		return s.reviews.ListForPlace(ctx, repository.PlaceAttraction, ref.AttractionID)
	}
	return []model.Review{}, nil
}

func (s *reviewService) Get(ctx context.Context, id string) (*model.Review, error) {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Create(ctx context.Context, userID string, input ReviewInput) (*model.Review, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, domainErrors.ErrContentRequired
	}
	if !validScore(input.Rating) {
		return nil, domainErrors.ErrInvalidRating
	}
	if input.Place.Empty() {
		return nil, domainErrors.ErrPlaceRequired
	}

	resolved, err := s.resolver.resolve(ctx, input.Place)
	if err != nil {
		return nil, err
	}

	review := &model.Review{
		Content:      resolved.annotate(content),
		Rating:       input.Rating,
		UserID:       userID,
		CountryID:    resolved.CountryID,
		CityID:       resolved.CityID,
		AttractionID: resolved.AttractionID,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return s.reviews.FindByID(ctx, review.ID)
}

func (s *reviewService) Update(ctx context.Context, userID, id string, update ReviewUpdate) (*model.Review, error) {
	if _, err := s.reviews.FindByIDForUser(ctx, id, userID); err != nil {
		if repository.IsNotFound(err) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	fields := map[string]interface{}{}
	if update.Content != nil {
		content := strings.TrimSpace(*update.Content)
		if content == "" {
			return nil, domainErrors.ErrContentRequired
		}
		fields["content"] = content
	}
	if update.Rating != nil {
		if !validScore(*update.Rating) {
			return nil, domainErrors.ErrInvalidRating
		}
		fields["rating"] = *update.Rating
	}

	if err := s.reviews.Update(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	return s.reviews.FindByID(ctx, id)
}

func (s *reviewService) Delete(ctx context.Context, userID, id string) error {
	deleted, err := s.reviews.DeleteForUser(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if !deleted {
		return domainErrors.ErrNotFound
	}
	return nil
}

// Rate stores the caller's score for a place, replacing an earlier one.
func (s *reviewService) Rate(ctx context.Context, userID string, input RatingInput) (*model.Rating, error) {
	if !validScore(input.Value) {
		return nil, domainErrors.ErrInvalidRating
	}
	if input.Place.Empty() {
		return nil, domainErrors.ErrPlaceRequired
	}

	resolved, err := s.resolver.resolve(ctx, input.Place)
	if err != nil {
		return nil, err
	}
	if resolved.none() {
		return nil, domainErrors.ErrNotFound
	}

	rating := &model.Rating{
		Value:        input.Value,
		UserID:       userID,
		PlaceKey:     input.Place.Key(),
		CountryID:    resolved.CountryID,
		CityID:       resolved.CityID,
		AttractionID: resolved.AttractionID,
	}
	if err := s.ratings.Upsert(ctx, rating); err != nil {
		return nil, fmt.Errorf("save rating: %w", err)
	}
	return s.ratings.FindForUser(ctx, userID, rating.PlaceKey)
}

func validScore(v int) bool {
	return v >= minScore && v <= maxScore
}
