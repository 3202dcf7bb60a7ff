package service

import (
	"context"
	"fmt"
	"strings"

	domainErrors "travelguide/internal/errors"
	"travelguide/internal/model"
	"travelguide/internal/repository"
)

// PointInput is one stop of a route as supplied by a client. Zero Day and Order take defaults.
type PointInput struct {
	Day          *int
	Order        *int
	Title        string
	Description  string
	CityID       string
	CountryID    string
	AttractionID string
	Latitude     *float64
	Longitude    *float64
}

// RouteInput is a new route.
type RouteInput struct {
	Title       string
	Description string
	Duration    *int
	Image       string
	IsPublic    bool
	Points      []PointInput
}

// RouteUpdate changes a route. Nil fields are left alone; a non-nil Points
// replaces every stop, so an empty slice clears them.
type RouteUpdate struct {
	Title       *string
	Description *string
	Duration    *int
	Image       *string
	IsPublic    *bool
	Points      *[]PointInput
}

// RouteService manages user routes.
type RouteService interface {
	List(ctx context.Context, userID string) ([]model.Route, error)
	Create(ctx context.Context, userID string, input RouteInput) (*model.Route, error)
	Get(ctx context.Context, userID, id string) (*model.Route, error)
	Update(ctx context.Context, userID, id string, update RouteUpdate) (*model.Route, error)
	Delete(ctx context.Context, userID, id string) error
}

type routeService struct {
	repo repository.RouteRepository
}

// NewRouteService creates a new route service.
func NewRouteService(repo repository.RouteRepository) RouteService {
	return &routeService{repo: repo}
}

func (s *routeService) List(ctx context.Context, userID string) ([]model.Route, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *routeService) Create(ctx context.Context, userID string, input RouteInput) (*model.Route, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domainErrors.ErrTitleRequired
	}

	route := &model.Route{
		Title:       title,
		Description: optional(input.Description),
		Duration:    input.Duration,
		Image:       optional(input.Image),
		IsPublic:    input.IsPublic,
		UserID:      userID,
		Points:      buildPoints(input.Points),
	}
	if err := s.repo.Create(ctx, route); err != nil {
		return nil, fmt.Errorf("create route: %w", err)
	}
	return s.repo.FindByID(ctx, route.ID)
}

// Get returns a route of userID; routes of other users are reported as not found.
func (s *routeService) Get(ctx context.Context, userID, id string) (*model.Route, error) {
	route, err := s.repo.FindByIDForUser(ctx, id, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return route, nil
}

func (s *routeService) Update(ctx context.Context, userID, id string, update RouteUpdate) (*model.Route, error) {
	fields := map[string]interface{}{}
	if update.Title != nil {
		if title := strings.TrimSpace(*update.Title); title != "" {
			fields["title"] = title
		}
	}
	if update.Description != nil {
		fields["description"] = optional(*update.Description)
	}
	if update.Duration != nil {
		fields["duration"] = *update.Duration
	}
	if update.Image != nil {
		fields["image"] = optional(*update.Image)
	}
	if update.IsPublic != nil {
		fields["is_public"] = *update.IsPublic
	}

	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.RouteRepository) error {
		if _, err := repo.FindByIDForUser(ctx, id, userID); err != nil {
			if repository.IsNotFound(err) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if err := repo.Update(ctx, id, fields); err != nil {
			return fmt.Errorf("update route: %w", err)
		}
		if update.Points != nil {
			if err := repo.ReplacePoints(ctx, id, buildPoints(*update.Points)); err != nil {
				return fmt.Errorf("replace route points: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *routeService) Delete(ctx context.Context, userID, id string) error {
	deleted, err := s.repo.DeleteForUser(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("delete route: %w", err)
	}
	if !deleted {
		return domainErrors.ErrNotFound
	}
	return nil
}

// buildPoints applies the defaults day=1 and order=position in the list (1-based)
// to points that leave them out. Supplied values are stored as given.
func buildPoints(inputs []PointInput) []model.RoutePoint {
	if len(inputs) == 0 {
		return nil
	}
	points := make([]model.RoutePoint, 0, len(inputs))
	for i, in := range inputs {
		p := model.RoutePoint{
			Day:          1,
			Order:        i + 1,
			Title:        optional(in.Title),
			Description:  optional(in.Description),
			CityID:       optional(in.CityID),
			CountryID:    optional(in.CountryID),
			AttractionID: optional(in.AttractionID),
			Latitude:     in.Latitude,
			Longitude:    in.Longitude,
		}
		if in.Day != nil {
			p.Day = *in.Day
		}
		if in.Order != nil {
			p.Order = *in.Order
		}
		points = append(points, p)
	}
	return points
}
