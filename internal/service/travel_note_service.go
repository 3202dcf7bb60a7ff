package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	domainErrors "travelguide/internal/errors"
	"travelguide/internal/model"
	"travelguide/internal/repository"
)

// TravelNoteInput is a new diary entry.
type TravelNoteInput struct {
	Title     string
	Content   string
	Date      *time.Time
	Images    []string
	CountryID string
	CityID    string
	IsPublic  bool
}

// TravelNoteService manages travel notes.
type TravelNoteService interface {
	List(ctx context.Context, userID string) ([]model.TravelNote, error)
	ListPublic(ctx context.Context) ([]model.TravelNote, error)
	Create(ctx context.Context, userID string, input TravelNoteInput) (*model.TravelNote, error)
}

type travelNoteService struct {
	repo repository.TravelNoteRepository
}

// NewTravelNoteService creates a new travel note service.
func NewTravelNoteService(repo repository.TravelNoteRepository) TravelNoteService {
	return &travelNoteService{repo: repo}
}

func (s *travelNoteService) List(ctx context.Context, userID string) ([]model.TravelNote, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *travelNoteService) ListPublic(ctx context.Context) ([]model.TravelNote, error) {
	return s.repo.ListPublic(ctx)
}

func (s *travelNoteService) Create(ctx context.Context, userID string, input TravelNoteInput) (*model.TravelNote, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domainErrors.ErrTitleRequired
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, domainErrors.ErrContentRequired
	}

	note := &model.TravelNote{
		Title:     title,
		Content:   content,
		Date:      input.Date,
		Images:    model.StringList(input.Images),
		UserID:    userID,
		CountryID: optional(input.CountryID),
		CityID:    optional(input.CityID),
		IsPublic:  input.IsPublic,
	}
	if err := s.repo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("create travel note: %w", err)
	}
	return note, nil
}
