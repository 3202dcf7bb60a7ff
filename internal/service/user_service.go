package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"travelguide/internal/auth"
	"travelguide/internal/cache"
	domainErrors "travelguide/internal/errors"
	"travelguide/internal/model"
	"travelguide/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// ProfileUpdate lists the editable profile fields; nil leaves a field unchanged.
type ProfileUpdate struct {
	Name   *string
	Bio    *string
	Avatar *string
}

// UserService exposes profile operations for the signed-in user.
type UserService interface {
	GetProfile(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*model.User, error)
	ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id string) string {
	return fmt.Sprintf("user:%s", id)
}

func (s *userService) GetProfile(ctx context.Context, id string) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domainErrors.ErrUserNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*model.User, error) {
	fields := map[string]interface{}{}
	if update.Name != nil {
		fields["name"] = strings.TrimSpace(*update.Name)
	}
	if update.Bio != nil {
		fields["bio"] = nullable(*update.Bio)
	}
	if update.Avatar != nil {
		fields["avatar"] = nullable(*update.Avatar)
	}
	if err := s.repo.UpdateProfile(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return s.GetProfile(ctx, id)
}

func (s *userService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return domainErrors.ErrUserNotFound
		}
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, currentPassword) {
		return domainErrors.ErrCurrentPasswordInvalid
	}
	if failed := auth.PasswordStrengthErrors(newPassword); len(failed) > 0 {
		return &domainErrors.ValidationError{Err: domainErrors.ErrWeakPassword, Failed: failed}
	}
	if currentPassword == newPassword {
		return domainErrors.ErrSamePassword
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, id, hashed); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

// nullable maps blank strings to NULL.
func nullable(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
