package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"travelguide/internal/model"
)

// PasswordResetRepository defines reset token persistence operations.
type PasswordResetRepository interface {
	Create(ctx context.Context, token *model.PasswordResetToken) error
	FindByToken(ctx context.Context, token string) (*model.PasswordResetToken, error)
	// Consume marks the token used only if it is still unused and unexpired.
	// It reports whether this call performed the transition.
	Consume(ctx context.Context, token string, now time.Time) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tokens PasswordResetRepository, users UserRepository) error) error
}

type passwordResetRepository struct {
	db *gorm.DB
}

// NewPasswordResetRepository creates a new reset token repository.
func NewPasswordResetRepository(db *gorm.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(ctx context.Context, token *model.PasswordResetToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *passwordResetRepository) FindByToken(ctx context.Context, token string) (*model.PasswordResetToken, error) {
	var t model.PasswordResetToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *passwordResetRepository) Consume(ctx context.Context, token string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.PasswordResetToken{}).
		Where("token = ? AND used = ? AND expires > ?", token, false, now).
		Update("used", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *passwordResetRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires < ?", now).Delete(&model.PasswordResetToken{})
	return res.RowsAffected, res.Error
}

// WithTransaction executes fn with token and user repositories bound to one transaction.
func (r *passwordResetRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, tokens PasswordResetRepository, users UserRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &passwordResetRepository{db: tx}, &userRepository{db: tx})
	})
}
