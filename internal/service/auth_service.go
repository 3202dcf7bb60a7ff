package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"travelguide/internal/auth"
	domainErrors "travelguide/internal/errors"
	"travelguide/internal/mail"
	"travelguide/internal/model"
	"travelguide/internal/repository"
)

const resetTokenTTL = time.Hour

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// LoginResult carries everything the handler needs to set the session cookie.
type LoginResult struct {
	User         *model.User
	SessionID    string
	SessionToken string
	ExpiresAt    time.Time
}

// AuthOptions tunes session lifetime and reset links.
type AuthOptions struct {
	BaseURL    string
	SessionTTL time.Duration
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	ForgotPassword(ctx context.Context, email string) error
	ValidateResetToken(ctx context.Context, token string) (*model.User, error)
	ResetPassword(ctx context.Context, token, password, confirmPassword string) error
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

type authService struct {
	users      repository.UserRepository
	tokens     repository.PasswordResetRepository
	jwtService *auth.JWTService
	sessions   auth.SessionStoreInterface
	mailer     mail.Mailer
	opts       AuthOptions
	now        func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, tokens repository.PasswordResetRepository, jwtService *auth.JWTService, sessions auth.SessionStoreInterface, mailer mail.Mailer, opts AuthOptions) AuthService {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * 24 * time.Hour
	}
	return &authService{
		users:      users,
		tokens:     tokens,
		jwtService: jwtService,
		sessions:   sessions,
		mailer:     mailer,
		opts:       opts,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a new user with a hashed password.
// The unique email index decides conflicts, so there is no pre-check.
func (s *authService) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	email = repository.NormalizeEmail(email)
	if !emailPattern.MatchString(email) {
		return nil, domainErrors.ErrInvalidEmail
	}
	if len([]rune(password)) < auth.MinRegistrationPasswordLength {
		return nil, domainErrors.ErrPasswordTooShort
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}

	user := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: hashed,
		Role:         model.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, domainErrors.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and opens a server-side session.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domainErrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, domainErrors.ErrInvalidCredentials
	}

	now := s.now()
	sessionID := auth.NewSessionID()
	session := auth.Session{UserID: user.ID, Email: user.Email, CreatedAt: now}
	if err := s.sessions.Create(ctx, sessionID, session, s.opts.SessionTTL); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	token, err := s.jwtService.GenerateSessionToken(sessionID, user.ID, user.Email, s.opts.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	return &LoginResult{
		User:         user,
		SessionID:    sessionID,
		SessionToken: token,
		ExpiresAt:    now.Add(s.opts.SessionTTL),
	}, nil
}

// Logout forgets the server-side session. Unknown ids are not an error.
func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

// ForgotPassword issues a reset token and mails the link. Unknown addresses
// succeed silently so the endpoint cannot be used to probe accounts.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	email = repository.NormalizeEmail(email)
	if !emailPattern.MatchString(email) {
		return domainErrors.ErrInvalidEmail
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			log.Printf("auth: password reset requested for unknown email %s", email)
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}

	token, err := auth.GenerateResetToken()
	if err != nil {
		return err
	}
	now := s.now()
	expires := now.Add(resetTokenTTL)

	if err := s.tokens.Create(ctx, &model.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		Expires:   expires,
		CreatedAt: now,
	}); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	if err := s.users.SetResetToken(ctx, user.ID, token, expires, now); err != nil {
		return fmt.Errorf("mirror reset token: %w", err)
	}

	resetURL := s.opts.BaseURL + "/auth/reset-password/" + token
	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Name, resetURL); err != nil {
		log.Printf("auth: failed to send reset email to %s: %v", user.Email, err)
		return nil
	}
	log.Printf("auth: reset link sent to %s", user.Email)
	return nil
}

// ValidateResetToken returns the owner of a usable token.
func (s *authService) ValidateResetToken(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, domainErrors.ErrResetTokenRequired
	}
	t, err := s.tokens.FindByToken(ctx, token)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domainErrors.ErrInvalidResetToken
		}
		return nil, fmt.Errorf("find reset token: %w", err)
	}
	if !t.Usable(s.now()) {
		return nil, domainErrors.ErrInvalidResetToken
	}

	user, err := s.users.FindByID(ctx, t.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domainErrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// ResetPassword redeems a token. Consumption and the password write share one
// transaction, and consumption only succeeds while the token is unused and unexpired.
func (s *authService) ResetPassword(ctx context.Context, token, password, confirmPassword string) error {
	if token == "" {
		return domainErrors.ErrResetTokenRequired
	}
	if password == "" || confirmPassword == "" {
		return &domainErrors.ValidationError{Err: domainErrors.ErrWeakPassword, Failed: []string{"password and confirmPassword are required"}}
	}
	if password != confirmPassword {
		return domainErrors.ErrPasswordMismatch
	}
	if failed := auth.PasswordStrengthErrors(password); len(failed) > 0 {
		return &domainErrors.ValidationError{Err: domainErrors.ErrWeakPassword, Failed: failed}
	}

	var user *model.User
	err := s.tokens.WithTransaction(ctx, func(ctx context.Context, tokens repository.PasswordResetRepository, users repository.UserRepository) error {
		now := s.now()
		t, err := tokens.FindByToken(ctx, token)
		if err != nil {
			if repository.IsNotFound(err) {
				return domainErrors.ErrInvalidResetToken
			}
			return err
		}
		if !t.Usable(now) {
			return domainErrors.ErrInvalidResetToken
		}

		user, err = users.FindByID(ctx, t.UserID)
		if err != nil {
			if repository.IsNotFound(err) {
				return domainErrors.ErrUserNotFound
			}
			return err
		}
		if auth.CheckPassword(user.PasswordHash, password) {
			return domainErrors.ErrSamePassword
		}

		hashed, err := auth.HashPassword(password)
		if err != nil {
			return err
		}

		consumed, err := tokens.Consume(ctx, token, now)
		if err != nil {
			return err
		}
		if !consumed {
			return domainErrors.ErrInvalidResetToken
		}
		return users.UpdatePassword(ctx, user.ID, hashed)
	})
	if err != nil {
		return err
	}

	if err := s.mailer.SendPasswordChanged(ctx, user.Email, user.Name); err != nil {
		log.Printf("auth: failed to send password changed email to %s: %v", user.Email, err)
	}
	log.Printf("auth: password reset for %s", user.Email)
	return nil
}

// PurgeExpiredTokens deletes reset tokens whose expiry has passed.
func (s *authService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.tokens.DeleteExpired(ctx, s.now())
}
