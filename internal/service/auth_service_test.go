package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"travelguide/internal/auth"
	domainErrors "travelguide/internal/errors"
	"travelguide/internal/model"
	"travelguide/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id string, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) SetResetToken(ctx context.Context, id, token string, expires, createdAt time.Time) error {
	args := m.Called(ctx, id, token, expires, createdAt)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockPasswordResetRepository is a mock implementation of PasswordResetRepository.
// WithTransaction runs the callback against the mock itself and txUsers.
type MockPasswordResetRepository struct {
	mock.Mock
	txUsers repository.UserRepository
}

func (m *MockPasswordResetRepository) Create(ctx context.Context, token *model.PasswordResetToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockPasswordResetRepository) FindByToken(ctx context.Context, token string) (*model.PasswordResetToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PasswordResetToken), args.Error(1)
}

func (m *MockPasswordResetRepository) Consume(ctx context.Context, token string, now time.Time) (bool, error) {
	args := m.Called(ctx, token, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockPasswordResetRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPasswordResetRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, tokens repository.PasswordResetRepository, users repository.UserRepository) error) error {
	return fn(ctx, m, m.txUsers)
}

// MockSessionStore is a mock implementation of SessionStoreInterface.
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, sessionID string, session auth.Session, ttl time.Duration) error {
	args := m.Called(ctx, sessionID, session, ttl)
	return args.Error(0)
}

func (m *MockSessionStore) Get(ctx context.Context, sessionID string) (*auth.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Session), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// MockMailer is a mock implementation of mail.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	args := m.Called(ctx, to, name, resetURL)
	return args.Error(0)
}

func (m *MockMailer) SendPasswordChanged(ctx context.Context, to, name string) error {
	args := m.Called(ctx, to, name)
	return args.Error(0)
}

type authMocks struct {
	users    *MockUserRepository
	tokens   *MockPasswordResetRepository
	sessions *MockSessionStore
	mailer   *MockMailer
}

func newAuthServiceForTest(now time.Time) (*authService, authMocks) {
	m := authMocks{
		users:    new(MockUserRepository),
		sessions: new(MockSessionStore),
		mailer:   new(MockMailer),
	}
	m.tokens = &MockPasswordResetRepository{txUsers: m.users}
	svc := NewAuthService(m.users, m.tokens, auth.NewJWTService("test-secret"), m.sessions, m.mailer, AuthOptions{
		BaseURL:    "http://localhost:3000",
		SessionTTL: time.Hour,
	}).(*authService)
	svc.now = func() time.Time { return now }
	return svc, m
}

func (m authMocks) assertExpectations(t *testing.T) {
	m.users.AssertExpectations(t)
	m.tokens.AssertExpectations(t)
	m.sessions.AssertExpectations(t)
	m.mailer.AssertExpectations(t)
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hashed, err := auth.HashPassword(password)
	require.NoError(t, err)
	return hashed
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		nameField     string
		setupMock     func(*MockUserRepository)
		expectedName  string
		expectedError error
	}{
		{
			name:      "successful registration",
			email:     "  Test@Example.com ",
			password:  "secret1",
			nameField: "Test User",
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.Email == "test@example.com" && u.Role == model.RoleUser && u.PasswordHash != "secret1"
				})).Return(nil)
			},
			expectedName: "Test User",
		},
		{
			name:     "name defaults to local part",
			email:    "traveller@example.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedName: "traveller",
		},
		{
			name:          "invalid email",
			email:         "not-an-email",
			password:      "secret1",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: domainErrors.ErrInvalidEmail,
		},
		{
			name:          "password too short",
			email:         "a@b.com",
			password:      "12345",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: domainErrors.ErrPasswordTooShort,
		},
		{
			name:     "user already exists",
			email:    "existing@example.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: domainErrors.ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mocks := newAuthServiceForTest(time.Now().UTC())
			tt.setupMock(mocks.users)

			user, err := svc.Register(context.Background(), tt.email, tt.password, tt.nameField)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, tt.expectedName, user.Name)
				assert.True(t, auth.CheckPassword(user.PasswordHash, tt.password))
			}

			mocks.assertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashed := mustHash(t, "secret1")

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(authMocks)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "secret1",
			setupMock: func(m authMocks) {
				m.users.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           "user-1",
					Email:        "test@example.com",
					PasswordHash: hashed,
				}, nil)
				m.sessions.On("Create", mock.Anything, mock.AnythingOfType("string"), mock.MatchedBy(func(s auth.Session) bool {
					return s.UserID == "user-1" && s.Email == "test@example.com"
				}), time.Hour).Return(nil)
			},
		},
		{
			name:     "invalid credentials - user not found",
			email:    "notfound@example.com",
			password: "secret1",
			setupMock: func(m authMocks) {
				m.users.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: domainErrors.ErrInvalidCredentials,
		},
		{
			name:     "invalid credentials - wrong password",
			email:    "test@example.com",
			password: "wrong-password",
			setupMock: func(m authMocks) {
				m.users.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           "user-1",
					Email:        "test@example.com",
					PasswordHash: hashed,
				}, nil)
			},
			expectedError: domainErrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mocks := newAuthServiceForTest(time.Now().UTC())
			tt.setupMock(mocks)

			result, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, result.SessionToken)
				assert.Equal(t, "user-1", result.User.ID)

				claims, err := svc.jwtService.ValidateToken(result.SessionToken)
				require.NoError(t, err)
				assert.Equal(t, result.SessionID, claims.ID)
			}

			mocks.assertExpectations(t)
		})
	}
}

func TestAuthService_ForgotPassword(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("unknown email still succeeds", func(t *testing.T) {
		svc, mocks := newAuthServiceForTest(now)
		mocks.users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		assert.NoError(t, svc.ForgotPassword(context.Background(), "ghost@example.com"))
		mocks.assertExpectations(t)
	})

	t.Run("invalid email", func(t *testing.T) {
		svc, mocks := newAuthServiceForTest(now)
		assert.ErrorIs(t, svc.ForgotPassword(context.Background(), "nope"), domainErrors.ErrInvalidEmail)
		mocks.assertExpectations(t)
	})

	t.Run("issues a one hour token and mails the link", func(t *testing.T) {
		svc, mocks := newAuthServiceForTest(now)
		user := &model.User{ID: "user-1", Email: "a@b.com", Name: "Анна"}
		mocks.users.On("FindByEmail", mock.Anything, "a@b.com").Return(user, nil)

		var issued string
		mocks.tokens.On("Create", mock.Anything, mock.MatchedBy(func(tok *model.PasswordResetToken) bool {
			issued = tok.Token
			return tok.UserID == "user-1" && !tok.Used && tok.Expires.Equal(now.Add(time.Hour)) && len(tok.Token) == 64
		})).Return(nil)
		mocks.users.On("SetResetToken", mock.Anything, "user-1", mock.AnythingOfType("string"), now.Add(time.Hour), now).Return(nil)
		mocks.mailer.On("SendPasswordReset", mock.Anything, "a@b.com", "Анна", mock.MatchedBy(func(url string) bool {
			return strings.HasPrefix(url, "http://localhost:3000/auth/reset-password/") && strings.HasSuffix(url, issued)
		})).Return(nil)

		assert.NoError(t, svc.ForgotPassword(context.Background(), "A@B.com"))
		mocks.assertExpectations(t)
	})

	t.Run("mail failure is not reported", func(t *testing.T) {
		svc, mocks := newAuthServiceForTest(now)
		mocks.users.On("FindByEmail", mock.Anything, "a@b.com").Return(&model.User{ID: "user-1", Email: "a@b.com"}, nil)
		mocks.tokens.On("Create", mock.Anything, mock.Anything).Return(nil)
		mocks.users.On("SetResetToken", mock.Anything, "user-1", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		mocks.mailer.On("SendPasswordReset", mock.Anything, "a@b.com", "", mock.Anything).Return(errors.New("smtp down"))

		assert.NoError(t, svc.ForgotPassword(context.Background(), "a@b.com"))
		mocks.assertExpectations(t)
	})
}

func TestAuthService_ValidateResetToken(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		token         string
		stored        *model.PasswordResetToken
		user          *model.User
		expectedError error
	}{
		{
			name:          "missing token",
			token:         "",
			expectedError: domainErrors.ErrResetTokenRequired,
		},
		{
			name:          "unknown token",
			token:         "nope",
			expectedError: domainErrors.ErrInvalidResetToken,
		},
		{
			name:          "expired token",
			token:         "expired-token",
			stored:        &model.PasswordResetToken{UserID: "user-1", Token: "expired-token", Expires: now.Add(-time.Minute)},
			expectedError: domainErrors.ErrInvalidResetToken,
		},
		{
			name:          "used token within its lifetime",
			token:         "used-token",
			stored:        &model.PasswordResetToken{UserID: "user-1", Token: "used-token", Expires: now.Add(time.Hour), Used: true},
			expectedError: domainErrors.ErrInvalidResetToken,
		},
		{
			name:          "owner deleted",
			token:         "orphan",
			stored:        &model.PasswordResetToken{UserID: "gone", Token: "orphan", Expires: now.Add(time.Hour)},
			expectedError: domainErrors.ErrUserNotFound,
		},
		{
			name:   "valid token",
			token:  "good",
			stored: &model.PasswordResetToken{UserID: "user-1", Token: "good", Expires: now.Add(time.Hour)},
			user:   &model.User{ID: "user-1", Email: "a@b.com", Name: "Анна"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mocks := newAuthServiceForTest(now)
			if tt.token != "" {
				if tt.stored != nil {
					mocks.tokens.On("FindByToken", mock.Anything, tt.token).Return(tt.stored, nil)
				} else {
					mocks.tokens.On("FindByToken", mock.Anything, tt.token).Return(nil, gorm.ErrRecordNotFound)
				}
			}
			if tt.stored != nil && tt.stored.Usable(now) {
				if tt.user != nil {
					mocks.users.On("FindByID", mock.Anything, tt.stored.UserID).Return(tt.user, nil)
				} else {
					mocks.users.On("FindByID", mock.Anything, tt.stored.UserID).Return(nil, gorm.ErrRecordNotFound)
				}
			}

			user, err := svc.ValidateResetToken(context.Background(), tt.token)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.user.Email, user.Email)
			}
			mocks.assertExpectations(t)
		})
	}
}

func TestAuthService_ResetPassword(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	oldHash := mustHash(t, "OldPass1!")
	live := &model.PasswordResetToken{UserID: "user-1", Token: "tok", Expires: now.Add(time.Hour)}
	user := &model.User{ID: "user-1", Email: "a@b.com", Name: "Анна", PasswordHash: oldHash}

	t.Run("passwords do not match", func(t *testing.T) {
		svc, mocks := newAuthServiceForTest(now)
		err := svc.ResetPassword(context.Background(), "tok", "NewPass1!", "NewPass2!")
		assert.ErrorIs(t, err, domainErrors.ErrPasswordMismatch)
		mocks.assertExpectations(t)
	})

	t.Run("weak password lists every failed rule", func(t *testing.T) {
		svc, mocks := newAuthServiceForTest(now)
		err := svc.ResetPassword(context.Background(), "tok", "short", "short")
		assert.ErrorIs(t, err, domainErrors.ErrWeakPassword)

		var verr *domainErrors.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Len(t, verr.Failed, 4)
		mocks.assertExpectations(t)
	})

	t.Run("same as current password", func(t *testing.T) {
		svc, mocks := newAuthServiceForTest(now)
		mocks.tokens.On("FindByToken", mock.Anything, "tok").Return(live, nil)
		mocks.users.On("FindByID", mock.Anything, "user-1").Return(user, nil)

		err := svc.ResetPassword(context.Background(), "tok", "OldPass1!", "OldPass1!")
		assert.ErrorIs(t, err, domainErrors.ErrSamePassword)
		mocks.assertExpectations(t)
	})

	t.Run("token consumed by a concurrent request", func(t *testing.T) {
		svc, mocks := newAuthServiceForTest(now)
		mocks.tokens.On("FindByToken", mock.Anything, "tok").Return(live, nil)
		mocks.users.On("FindByID", mock.Anything, "user-1").Return(user, nil)
		mocks.tokens.On("Consume", mock.Anything, "tok", now).Return(false, nil)

		err := svc.ResetPassword(context.Background(), "tok", "NewPass1!", "NewPass1!")
		assert.ErrorIs(t, err, domainErrors.ErrInvalidResetToken)
		mocks.users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
		mocks.assertExpectations(t)
	})

	t.Run("successful reset", func(t *testing.T) {
		svc, mocks := newAuthServiceForTest(now)
		mocks.tokens.On("FindByToken", mock.Anything, "tok").Return(live, nil)
		mocks.users.On("FindByID", mock.Anything, "user-1").Return(user, nil)
		mocks.tokens.On("Consume", mock.Anything, "tok", now).Return(true, nil)
		mocks.users.On("UpdatePassword", mock.Anything, "user-1", mock.MatchedBy(func(hash string) bool {
			return auth.CheckPassword(hash, "NewPass1!")
		})).Return(nil)
		mocks.mailer.On("SendPasswordChanged", mock.Anything, "a@b.com", "Анна").Return(nil)

		assert.NoError(t, svc.ResetPassword(context.Background(), "tok", "NewPass1!", "NewPass1!"))
		mocks.assertExpectations(t)
	})
}

func TestAuthService_Logout(t *testing.T) {
	svc, mocks := newAuthServiceForTest(time.Now().UTC())
	mocks.sessions.On("Delete", mock.Anything, "session-1").Return(nil)

	assert.NoError(t, svc.Logout(context.Background(), "session-1"))
	assert.NoError(t, svc.Logout(context.Background(), ""))
	mocks.assertExpectations(t)
}
