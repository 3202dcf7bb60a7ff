package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"travelguide/internal/auth"
	"travelguide/internal/cache"
	"travelguide/internal/config"
	"travelguide/internal/db"
	"travelguide/internal/model"
)

type capturedMail struct {
	to, resetURL string
}

type captureMailer struct {
	mu    sync.Mutex
	sent  []capturedMail
	notes int
}

func (m *captureMailer) SendPasswordReset(_ context.Context, to, _ string, resetURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, capturedMail{to: to, resetURL: resetURL})
	return nil
}

func (m *captureMailer) SendPasswordChanged(context.Context, string, string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes++
	return nil
}

func (m *captureMailer) lastToken(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	url := m.sent[len(m.sent)-1].resetURL
	return url[strings.LastIndex(url, "/")+1:]
}

type testServer struct {
	e      *echo.Echo
	db     *gorm.DB
	mailer *captureMailer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithCache(t, cache.NewMemory())
}

func newTestServerWithCache(t *testing.T, cacheClient *cache.Client) *testServer {
	t.Helper()
	gormDB, err := db.NewSQLite(db.MemoryPath)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB, false))
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := &config.Config{
		AppEnv:        "development",
		SessionSecret: "test-secret",
		SessionTTL:    time.Hour,
		BaseURL:       "http://travel.test",
	}
	mailer := &captureMailer{}
	return &testServer{
		e:      New(cfg, gormDB, cacheClient, mailer),
		db:     gormDB,
		mailer: mailer,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(t *testing.T, email, password string) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/register", map[string]string{"email": email, "password": password}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (s *testServer) login(t *testing.T, email, password string) *http.Cookie {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			return c
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestSessionStoreUnavailable(t *testing.T) {
	redisDown := cache.New("127.0.0.1:1", "", 0)
	t.Cleanup(func() { _ = redisDown.Close() })
	s := newTestServerWithCache(t, redisDown)

	rec := s.do(t, http.MethodPost, "/api/register", map[string]string{"email": "offline@example.com", "password": "secret1"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "offline@example.com", "password": "secret1"}, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	for _, c := range rec.Result().Cookies() {
		assert.NotEqual(t, auth.SessionCookieName, c.Name, "no session cookie without a stored session")
	}

	token, err := auth.NewJWTService("test-secret").GenerateSessionToken(auth.NewSessionID(), "user-1", "offline@example.com", time.Hour)
	require.NoError(t, err)
	rec = s.do(t, http.MethodPost, "/api/auth/logout", nil, &http.Cookie{Name: auth.SessionCookieName, Value: token})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/register", map[string]string{"email": "  Traveller@Example.com ", "password": "secret1"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password")
	user := decode(t, rec)["user"].(map[string]interface{})
	assert.Equal(t, "traveller@example.com", user["email"])
	assert.Equal(t, "traveller", user["name"])

	rec = s.do(t, http.MethodPost, "/api/register", map[string]string{"email": "traveller@example.com", "password": "secret1"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "USER_ALREADY_EXISTS", decode(t, rec)["code"])

	rec = s.do(t, http.MethodPost, "/api/register", map[string]string{"email": "other@example.com", "password": "123"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "traveller@example.com", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	cookie := s.login(t, "traveller@example.com", "secret1")
	assert.True(t, cookie.HttpOnly)

	rec = s.do(t, http.MethodGet, "/api/me", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password")

	rec = s.do(t, http.MethodPut, "/api/me", map[string]string{"bio": "Люблю горы"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Люблю горы", decode(t, rec)["user"].(map[string]interface{})["bio"])

	rec = s.do(t, http.MethodPost, "/api/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/me", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "session is gone after logout")
}

func TestValidateResetToken(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "anna@example.com", "secret1")

	var user model.User
	require.NoError(t, s.db.Where("email = ?", "anna@example.com").First(&user).Error)
	now := time.Now().UTC()
	require.NoError(t, s.db.Create(&model.PasswordResetToken{UserID: user.ID, Token: "expired", Expires: now.Add(-time.Minute)}).Error)
	require.NoError(t, s.db.Create(&model.PasswordResetToken{UserID: user.ID, Token: "used", Expires: now.Add(time.Hour), Used: true}).Error)
	require.NoError(t, s.db.Create(&model.PasswordResetToken{UserID: user.ID, Token: "fresh", Expires: now.Add(time.Hour)}).Error)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantValid  bool
		wantError  bool
	}{
		{name: "missing token", query: "", wantStatus: http.StatusBadRequest},
		{name: "unknown token", query: "?token=nope", wantStatus: http.StatusBadRequest, wantError: true},
		{name: "expired token", query: "?token=expired", wantStatus: http.StatusBadRequest, wantError: true},
		{name: "used token", query: "?token=used", wantStatus: http.StatusBadRequest, wantError: true},
		{name: "valid token", query: "?token=fresh", wantStatus: http.StatusOK, wantValid: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, "/api/auth/validate-reset-token"+tt.query, nil, nil)
			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, tt.wantValid, body["valid"])
			_, hasError := body["error"]
			assert.Equal(t, tt.wantError, hasError)
			if tt.wantValid {
				assert.Equal(t, "anna@example.com", body["email"])
			}
		})
	}
}

func TestPasswordResetFlow(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "boris@example.com", "secret1")

	rec := s.do(t, http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": "nobody@example.com"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, s.mailer.sent, "unknown addresses get no mail")

	rec = s.do(t, http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": "boris@example.com"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(s.mailer.sent[0].resetURL, "http://travel.test/auth/reset-password/"))
	token := s.mailer.lastToken(t)

	rec = s.do(t, http.MethodPost, "/api/auth/reset-password", map[string]string{"token": token, "password": "NewPass1!", "confirmPassword": "Other1!"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "PASSWORD_MISMATCH", decode(t, rec)["code"])

	rec = s.do(t, http.MethodPost, "/api/auth/reset-password", map[string]string{"token": token, "password": "weak", "confirmPassword": "weak"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["details"])

	rec = s.do(t, http.MethodPost, "/api/auth/reset-password", map[string]string{"token": token, "password": "NewPass1!", "confirmPassword": "NewPass1!"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, s.mailer.notes)

	rec = s.do(t, http.MethodPost, "/api/auth/reset-password", map[string]string{"token": token, "password": "Another2@", "confirmPassword": "Another2@"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "a token is single-use")
	assert.Equal(t, "INVALID_RESET_TOKEN", decode(t, rec)["code"])

	rec = s.do(t, http.MethodGet, "/api/auth/validate-reset-token?token="+token, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "boris@example.com", "password": "secret1"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	s.login(t, "boris@example.com", "NewPass1!")
}

func TestWishlistRejectsDuplicates(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "vera@example.com", "secret1")
	cookie := s.login(t, "vera@example.com", "secret1")

	country := &model.Country{Name: "Норвегия", Code: "NO"}
	require.NoError(t, s.db.Create(country).Error)

	rec := s.do(t, http.MethodPost, "/api/wishlist", map[string]interface{}{"countryId": country.ID, "priority": 2}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	item := decode(t, rec)["item"].(map[string]interface{})

	rec = s.do(t, http.MethodPost, "/api/wishlist", map[string]interface{}{"countryId": country.ID}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ALREADY_ADDED", decode(t, rec)["code"])

	rec = s.do(t, http.MethodPost, "/api/wishlist", map[string]interface{}{}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/wishlist", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["items"], 1)

	rec = s.do(t, http.MethodDelete, "/api/wishlist", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/wishlist?id="+item["id"].(string), nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["success"])
}

func TestResourcesAreScopedToOwner(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "owner@example.com", "secret1")
	s.register(t, "intruder@example.com", "secret1")
	owner := s.login(t, "owner@example.com", "secret1")
	intruder := s.login(t, "intruder@example.com", "secret1")

	rec := s.do(t, http.MethodPost, "/api/routes", map[string]interface{}{
		"title":  "Север Италии",
		"points": []map[string]interface{}{{"title": "Милан"}, {"title": "Комо", "day": 2}},
	}, owner)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	routeID := decode(t, rec)["route"].(map[string]interface{})["id"].(string)

	rec = s.do(t, http.MethodPost, "/api/reviews", map[string]interface{}{"cityId": "2", "content": "Вечный город", "rating": 5}, owner)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reviewID := decode(t, rec)["review"].(map[string]interface{})["id"].(string)

	for _, tc := range []struct {
		method, path string
		body         interface{}
	}{
		{http.MethodGet, "/api/routes/" + routeID, nil},
		{http.MethodPut, "/api/routes/" + routeID, map[string]interface{}{"title": "Мой маршрут"}},
		{http.MethodDelete, "/api/routes/" + routeID, nil},
		{http.MethodPut, "/api/reviews/" + reviewID, map[string]interface{}{"content": "чужой"}},
		{http.MethodDelete, "/api/reviews/" + reviewID, nil},
	} {
		rec := s.do(t, tc.method, tc.path, tc.body, intruder)
		assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", tc.method, tc.path)
	}

	rec = s.do(t, http.MethodGet, "/api/routes/"+routeID, nil, owner)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Север Италии", decode(t, rec)["route"].(map[string]interface{})["title"])

	rec = s.do(t, http.MethodGet, "/api/reviews?cityId=2", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["reviews"], 1)

	rec = s.do(t, http.MethodGet, "/api/public/routes/"+routeID, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "private routes are hidden")
}

func TestCatalogEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/countries", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fallback", decode(t, rec)["source"])

	rec = s.do(t, http.MethodGet, "/api/cities/1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "database", decode(t, rec)["source"])

	rec = s.do(t, http.MethodGet, "/api/countries/%D1%84%D1%80%D0%B0%D0%BD%D1%86%D0%B8%D1%8F", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "database", decode(t, rec)["source"])

	rec = s.do(t, http.MethodGet, "/api/attractions/999", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, rec)["code"])

	rec = s.do(t, http.MethodGet, "/no-such-page", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["error"])

	rec = s.do(t, http.MethodPost, "/api/seed", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/public/routes", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["routes"], 2)

	rec = s.do(t, http.MethodGet, "/api/articles", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["articles"], 4)
}
