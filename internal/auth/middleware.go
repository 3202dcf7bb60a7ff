package auth

import (
	"context"
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	apperrors "travelguide/internal/errors"
	"travelguide/internal/model"
)

const (
	// SessionCookieName is the HttpOnly cookie carrying the session token.
	SessionCookieName = "session"

	claimsContextKey = "session_claims"
	userContextKey   = "current_user"
)

// UserFinder resolves the user a session belongs to.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// SessionMiddleware authenticates a request: the cookie token must verify,
// its session must still exist server-side, and its user must resolve by email.
func SessionMiddleware(jwtService *JWTService, sessions SessionStoreInterface, users UserFinder) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		echojwt.WithConfig(echojwt.Config{
			TokenLookup: "cookie:" + SessionCookieName,
			ContextKey:  claimsContextKey,
			ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
				return jwtService.ValidateToken(auth)
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return unauthorized()
			},
		}),
		resolveUser(sessions, users),
	}
}

func resolveUser(sessions SessionStoreInterface, users UserFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(claimsContextKey).(*Claims)
			if !ok {
				return unauthorized()
			}

			ctx := c.Request().Context()
			session, err := sessions.Get(ctx, claims.ID)
			if err != nil || session.UserID != claims.UserID {
				return unauthorized()
			}

			user, err := users.FindByEmail(ctx, session.Email)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return echo.NewHTTPError(http.StatusNotFound, apperrors.ErrorResponse{
						Error: apperrors.ErrUserNotFound.Error(),
						Code:  "USER_NOT_FOUND",
					})
				}
				return echo.NewHTTPError(http.StatusInternalServerError, apperrors.ErrorResponse{
					Error: "failed to load user",
					Code:  "INTERNAL_ERROR",
				}).SetInternal(err)
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

func unauthorized() error {
	return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
		Error: apperrors.ErrUnauthorized.Error(),
		Code:  "UNAUTHORIZED",
	})
}

// CurrentUser returns the user resolved by SessionMiddleware.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(userContextKey).(*model.User)
	return user, ok && user != nil
}

// SessionClaims returns the verified token claims of the request, if any.
func SessionClaims(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(claimsContextKey).(*Claims)
	return claims, ok
}
