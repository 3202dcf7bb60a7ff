package router

import (
	stderrors "errors"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"travelguide/internal/config"
	apperrors "travelguide/internal/errors"
	"travelguide/internal/handler"
)

// Handlers groups every HTTP handler the API exposes.
type Handlers struct {
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Catalog     *handler.CatalogHandler
	Route       *handler.RouteHandler
	Review      *handler.ReviewHandler
	Place       *handler.PlaceHandler
	TravelNote  *handler.TravelNoteHandler
	Seed        *handler.SeedHandler
	SessionAuth []echo.MiddlewareFunc
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, h Handlers) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: newValidator()}
	e.HTTPErrorHandler = ErrorHandler(cfg.IsDevelopment())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/register", h.Auth.Register)
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/logout", h.Auth.Logout)
	api.POST("/auth/forgot-password", h.Auth.ForgotPassword)
	api.GET("/auth/validate-reset-token", h.Auth.ValidateResetToken)
	api.POST("/auth/reset-password", h.Auth.ResetPassword)

	api.GET("/continents", h.Catalog.ListContinents)
	api.GET("/countries", h.Catalog.ListCountries)
	api.GET("/countries/:slug", h.Catalog.GetCountry)
	api.GET("/cities", h.Catalog.ListCities)
	api.GET("/cities/:id", h.Catalog.GetCity)
	api.GET("/attractions", h.Catalog.ListAttractions)
	api.GET("/attractions/:id", h.Catalog.GetAttraction)
	api.GET("/articles", h.Catalog.ListArticles)
	api.GET("/articles/:slug", h.Catalog.GetArticle)
	api.GET("/public/routes", h.Catalog.ListPublicRoutes)
	api.GET("/public/routes/:id", h.Catalog.GetPublicRoute)
	api.GET("/public/travel-notes", h.Catalog.ListPublicNotes)

	api.GET("/reviews", h.Review.List)
	api.GET("/reviews/:id", h.Review.Get)

	if cfg.IsDevelopment() && h.Seed != nil {
		api.POST("/seed", h.Seed.Seed)
	}

	// Secured routes (require a session cookie)
	secured := api.Group("", h.SessionAuth...)

	secured.GET("/me", h.User.GetMe)
	secured.PUT("/me", h.User.UpdateMe)
	secured.PUT("/me/password", h.User.ChangePassword)

	secured.GET("/routes", h.Route.List)
	secured.POST("/routes", h.Route.Create)
	secured.GET("/routes/:id", h.Route.Get)
	secured.PUT("/routes/:id", h.Route.Update)
	secured.DELETE("/routes/:id", h.Route.Delete)

	secured.POST("/reviews", h.Review.Create)
	secured.PUT("/reviews/:id", h.Review.Update)
	secured.DELETE("/reviews/:id", h.Review.Delete)
	secured.POST("/ratings", h.Review.Rate)

	secured.GET("/visited-places", h.Place.ListVisited)
	secured.POST("/visited-places", h.Place.AddVisited)
	secured.DELETE("/visited-places", h.Place.RemoveVisited)

	secured.GET("/wishlist", h.Place.ListWishlist)
	secured.POST("/wishlist", h.Place.AddToWishlist)
	secured.DELETE("/wishlist", h.Place.RemoveFromWishlist)

	secured.GET("/travel-notes", h.TravelNote.List)
	secured.POST("/travel-notes", h.TravelNote.Create)
}

// ErrorHandler renders every error as an errors.ErrorResponse. The cause of a
// 5xx is only exposed in details when exposeDetails is set.
func ErrorHandler(exposeDetails bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		body := apperrors.ErrorResponse{Error: "internal server error", Code: "INTERNAL_ERROR"}

		var he *echo.HTTPError
		if stderrors.As(err, &he) {
			code = he.Code
			switch msg := he.Message.(type) {
			case apperrors.ErrorResponse:
				body = msg
			case string:
				body = apperrors.ErrorResponse{Error: msg}
			default:
				body = apperrors.ErrorResponse{Error: http.StatusText(code)}
			}
			if code >= http.StatusInternalServerError && exposeDetails && he.Internal != nil {
				body.Details = he.Internal.Error()
			}
		} else if exposeDetails {
			body.Details = err.Error()
		}

		if code >= http.StatusInternalServerError {
			log.Printf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			log.Printf("write error response: %v", err)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
