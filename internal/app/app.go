// Package app assembles repositories, services and handlers into an echo server.
package app

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"travelguide/internal/auth"
	"travelguide/internal/cache"
	"travelguide/internal/config"
	"travelguide/internal/fallback"
	"travelguide/internal/handler"
	"travelguide/internal/mail"
	"travelguide/internal/repository"
	"travelguide/internal/router"
	"travelguide/internal/service"
)

// Services is the fully wired service layer.
type Services struct {
	JWT        *auth.JWTService
	Sessions   auth.SessionStoreInterface
	Users      repository.UserRepository
	Auth       service.AuthService
	Profile    service.UserService
	Catalog    service.CatalogService
	Routes     service.RouteService
	Reviews    service.ReviewService
	Places     service.PlaceService
	Notes      service.TravelNoteService
	Seed       service.SeedService
	Reconciler service.Reconciler
}

// NewServices builds every repository and service on top of gormDB.
func NewServices(cfg *config.Config, gormDB *gorm.DB, cacheClient *cache.Client, mailer mail.Mailer) *Services {
	static := fallback.MustNew()

	// Initialize repositories
	catalogRepos := service.CatalogRepositories{
		Continents:  repository.NewContinentRepository(gormDB),
		Countries:   repository.NewCountryRepository(gormDB),
		Cities:      repository.NewCityRepository(gormDB),
		Attractions: repository.NewAttractionRepository(gormDB),
		Reviews:     repository.NewReviewRepository(gormDB),
		Articles:    repository.NewArticleRepository(gormDB),
		Routes:      repository.NewRouteRepository(gormDB),
	}
	userRepo := repository.NewUserRepository(gormDB)
	resetRepo := repository.NewPasswordResetRepository(gormDB)
	ratingRepo := repository.NewRatingRepository(gormDB)
	visitedRepo := repository.NewVisitedPlaceRepository(gormDB)
	wishlistRepo := repository.NewWishlistRepository(gormDB)
	noteRepo := repository.NewTravelNoteRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.SessionSecret)
	sessions := auth.NewSessionStore(cacheClient)

	// Initialize services
	reconciler := service.NewReconciler(catalogRepos.Continents, catalogRepos.Countries, catalogRepos.Cities, static, cacheClient)
	resolver := service.NewPlaceResolver(catalogRepos.Countries, catalogRepos.Cities, catalogRepos.Attractions, reconciler, static)

	return &Services{
		JWT:      jwtService,
		Sessions: sessions,
		Users:    userRepo,
		Auth: service.NewAuthService(userRepo, resetRepo, jwtService, sessions, mailer, service.AuthOptions{
			BaseURL:    cfg.BaseURL,
			SessionTTL: cfg.SessionTTL,
		}),
		Profile:    service.NewUserService(userRepo, cacheClient),
		Catalog:    service.NewCatalogService(catalogRepos, reconciler, static, cacheClient),
		Routes:     service.NewRouteService(catalogRepos.Routes),
		Reviews:    service.NewReviewService(catalogRepos.Reviews, ratingRepo, resolver),
		Places:     service.NewPlaceService(visitedRepo, wishlistRepo, resolver),
		Notes:      service.NewTravelNoteService(noteRepo),
		Seed:       service.NewSeedService(catalogRepos, userRepo, reconciler, static),
		Reconciler: reconciler,
	}
}

// New returns an echo server with every route registered.
func New(cfg *config.Config, gormDB *gorm.DB, cacheClient *cache.Client, mailer mail.Mailer) *echo.Echo {
	svc := NewServices(cfg, gormDB, cacheClient, mailer)

	e := echo.New()
	e.HideBanner = true

	// Register routes
	router.Register(e, cfg, router.Handlers{
		Auth:        handler.NewAuthHandler(svc.Auth, svc.JWT, !cfg.IsDevelopment()),
		User:        handler.NewUserHandler(svc.Profile),
		Catalog:     handler.NewCatalogHandler(svc.Catalog, svc.Notes),
		Route:       handler.NewRouteHandler(svc.Routes),
		Review:      handler.NewReviewHandler(svc.Reviews),
		Place:       handler.NewPlaceHandler(svc.Places),
		TravelNote:  handler.NewTravelNoteHandler(svc.Notes),
		Seed:        handler.NewSeedHandler(svc.Seed),
		SessionAuth: auth.SessionMiddleware(svc.JWT, svc.Sessions, svc.Users),
	})
	return e
}
