package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"travelguide/internal/auth"
	"travelguide/internal/fallback"
	"travelguide/internal/model"
	"travelguide/internal/repository"
)

const (
	seedAdminEmail    = "admin@travelguide.com"
	seedAdminPassword = "test123"
)

// SeedReport counts the rows a seeding run created.
type SeedReport struct {
	Continents  int `json:"continents"`
	Countries   int `json:"countries"`
	Cities      int `json:"cities"`
	Attractions int `json:"attractions"`
	Users       int `json:"users"`
	Articles    int `json:"articles"`
	Routes      int `json:"routes"`
}

// SeedService fills an empty database with the static catalogue and demo content.
// Running it again only adds what is missing.
type SeedService interface {
	Seed(ctx context.Context) (*SeedReport, error)
}

type seedService struct {
	repos      CatalogRepositories
	users      repository.UserRepository
	reconciler Reconciler
	static     *fallback.Provider
}

// NewSeedService creates a new seed service.
func NewSeedService(repos CatalogRepositories, users repository.UserRepository, reconciler Reconciler, static *fallback.Provider) SeedService {
	return &seedService{
		repos:      repos,
		users:      users,
		reconciler: reconciler,
		static:     static,
	}
}

func (s *seedService) Seed(ctx context.Context) (*SeedReport, error) {
	report := &SeedReport{}

	log.Println("seed: continents...")
	for _, c := range s.static.Continents() {
		if _, err := s.repos.Continents.FindByCode(ctx, c.Code); err == nil {
			continue
		} else if !repository.IsNotFound(err) {
			return report, err
		}
		if err := s.repos.Continents.Create(ctx, &model.Continent{Name: c.Name, Code: c.Code, Description: optional(c.Description)}); err != nil {
			return report, fmt.Errorf("seed continent %s: %w", c.Name, err)
		}
		report.Continents++
	}

	log.Println("seed: countries...")
	for _, c := range s.static.Countries() {
		existed := s.countryExists(ctx, c.Name)
		if _, err := s.reconciler.CountryFromFallback(ctx, c); err != nil {
			return report, fmt.Errorf("seed country %s: %w", c.Name, err)
		}
		if !existed {
			report.Countries++
		}
	}

	log.Println("seed: cities...")
	for _, c := range s.static.Cities() {
		_, err := s.repos.Cities.FindByID(ctx, c.ID)
		existed := err == nil
		if _, err := s.reconciler.CityFromFallback(ctx, c); err != nil {
			return report, fmt.Errorf("seed city %s: %w", c.Name, err)
		}
		if !existed {
			report.Cities++
		}
	}

	log.Println("seed: attractions...")
	for _, a := range s.static.Attractions() {
		created, err := s.seedAttraction(ctx, a)
		if err != nil {
			return report, err
		}
		if created {
			report.Attractions++
		}
	}

	log.Println("seed: admin user...")
	admin, created, err := s.seedAdmin(ctx)
	if err != nil {
		return report, err
	}
	if created {
		report.Users++
		log.Printf("seed: admin user created (email: %s, password: %s)", seedAdminEmail, seedAdminPassword)
	}

	log.Println("seed: routes...")
	routes, err := s.seedRoutes(ctx, admin.ID)
	if err != nil {
		return report, err
	}
	report.Routes = routes

	log.Println("seed: articles...")
	articles, err := s.seedArticles(ctx, admin.ID)
	if err != nil {
		return report, err
	}
	report.Articles = articles

	log.Printf("seed: done %+v", *report)
	return report, nil
}

func (s *seedService) countryExists(ctx context.Context, name string) bool {
	_, err := s.repos.Countries.FindByName(ctx, name)
	return err == nil
}

func (s *seedService) seedAttraction(ctx context.Context, a fallback.Attraction) (bool, error) {
	if _, err := s.repos.Attractions.FindByID(ctx, a.ID); err == nil {
		return false, nil
	}
	if _, err := s.repos.Attractions.FindByName(ctx, a.Name); err == nil {
		return false, nil
	}

	attraction := &model.Attraction{
		ID:           a.ID,
		Name:         a.Name,
		Description:  optional(a.Description),
		Image:        optional(a.Image),
		Latitude:     a.Latitude,
		Longitude:    a.Longitude,
		Address:      optional(a.Address),
		OpeningHours: optional(a.OpeningHours),
		Currency:     optional(a.Currency),
	}
	if a.Price != "" {
		if price, err := decimal.NewFromString(a.Price); err == nil {
			attraction.Price = decimal.NewNullDecimal(price)
		}
	}
	if country, err := s.repos.Countries.FindByName(ctx, a.Country); err == nil {
		attraction.CountryID = &country.ID
		if city, err := s.repos.Cities.FindByNameAndCountry(ctx, a.City, country.ID); err == nil {
			attraction.CityID = &city.ID
		}
	}

	if err := s.repos.Attractions.Create(ctx, attraction); err != nil {
		if repository.IsDuplicate(err) {
			return false, nil
		}
		return false, fmt.Errorf("seed attraction %s: %w", a.Name, err)
	}
	return true, nil
}

func (s *seedService) seedAdmin(ctx context.Context) (*model.User, bool, error) {
	if user, err := s.users.FindByEmail(ctx, seedAdminEmail); err == nil {
		return user, false, nil
	} else if !repository.IsNotFound(err) {
		return nil, false, err
	}

	hashed, err := auth.HashPassword(seedAdminPassword)
	if err != nil {
		return nil, false, err
	}
	user := &model.User{
		Email:        seedAdminEmail,
		Name:         "Администратор",
		PasswordHash: hashed,
		Role:         model.RoleAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, false, fmt.Errorf("seed admin: %w", err)
	}
	return user, true, nil
}

func (s *seedService) seedRoutes(ctx context.Context, userID string) (int, error) {
	existing, err := s.repos.Routes.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	paris := s.cityRef(ctx, "1")
	france := s.countryRef(ctx, "Франция")
	eiffel := s.attractionRef(ctx, "1")

	routes := []*model.Route{
		{
			Title:       "Тур по Парижу",
			Description: optional("Идеальный маршрут для первого знакомства с Парижем. Посетите главные достопримечательности за 3 дня."),
			Duration:    intPtr(3),
			Image:       optional("/france.jpg"),
			IsPublic:    true,
			UserID:      userID,
			Points: []model.RoutePoint{
				{Day: 1, Order: 1, Title: optional("Эйфелева башня"), Description: optional("Начните день с посещения символа Парижа"), AttractionID: eiffel, CityID: paris, CountryID: france, Latitude: floatPtr(48.8584), Longitude: floatPtr(2.2945)},
				{Day: 1, Order: 2, Title: optional("Лувр"), Description: optional("Посетите один из крупнейших музеев мира"), CityID: paris, CountryID: france, Latitude: floatPtr(48.8606), Longitude: floatPtr(2.3376)},
				{Day: 2, Order: 1, Title: optional("Нотр-Дам"), Description: optional("Готический собор на острове Сите"), CityID: paris, CountryID: france, Latitude: floatPtr(48.8530), Longitude: floatPtr(2.3499)},
			},
		},
		{
			Title:       "Рим и Ватикан",
			Description: optional("Погружение в историю Древнего Рима и Ватикана. Изучите древние руины и великолепные церкви."),
			Duration:    intPtr(5),
			Image:       optional("/italy.jpg"),
			IsPublic:    true,
			UserID:      userID,
		},
	}

	for _, route := range routes {
		if err := s.repos.Routes.Create(ctx, route); err != nil {
			return 0, fmt.Errorf("seed route %s: %w", route.Title, err)
		}
	}
	return len(routes), nil
}

type seedArticle struct {
	title, slug, excerpt, content string
}

var seedArticles = []seedArticle{
	{
		title:   "10 секретов бюджетного путешествия",
		slug:    "10-секретов-бюджетного-путешествия",
		excerpt: "Как путешествовать часто и не разориться. Проверенные способы экономии на перелетах, жилье и питании.",
		content: "<p>Путешествия не должны стоить целое состояние! Вот проверенные способы экономии, которые помогут вам путешествовать чаще и дальше.</p><h2>1. Гибкие даты и раннее бронирование</h2><p>Используйте календари низких цен авиакомпаний. Бронируйте билеты за 2-3 месяца до поездки.</p>",
	},
	{
		title:   "Лучшие места для посещения осенью",
		slug:    "лучшие-места-для-посещения-осенью",
		excerpt: "Куда поехать, чтобы насладиться золотой осенью в разных уголках мира.",
		content: "<p>Осень — идеальное время для путешествий: мягкая погода, меньше туристов и невероятные краски природы.</p><h2>Япония — сезон красных кленов</h2><p>Сентябрь-ноябрь — время момидзи (красных кленов).</p>",
	},
	{
		title:   "Что взять в поездку на 2 недели",
		slug:    "что-взять-в-поездку-на-2-недели",
		excerpt: "Советы по упаковке чемодана для двухнедельного путешествия.",
		content: "<p>Правильная упаковка — залог комфортного путешествия.</p><h2>Одежда</h2><p>5-7 футболок/блузок, 2-3 пары брюк, удобная обувь.</p>",
	},
	{
		title:   "Как получить визу самостоятельно",
		slug:    "как-получить-визу-самостоятельно",
		excerpt: "Пошаговое руководство по оформлению виз в разные страны.",
		content: "<p>Оформление визы самостоятельно может сэкономить деньги.</p><h2>Шаг 1: Определите тип визы</h2><p>Туристическая, транзитная, деловая.</p>",
	},
}

func (s *seedService) seedArticles(ctx context.Context, authorID string) (int, error) {
	created := 0
	now := time.Now().UTC()
	for _, a := range seedArticles {
		if _, err := s.repos.Articles.FindPublishedBySlug(ctx, a.slug); err == nil {
			continue
		}
		article := &model.Article{
			Title:       a.title,
			Slug:        a.slug,
			Content:     a.content,
			Excerpt:     optional(a.excerpt),
			Image:       optional("/globe.svg"),
			AuthorID:    &authorID,
			IsPublished: true,
			PublishedAt: &now,
		}
		if err := s.repos.Articles.Create(ctx, article); err != nil {
			if repository.IsDuplicate(err) {
				continue
			}
			return created, fmt.Errorf("seed article %s: %w", a.slug, err)
		}
		created++
	}
	return created, nil
}

func (s *seedService) cityRef(ctx context.Context, id string) *string {
	if c, err := s.repos.Cities.FindByID(ctx, id); err == nil {
		return &c.ID
	}
	return nil
}

func (s *seedService) countryRef(ctx context.Context, name string) *string {
	if c, err := s.repos.Countries.FindByName(ctx, name); err == nil {
		return &c.ID
	}
	return nil
}

func (s *seedService) attractionRef(ctx context.Context, id string) *string {
	if a, err := s.repos.Attractions.FindByID(ctx, id); err == nil {
		return &a.ID
	}
	return nil
}

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}
