package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"travelguide/internal/cache"
	domainErrors "travelguide/internal/errors"
	"travelguide/internal/fallback"
	"travelguide/internal/model"
	"travelguide/internal/repository"
)

const (
	// SourceDatabase marks a view built from stored rows.
	SourceDatabase = "database"
	// SourceFallback marks a view built from the static data set.
	SourceFallback = "fallback"

	countriesCacheKey = "catalog:countries"
	countriesCacheTTL = 10 * time.Minute
)

// CountrySummary is a country as listed and rendered.
type CountrySummary struct {
	ID          string `json:"id,omitempty"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Code        string `json:"code,omitempty"`
	Flag        string `json:"flag,omitempty"`
	Capital     string `json:"capital,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Continent   string `json:"continent,omitempty"`
	Currency    string `json:"currency,omitempty"`
	Language    string `json:"language,omitempty"`
	Population  string `json:"population,omitempty"`
	Area        string `json:"area,omitempty"`
}

// CountryList is the countries index page.
type CountryList struct {
	Source    string           `json:"source"`
	Countries []CountrySummary `json:"countries"`
}

// CountryPage is a country detail page.
type CountryPage struct {
	Source      string                   `json:"source"`
	Country     CountrySummary           `json:"country"`
	VisaInfo    string                   `json:"visaInfo,omitempty"`
	BestTime    string                   `json:"bestTime,omitempty"`
	Highlights  []string                 `json:"highlights,omitempty"`
	Tips        []string                 `json:"tips,omitempty"`
	Cities      []CitySummary            `json:"cities"`
	Attractions []AttractionSummary      `json:"attractions"`
	Rating      repository.RatingSummary `json:"rating"`
}

// CitySummary is a city as listed and rendered.
type CitySummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Country     string   `json:"country,omitempty"`
	CountrySlug string   `json:"countrySlug,omitempty"`
	Description string   `json:"description,omitempty"`
	Image       string   `json:"image,omitempty"`
	Population  string   `json:"population,omitempty"`
	BestTime    string   `json:"bestTime,omitempty"`
	Climate     string   `json:"climate,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// CityList is the cities index page.
type CityList struct {
	Source string        `json:"source"`
	Cities []CitySummary `json:"cities"`
}

// CityPage is a city detail page.
type CityPage struct {
	Source      string                   `json:"source"`
	City        CitySummary              `json:"city"`
	Highlights  []fallback.Highlight     `json:"highlights,omitempty"`
	Attractions []AttractionSummary      `json:"attractions"`
	Rating      repository.RatingSummary `json:"rating"`
}

// AttractionSummary is an attraction as listed and rendered.
type AttractionSummary struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	City         string   `json:"city,omitempty"`
	Country      string   `json:"country,omitempty"`
	CountrySlug  string   `json:"countrySlug,omitempty"`
	Description  string   `json:"description,omitempty"`
	Image        string   `json:"image,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Address      string   `json:"address,omitempty"`
	OpeningHours string   `json:"openingHours,omitempty"`
	Price        string   `json:"price,omitempty"`
	Currency     string   `json:"currency,omitempty"`
	Rating       float64  `json:"rating,omitempty"`
	Tips         []string `json:"tips,omitempty"`
}

// AttractionList is the attractions index page.
type AttractionList struct {
	Source      string              `json:"source"`
	Attractions []AttractionSummary `json:"attractions"`
}

// AttractionPage is an attraction detail page.
type AttractionPage struct {
	Source     string                   `json:"source"`
	Attraction AttractionSummary        `json:"attraction"`
	Rating     repository.RatingSummary `json:"rating"`
}

// ContinentSummary is a continent as listed.
type ContinentSummary struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
}

// ContinentList is the continents index.
type ContinentList struct {
	Source     string             `json:"source"`
	Continents []ContinentSummary `json:"continents"`
}

// CatalogRepositories groups the stores the catalog reads from.
type CatalogRepositories struct {
	Continents  repository.ContinentRepository
	Countries   repository.CountryRepository
	Cities      repository.CityRepository
	Attractions repository.AttractionRepository
	Reviews     repository.ReviewRepository
	Articles    repository.ArticleRepository
	Routes      repository.RouteRepository
}

// CatalogService builds the public pages, preferring stored rows and
// falling back to static data when the database has none.
type CatalogService interface {
	ListContinents(ctx context.Context) (*ContinentList, error)
	ListCountries(ctx context.Context) (*CountryList, error)
	GetCountry(ctx context.Context, slug string) (*CountryPage, error)
	ListCities(ctx context.Context) (*CityList, error)
	GetCity(ctx context.Context, id string) (*CityPage, error)
	ListAttractions(ctx context.Context) (*AttractionList, error)
	GetAttraction(ctx context.Context, id string) (*AttractionPage, error)
	ListArticles(ctx context.Context) ([]model.Article, error)
	GetArticle(ctx context.Context, slug string) (*model.Article, error)
	ListPublicRoutes(ctx context.Context) ([]model.Route, error)
	GetPublicRoute(ctx context.Context, id string) (*model.Route, error)
}

type catalogService struct {
	repos      CatalogRepositories
	reconciler Reconciler
	static     *fallback.Provider
	cache      *cache.Client
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(repos CatalogRepositories, reconciler Reconciler, static *fallback.Provider, cache *cache.Client) CatalogService {
	return &catalogService{
		repos:      repos,
		reconciler: reconciler,
		static:     static,
		cache:      cache,
	}
}

func (s *catalogService) ListContinents(ctx context.Context) (*ContinentList, error) {
	stored, err := s.repos.Continents.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(stored) > 0 {
		out := &ContinentList{Source: SourceDatabase, Continents: make([]ContinentSummary, 0, len(stored))}
		for _, c := range stored {
			out.Continents = append(out.Continents, ContinentSummary{ID: c.ID, Name: c.Name, Code: c.Code, Description: deref(c.Description)})
		}
		return out, nil
	}

	static := s.static.Continents()
	out := &ContinentList{Source: SourceFallback, Continents: make([]ContinentSummary, 0, len(static))}
	for _, c := range static {
		out.Continents = append(out.Continents, ContinentSummary{Name: c.Name, Code: c.Code, Description: c.Description})
	}
	return out, nil
}

func (s *catalogService) ListCountries(ctx context.Context) (*CountryList, error) {
	if data, _ := s.cache.Get(ctx, countriesCacheKey); data != nil {
		var cached CountryList
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	stored, err := s.repos.Countries.List(ctx)
	if err != nil {
		return nil, err
	}

	var out *CountryList
	if len(stored) > 0 {
		out = &CountryList{Source: SourceDatabase, Countries: make([]CountrySummary, 0, len(stored))}
		for i := range stored {
			out.Countries = append(out.Countries, countryFromModel(&stored[i]))
		}
	} else {
		static := s.static.Countries()
		out = &CountryList{Source: SourceFallback, Countries: make([]CountrySummary, 0, len(static))}
		for _, c := range static {
			out.Countries = append(out.Countries, countryFromStatic(c))
		}
	}

	if payload, err := json.Marshal(out); err == nil {
		_ = s.cache.Set(ctx, countriesCacheKey, payload, countriesCacheTTL)
	}
	return out, nil
}

func (s *catalogService) GetCountry(ctx context.Context, slug string) (*CountryPage, error) {
	country, err := s.repos.Countries.FindBySlug(ctx, slug)
	if err == nil {
		return s.countryPage(ctx, country)
	}
	if !repository.IsNotFound(err) {
		return nil, err
	}

	static, ok := s.static.Country(slug)
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	country, err = s.reconciler.CountryFromFallback(ctx, static)
	if err != nil {
		log.Printf("catalog: serving static country %s: %v", static.Name, err)
		return s.staticCountryPage(static), nil
	}
	return s.countryPage(ctx, country)
}

func (s *catalogService) countryPage(ctx context.Context, country *model.Country) (*CountryPage, error) {
	page := &CountryPage{
		Source:   SourceDatabase,
		Country:  countryFromModel(country),
		VisaInfo: deref(country.VisaInfo),
	}
	if static, ok := s.static.CountryByName(country.Name); ok {
		page.BestTime = static.BestTime
		page.Highlights = static.Attractions
		page.Tips = static.Tips
		if page.VisaInfo == "" {
			page.VisaInfo = static.VisaInfo
		}
	}

	cities, err := s.repos.Cities.ListByCountry(ctx, country.ID)
	if err != nil {
		return nil, err
	}
	page.Cities = make([]CitySummary, 0, len(cities))
	for i := range cities {
		summary := cityFromModel(&cities[i])
		summary.Country = country.Name
		summary.CountrySlug = country.Slug()
		page.Cities = append(page.Cities, summary)
	}

	attractions, err := s.repos.Attractions.ListByCountry(ctx, country.ID)
	if err != nil {
		return nil, err
	}
	page.Attractions = attractionsFromModels(attractions)

	page.Rating, err = s.repos.Reviews.SummaryForPlace(ctx, repository.PlaceCountry, country.ID)
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (s *catalogService) staticCountryPage(c fallback.Country) *CountryPage {
	page := &CountryPage{
		Source:      SourceFallback,
		Country:     countryFromStatic(c),
		VisaInfo:    c.VisaInfo,
		BestTime:    c.BestTime,
		Highlights:  c.Attractions,
		Tips:        c.Tips,
		Cities:      []CitySummary{},
		Attractions: []AttractionSummary{},
	}
	for _, city := range s.static.Cities() {
		if strings.EqualFold(city.CountrySlug, c.Slug) {
			page.Cities = append(page.Cities, cityFromStatic(city))
		}
	}
	for _, a := range s.static.Attractions() {
		if strings.EqualFold(a.CountrySlug, c.Slug) {
			page.Attractions = append(page.Attractions, attractionFromStatic(a))
		}
	}
	return page
}

func (s *catalogService) ListCities(ctx context.Context) (*CityList, error) {
	stored, err := s.repos.Cities.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(stored) > 0 {
		out := &CityList{Source: SourceDatabase, Cities: make([]CitySummary, 0, len(stored))}
		for i := range stored {
			out.Cities = append(out.Cities, cityFromModel(&stored[i]))
		}
		return out, nil
	}

	static := s.static.Cities()
	out := &CityList{Source: SourceFallback, Cities: make([]CitySummary, 0, len(static))}
	for _, c := range static {
		out.Cities = append(out.Cities, cityFromStatic(c))
	}
	return out, nil
}

func (s *catalogService) GetCity(ctx context.Context, id string) (*CityPage, error) {
	city, err := s.repos.Cities.FindByID(ctx, id)
	if err == nil {
		return s.cityPage(ctx, city)
	}
	if !repository.IsNotFound(err) {
		return nil, err
	}

	static, ok := s.static.City(id)
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	city, err = s.reconciler.CityFromFallback(ctx, static)
	if err != nil {
		log.Printf("catalog: serving static city %s: %v", static.Name, err)
		return &CityPage{
			Source:      SourceFallback,
			City:        cityFromStatic(static),
			Highlights:  static.Attractions,
			Attractions: s.staticAttractionsIn(static.Name),
		}, nil
	}
	return s.cityPage(ctx, city)
}

func (s *catalogService) cityPage(ctx context.Context, city *model.City) (*CityPage, error) {
	page := &CityPage{Source: SourceDatabase, City: cityFromModel(city)}
	if static, ok := s.static.City(city.ID); ok {
		page.Highlights = static.Attractions
	}

	attractions, err := s.repos.Attractions.ListByCity(ctx, city.ID)
	if err != nil {
		return nil, err
	}
	page.Attractions = attractionsFromModels(attractions)

	page.Rating, err = s.repos.Reviews.SummaryForPlace(ctx, repository.PlaceCity, city.ID)
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (s *catalogService) staticAttractionsIn(city string) []AttractionSummary {
	out := []AttractionSummary{}
	for _, a := range s.static.Attractions() {
		if a.City == city {
			out = append(out, attractionFromStatic(a))
		}
	}
	return out
}

func (s *catalogService) ListAttractions(ctx context.Context) (*AttractionList, error) {
	stored, err := s.repos.Attractions.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(stored) > 0 {
		return &AttractionList{Source: SourceDatabase, Attractions: attractionsFromModels(stored)}, nil
	}

	static := s.static.Attractions()
	out := &AttractionList{Source: SourceFallback, Attractions: make([]AttractionSummary, 0, len(static))}
	for _, a := range static {
		out.Attractions = append(out.Attractions, attractionFromStatic(a))
	}
	return out, nil
}

func (s *catalogService) GetAttraction(ctx context.Context, id string) (*AttractionPage, error) {
	attraction, err := s.repos.Attractions.FindByID(ctx, id)
	if err == nil {
		rating, err := s.repos.Reviews.SummaryForPlace(ctx, repository.PlaceAttraction, attraction.ID)
		if err != nil {
			return nil, err
		}
		return &AttractionPage{Source: SourceDatabase, Attraction: attractionFromModel(attraction), Rating: rating}, nil
	}
	if !repository.IsNotFound(err) {
		return nil, err
	}

	static, ok := s.static.Attraction(id)
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &AttractionPage{Source: SourceFallback, Attraction: attractionFromStatic(static)}, nil
}

func (s *catalogService) ListArticles(ctx context.Context) ([]model.Article, error) {
	return s.repos.Articles.ListPublished(ctx)
}

// GetArticle returns a published article and counts the view.
func (s *catalogService) GetArticle(ctx context.Context, slug string) (*model.Article, error) {
	article, err := s.repos.Articles.FindPublishedBySlug(ctx, slug)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if err := s.repos.Articles.IncrementViews(ctx, article.ID); err != nil {
		log.Printf("catalog: failed to count view of %s: %v", article.Slug, err)
	} else {
		article.Views++
	}
	return article, nil
}

func (s *catalogService) ListPublicRoutes(ctx context.Context) ([]model.Route, error) {
	return s.repos.Routes.ListPublic(ctx)
}

// GetPublicRoute hides private routes behind not found.
func (s *catalogService) GetPublicRoute(ctx context.Context, id string) (*model.Route, error) {
	route, err := s.repos.Routes.FindPublicByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return route, nil
}

func countryFromModel(c *model.Country) CountrySummary {
	out := CountrySummary{
		ID:          c.ID,
		Slug:        c.Slug(),
		Name:        c.Name,
		Code:        c.Code,
		Flag:        deref(c.Flag),
		Capital:     deref(c.Capital),
		Description: deref(c.Description),
		Image:       deref(c.Image),
		Currency:    deref(c.Currency),
		Language:    deref(c.Language),
	}
	if c.Continent != nil {
		out.Continent = c.Continent.Name
	}
	if c.Population != nil {
		out.Population = FormatPopulation(*c.Population)
	}
	if c.Area != nil {
		out.Area = FormatArea(*c.Area)
	}
	return out
}

func countryFromStatic(c fallback.Country) CountrySummary {
	return CountrySummary{
		Slug:        c.Slug,
		Name:        c.Name,
		Code:        c.Code,
		Flag:        c.Flag,
		Capital:     c.Capital,
		Description: c.Description,
		Image:       c.Image,
		Continent:   c.Continent,
		Currency:    c.Currency,
		Language:    c.Language,
		Population:  c.Population,
		Area:        c.Area,
	}
}

func cityFromModel(c *model.City) CitySummary {
	out := CitySummary{
		ID:          c.ID,
		Name:        c.Name,
		Description: deref(c.Description),
		Image:       deref(c.Image),
		BestTime:    deref(c.BestTime),
		Climate:     deref(c.Climate),
		Latitude:    c.Latitude,
		Longitude:   c.Longitude,
	}
	if c.Country != nil {
		out.Country = c.Country.Name
		out.CountrySlug = c.Country.Slug()
	}
	if c.Population != nil {
		out.Population = FormatPopulation(*c.Population)
	}
	return out
}

func cityFromStatic(c fallback.City) CitySummary {
	return CitySummary{
		ID:          c.ID,
		Name:        c.Name,
		Country:     c.Country,
		CountrySlug: c.CountrySlug,
		Description: c.Description,
		Image:       c.Image,
		Population:  c.Population,
		BestTime:    c.BestTime,
		Climate:     c.Climate,
		Latitude:    c.Latitude,
		Longitude:   c.Longitude,
	}
}

func attractionFromModel(a *model.Attraction) AttractionSummary {
	out := AttractionSummary{
		ID:           a.ID,
		Name:         a.Name,
		Description:  deref(a.Description),
		Image:        deref(a.Image),
		Latitude:     a.Latitude,
		Longitude:    a.Longitude,
		Address:      deref(a.Address),
		OpeningHours: deref(a.OpeningHours),
		Currency:     deref(a.Currency),
	}
	if a.Price.Valid {
		out.Price = a.Price.Decimal.String()
	}
	if a.City != nil {
		out.City = a.City.Name
	}
	if a.Country != nil {
		out.Country = a.Country.Name
		out.CountrySlug = a.Country.Slug()
	}
	return out
}

func attractionsFromModels(attractions []model.Attraction) []AttractionSummary {
	out := make([]AttractionSummary, 0, len(attractions))
	for i := range attractions {
		out = append(out, attractionFromModel(&attractions[i]))
	}
	return out
}

func attractionFromStatic(a fallback.Attraction) AttractionSummary {
	return AttractionSummary{
		ID:           a.ID,
		Name:         a.Name,
		City:         a.City,
		Country:      a.Country,
		CountrySlug:  a.CountrySlug,
		Description:  a.Description,
		Image:        a.Image,
		Latitude:     a.Latitude,
		Longitude:    a.Longitude,
		Address:      a.Address,
		OpeningHours: a.OpeningHours,
		Price:        a.Price,
		Currency:     a.Currency,
		Rating:       a.Rating,
		Tips:         a.Tips,
	}
}

// FormatPopulation renders a head count the way the static data writes it, e.g. "2.1 млн".
func FormatPopulation(n int64) string {
	return fmt.Sprintf("%.1f млн", float64(n)/1_000_000)
}

// FormatArea renders square kilometres with thousands separators, e.g. "643,801 км²".
func FormatArea(n int64) string {
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String() + " км²"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
