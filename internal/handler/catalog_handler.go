package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"travelguide/internal/model"
	"travelguide/internal/service"
)

// CatalogHandler serves the public browsing pages.
type CatalogHandler struct {
	catalog service.CatalogService
	notes   service.TravelNoteService
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalog service.CatalogService, notes service.TravelNoteService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, notes: notes}
}

// ArticlesResponse wraps the article list.
type ArticlesResponse struct {
	Articles []model.Article `json:"articles"`
}

// ArticleResponse wraps one article.
type ArticleResponse struct {
	Article *model.Article `json:"article"`
}

// RoutesResponse wraps a route list.
type RoutesResponse struct {
	Routes []model.Route `json:"routes"`
}

// RouteResponse wraps one route.
type RouteResponse struct {
	Route *model.Route `json:"route"`
}

// TravelNotesResponse wraps a travel note list.
type TravelNotesResponse struct {
	Notes []model.TravelNote `json:"notes"`
}

// ListContinents godoc
// @Summary List continents
// @Tags catalog
// @Produce json
// @Success 200 {object} service.ContinentList
// @Router /continents [get]
func (h *CatalogHandler) ListContinents(c echo.Context) error {
	out, err := h.catalog.ListContinents(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, out)
}

// ListCountries godoc
// @Summary List countries
// @Tags catalog
// @Produce json
// @Success 200 {object} service.CountryList
// @Router /countries [get]
func (h *CatalogHandler) ListCountries(c echo.Context) error {
	out, err := h.catalog.ListCountries(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, out)
}

// GetCountry godoc
// @Summary Country page
// @Description Stored countries win; a static country is saved on first view.
// @Tags catalog
// @Produce json
// @Param slug path string true "Country slug"
// @Success 200 {object} service.CountryPage
// @Failure 404 {object} errors.ErrorResponse
// @Router /countries/{slug} [get]
func (h *CatalogHandler) GetCountry(c echo.Context) error {
	out, err := h.catalog.GetCountry(c.Request().Context(), pathParam(c, "slug"))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, out)
}

// ListCities godoc
// @Summary List cities
// @Tags catalog
// @Produce json
// @Success 200 {object} service.CityList
// @Router /cities [get]
func (h *CatalogHandler) ListCities(c echo.Context) error {
	out, err := h.catalog.ListCities(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, out)
}

// GetCity godoc
// @Summary City page
// @Tags catalog
// @Produce json
// @Param id path string true "City ID"
// @Success 200 {object} service.CityPage
// @Failure 404 {object} errors.ErrorResponse
// @Router /cities/{id} [get]
func (h *CatalogHandler) GetCity(c echo.Context) error {
	out, err := h.catalog.GetCity(c.Request().Context(), pathParam(c, "id"))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, out)
}

// ListAttractions godoc
// @Summary List attractions
// @Tags catalog
// @Produce json
// @Success 200 {object} service.AttractionList
// @Router /attractions [get]
func (h *CatalogHandler) ListAttractions(c echo.Context) error {
	out, err := h.catalog.ListAttractions(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, out)
}

// GetAttraction godoc
// @Summary Attraction page
// @Tags catalog
// @Produce json
// @Param id path string true "Attraction ID"
// @Success 200 {object} service.AttractionPage
// @Failure 404 {object} errors.ErrorResponse
// @Router /attractions/{id} [get]
func (h *CatalogHandler) GetAttraction(c echo.Context) error {
	out, err := h.catalog.GetAttraction(c.Request().Context(), pathParam(c, "id"))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, out)
}

// ListArticles godoc
// @Summary List published articles
// @Tags articles
// @Produce json
// @Success 200 {object} ArticlesResponse
// @Router /articles [get]
func (h *CatalogHandler) ListArticles(c echo.Context) error {
	articles, err := h.catalog.ListArticles(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, ArticlesResponse{Articles: articles})
}

// GetArticle godoc
// @Summary Read an article
// @Description Counts a view.
// @Tags articles
// @Produce json
// @Param slug path string true "Article slug"
// @Success 200 {object} ArticleResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /articles/{slug} [get]
func (h *CatalogHandler) GetArticle(c echo.Context) error {
	article, err := h.catalog.GetArticle(c.Request().Context(), pathParam(c, "slug"))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, ArticleResponse{Article: article})
}

// ListPublicRoutes godoc
// @Summary List public routes
// @Tags routes
// @Produce json
// @Success 200 {object} RoutesResponse
// @Router /public/routes [get]
func (h *CatalogHandler) ListPublicRoutes(c echo.Context) error {
	routes, err := h.catalog.ListPublicRoutes(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, RoutesResponse{Routes: routes})
}

// GetPublicRoute godoc
// @Summary Public route
// @Tags routes
// @Produce json
// @Param id path string true "Route ID"
// @Success 200 {object} RouteResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /public/routes/{id} [get]
func (h *CatalogHandler) GetPublicRoute(c echo.Context) error {
	route, err := h.catalog.GetPublicRoute(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, RouteResponse{Route: route})
}

// ListPublicNotes godoc
// @Summary Public travel notes
// @Tags travel-notes
// @Produce json
// @Success 200 {object} TravelNotesResponse
// @Router /public/travel-notes [get]
func (h *CatalogHandler) ListPublicNotes(c echo.Context) error {
	notes, err := h.notes.ListPublic(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, TravelNotesResponse{Notes: notes})
}
