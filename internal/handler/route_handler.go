package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"travelguide/internal/service"
)

// RouteHandler manages the signed-in user's routes.
type RouteHandler struct {
	routes service.RouteService
}

// NewRouteHandler creates a new route handler.
func NewRouteHandler(routes service.RouteService) *RouteHandler {
	return &RouteHandler{routes: routes}
}

// RoutePointRequest is one stop of a route. An absent day defaults to 1 and an absent order to the position in the list.
type RoutePointRequest struct {
	Day          *int     `json:"day"`
	Order        *int     `json:"order"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	CityID       string   `json:"cityId"`
	CountryID    string   `json:"countryId"`
	AttractionID string   `json:"attractionId"`
	Latitude     *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude    *float64 `json:"longitude" validate:"omitempty,longitude"`
}

// CreateRouteRequest creates a route with its points.
type CreateRouteRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Duration    *int                `json:"duration" validate:"omitempty,gte=0"`
	Image       string              `json:"image"`
	IsPublic    bool                `json:"isPublic"`
	Points      []RoutePointRequest `json:"points" validate:"dive"`
}

// UpdateRouteRequest edits a route. A present points array replaces every stop.
type UpdateRouteRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Duration    *int                 `json:"duration" validate:"omitempty,gte=0"`
	Image       *string              `json:"image"`
	IsPublic    *bool                `json:"isPublic"`
	Points      *[]RoutePointRequest `json:"points" validate:"omitempty,dive"`
}

func pointInputs(points []RoutePointRequest) []service.PointInput {
	out := make([]service.PointInput, 0, len(points))
	for _, p := range points {
		out = append(out, service.PointInput{
			Day:          p.Day,
			Order:        p.Order,
			Title:        p.Title,
			Description:  p.Description,
			CityID:       p.CityID,
			CountryID:    p.CountryID,
			AttractionID: p.AttractionID,
			Latitude:     p.Latitude,
			Longitude:    p.Longitude,
		})
	}
	return out
}

// List godoc
// @Summary List my routes
// @Tags routes
// @Produce json
// @Success 200 {object} RoutesResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /routes [get]
func (h *RouteHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	routes, err := h.routes.List(c.Request().Context(), user.ID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, RoutesResponse{Routes: routes})
}

// Create godoc
// @Summary Create a route
// @Tags routes
// @Accept json
// @Produce json
// @Param request body CreateRouteRequest true "Route"
// @Success 201 {object} RouteResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /routes [post]
func (h *RouteHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req CreateRouteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	route, err := h.routes.Create(c.Request().Context(), user.ID, service.RouteInput{
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
		Image:       req.Image,
		IsPublic:    req.IsPublic,
		Points:      pointInputs(req.Points),
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, RouteResponse{Route: route})
}

// Get godoc
// @Summary Get one of my routes
// @Tags routes
// @Produce json
// @Param id path string true "Route ID"
// @Success 200 {object} RouteResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /routes/{id} [get]
func (h *RouteHandler) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	route, err := h.routes.Get(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, RouteResponse{Route: route})
}

// Update godoc
// @Summary Update one of my routes
// @Tags routes
// @Accept json
// @Produce json
// @Param id path string true "Route ID"
// @Param request body UpdateRouteRequest true "Changed fields"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /routes/{id} [put]
func (h *RouteHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req UpdateRouteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	update := service.RouteUpdate{
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
		Image:       req.Image,
		IsPublic:    req.IsPublic,
	}
	if req.Points != nil {
		points := pointInputs(*req.Points)
		update.Points = &points
	}

	if _, err := h.routes.Update(c.Request().Context(), user.ID, c.Param("id"), update); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// Delete godoc
// @Summary Delete one of my routes
// @Tags routes
// @Produce json
// @Param id path string true "Route ID"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /routes/{id} [delete]
func (h *RouteHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.routes.Delete(c.Request().Context(), user.ID, c.Param("id")); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
