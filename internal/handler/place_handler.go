package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"travelguide/internal/model"
	"travelguide/internal/service"
)

// PlaceHandler serves the visited-places list and the wishlist.
type PlaceHandler struct {
	places service.PlaceService
}

// NewPlaceHandler creates a new place handler.
func NewPlaceHandler(places service.PlaceService) *PlaceHandler {
	return &PlaceHandler{places: places}
}

// AddVisitedRequest marks a place as visited. VisitDate is RFC 3339 or YYYY-MM-DD.
type AddVisitedRequest struct {
	PlaceRequest
	VisitDate string `json:"visitDate"`
	Notes     string `json:"notes"`
}

// AddWishlistRequest adds a place to the wishlist.
type AddWishlistRequest struct {
	PlaceRequest
	Notes    string `json:"notes"`
	Priority int    `json:"priority" validate:"gte=0"`
}

// VisitedPlacesResponse wraps the visited list.
type VisitedPlacesResponse struct {
	Places []model.VisitedPlace `json:"places"`
}

// VisitedPlaceResponse wraps one visited entry.
type VisitedPlaceResponse struct {
	Place *model.VisitedPlace `json:"place"`
}

// WishlistResponse wraps the wishlist.
type WishlistResponse struct {
	Items []model.WishlistItem `json:"items"`
}

// WishlistItemResponse wraps one wishlist entry.
type WishlistItemResponse struct {
	Item *model.WishlistItem `json:"item"`
}

// ListVisited godoc
// @Summary My visited places
// @Tags visited-places
// @Produce json
// @Success 200 {object} VisitedPlacesResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /visited-places [get]
func (h *PlaceHandler) ListVisited(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	places, err := h.places.ListVisited(c.Request().Context(), user.ID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, VisitedPlacesResponse{Places: places})
}

// AddVisited godoc
// @Summary Mark a place as visited
// @Tags visited-places
// @Accept json
// @Produce json
// @Param request body AddVisitedRequest true "Place"
// @Success 201 {object} VisitedPlaceResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /visited-places [post]
func (h *PlaceHandler) AddVisited(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req AddVisitedRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	visitDate, err := parseDate(req.VisitDate)
	if err != nil {
		return err
	}

	place, err := h.places.AddVisited(c.Request().Context(), user.ID, service.VisitedInput{
		Place:     req.ref(),
		VisitDate: visitDate,
		Notes:     req.Notes,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, VisitedPlaceResponse{Place: place})
}

// RemoveVisited godoc
// @Summary Remove a visited place
// @Tags visited-places
// @Produce json
// @Param id query string true "Entry ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /visited-places [delete]
func (h *PlaceHandler) RemoveVisited(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.places.RemoveVisited(c.Request().Context(), user.ID, c.QueryParam("id")); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// ListWishlist godoc
// @Summary My wishlist
// @Tags wishlist
// @Produce json
// @Success 200 {object} WishlistResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /wishlist [get]
func (h *PlaceHandler) ListWishlist(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	items, err := h.places.ListWishlist(c.Request().Context(), user.ID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, WishlistResponse{Items: items})
}

// AddToWishlist godoc
// @Summary Add a place to the wishlist
// @Tags wishlist
// @Accept json
// @Produce json
// @Param request body AddWishlistRequest true "Place"
// @Success 201 {object} WishlistItemResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /wishlist [post]
func (h *PlaceHandler) AddToWishlist(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req AddWishlistRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.places.AddToWishlist(c.Request().Context(), user.ID, service.WishlistInput{
		Place:    req.ref(),
		Notes:    req.Notes,
		Priority: req.Priority,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, WishlistItemResponse{Item: item})
}

// RemoveFromWishlist godoc
// @Summary Remove a wishlist entry
// @Tags wishlist
// @Produce json
// @Param id query string true "Entry ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /wishlist [delete]
func (h *PlaceHandler) RemoveFromWishlist(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.places.RemoveFromWishlist(c.Request().Context(), user.ID, c.QueryParam("id")); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
