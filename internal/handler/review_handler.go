package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"travelguide/internal/model"
	"travelguide/internal/service"
)

// ReviewHandler serves reviews and ratings.
type ReviewHandler struct {
	reviews service.ReviewService
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(reviews service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// CreateReviewRequest posts a review of one place.
type CreateReviewRequest struct {
	PlaceRequest
	Content string `json:"content"`
	Rating  int    `json:"rating"`
}

// UpdateReviewRequest edits a review; omitted fields are unchanged.
type UpdateReviewRequest struct {
	Content *string `json:"content"`
	Rating  *int    `json:"rating"`
}

// RateRequest stores the caller's score for a place.
type RateRequest struct {
	PlaceRequest
	Value int `json:"value"`
}

// ReviewsResponse wraps a review list.
type ReviewsResponse struct {
	Reviews []model.Review `json:"reviews"`
}

// ReviewResponse wraps one review.
type ReviewResponse struct {
	Review *model.Review `json:"review"`
}

// RatingResponse wraps one rating.
type RatingResponse struct {
	Rating *model.Rating `json:"rating"`
}

// List godoc
// @Summary Reviews of a place
// @Description The first given of countryId, cityId and attractionId selects the place.
// @Tags reviews
// @Produce json
// @Param countryId query string false "Country ID"
// @Param cityId query string false "City ID"
// @Param attractionId query string false "Attraction ID"
// @Success 200 {object} ReviewsResponse
// @Router /reviews [get]
func (h *ReviewHandler) List(c echo.Context) error {
	ref := PlaceRequest{
		CountryID:    c.QueryParam("countryId"),
		CityID:       c.QueryParam("cityId"),
		AttractionID: c.QueryParam("attractionId"),
	}.ref()
	reviews, err := h.reviews.ListForPlace(c.Request().Context(), ref)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, ReviewsResponse{Reviews: reviews})
}

// Get godoc
// @Summary Get a review
// @Tags reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} ReviewResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reviews/{id} [get]
func (h *ReviewHandler) Get(c echo.Context) error {
	review, err := h.reviews.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, ReviewResponse{Review: review})
}

// Create godoc
// @Summary Review a place
// @Tags reviews
// @Accept json
// @Produce json
// @Param request body CreateReviewRequest true "Review"
// @Success 201 {object} ReviewResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req CreateReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	review, err := h.reviews.Create(c.Request().Context(), user.ID, service.ReviewInput{
		Place:   req.ref(),
		Content: req.Content,
		Rating:  req.Rating,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, ReviewResponse{Review: review})
}

// Update godoc
// @Summary Edit my review
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "Review ID"
// @Param request body UpdateReviewRequest true "Changed fields"
// @Success 200 {object} ReviewResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reviews/{id} [put]
func (h *ReviewHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req UpdateReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	review, err := h.reviews.Update(c.Request().Context(), user.ID, c.Param("id"), service.ReviewUpdate{
		Content: req.Content,
		Rating:  req.Rating,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, ReviewResponse{Review: review})
}

// Delete godoc
// @Summary Delete my review
// @Tags reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.reviews.Delete(c.Request().Context(), user.ID, c.Param("id")); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// Rate godoc
// @Summary Rate a place
// @Description A second rating of the same place replaces the first.
// @Tags reviews
// @Accept json
// @Produce json
// @Param request body RateRequest true "Score"
// @Success 200 {object} RatingResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /ratings [post]
func (h *ReviewHandler) Rate(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req RateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	rating, err := h.reviews.Rate(c.Request().Context(), user.ID, service.RatingInput{
		Place: req.ref(),
		Value: req.Value,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, RatingResponse{Rating: rating})
}
