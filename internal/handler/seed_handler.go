package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"travelguide/internal/service"
)

// SeedHandler handles seed data endpoints.
type SeedHandler struct {
	seedService service.SeedService
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(seedService service.SeedService) *SeedHandler {
	return &SeedHandler{seedService: seedService}
}

// SeedResponse represents the seed response.
type SeedResponse struct {
	Message string             `json:"message"`
	Created service.SeedReport `json:"created"`
}

// Seed godoc
// @Summary Seed the catalogue and demo content
// @Description Only registered in development. Existing rows are kept.
// @Tags seed
// @Produce json
// @Success 200 {object} SeedResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /seed [post]
func (h *SeedHandler) Seed(c echo.Context) error {
	report, err := h.seedService.Seed(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, SeedResponse{
		Message: "database seeded successfully",
		Created: *report,
	})
}
