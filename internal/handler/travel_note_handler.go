package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"travelguide/internal/model"
	"travelguide/internal/service"
)

// TravelNoteHandler serves the signed-in user's travel diary.
type TravelNoteHandler struct {
	notes service.TravelNoteService
}

// NewTravelNoteHandler creates a new travel note handler.
func NewTravelNoteHandler(notes service.TravelNoteService) *TravelNoteHandler {
	return &TravelNoteHandler{notes: notes}
}

// CreateTravelNoteRequest creates a diary entry.
type CreateTravelNoteRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Date      string   `json:"date"`
	Images    []string `json:"images" validate:"omitempty,dive,max=512"`
	CountryID string   `json:"countryId"`
	CityID    string   `json:"cityId"`
	IsPublic  bool     `json:"isPublic"`
}

// TravelNoteResponse wraps one note.
type TravelNoteResponse struct {
	Note *model.TravelNote `json:"note"`
}

// List godoc
// @Summary My travel notes
// @Tags travel-notes
// @Produce json
// @Success 200 {object} TravelNotesResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /travel-notes [get]
func (h *TravelNoteHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	notes, err := h.notes.List(c.Request().Context(), user.ID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, TravelNotesResponse{Notes: notes})
}

// Create godoc
// @Summary Write a travel note
// @Tags travel-notes
// @Accept json
// @Produce json
// @Param request body CreateTravelNoteRequest true "Note"
// @Success 201 {object} TravelNoteResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /travel-notes [post]
func (h *TravelNoteHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req CreateTravelNoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return err
	}

	note, err := h.notes.Create(c.Request().Context(), user.ID, service.TravelNoteInput{
		Title:     req.Title,
		Content:   req.Content,
		Date:      date,
		Images:    req.Images,
		CountryID: req.CountryID,
		CityID:    req.CityID,
		IsPublic:  req.IsPublic,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, TravelNoteResponse{Note: note})
}
