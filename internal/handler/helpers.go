package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"travelguide/internal/auth"
	"travelguide/internal/errors"
	"travelguide/internal/model"
	"travelguide/internal/service"
)

// SuccessResponse is returned by mutations that have nothing else to report.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// PlaceRequest carries the optional place references shared by reviews,
// ratings, visited places and wishlist entries.
type PlaceRequest struct {
	CountryID    string `json:"countryId"`
	CityID       string `json:"cityId"`
	AttractionID string `json:"attractionId"`
}

func (p PlaceRequest) ref() service.PlaceRef {
	return service.PlaceRef{
		CountryID:    strings.TrimSpace(p.CountryID),
		CityID:       strings.TrimSpace(p.CityID),
		AttractionID: strings.TrimSpace(p.AttractionID),
	}
}

// respondError converts a service error into an echo error carrying the
// uniform error body. Unexpected errors keep the cause as the internal error.
func respondError(err error) error {
	mapped := errors.MapErrorToHTTP(err)
	he := echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse())
	if mapped.StatusCode >= http.StatusInternalServerError {
		he.SetInternal(err)
	}
	return he
}

func invalidBody(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: "invalid request body",
		Code:  "INVALID_BODY",
	}).SetInternal(err)
}

func invalidRequest(err error) error {
	resp := errors.ErrorResponse{Error: "validation failed", Code: "VALIDATION_ERROR"}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
		}
		resp.Details = fields
	} else {
		resp.Error = err.Error()
	}
	return echo.NewHTTPError(http.StatusBadRequest, resp)
}

// bindAndValidate decodes the request into req and runs its validate tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return invalidBody(err)
	}
	if err := c.Validate(req); err != nil {
		return invalidRequest(err)
	}
	return nil
}

func currentUser(c echo.Context) (*model.User, error) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return nil, respondError(errors.ErrUnauthorized)
	}
	return user, nil
}

// pathParam returns a decoded path segment; slugs arrive percent-encoded.
func pathParam(c echo.Context, name string) string {
	raw := c.Param(name)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// parseDate accepts RFC 3339 timestamps and plain dates; blank means absent.
func parseDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: fmt.Sprintf("invalid date %q", value),
		Code:  "INVALID_DATE",
	})
}
