package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound is returned when an entity is absent or not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when no valid session is present.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUserNotFound is returned when a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserAlreadyExists is returned when trying to register an existing email.
	ErrUserAlreadyExists = errors.New("user with this email already exists")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrPasswordTooShort is returned when a registration password is under six characters.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	// ErrWeakPassword is returned when a new password fails the strength rules.
	ErrWeakPassword = errors.New("password does not meet security requirements")
	// ErrPasswordMismatch is returned when password and confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrSamePassword is returned when the new password equals the current one.
	ErrSamePassword = errors.New("new password must differ from the current one")
	// ErrCurrentPasswordInvalid is returned when a password change quotes the wrong current password.
	ErrCurrentPasswordInvalid = errors.New("current password is incorrect")
	// ErrInvalidResetToken is returned when a reset token is unknown, used or expired.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	// ErrResetTokenRequired is returned when no reset token was supplied.
	ErrResetTokenRequired = errors.New("reset token is required")
	// ErrTitleRequired is returned when a route or travel note has no title.
	ErrTitleRequired = errors.New("title is required")
	// ErrContentRequired is returned when a review or travel note has no text.
	ErrContentRequired = errors.New("content is required")
	// ErrInvalidRating is returned when a score is outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrPlaceRequired is returned when none of countryId, cityId, attractionId is given.
	ErrPlaceRequired = errors.New("countryId, cityId or attractionId is required")
	// ErrIDRequired is returned when a delete request carries no id.
	ErrIDRequired = errors.New("id is required")
	// ErrAlreadyAdded is returned when a user lists the same place twice.
	ErrAlreadyAdded = errors.New("place already added")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Details    interface{}
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// WithDetails attaches extra information rendered in the details field.
func (e *HTTPError) WithDetails(details interface{}) *HTTPError {
	e.Details = details
	return e
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:   e.Message,
		Code:    e.Code,
		Details: e.Details,
	}
}

// ValidationError carries the individual rules a value failed.
type ValidationError struct {
	Err    error
	Failed []string
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

var badRequest = []struct {
	err  error
	code string
}{
	{ErrUserAlreadyExists, "USER_ALREADY_EXISTS"},
	{ErrInvalidEmail, "INVALID_EMAIL"},
	{ErrPasswordTooShort, "PASSWORD_TOO_SHORT"},
	{ErrWeakPassword, "WEAK_PASSWORD"},
	{ErrPasswordMismatch, "PASSWORD_MISMATCH"},
	{ErrSamePassword, "SAME_PASSWORD"},
	{ErrCurrentPasswordInvalid, "CURRENT_PASSWORD_INVALID"},
	{ErrInvalidResetToken, "INVALID_RESET_TOKEN"},
	{ErrResetTokenRequired, "RESET_TOKEN_REQUIRED"},
	{ErrTitleRequired, "TITLE_REQUIRED"},
	{ErrContentRequired, "CONTENT_REQUIRED"},
	{ErrInvalidRating, "INVALID_RATING"},
	{ErrPlaceRequired, "PLACE_REQUIRED"},
	{ErrIDRequired, "ID_REQUIRED"},
	{ErrAlreadyAdded, "ALREADY_ADDED"},
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var details interface{}
	var verr *ValidationError
	if errors.As(err, &verr) {
		details = verr.Failed
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, ErrNotFound.Error(), "NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthorized.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	}

	for _, candidate := range badRequest {
		if errors.Is(err, candidate.err) {
			return NewHTTPError(http.StatusBadRequest, candidate.err.Error(), candidate.code).WithDetails(details)
		}
	}

	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}
