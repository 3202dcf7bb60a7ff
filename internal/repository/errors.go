package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate reports whether err is a unique-constraint violation.
// Drivers without error translation are matched on their message text.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "Duplicate entry")
}

// PlaceKind names the entity a review, rating or list entry points at.
type PlaceKind string

const (
	PlaceCountry    PlaceKind = "country"
	PlaceCity       PlaceKind = "city"
	PlaceAttraction PlaceKind = "attraction"
)

func (k PlaceKind) column() string {
	switch k {
	case PlaceCountry:
		return "country_id"
	case PlaceCity:
		return "city_id"
	case PlaceAttraction:
		return "attraction_id"
	}
	return ""
}

var errUnknownPlaceKind = errors.New("unknown place kind")
