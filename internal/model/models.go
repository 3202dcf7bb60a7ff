package model

// All lists every persisted model in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&PasswordResetToken{},
		&Continent{},
		&Country{},
		&City{},
		&Attraction{},
		&Route{},
		&RoutePoint{},
		&Review{},
		&Rating{},
		&TravelNote{},
		&VisitedPlace{},
		&WishlistItem{},
		&Article{},
	}
}
