package models

// All lists every model migrated at boot, in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Dish{},
		&Menu{},
		&Favorite{},
		&Reservation{},
		&Setting{},
	}
}
