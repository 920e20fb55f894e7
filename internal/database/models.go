package database

// City is a canonical gazetteer record. Reference data: rows are created by
// the seed tool and never mutated or deleted by the bot.
type City struct {
	ID   int64   `db:"id"`
	Name string  `db:"name"`
	Lat  float64 `db:"lat"`
	Lng  float64 `db:"lng"`
}

// UserCityLink associates a Telegram chat with a saved city. Multiple links
// per user are permitted; saving the same city twice creates two rows.
type UserCityLink struct {
	UserID int64 `db:"user_id"`
	CityID int64 `db:"city_id"`
}
