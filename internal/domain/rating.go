package domain

import "time"

// Rating represents a single user's rating for a hotel.
//
// UserID and HotelID are plain references into other services and are not
// checked on write. Hotel is only populated by the user service when it
// enriches a user and is never persisted.
type Rating struct {
	ID        string
	UserID    string
	HotelID   string
	Score     int
	Feedback  string
	Hotel     *Hotel
	CreatedAt time.Time
}
