package domain

import "time"

// PlaceholderUserID identifies the substitute user returned when the user
// store stays unreachable after all retry attempts.
const PlaceholderUserID = "121"

// User represents a user record. Ratings is transient and only filled in at
// read time by the aggregation service.
type User struct {
	ID        string
	Name      string
	Email     string
	About     string
	Ratings   []Rating
	CreatedAt time.Time
}

// PlaceholderUser returns the substitute user served while the user store is degraded.
func PlaceholderUser() User {
	return User{
		ID:      PlaceholderUserID,
		Name:    "dummy",
		Email:   "dummy@gmail.com",
		About:   "This user is created because some service is down !!!",
		Ratings: []Rating{},
	}
}

// IsPlaceholder reports whether u is the substitute user.
func (u User) IsPlaceholder() bool {
	return u.ID == PlaceholderUserID
}
