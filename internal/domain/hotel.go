package domain

import "time"

// Hotel represents a hotel record owned by the hotel service.
type Hotel struct {
	ID        string
	Name      string
	Location  string
	About     string
	CreatedAt time.Time
}
