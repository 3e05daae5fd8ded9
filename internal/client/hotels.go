package client

import (
	"context"
	"net/http"

	"github.com/Clark-Hu/hotel-rating-services/internal/discovery"
	"github.com/Clark-Hu/hotel-rating-services/internal/domain"
)

// HotelClient reads hotels from the hotel service.
type HotelClient struct {
	remote remote
}

// NewHotelClient returns a client that resolves service through resolver.
func NewHotelClient(service string, resolver discovery.Resolver, opts Options) *HotelClient {
	return &HotelClient{remote: newRemote(service, resolver, opts)}
}

type hotelPayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	About    string `json:"about"`
}

func (p hotelPayload) toDomain() domain.Hotel {
	return domain.Hotel{ID: p.ID, Name: p.Name, Location: p.Location, About: p.About}
}

// Get fetches a single hotel. A missing hotel yields ErrNotFound.
func (c *HotelClient) Get(ctx context.Context, id string) (domain.Hotel, error) {
	var payload hotelPayload
	if err := c.remote.do(ctx, http.MethodGet, []string{"hotels", id}, nil, &payload); err != nil {
		return domain.Hotel{}, err
	}
	return payload.toDomain(), nil
}
