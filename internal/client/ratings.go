package client

import (
	"context"
	"net/http"

	"github.com/Clark-Hu/hotel-rating-services/internal/discovery"
	"github.com/Clark-Hu/hotel-rating-services/internal/domain"
)

// RatingClient covers the rating service endpoints the user service depends on.
type RatingClient struct {
	remote remote
}

// NewRatingClient returns a client that resolves service through resolver.
func NewRatingClient(service string, resolver discovery.Resolver, opts Options) *RatingClient {
	return &RatingClient{remote: newRemote(service, resolver, opts)}
}

type ratingPayload struct {
	ID       string `json:"ratingId,omitempty"`
	UserID   string `json:"userId"`
	HotelID  string `json:"hotelId"`
	Score    int    `json:"rating"`
	Feedback string `json:"feedback"`
}

func (p ratingPayload) toDomain() domain.Rating {
	return domain.Rating{
		ID:       p.ID,
		UserID:   p.UserID,
		HotelID:  p.HotelID,
		Score:    p.Score,
		Feedback: p.Feedback,
	}
}

// ListByUser returns the ratings written by userID, in the order the rating
// service returned them. No ratings is an empty slice, not an error.
func (c *RatingClient) ListByUser(ctx context.Context, userID string) ([]domain.Rating, error) {
	var payload []ratingPayload
	if err := c.remote.do(ctx, http.MethodGet, []string{"ratings", "user", userID}, nil, &payload); err != nil {
		return nil, err
	}
	ratings := make([]domain.Rating, 0, len(payload))
	for _, p := range payload {
		ratings = append(ratings, p.toDomain())
	}
	return ratings, nil
}

// Create posts a new rating and returns it with its assigned id.
func (c *RatingClient) Create(ctx context.Context, rating domain.Rating) (domain.Rating, error) {
	in := ratingPayload{UserID: rating.UserID, HotelID: rating.HotelID, Score: rating.Score, Feedback: rating.Feedback}
	var out ratingPayload
	if err := c.remote.do(ctx, http.MethodPost, []string{"ratings"}, in, &out); err != nil {
		return domain.Rating{}, err
	}
	return out.toDomain(), nil
}

// Update replaces score and feedback of the rating with the given id.
func (c *RatingClient) Update(ctx context.Context, id string, rating domain.Rating) (domain.Rating, error) {
	in := struct {
		Score    int    `json:"rating"`
		Feedback string `json:"feedback"`
	}{Score: rating.Score, Feedback: rating.Feedback}
	var out ratingPayload
	if err := c.remote.do(ctx, http.MethodPut, []string{"ratings", id}, in, &out); err != nil {
		return domain.Rating{}, err
	}
	return out.toDomain(), nil
}

// Delete removes the rating with the given id.
func (c *RatingClient) Delete(ctx context.Context, id string) error {
	return c.remote.do(ctx, http.MethodDelete, []string{"ratings", id}, nil, nil)
}
