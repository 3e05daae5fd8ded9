// Package aggregation assembles a user together with the ratings they wrote
// and the hotel behind each rating.
package aggregation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Clark-Hu/hotel-rating-services/internal/domain"
	"github.com/Clark-Hu/hotel-rating-services/internal/resilience"
)

// ErrUserNotFound is returned when the base user does not exist.
var ErrUserNotFound = errors.New("aggregation: user not found")

// HotelPolicy decides what a failed hotel lookup does to the whole call.
type HotelPolicy int

const (
	// FailFast fails the call on the first hotel lookup error.
	FailFast HotelPolicy = iota
	// Partial leaves the rating's hotel unset and carries on.
	Partial
)

// UserStore is the local user lookup the service enriches.
type UserStore interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
}

// RatingSource lists the ratings a user wrote.
type RatingSource interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Rating, error)
}

// HotelSource fetches one hotel.
type HotelSource interface {
	Get(ctx context.Context, id string) (domain.Hotel, error)
}

// Options tunes the service. Zero values fall back to defaults.
type Options struct {
	// IsNotFound reports whether err from the user store means "no such user".
	IsNotFound func(error) bool
	// UserAttempts and UserRetryDelay bound the retry around the user lookup.
	UserAttempts   int
	UserRetryDelay time.Duration
	// MaxConcurrency caps concurrent hotel lookups per call.
	MaxConcurrency int
	HotelPolicy    HotelPolicy
	Logger         *log.Logger
}

// Service resolves enriched users.
type Service struct {
	fetchUser resilience.Lookup[domain.User]
	ratings   RatingSource
	hotels    HotelSource
	opts      Options
	logger    *log.Logger
}

// New wires the service. The user lookup is retried and, once the attempts
// run out, answered with domain.PlaceholderUser. A "not found" answer is
// never retried.
func New(users UserStore, ratings RatingSource, hotels HotelSource, opts Options) *Service {
	if opts.UserAttempts <= 0 {
		opts.UserAttempts = 3
	}
	if opts.UserRetryDelay <= 0 {
		opts.UserRetryDelay = 100 * time.Millisecond
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = 8
	}
	if opts.IsNotFound == nil {
		opts.IsNotFound = func(error) bool { return false }
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Service{
		ratings: ratings,
		hotels:  hotels,
		opts:    opts,
		logger:  logger,
	}
	s.fetchUser = resilience.WithFallback[domain.User](users.GetByID, resilience.Policy{
		Attempts: opts.UserAttempts,
		Delay:    opts.UserRetryDelay,
		IsFatal:  opts.IsNotFound,
		Notify: func(err error, attempt int) {
			logger.Printf("aggregation: user lookup attempt %d failed: %v", attempt, err)
		},
	}, s.placeholder)
	return s
}

func (s *Service) placeholder(userID string, lastErr error) domain.User {
	s.logger.Printf("aggregation: serving placeholder for user %s after %d attempts: %v", userID, s.opts.UserAttempts, lastErr)
	return domain.PlaceholderUser()
}

// GetEnrichedUser returns the user with Ratings filled in, each rating
// carrying its hotel. Ratings keep the order the rating source returned.
func (s *Service) GetEnrichedUser(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.fetchUser(ctx, userID)
	if err != nil {
		if s.opts.IsNotFound(err) {
			return domain.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return domain.User{}, fmt.Errorf("fetch user %s: %w", userID, err)
	}
	if user.IsPlaceholder() {
		return user, nil
	}

	ratings, err := s.ratings.ListByUser(ctx, user.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("fetch ratings for user %s: %w", user.ID, err)
	}

	enriched, err := s.attachHotels(ctx, ratings)
	if err != nil {
		return domain.User{}, err
	}
	user.Ratings = enriched
	return user, nil
}

func (s *Service) attachHotels(ctx context.Context, ratings []domain.Rating) ([]domain.Rating, error) {
	enriched := make([]domain.Rating, len(ratings))
	copy(enriched, ratings)
	if len(enriched) == 0 {
		return enriched, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(s.opts.MaxConcurrency, len(enriched)))
	for i := range enriched {
		g.Go(func() error {
			hotel, err := s.hotels.Get(gctx, enriched[i].HotelID)
			if err != nil {
				if s.opts.HotelPolicy == Partial {
					s.logger.Printf("aggregation: hotel %s for rating %s unavailable, leaving it out: %v",
						enriched[i].HotelID, enriched[i].ID, err)
					return nil
				}
				return fmt.Errorf("fetch hotel %s for rating %s: %w", enriched[i].HotelID, enriched[i].ID, err)
			}
			enriched[i].Hotel = &hotel
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return enriched, nil
}
