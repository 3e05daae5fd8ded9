package app

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Clark-Hu/hotel-rating-services/internal/aggregation"
	"github.com/Clark-Hu/hotel-rating-services/internal/client"
	"github.com/Clark-Hu/hotel-rating-services/internal/config"
	"github.com/Clark-Hu/hotel-rating-services/internal/discovery"
	"github.com/Clark-Hu/hotel-rating-services/internal/repository"
)

// NewEnricher builds the user service's aggregation over the local user
// store and the rating and hotel services named in the registry.
func NewEnricher(cfg config.Aggregator, users aggregation.UserStore, logger *log.Logger) (*aggregation.Service, error) {
	resolver, err := discovery.NewStaticResolver(cfg.ServiceRegistry)
	if err != nil {
		return nil, fmt.Errorf("service registry: %w", err)
	}

	policy, err := hotelPolicy(cfg.HotelLookupPolicy)
	if err != nil {
		return nil, err
	}

	clientOpts := client.Options{
		Timeout: time.Duration(cfg.DownstreamTimeoutSecs) * time.Second,
		Logger:  logger,
	}
	return aggregation.New(
		users,
		client.NewRatingClient(cfg.RatingServiceName, resolver, clientOpts),
		client.NewHotelClient(cfg.HotelServiceName, resolver, clientOpts),
		aggregation.Options{
			IsNotFound:     func(err error) bool { return errors.Is(err, repository.ErrNotFound) },
			UserAttempts:   cfg.UserFetchAttempts,
			UserRetryDelay: time.Duration(cfg.UserFetchDelayMillis) * time.Millisecond,
			MaxConcurrency: cfg.EnrichMaxConcurrency,
			HotelPolicy:    policy,
			Logger:         logger,
		},
	), nil
}

func hotelPolicy(name string) (aggregation.HotelPolicy, error) {
	switch name {
	case config.PolicyFail, "":
		return aggregation.FailFast, nil
	case config.PolicyPartial:
		return aggregation.Partial, nil
	default:
		return 0, fmt.Errorf("unknown hotel lookup policy %q", name)
	}
}
