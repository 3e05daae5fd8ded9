package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Clark-Hu/hotel-rating-services/internal/app"
	"github.com/Clark-Hu/hotel-rating-services/internal/config"
	httpserver "github.com/Clark-Hu/hotel-rating-services/internal/http"
	"github.com/Clark-Hu/hotel-rating-services/internal/repository"
	"github.com/Clark-Hu/hotel-rating-services/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadAggregator()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := app.NewLogger("user-service")
	err = app.Run(ctx, cfg, logger, func(st *store.Store, logger *log.Logger) ([]httpserver.Option, error) {
		repo := repository.New(st)
		enricher, err := app.NewEnricher(cfg.Aggregator, repo.Users, logger)
		if err != nil {
			return nil, err
		}
		logger.Printf("downstream: %s=%s %s=%s, hotel lookup policy %s",
			cfg.Aggregator.RatingServiceName, cfg.Aggregator.ServiceRegistry[cfg.Aggregator.RatingServiceName],
			cfg.Aggregator.HotelServiceName, cfg.Aggregator.ServiceRegistry[cfg.Aggregator.HotelServiceName],
			cfg.Aggregator.HotelLookupPolicy)
		return []httpserver.Option{httpserver.WithUsers(repo.Users, enricher)}, nil
	})
	if err != nil {
		logger.Fatalf("%v", err)
	}
}
