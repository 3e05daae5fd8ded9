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

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := app.NewLogger("rating-service")
	err = app.Run(ctx, cfg, logger, func(st *store.Store, logger *log.Logger) ([]httpserver.Option, error) {
		repo := repository.New(st)
		return []httpserver.Option{httpserver.WithRatings(repo.Ratings)}, nil
	})
	if err != nil {
		logger.Fatalf("%v", err)
	}
}
