package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pressly/goose/v3"

	"github.com/Clark-Hu/hotel-rating-services/internal/app"
	"github.com/Clark-Hu/hotel-rating-services/internal/config"
	"github.com/Clark-Hu/hotel-rating-services/internal/store"
)

func main() {
	command := flag.String("command", "up", "Migration command: up, down, status")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := app.NewLogger("migrate")

	st, err := store.New(ctx, cfg.DBURL, app.StoreOptions(cfg, logger))
	if err != nil {
		logger.Fatalf("connect database: %v", err)
	}
	defer st.Close()

	provider, closeDB, err := store.NewMigrator(st.Pool())
	if err != nil {
		logger.Fatalf("%v", err)
	}
	defer closeDB()

	if err := run(ctx, provider, *command); err != nil {
		logger.Printf("%s: %v", *command, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, provider *goose.Provider, command string) error {
	switch command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			return err
		}
		for _, res := range results {
			fmt.Printf("applied %d %s (%s)\n", res.Source.Version, res.Source.Path, res.Duration)
		}
		if len(results) == 0 {
			fmt.Println("no pending migrations")
		}
	case "down":
		res, err := provider.Down(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("rolled back %d %s (%s)\n", res.Source.Version, res.Source.Path, res.Duration)
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return err
		}
		for _, st := range statuses {
			applied := "-"
			if st.State == goose.StateApplied {
				applied = st.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Printf("%-8s %-20s %5d %s\n", st.State, applied, st.Source.Version, st.Source.Path)
		}
	default:
		return fmt.Errorf("unknown command %q, use up, down or status", command)
	}
	return nil
}
