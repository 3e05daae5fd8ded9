package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Clark-Hu/hotel-rating-services/internal/config"
	"github.com/Clark-Hu/hotel-rating-services/internal/domain"
	"github.com/Clark-Hu/hotel-rating-services/internal/repository"
	"github.com/Clark-Hu/hotel-rating-services/internal/store"
)

// HotelStore is the persistence the hotel routes need.
type HotelStore interface {
	Create(ctx context.Context, params repository.HotelCreateParams) (domain.Hotel, error)
	GetByID(ctx context.Context, id string) (domain.Hotel, error)
	List(ctx context.Context) ([]domain.Hotel, error)
}

// RatingStore is the persistence the rating routes need.
type RatingStore interface {
	Create(ctx context.Context, params repository.RatingCreateParams) (domain.Rating, error)
	GetByID(ctx context.Context, id string) (domain.Rating, error)
	List(ctx context.Context) ([]domain.Rating, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Rating, error)
	ListByHotel(ctx context.Context, hotelID string) ([]domain.Rating, error)
	Update(ctx context.Context, id string, params repository.RatingUpdateParams) (domain.Rating, error)
	Delete(ctx context.Context, id string) error
}

// UserStore is the persistence the user routes need.
type UserStore interface {
	Create(ctx context.Context, params repository.UserCreateParams) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

// UserEnricher resolves a user together with their rated hotels.
type UserEnricher interface {
	GetEnrichedUser(ctx context.Context, userID string) (domain.User, error)
}

// HealthChecker backs /healthz.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
	Stats() store.PoolStats
}

// Option mounts a service's routes on the server.
type Option func(*Server)

// WithHotels mounts the hotel routes.
func WithHotels(hotels HotelStore) Option {
	return func(s *Server) { s.hotels = hotels }
}

// WithRatings mounts the rating routes.
func WithRatings(ratings RatingStore) Option {
	return func(s *Server) { s.ratings = ratings }
}

// WithUsers mounts the user routes. GET /users/{userId} goes through enricher.
func WithUsers(users UserStore, enricher UserEnricher) Option {
	return func(s *Server) {
		s.users = users
		s.enricher = enricher
	}
}

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg      config.Config
	health   HealthChecker
	hotels   HotelStore
	ratings  RatingStore
	users    UserStore
	enricher UserEnricher
	logger   *log.Logger
	router   chi.Router
	httpSrv  *http.Server
}

// New constructs the HTTP server with base middleware and the routes of
// every service mounted through opts.
func New(cfg config.Config, health HealthChecker, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		cfg:    cfg,
		health: health,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if cfg.RateLimitRPS > 0 {
		r.Use(newRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, s.respondError).Middleware)
	}
	s.router = r
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)
	if s.hotels != nil {
		s.router.Route("/hotels", func(r chi.Router) {
			r.With(s.requireBearer).Post("/", s.handleCreateHotel)
			r.Get("/", s.handleListHotels)
			r.Get("/{id}", s.handleGetHotel)
		})
	}
	if s.ratings != nil {
		s.router.Route("/ratings", func(r chi.Router) {
			r.With(s.requireBearer).Post("/", s.handleCreateRating)
			r.Get("/", s.handleListRatings)
			r.Get("/user/{userId}", s.handleListRatingsByUser)
			r.Get("/hotel/{hotelId}", s.handleListRatingsByHotel)
			r.Get("/{ratingId}", s.handleGetRating)
			r.With(s.requireBearer).Put("/{ratingId}", s.handleUpdateRating)
			r.With(s.requireBearer).Delete("/{ratingId}", s.handleDeleteRating)
		})
	}
	if s.users != nil {
		s.router.Route("/users", func(r chi.Router) {
			r.With(s.requireBearer).Post("/", s.handleCreateUser)
			r.Get("/", s.handleListUsers)
			r.Get("/{userId}", s.handleGetUser)
		})
	}
}

// Handler exposes the router, mainly for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start boots the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

type healthResponse struct {
	Status string           `json:"status"`
	Pool   *store.PoolStats `json:"pool,omitempty"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		s.respondJSON(w, http.StatusOK, healthResponse{Status: "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.health.HealthCheck(ctx); err != nil {
		s.logger.Printf("health check failed: %v", err)
		s.respondError(w, http.StatusServiceUnavailable, "DOWNSTREAM_UNAVAILABLE", "Database unavailable")
		return
	}
	stats := s.health.Stats()
	s.respondJSON(w, http.StatusOK, healthResponse{Status: "ok", Pool: &stats})
}
