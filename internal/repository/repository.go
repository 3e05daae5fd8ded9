package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/hotel-rating-services/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// Repository aggregates the single-table repositories. Each service only
// touches the one it owns.
type Repository struct {
	Hotels  *HotelsRepository
	Ratings *RatingsRepository
	Users   *UsersRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Hotels:  &HotelsRepository{pool: pool, newID: uuid.NewString},
		Ratings: &RatingsRepository{pool: pool, newID: uuid.NewString},
		Users:   &UsersRepository{pool: pool, newID: uuid.NewString},
	}
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
