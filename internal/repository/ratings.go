package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/hotel-rating-services/internal/domain"
)

// RatingsRepository provides helpers for hotel ratings.
type RatingsRepository struct {
	pool  *pgxpool.Pool
	newID func() string
}

const ratingColumns = `id, user_id, hotel_id, rating, feedback, created_at`

// RatingCreateParams captures the payload required to create a rating.
type RatingCreateParams struct {
	UserID   string
	HotelID  string
	Score    int
	Feedback string
}

// RatingUpdateParams captures the mutable fields of a rating.
type RatingUpdateParams struct {
	Score    int
	Feedback string
}

// Create inserts a new rating. User and hotel ids are stored as given.
func (r *RatingsRepository) Create(ctx context.Context, params RatingCreateParams) (domain.Rating, error) {
	query := fmt.Sprintf(`
        INSERT INTO ratings (id, user_id, hotel_id, rating, feedback)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING %s
    `, ratingColumns)

	row := r.pool.QueryRow(ctx, query, r.newID(), params.UserID, params.HotelID, params.Score, params.Feedback)
	rating, err := scanRating(row)
	if err != nil {
		return domain.Rating{}, fmt.Errorf("insert rating: %w", err)
	}
	return rating, nil
}

// GetByID retrieves a single rating.
func (r *RatingsRepository) GetByID(ctx context.Context, id string) (domain.Rating, error) {
	query := fmt.Sprintf(`SELECT %s FROM ratings WHERE id = $1`, ratingColumns)
	rating, err := scanRating(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return domain.Rating{}, notFound(err)
	}
	return rating, nil
}

// List returns every rating in insertion order.
func (r *RatingsRepository) List(ctx context.Context) ([]domain.Rating, error) {
	query := fmt.Sprintf(`SELECT %s FROM ratings ORDER BY seq`, ratingColumns)
	return r.query(ctx, query)
}

// ListByUser returns the ratings written by userID. No match yields an empty slice.
func (r *RatingsRepository) ListByUser(ctx context.Context, userID string) ([]domain.Rating, error) {
	query := fmt.Sprintf(`SELECT %s FROM ratings WHERE user_id = $1 ORDER BY seq`, ratingColumns)
	return r.query(ctx, query, userID)
}

// ListByHotel returns the ratings given to hotelID. No match yields an empty slice.
func (r *RatingsRepository) ListByHotel(ctx context.Context, hotelID string) ([]domain.Rating, error) {
	query := fmt.Sprintf(`SELECT %s FROM ratings WHERE hotel_id = $1 ORDER BY seq`, ratingColumns)
	return r.query(ctx, query, hotelID)
}

// Update replaces the score and feedback of an existing rating.
func (r *RatingsRepository) Update(ctx context.Context, id string, params RatingUpdateParams) (domain.Rating, error) {
	query := fmt.Sprintf(`
        UPDATE ratings
        SET rating = $2,
            feedback = $3
        WHERE id = $1
        RETURNING %s
    `, ratingColumns)

	rating, err := scanRating(r.pool.QueryRow(ctx, query, id, params.Score, params.Feedback))
	if err != nil {
		return domain.Rating{}, notFound(err)
	}
	return rating, nil
}

// Delete removes a rating.
func (r *RatingsRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM ratings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RatingsRepository) query(ctx context.Context, query string, args ...any) ([]domain.Rating, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := make([]domain.Rating, 0)
	for rows.Next() {
		rating, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ratings, nil
}

func scanRating(row pgx.Row) (domain.Rating, error) {
	var rating domain.Rating
	err := row.Scan(
		&rating.ID,
		&rating.UserID,
		&rating.HotelID,
		&rating.Score,
		&rating.Feedback,
		&rating.CreatedAt,
	)
	return rating, err
}
