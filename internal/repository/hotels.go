package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/hotel-rating-services/internal/domain"
)

// HotelsRepository provides persistence helpers for hotel entities.
type HotelsRepository struct {
	pool  *pgxpool.Pool
	newID func() string
}

const hotelColumns = `id, name, location, about, created_at`

// HotelCreateParams bundles the fields required to create a hotel.
type HotelCreateParams struct {
	Name     string
	Location string
	About    string
}

// Create inserts a hotel under a freshly generated id.
func (r *HotelsRepository) Create(ctx context.Context, params HotelCreateParams) (domain.Hotel, error) {
	query := fmt.Sprintf(`
        INSERT INTO hotels (id, name, location, about)
        VALUES ($1,$2,$3,$4)
        RETURNING %s
    `, hotelColumns)

	row := r.pool.QueryRow(ctx, query, r.newID(), params.Name, params.Location, params.About)
	hotel, err := scanHotel(row)
	if err != nil {
		return domain.Hotel{}, fmt.Errorf("insert hotel: %w", err)
	}
	return hotel, nil
}

// GetByID fetches a hotel by its identifier.
func (r *HotelsRepository) GetByID(ctx context.Context, id string) (domain.Hotel, error) {
	query := fmt.Sprintf(`SELECT %s FROM hotels WHERE id = $1`, hotelColumns)
	hotel, err := scanHotel(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return domain.Hotel{}, notFound(err)
	}
	return hotel, nil
}

// List returns every hotel, oldest first.
func (r *HotelsRepository) List(ctx context.Context) ([]domain.Hotel, error) {
	query := fmt.Sprintf(`SELECT %s FROM hotels ORDER BY created_at, id`, hotelColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hotels := make([]domain.Hotel, 0)
	for rows.Next() {
		hotel, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		hotels = append(hotels, hotel)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return hotels, nil
}

func scanHotel(row pgx.Row) (domain.Hotel, error) {
	var hotel domain.Hotel
	err := row.Scan(&hotel.ID, &hotel.Name, &hotel.Location, &hotel.About, &hotel.CreatedAt)
	return hotel, err
}
