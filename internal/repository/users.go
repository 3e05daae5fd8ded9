package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/hotel-rating-services/internal/domain"
)

// UsersRepository provides persistence helpers for user entities.
type UsersRepository struct {
	pool  *pgxpool.Pool
	newID func() string
}

const userColumns = `id, name, email, about, created_at`

// UserCreateParams bundles the fields required to create a user.
type UserCreateParams struct {
	Name  string
	Email string
	About string
}

// Create inserts a user under a freshly generated id. Ratings are never stored.
func (r *UsersRepository) Create(ctx context.Context, params UserCreateParams) (domain.User, error) {
	query := fmt.Sprintf(`
        INSERT INTO micro_users (id, name, email, about)
        VALUES ($1,$2,$3,$4)
        RETURNING %s
    `, userColumns)

	user, err := scanUser(r.pool.QueryRow(ctx, query, r.newID(), params.Name, params.Email, params.About))
	if err != nil {
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// GetByID fetches a user by its identifier.
func (r *UsersRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM micro_users WHERE id = $1`, userColumns)
	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return domain.User{}, notFound(err)
	}
	return user, nil
}

// List returns every user, oldest first.
func (r *UsersRepository) List(ctx context.Context) ([]domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM micro_users ORDER BY created_at, id`, userColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (domain.User, error) {
	var user domain.User
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.About, &user.CreatedAt); err != nil {
		return domain.User{}, err
	}
	return user, nil
}
