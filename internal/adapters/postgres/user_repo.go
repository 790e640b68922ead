package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"clienthub/internal/domain"
)

const uniqueViolation = "23505"

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: failed to check email: %v", domain.ErrDatabase, err)
	}

	return exists, nil
}

// Create inserts the user and fills in the server-assigned id. The unique
// index on email is the second line of defense behind EmailExists when two
// registrations race on the same address.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (avatar_url, gender, first_name, last_name, email, hashed_password, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		user.AvatarURL,
		user.Gender,
		user.FirstName,
		user.LastName,
		user.Email,
		user.HashedPassword,
		user.IsActive,
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrEmailAlreadyRegistered
		}
		return fmt.Errorf("%w: failed to insert user: %v", domain.ErrDatabase, err)
	}

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	query := `
		SELECT id, avatar_url, gender, first_name, last_name, email, hashed_password, is_active
		FROM users
		WHERE id = $1 AND is_active = TRUE
	`

	return r.scanUser(r.db.QueryRow(ctx, query, userID))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, avatar_url, gender, first_name, last_name, email, hashed_password, is_active
		FROM users
		WHERE email = $1 AND is_active = TRUE
	`

	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

// DeleteByID removes the row entirely. Hard delete keeps the unique email
// free for an immediate re-registration after compensation.
func (r *UserRepository) DeleteByID(ctx context.Context, userID int64) error {
	query := `DELETE FROM users WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("%w: failed to delete user: %v", domain.ErrDatabase, err)
	}

	if ct.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User

	err := row.Scan(
		&user.ID,
		&user.AvatarURL,
		&user.Gender,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.HashedPassword,
		&user.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: failed to scan user: %v", domain.ErrDatabase, err)
	}

	return &user, nil
}
