package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (name, email, password)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, user.Name, user.Email, user.Password.hash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, userID int64) (*User, error) {
	query := `SELECT id, name, email, password, created_at FROM users WHERE id = $1`

	var u User
	err := r.db.QueryRow(ctx, query, userID).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password.hash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT id, name, email, password, created_at FROM users WHERE email = $1`

	var u User
	err := r.db.QueryRow(ctx, query, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password.hash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ToggleHeart removes the spot from the user's heart set when present and
// adds it otherwise. The delete-else-insert runs as a single statement so
// concurrent toggles by the same user serialize on the row, and the
// primary key on (user_id, spot_id) rules out duplicates.
func (r *Repository) ToggleHeart(ctx context.Context, userID, spotID int64) ([]int64, error) {
	query := `
		WITH removed AS (
			DELETE FROM spot_hearts
			WHERE user_id = $1 AND spot_id = $2
			RETURNING spot_id
		)
		INSERT INTO spot_hearts (user_id, spot_id)
		SELECT $1, $2
		WHERE NOT EXISTS (SELECT 1 FROM removed)
		ON CONFLICT DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, userID, spotID); err != nil {
		return nil, fmt.Errorf("toggle heart: %w", err)
	}

	return r.GetHearts(ctx, userID)
}

// GetHearts returns the user's current heart set.
func (r *Repository) GetHearts(ctx context.Context, userID int64) ([]int64, error) {
	query := `SELECT spot_id FROM spot_hearts WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get hearts: %w", err)
	}
	defer rows.Close()

	hearts := []int64{}
	for rows.Next() {
		var spotID int64
		if err := rows.Scan(&spotID); err != nil {
			return nil, fmt.Errorf("scan heart: %w", err)
		}
		hearts = append(hearts, spotID)
	}
	return hearts, rows.Err()
}
