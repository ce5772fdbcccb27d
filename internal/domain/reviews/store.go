package reviews

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, review *Review) error {
	query := `
		INSERT INTO reviews (spot_id, author_id, rating, text)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, query,
		review.SpotID,
		review.AuthorID,
		review.Rating,
		review.Text,
	).Scan(&review.ID, &review.CreatedAt)
}

// ListBySpot returns a spot's reviews newest first, with the author name
// joined in for display.
func (r *Repository) ListBySpot(ctx context.Context, spotID int64) ([]Review, error) {
	query := `
		SELECT rv.id, rv.spot_id, rv.author_id, rv.rating, rv.text,
		       rv.created_at, u.name
		FROM reviews rv
		JOIN users u ON u.id = rv.author_id
		WHERE rv.spot_id = $1
		ORDER BY rv.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, spotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var review Review
		err := rows.Scan(
			&review.ID,
			&review.SpotID,
			&review.AuthorID,
			&review.Rating,
			&review.Text,
			&review.CreatedAt,
			&review.AuthorName,
		)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

// Stats returns the review count and mean rating for one spot, both
// computed at query time.
func (r *Repository) Stats(ctx context.Context, spotID int64) (total int, average float64, err error) {
	query := `
		SELECT
			COUNT(id) AS total_reviews,
			COALESCE(AVG(rating), 0) AS average_rating
		FROM reviews
		WHERE spot_id = $1
	`
	err = r.db.QueryRow(ctx, query, spotID).Scan(&total, &average)
	return total, average, err
}
