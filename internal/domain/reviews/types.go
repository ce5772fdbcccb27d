package reviews

import (
	"context"
	"errors"
	"time"
)

var ErrReviewNotFound = errors.New("review not found")

// Review is a user's rating of a spot. Reviews reference their spot by
// id; the spot never stores them, they are joined at read time.
type Review struct {
	ID        int64     `json:"id"`
	SpotID    int64     `json:"spot_id"`
	AuthorID  int64     `json:"author_id"`
	Rating    int       `json:"rating"` // 1-5
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`

	// Joined fields
	AuthorName string `json:"author_name,omitempty"`
}

type Store interface {
	Create(ctx context.Context, review *Review) error
	ListBySpot(ctx context.Context, spotID int64) ([]Review, error)
	Stats(ctx context.Context, spotID int64) (int, float64, error)
}
