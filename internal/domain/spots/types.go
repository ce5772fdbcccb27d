package spots

import (
	"context"
	"errors"
	"time"

	"github.com/paulmach/orb"
)

var (
	ErrSpotNotFound  = errors.New("spot not found")
	ErrDuplicateSlug = errors.New("a spot with this slug already exists")
	ErrValidation    = errors.New("invalid spot data")
)

// Location is a GeoJSON point plus the human-readable address the
// submitter supplied. Coordinates are [longitude, latitude].
type Location struct {
	Type        string    `json:"type"`
	Coordinates orb.Point `json:"coordinates"`
	Address     string    `json:"address"`
}

// Spot represents a user-submitted place of interest.
type Spot struct {
	ID          int64     `json:"id"`
	AuthorID    int64     `json:"author_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Location    Location  `json:"location"`
	Photo       *string   `json:"photo,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Marker is the trimmed projection returned by the nearby search: just
// enough to place a pin on the map and link to the spot page.
type Marker struct {
	ID          int64    `json:"id"`
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	Location    Location `json:"location"`
	Photo       *string  `json:"photo,omitempty"`
}

// RankedSpot pairs a spot with its text-relevance rank. The rank orders
// search output and is never persisted.
type RankedSpot struct {
	Spot
	Rank float64 `json:"rank"`
}

// TagCount is one row of the tag frequency table.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// TopSpot is one row of the top-rated ranking: a spot joined with its
// reviews at query time, carrying the derived average.
type TopSpot struct {
	ID            int64   `json:"id"`
	Slug          string  `json:"slug"`
	Name          string  `json:"name"`
	Photo         *string `json:"photo,omitempty"`
	ReviewCount   int     `json:"review_count"`
	AverageRating float64 `json:"average_rating"`
}

type Store interface {
	Create(ctx context.Context, spot *Spot) error
	Update(ctx context.Context, spotID int64, updateData map[string]interface{}) error
	GetByID(ctx context.Context, spotID int64) (*Spot, error)
	GetBySlug(ctx context.Context, slug string) (*Spot, error)
	List(ctx context.Context, limit, offset int) ([]Spot, error)
	Count(ctx context.Context) (int, error)
	IsOwner(ctx context.Context, spotID, userID int64) (bool, error)
	SetPhoto(ctx context.Context, spotID int64, photo string) error

	ListByTag(ctx context.Context, tag string) ([]Spot, error)
	TagFrequency(ctx context.Context) ([]TagCount, error)
	TopRated(ctx context.Context, minReviews, limit int) ([]TopSpot, error)

	TextSearch(ctx context.Context, query string, limit int) ([]RankedSpot, error)
	Nearby(ctx context.Context, lng, lat, maxDistanceMeters float64, limit int) ([]Marker, error)

	ListHearted(ctx context.Context, userID int64) ([]Spot, error)
}
