package storage

import (
	"spotted/internal/domain/reviews"
	"spotted/internal/domain/spots"
	"spotted/internal/domain/users"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Container bundles the per-entity stores behind their interfaces so the
// HTTP layer depends on behavior, not on pgx.
type Container struct {
	Users   users.Store
	Spots   spots.Store
	Reviews reviews.Store
}

func NewContainer(db *pgxpool.Pool) *Container {
	return &Container{
		Users:   users.NewRepository(db),
		Spots:   spots.NewRepository(db),
		Reviews: reviews.NewRepository(db),
	}
}
