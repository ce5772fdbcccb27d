package spots

import (
	"context"
	"errors"
	"fmt"
	"strings"

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

// spotColumns is the shared projection for full-record reads. The PostGIS
// point is split into plain lng/lat so callers scan two floats.
const spotColumns = `
	s.id, s.author_id, s.name, s.slug, s.description, s.tags,
	ST_X(s.location::geometry) AS longitude,
	ST_Y(s.location::geometry) AS latitude,
	s.address, s.photo, s.created_at, s.updated_at
`

func scanSpot(row pgx.Row) (*Spot, error) {
	var s Spot
	var lng, lat float64
	if err := row.Scan(
		&s.ID, &s.AuthorID, &s.Name, &s.Slug, &s.Description, &s.Tags,
		&lng, &lat, &s.Location.Address, &s.Photo, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	s.Location.Type = "Point"
	s.Location.Coordinates = [2]float64{lng, lat}
	return &s, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// countSlugMatches counts existing slugs matching the given
// case-insensitive pattern. Used by ResolveSlug at write time.
func (r *Repository) countSlugMatches(ctx context.Context, pattern string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM spots WHERE slug ~* $1`, pattern).Scan(&n)
	return n, err
}

// Create inserts a new spot, assigning its slug from the name. A slug
// race lost to a concurrent creation surfaces as ErrDuplicateSlug.
func (r *Repository) Create(ctx context.Context, spot *Spot) error {
	slug, err := ResolveSlug(ctx, spot.Name, r.countSlugMatches)
	if err != nil {
		return err
	}
	spot.Slug = slug

	const query = `
		INSERT INTO spots (author_id, name, slug, description, tags, location, address, photo)
		VALUES ($1, $2, $3, $4, $5, ST_SetSRID(ST_MakePoint($6, $7), 4326), $8, $9)
		RETURNING id, created_at, updated_at
	`

	err = r.db.QueryRow(ctx, query,
		spot.AuthorID,
		spot.Name,
		spot.Slug,
		spot.Description,
		spot.Tags,
		spot.Location.Coordinates[0], // longitude
		spot.Location.Coordinates[1], // latitude
		spot.Location.Address,
		spot.Photo,
	).Scan(&spot.ID, &spot.CreatedAt, &spot.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("insert spot: %w", err)
	}
	spot.Location.Type = "Point"
	return nil
}

// Update applies a partial update to a spot. Changing the name re-derives
// the slug; sending the same name leaves the existing slug untouched.
func (r *Repository) Update(ctx context.Context, spotID int64, updateData map[string]interface{}) error {
	query := "UPDATE spots SET updated_at = NOW(), "
	args := []interface{}{}
	argCounter := 1

	for key, value := range updateData {
		switch key {
		case "name":
			name, ok := value.(string)
			if !ok {
				return fmt.Errorf("%w: invalid name data", ErrValidation)
			}
			name = strings.TrimSpace(name)
			if name == "" {
				return fmt.Errorf("%w: name must not be empty", ErrValidation)
			}

			var currentName string
			err := r.db.QueryRow(ctx, `SELECT name FROM spots WHERE id = $1`, spotID).Scan(&currentName)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return ErrSpotNotFound
				}
				return err
			}

			query += fmt.Sprintf("name = $%d, ", argCounter)
			args = append(args, name)
			argCounter++

			// Only a real name change re-runs slug resolution.
			if name != currentName {
				slug, err := ResolveSlug(ctx, name, r.countSlugMatches)
				if err != nil {
					return err
				}
				query += fmt.Sprintf("slug = $%d, ", argCounter)
				args = append(args, slug)
				argCounter++
			}
		case "description":
			query += fmt.Sprintf("description = $%d, ", argCounter)
			args = append(args, value)
			argCounter++
		case "tags":
			raw, ok := value.([]interface{})
			if !ok {
				return fmt.Errorf("%w: invalid tags data", ErrValidation)
			}
			var tags []string
			for _, item := range raw {
				str, ok := item.(string)
				if !ok {
					return fmt.Errorf("%w: invalid item in tags array", ErrValidation)
				}
				tags = append(tags, str)
			}
			query += fmt.Sprintf("tags = $%d, ", argCounter)
			args = append(args, tags)
			argCounter++
		case "location":
			coords, ok := coordinatePair(value)
			if !ok {
				return fmt.Errorf("%w: invalid location data", ErrValidation)
			}
			query += fmt.Sprintf("location = ST_SetSRID(ST_MakePoint($%d, $%d), 4326), ", argCounter, argCounter+1)
			args = append(args, coords[0], coords[1])
			argCounter += 2
		case "address":
			addr, ok := value.(string)
			if !ok || strings.TrimSpace(addr) == "" {
				return fmt.Errorf("%w: invalid address data", ErrValidation)
			}
			query += fmt.Sprintf("address = $%d, ", argCounter)
			args = append(args, addr)
			argCounter++
		default:
			return fmt.Errorf("%w: unsupported field: %s", ErrValidation, key)
		}
	}

	query = strings.TrimSuffix(query, ", ")
	query += fmt.Sprintf(" WHERE id = $%d", argCounter)
	args = append(args, spotID)

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("update spot: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrSpotNotFound
	}
	return nil
}

// coordinatePair accepts the two shapes a decoded JSON body can produce
// for [longitude, latitude].
func coordinatePair(value interface{}) ([2]float64, bool) {
	switch v := value.(type) {
	case []float64:
		if len(v) == 2 {
			return [2]float64{v[0], v[1]}, true
		}
	case []interface{}:
		if len(v) == 2 {
			lng, okLng := v[0].(float64)
			lat, okLat := v[1].(float64)
			if okLng && okLat {
				return [2]float64{lng, lat}, true
			}
		}
	}
	return [2]float64{}, false
}

func (r *Repository) GetByID(ctx context.Context, spotID int64) (*Spot, error) {
	query := `SELECT ` + spotColumns + ` FROM spots s WHERE s.id = $1`

	spot, err := scanSpot(r.db.QueryRow(ctx, query, spotID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSpotNotFound
		}
		return nil, err
	}
	return spot, nil
}

func (r *Repository) GetBySlug(ctx context.Context, slug string) (*Spot, error) {
	query := `SELECT ` + spotColumns + ` FROM spots s WHERE s.slug = $1`

	spot, err := scanSpot(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSpotNotFound
		}
		return nil, err
	}
	return spot, nil
}

// List returns one page of spots, newest first.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Spot, error) {
	query := `SELECT ` + spotColumns + `
		FROM spots s
		ORDER BY s.created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list spots: %w", err)
	}
	defer rows.Close()

	return collectSpots(rows)
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM spots`).Scan(&count)
	return count, err
}

// IsOwner reports whether the user authored the given spot.
func (r *Repository) IsOwner(ctx context.Context, spotID, userID int64) (bool, error) {
	var authorID int64
	err := r.db.QueryRow(ctx, `SELECT author_id FROM spots WHERE id = $1`, spotID).Scan(&authorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrSpotNotFound
		}
		return false, err
	}
	return authorID == userID, nil
}

// SetPhoto stores the uploaded photo reference on the spot. The upload
// pipeline itself lives at the HTTP layer.
func (r *Repository) SetPhoto(ctx context.Context, spotID int64, photo string) error {
	ct, err := r.db.Exec(ctx, `UPDATE spots SET photo = $1, updated_at = NOW() WHERE id = $2`, photo, spotID)
	if err != nil {
		return fmt.Errorf("set spot photo: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrSpotNotFound
	}
	return nil
}

// ListByTag returns spots carrying the given tag. An empty tag matches
// every spot that has at least one tag.
func (r *Repository) ListByTag(ctx context.Context, tag string) ([]Spot, error) {
	query := `SELECT ` + spotColumns + `
		FROM spots s
		WHERE ($1 = '' AND cardinality(s.tags) > 0) OR $1 = ANY(s.tags)
		ORDER BY s.created_at DESC`

	rows, err := r.db.Query(ctx, query, tag)
	if err != nil {
		return nil, fmt.Errorf("list spots by tag: %w", err)
	}
	defer rows.Close()

	return collectSpots(rows)
}

// TagFrequency unnests every spot's tag list and counts occurrences per
// tag. Equal counts are ordered by tag name so the table is stable.
func (r *Repository) TagFrequency(ctx context.Context) ([]TagCount, error) {
	query := `
		SELECT tag, COUNT(*) AS count
		FROM spots, unnest(tags) AS tag
		GROUP BY tag
		ORDER BY count DESC, tag ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("tag frequency: %w", err)
	}
	defer rows.Close()

	var out []TagCount
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, fmt.Errorf("scan tag count: %w", err)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// TopRated joins spots with their reviews at query time, keeps spots with
// at least minReviews reviews, derives the mean rating, and returns the
// top `limit` by that mean. The average is never read from a stored
// field; each stage of the pipeline is explicit in the SQL.
func (r *Repository) TopRated(ctx context.Context, minReviews, limit int) ([]TopSpot, error) {
	query := `
		SELECT
			s.id,
			s.slug,
			s.name,
			s.photo,
			COUNT(r.id)    AS review_count,
			AVG(r.rating)  AS average_rating
		FROM spots s
		JOIN reviews r ON r.spot_id = s.id
		GROUP BY s.id
		HAVING COUNT(r.id) >= $1
		ORDER BY average_rating DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, minReviews, limit)
	if err != nil {
		return nil, fmt.Errorf("top rated spots: %w", err)
	}
	defer rows.Close()

	var out []TopSpot
	for rows.Next() {
		var ts TopSpot
		if err := rows.Scan(&ts.ID, &ts.Slug, &ts.Name, &ts.Photo, &ts.ReviewCount, &ts.AverageRating); err != nil {
			return nil, fmt.Errorf("scan top spot: %w", err)
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

// TextSearch runs a relevance-ranked full-text query over name and
// description. An empty query is an empty result, not an error.
func (r *Repository) TextSearch(ctx context.Context, query string, limit int) ([]RankedSpot, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return []RankedSpot{}, nil
	}

	sqlQuery := `
		SELECT ` + spotColumns + `,
			ts_rank_cd(s.fts, plainto_tsquery('english', $1)) AS rank
		FROM spots s
		WHERE s.fts @@ plainto_tsquery('english', $1)
		ORDER BY rank DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, sqlQuery, q, limit)
	if err != nil {
		return nil, fmt.Errorf("text search spots: %w", err)
	}
	defer rows.Close()

	var out []RankedSpot
	for rows.Next() {
		var rs RankedSpot
		var lng, lat float64
		if err := rows.Scan(
			&rs.ID, &rs.AuthorID, &rs.Name, &rs.Slug, &rs.Description, &rs.Tags,
			&lng, &lat, &rs.Location.Address, &rs.Photo, &rs.CreatedAt, &rs.UpdatedAt,
			&rs.Rank,
		); err != nil {
			return nil, fmt.Errorf("scan ranked spot: %w", err)
		}
		rs.Location.Type = "Point"
		rs.Location.Coordinates = [2]float64{lng, lat}
		out = append(out, rs)
	}
	return out, rows.Err()
}

// Nearby returns up to `limit` spots within maxDistanceMeters of the
// point, nearest first, projected down to map-marker fields.
func (r *Repository) Nearby(ctx context.Context, lng, lat, maxDistanceMeters float64, limit int) ([]Marker, error) {
	query := `
		SELECT
			s.id,
			s.slug,
			s.name,
			s.description,
			ST_X(s.location::geometry) AS longitude,
			ST_Y(s.location::geometry) AS latitude,
			s.address,
			s.photo
		FROM spots s
		WHERE ST_DWithin(s.location::geography, ST_MakePoint($1, $2)::geography, $3)
		ORDER BY ST_Distance(s.location::geography, ST_MakePoint($1, $2)::geography) ASC
		LIMIT $4
	`

	rows, err := r.db.Query(ctx, query, lng, lat, maxDistanceMeters, limit)
	if err != nil {
		return nil, fmt.Errorf("nearby spots: %w", err)
	}
	defer rows.Close()

	var out []Marker
	for rows.Next() {
		var m Marker
		var mLng, mLat float64
		if err := rows.Scan(&m.ID, &m.Slug, &m.Name, &m.Description, &mLng, &mLat, &m.Location.Address, &m.Photo); err != nil {
			return nil, fmt.Errorf("scan marker: %w", err)
		}
		m.Location.Type = "Point"
		m.Location.Coordinates = [2]float64{mLng, mLat}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListHearted returns the spots a user has hearted, most recently
// hearted first.
func (r *Repository) ListHearted(ctx context.Context, userID int64) ([]Spot, error) {
	query := `SELECT ` + spotColumns + `
		FROM spots s
		JOIN spot_hearts h ON h.spot_id = s.id
		WHERE h.user_id = $1
		ORDER BY h.created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list hearted spots: %w", err)
	}
	defer rows.Close()

	return collectSpots(rows)
}

func collectSpots(rows pgx.Rows) ([]Spot, error) {
	var out []Spot
	for rows.Next() {
		var s Spot
		var lng, lat float64
		if err := rows.Scan(
			&s.ID, &s.AuthorID, &s.Name, &s.Slug, &s.Description, &s.Tags,
			&lng, &lat, &s.Location.Address, &s.Photo, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan spot row: %w", err)
		}
		s.Location.Type = "Point"
		s.Location.Coordinates = [2]float64{lng, lat}
		out = append(out, s)
	}
	return out, rows.Err()
}
