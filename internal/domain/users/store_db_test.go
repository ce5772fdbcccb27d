package users_test

import (
	"context"
	"log"
	"os"
	"testing"

	"spotted/internal/domain/users"
	"spotted/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	addr := os.Getenv("TEST_DATABASE_URL")
	if addr == "" {
		os.Exit(m.Run())
	}

	cfg, err := pgxpool.ParseConfig(addr)
	if err != nil {
		log.Fatalf("TestMain: parse TEST_DATABASE_URL: %v", err)
	}
	db := stdlib.OpenDB(*cfg.ConnConfig)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		log.Fatalf("TestMain: create goose provider: %v", err)
	}
	if _, err := provider.Up(context.Background()); err != nil {
		log.Fatalf("TestMain: run migrations: %v", err)
	}

	os.Exit(m.Run())
}

func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	addr := os.Getenv("TEST_DATABASE_URL")
	if addr == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), addr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(context.Background(),
		`TRUNCATE spot_hearts, reviews, spots, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return pool
}

func createSpotRow(t *testing.T, pool *pgxpool.Pool, authorID int64, slug string) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO spots (author_id, name, slug, address, location)
		 VALUES ($1, $2, $2, '1 Test Street', ST_SetSRID(ST_MakePoint(0, 0), 4326))
		 RETURNING id`,
		authorID, slug,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestRepositoryToggleHeart(t *testing.T) {
	pool := newTestPool(t)
	repo := users.NewRepository(pool)
	ctx := context.Background()

	user := &users.User{Name: "Tester", Email: "tester@example.com"}
	require.NoError(t, user.Password.Set("correct horse"))
	require.NoError(t, repo.Create(ctx, user))

	spotA := createSpotRow(t, pool, user.ID, "spot-a")
	spotB := createSpotRow(t, pool, user.ID, "spot-b")

	hearts, err := repo.ToggleHeart(ctx, user.ID, spotA)
	require.NoError(t, err)
	assert.Equal(t, []int64{spotA}, hearts, "first toggle adds")

	hearts, err = repo.ToggleHeart(ctx, user.ID, spotB)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{spotA, spotB}, hearts)

	hearts, err = repo.ToggleHeart(ctx, user.ID, spotA)
	require.NoError(t, err)
	assert.Equal(t, []int64{spotB}, hearts, "second toggle removes")

	hearts, err = repo.ToggleHeart(ctx, user.ID, spotA)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{spotA, spotB}, hearts, "third toggle adds again")
}

func TestRepositoryCreateDuplicateEmail(t *testing.T) {
	pool := newTestPool(t)
	repo := users.NewRepository(pool)
	ctx := context.Background()

	first := &users.User{Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, first.Password.Set("correct horse"))
	require.NoError(t, repo.Create(ctx, first))

	second := &users.User{Name: "Imposter", Email: "ada@example.com"}
	require.NoError(t, second.Password.Set("wrong horse"))
	assert.ErrorIs(t, repo.Create(ctx, second), users.ErrDuplicateEmail)
}
