package main

import (
	"context"
	"net/http"
	"net/http/httptest"

	"spotted/internal/domain/reviews"
	"spotted/internal/domain/spots"
	"spotted/internal/domain/storage"
	"spotted/internal/domain/users"
	"spotted/internal/ratelimiter"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// mockSpotStore implements spots.Store with overridable function fields.
// Unset fields answer with zero values so each test only wires what it
// exercises.
type mockSpotStore struct {
	CreateFunc       func(ctx context.Context, spot *spots.Spot) error
	UpdateFunc       func(ctx context.Context, spotID int64, updateData map[string]interface{}) error
	GetByIDFunc      func(ctx context.Context, spotID int64) (*spots.Spot, error)
	GetBySlugFunc    func(ctx context.Context, slug string) (*spots.Spot, error)
	ListFunc         func(ctx context.Context, limit, offset int) ([]spots.Spot, error)
	CountFunc        func(ctx context.Context) (int, error)
	IsOwnerFunc      func(ctx context.Context, spotID, userID int64) (bool, error)
	SetPhotoFunc     func(ctx context.Context, spotID int64, photo string) error
	ListByTagFunc    func(ctx context.Context, tag string) ([]spots.Spot, error)
	TagFrequencyFunc func(ctx context.Context) ([]spots.TagCount, error)
	TopRatedFunc     func(ctx context.Context, minReviews, limit int) ([]spots.TopSpot, error)
	TextSearchFunc   func(ctx context.Context, query string, limit int) ([]spots.RankedSpot, error)
	NearbyFunc       func(ctx context.Context, lng, lat, maxDistanceMeters float64, limit int) ([]spots.Marker, error)
	ListHeartedFunc  func(ctx context.Context, userID int64) ([]spots.Spot, error)
}

func (m *mockSpotStore) Create(ctx context.Context, spot *spots.Spot) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, spot)
	}
	return nil
}

func (m *mockSpotStore) Update(ctx context.Context, spotID int64, updateData map[string]interface{}) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, spotID, updateData)
	}
	return nil
}

func (m *mockSpotStore) GetByID(ctx context.Context, spotID int64) (*spots.Spot, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, spotID)
	}
	return &spots.Spot{ID: spotID}, nil
}

func (m *mockSpotStore) GetBySlug(ctx context.Context, slug string) (*spots.Spot, error) {
	if m.GetBySlugFunc != nil {
		return m.GetBySlugFunc(ctx, slug)
	}
	return &spots.Spot{Slug: slug}, nil
}

func (m *mockSpotStore) List(ctx context.Context, limit, offset int) ([]spots.Spot, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []spots.Spot{}, nil
}

func (m *mockSpotStore) Count(ctx context.Context) (int, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *mockSpotStore) IsOwner(ctx context.Context, spotID, userID int64) (bool, error) {
	if m.IsOwnerFunc != nil {
		return m.IsOwnerFunc(ctx, spotID, userID)
	}
	return true, nil
}

func (m *mockSpotStore) SetPhoto(ctx context.Context, spotID int64, photo string) error {
	if m.SetPhotoFunc != nil {
		return m.SetPhotoFunc(ctx, spotID, photo)
	}
	return nil
}

func (m *mockSpotStore) ListByTag(ctx context.Context, tag string) ([]spots.Spot, error) {
	if m.ListByTagFunc != nil {
		return m.ListByTagFunc(ctx, tag)
	}
	return []spots.Spot{}, nil
}

func (m *mockSpotStore) TagFrequency(ctx context.Context) ([]spots.TagCount, error) {
	if m.TagFrequencyFunc != nil {
		return m.TagFrequencyFunc(ctx)
	}
	return []spots.TagCount{}, nil
}

func (m *mockSpotStore) TopRated(ctx context.Context, minReviews, limit int) ([]spots.TopSpot, error) {
	if m.TopRatedFunc != nil {
		return m.TopRatedFunc(ctx, minReviews, limit)
	}
	return []spots.TopSpot{}, nil
}

func (m *mockSpotStore) TextSearch(ctx context.Context, query string, limit int) ([]spots.RankedSpot, error) {
	if m.TextSearchFunc != nil {
		return m.TextSearchFunc(ctx, query, limit)
	}
	return []spots.RankedSpot{}, nil
}

func (m *mockSpotStore) Nearby(ctx context.Context, lng, lat, maxDistanceMeters float64, limit int) ([]spots.Marker, error) {
	if m.NearbyFunc != nil {
		return m.NearbyFunc(ctx, lng, lat, maxDistanceMeters, limit)
	}
	return []spots.Marker{}, nil
}

func (m *mockSpotStore) ListHearted(ctx context.Context, userID int64) ([]spots.Spot, error) {
	if m.ListHeartedFunc != nil {
		return m.ListHeartedFunc(ctx, userID)
	}
	return []spots.Spot{}, nil
}

type mockUserStore struct {
	CreateFunc      func(ctx context.Context, user *users.User) error
	GetByIDFunc     func(ctx context.Context, userID int64) (*users.User, error)
	GetByEmailFunc  func(ctx context.Context, email string) (*users.User, error)
	ToggleHeartFunc func(ctx context.Context, userID, spotID int64) ([]int64, error)
	GetHeartsFunc   func(ctx context.Context, userID int64) ([]int64, error)
}

func (m *mockUserStore) Create(ctx context.Context, user *users.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	user.ID = 1
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, userID int64) (*users.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID)
	}
	return &users.User{ID: userID}, nil
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return &users.User{ID: 1, Email: email}, nil
}

func (m *mockUserStore) ToggleHeart(ctx context.Context, userID, spotID int64) ([]int64, error) {
	if m.ToggleHeartFunc != nil {
		return m.ToggleHeartFunc(ctx, userID, spotID)
	}
	return []int64{}, nil
}

func (m *mockUserStore) GetHearts(ctx context.Context, userID int64) ([]int64, error) {
	if m.GetHeartsFunc != nil {
		return m.GetHeartsFunc(ctx, userID)
	}
	return []int64{}, nil
}

type mockReviewStore struct {
	CreateFunc     func(ctx context.Context, review *reviews.Review) error
	ListBySpotFunc func(ctx context.Context, spotID int64) ([]reviews.Review, error)
	StatsFunc      func(ctx context.Context, spotID int64) (int, float64, error)
}

func (m *mockReviewStore) Create(ctx context.Context, review *reviews.Review) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, review)
	}
	review.ID = 1
	return nil
}

func (m *mockReviewStore) ListBySpot(ctx context.Context, spotID int64) ([]reviews.Review, error) {
	if m.ListBySpotFunc != nil {
		return m.ListBySpotFunc(ctx, spotID)
	}
	return []reviews.Review{}, nil
}

func (m *mockReviewStore) Stats(ctx context.Context, spotID int64) (int, float64, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, spotID)
	}
	return 0, 0, nil
}

type stubAuthenticator struct{}

func (stubAuthenticator) GenerateTokens(userID int64) (string, string, error) {
	return "access", "refresh", nil
}

func (stubAuthenticator) ValidateAccessToken(token string) (*jwt.Token, error) {
	return &jwt.Token{Valid: true, Claims: jwt.MapClaims{"sub": float64(1)}}, nil
}

func (stubAuthenticator) ValidateRefreshToken(token string) (*jwt.Token, error) {
	return &jwt.Token{Valid: true, Claims: jwt.MapClaims{"sub": float64(1)}}, nil
}

func newTestApplication() *application {
	return &application{
		config: config{
			env:         "test",
			rateLimiter: ratelimiter.Config{Enabled: false},
		},
		logger: zap.NewNop().Sugar(),
		store: &storage.Container{
			Users:   &mockUserStore{},
			Spots:   &mockSpotStore{},
			Reviews: &mockReviewStore{},
		},
		authenticator: stubAuthenticator{},
	}
}

// withUser plants an authenticated user in the request context the way
// AuthTokenMiddleware does.
func withUser(r *http.Request, user *users.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userCtx, user))
}

// withURLParam attaches a chi route parameter for handlers invoked
// outside a router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func executeRequest(req *http.Request, handler http.HandlerFunc) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}
