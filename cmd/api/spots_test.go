package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"spotted/internal/domain/spots"
	"spotted/internal/domain/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSpotsPagination(t *testing.T) {
	app := newTestApplication()

	var gotLimit, gotOffset int
	spotStore := app.store.Spots.(*mockSpotStore)
	spotStore.CountFunc = func(ctx context.Context) (int, error) { return 13, nil }
	spotStore.ListFunc = func(ctx context.Context, limit, offset int) ([]spots.Spot, error) {
		gotLimit, gotOffset = limit, offset
		return []spots.Spot{{ID: 1}}, nil
	}

	t.Run("second page offsets by one window", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/spots?page=2", nil)
		rr := executeRequest(req, app.listSpotsHandler)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, spotsPerPage, gotLimit)
		assert.Equal(t, spotsPerPage, gotOffset)
	})

	t.Run("overflow answers a redirect signal, not an error", func(t *testing.T) {
		listCalled := false
		spotStore.ListFunc = func(ctx context.Context, limit, offset int) ([]spots.Spot, error) {
			listCalled = true
			return nil, nil
		}

		req := httptest.NewRequest(http.MethodGet, "/v1/spots?page=99", nil)
		rr := executeRequest(req, app.listSpotsHandler)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.False(t, listCalled, "out of range pages must not hit the store")

		var envelope struct {
			Data spotListResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
		assert.Equal(t, 3, envelope.Data.RedirectTo, "13 spots at 6 per page means last page 3")
		assert.NotEmpty(t, envelope.Data.Notice)
		assert.Empty(t, envelope.Data.Spots)
	})

	t.Run("empty collection on page one is terminal", func(t *testing.T) {
		spotStore.CountFunc = func(ctx context.Context) (int, error) { return 0, nil }

		req := httptest.NewRequest(http.MethodGet, "/v1/spots", nil)
		rr := executeRequest(req, app.listSpotsHandler)

		require.Equal(t, http.StatusOK, rr.Code)

		var envelope struct {
			Data spotListResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
		assert.Zero(t, envelope.Data.RedirectTo)
		assert.Empty(t, envelope.Data.Spots)
	})

	t.Run("garbage page parameter is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/spots?page=banana", nil)
		rr := executeRequest(req, app.listSpotsHandler)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetSpotBySlug(t *testing.T) {
	app := newTestApplication()
	spotStore := app.store.Spots.(*mockSpotStore)

	t.Run("unknown slug is 404", func(t *testing.T) {
		spotStore.GetBySlugFunc = func(ctx context.Context, slug string) (*spots.Spot, error) {
			return nil, spots.ErrSpotNotFound
		}

		req := httptest.NewRequest(http.MethodGet, "/v1/spot/no-such-place", nil)
		req = withURLParam(req, "slug", "no-such-place")
		rr := executeRequest(req, app.getSpotBySlugHandler)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("known slug carries its reviews", func(t *testing.T) {
		spotStore.GetBySlugFunc = func(ctx context.Context, slug string) (*spots.Spot, error) {
			return &spots.Spot{ID: 7, Slug: slug, Name: "Pier 39"}, nil
		}

		req := httptest.NewRequest(http.MethodGet, "/v1/spot/pier-39", nil)
		req = withURLParam(req, "slug", "pier-39")
		rr := executeRequest(req, app.getSpotBySlugHandler)

		require.Equal(t, http.StatusOK, rr.Code)

		var envelope struct {
			Data struct {
				Slug    string            `json:"slug"`
				Reviews []json.RawMessage `json:"reviews"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
		assert.Equal(t, "pier-39", envelope.Data.Slug)
		assert.NotNil(t, envelope.Data.Reviews)
	})
}

func TestCreateSpotValidation(t *testing.T) {
	app := newTestApplication()
	user := &users.User{ID: 42}

	tests := []struct {
		name     string
		payload  string
		wantCode int
	}{
		{
			name:     "missing name",
			payload:  `{"location":{"coordinates":[-122.41,37.81],"address":"Pier 39"}}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing location",
			payload:  `{"name":"Pier 39"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "one coordinate only",
			payload:  `{"name":"Pier 39","location":{"coordinates":[-122.41],"address":"Pier 39"}}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown field rejected",
			payload:  `{"name":"Pier 39","rating":5,"location":{"coordinates":[-122.41,37.81],"address":"Pier 39"}}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "valid payload",
			payload:  `{"name":"Pier 39","tags":["view"],"location":{"coordinates":[-122.41,37.81],"address":"Beach Street"}}`,
			wantCode: http.StatusCreated,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/spots", bytes.NewBufferString(tc.payload))
			req = withUser(req, user)
			rr := executeRequest(req, app.createSpotHandler)

			assert.Equal(t, tc.wantCode, rr.Code)
		})
	}
}

func TestCreateSpotSlugConflict(t *testing.T) {
	app := newTestApplication()
	spotStore := app.store.Spots.(*mockSpotStore)
	spotStore.CreateFunc = func(ctx context.Context, spot *spots.Spot) error {
		return spots.ErrDuplicateSlug
	}

	payload := `{"name":"Pier 39","location":{"coordinates":[-122.41,37.81],"address":"Beach Street"}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/spots", bytes.NewBufferString(payload))
	req = withUser(req, &users.User{ID: 42})
	rr := executeRequest(req, app.createSpotHandler)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestUpdateSpotOwnership(t *testing.T) {
	app := newTestApplication()
	spotStore := app.store.Spots.(*mockSpotStore)

	t.Run("non-author is forbidden", func(t *testing.T) {
		spotStore.IsOwnerFunc = func(ctx context.Context, spotID, userID int64) (bool, error) {
			return false, nil
		}

		req := httptest.NewRequest(http.MethodPatch, "/v1/spots/7", bytes.NewBufferString(`{"name":"New Name"}`))
		req = withUser(req, &users.User{ID: 99})
		req = withURLParam(req, "spotID", "7")
		rr := executeRequest(req, app.updateSpotHandler)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("missing spot is 404", func(t *testing.T) {
		spotStore.IsOwnerFunc = func(ctx context.Context, spotID, userID int64) (bool, error) {
			return false, spots.ErrSpotNotFound
		}

		req := httptest.NewRequest(http.MethodPatch, "/v1/spots/7", bytes.NewBufferString(`{"name":"New Name"}`))
		req = withUser(req, &users.User{ID: 42})
		req = withURLParam(req, "spotID", "7")
		rr := executeRequest(req, app.updateSpotHandler)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("empty patch is a bad request", func(t *testing.T) {
		spotStore.IsOwnerFunc = nil

		req := httptest.NewRequest(http.MethodPatch, "/v1/spots/7", bytes.NewBufferString(`{}`))
		req = withUser(req, &users.User{ID: 42})
		req = withURLParam(req, "spotID", "7")
		rr := executeRequest(req, app.updateSpotHandler)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
