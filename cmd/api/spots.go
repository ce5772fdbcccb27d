package main

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"spotted/internal/domain/reviews"
	"spotted/internal/domain/spots"
	"spotted/internal/pagination"

	"github.com/go-chi/chi/v5"
)

// spotsPerPage matches the page size the directory UI renders.
const spotsPerPage = 6

type LocationPayload struct {
	Coordinates []float64 `json:"coordinates" validate:"required,len=2"`
	Address     string    `json:"address" validate:"required,max=255"`
}

type CreateSpotPayload struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=1000"`
	Tags        []string        `json:"tags,omitempty" validate:"max=20,dive,min=1,max=50"`
	Location    LocationPayload `json:"location" validate:"required"`
}

// CreateSpot godoc
//
//	@Summary		Submit a new spot
//	@Description	Creates a spot with name, coordinates, address and tags. The slug is derived from the name.
//	@Tags			Spots
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateSpotPayload	true	"Spot details"
//	@Success		201		{object}	spots.Spot			"Spot created"
//	@Failure		400		{object}	error				"Invalid request payload"
//	@Failure		409		{object}	error				"Slug already taken"
//	@Security		ApiKeyAuth
//	@Router			/spots [post]
func (app *application) createSpotHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateSpotPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	lng, lat := payload.Location.Coordinates[0], payload.Location.Coordinates[1]
	if !finiteCoordinates(lng, lat) {
		app.badRequestResponse(w, r, errors.New("coordinates must be finite numbers"))
		return
	}

	user := getUserFromContext(r)

	spot := &spots.Spot{
		AuthorID:    user.ID,
		Name:        strings.TrimSpace(payload.Name),
		Description: trimmed(payload.Description),
		Tags:        payload.Tags,
		Location: spots.Location{
			Type:        "Point",
			Coordinates: [2]float64{lng, lat},
			Address:     strings.TrimSpace(payload.Location.Address),
		},
	}

	if err := app.store.Spots.Create(r.Context(), spot); err != nil {
		switch {
		case errors.Is(err, spots.ErrDuplicateSlug):
			app.conflictResponse(w, r, err)
		case errors.Is(err, spots.ErrValidation):
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, spot); err != nil {
		app.internalServerError(w, r, err)
	}
}

// UpdateSpot godoc
//
//	@Summary		Update a spot
//	@Description	Partial update; only the spot's author may edit it. Changing the name re-derives the slug.
//	@Tags			Spots
//	@Accept			json
//	@Produce		json
//	@Param			spotID		path		int						true	"Spot ID"
//	@Param			updateData	body		map[string]interface{}	true	"Fields to update"
//	@Success		200			{object}	spots.Spot
//	@Failure		400			{object}	error
//	@Failure		403			{object}	error
//	@Failure		404			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/spots/{spotID} [patch]
func (app *application) updateSpotHandler(w http.ResponseWriter, r *http.Request) {
	spotID, err := strconv.ParseInt(chi.URLParam(r, "spotID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid spotID: %v", err))
		return
	}

	if !app.confirmOwner(w, r, spotID) {
		return
	}

	var updateData map[string]interface{}
	if err := readJSON(w, r, &updateData); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if len(updateData) == 0 {
		app.badRequestResponse(w, r, errors.New("no fields to update"))
		return
	}

	if err := app.store.Spots.Update(r.Context(), spotID, updateData); err != nil {
		switch {
		case errors.Is(err, spots.ErrSpotNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, spots.ErrDuplicateSlug):
			app.conflictResponse(w, r, err)
		case errors.Is(err, spots.ErrValidation):
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	spot, err := app.store.Spots.GetByID(r.Context(), spotID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, spot); err != nil {
		app.internalServerError(w, r, err)
	}
}

type spotWithReviews struct {
	*spots.Spot
	Reviews       []reviews.Review `json:"reviews"`
	ReviewCount   int              `json:"review_count"`
	AverageRating float64          `json:"average_rating"`
}

// GetSpotBySlug godoc
//
//	@Summary		Fetch one spot by slug
//	@Description	Returns the spot plus its reviews joined at read time.
//	@Tags			Spots
//	@Produce		json
//	@Param			slug	path		string	true	"Spot slug"
//	@Success		200		{object}	spotWithReviews
//	@Failure		404		{object}	error
//	@Router			/spot/{slug} [get]
func (app *application) getSpotBySlugHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	spot, err := app.store.Spots.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, spots.ErrSpotNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	spotReviews, err := app.store.Reviews.ListBySpot(r.Context(), spot.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if spotReviews == nil {
		spotReviews = []reviews.Review{}
	}

	count, average, err := app.store.Reviews.Stats(r.Context(), spot.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	resp := spotWithReviews{
		Spot:          spot,
		Reviews:       spotReviews,
		ReviewCount:   count,
		AverageRating: average,
	}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

type spotListResponse struct {
	Spots      []spots.Spot `json:"spots"`
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
	Count      int          `json:"count"`
	RedirectTo int          `json:"redirect_to,omitempty"`
	Notice     string       `json:"notice,omitempty"`
}

// ListSpots godoc
//
//	@Summary		List spots, newest first
//	@Description	Paged listing. A page past the end answers with an empty window and a redirect signal pointing at the last page.
//	@Tags			Spots
//	@Produce		json
//	@Param			page	query		int	false	"Page number"	default(1)
//	@Success		200		{object}	spotListResponse
//	@Failure		400		{object}	error
//	@Router			/spots [get]
func (app *application) listSpotsHandler(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			app.badRequestResponse(w, r, fmt.Errorf("invalid page: %q", raw))
			return
		}
		page = parsed
	}

	count, err := app.store.Spots.Count(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	plan := pagination.NewPlan(page, spotsPerPage, count)

	resp := spotListResponse{
		Spots:      []spots.Spot{},
		Page:       plan.Page,
		TotalPages: plan.TotalPages,
		Count:      count,
	}

	// Past the last page of a non-empty collection: recoverable redirect,
	// not an error. An empty collection on page 1 falls through and
	// answers with a plain empty window.
	if plan.OutOfRange {
		resp.RedirectTo = plan.RedirectTo
		resp.Notice = fmt.Sprintf("there is no page %d, try page %d", plan.Page, plan.RedirectTo)
		if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
			app.internalServerError(w, r, err)
		}
		return
	}

	listed, err := app.store.Spots.List(r.Context(), plan.Limit(), plan.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if listed != nil {
		resp.Spots = listed
	}

	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

type tagListResponse struct {
	Tag   string           `json:"tag,omitempty"`
	Tags  []spots.TagCount `json:"tags"`
	Spots []spots.Spot     `json:"spots"`
}

// ListByTag godoc
//
//	@Summary	Tag frequency table plus the spots matching a tag
//	@Tags		Tags
//	@Produce	json
//	@Param		tag	path		string	false	"Tag to filter by; empty matches every tagged spot"
//	@Success	200	{object}	tagListResponse
//	@Router		/tags/{tag} [get]
func (app *application) listByTagHandler(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")

	tags, err := app.store.Spots.TagFrequency(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	matching, err := app.store.Spots.ListByTag(r.Context(), tag)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	resp := tagListResponse{Tag: tag, Tags: tags, Spots: matching}
	if resp.Tags == nil {
		resp.Tags = []spots.TagCount{}
	}
	if resp.Spots == nil {
		resp.Spots = []spots.Spot{}
	}

	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

// confirmOwner checks that the authenticated user authored the spot and
// writes the error response itself when not. It must run before any
// owner-only mutation.
func (app *application) confirmOwner(w http.ResponseWriter, r *http.Request, spotID int64) bool {
	user := getUserFromContext(r)
	if user == nil {
		app.unauthorizedErrorResponse(w, r, errors.New("no authenticated user in context"))
		return false
	}

	isOwner, err := app.store.Spots.IsOwner(r.Context(), spotID, user.ID)
	if err != nil {
		if errors.Is(err, spots.ErrSpotNotFound) {
			app.notFoundResponse(w, r, err)
			return false
		}
		app.internalServerError(w, r, err)
		return false
	}
	if !isOwner {
		app.forbiddenResponse(w, r)
		return false
	}
	return true
}

func finiteCoordinates(lng, lat float64) bool {
	for _, c := range []float64{lng, lat} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
