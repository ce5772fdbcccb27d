package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"spotted/internal/domain/reviews"
	"spotted/internal/domain/spots"

	"github.com/go-chi/chi/v5"
)

type CreateReviewPayload struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Text   string `json:"text" validate:"required,max=1000"`
}

// CreateReview godoc
//
//	@Summary		Review a spot
//	@Description	Attaches a rating between 1 and 5 plus a short text to the spot.
//	@Tags			Reviews
//	@Accept			json
//	@Produce		json
//	@Param			spotID	path		int					true	"Spot ID"
//	@Param			payload	body		CreateReviewPayload	true	"Review"
//	@Success		201		{object}	reviews.Review
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/spots/{spotID}/reviews [post]
func (app *application) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	spotID, err := strconv.ParseInt(chi.URLParam(r, "spotID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid spotID: %v", err))
		return
	}

	var payload CreateReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// Reviews must hang off an existing spot.
	if _, err := app.store.Spots.GetByID(r.Context(), spotID); err != nil {
		if errors.Is(err, spots.ErrSpotNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	user := getUserFromContext(r)

	review := &reviews.Review{
		SpotID:   spotID,
		AuthorID: user.ID,
		Rating:   payload.Rating,
		Text:     strings.TrimSpace(payload.Text),
	}

	if err := app.store.Reviews.Create(r.Context(), review); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, review); err != nil {
		app.internalServerError(w, r, err)
	}
}

// ListSpotReviews godoc
//
//	@Summary	Reviews for one spot, newest first
//	@Tags		Reviews
//	@Produce	json
//	@Param		spotID	path		int	true	"Spot ID"
//	@Success	200		{array}		reviews.Review
//	@Failure	400		{object}	error
//	@Router		/spots/{spotID}/reviews [get]
func (app *application) listSpotReviewsHandler(w http.ResponseWriter, r *http.Request) {
	spotID, err := strconv.ParseInt(chi.URLParam(r, "spotID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid spotID: %v", err))
		return
	}

	listed, err := app.store.Reviews.ListBySpot(r.Context(), spotID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if listed == nil {
		listed = []reviews.Review{}
	}

	if err := app.jsonResponse(w, http.StatusOK, listed); err != nil {
		app.internalServerError(w, r, err)
	}
}
