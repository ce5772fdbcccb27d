package main

import (
	"net/http"
)

const (
	topRatedMinReviews = 2
	topRatedLimit      = 10
)

// TopRated godoc
//
//	@Summary		Top rated spots
//	@Description	Spots with at least two reviews, ranked by mean rating computed from the review join at query time.
//	@Tags			Spots
//	@Produce		json
//	@Success		200	{array}		spots.TopSpot
//	@Failure		500	{object}	error
//	@Router			/top [get]
func (app *application) topRatedHandler(w http.ResponseWriter, r *http.Request) {
	top, err := app.store.Spots.TopRated(r.Context(), topRatedMinReviews, topRatedLimit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, top); err != nil {
		app.internalServerError(w, r, err)
	}
}
