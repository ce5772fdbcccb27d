package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type heartsResponse struct {
	Hearts []int64 `json:"hearts"`
}

// ToggleHeart godoc
//
//	@Summary		Toggle a spot in the user's hearts
//	@Description	Adds the spot to the authenticated user's heart set when absent, removes it when present. Always returns the updated set.
//	@Tags			Hearts
//	@Produce		json
//	@Param			spotID	path		int	true	"Spot ID"
//	@Success		200		{object}	heartsResponse
//	@Failure		400		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/spots/{spotID}/heart [post]
func (app *application) toggleHeartHandler(w http.ResponseWriter, r *http.Request) {
	spotID, err := strconv.ParseInt(chi.URLParam(r, "spotID"), 10, 64)
	if err != nil || spotID == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid spotID"))
		return
	}

	user := getUserFromContext(r)

	hearts, err := app.store.Users.ToggleHeart(r.Context(), user.ID, spotID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, heartsResponse{Hearts: hearts}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// ListHearted godoc
//
//	@Summary	The spots the authenticated user has hearted
//	@Tags		Hearts
//	@Produce	json
//	@Success	200	{array}	spots.Spot
//	@Security	ApiKeyAuth
//	@Router		/hearts [get]
func (app *application) listHeartedHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	hearted, err := app.store.Spots.ListHearted(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, hearted); err != nil {
		app.internalServerError(w, r, err)
	}
}
