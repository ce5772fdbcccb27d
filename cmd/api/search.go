package main

import (
	"fmt"
	"net/http"
	"strconv"
)

// Limits mirrored from the map and autocomplete clients.
const (
	textSearchLimit = 5
	nearbyLimit     = 10

	// defaultNearbyDistance bounds the proximity search to 200 km.
	defaultNearbyDistance = 200_000
)

// SearchSpots godoc
//
//	@Summary		Full-text spot search
//	@Description	Relevance-ranked search over name and description. An empty query returns an empty list.
//	@Tags			Search
//	@Produce		json
//	@Param			q	query		string	false	"Search terms"
//	@Success		200	{array}		spots.RankedSpot
//	@Failure		500	{object}	error
//	@Router			/search [get]
func (app *application) searchSpotsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	results, err := app.store.Spots.TextSearch(r.Context(), q, textSearchLimit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, results); err != nil {
		app.internalServerError(w, r, err)
	}
}

// NearbySpots godoc
//
//	@Summary		Spots near a point
//	@Description	Returns map markers within the distance bound, nearest first. Coordinates arrive as strings and must parse as numbers.
//	@Tags			Search
//	@Produce		json
//	@Param			lng			query		number	true	"Longitude"
//	@Param			lat			query		number	true	"Latitude"
//	@Param			distance	query		number	false	"Max distance in meters"	default(200000)
//	@Success		200			{array}		spots.Marker
//	@Failure		400			{object}	error	"Unparsable coordinates"
//	@Router			/spots/near [get]
func (app *application) nearbySpotsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lng, err := strconv.ParseFloat(q.Get("lng"), 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid lng: %q", q.Get("lng")))
		return
	}

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid lat: %q", q.Get("lat")))
		return
	}

	distance := float64(defaultNearbyDistance)
	if raw := q.Get("distance"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			app.badRequestResponse(w, r, fmt.Errorf("invalid distance: %q", raw))
			return
		}
		distance = parsed
	}

	markers, err := app.store.Spots.Nearby(r.Context(), lng, lat, distance, nearbyLimit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, markers); err != nil {
		app.internalServerError(w, r, err)
	}
}
