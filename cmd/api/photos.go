package main

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxPhotoSize caps the multipart body at 10 MB.
const maxPhotoSize = 10 << 20

// UploadSpotPhoto godoc
//
//	@Summary		Upload a photo for a spot
//	@Description	Accepts one JPEG or PNG in the "photo" form field, stores it in Cloudinary and records the URL on the spot. Only the spot's author may upload.
//	@Tags			Spots
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			spotID	path		int		true	"Spot ID"
//	@Param			photo	formData	file	true	"Image file"
//	@Success		200		{object}	map[string]string
//	@Failure		400		{object}	error
//	@Failure		403		{object}	error
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/spots/{spotID}/photo [post]
func (app *application) uploadSpotPhotoHandler(w http.ResponseWriter, r *http.Request) {
	spotID, err := strconv.ParseInt(chi.URLParam(r, "spotID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid spotID: %v", err))
		return
	}

	if !app.confirmOwner(w, r, spotID) {
		return
	}

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("could not parse form: %v", err))
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("could not retrieve photo: %v", err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" {
		app.badRequestResponse(w, r, fmt.Errorf("unsupported content type %q, only jpeg and png are allowed", contentType))
		return
	}

	photoURL, err := app.uploadSpotPhoto(r, file, spotID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Spots.SetPhoto(r.Context(), spotID, photoURL); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"photo": photoURL}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// uploadSpotPhoto pushes the file to Cloudinary under a random public ID
// so repeat uploads never clobber each other, and returns the secure URL.
func (app *application) uploadSpotPhoto(r *http.Request, file io.Reader, spotID int64) (string, error) {
	publicID := fmt.Sprintf("spot_%d_%s", spotID, uuid.NewString())

	resp, err := app.cld.Upload.Upload(r.Context(), file, uploader.UploadParams{
		Folder:    "spots",
		PublicID:  publicID,
		Overwrite: api.Bool(false),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}

	return resp.SecureURL, nil
}
