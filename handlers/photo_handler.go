package handlers

import (
	"errors"
	"net/http"

	"github.com/matchops/cup-console/services"
)

const maxPhotoUploadBytes = 10 << 20 // 10MB

type PhotoHandler struct {
	photoService services.PhotoService
}

func NewPhotoHandler(ps services.PhotoService) *PhotoHandler {
	return &PhotoHandler{photoService: ps}
}

// Upload accepts a multipart form with an "image" file plus uploader_name and
// an optional caption field.
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoUploadBytes)
	if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
		badRequestResponse(w, r, errors.New("request is not a valid multipart form or exceeds the size limit"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		badRequestResponse(w, r, errors.New("missing image file in form field \"image\""))
		return
	}
	defer file.Close()

	var caption *string
	if raw := r.FormValue("caption"); raw != "" {
		caption = &raw
	}

	photo, err := h.photoService.Upload(r.Context(), services.UploadPhotoInput{
		TournamentID: tournamentID,
		UploaderName: r.FormValue("uploader_name"),
		Caption:      caption,
		ContentType:  header.Header.Get("Content-Type"),
		Body:         file,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"photo": photo}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PhotoHandler) List(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	photos, err := h.photoService.List(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"photos": photos}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	photoID, err := urlParam(r, "photoID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.photoService.Delete(r.Context(), photoID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
