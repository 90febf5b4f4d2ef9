package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bigeaze08-web/candy-group-app-v3/middleware"
	"github.com/bigeaze08-web/candy-group-app-v3/services"
)

const maxPhotoBytes = 10 << 20 // 10 MB

type PhotoHandler struct {
	photoService *services.PhotoService
}

func NewPhotoHandler(photoService *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{
		photoService: photoService,
	}
}

// UploadPhoto accepts a multipart "photo" field, stores it in the bucket and
// returns the public URL.
func (h *PhotoHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	session, ok := middleware.GetSession(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes)
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, "Photo too large or malformed upload")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Multipart field 'photo' is required")
		return
	}
	defer file.Close()

	url, err := h.photoService.UploadProgressPhoto(ctx, session.ClerkID, header.Header.Get("Content-Type"), file)
	if err != nil {
		if errors.Is(err, services.ErrParticipantNotFound) {
			respondWithError(w, http.StatusNotFound, "Not registered for the challenge")
			return
		}
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"photo_url": url})
}
