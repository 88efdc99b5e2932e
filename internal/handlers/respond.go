package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/barelands/server/internal/models"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, kind, message string) {
	respondJSON(w, status, models.ErrorResponse{Error: message, Kind: kind})
}

func respondFieldErrors(w http.ResponseWriter, message string, fields map[string]string) {
	respondJSON(w, http.StatusBadRequest, models.ErrorResponse{
		Error:  message,
		Kind:   models.KindValidation,
		Fields: fields,
	})
}

// respondPhotoError maps catalog and asset errors onto the error envelope
func respondPhotoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrPhotoNotFound):
		respondError(w, http.StatusNotFound, models.KindNotFound, err.Error())
	case errors.Is(err, models.ErrEmptyTitle),
		errors.Is(err, models.ErrInvalidCategory),
		errors.Is(err, models.ErrEmptyImage),
		errors.Is(err, models.ErrInvalidImageData),
		errors.Is(err, models.ErrInvalidExtension),
		errors.Is(err, models.ErrFileTooLarge),
		errors.Is(err, models.ErrPathTraversal):
		respondError(w, http.StatusBadRequest, models.KindValidation, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, models.KindStorage, "Failed to persist catalog.")
	}
}
