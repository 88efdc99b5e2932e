package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/barelands/server/internal/models"
	"github.com/barelands/server/internal/observability"
	"github.com/barelands/server/internal/repository"
	"github.com/barelands/server/internal/services"
)

// PhotoHandler handles catalog endpoints
type PhotoHandler struct {
	store        repository.Catalog
	assetService *services.AssetService
	exifService  *services.EXIFService
	syncService  *services.SyncService
}

// NewPhotoHandler creates a new PhotoHandler
func NewPhotoHandler(
	store repository.Catalog,
	assetService *services.AssetService,
	exifService *services.EXIFService,
	syncService *services.SyncService,
) *PhotoHandler {
	return &PhotoHandler{
		store:        store,
		assetService: assetService,
		exifService:  exifService,
		syncService:  syncService,
	}
}

// List handles catalog listing
// @Summary List portfolio photos
// @Description List the validated catalog, newest first. An optional category filter narrows the result; "All" or no filter returns everything.
// @Tags photos
// @Produce json
// @Param category query string false "Category filter"
// @Success 200 {object} models.PhotoListResponse
// @Router /api/photos [get]
func (h *PhotoHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	photos := h.syncService.Photos(r.Context(), category)

	respondJSON(w, http.StatusOK, models.PhotoListResponse{
		Success: true,
		Photos:  photos,
		Count:   len(photos),
	})
}

// Upload handles photo creation
// @Summary Upload a photo
// @Description Add a photo to the catalog. Accepts multipart/form-data with a file, or JSON carrying a base64 data-URI or an external image URL.
// @Tags photos
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Success 201 {object} models.PhotoResponse "Photo created"
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 500 {object} models.ErrorResponse "Server error"
// @Router /api/photos/upload [post]
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		h.uploadMultipart(w, r)
		return
	}
	h.uploadJSON(w, r)
}

func (h *PhotoHandler) uploadMultipart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondError(w, http.StatusBadRequest, models.KindValidation, "Request must be multipart/form-data.")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		// Older admin builds posted the file under "file"
		file, header, err = r.FormFile("file")
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, models.KindValidation, "No image file provided.")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusInternalServerError, models.KindInternal, "Failed to read file.")
		return
	}

	imagePath, err := h.assetService.Store(r.Context(), content, filepath.Ext(header.Filename))
	if err != nil {
		respondPhotoError(w, err)
		return
	}

	featured, _ := strconv.ParseBool(r.FormValue("featured"))
	h.createPhoto(w, r, createParams{
		title:       r.FormValue("title"),
		category:    r.FormValue("category"),
		description: r.FormValue("description"),
		location:    r.FormValue("location"),
		featured:    featured,
		imagePath:   imagePath,
		rawImage:    content,
	})
}

func (h *PhotoHandler) uploadJSON(w http.ResponseWriter, r *http.Request) {
	var req models.UploadPhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, models.KindValidation, "Invalid JSON body.")
		return
	}

	var imagePath string

	switch {
	case req.ImageData != "":
		path, err := h.assetService.StoreDataURI(r.Context(), req.ImageData)
		if err != nil {
			respondPhotoError(w, err)
			return
		}
		imagePath = path
	case req.ImageURL != "":
		// Externally hosted asset; stored as-is, never copied locally
		imagePath = req.ImageURL
	default:
		respondError(w, http.StatusBadRequest, models.KindValidation, "Either imageData or imageUrl is required.")
		return
	}

	h.createPhoto(w, r, createParams{
		title:       req.Title,
		category:    req.Category,
		description: req.Description,
		location:    req.Location,
		featured:    req.Featured,
		imagePath:   imagePath,
	})
}

type createParams struct {
	title       string
	category    string
	description string
	location    string
	featured    bool
	imagePath   string
	rawImage    []byte
}

func (h *PhotoHandler) createPhoto(w http.ResponseWriter, r *http.Request, p createParams) {
	photo, err := models.NewPhoto(p.title, p.category, p.imagePath, p.description, p.location, p.featured)
	if err != nil {
		// Roll back the stored asset so validation failures leave no orphans
		h.assetService.Delete(r.Context(), p.imagePath)
		respondPhotoError(w, err)
		return
	}

	if len(p.rawImage) > 0 {
		if meta := h.exifService.Extract(p.rawImage); meta != nil {
			photo.Camera = meta.Camera
			photo.CapturedAt = meta.CapturedAt
		}
	}

	if _, err := h.store.Upsert(r.Context(), photo); err != nil {
		h.assetService.Delete(r.Context(), p.imagePath)
		respondPhotoError(w, err)
		return
	}

	h.syncService.AfterMutation(r.Context())

	observability.WithContext(r.Context()).WithFields(map[string]interface{}{
		"photo_id": photo.ID,
		"category": photo.Category,
	}).Info("Photo added to catalog")

	respondJSON(w, http.StatusCreated, models.PhotoResponse{
		Success: true,
		Message: "Photo uploaded successfully",
		Photo:   photo,
	})
}

// Update handles photo edits
// @Summary Update a photo
// @Description Edit an existing photo's mutable fields. ID and dateAdded never change. Replacing the image deletes the previous managed asset.
// @Tags photos
// @Accept json
// @Produce json
// @Param photo body models.PhotoUpdate true "Photo update"
// @Success 200 {object} models.PhotoResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Photo not found"
// @Router /api/photos/update [post]
func (h *PhotoHandler) Update(w http.ResponseWriter, r *http.Request) {
	var update models.PhotoUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, models.KindValidation, "Invalid JSON body.")
		return
	}
	if update.ID == "" {
		respondError(w, http.StatusBadRequest, models.KindValidation, "Photo ID is required.")
		return
	}

	existing := h.store.Get(r.Context(), update.ID)
	if existing == nil {
		respondError(w, http.StatusNotFound, models.KindNotFound, models.ErrPhotoNotFound.Error())
		return
	}

	previousImage := existing.Image

	// Work on a copy so a failed save never leaves a half-applied record
	updated := *existing
	if err := updated.ApplyUpdate(&update); err != nil {
		respondPhotoError(w, err)
		return
	}

	if _, err := h.store.Upsert(r.Context(), &updated); err != nil {
		respondPhotoError(w, err)
		return
	}

	if updated.Image != previousImage {
		h.assetService.Delete(r.Context(), previousImage)
	}

	h.syncService.AfterMutation(r.Context())

	respondJSON(w, http.StatusOK, models.PhotoResponse{
		Success: true,
		Message: "Photo updated successfully",
		Photo:   &updated,
	})
}

// Delete handles photo removal
// @Summary Delete a photo
// @Description Remove a photo from the catalog and delete its managed asset. Externally hosted images are left untouched.
// @Tags photos
// @Accept json
// @Produce json
// @Param request body models.DeletePhotoRequest true "Photo to delete"
// @Success 200 {object} models.DeletePhotoResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Photo not found"
// @Router /api/photos/delete [post]
func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req models.DeletePhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, models.KindValidation, "Invalid JSON body.")
		return
	}
	if req.ID == "" {
		respondError(w, http.StatusBadRequest, models.KindValidation, "Photo ID is required.")
		return
	}

	photo := h.store.Get(r.Context(), req.ID)
	if photo == nil {
		respondError(w, http.StatusNotFound, models.KindNotFound, models.ErrPhotoNotFound.Error())
		return
	}

	removed, err := h.store.Remove(r.Context(), req.ID)
	if err != nil {
		respondPhotoError(w, err)
		return
	}

	assetDeleted := false
	if removed {
		assetDeleted = h.assetService.Delete(r.Context(), photo.Image)
	}

	h.syncService.AfterMutation(r.Context())

	observability.WithContext(r.Context()).WithFields(map[string]interface{}{
		"photo_id":      req.ID,
		"asset_deleted": assetDeleted,
	}).Info("Photo removed from catalog")

	respondJSON(w, http.StatusOK, models.DeletePhotoResponse{
		Success:      true,
		PhotoID:      req.ID,
		AssetDeleted: assetDeleted,
	})
}

// Feature handles the featured-flag toggle
// @Summary Toggle a photo's featured flag
// @Description Flip the featured flag of a catalog photo and report the new state.
// @Tags photos
// @Accept json
// @Produce json
// @Param request body models.FeaturePhotoRequest true "Photo to toggle"
// @Success 200 {object} models.FeaturePhotoResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Photo not found"
// @Router /api/photos/feature [post]
func (h *PhotoHandler) Feature(w http.ResponseWriter, r *http.Request) {
	var req models.FeaturePhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, models.KindValidation, "Invalid JSON body.")
		return
	}
	if req.ID == "" {
		respondError(w, http.StatusBadRequest, models.KindValidation, "Photo ID is required.")
		return
	}

	photo, err := h.store.ToggleFeatured(r.Context(), req.ID)
	if err != nil {
		respondPhotoError(w, err)
		return
	}

	h.syncService.AfterMutation(r.Context())

	respondJSON(w, http.StatusOK, models.FeaturePhotoResponse{
		Success:  true,
		PhotoID:  photo.ID,
		Featured: photo.Featured,
	})
}

// Sync handles explicit catalog synchronization
// @Summary Synchronize the catalog
// @Description Reload the catalog document, drop records whose backing asset is missing, and refresh the served view. Public so deploy hooks and health checks can call it.
// @Tags photos
// @Produce json
// @Success 200 {object} models.SyncResponse
// @Router /api/photos/sync [get]
func (h *PhotoHandler) Sync(w http.ResponseWriter, r *http.Request) {
	result := h.syncService.Sync(r.Context())

	respondJSON(w, http.StatusOK, models.SyncResponse{
		Success:       true,
		Message:       "Catalog synchronized",
		PhotoCount:    result.Count,
		OriginalCount: result.Total,
		Dropped:       result.Dropped,
	})
}
