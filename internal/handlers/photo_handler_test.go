package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barelands/server/internal/models"
	"github.com/barelands/server/internal/repository"
	"github.com/barelands/server/internal/services"
)

type photoFixture struct {
	store  *repository.CatalogStore
	assets *services.AssetService
	sync   *services.SyncService
	router *chi.Mux
}

func setupPhotoHandler(t *testing.T) *photoFixture {
	t.Helper()

	store := repository.NewCatalogStore(filepath.Join(t.TempDir(), "photos.json"))
	assets, err := services.NewAssetService(t.TempDir(), "/uploads/", nil, 25)
	require.NoError(t, err)

	syncSvc := services.NewSyncService(store, assets, services.NopRevalidator{}, nil)
	handler := NewPhotoHandler(store, assets, services.NewEXIFService(), syncSvc)

	r := chi.NewRouter()
	r.Get("/api/photos", handler.List)
	r.Get("/api/photos/sync", handler.Sync)
	r.Post("/api/photos/upload", handler.Upload)
	r.Post("/api/photos/update", handler.Update)
	r.Post("/api/photos/delete", handler.Delete)
	r.Post("/api/photos/feature", handler.Feature)

	return &photoFixture{store: store, assets: assets, sync: syncSvc, router: r}
}

func pngDataURI(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func (f *photoFixture) uploadPhoto(t *testing.T, title, category string) *models.Photo {
	t.Helper()

	body, err := json.Marshal(models.UploadPhotoRequest{
		Title:     title,
		Category:  category,
		ImageData: pngDataURI(t),
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/photos/upload", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp models.PhotoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Photo)
	return resp.Photo
}

func TestPhotoHandler_List(t *testing.T) {
	t.Run("lists uploaded photos", func(t *testing.T) {
		f := setupPhotoHandler(t)
		f.uploadPhoto(t, "Dolomites", "Mountains")
		f.uploadPhoto(t, "Atlantic", "Oceans")

		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/photos", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp models.PhotoListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, 2, resp.Count)
	})

	t.Run("filters by category", func(t *testing.T) {
		f := setupPhotoHandler(t)
		f.uploadPhoto(t, "Dolomites", "Mountains")
		f.uploadPhoto(t, "Atlantic", "Oceans")

		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/photos?category=Oceans", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp models.PhotoListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, 1, resp.Count)
		assert.Equal(t, "Atlantic", resp.Photos[0].Title)
	})

	t.Run("empty catalog lists cleanly", func(t *testing.T) {
		f := setupPhotoHandler(t)

		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/photos", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp models.PhotoListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 0, resp.Count)
	})
}

func TestPhotoHandler_Upload(t *testing.T) {
	t.Run("creates a photo from a data-URI", func(t *testing.T) {
		f := setupPhotoHandler(t)

		photo := f.uploadPhoto(t, "Dolomites at Dawn", "Mountains")
		assert.NotEmpty(t, photo.ID)
		assert.True(t, strings.HasPrefix(photo.Image, "/uploads/"))
		assert.True(t, f.assets.Exists(photo.Image))
	})

	t.Run("accepts a multipart upload", func(t *testing.T) {
		f := setupPhotoHandler(t)

		var imgBuf bytes.Buffer
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		require.NoError(t, png.Encode(&imgBuf, img))

		var body bytes.Buffer
		form := multipart.NewWriter(&body)
		part, err := form.CreateFormFile("image", "shot.png")
		require.NoError(t, err)
		_, err = part.Write(imgBuf.Bytes())
		require.NoError(t, err)
		require.NoError(t, form.WriteField("title", "Multipart"))
		require.NoError(t, form.WriteField("category", "Forests"))
		require.NoError(t, form.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/photos/upload", &body)
		req.Header.Set("Content-Type", form.FormDataContentType())
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp models.PhotoResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Multipart", resp.Photo.Title)
		assert.True(t, f.assets.Exists(resp.Photo.Image))
	})

	t.Run("accepts an external image URL", func(t *testing.T) {
		f := setupPhotoHandler(t)

		body, _ := json.Marshal(models.UploadPhotoRequest{
			Title:    "Remote",
			Category: "Travel",
			ImageURL: "https://images.example.com/far.jpg",
		})
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/photos/upload", bytes.NewReader(body)))
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp models.PhotoResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "https://images.example.com/far.jpg", resp.Photo.Image)
	})

	t.Run("rejects a missing image", func(t *testing.T) {
		f := setupPhotoHandler(t)

		body, _ := json.Marshal(models.UploadPhotoRequest{Title: "No image", Category: "Mountains"})
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/photos/upload", bytes.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid category leaves no orphaned asset", func(t *testing.T) {
		f := setupPhotoHandler(t)

		body, _ := json.Marshal(models.UploadPhotoRequest{
			Title:     "Bad category",
			Category:  "Cities",
			ImageData: pngDataURI(t),
		})
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/photos/upload", bytes.NewReader(body)))
		require.Equal(t, http.StatusBadRequest, rec.Code)

		// Catalog untouched
		assert.Empty(t, f.store.Load(context.Background()))
	})
}

func TestPhotoHandler_Update(t *testing.T) {
	t.Run("edits mutable fields", func(t *testing.T) {
		f := setupPhotoHandler(t)
		photo := f.uploadPhoto(t, "Original", "Mountains")

		body, _ := json.Marshal(models.PhotoUpdate{
			ID:       photo.ID,
			Title:    "Renamed",
			Category: "Deserts",
		})
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/photos/update", bytes.NewReader(body)))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp models.PhotoResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Renamed", resp.Photo.Title)
		assert.Equal(t, "Deserts", resp.Photo.Category)
		assert.Equal(t, photo.ID, resp.Photo.ID)
		assert.Equal(t, photo.Image, resp.Photo.Image)
	})

	t.Run("replacing the image removes the old asset", func(t *testing.T) {
		f := setupPhotoHandler(t)
		photo := f.uploadPhoto(t, "Original", "Mountains")
		replacement := "https://images.example.com/new.jpg"

		body, _ := json.Marshal(models.PhotoUpdate{
			ID:       photo.ID,
			Title:    photo.Title,
			Category: photo.Category,
			Image:    &replacement,
		})
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/photos/update", bytes.NewReader(body)))
		require.Equal(t, http.StatusOK, rec.Code)

		assert.False(t, f.assets.Exists(photo.Image))
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		f := setupPhotoHandler(t)

		body, _ := json.Marshal(models.PhotoUpdate{ID: "missing", Title: "x", Category: "Mountains"})
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/photos/update", bytes.NewReader(body)))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPhotoHandler_Delete(t *testing.T) {
	t.Run("removes record and managed asset", func(t *testing.T) {
		f := setupPhotoHandler(t)
		photo := f.uploadPhoto(t, "Doomed", "Mountains")

		body, _ := json.Marshal(models.DeletePhotoRequest{ID: photo.ID})
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/photos/delete", bytes.NewReader(body)))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp models.DeletePhotoResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.AssetDeleted)

		assert.Nil(t, f.store.Get(context.Background(), photo.ID))
		assert.False(t, f.assets.Exists(photo.Image))
	})

	t.Run("delete is total, no default resurrects it", func(t *testing.T) {
		f := setupPhotoHandler(t)
		photo := f.uploadPhoto(t, "Doomed", "Mountains")

		body, _ := json.Marshal(models.DeletePhotoRequest{ID: photo.ID})
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/photos/delete", bytes.NewReader(body)))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/photos/sync", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/photos", nil))
		var list models.PhotoListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		assert.Equal(t, 0, list.Count)
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		f := setupPhotoHandler(t)

		body, _ := json.Marshal(models.DeletePhotoRequest{ID: "missing"})
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/photos/delete", bytes.NewReader(body)))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPhotoHandler_Feature(t *testing.T) {
	f := setupPhotoHandler(t)
	photo := f.uploadPhoto(t, "Highlight", "Night Sky")

	toggle := func() models.FeaturePhotoResponse {
		body, _ := json.Marshal(models.FeaturePhotoRequest{ID: photo.ID})
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/photos/feature", bytes.NewReader(body)))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp models.FeaturePhotoResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp
	}

	assert.True(t, toggle().Featured)
	assert.False(t, toggle().Featured)
}

func TestPhotoHandler_Sync(t *testing.T) {
	t.Run("reports dropped records", func(t *testing.T) {
		f := setupPhotoHandler(t)
		f.uploadPhoto(t, "Valid", "Mountains")

		orphan, err := models.NewPhoto("Orphan", "Oceans", "/uploads/gone.png", "", "", false)
		require.NoError(t, err)
		_, err = f.store.Upsert(context.Background(), orphan)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/photos/sync", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp models.SyncResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, 1, resp.PhotoCount)
		assert.Equal(t, 2, resp.OriginalCount)
		assert.Equal(t, []string{orphan.ID}, resp.Dropped)
	})
}
