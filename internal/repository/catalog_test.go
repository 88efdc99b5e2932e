package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barelands/server/internal/models"
)

func setupTestCatalog(t *testing.T) *CatalogStore {
	t.Helper()
	return NewCatalogStore(filepath.Join(t.TempDir(), "photos.json"))
}

func testPhoto(t *testing.T, title string) *models.Photo {
	t.Helper()
	photo, err := models.NewPhoto(title, "Mountains", "/uploads/"+title+".jpg", "", "", false)
	require.NoError(t, err)
	return photo
}

func TestCatalogStore_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file is an empty catalog", func(t *testing.T) {
		store := setupTestCatalog(t)
		assert.Empty(t, store.Load(ctx))
	})

	t.Run("malformed document is treated as empty", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "photos.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

		store := NewCatalogStore(path)
		assert.Empty(t, store.Load(ctx))
	})

	t.Run("round-trips saved records", func(t *testing.T) {
		store := setupTestCatalog(t)
		photo := testPhoto(t, "alpha")

		require.NoError(t, store.Save(ctx, []*models.Photo{photo}))

		loaded := store.Load(ctx)
		require.Len(t, loaded, 1)
		assert.Equal(t, photo.ID, loaded[0].ID)
		assert.Equal(t, photo.Title, loaded[0].Title)
		assert.True(t, photo.DateAdded.Equal(loaded[0].DateAdded))
	})
}

func TestCatalogStore_Upsert(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts new records", func(t *testing.T) {
		store := setupTestCatalog(t)

		_, err := store.Upsert(ctx, testPhoto(t, "alpha"))
		require.NoError(t, err)
		_, err = store.Upsert(ctx, testPhoto(t, "beta"))
		require.NoError(t, err)

		assert.Len(t, store.Load(ctx), 2)
	})

	t.Run("replace preserves id and dateAdded", func(t *testing.T) {
		store := setupTestCatalog(t)
		original := testPhoto(t, "alpha")
		_, err := store.Upsert(ctx, original)
		require.NoError(t, err)

		edited := *original
		edited.Title = "Renamed"
		edited.DateAdded = time.Now().Add(48 * time.Hour)

		persisted, err := store.Upsert(ctx, &edited)
		require.NoError(t, err)

		assert.Equal(t, original.ID, persisted.ID)
		assert.True(t, original.DateAdded.Equal(persisted.DateAdded))
		assert.Equal(t, "Renamed", persisted.Title)
		assert.Len(t, store.Load(ctx), 1)
	})

	t.Run("ids stay unique under repeated upserts", func(t *testing.T) {
		store := setupTestCatalog(t)
		photo := testPhoto(t, "alpha")

		for i := 0; i < 5; i++ {
			_, err := store.Upsert(ctx, photo)
			require.NoError(t, err)
		}

		loaded := store.Load(ctx)
		require.Len(t, loaded, 1)
		assert.Equal(t, photo.ID, loaded[0].ID)
	})
}

func TestCatalogStore_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("removes record and stays removed across reloads", func(t *testing.T) {
		store := setupTestCatalog(t)
		photo := testPhoto(t, "alpha")
		_, err := store.Upsert(ctx, photo)
		require.NoError(t, err)

		removed, err := store.Remove(ctx, photo.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		assert.Empty(t, store.Load(ctx))
		assert.Nil(t, store.Get(ctx, photo.ID))
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		store := setupTestCatalog(t)
		_, err := store.Upsert(ctx, testPhoto(t, "alpha"))
		require.NoError(t, err)

		removed, err := store.Remove(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, removed)
		assert.Len(t, store.Load(ctx), 1)
	})
}

func TestCatalogStore_Featured(t *testing.T) {
	ctx := context.Background()

	t.Run("toggle flips the flag", func(t *testing.T) {
		store := setupTestCatalog(t)
		photo := testPhoto(t, "alpha")
		_, err := store.Upsert(ctx, photo)
		require.NoError(t, err)

		toggled, err := store.ToggleFeatured(ctx, photo.ID)
		require.NoError(t, err)
		assert.True(t, toggled.Featured)

		toggled, err = store.ToggleFeatured(ctx, photo.ID)
		require.NoError(t, err)
		assert.False(t, toggled.Featured)
	})

	t.Run("set is idempotent", func(t *testing.T) {
		store := setupTestCatalog(t)
		photo := testPhoto(t, "alpha")
		_, err := store.Upsert(ctx, photo)
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			updated, err := store.SetFeatured(ctx, photo.ID, true)
			require.NoError(t, err)
			assert.True(t, updated.Featured)
		}
	})

	t.Run("unknown id reports not found", func(t *testing.T) {
		store := setupTestCatalog(t)
		_, err := store.ToggleFeatured(ctx, "missing")
		assert.ErrorIs(t, err, models.ErrPhotoNotFound)
	})
}

func TestCatalogStore_ConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	store := setupTestCatalog(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := store.Upsert(ctx, testPhoto(t, fmt.Sprintf("photo-%02d", n)))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// Every writer's record survived and the document is valid JSON
	loaded := store.Load(ctx)
	assert.Len(t, loaded, 20)

	data, err := os.ReadFile(store.path)
	require.NoError(t, err)
	var parsed []*models.Photo
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Len(t, parsed, 20)
}

func TestMergeDefaults(t *testing.T) {
	defaults := []*models.Photo{
		{ID: "a", Title: "Default A"},
		{ID: "b", Title: "Default B"},
	}

	t.Run("stored record wins on id collision", func(t *testing.T) {
		stored := []*models.Photo{{ID: "a", Title: "Edited A"}}

		merged := MergeDefaults(defaults, stored)
		require.Len(t, merged, 2)
		assert.Equal(t, "Edited A", merged[0].Title)
		assert.Equal(t, "Default B", merged[1].Title)
	})

	t.Run("stored-only records follow defaults", func(t *testing.T) {
		stored := []*models.Photo{{ID: "c", Title: "New C"}}

		merged := MergeDefaults(defaults, stored)
		require.Len(t, merged, 3)
		assert.Equal(t, "c", merged[2].ID)
	})

	t.Run("merge is idempotent", func(t *testing.T) {
		stored := []*models.Photo{{ID: "a", Title: "Edited A"}, {ID: "c", Title: "New C"}}

		once := MergeDefaults(defaults, stored)
		twice := MergeDefaults(defaults, once)
		assert.Equal(t, once, twice)
	})

	t.Run("output never duplicates ids", func(t *testing.T) {
		stored := []*models.Photo{{ID: "a"}, {ID: "a"}, {ID: "b"}}

		merged := MergeDefaults(defaults, stored)
		seen := make(map[string]bool)
		for _, p := range merged {
			assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
			seen[p.ID] = true
		}
	})
}

func TestCatalogStore_SeedIfEmpty(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds a missing catalog", func(t *testing.T) {
		store := setupTestCatalog(t)

		require.NoError(t, store.SeedIfEmpty(ctx, DefaultPhotos()))
		assert.Len(t, store.Load(ctx), len(DefaultPhotos()))
	})

	t.Run("never reseeds a populated catalog", func(t *testing.T) {
		store := setupTestCatalog(t)
		photo := testPhoto(t, "only")
		_, err := store.Upsert(ctx, photo)
		require.NoError(t, err)

		require.NoError(t, store.SeedIfEmpty(ctx, DefaultPhotos()))

		loaded := store.Load(ctx)
		require.Len(t, loaded, 1)
		assert.Equal(t, photo.ID, loaded[0].ID)
	})

	t.Run("deleted seed records stay deleted", func(t *testing.T) {
		store := setupTestCatalog(t)
		require.NoError(t, store.SeedIfEmpty(ctx, DefaultPhotos()))

		seeded := store.Load(ctx)
		victim := seeded[0]
		removed, err := store.Remove(ctx, victim.ID)
		require.NoError(t, err)
		require.True(t, removed)

		// A second seed attempt sees a non-empty catalog and backs off
		require.NoError(t, store.SeedIfEmpty(ctx, DefaultPhotos()))
		assert.Nil(t, store.Get(ctx, victim.ID))
	})
}
