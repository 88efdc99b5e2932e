package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/barelands/server/internal/models"
	"github.com/barelands/server/internal/observability"
)

// CatalogStore is the single source of truth for the photo list, persisted as
// one JSON array at a well-known path. All mutations run a read-modify-write
// cycle under one mutex so concurrent admin requests cannot lose updates;
// the document itself is replaced atomically (temp file + rename).
type CatalogStore struct {
	mu   sync.Mutex
	path string
}

// NewCatalogStore creates a CatalogStore persisting to path. Parent
// directories are created on first save, not here.
func NewCatalogStore(path string) *CatalogStore {
	return &CatalogStore{path: path}
}

// Load reads and parses the catalog document. A missing file is an empty
// catalog, not an error. Malformed JSON is logged and treated as empty; the
// corrupt document is effectively abandoned by the next successful Save.
func (s *CatalogStore) Load(ctx context.Context) []*models.Photo {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			observability.WithContext(ctx).Errorf("Failed to read catalog %s: %v", s.path, err)
		}
		return []*models.Photo{}
	}

	var photos []*models.Photo
	if err := json.Unmarshal(data, &photos); err != nil {
		observability.WithContext(ctx).Errorf("Catalog %s is not valid JSON, treating as empty: %v", s.path, err)
		return []*models.Photo{}
	}
	if photos == nil {
		photos = []*models.Photo{}
	}
	return photos
}

// Save serializes photos and replaces the catalog document atomically.
// Write failures are returned to the caller, never reported as success.
func (s *CatalogStore) Save(ctx context.Context, photos []*models.Photo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, photos)
}

// save writes the document without taking the mutex; callers hold it.
func (s *CatalogStore) save(ctx context.Context, photos []*models.Photo) error {
	if photos == nil {
		photos = []*models.Photo{}
	}

	data, err := json.MarshalIndent(photos, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".photos-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return err
	}

	observability.WithContext(ctx).Debugf("Saved catalog %s (%d records)", s.path, len(photos))
	return nil
}

// Get returns the record with the given id, or nil if absent
func (s *CatalogStore) Get(ctx context.Context, id string) *models.Photo {
	for _, p := range s.Load(ctx) {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Upsert inserts photo when its id is unseen, otherwise replaces the stored
// record while preserving the original id and dateAdded. Returns the record
// as persisted.
func (s *CatalogStore) Upsert(ctx context.Context, photo *models.Photo) (*models.Photo, error) {
	ctx, span := observability.StartStoreSpan(ctx, "upsert")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	photos := s.Load(ctx)
	replaced := false
	for i, p := range photos {
		if p.ID == photo.ID {
			kept := *photo
			kept.ID = p.ID
			kept.DateAdded = p.DateAdded
			photos[i] = &kept
			photo = &kept
			replaced = true
			break
		}
	}
	if !replaced {
		photos = append(photos, photo)
	}

	if err := s.save(ctx, photos); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	observability.SetSuccess(span)
	return photo, nil
}

// Remove deletes the record with the given id. An unknown id is a no-op, not
// an error; the bool reports whether a record was actually removed.
func (s *CatalogStore) Remove(ctx context.Context, id string) (bool, error) {
	ctx, span := observability.StartStoreSpan(ctx, "remove")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	photos := s.Load(ctx)
	kept := photos[:0]
	removed := false
	for _, p := range photos {
		if p.ID == id {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	if !removed {
		return false, nil
	}

	if err := s.save(ctx, kept); err != nil {
		observability.RecordError(span, err)
		return false, err
	}
	observability.SetSuccess(span)
	return true, nil
}

// SetFeatured sets the featured flag on the record with the given id.
// Returns ErrPhotoNotFound when the id is absent so the HTTP layer can
// surface 404.
func (s *CatalogStore) SetFeatured(ctx context.Context, id string, featured bool) (*models.Photo, error) {
	return s.updateFeatured(ctx, id, func(bool) bool { return featured })
}

// ToggleFeatured flips the featured flag on the record with the given id
func (s *CatalogStore) ToggleFeatured(ctx context.Context, id string) (*models.Photo, error) {
	return s.updateFeatured(ctx, id, func(cur bool) bool { return !cur })
}

func (s *CatalogStore) updateFeatured(ctx context.Context, id string, next func(bool) bool) (*models.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	photos := s.Load(ctx)
	for i, p := range photos {
		if p.ID == id {
			updated := *p
			updated.Featured = next(p.Featured)
			photos[i] = &updated

			if err := s.save(ctx, photos); err != nil {
				return nil, err
			}
			return &updated, nil
		}
	}
	return nil, models.ErrPhotoNotFound
}

// MergeDefaults overlays stored onto defaults, keyed by id. Defaults are
// inserted first and a stored record with the same id wins; stored-only
// records follow in their input order. The output never contains two records
// with the same id.
func MergeDefaults(defaults, stored []*models.Photo) []*models.Photo {
	byID := make(map[string]*models.Photo, len(defaults)+len(stored))
	order := make([]string, 0, len(defaults)+len(stored))

	for _, p := range defaults {
		if _, seen := byID[p.ID]; !seen {
			order = append(order, p.ID)
		}
		byID[p.ID] = p
	}
	for _, p := range stored {
		if _, seen := byID[p.ID]; !seen {
			order = append(order, p.ID)
		}
		byID[p.ID] = p
	}

	merged := make([]*models.Photo, 0, len(order))
	for _, id := range order {
		merged = append(merged, byID[id])
	}
	return merged
}

// SeedIfEmpty writes defaults as the initial catalog document when no
// document exists yet (or it holds no records). Load itself never merges, so
// a later delete of a seeded record stays deleted.
func (s *CatalogStore) SeedIfEmpty(ctx context.Context, defaults []*models.Photo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(defaults) == 0 || len(s.Load(ctx)) > 0 {
		return nil
	}

	observability.WithContext(ctx).Infof("Seeding catalog %s with %d default records", s.path, len(defaults))
	return s.save(ctx, defaults)
}
