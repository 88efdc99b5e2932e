package services

import (
	"context"
	"sort"
	"sync"

	"github.com/barelands/server/internal/models"
	"github.com/barelands/server/internal/observability"
	"github.com/barelands/server/internal/repository"
)

// SyncResult reports the outcome of a catalog synchronization
type SyncResult struct {
	Count   int
	Total   int
	Dropped []string
}

// SyncService keeps a process-local validated view of the catalog consistent
// with the persisted document and notifies the presentation layer that
// rendered pages are stale after mutations. The cached view is derived and
// disposable; the catalog document stays the source of truth.
type SyncService struct {
	store       repository.Catalog
	assets      *AssetService
	revalidator Revalidator
	paths       []string

	mu     sync.RWMutex
	cached []*models.Photo
	synced bool
}

// NewSyncService creates a SyncService. paths are the logical pages
// invalidated after every catalog mutation.
func NewSyncService(store repository.Catalog, assets *AssetService, revalidator Revalidator, paths []string) *SyncService {
	if revalidator == nil {
		revalidator = NopRevalidator{}
	}
	return &SyncService{
		store:       store,
		assets:      assets,
		revalidator: revalidator,
		paths:       paths,
	}
}

// Sync reloads the persisted document, drops records whose backing asset is
// missing (warning each), and swaps the in-memory cache with the validated
// list. Filtering never writes back to storage. Idempotent and cheap enough
// to run on read-heavy entry points.
func (s *SyncService) Sync(ctx context.Context) SyncResult {
	ctx, span := observability.StartServiceSpan(ctx, "sync", "Sync")
	defer span.End()

	stored := s.store.Load(ctx)

	validated := make([]*models.Photo, 0, len(stored))
	var dropped []string
	for _, photo := range stored {
		if s.assets.Exists(photo.Image) {
			validated = append(validated, photo)
			continue
		}
		dropped = append(dropped, photo.ID)
		observability.WithContext(ctx).Warnf("Image file not found for photo %q (%s), excluding from served output", photo.Title, photo.Image)
	}

	s.mu.Lock()
	s.cached = validated
	s.synced = true
	s.mu.Unlock()

	observability.SetSuccess(span)
	return SyncResult{
		Count:   len(validated),
		Total:   len(stored),
		Dropped: dropped,
	}
}

// Photos returns the validated catalog newest first, optionally filtered by
// category ("All" or empty means no filter). The first call populates the
// cache.
func (s *SyncService) Photos(ctx context.Context, category string) []*models.Photo {
	s.mu.RLock()
	synced := s.synced
	s.mu.RUnlock()

	if !synced {
		s.Sync(ctx)
	}

	s.mu.RLock()
	photos := make([]*models.Photo, 0, len(s.cached))
	for _, p := range s.cached {
		if category != "" && category != "All" && p.Category != category {
			continue
		}
		photos = append(photos, p)
	}
	s.mu.RUnlock()

	sort.SliceStable(photos, func(i, j int) bool {
		return photos[i].DateAdded.After(photos[j].DateAdded)
	})
	return photos
}

// AfterMutation refreshes the cache and invalidates rendered pages. Runs
// after the mutation is already persisted, so its own failures only leave
// presentation briefly stale and are never surfaced to the caller.
func (s *SyncService) AfterMutation(ctx context.Context) SyncResult {
	result := s.Sync(ctx)
	s.revalidator.Revalidate(ctx, s.paths)
	return result
}

// Invalidate forwards to the revalidation collaborator
func (s *SyncService) Invalidate(ctx context.Context, paths []string) {
	s.revalidator.Revalidate(ctx, paths)
}

// Paths returns the pages invalidated after mutations
func (s *SyncService) Paths() []string {
	return s.paths
}
