package repository

import (
	"context"

	"github.com/barelands/server/internal/models"
)

// Catalog defines the persistence operations over the photo catalog document
type Catalog interface {
	Load(ctx context.Context) []*models.Photo
	Save(ctx context.Context, photos []*models.Photo) error
	Get(ctx context.Context, id string) *models.Photo
	Upsert(ctx context.Context, photo *models.Photo) (*models.Photo, error)
	Remove(ctx context.Context, id string) (bool, error)
	SetFeatured(ctx context.Context, id string, featured bool) (*models.Photo, error)
	ToggleFeatured(ctx context.Context, id string) (*models.Photo, error)
}

// InquiryRepo defines the interface for contact/print-inquiry persistence
type InquiryRepo interface {
	Add(ctx context.Context, inquiry *models.Inquiry) error
	GetAll(ctx context.Context, limit int) ([]*models.Inquiry, error)
	GetCount(ctx context.Context) (int, error)
}
