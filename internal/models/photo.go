package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Photo represents one entry in the portfolio catalog
type Photo struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	Image       string     `json:"image"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Featured    bool       `json:"featured"`
	DateAdded   time.Time  `json:"dateAdded"`
	Camera      *string    `json:"camera,omitempty"`
	CapturedAt  *time.Time `json:"capturedAt,omitempty"`
}

// PhotoCategories are the categories a stored photo may belong to. "All" is a
// filter-only pseudo-category and is deliberately absent.
var PhotoCategories = []string{
	"Mountains", "Deserts", "Forests", "Oceans", "Night Sky", "Italy", "Travel",
}

// IsValidCategory reports whether category names a real stored category
func IsValidCategory(category string) bool {
	for _, c := range PhotoCategories {
		if c == category {
			return true
		}
	}
	return false
}

// NewPhoto creates a new Photo with validation. ID and DateAdded are
// generated server-side and immutable afterwards.
func NewPhoto(title, category, image, description, location string, featured bool) (*Photo, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}
	if !IsValidCategory(category) {
		return nil, ErrInvalidCategory
	}
	if strings.TrimSpace(image) == "" {
		return nil, ErrEmptyImage
	}

	return &Photo{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(title),
		Category:    category,
		Image:       image,
		Description: description,
		Location:    location,
		Featured:    featured,
		DateAdded:   time.Now().UTC(),
	}, nil
}

// ApplyUpdate overlays the mutable fields of update onto p. ID and DateAdded
// are never touched. Pointer fields that are nil leave the current value
// alone; non-nil pointers set it, including to empty.
func (p *Photo) ApplyUpdate(update *PhotoUpdate) error {
	if strings.TrimSpace(update.Title) == "" {
		return ErrEmptyTitle
	}
	if !IsValidCategory(update.Category) {
		return ErrInvalidCategory
	}

	p.Title = strings.TrimSpace(update.Title)
	p.Category = update.Category
	if update.Image != nil && strings.TrimSpace(*update.Image) != "" {
		p.Image = *update.Image
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Location != nil {
		p.Location = *update.Location
	}
	if update.Featured != nil {
		p.Featured = *update.Featured
	}
	return nil
}

// PhotoUpdate carries a full or partial edit of an existing photo
type PhotoUpdate struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Image       *string `json:"image,omitempty"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	Featured    *bool   `json:"featured,omitempty"`
}

// Errors
type PhotoError struct {
	Message string
}

func (e PhotoError) Error() string {
	return e.Message
}

var (
	ErrEmptyTitle       = PhotoError{"title cannot be empty"}
	ErrInvalidCategory  = PhotoError{"category is not a known photo category"}
	ErrEmptyImage       = PhotoError{"image reference cannot be empty"}
	ErrPhotoNotFound    = PhotoError{"photo not found"}
	ErrInvalidImageData = PhotoError{"image data is not a recognized image encoding"}
	ErrInvalidExtension = PhotoError{"file extension not allowed"}
	ErrFileTooLarge     = PhotoError{"file size exceeds maximum allowed"}
	ErrPathTraversal    = PhotoError{"invalid path - path traversal detected"}
)
