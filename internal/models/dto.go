package models

import "time"

// Machine-readable error kinds mirrored in ErrorResponse.Kind
const (
	KindNotFound        = "not_found"
	KindValidation      = "validation"
	KindUnauthenticated = "unauthenticated"
	KindStorage         = "storage"
	KindInternal        = "internal"
)

// ErrorResponse is the standard error envelope
type ErrorResponse struct {
	Error  string            `json:"error"`
	Kind   string            `json:"kind,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// HealthResponse is the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// PhotoListResponse is the catalog listing payload
type PhotoListResponse struct {
	Success bool     `json:"success"`
	Photos  []*Photo `json:"photos"`
	Count   int      `json:"count"`
}

// PhotoResponse wraps a single created or mutated photo
type PhotoResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Photo   *Photo `json:"photo"`
}

// DeletePhotoRequest identifies the photo to remove
type DeletePhotoRequest struct {
	ID string `json:"id"`
}

// FeaturePhotoRequest identifies the photo whose featured flag to toggle
type FeaturePhotoRequest struct {
	ID string `json:"id"`
}

// FeaturePhotoResponse reports the toggled state
type FeaturePhotoResponse struct {
	Success  bool   `json:"success"`
	PhotoID  string `json:"photoId"`
	Featured bool   `json:"featured"`
}

// DeletePhotoResponse acknowledges a removal
type DeletePhotoResponse struct {
	Success      bool   `json:"success"`
	PhotoID      string `json:"photoId"`
	AssetDeleted bool   `json:"assetDeleted"`
}

// SyncResponse reports the outcome of a catalog synchronization
type SyncResponse struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message"`
	PhotoCount    int      `json:"photoCount"`
	OriginalCount int      `json:"originalCount"`
	Dropped       []string `json:"dropped,omitempty"`
}

// UploadPhotoRequest is the JSON upload variant. ImageData carries a base64
// data-URI; ImageURL references an externally hosted asset. Exactly one of
// the two is expected.
type UploadPhotoRequest struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Featured    bool   `json:"featured"`
	ImageData   string `json:"imageData,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// LoginRequest carries admin credentials
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ContactResponse acknowledges a contact submission
type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// InquiryListResponse is the stored-inquiry listing payload. Count is the
// number of records returned; Total the number archived overall, so the admin
// panel can page.
type InquiryListResponse struct {
	Success   bool       `json:"success"`
	Inquiries []*Inquiry `json:"inquiries"`
	Count     int        `json:"count"`
	Total     int        `json:"total"`
}
