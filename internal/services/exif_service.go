package services

import (
	"bytes"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// EXIFData is the capture metadata surfaced on a portfolio photo
type EXIFData struct {
	Camera     *string
	CapturedAt *time.Time
}

// EXIFService extracts capture metadata from uploaded images
type EXIFService struct{}

// NewEXIFService creates a new EXIFService
func NewEXIFService() *EXIFService {
	return &EXIFService{}
}

// Extract pulls camera and capture-time metadata from image bytes. Images
// without EXIF data yield an empty result, not an error.
func (s *EXIFService) Extract(data []byte) *EXIFData {
	result := &EXIFData{}

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return result
	}

	maker := exifString(x, exif.Make)
	model := exifString(x, exif.Model)
	switch {
	case maker != "" && model != "":
		// Many vendors repeat the make inside the model tag
		camera := model
		if !strings.HasPrefix(strings.ToLower(model), strings.ToLower(maker)) {
			camera = maker + " " + model
		}
		result.Camera = &camera
	case model != "":
		result.Camera = &model
	case maker != "":
		result.Camera = &maker
	}

	if captured, err := x.DateTime(); err == nil {
		utc := captured.UTC()
		result.CapturedAt = &utc
	}

	return result
}

func exifString(x *exif.Exif, field exif.FieldName) string {
	tag, err := x.Get(field)
	if err != nil {
		return ""
	}
	value, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}
