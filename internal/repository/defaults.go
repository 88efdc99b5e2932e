package repository

import (
	"time"

	"github.com/barelands/server/internal/models"
)

// DefaultPhotos is the compiled-in starter catalog used to seed a fresh
// deployment. Records whose /uploads/ asset is not present on disk are
// filtered from served output by the synchronizer, so shipping these without
// their images is harmless.
func DefaultPhotos() []*models.Photo {
	return []*models.Photo{
		{
			ID:          "4c5239b2-a9be-4bca-9f06-840dbd6fc05e",
			Title:       "Cuernos Del Paine Beach",
			Category:    "Mountains",
			Image:       "/uploads/515980e8-cccc-43eb-bcd4-98f7a0e95179.jpg",
			Description: "Beautiful landscape photograph of Cuernos Del Paine Beach",
			Location:    "Patagonia, Chile",
			Featured:    true,
			DateAdded:   seedTime("2025-03-20T09:56:24.783Z"),
		},
		{
			ID:          "5d7766d0-4898-49ff-8e1f-1d68ffde74d0",
			Title:       "Nara Lanterns",
			Category:    "Night Sky",
			Image:       "/uploads/0c699b59-09d5-498b-96b1-fee1d146d1a8.jpg",
			Description: "Beautiful landscape photograph of Nara Lanterns",
			Location:    "Japan",
			Featured:    false,
			DateAdded:   seedTime("2025-03-20T09:56:24.784Z"),
		},
		{
			ID:          "7cb6c094-084f-4246-970a-4d8303d1175f",
			Title:       "Passo Giau Vertical",
			Category:    "Mountains",
			Image:       "/uploads/4ac52a48-ce6b-4c41-be3d-8175fac59611.jpg",
			Description: "Beautiful landscape photograph of the Dolomites",
			Location:    "Dolomites, Italy",
			Featured:    true,
			DateAdded:   seedTime("2025-03-20T09:56:24.784Z"),
		},
		{
			ID:          "336f4d1d-8897-4a0e-a945-88dcc034545b",
			Title:       "Kallur Lighthouse",
			Category:    "Oceans",
			Image:       "/uploads/8d34fadc-14b9-4af6-af8e-9a57e4a15232.jpg",
			Description: "The famous lighthouse with ducks in the foreground",
			Location:    "Faroe Islands, Denmark",
			Featured:    true,
			DateAdded:   seedTime("2025-03-20T09:56:24.785Z"),
		},
		{
			ID:          "60bc93d2-d245-42cd-816e-5d91d13d98af",
			Title:       "Matera Sunset",
			Category:    "Night Sky",
			Image:       "/uploads/c1fb53d7-542f-460e-9627-ca1a4ef9f754.jpg",
			Description: "A beautiful sunset over the ancient city",
			Location:    "Matera, Italy",
			Featured:    true,
			DateAdded:   seedTime("2025-03-20T09:56:24.785Z"),
		},
	}
}

func seedTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		panic(err)
	}
	return t
}
