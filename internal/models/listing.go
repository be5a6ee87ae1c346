// internal/models/listing.go
package models

import (
	"github.com/lib/pq"
)

// Listing is one property record, house or land. The house-only and
// land-only columns are nullable so the two variants share a table; the
// typed request structs in the services package keep the variants honest.
type Listing struct {
	BaseModel
	Title        string       `json:"title" gorm:"size:255;not null"`
	Address      string       `json:"address" gorm:"size:255;not null"`
	Price        float64      `json:"price" gorm:"type:decimal(14,2);not null"`
	Description  string       `json:"description" gorm:"type:text"`
	Town         string       `json:"town" gorm:"size:100;index"`
	City         string       `json:"city" gorm:"size:100;index"`
	PropertyType PropertyType `json:"property_type" gorm:"type:varchar(10);not null;index"`
	MapURL       string       `json:"map_url" gorm:"size:512"`

	// House-only fields
	Bedrooms         int             `json:"bedrooms,omitempty"`
	Bathrooms        int             `json:"bathrooms,omitempty"`
	Rooms            int             `json:"rooms,omitempty"`
	ParkingAvailable bool            `json:"parking_available"`
	ParkingSpace     int             `json:"parking_space,omitempty"`
	FloorArea        float64         `json:"floor_area,omitempty"`
	NoOfFloors       int             `json:"no_of_floors,omitempty"`
	FurnishedStatus  FurnishedStatus `json:"furnished_status,omitempty" gorm:"type:varchar(20)"`
	AgeOfBuilding    string          `json:"age_of_building,omitempty" gorm:"size:50"`
	RoadWidth        float64         `json:"road_width,omitempty"`

	// Shared extent field; for land the unit is selector-driven
	Perches  float64  `json:"perches,omitempty"`
	LandUnit LandUnit `json:"land_unit,omitempty" gorm:"type:varchar(10)"`

	PropertyFeatures pq.StringArray `json:"property_features" gorm:"type:text[]"`

	// Media. URLs are what clients render; keys are what the object store is
	// addressed by, kept so deletion and the orphan sweep never have to
	// reverse-engineer keys out of URLs.
	ImageURLs pq.StringArray `json:"image_urls" gorm:"type:text[]"`
	VideoURLs pq.StringArray `json:"video_urls" gorm:"type:text[]"`
	ImageKeys pq.StringArray `json:"-" gorm:"type:text[]"`
	VideoKeys pq.StringArray `json:"-" gorm:"type:text[]"`
}

// FeatureCatalog is the fixed set of tags the listing forms offer. Submitted
// features outside this set are rejected.
var FeatureCatalog = []string{
	"Beach Front/Sea View",
	"Mainline Water",
	"Lawn Garden",
	"Garage",
	"colonial-architecture",
	"maid's Toilet",
	"maid's Room",
	"home-security-system",
	"brand-new",
	"overheated-water-storage",
	"luxury-spects",
	"gated-community",
	"attached-toilets",
	"roof-top-garden",
	"hot-water",
	"ac-rooms",
	"3-phase-electricity",
	"24-hour-security",
}

func IsKnownFeature(tag string) bool {
	for _, f := range FeatureCatalog {
		if f == tag {
			return true
		}
	}
	return false
}
