// internal/services/listing.go
package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/noblehomes/backoffice/internal/config"
	"github.com/noblehomes/backoffice/internal/models"
	"github.com/noblehomes/backoffice/internal/utils"
)

type ListingService struct {
	db       *gorm.DB
	uploader *Uploader
	store    ObjectStore
	upload   config.UploadConfig
}

func NewListingService(db *gorm.DB, uploader *Uploader, store ObjectStore, upload config.UploadConfig) *ListingService {
	return &ListingService{
		db:       db,
		uploader: uploader,
		store:    store,
		upload:   upload,
	}
}

type CreateListingRequest struct {
	Title        string              `form:"title" json:"title"`
	Address      string              `form:"address" json:"address"`
	Price        float64             `form:"price" json:"price"`
	Description  string              `form:"description" json:"description"`
	Town         string              `form:"town" json:"town"`
	City         string              `form:"city" json:"city"`
	PropertyType models.PropertyType `form:"property_type" json:"property_type"`
	MapURL       string              `form:"map_url" json:"map_url"`

	PropertyFeatures []string `form:"property_features" json:"property_features"`

	// House-only fields
	Bedrooms         int                    `form:"bedrooms" json:"bedrooms"`
	Bathrooms        int                    `form:"bathrooms" json:"bathrooms"`
	Rooms            int                    `form:"rooms" json:"rooms"`
	ParkingAvailable bool                   `form:"parking_available" json:"parking_available"`
	ParkingSpace     int                    `form:"parking_space" json:"parking_space"`
	FloorArea        float64                `form:"floor_area" json:"floor_area"`
	NoOfFloors       int                    `form:"no_of_floors" json:"no_of_floors"`
	FurnishedStatus  models.FurnishedStatus `form:"furnished_status" json:"furnished_status"`
	AgeOfBuilding    string                 `form:"age_of_building" json:"age_of_building"`
	RoadWidth        float64                `form:"road_width" json:"road_width"`

	// Shared extent; unit is land-only
	Perches  float64         `form:"perches" json:"perches"`
	LandUnit models.LandUnit `form:"land_unit" json:"land_unit"`
}

type UpdateListingRequest struct {
	Title     string  `json:"title,omitempty"`
	Address   string  `json:"address,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Bedrooms  int     `json:"bedrooms,omitempty"`
	Bathrooms int     `json:"bathrooms,omitempty"`
}

type ListingSearchParams struct {
	utils.PaginationParams
	PropertyType *models.PropertyType
	Town         string
	City         string
	PriceMin     *float64
	PriceMax     *float64
}

// Create runs the full submission workflow: validate, upload images, upload
// videos, then commit a single row referencing the collected URLs. No row is
// ever written that references a failed or in-flight upload. If the commit
// itself fails the just-uploaded objects are deleted best-effort.
func (s *ListingService) Create(req *CreateListingRequest, images, videos []*multipart.FileHeader) (*models.Listing, error) {
	if err := s.validate(req, len(images)); err != nil {
		return nil, err
	}

	features, err := normalizeFeatures(req.PropertyFeatures)
	if err != nil {
		return nil, err
	}

	imageAssets, err := s.uploader.UploadBatch(s.upload.Namespace, "images", images, UploadLimits{
		MaxSize:      s.upload.MaxImageSize,
		AllowedTypes: s.upload.ImageTypes,
	})
	if err != nil {
		return nil, err
	}

	videoAssets, err := s.uploader.UploadBatch(s.upload.Namespace, "videos", videos, UploadLimits{
		MaxSize:      s.upload.MaxVideoSize,
		AllowedTypes: s.upload.VideoTypes,
	})
	if err != nil {
		return nil, err
	}

	listing := &models.Listing{
		Title:            req.Title,
		Address:          req.Address,
		Price:            req.Price,
		Description:      req.Description,
		Town:             req.Town,
		City:             req.City,
		PropertyType:     req.PropertyType,
		MapURL:           req.MapURL,
		PropertyFeatures: features,
		ImageURLs:        assetURLs(imageAssets),
		VideoURLs:        assetURLs(videoAssets),
		ImageKeys:        assetKeys(imageAssets),
		VideoKeys:        assetKeys(videoAssets),
	}

	switch req.PropertyType {
	case models.PropertyTypeHouse:
		listing.Bedrooms = req.Bedrooms
		listing.Bathrooms = req.Bathrooms
		listing.Rooms = req.Rooms
		listing.ParkingAvailable = req.ParkingAvailable
		listing.ParkingSpace = req.ParkingSpace
		listing.Perches = req.Perches
		listing.FloorArea = req.FloorArea
		listing.NoOfFloors = req.NoOfFloors
		listing.FurnishedStatus = req.FurnishedStatus
		listing.AgeOfBuilding = req.AgeOfBuilding
		listing.RoadWidth = req.RoadWidth
	case models.PropertyTypeLand:
		listing.Perches = req.Perches
		listing.LandUnit = req.LandUnit
	}

	if err := s.db.Create(listing).Error; err != nil {
		s.deleteAssets(append(assetKeys(imageAssets), assetKeys(videoAssets)...))
		return nil, &CommitError{Err: err}
	}

	return listing, nil
}

func (s *ListingService) Get(id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	if err := s.db.First(&listing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &listing, nil
}

func (s *ListingService) Search(params ListingSearchParams) ([]models.Listing, int64, error) {
	query := s.db.Model(&models.Listing{})

	if params.PropertyType != nil {
		query = query.Where("property_type = ?", *params.PropertyType)
	}
	if params.Town != "" {
		query = query.Where("LOWER(town) = ?", strings.ToLower(params.Town))
	}
	if params.City != "" {
		query = query.Where("LOWER(city) = ?", strings.ToLower(params.City))
	}
	if params.PriceMin != nil {
		query = query.Where("price >= ?", *params.PriceMin)
	}
	if params.PriceMax != nil {
		query = query.Where("price <= ?", *params.PriceMax)
	}
	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(address) LIKE ? OR LOWER(description) LIKE ?",
			searchTerm, searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "title", "price", "town", "city"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var listings []models.Listing
	if err := query.Find(&listings).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch listings: %w", err)
	}

	return listings, total, nil
}

// Update rewrites only the submitted scalar fields of the edit surface.
// Media and the creation timestamp are never touched here.
func (s *ListingService) Update(id uuid.UUID, req *UpdateListingRequest) (*models.Listing, error) {
	var listing models.Listing
	if err := s.db.First(&listing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if req.Price > 0 {
		updates["price"] = req.Price
	}
	if req.Bedrooms > 0 {
		updates["bedrooms"] = req.Bedrooms
	}
	if req.Bathrooms > 0 {
		updates["bathrooms"] = req.Bathrooms
	}

	if len(updates) == 0 {
		return &listing, nil
	}

	if err := s.db.Model(&listing).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}

	return &listing, nil
}

// Delete removes the document and then makes a best-effort attempt to remove
// its media from the object store. A failed object deletion is logged and
// left to the orphan sweeper; it never fails the delete.
func (s *ListingService) Delete(id uuid.UUID) error {
	var listing models.Listing
	if err := s.db.First(&listing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Delete(&listing).Error; err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	s.deleteAssets(append(append([]string{}, listing.ImageKeys...), listing.VideoKeys...))

	return nil
}

func (s *ListingService) deleteAssets(keys []string) {
	for _, key := range keys {
		if err := s.store.Delete(key); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("Failed to delete asset, leaving it for the sweeper")
		}
	}
}

// validate applies the per-type submission policy. The house policy requires
// every scalar plus at least one image before any network call. The land
// policy is looser: any one of title/address/price/description plus a
// positive extent. The split mirrors how the two listing forms have always
// behaved and is kept until product decides otherwise.
func (s *ListingService) validate(req *CreateListingRequest, imageCount int) error {
	switch req.PropertyType {
	case models.PropertyTypeHouse:
		return validateHouse(req, imageCount)
	case models.PropertyTypeLand:
		return validateLand(req)
	default:
		return &ValidationError{
			Message: "property_type must be house or land",
			Fields: []utils.ValidationError{
				{Field: "property_type", Tag: "oneof", Message: "property_type must be one of: house land"},
			},
		}
	}
}

func validateHouse(req *CreateListingRequest, imageCount int) error {
	var fields []utils.ValidationError

	requireText(&fields, "title", req.Title)
	requireText(&fields, "address", req.Address)
	requireText(&fields, "description", req.Description)
	requireText(&fields, "town", req.Town)
	requireText(&fields, "city", req.City)
	requirePositive(&fields, "price", req.Price)
	requirePositive(&fields, "bedrooms", float64(req.Bedrooms))
	requirePositive(&fields, "bathrooms", float64(req.Bathrooms))
	requirePositive(&fields, "rooms", float64(req.Rooms))
	requirePositive(&fields, "perches", req.Perches)
	requirePositive(&fields, "floor_area", req.FloorArea)
	requirePositive(&fields, "no_of_floors", float64(req.NoOfFloors))

	switch req.FurnishedStatus {
	case models.FurnishedStatusUnfurnished, models.FurnishedStatusFurnished, models.FurnishedStatusSemiFurnished:
	case "":
		req.FurnishedStatus = models.FurnishedStatusUnfurnished
	default:
		fields = append(fields, utils.ValidationError{
			Field: "furnished_status", Tag: "oneof",
			Message: "furnished_status must be one of: unfurnished furnished semiFurnished",
		})
	}

	if imageCount == 0 {
		fields = append(fields, utils.ValidationError{
			Field: "images", Tag: "min",
			Message: "at least one image is required",
		})
	}

	if len(fields) > 0 {
		return &ValidationError{
			Message: "Please fill in all fields and upload at least one image",
			Fields:  fields,
		}
	}
	return nil
}

func validateLand(req *CreateListingRequest) error {
	var fields []utils.ValidationError

	if req.Title == "" && req.Address == "" && req.Price <= 0 && req.Description == "" {
		fields = append(fields, utils.ValidationError{
			Field: "title", Tag: "required_without_all",
			Message: "at least one of title, address, price or description is required",
		})
	}

	if req.Perches <= 0 {
		fields = append(fields, utils.ValidationError{
			Field: "perches", Tag: "gt",
			Message: "land extent must be a positive number",
		})
	}

	switch req.LandUnit {
	case models.LandUnitPerches, models.LandUnitAcres:
	case "":
		req.LandUnit = models.LandUnitPerches
	default:
		fields = append(fields, utils.ValidationError{
			Field: "land_unit", Tag: "oneof",
			Message: "land_unit must be one of: perches acres",
		})
	}

	if len(fields) > 0 {
		return &ValidationError{
			Message: "Please fill in at least one of the required fields",
			Fields:  fields,
		}
	}
	return nil
}

func requireText(fields *[]utils.ValidationError, name, value string) {
	if strings.TrimSpace(value) == "" {
		*fields = append(*fields, utils.ValidationError{
			Field: name, Tag: "required",
			Message: name + " is required",
		})
	}
}

func requirePositive(fields *[]utils.ValidationError, name string, value float64) {
	if value <= 0 {
		*fields = append(*fields, utils.ValidationError{
			Field: name, Tag: "gt",
			Message: name + " must be a positive number",
		})
	}
}

// normalizeFeatures drops duplicate tags (order of first occurrence kept)
// and rejects tags outside the fixed catalog.
func normalizeFeatures(features []string) ([]string, error) {
	seen := make(map[string]bool, len(features))
	result := make([]string, 0, len(features))

	for _, tag := range features {
		if seen[tag] {
			continue
		}
		if !models.IsKnownFeature(tag) {
			return nil, &ValidationError{
				Message: fmt.Sprintf("unknown property feature %q", tag),
				Fields: []utils.ValidationError{
					{Field: "property_features", Tag: "oneof", Message: fmt.Sprintf("unknown property feature %q", tag)},
				},
			}
		}
		seen[tag] = true
		result = append(result, tag)
	}

	return result, nil
}

func assetURLs(assets []UploadedAsset) []string {
	urls := make([]string, len(assets))
	for i, a := range assets {
		urls[i] = a.URL
	}
	return urls
}

func assetKeys(assets []UploadedAsset) []string {
	keys := make([]string, len(assets))
	for i, a := range assets {
		keys[i] = a.Key
	}
	return keys
}
