// internal/services/listing_test.go
package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/noblehomes/backoffice/internal/config"
	"github.com/noblehomes/backoffice/internal/models"
)

type ListingServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	store   *fakeObjectStore
	service *ListingService
}

func (suite *ListingServiceTestSuite) SetupTest() {
	suite.db = testDB(suite.T())
	suite.store = newFakeObjectStore()

	uploadCfg := config.UploadConfig{
		Namespace:     "homes",
		MaxImageSize:  10 * 1024 * 1024,
		MaxVideoSize:  50 * 1024 * 1024,
		ImageTypes:    []string{".jpg", ".jpeg", ".png"},
		VideoTypes:    []string{".mp4", ".mov"},
		UploadWorkers: 1,
	}

	uploader := NewUploader(suite.store, uploadCfg.UploadWorkers)
	suite.service = NewListingService(suite.db, uploader, suite.store, uploadCfg)
}

func (suite *ListingServiceTestSuite) houseRequest() *CreateListingRequest {
	return &CreateListingRequest{
		Title:            "Lake View Villa",
		Address:          "12 Lake Rd",
		Price:            25000000,
		Description:      "Modern villa",
		Town:             "Kandy",
		City:             "Kandy",
		PropertyType:     models.PropertyTypeHouse,
		Bedrooms:         4,
		Bathrooms:        3,
		Rooms:            6,
		ParkingAvailable: true,
		ParkingSpace:     2,
		Perches:          20,
		FloorArea:        3200,
		NoOfFloors:       2,
		FurnishedStatus:  models.FurnishedStatusFurnished,
		AgeOfBuilding:    "5 years",
		RoadWidth:        12,
		PropertyFeatures: []string{"Garage", "hot-water"},
	}
}

func (suite *ListingServiceTestSuite) TestHouseSubmissionCommitsAllMedia() {
	images := imageFiles(suite.T(), "front.jpg", "back.jpg")
	videos := videoFiles(suite.T(), "tour.mp4")

	listing, err := suite.service.Create(suite.houseRequest(), images, videos)
	suite.Require().NoError(err)
	suite.Require().NotNil(listing)

	// Reload to assert on what was actually persisted.
	var stored models.Listing
	suite.Require().NoError(suite.db.First(&stored, "id = ?", listing.ID).Error)

	suite.Equal("Lake View Villa", stored.Title)
	suite.Equal(float64(25000000), stored.Price)
	suite.Equal(4, stored.Bedrooms)
	suite.Equal(3, stored.Bathrooms)
	suite.Equal(6, stored.Rooms)
	suite.Equal(float64(20), stored.Perches)
	suite.Equal(float64(3200), stored.FloorArea)
	suite.Equal(2, stored.NoOfFloors)
	suite.False(stored.CreatedAt.IsZero())

	suite.Require().Len(stored.ImageURLs, 2)
	suite.Require().Len(stored.VideoURLs, 1)
	suite.Contains(stored.ImageURLs[0], "_front.jpg")
	suite.Contains(stored.ImageURLs[1], "_back.jpg")
	suite.Contains(stored.VideoURLs[0], "_tour.mp4")

	suite.Len(stored.ImageKeys, 2)
	suite.Len(stored.VideoKeys, 1)
}

func (suite *ListingServiceTestSuite) TestHouseWithoutImagesRejectedBeforeAnyTransfer() {
	listing, err := suite.service.Create(suite.houseRequest(), nil, nil)

	suite.Require().Error(err)
	suite.Nil(listing)

	var validationErr *ValidationError
	suite.Require().True(errors.As(err, &validationErr))

	suite.Equal(0, suite.store.putCount(), "validation must reject before any network call")

	var count int64
	suite.db.Model(&models.Listing{}).Count(&count)
	suite.Equal(int64(0), count)
}

func (suite *ListingServiceTestSuite) TestHouseMissingScalarRejected() {
	req := suite.houseRequest()
	req.Town = ""
	req.Bedrooms = 0

	_, err := suite.service.Create(req, imageFiles(suite.T(), "a.jpg"), nil)

	var validationErr *ValidationError
	suite.Require().True(errors.As(err, &validationErr))

	fields := make(map[string]bool)
	for _, f := range validationErr.Fields {
		fields[f.Field] = true
	}
	suite.True(fields["town"])
	suite.True(fields["bedrooms"])
	suite.Equal(0, suite.store.putCount())
}

func (suite *ListingServiceTestSuite) TestLandAcceptsSparseSubmission() {
	// The land form has always required far less than the house form.
	req := &CreateListingRequest{
		Description:  "Flat bare land close to the main road",
		PropertyType: models.PropertyTypeLand,
		Perches:      40,
		LandUnit:     models.LandUnitPerches,
	}

	listing, err := suite.service.Create(req, nil, nil)
	suite.Require().NoError(err)
	suite.Equal(models.PropertyTypeLand, listing.PropertyType)
	suite.Empty(listing.ImageURLs)
	suite.Equal(float64(40), listing.Perches)
}

func (suite *ListingServiceTestSuite) TestLandRequiresPositiveExtent() {
	req := &CreateListingRequest{
		Title:        "Bare land",
		PropertyType: models.PropertyTypeLand,
		Perches:      0,
	}

	_, err := suite.service.Create(req, nil, nil)

	var validationErr *ValidationError
	suite.Require().True(errors.As(err, &validationErr))
}

func (suite *ListingServiceTestSuite) TestLandDefaultsToPerches() {
	req := &CreateListingRequest{
		Title:        "Acre block",
		PropertyType: models.PropertyTypeLand,
		Perches:      2,
	}

	listing, err := suite.service.Create(req, nil, nil)
	suite.Require().NoError(err)
	suite.Equal(models.LandUnitPerches, listing.LandUnit)
}

func (suite *ListingServiceTestSuite) TestUnknownFeatureTagRejected() {
	req := suite.houseRequest()
	req.PropertyFeatures = []string{"Garage", "helipad"}

	_, err := suite.service.Create(req, imageFiles(suite.T(), "a.jpg"), nil)

	var validationErr *ValidationError
	suite.Require().True(errors.As(err, &validationErr))
	suite.Equal(0, suite.store.putCount())
}

func (suite *ListingServiceTestSuite) TestDuplicateFeatureTagsCollapsed() {
	req := suite.houseRequest()
	req.PropertyFeatures = []string{"Garage", "hot-water", "Garage"}

	listing, err := suite.service.Create(req, imageFiles(suite.T(), "a.jpg"), nil)
	suite.Require().NoError(err)
	suite.Equal([]string{"Garage", "hot-water"}, []string(listing.PropertyFeatures))
}

func (suite *ListingServiceTestSuite) TestTransferFailureCommitsNothing() {
	suite.store.failOn = "back.jpg"

	images := imageFiles(suite.T(), "front.jpg", "back.jpg", "side.jpg")
	listing, err := suite.service.Create(suite.houseRequest(), images, nil)

	suite.Require().Error(err)
	suite.Nil(listing)

	var transferErr *TransferError
	suite.Require().True(errors.As(err, &transferErr))

	var count int64
	suite.db.Model(&models.Listing{}).Count(&count)
	suite.Equal(int64(0), count, "no document may reference a failed batch")

	// The first image is now orphaned in the store; that is the documented
	// leak the sweeper reclaims later.
	suite.Equal(1, suite.store.objectCount())
}

func (suite *ListingServiceTestSuite) TestCommitFailureCleansUpUploads() {
	// Force the document write to fail after the uploads succeed.
	suite.Require().NoError(suite.db.Migrator().DropTable(&models.Listing{}))

	images := imageFiles(suite.T(), "front.jpg", "back.jpg")
	listing, err := suite.service.Create(suite.houseRequest(), images, nil)

	suite.Require().Error(err)
	suite.Nil(listing)

	var commitErr *CommitError
	suite.Require().True(errors.As(err, &commitErr))

	suite.Equal(2, suite.store.putCount(), "uploads completed before the commit")
	suite.Equal(0, suite.store.objectCount(), "uploaded objects deleted after commit failure")
}

func (suite *ListingServiceTestSuite) TestUpdateTouchesOnlyEditSurface() {
	images := imageFiles(suite.T(), "front.jpg", "back.jpg")
	created, err := suite.service.Create(suite.houseRequest(), images, videoFiles(suite.T(), "tour.mp4"))
	suite.Require().NoError(err)

	var before models.Listing
	suite.Require().NoError(suite.db.First(&before, "id = ?", created.ID).Error)

	_, err = suite.service.Update(created.ID, &UpdateListingRequest{
		Title: "Lake View Villa (reduced)",
		Price: 23500000,
	})
	suite.Require().NoError(err)

	var after models.Listing
	suite.Require().NoError(suite.db.First(&after, "id = ?", created.ID).Error)

	suite.Equal("Lake View Villa (reduced)", after.Title)
	suite.Equal(float64(23500000), after.Price)
	suite.Equal(before.Address, after.Address)
	suite.Equal(before.Bedrooms, after.Bedrooms)
	suite.Equal(before.Bathrooms, after.Bathrooms)

	// Media and creation timestamp are never part of the edit surface.
	suite.Equal(before.ImageURLs, after.ImageURLs)
	suite.Equal(before.VideoURLs, after.VideoURLs)
	suite.True(before.CreatedAt.Equal(after.CreatedAt))
}

func (suite *ListingServiceTestSuite) TestUpdateMissingListing() {
	_, err := suite.service.Update(newUUID(suite.T()), &UpdateListingRequest{Title: "x"})
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *ListingServiceTestSuite) TestDeleteRemovesRowAndAssets() {
	images := imageFiles(suite.T(), "front.jpg")
	created, err := suite.service.Create(suite.houseRequest(), images, videoFiles(suite.T(), "tour.mp4"))
	suite.Require().NoError(err)
	suite.Equal(2, suite.store.objectCount())

	suite.Require().NoError(suite.service.Delete(created.ID))

	listings, total, err := suite.service.Search(ListingSearchParams{
		PaginationParams: defaultPagination(),
	})
	suite.Require().NoError(err)
	suite.Equal(int64(0), total)
	suite.Empty(listings)

	suite.Equal(0, suite.store.objectCount(), "media deleted with the listing")
}

func (suite *ListingServiceTestSuite) TestSearchFilters() {
	images := imageFiles(suite.T(), "a.jpg")
	_, err := suite.service.Create(suite.houseRequest(), images, nil)
	suite.Require().NoError(err)

	land := &CreateListingRequest{
		Title:        "Bare land in Galle",
		PropertyType: models.PropertyTypeLand,
		Perches:      15,
	}
	_, err = suite.service.Create(land, nil, nil)
	suite.Require().NoError(err)

	houseType := models.PropertyTypeHouse
	listings, total, err := suite.service.Search(ListingSearchParams{
		PaginationParams: defaultPagination(),
		PropertyType:     &houseType,
	})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Require().Len(listings, 1)
	suite.Equal("Lake View Villa", listings[0].Title)

	priceMin := 1000000.0
	_, total, err = suite.service.Search(ListingSearchParams{
		PaginationParams: defaultPagination(),
		PriceMin:         &priceMin,
	})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
}

func TestListingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ListingServiceTestSuite))
}
