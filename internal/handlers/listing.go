// internal/handlers/listing.go
package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/noblehomes/backoffice/internal/models"
	"github.com/noblehomes/backoffice/internal/services"
	"github.com/noblehomes/backoffice/internal/utils"
)

type ListingHandler struct {
	listingService *services.ListingService
}

func NewListingHandler(listingService *services.ListingService) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
	}
}

// GET /listings
func (h *ListingHandler) GetListings(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	searchParams := services.ListingSearchParams{
		PaginationParams: params,
		Town:             c.Query("town"),
		City:             c.Query("city"),
	}

	if propertyType := c.Query("property_type"); propertyType != "" {
		pt := models.PropertyType(propertyType)
		searchParams.PropertyType = &pt
	}

	if priceMinStr := c.Query("price_min"); priceMinStr != "" {
		if priceMin, err := strconv.ParseFloat(priceMinStr, 64); err == nil {
			searchParams.PriceMin = &priceMin
		}
	}

	if priceMaxStr := c.Query("price_max"); priceMaxStr != "" {
		if priceMax, err := strconv.ParseFloat(priceMaxStr, 64); err == nil {
			searchParams.PriceMax = &priceMax
		}
	}

	listings, total, err := h.listingService.Search(searchParams)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(listings, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /listings (multipart: form fields + images[] + videos[])
func (h *ListingHandler) CreateListing(c *gin.Context) {
	var req services.CreateListingRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid form data", err.Error())
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, "Invalid multipart form", err.Error())
		return
	}

	images := form.File["images"]
	videos := form.File["videos"]

	listing, err := h.listingService.Create(&req, images, videos)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": "Listing created successfully",
		"listing": listing,
	})
}

// GET /listings/:id
func (h *ListingHandler) GetListing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid listing ID", nil)
		return
	}

	listing, err := h.listingService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"listing":         listing,
		"formatted_price": utils.FormatPrice(listing.Price),
	})
}

// PUT /listings/:id
func (h *ListingHandler) UpdateListing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid listing ID", nil)
		return
	}

	var req services.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	listing, err := h.listingService.Update(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Listing updated successfully",
		"listing": listing,
	})
}

// DELETE /listings/:id
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid listing ID", nil)
		return
	}

	if err := h.listingService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Listing deleted successfully",
	})
}

// GET /listings/features
func (h *ListingHandler) GetFeatureCatalog(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"features": models.FeatureCatalog,
	})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses:
// validation failures are the client's fault, transfer failures implicate
// the object store, commit failures the database.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var transferErr *services.TransferError
	var commitErr *services.CommitError

	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, "Record")
	case errors.As(err, &validationErr):
		if len(validationErr.Fields) > 0 {
			utils.ValidationErrorResponse(c, validationErr.Fields)
		} else {
			utils.BadRequestResponse(c, validationErr.Message, nil)
		}
	case errors.As(err, &transferErr):
		utils.BadGatewayResponse(c, "Failed to upload media, please try again later")
	case errors.As(err, &commitErr):
		utils.InternalErrorResponse(c, "Failed to save the listing, please try again later")
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}
