package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"estatehub/internal/config"
	"estatehub/internal/models/request_models"
	resp "estatehub/internal/models/response_models"
	"estatehub/internal/search"
	"estatehub/internal/services"
	"estatehub/internal/session"
	"estatehub/pkg/utils"
)

type ListingController struct {
	listingService services.ListingServiceInterface
	maxFileBytes   int64
}

func NewListingController(listingService services.ListingServiceInterface, cfg *config.Config) *ListingController {
	return &ListingController{
		listingService: listingService,
		maxFileBytes:   cfg.Uploads.MaxFileBytes,
	}
}

// Search godoc
// @Summary Search listings
// @Description Filter active listings; location is matched against the address
// @Tags Listings
// @Produce json
// @Param listing_type query string true "sale | rent"
// @Param location query string false "Free-text address match"
// @Param province query string false "Province"
// @Param min_price query number false "Minimum price"
// @Param max_price query number false "Maximum price"
// @Param property_type query string false "house, apartment, ..."
// @Param category query string false "residential, commercial, ..."
// @Param amenities query []string false "Amenity names" collectionFormat(multi)
// @Param year_built query int false "Built in or after"
// @Param bedrooms query int false "Minimum bedrooms"
// @Param bathrooms query int false "Minimum bathrooms"
// @Param garage query int false "Minimum garage spaces"
// @Param furnished query bool false "Furnished"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /listings/search [get]
func (l *ListingController) Search(c *gin.Context) {
	var filter search.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid search parameters")
		return
	}

	listings, err := l.listingService.Search(c.Request.Context(), filter)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, listings, "Listings fetched successfully")
}

// GetListing godoc
// @Summary Get a listing
// @Tags Listings
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /listings/{id} [get]
func (l *ListingController) GetListing(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	listing, err := l.listingService.GetListing(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, listing, "Listing fetched successfully")
}

// ListListings godoc
// @Summary List active listings, newest first
// @Tags Listings
// @Produce json
// @Param listing_type query string false "sale | rent"
// @Param page query int false "Page (default 1)"
// @Param pageSize query int false "Page size (default 20, max 100)"
// @Success 200 {object} utils.APIResponse
// @Router /listings [get]
func (l *ListingController) ListListings(c *gin.Context) {
	page, pageSize, ok := pagination(c)
	if !ok {
		return
	}

	listings, err := l.listingService.ListListings(c.Request.Context(), c.Query("listing_type"), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, listings, "Listings fetched successfully")
}

// ListMine godoc
// @Summary List the caller's own listings
// @Tags Listings
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /me/listings [get]
func (l *ListingController) ListMine(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	listings, err := l.listingService.ListMine(c.Request.Context(), p)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, listings, "Listings fetched successfully")
}

// bindListingInput decodes and validates the JSON "listing" form field.
func bindListingInput(c *gin.Context) (request_models.ListingInput, bool) {
	var in request_models.ListingInput
	raw := c.PostForm("listing")
	if raw == "" {
		utils.RespondError(c, http.StatusBadRequest, "Missing listing field")
		return in, false
	}
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid listing JSON")
		return in, false
	}
	if err := binding.Validator.ValidateStruct(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid listing: "+err.Error())
		return in, false
	}
	return in, true
}

func respondSaved(c *gin.Context, result *resp.ListingSaveResult, created bool) {
	message := "Listing saved successfully"
	if len(result.RejectedImages) > 0 {
		message = "Listing saved; some images were rejected"
	}
	if created {
		utils.RespondCreated(c, result, message)
		return
	}
	utils.RespondSuccess(c, result, message)
}

// CreateListing godoc
// @Summary Create a listing
// @Description Multipart form: "listing" holds the attributes as JSON, "images" the photos. Invalid images are reported in rejected_images and skipped.
// @Tags Listings
// @Accept multipart/form-data
// @Produce json
// @Param listing formData string true "Listing attributes (JSON)"
// @Param images formData file false "Images"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /listings [post]
func (l *ListingController) CreateListing(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	in, ok := bindListingInput(c)
	if !ok {
		return
	}
	files, err := readImages(c, "images", l.maxFileBytes)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid image upload")
		return
	}

	result, err := l.listingService.CreateListing(c.Request.Context(), p, in, files)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	respondSaved(c, result, true)
}

// UpdateListing godoc
// @Summary Update a listing
// @Description Multipart form: "listing" (JSON), "keep_images" (JSON array of current image URLs to keep, in order) and new "images".
// @Tags Listings
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Listing ID"
// @Param listing formData string true "Listing attributes (JSON)"
// @Param keep_images formData string false "JSON array of image URLs to keep"
// @Param images formData file false "New images"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /listings/{id} [put]
func (l *ListingController) UpdateListing(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	in, ok := bindListingInput(c)
	if !ok {
		return
	}

	var keep []string
	if raw := c.PostForm("keep_images"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &keep); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid keep_images JSON")
			return
		}
	}

	files, err := readImages(c, "images", l.maxFileBytes)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid image upload")
		return
	}

	result, err := l.listingService.UpdateListing(c.Request.Context(), p, id, in, keep, files)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	respondSaved(c, result, false)
}

// DeleteListing godoc
// @Summary Delete a listing and its images
// @Tags Listings
// @Param id path string true "Listing ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /listings/{id} [delete]
func (l *ListingController) DeleteListing(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := l.listingService.DeleteListing(c.Request.Context(), p, id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Listing deleted successfully")
}

// UpdateStatus godoc
// @Summary Mark a listing active, sold, rented or inactive
// @Tags Listings
// @Accept json
// @Param id path string true "Listing ID"
// @Param request body request_models.UpdateStatusRequest true "New status"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /listings/{id}/status [patch]
func (l *ListingController) UpdateStatus(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req request_models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := l.listingService.UpdateStatus(c.Request.Context(), p, id, req.Status); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Listing status updated")
}

// RecordView godoc
// @Summary Count a listing view
// @Description Repeated views by the same viewer inside the de-duplication window are not counted
// @Tags Listings
// @Param id path string true "Listing ID"
// @Success 200 {object} utils.APIResponse
// @Router /listings/{id}/views [post]
func (l *ListingController) RecordView(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	viewer := "ip:" + c.ClientIP()
	if p, ok := session.FromGin(c); ok {
		viewer = "acct:" + p.AccountID.String()
	}

	counted, err := l.listingService.RecordView(c.Request.Context(), id, viewer)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp.ViewResponse{Counted: counted}, "View recorded")
}

// SubmitInquiry godoc
// @Summary Send an inquiry to the listing owner
// @Tags Listings
// @Accept json
// @Param id path string true "Listing ID"
// @Param request body request_models.InquiryRequest true "Inquiry"
// @Success 200 {object} utils.APIResponse
// @Router /listings/{id}/inquiries [post]
func (l *ListingController) SubmitInquiry(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req request_models.InquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := l.listingService.SubmitInquiry(c.Request.Context(), id, req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Inquiry sent")
}
