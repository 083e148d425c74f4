package controllers

import (
	"github.com/gin-gonic/gin"

	resp "estatehub/internal/models/response_models"
	"estatehub/internal/services"
	"estatehub/pkg/utils"
)

type SavedListingController struct {
	savedService services.SavedListingServiceInterface
}

func NewSavedListingController(savedService services.SavedListingServiceInterface) *SavedListingController {
	return &SavedListingController{savedService: savedService}
}

// ListSaved godoc
// @Summary List the caller's saved listings
// @Tags Saved
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /me/saved [get]
func (s *SavedListingController) ListSaved(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	listings, err := s.savedService.List(c.Request.Context(), p.AccountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, listings, "Saved listings fetched successfully")
}

// SaveListing godoc
// @Summary Save a listing
// @Description Saving an already saved listing is a no-op
// @Tags Saved
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /me/saved/{id} [put]
func (s *SavedListingController) SaveListing(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ids, err := s.savedService.Add(c.Request.Context(), p.AccountID, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp.SavedListingsResponse{IDs: ids}, "Listing saved")
}

// UnsaveListing godoc
// @Summary Remove a saved listing
// @Tags Saved
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /me/saved/{id} [delete]
func (s *SavedListingController) UnsaveListing(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ids, err := s.savedService.Remove(c.Request.Context(), p.AccountID, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp.SavedListingsResponse{IDs: ids}, "Listing removed from saved")
}
