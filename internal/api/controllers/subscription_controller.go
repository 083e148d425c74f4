package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"estatehub/internal/models/request_models"
	"estatehub/internal/services"
	"estatehub/pkg/utils"
)

type SubscriptionController struct {
	subscriptionService services.SubscriptionServiceInterface
}

func NewSubscriptionController(subscriptionService services.SubscriptionServiceInterface) *SubscriptionController {
	return &SubscriptionController{subscriptionService: subscriptionService}
}

// ListPackages godoc
// @Summary List subscription packages
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /packages [get]
func (s *SubscriptionController) ListPackages(c *gin.Context) {
	utils.RespondSuccess(c, s.subscriptionService.ListPackages(), "Packages fetched successfully")
}

// Current godoc
// @Summary Current subscription and remaining quota
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /me/subscription [get]
func (s *SubscriptionController) Current(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	sub, err := s.subscriptionService.Current(c.Request.Context(), p.AccountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, sub, "Subscription fetched successfully")
}

// SelectPackage godoc
// @Summary Switch to another package
// @Description Starts a new billing period with a fresh listing quota
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body request_models.SelectPackageRequest true "Package"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /me/subscription [put]
func (s *SubscriptionController) SelectPackage(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req request_models.SelectPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	sub, err := s.subscriptionService.SelectPackage(c.Request.Context(), p.AccountID, req.PackageID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, sub, "Package selected successfully")
}
