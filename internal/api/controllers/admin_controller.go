package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"estatehub/internal/models/request_models"
	"estatehub/internal/services"
	"estatehub/pkg/utils"
)

type AdminController struct {
	adminService   services.AdminServiceInterface
	listingService services.ListingServiceInterface
}

func NewAdminController(adminService services.AdminServiceInterface, listingService services.ListingServiceInterface) *AdminController {
	return &AdminController{
		adminService:   adminService,
		listingService: listingService,
	}
}

// Register godoc
// @Summary Request an admin account
// @Description New admins start as pending until a superadmin approves them
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body request_models.AdminRegisterRequest true "Admin registration payload"
// @Success 201 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /admin/register [post]
func (a *AdminController) Register(c *gin.Context) {
	var req request_models.AdminRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	admin, err := a.adminService.Register(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, admin, "Admin registration received")
}

// Login godoc
// @Summary Admin login
// @Description Send either a Firebase ID token as the bearer credential or email and password in the body
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body request_models.AdminLoginRequest false "Email and password"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /admin/login [post]
func (a *AdminController) Login(c *gin.Context) {
	idToken := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))

	var req request_models.AdminLoginRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
			return
		}
	}
	if idToken == "" && (req.Email == "" || req.Password == "") {
		utils.RespondError(c, http.StatusBadRequest, "Provide an ID token or email and password")
		return
	}

	token, err := a.adminService.Login(c.Request.Context(), idToken, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, token, "Login successful")
}

// ListAdmins godoc
// @Summary List admins
// @Tags Admin
// @Produce json
// @Param status query string false "pending | approved | rejected"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/admins [get]
func (a *AdminController) ListAdmins(c *gin.Context) {
	admins, err := a.adminService.ListAdmins(c.Request.Context(), c.Query("status"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, admins, "Admins fetched successfully")
}

// UpdateAdminStatus godoc
// @Summary Approve or reject an admin
// @Description Superadmin only; an admin cannot change their own status
// @Tags Admin
// @Accept json
// @Param id path string true "Admin ID"
// @Param request body request_models.UpdateStatusRequest true "New status"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/admins/{id}/status [patch]
func (a *AdminController) UpdateAdminStatus(c *gin.Context) {
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

	if err := a.adminService.UpdateAdminStatus(c.Request.Context(), p, id, req.Status); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Admin status updated")
}

// ListAccounts godoc
// @Summary List marketplace accounts
// @Tags Admin
// @Produce json
// @Param kind query string false "user | agent | agency"
// @Param page query int false "Page (default 1)"
// @Param pageSize query int false "Page size (default 20, max 100)"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/accounts [get]
func (a *AdminController) ListAccounts(c *gin.Context) {
	page, pageSize, ok := pagination(c)
	if !ok {
		return
	}

	accounts, err := a.adminService.ListAccounts(c.Request.Context(), c.Query("kind"), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, accounts, "Accounts fetched successfully")
}

// UpdateAccountStatus godoc
// @Summary Suspend or reactivate an account
// @Tags Admin
// @Accept json
// @Param id path string true "Account ID"
// @Param request body request_models.UpdateStatusRequest true "active | suspended"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/accounts/{id}/status [patch]
func (a *AdminController) UpdateAccountStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req request_models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := a.adminService.UpdateAccountStatus(c.Request.Context(), id, req.Status); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Account status updated")
}

// DeleteListing godoc
// @Summary Remove any listing
// @Tags Admin
// @Param id path string true "Listing ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/listings/{id} [delete]
func (a *AdminController) DeleteListing(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := a.listingService.DeleteListing(c.Request.Context(), p, id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Listing deleted successfully")
}
