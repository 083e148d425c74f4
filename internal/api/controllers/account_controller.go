package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"estatehub/internal/config"
	"estatehub/internal/models/request_models"
	"estatehub/internal/services"
	"estatehub/internal/session"
	"estatehub/pkg/utils"
)

type AccountController struct {
	accountService services.AccountServiceInterface
	maxFileBytes   int64
}

func NewAccountController(accountService services.AccountServiceInterface, cfg *config.Config) *AccountController {
	return &AccountController{
		accountService: accountService,
		maxFileBytes:   cfg.Uploads.MaxFileBytes,
	}
}

// Register godoc
// @Summary Register a new account
// @Description Create a user, agent or agency account
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.SignUpRequest true "Account registration payload"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /accounts/register [post]
func (a *AccountController) Register(c *gin.Context) {
	var req request_models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	account, err := a.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, account, "Account created successfully")
}

// Login godoc
// @Summary Login to an account
// @Description Authenticate with email and password and return a token
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.LoginRequest true "Login payload"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /accounts/login [post]
func (a *AccountController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	token, err := a.accountService.Login(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, token, "Login successful")
}

// FederatedLogin godoc
// @Summary Login with an identity provider token
// @Description Exchanges a verified Firebase ID token for a session; unknown emails get a new user account
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.FederatedLoginRequest true "ID token"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 503 {object} utils.APIResponse
// @Router /accounts/login/federated [post]
func (a *AccountController) FederatedLogin(c *gin.Context) {
	var req request_models.FederatedLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	token, err := a.accountService.FederatedLogin(c.Request.Context(), req.IDToken)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, token, "Login successful")
}

// ForgotPassword handles the forgot password functionality.
// @Summary Request a password reset
// @Description Sends a reset token to the provided email if it exists
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.RequestForgotPassword true "Forgot password payload"
// @Success 200 {object} utils.APIResponse
// @Router /accounts/forgot-password [post]
func (a *AccountController) ForgotPassword(c *gin.Context) {
	var req request_models.RequestForgotPassword
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := a.accountService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "If the email exists, a reset link has been sent")
}

// ResetPassword godoc
// @Summary Reset password with a token
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.ResetPasswordRequest true "Password reset payload"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /accounts/reset-password [post]
func (a *AccountController) ResetPassword(c *gin.Context) {
	var req request_models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := a.accountService.ResetPassword(c.Request.Context(), req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Password has been reset successfully")
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Tags Accounts
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /me [get]
func (a *AccountController) GetProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	profile, err := a.accountService.GetProfile(c.Request.Context(), p.AccountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, profile, "Profile fetched successfully")
}

// UpdateProfile godoc
// @Summary Update the caller's profile
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /me [patch]
func (a *AccountController) UpdateProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req request_models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	profile, err := a.accountService.UpdateProfile(c.Request.Context(), p.AccountID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, profile, "Profile updated successfully")
}

// UploadAvatar godoc
// @Summary Replace the caller's profile image
// @Description Multipart form with exactly one "avatar" file
// @Tags Accounts
// @Accept multipart/form-data
// @Produce json
// @Param avatar formData file true "Profile image"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /me/avatar [put]
func (a *AccountController) UploadAvatar(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	files, err := readImages(c, "avatar", a.maxFileBytes)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid image upload")
		return
	}
	if len(files) != 1 {
		utils.RespondError(c, http.StatusBadRequest, "Exactly one avatar image is required")
		return
	}

	profile, err := a.accountService.UploadAvatar(c.Request.Context(), p.AccountID, files[0])
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, profile, "Avatar updated successfully")
}

// ChangePassword godoc
// @Summary Change the caller's password
// @Tags Accounts
// @Accept json
// @Param request body request_models.ChangePasswordRequest true "Passwords"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Security BearerAuth
// @Router /me/password [put]
func (a *AccountController) ChangePassword(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req request_models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := a.accountService.ChangePassword(c.Request.Context(), p.AccountID, req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Password changed successfully")
}

func (a *AccountController) publicProfile(c *gin.Context, kind string) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	profile, err := a.accountService.GetPublicProfile(c.Request.Context(), kind, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, profile, "Profile fetched successfully")
}

func (a *AccountController) publicProfiles(c *gin.Context, kind string) {
	page, pageSize, ok := pagination(c)
	if !ok {
		return
	}

	profiles, err := a.accountService.ListPublicProfiles(c.Request.Context(), kind, page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, profiles, "Profiles fetched successfully")
}

// GetAgent godoc
// @Summary Public agent profile with active listings
// @Tags Profiles
// @Produce json
// @Param id path string true "Agent ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /agents/{id} [get]
func (a *AccountController) GetAgent(c *gin.Context) {
	a.publicProfile(c, session.KindAgent)
}

// ListAgents godoc
// @Summary List active agents
// @Tags Profiles
// @Produce json
// @Param page query int false "Page (default 1)"
// @Param pageSize query int false "Page size (default 20, max 100)"
// @Success 200 {object} utils.APIResponse
// @Router /agents [get]
func (a *AccountController) ListAgents(c *gin.Context) {
	a.publicProfiles(c, session.KindAgent)
}

// GetAgency godoc
// @Summary Public agency profile with active listings
// @Tags Profiles
// @Produce json
// @Param id path string true "Agency ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /agencies/{id} [get]
func (a *AccountController) GetAgency(c *gin.Context) {
	a.publicProfile(c, session.KindAgency)
}

// ListAgencies godoc
// @Summary List active agencies
// @Tags Profiles
// @Produce json
// @Param page query int false "Page (default 1)"
// @Param pageSize query int false "Page size (default 20, max 100)"
// @Success 200 {object} utils.APIResponse
// @Router /agencies [get]
func (a *AccountController) ListAgencies(c *gin.Context) {
	a.publicProfiles(c, session.KindAgency)
}
