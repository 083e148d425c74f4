package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"estatehub/internal/models/request_models"
	"estatehub/internal/services"
	"estatehub/pkg/utils"
)

type ContactController struct {
	contactService services.ContactServiceInterface
}

func NewContactController(contactService services.ContactServiceInterface) *ContactController {
	return &ContactController{contactService: contactService}
}

// Submit godoc
// @Summary Send a message to the site operators
// @Tags Contact
// @Accept json
// @Produce json
// @Param request body request_models.ContactRequest true "Message"
// @Success 200 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /contact [post]
func (ct *ContactController) Submit(c *gin.Context) {
	var req request_models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := ct.contactService.Submit(c.Request.Context(), req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Message sent")
}
