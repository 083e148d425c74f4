package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"estatehub/internal/services"
	"estatehub/pkg/utils"
)

type ExportController struct {
	exportService services.ExportServiceInterface
}

func NewExportController(exportService services.ExportServiceInterface) *ExportController {
	return &ExportController{exportService: exportService}
}

// PrintView godoc
// @Summary Printable listing page
// @Description HTML page that opens the browser print dialog once loaded
// @Tags Export
// @Produce html
// @Param id path string true "Listing ID"
// @Success 200 {string} string "HTML"
// @Failure 404 {object} utils.APIResponse
// @Router /listings/{id}/print [get]
func (e *ExportController) PrintView(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	page, err := e.exportService.PrintHTML(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// DownloadPDF godoc
// @Summary Download a listing brochure as PDF
// @Tags Export
// @Produce application/pdf
// @Param id path string true "Listing ID"
// @Success 200 {file} file
// @Failure 404 {object} utils.APIResponse
// @Router /listings/{id}/pdf [get]
func (e *ExportController) DownloadPDF(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	doc, filename, err := e.exportService.PDF(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", doc)
}
