package controllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"estatehub/internal/services"
	"estatehub/internal/session"
	"estatehub/pkg/utils"
)

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func principal(c *gin.Context) (session.Principal, bool) {
	p, ok := session.FromGin(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return session.Principal{}, false
	}
	return p, true
}

func pagination(c *gin.Context) (int, int, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page number")
		return 0, 0, false
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page size (must be 1-100)")
		return 0, 0, false
	}
	return page, pageSize, true
}

// readImages loads the files of a multipart field. Each file is read only
// up to one byte past maxBytes so oversize files are still reported.
func readImages(c *gin.Context, field string, maxBytes int64) ([]services.ImageUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if err == http.ErrNotMultipart {
			return nil, nil
		}
		return nil, err
	}

	headers := form.File[field]
	uploads := make([]services.ImageUpload, 0, len(headers))
	for _, fh := range headers {
		upload := services.ImageUpload{Filename: fh.Filename, Size: fh.Size}
		if fh.Size <= maxBytes {
			f, err := fh.Open()
			if err != nil {
				return nil, err
			}
			upload.Data, err = io.ReadAll(io.LimitReader(f, maxBytes+1))
			f.Close()
			if err != nil {
				return nil, err
			}
		}
		uploads = append(uploads, upload)
	}
	return uploads, nil
}
