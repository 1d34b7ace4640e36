package controller

import (
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/acessae/acessae-backend/internal/errors"
	"github.com/acessae/acessae-backend/internal/middleware"
	"github.com/acessae/acessae-backend/internal/storage"
	"github.com/gin-gonic/gin"
)

// photoContentTypes maps allowed photo extensions to their MIME type.
// Anything else is served as a generic octet stream.
var photoContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

type PhotoController struct {
	storage *storage.LocalStorage
}

func NewPhotoController(store *storage.LocalStorage) *PhotoController {
	return &PhotoController{storage: store}
}

// Serve streams a stored review photo
// GET /uploads/reviews/:file
func (ctrl *PhotoController) Serve(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filename := c.Param("file")
	fullPath, ok := ctrl.storage.ResolveReviewPhoto(filename)
	if !ok {
		log.Warn("Rejected photo path", map[string]interface{}{
			"filename": filename,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid file name")
		return
	}

	info, err := os.Stat(fullPath)
	if err != nil || info.IsDir() {
		apperrors.NotFound(c, apperrors.UploadFileNotFound, "File not found")
		return
	}

	contentType, known := photoContentTypes[strings.ToLower(filepath.Ext(filename))]
	if !known {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400")
	c.File(fullPath)
}
