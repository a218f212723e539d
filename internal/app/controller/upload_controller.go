package controller

import (
	"errors"
	"net/http"

	apperrors "github.com/acehadwer/storefront-backend/internal/errors"
	"github.com/acehadwer/storefront-backend/internal/middleware"
	"github.com/acehadwer/storefront-backend/internal/storage"
	"github.com/gin-gonic/gin"
)

type UploadController struct {
	storage storage.ImageStorage
}

// NewUploadController accepts a nil storage; uploads then answer 503.
func NewUploadController(imageStorage storage.ImageStorage) *UploadController {
	return &UploadController{
		storage: imageStorage,
	}
}

type GeneratePresignedURLRequest struct {
	Filename    string `form:"filename" json:"filename" binding:"required"`
	ContentType string `form:"content_type" json:"content_type" binding:"required"`
}

// GenerateProductImageURL signs a direct upload; the returned file_url goes in the product image field.
// POST /api/v1/admin/uploads/product-image
func (ctrl *UploadController) GenerateProductImageURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if ctrl.storage == nil {
		apperrors.Unavailable(c, "Image uploads are not configured.")
		return
	}

	var req GeneratePresignedURLRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Warn("Invalid presigned URL request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationRequired, "filename and content_type are required.")
		return
	}

	response, err := ctrl.storage.PresignUpload(c.Request.Context(), req.Filename, req.ContentType, storage.ProductImageFolder)
	if err != nil {
		if errors.Is(err, storage.ErrContentTypeNotAllowed) {
			log.Warn("Invalid content type", map[string]interface{}{
				"content_type": req.ContentType,
			})
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP).")
			return
		}
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
		})
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.UploadFailed, "Failed to prepare the upload. Please try again.")
		return
	}

	log.Info("Presigned URL generated successfully", map[string]interface{}{
		"key": response.Key,
	})

	c.JSON(http.StatusOK, response)
}
