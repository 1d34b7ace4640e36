package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/acessae/acessae-backend/internal/app/service"
	apperrors "github.com/acessae/acessae-backend/internal/errors"
	"github.com/acessae/acessae-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// maxPhotoFormFiles bounds how many photoN form fields are scanned. The
// service enforces the real per-review photo cap.
const maxPhotoFormFiles = 10

// maxUploadBytes caps one photo upload at 10 MB.
const maxUploadBytes = 10 << 20

type ReviewController struct {
	reviewService *service.ReviewService
}

func NewReviewController(reviewService *service.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

// ListByLocation returns a location's reviews with aggregate statistics
// GET /api/v1/locations/:id/reviews
func (ctrl *ReviewController) ListByLocation(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	locationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reviews, summary, err := ctrl.reviewService.ListByLocation(locationID)
	if err != nil {
		log.Error("Failed to list reviews", err, map[string]interface{}{
			"location_id": locationID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"summary": summary,
	})
}

// Create submits a review for a location. The body is multipart: a
// description field, a criteria field holding a JSON array of
// {name, rating}, and photo0..photoN file parts.
// POST /api/v1/locations/:id/reviews
func (ctrl *ReviewController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	locationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	input, photos, ok := ctrl.bindReviewForm(c)
	if !ok {
		return
	}

	reviewID, err := ctrl.reviewService.Create(locationID, userID, input, photos)
	if err != nil {
		if ve, ok := service.AsValidationError(err); ok {
			apperrors.RespondWithValidationError(c, ve.Details)
			return
		}
		switch {
		case errors.Is(err, service.ErrLocationNotFound):
			apperrors.NotFound(c, apperrors.LocationNotFound, "Location not found")
		case errors.Is(err, service.ErrReviewAlreadyExists):
			apperrors.Conflict(c, apperrors.ReviewAlreadyExists, "You have already reviewed this location")
		default:
			log.Error("Failed to create review", err, map[string]interface{}{
				"location_id": locationID,
				"user_id":     userID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Review created successfully",
		"reviewId": reviewID,
	})
}

// Update edits the caller's review. Criteria are fully replaced; existing
// photos survive only when listed in the keepPhotos JSON array.
// PUT /api/v1/locations/:id/reviews/:reviewId
func (ctrl *ReviewController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	locationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "reviewId")
	if !ok {
		return
	}
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	input, photos, ok := ctrl.bindReviewForm(c)
	if !ok {
		return
	}

	var keepPhotoIDs []uint
	if raw := c.PostForm("keepPhotos"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &keepPhotoIDs); err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "keepPhotos must be a JSON array of photo ids")
			return
		}
	}

	err := ctrl.reviewService.Update(locationID, reviewID, userID, input, keepPhotoIDs, photos)
	if err != nil {
		if ve, ok := service.AsValidationError(err); ok {
			apperrors.RespondWithValidationError(c, ve.Details)
			return
		}
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			apperrors.NotFound(c, apperrors.ReviewNotFound, "Review not found")
		case errors.Is(err, service.ErrNotReviewOwner):
			apperrors.RespondWithError(c, http.StatusForbidden,
				apperrors.AuthzOwnerOnly, "You can only edit your own reviews")
		default:
			log.Error("Failed to update review", err, map[string]interface{}{
				"review_id": reviewID,
				"user_id":   userID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review updated successfully"})
}

// Delete removes the caller's review
// DELETE /api/v1/locations/:id/reviews/:reviewId
func (ctrl *ReviewController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	locationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "reviewId")
	if !ok {
		return
	}
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	err := ctrl.reviewService.Delete(locationID, reviewID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			apperrors.NotFound(c, apperrors.ReviewNotFound, "Review not found")
		case errors.Is(err, service.ErrNotReviewOwner):
			apperrors.RespondWithError(c, http.StatusForbidden,
				apperrors.AuthzOwnerOnly, "You can only delete your own reviews")
		default:
			log.Error("Failed to delete review", err, map[string]interface{}{
				"review_id": reviewID,
				"user_id":   userID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}

// bindReviewForm extracts the shared multipart fields of create and update.
func (ctrl *ReviewController) bindReviewForm(c *gin.Context) (service.ReviewInput, []service.PhotoUpload, bool) {
	var input service.ReviewInput

	input.Description = c.PostForm("description")

	rawCriteria := c.PostForm("criteria")
	if rawCriteria != "" {
		if err := json.Unmarshal([]byte(rawCriteria), &input.Criteria); err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "criteria must be a JSON array of {name, rating}")
			return input, nil, false
		}
	}

	photos, err := ctrl.readPhotoFiles(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.UploadFailed, err.Error())
		return input, nil, false
	}

	return input, photos, true
}

// readPhotoFiles collects the photo0..photoN file parts in order.
func (ctrl *ReviewController) readPhotoFiles(c *gin.Context) ([]service.PhotoUpload, error) {
	var photos []service.PhotoUpload
	for i := 0; i < maxPhotoFormFiles; i++ {
		header, err := c.FormFile(fmt.Sprintf("photo%d", i))
		if err != nil {
			break
		}
		if header.Size > maxUploadBytes {
			return nil, fmt.Errorf("photo %s exceeds the 10MB size limit", header.Filename)
		}
		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to read photo %s", header.Filename)
		}
		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read photo %s", header.Filename)
		}
		photos = append(photos, service.PhotoUpload{
			Filename: header.Filename,
			Data:     data,
		})
	}
	return photos, nil
}
