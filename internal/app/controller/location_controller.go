package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/acessae/acessae-backend/internal/app/model"
	"github.com/acessae/acessae-backend/internal/app/service"
	apperrors "github.com/acessae/acessae-backend/internal/errors"
	"github.com/acessae/acessae-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type LocationController struct {
	locationService service.LocationService
}

func NewLocationController(locationService service.LocationService) *LocationController {
	return &LocationController{locationService: locationService}
}

type LocationRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Address     string  `json:"address" binding:"required"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Category    string  `json:"category"`
}

func locationPayload(location *model.Location) gin.H {
	return gin.H{
		"id":          location.ID,
		"name":        location.Name,
		"description": location.Description,
		"address":     location.Address,
		"latitude":    location.Latitude,
		"longitude":   location.Longitude,
		"category":    location.Category,
		"created_at":  location.CreatedAt,
		"updated_at":  location.UpdatedAt,
	}
}

// List returns active locations, optionally filtered. Deactivated locations
// are included only when include_inactive=true is passed.
// GET /api/v1/locations?search=&category=&include_inactive=
func (ctrl *LocationController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	includeInactive := c.Query("include_inactive") == "true"

	locations, err := ctrl.locationService.List(c.Query("search"), c.Query("category"), includeInactive)
	if err != nil {
		log.Error("Failed to list locations", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	payload := make([]gin.H, 0, len(locations))
	for i := range locations {
		payload = append(payload, locationPayload(&locations[i]))
	}

	c.JSON(http.StatusOK, gin.H{"locations": payload})
}

// Get returns one active location
// GET /api/v1/locations/:id
func (ctrl *LocationController) Get(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	location, err := ctrl.locationService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrLocationNotFound) {
			apperrors.NotFound(c, apperrors.LocationNotFound, "Location not found")
			return
		}
		log.Error("Failed to get location", err, map[string]interface{}{
			"location_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"location": locationPayload(location)})
}

// Create registers a new location
// POST /api/v1/locations
func (ctrl *LocationController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid location request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input data")
		return
	}

	userID, _ := middleware.GetUserID(c)

	location, err := ctrl.locationService.Create(service.LocationInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Category:    req.Category,
	}, userID)
	if err != nil {
		if ve, ok := service.AsValidationError(err); ok {
			apperrors.RespondWithValidationError(c, ve.Details)
			return
		}
		log.Error("Failed to create location", err, map[string]interface{}{
			"name": req.Name,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Location created successfully",
		"location": locationPayload(location),
	})
}

// Update replaces a location's fields
// PUT /api/v1/locations/:id
func (ctrl *LocationController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input data")
		return
	}

	location, err := ctrl.locationService.Update(id, service.LocationInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Category:    req.Category,
	})
	if err != nil {
		if ve, ok := service.AsValidationError(err); ok {
			apperrors.RespondWithValidationError(c, ve.Details)
			return
		}
		if errors.Is(err, service.ErrLocationNotFound) {
			apperrors.NotFound(c, apperrors.LocationNotFound, "Location not found")
			return
		}
		log.Error("Failed to update location", err, map[string]interface{}{
			"location_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Location updated successfully",
		"location": locationPayload(location),
	})
}

// Delete deactivates a location
// DELETE /api/v1/locations/:id
func (ctrl *LocationController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.locationService.Delete(id); err != nil {
		if errors.Is(err, service.ErrLocationNotFound) {
			apperrors.NotFound(c, apperrors.LocationNotFound, "Location not found")
			return
		}
		log.Error("Failed to delete location", err, map[string]interface{}{
			"location_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Location deleted successfully"})
}

// parseIDParam reads a positive numeric path parameter, responding with a 400
// on failure.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name+" parameter")
		return 0, false
	}
	return uint(id), true
}
