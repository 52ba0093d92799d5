package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/autolavado-hn/carwash-api/config"
	"github.com/autolavado-hn/carwash-api/models"
	"github.com/autolavado-hn/carwash-api/services"
)

// CreateServiceRequest represents the request body for creating a catalog service
type CreateServiceRequest struct {
	Name              string  `json:"name" binding:"required"`
	Description       string  `json:"description" binding:"omitempty"`
	BasePrice         float64 `json:"basePrice" binding:"required,gt=0"`
	HomeSurcharge     float64 `json:"homeSurcharge" binding:"omitempty,gte=0"`
	AvailableAtHome   *bool   `json:"availableAtHome" binding:"omitempty"`
	AvailableAtCenter *bool   `json:"availableAtCenter" binding:"omitempty"`
	EstimatedMinutes  int     `json:"estimatedMinutes" binding:"omitempty,gt=0"`
}

// UpdateServiceRequest represents the request body for updating a catalog service
type UpdateServiceRequest struct {
	Name              string   `json:"name" binding:"omitempty"`
	Description       *string  `json:"description" binding:"omitempty"`
	BasePrice         *float64 `json:"basePrice" binding:"omitempty,gt=0"`
	HomeSurcharge     *float64 `json:"homeSurcharge" binding:"omitempty,gte=0"`
	AvailableAtHome   *bool    `json:"availableAtHome" binding:"omitempty"`
	AvailableAtCenter *bool    `json:"availableAtCenter" binding:"omitempty"`
	EstimatedMinutes  *int     `json:"estimatedMinutes" binding:"omitempty,gt=0"`
}

// GetServices handles GET /api/v1/services - lists active catalog services.
// An optional ?location=center|home query filters by availability.
func GetServices(c *gin.Context) {
	db := config.GetDB()

	query := db.Model(&models.Service{}).Where("active = ?", true)

	if location := c.Query("location"); location != "" {
		switch location {
		case models.LocationCenter:
			query = query.Where("available_at_center = ?", true)
		case models.LocationHome:
			query = query.Where("available_at_home = ?", true)
		default:
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "location must be 'center' or 'home'",
				},
			})
			return
		}
	}

	var catalog []models.Service
	if err := query.Order("name ASC").Find(&catalog).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch services",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    catalog,
		"count":   len(catalog),
	})
}

// GetService handles GET /api/v1/services/:id - gets a single catalog service
func GetService(c *gin.Context) {
	service, ok := findCatalogService(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    service,
	})
}

// CreateService handles POST /api/v1/admin/services - creates a catalog service (admin only)
func CreateService(c *gin.Context) {
	if _, ok := currentAdmin(c); !ok {
		return
	}

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	service := models.Service{
		Name:             req.Name,
		Description:      req.Description,
		BasePrice:        req.BasePrice,
		HomeSurcharge:    req.HomeSurcharge,
		EstimatedMinutes: req.EstimatedMinutes,
		Active:           true,
	}
	// Availability flags default to center-only when omitted
	service.AvailableAtCenter = true
	if req.AvailableAtCenter != nil {
		service.AvailableAtCenter = *req.AvailableAtCenter
	}
	if req.AvailableAtHome != nil {
		service.AvailableAtHome = *req.AvailableAtHome
	}

	db := config.GetDB()
	if err := db.Create(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create service",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    service,
	})
}

// UpdateService handles PUT /api/v1/admin/services/:id - updates a catalog
// service (admin only). The active flag is not patchable here; deactivation
// goes through DeactivateService so the catalog has one way off the menu.
func UpdateService(c *gin.Context) {
	if _, ok := currentAdmin(c); !ok {
		return
	}

	service, ok := findCatalogService(c)
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.BasePrice != nil {
		updates["base_price"] = *req.BasePrice
	}
	if req.HomeSurcharge != nil {
		updates["home_surcharge"] = *req.HomeSurcharge
	}
	if req.AvailableAtHome != nil {
		updates["available_at_home"] = *req.AvailableAtHome
	}
	if req.AvailableAtCenter != nil {
		updates["available_at_center"] = *req.AvailableAtCenter
	}
	if req.EstimatedMinutes != nil {
		updates["estimated_minutes"] = *req.EstimatedMinutes
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    service,
		})
		return
	}

	db := config.GetDB()
	if err := db.Model(service).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update service",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    service,
	})
}

// DeactivateService handles DELETE /api/v1/admin/services/:id - deactivates a
// catalog service (admin only). The service stays in the database so existing
// quotes keep their reference, but it no longer appears in listings and new
// quotes cannot be created for it.
func DeactivateService(c *gin.Context) {
	if _, ok := currentAdmin(c); !ok {
		return
	}

	service, ok := findCatalogService(c)
	if !ok {
		return
	}

	db := config.GetDB()
	if err := db.Model(service).Update("active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to deactivate service",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"message": "Service deactivated successfully",
		},
	})
}

// findCatalogService parses the :id path parameter and loads the catalog
// service. On failure it writes the error response and returns ok=false.
func findCatalogService(c *gin.Context) (*models.Service, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid service ID",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var service models.Service
	if err := db.First(&service, id).Error; err != nil {
		serviceErrorResponse(c, services.ErrServiceNotFound)
		return nil, false
	}

	return &service, true
}
