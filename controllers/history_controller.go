package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/autolavado-hn/carwash-api/config"
	"github.com/autolavado-hn/carwash-api/models"
	"github.com/autolavado-hn/carwash-api/services"
)

// RateServiceRequest represents the request body for rating a completed service
type RateServiceRequest struct {
	Rating  int     `json:"rating" binding:"required"`
	Comment *string `json:"comment" binding:"omitempty"`
}

// GetMyHistory handles GET /api/v1/history - lists the current user's
// completed services, newest first. An optional ?vehicleId= query filters
// by vehicle.
func GetMyHistory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	query := db.Preload("Vehicle").Preload("Service").
		Where("customer_id = ?", user.ID)

	if raw := c.Query("vehicleId"); raw != "" {
		vehicleID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "vehicleId must be a positive integer",
				},
			})
			return
		}
		query = query.Where("vehicle_id = ?", vehicleID)
	}

	var records []models.HistoryRecord
	if err := query.Order("service_date DESC, id DESC").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch service history",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    records,
		"count":   len(records),
	})
}

// RateService handles POST /api/v1/history/:id/rating - rates a completed service
func RateService(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid history record ID",
			},
		})
		return
	}

	var req RateServiceRequest
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

	if req.Rating < 1 || req.Rating > 5 {
		serviceErrorResponse(c, services.ErrInvalidRating)
		return
	}

	db := config.GetDB()
	var record models.HistoryRecord
	if err := db.Where("id = ? AND customer_id = ?", id, user.ID).First(&record).Error; err != nil {
		serviceErrorResponse(c, services.ErrHistoryNotFound)
		return
	}

	record.Rating = &req.Rating
	record.Comment = req.Comment
	if err := db.Save(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save rating",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    record,
	})
}
