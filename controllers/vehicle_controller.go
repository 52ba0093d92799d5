package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/autolavado-hn/carwash-api/config"
	"github.com/autolavado-hn/carwash-api/models"
	"github.com/autolavado-hn/carwash-api/services"
	"github.com/autolavado-hn/carwash-api/utils"
)

// CreateVehicleRequest represents the request body for registering a vehicle
type CreateVehicleRequest struct {
	Make    string `json:"make" binding:"required"`
	Model   string `json:"model" binding:"required"`
	Year    int    `json:"year" binding:"required,min=1950,max=2100"`
	Plate   string `json:"plate" binding:"required"`
	OilType string `json:"oilType" binding:"omitempty"`
	Color   string `json:"color" binding:"omitempty"`
}

// UpdateVehicleRequest represents the request body for updating a vehicle
type UpdateVehicleRequest struct {
	Make    string `json:"make" binding:"omitempty"`
	Model   string `json:"model" binding:"omitempty"`
	Year    int    `json:"year" binding:"omitempty,min=1950,max=2100"`
	Plate   string `json:"plate" binding:"omitempty"`
	OilType string `json:"oilType" binding:"omitempty"`
	Color   string `json:"color" binding:"omitempty"`
}

// CreateVehicle handles POST /api/v1/vehicles - registers a vehicle for the current user
func CreateVehicle(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateVehicleRequest
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

	db := config.GetDB()

	// The same plate may not be registered twice by one customer
	var count int64
	if err := db.Model(&models.Vehicle{}).
		Where("customer_id = ? AND plate = ?", user.ID, req.Plate).
		Count(&count).Error; err != nil {
		serviceErrorResponse(c, err)
		return
	}
	if count > 0 {
		serviceErrorResponse(c, services.ErrDuplicatePlate)
		return
	}

	vehicle := models.Vehicle{
		CustomerID: user.ID,
		Make:       req.Make,
		Model:      req.Model,
		Year:       req.Year,
		Plate:      req.Plate,
		OilType:    req.OilType,
		Color:      req.Color,
	}

	if err := db.Create(&vehicle).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to register vehicle",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    vehicle,
	})
}

// GetMyVehicles handles GET /api/v1/vehicles - lists the current user's vehicles
func GetMyVehicles(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var vehicles []models.Vehicle
	if err := db.Where("customer_id = ?", user.ID).
		Order("created_at DESC").
		Find(&vehicles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch vehicles",
			},
		})
		return
	}

	attachPhotoURLs(vehicles)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    vehicles,
		"count":   len(vehicles),
	})
}

// GetVehicle handles GET /api/v1/vehicles/:id - gets one of the current user's vehicles
func GetVehicle(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	vehicle, ok := findOwnVehicle(c, user.ID)
	if !ok {
		return
	}

	if photoSvc := services.GetPhotoService(); photoSvc != nil && vehicle.PhotoS3Key != nil {
		if url, err := photoSvc.GetPhotoURL(*vehicle.PhotoS3Key); err == nil && url != "" {
			vehicle.PhotoURL = &url
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    vehicle,
	})
}

// UpdateVehicle handles PUT /api/v1/vehicles/:id - updates one of the current user's vehicles
func UpdateVehicle(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	vehicle, ok := findOwnVehicle(c, user.ID)
	if !ok {
		return
	}

	var req UpdateVehicleRequest
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

	db := config.GetDB()

	updates := make(map[string]interface{})
	if req.Make != "" {
		updates["make"] = req.Make
	}
	if req.Model != "" {
		updates["model"] = req.Model
	}
	if req.Year != 0 {
		updates["year"] = req.Year
	}
	if req.Plate != "" && req.Plate != vehicle.Plate {
		var count int64
		if err := db.Model(&models.Vehicle{}).
			Where("customer_id = ? AND plate = ? AND id <> ?", user.ID, req.Plate, vehicle.ID).
			Count(&count).Error; err != nil {
			serviceErrorResponse(c, err)
			return
		}
		if count > 0 {
			serviceErrorResponse(c, services.ErrDuplicatePlate)
			return
		}
		updates["plate"] = req.Plate
	}
	if req.OilType != "" {
		updates["oil_type"] = req.OilType
	}
	if req.Color != "" {
		updates["color"] = req.Color
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    vehicle,
		})
		return
	}

	if err := db.Model(vehicle).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update vehicle",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    vehicle,
	})
}

// DeleteVehicle handles DELETE /api/v1/vehicles/:id - removes one of the current user's vehicles
func DeleteVehicle(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	vehicle, ok := findOwnVehicle(c, user.ID)
	if !ok {
		return
	}

	db := config.GetDB()
	if err := db.Delete(vehicle).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete vehicle",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"message": "Vehicle deleted successfully",
		},
	})
}

// UploadVehiclePhoto handles POST /api/v1/vehicles/:id/photo - uploads a photo for a vehicle
func UploadVehiclePhoto(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	vehicle, ok := findOwnVehicle(c, user.ID)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "No photo file provided. Use form field 'photo'.",
			},
		})
		return
	}

	photoSvc := services.GetPhotoService()
	if photoSvc == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "Photo storage is not configured",
			},
		})
		return
	}

	s3Key, err := photoSvc.UploadVehiclePhoto(fileHeader)
	if err != nil {
		var fileErr *utils.FileUploadError
		if errors.As(err, &fileErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    fileErr.Code,
					"message": fileErr.Message,
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": "Failed to upload photo",
			},
		})
		return
	}

	db := config.GetDB()

	// Replace the previous photo if one exists
	oldKey := vehicle.PhotoS3Key
	if err := db.Model(vehicle).Update("photo_s3_key", s3Key).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save photo reference",
			},
		})
		return
	}
	if oldKey != nil && *oldKey != "" {
		if delErr := photoSvc.DeletePhoto(*oldKey); delErr != nil {
			log.Printf("warning: failed to delete previous photo %s: %v", *oldKey, delErr)
		}
	}

	url, _ := photoSvc.GetPhotoURL(s3Key)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"s3Key":    s3Key,
			"photoUrl": url,
		},
	})
}

// CheckOilChange handles GET /api/v1/vehicles/:id/oil-change-check - evaluates
// whether the vehicle is due for an oil change. An optional ?mileage= query
// parameter supplies the current odometer reading.
func CheckOilChange(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	vehicle, ok := findOwnVehicle(c, user.ID)
	if !ok {
		return
	}

	var mileage *int
	if raw := c.Query("mileage"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "mileage must be a non-negative integer",
				},
			})
			return
		}
		mileage = &value
	}

	result, err := services.CheckOilChange(config.GetDB(), vehicle.ID, mileage)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// findOwnVehicle parses the :id path parameter and loads the vehicle only if
// it belongs to the given customer. On failure it writes the error response
// and returns ok=false.
func findOwnVehicle(c *gin.Context, customerID uint) (*models.Vehicle, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid vehicle ID",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var vehicle models.Vehicle
	if err := db.Where("id = ? AND customer_id = ?", id, customerID).First(&vehicle).Error; err != nil {
		serviceErrorResponse(c, services.ErrVehicleNotFound)
		return nil, false
	}

	return &vehicle, true
}

// attachPhotoURLs fills the transient PhotoURL field for vehicles that have a
// stored photo, when a photo service is configured.
func attachPhotoURLs(vehicles []models.Vehicle) {
	photoSvc := services.GetPhotoService()
	if photoSvc == nil {
		return
	}
	for i := range vehicles {
		if vehicles[i].PhotoS3Key == nil || *vehicles[i].PhotoS3Key == "" {
			continue
		}
		if url, err := photoSvc.GetPhotoURL(*vehicles[i].PhotoS3Key); err == nil && url != "" {
			vehicles[i].PhotoURL = &url
		}
	}
}
