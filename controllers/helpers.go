package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autolavado-hn/carwash-api/config"
	"github.com/autolavado-hn/carwash-api/middleware"
	"github.com/autolavado-hn/carwash-api/models"
	"github.com/autolavado-hn/carwash-api/services"
)

// currentUser resolves the authenticated user from the JWT subject. On
// failure it writes the error response and returns ok=false.
func currentUser(c *gin.Context) (*models.User, bool) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User profile not found. Please create a profile first.",
			},
		})
		return nil, false
	}

	return &user, true
}

// currentAdmin resolves the authenticated user and requires the admin
// role. On failure it writes the error response and returns ok=false.
func currentAdmin(c *gin.Context) (*models.User, bool) {
	user, ok := currentUser(c)
	if !ok {
		return nil, false
	}

	if !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Administrator access required",
			},
		})
		return nil, false
	}

	return user, true
}

// quoteService builds a quote service on the request's database handle
func quoteService() *services.QuoteService {
	return services.NewQuoteService(config.GetDB(), services.GetNotificationDispatcher())
}

// serviceErrorResponse maps service-layer errors to the API's error envelope
func serviceErrorResponse(c *gin.Context, err error) {
	var status int
	var code string

	switch {
	case errors.Is(err, services.ErrQuoteNotFound):
		status, code = http.StatusNotFound, "QUOTE_NOT_FOUND"
	case errors.Is(err, services.ErrVehicleNotFound):
		status, code = http.StatusNotFound, "VEHICLE_NOT_FOUND"
	case errors.Is(err, services.ErrServiceNotFound):
		status, code = http.StatusNotFound, "SERVICE_NOT_FOUND"
	case errors.Is(err, services.ErrHistoryNotFound):
		status, code = http.StatusNotFound, "HISTORY_NOT_FOUND"
	case errors.Is(err, services.ErrServiceUnavailable):
		status, code = http.StatusBadRequest, "SERVICE_UNAVAILABLE"
	case errors.Is(err, services.ErrSlotUnavailable):
		status, code = http.StatusConflict, "SLOT_UNAVAILABLE"
	case errors.Is(err, services.ErrDateExpired):
		status, code = http.StatusConflict, "DATE_EXPIRED"
	case errors.Is(err, services.ErrUnauthorized):
		status, code = http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, services.ErrInvalidPrice):
		status, code = http.StatusBadRequest, "INVALID_PRICE"
	case errors.Is(err, services.ErrInvalidRating):
		status, code = http.StatusBadRequest, "INVALID_RATING"
	case errors.Is(err, services.ErrDuplicatePlate):
		status, code = http.StatusConflict, "DUPLICATE_PLATE"
	case errors.Is(err, services.ErrInvalidSchedule), errors.Is(err, services.ErrMissingAddress):
		status, code = http.StatusBadRequest, "VALIDATION_ERROR"
	case services.IsInvalidTransition(err):
		status, code = http.StatusConflict, "INVALID_TRANSITION"
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "An unexpected error occurred",
			},
		})
		return
	}

	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": err.Error(),
		},
	})
}
