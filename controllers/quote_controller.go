package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/autolavado-hn/carwash-api/config"
	"github.com/autolavado-hn/carwash-api/models"
	"github.com/autolavado-hn/carwash-api/services"
)

// CreateQuoteRequest represents the request body for requesting a quote
type CreateQuoteRequest struct {
	VehicleID      uint     `json:"vehicleId" binding:"required"`
	ServiceID      uint     `json:"serviceId" binding:"required"`
	LocationType   string   `json:"locationType" binding:"required,oneof=center home"`
	ServiceAddress *string  `json:"serviceAddress" binding:"omitempty"`
	Latitude       *float64 `json:"latitude" binding:"omitempty"`
	Longitude      *float64 `json:"longitude" binding:"omitempty"`
	ScheduledDate  string   `json:"scheduledDate" binding:"required,datetime=2006-01-02"`
	ScheduledTime  string   `json:"scheduledTime" binding:"required,datetime=15:04"`
	CustomerNotes  *string  `json:"customerNotes" binding:"omitempty"`
}

// EstimatePriceRequest represents the request body for a price estimate
type EstimatePriceRequest struct {
	VehicleID    uint   `json:"vehicleId" binding:"required"`
	ServiceID    uint   `json:"serviceId" binding:"required"`
	LocationType string `json:"locationType" binding:"required,oneof=center home"`
}

// CreateQuote handles POST /api/v1/quotes - requests a new quote
func CreateQuote(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateQuoteRequest
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

	quote, err := quoteService().CreateQuote(user.ID, services.CreateQuoteInput{
		VehicleID:      req.VehicleID,
		ServiceID:      req.ServiceID,
		LocationType:   req.LocationType,
		ServiceAddress: req.ServiceAddress,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		ScheduledDate:  req.ScheduledDate,
		ScheduledTime:  req.ScheduledTime,
		CustomerNotes:  req.CustomerNotes,
	})
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    quote,
	})
}

// GetMyQuotes handles GET /api/v1/quotes - lists the current user's quotes.
// An optional ?status= query filters by status.
func GetMyQuotes(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	query := db.Preload("Vehicle").Preload("Service").
		Where("customer_id = ?", user.ID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var quotes []models.Quote
	if err := query.Order("created_at DESC").Find(&quotes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch quotes",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    quotes,
		"count":   len(quotes),
	})
}

// GetQuote handles GET /api/v1/quotes/:id - gets one of the current user's quotes
func GetQuote(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := parseQuoteID(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var quote models.Quote
	if err := db.Preload("Vehicle").Preload("Service").
		Where("id = ? AND customer_id = ?", id, user.ID).
		First(&quote).Error; err != nil {
		serviceErrorResponse(c, services.ErrQuoteNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    quote,
	})
}

// AcceptQuote handles POST /api/v1/quotes/:id/accept - accepts a quoted price
func AcceptQuote(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := parseQuoteID(c)
	if !ok {
		return
	}

	quote, err := quoteService().AcceptQuote(id, user.ID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    quote,
	})
}

// RejectQuote handles POST /api/v1/quotes/:id/reject - turns down a quoted price
func RejectQuote(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := parseQuoteID(c)
	if !ok {
		return
	}

	quote, err := quoteService().RejectQuote(id, user.ID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    quote,
	})
}

// CancelQuote handles POST /api/v1/quotes/:id/cancel - cancels an open quote
func CancelQuote(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := parseQuoteID(c)
	if !ok {
		return
	}

	quote, err := quoteService().CancelQuote(id, user.ID, user.IsAdmin())
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    quote,
	})
}

// EstimatePrice handles POST /api/v1/quotes/estimate - returns the price a
// quote would get without creating one
func EstimatePrice(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req EstimatePriceRequest
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

	price, err := quoteService().EstimatePrice(user.ID, req.ServiceID, req.LocationType, req.VehicleID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"estimatedPrice": price,
			"currency":       "HNL",
		},
	})
}

// parseQuoteID parses the :id path parameter. On failure it writes the
// error response and returns ok=false.
func parseQuoteID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid quote ID",
			},
		})
		return 0, false
	}
	return uint(id), true
}
