package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autolavado-hn/carwash-api/config"
	"github.com/autolavado-hn/carwash-api/models"
)

// RespondQuoteRequest represents the request body for answering a quote
type RespondQuoteRequest struct {
	Price      float64 `json:"price" binding:"required"`
	AdminNotes *string `json:"adminNotes" binding:"omitempty"`
}

// CompleteQuoteRequest represents the request body for completing a service
type CompleteQuoteRequest struct {
	Observations *string `json:"observations" binding:"omitempty"`
}

// GetPendingQuotes handles GET /api/v1/admin/quotes/pending - lists quotes
// waiting for a price, oldest first
func GetPendingQuotes(c *gin.Context) {
	if _, ok := currentAdmin(c); !ok {
		return
	}

	db := config.GetDB()
	var quotes []models.Quote
	if err := db.Preload("Customer").Preload("Vehicle").Preload("Service").
		Where("status = ?", models.QuoteStatusPending).
		Order("created_at ASC").
		Find(&quotes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch pending quotes",
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

// GetAllQuotes handles GET /api/v1/admin/quotes - lists all quotes, newest
// first. Optional ?status= and ?date= (YYYY-MM-DD, scheduled date) filters.
func GetAllQuotes(c *gin.Context) {
	if _, ok := currentAdmin(c); !ok {
		return
	}

	db := config.GetDB()
	query := db.Preload("Customer").Preload("Vehicle").Preload("Service")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if date := c.Query("date"); date != "" {
		query = query.Where("scheduled_date = ?", date)
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

// RespondToQuote handles POST /api/v1/admin/quotes/:id/respond - sets the
// price on a pending quote and sends it to the customer
func RespondToQuote(c *gin.Context) {
	if _, ok := currentAdmin(c); !ok {
		return
	}

	id, ok := parseQuoteID(c)
	if !ok {
		return
	}

	var req RespondQuoteRequest
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

	quote, err := quoteService().RespondToQuote(id, req.Price, req.AdminNotes)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    quote,
	})
}

// CompleteQuote handles POST /api/v1/admin/quotes/:id/complete - marks an
// accepted quote's service as done and records it in the history
func CompleteQuote(c *gin.Context) {
	if _, ok := currentAdmin(c); !ok {
		return
	}

	id, ok := parseQuoteID(c)
	if !ok {
		return
	}

	// Body is optional
	var req CompleteQuoteRequest
	if c.Request.ContentLength > 0 {
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
	}

	quote, err := quoteService().CompleteQuote(id, req.Observations)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    quote,
	})
}

// AdminCancelQuote handles POST /api/v1/admin/quotes/:id/cancel - cancels
// any open quote
func AdminCancelQuote(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}

	id, ok := parseQuoteID(c)
	if !ok {
		return
	}

	quote, err := quoteService().CancelQuote(id, admin.ID, true)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    quote,
	})
}

// statusCount is a row of the quotes-by-status aggregate
type statusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// serviceCount is a row of the completed-services-per-service aggregate
type serviceCount struct {
	ServiceID   uint    `json:"serviceId"`
	ServiceName string  `json:"serviceName"`
	Completed   int64   `json:"completed"`
	Revenue     float64 `json:"revenue"`
}

// GetQuotesReport handles GET /api/v1/admin/reports/quotes - returns quote
// counts by status, the conversion rate of sent quotes, and total revenue
// from completed services
func GetQuotesReport(c *gin.Context) {
	if _, ok := currentAdmin(c); !ok {
		return
	}

	db := config.GetDB()

	var rows []statusCount
	if err := db.Model(&models.Quote{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to build quotes report",
			},
		})
		return
	}

	byStatus := make(map[string]int64, len(rows))
	for _, row := range rows {
		byStatus[row.Status] = row.Count
	}

	// Conversion rate: of the quotes the customer answered, how many
	// were accepted. Completed quotes were accepted first.
	answered := byStatus[models.QuoteStatusAccepted] +
		byStatus[models.QuoteStatusCompleted] +
		byStatus[models.QuoteStatusRejected]
	converted := byStatus[models.QuoteStatusAccepted] + byStatus[models.QuoteStatusCompleted]
	conversionRate := 0.0
	if answered > 0 {
		conversionRate = float64(converted) / float64(answered)
	}

	var revenue float64
	if err := db.Model(&models.HistoryRecord{}).
		Select("COALESCE(SUM(final_price), 0)").
		Scan(&revenue).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to build quotes report",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"byStatus":       byStatus,
			"conversionRate": conversionRate,
			"totalRevenue":   revenue,
		},
	})
}

// GetServicesReport handles GET /api/v1/admin/reports/services - returns
// completed-service counts and revenue per catalog service, most popular first
func GetServicesReport(c *gin.Context) {
	if _, ok := currentAdmin(c); !ok {
		return
	}

	db := config.GetDB()

	var rows []serviceCount
	if err := db.Model(&models.HistoryRecord{}).
		Select("service_history.service_id as service_id, services.name as service_name, COUNT(*) as completed, COALESCE(SUM(service_history.final_price), 0) as revenue").
		Joins("JOIN services ON services.id = service_history.service_id").
		Group("service_history.service_id, services.name").
		Order("completed DESC").
		Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to build services report",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rows,
		"count":   len(rows),
	})
}
