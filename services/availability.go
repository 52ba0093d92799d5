package services

import (
	"gorm.io/gorm"

	"github.com/autolavado-hn/carwash-api/models"
)

// SlotCapacity is the maximum number of committed quotes per exact
// (date, time) pair. A slot only counts as taken once the admin has
// responded (sent) or the customer accepted; pending and terminal
// quotes do not hold capacity.
const SlotCapacity = 5

// SlotAvailable reports whether the exact (date, time) slot still has
// capacity. excludeQuoteID lets a quote skip itself when re-checking
// its own slot; pass 0 to count all quotes.
func SlotAvailable(db *gorm.DB, date, timeOfDay string, excludeQuoteID uint) (bool, error) {
	query := db.Model(&models.Quote{}).
		Where("scheduled_date = ? AND scheduled_time = ?", date, timeOfDay).
		Where("status IN ?", []string{models.QuoteStatusSent, models.QuoteStatusAccepted})

	if excludeQuoteID != 0 {
		query = query.Where("id <> ?", excludeQuoteID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}

	return count < SlotCapacity, nil
}
