package models

import (
	"time"

	"gorm.io/gorm"
)

// HistoryRecord is an immutable record of a completed service. Exactly
// one is created per quote, when the quote is completed. Only the
// customer rating and comment may be set afterwards.
type HistoryRecord struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	QuoteID      uint           `gorm:"not null;uniqueIndex" json:"quote_id"`
	Quote        Quote          `gorm:"foreignKey:QuoteID" json:"-"`
	CustomerID   uint           `gorm:"not null;index" json:"customer_id"`
	VehicleID    uint           `gorm:"not null;index" json:"vehicle_id"`
	Vehicle      Vehicle        `gorm:"foreignKey:VehicleID" json:"-"`
	ServiceID    uint           `gorm:"not null;index" json:"service_id"`
	Service      Service        `gorm:"foreignKey:ServiceID" json:"service"`
	FinalPrice   float64        `gorm:"not null" json:"final_price"`
	ServiceDate  string         `gorm:"not null" json:"service_date"` // YYYY-MM-DD
	StartTime    *string        `json:"start_time"`                   // HH:MM
	EndTime      *string        `json:"end_time"`                     // HH:MM
	Mileage      *int           `json:"mileage"`                      // odometer reading at service time, if recorded
	Observations *string        `json:"observations"`
	Rating       *int           `json:"rating"` // 1-5, set later by the customer
	Comment      *string        `json:"comment"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the HistoryRecord model
func (HistoryRecord) TableName() string {
	return "service_history"
}
