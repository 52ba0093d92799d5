package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification kinds
const (
	NotificationKindQuote    = "cotizacion"
	NotificationKindReminder = "recordatorio"
	NotificationKindPromo    = "promocion"
	NotificationKindSystem   = "sistema"
)

// Notification represents a message delivered to a user, usually as a
// side effect of a quote state change
type Notification struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"` // foreign key to users table
	User      User           `gorm:"foreignKey:UserID" json:"-"`
	QuoteID   *uint          `gorm:"index" json:"quote_id,omitempty"` // nullable, set for quote-related notifications
	Title     string         `gorm:"not null" json:"title"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	Kind      string         `gorm:"not null;default:'sistema'" json:"kind"`
	Read      bool           `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}
