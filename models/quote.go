package models

import (
	"time"

	"gorm.io/gorm"
)

// Quote statuses. A quote starts as pending and moves through the
// lifecycle below; rejected, completed and cancelled are terminal.
const (
	QuoteStatusPending   = "pending"
	QuoteStatusSent      = "sent"
	QuoteStatusAccepted  = "accepted"
	QuoteStatusRejected  = "rejected"
	QuoteStatusCompleted = "completed"
	QuoteStatusCancelled = "cancelled"
)

// Quote events that drive status transitions
const (
	QuoteEventRespond  = "respond"
	QuoteEventAccept   = "accept"
	QuoteEventReject   = "reject"
	QuoteEventComplete = "complete"
	QuoteEventCancel   = "cancel"
)

// quoteTransitions maps each event to the statuses it may be applied from
var quoteTransitions = map[string][]string{
	QuoteEventRespond:  {QuoteStatusPending},
	QuoteEventAccept:   {QuoteStatusSent},
	QuoteEventReject:   {QuoteStatusSent},
	QuoteEventComplete: {QuoteStatusAccepted},
	QuoteEventCancel:   {QuoteStatusPending, QuoteStatusSent, QuoteStatusAccepted},
}

// ValidQuoteTransition reports whether the event may be applied to a
// quote currently in fromStatus
func ValidQuoteTransition(event, fromStatus string) bool {
	allowed, ok := quoteTransitions[event]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == fromStatus {
			return true
		}
	}
	return false
}

// Quote represents a priced, schedulable service request against a vehicle
type Quote struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	CustomerID     uint           `gorm:"not null;index" json:"customer_id"` // foreign key to users table
	Customer       User           `gorm:"foreignKey:CustomerID" json:"-"`
	VehicleID      uint           `gorm:"not null;index" json:"vehicle_id"`
	Vehicle        Vehicle        `gorm:"foreignKey:VehicleID" json:"vehicle"`
	ServiceID      uint           `gorm:"not null;index" json:"service_id"`
	Service        Service        `gorm:"foreignKey:ServiceID" json:"service"`
	LocationType   string         `gorm:"not null" json:"location_type"` // "center" or "home"
	ServiceAddress *string        `json:"service_address"`               // required when location_type is "home"
	Latitude       *float64       `json:"latitude"`
	Longitude      *float64       `json:"longitude"`
	ScheduledDate  string         `gorm:"not null;index:idx_quotes_slot" json:"scheduled_date"` // YYYY-MM-DD
	ScheduledTime  string         `gorm:"not null;index:idx_quotes_slot" json:"scheduled_time"` // HH:MM, within working hours
	QuotedPrice    float64        `gorm:"not null" json:"quoted_price"`
	Status         string         `gorm:"not null;default:'pending';index" json:"status"`
	CustomerNotes  *string        `json:"customer_notes"`
	AdminNotes     *string        `json:"admin_notes"`
	RespondedAt    *time.Time     `json:"responded_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Quote model
func (Quote) TableName() string {
	return "quotes"
}

// IsTerminal reports whether the quote has reached a final status
func (q *Quote) IsTerminal() bool {
	switch q.Status {
	case QuoteStatusRejected, QuoteStatusCompleted, QuoteStatusCancelled:
		return true
	}
	return false
}
