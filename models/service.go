package models

import (
	"time"

	"gorm.io/gorm"
)

// Location types a service can be performed at
const (
	LocationCenter = "center"
	LocationHome   = "home"
)

// Service represents a catalog entry for a carwash service
type Service struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Name              string         `gorm:"not null" json:"name"`
	Description       string         `json:"description"`
	BasePrice         float64        `gorm:"not null" json:"base_price"`
	HomeSurcharge     float64        `gorm:"not null;default:0" json:"home_surcharge"` // added when performed at the customer's address
	AvailableAtHome   bool           `gorm:"not null;default:false" json:"available_at_home"`
	AvailableAtCenter bool           `gorm:"not null;default:true" json:"available_at_center"`
	EstimatedMinutes  int            `json:"estimated_minutes"`
	Active            bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Service model
func (Service) TableName() string {
	return "services"
}

// AvailableAt reports whether the service can be performed at the given location type
func (s *Service) AvailableAt(locationType string) bool {
	switch locationType {
	case LocationHome:
		return s.AvailableAtHome
	case LocationCenter:
		return s.AvailableAtCenter
	}
	return false
}
