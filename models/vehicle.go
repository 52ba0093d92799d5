package models

import (
	"time"

	"gorm.io/gorm"
)

// Vehicle represents a customer's registered vehicle
type Vehicle struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CustomerID uint           `gorm:"not null;index" json:"customer_id"` // foreign key to users table
	Customer   User           `gorm:"foreignKey:CustomerID" json:"-"`
	Make       string         `gorm:"not null" json:"make"`
	Model      string         `gorm:"not null" json:"model"`
	Year       int            `gorm:"not null" json:"year"`
	Plate      string         `gorm:"not null;index" json:"plate"` // unique per owner, not globally
	OilType    string         `json:"oil_type"`
	Color      string         `json:"color"`
	PhotoS3Key *string        `json:"photo_s3_key"`                 // nullable, S3 key for uploaded photo
	PhotoURL   *string        `gorm:"-" json:"photo_url,omitempty"` // computed field, presigned URL
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Vehicle model
func (Vehicle) TableName() string {
	return "vehicles"
}
