package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/autolavado-hn/carwash-api/models"
)

// Oil change recommendation thresholds: every 6 months or 5000 km,
// whichever comes first
const (
	OilChangeMaxDays = 180
	OilChangeMaxKm   = 5000
)

// ReminderResult is the outcome of an oil-change-due evaluation
type ReminderResult struct {
	Needed     bool                  `json:"needed"`
	Reason     string                `json:"reason"`
	LastChange *models.HistoryRecord `json:"last_change,omitempty"`
	DaysSince  *int                  `json:"days_since,omitempty"`
	KmSince    *int                  `json:"km_since,omitempty"`
}

// CheckOilChange evaluates whether a vehicle is due for an oil change,
// based on the most recent completed oil change in its service history.
// currentMileage is optional; without it only the time rule applies.
func CheckOilChange(db *gorm.DB, vehicleID uint, currentMileage *int) (ReminderResult, error) {
	var last models.HistoryRecord
	err := db.
		Joins("JOIN services ON services.id = service_history.service_id").
		Where("service_history.vehicle_id = ?", vehicleID).
		Where("LOWER(services.name) LIKE ? OR LOWER(services.name) LIKE ?", "%aceite%", "%oil change%").
		Order("service_history.service_date DESC").
		First(&last).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ReminderResult{
			Needed: true,
			Reason: "No hay registro de cambios de aceite anteriores",
		}, nil
	}
	if err != nil {
		return ReminderResult{}, err
	}

	lastDate, err := time.Parse("2006-01-02", last.ServiceDate)
	if err != nil {
		return ReminderResult{}, fmt.Errorf("invalid service date on history record %d: %w", last.ID, err)
	}

	days := int(time.Since(lastDate).Hours() / 24)
	neededByTime := days > OilChangeMaxDays

	var kmSince *int
	neededByMileage := false
	if currentMileage != nil && last.Mileage != nil {
		km := *currentMileage - *last.Mileage
		kmSince = &km
		neededByMileage = km >= OilChangeMaxKm
	}

	result := ReminderResult{
		Needed:     neededByTime || neededByMileage,
		LastChange: &last,
		DaysSince:  &days,
		KmSince:    kmSince,
	}

	// Time takes precedence in the reported reason when both rules fire
	switch {
	case neededByTime:
		result.Reason = fmt.Sprintf("Han pasado más de 6 meses (%d días) desde el último cambio", days)
	case neededByMileage:
		result.Reason = fmt.Sprintf("Ha recorrido %d km desde el último cambio (límite %d km)", *kmSince, OilChangeMaxKm)
	default:
		result.Reason = "Aún no es necesario"
	}

	return result, nil
}
