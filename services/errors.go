package services

import (
	"errors"
	"fmt"
)

// Service-layer errors. Controllers map these to HTTP error codes; the
// services themselves never write responses.
var (
	ErrQuoteNotFound      = errors.New("quote not found")
	ErrVehicleNotFound    = errors.New("vehicle not found or not owned by customer")
	ErrServiceNotFound    = errors.New("service not found")
	ErrServiceUnavailable = errors.New("service not available for the requested location")
	ErrSlotUnavailable    = errors.New("the requested date and time slot is full")
	ErrDateExpired        = errors.New("the scheduled date has already passed")
	ErrUnauthorized       = errors.New("actor does not own this resource")
	ErrInvalidPrice       = errors.New("price must be greater than zero")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrDuplicatePlate     = errors.New("a vehicle with this plate is already registered")
	ErrInvalidSchedule    = errors.New("scheduled date/time must be in the future and within working hours")
	ErrMissingAddress     = errors.New("service address is required for home service")
	ErrHistoryNotFound    = errors.New("history record not found")
)

// InvalidTransitionError reports a quote lifecycle event applied to a
// quote whose current status does not allow it
type InvalidTransitionError struct {
	Event string
	From  string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot apply %q to a quote in status %q", e.Event, e.From)
}

// IsInvalidTransition reports whether err is an InvalidTransitionError
func IsInvalidTransition(err error) bool {
	var ite *InvalidTransitionError
	return errors.As(err, &ite)
}
