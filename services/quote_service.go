package services

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/autolavado-hn/carwash-api/models"
)

// QuoteService drives the quote lifecycle: creation, the admin/customer
// transitions, and the side effects those transitions emit. All guards
// re-read the quote inside a transaction so two concurrent requests
// cannot both succeed from a stale status.
type QuoteService struct {
	db       *gorm.DB
	notifier NotificationDispatcher
}

// NewQuoteService creates a quote service backed by the given database
// and notification dispatcher
func NewQuoteService(db *gorm.DB, notifier NotificationDispatcher) *QuoteService {
	return &QuoteService{db: db, notifier: notifier}
}

// CreateQuoteInput carries the customer's request to create a quote
type CreateQuoteInput struct {
	VehicleID      uint
	ServiceID      uint
	LocationType   string
	ServiceAddress *string
	Latitude       *float64
	Longitude      *float64
	ScheduledDate  string // YYYY-MM-DD
	ScheduledTime  string // HH:MM
	CustomerNotes  *string
}

// CreateQuote validates the request, computes the price and creates the
// quote in pending status. The slot availability check and the insert
// run in one transaction so concurrent creates cannot overbook a slot.
func (s *QuoteService) CreateQuote(customerID uint, input CreateQuoteInput) (*models.Quote, error) {
	if input.LocationType != models.LocationCenter && input.LocationType != models.LocationHome {
		return nil, ErrServiceUnavailable
	}

	// The vehicle must belong to the requesting customer
	var vehicle models.Vehicle
	if err := s.db.Where("id = ? AND customer_id = ?", input.VehicleID, customerID).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}

	var service models.Service
	if err := s.db.First(&service, input.ServiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	if !service.Active || !service.AvailableAt(input.LocationType) {
		return nil, ErrServiceUnavailable
	}

	if !SlotInFuture(input.ScheduledDate, input.ScheduledTime) || !WithinWorkingHours(input.ScheduledTime) {
		return nil, ErrInvalidSchedule
	}

	if input.LocationType == models.LocationHome && (input.ServiceAddress == nil || *input.ServiceAddress == "") {
		return nil, ErrMissingAddress
	}

	quote := models.Quote{
		CustomerID:     customerID,
		VehicleID:      vehicle.ID,
		ServiceID:      service.ID,
		LocationType:   input.LocationType,
		ServiceAddress: input.ServiceAddress,
		Latitude:       input.Latitude,
		Longitude:      input.Longitude,
		ScheduledDate:  input.ScheduledDate,
		ScheduledTime:  input.ScheduledTime,
		QuotedPrice:    ComputePrice(&service, input.LocationType, &vehicle),
		Status:         models.QuoteStatusPending,
		CustomerNotes:  input.CustomerNotes,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		available, err := SlotAvailable(tx, input.ScheduledDate, input.ScheduledTime, 0)
		if err != nil {
			return err
		}
		if !available {
			return ErrSlotUnavailable
		}
		return tx.Create(&quote).Error
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(QuoteReceivedIntent(&quote))

	return s.loadQuote(quote.ID)
}

// RespondToQuote moves a pending quote to sent with the admin's price.
// Pending quotes do not hold slot capacity, so the slot is re-checked
// here: sending the quote is what commits it to the schedule.
func (s *QuoteService) RespondToQuote(quoteID uint, price float64, adminNotes *string) (*models.Quote, error) {
	var quote *models.Quote
	err := s.db.Transaction(func(tx *gorm.DB) error {
		q, err := findQuote(tx, quoteID)
		if err != nil {
			return err
		}
		if !models.ValidQuoteTransition(models.QuoteEventRespond, q.Status) {
			return &InvalidTransitionError{Event: models.QuoteEventRespond, From: q.Status}
		}
		if price <= 0 {
			return ErrInvalidPrice
		}

		available, err := SlotAvailable(tx, q.ScheduledDate, q.ScheduledTime, q.ID)
		if err != nil {
			return err
		}
		if !available {
			return ErrSlotUnavailable
		}

		now := time.Now()
		q.QuotedPrice = price
		q.Status = models.QuoteStatusSent
		q.RespondedAt = &now
		if adminNotes != nil {
			q.AdminNotes = adminNotes
		}

		quote = q
		return tx.Save(q).Error
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(QuoteSentIntent(quote))

	return s.loadQuote(quote.ID)
}

// AcceptQuote lets the owning customer accept a sent quote, as long as
// the scheduled slot has not already passed
func (s *QuoteService) AcceptQuote(quoteID, customerID uint) (*models.Quote, error) {
	var quote *models.Quote
	err := s.db.Transaction(func(tx *gorm.DB) error {
		q, err := findQuote(tx, quoteID)
		if err != nil {
			return err
		}
		if q.CustomerID != customerID {
			return ErrUnauthorized
		}
		if !models.ValidQuoteTransition(models.QuoteEventAccept, q.Status) {
			return &InvalidTransitionError{Event: models.QuoteEventAccept, From: q.Status}
		}
		if !SlotInFuture(q.ScheduledDate, q.ScheduledTime) {
			return ErrDateExpired
		}

		q.Status = models.QuoteStatusAccepted
		quote = q
		return tx.Save(q).Error
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(QuoteAcceptedIntent(quote))

	return s.loadQuote(quote.ID)
}

// RejectQuote lets the owning customer turn down a sent quote
func (s *QuoteService) RejectQuote(quoteID, customerID uint) (*models.Quote, error) {
	var quote *models.Quote
	err := s.db.Transaction(func(tx *gorm.DB) error {
		q, err := findQuote(tx, quoteID)
		if err != nil {
			return err
		}
		if q.CustomerID != customerID {
			return ErrUnauthorized
		}
		if !models.ValidQuoteTransition(models.QuoteEventReject, q.Status) {
			return &InvalidTransitionError{Event: models.QuoteEventReject, From: q.Status}
		}

		q.Status = models.QuoteStatusRejected
		quote = q
		return tx.Save(q).Error
	})
	if err != nil {
		return nil, err
	}

	return s.loadQuote(quote.ID)
}

// CompleteQuote marks an accepted quote as done and records the service
// in the history. The history row is created in the same transaction as
// the status change; notifications and the reminder evaluation happen
// after commit and never roll it back.
func (s *QuoteService) CompleteQuote(quoteID uint, observations *string) (*models.Quote, error) {
	var quote *models.Quote
	err := s.db.Transaction(func(tx *gorm.DB) error {
		q, err := findQuote(tx, quoteID)
		if err != nil {
			return err
		}
		if !models.ValidQuoteTransition(models.QuoteEventComplete, q.Status) {
			return &InvalidTransitionError{Event: models.QuoteEventComplete, From: q.Status}
		}

		q.Status = models.QuoteStatusCompleted
		if err := tx.Save(q).Error; err != nil {
			return err
		}

		record := models.HistoryRecord{
			QuoteID:      q.ID,
			CustomerID:   q.CustomerID,
			VehicleID:    q.VehicleID,
			ServiceID:    q.ServiceID,
			FinalPrice:   q.QuotedPrice,
			ServiceDate:  q.ScheduledDate,
			Observations: observations,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		quote = q
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(ServiceCompletedIntent(quote))
	s.evaluateOilChangeReminder(quote)

	return s.loadQuote(quote.ID)
}

// CancelQuote cancels a quote that has not reached a terminal status.
// Admins may cancel any quote; customers only their own.
func (s *QuoteService) CancelQuote(quoteID, actorID uint, isAdmin bool) (*models.Quote, error) {
	var quote *models.Quote
	err := s.db.Transaction(func(tx *gorm.DB) error {
		q, err := findQuote(tx, quoteID)
		if err != nil {
			return err
		}
		if !isAdmin && q.CustomerID != actorID {
			return ErrUnauthorized
		}
		if !models.ValidQuoteTransition(models.QuoteEventCancel, q.Status) {
			return &InvalidTransitionError{Event: models.QuoteEventCancel, From: q.Status}
		}

		q.Status = models.QuoteStatusCancelled
		quote = q
		return tx.Save(q).Error
	})
	if err != nil {
		return nil, err
	}

	return s.loadQuote(quote.ID)
}

// EstimatePrice computes the price a quote would get for the given
// service, location and vehicle, without creating anything
func (s *QuoteService) EstimatePrice(customerID, serviceID uint, locationType string, vehicleID uint) (float64, error) {
	var service models.Service
	if err := s.db.First(&service, serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrServiceNotFound
		}
		return 0, err
	}

	var vehicle models.Vehicle
	if err := s.db.Where("id = ? AND customer_id = ?", vehicleID, customerID).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrVehicleNotFound
		}
		return 0, err
	}

	return ComputePrice(&service, locationType, &vehicle), nil
}

// findQuote loads a quote with its vehicle and service inside the
// caller's transaction
func findQuote(tx *gorm.DB, quoteID uint) (*models.Quote, error) {
	var quote models.Quote
	if err := tx.Preload("Vehicle").Preload("Service").First(&quote, quoteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, err
	}
	return &quote, nil
}

// loadQuote reloads a quote with its associations for the response
func (s *QuoteService) loadQuote(quoteID uint) (*models.Quote, error) {
	return findQuote(s.db, quoteID)
}

// dispatch hands an intent to the notifier if one is configured
func (s *QuoteService) dispatch(intent NotificationIntent) {
	if s.notifier == nil {
		return
	}
	s.notifier.Enqueue(intent)
}

// evaluateOilChangeReminder checks whether the quote's vehicle is due
// for an oil change after a completed service and, if so, emits a
// reminder. Failures here are logged and swallowed.
func (s *QuoteService) evaluateOilChangeReminder(quote *models.Quote) {
	result, err := CheckOilChange(s.db, quote.VehicleID, nil)
	if err != nil {
		log.Printf("failed to evaluate oil change reminder for vehicle %d: %v", quote.VehicleID, err)
		return
	}
	if !result.Needed {
		return
	}
	s.dispatch(OilChangeReminderIntent(quote.CustomerID, &quote.Vehicle, result))
}
