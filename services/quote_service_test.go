package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/autolavado-hn/carwash-api/models"
)

// captureDispatcher records intents synchronously for assertions
type captureDispatcher struct {
	intents []NotificationIntent
}

func (d *captureDispatcher) Enqueue(intent NotificationIntent) {
	d.intents = append(d.intents, intent)
}

// quoteTestEnv bundles the fixtures the quote service tests share
type quoteTestEnv struct {
	db         *gorm.DB
	svc        *QuoteService
	dispatcher *captureDispatcher

	customer models.User
	other    models.User
	vehicle  models.Vehicle
	service  models.Service
}

func setupQuoteTest(t *testing.T) *quoteTestEnv {
	t.Helper()

	db := openTestDB(t)
	dispatcher := &captureDispatcher{}

	env := &quoteTestEnv{
		db:         db,
		svc:        NewQuoteService(db, dispatcher),
		dispatcher: dispatcher,
	}

	env.customer = models.User{Auth0ID: "auth0|c1", Name: "Carlos", Email: "c1@example.com", Role: "customer"}
	require.NoError(t, db.Create(&env.customer).Error)

	env.other = models.User{Auth0ID: "auth0|c2", Name: "Maria", Email: "c2@example.com", Role: "customer"}
	require.NoError(t, db.Create(&env.other).Error)

	env.vehicle = models.Vehicle{CustomerID: env.customer.ID, Make: "Toyota", Model: "Corolla", Year: 2019, Plate: "HAA1111"}
	require.NoError(t, db.Create(&env.vehicle).Error)

	env.service = models.Service{
		Name:              "Lavado Completo",
		BasePrice:         300,
		HomeSurcharge:     100,
		AvailableAtHome:   true,
		AvailableAtCenter: true,
		Active:            true,
	}
	require.NoError(t, db.Create(&env.service).Error)

	return env
}

// validInput builds a creatable quote request for a slot n days out
func (env *quoteTestEnv) validInput(days int, timeOfDay string) CreateQuoteInput {
	return CreateQuoteInput{
		VehicleID:     env.vehicle.ID,
		ServiceID:     env.service.ID,
		LocationType:  models.LocationCenter,
		ScheduledDate: time.Now().AddDate(0, 0, days).Format("2006-01-02"),
		ScheduledTime: timeOfDay,
	}
}

func TestCreateQuote_Success(t *testing.T) {
	env := setupQuoteTest(t)

	quote, err := env.svc.CreateQuote(env.customer.ID, env.validInput(7, "10:00"))
	require.NoError(t, err)

	assert.Equal(t, models.QuoteStatusPending, quote.Status)
	assert.Equal(t, 300.0, quote.QuotedPrice)
	assert.Equal(t, env.customer.ID, quote.CustomerID)

	require.Len(t, env.dispatcher.intents, 1)
	assert.Equal(t, "Cotización Recibida", env.dispatcher.intents[0].Title)
	assert.Equal(t, env.customer.ID, env.dispatcher.intents[0].UserID)
}

func TestCreateQuote_ForeignVehicle(t *testing.T) {
	env := setupQuoteTest(t)

	_, err := env.svc.CreateQuote(env.other.ID, env.validInput(7, "10:00"))
	assert.ErrorIs(t, err, ErrVehicleNotFound)
}

func TestCreateQuote_InactiveService(t *testing.T) {
	env := setupQuoteTest(t)
	require.NoError(t, env.db.Model(&env.service).Update("active", false).Error)

	_, err := env.svc.CreateQuote(env.customer.ID, env.validInput(7, "10:00"))
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestCreateQuote_ServiceNotOfferedAtLocation(t *testing.T) {
	env := setupQuoteTest(t)
	require.NoError(t, env.db.Model(&env.service).Update("available_at_home", false).Error)

	input := env.validInput(7, "10:00")
	input.LocationType = models.LocationHome
	address := "Col. Kennedy"
	input.ServiceAddress = &address

	_, err := env.svc.CreateQuote(env.customer.ID, input)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestCreateQuote_PastSlot(t *testing.T) {
	env := setupQuoteTest(t)

	_, err := env.svc.CreateQuote(env.customer.ID, env.validInput(-1, "10:00"))
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestCreateQuote_OutsideWorkingHours(t *testing.T) {
	env := setupQuoteTest(t)

	_, err := env.svc.CreateQuote(env.customer.ID, env.validInput(7, "19:30"))
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestCreateQuote_HomeWithoutAddress(t *testing.T) {
	env := setupQuoteTest(t)

	input := env.validInput(7, "10:00")
	input.LocationType = models.LocationHome

	_, err := env.svc.CreateQuote(env.customer.ID, input)
	assert.ErrorIs(t, err, ErrMissingAddress)
}

func TestCreateQuote_SlotFull(t *testing.T) {
	env := setupQuoteTest(t)

	input := env.validInput(7, "10:00")
	for i := 0; i < SlotCapacity; i++ {
		seedQuoteAt(t, env.db, input.ScheduledDate, input.ScheduledTime, models.QuoteStatusAccepted)
	}

	_, err := env.svc.CreateQuote(env.customer.ID, input)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestRespondToQuote_Success(t *testing.T) {
	env := setupQuoteTest(t)

	quote, err := env.svc.CreateQuote(env.customer.ID, env.validInput(7, "10:00"))
	require.NoError(t, err)

	notes := "Incluye aspirado"
	responded, err := env.svc.RespondToQuote(quote.ID, 450, &notes)
	require.NoError(t, err)

	assert.Equal(t, models.QuoteStatusSent, responded.Status)
	assert.Equal(t, 450.0, responded.QuotedPrice)
	require.NotNil(t, responded.RespondedAt)
	require.NotNil(t, responded.AdminNotes)
	assert.Equal(t, notes, *responded.AdminNotes)

	// Second intent is the priced quote, flagged as a quote notification
	require.Len(t, env.dispatcher.intents, 2)
	assert.Equal(t, models.NotificationKindQuote, env.dispatcher.intents[1].Kind)
	assert.Contains(t, env.dispatcher.intents[1].Body, "450.00")
}

func TestRespondToQuote_InvalidPrice(t *testing.T) {
	env := setupQuoteTest(t)

	quote, err := env.svc.CreateQuote(env.customer.ID, env.validInput(7, "10:00"))
	require.NoError(t, err)

	_, err = env.svc.RespondToQuote(quote.ID, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = env.svc.RespondToQuote(quote.ID, -50, nil)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	// The quote must still be answerable
	var reloaded models.Quote
	require.NoError(t, env.db.First(&reloaded, quote.ID).Error)
	assert.Equal(t, models.QuoteStatusPending, reloaded.Status)
}

func TestRespondToQuote_AlreadySent(t *testing.T) {
	env := setupQuoteTest(t)

	quote, err := env.svc.CreateQuote(env.customer.ID, env.validInput(7, "10:00"))
	require.NoError(t, err)

	_, err = env.svc.RespondToQuote(quote.ID, 450, nil)
	require.NoError(t, err)

	_, err = env.svc.RespondToQuote(quote.ID, 500, nil)
	assert.True(t, IsInvalidTransition(err), "expected invalid transition, got %v", err)
}

func TestRespondToQuote_SlotFilledSinceCreation(t *testing.T) {
	env := setupQuoteTest(t)

	// Pending quotes do not hold capacity, so several can pile up on the
	// same slot. Once other quotes have committed it, responding must fail.
	quote, err := env.svc.CreateQuote(env.customer.ID, env.validInput(7, "11:00"))
	require.NoError(t, err)

	date := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	for i := 0; i < SlotCapacity; i++ {
		seedQuoteAt(t, env.db, date, "11:00", models.QuoteStatusSent)
	}

	_, err = env.svc.RespondToQuote(quote.ID, 450, nil)
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// The quote stays pending and never joins the slot count
	var reloaded models.Quote
	require.NoError(t, env.db.First(&reloaded, quote.ID).Error)
	assert.Equal(t, models.QuoteStatusPending, reloaded.Status)

	var committed int64
	require.NoError(t, env.db.Model(&models.Quote{}).
		Where("scheduled_date = ? AND scheduled_time = ? AND status IN ?",
			date, "11:00", []string{models.QuoteStatusSent, models.QuoteStatusAccepted}).
		Count(&committed).Error)
	assert.Equal(t, int64(SlotCapacity), committed)
}

func TestRespondToQuote_NotFound(t *testing.T) {
	env := setupQuoteTest(t)

	_, err := env.svc.RespondToQuote(9999, 450, nil)
	assert.ErrorIs(t, err, ErrQuoteNotFound)
}

func TestAcceptQuote_Success(t *testing.T) {
	env := setupQuoteTest(t)

	quote, err := env.svc.CreateQuote(env.customer.ID, env.validInput(7, "10:00"))
	require.NoError(t, err)
	_, err = env.svc.RespondToQuote(quote.ID, 450, nil)
	require.NoError(t, err)

	accepted, err := env.svc.AcceptQuote(quote.ID, env.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QuoteStatusAccepted, accepted.Status)

	require.Len(t, env.dispatcher.intents, 3)
	assert.Equal(t, "Cotización Aceptada", env.dispatcher.intents[2].Title)
}

func TestAcceptQuote_WrongCustomer(t *testing.T) {
	env := setupQuoteTest(t)

	quote, err := env.svc.CreateQuote(env.customer.ID, env.validInput(7, "10:00"))
	require.NoError(t, err)
	_, err = env.svc.RespondToQuote(quote.ID, 450, nil)
	require.NoError(t, err)

	_, err = env.svc.AcceptQuote(quote.ID, env.other.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAcceptQuote_ExpiredSlot(t *testing.T) {
	env := setupQuoteTest(t)

	quote := models.Quote{
		CustomerID:    env.customer.ID,
		VehicleID:     env.vehicle.ID,
		ServiceID:     env.service.ID,
		LocationType:  models.LocationCenter,
		ScheduledDate: time.Now().AddDate(0, 0, -2).Format("2006-01-02"),
		ScheduledTime: "10:00",
		QuotedPrice:   450,
		Status:        models.QuoteStatusSent,
	}
	require.NoError(t, env.db.Create(&quote).Error)

	_, err := env.svc.AcceptQuote(quote.ID, env.customer.ID)
	assert.ErrorIs(t, err, ErrDateExpired)

	var reloaded models.Quote
	require.NoError(t, env.db.First(&reloaded, quote.ID).Error)
	assert.Equal(t, models.QuoteStatusSent, reloaded.Status)
}

func TestRejectQuote_SecondRejectFails(t *testing.T) {
	env := setupQuoteTest(t)

	quote, err := env.svc.CreateQuote(env.customer.ID, env.validInput(7, "10:00"))
	require.NoError(t, err)
	_, err = env.svc.RespondToQuote(quote.ID, 450, nil)
	require.NoError(t, err)

	rejected, err := env.svc.RejectQuote(quote.ID, env.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QuoteStatusRejected, rejected.Status)

	_, err = env.svc.RejectQuote(quote.ID, env.customer.ID)
	assert.True(t, IsInvalidTransition(err), "expected invalid transition, got %v", err)
}

func TestCompleteQuote_CreatesHistoryOnce(t *testing.T) {
	env := setupQuoteTest(t)

	quote, err := env.svc.CreateQuote(env.customer.ID, env.validInput(7, "10:00"))
	require.NoError(t, err)
	_, err = env.svc.RespondToQuote(quote.ID, 450, nil)
	require.NoError(t, err)
	_, err = env.svc.AcceptQuote(quote.ID, env.customer.ID)
	require.NoError(t, err)

	obs := "Sin novedades"
	completed, err := env.svc.CompleteQuote(quote.ID, &obs)
	require.NoError(t, err)
	assert.Equal(t, models.QuoteStatusCompleted, completed.Status)

	var records []models.HistoryRecord
	require.NoError(t, env.db.Where("quote_id = ?", quote.ID).Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, 450.0, records[0].FinalPrice)
	assert.Equal(t, quote.ScheduledDate, records[0].ServiceDate)
	require.NotNil(t, records[0].Observations)
	assert.Equal(t, obs, *records[0].Observations)

	// Completing again must fail and not duplicate the record
	_, err = env.svc.CompleteQuote(quote.ID, nil)
	assert.True(t, IsInvalidTransition(err))

	require.NoError(t, env.db.Where("quote_id = ?", quote.ID).Find(&records).Error)
	assert.Len(t, records, 1)
}

func TestCompleteQuote_RequiresAccepted(t *testing.T) {
	env := setupQuoteTest(t)

	quote, err := env.svc.CreateQuote(env.customer.ID, env.validInput(7, "10:00"))
	require.NoError(t, err)

	_, err = env.svc.CompleteQuote(quote.ID, nil)
	assert.True(t, IsInvalidTransition(err))
}

func TestCompleteQuote_EmitsReminderWhenOilOverdue(t *testing.T) {
	env := setupQuoteTest(t)

	quote, err := env.svc.CreateQuote(env.customer.ID, env.validInput(7, "10:00"))
	require.NoError(t, err)
	_, err = env.svc.RespondToQuote(quote.ID, 450, nil)
	require.NoError(t, err)
	_, err = env.svc.AcceptQuote(quote.ID, env.customer.ID)
	require.NoError(t, err)

	_, err = env.svc.CompleteQuote(quote.ID, nil)
	require.NoError(t, err)

	// No oil change on record: completed intent plus a reminder
	titles := make([]string, 0, len(env.dispatcher.intents))
	for _, intent := range env.dispatcher.intents {
		titles = append(titles, intent.Title)
	}
	assert.Contains(t, titles, "Servicio Completado")
	assert.Contains(t, titles, "Recordatorio de Cambio de Aceite")
}

func TestCancelQuote_Customer(t *testing.T) {
	env := setupQuoteTest(t)

	quote, err := env.svc.CreateQuote(env.customer.ID, env.validInput(7, "10:00"))
	require.NoError(t, err)

	cancelled, err := env.svc.CancelQuote(quote.ID, env.customer.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.QuoteStatusCancelled, cancelled.Status)
}

func TestCancelQuote_ForeignCustomer(t *testing.T) {
	env := setupQuoteTest(t)

	quote, err := env.svc.CreateQuote(env.customer.ID, env.validInput(7, "10:00"))
	require.NoError(t, err)

	_, err = env.svc.CancelQuote(quote.ID, env.other.ID, false)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// An admin may cancel anyone's quote
	cancelled, err := env.svc.CancelQuote(quote.ID, env.other.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.QuoteStatusCancelled, cancelled.Status)
}

func TestCancelQuote_TerminalStatus(t *testing.T) {
	env := setupQuoteTest(t)

	quote, err := env.svc.CreateQuote(env.customer.ID, env.validInput(7, "10:00"))
	require.NoError(t, err)
	_, err = env.svc.RespondToQuote(quote.ID, 450, nil)
	require.NoError(t, err)
	_, err = env.svc.RejectQuote(quote.ID, env.customer.ID)
	require.NoError(t, err)

	_, err = env.svc.CancelQuote(quote.ID, env.customer.ID, false)
	assert.True(t, IsInvalidTransition(err))
}

func TestEstimatePrice(t *testing.T) {
	env := setupQuoteTest(t)

	price, err := env.svc.EstimatePrice(env.customer.ID, env.service.ID, models.LocationHome, env.vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, 400.0, price)

	_, err = env.svc.EstimatePrice(env.customer.ID, 9999, models.LocationCenter, env.vehicle.ID)
	assert.ErrorIs(t, err, ErrServiceNotFound)

	_, err = env.svc.EstimatePrice(env.other.ID, env.service.ID, models.LocationCenter, env.vehicle.ID)
	assert.ErrorIs(t, err, ErrVehicleNotFound)
}

func TestQuoteService_NilDispatcher(t *testing.T) {
	env := setupQuoteTest(t)
	svc := NewQuoteService(env.db, nil)

	// Transitions must work without a configured dispatcher
	quote, err := svc.CreateQuote(env.customer.ID, env.validInput(7, "10:00"))
	require.NoError(t, err)
	assert.Equal(t, models.QuoteStatusPending, quote.Status)
}
