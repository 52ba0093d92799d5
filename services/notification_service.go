package services

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/autolavado-hn/carwash-api/models"
)

// NotificationIntent describes a notification the core wants delivered.
// Quote transitions emit intents; the dispatcher consumes them after the
// transition has committed. Delivery is fire-and-forget: a failed
// delivery is logged and never rolls back the transition that caused it.
type NotificationIntent struct {
	UserID  uint
	QuoteID *uint
	Title   string
	Body    string
	Kind    string
}

// NotificationDispatcher consumes notification intents
type NotificationDispatcher interface {
	Enqueue(intent NotificationIntent)
}

// DBNotificationDispatcher persists notifications so clients can fetch
// them from the API. Writes happen on a background goroutine.
type DBNotificationDispatcher struct {
	db *gorm.DB
}

var notificationDispatcherInstance NotificationDispatcher

// InitNotificationDispatcher initializes the DB-backed dispatcher
func InitNotificationDispatcher(db *gorm.DB) NotificationDispatcher {
	notificationDispatcherInstance = &DBNotificationDispatcher{db: db}
	return notificationDispatcherInstance
}

// GetNotificationDispatcher returns the initialized dispatcher instance
func GetNotificationDispatcher() NotificationDispatcher {
	return notificationDispatcherInstance
}

// SetNotificationDispatcher sets the dispatcher instance (primarily for testing)
func SetNotificationDispatcher(d NotificationDispatcher) {
	notificationDispatcherInstance = d
}

// Enqueue persists the intent as a Notification row without blocking
// the caller
func (d *DBNotificationDispatcher) Enqueue(intent NotificationIntent) {
	go func() {
		notification := models.Notification{
			UserID:  intent.UserID,
			QuoteID: intent.QuoteID,
			Title:   intent.Title,
			Body:    intent.Body,
			Kind:    intent.Kind,
		}
		if err := d.db.Create(&notification).Error; err != nil {
			log.Printf("failed to store notification for user %d: %v", intent.UserID, err)
		}
	}()
}

// QuoteReceivedIntent confirms to the customer that their request came in
func QuoteReceivedIntent(quote *models.Quote) NotificationIntent {
	return NotificationIntent{
		UserID:  quote.CustomerID,
		QuoteID: &quote.ID,
		Title:   "Cotización Recibida",
		Body:    "Tu solicitud de cotización ha sido recibida. Nuestro equipo la revisará y te enviará una respuesta pronto.",
		Kind:    models.NotificationKindSystem,
	}
}

// QuoteSentIntent tells the customer their quote has a price
func QuoteSentIntent(quote *models.Quote) NotificationIntent {
	return NotificationIntent{
		UserID:  quote.CustomerID,
		QuoteID: &quote.ID,
		Title:   "Cotización Enviada",
		Body:    fmt.Sprintf("Tu cotización ha sido procesada. Precio: L. %.2f", quote.QuotedPrice),
		Kind:    models.NotificationKindQuote,
	}
}

// QuoteAcceptedIntent confirms the scheduled service to the customer
func QuoteAcceptedIntent(quote *models.Quote) NotificationIntent {
	return NotificationIntent{
		UserID:  quote.CustomerID,
		QuoteID: &quote.ID,
		Title:   "Cotización Aceptada",
		Body: fmt.Sprintf("Tu cotización para %s ha sido aceptada. El servicio está programado para el %s a las %s.",
			quote.Service.Name, quote.ScheduledDate, quote.ScheduledTime),
		Kind: models.NotificationKindSystem,
	}
}

// ServiceCompletedIntent thanks the customer for a finished service
func ServiceCompletedIntent(quote *models.Quote) NotificationIntent {
	return NotificationIntent{
		UserID:  quote.CustomerID,
		QuoteID: &quote.ID,
		Title:   "Servicio Completado",
		Body:    fmt.Sprintf("Tu servicio de %s ha sido completado exitosamente. ¡Gracias por confiar en nosotros!", quote.Service.Name),
		Kind:    models.NotificationKindSystem,
	}
}

// OilChangeReminderIntent nudges the customer that a vehicle is due for
// an oil change
func OilChangeReminderIntent(userID uint, vehicle *models.Vehicle, result ReminderResult) NotificationIntent {
	body := fmt.Sprintf("Es hora de cambiar el aceite de tu %s %s (Placa: %s). ", vehicle.Make, vehicle.Model, vehicle.Plate)
	if result.KmSince != nil && *result.KmSince >= OilChangeMaxKm {
		body += fmt.Sprintf("Has recorrido %d km desde el último cambio.", *result.KmSince)
	} else if result.DaysSince != nil {
		body += fmt.Sprintf("Han pasado %d días desde el último cambio.", *result.DaysSince)
	} else {
		body += "No tenemos registro de un cambio de aceite anterior."
	}
	body += " ¡Programa tu cita con nosotros!"

	return NotificationIntent{
		UserID: userID,
		Title:  "Recordatorio de Cambio de Aceite",
		Body:   body,
		Kind:   models.NotificationKindReminder,
	}
}
