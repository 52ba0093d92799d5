package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autolavado-hn/carwash-api/config"
	"github.com/autolavado-hn/carwash-api/models"
)

func TestGetMyNotifications(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	user := models.User{Auth0ID: "auth0|notif1", Name: "Carlos", Email: "notif1@example.com", Role: "customer"}
	require.NoError(t, db.Create(&user).Error)

	other := models.User{Auth0ID: "auth0|notif2", Name: "Maria", Email: "notif2@example.com", Role: "customer"}
	require.NoError(t, db.Create(&other).Error)

	notifications := []models.Notification{
		{UserID: user.ID, Title: "Cotización Enviada", Body: "Precio: L. 350.00", Kind: models.NotificationKindQuote},
		{UserID: user.ID, Title: "Servicio Completado", Body: "Gracias", Kind: models.NotificationKindSystem, Read: true},
		{UserID: other.ID, Title: "Ajena", Body: "No debe aparecer", Kind: models.NotificationKindSystem},
	}
	for i := range notifications {
		require.NoError(t, db.Create(&notifications[i]).Error)
	}

	router := setupTestRouter()
	router.GET("/notifications", mockAuthMiddleware("auth0|notif1", "customer", "token"), GetMyNotifications)

	// All own notifications
	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(2), response["count"])

	// Only unread
	req = httptest.NewRequest(http.MethodGet, "/notifications?unread=true", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["count"])
}

func TestMarkNotificationRead(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	user := models.User{Auth0ID: "auth0|notif3", Name: "Pedro", Email: "notif3@example.com", Role: "customer"}
	require.NoError(t, db.Create(&user).Error)

	notification := models.Notification{UserID: user.ID, Title: "Cotización Recibida", Body: "En revisión", Kind: models.NotificationKindSystem}
	require.NoError(t, db.Create(&notification).Error)

	router := setupTestRouter()
	router.POST("/notifications/:id/read", mockAuthMiddleware("auth0|notif3", "customer", "token"), MarkNotificationRead)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/notifications/%d/read", notification.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Notification
	require.NoError(t, db.First(&reloaded, notification.ID).Error)
	assert.True(t, reloaded.Read)
}

func TestMarkNotificationRead_ForeignNotification(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	owner := models.User{Auth0ID: "auth0|notif4", Name: "Laura", Email: "notif4@example.com", Role: "customer"}
	require.NoError(t, db.Create(&owner).Error)

	intruder := models.User{Auth0ID: "auth0|notif5", Name: "Hugo", Email: "notif5@example.com", Role: "customer"}
	require.NoError(t, db.Create(&intruder).Error)

	notification := models.Notification{UserID: owner.ID, Title: "Privada", Body: "Solo para Laura", Kind: models.NotificationKindSystem}
	require.NoError(t, db.Create(&notification).Error)

	router := setupTestRouter()
	router.POST("/notifications/:id/read", mockAuthMiddleware("auth0|notif5", "customer", "token"), MarkNotificationRead)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/notifications/%d/read", notification.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "NOTIFICATION_NOT_FOUND", errorData["code"])
}
