package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/autolavado-hn/carwash-api/models"
)

func TestComputePrice_BaseAndSurcharge(t *testing.T) {
	service := &models.Service{
		Name:            "Lavado Completo",
		BasePrice:       300,
		HomeSurcharge:   100,
		AvailableAtHome: true,
	}
	vehicle := &models.Vehicle{Make: "Toyota", Model: "Corolla"}

	assert.Equal(t, 300.0, ComputePrice(service, models.LocationCenter, vehicle))
	assert.Equal(t, 400.0, ComputePrice(service, models.LocationHome, vehicle))
}

func TestComputePrice_NoSurchargeWhenNotAvailableAtHome(t *testing.T) {
	service := &models.Service{
		Name:          "Pulido",
		BasePrice:     500,
		HomeSurcharge: 200,
	}
	vehicle := &models.Vehicle{Make: "Kia", Model: "Rio"}

	assert.Equal(t, 500.0, ComputePrice(service, models.LocationHome, vehicle))
}

func TestComputePrice_OilChangeTiers(t *testing.T) {
	oilChange := &models.Service{
		Name:            "Cambio de Aceite",
		BasePrice:       500,
		HomeSurcharge:   150,
		AvailableAtHome: true,
	}

	tests := []struct {
		name     string
		make     string
		model    string
		expected float64
	}{
		{"premium brand", "BMW", "Serie 3", OilChangePricePremium},
		{"premium brand case insensitive", "mercedes", "C200", OilChangePricePremium},
		{"suv", "Honda", "CRV SUV", OilChangePriceSUV},
		{"truck", "Ford", "F-150 Truck", OilChangePriceSUV},
		{"pickup", "Nissan", "Frontier", OilChangePricePickup},
		{"tacoma", "Toyota", "Tacoma", OilChangePricePickup},
		{"sport", "Subaru", "WRX Sport", OilChangePriceSport},
		{"gt", "Ford", "Mustang GT", OilChangePriceSport},
		{"default sedan", "Toyota", "Corolla", OilChangePriceSedan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vehicle := &models.Vehicle{Make: tt.make, Model: tt.model}
			price := ComputePrice(oilChange, models.LocationCenter, vehicle)
			assert.Equal(t, tt.expected, price)
		})
	}
}

func TestComputePrice_OilChangeIgnoresHomeSurcharge(t *testing.T) {
	oilChange := &models.Service{
		Name:            "Cambio de Aceite",
		BasePrice:       500,
		HomeSurcharge:   150,
		AvailableAtHome: true,
	}
	bmw := &models.Vehicle{Make: "BMW", Model: "X5"}

	// Tier price replaces base plus surcharge entirely
	assert.Equal(t, OilChangePricePremium, ComputePrice(oilChange, models.LocationHome, bmw))
}

func TestComputePrice_PremiumBeatsModelTokens(t *testing.T) {
	oilChange := &models.Service{Name: "Oil Change", BasePrice: 500}

	// A premium-brand pickup is still billed at the premium tier
	vehicle := &models.Vehicle{Make: "BMW", Model: "Pickup Concept"}
	assert.Equal(t, OilChangePricePremium, ComputePrice(oilChange, models.LocationCenter, vehicle))
}

func TestIsOilChange(t *testing.T) {
	assert.True(t, isOilChange("Cambio de Aceite"))
	assert.True(t, isOilChange("cambio de aceite sintético"))
	assert.True(t, isOilChange("Premium Oil Change"))
	assert.False(t, isOilChange("Lavado Completo"))
	assert.False(t, isOilChange("Aspirado"))
}
