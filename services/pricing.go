package services

import (
	"strings"

	"github.com/autolavado-hn/carwash-api/models"
)

// Oil change prices by vehicle tier, in lempiras
const (
	OilChangePricePremium float64 = 2000
	OilChangePriceSport   float64 = 1800
	OilChangePricePickup  float64 = 1500
	OilChangePriceSUV     float64 = 1200
	OilChangePriceSedan   float64 = 800
)

// premiumMakes are brands billed at the premium oil change tier
var premiumMakes = []string{"bmw", "mercedes", "audi", "lexus", "infiniti", "acura"}

// pickupModels are model-name tokens billed at the pickup tier
var pickupModels = []string{"pickup", "tacoma", "frontier"}

// ComputePrice calculates the quoted price for a service on a vehicle.
// The base price plus the home surcharge applies in the general case.
// Oil changes are priced by vehicle class instead: the tier price
// replaces the base price and the home surcharge entirely.
func ComputePrice(service *models.Service, locationType string, vehicle *models.Vehicle) float64 {
	price := service.BasePrice

	if locationType == models.LocationHome && service.AvailableAtHome {
		price += service.HomeSurcharge
	}

	if isOilChange(service.Name) && vehicle != nil {
		price = oilChangePrice(vehicle)
	}

	return price
}

// oilChangePrice classifies a vehicle into a pricing tier. Checks run
// top to bottom; the first match wins.
func oilChangePrice(vehicle *models.Vehicle) float64 {
	brand := strings.ToLower(vehicle.Make)
	model := strings.ToLower(vehicle.Model)

	for _, premium := range premiumMakes {
		if brand == premium {
			return OilChangePricePremium
		}
	}

	if strings.Contains(model, "suv") || strings.Contains(model, "truck") {
		return OilChangePriceSUV
	}

	for _, token := range pickupModels {
		if strings.Contains(model, token) {
			return OilChangePricePickup
		}
	}

	if strings.Contains(model, "sport") || strings.Contains(model, "gt") {
		return OilChangePriceSport
	}

	return OilChangePriceSedan
}

// isOilChange reports whether a service name identifies an oil change,
// in either Spanish or English
func isOilChange(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "cambio de aceite") || strings.Contains(n, "oil change")
}
