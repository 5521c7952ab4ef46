// Package billing contains the pure utility-bill calculations. Every
// function here is a deterministic transformation of numeric inputs to
// currency amounts: no I/O, no state, and no error paths. Invalid input
// is coerced to zero before it reaches this package.
package billing

import (
	"fmt"

	"github.com/cincodev/cinco-billing/internal/models"
)

// Months are the canonical billing month names, in order.
var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// IsValidMonth checks if a month name is one of the 12 canonical names.
func IsValidMonth(month string) bool {
	for _, m := range Months {
		if m == month {
			return true
		}
	}
	return false
}

// ElectricityConsumption returns current minus previous in kWh. The
// result may be negative when the readings were entered in the wrong
// order; no clamping happens here.
func ElectricityConsumption(previous, current float64) float64 {
	return current - previous
}

// ElectricityTotal is consumption times the per-kWh price.
func ElectricityTotal(previous, current, pricePerKwh float64) float64 {
	return ElectricityConsumption(previous, current) * pricePerKwh
}

// WaterConsumption returns current minus previous in m³.
func WaterConsumption(previous, current float64) float64 {
	return current - previous
}

// WaterTotal applies the 4-tier stepped schedule to a consumption value.
// Tier 1 is a flat fee: anything at or below 10 m³, including zero and
// negative consumption, costs exactly rates.First10. The remaining tiers
// are progressive per-m³ bands of 10 m³ each, with Above30 covering
// whatever is left past 30 m³.
func WaterTotal(consumption float64, rates models.WaterRates) float64 {
	remaining := consumption
	if remaining <= 10 {
		return rates.First10
	}

	total := rates.First10
	remaining -= 10

	if remaining <= 10 {
		return total + remaining*rates.Next10
	}
	total += 10 * rates.Next10
	remaining -= 10

	if remaining <= 10 {
		return total + remaining*rates.Next10_2
	}
	total += 10 * rates.Next10_2
	remaining -= 10

	return total + remaining*rates.Above30
}

// Summary holds every derived value for one billing-data draft. Amounts
// are kept unrounded; rounding happens only at presentation boundaries.
type Summary struct {
	ElectricityConsumption float64 `json:"electricityConsumption"`
	ElectricityTotal       float64 `json:"electricityTotal"`
	WaterConsumption       float64 `json:"waterConsumption"`
	WaterTotal             float64 `json:"waterTotal"`
	ParkingTotal           float64 `json:"parkingTotal"`
	GrandTotal             float64 `json:"grandTotal"`
}

// Calculate derives the full summary from a billing-data draft.
func Calculate(data models.BillingData) Summary {
	s := Summary{
		ElectricityConsumption: ElectricityConsumption(data.ElectricityPrevious, data.ElectricityCurrent),
		WaterConsumption:       WaterConsumption(data.WaterPrevious, data.WaterCurrent),
	}
	s.ElectricityTotal = s.ElectricityConsumption * data.ElectricityPricePerKwh
	s.WaterTotal = WaterTotal(s.WaterConsumption, data.WaterRates)
	if data.ParkingEnabled {
		s.ParkingTotal = data.ParkingFee
	}
	s.GrandTotal = data.BaseRent + s.ElectricityTotal + s.WaterTotal + s.ParkingTotal + data.OtherFeeAmount
	return s
}

// ValidateReadings returns advisory warnings for a draft. Warnings are
// surfaced to the operator but never block calculation or saving.
func ValidateReadings(data models.BillingData) []string {
	var warnings []string
	if data.ElectricityCurrent < data.ElectricityPrevious {
		warnings = append(warnings, fmt.Sprintf(
			"electricity current reading (%.2f) is below previous reading (%.2f)",
			data.ElectricityCurrent, data.ElectricityPrevious))
	}
	if data.WaterCurrent < data.WaterPrevious {
		warnings = append(warnings, fmt.Sprintf(
			"water current reading (%.2f) is below previous reading (%.2f)",
			data.WaterCurrent, data.WaterPrevious))
	}
	if data.SiteName == "" {
		warnings = append(warnings, "no site selected")
	}
	if data.TenantName == "" {
		warnings = append(warnings, "no tenant selected")
	}
	if !IsValidMonth(data.BillingMonth) {
		warnings = append(warnings, fmt.Sprintf("unknown billing month %q", data.BillingMonth))
	}
	return warnings
}

// DefaultDraft returns a fresh draft pre-filled with the house defaults:
// 12.5 ₱/kWh, the 150/25/30/35 water schedule and a disabled 500 ₱
// parking fee.
func DefaultDraft(month, year string) models.BillingData {
	return models.BillingData{
		BillingMonth:           month,
		BillingYear:            year,
		ElectricityPricePerKwh: 12.5,
		WaterRates: models.WaterRates{
			First10:  150,
			Next10:   25,
			Next10_2: 30,
			Above30:  35,
		},
		ParkingFee:     500,
		ParkingEnabled: false,
	}
}
