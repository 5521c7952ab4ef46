package models

import "time"

// WaterRates is the 4-tier stepped water schedule. First10 is a flat fee
// covering the entire first 10 m³; the remaining tiers are per-m³ rates
// applied to the portion of consumption falling in each band.
type WaterRates struct {
	First10  float64 `bson:"first10" json:"first10"`
	Next10   float64 `bson:"next10" json:"next10"`
	Next10_2 float64 `bson:"next10_2" json:"next10_2"`
	Above30  float64 `bson:"above30" json:"above30"`
}

// BillingData is the working draft a receipt is computed from. It is not
// an entity of its own; a copy is snapshotted into every saved
// BillingRecord so the receipt can be reproduced later with the rates
// that were actually in effect.
type BillingData struct {
	SiteName     string `bson:"site_name" json:"siteName"`
	Unit         string `bson:"unit" json:"unit"`
	TenantName   string `bson:"tenant_name" json:"tenantName"`
	BillingMonth string `bson:"billing_month" json:"billingMonth"`
	BillingYear  string `bson:"billing_year" json:"billingYear"`

	ElectricityPrevious    float64 `bson:"electricity_previous" json:"electricityPrevious"`
	ElectricityCurrent     float64 `bson:"electricity_current" json:"electricityCurrent"`
	ElectricityPricePerKwh float64 `bson:"electricity_price_per_kwh" json:"electricityPricePerKwh"`
	ElectricityPhoto       string  `bson:"electricity_photo,omitempty" json:"electricityPhoto,omitempty"`

	WaterPrevious float64    `bson:"water_previous" json:"waterPrevious"`
	WaterCurrent  float64    `bson:"water_current" json:"waterCurrent"`
	WaterRates    WaterRates `bson:"water_rates" json:"waterRates"`
	WaterPhoto    string     `bson:"water_photo,omitempty" json:"waterPhoto,omitempty"`

	BaseRent            float64 `bson:"base_rent" json:"baseRent"`
	ParkingFee          float64 `bson:"parking_fee" json:"parkingFee"`
	ParkingEnabled      bool    `bson:"parking_enabled" json:"parkingEnabled"`
	DamageDescription   string  `bson:"damage_description" json:"damageDescription"`
	OtherFeeDescription string  `bson:"other_fee_description" json:"otherFeeDescription"`
	OtherFeeAmount      float64 `bson:"other_fee_amount" json:"otherFeeAmount"`
}

// BillingRecord is an append-only ledger entry. Once saved it is never
// updated or deleted. TotalAmount is computed from the live BillingData
// at save time and never mutated afterwards.
type BillingRecord struct {
	ID                     string       `bson:"_id" json:"id"`
	TenantID               string       `bson:"tenant_id" json:"tenantId"`
	SiteID                 string       `bson:"site_id" json:"siteId"`
	Month                  string       `bson:"month" json:"month"`
	Year                   string       `bson:"year" json:"year"`
	ElectricityConsumption float64      `bson:"electricity_consumption" json:"electricityConsumption"`
	WaterConsumption       float64      `bson:"water_consumption" json:"waterConsumption"`
	TotalAmount            float64      `bson:"total_amount" json:"totalAmount"`
	Date                   time.Time    `bson:"date" json:"date"`
	BillingData            *BillingData `bson:"billing_data,omitempty" json:"billingData,omitempty"`
}
