package models

import "time"

// SharedSnapshot is the wholesale shape exchanged with the shared-data
// endpoint and cached locally for the offline fallback path.
type SharedSnapshot struct {
	Sites          []Site          `bson:"sites" json:"sites"`
	Tenants        []Tenant        `bson:"tenants" json:"tenants"`
	BillingRecords []BillingRecord `bson:"billing_records" json:"billingRecords"`
	LastUpdated    time.Time       `bson:"last_updated" json:"lastUpdated"`
}
