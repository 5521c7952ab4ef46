package models

import "time"

// TenantStatus represents the lifecycle state of a tenant.
type TenantStatus string

const (
	TenantActive   TenantStatus = "active"
	TenantInactive TenantStatus = "inactive"
)

// IsValidTenantStatus checks if a status value is one of the known states.
func IsValidTenantStatus(status TenantStatus) bool {
	return status == TenantActive || status == TenantInactive
}

// Tenant represents a tenant occupying a unit at a site. SiteID is a
// foreign reference to a Site; a dangling reference is tolerated and
// rendered as "N/A" rather than rejected.
type Tenant struct {
	ID         string       `bson:"_id" json:"id"`
	Name       string       `bson:"name" json:"name"`
	SiteID     string       `bson:"site_id" json:"siteId"`
	DoorNumber string       `bson:"door_number" json:"doorNumber"`
	Phone      string       `bson:"phone" json:"phone"`
	Email      string       `bson:"email" json:"email"`
	BaseRent   float64      `bson:"base_rent" json:"baseRent"`
	Status     TenantStatus `bson:"status" json:"status"`
	CreatedAt  time.Time    `bson:"created_at" json:"created_at"`
}
