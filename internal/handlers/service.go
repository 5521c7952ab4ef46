package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cincodev/cinco-billing/internal/models"
)

// DataService is the surface the handlers need from the merge engine.
// Reads return the current local collections; saves overwrite wholesale
// and trigger a synchronization attempt.
type DataService interface {
	Sites(ctx context.Context) ([]models.Site, error)
	Tenants(ctx context.Context) ([]models.Tenant, error)
	BillingRecords(ctx context.Context) ([]models.BillingRecord, error)
	SaveSites(ctx context.Context, sites []models.Site) error
	SaveTenants(ctx context.Context, tenants []models.Tenant) error
	SaveBillingRecords(ctx context.Context, records []models.BillingRecord) error
	AddBillingRecord(ctx context.Context, record models.BillingRecord) error
	ImportSnapshot(ctx context.Context, snapshot models.SharedSnapshot) error
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
