package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cincodev/cinco-billing/internal/models"
)

// TenantHandler handles tenant management requests
type TenantHandler struct {
	data DataService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(data DataService) *TenantHandler {
	return &TenantHandler{data: data}
}

// List returns tenants, optionally filtered by site.
func (h *TenantHandler) List(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.data.Tenants(r.Context())
	if err != nil {
		http.Error(w, "Failed to load tenants", http.StatusInternalServerError)
		return
	}

	if siteID := r.URL.Query().Get("site_id"); siteID != "" {
		filtered := make([]models.Tenant, 0, len(tenants))
		for _, t := range tenants {
			if t.SiteID == siteID {
				filtered = append(filtered, t)
			}
		}
		tenants = filtered
	}
	writeJSON(w, http.StatusOK, tenants)
}

// Create adds a new tenant. The site reference is not required to
// resolve; a dangling reference renders as "N/A" downstream.
func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var tenant models.Tenant
	if err := json.NewDecoder(r.Body).Decode(&tenant); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if tenant.Name == "" {
		http.Error(w, "Tenant name is required", http.StatusBadRequest)
		return
	}
	if tenant.BaseRent < 0 {
		http.Error(w, "Base rent must be non-negative", http.StatusBadRequest)
		return
	}
	if tenant.Status == "" {
		tenant.Status = models.TenantActive
	}
	if !models.IsValidTenantStatus(tenant.Status) {
		http.Error(w, "Invalid tenant status", http.StatusBadRequest)
		return
	}

	tenant.ID = models.NewID()
	tenant.CreatedAt = time.Now()

	tenants, err := h.data.Tenants(r.Context())
	if err != nil {
		http.Error(w, "Failed to load tenants", http.StatusInternalServerError)
		return
	}
	if err := h.data.SaveTenants(r.Context(), append(tenants, tenant)); err != nil {
		http.Error(w, "Failed to save tenant", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, tenant)
}

// Update replaces the mutable fields of an existing tenant. Status is
// toggled here as well; deactivation is independent of deletion.
func (h *TenantHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var update models.Tenant
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if update.BaseRent < 0 {
		http.Error(w, "Base rent must be non-negative", http.StatusBadRequest)
		return
	}
	if update.Status != "" && !models.IsValidTenantStatus(update.Status) {
		http.Error(w, "Invalid tenant status", http.StatusBadRequest)
		return
	}

	tenants, err := h.data.Tenants(r.Context())
	if err != nil {
		http.Error(w, "Failed to load tenants", http.StatusInternalServerError)
		return
	}

	found := false
	for i := range tenants {
		if tenants[i].ID == id {
			tenants[i].Name = update.Name
			tenants[i].SiteID = update.SiteID
			tenants[i].DoorNumber = update.DoorNumber
			tenants[i].Phone = update.Phone
			tenants[i].Email = update.Email
			tenants[i].BaseRent = update.BaseRent
			if update.Status != "" {
				tenants[i].Status = update.Status
			}
			update = tenants[i]
			found = true
			break
		}
	}
	if !found {
		http.Error(w, "Tenant not found", http.StatusNotFound)
		return
	}

	if err := h.data.SaveTenants(r.Context(), tenants); err != nil {
		http.Error(w, "Failed to save tenant", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, update)
}

// Delete removes a tenant
func (h *TenantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	tenants, err := h.data.Tenants(r.Context())
	if err != nil {
		http.Error(w, "Failed to load tenants", http.StatusInternalServerError)
		return
	}

	remaining := make([]models.Tenant, 0, len(tenants))
	found := false
	for _, tenant := range tenants {
		if tenant.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, tenant)
	}
	if !found {
		http.Error(w, "Tenant not found", http.StatusNotFound)
		return
	}

	if err := h.data.SaveTenants(r.Context(), remaining); err != nil {
		http.Error(w, "Failed to delete tenant", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
