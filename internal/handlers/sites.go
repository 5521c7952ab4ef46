package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cincodev/cinco-billing/internal/models"
)

// SiteHandler handles site management requests
type SiteHandler struct {
	data DataService
}

// NewSiteHandler creates a new site handler
func NewSiteHandler(data DataService) *SiteHandler {
	return &SiteHandler{data: data}
}

// List returns all sites
func (h *SiteHandler) List(w http.ResponseWriter, r *http.Request) {
	sites, err := h.data.Sites(r.Context())
	if err != nil {
		http.Error(w, "Failed to load sites", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sites)
}

// Create adds a new site
func (h *SiteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var site models.Site
	if err := json.NewDecoder(r.Body).Decode(&site); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if site.Name == "" {
		http.Error(w, "Site name is required", http.StatusBadRequest)
		return
	}

	site.ID = models.NewID()
	site.CreatedAt = time.Now()

	sites, err := h.data.Sites(r.Context())
	if err != nil {
		http.Error(w, "Failed to load sites", http.StatusInternalServerError)
		return
	}
	if err := h.data.SaveSites(r.Context(), append(sites, site)); err != nil {
		http.Error(w, "Failed to save site", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, site)
}

// Update replaces the mutable fields of an existing site
func (h *SiteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var update models.Site
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	sites, err := h.data.Sites(r.Context())
	if err != nil {
		http.Error(w, "Failed to load sites", http.StatusInternalServerError)
		return
	}

	found := false
	for i := range sites {
		if sites[i].ID == id {
			sites[i].Name = update.Name
			sites[i].Address = update.Address
			sites[i].TotalUnits = update.TotalUnits
			update = sites[i]
			found = true
			break
		}
	}
	if !found {
		http.Error(w, "Site not found", http.StatusNotFound)
		return
	}

	if err := h.data.SaveSites(r.Context(), sites); err != nil {
		http.Error(w, "Failed to save site", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, update)
}

// Delete removes a site. Sites with dependent tenants are kept unless the
// operator confirms the cascade with ?cascade=true, in which case the
// dependent tenants go with it.
func (h *SiteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cascade := r.URL.Query().Get("cascade") == "true"

	sites, err := h.data.Sites(r.Context())
	if err != nil {
		http.Error(w, "Failed to load sites", http.StatusInternalServerError)
		return
	}
	tenants, err := h.data.Tenants(r.Context())
	if err != nil {
		http.Error(w, "Failed to load tenants", http.StatusInternalServerError)
		return
	}

	remaining := make([]models.Site, 0, len(sites))
	found := false
	for _, site := range sites {
		if site.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, site)
	}
	if !found {
		http.Error(w, "Site not found", http.StatusNotFound)
		return
	}

	dependents := 0
	keptTenants := make([]models.Tenant, 0, len(tenants))
	for _, tenant := range tenants {
		if tenant.SiteID == id {
			dependents++
			continue
		}
		keptTenants = append(keptTenants, tenant)
	}
	if dependents > 0 && !cascade {
		http.Error(w, "Site has tenants; remove them first or pass cascade=true", http.StatusConflict)
		return
	}

	if dependents > 0 {
		if err := h.data.SaveTenants(r.Context(), keptTenants); err != nil {
			http.Error(w, "Failed to remove dependent tenants", http.StatusInternalServerError)
			return
		}
	}
	if err := h.data.SaveSites(r.Context(), remaining); err != nil {
		http.Error(w, "Failed to delete site", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
