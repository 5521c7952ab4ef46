package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cincodev/cinco-billing/internal/models"
)

// ImportHandler accepts a wholesale data dump (the legacy export shape)
// and merges it into the local collections.
type ImportHandler struct {
	data DataService
}

// NewImportHandler creates a new import handler
func NewImportHandler(data DataService) *ImportHandler {
	return &ImportHandler{data: data}
}

type importResponse struct {
	Sites          int `json:"sites"`
	Tenants        int `json:"tenants"`
	BillingRecords int `json:"billingRecords"`
}

// Import merges the posted snapshot into local data. Existing ids keep
// their local values; only additions come through.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	var snapshot models.SharedSnapshot
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := h.data.ImportSnapshot(r.Context(), snapshot); err != nil {
		http.Error(w, "Failed to import data", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, importResponse{
		Sites:          len(snapshot.Sites),
		Tenants:        len(snapshot.Tenants),
		BillingRecords: len(snapshot.BillingRecords),
	})
}
