package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cincodev/cinco-billing/internal/billing"
	"github.com/cincodev/cinco-billing/internal/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves spreadsheet renderings of the ledger
type ExportHandler struct {
	data DataService
}

// NewExportHandler creates a new export handler
func NewExportHandler(data DataService) *ExportHandler {
	return &ExportHandler{data: data}
}

// Record exports one receipt as a spreadsheet attachment
func (h *ExportHandler) Record(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	records, err := h.data.BillingRecords(r.Context())
	if err != nil {
		http.Error(w, "Failed to load billing records", http.StatusInternalServerError)
		return
	}

	for _, record := range records {
		if record.ID != id {
			continue
		}
		f, err := export.ReceiptWorkbook(record)
		if errors.Is(err, billing.ErrNoSnapshot) {
			http.Error(w, "Record has no billing data snapshot", http.StatusUnprocessableEntity)
			return
		}
		if err != nil {
			http.Error(w, "Failed to render receipt", http.StatusInternalServerError)
			return
		}
		defer f.Close()

		name := export.FileName(record.BillingData.SiteName, record.BillingData.Unit, record.Month, record.Year, "xlsx")
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		// Headers are already written; a failed write leaves the
		// client with a truncated download.
		_ = f.Write(w)
		return
	}
	http.Error(w, "Billing record not found", http.StatusNotFound)
}

// History exports the full transaction history as a spreadsheet
func (h *ExportHandler) History(w http.ResponseWriter, r *http.Request) {
	records, err := h.data.BillingRecords(r.Context())
	if err != nil {
		http.Error(w, "Failed to load billing records", http.StatusInternalServerError)
		return
	}

	f, err := export.HistoryWorkbook(records)
	if err != nil {
		http.Error(w, "Failed to render history", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	name := fmt.Sprintf("cinco-apartments-history-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_ = f.Write(w)
}
