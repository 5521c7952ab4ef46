package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cincodev/cinco-billing/internal/billing"
	"github.com/cincodev/cinco-billing/internal/db"
	"github.com/cincodev/cinco-billing/internal/models"
)

// flexFloat decodes JSON numbers leniently: quoted numerics parse, and
// anything non-numeric coerces to 0 instead of failing the request. This
// is the boundary where input coercion happens; the calculator itself
// never sees invalid input.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	var v float64
	if err := json.Unmarshal(b, &v); err == nil {
		*f = flexFloat(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if parsed, err := strconv.ParseFloat(s, 64); err == nil {
			*f = flexFloat(parsed)
			return nil
		}
	}
	*f = 0
	return nil
}

type waterRatesRequest struct {
	First10  flexFloat `json:"first10"`
	Next10   flexFloat `json:"next10"`
	Next10_2 flexFloat `json:"next10_2"`
	Above30  flexFloat `json:"above30"`
}

type billingDataRequest struct {
	SiteName     string `json:"siteName"`
	Unit         string `json:"unit"`
	TenantName   string `json:"tenantName"`
	BillingMonth string `json:"billingMonth"`
	BillingYear  string `json:"billingYear"`

	ElectricityPrevious    flexFloat `json:"electricityPrevious"`
	ElectricityCurrent     flexFloat `json:"electricityCurrent"`
	ElectricityPricePerKwh flexFloat `json:"electricityPricePerKwh"`
	ElectricityPhoto       string    `json:"electricityPhoto"`

	WaterPrevious flexFloat         `json:"waterPrevious"`
	WaterCurrent  flexFloat         `json:"waterCurrent"`
	WaterRates    waterRatesRequest `json:"waterRates"`
	WaterPhoto    string            `json:"waterPhoto"`

	BaseRent            flexFloat `json:"baseRent"`
	ParkingFee          flexFloat `json:"parkingFee"`
	ParkingEnabled      bool      `json:"parkingEnabled"`
	DamageDescription   string    `json:"damageDescription"`
	OtherFeeDescription string    `json:"otherFeeDescription"`
	OtherFeeAmount      flexFloat `json:"otherFeeAmount"`
}

func (req billingDataRequest) toModel() models.BillingData {
	return models.BillingData{
		SiteName:     req.SiteName,
		Unit:         req.Unit,
		TenantName:   req.TenantName,
		BillingMonth: req.BillingMonth,
		BillingYear:  req.BillingYear,

		ElectricityPrevious:    float64(req.ElectricityPrevious),
		ElectricityCurrent:     float64(req.ElectricityCurrent),
		ElectricityPricePerKwh: float64(req.ElectricityPricePerKwh),
		ElectricityPhoto:       req.ElectricityPhoto,

		WaterPrevious: float64(req.WaterPrevious),
		WaterCurrent:  float64(req.WaterCurrent),
		WaterRates: models.WaterRates{
			First10:  float64(req.WaterRates.First10),
			Next10:   float64(req.WaterRates.Next10),
			Next10_2: float64(req.WaterRates.Next10_2),
			Above30:  float64(req.WaterRates.Above30),
		},
		WaterPhoto: req.WaterPhoto,

		BaseRent:            float64(req.BaseRent),
		ParkingFee:          float64(req.ParkingFee),
		ParkingEnabled:      req.ParkingEnabled,
		DamageDescription:   req.DamageDescription,
		OtherFeeDescription: req.OtherFeeDescription,
		OtherFeeAmount:      float64(req.OtherFeeAmount),
	}
}

type createRecordRequest struct {
	TenantID    string             `json:"tenantId"`
	SiteID      string             `json:"siteId"`
	BillingData billingDataRequest `json:"billingData"`
}

type previewResponse struct {
	Summary  billing.Summary `json:"summary"`
	Warnings []string        `json:"warnings"`
}

// BillingHandler handles billing computation and the ledger
type BillingHandler struct {
	data   DataService
	drafts db.DraftCollection
	now    func() time.Time
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(data DataService, drafts db.DraftCollection) *BillingHandler {
	return &BillingHandler{data: data, drafts: drafts, now: time.Now}
}

// Preview computes the bill summary for a draft without saving anything.
// Validation issues come back as advisory warnings alongside the summary;
// they never block the calculation.
func (h *BillingHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req billingDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	data := req.toModel()
	writeJSON(w, http.StatusOK, previewResponse{
		Summary:  billing.Calculate(data),
		Warnings: billing.ValidateReadings(data),
	})
}

// ListRecords returns the ledger, optionally filtered by site or tenant.
func (h *BillingHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.data.BillingRecords(r.Context())
	if err != nil {
		http.Error(w, "Failed to load billing records", http.StatusInternalServerError)
		return
	}

	siteID := r.URL.Query().Get("site_id")
	tenantID := r.URL.Query().Get("tenant_id")
	if siteID != "" || tenantID != "" {
		filtered := make([]models.BillingRecord, 0, len(records))
		for _, rec := range records {
			if siteID != "" && rec.SiteID != siteID {
				continue
			}
			if tenantID != "" && rec.TenantID != tenantID {
				continue
			}
			filtered = append(filtered, rec)
		}
		records = filtered
	}
	writeJSON(w, http.StatusOK, records)
}

// GetRecord returns a single ledger entry
func (h *BillingHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	record, ok := h.findRecord(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// CreateRecord finalizes a draft into a ledger entry. The totals are
// recomputed from the submitted draft here; the record is immutable
// afterwards, so the full draft is snapshotted into it.
func (h *BillingHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	data := req.BillingData.toModel()
	record := billing.NewRecord(models.NewID(), req.TenantID, req.SiteID, data)
	record.Date = h.now()

	if err := h.data.AddBillingRecord(r.Context(), record); err != nil {
		http.Error(w, "Failed to save billing record", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

// GetReceipt reproduces the receipt for a saved record from its snapshot
func (h *BillingHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	record, ok := h.findRecord(w, r)
	if !ok {
		return
	}
	receipt, err := billing.BuildReceipt(record)
	if errors.Is(err, billing.ErrNoSnapshot) {
		http.Error(w, "Record has no billing data snapshot", http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		http.Error(w, "Failed to build receipt", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

// GetDraft returns the working draft, creating a default one on first use
func (h *BillingHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.drafts.Draft(r.Context())
	if err != nil {
		http.Error(w, "Failed to load draft", http.StatusInternalServerError)
		return
	}
	if draft == nil {
		now := h.now()
		fresh := billing.DefaultDraft(billing.Months[now.Month()-1], strconv.Itoa(now.Year()))
		draft = &fresh
	}
	writeJSON(w, http.StatusOK, draft)
}

// PutDraft overwrites the working draft
func (h *BillingHandler) PutDraft(w http.ResponseWriter, r *http.Request) {
	var req billingDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	data := req.toModel()
	if err := h.drafts.SaveDraft(r.Context(), data); err != nil {
		http.Error(w, "Failed to save draft", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *BillingHandler) findRecord(w http.ResponseWriter, r *http.Request) (models.BillingRecord, bool) {
	id := chi.URLParam(r, "id")
	records, err := h.data.BillingRecords(r.Context())
	if err != nil {
		http.Error(w, "Failed to load billing records", http.StatusInternalServerError)
		return models.BillingRecord{}, false
	}
	for _, rec := range records {
		if rec.ID == id {
			return rec, true
		}
	}
	http.Error(w, "Billing record not found", http.StatusNotFound)
	return models.BillingRecord{}, false
}
