package billing

import (
	"errors"

	"github.com/cincodev/cinco-billing/internal/models"
)

// ErrNoSnapshot is returned when a ledger entry carries no billing-data
// snapshot, typically a record merged in from a peer running an older
// revision. Receipts are never reconstructed with guessed rates.
var ErrNoSnapshot = errors.New("billing record has no billing data snapshot")

// Receipt is the renderable form of a saved record, reproduced entirely
// from the snapshot the record was computed from.
type Receipt struct {
	SiteName   string             `json:"siteName"`
	Unit       string             `json:"unit"`
	TenantName string             `json:"tenantName"`
	Month      string             `json:"month"`
	Year       string             `json:"year"`
	Summary    Summary            `json:"summary"`
	Data       models.BillingData `json:"data"`
}

// BuildReceipt reproduces the receipt for a saved billing record from its
// snapshot. The saved TotalAmount is authoritative for the grand total;
// the snapshot exists so the per-line amounts can be recomputed with the
// rates in effect at save time.
func BuildReceipt(record models.BillingRecord) (*Receipt, error) {
	if record.BillingData == nil {
		return nil, ErrNoSnapshot
	}
	data := *record.BillingData
	return &Receipt{
		SiteName:   data.SiteName,
		Unit:       data.Unit,
		TenantName: data.TenantName,
		Month:      record.Month,
		Year:       record.Year,
		Summary:    Calculate(data),
		Data:       data,
	}, nil
}

// NewRecord finalizes a draft into a ledger entry. The totals are
// recomputed from the live draft here and nowhere else; the full draft is
// snapshotted into the record so it can be reproduced later.
func NewRecord(id, tenantID, siteID string, data models.BillingData) models.BillingRecord {
	summary := Calculate(data)
	snapshot := data
	return models.BillingRecord{
		ID:                     id,
		TenantID:               tenantID,
		SiteID:                 siteID,
		Month:                  data.BillingMonth,
		Year:                   data.BillingYear,
		ElectricityConsumption: summary.ElectricityConsumption,
		WaterConsumption:       summary.WaterConsumption,
		TotalAmount:            summary.GrandTotal,
		BillingData:            &snapshot,
	}
}
