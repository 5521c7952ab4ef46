// Package export renders saved billing records to spreadsheet workbooks.
// This is a consumer of the calculator's outputs: amounts are rounded to
// two decimals here, at the presentation boundary, and nowhere earlier.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/cincodev/cinco-billing/internal/billing"
	"github.com/cincodev/cinco-billing/internal/models"
)

const sheet = "Sheet1"

// FileName templates the export filename from the receipt's identity
// fields, matching the bill naming used on paper copies.
func FileName(siteName, unit, month, year, ext string) string {
	return fmt.Sprintf("cinco-apartments-bill-%s-%s-%s-%s.%s", siteName, unit, month, year, ext)
}

func peso(amount float64) string {
	return fmt.Sprintf("₱%.2f", amount)
}

// ReceiptWorkbook renders one saved record as a receipt worksheet. The
// record must carry its billing-data snapshot; receipts are never
// reconstructed with guessed rates.
func ReceiptWorkbook(record models.BillingRecord) (*excelize.File, error) {
	receipt, err := billing.BuildReceipt(record)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Cinco Apartments", ""},
		{"Billing Receipt", ""},
		{"", ""},
		{"Site", orNA(receipt.SiteName)},
		{"Unit", orNA(receipt.Unit)},
		{"Tenant", orNA(receipt.TenantName)},
		{"Period", fmt.Sprintf("%s %s", receipt.Month, receipt.Year)},
		{"", ""},
		{"Base Rent", peso(receipt.Data.BaseRent)},
		{fmt.Sprintf("Electricity (%.2f → %.2f kWh)", receipt.Data.ElectricityPrevious, receipt.Data.ElectricityCurrent), peso(receipt.Summary.ElectricityTotal)},
		{fmt.Sprintf("Water (%.2f → %.2f m³)", receipt.Data.WaterPrevious, receipt.Data.WaterCurrent), peso(receipt.Summary.WaterTotal)},
	}
	if receipt.Data.ParkingEnabled {
		rows = append(rows, []interface{}{"Parking", peso(receipt.Summary.ParkingTotal)})
	}
	if receipt.Data.OtherFeeAmount != 0 {
		label := receipt.Data.OtherFeeDescription
		if label == "" {
			label = "Other Fee"
		}
		rows = append(rows, []interface{}{label, peso(receipt.Data.OtherFeeAmount)})
	}
	if receipt.Data.DamageDescription != "" {
		rows = append(rows, []interface{}{"Damages", receipt.Data.DamageDescription})
	}
	rows = append(rows,
		[]interface{}{"", ""},
		[]interface{}{"TOTAL", peso(record.TotalAmount)},
	)

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// HistoryWorkbook renders the transaction history, newest first as given.
func HistoryWorkbook(records []models.BillingRecord) (*excelize.File, error) {
	f := excelize.NewFile()

	header := []interface{}{"Date", "Site", "Unit", "Tenant", "Period", "Electricity (kWh)", "Water (m³)", "Total"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, record := range records {
		siteName, unit, tenantName := "N/A", "N/A", "N/A"
		if record.BillingData != nil {
			siteName = orNA(record.BillingData.SiteName)
			unit = orNA(record.BillingData.Unit)
			tenantName = orNA(record.BillingData.TenantName)
		}
		row := []interface{}{
			record.Date.Format("2006-01-02"),
			siteName,
			unit,
			tenantName,
			fmt.Sprintf("%s %s", record.Month, record.Year),
			fmt.Sprintf("%.2f", record.ElectricityConsumption),
			fmt.Sprintf("%.2f", record.WaterConsumption),
			peso(record.TotalAmount),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
