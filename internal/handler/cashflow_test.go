package handler

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"warungpos-backend/internal/domain"
)

func sampleCashFlows() []domain.CashFlow {
	shiftID := "shift-1"
	desc := "Penjualan TRX-000042"
	refType := "transaction"
	refID := "tx-1"
	return []domain.CashFlow{
		{
			ID:            "cf-1",
			OutletID:      "outlet-1",
			ShiftID:       &shiftID,
			Type:          domain.CashIn,
			Category:      domain.CashCategorySale,
			Amount:        22000,
			Description:   &desc,
			ReferenceType: &refType,
			ReferenceID:   &refID,
			CreatedAt:     time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC),
		},
		{
			ID:        "cf-2",
			OutletID:  "outlet-1",
			Type:      domain.CashIn,
			Category:  domain.CashCategoryOpeningFloat,
			Amount:    150000,
			CreatedAt: time.Date(2026, 8, 28, 8, 0, 0, 0, time.UTC),
		},
	}
}

func TestExportCashFlowsCSV(t *testing.T) {
	data, err := exportCashFlowsCSV(sampleCashFlows())
	if err != nil {
		t.Fatalf("export csv: %v", err)
	}

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "id" || rows[0][3] != "category" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][3] != "penjualan" || rows[1][4] != "22000.00" {
		t.Errorf("sale row = %v", rows[1])
	}
	// Nil pointers export as empty cells, not "nil".
	if rows[2][1] != "" || rows[2][5] != "" {
		t.Errorf("opening float row should have empty shift and description: %v", rows[2])
	}
}

func TestExportCashFlowsXLSX(t *testing.T) {
	data, err := exportCashFlowsXLSX(sampleCashFlows())
	if err != nil {
		t.Fatalf("export xlsx: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty workbook")
	}
	// XLSX is a zip container.
	if !strings.HasPrefix(string(data[:2]), "PK") {
		t.Errorf("unexpected magic bytes: %q", data[:2])
	}
}
