package handler

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"warungpos-backend/internal/domain"
	"warungpos-backend/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"
)

type CashFlowHandler struct {
	CashFlows repository.CashFlowRepository
	Employees repository.EmployeeRepository
}

func (h CashFlowHandler) RegisterRoutes(r chi.Router) {
	r.Get("/cash-flows", h.list)
	r.Get("/cash-flows/export", h.export)
	r.Post("/cash-flows", h.create)
}

// parseCashFlowRange reads from/to query params, defaulting to the last
// month; to is exclusive end-of-day.
func parseCashFlowRange(r *http.Request) (time.Time, time.Time) {
	now := time.Now()
	from := now.AddDate(0, -1, 0)
	to := now
	if v := r.URL.Query().Get("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			from = t
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			to = t.AddDate(0, 0, 1)
		}
	}
	return from, to
}

func (h CashFlowHandler) list(w http.ResponseWriter, r *http.Request) {
	outletID, err := resolveOutletID(r, h.Employees)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	from, to := parseCashFlowRange(r)
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	items, err := h.CashFlows.ListByOutlet(r.Context(), outletID, from, to, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list cash flows")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h CashFlowHandler) export(w http.ResponseWriter, r *http.Request) {
	outletID, err := resolveOutletID(r, h.Employees)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	from, to := parseCashFlowRange(r)
	items, err := h.CashFlows.ListByOutlet(r.Context(), outletID, from, to, 5000)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list cash flows")
		return
	}

	filenameSuffix := fmt.Sprintf("%s_%s", from.Format("20060102"), to.Format("20060102"))

	switch format {
	case "csv":
		data, err := exportCashFlowsCSV(items)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"cash_flows_%s.csv\"", filenameSuffix))
		_, _ = w.Write(data)
	case "xlsx", "excel":
		data, err := exportCashFlowsXLSX(items)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"cash_flows_%s.xlsx\"", filenameSuffix))
		_, _ = w.Write(data)
	default:
		writeError(w, http.StatusBadRequest, "invalid format (use csv or xlsx)")
	}
}

func exportCashFlowsCSV(items []domain.CashFlow) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"id", "shift_id", "type", "category", "amount", "description", "reference_type", "reference_id", "created_at"})
	for _, cf := range items {
		_ = w.Write([]string{
			cf.ID,
			derefString(cf.ShiftID),
			string(cf.Type),
			string(cf.Category),
			strconv.FormatFloat(cf.Amount, 'f', 2, 64),
			derefString(cf.Description),
			derefString(cf.ReferenceType),
			derefString(cf.ReferenceID),
			cf.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func exportCashFlowsXLSX(items []domain.CashFlow) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "CashFlows"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	header := []string{"ID", "Shift", "Type", "Category", "Amount", "Description", "Reference Type", "Reference ID", "Created At"}
	for c, v := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r, cf := range items {
		row := r + 2
		values := []any{
			cf.ID,
			derefString(cf.ShiftID),
			string(cf.Type),
			string(cf.Category),
			cf.Amount,
			derefString(cf.Description),
			derefString(cf.ReferenceType),
			derefString(cf.ReferenceID),
			cf.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "B", 38)
	_ = f.SetColWidth(sheet, "C", "D", 16)
	_ = f.SetColWidth(sheet, "E", "E", 14)
	_ = f.SetColWidth(sheet, "F", "F", 32)
	_ = f.SetColWidth(sheet, "G", "H", 38)
	_ = f.SetColWidth(sheet, "I", "I", 20)

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	_ = f.SetCellStyle(sheet, "A1", "I1", style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// create records a manual drawer entry. Sale and kasbon entries are posted
// by their own flows, so only generic in/out categories are accepted here.
func (h CashFlowHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OutletID    string  `json:"outletId"`
		ShiftID     *string `json:"shiftId"`
		Type        string  `json:"type"`
		Category    string  `json:"category"`
		Amount      float64 `json:"amount"`
		Description string  `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	flowType := domain.CashFlowType(req.Type)
	if flowType != domain.CashIn && flowType != domain.CashOut {
		writeError(w, http.StatusBadRequest, "type must be in or out")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	if req.OutletID == "" {
		writeError(w, http.StatusBadRequest, "outletId is required")
		return
	}

	id, err := h.CashFlows.Insert(r.Context(), repository.CreateCashFlowParams{
		OutletID:    req.OutletID,
		ShiftID:     req.ShiftID,
		Type:        flowType,
		Category:    domain.CashFlowCategory(req.Category),
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to record cash flow")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}
