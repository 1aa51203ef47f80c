package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"warungpos-backend/internal/repository"
	"warungpos-backend/internal/service"

	"github.com/go-chi/chi/v5"
)

type ShiftHandler struct {
	Service   *service.ShiftService
	Shifts    repository.ShiftRepository
	Employees repository.EmployeeRepository
}

func (h ShiftHandler) RegisterRoutes(r chi.Router) {
	r.Get("/shifts", h.list)
	r.Get("/shifts/current", h.current)
	r.Post("/shifts/open", h.open)
	r.Post("/shifts/{id}/close", h.close)
}

func (h ShiftHandler) list(w http.ResponseWriter, r *http.Request) {
	emp, err := resolveEmployee(r.Context(), h.Employees)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	items, err := h.Shifts.ListByOutlet(r.Context(), emp.OutletID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list shifts")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// current returns the caller's open shift for today, or 404 when none exists.
func (h ShiftHandler) current(w http.ResponseWriter, r *http.Request) {
	emp, err := resolveEmployee(r.Context(), h.Employees)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	shift, err := h.Shifts.FindOpen(r.Context(), emp.ID, time.Now())
	if err != nil {
		writeError(w, http.StatusNotFound, "no open shift")
		return
	}
	writeJSON(w, http.StatusOK, shift)
}

func (h ShiftHandler) open(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OpeningCash float64 `json:"openingCash"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	emp, err := resolveEmployee(r.Context(), h.Employees)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	shift, err := h.Service.Open(r.Context(), service.OpenShiftInput{
		OutletID:    emp.OutletID,
		EmployeeID:  emp.ID,
		OpeningCash: req.OpeningCash,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, shift)
}

func (h ShiftHandler) close(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CountedCash float64 `json:"countedCash"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	res, err := h.Service.Close(r.Context(), service.CloseShiftInput{
		ShiftID:     chi.URLParam(r, "id"),
		CountedCash: req.CountedCash,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"shift":        res.Shift,
		"openingCash":  res.OpeningCash,
		"cashSales":    res.CashSales,
		"cashOut":      res.CashOut,
		"expectedCash": res.ExpectedCash,
		"countedCash":  res.CountedCash,
		"discrepancy":  res.Discrepancy,
	})
}
