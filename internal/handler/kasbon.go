package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"warungpos-backend/internal/repository"

	"github.com/go-chi/chi/v5"
)

type KasbonHandler struct {
	Kasbons   repository.KasbonRepository
	Employees repository.EmployeeRepository
}

func (h KasbonHandler) RegisterRoutes(r chi.Router) {
	r.Get("/kasbons", h.list)
	r.Post("/kasbons", h.create)
}

func (h KasbonHandler) list(w http.ResponseWriter, r *http.Request) {
	outletID, err := resolveOutletID(r, h.Employees)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	items, err := h.Kasbons.ListByOutlet(r.Context(), outletID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list kasbons")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h KasbonHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID string  `json:"employeeId"`
		Amount     float64 `json:"amount"`
		Notes      *string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.EmployeeID == "" {
		writeError(w, http.StatusBadRequest, "employeeId is required")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	emp, err := h.Employees.Get(r.Context(), req.EmployeeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "employee not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load employee")
		return
	}

	k, err := h.Kasbons.Create(r.Context(), repository.CreateKasbonParams{
		OutletID:     emp.OutletID,
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		Amount:       req.Amount,
		Notes:        req.Notes,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to record kasbon")
		return
	}
	writeJSON(w, http.StatusCreated, k)
}
