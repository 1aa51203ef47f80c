package handler

import (
	"net/http"
	"strconv"

	"warungpos-backend/internal/repository"

	"github.com/go-chi/chi/v5"
)

type DashboardHandler struct {
	Transactions repository.TransactionRepository
	Employees    repository.EmployeeRepository
}

func (h DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard/today", h.today)
	r.Get("/dashboard/transactions", h.transactions)
}

func (h DashboardHandler) today(w http.ResponseWriter, r *http.Request) {
	outletID, err := resolveOutletID(r, h.Employees)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s, err := h.Transactions.TodaySummary(r.Context(), outletID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load summary")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"totalCash":     s.TotalCash,
		"totalTransfer": s.TotalTransfer,
		"totalQris":     s.TotalQRIS,
		"totalSales":    s.TotalCash + s.TotalTransfer + s.TotalQRIS,
		"count":         s.Count,
	})
}

func (h DashboardHandler) transactions(w http.ResponseWriter, r *http.Request) {
	outletID, err := resolveOutletID(r, h.Employees)
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
	items, err := h.Transactions.ListByOutlet(r.Context(), outletID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	writeJSON(w, http.StatusOK, items)
}
