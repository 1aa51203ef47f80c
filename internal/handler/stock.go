package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"warungpos-backend/internal/cache"
	"warungpos-backend/internal/repository"
	"warungpos-backend/internal/server/authctx"

	"github.com/go-chi/chi/v5"
)

type StockHandler struct {
	Stocks    repository.StockRepository
	Employees repository.EmployeeRepository
	Cache     *cache.ProductCache
}

func (h StockHandler) RegisterRoutes(r chi.Router) {
	r.Get("/stocks/movements", h.movements)
	r.Post("/stocks/in", h.stockIn)
}

func (h StockHandler) movements(w http.ResponseWriter, r *http.Request) {
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
	items, err := h.Stocks.ListMovements(r.Context(), outletID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list stock movements")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h StockHandler) stockIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OutletID  string   `json:"outletId"`
		ProductID string   `json:"productId"`
		Quantity  int      `json:"quantity"`
		UnitCost  *float64 `json:"unitCost"`
		Notes     string   `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.ProductID == "" || req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "productId and a positive quantity are required")
		return
	}
	if req.UnitCost != nil && *req.UnitCost < 0 {
		writeError(w, http.StatusBadRequest, "unitCost must be non-negative")
		return
	}

	var createdBy *string
	if user := authctx.FromContext(r.Context()); user != nil {
		createdBy = &user.ID
	}
	p, err := h.Stocks.RecordStockIn(r.Context(), repository.StockInParams{
		OutletID:  req.OutletID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		UnitCost:  req.UnitCost,
		Notes:     req.Notes,
		CreatedBy: createdBy,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to record stock in")
		return
	}
	h.Cache.Invalidate(r.Context(), p.OutletID)
	writeJSON(w, http.StatusOK, p)
}
