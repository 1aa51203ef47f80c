package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"warungpos-backend/internal/cache"
	"warungpos-backend/internal/repository"

	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	Products  repository.ProductRepository
	Employees repository.EmployeeRepository
	Cache     *cache.ProductCache
}

func (h ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.list)
	r.Get("/products/{id}", h.get)
}

func (h ProductHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/products", h.create)
	r.Put("/products/{id}", h.update)
	r.Delete("/products/{id}", h.deactivate)
}

func (h ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	outletID, err := resolveOutletID(r, h.Employees)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := r.URL.Query()
	filter := repository.ProductFilter{
		Search:     q.Get("search"),
		CategoryID: q.Get("categoryId"),
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}

	// Unfiltered catalog reads go through Redis; filtered queries hit the
	// database directly so the cache holds a single entry per outlet.
	cacheable := filter.Search == "" && filter.CategoryID == "" && filter.Limit == 0
	if cacheable {
		if items, ok := h.Cache.Get(r.Context(), outletID); ok {
			writeJSON(w, http.StatusOK, items)
			return
		}
	}

	items, err := h.Products.ListByOutlet(r.Context(), outletID, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	if cacheable {
		h.Cache.Set(r.Context(), outletID, items)
	}
	writeJSON(w, http.StatusOK, items)
}

func (h ProductHandler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load product")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type productPayload struct {
	OutletID   string   `json:"outletId"`
	SKU        string   `json:"sku"`
	Name       string   `json:"name"`
	CategoryID string   `json:"categoryId"`
	Unit       string   `json:"unit"`
	Price      float64  `json:"price"`
	Cost       *float64 `json:"cost"`
	Stock      int      `json:"stock"`
	ImageURL   *string  `json:"imageUrl"`
	IsActive   *bool    `json:"isActive"`
}

func (h ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	var req productPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.OutletID == "" || req.Name == "" || req.SKU == "" {
		writeError(w, http.StatusBadRequest, "outletId, sku and name are required")
		return
	}
	if req.Price < 0 || req.Stock < 0 {
		writeError(w, http.StatusBadRequest, "price and stock must be non-negative")
		return
	}
	p, err := h.Products.Create(r.Context(), repository.CreateProductParams{
		OutletID:   req.OutletID,
		SKU:        req.SKU,
		Name:       req.Name,
		CategoryID: req.CategoryID,
		Unit:       req.Unit,
		Price:      req.Price,
		Cost:       req.Cost,
		Stock:      req.Stock,
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		if repository.IsDuplicate(err) {
			writeError(w, http.StatusConflict, "sku already exists for this outlet")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create product")
		return
	}
	h.Cache.Invalidate(r.Context(), p.OutletID)
	writeJSON(w, http.StatusCreated, p)
}

func (h ProductHandler) update(w http.ResponseWriter, r *http.Request) {
	var req productPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Price < 0 {
		writeError(w, http.StatusBadRequest, "price must be non-negative")
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	p, err := h.Products.Update(r.Context(), chi.URLParam(r, "id"), repository.UpdateProductParams{
		SKU:        req.SKU,
		Name:       req.Name,
		CategoryID: req.CategoryID,
		Unit:       req.Unit,
		Price:      req.Price,
		ImageURL:   req.ImageURL,
		IsActive:   active,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update product")
		return
	}
	h.Cache.Invalidate(r.Context(), p.OutletID)
	writeJSON(w, http.StatusOK, p)
}

func (h ProductHandler) deactivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := h.Products.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load product")
		return
	}
	if err := h.Products.Deactivate(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to deactivate product")
		return
	}
	h.Cache.Invalidate(r.Context(), p.OutletID)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
