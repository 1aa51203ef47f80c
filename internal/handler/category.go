package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"warungpos-backend/internal/repository"

	"github.com/go-chi/chi/v5"
)

type CategoryHandler struct {
	Categories repository.CategoryRepository
	Employees  repository.EmployeeRepository
}

func (h CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/categories", h.list)
}

func (h CategoryHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/categories", h.create)
	r.Put("/categories/{id}", h.update)
	r.Delete("/categories/{id}", h.delete)
}

func (h CategoryHandler) list(w http.ResponseWriter, r *http.Request) {
	outletID, err := resolveOutletID(r, h.Employees)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := h.Categories.ListByOutlet(r.Context(), outletID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type categoryPayload struct {
	OutletID    string  `json:"outletId"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (h CategoryHandler) create(w http.ResponseWriter, r *http.Request) {
	var req categoryPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.OutletID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "outletId and name are required")
		return
	}
	c, err := h.Categories.Create(r.Context(), repository.CategoryParams{
		OutletID:    req.OutletID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create category")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h CategoryHandler) update(w http.ResponseWriter, r *http.Request) {
	var req categoryPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	c, err := h.Categories.Update(r.Context(), chi.URLParam(r, "id"), repository.CategoryParams{
		OutletID:    req.OutletID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "category not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update category")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h CategoryHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Categories.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "category not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
