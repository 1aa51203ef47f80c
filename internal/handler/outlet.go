package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"warungpos-backend/internal/repository"

	"github.com/go-chi/chi/v5"
)

type OutletHandler struct {
	Outlets repository.OutletRepository
}

func (h OutletHandler) RegisterRoutes(r chi.Router) {
	r.Get("/outlets", h.list)
	r.Get("/outlets/{id}", h.get)
	r.Post("/outlets", h.create)
	r.Put("/outlets/{id}", h.update)
}

func (h OutletHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Outlets.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list outlets")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h OutletHandler) get(w http.ResponseWriter, r *http.Request) {
	o, err := h.Outlets.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "outlet not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load outlet")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type outletPayload struct {
	Name     string  `json:"name"`
	Code     *string `json:"code"`
	Address  *string `json:"address"`
	IsActive *bool   `json:"isActive"`
}

func (h OutletHandler) create(w http.ResponseWriter, r *http.Request) {
	var req outletPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	o, err := h.Outlets.Create(r.Context(), repository.OutletParams{
		Name:     req.Name,
		Code:     req.Code,
		Address:  req.Address,
		IsActive: active,
	})
	if err != nil {
		if repository.IsDuplicate(err) {
			writeError(w, http.StatusConflict, "outlet code already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create outlet")
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h OutletHandler) update(w http.ResponseWriter, r *http.Request) {
	var req outletPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	o, err := h.Outlets.Update(r.Context(), chi.URLParam(r, "id"), repository.OutletParams{
		Name:     req.Name,
		Code:     req.Code,
		Address:  req.Address,
		IsActive: active,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "outlet not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update outlet")
		return
	}
	writeJSON(w, http.StatusOK, o)
}
