package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"warungpos-backend/internal/repository"

	"github.com/go-chi/chi/v5"
)

type EmployeeHandler struct {
	Employees repository.EmployeeRepository
	Users     repository.UserRepository
}

func (h EmployeeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/employees", h.list)
	r.Get("/employees/{id}", h.get)
	r.Post("/employees", h.create)
	r.Put("/employees/{id}", h.update)
	r.Post("/employees/{id}/link-profile", h.linkProfile)
}

func (h EmployeeHandler) list(w http.ResponseWriter, r *http.Request) {
	outletID, err := resolveOutletID(r, h.Employees)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := h.Employees.ListByOutlet(r.Context(), outletID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list employees")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h EmployeeHandler) get(w http.ResponseWriter, r *http.Request) {
	e, err := h.Employees.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "employee not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load employee")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

type employeePayload struct {
	ProfileID *string  `json:"profileId"`
	OutletID  string   `json:"outletId"`
	NIP       string   `json:"nip"`
	Name      string   `json:"name"`
	Phone     *string  `json:"phone"`
	Address   *string  `json:"address"`
	Position  *string  `json:"position"`
	Salary    *float64 `json:"salary"`
	IsActive  *bool    `json:"isActive"`
}

func (p employeePayload) params() repository.EmployeeParams {
	active := true
	if p.IsActive != nil {
		active = *p.IsActive
	}
	return repository.EmployeeParams{
		ProfileID: p.ProfileID,
		OutletID:  p.OutletID,
		NIP:       p.NIP,
		Name:      p.Name,
		Phone:     p.Phone,
		Address:   p.Address,
		Position:  p.Position,
		Salary:    p.Salary,
		IsActive:  active,
	}
}

func (h EmployeeHandler) create(w http.ResponseWriter, r *http.Request) {
	var req employeePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.OutletID == "" || req.Name == "" || req.NIP == "" {
		writeError(w, http.StatusBadRequest, "outletId, nip and name are required")
		return
	}
	e, err := h.Employees.Create(r.Context(), req.params())
	if err != nil {
		if repository.IsDuplicate(err) {
			writeError(w, http.StatusConflict, "nip already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create employee")
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h EmployeeHandler) update(w http.ResponseWriter, r *http.Request) {
	var req employeePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	e, err := h.Employees.Update(r.Context(), chi.URLParam(r, "id"), req.params())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "employee not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update employee")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// linkProfile attaches a login profile to the employee so the account can
// sell under this outlet.
func (h EmployeeHandler) linkProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProfileID string `json:"profileId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.ProfileID == "" {
		writeError(w, http.StatusBadRequest, "profileId is required")
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.Users.LinkEmployee(r.Context(), req.ProfileID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to link profile")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
