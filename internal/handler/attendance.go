package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"warungpos-backend/internal/domain"
	"warungpos-backend/internal/repository"

	"github.com/go-chi/chi/v5"
)

type AttendanceHandler struct {
	Attendance repository.AttendanceRepository
	Employees  repository.EmployeeRepository
}

func (h AttendanceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/attendance", h.listMonth)
	r.Post("/attendance/check-in", h.checkIn)
	r.Post("/attendance/check-out", h.checkOut)
}

func (h AttendanceHandler) listMonth(w http.ResponseWriter, r *http.Request) {
	outletID, err := resolveOutletID(r, h.Employees)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	month := time.Now()
	if v := r.URL.Query().Get("month"); v != "" {
		if t, err := time.Parse("2006-01", v); err == nil {
			month = t
		}
	}
	items, err := h.Attendance.ListMonth(r.Context(), outletID, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list attendance")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h AttendanceHandler) checkIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	status := domain.AttendanceStatus(req.Status)
	if status == "" {
		status = domain.AttendancePresent
	}
	switch status {
	case domain.AttendancePresent, domain.AttendanceLeave, domain.AttendanceSick, domain.AttendanceAbsent:
	default:
		writeError(w, http.StatusBadRequest, "invalid attendance status")
		return
	}

	emp, err := resolveEmployee(r.Context(), h.Employees)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Attendance.CheckIn(r.Context(), emp.OutletID, emp.ID, status); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check in")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h AttendanceHandler) checkOut(w http.ResponseWriter, r *http.Request) {
	emp, err := resolveEmployee(r.Context(), h.Employees)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Attendance.CheckOut(r.Context(), emp.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check out")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
