package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"warungpos-backend/internal/domain"
	"warungpos-backend/internal/repository"
	"warungpos-backend/internal/server/authctx"
	"warungpos-backend/internal/service"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	Service   *service.AuthService
	Employees repository.EmployeeRepository
	Outlets   repository.OutletRepository
}

func (h AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
	r.Post("/auth/google", h.loginGoogle)
	r.Post("/auth/refresh", h.refresh)
}

func (h AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/auth/me", h.me)
}

func (h AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	res, err := h.Service.Register(r.Context(), service.RegisterInput{
		FullName: req.FullName,
		Email:    strings.ToLower(req.Email),
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeAuthResponse(w, res)
}

func (h AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	res, err := h.Service.Login(r.Context(), service.LoginInput{
		Email:    strings.ToLower(req.Email),
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	writeAuthResponse(w, res)
}

func (h AuthHandler) loginGoogle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDToken  string `json:"idToken"`
		Email    string `json:"email"`
		FullName string `json:"fullName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	res, err := h.Service.LoginWithGoogle(r.Context(), service.GoogleLoginInput{
		IDToken:  req.IDToken,
		Email:    strings.ToLower(req.Email),
		FullName: req.FullName,
	})
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	writeAuthResponse(w, res)
}

func (h AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	res, err := h.Service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	writeAuthResponse(w, res)
}

// me returns the authenticated profile plus its employee assignment, so the
// client knows which outlet the session operates in.
func (h AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	payload := map[string]any{
		"id":    user.ID,
		"email": user.Email,
		"role":  string(user.Role),
	}
	emp, err := h.Employees.GetByProfile(r.Context(), user.ID)
	if err == nil {
		payload["employee"] = map[string]any{
			"id":       emp.ID,
			"name":     emp.Name,
			"nip":      emp.NIP,
			"outletId": emp.OutletID,
		}
		if outlet, err := h.Outlets.Get(r.Context(), emp.OutletID); err == nil {
			payload["outlet"] = outlet
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func writeAuthResponse(w http.ResponseWriter, res *service.AuthResult) {
	writeJSON(w, http.StatusOK, map[string]any{
		"token":        res.AccessToken,
		"refreshToken": res.RefreshToken,
		"expiresAt":    res.ExpiresAt.UTC().Format(time.RFC3339),
		"user": map[string]any{
			"id":       res.User.ID,
			"fullName": res.User.FullName,
			"email":    res.User.Email,
			"role":     string(res.User.Role),
			"isGoogle": res.User.IsGoogle,
		},
	})
}
