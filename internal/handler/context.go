package handler

import (
	"context"
	"errors"
	"net/http"

	"warungpos-backend/internal/domain"
	"warungpos-backend/internal/repository"
	"warungpos-backend/internal/server/authctx"
)

// resolveEmployee finds the employee record for the authenticated profile.
// Checkout, shifts, attendance, and kasbon all need the employee and its
// outlet assignment.
func resolveEmployee(ctx context.Context, emp repository.EmployeeRepository) (*domain.Employee, error) {
	user := authctx.FromContext(ctx)
	if user == nil {
		return nil, errors.New("unauthorized")
	}
	e, err := emp.GetByProfile(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errors.New("account is not linked to an employee record")
		}
		return nil, err
	}
	return e, nil
}

// resolveOutletID picks the outlet context: employees are pinned to their
// own outlet, admins without an employee link pass ?outletId.
func resolveOutletID(r *http.Request, emp repository.EmployeeRepository) (string, error) {
	ctx := r.Context()
	user := authctx.FromContext(ctx)
	if user == nil {
		return "", errors.New("unauthorized")
	}
	if e, err := emp.GetByProfile(ctx, user.ID); err == nil {
		return e.OutletID, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}
	if id := r.URL.Query().Get("outletId"); id != "" {
		return id, nil
	}
	return "", errors.New("no outlet assigned; pass outletId or link the account to an employee")
}
