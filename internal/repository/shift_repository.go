package repository

import (
	"context"
	"errors"
	"time"

	"warungpos-backend/internal/db"
	"warungpos-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type ShiftRepository struct {
	DB *db.Postgres
}

type CreateShiftParams struct {
	OutletID   string
	EmployeeID string
	Date       time.Time
	OpenCash   float64
}

type CloseShiftParams struct {
	CloseCash    float64
	ExpectedCash float64
	Discrepancy  float64
	ClosedAt     time.Time
}

func (r ShiftRepository) Insert(ctx context.Context, in CreateShiftParams) (*domain.Shift, error) {
	var s domain.Shift
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO shifts (outlet_id, employee_id, date, open_cash, status, opened_at)
		VALUES ($1,$2,$3,$4,$5, now())
		RETURNING id, outlet_id, employee_id, date, open_cash, opened_at, status
	`, in.OutletID, in.EmployeeID, in.Date.Format("2006-01-02"), in.OpenCash,
		string(domain.ShiftOpen)).Scan(
		&s.ID, &s.OutletID, &s.EmployeeID, &s.Date, &s.OpenCash, &s.OpenedAt, (*string)(&s.Status))
	return &s, err
}

// FindOpen returns the employee's open shift for a date, or ErrNotFound.
func (r ShiftRepository) FindOpen(ctx context.Context, employeeID string, date time.Time) (*domain.Shift, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, outlet_id, employee_id, date, open_cash, close_cash, expected_cash, discrepancy, opened_at, closed_at, status
		FROM shifts
		WHERE employee_id=$1 AND date=$2 AND status=$3
	`, employeeID, date.Format("2006-01-02"), string(domain.ShiftOpen))
	return scanShift(row)
}

func (r ShiftRepository) Get(ctx context.Context, id string) (*domain.Shift, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, outlet_id, employee_id, date, open_cash, close_cash, expected_cash, discrepancy, opened_at, closed_at, status
		FROM shifts
		WHERE id=$1
	`, id)
	return scanShift(row)
}

// Close performs the single terminal update open -> closed.
func (r ShiftRepository) Close(ctx context.Context, id string, in CloseShiftParams) error {
	ct, err := r.DB.Pool.Exec(ctx, `
		UPDATE shifts
		SET close_cash=$1, expected_cash=$2, discrepancy=$3, closed_at=$4, status=$5
		WHERE id=$6 AND status=$7
	`, in.CloseCash, in.ExpectedCash, in.Discrepancy, in.ClosedAt,
		string(domain.ShiftClosed), id, string(domain.ShiftOpen))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r ShiftRepository) ListByOutlet(ctx context.Context, outletID string, limit int) ([]domain.Shift, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, outlet_id, employee_id, date, open_cash, close_cash, expected_cash, discrepancy, opened_at, closed_at, status
		FROM shifts
		WHERE outlet_id=$1
		ORDER BY date DESC, opened_at DESC
		LIMIT $2
	`, outletID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	return items, rows.Err()
}

func scanShift(row pgx.Row) (*domain.Shift, error) {
	var s domain.Shift
	var status string
	var closeCash, expectedCash, discrepancy pgtype.Float8
	var closedAt pgtype.Timestamptz
	err := row.Scan(&s.ID, &s.OutletID, &s.EmployeeID, &s.Date, &s.OpenCash,
		&closeCash, &expectedCash, &discrepancy, &s.OpenedAt, &closedAt, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if closeCash.Valid {
		s.CloseCash = &closeCash.Float64
	}
	if expectedCash.Valid {
		s.ExpectedCash = &expectedCash.Float64
	}
	if discrepancy.Valid {
		s.Discrepancy = &discrepancy.Float64
	}
	if closedAt.Valid {
		s.ClosedAt = &closedAt.Time
	}
	s.Status = domain.ShiftStatus(status)
	return &s, nil
}
