package repository

import (
	"context"
	"time"

	"warungpos-backend/internal/db"
	"warungpos-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgtype"
)

type AttendanceRepository struct {
	DB *db.Postgres
}

// CheckIn upserts today's attendance row for the employee and stamps the
// check-in time once; repeated calls keep the first stamp.
func (r AttendanceRepository) CheckIn(ctx context.Context, outletID, employeeID string, status domain.AttendanceStatus) error {
	_, err := r.DB.Pool.Exec(ctx, `
		INSERT INTO attendances (outlet_id, employee_id, date, check_in, status, created_at, updated_at)
		VALUES ($1,$2, CURRENT_DATE, now(), $3, now(), now())
		ON CONFLICT (employee_id, date) DO UPDATE
		SET check_in = COALESCE(attendances.check_in, now()),
		    status = EXCLUDED.status,
		    updated_at = now()
	`, outletID, employeeID, string(status))
	return err
}

func (r AttendanceRepository) CheckOut(ctx context.Context, employeeID string) error {
	ct, err := r.DB.Pool.Exec(ctx, `
		UPDATE attendances
		SET check_out = now(), updated_at = now()
		WHERE employee_id=$1 AND date = CURRENT_DATE
	`, employeeID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r AttendanceRepository) ListMonth(ctx context.Context, outletID string, month time.Time) ([]domain.Attendance, error) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, outlet_id, employee_id, date, check_in, check_out, status, notes, created_at, updated_at
		FROM attendances
		WHERE outlet_id=$1 AND date >= $2 AND date < $3
		ORDER BY date DESC
	`, outletID, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Attendance
	for rows.Next() {
		var a domain.Attendance
		var status string
		var checkIn, checkOut pgtype.Timestamptz
		var notes pgtype.Text
		if err := rows.Scan(&a.ID, &a.OutletID, &a.EmployeeID, &a.Date, &checkIn, &checkOut, &status, &notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		if checkIn.Valid {
			a.CheckIn = &checkIn.Time
		}
		if checkOut.Valid {
			a.CheckOut = &checkOut.Time
		}
		if notes.Valid {
			a.Notes = &notes.String
		}
		a.Status = domain.AttendanceStatus(status)
		items = append(items, a)
	}
	return items, rows.Err()
}
