package repository

import (
	"context"
	"fmt"

	"warungpos-backend/internal/db"
	"warungpos-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgtype"
)

type KasbonRepository struct {
	DB *db.Postgres
}

type CreateKasbonParams struct {
	OutletID     string
	EmployeeID   string
	EmployeeName string
	Amount       float64
	Notes        *string
}

// Create records the advance and the matching drawer outflow in one
// database transaction.
func (r KasbonRepository) Create(ctx context.Context, in CreateKasbonParams) (*domain.Kasbon, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var k domain.Kasbon
	var notes pgtype.Text
	err = tx.QueryRow(ctx, `
		INSERT INTO employee_kasbon (outlet_id, employee_id, amount, notes, created_at)
		VALUES ($1,$2,$3,$4, now())
		RETURNING id, outlet_id, employee_id, amount, notes, created_at
	`, in.OutletID, in.EmployeeID, in.Amount, in.Notes).Scan(
		&k.ID, &k.OutletID, &k.EmployeeID, &k.Amount, &notes, &k.CreatedAt)
	if err != nil {
		return nil, err
	}
	if notes.Valid {
		k.Notes = &notes.String
	}

	refType := "kasbon"
	desc := fmt.Sprintf("Kasbon %s", in.EmployeeName)
	_, err = tx.Exec(ctx, `
		INSERT INTO cash_flows (outlet_id, type, category, amount, description, reference_type, reference_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7, now())
	`, in.OutletID, string(domain.CashOut), string(domain.CashCategoryKasbon), in.Amount, desc, refType, k.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &k, nil
}

func (r KasbonRepository) ListByOutlet(ctx context.Context, outletID string, limit int) ([]domain.Kasbon, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, outlet_id, employee_id, amount, notes, created_at
		FROM employee_kasbon
		WHERE outlet_id=$1
		ORDER BY created_at DESC
		LIMIT $2
	`, outletID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Kasbon
	for rows.Next() {
		var k domain.Kasbon
		var notes pgtype.Text
		if err := rows.Scan(&k.ID, &k.OutletID, &k.EmployeeID, &k.Amount, &notes, &k.CreatedAt); err != nil {
			return nil, err
		}
		if notes.Valid {
			k.Notes = &notes.String
		}
		items = append(items, k)
	}
	return items, rows.Err()
}
