package repository

import (
	"context"
	"time"

	"warungpos-backend/internal/db"
	"warungpos-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgtype"
)

type CashFlowRepository struct {
	DB *db.Postgres
}

type CreateCashFlowParams struct {
	OutletID      string
	ShiftID       *string
	Type          domain.CashFlowType
	Category      domain.CashFlowCategory
	Amount        float64
	Description   string
	ReferenceType *string
	ReferenceID   *string
}

func (r CashFlowRepository) Insert(ctx context.Context, in CreateCashFlowParams) (string, error) {
	var id string
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO cash_flows (outlet_id, shift_id, type, category, amount, description, reference_type, reference_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8, now())
		RETURNING id
	`, in.OutletID, in.ShiftID, string(in.Type), string(in.Category), in.Amount,
		nilIfEmpty(in.Description), in.ReferenceType, in.ReferenceID).Scan(&id)
	return id, err
}

// CashOutTotal sums outgoing cash-flow amounts tied to a shift.
func (r CashFlowRepository) CashOutTotal(ctx context.Context, shiftID string) (float64, error) {
	var total float64
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount),0)::float8
		FROM cash_flows
		WHERE shift_id=$1 AND type=$2
	`, shiftID, string(domain.CashOut)).Scan(&total)
	return total, err
}

func (r CashFlowRepository) ListByOutlet(ctx context.Context, outletID string, from, to time.Time, limit int) ([]domain.CashFlow, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, outlet_id, shift_id, type, category, amount, description, reference_type, reference_id, created_at
		FROM cash_flows
		WHERE outlet_id=$1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at DESC
		LIMIT $4
	`, outletID, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CashFlow
	for rows.Next() {
		var f domain.CashFlow
		var typ, category string
		var shiftID, desc, refType, refID pgtype.Text
		if err := rows.Scan(&f.ID, &f.OutletID, &shiftID, &typ, &category, &f.Amount, &desc, &refType, &refID, &f.CreatedAt); err != nil {
			return nil, err
		}
		if shiftID.Valid {
			f.ShiftID = &shiftID.String
		}
		if desc.Valid {
			f.Description = &desc.String
		}
		if refType.Valid {
			f.ReferenceType = &refType.String
		}
		if refID.Valid {
			f.ReferenceID = &refID.String
		}
		f.Type = domain.CashFlowType(typ)
		f.Category = domain.CashFlowCategory(category)
		items = append(items, f)
	}
	return items, rows.Err()
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
