package repository

import (
	"context"
	"errors"

	"warungpos-backend/internal/db"
	"warungpos-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type TransactionRepository struct {
	DB *db.Postgres
}

type CreateTransactionParams struct {
	OutletID          string
	TransactionNumber string
	EmployeeID        string
	ShiftID           *string
	Subtotal          float64
	Discount          float64
	Tax               float64
	Total             float64
	PaymentMethod     domain.PaymentMethod
	CashReceived      *float64
	Change            *float64
}

type TransactionItemParams struct {
	ProductID string
	Qty       int
	UnitPrice float64
	Discount  float64
	Total     float64
}

// NextTransactionNumber calls the database sequence function. Callers fall
// back to LatestTransactionNumber when this errors.
func (r TransactionRepository) NextTransactionNumber(ctx context.Context) (string, error) {
	var num string
	err := r.DB.Pool.QueryRow(ctx, `SELECT next_transaction_number()`).Scan(&num)
	return num, err
}

// LatestTransactionNumber returns the most recent number across all outlets,
// or "" when no transaction exists yet.
func (r TransactionRepository) LatestTransactionNumber(ctx context.Context) (string, error) {
	var num string
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT transaction_number FROM transactions
		ORDER BY created_at DESC
		LIMIT 1
	`).Scan(&num)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return num, err
}

// InsertTransaction persists the sale header with status completed and
// returns the generated id.
func (r TransactionRepository) InsertTransaction(ctx context.Context, in CreateTransactionParams) (string, error) {
	var id string
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO transactions
		(outlet_id, transaction_number, employee_id, shift_id, subtotal, discount, tax, total,
		 payment_method, cash_received, change, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12, now())
		RETURNING id
	`, in.OutletID, in.TransactionNumber, in.EmployeeID, in.ShiftID, in.Subtotal, in.Discount,
		in.Tax, in.Total, string(in.PaymentMethod), in.CashReceived, in.Change,
		string(domain.TransactionCompleted)).Scan(&id)
	return id, err
}

// InsertTransactionItems persists the line-item batch for a transaction.
func (r TransactionRepository) InsertTransactionItems(ctx context.Context, transactionID string, items []TransactionItemParams) error {
	for _, it := range items {
		_, err := r.DB.Pool.Exec(ctx, `
			INSERT INTO transaction_items (transaction_id, product_id, qty, unit_price, discount, total)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, transactionID, it.ProductID, it.Qty, it.UnitPrice, it.Discount, it.Total)
		if err != nil {
			return err
		}
	}
	return nil
}

// CashSalesTotal sums completed cash transactions for a shift.
func (r TransactionRepository) CashSalesTotal(ctx context.Context, shiftID string) (float64, error) {
	var total float64
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total),0)::float8
		FROM transactions
		WHERE shift_id=$1 AND status=$2 AND payment_method=$3
	`, shiftID, string(domain.TransactionCompleted), string(domain.PaymentCash)).Scan(&total)
	return total, err
}

// ListByOutlet returns recent transactions with their items.
func (r TransactionRepository) ListByOutlet(ctx context.Context, outletID string, limit int) ([]domain.Transaction, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, outlet_id, transaction_number, employee_id, shift_id, subtotal, discount, tax, total,
		       payment_method, cash_received, change, status, notes, created_at
		FROM transactions
		WHERE outlet_id=$1
		ORDER BY created_at DESC
		LIMIT $2
	`, outletID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []domain.Transaction
	var ids []string
	for rows.Next() {
		var t domain.Transaction
		var method, status string
		var shiftID, notes pgtype.Text
		var cashReceived, change pgtype.Float8
		if err := rows.Scan(
			&t.ID, &t.OutletID, &t.TransactionNumber, &t.EmployeeID, &shiftID, &t.Subtotal,
			&t.Discount, &t.Tax, &t.Total, &method, &cashReceived, &change, &status, &notes, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		if shiftID.Valid {
			t.ShiftID = &shiftID.String
		}
		if notes.Valid {
			t.Notes = &notes.String
		}
		if cashReceived.Valid {
			t.CashReceived = &cashReceived.Float64
		}
		if change.Valid {
			t.Change = &change.Float64
		}
		t.PaymentMethod = domain.PaymentMethod(method)
		t.Status = domain.TransactionStatus(status)
		ids = append(ids, t.ID)
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return txs, nil
	}

	itemRows, err := r.DB.Pool.Query(ctx, `
		SELECT id, transaction_id, product_id, qty, unit_price, discount, total
		FROM transaction_items
		WHERE transaction_id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	itemsByTx := make(map[string][]domain.TransactionItem)
	for itemRows.Next() {
		var it domain.TransactionItem
		if err := itemRows.Scan(&it.ID, &it.TransactionID, &it.ProductID, &it.Qty, &it.UnitPrice, &it.Discount, &it.Total); err != nil {
			return nil, err
		}
		itemsByTx[it.TransactionID] = append(itemsByTx[it.TransactionID], it)
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	for i := range txs {
		txs[i].Items = itemsByTx[txs[i].ID]
	}
	return txs, nil
}

type DaySummary struct {
	TotalCash     float64
	TotalTransfer float64
	TotalQRIS     float64
	Count         int
}

// TodaySummary aggregates today's completed transactions by payment method.
func (r TransactionRepository) TodaySummary(ctx context.Context, outletID string) (DaySummary, error) {
	var s DaySummary
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(total) FILTER (WHERE payment_method='cash'),0)::float8,
			COALESCE(SUM(total) FILTER (WHERE payment_method='transfer'),0)::float8,
			COALESCE(SUM(total) FILTER (WHERE payment_method='qris'),0)::float8,
			COUNT(*)
		FROM transactions
		WHERE outlet_id=$1 AND status='completed' AND created_at::date = CURRENT_DATE
	`, outletID).Scan(&s.TotalCash, &s.TotalTransfer, &s.TotalQRIS, &s.Count)
	return s, err
}
