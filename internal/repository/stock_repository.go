package repository

import (
	"context"
	"errors"

	"warungpos-backend/internal/db"
	"warungpos-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type StockRepository struct {
	DB *db.Postgres
}

// DecrementStock atomically takes qty units off a product. The conditional
// update enforces non-negative stock at the storage layer, so concurrent
// checkouts cannot double-sell below zero. A matching stock movement is
// written in the same database transaction.
func (r StockRepository) DecrementStock(ctx context.Context, productID string, qty int) error {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var outletID string
	err = tx.QueryRow(ctx, `
		UPDATE products
		SET stock = stock - $2, updated_at = now()
		WHERE id=$1 AND stock >= $2
		RETURNING outlet_id
	`, productID, qty).Scan(&outletID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if chkErr := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id=$1)`, productID).Scan(&exists); chkErr != nil {
				return chkErr
			}
			if !exists {
				return ErrNotFound
			}
			return ErrInsufficientStock
		}
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO stock_movements (outlet_id, product_id, type, quantity, notes, created_at)
		VALUES ($1,$2,$3,$4,$5, now())
	`, outletID, productID, string(domain.StockOut), qty, "penjualan")
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

type StockInParams struct {
	OutletID  string
	ProductID string
	Quantity  int
	UnitCost  *float64
	Notes     string
	CreatedBy *string
}

// RecordStockIn adds incoming stock and recomputes the product cost with the
// weighted-average method when a unit cost is supplied.
func (r StockRepository) RecordStockIn(ctx context.Context, in StockInParams) (*domain.Product, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var stock int
	var cost pgtype.Float8
	err = tx.QueryRow(ctx, `
		SELECT stock, cost FROM products
		WHERE id=$1 AND outlet_id=$2
		FOR UPDATE
	`, in.ProductID, in.OutletID).Scan(&stock, &cost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	newStock := stock + in.Quantity
	newCost := cost
	if in.UnitCost != nil {
		prev := 0.0
		if cost.Valid {
			prev = cost.Float64
		}
		avg := (float64(stock)*prev + float64(in.Quantity)**in.UnitCost) / float64(newStock)
		newCost = pgtype.Float8{Float64: avg, Valid: true}
	}

	_, err = tx.Exec(ctx, `
		UPDATE products SET stock=$1, cost=$2, updated_at=now() WHERE id=$3
	`, newStock, newCost, in.ProductID)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO stock_movements (outlet_id, product_id, type, quantity, unit_cost, notes, created_by, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7, now())
	`, in.OutletID, in.ProductID, string(domain.StockIn), in.Quantity, in.UnitCost,
		nilIfEmpty(in.Notes), in.CreatedBy)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p, err := ProductRepository{DB: r.DB}.Get(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r StockRepository) ListMovements(ctx context.Context, outletID string, limit int) ([]domain.StockMovement, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, outlet_id, product_id, type, quantity, unit_cost, notes, created_by, created_at
		FROM stock_movements
		WHERE outlet_id=$1
		ORDER BY created_at DESC
		LIMIT $2
	`, outletID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.StockMovement
	for rows.Next() {
		var m domain.StockMovement
		var typ string
		var unitCost pgtype.Float8
		var notes, createdBy pgtype.Text
		if err := rows.Scan(&m.ID, &m.OutletID, &m.ProductID, &typ, &m.Quantity, &unitCost, &notes, &createdBy, &m.CreatedAt); err != nil {
			return nil, err
		}
		if unitCost.Valid {
			m.UnitCost = &unitCost.Float64
		}
		if notes.Valid {
			m.Notes = &notes.String
		}
		if createdBy.Valid {
			m.CreatedBy = &createdBy.String
		}
		m.Type = domain.StockMovementType(typ)
		items = append(items, m)
	}
	return items, rows.Err()
}
