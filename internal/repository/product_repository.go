package repository

import (
	"context"
	"errors"

	"warungpos-backend/internal/db"
	"warungpos-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type ProductRepository struct {
	DB *db.Postgres
}

type ProductFilter struct {
	Search     string
	CategoryID string
	Limit      int
}

func (r ProductRepository) ListByOutlet(ctx context.Context, outletID string, f ProductFilter) ([]domain.Product, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 500
	}
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, outlet_id, sku, name, category_id, unit, price, cost, stock, image_url, is_active, created_at, updated_at
		FROM products
		WHERE outlet_id=$1 AND is_active=TRUE
		  AND ($2 = '' OR name ILIKE '%'||$2||'%' OR sku ILIKE '%'||$2||'%')
		  AND ($3 = '' OR category_id::text = $3)
		ORDER BY name ASC
		LIMIT $4
	`, outletID, f.Search, f.CategoryID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

func (r ProductRepository) Get(ctx context.Context, id string) (*domain.Product, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, outlet_id, sku, name, category_id, unit, price, cost, stock, image_url, is_active, created_at, updated_at
		FROM products
		WHERE id=$1
	`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

type CreateProductParams struct {
	OutletID   string
	SKU        string
	Name       string
	CategoryID string
	Unit       string
	Price      float64
	Cost       *float64
	Stock      int
	ImageURL   *string
}

func (r ProductRepository) Create(ctx context.Context, in CreateProductParams) (*domain.Product, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO products (outlet_id, sku, name, category_id, unit, price, cost, stock, image_url, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, TRUE, now(), now())
		RETURNING id, outlet_id, sku, name, category_id, unit, price, cost, stock, image_url, is_active, created_at, updated_at
	`, in.OutletID, in.SKU, in.Name, in.CategoryID, in.Unit, in.Price, in.Cost, in.Stock, in.ImageURL)
	return scanProduct(row)
}

type UpdateProductParams struct {
	SKU        string
	Name       string
	CategoryID string
	Unit       string
	Price      float64
	ImageURL   *string
	IsActive   bool
}

func (r ProductRepository) Update(ctx context.Context, id string, in UpdateProductParams) (*domain.Product, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE products
		SET sku=$1, name=$2, category_id=$3, unit=$4, price=$5, image_url=$6, is_active=$7, updated_at=now()
		WHERE id=$8
		RETURNING id, outlet_id, sku, name, category_id, unit, price, cost, stock, image_url, is_active, created_at, updated_at
	`, in.SKU, in.Name, in.CategoryID, in.Unit, in.Price, in.ImageURL, in.IsActive, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r ProductRepository) Deactivate(ctx context.Context, id string) error {
	ct, err := r.DB.Pool.Exec(ctx, `
		UPDATE products SET is_active=FALSE, updated_at=now() WHERE id=$1
	`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var cost pgtype.Float8
	var imageURL pgtype.Text
	err := row.Scan(&p.ID, &p.OutletID, &p.SKU, &p.Name, &p.CategoryID, &p.Unit,
		&p.Price, &cost, &p.Stock, &imageURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if cost.Valid {
		p.Cost = &cost.Float64
	}
	if imageURL.Valid {
		p.ImageURL = &imageURL.String
	}
	return &p, nil
}
