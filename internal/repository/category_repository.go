package repository

import (
	"context"
	"errors"

	"warungpos-backend/internal/db"
	"warungpos-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type CategoryRepository struct {
	DB *db.Postgres
}

func (r CategoryRepository) ListByOutlet(ctx context.Context, outletID string) ([]domain.Category, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, outlet_id, name, description, created_at, updated_at
		FROM categories
		WHERE outlet_id=$1
		ORDER BY name ASC
	`, outletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

type CategoryParams struct {
	OutletID    string
	Name        string
	Description *string
}

func (r CategoryRepository) Create(ctx context.Context, in CategoryParams) (*domain.Category, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO categories (outlet_id, name, description, created_at, updated_at)
		VALUES ($1,$2,$3, now(), now())
		RETURNING id, outlet_id, name, description, created_at, updated_at
	`, in.OutletID, in.Name, in.Description)
	return scanCategory(row)
}

func (r CategoryRepository) Update(ctx context.Context, id string, in CategoryParams) (*domain.Category, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE categories
		SET name=$1, description=$2, updated_at=now()
		WHERE id=$3
		RETURNING id, outlet_id, name, description, created_at, updated_at
	`, in.Name, in.Description, id)
	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r CategoryRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Pool.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	var desc pgtype.Text
	err := row.Scan(&c.ID, &c.OutletID, &c.Name, &desc, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		c.Description = &desc.String
	}
	return &c, nil
}
