package repository

import (
	"context"
	"errors"

	"warungpos-backend/internal/db"
	"warungpos-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type OutletRepository struct {
	DB *db.Postgres
}

func (r OutletRepository) List(ctx context.Context) ([]domain.Outlet, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, code, address, is_active, created_at, updated_at
		FROM outlets
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Outlet
	for rows.Next() {
		o, err := scanOutlet(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *o)
	}
	return items, rows.Err()
}

func (r OutletRepository) Get(ctx context.Context, id string) (*domain.Outlet, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, name, code, address, is_active, created_at, updated_at
		FROM outlets
		WHERE id=$1
	`, id)
	o, err := scanOutlet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

type OutletParams struct {
	Name     string
	Code     *string
	Address  *string
	IsActive bool
}

func (r OutletRepository) Create(ctx context.Context, in OutletParams) (*domain.Outlet, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO outlets (name, code, address, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4, now(), now())
		RETURNING id, name, code, address, is_active, created_at, updated_at
	`, in.Name, in.Code, in.Address, in.IsActive)
	return scanOutlet(row)
}

func (r OutletRepository) Update(ctx context.Context, id string, in OutletParams) (*domain.Outlet, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE outlets
		SET name=$1, code=$2, address=$3, is_active=$4, updated_at=now()
		WHERE id=$5
		RETURNING id, name, code, address, is_active, created_at, updated_at
	`, in.Name, in.Code, in.Address, in.IsActive, id)
	o, err := scanOutlet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func scanOutlet(row pgx.Row) (*domain.Outlet, error) {
	var o domain.Outlet
	var code, address pgtype.Text
	err := row.Scan(&o.ID, &o.Name, &code, &address, &o.IsActive, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if code.Valid {
		o.Code = &code.String
	}
	if address.Valid {
		o.Address = &address.String
	}
	return &o, nil
}
