package repository

import (
	"context"
	"errors"

	"warungpos-backend/internal/db"
	"warungpos-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type EmployeeRepository struct {
	DB *db.Postgres
}

func (r EmployeeRepository) ListByOutlet(ctx context.Context, outletID string) ([]domain.Employee, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, profile_id, outlet_id, nip, name, phone, address, position, salary, is_active, created_at, updated_at
		FROM employees
		WHERE outlet_id=$1
		ORDER BY name ASC
	`, outletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}

func (r EmployeeRepository) Get(ctx context.Context, id string) (*domain.Employee, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, profile_id, outlet_id, nip, name, phone, address, position, salary, is_active, created_at, updated_at
		FROM employees
		WHERE id=$1
	`, id)
	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// GetByProfile resolves the employee record linked to an authenticated
// profile. Checkout and shift handlers use this to find the outlet context.
func (r EmployeeRepository) GetByProfile(ctx context.Context, profileID string) (*domain.Employee, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, profile_id, outlet_id, nip, name, phone, address, position, salary, is_active, created_at, updated_at
		FROM employees
		WHERE profile_id=$1 AND is_active=TRUE
	`, profileID)
	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

type EmployeeParams struct {
	ProfileID *string
	OutletID  string
	NIP       string
	Name      string
	Phone     *string
	Address   *string
	Position  *string
	Salary    *float64
	IsActive  bool
}

func (r EmployeeRepository) Create(ctx context.Context, in EmployeeParams) (*domain.Employee, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO employees (profile_id, outlet_id, nip, name, phone, address, position, salary, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, now(), now())
		RETURNING id, profile_id, outlet_id, nip, name, phone, address, position, salary, is_active, created_at, updated_at
	`, in.ProfileID, in.OutletID, in.NIP, in.Name, in.Phone, in.Address, in.Position, in.Salary, in.IsActive)
	return scanEmployee(row)
}

func (r EmployeeRepository) Update(ctx context.Context, id string, in EmployeeParams) (*domain.Employee, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE employees
		SET profile_id=$1, outlet_id=$2, nip=$3, name=$4, phone=$5, address=$6, position=$7, salary=$8, is_active=$9, updated_at=now()
		WHERE id=$10
		RETURNING id, profile_id, outlet_id, nip, name, phone, address, position, salary, is_active, created_at, updated_at
	`, in.ProfileID, in.OutletID, in.NIP, in.Name, in.Phone, in.Address, in.Position, in.Salary, in.IsActive, id)
	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var e domain.Employee
	var profileID, phone, address, position pgtype.Text
	var salary pgtype.Float8
	err := row.Scan(&e.ID, &profileID, &e.OutletID, &e.NIP, &e.Name, &phone, &address,
		&position, &salary, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if profileID.Valid {
		e.ProfileID = &profileID.String
	}
	if phone.Valid {
		e.Phone = &phone.String
	}
	if address.Valid {
		e.Address = &address.String
	}
	if position.Valid {
		e.Position = &position.String
	}
	if salary.Valid {
		e.Salary = &salary.Float64
	}
	return &e, nil
}
