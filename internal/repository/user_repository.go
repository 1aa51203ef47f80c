package repository

import (
	"context"
	"errors"

	"warungpos-backend/internal/db"
	"warungpos-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type UserRepository struct {
	DB *db.Postgres
}

type CreateUserParams struct {
	Email        string
	FullName     string
	Role         domain.Role
	PasswordHash *string
	IsGoogle     bool
}

func (r UserRepository) Create(ctx context.Context, in CreateUserParams) (*domain.User, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO profiles (email, full_name, role, password_hash, is_google, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5, now(), now())
		RETURNING id, email, full_name, role, employee_id, password_hash, is_google, created_at, updated_at
	`, in.Email, in.FullName, string(in.Role), in.PasswordHash, in.IsGoogle)
	return scanUser(row)
}

func (r UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, email, full_name, role, employee_id, password_hash, is_google, created_at, updated_at
		FROM profiles
		WHERE email=$1
	`, email)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, email, full_name, role, employee_id, password_hash, is_google, created_at, updated_at
		FROM profiles
		WHERE id=$1
	`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// LinkEmployee attaches a profile to an employee record.
func (r UserRepository) LinkEmployee(ctx context.Context, profileID, employeeID string) error {
	ct, err := r.DB.Pool.Exec(ctx, `
		UPDATE profiles SET employee_id=$1, updated_at=now() WHERE id=$2
	`, employeeID, profileID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var role string
	var employeeID, passwordHash pgtype.Text
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &role, &employeeID, &passwordHash,
		&u.IsGoogle, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if employeeID.Valid {
		u.EmployeeID = &employeeID.String
	}
	if passwordHash.Valid {
		u.PasswordHash = &passwordHash.String
	}
	u.Role = domain.Role(role)
	return &u, nil
}
