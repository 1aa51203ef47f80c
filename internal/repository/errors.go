package repository

import (
	"errors"

	"warungpos-backend/internal/db"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrInsufficientStock is returned when a decrement would push stock below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// IsDuplicate detects unique constraint violation.
func IsDuplicate(err error) bool {
	return db.IsUniqueViolation(err)
}
