package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors returned by every implementation. Missing rows are reported as pgx.ErrNoRows.
var (
	ErrEmailTaken      = errors.New("email already registered")
	ErrDepartmentTaken = errors.New("department name or code already registered")
	ErrTrackingIDTaken = errors.New("tracking id already in use")
	ErrVersionConflict = errors.New("complaint was modified concurrently")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// validID guards uuid columns: a malformed id can never match a row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
