package utils

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsPGUniqueViolation reports whether error is PostgreSQL unique constraint violation (code 23505).
func IsPGUniqueViolation(err error) bool {
	_, ok := UniqueConstraint(err)
	return ok
}

// UniqueConstraint returns the name of the violated unique constraint,
// if err is a PostgreSQL unique violation (code 23505).
func UniqueConstraint(err error) (string, bool) {
	var pge *pgconn.PgError
	if errors.As(err, &pge) && pge.Code == "23505" {
		return pge.ConstraintName, true
	}
	return "", false
}
