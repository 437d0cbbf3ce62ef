package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes the repositories translate.
const (
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

var (
	// ErrForeignKeyViolation means a write was refused because another row
	// still references (or does not yet exist for) the target row.
	ErrForeignKeyViolation = errors.New("foreign key violation")
	// ErrCheckViolation means a CHECK constraint rejected the write.
	ErrCheckViolation = errors.New("check constraint violation")
)

// translate maps driver errors onto the repository sentinels; anything else
// is returned untouched.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %s", ErrForeignKeyViolation, pgErr.ConstraintName)
	case pgCheckViolation:
		return fmt.Errorf("%w: %s", ErrCheckViolation, pgErr.ConstraintName)
	}
	return err
}
