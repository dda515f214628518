package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/co2-ledger/internal/domain"
)

// Querier operaciones comunes a *pgxpool.Pool y pgx.Tx: los repositorios funcionan con ambos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SQLSTATE que indican contención o cancelación: el caller puede reintentar la operación completa.
var retryableCodes = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"55P03": true, // lock_not_available (lock_timeout)
	"57014": true, // query_canceled (statement_timeout)
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == "23505"
}

// isForeignKeyViolation 23503.
func isForeignKeyViolation(err error) bool {
	return pgCode(err) == "23503"
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// wrapErr traduce errores del driver a errores de dominio. Todo lo que no es una violación de
// integridad conocida queda como *domain.StorageError.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	code := pgCode(err)
	switch {
	case retryableCodes[code],
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return &domain.StorageError{Op: op, Retryable: true, Err: err}
	case code == "23505":
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
	case code == "23503", code == "23514", code == "22P02":
		return fmt.Errorf("%s: %w: %s", op, domain.ErrInvalidInput, constraintName(err))
	}
	return &domain.StorageError{Op: op, Err: err}
}

func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName != "" {
		return pgErr.ConstraintName
	}
	return strings.TrimSpace(err.Error())
}
