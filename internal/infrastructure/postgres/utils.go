package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/wms-ledger/internal/domain"
)

// Códigos SQLSTATE relevantes para el ledger.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeNumericOutOfRange    = "22003"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	if code := pgCode(err); code != "" {
		return code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}

// isRetryable indica fallos de serialización o interbloqueo: la tx se revirtió entera y puede reintentarse.
func isRetryable(err error) bool {
	switch pgCode(err) {
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return true
	}
	return false
}

// mapPgError traduce errores del motor a errores de dominio; op describe la operación.
func mapPgError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
			return fmt.Errorf("%w: %s: %s", domain.ErrConcurrentConflict, op, pgErr.Message)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s", domain.ErrUnknownSKU, pgErr.Detail)
		case codeCheckViolation:
			if pgErr.TableName == "inventory" {
				return fmt.Errorf("%w: %s", domain.ErrInsufficientStock, pgErr.Detail)
			}
			return domain.Invalid("%s: %s", op, pgErr.Message)
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s: %s", domain.ErrConflict, op, pgErr.Detail)
		case codeNumericOutOfRange:
			return domain.Invalid("%s: cantidad fuera de rango", op)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
