package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// uniqueViolationCode is the SQLSTATE postgres reports for a duplicate key.
const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a unique-constraint violation.
// gorm translates driver errors when TranslateError is on; the SQLSTATE and
// sqlite message checks cover connections opened without it.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
