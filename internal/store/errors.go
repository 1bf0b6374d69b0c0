package store

import (
	"database/sql"
	"errors"
	"fmt"

	"campus-market/internal/apperr"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// notFound maps sql.ErrNoRows to a NotFound error and wraps anything else.
func notFound(err error, entity string, id any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.Newf(apperr.CodeNotFound, "%s not found: %v", entity, id)
	}
	return fmt.Errorf("failed to get %s: %w", entity, err)
}

func rowsAffected(res sql.Result, entity string, id any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return apperr.Newf(apperr.CodeNotFound, "%s not found: %v", entity, id)
	}
	return nil
}
