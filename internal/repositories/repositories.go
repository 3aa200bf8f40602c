package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/rutinas/internal/shared"
)

// rowScanner is satisfied by both [sql.Row] and [sql.Rows].
type rowScanner interface {
	Scan(dest ...any) error
}

// expectAffected returns [shared.ErrNotFound] when result touched no rows.
func expectAffected(result sql.Result, what, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s %w: %s", what, shared.ErrNotFound, id)
	}
	return nil
}

// wrapScanErr maps [sql.ErrNoRows] to [shared.ErrNotFound].
func wrapScanErr(err error, what, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %w: %s", what, shared.ErrNotFound, id)
	}
	return fmt.Errorf("failed to scan %s: %w", what, err)
}

func limitClause(limit int) string {
	if limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", limit)
}
