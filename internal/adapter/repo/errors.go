package repo

import (
	"database/sql"
	"errors"
	"fmt"

	domain "github.com/aq2208/gorder-storefront/internal/entity"
)

// dbErr maps driver failures onto domain errors. sql.ErrNoRows becomes ErrNotFound.
func dbErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrCollaboratorUnavailable, op, err)
}
