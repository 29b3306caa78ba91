package postgres

import (
	"catalog/domain"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// mapError turns constraint violations into domain kinds so the store's
// constraints stay the authoritative duplicate and reference checks.
func mapError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case uniqueViolation:
		return fmt.Errorf("%w: %s", domain.ErrDuplicateKey, pqErr.Constraint)
	case foreignKeyViolation:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, pqErr.Constraint)
	default:
		return err
	}
}
