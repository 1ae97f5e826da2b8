package services

import (
	"errors"

	"storefront/internal/apperr"
)

// storeErr passes through the kinds clients may see and hides everything
// else behind ErrInternal.
func storeErr(op string, err error) error {
	if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrConflict) {
		return err
	}
	return apperr.Internal(op, err)
}
