package repositories

import (
	"errors"
	"fmt"

	"storefront/internal/apperr"

	"gorm.io/gorm"
)

// translate maps GORM errors onto apperr kinds and adds context.
func translate(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", msg, apperr.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", msg, apperr.ErrConflict)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
