package repositories

import (
	"context"
	"time"

	"storefront/internal/models"
)

// TokenRepository stores the hashed half of personal access tokens.
type TokenRepository interface {
	Create(ctx context.Context, token *models.PersonalAccessToken) error
	// GetByID loads a token with its owner.
	GetByID(ctx context.Context, id uint) (*models.PersonalAccessToken, error)
	Touch(ctx context.Context, id uint, at time.Time) error
	Delete(ctx context.Context, id uint) error
	DeleteByUser(ctx context.Context, userID uint) error
}
