package repositories

import (
	"context"
	"time"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// GORMTokenRepository is a GORM implementation of TokenRepository.
type GORMTokenRepository struct {
	db *gorm.DB
}

// NewGORMTokenRepository creates a new instance of GORMTokenRepository.
func NewGORMTokenRepository(db *gorm.DB) *GORMTokenRepository {
	return &GORMTokenRepository{db: db}
}

func (r *GORMTokenRepository) Create(ctx context.Context, token *models.PersonalAccessToken) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(token).Error; err != nil {
		return translate(err, "failed to create token")
	}
	return nil
}

func (r *GORMTokenRepository) GetByID(ctx context.Context, id uint) (*models.PersonalAccessToken, error) {
	var token models.PersonalAccessToken
	if err := r.db.WithContext(ctx).Preload("User").First(&token, id).Error; err != nil {
		return nil, translate(err, "failed to get token %d", id)
	}
	return &token, nil
}

func (r *GORMTokenRepository) Touch(ctx context.Context, id uint, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&models.PersonalAccessToken{}).Where("id = ?", id).UpdateColumn("last_used_at", at).Error
	if err != nil {
		return translate(err, "failed to touch token %d", id)
	}
	return nil
}

// Delete revokes one token. Deleting an already revoked token is not an error.
func (r *GORMTokenRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.PersonalAccessToken{}, id).Error; err != nil {
		return translate(err, "failed to delete token %d", id)
	}
	return nil
}

// DeleteByUser revokes every token of a user.
func (r *GORMTokenRepository) DeleteByUser(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.PersonalAccessToken{}).Error; err != nil {
		return translate(err, "failed to delete tokens of user %d", userID)
	}
	return nil
}
