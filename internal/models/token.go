package models

import "time"

// PersonalAccessToken is the server-side half of an opaque bearer token.
// Only the SHA-256 of the secret part is kept.
type PersonalAccessToken struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     uint   `gorm:"not null;index"`
	Name       string `gorm:"type:varchar(255);not null"`
	TokenHash  string `gorm:"type:varchar(64);uniqueIndex;not null"`
	LastUsedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	User       *User `gorm:"constraint:OnDelete:CASCADE"`
}
