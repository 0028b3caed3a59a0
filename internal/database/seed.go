package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Default development account created by Seed.
const (
	SeedEmail    = "test@example.com"
	SeedPassword = "password123"
)

// Seed wipes users and history, then creates the default account.
func Seed(ctx context.Context, db *gorm.DB, hasher auth.PasswordHasher) (*models.User, error) {
	hash, err := hasher.Hash(SeedPassword)
	if err != nil {
		return nil, err
	}
	user := &models.User{ID: uuid.New(), Email: SeedEmail, Password: hash}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wipe := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := wipe.Delete(&models.SearchHistory{}).Error; err != nil {
			return fmt.Errorf("failed to clear search history: %w", err)
		}
		if err := wipe.Delete(&models.User{}).Error; err != nil {
			return fmt.Errorf("failed to clear users: %w", err)
		}
		return tx.Create(user).Error
	})
	if err != nil {
		return nil, err
	}

	slog.Info("seeded user", "email", user.Email, "user_id", user.ID.String())
	return user, nil
}
