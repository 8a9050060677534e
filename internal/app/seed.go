package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/portaria-app/backend/internal/config"
	"github.com/portaria-app/backend/internal/models"
	"github.com/portaria-app/backend/internal/repositories"
	"github.com/portaria-app/backend/internal/utils"
)

// EnsureSuperAdmin creates the bootstrap super admin account when the
// configured email does not exist yet. A blank config skips the step.
func EnsureSuperAdmin(ctx context.Context, cfg *config.Config, userRepo repositories.UserRepository) error {
	if cfg.SuperAdminEmail == "" || cfg.SuperAdminPassword == "" {
		utils.Logger.Info("Super admin bootstrap not configured, skipping")
		return nil
	}

	existing, err := userRepo.GetByEmail(ctx, cfg.SuperAdminEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := utils.HashPassword(cfg.SuperAdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		ID:           uuid.New(),
		Email:        cfg.SuperAdminEmail,
		Name:         cfg.SuperAdminName,
		PasswordHash: hash,
		Role:         models.RoleSuperAdmin,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return err
	}

	utils.Logger.Infof("Created bootstrap super admin %s", cfg.SuperAdminEmail)
	return nil
}
