package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MikeHapkidoIn/martial-arts-project/internal/auth"
	"github.com/MikeHapkidoIn/martial-arts-project/internal/config"
	"github.com/MikeHapkidoIn/martial-arts-project/internal/domain"
	"github.com/MikeHapkidoIn/martial-arts-project/internal/repository"
)

// EnsureAdmin creates the bootstrap admin account on first startup. It is
// idempotent: nothing happens when ADMIN_EMAIL is unset or when an admin
// account already exists, so a demoted or deleted admin is not silently
// recreated with stale credentials on the next restart.
func EnsureAdmin(ctx context.Context, users repository.UserRepository, hasher *auth.Hasher, cfg *config.Config, logger *slog.Logger) error {
	if cfg.AdminEmail == "" {
		return nil
	}

	exists, err := users.AdminExists(ctx)
	if err != nil {
		return fmt.Errorf("check for existing admin: %w", err)
	}
	if exists {
		logger.Debug("admin account already exists, skipping bootstrap")
		return nil
	}

	hash, err := hasher.Hash(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	now := time.Now().UTC()
	admin := &domain.User{
		ID:            uuid.New().String(),
		Email:         cfg.AdminEmail,
		PasswordHash:  hash,
		Name:          cfg.AdminName,
		Role:          domain.RoleAdmin,
		IsActive:      true,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin account: %w", err)
	}

	logger.Info("bootstrap admin account created", slog.String("email", cfg.AdminEmail))
	return nil
}
