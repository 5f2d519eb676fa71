package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MikeHapkidoIn/martial-arts-project/internal/domain"
	"github.com/MikeHapkidoIn/martial-arts-project/internal/event"
	"github.com/MikeHapkidoIn/martial-arts-project/internal/repository"
	apperrors "github.com/MikeHapkidoIn/martial-arts-project/pkg/errors"
	"github.com/MikeHapkidoIn/martial-arts-project/pkg/pagination"
)

// AdminService implements user administration operations.
type AdminService struct {
	userRepo    repository.UserRepository
	refreshRepo repository.RefreshTokenRepository
	producer    *event.Producer
	logger      *slog.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(
	userRepo repository.UserRepository,
	refreshRepo repository.RefreshTokenRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		refreshRepo: refreshRepo,
		producer:    producer,
		logger:      logger,
	}
}

// recentUserCount is how many of the newest accounts the stats report includes.
const recentUserCount = 5

// UserStats is the admin dashboard aggregate: account counts, a per-role
// breakdown, and the most recently registered accounts.
type UserStats struct {
	Total       int            `json:"total"`
	Active      int            `json:"active"`
	Inactive    int            `json:"inactive"`
	Verified    int            `json:"verified"`
	Unverified  int            `json:"unverified"`
	ByRole      map[string]int `json:"by_role"`
	RecentUsers []domain.User  `json:"recent_users"`
	LastUpdated time.Time      `json:"last_updated"`
}

// Stats assembles the admin dashboard aggregate from the store counts plus
// the newest accounts.
func (s *AdminService) Stats(ctx context.Context) (*UserStats, error) {
	counts, err := s.userRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("account stats: %w", err)
	}

	recent, _, err := s.userRepo.List(ctx, "", "", recentUserCount, 0)
	if err != nil {
		return nil, fmt.Errorf("recent users: %w", err)
	}

	return &UserStats{
		Total:       counts.Total,
		Active:      counts.Active,
		Inactive:    counts.Total - counts.Active,
		Verified:    counts.Verified,
		Unverified:  counts.Total - counts.Verified,
		ByRole:      counts.ByRole,
		RecentUsers: recent,
		LastUpdated: time.Now().UTC(),
	}, nil
}

// ListUsers returns a page of users, optionally filtered by a search term and role.
func (s *AdminService) ListUsers(ctx context.Context, search, role string, params pagination.Params) (*pagination.Result[domain.User], error) {
	if role != "" && !domain.IsValidRole(role) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown role %q", role))
	}

	users, total, err := s.userRepo.List(ctx, search, role, params.PerPage, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	result := pagination.NewResult(users, total, params)
	return &result, nil
}

// UpdateRole changes a user's role. Admins cannot change their own role, so
// the system can never demote its last administrator by accident.
func (s *AdminService) UpdateRole(ctx context.Context, actorID, userID, role string) (*domain.User, error) {
	if !domain.IsValidRole(role) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown role %q", role))
	}
	if actorID == userID {
		return nil, apperrors.Forbidden("cannot change your own role")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user for role update: %w", err)
	}

	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	user.Role = role

	s.logger.InfoContext(ctx, "user role updated",
		slog.String("actor_id", actorID),
		slog.String("user_id", userID),
		slog.String("role", role),
	)

	return user, nil
}

// SetActive toggles a user's active flag. Deactivation revokes every refresh
// token so live sessions end as soon as the access token expires. Admins
// cannot deactivate themselves.
func (s *AdminService) SetActive(ctx context.Context, actorID, userID string, active bool) (*domain.User, error) {
	if actorID == userID && !active {
		return nil, apperrors.Forbidden("cannot deactivate your own account")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user for activation change: %w", err)
	}

	if err := s.userRepo.SetActive(ctx, userID, active); err != nil {
		return nil, fmt.Errorf("set active: %w", err)
	}
	user.IsActive = active

	if !active {
		if err := s.refreshRepo.RevokeAll(ctx, userID); err != nil {
			s.logger.ErrorContext(ctx, "failed to revoke refresh tokens after deactivation",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}

		// Publish deactivation event (non-blocking on failure).
		if err := s.producer.PublishAccountDeactivated(ctx, userID); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish account.deactivated event",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "user activation changed",
		slog.String("actor_id", actorID),
		slog.String("user_id", userID),
		slog.Bool("active", active),
	)

	return user, nil
}
