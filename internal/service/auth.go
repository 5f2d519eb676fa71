package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/MikeHapkidoIn/martial-arts-project/internal/auth"
	"github.com/MikeHapkidoIn/martial-arts-project/internal/domain"
	"github.com/MikeHapkidoIn/martial-arts-project/internal/event"
	"github.com/MikeHapkidoIn/martial-arts-project/internal/mailer"
	"github.com/MikeHapkidoIn/martial-arts-project/internal/repository"
	apperrors "github.com/MikeHapkidoIn/martial-arts-project/pkg/errors"
	"github.com/MikeHapkidoIn/martial-arts-project/pkg/middleware"
)

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// invalidCredentialsMsg is returned for both unknown emails and wrong
// passwords so responses do not reveal which accounts exist.
const invalidCredentialsMsg = "invalid email or password"

// AuthService implements registration, login, session, and credential
// recovery flows.
type AuthService struct {
	userRepo    repository.UserRepository
	refreshRepo repository.RefreshTokenRepository
	jwtManager  *auth.JWTManager
	hasher      *auth.Hasher
	mailer      mailer.Mailer
	producer    *event.Producer
	baseURL     string
	logger      *slog.Logger
}

// NewAuthService creates a new auth service. baseURL is the public frontend
// URL used to build reset and verification links.
func NewAuthService(
	userRepo repository.UserRepository,
	refreshRepo repository.RefreshTokenRepository,
	jwtManager *auth.JWTManager,
	hasher *auth.Hasher,
	m mailer.Mailer,
	producer *event.Producer,
	baseURL string,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		refreshRepo: refreshRepo,
		jwtManager:  jwtManager,
		hasher:      hasher,
		mailer:      m,
		producer:    producer,
		baseURL:     baseURL,
		logger:      logger,
	}
}

// --- Input types ---

// RegisterInput holds the parameters for registering a new user.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// LoginInput holds the parameters for user login.
type LoginInput struct {
	Email    string
	Password string
}

// --- Operations ---

// Register creates a new account, issues an email verification token, and
// logs the user straight in. The verification mail is best-effort: a mail
// failure does not fail the registration.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, *domain.TokenPair, error) {
	if input.Email == "" {
		return nil, nil, apperrors.InvalidInput("email is required")
	}
	if input.Name == "" {
		return nil, nil, apperrors.InvalidInput("name is required")
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, nil, err
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        input.Email,
		PasswordHash: passwordHash,
		Name:         input.Name,
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	s.sendVerificationMail(ctx, user)

	tokens, err := s.generateTokenPair(ctx, user, now)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	// Publish registration event (non-blocking on failure).
	if err := s.producer.PublishAccountRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish account.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, tokens, nil
}

// Login authenticates a user with email and password, returning tokens.
// Locked accounts are rejected before the password is checked, so attempts
// against a locked account never advance the failure counter.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*domain.User, *domain.TokenPair, error) {
	if input.Email == "" {
		return nil, nil, apperrors.InvalidInput("email is required")
	}
	if input.Password == "" {
		return nil, nil, apperrors.InvalidInput("password is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		loginAttemptsTotal.WithLabelValues(outcomeInvalidCredentials).Inc()
		return nil, nil, apperrors.Unauthorized(invalidCredentialsMsg)
	}

	now := time.Now().UTC()

	if user.Locked(now) {
		loginAttemptsTotal.WithLabelValues(outcomeLocked).Inc()
		return nil, nil, apperrors.Locked("account is temporarily locked, try again later")
	}

	if !user.IsActive {
		loginAttemptsTotal.WithLabelValues(outcomeDeactivated).Inc()
		return nil, nil, apperrors.Unauthorized("account is deactivated")
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		s.recordFailedLogin(ctx, user, now)
		loginAttemptsTotal.WithLabelValues(outcomeInvalidCredentials).Inc()
		return nil, nil, apperrors.Unauthorized(invalidCredentialsMsg)
	}

	if err := s.userRepo.RecordSuccessfulLogin(ctx, user.ID, now); err != nil {
		return nil, nil, fmt.Errorf("record successful login: %w", err)
	}

	tokens, err := s.generateTokenPair(ctx, user, now)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	loginAttemptsTotal.WithLabelValues(outcomeSuccess).Inc()
	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, tokens, nil
}

// Refresh validates a refresh token against its JWT signature and the stored
// ledger, then mints a new access token. The refresh token itself is not
// rotated; it stays usable until it expires or is revoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", apperrors.InvalidInput("refresh token is required")
	}

	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", apperrors.Unauthorized("invalid or expired refresh token")
	}

	now := time.Now().UTC()
	valid, err := s.refreshRepo.IsValid(ctx, claims.UserID, auth.HashToken(refreshToken), now)
	if err != nil {
		return "", fmt.Errorf("check refresh token: %w", err)
	}
	if !valid {
		return "", apperrors.Unauthorized("refresh token has been revoked")
	}

	// Fetch the user so the new access token carries the current email and role.
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.Unauthorized("invalid or expired refresh token")
		}
		return "", fmt.Errorf("get user for token refresh: %w", err)
	}

	if !user.IsActive {
		return "", apperrors.Unauthorized("account is deactivated")
	}
	if user.Locked(now) {
		return "", apperrors.Locked("account is temporarily locked, try again later")
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	tokensIssuedTotal.WithLabelValues("access").Inc()

	s.logger.InfoContext(ctx, "access token refreshed",
		slog.String("user_id", user.ID),
	)

	return accessToken, nil
}

// Logout removes the presented refresh token from the user's ledger. It is
// idempotent; logging out with an already revoked token succeeds.
func (s *AuthService) Logout(ctx context.Context, userID, refreshToken string) error {
	if refreshToken == "" {
		return apperrors.InvalidInput("refresh token is required")
	}

	if err := s.refreshRepo.Revoke(ctx, userID, auth.HashToken(refreshToken)); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged out",
		slog.String("user_id", userID),
	)

	return nil
}

// LogoutAll clears the user's entire refresh-token ledger, ending every
// session on every device.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	if err := s.refreshRepo.RevokeAll(ctx, userID); err != nil {
		return fmt.Errorf("revoke all refresh tokens: %w", err)
	}

	s.logger.InfoContext(ctx, "all sessions revoked",
		slog.String("user_id", userID),
	)

	return nil
}

// ChangePassword allows an authenticated user to change their password after
// confirming the current one. All refresh tokens are revoked afterwards.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if currentPassword == "" {
		return apperrors.InvalidInput("current password is required")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if currentPassword == newPassword {
		return apperrors.InvalidInput("new password must be different from current password")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user for password change: %w", err)
	}

	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return apperrors.Unauthorized("current password is incorrect")
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.refreshRepo.RevokeAll(ctx, user.ID); err != nil {
		s.logger.ErrorContext(ctx, "failed to revoke refresh tokens after password change",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "password changed",
		slog.String("user_id", user.ID),
	)

	return nil
}

// ForgotPassword issues a short-lived single-use reset token and mails it to
// the account holder. The response is identical whether or not the email is
// registered; if the mail cannot be delivered, the stored token is cleared so
// no orphaned reset secret stays live.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return apperrors.InvalidInput("email is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Do not reveal whether the email exists.
		s.logger.InfoContext(ctx, "password reset requested for unknown email",
			slog.String("email", email),
		)
		return nil
	}

	secret, digest, expiresAt, err := auth.IssueSingleUse(auth.ResetTokenTTL)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to issue reset token",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return nil
	}

	if err := s.userRepo.SetResetToken(ctx, user.ID, digest, expiresAt); err != nil {
		s.logger.ErrorContext(ctx, "failed to store reset token",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return nil
	}

	link := fmt.Sprintf("%s/reset-password/%s", s.baseURL, secret)
	subject, body := mailer.ResetPasswordMail(user.Name, link)
	if err := s.mailer.Send(ctx, user.Email, subject, body); err != nil {
		// The secret never reached the user; clear it so it cannot linger.
		if clearErr := s.userRepo.ClearResetToken(ctx, user.ID); clearErr != nil {
			s.logger.ErrorContext(ctx, "failed to clear reset token after mail failure",
				slog.String("user_id", user.ID),
				slog.String("error", clearErr.Error()),
			)
		}
		s.logger.ErrorContext(ctx, "failed to send reset mail",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return nil
	}

	passwordResetsTotal.WithLabelValues("requested").Inc()
	s.logger.InfoContext(ctx, "password reset requested",
		slog.String("user_id", user.ID),
	)

	return nil
}

// ResetPassword consumes a single-use reset token and sets the new password.
// The consume and the password write happen in one store operation, so a
// token can never be redeemed twice. All refresh tokens are revoked.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return apperrors.InvalidInput("reset token is required")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.userRepo.ConsumeResetToken(ctx, auth.HashToken(token), passwordHash, now)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.InvalidToken("invalid or expired reset token")
		}
		return fmt.Errorf("consume reset token: %w", err)
	}

	if err := s.refreshRepo.RevokeAll(ctx, user.ID); err != nil {
		s.logger.ErrorContext(ctx, "failed to revoke refresh tokens after password reset",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	// Publish password reset event (non-blocking on failure).
	if err := s.producer.PublishPasswordReset(ctx, user.ID, user.Email); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish account.password_reset event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	passwordResetsTotal.WithLabelValues("completed").Inc()
	s.logger.InfoContext(ctx, "password reset completed",
		slog.String("user_id", user.ID),
	)

	return nil
}

// VerifyEmail consumes a single-use verification token and marks the account
// email as verified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return apperrors.InvalidInput("verification token is required")
	}

	now := time.Now().UTC()
	user, err := s.userRepo.ConsumeVerifyToken(ctx, auth.HashToken(token), now)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.InvalidToken("invalid or expired verification token")
		}
		return fmt.Errorf("consume verification token: %w", err)
	}

	s.logger.InfoContext(ctx, "email verified",
		slog.String("user_id", user.ID),
	)

	return nil
}

// ResendVerification issues a fresh verification token for an authenticated
// user whose email is not yet verified.
func (s *AuthService) ResendVerification(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user for verification resend: %w", err)
	}

	if user.EmailVerified {
		return apperrors.InvalidInput("email is already verified")
	}

	s.sendVerificationMail(ctx, user)
	return nil
}

// GetUser retrieves a user by their ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateProfile updates a user's profile fields.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, name *string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user for update: %w", err)
	}

	if name != nil {
		if *name == "" {
			return nil, apperrors.InvalidInput("name must not be empty")
		}
		user.Name = *name
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.InfoContext(ctx, "user profile updated",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// ValidateAccessToken bridges JWT validation to the auth middleware.
func (s *AuthService) ValidateAccessToken(token string) (*middleware.Claims, error) {
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}
	return &middleware.Claims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}

// AccessExpiry returns the configured access token lifetime, used by the
// handler to set the cookie max age.
func (s *AuthService) AccessExpiry() time.Duration {
	return s.jwtManager.AccessExpiry()
}

// --- Helpers ---

// recordFailedLogin applies the failed-login transition and emits the lockout
// event when the threshold is crossed.
func (s *AuthService) recordFailedLogin(ctx context.Context, user *domain.User, now time.Time) {
	lockedUntil, err := s.userRepo.RecordFailedLogin(ctx, user.ID, now)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to record failed login",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	if lockedUntil == nil {
		return
	}

	accountLockoutsTotal.Inc()
	s.logger.WarnContext(ctx, "account locked after repeated failed logins",
		slog.String("user_id", user.ID),
		slog.Time("locked_until", *lockedUntil),
	)

	if err := s.producer.PublishAccountLocked(ctx, user.ID, lockedUntil.Format(time.RFC3339)); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish account.locked event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}
}

// generateTokenPair creates an access/refresh token pair and records the
// refresh token digest in the ledger.
func (s *AuthService) generateTokenPair(ctx context.Context, user *domain.User, now time.Time) (*domain.TokenPair, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.refreshRepo.Add(ctx, user.ID, auth.HashToken(refreshToken), now); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	tokensIssuedTotal.WithLabelValues("access").Inc()
	tokensIssuedTotal.WithLabelValues("refresh").Inc()

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// sendVerificationMail issues a verification token and mails the link.
// Best-effort; failures are logged and never propagated.
func (s *AuthService) sendVerificationMail(ctx context.Context, user *domain.User) {
	secret, digest, expiresAt, err := auth.IssueSingleUse(auth.VerifyTokenTTL)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to issue verification token",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.userRepo.SetVerifyToken(ctx, user.ID, digest, expiresAt); err != nil {
		s.logger.ErrorContext(ctx, "failed to store verification token",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	link := fmt.Sprintf("%s/verify-email/%s", s.baseURL, secret)
	subject, body := mailer.VerifyEmailMail(user.Name, link)
	if err := s.mailer.Send(ctx, user.Email, subject, body); err != nil {
		s.logger.ErrorContext(ctx, "failed to send verification mail",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}
}

// validatePassword checks that the password meets minimum complexity requirements.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return apperrors.InvalidInput("password must contain at least one uppercase letter, one lowercase letter, and one digit")
	}

	return nil
}
