package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/MikeHapkidoIn/martial-arts-project/internal/domain"
	"github.com/MikeHapkidoIn/martial-arts-project/pkg/database"
	apperrors "github.com/MikeHapkidoIn/martial-arts-project/pkg/errors"
)

const userColumns = `id, email, password_hash, name, role, is_active, email_verified,
		failed_attempts, locked_until, reset_token_digest, reset_expires_at,
		verify_token_digest, verify_expires_at, last_login, created_at, updated_at`

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user into the database.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, role, is_active, email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		u.ID,
		strings.ToLower(u.Email),
		u.PasswordHash,
		u.Name,
		u.Role,
		u.IsActive,
		u.EmailVerified,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("user", "email", u.Email)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(ctx, query, id)
}

// GetByEmail retrieves a user by their email address. Lookup is
// case-insensitive; emails are stored lowercased.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(ctx, query, strings.ToLower(email))
}

// Update modifies an existing user's profile fields in the database.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	u.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users
		SET email = $1, name = $2, updated_at = $3
		WHERE id = $4`

	ct, err := r.db.Exec(ctx, query,
		strings.ToLower(u.Email),
		u.Name,
		u.UpdatedAt,
		u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("user", "email", u.Email)
		}
		return fmt.Errorf("update user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", u.ID)
	}

	return nil
}

// List returns a page of users plus the total count. Search matches name
// and email; role filters exactly.
func (r *UserRepository) List(ctx context.Context, search, role string, limit, offset int) ([]domain.User, int, error) {
	var conds []string
	var args []any

	if search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		conds = append(conds, fmt.Sprintf("(LOWER(name) LIKE $%d OR email LIKE $%d)", len(args), len(args)))
	}
	if role != "" {
		args = append(args, role)
		conds = append(conds, fmt.Sprintf("role = $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM users"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf("SELECT %s FROM users%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		userColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := scanUserRow(rows, &u); err != nil {
			return nil, 0, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate user rows: %w", err)
	}

	if users == nil {
		users = []domain.User{}
	}

	return users, total, nil
}

// RecordFailedLogin applies one failed-login transition as a single
// conditional update, so concurrent bursts against the same account
// cannot lose an increment. An already-expired lock resets the window
// before anything else; otherwise the counter increments and the lock
// engages when the threshold is reached.
func (r *UserRepository) RecordFailedLogin(ctx context.Context, id string, now time.Time) (*time.Time, error) {
	query := `
		UPDATE users
		SET failed_attempts = CASE
			WHEN locked_until IS NOT NULL AND locked_until <= $2 THEN 0
			ELSE failed_attempts + 1
		END,
		locked_until = CASE
			WHEN locked_until IS NOT NULL AND locked_until <= $2 THEN NULL
			WHEN failed_attempts + 1 >= 5 THEN $2::timestamptz + interval '2 hours'
			ELSE locked_until
		END,
		updated_at = $2
		WHERE id = $1
		RETURNING locked_until`

	var lockedUntil *time.Time
	if err := r.db.QueryRow(ctx, query, id, now).Scan(&lockedUntil); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("record failed login: %w", err)
	}

	return lockedUntil, nil
}

// RecordSuccessfulLogin clears the lockout state unconditionally and stamps
// last_login.
func (r *UserRepository) RecordSuccessfulLogin(ctx context.Context, id string, now time.Time) error {
	query := `
		UPDATE users
		SET failed_attempts = 0, locked_until = NULL, last_login = $2, updated_at = $2
		WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id, now)
	if err != nil {
		return fmt.Errorf("record successful login: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", id)
	}

	return nil
}

// UpdatePassword replaces the stored password digest.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", id)
	}

	return nil
}

// SetResetToken stores the password-reset token digest and expiry,
// overwriting any outstanding one.
func (r *UserRepository) SetResetToken(ctx context.Context, id, digest string, expiresAt time.Time) error {
	query := `UPDATE users SET reset_token_digest = $2, reset_expires_at = $3, updated_at = NOW() WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id, digest, expiresAt)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", id)
	}

	return nil
}

// ClearResetToken removes the outstanding password-reset token, if any.
func (r *UserRepository) ClearResetToken(ctx context.Context, id string) error {
	query := `UPDATE users SET reset_token_digest = '', reset_expires_at = NULL, updated_at = NOW() WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("clear reset token: %w", err)
	}

	return nil
}

// ConsumeResetToken consumes an unexpired reset token and replaces the
// password in one conditional update, so the same token can never be
// consumed twice even under concurrent requests.
func (r *UserRepository) ConsumeResetToken(ctx context.Context, digest, passwordHash string, now time.Time) (*domain.User, error) {
	query := `
		UPDATE users
		SET password_hash = $2, reset_token_digest = '', reset_expires_at = NULL, updated_at = $3
		WHERE reset_token_digest = $1 AND reset_token_digest <> '' AND reset_expires_at > $3
		RETURNING ` + userColumns

	var u domain.User
	if err := scanUserRow(r.db.QueryRow(ctx, query, digest, passwordHash, now), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("consume reset token: %w", err)
	}

	return &u, nil
}

// SetVerifyToken stores the email-verification token digest and expiry,
// overwriting any outstanding one.
func (r *UserRepository) SetVerifyToken(ctx context.Context, id, digest string, expiresAt time.Time) error {
	query := `UPDATE users SET verify_token_digest = $2, verify_expires_at = $3, updated_at = NOW() WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id, digest, expiresAt)
	if err != nil {
		return fmt.Errorf("set verify token: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", id)
	}

	return nil
}

// ConsumeVerifyToken consumes an unexpired verification token and marks the
// email verified in one conditional update.
func (r *UserRepository) ConsumeVerifyToken(ctx context.Context, digest string, now time.Time) (*domain.User, error) {
	query := `
		UPDATE users
		SET email_verified = TRUE, verify_token_digest = '', verify_expires_at = NULL, updated_at = $2
		WHERE verify_token_digest = $1 AND verify_token_digest <> '' AND verify_expires_at > $2
		RETURNING ` + userColumns

	var u domain.User
	if err := scanUserRow(r.db.QueryRow(ctx, query, digest, now), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("consume verify token: %w", err)
	}

	return &u, nil
}

// UpdateRole changes a user's role.
func (r *UserRepository) UpdateRole(ctx context.Context, id, role string) error {
	query := `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id, role)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", id)
	}

	return nil
}

// SetActive toggles the account's active flag.
func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", id)
	}

	return nil
}

// AdminExists reports whether at least one admin account exists.
func (r *UserRepository) AdminExists(ctx context.Context) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE role = $1)`, domain.RoleAdmin).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check admin exists: %w", err)
	}
	return exists, nil
}

// Stats returns aggregate account counts: total, active, verified, and a
// per-role breakdown.
func (r *UserRepository) Stats(ctx context.Context) (*domain.AccountStats, error) {
	stats := &domain.AccountStats{ByRole: make(map[string]int)}

	counts := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_active),
		       COUNT(*) FILTER (WHERE email_verified)
		FROM users`
	if err := r.db.QueryRow(ctx, counts).Scan(&stats.Total, &stats.Active, &stats.Verified); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("count users by role: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var role string
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, fmt.Errorf("scan role count: %w", err)
		}
		stats.ByRole[role] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role counts: %w", err)
	}

	return stats, nil
}

// scanUser is a helper that executes a query expected to return a single user row.
func (r *UserRepository) scanUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var u domain.User
	if err := scanUserRow(r.db.QueryRow(ctx, query, args...), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// scanUserRow scans the userColumns set into a domain.User.
func scanUserRow(row pgx.Row, u *domain.User) error {
	return row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.Role,
		&u.IsActive,
		&u.EmailVerified,
		&u.FailedAttempts,
		&u.LockedUntil,
		&u.ResetTokenDigest,
		&u.ResetExpiresAt,
		&u.VerifyTokenDigest,
		&u.VerifyExpiresAt,
		&u.LastLogin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
