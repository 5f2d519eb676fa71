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

const martialArtColumns = `id, name, slug, country_of_origin, age_of_origin, type,
		distances, weapons, contact_type, focus, strengths, weaknesses,
		physical_demands, techniques, philosophy, history, images, created_at, updated_at`

// MartialArtRepository implements repository.MartialArtRepository using PostgreSQL.
type MartialArtRepository struct {
	db database.DBTX
}

// NewMartialArtRepository creates a new PostgreSQL-backed martial art repository.
func NewMartialArtRepository(db database.DBTX) *MartialArtRepository {
	return &MartialArtRepository{db: db}
}

// Create inserts a new martial art into the database.
func (r *MartialArtRepository) Create(ctx context.Context, a *domain.MartialArt) error {
	query := `
		INSERT INTO martial_arts (id, name, slug, country_of_origin, age_of_origin, type,
			distances, weapons, contact_type, focus, strengths, weaknesses,
			physical_demands, techniques, philosophy, history, images, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	_, err := r.db.Exec(ctx, query,
		a.ID,
		a.Name,
		a.Slug,
		a.CountryOfOrigin,
		a.AgeOfOrigin,
		a.Type,
		a.Distances,
		a.Weapons,
		a.ContactType,
		a.Focus,
		a.Strengths,
		a.Weaknesses,
		a.PhysicalDemands,
		a.Techniques,
		a.Philosophy,
		a.History,
		a.Images,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("martial art", "name", a.Name)
		}
		return fmt.Errorf("insert martial art: %w", err)
	}

	return nil
}

// GetByID retrieves a martial art by its ID.
func (r *MartialArtRepository) GetByID(ctx context.Context, id string) (*domain.MartialArt, error) {
	query := `SELECT ` + martialArtColumns + ` FROM martial_arts WHERE id = $1`
	return r.scanMartialArt(ctx, query, id)
}

// GetBySlug retrieves a martial art by its URL slug.
func (r *MartialArtRepository) GetBySlug(ctx context.Context, slug string) (*domain.MartialArt, error) {
	query := `SELECT ` + martialArtColumns + ` FROM martial_arts WHERE slug = $1`
	return r.scanMartialArt(ctx, query, slug)
}

// List returns a page of martial arts plus the total count. Search matches
// name and country of origin; artType filters exactly.
func (r *MartialArtRepository) List(ctx context.Context, search, artType string, limit, offset int) ([]domain.MartialArt, int, error) {
	var conds []string
	var args []any

	if search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		conds = append(conds, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(country_of_origin) LIKE $%d)", len(args), len(args)))
	}
	if artType != "" {
		args = append(args, artType)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM martial_arts"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count martial arts: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf("SELECT %s FROM martial_arts%s ORDER BY name ASC LIMIT $%d OFFSET $%d",
		martialArtColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list martial arts: %w", err)
	}
	defer rows.Close()

	var arts []domain.MartialArt
	for rows.Next() {
		var a domain.MartialArt
		if err := scanMartialArtRow(rows, &a); err != nil {
			return nil, 0, fmt.Errorf("scan martial art row: %w", err)
		}
		arts = append(arts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate martial art rows: %w", err)
	}

	if arts == nil {
		arts = []domain.MartialArt{}
	}

	return arts, total, nil
}

// ListByIDs returns the martial arts matching the given identifiers, ordered
// by name. Identifiers with no matching row are skipped.
func (r *MartialArtRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.MartialArt, error) {
	query := `SELECT ` + martialArtColumns + ` FROM martial_arts WHERE id = ANY($1) ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list martial arts by ids: %w", err)
	}
	defer rows.Close()

	var arts []domain.MartialArt
	for rows.Next() {
		var a domain.MartialArt
		if err := scanMartialArtRow(rows, &a); err != nil {
			return nil, fmt.Errorf("scan martial art row: %w", err)
		}
		arts = append(arts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate martial art rows: %w", err)
	}

	if arts == nil {
		arts = []domain.MartialArt{}
	}

	return arts, nil
}

// Update modifies an existing martial art in the database.
func (r *MartialArtRepository) Update(ctx context.Context, a *domain.MartialArt) error {
	a.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE martial_arts
		SET name = $1, slug = $2, country_of_origin = $3, age_of_origin = $4, type = $5,
		    distances = $6, weapons = $7, contact_type = $8, focus = $9, strengths = $10,
		    weaknesses = $11, physical_demands = $12, techniques = $13, philosophy = $14,
		    history = $15, images = $16, updated_at = $17
		WHERE id = $18`

	ct, err := r.db.Exec(ctx, query,
		a.Name,
		a.Slug,
		a.CountryOfOrigin,
		a.AgeOfOrigin,
		a.Type,
		a.Distances,
		a.Weapons,
		a.ContactType,
		a.Focus,
		a.Strengths,
		a.Weaknesses,
		a.PhysicalDemands,
		a.Techniques,
		a.Philosophy,
		a.History,
		a.Images,
		a.UpdatedAt,
		a.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("martial art", "name", a.Name)
		}
		return fmt.Errorf("update martial art: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("martial art", a.ID)
	}

	return nil
}

// Delete removes a martial art from the database by its ID.
func (r *MartialArtRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM martial_arts WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete martial art: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("martial art", id)
	}

	return nil
}

// scanMartialArt is a helper that executes a query expected to return a single row.
func (r *MartialArtRepository) scanMartialArt(ctx context.Context, query string, args ...any) (*domain.MartialArt, error) {
	var a domain.MartialArt
	if err := scanMartialArtRow(r.db.QueryRow(ctx, query, args...), &a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan martial art: %w", err)
	}
	return &a, nil
}

// scanMartialArtRow scans the martialArtColumns set into a domain.MartialArt.
func scanMartialArtRow(row pgx.Row, a *domain.MartialArt) error {
	return row.Scan(
		&a.ID,
		&a.Name,
		&a.Slug,
		&a.CountryOfOrigin,
		&a.AgeOfOrigin,
		&a.Type,
		&a.Distances,
		&a.Weapons,
		&a.ContactType,
		&a.Focus,
		&a.Strengths,
		&a.Weaknesses,
		&a.PhysicalDemands,
		&a.Techniques,
		&a.Philosophy,
		&a.History,
		&a.Images,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
}
