package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MikeHapkidoIn/martial-arts-project/internal/domain"
	"github.com/MikeHapkidoIn/martial-arts-project/internal/repository"
	apperrors "github.com/MikeHapkidoIn/martial-arts-project/pkg/errors"
	"github.com/MikeHapkidoIn/martial-arts-project/pkg/pagination"
	"github.com/MikeHapkidoIn/martial-arts-project/pkg/slug"
)

// MartialArtService implements the catalog business logic.
type MartialArtService struct {
	repo   repository.MartialArtRepository
	logger *slog.Logger
}

// NewMartialArtService creates a new catalog service.
func NewMartialArtService(repo repository.MartialArtRepository, logger *slog.Logger) *MartialArtService {
	return &MartialArtService{
		repo:   repo,
		logger: logger,
	}
}

// MartialArtInput holds the writable fields of a catalog entry.
type MartialArtInput struct {
	Name            string
	CountryOfOrigin string
	AgeOfOrigin     string
	Type            string
	Distances       []string
	Weapons         []string
	ContactType     string
	Focus           string
	Strengths       []string
	Weaknesses      []string
	PhysicalDemands string
	Techniques      []string
	Philosophy      string
	History         string
	Images          []string
}

// Create adds a new martial art to the catalog. The slug is derived from the
// name; a name that slugs to an existing entry is rejected as a duplicate.
func (s *MartialArtService) Create(ctx context.Context, input MartialArtInput) (*domain.MartialArt, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}

	artSlug := slug.Generate(input.Name)
	if artSlug == "" {
		return nil, apperrors.InvalidInput("name must contain at least one alphanumeric character")
	}

	now := time.Now().UTC()
	art := &domain.MartialArt{
		ID:              uuid.New().String(),
		Name:            input.Name,
		Slug:            artSlug,
		CountryOfOrigin: input.CountryOfOrigin,
		AgeOfOrigin:     input.AgeOfOrigin,
		Type:            input.Type,
		Distances:       input.Distances,
		Weapons:         input.Weapons,
		ContactType:     input.ContactType,
		Focus:           input.Focus,
		Strengths:       input.Strengths,
		Weaknesses:      input.Weaknesses,
		PhysicalDemands: input.PhysicalDemands,
		Techniques:      input.Techniques,
		Philosophy:      input.Philosophy,
		History:         input.History,
		Images:          input.Images,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, art); err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, fmt.Errorf("create martial art: %w", err)
	}

	s.logger.InfoContext(ctx, "martial art created",
		slog.String("id", art.ID),
		slog.String("slug", art.Slug),
	)

	return art, nil
}

// GetByID retrieves a martial art by its identifier.
func (s *MartialArtService) GetByID(ctx context.Context, id string) (*domain.MartialArt, error) {
	art, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get martial art: %w", err)
	}
	return art, nil
}

// GetBySlug retrieves a martial art by its URL slug.
func (s *MartialArtService) GetBySlug(ctx context.Context, artSlug string) (*domain.MartialArt, error) {
	art, err := s.repo.GetBySlug(ctx, artSlug)
	if err != nil {
		return nil, fmt.Errorf("get martial art by slug: %w", err)
	}
	return art, nil
}

// List returns a page of martial arts, optionally filtered by a search term
// and type.
func (s *MartialArtService) List(ctx context.Context, search, artType string, params pagination.Params) (*pagination.Result[domain.MartialArt], error) {
	arts, total, err := s.repo.List(ctx, search, artType, params.PerPage, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("list martial arts: %w", err)
	}

	result := pagination.NewResult(arts, total, params)
	return &result, nil
}

// Compare returns the catalog entries for the given identifiers so a client
// can show them side by side. A comparison needs at least two entries.
func (s *MartialArtService) Compare(ctx context.Context, ids []string) ([]domain.MartialArt, error) {
	if len(ids) < 2 {
		return nil, apperrors.InvalidInput("at least two ids are required to compare")
	}

	arts, err := s.repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("compare martial arts: %w", err)
	}

	return arts, nil
}

// Update replaces the writable fields of an existing catalog entry. Renaming
// an entry regenerates its slug.
func (s *MartialArtService) Update(ctx context.Context, id string, input MartialArtInput) (*domain.MartialArt, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}

	art, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get martial art for update: %w", err)
	}

	art.Name = input.Name
	art.Slug = slug.Generate(input.Name)
	art.CountryOfOrigin = input.CountryOfOrigin
	art.AgeOfOrigin = input.AgeOfOrigin
	art.Type = input.Type
	art.Distances = input.Distances
	art.Weapons = input.Weapons
	art.ContactType = input.ContactType
	art.Focus = input.Focus
	art.Strengths = input.Strengths
	art.Weaknesses = input.Weaknesses
	art.PhysicalDemands = input.PhysicalDemands
	art.Techniques = input.Techniques
	art.Philosophy = input.Philosophy
	art.History = input.History
	art.Images = input.Images
	art.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, art); err != nil {
		return nil, fmt.Errorf("update martial art: %w", err)
	}

	s.logger.InfoContext(ctx, "martial art updated",
		slog.String("id", art.ID),
		slog.String("slug", art.Slug),
	)

	return art, nil
}

// Delete removes a martial art from the catalog.
func (s *MartialArtService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete martial art: %w", err)
	}

	s.logger.InfoContext(ctx, "martial art deleted",
		slog.String("id", id),
	)

	return nil
}
