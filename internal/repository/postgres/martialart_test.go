package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeHapkidoIn/martial-arts-project/internal/domain"
	apperrors "github.com/MikeHapkidoIn/martial-arts-project/pkg/errors"
)

func newArtTestFixture(t *testing.T) (*MartialArtRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := NewMartialArtRepository(mock)
	return repo, mock
}

func sampleArt() *domain.MartialArt {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.MartialArt{
		ID:              "ma-1",
		Name:            "Judo",
		Slug:            "judo",
		CountryOfOrigin: "Japón",
		AgeOfOrigin:     "1882",
		Type:            "grappling",
		Distances:       []string{"corta"},
		Weapons:         []string{},
		ContactType:     "full",
		Focus:           "proyecciones",
		Strengths:       []string{"control", "caídas"},
		Weaknesses:      []string{"golpeo"},
		PhysicalDemands: "alta",
		Techniques:      []string{"o-goshi", "seoi-nage"},
		Philosophy:      "máxima eficiencia, mínimo esfuerzo",
		History:         "Fundado por Jigoro Kano.",
		Images:          []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func artTestColumns() []string {
	return []string{
		"id", "name", "slug", "country_of_origin", "age_of_origin", "type",
		"distances", "weapons", "contact_type", "focus", "strengths", "weaknesses",
		"physical_demands", "techniques", "philosophy", "history", "images",
		"created_at", "updated_at",
	}
}

func artRow(a *domain.MartialArt) *pgxmock.Rows {
	return pgxmock.NewRows(artTestColumns()).AddRow(
		a.ID, a.Name, a.Slug, a.CountryOfOrigin, a.AgeOfOrigin, a.Type,
		a.Distances, a.Weapons, a.ContactType, a.Focus, a.Strengths, a.Weaknesses,
		a.PhysicalDemands, a.Techniques, a.Philosophy, a.History, a.Images,
		a.CreatedAt, a.UpdatedAt,
	)
}

func TestMartialArtRepository_Create(t *testing.T) {
	repo, mock := newArtTestFixture(t)
	defer mock.Close()
	a := sampleArt()

	mock.ExpectExec("INSERT INTO martial_arts").
		WithArgs(
			a.ID, a.Name, a.Slug, a.CountryOfOrigin, a.AgeOfOrigin, a.Type,
			a.Distances, a.Weapons, a.ContactType, a.Focus, a.Strengths, a.Weaknesses,
			a.PhysicalDemands, a.Techniques, a.Philosophy, a.History, a.Images,
			a.CreatedAt, a.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), a))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMartialArtRepository_GetBySlug(t *testing.T) {
	repo, mock := newArtTestFixture(t)
	defer mock.Close()
	a := sampleArt()

	mock.ExpectQuery("SELECT .+ FROM martial_arts WHERE slug =").
		WithArgs("judo").
		WillReturnRows(artRow(a))

	got, err := repo.GetBySlug(context.Background(), "judo")
	require.NoError(t, err)
	assert.Equal(t, a.Name, got.Name)
	assert.Equal(t, a.Techniques, got.Techniques)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMartialArtRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newArtTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM martial_arts WHERE id =").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(artTestColumns()))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMartialArtRepository_List_WithFilters(t *testing.T) {
	repo, mock := newArtTestFixture(t)
	defer mock.Close()
	a := sampleArt()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("%ju%", "grappling").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT .+ FROM martial_arts").
		WithArgs("%ju%", "grappling", 20, 0).
		WillReturnRows(artRow(a))

	arts, total, err := repo.List(context.Background(), "Ju", "grappling", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, arts, 1)
	assert.Equal(t, "Judo", arts[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMartialArtRepository_List_Empty(t *testing.T) {
	repo, mock := newArtTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT .+ FROM martial_arts").
		WithArgs(20, 0).
		WillReturnRows(pgxmock.NewRows(artTestColumns()))

	arts, total, err := repo.List(context.Background(), "", "", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NotNil(t, arts, "should return empty slice, not nil")
	assert.Empty(t, arts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMartialArtRepository_ListByIDs(t *testing.T) {
	repo, mock := newArtTestFixture(t)
	defer mock.Close()
	a := sampleArt()

	ids := []string{"ma-1", "missing"}
	mock.ExpectQuery("SELECT .+ FROM martial_arts WHERE id = ANY").
		WithArgs(ids).
		WillReturnRows(artRow(a))

	arts, err := repo.ListByIDs(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, arts, 1)
	assert.Equal(t, "Judo", arts[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMartialArtRepository_ListByIDs_NoMatches(t *testing.T) {
	repo, mock := newArtTestFixture(t)
	defer mock.Close()

	ids := []string{"missing-1", "missing-2"}
	mock.ExpectQuery("SELECT .+ FROM martial_arts WHERE id = ANY").
		WithArgs(ids).
		WillReturnRows(pgxmock.NewRows(artTestColumns()))

	arts, err := repo.ListByIDs(context.Background(), ids)
	require.NoError(t, err)
	assert.NotNil(t, arts, "should return empty slice, not nil")
	assert.Empty(t, arts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMartialArtRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newArtTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM martial_arts").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
