package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MikeHapkidoIn/martial-arts-project/internal/domain"
)

func sampleArtBody() map[string]any {
	return map[string]any{
		"nombre":          "Jiu-Jitsu Brasileño",
		"paisProcedencia": "Brasil",
		"tipo":            "agarre",
	}
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv()

	live := env.do(t, http.MethodGet, "/health/live", nil, nil)
	ready := env.do(t, http.MethodGet, "/health/ready", nil, nil)

	assert.Equal(t, http.StatusOK, live.Code)
	assert.Equal(t, http.StatusOK, ready.Code)
}

func TestCatalogList_Public(t *testing.T) {
	env := newTestEnv()
	env.artRepo.On("List", mock.Anything, "", "", 20, 0).Return([]domain.MartialArt{}, 0, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/artes-marciales/", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestCatalogCompare_Public(t *testing.T) {
	env := newTestEnv()
	ids := []string{"art-1", "art-2"}
	env.artRepo.On("ListByIDs", mock.Anything, ids).Return([]domain.MartialArt{
		{ID: "art-1", Name: "Judo", Slug: "judo"},
		{ID: "art-2", Name: "Karate", Slug: "karate"},
	}, nil)

	rec := env.do(t, http.MethodPost, "/api/v1/artes-marciales/compare",
		map[string]any{"ids": ids}, nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestCatalogCompare_SingleID(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/v1/artes-marciales/compare",
		map[string]any{"ids": []string{"art-1"}}, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env.artRepo.AssertNotCalled(t, "ListByIDs", mock.Anything, mock.Anything)
}

func TestCatalogCreate_RequiresAuth(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/v1/artes-marciales/", sampleArtBody(), nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCatalogCreate_UserForbidden(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/v1/artes-marciales/", sampleArtBody(),
		bearer(t, "user-1", "ana@example.com", domain.RoleUser))

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCatalogCreate_ModeratorAllowed(t *testing.T) {
	env := newTestEnv()
	env.artRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.MartialArt")).Return(nil)

	rec := env.do(t, http.MethodPost, "/api/v1/artes-marciales/", sampleArtBody(),
		bearer(t, "mod-1", "mod@example.com", domain.RoleModerator))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestCatalogDelete_ModeratorForbidden(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodDelete, "/api/v1/artes-marciales/art-1", nil,
		bearer(t, "mod-1", "mod@example.com", domain.RoleModerator))

	require.Equal(t, http.StatusForbidden, rec.Code)
	env.artRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCatalogDelete_AdminAllowed(t *testing.T) {
	env := newTestEnv()
	env.artRepo.On("Delete", mock.Anything, "art-1").Return(nil)

	rec := env.do(t, http.MethodDelete, "/api/v1/artes-marciales/art-1", nil,
		bearer(t, "admin-1", "admin@example.com", domain.RoleAdmin))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestAdminUsers_ModeratorForbidden(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/api/v1/admin/users/", nil,
		bearer(t, "mod-1", "mod@example.com", domain.RoleModerator))

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminUsers_List(t *testing.T) {
	env := newTestEnv()
	env.userRepo.On("List", mock.Anything, "", "", 20, 0).Return([]domain.User{*testUser("SecurePass123")}, 1, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/admin/users/", nil,
		bearer(t, "admin-1", "admin@example.com", domain.RoleAdmin))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestAdminStats(t *testing.T) {
	env := newTestEnv()
	env.userRepo.On("Stats", mock.Anything).Return(&domain.AccountStats{
		Total:    3,
		Active:   2,
		Verified: 1,
		ByRole:   map[string]int{domain.RoleAdmin: 1, domain.RoleUser: 2},
	}, nil)
	env.userRepo.On("List", mock.Anything, "", "", 5, 0).Return([]domain.User{*testUser("SecurePass123")}, 3, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/admin/users/stats", nil,
		bearer(t, "admin-1", "admin@example.com", domain.RoleAdmin))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"inactive":1`)
	assert.Contains(t, rec.Body.String(), `"unverified":2`)
}

func TestAdminStats_UserForbidden(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/api/v1/admin/users/stats", nil,
		bearer(t, "user-1", "ana@example.com", domain.RoleUser))

	require.Equal(t, http.StatusForbidden, rec.Code)
	env.userRepo.AssertNotCalled(t, "Stats", mock.Anything)
}

func TestAdminUpdateRole(t *testing.T) {
	env := newTestEnv()
	user := testUser("SecurePass123")
	env.userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	env.userRepo.On("UpdateRole", mock.Anything, user.ID, domain.RoleModerator).Return(nil)

	rec := env.do(t, http.MethodPut, "/api/v1/admin/users/"+user.ID+"/role",
		map[string]string{"role": domain.RoleModerator},
		bearer(t, "admin-1", "admin@example.com", domain.RoleAdmin))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestAdminSetActive_SelfForbidden(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPut, "/api/v1/admin/users/admin-1/active",
		map[string]any{"active": false},
		bearer(t, "admin-1", "admin@example.com", domain.RoleAdmin))

	require.Equal(t, http.StatusForbidden, rec.Code)
	env.userRepo.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything, mock.Anything)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/metrics", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
