package event

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeHapkidoIn/martial-arts-project/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestProducer_DisabledDropsEvents(t *testing.T) {
	// With no Kafka client the producer is disabled: every publish succeeds
	// without touching a broker, so account flows work in a brokerless
	// deployment.
	p := NewProducer(nil, testLogger())
	require.False(t, p.Enabled())

	ctx := context.Background()
	user := &domain.User{ID: "u-1", Email: "ana@example.com", Name: "Ana", Role: domain.RoleUser}

	assert.NoError(t, p.PublishAccountRegistered(ctx, user))
	assert.NoError(t, p.PublishAccountLocked(ctx, "u-1", "2026-01-01T00:00:00Z"))
	assert.NoError(t, p.PublishAccountDeactivated(ctx, "u-1"))
	assert.NoError(t, p.PublishPasswordReset(ctx, "u-1", "ana@example.com"))
}
