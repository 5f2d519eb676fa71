package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MikeHapkidoIn/martial-arts-project/internal/domain"
	pkgkafka "github.com/MikeHapkidoIn/martial-arts-project/pkg/kafka"
)

// Kafka topic constants for account domain events.
const (
	TopicAccountRegistered  = "martialarts.account.registered"
	TopicAccountLocked      = "martialarts.account.locked"
	TopicAccountDeactivated = "martialarts.account.deactivated"
	TopicPasswordReset      = "martialarts.account.password_reset"
)

// Aggregate type constant.
const AggregateTypeAccount = "account"

// Source identifier for events originating from this service.
const SourceAPI = "martialarts-api"

// AccountRegisteredData is the payload for an account.registered event.
type AccountRegisteredData struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// AccountLockedData is the payload for an account.locked event.
type AccountLockedData struct {
	UserID      string `json:"user_id"`
	LockedUntil string `json:"locked_until"`
}

// AccountDeactivatedData is the payload for an account.deactivated event.
type AccountDeactivatedData struct {
	UserID string `json:"user_id"`
}

// PasswordResetData is the payload for an account.password_reset event.
type PasswordResetData struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Producer publishes account domain events to Kafka.
//
// A Producer built with a nil Kafka client is disabled: every publish is a
// no-op that reports success, so the account flows behave identically
// whether or not a broker is deployed alongside the service.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer. Pass a nil kafka client to
// disable publishing.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// Enabled reports whether events actually reach a broker.
func (p *Producer) Enabled() bool {
	return p.kafka != nil
}

// publish wraps the payload in an event envelope and sends it to topic.
func (p *Producer) publish(ctx context.Context, topic, aggregateID string, data any) error {
	if p.kafka == nil {
		p.logger.DebugContext(ctx, "event publishing disabled, dropping event",
			slog.String("topic", topic),
			slog.String("aggregate_id", aggregateID),
		)
		return nil
	}

	event, err := pkgkafka.NewEvent(topic, aggregateID, AggregateTypeAccount, SourceAPI, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}

// PublishAccountRegistered publishes an account.registered event.
func (p *Producer) PublishAccountRegistered(ctx context.Context, user *domain.User) error {
	return p.publish(ctx, TopicAccountRegistered, user.ID, AccountRegisteredData{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	})
}

// PublishAccountLocked publishes an account.locked event.
func (p *Producer) PublishAccountLocked(ctx context.Context, userID, lockedUntil string) error {
	return p.publish(ctx, TopicAccountLocked, userID, AccountLockedData{
		UserID:      userID,
		LockedUntil: lockedUntil,
	})
}

// PublishAccountDeactivated publishes an account.deactivated event.
func (p *Producer) PublishAccountDeactivated(ctx context.Context, userID string) error {
	return p.publish(ctx, TopicAccountDeactivated, userID, AccountDeactivatedData{UserID: userID})
}

// PublishPasswordReset publishes an account.password_reset event.
func (p *Producer) PublishPasswordReset(ctx context.Context, userID, email string) error {
	return p.publish(ctx, TopicPasswordReset, userID, PasswordResetData{
		UserID: userID,
		Email:  email,
	})
}
