package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/user-accounts-api/internal/application"
	"github.com/oksasatya/user-accounts-api/internal/infrastructure/cache"
)

// ErrMalformed marks a message that can never be processed and must not be requeued.
var ErrMalformed = errors.New("malformed user event")

// Consumer records user lifecycle events in the audit log and drops stale
// cache entries so every API instance sees the committed state.
type Consumer struct {
	rdb    *redis.Client // optional
	logger *logrus.Logger
}

func NewConsumer(rdb *redis.Client, logger *logrus.Logger) *Consumer {
	return &Consumer{rdb: rdb, logger: logger}
}

func (c *Consumer) Handle(ctx context.Context, body []byte) error {
	var ev userapp.UserEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	switch ev.Type {
	case userapp.EventUserCreated, userapp.EventUserUpdated, userapp.EventUserDeleted:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrMalformed, ev.Type)
	}
	if ev.UserID <= 0 {
		return fmt.Errorf("%w: missing user_id", ErrMalformed)
	}

	if c.rdb != nil && ev.Type != userapp.EventUserCreated {
		if err := cache.Evict(ctx, c.rdb, ev.UserID); err != nil {
			return fmt.Errorf("evict user %d: %w", ev.UserID, err)
		}
	}

	c.logger.WithFields(logrus.Fields{
		"event":       ev.Type,
		"user_id":     ev.UserID,
		"email":       ev.Email,
		"occurred_at": ev.OccurredAt,
	}).Info("user event")
	return nil
}
