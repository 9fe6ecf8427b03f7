package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

// LocalInvalidator drops a tenant's snapshot from this instance's cache.
type LocalInvalidator interface {
	Invalidate(companyID uint)
}

// StatusInvalidationEvent tells other instances that a tenant's status
// snapshot is stale.
type StatusInvalidationEvent struct {
	CompanyID  uint   `json:"company_id"`
	Timestamp  int64  `json:"timestamp"`
	InstanceID string `json:"instance_id"`
}

// RedisStatusInvalidationBus invalidates the local cache synchronously and
// fans the invalidation out to other instances over Redis Pub/Sub.
type RedisStatusInvalidationBus struct {
	client     *redis.Client
	channel    string
	local      LocalInvalidator
	instanceID string
	logger     logger.Interface

	initialBackoff time.Duration
	maxBackoff     time.Duration
}

func NewRedisStatusInvalidationBus(client *redis.Client, channel string, local LocalInvalidator, logger logger.Interface) *RedisStatusInvalidationBus {
	return &RedisStatusInvalidationBus{
		client:     client,
		channel:    channel,
		local:      local,
		instanceID: uuid.NewString(),
		logger:     logger,

		initialBackoff: time.Second,
		maxBackoff:     30 * time.Second,
	}
}

// InvalidateStatus never fails the caller: the local drop always happens and
// a publish failure only leaves peers relying on their TTL.
func (b *RedisStatusInvalidationBus) InvalidateStatus(ctx context.Context, companyID uint) {
	b.local.Invalidate(companyID)

	data, err := json.Marshal(StatusInvalidationEvent{
		CompanyID:  companyID,
		Timestamp:  time.Now().Unix(),
		InstanceID: b.instanceID,
	})
	if err != nil {
		b.logger.Errorw("failed to marshal invalidation event", "company_id", companyID, "error", err)
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := b.client.Publish(pubCtx, b.channel, data).Err(); err != nil {
		b.logger.Warnw("failed to publish status invalidation",
			"company_id", companyID,
			"error", err,
		)
		return
	}

	b.logger.Debugw("status invalidation published", "company_id", companyID)
}

// SubscribeWithReconnect keeps a subscription alive until ctx is cancelled,
// reconnecting with exponential backoff whenever the connection drops.
func (b *RedisStatusInvalidationBus) SubscribeWithReconnect(ctx context.Context) error {
	backoff := b.initialBackoff

	for {
		err := b.Subscribe(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		b.logger.Warnw("status invalidation subscription disconnected, reconnecting",
			"channel", b.channel,
			"error", err,
			"backoff", backoff,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, b.maxBackoff)
	}
}

// Subscribe applies invalidations published by other instances until ctx is
// cancelled.
func (b *RedisStatusInvalidationBus) Subscribe(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	b.logger.Infow("subscribed to status invalidations",
		"channel", b.channel,
		"instance_id", b.instanceID,
	)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("status invalidation subscriber stopped", "reason", ctx.Err())
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("status invalidation channel closed")
				return nil
			}

			var event StatusInvalidationEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warnw("failed to unmarshal invalidation event",
					"payload", msg.Payload,
					"error", err,
				)
				continue
			}
			if event.InstanceID == b.instanceID {
				continue
			}

			b.local.Invalidate(event.CompanyID)
			b.logger.Debugw("remote status invalidation applied",
				"company_id", event.CompanyID,
				"source_instance", event.InstanceID,
			)
		}
	}
}
