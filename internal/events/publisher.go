// Package events announces interview lifecycle changes to other services.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"mockprep/interview/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const CompletedChannel = "interview_completed"

// RedisPublisher publishes events on Redis pub/sub channels.
type RedisPublisher struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewRedisPublisher(rdb *redis.Client, logger *zap.Logger) *RedisPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPublisher{rdb: rdb, logger: logger}
}

func (p *RedisPublisher) PublishCompleted(ctx context.Context, event models.InterviewCompletedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal completion event: %w", err)
	}

	receivers, err := p.rdb.Publish(ctx, CompletedChannel, payload).Result()
	if err != nil {
		return fmt.Errorf("publish completion event: %w", err)
	}

	p.logger.Info("published interview completion",
		zap.String("session_id", event.SessionID),
		zap.Int64("receivers", receivers))
	return nil
}

// NopPublisher drops events. Used when Redis is not configured.
type NopPublisher struct{}

func (NopPublisher) PublishCompleted(context.Context, models.InterviewCompletedEvent) error {
	return nil
}
