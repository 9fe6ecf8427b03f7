package http

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/company"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/config"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/infrastructure/email"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/logger"
)

// authRequestsPerMinute throttles signup and login per client IP.
const authRequestsPerMinute = 20

// initRedis creates and tests the Redis client connection.
func initRedis(ctx context.Context, cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Errorw("failed to connect to Redis", "addr", cfg.Redis.GetAddr(), "error", err)
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Infow("Redis connection established successfully")

	return redisClient, nil
}

// newTransitionNotifier mails tenants when the sweep expires a trial or marks
// a payment overdue. Without SMTP the messages are only logged.
func newTransitionNotifier(cfg *config.Config, companyRepo company.Repository, log logger.Interface) *email.TransitionNotifier {
	var sender email.Sender = email.NewLogSender(log)
	if cfg.Email.Enabled {
		sender = email.NewSMTPEmailService(cfg.Email)
	}
	return email.NewTransitionNotifier(companyRepo, sender, cfg.Server.BaseURL, log)
}
