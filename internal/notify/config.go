package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/trust_ledger_app/internal/platform/config"
	"github.com/go-redis/redis/v8"
)

// FromConfig picks the notification backend named by NOTIFY_BACKEND. The returned func releases
// the backend's resources and is never nil.
func FromConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Notifier, func(), error) {
	if cfg.NotifyBackend != config.NotifyBackendRedis {
		logger.Info("Import notifications go to the log")
		return LogNotifier{}, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, func() {}, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
	}
	logger.Info("Import notifications go to redis", slog.String("addr", cfg.RedisAddr))

	return NewRedisNotifier(client, cfg.NotifyQueuePrefix), func() {
		if err := client.Close(); err != nil {
			logger.Error("Error closing redis client", slog.String("error", err.Error()))
		}
	}, nil
}
