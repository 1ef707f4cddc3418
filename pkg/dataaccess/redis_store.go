package dataaccess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/warden/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

const (
	redisDalName = "redis_store"

	redisConfigKeyPrefix  = "warden:ticket_config:"
	redisCounterKeyPrefix = "warden:ticket_counter:"
)

// RedisStore keeps one JSON document per guild config and one integer per guild counter.
type RedisStore struct {
	// l is the logger.
	l *slog.Logger

	// client is the redis client.
	client *redis.Client
}

// NewRedisStore creates a store backed by Redis.
func NewRedisStore(l *slog.Logger, client *redis.Client) *RedisStore {
	return &RedisStore{
		l:      l.With(slog.String(logging.KeyDal, redisDalName)),
		client: client,
	}
}

func observeRedis(query string) func() {
	monitoring.RedisTotalRequests.WithLabelValues(redisDalName, query).Inc()
	t := prometheus.NewTimer(monitoring.RedisLatency.WithLabelValues(redisDalName, query))
	return func() { t.ObserveDuration() }
}

func (s *RedisStore) Load(ctx context.Context, guildID string) (*entities.GuildTicketConfig, error) {
	defer observeRedis("get_ticket_config")()

	raw, err := s.client.Get(ctx, redisConfigKeyPrefix+guildID).Bytes()
	if errors.Is(err, redis.Nil) {
		return entities.NewGuildTicketConfig(guildID), nil
	} else if err != nil {
		return nil, fmt.Errorf("error getting ticket config: %w", err)
	}

	cfg := new(entities.GuildTicketConfig)
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("%w: ticket config for guild %s: %w", ErrMalformedState, guildID, err)
	}
	cfg.Normalize(guildID)
	return cfg, nil
}

func (s *RedisStore) Save(ctx context.Context, cfg *entities.GuildTicketConfig) error {
	defer observeRedis("save_ticket_config")()

	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error encoding ticket config: %w", err)
	}

	if err := s.client.Set(ctx, redisConfigKeyPrefix+cfg.GuildID, raw, 0).Err(); err != nil {
		return fmt.Errorf("error saving ticket config: %w", err)
	}
	return nil
}

// Next uses INCR, which is atomic on the server.
func (s *RedisStore) Next(ctx context.Context, guildID string) (int64, error) {
	defer observeRedis("next_ticket_number")()

	n, err := s.client.Incr(ctx, redisCounterKeyPrefix+guildID).Result()
	if err != nil {
		return 0, fmt.Errorf("error incrementing ticket counter: %w", err)
	}
	return n, nil
}

func (s *RedisStore) Current(ctx context.Context, guildID string) (int64, error) {
	defer observeRedis("get_ticket_counter")()

	n, err := s.client.Get(ctx, redisCounterKeyPrefix+guildID).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	} else if err != nil {
		return 0, fmt.Errorf("error getting ticket counter: %w", err)
	}
	return n, nil
}
