package connection

import (
	"context"
	"fmt"
	"time"

	dbMonitoring "github.com/Jacobbrewer1/warden/pkg/dataaccess/monitoring"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// Redis holds the settings for a Redis connection.
type Redis struct {
	// URL is a redis:// or rediss:// connection URL.
	URL string
}

// PingRedis checks the client can reach the server.
func PingRedis(ctx context.Context, client *redis.Client) error {
	t := prometheus.NewTimer(dbMonitoring.RedisLatency.WithLabelValues("health_check", "ping"))
	defer t.ObserveDuration()
	dbMonitoring.RedisTotalRequests.WithLabelValues("health_check", "ping").Inc()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("error pinging redis: %w", err)
	}
	return nil
}

// Connect opens a client and verifies it with a ping.
func (r *Redis) Connect(ctx context.Context) (*redis.Client, error) {
	opts, err := redis.ParseURL(r.URL)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := PingRedis(pingCtx, client); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
