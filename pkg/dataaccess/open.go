package dataaccess

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/warden/pkg/dataaccess/connection"
)

// Options selects and configures the persistence backend.
type Options struct {
	// Backend is one of BackendMongo, BackendRedis or BackendFile.
	Backend string

	// MongoURI is the MongoDB connection string.
	MongoURI string

	// MongoDatabase is the MongoDB database name.
	MongoDatabase string

	// RedisURL is the Redis connection URL.
	RedisURL string

	// DataDir is the directory of the state files.
	DataDir string

	// LegacyGuildID is the guild that adopts single-guild state files.
	LegacyGuildID string
}

// Open connects the configured backend.
func Open(ctx context.Context, l *slog.Logger, opts Options) (*Stores, error) {
	switch opts.Backend {
	case BackendMongo:
		mongoConn := &connection.MongoDB{ConnectionString: opts.MongoURI}
		client, err := mongoConn.Connect(ctx)
		if err != nil {
			return nil, err
		}

		if err := EnsureIndexes(ctx, client, opts.MongoDatabase); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}

		l.Debug("Connected to MongoDB", slog.String("database", opts.MongoDatabase))
		return &Stores{
			Backend:  BackendMongo,
			Configs:  NewMongoConfigStore(l, client, opts.MongoDatabase),
			Counters: NewMongoCounterStore(l, client, opts.MongoDatabase),
			Ping: func(ctx context.Context) error {
				return connection.Ping(ctx, client)
			},
			Close: client.Disconnect,
		}, nil

	case BackendRedis:
		redisConn := &connection.Redis{URL: opts.RedisURL}
		client, err := redisConn.Connect(ctx)
		if err != nil {
			return nil, err
		}

		l.Debug("Connected to Redis")
		store := NewRedisStore(l, client)
		return &Stores{
			Backend:  BackendRedis,
			Configs:  store,
			Counters: store,
			Ping: func(ctx context.Context) error {
				return connection.PingRedis(ctx, client)
			},
			Close: func(context.Context) error {
				return client.Close()
			},
		}, nil

	case BackendFile:
		store, err := OpenFileStore(l, opts.DataDir, opts.LegacyGuildID)
		if err != nil {
			return nil, err
		}

		return &Stores{
			Backend:  BackendFile,
			Configs:  store,
			Counters: store,
			Ping:     func(context.Context) error { return nil },
			Close:    func(context.Context) error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
