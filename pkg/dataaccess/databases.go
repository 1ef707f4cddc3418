package dataaccess

import (
	"context"
	"errors"

	"github.com/Jacobbrewer1/warden/pkg/entities"
)

const (
	// BackendMongo stores state in MongoDB.
	BackendMongo = "mongo"

	// BackendRedis stores state in Redis.
	BackendRedis = "redis"

	// BackendFile stores state in flat JSON files.
	BackendFile = "file"
)

// ErrMalformedState is returned when persisted state cannot be decoded.
var ErrMalformedState = errors.New("malformed persisted state")

// ConfigStore persists the ticket configuration of each guild.
type ConfigStore interface {
	// Load returns the configuration of the guild, or the default one if none was saved.
	Load(ctx context.Context, guildID string) (*entities.GuildTicketConfig, error)

	// Save overwrites the configuration of the guild.
	Save(ctx context.Context, cfg *entities.GuildTicketConfig) error
}

// CounterStore persists the ticket sequence of each guild.
type CounterStore interface {
	// Next increments the counter of the guild and returns the new value.
	// Concurrent calls never return the same value.
	Next(ctx context.Context, guildID string) (int64, error)

	// Current returns the last value issued for the guild.
	Current(ctx context.Context, guildID string) (int64, error)
}

// Stores is the opened persistence layer.
type Stores struct {
	// Backend is the name of the backend in use.
	Backend string

	// Configs is the guild configuration store.
	Configs ConfigStore

	// Counters is the ticket counter store.
	Counters CounterStore

	// Ping checks that the backend is reachable.
	Ping func(ctx context.Context) error

	// Close releases the backend.
	Close func(ctx context.Context) error
}
