package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/warden/pkg/dataaccess"
	"github.com/Jacobbrewer1/warden/pkg/discord"
	"github.com/Jacobbrewer1/warden/pkg/logging"
	"github.com/Jacobbrewer1/warden/pkg/moderation"
	"github.com/Jacobbrewer1/warden/pkg/tickets"
)

// storeConnectTimeout bounds connecting to the persistence backend at startup.
const storeConnectTimeout = 15 * time.Second

func newLoggingConfig(cfg *AppConfig) (*logging.Config, error) {
	c := logging.NewConfig(AppName)
	if err := c.SetLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	return c, nil
}

// openStores connects the configured backend. Malformed persisted state fails here and stops
// the process.
func openStores(l *slog.Logger, cfg *AppConfig) (*dataaccess.Stores, error) {
	ctx, cancel := context.WithTimeout(context.Background(), storeConnectTimeout)
	defer cancel()

	stores, err := dataaccess.Open(ctx, l, cfg.StoreOptions())
	if err != nil {
		return nil, fmt.Errorf("error opening %s store: %w", cfg.StoreBackend, err)
	}
	return stores, nil
}

func newGuildConfigs(stores *dataaccess.Stores) *dataaccess.GuildConfigs {
	return dataaccess.NewGuildConfigs(stores.Configs)
}

func counterStore(stores *dataaccess.Stores) dataaccess.CounterStore {
	return stores.Counters
}

var (
	_ tickets.Platform    = (*discord.Session)(nil)
	_ moderation.Platform = (*discord.Session)(nil)
)
