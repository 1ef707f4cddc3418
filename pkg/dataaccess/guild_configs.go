package dataaccess

import (
	"context"
	"fmt"
	"sync"

	"github.com/Jacobbrewer1/warden/pkg/entities"
)

// GuildConfigs serializes every load-modify-save sequence against a ConfigStore.
type GuildConfigs struct {
	mut   sync.Mutex
	store ConfigStore
}

// NewGuildConfigs wraps the store.
func NewGuildConfigs(store ConfigStore) *GuildConfigs {
	return &GuildConfigs{
		store: store,
	}
}

// Load returns the configuration of the guild.
func (g *GuildConfigs) Load(ctx context.Context, guildID string) (*entities.GuildTicketConfig, error) {
	g.mut.Lock()
	defer g.mut.Unlock()

	return g.store.Load(ctx, guildID)
}

// Update loads the configuration, applies fn and saves the result. Nothing is saved when fn
// returns an error, and that error is returned as is.
func (g *GuildConfigs) Update(ctx context.Context, guildID string, fn func(cfg *entities.GuildTicketConfig) error) (*entities.GuildTicketConfig, error) {
	g.mut.Lock()
	defer g.mut.Unlock()

	cfg, err := g.store.Load(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("error loading ticket config: %w", err)
	}

	if err := fn(cfg); err != nil {
		return nil, err
	}

	cfg.GuildID = guildID
	if err := g.store.Save(ctx, cfg); err != nil {
		return nil, fmt.Errorf("error saving ticket config: %w", err)
	}
	return cfg, nil
}
