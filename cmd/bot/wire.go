//go:build wireinject
// +build wireinject

package main

import (
	"github.com/Jacobbrewer1/warden/pkg/discord"
	"github.com/Jacobbrewer1/warden/pkg/logging"
	"github.com/Jacobbrewer1/warden/pkg/moderation"
	"github.com/Jacobbrewer1/warden/pkg/tickets"
	"github.com/google/wire"
	"github.com/gorilla/mux"
)

func InitializeApp(cfg *AppConfig) (*App, error) {
	wire.Build(
		newLoggingConfig,
		logging.CommonLogger,
		mux.NewRouter,
		openStores,
		newGuildConfigs,
		counterStore,
		newDiscordSession,
		discord.NewSession,
		wire.Bind(new(tickets.Platform), new(*discord.Session)),
		wire.Bind(new(moderation.Platform), new(*discord.Session)),
		tickets.NewManager,
		moderation.NewModerator,
		NewApp,
	)
	return new(App), nil
}
