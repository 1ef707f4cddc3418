package main

import (
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/logging"
)

// readyHandler registers the commands of every guild the bot is in when the session is ready.
func (a *App) readyHandler() func(s *discordgo.Session, r *discordgo.Ready) {
	return func(_ *discordgo.Session, r *discordgo.Ready) {
		a.Info(fmt.Sprintf("Logged in as %s", r.User.String()))

		for _, g := range r.Guilds {
			a.guilds.Add(g.ID)
			if err := a.registerCommands(g.ID); err != nil {
				a.Error("Error registering commands",
					slog.String(logging.KeyGuildID, g.ID),
					slog.String(logging.KeyError, err.Error()),
				)
			}
		}
		TotalDiscordGuilds.Set(float64(a.guilds.Cardinality()))
	}
}

// guildJoinedHandler registers the commands of guilds joined after the session became ready.
// Guilds announced at startup were already handled by the ready handler.
func (a *App) guildJoinedHandler() func(s *discordgo.Session, g *discordgo.GuildCreate) {
	return func(_ *discordgo.Session, g *discordgo.GuildCreate) {
		if !a.guilds.Add(g.ID) {
			return
		}

		a.Info(fmt.Sprintf("Joined guild %s", g.Name), slog.String(logging.KeyGuildID, g.ID))
		TotalDiscordGuilds.Inc()

		if err := a.registerCommands(g.ID); err != nil {
			a.Error("Error registering commands",
				slog.String(logging.KeyGuildID, g.ID),
				slog.String(logging.KeyError, err.Error()),
			)
		}
	}
}

func (a *App) guildLeaveHandler() func(s *discordgo.Session, g *discordgo.GuildDelete) {
	return func(_ *discordgo.Session, g *discordgo.GuildDelete) {
		// Outages also delete guilds, the bot is still a member.
		if g.Unavailable {
			return
		}

		a.Info("Left guild", slog.String(logging.KeyGuildID, g.ID))
		if a.guilds.Contains(g.ID) {
			a.guilds.Remove(g.ID)
			TotalDiscordGuilds.Dec()
		}
	}
}

// registerCommands overwrites the slash commands of the guild with the current command table.
func (a *App) registerCommands(guildID string) error {
	defs := make([]*discordgo.ApplicationCommand, 0, len(a.commands))
	for _, c := range a.commands {
		defs = append(defs, c.def)
	}

	if _, err := a.s.ApplicationCommandBulkOverwrite(a.cfg.ApplicationID, guildID, defs); err != nil {
		return fmt.Errorf("error overwriting commands for guild %s: %w", guildID, err)
	}
	a.Debug("Registered commands", slog.String(logging.KeyGuildID, guildID), slog.Int("commands", len(defs)))
	return nil
}
