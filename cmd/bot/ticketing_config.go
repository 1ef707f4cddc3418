package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/tickets"
)

// ticketingCmdController routes the ticketing configuration sub commands.
func ticketingCmdController(ctx context.Context, a *App, i *discordgo.InteractionCreate) error {
	sub, opts := commandOptions(i)
	switch sub {
	case categoryCmdName:
		return setTicketCategory(ctx, a, i, optionID(opts, channelOption))
	case transcriptsCmdName:
		return setTranscriptChannel(ctx, a, i, optionID(opts, channelOption))
	case addRoleSubCmdName:
		return addSupportRole(ctx, a, i, optionID(opts, roleOption))
	case removeRoleSubName:
		roleID := optionID(opts, roleOption)
		if roleID == "" {
			roleID = strings.TrimSpace(optionString(opts, roleIDOption, ""))
		}
		if roleID == "" {
			return respondEphemeral(a, i, "Provide a role or a role ID.")
		}
		return removeSupportRole(ctx, a, i, roleID)
	case panelCmdName:
		return postTicketPanel(ctx, a, i, entities.EntryMode(optionString(opts, modeOption, string(entities.EntryModeButton))))
	case configCmdName:
		return showTicketConfig(ctx, a, i)
	default:
		return fmt.Errorf("unhandled sub command %s", sub)
	}
}

func setTicketCategory(ctx context.Context, a *App, i *discordgo.InteractionCreate, channelID string) error {
	ch, err := a.platform.Channel(ctx, channelID)
	if err != nil {
		return err
	}
	if ch.Type != discordgo.ChannelTypeGuildCategory {
		return respondEphemeral(a, i, "You must provide a category for tickets.")
	}

	if _, err := a.configs.Update(ctx, i.GuildID, func(cfg *entities.GuildTicketConfig) error {
		cfg.TicketCategoryID = ch.ID
		return nil
	}); err != nil {
		return fmt.Errorf("error saving ticket category: %w", err)
	}
	return respondEphemeral(a, i, fmt.Sprintf("Ticket category set to **%s**", ch.Name))
}

func setTranscriptChannel(ctx context.Context, a *App, i *discordgo.InteractionCreate, channelID string) error {
	ch, err := a.platform.Channel(ctx, channelID)
	if err != nil {
		return err
	}
	if ch.Type != discordgo.ChannelTypeGuildText {
		return respondEphemeral(a, i, "You must provide a text channel for transcripts.")
	}

	if _, err := a.configs.Update(ctx, i.GuildID, func(cfg *entities.GuildTicketConfig) error {
		cfg.TranscriptChannelID = ch.ID
		return nil
	}); err != nil {
		return fmt.Errorf("error saving transcript channel: %w", err)
	}
	return respondEphemeral(a, i, fmt.Sprintf("Transcript channel set to <#%s>", ch.ID))
}

func addSupportRole(ctx context.Context, a *App, i *discordgo.InteractionCreate, roleID string) error {
	added := false
	if _, err := a.configs.Update(ctx, i.GuildID, func(cfg *entities.GuildTicketConfig) error {
		added = cfg.AddSupportRole(roleID)
		return nil
	}); err != nil {
		return fmt.Errorf("error saving support role: %w", err)
	}

	if !added {
		return respondEphemeral(a, i, fmt.Sprintf("<@&%s> is already a support role", roleID))
	}
	return respondEphemeral(a, i, fmt.Sprintf("Added <@&%s> to support roles", roleID))
}

func removeSupportRole(ctx context.Context, a *App, i *discordgo.InteractionCreate, roleID string) error {
	removed := false
	if _, err := a.configs.Update(ctx, i.GuildID, func(cfg *entities.GuildTicketConfig) error {
		removed = cfg.RemoveSupportRole(roleID)
		return nil
	}); err != nil {
		return fmt.Errorf("error saving support roles: %w", err)
	}

	if !removed {
		return respondEphemeral(a, i, fmt.Sprintf("<@&%s> is not a support role", roleID))
	}
	return respondEphemeral(a, i, fmt.Sprintf("Removed <@&%s> from support roles", roleID))
}

// postTicketPanel posts the entry point of the mode in the current channel and records the mode.
func postTicketPanel(ctx context.Context, a *App, i *discordgo.InteractionCreate, mode entities.EntryMode) error {
	if !mode.Valid() {
		return respondEphemeral(a, i, "Unknown panel mode.")
	}

	if _, err := a.platform.SendMessage(ctx, i.ChannelID, tickets.EntryPanel(mode)); err != nil {
		return fmt.Errorf("error sending ticket panel: %w", err)
	}

	if _, err := a.configs.Update(ctx, i.GuildID, func(cfg *entities.GuildTicketConfig) error {
		cfg.EntryMode = mode
		return nil
	}); err != nil {
		return fmt.Errorf("error saving entry mode: %w", err)
	}
	return respondEphemeral(a, i, "Ticket panel created!")
}

func showTicketConfig(ctx context.Context, a *App, i *discordgo.InteractionCreate) error {
	cfg, err := a.configs.Load(ctx, i.GuildID)
	if err != nil {
		return fmt.Errorf("error loading ticket config: %w", err)
	}

	stale, err := a.tickets.StaleSupportRoles(ctx, cfg)
	if err != nil {
		return err
	}

	issued, err := a.stores.Counters.Current(ctx, i.GuildID)
	if err != nil {
		return fmt.Errorf("error loading ticket counter: %w", err)
	}

	return respondEmbed(a, i, configEmbed(cfg, stale, issued), true)
}

func configEmbed(cfg *entities.GuildTicketConfig, stale []string, issued int64) *discordgo.MessageEmbed {
	mention := func(format, id string) string {
		if id == "" {
			return "Not set"
		}
		return fmt.Sprintf(format, id)
	}

	roles := "None"
	if len(cfg.SupportRoleIDs) > 0 {
		mentions := make([]string, 0, len(cfg.SupportRoleIDs))
		for _, id := range cfg.SupportRoleIDs {
			mentions = append(mentions, fmt.Sprintf("<@&%s>", id))
		}
		roles = strings.Join(mentions, " ")
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Category", Value: mention("<#%s>", cfg.TicketCategoryID), Inline: true},
		{Name: "Transcripts", Value: mention("<#%s>", cfg.TranscriptChannelID), Inline: true},
		{Name: "Panel", Value: string(cfg.EntryMode), Inline: true},
		{Name: "Support roles", Value: roles},
		{Name: "Tickets issued", Value: fmt.Sprintf("%d", issued), Inline: true},
	}

	if len(stale) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Deleted support roles",
			Value: strings.Join(stale, ", ") + "\nRemove them with `/ticketing remove_role role_id:<id>`.",
		})
	}

	return &discordgo.MessageEmbed{
		Title:  "Ticket configuration",
		Fields: fields,
	}
}
