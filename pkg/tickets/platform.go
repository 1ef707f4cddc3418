package tickets

import (
	"context"

	"github.com/Jacobbrewer1/discordgo"
)

// Platform is the part of the chat platform the ticket lifecycle needs.
// Lookups of objects that no longer exist return an error wrapping discord.ErrNotFound.
type Platform interface {
	// Channel returns the channel or category.
	Channel(ctx context.Context, channelID string) (*discordgo.Channel, error)

	// GuildRoles returns the live roles of the guild.
	GuildRoles(ctx context.Context, guildID string) ([]*discordgo.Role, error)

	// CreateChannel creates a channel in the guild.
	CreateChannel(ctx context.Context, guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error)

	// SendMessage posts a message to the channel.
	SendMessage(ctx context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error)

	// ChannelMessages returns up to limit messages older than beforeID (or the latest when
	// empty), newest first.
	ChannelMessages(ctx context.Context, channelID string, limit int, beforeID string) ([]*discordgo.Message, error)

	// DeleteChannel deletes the channel.
	DeleteChannel(ctx context.Context, channelID string) error
}
