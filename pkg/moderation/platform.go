package moderation

import (
	"context"
	"time"

	"github.com/Jacobbrewer1/discordgo"
)

// Platform is the part of the chat platform the moderation actions need.
// Lookups of objects that no longer exist return an error wrapping discord.ErrNotFound.
type Platform interface {
	// Guild returns the guild with its roles and owner.
	Guild(ctx context.Context, guildID string) (*discordgo.Guild, error)

	// Member returns a guild member.
	Member(ctx context.Context, guildID, userID string) (*discordgo.Member, error)

	// User returns a user, member of the guild or not.
	User(ctx context.Context, userID string) (*discordgo.User, error)

	// BotUserID is the user ID the bot acts as.
	BotUserID() string

	AddMemberRole(ctx context.Context, guildID, userID, roleID string) error
	RemoveMemberRole(ctx context.Context, guildID, userID, roleID string) error
	Kick(ctx context.Context, guildID, userID, reason string) error
	Ban(ctx context.Context, guildID, userID, reason string) error
	Unban(ctx context.Context, guildID, userID string) error
	Timeout(ctx context.Context, guildID, userID string, until time.Time) error

	// ChannelMessages returns up to limit messages older than beforeID, newest first.
	ChannelMessages(ctx context.Context, channelID string, limit int, beforeID string) ([]*discordgo.Message, error)

	// DeleteMessages deletes the messages from the channel.
	DeleteMessages(ctx context.Context, channelID string, messageIDs []string) error
}
