package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/discord"
	"github.com/Jacobbrewer1/warden/pkg/logging"
)

const (
	// MaxTimeoutMinutes is the longest timeout the platform accepts (28 days).
	MaxTimeoutMinutes = 40320

	// MaxPurge is the most messages one purge deletes.
	MaxPurge = 100

	// bulkDeleteMaxAge is the age past which the platform refuses bulk deletion.
	bulkDeleteMaxAge = 14 * 24 * time.Hour
)

// Action identifies who acts on whom.
type Action struct {
	// GuildID is the guild the action happens in.
	GuildID string

	// ActorID is the member invoking the action.
	ActorID string

	// TargetID is the member acted upon.
	TargetID string

	// Reason is recorded in the audit log where supported.
	Reason string
}

// Moderator performs moderation actions after checking authority ranks.
type Moderator struct {
	// l is the logger.
	l *slog.Logger

	// platform is the chat platform.
	platform Platform

	// now returns the current time.
	now func() time.Time
}

// NewModerator creates a new moderator.
func NewModerator(l *slog.Logger, platform Platform) *Moderator {
	return &Moderator{
		l:        l.With(slog.String("component", "moderation")),
		platform: platform,
		now:      time.Now,
	}
}

// standing resolves the guild and checks that both the bot and the actor outrank the target.
func (m *Moderator) standing(ctx context.Context, a Action) (*discordgo.Guild, *discordgo.Member, error) {
	guild, err := m.platform.Guild(ctx, a.GuildID)
	if err != nil {
		return nil, nil, fmt.Errorf("error getting guild: %w", err)
	}

	target, err := m.member(ctx, a.GuildID, a.TargetID)
	if err != nil {
		return nil, nil, err
	}

	bot, err := m.member(ctx, a.GuildID, m.platform.BotUserID())
	if err != nil {
		return nil, nil, fmt.Errorf("error getting bot member: %w", err)
	}

	targetRank := Rank(guild, target)
	if targetRank >= Rank(guild, bot) {
		return nil, nil, fmt.Errorf("%w: target is at or above the bot", ErrInsufficientRank)
	}

	if a.ActorID != guild.OwnerID {
		actor, err := m.member(ctx, a.GuildID, a.ActorID)
		if err != nil {
			return nil, nil, fmt.Errorf("error getting acting member: %w", err)
		}
		if targetRank >= Rank(guild, actor) {
			return nil, nil, fmt.Errorf("%w: target is at or above the actor", ErrInsufficientRank)
		}
	}
	return guild, target, nil
}

func (m *Moderator) member(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
	member, err := m.platform.Member(ctx, guildID, userID)
	if errors.Is(err, discord.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, userID)
	} else if err != nil {
		return nil, err
	}
	return member, nil
}

func (m *Moderator) logAction(action string, a Action) {
	m.l.Info("Moderation action",
		slog.String("action", action),
		slog.String(logging.KeyGuildID, a.GuildID),
		slog.String(logging.KeyUserID, a.ActorID),
		slog.String("target_id", a.TargetID),
		slog.String("reason", a.Reason),
	)
}

// Kick removes the target from the guild.
func (m *Moderator) Kick(ctx context.Context, a Action) error {
	if _, _, err := m.standing(ctx, a); err != nil {
		return err
	}
	if err := m.platform.Kick(ctx, a.GuildID, a.TargetID, a.Reason); err != nil {
		return err
	}
	m.logAction("kick", a)
	return nil
}

// Ban bans the target from the guild.
func (m *Moderator) Ban(ctx context.Context, a Action) error {
	if _, _, err := m.standing(ctx, a); err != nil {
		return err
	}
	if err := m.platform.Ban(ctx, a.GuildID, a.TargetID, a.Reason); err != nil {
		return err
	}
	m.logAction("ban", a)
	return nil
}

// Timeout stops the target from talking for the given number of minutes and returns when the
// timeout ends.
func (m *Moderator) Timeout(ctx context.Context, a Action, minutes int) (time.Time, error) {
	if minutes < 1 || minutes > MaxTimeoutMinutes {
		return time.Time{}, fmt.Errorf("%w: %d minutes, must be between 1 and %d", ErrInvalidDuration, minutes, MaxTimeoutMinutes)
	}

	if _, _, err := m.standing(ctx, a); err != nil {
		return time.Time{}, err
	}

	until := m.now().Add(time.Duration(minutes) * time.Minute)
	if err := m.platform.Timeout(ctx, a.GuildID, a.TargetID, until); err != nil {
		return time.Time{}, err
	}
	m.logAction("timeout", a)
	return until, nil
}

// Unban lifts the ban of the user and returns them.
func (m *Moderator) Unban(ctx context.Context, guildID, actorID, userID string) (*discordgo.User, error) {
	if _, err := strconv.ParseUint(userID, 10, 64); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUserID, userID)
	}

	user, err := m.platform.User(ctx, userID)
	if errors.Is(err, discord.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	} else if err != nil {
		return nil, err
	}

	if err := m.platform.Unban(ctx, guildID, userID); err != nil {
		return nil, err
	}
	m.logAction("unban", Action{GuildID: guildID, ActorID: actorID, TargetID: userID})
	return user, nil
}

// AddRole grants the role to the target.
func (m *Moderator) AddRole(ctx context.Context, a Action, roleID string) (*discordgo.Role, error) {
	role, target, err := m.roleStanding(ctx, a, roleID)
	if err != nil {
		return nil, err
	}
	if hasRole(target, roleID) {
		return nil, ErrRoleAlreadyAssigned
	}

	if err := m.platform.AddMemberRole(ctx, a.GuildID, a.TargetID, roleID); err != nil {
		return nil, err
	}
	m.logAction("add_role", a)
	return role, nil
}

// RemoveRole revokes the role from the target.
func (m *Moderator) RemoveRole(ctx context.Context, a Action, roleID string) (*discordgo.Role, error) {
	role, target, err := m.roleStanding(ctx, a, roleID)
	if err != nil {
		return nil, err
	}
	if !hasRole(target, roleID) {
		return nil, ErrRoleNotAssigned
	}

	if err := m.platform.RemoveMemberRole(ctx, a.GuildID, a.TargetID, roleID); err != nil {
		return nil, err
	}
	m.logAction("remove_role", a)
	return role, nil
}

// roleStanding checks that the role exists and sits below both the bot and the actor.
// Members may manage their own roles, so the target itself is not ranked.
func (m *Moderator) roleStanding(ctx context.Context, a Action, roleID string) (*discordgo.Role, *discordgo.Member, error) {
	guild, err := m.platform.Guild(ctx, a.GuildID)
	if err != nil {
		return nil, nil, fmt.Errorf("error getting guild: %w", err)
	}

	role := findRole(guild, roleID)
	if role == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrRoleNotFound, roleID)
	}

	bot, err := m.member(ctx, a.GuildID, m.platform.BotUserID())
	if err != nil {
		return nil, nil, fmt.Errorf("error getting bot member: %w", err)
	}
	if role.Position >= Rank(guild, bot) {
		return nil, nil, fmt.Errorf("%w: role is at or above the bot", ErrInsufficientRank)
	}

	if a.ActorID != guild.OwnerID {
		actor, err := m.member(ctx, a.GuildID, a.ActorID)
		if err != nil {
			return nil, nil, fmt.Errorf("error getting acting member: %w", err)
		}
		if role.Position >= Rank(guild, actor) {
			return nil, nil, fmt.Errorf("%w: role is at or above the actor", ErrInsufficientRank)
		}
	}

	target, err := m.member(ctx, a.GuildID, a.TargetID)
	if err != nil {
		return nil, nil, err
	}
	return role, target, nil
}

// Purge deletes up to amount of the latest messages in the channel. It returns how many were
// deleted and how many were skipped for being older than 14 days.
func (m *Moderator) Purge(ctx context.Context, channelID string, amount int) (deleted, skipped int, err error) {
	if amount < 1 || amount > MaxPurge {
		return 0, 0, fmt.Errorf("%w: %d, must be between 1 and %d", ErrInvalidAmount, amount, MaxPurge)
	}

	msgs, err := m.platform.ChannelMessages(ctx, channelID, amount, "")
	if err != nil {
		return 0, 0, err
	}

	cutoff := m.now().Add(-bulkDeleteMaxAge)
	ids := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		if msg.Timestamp.Before(cutoff) {
			continue
		}
		ids = append(ids, msg.ID)
	}

	skipped = len(msgs) - len(ids)

	if err := m.platform.DeleteMessages(ctx, channelID, ids); err != nil {
		return 0, 0, err
	}

	m.l.Info("Purged messages",
		slog.String(logging.KeyChannelID, channelID),
		slog.Int("requested", amount),
		slog.Int("deleted", len(ids)),
		slog.Int("skipped", skipped),
	)
	return len(ids), skipped, nil
}
