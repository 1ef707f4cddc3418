package tickets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/dataaccess"
	"github.com/Jacobbrewer1/warden/pkg/discord"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/logging"
	mapset "github.com/deckarep/golang-set/v2"
)

// ticketAccess is what the requester and support roles may do in a ticket.
const ticketAccess = discordgo.PermissionViewChannel |
	discordgo.PermissionSendMessages |
	discordgo.PermissionReadMessageHistory |
	discordgo.PermissionAttachFiles

// Manager runs the ticket lifecycle: creation, transcript archival and teardown.
type Manager struct {
	// l is the logger.
	l *slog.Logger

	// platform is the chat platform.
	platform Platform

	// configs is the guild ticket configuration.
	configs *dataaccess.GuildConfigs

	// counters issues ticket numbers.
	counters dataaccess.CounterStore

	// now returns the current time.
	now func() time.Time

	// guildLocks holds one *sync.Mutex per guild.
	guildLocks sync.Map
}

// NewManager creates a new ticket lifecycle manager.
func NewManager(l *slog.Logger, platform Platform, configs *dataaccess.GuildConfigs, counters dataaccess.CounterStore) *Manager {
	return &Manager{
		l:        l.With(slog.String("component", "tickets")),
		platform: platform,
		configs:  configs,
		counters: counters,
		now:      time.Now,
	}
}

// lockGuild serializes create and close calls of one guild.
func (m *Manager) lockGuild(guildID string) func() {
	mut, _ := m.guildLocks.LoadOrStore(guildID, new(sync.Mutex))
	mut.(*sync.Mutex).Lock()
	return mut.(*sync.Mutex).Unlock
}

// CreateRequest describes a ticket to open.
type CreateRequest struct {
	// GuildID is the guild the ticket is opened in.
	GuildID string

	// RequesterID is the user opening the ticket.
	RequesterID string

	// Category is the ticket type label. Empty means the default category.
	Category string
}

// Create opens a ticket channel for the requester.
//
// The configuration and category are validated before a ticket number is taken, so a
// misconfigured guild consumes no numbers. Once a number is taken it is never given back,
// even if the channel cannot be created.
func (m *Manager) Create(ctx context.Context, req CreateRequest) (*entities.Ticket, error) {
	unlock := m.lockGuild(req.GuildID)
	defer unlock()

	l := m.l.With(
		slog.String(logging.KeyGuildID, req.GuildID),
		slog.String(logging.KeyUserID, req.RequesterID),
	)

	category := req.Category
	if category == "" {
		category = entities.DefaultTicketCategory
	}

	cfg, err := m.configs.Load(ctx, req.GuildID)
	if err != nil {
		return nil, fmt.Errorf("error loading ticket config: %w", err)
	}

	if cfg.TicketCategoryID == "" {
		return nil, ErrConfigurationMissing
	}

	parent, err := m.platform.Channel(ctx, cfg.TicketCategoryID)
	if errors.Is(err, discord.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, cfg.TicketCategoryID)
	} else if err != nil {
		return nil, fmt.Errorf("error getting ticket category: %w", err)
	} else if parent.Type != discordgo.ChannelTypeGuildCategory {
		return nil, fmt.Errorf("%w: %s is not a category", ErrCategoryNotFound, cfg.TicketCategoryID)
	}

	overwrites, err := m.accessList(ctx, l, cfg, req.RequesterID)
	if err != nil {
		return nil, err
	}

	number, err := m.counters.Next(ctx, req.GuildID)
	if err != nil {
		return nil, fmt.Errorf("error getting next ticket number: %w", err)
	}

	ticket := &entities.Ticket{
		Number:      number,
		GuildID:     req.GuildID,
		RequesterID: req.RequesterID,
		Category:    category,
	}

	channel, err := m.platform.CreateChannel(ctx, req.GuildID, discordgo.GuildChannelCreateData{
		Name:                 ticket.Name(),
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                fmt.Sprintf("%s ticket opened by <@%s>", category, req.RequesterID),
		ParentID:             parent.ID,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		TicketOperationFailures.WithLabelValues("create", "create_channel").Inc()
		l.Warn("Ticket number consumed without a channel", slog.Int64("number", number))
		return nil, fmt.Errorf("error creating ticket channel: %w", err)
	}

	ticket.ChannelID = channel.ID

	// The ticket is usable without the notice, it can still be closed by command.
	if _, err := m.platform.SendMessage(ctx, channel.ID, TicketNotice(ticket, m.now())); err != nil {
		TicketOperationFailures.WithLabelValues("create", "send_notice").Inc()
		l.Error("Error sending ticket notice",
			slog.String(logging.KeyChannelID, channel.ID),
			slog.String(logging.KeyError, err.Error()),
		)
	}

	TicketsCreated.WithLabelValues(category).Inc()
	l.Info("Ticket created",
		slog.String("ticket", ticket.Name()),
		slog.String("category", category),
		slog.String(logging.KeyChannelID, channel.ID),
	)
	return ticket, nil
}

// accessList denies everyone, then grants the requester and every configured support role
// that still exists. Stale support roles are skipped and left in the configuration.
func (m *Manager) accessList(ctx context.Context, l *slog.Logger, cfg *entities.GuildTicketConfig, requesterID string) ([]*discordgo.PermissionOverwrite, error) {
	overwrites := []*discordgo.PermissionOverwrite{
		// The @everyone role shares the guild ID.
		{
			ID:   cfg.GuildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:    requesterID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: ticketAccess,
		},
	}

	if len(cfg.SupportRoleIDs) == 0 {
		return overwrites, nil
	}

	roles, err := m.platform.GuildRoles(ctx, cfg.GuildID)
	if err != nil {
		return nil, fmt.Errorf("error getting guild roles: %w", err)
	}

	live := mapset.NewThreadUnsafeSet[string]()
	for _, r := range roles {
		live.Add(r.ID)
	}

	for _, roleID := range cfg.SupportRoleIDs {
		if !live.Contains(roleID) {
			l.Warn("Skipping support role that no longer exists", slog.String("role_id", roleID))
			continue
		}
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    roleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: ticketAccess,
		})
	}
	return overwrites, nil
}

// StaleSupportRoles returns the configured support roles that no longer exist in the guild.
func (m *Manager) StaleSupportRoles(ctx context.Context, cfg *entities.GuildTicketConfig) ([]string, error) {
	if len(cfg.SupportRoleIDs) == 0 {
		return nil, nil
	}

	roles, err := m.platform.GuildRoles(ctx, cfg.GuildID)
	if err != nil {
		return nil, fmt.Errorf("error getting guild roles: %w", err)
	}

	live := mapset.NewThreadUnsafeSet[string]()
	for _, r := range roles {
		live.Add(r.ID)
	}

	stale := make([]string, 0)
	for _, id := range cfg.SupportRoleIDs {
		if !live.Contains(id) {
			stale = append(stale, id)
		}
	}
	return stale, nil
}

// CloseRequest describes a ticket to close.
type CloseRequest struct {
	// GuildID is the guild the ticket is in.
	GuildID string

	// ChannelID is the ticket channel.
	ChannelID string

	// Closer is the user closing the ticket.
	Closer *discordgo.User
}

// CloseResult reports what happened to the transcript of a closed ticket.
type CloseResult struct {
	// Transcript is the transcript captured at closure.
	Transcript *Transcript

	// TranscriptDelivered is true when the transcript reached the archive channel.
	TranscriptDelivered bool

	// DeliveryErr wraps ErrTranscriptDeliveryFailed when delivery was attempted and failed.
	DeliveryErr error
}

// Close archives the ticket's history and deletes the channel.
//
// Transcript delivery problems are reported in the result and never stop the closure.
// Close returns once deletion has been requested.
func (m *Manager) Close(ctx context.Context, req CloseRequest) (*CloseResult, error) {
	channel, err := m.platform.Channel(ctx, req.ChannelID)
	if errors.Is(err, discord.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, req.ChannelID)
	} else if err != nil {
		return nil, fmt.Errorf("error getting ticket channel: %w", err)
	}

	if !entities.IsTicketChannelName(channel.Name) {
		return nil, ErrNotATicketChannel
	}

	unlock := m.lockGuild(req.GuildID)
	defer unlock()

	closerID := ""
	if req.Closer != nil {
		closerID = req.Closer.ID
	}

	l := m.l.With(
		slog.String(logging.KeyGuildID, req.GuildID),
		slog.String(logging.KeyChannelID, channel.ID),
		slog.String(logging.KeyUserID, closerID),
	)

	history, err := fetchHistory(ctx, m.platform, channel.ID)
	if err != nil {
		TicketOperationFailures.WithLabelValues("close", "fetch_history").Inc()
		return nil, err
	}

	transcript := &Transcript{
		ChannelName: channel.Name,
		ClosedBy:    DisplayName(req.Closer),
		ClosedByID:  closerID,
		ClosedAt:    m.now(),
		Messages:    history,
	}
	TranscriptMessages.Observe(float64(len(history)))

	result := &CloseResult{
		Transcript: transcript,
	}

	delivered, err := m.deliverTranscript(ctx, req.GuildID, transcript)
	if err != nil {
		TicketOperationFailures.WithLabelValues("close", "deliver_transcript").Inc()
		result.DeliveryErr = err
		l.Warn("Transcript not delivered, closing anyway", slog.String(logging.KeyError, err.Error()))
	}
	result.TranscriptDelivered = delivered

	if _, err := m.platform.SendMessage(ctx, channel.ID, ClosingNotice(closerID)); err != nil {
		l.Warn("Error announcing ticket closure", slog.String(logging.KeyError, err.Error()))
	}

	if err := m.platform.DeleteChannel(ctx, channel.ID); err != nil {
		TicketOperationFailures.WithLabelValues("close", "delete_channel").Inc()
		return nil, fmt.Errorf("error deleting ticket channel: %w", err)
	}

	TicketsClosed.Inc()
	l.Info("Ticket closed",
		slog.String("ticket", channel.Name),
		slog.Int("messages", len(history)),
		slog.Bool("transcript_delivered", result.TranscriptDelivered),
	)
	return result, nil
}

// deliverTranscript sends the transcript to the archive channel. An unset archive channel is
// not a failure; everything else is reported as ErrTranscriptDeliveryFailed.
func (m *Manager) deliverTranscript(ctx context.Context, guildID string, t *Transcript) (bool, error) {
	cfg, err := m.configs.Load(ctx, guildID)
	if err != nil {
		return false, fmt.Errorf("%w: error loading ticket config: %w", ErrTranscriptDeliveryFailed, err)
	}

	if cfg.TranscriptChannelID == "" {
		return false, nil
	}

	archive, err := m.platform.Channel(ctx, cfg.TranscriptChannelID)
	if errors.Is(err, discord.ErrNotFound) {
		return false, fmt.Errorf("%w: %w: %s", ErrTranscriptDeliveryFailed, ErrChannelNotFound, cfg.TranscriptChannelID)
	} else if err != nil {
		return false, fmt.Errorf("%w: %w", ErrTranscriptDeliveryFailed, err)
	}

	if _, err := m.platform.SendMessage(ctx, archive.ID, TranscriptSummary(t)); err != nil {
		return false, fmt.Errorf("%w: %w", ErrTranscriptDeliveryFailed, err)
	}
	return true, nil
}
