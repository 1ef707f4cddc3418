package discord

import (
	"context"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"golang.org/x/time/rate"
)

// historyPageInterval paces consecutive history page requests so a large transcript does not
// exhaust the channel's message bucket.
const historyPageInterval = 250 * time.Millisecond

// Session adapts a discordgo session to the narrow contracts used by the ticket and
// moderation packages.
type Session struct {
	// s is the discord session.
	s *discordgo.Session

	// history limits message history requests.
	history *rate.Limiter
}

// NewSession wraps the discord session.
func NewSession(s *discordgo.Session) *Session {
	return &Session{
		s:       s,
		history: rate.NewLimiter(rate.Every(historyPageInterval), 2),
	}
}

// Raw returns the wrapped discord session.
func (a *Session) Raw() *discordgo.Session {
	return a.s
}

func (a *Session) Channel(_ context.Context, channelID string) (*discordgo.Channel, error) {
	ch, err := a.s.Channel(channelID)
	if err != nil {
		return nil, wrap(err, "error getting channel "+channelID)
	}
	return ch, nil
}

func (a *Session) GuildRoles(_ context.Context, guildID string) ([]*discordgo.Role, error) {
	roles, err := a.s.GuildRoles(guildID)
	if err != nil {
		return nil, wrap(err, "error getting guild roles")
	}
	return roles, nil
}

func (a *Session) CreateChannel(_ context.Context, guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	ch, err := a.s.GuildChannelCreateComplex(guildID, data)
	if err != nil {
		return nil, wrap(err, "error creating channel")
	}
	return ch, nil
}

func (a *Session) SendMessage(_ context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	m, err := a.s.ChannelMessageSendComplex(channelID, msg)
	if err != nil {
		return nil, wrap(err, "error sending message")
	}
	return m, nil
}

// ChannelMessages returns up to limit messages older than beforeID, newest first.
func (a *Session) ChannelMessages(ctx context.Context, channelID string, limit int, beforeID string) ([]*discordgo.Message, error) {
	if err := a.history.Wait(ctx); err != nil {
		return nil, err
	}

	msgs, err := a.s.ChannelMessages(channelID, limit, beforeID, "", "")
	if err != nil {
		return nil, wrap(err, "error getting channel messages")
	}
	return msgs, nil
}

func (a *Session) DeleteChannel(_ context.Context, channelID string) error {
	if _, err := a.s.ChannelDelete(channelID); err != nil {
		return wrap(err, "error deleting channel")
	}
	return nil
}

func (a *Session) DeleteMessages(_ context.Context, channelID string, messageIDs []string) error {
	switch len(messageIDs) {
	case 0:
		return nil
	case 1:
		// Bulk delete refuses a single message.
		return wrap(a.s.ChannelMessageDelete(channelID, messageIDs[0]), "error deleting message")
	default:
		return wrap(a.s.ChannelMessagesBulkDelete(channelID, messageIDs), "error bulk deleting messages")
	}
}

func (a *Session) Guild(_ context.Context, guildID string) (*discordgo.Guild, error) {
	g, err := a.s.Guild(guildID)
	if err != nil {
		return nil, wrap(err, "error getting guild")
	}
	return g, nil
}

func (a *Session) Member(_ context.Context, guildID, userID string) (*discordgo.Member, error) {
	m, err := a.s.GuildMember(guildID, userID)
	if err != nil {
		return nil, wrap(err, "error getting member "+userID)
	}
	return m, nil
}

func (a *Session) User(_ context.Context, userID string) (*discordgo.User, error) {
	u, err := a.s.User(userID)
	if err != nil {
		return nil, wrap(err, "error getting user "+userID)
	}
	return u, nil
}

// BotUserID returns the ID of the logged in bot user, empty before the session is ready.
func (a *Session) BotUserID() string {
	if a.s.State == nil || a.s.State.User == nil {
		return ""
	}
	return a.s.State.User.ID
}

func (a *Session) AddMemberRole(_ context.Context, guildID, userID, roleID string) error {
	return wrap(a.s.GuildMemberRoleAdd(guildID, userID, roleID), "error adding role")
}

func (a *Session) RemoveMemberRole(_ context.Context, guildID, userID, roleID string) error {
	return wrap(a.s.GuildMemberRoleRemove(guildID, userID, roleID), "error removing role")
}

func (a *Session) Kick(_ context.Context, guildID, userID, reason string) error {
	return wrap(a.s.GuildMemberDeleteWithReason(guildID, userID, reason), "error kicking member")
}

func (a *Session) Ban(_ context.Context, guildID, userID, reason string) error {
	return wrap(a.s.GuildBanCreateWithReason(guildID, userID, reason, 0), "error banning member")
}

func (a *Session) Unban(_ context.Context, guildID, userID string) error {
	return wrap(a.s.GuildBanDelete(guildID, userID), "error removing ban")
}

func (a *Session) Timeout(_ context.Context, guildID, userID string, until time.Time) error {
	return wrap(a.s.GuildMemberTimeout(guildID, userID, &until), "error timing out member")
}
