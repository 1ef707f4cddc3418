package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/discord"
	"github.com/stretchr/testify/require"
)

// fakePlatform records every mutating call.
type fakePlatform struct {
	guild    *discordgo.Guild
	members  map[string]*discordgo.Member
	users    map[string]*discordgo.User
	messages []*discordgo.Message
	calls    []string
	deleted  []string
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		guild: &discordgo.Guild{
			ID:      "guild",
			OwnerID: "owner",
			Roles: []*discordgo.Role{
				{ID: "guild", Name: "@everyone", Position: 0},
				{ID: "member", Name: "Member", Position: 1},
				{ID: "mod", Name: "Moderator", Position: 5},
				{ID: "bot", Name: "Bot", Position: 10},
				{ID: "admin", Name: "Admin", Position: 20},
			},
		},
		members: map[string]*discordgo.Member{
			"owner":  {User: &discordgo.User{ID: "owner"}},
			"bot-1":  {User: &discordgo.User{ID: "bot-1"}, Roles: []string{"bot"}},
			"mod-1":  {User: &discordgo.User{ID: "mod-1"}, Roles: []string{"mod"}},
			"user-1": {User: &discordgo.User{ID: "user-1"}, Roles: []string{"member"}},
			"boss":   {User: &discordgo.User{ID: "boss"}, Roles: []string{"admin"}},
		},
		users: map[string]*discordgo.User{
			"123456789": {ID: "123456789", Username: "banned"},
		},
	}
}

func (f *fakePlatform) Guild(context.Context, string) (*discordgo.Guild, error) {
	return f.guild, nil
}

func (f *fakePlatform) Member(_ context.Context, _, userID string) (*discordgo.Member, error) {
	m, ok := f.members[userID]
	if !ok {
		return nil, fmt.Errorf("get member: %w", discord.ErrNotFound)
	}
	return m, nil
}

func (f *fakePlatform) User(_ context.Context, userID string) (*discordgo.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, fmt.Errorf("get user: %w", discord.ErrNotFound)
	}
	return u, nil
}

func (f *fakePlatform) BotUserID() string { return "bot-1" }

func (f *fakePlatform) AddMemberRole(_ context.Context, _, userID, roleID string) error {
	f.calls = append(f.calls, "add_role:"+userID+":"+roleID)
	return nil
}

func (f *fakePlatform) RemoveMemberRole(_ context.Context, _, userID, roleID string) error {
	f.calls = append(f.calls, "remove_role:"+userID+":"+roleID)
	return nil
}

func (f *fakePlatform) Kick(_ context.Context, _, userID, _ string) error {
	f.calls = append(f.calls, "kick:"+userID)
	return nil
}

func (f *fakePlatform) Ban(_ context.Context, _, userID, _ string) error {
	f.calls = append(f.calls, "ban:"+userID)
	return nil
}

func (f *fakePlatform) Unban(_ context.Context, _, userID string) error {
	f.calls = append(f.calls, "unban:"+userID)
	return nil
}

func (f *fakePlatform) Timeout(_ context.Context, _, userID string, _ time.Time) error {
	f.calls = append(f.calls, "timeout:"+userID)
	return nil
}

func (f *fakePlatform) ChannelMessages(_ context.Context, _ string, limit int, _ string) ([]*discordgo.Message, error) {
	if limit > len(f.messages) {
		limit = len(f.messages)
	}
	return f.messages[:limit], nil
}

func (f *fakePlatform) DeleteMessages(_ context.Context, _ string, ids []string) error {
	f.deleted = append(f.deleted, ids...)
	return nil
}

func newTestModerator(p *fakePlatform) *Moderator {
	m := NewModerator(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})), p)
	m.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return m
}

func TestRank(t *testing.T) {
	p := newFakePlatform()
	require.Equal(t, OwnerRank, Rank(p.guild, p.members["owner"]))
	require.Equal(t, 20, Rank(p.guild, p.members["boss"]))
	require.Equal(t, 1, Rank(p.guild, p.members["user-1"]))
	require.Equal(t, 0, Rank(p.guild, &discordgo.Member{User: &discordgo.User{ID: "x"}, Roles: []string{"deleted"}}))
}

func TestModerator_RankedActions(t *testing.T) {
	tests := []struct {
		name    string
		actor   string
		target  string
		wantErr error
	}{
		{name: "moderator on member", actor: "mod-1", target: "user-1"},
		{name: "owner on moderator", actor: "owner", target: "mod-1"},
		{name: "target above bot", actor: "owner", target: "boss", wantErr: ErrInsufficientRank},
		{name: "target is owner", actor: "boss", target: "owner", wantErr: ErrInsufficientRank},
		{name: "target is bot", actor: "owner", target: "bot-1", wantErr: ErrInsufficientRank},
		{name: "target equals actor", actor: "mod-1", target: "mod-1", wantErr: ErrInsufficientRank},
		{name: "target not a member", actor: "mod-1", target: "ghost", wantErr: ErrMemberNotFound},
	}

	actions := map[string]func(m *Moderator, a Action) error{
		"kick": func(m *Moderator, a Action) error { return m.Kick(context.Background(), a) },
		"ban":  func(m *Moderator, a Action) error { return m.Ban(context.Background(), a) },
		"timeout": func(m *Moderator, a Action) error {
			_, err := m.Timeout(context.Background(), a, 10)
			return err
		},
	}

	for name, action := range actions {
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				p := newFakePlatform()
				m := newTestModerator(p)

				err := action(m, Action{GuildID: "guild", ActorID: tt.actor, TargetID: tt.target})
				if tt.wantErr != nil {
					require.ErrorIs(t, err, tt.wantErr)
					require.Empty(t, p.calls)
					return
				}
				require.NoError(t, err)
				require.Equal(t, []string{name + ":" + tt.target}, p.calls)
			})
		}
	}
}

func TestModerator_Timeout(t *testing.T) {
	p := newFakePlatform()
	m := newTestModerator(p)
	a := Action{GuildID: "guild", ActorID: "mod-1", TargetID: "user-1"}

	for _, minutes := range []int{0, -5, MaxTimeoutMinutes + 1} {
		_, err := m.Timeout(context.Background(), a, minutes)
		require.ErrorIs(t, err, ErrInvalidDuration)
	}
	require.Empty(t, p.calls)

	until, err := m.Timeout(context.Background(), a, 90)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 1, 13, 30, 0, 0, time.UTC), until)
}

func TestModerator_Roles(t *testing.T) {
	tests := []struct {
		name    string
		add     bool
		actor   string
		target  string
		role    string
		wantErr error
	}{
		{name: "grant held role", add: true, actor: "mod-1", target: "user-1", role: "member", wantErr: ErrRoleAlreadyAssigned},
		{name: "grant new", add: true, actor: "owner", target: "user-1", role: "mod"},
		{name: "grant above bot", add: true, actor: "owner", target: "user-1", role: "admin", wantErr: ErrInsufficientRank},
		{name: "grant above actor", add: true, actor: "mod-1", target: "user-1", role: "mod", wantErr: ErrInsufficientRank},
		{name: "grant missing role", add: true, actor: "owner", target: "user-1", role: "gone", wantErr: ErrRoleNotFound},
		{name: "revoke", actor: "mod-1", target: "user-1", role: "member"},
		{name: "revoke not held", actor: "owner", target: "user-1", role: "mod", wantErr: ErrRoleNotAssigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newFakePlatform()
			m := newTestModerator(p)
			a := Action{GuildID: "guild", ActorID: tt.actor, TargetID: tt.target}

			var (
				role *discordgo.Role
				err  error
			)
			if tt.add {
				role, err = m.AddRole(context.Background(), a, tt.role)
			} else {
				role, err = m.RemoveRole(context.Background(), a, tt.role)
			}

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Empty(t, p.calls)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.role, role.ID)
			require.Len(t, p.calls, 1)
		})
	}
}

func TestModerator_Unban(t *testing.T) {
	p := newFakePlatform()
	m := newTestModerator(p)

	_, err := m.Unban(context.Background(), "guild", "mod-1", "not-an-id")
	require.ErrorIs(t, err, ErrInvalidUserID)

	_, err = m.Unban(context.Background(), "guild", "mod-1", "987654321")
	require.ErrorIs(t, err, ErrUserNotFound)
	require.Empty(t, p.calls)

	u, err := m.Unban(context.Background(), "guild", "mod-1", "123456789")
	require.NoError(t, err)
	require.Equal(t, "banned", u.Username)
	require.Equal(t, []string{"unban:123456789"}, p.calls)
}

func TestModerator_Purge(t *testing.T) {
	p := newFakePlatform()
	m := newTestModerator(p)
	now := m.now()

	p.messages = []*discordgo.Message{
		{ID: "new", Timestamp: now.Add(-time.Minute)},
		{ID: "week", Timestamp: now.Add(-7 * 24 * time.Hour)},
		{ID: "old", Timestamp: now.Add(-15 * 24 * time.Hour)},
	}

	for _, amount := range []int{0, MaxPurge + 1} {
		_, _, err := m.Purge(context.Background(), "chan", amount)
		require.ErrorIs(t, err, ErrInvalidAmount)
	}

	deleted, skipped, err := m.Purge(context.Background(), "chan", 3)
	require.NoError(t, err)
	require.Equal(t, 2, deleted)
	require.Equal(t, 1, skipped)
	require.Equal(t, []string{"new", "week"}, p.deleted)
}

func TestModerator_Purge_FewerMessagesThanRequested(t *testing.T) {
	p := newFakePlatform()
	m := newTestModerator(p)
	now := m.now()

	p.messages = []*discordgo.Message{
		{ID: "a", Timestamp: now.Add(-time.Minute)},
		{ID: "b", Timestamp: now.Add(-time.Hour)},
	}

	deleted, skipped, err := m.Purge(context.Background(), "chan", 50)
	require.NoError(t, err)
	require.Equal(t, 2, deleted)
	require.Zero(t, skipped)
}
