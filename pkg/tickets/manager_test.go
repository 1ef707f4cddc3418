package tickets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/dataaccess"
	"github.com/Jacobbrewer1/warden/pkg/discord"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/stretchr/testify/require"
)

const testGuild = "guild-1"

type sentMessage struct {
	channelID string
	msg       *discordgo.MessageSend
	files     map[string]string
}

// fakePlatform is an in-memory guild.
type fakePlatform struct {
	mut sync.Mutex

	channels map[string]*discordgo.Channel
	roles    []*discordgo.Role
	history  map[string][]*discordgo.Message // oldest first

	created []discordgo.GuildChannelCreateData
	sent    []sentMessage
	deleted []string
	pages   int

	createErr error
	sendErr   map[string]error
	nextID    int
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		channels: map[string]*discordgo.Channel{
			"cat-1":     {ID: "cat-1", Name: "Tickets", Type: discordgo.ChannelTypeGuildCategory},
			"archive-1": {ID: "archive-1", Name: "transcripts", Type: discordgo.ChannelTypeGuildText},
			"general":   {ID: "general", Name: "general-chat", Type: discordgo.ChannelTypeGuildText},
		},
		roles: []*discordgo.Role{
			{ID: testGuild, Name: "@everyone"},
			{ID: "support", Name: "Support"},
		},
		history: make(map[string][]*discordgo.Message),
		sendErr: make(map[string]error),
	}
}

func (f *fakePlatform) Channel(_ context.Context, channelID string) (*discordgo.Channel, error) {
	f.mut.Lock()
	defer f.mut.Unlock()
	c, ok := f.channels[channelID]
	if !ok {
		return nil, fmt.Errorf("get channel: %w", discord.ErrNotFound)
	}
	return c, nil
}

func (f *fakePlatform) GuildRoles(_ context.Context, _ string) ([]*discordgo.Role, error) {
	f.mut.Lock()
	defer f.mut.Unlock()
	return f.roles, nil
}

func (f *fakePlatform) CreateChannel(_ context.Context, guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	f.mut.Lock()
	defer f.mut.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	c := &discordgo.Channel{
		ID:                   "chan-" + strconv.Itoa(f.nextID),
		GuildID:              guildID,
		Name:                 data.Name,
		Type:                 data.Type,
		ParentID:             data.ParentID,
		PermissionOverwrites: data.PermissionOverwrites,
	}
	f.channels[c.ID] = c
	f.created = append(f.created, data)
	return c, nil
}

func (f *fakePlatform) SendMessage(_ context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	f.mut.Lock()
	defer f.mut.Unlock()
	if err := f.sendErr[channelID]; err != nil {
		return nil, err
	}
	files := make(map[string]string)
	for _, file := range msg.Files {
		b, err := io.ReadAll(file.Reader)
		if err != nil {
			return nil, err
		}
		files[file.Name] = string(b)
	}
	f.sent = append(f.sent, sentMessage{channelID: channelID, msg: msg, files: files})
	return &discordgo.Message{ChannelID: channelID}, nil
}

func (f *fakePlatform) ChannelMessages(_ context.Context, channelID string, limit int, beforeID string) ([]*discordgo.Message, error) {
	f.mut.Lock()
	defer f.mut.Unlock()
	f.pages++

	all := f.history[channelID]
	end := len(all)
	if beforeID != "" {
		end = 0
		for i, m := range all {
			if m.ID == beforeID {
				end = i
				break
			}
		}
	}

	page := make([]*discordgo.Message, 0, limit)
	for i := end - 1; i >= 0 && len(page) < limit; i-- {
		page = append(page, all[i])
	}
	return page, nil
}

func (f *fakePlatform) DeleteChannel(_ context.Context, channelID string) error {
	f.mut.Lock()
	defer f.mut.Unlock()
	if _, ok := f.channels[channelID]; !ok {
		return fmt.Errorf("delete channel: %w", discord.ErrNotFound)
	}
	delete(f.channels, channelID)
	f.deleted = append(f.deleted, channelID)
	return nil
}

func (f *fakePlatform) sentTo(channelID string) []sentMessage {
	f.mut.Lock()
	defer f.mut.Unlock()
	out := make([]sentMessage, 0)
	for _, s := range f.sent {
		if s.channelID == channelID {
			out = append(out, s)
		}
	}
	return out
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fixture struct {
	platform *fakePlatform
	store    *dataaccess.FileStore
	configs  *dataaccess.GuildConfigs
	manager  *Manager
}

func newFixture(t *testing.T, configure func(cfg *entities.GuildTicketConfig)) *fixture {
	t.Helper()

	store, err := dataaccess.OpenFileStore(testLogger(), t.TempDir(), "")
	require.NoError(t, err)

	configs := dataaccess.NewGuildConfigs(store)
	if configure != nil {
		_, err := configs.Update(context.Background(), testGuild, func(cfg *entities.GuildTicketConfig) error {
			configure(cfg)
			return nil
		})
		require.NoError(t, err)
	}

	platform := newFakePlatform()
	m := NewManager(testLogger(), platform, configs, store)
	m.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	return &fixture{
		platform: platform,
		store:    store,
		configs:  configs,
		manager:  m,
	}
}

func configured(cfg *entities.GuildTicketConfig) {
	cfg.TicketCategoryID = "cat-1"
	cfg.TranscriptChannelID = "archive-1"
	cfg.SupportRoleIDs = []string{"support"}
}

func overwriteFor(t *testing.T, data discordgo.GuildChannelCreateData, id string) *discordgo.PermissionOverwrite {
	t.Helper()
	for _, o := range data.PermissionOverwrites {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func TestManager_Create(t *testing.T) {
	f := newFixture(t, configured)
	ctx := context.Background()

	ticket, err := f.manager.Create(ctx, CreateRequest{GuildID: testGuild, RequesterID: "user-1"})
	require.NoError(t, err)
	require.Equal(t, int64(1), ticket.Number)
	require.Equal(t, "ticket-1", ticket.Name())
	require.Equal(t, entities.DefaultTicketCategory, ticket.Category)

	require.Len(t, f.platform.created, 1)
	data := f.platform.created[0]
	require.Equal(t, "ticket-1", data.Name)
	require.Equal(t, "cat-1", data.ParentID)
	require.Equal(t, discordgo.ChannelTypeGuildText, data.Type)

	everyone := overwriteFor(t, data, testGuild)
	require.NotNil(t, everyone)
	require.Equal(t, int64(discordgo.PermissionViewChannel), everyone.Deny)
	require.Zero(t, everyone.Allow)

	for _, id := range []string{"user-1", "support"} {
		o := overwriteFor(t, data, id)
		require.NotNil(t, o, id)
		require.Equal(t, int64(ticketAccess), o.Allow)
	}
	require.Equal(t, discordgo.PermissionOverwriteTypeMember, overwriteFor(t, data, "user-1").Type)

	notices := f.platform.sentTo(ticket.ChannelID)
	require.Len(t, notices, 1)
	require.Equal(t, "<@user-1>", notices[0].msg.Content)
	require.Equal(t, "Ticket #1", notices[0].msg.Embeds[0].Title)
	require.Contains(t, notices[0].msg.Embeds[0].Description, "**Type:** General")
	row := notices[0].msg.Components[0].(discordgo.ActionsRow)
	require.Equal(t, CloseTicketButtonID, row.Components[0].(discordgo.Button).CustomID)

	second, err := f.manager.Create(ctx, CreateRequest{GuildID: testGuild, RequesterID: "user-2", Category: "Technical Issue"})
	require.NoError(t, err)
	require.Equal(t, "ticket-2", second.Name())
	require.Equal(t, "Technical Issue", second.Category)
}

func TestManager_Create_SkipsStaleSupportRoles(t *testing.T) {
	f := newFixture(t, func(cfg *entities.GuildTicketConfig) {
		configured(cfg)
		cfg.SupportRoleIDs = []string{"support", "deleted-role"}
	})

	_, err := f.manager.Create(context.Background(), CreateRequest{GuildID: testGuild, RequesterID: "user-1"})
	require.NoError(t, err)

	data := f.platform.created[0]
	require.NotNil(t, overwriteFor(t, data, "support"))
	require.Nil(t, overwriteFor(t, data, "deleted-role"))

	// The stale role is reported, never pruned.
	cfg, err := f.configs.Load(context.Background(), testGuild)
	require.NoError(t, err)
	require.Equal(t, []string{"support", "deleted-role"}, cfg.SupportRoleIDs)

	stale, err := f.manager.StaleSupportRoles(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, []string{"deleted-role"}, stale)
}

func TestManager_Create_Failures(t *testing.T) {
	tests := []struct {
		name      string
		configure func(cfg *entities.GuildTicketConfig)
		setup     func(p *fakePlatform)
		wantErr   error
		counter   int64
	}{
		{
			name:      "no configuration",
			configure: nil,
			wantErr:   ErrConfigurationMissing,
			counter:   0,
		},
		{
			name: "category deleted",
			configure: func(cfg *entities.GuildTicketConfig) {
				configured(cfg)
				cfg.TicketCategoryID = "gone"
			},
			wantErr: ErrCategoryNotFound,
			counter: 0,
		},
		{
			name: "category is a text channel",
			configure: func(cfg *entities.GuildTicketConfig) {
				configured(cfg)
				cfg.TicketCategoryID = "general"
			},
			wantErr: ErrCategoryNotFound,
			counter: 0,
		},
		{
			name:      "channel creation rejected",
			configure: configured,
			setup: func(p *fakePlatform) {
				p.createErr = errors.New("missing permissions")
			},
			counter: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.configure)
			if tt.setup != nil {
				tt.setup(f.platform)
			}

			ticket, err := f.manager.Create(context.Background(), CreateRequest{GuildID: testGuild, RequesterID: "user-1"})
			require.Error(t, err)
			require.Nil(t, ticket)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
			require.Empty(t, f.platform.created)

			current, err := f.store.Current(context.Background(), testGuild)
			require.NoError(t, err)
			require.Equal(t, tt.counter, current)
		})
	}
}

func TestManager_Create_NoticeFailureKeepsTicket(t *testing.T) {
	f := newFixture(t, configured)
	f.platform.sendErr["chan-1"] = errors.New("rate limited")

	ticket, err := f.manager.Create(context.Background(), CreateRequest{GuildID: testGuild, RequesterID: "user-1"})
	require.NoError(t, err)
	require.Equal(t, "chan-1", ticket.ChannelID)
}

func TestManager_Create_ConcurrentNumbersAreUnique(t *testing.T) {
	f := newFixture(t, configured)

	const n = 20
	var wg sync.WaitGroup
	names := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ticket, err := f.manager.Create(context.Background(), CreateRequest{GuildID: testGuild, RequesterID: fmt.Sprintf("user-%d", i)})
			if err == nil {
				names <- ticket.Name()
			}
		}(i)
	}
	wg.Wait()
	close(names)

	seen := make(map[string]bool)
	for name := range names {
		require.False(t, seen[name], name)
		seen[name] = true
	}
	require.Len(t, seen, n)
}

func TestManager_Close(t *testing.T) {
	f := newFixture(t, configured)
	ctx := context.Background()

	ticket, err := f.manager.Create(ctx, CreateRequest{GuildID: testGuild, RequesterID: "user-1"})
	require.NoError(t, err)

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	f.platform.history[ticket.ChannelID] = []*discordgo.Message{
		{ID: "m1", Author: &discordgo.User{Username: "alice"}, Content: "hello", Timestamp: base},
		{ID: "m2", Author: &discordgo.User{Username: "bob"}, Content: "logs attached", Timestamp: base.Add(time.Minute),
			Attachments: []*discordgo.MessageAttachment{{URL: "https://cdn.example/log.txt"}}},
		{ID: "m3", Author: &discordgo.User{Username: "alice"}, Content: "thanks", Timestamp: base.Add(2 * time.Minute)},
	}

	result, err := f.manager.Close(ctx, CloseRequest{
		GuildID:   testGuild,
		ChannelID: ticket.ChannelID,
		Closer:    &discordgo.User{ID: "mod-1", Username: "mod"},
	})
	require.NoError(t, err)
	require.True(t, result.TranscriptDelivered)
	require.NoError(t, result.DeliveryErr)
	require.Equal(t, []string{ticket.ChannelID}, f.platform.deleted)

	archived := f.platform.sentTo("archive-1")
	require.Len(t, archived, 1)
	require.Equal(t, "Ticket Closed: ticket-1", archived[0].msg.Embeds[0].Title)
	require.Len(t, archived[0].files, 1)

	body, ok := archived[0].files["ticket-1-transcript.txt"]
	require.True(t, ok)
	require.Contains(t, body, "Transcript for ticket-1")
	require.Contains(t, body, "Closed by: mod")

	hello := strings.Index(body, "alice: hello")
	logs := strings.Index(body, "bob: logs attached")
	thanks := strings.Index(body, "alice: thanks")
	require.True(t, hello >= 0 && hello < logs && logs < thanks, body)
	require.Contains(t, body, "  [Attachment: https://cdn.example/log.txt]")
}

func TestManager_Close_NotATicket(t *testing.T) {
	f := newFixture(t, configured)

	result, err := f.manager.Close(context.Background(), CloseRequest{
		GuildID:   testGuild,
		ChannelID: "general",
		Closer:    &discordgo.User{ID: "mod-1"},
	})
	require.ErrorIs(t, err, ErrNotATicketChannel)
	require.Nil(t, result)
	require.Empty(t, f.platform.deleted)
	require.Empty(t, f.platform.sent)
	require.Zero(t, f.platform.pages)
}

func TestManager_Close_ChannelGone(t *testing.T) {
	f := newFixture(t, configured)

	_, err := f.manager.Close(context.Background(), CloseRequest{GuildID: testGuild, ChannelID: "missing"})
	require.ErrorIs(t, err, ErrChannelNotFound)
}

func TestManager_Close_TranscriptNotDelivered(t *testing.T) {
	tests := []struct {
		name      string
		configure func(cfg *entities.GuildTicketConfig)
		setup     func(p *fakePlatform)
		wantErr   bool
	}{
		{
			name: "archive not configured",
			configure: func(cfg *entities.GuildTicketConfig) {
				configured(cfg)
				cfg.TranscriptChannelID = ""
			},
		},
		{
			name: "archive deleted",
			configure: func(cfg *entities.GuildTicketConfig) {
				configured(cfg)
				cfg.TranscriptChannelID = "gone"
			},
			wantErr: true,
		},
		{
			name:      "archive rejects message",
			configure: configured,
			setup: func(p *fakePlatform) {
				p.sendErr["archive-1"] = errors.New("missing access")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.configure)
			ctx := context.Background()

			ticket, err := f.manager.Create(ctx, CreateRequest{GuildID: testGuild, RequesterID: "user-1"})
			require.NoError(t, err)
			if tt.setup != nil {
				tt.setup(f.platform)
			}

			result, err := f.manager.Close(ctx, CloseRequest{
				GuildID:   testGuild,
				ChannelID: ticket.ChannelID,
				Closer:    &discordgo.User{ID: "mod-1"},
			})
			require.NoError(t, err)
			require.False(t, result.TranscriptDelivered)
			require.Equal(t, []string{ticket.ChannelID}, f.platform.deleted)

			if tt.wantErr {
				require.ErrorIs(t, result.DeliveryErr, ErrTranscriptDeliveryFailed)
			} else {
				require.NoError(t, result.DeliveryErr)
			}
		})
	}
}

func TestManager_Close_PagesThroughHistory(t *testing.T) {
	f := newFixture(t, configured)
	ctx := context.Background()

	ticket, err := f.manager.Create(ctx, CreateRequest{GuildID: testGuild, RequesterID: "user-1"})
	require.NoError(t, err)

	const total = 250
	history := make([]*discordgo.Message, 0, total)
	for i := 0; i < total; i++ {
		history = append(history, &discordgo.Message{
			ID:      fmt.Sprintf("m%03d", i),
			Author:  &discordgo.User{Username: "alice"},
			Content: fmt.Sprintf("message %03d", i),
		})
	}
	f.platform.history[ticket.ChannelID] = history

	result, err := f.manager.Close(ctx, CloseRequest{GuildID: testGuild, ChannelID: ticket.ChannelID, Closer: &discordgo.User{ID: "mod-1"}})
	require.NoError(t, err)
	require.Len(t, result.Transcript.Messages, total)
	require.Equal(t, 3, f.platform.pages)
	require.Equal(t, "m000", result.Transcript.Messages[0].ID)
	require.Equal(t, "m249", result.Transcript.Messages[total-1].ID)
}

func TestManager_SupportRoleChangesAreNotRetroactive(t *testing.T) {
	f := newFixture(t, configured)
	ctx := context.Background()

	ticket, err := f.manager.Create(ctx, CreateRequest{GuildID: testGuild, RequesterID: "user-1"})
	require.NoError(t, err)

	_, err = f.configs.Update(ctx, testGuild, func(cfg *entities.GuildTicketConfig) error {
		cfg.RemoveSupportRole("support")
		return nil
	})
	require.NoError(t, err)

	existing := f.platform.channels[ticket.ChannelID]
	found := false
	for _, o := range existing.PermissionOverwrites {
		if o.ID == "support" {
			found = true
		}
	}
	require.True(t, found)

	next, err := f.manager.Create(ctx, CreateRequest{GuildID: testGuild, RequesterID: "user-2"})
	require.NoError(t, err)
	require.Nil(t, overwriteFor(t, f.platform.created[1], "support"))
	require.Equal(t, "ticket-2", next.Name())
}
