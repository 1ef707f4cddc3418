package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// streamURL is shown for streaming activities, which the platform only accepts with a URL.
const streamURL = "https://twitch.tv/discord"

var activityTypes = map[string]discordgo.ActivityType{
	"playing":   discordgo.ActivityTypeGame,
	"streaming": discordgo.ActivityTypeStreaming,
	"listening": discordgo.ActivityTypeListening,
	"watching":  discordgo.ActivityTypeWatching,
	"competing": discordgo.ActivityTypeCompeting,
}

var statuses = []string{"online", "idle", "dnd", "invisible"}

func activityTypeChoices() []*discordgo.ApplicationCommandOptionChoice {
	names := []string{"playing", "streaming", "listening", "watching", "competing"}
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(names))
	for _, n := range names {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: label(n), Value: n})
	}
	return choices
}

func statusChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(statuses))
	for _, s := range statuses {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: label(s), Value: s})
	}
	return choices
}

// label title cases an option value for display.
func label(s string) string {
	if s == "dnd" {
		return "Do Not Disturb"
	}
	return cases.Title(language.English).String(s)
}

// presence builds the status update of the activity command.
func presence(kind, text, status string) (discordgo.UpdateStatusData, error) {
	t, ok := activityTypes[kind]
	if !ok {
		return discordgo.UpdateStatusData{}, fmt.Errorf("unknown activity type %q", kind)
	}

	valid := false
	for _, s := range statuses {
		valid = valid || s == status
	}
	if !valid {
		return discordgo.UpdateStatusData{}, fmt.Errorf("unknown status %q", status)
	}

	activity := &discordgo.Activity{
		Name: text,
		Type: t,
	}
	if t == discordgo.ActivityTypeStreaming {
		activity.URL = streamURL
	}

	return discordgo.UpdateStatusData{
		Status:     status,
		Activities: []*discordgo.Activity{activity},
	}, nil
}

func activityCmd(_ context.Context, a *App, i *discordgo.InteractionCreate) error {
	_, opts := commandOptions(i)
	kind := optionString(opts, typeOption, "playing")
	text := optionString(opts, textOption, "")
	status := optionString(opts, statusOption, "online")

	data, err := presence(kind, text, status)
	if err != nil {
		return err
	}

	if err := a.s.UpdateStatusComplex(data); err != nil {
		return fmt.Errorf("error updating status: %w", err)
	}
	return respondEphemeral(a, i, fmt.Sprintf("Status set to **%s**, %s **%s**", label(status), label(kind), text))
}

func pingCmd(_ context.Context, a *App, i *discordgo.InteractionCreate) error {
	return respondContent(a, i, fmt.Sprintf("Pong! %dms", a.s.HeartbeatLatency().Milliseconds()))
}

func serverInfoCmd(ctx context.Context, a *App, i *discordgo.InteractionCreate) error {
	g, err := a.s.State.Guild(i.GuildID)
	if err != nil {
		if g, err = a.platform.Guild(ctx, i.GuildID); err != nil {
			return err
		}
	}

	created, err := discordgo.SnowflakeTimestamp(g.ID)
	if err != nil {
		return fmt.Errorf("error reading guild id: %w", err)
	}

	return respondEmbed(a, i, &discordgo.MessageEmbed{
		Title: g.Name,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Owner", Value: fmt.Sprintf("<@%s>", g.OwnerID), Inline: true},
			{Name: "Members", Value: fmt.Sprintf("%d", g.MemberCount), Inline: true},
			{Name: "Roles", Value: fmt.Sprintf("%d", len(g.Roles)), Inline: true},
			{Name: "Channels", Value: fmt.Sprintf("%d", len(g.Channels)), Inline: true},
			{Name: "Created", Value: discordTime(created), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "ID: " + g.ID},
	}, false)
}

func userInfoCmd(ctx context.Context, a *App, i *discordgo.InteractionCreate) error {
	_, opts := commandOptions(i)
	userID := optionID(opts, userOption)
	if userID == "" {
		userID = invoker(i).ID
	}

	m, err := a.platform.Member(ctx, i.GuildID, userID)
	if err != nil {
		return err
	}

	created, err := discordgo.SnowflakeTimestamp(userID)
	if err != nil {
		return fmt.Errorf("error reading user id: %w", err)
	}

	roles := "None"
	if len(m.Roles) > 0 {
		mentions := make([]string, 0, len(m.Roles))
		for _, id := range m.Roles {
			mentions = append(mentions, fmt.Sprintf("<@&%s>", id))
		}
		roles = strings.Join(mentions, " ")
	}

	return respondEmbed(a, i, &discordgo.MessageEmbed{
		Title:     m.User.Username,
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: m.User.AvatarURL("256")},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Account created", Value: discordTime(created), Inline: true},
			{Name: "Joined", Value: discordTime(m.JoinedAt), Inline: true},
			{Name: "Roles", Value: roles},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "ID: " + m.User.ID},
	}, false)
}

func discordTime(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return fmt.Sprintf("<t:%d:D>", t.Unix())
}

// helpFields lists the commands the member can use.
func helpFields(i *discordgo.InteractionCreate, commands []*slashCommand) []*discordgo.MessageEmbedField {
	fields := make([]*discordgo.MessageEmbedField, 0, len(commands))
	for _, c := range commands {
		if !hasPermission(i, c.permission) {
			continue
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "/" + c.def.Name,
			Value: c.def.Description,
		})
	}
	return fields
}

func helpCmd(_ context.Context, a *App, i *discordgo.InteractionCreate) error {
	return respondEmbed(a, i, &discordgo.MessageEmbed{
		Title:  "Commands",
		Fields: helpFields(i, a.commands),
	}, true)
}

// dumpCmd registers the command table of the guild again.
func dumpCmd(_ context.Context, a *App, i *discordgo.InteractionCreate) error {
	if err := a.registerCommands(i.GuildID); err != nil {
		return err
	}

	names := make([]string, 0, len(a.commands))
	for _, c := range a.commands {
		names = append(names, "/"+c.def.Name)
	}
	return respondEphemeral(a, i, fmt.Sprintf("Registered %d commands: %s", len(names), strings.Join(names, ", ")))
}
