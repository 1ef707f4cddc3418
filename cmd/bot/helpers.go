package main

import (
	"errors"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/messages"
)

// respondedError marks a failure that happened after the interaction was acknowledged, so the
// notice has to be sent as a followup.
type respondedError struct {
	err error
}

func (e *respondedError) Error() string {
	return e.err.Error()
}

func (e *respondedError) Unwrap() error {
	return e.err
}

// afterResponse marks err as happening after the interaction was acknowledged.
func afterResponse(err error) error {
	if err == nil {
		return nil
	}
	return &respondedError{err: err}
}

func respondError(a IApp, i *discordgo.InteractionCreate, err error) error {
	notice := messages.ForError(err)

	var re *respondedError
	if errors.As(err, &re) {
		return followupEphemeral(a, i, notice)
	}
	return respondEphemeral(a, i, notice)
}

func respondEphemeral(a IApp, i *discordgo.InteractionCreate, content string) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func respondContent(a IApp, i *discordgo.InteractionCreate, content string) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}

func respondEmbed(a IApp, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// deferEphemeral acknowledges the interaction with a private "thinking" state.
func deferEphemeral(a IApp, i *discordgo.InteractionCreate) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}

func followupEphemeral(a IApp, i *discordgo.InteractionCreate, content string) error {
	_, err := a.Session().FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	return err
}

// invoker returns the user behind the interaction, in a guild or in a direct message.
func invoker(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// hasPermission reports whether the invoking member holds perm. Administrators hold everything.
func hasPermission(i *discordgo.InteractionCreate, perm int64) bool {
	if perm == 0 {
		return true
	}
	if i.Member == nil {
		return false
	}
	if i.Member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return i.Member.Permissions&perm == perm
}

type optionMap = map[string]*discordgo.ApplicationCommandInteractionDataOption

// commandOptions returns the options of the invoked command, or of its sub command if one was
// used, keyed by name.
func commandOptions(i *discordgo.InteractionCreate) (string, optionMap) {
	opts := i.ApplicationCommandData().Options

	sub := ""
	if len(opts) == 1 && opts[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		sub = opts[0].Name
		opts = opts[0].Options
	}

	m := make(optionMap, len(opts))
	for _, o := range opts {
		m[o.Name] = o
	}
	return sub, m
}

// optionString returns the string option, or def when it was not given.
func optionString(opts optionMap, name, def string) string {
	if o, ok := opts[name]; ok {
		return o.StringValue()
	}
	return def
}

// optionID returns the snowflake of a user, role or channel option.
func optionID(opts optionMap, name string) string {
	o, ok := opts[name]
	if !ok {
		return ""
	}
	id, _ := o.Value.(string)
	return id
}
