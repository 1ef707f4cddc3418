package main

import (
	"context"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/moderation"
)

const defaultReason = "No reason provided"

func moderationAction(i *discordgo.InteractionCreate, opts optionMap) moderation.Action {
	return moderation.Action{
		GuildID:  i.GuildID,
		ActorID:  invoker(i).ID,
		TargetID: optionID(opts, userOption),
		Reason:   optionString(opts, reasonOption, defaultReason),
	}
}

func addRoleCmd(ctx context.Context, a *App, i *discordgo.InteractionCreate) error {
	_, opts := commandOptions(i)
	action := moderationAction(i, opts)

	role, err := a.moderator.AddRole(ctx, action, optionID(opts, roleOption))
	if err != nil {
		return err
	}
	return respondContent(a, i, fmt.Sprintf("Added role **%s** to <@%s>", role.Name, action.TargetID))
}

func removeRoleCmd(ctx context.Context, a *App, i *discordgo.InteractionCreate) error {
	_, opts := commandOptions(i)
	action := moderationAction(i, opts)

	role, err := a.moderator.RemoveRole(ctx, action, optionID(opts, roleOption))
	if err != nil {
		return err
	}
	return respondContent(a, i, fmt.Sprintf("Removed role **%s** from <@%s>", role.Name, action.TargetID))
}

func kickCmd(ctx context.Context, a *App, i *discordgo.InteractionCreate) error {
	_, opts := commandOptions(i)
	action := moderationAction(i, opts)

	if err := a.moderator.Kick(ctx, action); err != nil {
		return err
	}
	return respondContent(a, i, fmt.Sprintf("<@%s> has been kicked. Reason: %s", action.TargetID, action.Reason))
}

func banCmd(ctx context.Context, a *App, i *discordgo.InteractionCreate) error {
	_, opts := commandOptions(i)
	action := moderationAction(i, opts)

	if err := a.moderator.Ban(ctx, action); err != nil {
		return err
	}
	return respondContent(a, i, fmt.Sprintf("<@%s> has been banned. Reason: %s", action.TargetID, action.Reason))
}

func unbanCmd(ctx context.Context, a *App, i *discordgo.InteractionCreate) error {
	_, opts := commandOptions(i)

	user, err := a.moderator.Unban(ctx, i.GuildID, invoker(i).ID, optionString(opts, userIDOption, ""))
	if err != nil {
		return err
	}
	return respondContent(a, i, fmt.Sprintf("**%s** has been unbanned.", user.Username))
}

func timeoutCmd(ctx context.Context, a *App, i *discordgo.InteractionCreate) error {
	_, opts := commandOptions(i)
	action := moderationAction(i, opts)

	minutes := 0
	if o, ok := opts[durationOption]; ok {
		minutes = int(o.IntValue())
	}

	until, err := a.moderator.Timeout(ctx, action, minutes)
	if err != nil {
		return err
	}
	return respondContent(a, i, fmt.Sprintf("<@%s> has been timed out until <t:%d:f>. Reason: %s", action.TargetID, until.Unix(), action.Reason))
}

func clearCmd(ctx context.Context, a *App, i *discordgo.InteractionCreate) error {
	_, opts := commandOptions(i)

	amount := 0
	if o, ok := opts[amountOption]; ok {
		amount = int(o.IntValue())
	}

	if err := deferEphemeral(a, i); err != nil {
		return fmt.Errorf("error acknowledging interaction: %w", err)
	}

	deleted, skipped, err := a.moderator.Purge(ctx, i.ChannelID, amount)
	if err != nil {
		return afterResponse(err)
	}
	return followupEphemeral(a, i, purgeNotice(deleted, skipped))
}

func purgeNotice(deleted, skipped int) string {
	notice := fmt.Sprintf("Deleted %d messages.", deleted)
	if skipped > 0 {
		notice += fmt.Sprintf(" %d messages older than 14 days cannot be bulk deleted.", skipped)
	}
	return notice
}
