package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/logging"
	"github.com/Jacobbrewer1/warden/pkg/tickets"
)

// createTicketButton opens a ticket of the default category.
func createTicketButton(ctx context.Context, a *App, i *discordgo.InteractionCreate) error {
	return createTicket(ctx, a, i, "")
}

// createTicketDropdown opens a ticket of the selected category.
func createTicketDropdown(ctx context.Context, a *App, i *discordgo.InteractionCreate) error {
	return createTicket(ctx, a, i, tickets.CategoryFromSelection(i.MessageComponentData().Values))
}

func createTicket(ctx context.Context, a *App, i *discordgo.InteractionCreate, category string) error {
	if err := deferEphemeral(a, i); err != nil {
		return fmt.Errorf("error acknowledging interaction: %w", err)
	}

	ticket, err := a.tickets.Create(ctx, tickets.CreateRequest{
		GuildID:     i.GuildID,
		RequesterID: invoker(i).ID,
		Category:    category,
	})
	if err != nil {
		return afterResponse(err)
	}

	if err := followupEphemeral(a, i, fmt.Sprintf("Ticket created! <#%s>", ticket.ChannelID)); err != nil {
		return fmt.Errorf("error confirming ticket: %w", err)
	}
	return nil
}

// closeTicketButton closes the ticket the button was pressed in.
func closeTicketButton(ctx context.Context, a *App, i *discordgo.InteractionCreate) error {
	return closeTicket(ctx, a, i)
}

func ticketCmdController(ctx context.Context, a *App, i *discordgo.InteractionCreate) error {
	sub, _ := commandOptions(i)
	switch sub {
	case CloseCmdName:
		return closeTicket(ctx, a, i)
	default:
		return fmt.Errorf("unhandled sub command %s", sub)
	}
}

// closeTicket archives and deletes the ticket channel the interaction came from. The channel is
// gone on success, so only failures get an answer.
func closeTicket(ctx context.Context, a *App, i *discordgo.InteractionCreate) error {
	if err := deferEphemeral(a, i); err != nil {
		return fmt.Errorf("error acknowledging interaction: %w", err)
	}

	result, err := a.tickets.Close(ctx, tickets.CloseRequest{
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		Closer:    invoker(i),
	})
	if err != nil {
		return afterResponse(err)
	}

	if result.DeliveryErr != nil {
		a.Warn("Ticket closed without transcript",
			slog.String(logging.KeyGuildID, i.GuildID),
			slog.String("ticket", result.Transcript.ChannelName),
			slog.String(logging.KeyError, result.DeliveryErr.Error()),
		)
	}
	return nil
}
